package lead

import (
	"testing"

	"github.com/Chative-core-poc-v1/leadqual/internal/agent/model"
	"github.com/stretchr/testify/assert"
)

func fill(s *Store, values map[model.Field]string) {
	for f, v := range values {
		s.SetIfUnset(f, v)
	}
}

var essentials = map[model.Field]string{
	model.FieldName:         "John",
	model.FieldEmail:        "john@x.com",
	model.FieldPhone:        "5551234567",
	model.FieldLocation:     "Lahore",
	model.FieldBudgetRange:  "$500k",
	model.FieldPropertyType: "House",
	model.FieldPropertySize: "3 bedrooms",
	model.FieldTimeline:     "3 months",
}

func TestIsEssentialComplete(t *testing.T) {
	s := NewStore("lead-1")
	assert.False(t, IsEssentialComplete(s))

	fill(s, essentials)
	assert.True(t, IsEssentialComplete(s))
}

func TestIsEssentialCompleteCountsNotApplicable(t *testing.T) {
	s := NewStore("lead-1")
	fill(s, essentials)
	s.rec.Put(model.FieldPropertySize, model.NotApplicable)

	assert.True(t, IsEssentialComplete(s))
}

func TestIsReadyToLogNeedsLeadType(t *testing.T) {
	s := NewStore("lead-1")
	fill(s, essentials)
	fill(s, map[model.Field]string{model.FieldUseCase: "Family", model.FieldInterestLevel: "Hot"})

	assert.False(t, IsReadyToLog(s))
	s.SetLeadType(model.LeadTypeResidential)
	assert.True(t, IsReadyToLog(s))
}

func TestIsReadyToLogCommercial(t *testing.T) {
	s := NewStore("lead-1")
	s.SetLeadType(model.LeadTypeCommercial)
	fill(s, essentials)
	fill(s, map[model.Field]string{
		model.FieldCompany:     "Acme",
		model.FieldPosition:    "CEO",
		model.FieldIndustry:    "Retail",
		model.FieldCompanySize: "50",
	})
	assert.False(t, IsReadyToLog(s), "decision maker still missing")

	s.SetIfUnset(model.FieldDecisionMaker, model.NotProvided)
	assert.False(t, IsReadyToLog(s), "placeholder does not count")

	s.Upgrade(model.FieldDecisionMaker, "Yes")
	assert.True(t, IsReadyToLog(s))
}
