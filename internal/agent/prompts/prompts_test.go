package prompts

import (
	"context"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/Chative-core-poc-v1/leadqual/internal/agent/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderExtraction(t *testing.T) {
	out, err := RenderExtraction(context.Background(), ExtractionVars{
		Utterance: "I'm John, budget 500k",
		Known:     "Name: unknown",
		LastAsked: model.FieldName,
	})
	require.NoError(t, err)
	assert.Contains(t, out, `Message: "I'm John, budget 500k"`)
	assert.Contains(t, out, "Lead type: Not determined yet")
	assert.Contains(t, out, "Last question was about: Name")
	assert.Contains(t, out, "Budget Range")
}

func TestRenderQuestionOmitsEmptyLastAsked(t *testing.T) {
	out, err := RenderQuestion(context.Background(), QuestionVars{
		Transcript: []model.Turn{{Role: model.RoleAgent, Text: "Hi"}, {Role: model.RoleUser, Text: "yes"}},
		Known:      "",
		Remaining:  []model.Field{model.FieldName, model.FieldEmail},
		Focus:      model.FieldName,
	})
	require.NoError(t, err)
	assert.Contains(t, out, "Agent: Hi\nUser: yes")
	assert.Contains(t, out, "- Name\n- Email")
	assert.Contains(t, out, "Ask the client about: Name")
	assert.NotContains(t, out, "previous question")
}

func TestRenderSystemUsesPersona(t *testing.T) {
	out, err := RenderSystem(context.Background(), model.PersonaConfig{AgentName: "Rachel", CompanyName: "Acme Homes"})
	require.NoError(t, err)
	assert.Contains(t, out, "You are Rachel")
	assert.Contains(t, out, "at Acme Homes")
}

func TestRenderFollowUp(t *testing.T) {
	today := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	out, err := RenderFollowUp(context.Background(), FollowUpVars{
		InterestLevel: "Hot",
		AgentName:     "Rachel",
		LeadType:      model.LeadTypeResidential,
		Today:         today,
	})
	require.NoError(t, err)
	assert.Contains(t, out, "this hot lead")
	assert.Contains(t, out, "Today is 2024-03-01.")
	assert.Contains(t, out, "Lead type: residential")
}

func TestDefaultQuestionBank(t *testing.T) {
	qb := DefaultQuestionBank()
	rng := rand.New(rand.NewPCG(1, 2))

	q := qb.Ask(model.FieldName, rng)
	assert.Contains(t, qb.Phrasings(model.FieldName), q)

	assert.Equal(t, "Could you tell me about your follow-up required?", qb.Ask(model.FieldFollowupRequired, rng))
}

func TestParseQuestionBankRejectsUnknownFields(t *testing.T) {
	_, err := ParseQuestionBank([]byte("favourite_colour:\n  - What colour?\n"))
	assert.Error(t, err)
}

func TestParseQuestionBankAcceptsLabels(t *testing.T) {
	qb, err := ParseQuestionBank([]byte("Budget Range:\n  - How much?\n"))
	require.NoError(t, err)
	assert.Equal(t, "How much?", qb.Ask(model.FieldBudgetRange, nil))
}
