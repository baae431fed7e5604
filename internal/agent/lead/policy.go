package lead

import "github.com/Chative-core-poc-v1/leadqual/internal/agent/model"

var baseLoggable = []model.Field{
	model.FieldName,
	model.FieldEmail,
	model.FieldPhone,
	model.FieldLocation,
	model.FieldBudgetRange,
}

var residentialLoggable = []model.Field{
	model.FieldUseCase,
	model.FieldInterestLevel,
}

var commercialLoggable = []model.Field{
	model.FieldCompany,
	model.FieldPosition,
	model.FieldIndustry,
	model.FieldCompanySize,
	model.FieldDecisionMaker,
}

// IsEssentialComplete reports whether every essential field has left the
// unset state. A not-applicable value counts as filled.
func IsEssentialComplete(s *Store) bool {
	return len(s.RemainingEssential()) == 0
}

// IsReadyToLog reports whether the record carries real values for the base
// contact fields and for the fields its lead type requires.
func IsReadyToLog(s *Store) bool {
	var typed []model.Field
	switch s.LeadType() {
	case model.LeadTypeResidential:
		typed = residentialLoggable
	case model.LeadTypeCommercial:
		typed = commercialLoggable
	default:
		return false
	}
	return allKnown(s, baseLoggable) && allKnown(s, typed)
}

func allKnown(s *Store, fs []model.Field) bool {
	for _, f := range fs {
		if !s.Get(f).Known() {
			return false
		}
	}
	return true
}
