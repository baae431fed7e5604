package model

import "strings"

// Field identifies one scalar attribute of a lead record.
type Field int

const (
	FieldNone Field = iota

	// contact
	FieldName
	FieldEmail
	FieldPhone

	// property
	FieldLocation
	FieldBudgetRange
	FieldPropertyType
	FieldPropertySize
	FieldTimeline

	// business
	FieldCompany
	FieldPosition
	FieldIndustry
	FieldCompanySize
	FieldDecisionMaker

	// qualitative
	FieldInterestLevel
	FieldUseCase
	FieldCompetitors
	FieldNotes
	FieldContactMethod
	FieldAvailability

	// lifecycle
	FieldStatus
	FieldCreatedAt
	FieldLastContactAt
	FieldLastUpdatedAt
	FieldNextFollowup
	FieldCallOutcome
	FieldFollowupRequired

	// provenance
	FieldLeadSource

	numFields
)

type fieldMeta struct {
	key   string
	label string
}

var fieldTable = [numFields]fieldMeta{
	FieldNone:             {"", ""},
	FieldName:             {"name", "Name"},
	FieldEmail:            {"email", "Email"},
	FieldPhone:            {"phone", "Phone"},
	FieldLocation:         {"location", "Location"},
	FieldBudgetRange:      {"budget_range", "Budget Range"},
	FieldPropertyType:     {"property_type", "Property Type"},
	FieldPropertySize:     {"property_size", "Property Size"},
	FieldTimeline:         {"timeline", "Timeline"},
	FieldCompany:          {"company", "Company"},
	FieldPosition:         {"position", "Position"},
	FieldIndustry:         {"industry", "Industry"},
	FieldCompanySize:      {"company_size", "Company Size"},
	FieldDecisionMaker:    {"decision_maker", "Decision Maker"},
	FieldInterestLevel:    {"interest_level", "Interest Level"},
	FieldUseCase:          {"use_case", "Use Case"},
	FieldCompetitors:      {"competitors", "Competitors"},
	FieldNotes:            {"notes", "Notes"},
	FieldContactMethod:    {"contact_method", "Contact Method"},
	FieldAvailability:     {"availability", "Availability"},
	FieldStatus:           {"status", "Status"},
	FieldCreatedAt:        {"created_at", "Created Date"},
	FieldLastContactAt:    {"last_contact_at", "Last Contact Date"},
	FieldLastUpdatedAt:    {"last_updated_at", "Last Updated"},
	FieldNextFollowup:     {"next_followup", "Next Follow-up"},
	FieldCallOutcome:      {"call_outcome", "Call Outcome"},
	FieldFollowupRequired: {"followup_required", "Follow-up Required"},
	FieldLeadSource:       {"lead_source", "Lead Source"},
}

// Key returns the snake_case identifier used in JSON and logs.
func (f Field) Key() string {
	if !f.Valid() {
		return ""
	}
	return fieldTable[f].key
}

// Label returns the human-readable name used in prompts and row headers.
func (f Field) Label() string {
	if !f.Valid() {
		return ""
	}
	return fieldTable[f].label
}

func (f Field) String() string { return f.Key() }

// Valid reports whether f names a real field.
func (f Field) Valid() bool { return f > FieldNone && f < numFields }

// AllFields lists every scalar field in declaration order.
func AllFields() []Field {
	out := make([]Field, 0, numFields-1)
	for f := FieldName; f < numFields; f++ {
		out = append(out, f)
	}
	return out
}

// EssentialFields gate the transition out of information gathering.
var EssentialFields = []Field{
	FieldName,
	FieldEmail,
	FieldPhone,
	FieldLocation,
	FieldBudgetRange,
	FieldPropertyType,
	FieldPropertySize,
	FieldTimeline,
}

// SkippedFields are never asked for directly; inference fills them.
var SkippedFields = map[Field]bool{
	FieldInterestLevel: true,
	FieldUseCase:       true,
	FieldCompetitors:   true,
	FieldCallOutcome:   true,
	FieldNotes:         true,
}

// CommercialOnlyFields are not applicable to residential leads.
var CommercialOnlyFields = []Field{FieldCompany, FieldPosition, FieldIndustry, FieldCompanySize}

// ResidentialOnlyFields are not applicable to commercial leads.
var ResidentialOnlyFields = []Field{FieldUseCase}

// PromptableFields is the order in which unset fields may be asked about.
var PromptableFields = []Field{
	FieldName,
	FieldEmail,
	FieldPhone,
	FieldLocation,
	FieldBudgetRange,
	FieldPropertyType,
	FieldPropertySize,
	FieldTimeline,
	FieldCompany,
	FieldPosition,
	FieldIndustry,
	FieldCompanySize,
	FieldDecisionMaker,
	FieldContactMethod,
	FieldAvailability,
}

var fieldAliases = map[string]Field{
	"budget":             FieldBudgetRange,
	"interest":           FieldInterestLevel,
	"created_date":       FieldCreatedAt,
	"last_contact_date":  FieldLastContactAt,
	"last_contact":       FieldLastContactAt,
	"last_updated":       FieldLastUpdatedAt,
	"next_follow_up":     FieldNextFollowup,
	"follow_up_required": FieldFollowupRequired,
	"followup":           FieldNextFollowup,
}

var fieldIndex = buildFieldIndex()

func buildFieldIndex() map[string]Field {
	idx := make(map[string]Field, 3*int(numFields))
	for f := FieldName; f < numFields; f++ {
		idx[normalizeFieldName(fieldTable[f].key)] = f
		idx[normalizeFieldName(fieldTable[f].label)] = f
	}
	for k, f := range fieldAliases {
		idx[normalizeFieldName(k)] = f
	}
	return idx
}

func normalizeFieldName(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.NewReplacer(" ", "_", "-", "_").Replace(s)
}

// ParseField resolves a key, label or known alias ("Budget Range",
// "budget_range", "Next Follow-up") to a Field.
func ParseField(name string) (Field, bool) {
	f, ok := fieldIndex[normalizeFieldName(name)]
	return f, ok
}
