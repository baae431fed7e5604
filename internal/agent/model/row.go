package model

import "fmt"

// Column is one position in the flat row layout shared by every lead sink.
// Field is FieldNone for the UID and Lead Type columns.
type Column struct {
	Header string
	Name   string // SQL-safe identifier
	Field  Field
}

const (
	headerUID      = "UID"
	headerLeadType = "Lead Type"
)

// Columns is the fixed row layout. Order matters: rows are positional.
var Columns = []Column{
	{headerUID, "uid", FieldNone},
	{"Name", "name", FieldName},
	{"Email", "email", FieldEmail},
	{"Phone", "phone", FieldPhone},
	{"Location", "location", FieldLocation},
	{"Budget", "budget", FieldBudgetRange},
	{"Property Type", "property_type", FieldPropertyType},
	{"Property Size", "property_size", FieldPropertySize},
	{"Timeline", "timeline", FieldTimeline},
	{"Interest", "interest", FieldInterestLevel},
	{"Status", "status", FieldStatus},
	{"Created Date", "created_date", FieldCreatedAt},
	{"Last Contact Date", "last_contact_date", FieldLastContactAt},
	{headerLeadType, "lead_type", FieldNone},
	{"Use Case", "use_case", FieldUseCase},
	{"Company", "company", FieldCompany},
	{"Position", "position", FieldPosition},
	{"Industry", "industry", FieldIndustry},
	{"Company Size", "company_size", FieldCompanySize},
	{"Decision Maker", "decision_maker", FieldDecisionMaker},
	{"Next Follow-up", "next_followup", FieldNextFollowup},
	{"Follow-up Required", "followup_required", FieldFollowupRequired},
	{"Call Outcome", "call_outcome", FieldCallOutcome},
	{"Notes", "notes", FieldNotes},
	{"Lead Source", "lead_source", FieldLeadSource},
	{"Competitors", "competitors", FieldCompetitors},
	{"Contact Method", "contact_method", FieldContactMethod},
	{"Availability", "availability", FieldAvailability},
	{"Last Updated", "last_updated", FieldLastUpdatedAt},
}

// Row flattens the record into Columns order. Unset fields render as "" and
// not-applicable fields as "-".
func (r *LeadRecord) Row() []string {
	row := make([]string, len(Columns))
	for i, c := range Columns {
		switch c.Header {
		case headerUID:
			row[i] = r.ID
		case headerLeadType:
			row[i] = string(r.LeadType)
		default:
			row[i] = r.Get(c.Field).Text()
		}
	}
	return row
}

// RecordFromRow rebuilds a record from a row produced by Row. Short rows are
// padded with unset values.
func RecordFromRow(row []string) (*LeadRecord, error) {
	if len(row) > len(Columns) {
		return nil, fmt.Errorf("lead row has %d cells, layout has %d", len(row), len(Columns))
	}
	rec := &LeadRecord{}
	for i, cell := range row {
		c := Columns[i]
		switch c.Header {
		case headerUID:
			rec.ID = cell
		case headerLeadType:
			rec.LeadType = ParseLeadType(cell)
		default:
			rec.Put(c.Field, ParseFieldValue(cell))
		}
	}
	return rec, nil
}
