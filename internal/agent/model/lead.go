package model

import "strings"

// LeadType partitions leads into residential and commercial.
type LeadType string

const (
	LeadTypeUnset       LeadType = ""
	LeadTypeResidential LeadType = "residential"
	LeadTypeCommercial  LeadType = "commercial"
)

func (t LeadType) Valid() bool {
	return t == LeadTypeResidential || t == LeadTypeCommercial
}

// ParseLeadType accepts "residential"/"commercial" in any case.
func ParseLeadType(s string) LeadType {
	switch LeadType(strings.ToLower(strings.TrimSpace(s))) {
	case LeadTypeResidential:
		return LeadTypeResidential
	case LeadTypeCommercial:
		return LeadTypeCommercial
	default:
		return LeadTypeUnset
	}
}

// Well-known field values written by the agent.
const (
	StatusNewLead       = "New Lead"
	StatusReturningLead = "Returning Lead"
	LeadSourceAIChat    = "AI Chat"
	OutcomeGathered     = "Information Gathered"

	InterestHot  = "Hot"
	InterestWarm = "Warm"
	InterestCold = "Cold"
)

// TimestampLayout is the wall-clock format used for lifecycle fields.
const TimestampLayout = "2006-01-02 15:04:05"

// LeadRecord is one prospect: an opaque ID, a lead type and a tri-state
// value per Field. The zero value is an empty record.
type LeadRecord struct {
	ID       string
	LeadType LeadType
	values   [numFields]FieldValue
}

// NewLeadRecord returns an empty record with the given ID.
func NewLeadRecord(id string) *LeadRecord {
	return &LeadRecord{ID: id}
}

// Get returns the current value of f.
func (r *LeadRecord) Get(f Field) FieldValue {
	if !f.Valid() {
		return Unset
	}
	return r.values[f]
}

// Put stores v unconditionally. Invariants live in the lead store; sinks and
// decoders use Put directly.
func (r *LeadRecord) Put(f Field, v FieldValue) {
	if !f.Valid() {
		return
	}
	r.values[f] = v
}

// Clone returns an independent copy.
func (r *LeadRecord) Clone() *LeadRecord {
	if r == nil {
		return nil
	}
	cp := *r
	return &cp
}

// Email returns the normalised email used for returning-lead lookups, or ""
// when none is known.
func (r *LeadRecord) Email() string {
	v := r.Get(FieldEmail)
	if !v.Known() {
		return ""
	}
	return strings.ToLower(v.Text())
}

// Fields returns label -> rendered text for every field that is set.
func (r *LeadRecord) Fields() map[string]string {
	out := make(map[string]string)
	for f := FieldName; f < numFields; f++ {
		if v := r.values[f]; v.IsSet() {
			out[f.Label()] = v.Text()
		}
	}
	return out
}
