// Package lead owns the in-progress lead record of one conversation and the
// rules for when it is complete enough to act on.
package lead

import (
	"strings"
	"time"

	"github.com/Chative-core-poc-v1/leadqual/internal/agent/model"
)

const noteSeparator = " | "

// Store wraps a LeadRecord and enforces its write rules:
//   - a field is written at most once, except via Upgrade or Overwrite;
//   - the lead type is chosen at most once;
//   - every write refreshes the last-updated timestamp.
//
// A Store is not safe for concurrent use.
type Store struct {
	rec *model.LeadRecord
	now func() time.Time
}

type Option func(*Store)

// WithClock substitutes the wall clock used for lifecycle timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// NewStore creates a record tagged as a new AI-chat lead.
func NewStore(id string, opts ...Option) *Store {
	s := &Store{rec: model.NewLeadRecord(id), now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	s.rec.Put(model.FieldStatus, model.Value(model.StatusNewLead))
	s.rec.Put(model.FieldLeadSource, model.Value(model.LeadSourceAIChat))
	return s
}

func (s *Store) ID() string { return s.rec.ID }

// Adopt switches the record to an existing lead's id.
func (s *Store) Adopt(id string) {
	if id != "" {
		s.rec.ID = id
	}
}

func (s *Store) LeadType() model.LeadType { return s.rec.LeadType }

// SetLeadType decides the lead type and marks the other type's fields as not
// applicable. It returns false when a type was already chosen.
func (s *Store) SetLeadType(t model.LeadType) bool {
	if s.rec.LeadType.Valid() || !t.Valid() {
		return false
	}
	s.rec.LeadType = t
	switch t {
	case model.LeadTypeResidential:
		s.SetSentinelBatch(model.CommercialOnlyFields)
	case model.LeadTypeCommercial:
		s.SetSentinelBatch(model.ResidentialOnlyFields)
	}
	s.Touch()
	return true
}

func (s *Store) Get(f model.Field) model.FieldValue { return s.rec.Get(f) }

// SetIfUnset writes v only if f is unset. Blank values are ignored.
func (s *Store) SetIfUnset(f model.Field, v string) bool {
	val := model.Value(v)
	if !f.Valid() || !val.IsPresent() || s.rec.Get(f).IsSet() {
		return false
	}
	s.rec.Put(f, val)
	s.Touch()
	return true
}

// SetSentinelBatch marks every unset field in fs as not applicable.
func (s *Store) SetSentinelBatch(fs []model.Field) {
	changed := false
	for _, f := range fs {
		if s.rec.Get(f).IsUnset() {
			s.rec.Put(f, model.NotApplicable)
			changed = true
		}
	}
	if changed {
		s.Touch()
	}
}

// Upgrade writes v when f is unset or holds the "Not provided" placeholder.
func (s *Store) Upgrade(f model.Field, v string) bool {
	val := model.Value(v)
	if !f.Valid() || !val.IsPresent() {
		return false
	}
	cur := s.rec.Get(f)
	if cur.IsNotApplicable() || cur.Known() {
		return false
	}
	s.rec.Put(f, val)
	s.Touch()
	return true
}

// Overwrite replaces f regardless of its current state. Reserved for
// follow-up planning and returning-lead adoption.
func (s *Store) Overwrite(f model.Field, v string) {
	val := model.Value(v)
	if !f.Valid() || !val.IsPresent() {
		return
	}
	s.rec.Put(f, val)
	s.Touch()
}

// AppendNote adds note to the notes field, joined with " | ".
func (s *Store) AppendNote(note string) {
	note = strings.TrimSpace(note)
	if note == "" {
		return
	}
	cur := s.rec.Get(model.FieldNotes)
	if cur.IsPresent() {
		note = cur.Text() + noteSeparator + note
	}
	s.rec.Put(model.FieldNotes, model.Value(note))
	s.Touch()
}

// Touch refreshes last-updated and, on first call, stamps creation and
// first-contact times.
func (s *Store) Touch() {
	ts := s.now().Format(model.TimestampLayout)
	if s.rec.Get(model.FieldCreatedAt).IsUnset() {
		s.rec.Put(model.FieldCreatedAt, model.Value(ts))
	}
	if s.rec.Get(model.FieldLastContactAt).IsUnset() {
		s.rec.Put(model.FieldLastContactAt, model.Value(ts))
	}
	s.rec.Put(model.FieldLastUpdatedAt, model.Value(ts))
}

// RemainingEssential lists unset essential fields in priority order.
func (s *Store) RemainingEssential() []model.Field {
	return s.unset(model.EssentialFields)
}

// RemainingPromptable lists unset fields the agent may still ask about.
func (s *Store) RemainingPromptable() []model.Field {
	return s.unset(model.PromptableFields)
}

func (s *Store) unset(fs []model.Field) []model.Field {
	var out []model.Field
	for _, f := range fs {
		if s.rec.Get(f).IsUnset() {
			out = append(out, f)
		}
	}
	return out
}

// Record returns a copy of the underlying record.
func (s *Store) Record() *model.LeadRecord { return s.rec.Clone() }

// Snapshot returns label -> value for every set field.
func (s *Store) Snapshot() map[string]string { return s.rec.Fields() }

// Summary renders every promptable and qualitative field on its own line,
// "unknown" for unset ones. Used as prompt context.
func (s *Store) Summary() string {
	var b strings.Builder
	if s.rec.LeadType.Valid() {
		b.WriteString("Lead Type: ")
		b.WriteString(string(s.rec.LeadType))
		b.WriteByte('\n')
	}
	for _, f := range model.AllFields() {
		switch f {
		case model.FieldCreatedAt, model.FieldLastUpdatedAt, model.FieldLeadSource:
			continue
		}
		v := s.rec.Get(f)
		b.WriteString(f.Label())
		b.WriteString(": ")
		switch {
		case v.IsUnset():
			b.WriteString("unknown")
		case v.IsNotApplicable():
			b.WriteString("not applicable")
		default:
			b.WriteString(v.Text())
		}
		b.WriteByte('\n')
	}
	return strings.TrimRight(b.String(), "\n")
}
