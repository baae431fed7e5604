package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFieldAcceptsLabelsKeysAndAliases(t *testing.T) {
	cases := map[string]Field{
		"Budget Range":       FieldBudgetRange,
		"budget_range":       FieldBudgetRange,
		"budget":             FieldBudgetRange,
		"Next Follow-up":     FieldNextFollowup,
		"Follow-up Required": FieldFollowupRequired,
		" property type ":    FieldPropertyType,
		"Created Date":       FieldCreatedAt,
	}
	for in, want := range cases {
		got, ok := ParseField(in)
		require.True(t, ok, in)
		assert.Equal(t, want, got, in)
	}

	_, ok := ParseField("favourite colour")
	assert.False(t, ok)
}

func TestRowKeepsTriState(t *testing.T) {
	rec := NewLeadRecord("abc")
	rec.LeadType = LeadTypeResidential
	rec.Put(FieldName, Value("John"))
	rec.Put(FieldCompany, NotApplicable)

	row := rec.Row()
	require.Len(t, row, len(Columns))
	assert.Equal(t, "abc", row[0])
	assert.Equal(t, "John", row[1])

	back, err := RecordFromRow(row)
	require.NoError(t, err)
	assert.Equal(t, "abc", back.ID)
	assert.Equal(t, LeadTypeResidential, back.LeadType)
	assert.True(t, back.Get(FieldCompany).IsNotApplicable())
	assert.True(t, back.Get(FieldEmail).IsUnset())
}

func TestRecordFromRowRejectsWideRows(t *testing.T) {
	_, err := RecordFromRow(make([]string, len(Columns)+1))
	assert.Error(t, err)
}

func TestEmailNormalisation(t *testing.T) {
	rec := NewLeadRecord("abc")
	assert.Empty(t, rec.Email())

	rec.Put(FieldEmail, Value(NotProvided))
	assert.Empty(t, rec.Email())

	rec.Put(FieldEmail, Value("John@X.com"))
	assert.Equal(t, "john@x.com", rec.Email())
}

func TestTranscriptTail(t *testing.T) {
	var tr Transcript
	for _, text := range []string{"a", "b", "c"} {
		tr.Append(Turn{Role: RoleUser, Text: text})
	}
	tail := tr.Tail(2)
	require.Len(t, tail, 2)
	assert.Equal(t, "b", tail[0].Text)
	assert.Equal(t, "User: b\nUser: c", RenderTurns(tail))
	assert.Len(t, tr.Tail(10), 3)
}
