package model

import "strings"

// NotApplicableText is the rendered form of a field known not to apply.
const NotApplicableText = "-"

// NotProvided is the placeholder some upstream systems write for a missing
// value. Inference may replace it.
const NotProvided = "Not provided"

// FieldState is the tri-state of a scalar lead field.
type FieldState uint8

const (
	StateUnset FieldState = iota
	StateNotApplicable
	StatePresent
)

// FieldValue is a tri-state value: unset, not applicable, or a string.
type FieldValue struct {
	state FieldState
	text  string
}

// Unset is the zero FieldValue.
var Unset = FieldValue{}

// NotApplicable marks a field known not to apply to this lead.
var NotApplicable = FieldValue{state: StateNotApplicable}

// Value wraps a present value. Blank input yields Unset.
func Value(s string) FieldValue {
	s = strings.TrimSpace(s)
	if s == "" {
		return Unset
	}
	return FieldValue{state: StatePresent, text: s}
}

// ParseFieldValue reverses Text: "" is unset and "-" is not applicable.
func ParseFieldValue(s string) FieldValue {
	s = strings.TrimSpace(s)
	switch s {
	case "":
		return Unset
	case NotApplicableText:
		return NotApplicable
	default:
		return FieldValue{state: StatePresent, text: s}
	}
}

func (v FieldValue) State() FieldState     { return v.state }
func (v FieldValue) IsUnset() bool         { return v.state == StateUnset }
func (v FieldValue) IsNotApplicable() bool { return v.state == StateNotApplicable }
func (v FieldValue) IsPresent() bool       { return v.state == StatePresent }

// IsSet reports whether the field moved out of the unset state.
func (v FieldValue) IsSet() bool { return v.state != StateUnset }

// Known reports a present value that is not the NotProvided placeholder.
func (v FieldValue) Known() bool {
	return v.state == StatePresent && !strings.EqualFold(v.text, NotProvided)
}

// Text renders the value for rows and prompts.
func (v FieldValue) Text() string {
	switch v.state {
	case StatePresent:
		return v.text
	case StateNotApplicable:
		return NotApplicableText
	default:
		return ""
	}
}

func (v FieldValue) String() string { return v.Text() }
