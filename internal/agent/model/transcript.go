package model

import (
	"fmt"
	"strings"
	"time"
)

type Role uint8

const (
	RoleUser Role = iota + 1
	RoleAgent
)

func (r Role) String() string {
	switch r {
	case RoleUser:
		return "User"
	case RoleAgent:
		return "Agent"
	default:
		return "Unknown"
	}
}

func (r Role) MarshalText() ([]byte, error) {
	switch r {
	case RoleUser:
		return []byte("user"), nil
	case RoleAgent:
		return []byte("agent"), nil
	default:
		return nil, fmt.Errorf("unknown role %d", r)
	}
}

func (r *Role) UnmarshalText(b []byte) error {
	switch strings.ToLower(string(b)) {
	case "user", "human":
		*r = RoleUser
	case "agent", "ai", "assistant":
		*r = RoleAgent
	default:
		return fmt.Errorf("unknown role %q", b)
	}
	return nil
}

// Turn is one utterance in a conversation.
type Turn struct {
	Role Role      `json:"role"`
	Text string    `json:"text"`
	At   time.Time `json:"at"`
}

// Transcript is the ordered, append-only history of a conversation. It is
// not safe for concurrent use; the owning session serialises access.
type Transcript struct {
	turns []Turn
}

func (t *Transcript) Append(turn Turn) { t.turns = append(t.turns, turn) }

func (t *Transcript) Len() int { return len(t.turns) }

// At returns the turn at index i.
func (t *Transcript) At(i int) (Turn, bool) {
	if i < 0 || i >= len(t.turns) {
		return Turn{}, false
	}
	return t.turns[i], true
}

// Turns returns a copy of every turn.
func (t *Transcript) Turns() []Turn {
	return append([]Turn(nil), t.turns...)
}

// Tail returns a copy of the last n turns.
func (t *Transcript) Tail(n int) []Turn {
	if n <= 0 || n >= len(t.turns) {
		return t.Turns()
	}
	return append([]Turn(nil), t.turns[len(t.turns)-n:]...)
}

// RenderTurns formats turns as "User: ..." / "Agent: ..." lines.
func RenderTurns(turns []Turn) string {
	var b strings.Builder
	for i, turn := range turns {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(turn.Role.String())
		b.WriteString(": ")
		b.WriteString(turn.Text)
	}
	return b.String()
}
