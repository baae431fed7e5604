package model

import "context"

// Oracle is the language-model collaborator: prompt in, text out.
type Oracle interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// LeadSink persists finished lead records.
type LeadSink interface {
	// Upsert inserts rec, or replaces the row already holding rec.ID or the
	// same email. It reports whether the record was stored.
	Upsert(ctx context.Context, rec *LeadRecord) (bool, error)

	// FindByEmail returns the most recent record with that email, or nil.
	FindByEmail(ctx context.Context, email string) (*LeadRecord, error)
}

// Transcriber turns recorded audio into text. Failures come back as one of
// the fixed sentinel strings rather than an error.
type Transcriber interface {
	Transcribe(ctx context.Context, audio []byte, mimeType string) string
}

// Synthesizer renders text as audio. A nil result means no audio.
type Synthesizer interface {
	Synthesize(ctx context.Context, text string) []byte
}

type ConversationRepository interface {
	// AddTurn appends a turn to the stored history of a conversation
	AddTurn(ctx context.Context, conversationID string, turn Turn) error

	// LoadHistory retrieves the stored history of a conversation
	LoadHistory(ctx context.Context, conversationID string) (*ConversationHistory, error)

	// ClearHistory removes all stored history for a conversation
	ClearHistory(ctx context.Context, conversationID string) error

	// GetTurnCount returns the number of stored turns
	GetTurnCount(ctx context.Context, conversationID string) (int, error)
}

// ConversationHistory represents loaded conversation data with metadata.
type ConversationHistory struct {
	ConversationID string
	Turns          []Turn
}
