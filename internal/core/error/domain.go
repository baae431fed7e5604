package errx

import (
	"context"
	"errors"
	"net/http"
)

const (
	OracleErrorMessage       = "language model call failed"
	OracleTimeoutMessage     = "language model call timed out"
	SinkErrorMessage         = "lead storage failed"
	SpeechErrorMessage       = "speech service failed"
	ConversationNotFoundText = "conversation not found"
)

var (
	// ErrMalformedOutput marks oracle output that is not the JSON object asked for.
	ErrMalformedOutput = errors.New("malformed oracle output")
	// ErrConversationNotFound is returned for unknown conversation ids.
	ErrConversationNotFound = New(nil, http.StatusNotFound, ConversationNotFoundText)
)

// WrapOracle tags a language-model failure. Deadline overruns map to 504.
func WrapOracle(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return New(err, http.StatusGatewayTimeout, OracleTimeoutMessage)
	}
	return New(err, http.StatusBadGateway, OracleErrorMessage)
}

// WrapSink tags a lead storage failure.
func WrapSink(err error) error {
	if err == nil {
		return nil
	}
	return New(err, http.StatusBadGateway, SinkErrorMessage)
}

// WrapSpeech tags a speech provider failure.
func WrapSpeech(err error) error {
	if err == nil {
		return nil
	}
	return New(err, http.StatusBadGateway, SpeechErrorMessage)
}
