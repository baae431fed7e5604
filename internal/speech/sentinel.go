// Package speech adapts speech-to-text and text-to-speech providers to the
// dialogue controller.
package speech

// Fixed transcripts returned instead of errors. They are spoken back to the
// caller and never reach the dialogue controller.
const (
	SentinelSilence = "Sorry, I didn't hear anything."
	SentinelUnclear = "Sorry, I didn't catch that."
	SentinelFailure = "Sorry, speech recognition service failed."
)

func IsSentinel(s string) bool {
	switch s {
	case SentinelSilence, SentinelUnclear, SentinelFailure:
		return true
	}
	return false
}
