package speech

import (
	"context"

	"github.com/Chative-core-poc-v1/leadqual/internal/agent/dialogue"
	"github.com/Chative-core-poc-v1/leadqual/internal/agent/model"
)

// Processor is the part of a dialogue session a voice turn needs.
type Processor interface {
	ProcessMessage(ctx context.Context, text string) dialogue.Reply
}

// Result is one listen, process, speak cycle.
type Result struct {
	Transcript string      `json:"transcript"`
	Heard      bool        `json:"heard"`
	Reply      string      `json:"reply"`
	Phase      model.Phase `json:"phase,omitempty"`
	Audio      []byte      `json:"-"`
}

// Voice wraps a dialogue session with speech in and out. Either side may be
// nil.
type Voice struct {
	stt model.Transcriber
	tts model.Synthesizer
}

func NewVoice(stt model.Transcriber, tts model.Synthesizer) *Voice {
	return &Voice{stt: stt, tts: tts}
}

func (v *Voice) CanListen() bool { return v != nil && v.stt != nil }

// Turn transcribes audio, feeds it to p unless it is a sentinel, and speaks
// the reply.
func (v *Voice) Turn(ctx context.Context, p Processor, audio []byte, mimeType string) Result {
	res := Result{Transcript: SentinelFailure, Reply: SentinelFailure}
	if v.CanListen() {
		res.Transcript = v.stt.Transcribe(ctx, audio, mimeType)
		res.Reply = res.Transcript
	}

	if !IsSentinel(res.Transcript) {
		r := p.ProcessMessage(ctx, res.Transcript)
		res.Heard = true
		res.Reply = r.Text
		res.Phase = r.Phase
	}
	res.Audio = v.Speak(ctx, res.Reply)
	return res
}

// Speak synthesises text, or returns nil when no synthesizer is configured.
func (v *Voice) Speak(ctx context.Context, text string) []byte {
	if v == nil || v.tts == nil {
		return nil
	}
	return v.tts.Synthesize(ctx, text)
}
