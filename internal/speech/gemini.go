package speech

import (
	"context"
	"strings"

	"google.golang.org/genai"

	"github.com/Chative-core-poc-v1/leadqual/internal/agent/model"
	errx "github.com/Chative-core-poc-v1/leadqual/internal/core/error"
	logx "github.com/Chative-core-poc-v1/leadqual/pkg/logger"
)

const (
	DefaultSTTModel  = "gemini-2.5-flash"
	defaultAudioMime = "audio/wav"
	unintelligible   = "UNINTELLIGIBLE"
	transcribePrompt = "Transcribe the speech in this audio verbatim. Reply with the transcript only. If no words can be made out, reply with " + unintelligible + "."
)

type generateFunc func(ctx context.Context, model string, contents []*genai.Content, cfg *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)

// GeminiTranscriber sends inline audio to a Gemini model for transcription.
type GeminiTranscriber struct {
	model    string
	generate generateFunc
}

func NewGeminiTranscriber(client *genai.Client, modelName string) *GeminiTranscriber {
	return newGeminiTranscriber(client.Models.GenerateContent, modelName)
}

func newGeminiTranscriber(fn generateFunc, modelName string) *GeminiTranscriber {
	if modelName == "" {
		modelName = DefaultSTTModel
	}
	return &GeminiTranscriber{model: modelName, generate: fn}
}

// Transcribe returns the spoken text or one of the sentinel strings.
func (g *GeminiTranscriber) Transcribe(ctx context.Context, audio []byte, mimeType string) string {
	if len(audio) == 0 {
		return SentinelSilence
	}
	if mimeType == "" {
		mimeType = defaultAudioMime
	}

	contents := []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{
			genai.NewPartFromText(transcribePrompt),
			genai.NewPartFromBytes(audio, mimeType),
		}, genai.RoleUser),
	}
	resp, err := g.generate(ctx, g.model, contents, &genai.GenerateContentConfig{
		Temperature: genai.Ptr[float32](0),
	})
	if err != nil {
		logx.Error().Err(errx.WrapSpeech(err)).Str("model", g.model).Msg("speech recognition failed")
		return SentinelFailure
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" || strings.EqualFold(strings.Trim(text, "."), unintelligible) {
		return SentinelUnclear
	}
	return text
}

var _ model.Transcriber = (*GeminiTranscriber)(nil)
