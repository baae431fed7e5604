package speech

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	"github.com/Chative-core-poc-v1/leadqual/internal/agent/dialogue"
	"github.com/Chative-core-poc-v1/leadqual/internal/agent/model"
)

var ctx = context.Background()

func TestElevenLabsSynthesize(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/text-to-speech/voice-1", r.URL.Path)
		assert.Equal(t, "secret", r.Header.Get("xi-api-key"))

		var body ttsRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "Hello there", body.Text)
		assert.Equal(t, "eleven_multilingual_v2", body.ModelID)

		w.Header().Set("Content-Type", "audio/mpeg")
		_, _ = io.WriteString(w, "ID3-audio")
	}))
	defer srv.Close()

	tts := NewElevenLabs(ElevenLabsConfig{APIKey: "secret", VoiceID: "voice-1", ModelID: "eleven_multilingual_v2", BaseURL: srv.URL})
	assert.Equal(t, []byte("ID3-audio"), tts.Synthesize(ctx, " Hello there "))
}

func TestElevenLabsFailuresReturnNil(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	assert.Nil(t, NewElevenLabs(ElevenLabsConfig{APIKey: "k", VoiceID: "v", BaseURL: srv.URL}).Synthesize(ctx, "hi"))
	assert.Nil(t, NewElevenLabs(ElevenLabsConfig{VoiceID: "v", BaseURL: srv.URL}).Synthesize(ctx, "hi"))
	assert.Nil(t, NewElevenLabs(ElevenLabsConfig{APIKey: "k", BaseURL: srv.URL}).Synthesize(ctx, "  "))
}

func modelReply(text string, err error) generateFunc {
	return func(context.Context, string, []*genai.Content, *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
		if err != nil {
			return nil, err
		}
		return &genai.GenerateContentResponse{
			Candidates: []*genai.Candidate{{Content: genai.NewContentFromText(text, genai.RoleModel)}},
		}, nil
	}
}

func TestGeminiTranscribe(t *testing.T) {
	var gotModel, gotMime string
	stt := newGeminiTranscriber(func(_ context.Context, m string, contents []*genai.Content, _ *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
		gotModel = m
		gotMime = contents[0].Parts[1].InlineData.MIMEType
		return modelReply(" yes, go ahead \n", nil)(ctx, m, contents, nil)
	}, "")

	assert.Equal(t, "yes, go ahead", stt.Transcribe(ctx, []byte{1, 2, 3}, ""))
	assert.Equal(t, DefaultSTTModel, gotModel)
	assert.Equal(t, "audio/wav", gotMime)
}

func TestGeminiTranscribeSentinels(t *testing.T) {
	assert.Equal(t, SentinelSilence, newGeminiTranscriber(modelReply("hi", nil), "m").Transcribe(ctx, nil, "audio/wav"))
	assert.Equal(t, SentinelUnclear, newGeminiTranscriber(modelReply("UNINTELLIGIBLE.", nil), "m").Transcribe(ctx, []byte{1}, "audio/wav"))
	assert.Equal(t, SentinelUnclear, newGeminiTranscriber(modelReply("   ", nil), "m").Transcribe(ctx, []byte{1}, "audio/wav"))
	assert.Equal(t, SentinelFailure, newGeminiTranscriber(modelReply("", errors.New("quota")), "m").Transcribe(ctx, []byte{1}, "audio/wav"))
}

type fixedSTT string

func (f fixedSTT) Transcribe(context.Context, []byte, string) string { return string(f) }

type echoTTS struct{}

func (echoTTS) Synthesize(_ context.Context, text string) []byte { return []byte("audio:" + text) }

type recordingSession struct{ got []string }

func (r *recordingSession) ProcessMessage(_ context.Context, text string) dialogue.Reply {
	r.got = append(r.got, text)
	return dialogue.Reply{Text: "reply to " + text, Phase: model.PhaseGathering}
}

func TestVoiceTurnProcessesSpeech(t *testing.T) {
	sess := &recordingSession{}
	res := NewVoice(fixedSTT("yes"), echoTTS{}).Turn(ctx, sess, []byte{1}, "audio/wav")

	assert.True(t, res.Heard)
	assert.Equal(t, "yes", res.Transcript)
	assert.Equal(t, "reply to yes", res.Reply)
	assert.Equal(t, model.PhaseGathering, res.Phase)
	assert.Equal(t, []byte("audio:reply to yes"), res.Audio)
	assert.Equal(t, []string{"yes"}, sess.got)
}

func TestVoiceTurnNeverForwardsSentinels(t *testing.T) {
	for _, s := range []string{SentinelSilence, SentinelUnclear, SentinelFailure} {
		sess := &recordingSession{}
		res := NewVoice(fixedSTT(s), nil).Turn(ctx, sess, []byte{1}, "")
		assert.False(t, res.Heard)
		assert.Equal(t, s, res.Reply)
		assert.Nil(t, res.Audio)
		assert.Empty(t, sess.got)
	}
}

func TestVoiceWithoutTranscriber(t *testing.T) {
	sess := &recordingSession{}
	res := NewVoice(nil, echoTTS{}).Turn(ctx, sess, []byte{1}, "")
	assert.Equal(t, SentinelFailure, res.Reply)
	assert.Empty(t, sess.got)
}
