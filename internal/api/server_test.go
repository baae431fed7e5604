package api

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Chative-core-poc-v1/leadqual/internal/agent/agenttest"
	"github.com/Chative-core-poc-v1/leadqual/internal/agent/dialogue"
	"github.com/Chative-core-poc-v1/leadqual/internal/agent/model"
	"github.com/Chative-core-poc-v1/leadqual/internal/speech"
)

type fixedSTT string

func (f fixedSTT) Transcribe(context.Context, []byte, string) string { return string(f) }

type fixedTTS []byte

func (f fixedTTS) Synthesize(context.Context, string) []byte { return f }

func newTestServer(t *testing.T, voice *speech.Voice) *Server {
	t.Helper()
	m := dialogue.NewManager(dialogue.Deps{Oracle: agenttest.NewOracle(), Sink: &agenttest.Sink{}}, 0)
	t.Cleanup(m.Close)
	return NewServer(8080, m, voice)
}

func do(t *testing.T, srv *Server, method, path string, body []byte, contentType string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(w.Body).Decode(&v))
	return v
}

func start(t *testing.T, srv *Server) startResponse {
	t.Helper()
	w := do(t, srv, http.MethodPost, "/api/v1/conversations", nil, "")
	require.Equal(t, http.StatusCreated, w.Code)
	return decode[startResponse](t, w)
}

func TestHealthEndpoint(t *testing.T) {
	w := do(t, newTestServer(t, nil), http.MethodGet, "/health", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", decode[map[string]string](t, w)["status"])
}

func TestMetricsEndpoint(t *testing.T) {
	srv := newTestServer(t, nil)
	start(t, srv)
	w := do(t, srv, http.MethodGet, "/metrics", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "leadqual_agent_active_conversations")
}

func TestConversationFlow(t *testing.T) {
	srv := newTestServer(t, nil)
	conv := start(t, srv)
	assert.NotEmpty(t, conv.ConversationID)
	assert.Equal(t, model.PhaseAwaitingAvailability, conv.Phase)
	assert.True(t, strings.HasPrefix(conv.Reply, "Hi, this is Rachel"))

	w := do(t, srv, http.MethodPost, "/api/v1/conversations/"+conv.ConversationID+"/messages", []byte(`{"text":"yes"}`), "application/json")
	require.Equal(t, http.StatusOK, w.Code)
	reply := decode[dialogue.Reply](t, w)
	assert.Equal(t, dialogue.QualifyingQuestion, reply.Text)
	assert.Equal(t, model.PhaseGathering, reply.Phase)

	w = do(t, srv, http.MethodGet, "/api/v1/conversations/"+conv.ConversationID, nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	view := decode[dialogue.View](t, w)
	assert.Equal(t, model.PhaseGathering, view.Phase)
	assert.Len(t, view.StillNeed, len(model.EssentialFields))
	assert.Equal(t, model.StatusNewLead, view.Fields["Status"])
}

func TestUnknownConversation(t *testing.T) {
	srv := newTestServer(t, nil)
	w := do(t, srv, http.MethodPost, "/api/v1/conversations/nope/messages", []byte(`{"text":"yes"}`), "application/json")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "conversation not found", decode[map[string]string](t, w)["error"])

	w = do(t, srv, http.MethodGet, "/api/v1/conversations/nope", nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestInvalidMessageBody(t *testing.T) {
	srv := newTestServer(t, nil)
	conv := start(t, srv)
	w := do(t, srv, http.MethodPost, "/api/v1/conversations/"+conv.ConversationID+"/messages", []byte(`{"text":`), "application/json")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestVoiceTurn(t *testing.T) {
	srv := newTestServer(t, speech.NewVoice(fixedSTT("yes"), fixedTTS("mp3")))
	conv := start(t, srv)

	w := do(t, srv, http.MethodPost, "/api/v1/conversations/"+conv.ConversationID+"/voice", []byte{1, 2, 3}, "audio/wav")
	require.Equal(t, http.StatusOK, w.Code)
	res := decode[voiceResponse](t, w)
	assert.True(t, res.Heard)
	assert.Equal(t, "yes", res.Transcript)
	assert.Equal(t, dialogue.QualifyingQuestion, res.Reply)
	assert.Equal(t, base64.StdEncoding.EncodeToString([]byte("mp3")), res.AudioBase64)
}

func TestVoiceSentinelIsNotProcessed(t *testing.T) {
	srv := newTestServer(t, speech.NewVoice(fixedSTT(speech.SentinelUnclear), nil))
	conv := start(t, srv)

	w := do(t, srv, http.MethodPost, "/api/v1/conversations/"+conv.ConversationID+"/voice", []byte{1}, "audio/wav")
	require.Equal(t, http.StatusOK, w.Code)
	res := decode[voiceResponse](t, w)
	assert.False(t, res.Heard)
	assert.Equal(t, speech.SentinelUnclear, res.Reply)
	assert.Empty(t, res.AudioBase64)

	w = do(t, srv, http.MethodGet, "/api/v1/conversations/"+conv.ConversationID, nil, "")
	assert.Equal(t, model.PhaseAwaitingAvailability, decode[dialogue.View](t, w).Phase)
}

func TestVoiceRequiresSpeechAndAudio(t *testing.T) {
	srv := newTestServer(t, nil)
	conv := start(t, srv)
	w := do(t, srv, http.MethodPost, "/api/v1/conversations/"+conv.ConversationID+"/voice", []byte{1}, "audio/wav")
	assert.Equal(t, http.StatusNotImplemented, w.Code)

	srv = newTestServer(t, speech.NewVoice(fixedSTT("yes"), nil))
	conv = start(t, srv)
	w = do(t, srv, http.MethodPost, "/api/v1/conversations/"+conv.ConversationID+"/voice", nil, "audio/wav")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestNotFoundEndpoint(t *testing.T) {
	w := do(t, newTestServer(t, nil), http.MethodGet, "/nonexistent", nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}
