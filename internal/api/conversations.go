package api

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Chative-core-poc-v1/leadqual/internal/agent/dialogue"
	"github.com/Chative-core-poc-v1/leadqual/internal/agent/model"
	errx "github.com/Chative-core-poc-v1/leadqual/internal/core/error"
)

const (
	maxMessageBytes = 64 << 10
	maxAudioBytes   = 10 << 20
)

var (
	errInvalidBody = errx.New(errors.New("invalid request body"), http.StatusBadRequest, "invalid request body")
	errEmptyAudio  = errx.New(errors.New("empty audio body"), http.StatusBadRequest, "audio body is required")
	errNoSpeech    = errx.New(errors.New("speech not configured"), http.StatusNotImplemented, "speech is not configured")
)

type startResponse struct {
	ConversationID string      `json:"conversation_id"`
	Reply          string      `json:"reply"`
	Phase          model.Phase `json:"phase"`
}

type messageRequest struct {
	Text string `json:"text"`
}

type voiceResponse struct {
	Transcript  string      `json:"transcript"`
	Heard       bool        `json:"heard"`
	Reply       string      `json:"reply"`
	Phase       model.Phase `json:"phase,omitempty"`
	AudioBase64 string      `json:"audio_base64,omitempty"`
}

func (s *Server) startConversation(w http.ResponseWriter, r *http.Request) {
	sess, reply := s.conversations.Start(r.Context())
	writeJSON(w, http.StatusCreated, startResponse{
		ConversationID: sess.ID(),
		Reply:          reply.Text,
		Phase:          reply.Phase,
	})
}

func (s *Server) session(r *http.Request) (*dialogue.Session, error) {
	sess, ok := s.conversations.Get(chi.URLParam(r, "id"))
	if !ok {
		return nil, errx.ErrConversationNotFound
	}
	return sess, nil
}

func (s *Server) getConversation(w http.ResponseWriter, r *http.Request) {
	sess, err := s.session(r)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sess.View())
}

func (s *Server) postMessage(w http.ResponseWriter, r *http.Request) {
	sess, err := s.session(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var req messageRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, maxMessageBytes)).Decode(&req); err != nil {
		writeError(w, errInvalidBody)
		return
	}
	writeJSON(w, http.StatusOK, sess.ProcessMessage(r.Context(), req.Text))
}

func (s *Server) postVoice(w http.ResponseWriter, r *http.Request) {
	sess, err := s.session(r)
	if err != nil {
		writeError(w, err)
		return
	}
	if !s.voice.CanListen() {
		writeError(w, errNoSpeech)
		return
	}
	audio, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxAudioBytes))
	if err != nil {
		writeError(w, errInvalidBody)
		return
	}
	if len(audio) == 0 {
		writeError(w, errEmptyAudio)
		return
	}

	res := s.voice.Turn(r.Context(), sess, audio, r.Header.Get("Content-Type"))
	out := voiceResponse{
		Transcript: res.Transcript,
		Heard:      res.Heard,
		Reply:      res.Reply,
		Phase:      res.Phase,
	}
	if len(res.Audio) > 0 {
		out.AudioBase64 = base64.StdEncoding.EncodeToString(res.Audio)
	}
	writeJSON(w, http.StatusOK, out)
}
