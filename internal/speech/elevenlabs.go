package speech

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Chative-core-poc-v1/leadqual/internal/agent/model"
	errx "github.com/Chative-core-poc-v1/leadqual/internal/core/error"
	logx "github.com/Chative-core-poc-v1/leadqual/pkg/logger"
)

const (
	ElevenLabsAPIBase = "https://api.elevenlabs.io/v1"
	maxAudioBytes     = 20 << 20
)

type ElevenLabsConfig struct {
	APIKey  string        `envconfig:"ELEVENLABS_API_KEY"`
	VoiceID string        `envconfig:"ELEVENLABS_VOICE_ID" default:"21m00Tcm4TlvDq8N1ZyU"`
	ModelID string        `envconfig:"ELEVENLABS_MODEL_ID" default:"eleven_multilingual_v2"`
	BaseURL string        `envconfig:"ELEVENLABS_BASE_URL" default:"https://api.elevenlabs.io/v1"`
	Timeout time.Duration `envconfig:"ELEVENLABS_TIMEOUT" default:"15s"`
}

func (c *ElevenLabsConfig) Enabled() bool { return c.APIKey != "" }

type voiceSettings struct {
	Stability       float64 `json:"stability"`
	SimilarityBoost float64 `json:"similarity_boost"`
}

type ttsRequest struct {
	Text          string        `json:"text"`
	ModelID       string        `json:"model_id"`
	VoiceSettings voiceSettings `json:"voice_settings"`
}

// ElevenLabs renders speech through the ElevenLabs REST API.
type ElevenLabs struct {
	cfg    ElevenLabsConfig
	client *http.Client
}

func NewElevenLabs(cfg ElevenLabsConfig) *ElevenLabs {
	if cfg.BaseURL == "" {
		cfg.BaseURL = ElevenLabsAPIBase
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	return &ElevenLabs{cfg: cfg, client: &http.Client{Timeout: cfg.Timeout}}
}

// Synthesize returns MPEG audio, or nil on any failure.
func (e *ElevenLabs) Synthesize(ctx context.Context, text string) []byte {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	audio, err := e.synthesize(ctx, text)
	if err != nil {
		logx.Error().Err(errx.WrapSpeech(err)).Str("voice_id", e.cfg.VoiceID).Msg("text to speech failed")
		return nil
	}
	return audio
}

func (e *ElevenLabs) synthesize(ctx context.Context, text string) ([]byte, error) {
	if e.cfg.APIKey == "" {
		return nil, errors.New("missing api key")
	}
	body, err := json.Marshal(ttsRequest{
		Text:          text,
		ModelID:       e.cfg.ModelID,
		VoiceSettings: voiceSettings{Stability: 0.5, SimilarityBoost: 0.75},
	})
	if err != nil {
		return nil, err
	}

	endpoint := strings.TrimRight(e.cfg.BaseURL, "/") + "/text-to-speech/" + url.PathEscape(e.cfg.VoiceID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("xi-api-key", e.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "audio/mpeg")

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, errors.New("ElevenLabs API error: " + resp.Status)
	}
	audio, err := io.ReadAll(io.LimitReader(resp.Body, maxAudioBytes))
	if err != nil {
		return nil, err
	}
	if len(audio) == 0 {
		return nil, errors.New("empty audio in ElevenLabs response")
	}
	return audio, nil
}

var _ model.Synthesizer = (*ElevenLabs)(nil)
