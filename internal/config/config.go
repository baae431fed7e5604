// Package config loads the service configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/Chative-core-poc-v1/leadqual/internal/agent/model"
	"github.com/Chative-core-poc-v1/leadqual/internal/core"
	"github.com/Chative-core-poc-v1/leadqual/internal/events"
	"github.com/Chative-core-poc-v1/leadqual/internal/speech"
	pkgredis "github.com/Chative-core-poc-v1/leadqual/pkg/redis"
)

const (
	SinkMemory   = "memory"
	SinkRedis    = "redis"
	SinkPostgres = "postgres"
)

// AppConfig defines all configurable parameters of the service, sourced
// from environment variables (loaded from .env for local runs).
type AppConfig struct {
	Environment core.Environment `envconfig:"ENVIRONMENT" default:"development"`
	LogLevel    string           `envconfig:"LOG_LEVEL"`
	HTTPPort    int              `envconfig:"HTTP_PORT" default:"8080"`

	// Infrastructure
	Redis       pkgredis.Config
	DatabaseURL string `envconfig:"DATABASE_URL"`
	LeadTable   string `envconfig:"LEAD_TABLE" default:"leads"`
	NATS        events.Config

	// LLM provider
	APIKey  string `envconfig:"GEMINI_API_KEY"`
	BaseURL string `envconfig:"GEMINI_BASE_URL"`
	Oracle  model.OracleModelConfig

	// Speech
	STTModel   string `envconfig:"STT_MODEL" default:"gemini-2.5-flash"`
	ElevenLabs speech.ElevenLabsConfig

	// Agent configs
	Persona           model.PersonaConfig
	Conversation      model.ConversationConfig
	LeadSink          string        `envconfig:"LEAD_SINK" default:"memory"`
	SinkTimeout       time.Duration `envconfig:"SINK_TIMEOUT" default:"10s"`
	MirrorTranscripts bool          `envconfig:"MIRROR_TRANSCRIPTS" default:"true"`
}

// Load reads envFile if it exists, then the process environment.
func Load(envFile string) (*AppConfig, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", envFile, err)
		}
	}
	var cfg AppConfig
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("process environment config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *AppConfig) Validate() error {
	var errs []error
	if c.APIKey == "" {
		errs = append(errs, errors.New("GEMINI_API_KEY is required"))
	}
	if c.HTTPPort <= 0 || c.HTTPPort > 65535 {
		errs = append(errs, fmt.Errorf("HTTP_PORT %d out of range", c.HTTPPort))
	}
	switch c.LeadSink {
	case SinkMemory:
	case SinkRedis:
		if !c.Redis.Enabled() {
			errs = append(errs, errors.New("LEAD_SINK=redis needs REDIS_URL"))
		}
	case SinkPostgres:
		if c.DatabaseURL == "" {
			errs = append(errs, errors.New("LEAD_SINK=postgres needs DATABASE_URL"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown LEAD_SINK %q", c.LeadSink))
	}
	if c.Conversation.TTL < 0 {
		errs = append(errs, errors.New("CONVERSATION_TTL must not be negative"))
	}
	if c.SinkTimeout <= 0 {
		errs = append(errs, errors.New("SINK_TIMEOUT must be positive"))
	}
	return errors.Join(errs...)
}
