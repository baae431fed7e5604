package main

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/Chative-core-poc-v1/leadqual/internal/agent/dialogue"
	"github.com/Chative-core-poc-v1/leadqual/internal/agent/model"
	"github.com/Chative-core-poc-v1/leadqual/internal/agent/oracle"
	"github.com/Chative-core-poc-v1/leadqual/internal/agent/prompts"
	"github.com/Chative-core-poc-v1/leadqual/internal/agent/repo"
	"github.com/Chative-core-poc-v1/leadqual/internal/config"
	"github.com/Chative-core-poc-v1/leadqual/internal/events"
	"github.com/Chative-core-poc-v1/leadqual/internal/sink"
	"github.com/Chative-core-poc-v1/leadqual/internal/sink/memory"
	"github.com/Chative-core-poc-v1/leadqual/internal/sink/pgsink"
	"github.com/Chative-core-poc-v1/leadqual/internal/sink/redissink"
	"github.com/Chative-core-poc-v1/leadqual/internal/speech"
	logx "github.com/Chative-core-poc-v1/leadqual/pkg/logger"
)

// app holds the wired collaborators and the cleanups that release them.
type app struct {
	deps    dialogue.Deps
	voice   *speech.Voice
	closers []func()
}

func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}

func buildApp(ctx context.Context, cfg *config.AppConfig) (_ *app, err error) {
	a := &app{}
	defer func() {
		if err != nil {
			a.Close()
		}
	}()

	client, err := oracle.NewGeminiClient(ctx, cfg.APIKey, cfg.BaseURL)
	if err != nil {
		return nil, err
	}
	system, err := prompts.RenderSystem(ctx, cfg.Persona)
	if err != nil {
		return nil, fmt.Errorf("render system prompt: %w", err)
	}
	chat, err := oracle.NewGeminiOracle(ctx, client, oracle.GeminiConfig{
		Model:  cfg.Oracle,
		System: system,
	})
	if err != nil {
		return nil, err
	}

	var rdb *redis.Client
	if cfg.Redis.Enabled() {
		if rdb, err = cfg.Redis.New(ctx); err != nil {
			return nil, fmt.Errorf("failed to initialise Redis client: %w", err)
		}
		a.closers = append(a.closers, func() { _ = rdb.Close() })
		logx.Info().Msg("Connected to Redis successfully")
	}

	leads, err := buildSink(ctx, cfg, rdb, a)
	if err != nil {
		return nil, err
	}

	a.deps = dialogue.Deps{
		Oracle:       oracle.Instrumented(oracle.WithTimeout(chat, cfg.Oracle.Timeout)),
		Sink:         leads,
		Persona:      cfg.Persona,
		Conversation: cfg.Conversation,
		SinkTimeout:  cfg.SinkTimeout,
	}
	if rdb != nil && cfg.MirrorTranscripts {
		a.deps.History = repo.NewRedisConversationRepository(rdb, cfg.Redis.KeyPrefix, cfg.Conversation.TTL)
	}

	var tts model.Synthesizer
	if cfg.ElevenLabs.Enabled() {
		tts = speech.NewElevenLabs(cfg.ElevenLabs)
	}
	a.voice = speech.NewVoice(speech.NewGeminiTranscriber(client, cfg.STTModel), tts)
	return a, nil
}

func buildSink(ctx context.Context, cfg *config.AppConfig, rdb *redis.Client, a *app) (model.LeadSink, error) {
	var leads model.LeadSink
	switch cfg.LeadSink {
	case config.SinkRedis:
		leads = redissink.New(rdb, cfg.Redis.KeyPrefix)
	case config.SinkPostgres:
		pool, err := pgsink.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		pg := pgsink.New(pool, cfg.LeadTable)
		a.closers = append(a.closers, pg.Close)
		if err := pg.EnsureSchema(ctx); err != nil {
			return nil, err
		}
		leads = pg
	default:
		leads = memory.New()
	}
	logx.Info().Str("sink", cfg.LeadSink).Msg("lead sink ready")

	if !cfg.NATS.Enabled() {
		return leads, nil
	}
	pub, err := events.Connect(cfg.NATS)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, pub.Close)
	return sink.Notify(leads, pub), nil
}
