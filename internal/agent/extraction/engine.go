// Package extraction turns one user utterance into lead field updates.
package extraction

import (
	"context"
	"errors"

	"github.com/Chative-core-poc-v1/leadqual/internal/agent/lead"
	"github.com/Chative-core-poc-v1/leadqual/internal/agent/model"
	"github.com/Chative-core-poc-v1/leadqual/internal/agent/oracle"
	"github.com/Chative-core-poc-v1/leadqual/internal/agent/prompts"
	errx "github.com/Chative-core-poc-v1/leadqual/internal/core/error"
	logx "github.com/Chative-core-poc-v1/leadqual/pkg/logger"
)

const defaultInterestMinTurns = 3

var extractable = func() map[model.Field]bool {
	m := make(map[model.Field]bool)
	for _, f := range prompts.ExtractableFields() {
		m[f] = true
	}
	return m
}()

// Engine runs the per-utterance extraction pass.
type Engine struct {
	oracle           model.Oracle
	interest         *InterestClassifier
	interestMinTurns int
}

type Option func(*Engine)

// WithInterestWindow sets how many recent turns the classifier sees.
func WithInterestWindow(n int) Option {
	return func(e *Engine) { e.interest = NewInterestClassifier(e.oracle, n) }
}

// WithInterestMinTurns sets the transcript length at which interest is classified.
func WithInterestMinTurns(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.interestMinTurns = n
		}
	}
}

func NewEngine(o model.Oracle, opts ...Option) *Engine {
	e := &Engine{
		oracle:           o,
		interestMinTurns: defaultInterestMinTurns,
	}
	e.interest = NewInterestClassifier(o, defaultInterestWindow)
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Input is one extraction request. Transcript must already contain the
// utterance as its last turn.
type Input struct {
	Utterance  string
	Store      *lead.Store
	Transcript *model.Transcript
	LastAsked  model.Field
}

// Extract applies, in order: lead-type detection, email and phone regexes,
// oracle extraction with a direct-answer fallback, and interest
// classification. A lead-type decision consumes the utterance. It reports
// whether any field changed and never panics.
func (e *Engine) Extract(ctx context.Context, in Input) (updated bool) {
	defer func() {
		if r := recover(); r != nil {
			logx.Error().Str("component", "extraction").Msgf("panic recovered: %v", r)
			updated = false
		}
	}()
	s := in.Store

	if !s.LeadType().Valid() {
		if t := DetectLeadType(in.Utterance); t.Valid() && s.SetLeadType(t) {
			logx.Debug().Str("lead_type", string(t)).Msg("lead type decided")
			return true
		}
	}

	if m := emailRE.FindString(in.Utterance); m != "" && s.SetIfUnset(model.FieldEmail, m) {
		updated = true
	}
	if m := phoneRE.FindString(in.Utterance); m != "" && s.SetIfUnset(model.FieldPhone, m) {
		updated = true
	}

	if e.extractWithOracle(ctx, in) {
		updated = true
	}

	if in.Transcript != nil && in.Transcript.Len() >= e.interestMinTurns && s.Get(model.FieldInterestLevel).IsUnset() {
		level := e.interest.Classify(ctx, in.Transcript, s)
		if s.SetIfUnset(model.FieldInterestLevel, level) {
			logx.Debug().Str("interest_level", level).Msg("interest level set")
			updated = true
		}
	}
	return updated
}

func (e *Engine) extractWithOracle(ctx context.Context, in Input) bool {
	s := in.Store
	p, err := prompts.RenderExtraction(ctx, prompts.ExtractionVars{
		Utterance: in.Utterance,
		Known:     s.Summary(),
		LeadType:  s.LeadType(),
		LastAsked: in.LastAsked,
	})
	if err != nil {
		logx.Error().Err(err).Msg("extraction prompt failed")
		return false
	}

	// Direct answers stand in only for unreadable replies, not for a failed call.
	fallback := func(err error) (map[string]string, bool) {
		if !errors.Is(err, errx.ErrMalformedOutput) || s.LeadType().Valid() {
			return nil, false
		}
		direct := directAnswers(in.Utterance, s)
		if len(direct) == 0 {
			return nil, false
		}
		out := make(map[string]string, len(direct))
		for f, v := range direct {
			out[f.Key()] = v
		}
		return out, true
	}

	values, err := oracle.StructuredCall(oracle.WithCallSite(ctx, oracle.CallSiteExtraction), e.oracle, p, fallback)
	if err != nil {
		logx.Debug().Err(err).Msg("oracle extraction produced nothing")
		return false
	}

	updated := false
	for key, v := range values {
		f, ok := model.ParseField(key)
		if !ok || !extractable[f] {
			logx.Debug().Str("field", key).Msg("ignoring extracted key")
			continue
		}
		if s.SetIfUnset(f, v) {
			logx.Debug().Str("field", f.Key()).Msg("field extracted")
			updated = true
		}
	}
	return updated
}
