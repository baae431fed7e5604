package dialogue

import (
	"context"
	"strings"

	"github.com/Chative-core-poc-v1/leadqual/internal/agent/model"
	"github.com/Chative-core-poc-v1/leadqual/internal/agent/oracle"
	"github.com/Chative-core-poc-v1/leadqual/internal/agent/prompts"
	logx "github.com/Chative-core-poc-v1/leadqual/pkg/logger"
)

// askNext phrases a question for the first missing essential field. The
// field named in the oracle's wording, if any, becomes lastAsked.
func (s *Session) askNext(ctx context.Context) string {
	remaining := s.store.RemainingPromptable()
	focus := s.store.RemainingEssential()[0]
	prev := s.lastAsked
	s.lastAsked = focus

	p, err := prompts.RenderQuestion(ctx, prompts.QuestionVars{
		Transcript: s.transcript.Turns(),
		Known:      s.store.Summary(),
		Remaining:  remaining,
		Focus:      focus,
		LastAsked:  prev,
	})
	var out string
	if err == nil {
		out, err = s.deps.Oracle.Complete(oracle.WithCallSite(ctx, oracle.CallSiteQuestion), p)
	}
	out = strings.TrimSpace(out)
	if err != nil || out == "" {
		logx.Debug().Err(err).Str("field", focus.Key()).Msg("using fallback question")
		return s.deps.Questions.Ask(focus, s.deps.Rand)
	}

	lower := strings.ToLower(out)
	for _, f := range remaining {
		if strings.Contains(lower, strings.ToLower(f.Label())) {
			s.lastAsked = f
			break
		}
	}
	return out
}

func (s *Session) askSchedule(ctx context.Context) string {
	p, err := prompts.RenderScheduling(ctx, prompts.SchedulingVars{
		Transcript: s.transcript.Turns(),
		Known:      s.store.Summary(),
	})
	var out string
	if err == nil {
		out, err = s.deps.Oracle.Complete(oracle.WithCallSite(ctx, oracle.CallSiteScheduling), p)
	}
	if out = strings.TrimSpace(out); err != nil || out == "" {
		return SchedulingFallback
	}
	s.lastAsked = model.FieldAvailability
	return out
}

func (s *Session) completionMessage(ctx context.Context) string {
	p, err := prompts.RenderCompletion(ctx, prompts.CompletionVars{
		Known:        s.store.Summary(),
		NextFollowup: s.store.Get(model.FieldNextFollowup).Text(),
		Persona:      s.deps.Persona,
	})
	var out string
	if err == nil {
		out, err = s.deps.Oracle.Complete(oracle.WithCallSite(ctx, oracle.CallSiteCompletion), p)
	}
	if out = strings.TrimSpace(out); err != nil || out == "" {
		return CompletionFallback
	}
	return out
}
