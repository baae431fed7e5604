package dialogue

import (
	"context"
	"strings"

	"github.com/Chative-core-poc-v1/leadqual/internal/agent/extraction"
	"github.com/Chative-core-poc-v1/leadqual/internal/agent/model"
	"github.com/Chative-core-poc-v1/leadqual/internal/agent/oracle"
	"github.com/Chative-core-poc-v1/leadqual/internal/agent/prompts"
	"github.com/Chative-core-poc-v1/leadqual/internal/metrics"
	logx "github.com/Chative-core-poc-v1/leadqual/pkg/logger"
)

// inferable fields may be filled from the whole conversation once the
// essentials are known.
var inferable = []model.Field{
	model.FieldUseCase,
	model.FieldDecisionMaker,
	model.FieldInterestLevel,
	model.FieldContactMethod,
	model.FieldCompetitors,
	model.FieldNotes,
	model.FieldName,
	model.FieldEmail,
	model.FieldPhone,
	model.FieldLocation,
	model.FieldBudgetRange,
}

func (s *Session) inferenceTargets() []model.Field {
	var out []model.Field
	for _, f := range inferable {
		v := s.store.Get(f)
		if !v.IsNotApplicable() && !v.Known() {
			out = append(out, f)
		}
	}
	return out
}

// infer asks the oracle to fill soft fields. Failures leave them unset.
func (s *Session) infer(ctx context.Context) {
	targets := s.inferenceTargets()
	if len(targets) == 0 {
		return
	}
	p, err := prompts.RenderInference(ctx, prompts.InferenceVars{
		Transcript: s.transcript.Turns(),
		Known:      s.store.Summary(),
		LeadType:   s.store.LeadType(),
		Targets:    targets,
	})
	if err != nil {
		logx.Error().Err(err).Msg("inference prompt failed")
		return
	}
	values, err := oracle.StructuredCall(oracle.WithCallSite(ctx, oracle.CallSiteInference), s.deps.Oracle, p, nil)
	if err != nil {
		logx.Warn().Err(err).Str("conversation_id", s.id).Msg("inference skipped")
		return
	}

	wanted := make(map[model.Field]bool, len(targets))
	for _, f := range targets {
		wanted[f] = true
	}
	for key, v := range values {
		f, ok := model.ParseField(key)
		if !ok || !wanted[f] {
			continue
		}
		if f == model.FieldInterestLevel {
			if v = extraction.NormalizeInterest(v); v == "" {
				continue
			}
		}
		if s.store.Upgrade(f, v) {
			logx.Debug().Str("field", f.Key()).Msg("field inferred")
		}
	}
}

// checkReturningLead looks the email up in the sink once per record and
// adopts a prior lead's identity on a hit.
func (s *Session) checkReturningLead(ctx context.Context) {
	if s.returningChecked || s.deps.Sink == nil {
		return
	}
	email := s.store.Record().Email()
	if email == "" {
		return
	}
	s.returningChecked = true

	ctx, cancel := context.WithTimeout(ctx, s.deps.SinkTimeout)
	defer cancel()
	prev, err := s.deps.Sink.FindByEmail(ctx, email)
	if err != nil {
		logx.Warn().Err(err).Str("conversation_id", s.id).Msg("returning lead lookup failed")
		return
	}
	if prev == nil {
		return
	}

	lastContact := prev.Get(model.FieldLastContactAt)
	s.store.Adopt(prev.ID)
	if lastContact.Known() {
		s.store.Overwrite(model.FieldLastContactAt, lastContact.Text())
	}
	s.store.Overwrite(model.FieldStatus, model.StatusReturningLead)
	date := lastContact.Text()
	if !lastContact.Known() {
		date = "unknown date"
	}
	s.store.AppendNote("Previous contact on " + date)
	logx.Info().Str("conversation_id", s.id).Str("lead_id", prev.ID).Msg("returning lead recognised")
}

// finish plans the follow-up once, stamps the outcome and saves. Follow-up
// required always comes from the interest level, after the plan. Only a
// successful save completes the conversation.
func (s *Session) finish(ctx context.Context) string {
	if !s.planned {
		s.planFollowUp(ctx)
		s.planned = true
	}
	s.store.Overwrite(model.FieldCallOutcome, model.OutcomeGathered)
	s.store.Overwrite(model.FieldFollowupRequired, followupRequired(s.store.Get(model.FieldInterestLevel).Text()))

	if !s.persist(ctx) {
		return SaveFailureMessage
	}
	s.saved = true
	s.phase = model.PhaseCompleted
	return s.completionMessage(ctx)
}

func followupRequired(interest string) string {
	switch interest {
	case model.InterestHot, model.InterestWarm:
		return "Yes"
	default:
		return "No"
	}
}

func (s *Session) planFollowUp(ctx context.Context) {
	interest := s.store.Get(model.FieldInterestLevel)
	if !interest.Known() {
		return
	}
	p, err := prompts.RenderFollowUp(ctx, prompts.FollowUpVars{
		Transcript:    s.transcript.Turns(),
		Known:         s.store.Summary(),
		LeadType:      s.store.LeadType(),
		InterestLevel: interest.Text(),
		AgentName:     s.deps.Persona.AgentName,
		Today:         s.deps.Clock(),
	})
	if err != nil {
		logx.Error().Err(err).Msg("follow-up prompt failed")
		return
	}
	plan, err := oracle.StructuredCall(oracle.WithCallSite(ctx, oracle.CallSiteFollowUp), s.deps.Oracle, p, nil)
	if err != nil {
		logx.Warn().Err(err).Str("conversation_id", s.id).Msg("follow-up plan skipped")
		return
	}

	byKey := make(map[string]string, len(plan))
	for k, v := range plan {
		if f, ok := model.ParseField(k); ok {
			byKey[f.Key()] = v
			continue
		}
		byKey[strings.ToLower(strings.TrimSpace(k))] = v
	}
	if v, ok := byKey[model.FieldFollowupRequired.Key()]; ok {
		s.store.Overwrite(model.FieldFollowupRequired, v)
	}
	if v, ok := byKey[model.FieldNextFollowup.Key()]; ok {
		s.store.Overwrite(model.FieldNextFollowup, v)
	}
	if v, ok := byKey["agent"]; ok {
		s.store.AppendNote("Assigned to: " + v)
	}
	if v, ok := byKey["preparation"]; ok {
		s.store.AppendNote("Preparation: " + v)
	}
}

func (s *Session) persist(ctx context.Context) bool {
	if s.deps.Sink == nil {
		logx.Error().Str("conversation_id", s.id).Msg("no lead sink configured")
		return false
	}
	ctx, cancel := context.WithTimeout(ctx, s.deps.SinkTimeout)
	defer cancel()

	ok, err := s.deps.Sink.Upsert(ctx, s.store.Record())
	if err != nil || !ok {
		metrics.LeadsSaved.WithLabelValues("failed").Inc()
		logx.Error().Err(err).Str("conversation_id", s.id).Str("lead_id", s.store.ID()).Msg("lead save failed")
		return false
	}
	metrics.LeadsSaved.WithLabelValues("saved").Inc()
	logx.Info().Str("conversation_id", s.id).Str("lead_id", s.store.ID()).Msg("lead saved")
	return true
}
