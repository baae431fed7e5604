// Package dialogue drives a lead-qualification conversation turn by turn.
package dialogue

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/Chative-core-poc-v1/leadqual/internal/agent/extraction"
	"github.com/Chative-core-poc-v1/leadqual/internal/agent/lead"
	"github.com/Chative-core-poc-v1/leadqual/internal/agent/model"
	"github.com/Chative-core-poc-v1/leadqual/internal/agent/prompts"
	"github.com/Chative-core-poc-v1/leadqual/internal/metrics"
	logx "github.com/Chative-core-poc-v1/leadqual/pkg/logger"
)

const (
	defaultSinkTimeout = 10 * time.Second
	maxScheduleAsks    = 2
)

// Deps are the collaborators shared by every session.
type Deps struct {
	Oracle       model.Oracle
	Sink         model.LeadSink
	History      model.ConversationRepository // optional transcript mirror
	Questions    *prompts.QuestionBank
	Persona      model.PersonaConfig
	Conversation model.ConversationConfig
	SinkTimeout  time.Duration
	Clock        func() time.Time
	NewID        func() string
	// Rand seeds fallback phrasing choice. Not safe to share between
	// sessions used concurrently; nil uses the global source.
	Rand *rand.Rand
}

func (d Deps) withDefaults() Deps {
	if d.Questions == nil {
		d.Questions = prompts.DefaultQuestionBank()
	}
	if d.SinkTimeout <= 0 {
		d.SinkTimeout = defaultSinkTimeout
	}
	if d.Clock == nil {
		d.Clock = time.Now
	}
	if d.NewID == nil {
		d.NewID = uuid.NewString
	}
	if d.Persona.AgentName == "" {
		d.Persona.AgentName = "Rachel"
	}
	if d.Persona.CompanyName == "" {
		d.Persona.CompanyName = "Premium Properties"
	}
	return d
}

// Reply is the outcome of one turn.
type Reply struct {
	Text       string      `json:"reply"`
	Phase      model.Phase `json:"phase"`
	ReadyToLog bool        `json:"ready_to_log"`
	Saved      bool        `json:"saved"`
}

// Session is one conversation. ProcessMessage calls are serialised.
type Session struct {
	id     string
	deps   Deps
	engine *extraction.Engine

	mu               sync.Mutex
	phase            model.Phase
	store            *lead.Store
	transcript       *model.Transcript
	lastAsked        model.Field
	returningChecked bool
	scheduleAsks     int
	planned          bool
	saved            bool

	lastActive atomic.Int64
}

// NewSession creates a session in the not-started phase. The first
// ProcessMessage call greets regardless of its input.
func NewSession(id string, deps Deps) *Session {
	deps = deps.withDefaults()
	s := &Session{
		id:    id,
		deps:  deps,
		phase: model.PhaseNotStarted,
		engine: extraction.NewEngine(deps.Oracle,
			extraction.WithInterestWindow(deps.Conversation.InterestWindow),
			extraction.WithInterestMinTurns(deps.Conversation.InterestMinTurns),
		),
		transcript: &model.Transcript{},
	}
	s.touch()
	return s
}

func (s *Session) ID() string { return s.id }

// LastActive is the time of the most recent turn.
func (s *Session) LastActive() time.Time { return time.Unix(0, s.lastActive.Load()) }

func (s *Session) touch() { s.lastActive.Store(s.deps.Clock().UnixNano()) }

// ProcessMessage consumes one inbound message and returns the agent's reply.
// It always returns non-empty text; failures inside a turn produce an
// apology and leave the phase where it was.
func (s *Session) ProcessMessage(ctx context.Context, text string) Reply {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.touch()
	from := s.phase
	text = strings.TrimSpace(text)

	out, err := s.step(ctx, text)
	if err != nil || strings.TrimSpace(out) == "" {
		logx.Error().Err(err).Str("conversation_id", s.id).Str("phase", from.String()).Msg("turn failed")
		s.phase = from
		out = ErrorMessage
	}
	s.record(ctx, model.RoleAgent, out)

	if s.phase != from {
		metrics.PhaseTransitions.WithLabelValues(from.String(), s.phase.String()).Inc()
		logx.Debug().Str("conversation_id", s.id).Str("from", from.String()).Str("to", s.phase.String()).Msg("phase changed")
	}
	return Reply{
		Text:       out,
		Phase:      s.phase,
		ReadyToLog: s.store != nil && lead.IsReadyToLog(s.store),
		Saved:      s.saved,
	}
}

func (s *Session) step(ctx context.Context, text string) (out string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("dialogue panic: %v", r)
		}
	}()

	switch s.phase {
	case model.PhaseNotStarted, model.PhaseCompleted:
		return s.start(), nil
	case model.PhaseAwaitingAvailability:
		return s.availability(ctx, text), nil
	default:
		return s.gather(ctx, text), nil
	}
}

// start opens a fresh record. After a completed conversation this begins a
// new lead under the same conversation id.
func (s *Session) start() string {
	s.store = lead.NewStore(s.deps.NewID(), lead.WithClock(s.deps.Clock))
	s.store.Touch()
	s.transcript = &model.Transcript{}
	s.lastAsked = model.FieldNone
	s.returningChecked = false
	s.scheduleAsks = 0
	s.planned = false
	s.saved = false
	s.phase = model.PhaseAwaitingAvailability
	return Greeting(s.deps.Persona)
}

func (s *Session) availability(ctx context.Context, text string) string {
	s.record(ctx, model.RoleUser, text)
	switch {
	case affirmativeRE.MatchString(text):
		s.phase = model.PhaseGathering
		return QualifyingQuestion
	case negativeRE.MatchString(text):
		return RescheduleMessage
	default:
		return ClarifyMessage
	}
}

func (s *Session) gather(ctx context.Context, text string) string {
	s.record(ctx, model.RoleUser, text)
	s.engine.Extract(ctx, extraction.Input{
		Utterance:  text,
		Store:      s.store,
		Transcript: s.transcript,
		LastAsked:  s.lastAsked,
	})
	s.checkReturningLead(ctx)
	s.store.Touch()

	if !lead.IsEssentialComplete(s.store) {
		s.phase = model.PhaseGathering
		return s.askNext(ctx)
	}

	if s.phase == model.PhaseGathering {
		s.phase = model.PhaseInferring
	}
	if s.phase == model.PhaseInferring {
		s.infer(ctx)
		if !s.hasSchedule() && s.scheduleAsks < maxScheduleAsks {
			s.scheduleAsks++
			return s.askSchedule(ctx)
		}
		s.phase = model.PhaseScheduling
	}
	return s.finish(ctx)
}

func (s *Session) hasSchedule() bool {
	return s.store.Get(model.FieldAvailability).Known() || s.store.Get(model.FieldNextFollowup).Known()
}

// record appends a turn and mirrors it to the history repository.
func (s *Session) record(ctx context.Context, role model.Role, text string) {
	turn := model.Turn{Role: role, Text: text, At: s.deps.Clock()}
	s.transcript.Append(turn)
	if s.deps.History == nil {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, s.deps.SinkTimeout)
	defer cancel()
	if err := s.deps.History.AddTurn(ctx, s.id, turn); err != nil {
		logx.Warn().Err(err).Str("conversation_id", s.id).Msg("transcript mirror failed")
	}
}

// View is a read-only snapshot for status displays.
type View struct {
	ConversationID string            `json:"conversation_id"`
	LeadID         string            `json:"lead_id,omitempty"`
	Phase          model.Phase       `json:"phase"`
	LeadType       model.LeadType    `json:"lead_type,omitempty"`
	Fields         map[string]string `json:"fields"`
	StillNeed      []string          `json:"still_need"`
	ReadyToLog     bool              `json:"ready_to_log"`
	Saved          bool              `json:"saved"`
	Turns          int               `json:"turns"`
}

func (s *Session) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()

	v := View{
		ConversationID: s.id,
		Phase:          s.phase,
		Fields:         map[string]string{},
		StillNeed:      []string{},
		Saved:          s.saved,
		Turns:          s.transcript.Len(),
	}
	if s.store == nil {
		for _, f := range model.EssentialFields {
			v.StillNeed = append(v.StillNeed, f.Label())
		}
		return v
	}
	v.LeadID = s.store.ID()
	v.LeadType = s.store.LeadType()
	v.Fields = s.store.Snapshot()
	for _, f := range s.store.RemainingEssential() {
		v.StillNeed = append(v.StillNeed, f.Label())
	}
	v.ReadyToLog = lead.IsReadyToLog(s.store)
	return v
}

// Transcript returns a copy of the turns so far.
func (s *Session) Transcript() []model.Turn {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.transcript.Turns()
}
