// Package agenttest provides fakes for the agent's collaborators.
package agenttest

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/Chative-core-poc-v1/leadqual/internal/agent/model"
	"github.com/Chative-core-poc-v1/leadqual/internal/agent/oracle"
)

// ErrUnrouted is returned for call sites with no configured answer.
var ErrUnrouted = errors.New("agenttest: no route for call site")

type Call struct {
	Site   string
	Prompt string
}

// Oracle answers by the call site found on the context.
type Oracle struct {
	mu     sync.Mutex
	routes map[string]func(prompt string) (string, error)
	calls  []Call
}

func NewOracle() *Oracle {
	return &Oracle{routes: make(map[string]func(string) (string, error))}
}

// On routes site to fn.
func (o *Oracle) On(site string, fn func(prompt string) (string, error)) *Oracle {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.routes[site] = fn
	return o
}

// Reply makes site always answer text.
func (o *Oracle) Reply(site, text string) *Oracle {
	return o.On(site, func(string) (string, error) { return text, nil })
}

// Fail makes site always fail with err.
func (o *Oracle) Fail(site string, err error) *Oracle {
	return o.On(site, func(string) (string, error) { return "", err })
}

func (o *Oracle) Complete(ctx context.Context, prompt string) (string, error) {
	site := oracle.CallSite(ctx)
	o.mu.Lock()
	o.calls = append(o.calls, Call{Site: site, Prompt: prompt})
	fn := o.routes[site]
	o.mu.Unlock()

	if fn == nil {
		return "", ErrUnrouted
	}
	return fn(prompt)
}

// Calls returns every call made so far.
func (o *Oracle) Calls() []Call {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]Call(nil), o.calls...)
}

// CallsFor counts calls made for site.
func (o *Oracle) CallsFor(site string) int {
	n := 0
	for _, c := range o.Calls() {
		if c.Site == site {
			n++
		}
	}
	return n
}

// Sink is a LeadSink whose behaviour is set per test. The zero value
// stores nothing and finds nothing.
type Sink struct {
	mu        sync.Mutex
	UpsertErr error
	Reject    bool
	Existing  map[string]*model.LeadRecord // by lower-case email
	Saved     []*model.LeadRecord
	Lookups   int
}

func (s *Sink) Upsert(_ context.Context, rec *model.LeadRecord) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.UpsertErr != nil {
		return false, s.UpsertErr
	}
	if s.Reject {
		return false, nil
	}
	s.Saved = append(s.Saved, rec.Clone())
	return true, nil
}

func (s *Sink) FindByEmail(_ context.Context, email string) (*model.LeadRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Lookups++
	if rec, ok := s.Existing[email]; ok {
		return rec.Clone(), nil
	}
	return nil, nil
}

// LastSaved returns the most recent upserted record, or nil.
func (s *Sink) LastSaved() *model.LeadRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.Saved) == 0 {
		return nil
	}
	return s.Saved[len(s.Saved)-1]
}

// Clock is a settable clock for deterministic timestamps.
type Clock struct {
	mu  sync.Mutex
	now time.Time
}

func NewClock(t time.Time) *Clock { return &Clock{now: t} }

func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *Clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}
