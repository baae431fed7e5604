package dialogue

import (
	"context"
	"sync"
	"time"

	"github.com/Chative-core-poc-v1/leadqual/internal/metrics"
	logx "github.com/Chative-core-poc-v1/leadqual/pkg/logger"
)

const minSweepInterval = 10 * time.Millisecond

// Manager keeps live sessions by conversation id and expires idle ones.
type Manager struct {
	deps Deps
	ttl  time.Duration

	mu       sync.RWMutex
	sessions map[string]*Session

	stop      chan struct{}
	done      chan struct{}
	closeOnce sync.Once
}

// NewManager starts a janitor that drops sessions idle for longer than ttl.
// A non-positive ttl keeps sessions until Close.
func NewManager(deps Deps, ttl time.Duration) *Manager {
	m := &Manager{
		deps:     deps.withDefaults(),
		ttl:      ttl,
		sessions: make(map[string]*Session),
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
	if ttl <= 0 {
		close(m.done)
		return m
	}
	go m.janitor(max(ttl/2, minSweepInterval))
	return m
}

// Start opens a new conversation and returns it with its greeting.
func (m *Manager) Start(ctx context.Context) (*Session, Reply) {
	s := NewSession(m.deps.NewID(), m.deps)
	reply := s.ProcessMessage(ctx, "")

	m.mu.Lock()
	m.sessions[s.ID()] = s
	n := len(m.sessions)
	m.mu.Unlock()

	metrics.ActiveConversations.Set(float64(n))
	logx.Info().Str("conversation_id", s.ID()).Msg("conversation started")
	return s, reply
}

func (m *Manager) Get(id string) (*Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	return s, ok
}

// Remove drops a session. It reports whether it existed.
func (m *Manager) Remove(id string) bool {
	m.mu.Lock()
	_, ok := m.sessions[id]
	delete(m.sessions, id)
	n := len(m.sessions)
	m.mu.Unlock()

	metrics.ActiveConversations.Set(float64(n))
	return ok
}

func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Sweep drops sessions idle since before now minus the ttl and returns how
// many were dropped.
func (m *Manager) Sweep(now time.Time) int {
	if m.ttl <= 0 {
		return 0
	}
	cutoff := now.Add(-m.ttl)

	m.mu.Lock()
	dropped := 0
	for id, s := range m.sessions {
		if s.LastActive().Before(cutoff) {
			delete(m.sessions, id)
			dropped++
		}
	}
	n := len(m.sessions)
	m.mu.Unlock()

	if dropped > 0 {
		metrics.ActiveConversations.Set(float64(n))
		logx.Debug().Int("dropped", dropped).Int("active", n).Msg("expired idle conversations")
	}
	return dropped
}

func (m *Manager) janitor(every time.Duration) {
	defer close(m.done)
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-m.stop:
			return
		case <-t.C:
			m.Sweep(m.deps.Clock())
		}
	}
}

// Close stops the janitor. Sessions stay readable.
func (m *Manager) Close() {
	m.closeOnce.Do(func() { close(m.stop) })
	<-m.done
}
