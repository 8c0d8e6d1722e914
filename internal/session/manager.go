package session

import (
	"context"
	"sync"
	"time"

	"github.com/spevenexe/S25-NLP-project/internal/config"
	"github.com/spevenexe/S25-NLP-project/internal/metrics"
	"github.com/spevenexe/S25-NLP-project/pkg/logger_i"
)

// EvictHook runs after a session is evicted, e.g. to delete its stored batch.
type EvictHook func(ctx context.Context, sessionId string)

type Manager struct {
	mu       sync.Mutex
	sessions map[string]*Session
	idleTTL  time.Duration
	onEvict  []EvictHook
	now      func() time.Time
	logger   *logger_i.Logger
}

func NewManager(idleTTL time.Duration) *Manager {
	return &Manager{
		sessions: make(map[string]*Session),
		idleTTL:  idleTTL,
		now:      time.Now,
		logger:   logger_i.NewLogger("SessionManager"),
	}
}

func (m *Manager) OnEvict(hook EvictHook) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onEvict = append(m.onEvict, hook)
}

// Get returns the session for id, creating it on first use. An empty id maps to the default session.
func (m *Manager) Get(id string) *Session {
	if id == "" {
		id = config.DefaultSessionId
	}
	now := m.now()

	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		s = newSession(id, now)
		m.sessions[id] = s
		metrics.SetActiveSessions(len(m.sessions))
		m.logger.Debug("Session created", "sessionId", id)
	}
	s.Touch(now)
	return s
}

func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// EvictIdle removes sessions unused for longer than the idle TTL and drops their indexes.
// It returns the evicted ids.
func (m *Manager) EvictIdle(ctx context.Context) []string {
	cutoff := m.now().Add(-m.idleTTL)

	m.mu.Lock()
	var evicted []*Session
	for id, s := range m.sessions {
		if s.LastUsed().Before(cutoff) {
			evicted = append(evicted, s)
			delete(m.sessions, id)
		}
	}
	hooks := append([]EvictHook(nil), m.onEvict...)
	metrics.SetActiveSessions(len(m.sessions))
	m.mu.Unlock()

	ids := make([]string, 0, len(evicted))
	for _, s := range evicted {
		s.Lock()
		if err := s.ReplaceIndex(ctx, nil); err != nil {
			m.logger.Warn("Could not drop index of evicted session", "sessionId", s.Id, "error", err)
		}
		s.Unlock()
		for _, hook := range hooks {
			hook(ctx, s.Id)
		}
		ids = append(ids, s.Id)
	}
	if len(ids) > 0 {
		m.logger.Info("Evicted idle sessions", "count", len(ids))
	}
	return ids
}

// RunJanitor evicts idle sessions every interval until ctx is done.
func (m *Manager) RunJanitor(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.EvictIdle(ctx)
		}
	}
}

// Close drops every session's index. Used on shutdown so in-memory and remote collections do not leak.
func (m *Manager) Close(ctx context.Context) {
	m.mu.Lock()
	sessions := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		sessions = append(sessions, s)
	}
	m.mu.Unlock()

	for _, s := range sessions {
		s.Lock()
		if err := s.ReplaceIndex(ctx, nil); err != nil {
			m.logger.Warn("Could not drop index on close", "sessionId", s.Id, "error", err)
		}
		s.Unlock()
	}
}
