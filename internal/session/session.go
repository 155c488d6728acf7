package session

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"TickerLens/internal/insight"
	"TickerLens/internal/model"
)

// Session is one user's interactive context.
type Session struct {
	ID      string
	History Log
	Now     func() time.Time
}

// New creates a session around history.
func New(history Log) *Session {
	return &Session{ID: uuid.NewString(), History: history, Now: time.Now}
}

// Ask answers question about set. Successful answers are appended to the history.
// On failure the returned string is a user-facing message and ok is false.
func (s *Session) Ask(ctx context.Context, a insight.Answerer, set *model.ComparisonSet, question string) (reply string, ok bool) {
	if len(set.Succeeded()) == 0 {
		return "No stock data is available to answer questions about.", false
	}
	answer, err := insight.Ask(ctx, a, insight.BuildComparisonContext(set), question)
	if err != nil {
		log.Printf("[WARN] session %s: ask failed: %v", s.ID, err)
		return insight.FailureMessage(err), false
	}
	entry := Entry{Question: strings.TrimSpace(question), Answer: answer, AskedAt: s.now()}
	if err := s.History.Append(ctx, entry); err != nil {
		log.Printf("[ERROR] session %s: %v", s.ID, err)
	}
	return answer, true
}

func (s *Session) now() time.Time {
	if s.Now == nil {
		return time.Now()
	}
	return s.Now()
}

// LogFactory creates the history for a new session.
type LogFactory func() (Log, error)

// Manager hands out one session per key (a chat id). Sessions are never shared.
type Manager struct {
	newLog   LogFactory
	mu       sync.Mutex
	sessions map[int64]*Session
}

// NewManager creates a Manager. A nil factory uses MemoryLog.
func NewManager(newLog LogFactory) *Manager {
	if newLog == nil {
		newLog = func() (Log, error) { return NewMemoryLog(), nil }
	}
	return &Manager{newLog: newLog, sessions: make(map[int64]*Session)}
}

// Get returns the session for key, creating it on first use.
func (m *Manager) Get(key int64) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.sessions[key]; ok {
		return s, nil
	}
	history, err := m.newLog()
	if err != nil {
		return nil, fmt.Errorf("create session log: %w", err)
	}
	s := New(history)
	m.sessions[key] = s
	log.Printf("[INFO] session %s started", s.ID)
	return s, nil
}

// Close closes every session's history.
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	var firstErr error
	for key, s := range m.sessions {
		if err := s.History.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		delete(m.sessions, key)
	}
	return firstErr
}
