// Package session holds per-user interactive state: an append-only log of
// (question, answer) pairs that lives only as long as the session.
package session

import (
	"context"
	"sync"
	"time"
)

// Entry is one answered question.
type Entry struct {
	Question string
	Answer   string
	AskedAt  time.Time
}

// Log is an append-only chat history.
type Log interface {
	Append(ctx context.Context, e Entry) error
	Entries(ctx context.Context) ([]Entry, error)
	Close() error
}

// MemoryLog keeps entries in a slice.
type MemoryLog struct {
	mu      sync.Mutex
	entries []Entry
}

func NewMemoryLog() *MemoryLog { return &MemoryLog{} }

func (l *MemoryLog) Append(_ context.Context, e Entry) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, e)
	return nil
}

// Entries returns a copy in append order.
func (l *MemoryLog) Entries(_ context.Context) ([]Entry, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Entry, len(l.entries))
	copy(out, l.entries)
	return out, nil
}

func (l *MemoryLog) Close() error { return nil }
