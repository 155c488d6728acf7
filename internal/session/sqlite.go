package session

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteLog stores the chat history in a private in-memory SQLite database.
// Nothing is written to disk; closing the log discards it.
type SQLiteLog struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteLog opens a fresh in-memory database and creates the history table.
func NewSQLiteLog() (*SQLiteLog, error) {
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// Every connection to ":memory:" is a separate database.
	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(0)

	l := &SQLiteLog{db: db}
	if err := l.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return l, nil
}

func (l *SQLiteLog) migrate() error {
	_, err := l.db.Exec(`CREATE TABLE IF NOT EXISTS chat_history (
		id        INTEGER PRIMARY KEY AUTOINCREMENT,
		asked_at  INTEGER NOT NULL,
		question  TEXT NOT NULL,
		answer    TEXT NOT NULL
	)`)
	return err
}

func (l *SQLiteLog) Append(ctx context.Context, e Entry) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	_, err := l.db.ExecContext(ctx,
		`INSERT INTO chat_history (asked_at, question, answer) VALUES (?,?,?)`,
		e.AskedAt.UnixNano(), e.Question, e.Answer,
	)
	if err != nil {
		return fmt.Errorf("append chat entry: %w", err)
	}
	return nil
}

func (l *SQLiteLog) Entries(ctx context.Context) ([]Entry, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	rows, err := l.db.QueryContext(ctx, `SELECT asked_at, question, answer FROM chat_history ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query chat history: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var (
			ts int64
			e  Entry
		)
		if err := rows.Scan(&ts, &e.Question, &e.Answer); err != nil {
			return nil, fmt.Errorf("scan chat entry: %w", err)
		}
		e.AskedAt = time.Unix(0, ts)
		out = append(out, e)
	}
	return out, rows.Err()
}

func (l *SQLiteLog) Close() error {
	return l.db.Close()
}

// NewSQLiteLogFactory adapts NewSQLiteLog to LogFactory.
func NewSQLiteLogFactory() LogFactory {
	return func() (Log, error) {
		l, err := NewSQLiteLog()
		if err != nil {
			return nil, err
		}
		return l, nil
	}
}
