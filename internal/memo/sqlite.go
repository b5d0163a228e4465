package memo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"

	_ "modernc.org/sqlite"
)

// SQLite persists signatures in a single-table SQLite database.
type SQLite struct {
	mu     sync.Mutex
	db     *sql.DB
	closed bool
}

// OpenSQLite opens or creates the memo database at path.
func OpenSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open memo %s: %w", path, err)
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS signatures (
			key TEXT PRIMARY KEY,
			input TEXT NOT NULL,
			signature TEXT NOT NULL,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("create memo schema: %w", err)
	}
	return &SQLite{db: db}, nil
}

func (s *SQLite) Get(ctx context.Context, text string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return "", false, ErrClosed
	}

	var sig string
	err := s.db.QueryRowContext(ctx, "SELECT signature FROM signatures WHERE key = ?", Key(text)).Scan(&sig)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("memo lookup: %w", err)
	}
	return sig, true, nil
}

func (s *SQLite) Put(ctx context.Context, text, signature string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO signatures (key, input, signature) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET signature = excluded.signature
	`, Key(text), text, signature)
	if err != nil {
		return fmt.Errorf("memo store: %w", err)
	}
	return nil
}

// Count returns the number of persisted entries.
func (s *SQLite) Count(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return 0, ErrClosed
	}
	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM signatures").Scan(&n); err != nil {
		return 0, fmt.Errorf("memo count: %w", err)
	}
	return n, nil
}

func (s *SQLite) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	return s.db.Close()
}
