package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	// Registers the "sqlite" driver (pure Go).
	_ "modernc.org/sqlite"
)

// SQLiteLedger implements Ledger using an embedded SQLite database.
type SQLiteLedger struct{ db *sql.DB }

// OpenSQLiteLedger opens (or creates) the SQLite database at the given path,
// applies recommended PRAGMAs, runs SQL migrations, and returns a ledger.
func OpenSQLiteLedger(ctx context.Context, path string) (*SQLiteLedger, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	// Reasonable pooling for SQLite; it's a single-writer engine.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := applyPragmas(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply pragmas: %w", err)
	}
	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrations: %w", err)
	}

	return NewSQLiteLedger(db), nil
}

// NewSQLiteLedger wraps an already migrated database handle.
func NewSQLiteLedger(db *sql.DB) *SQLiteLedger {
	return &SQLiteLedger{db: db}
}

// applyPragmas configures the SQLite connection for durability and concurrency.
func applyPragmas(ctx context.Context, db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			return err
		}
	}
	return nil
}

// Close releases the underlying database resources.
func (l *SQLiteLedger) Close() error {
	return l.db.Close()
}

// SentAt returns when userID was reminded of eventID, or nil if never.
func (l *SQLiteLedger) SentAt(ctx context.Context, eventID, userID string) (*time.Time, error) {
	var sentUnix int64
	err := l.db.QueryRowContext(ctx, `
		SELECT sent_at
		FROM reminders_sent
		WHERE event_id = ? AND user_id = ?`,
		eventID, userID,
	).Scan(&sentUnix)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	t := time.Unix(sentUnix, 0).UTC()
	return &t, nil
}

// MarkSent records a delivered reminder. Marking twice keeps the latest time.
func (l *SQLiteLedger) MarkSent(ctx context.Context, eventID, userID string, at time.Time) error {
	_, err := l.db.ExecContext(ctx, `
		INSERT INTO reminders_sent (event_id, user_id, sent_at)
		VALUES (?, ?, ?)
		ON CONFLICT(event_id, user_id) DO UPDATE SET
			sent_at = excluded.sent_at`,
		eventID, userID, at.UTC().Unix(),
	)
	return err
}
