package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestLedger(t *testing.T, path string) *SQLiteLedger {
	t.Helper()
	l, err := OpenSQLiteLedger(context.Background(), path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = l.Close() })
	return l
}

func TestSQLiteLedger_MarkAndRead(t *testing.T) {
	ctx := context.Background()
	l := openTestLedger(t, filepath.Join(t.TempDir(), "data", "reminders.db"))

	got, err := l.SentAt(ctx, "keynote", "TZ1")
	require.NoError(t, err)
	assert.Nil(t, got, "nothing marked yet")

	first := time.Date(2025, time.January, 1, 4, 29, 30, 0, time.UTC)
	require.NoError(t, l.MarkSent(ctx, "keynote", "TZ1", first))

	got, err = l.SentAt(ctx, "keynote", "TZ1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.True(t, got.Equal(first))

	// other users and events stay unmarked
	other, err := l.SentAt(ctx, "keynote", "TZ2")
	require.NoError(t, err)
	assert.Nil(t, other)
	other, err = l.SentAt(ctx, "hackathon", "TZ1")
	require.NoError(t, err)
	assert.Nil(t, other)

	second := first.Add(time.Minute)
	require.NoError(t, l.MarkSent(ctx, "keynote", "TZ1", second))
	got, err = l.SentAt(ctx, "keynote", "TZ1")
	require.NoError(t, err)
	assert.True(t, got.Equal(second), "re-marking keeps the latest time")
}

func TestSQLiteLedger_ReopenKeepsMarks(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "reminders.db")
	at := time.Date(2025, time.January, 1, 4, 29, 30, 0, time.UTC)

	l, err := OpenSQLiteLedger(ctx, path)
	require.NoError(t, err)
	require.NoError(t, l.MarkSent(ctx, "keynote", "TZ1", at))
	require.NoError(t, l.Close())

	// migrations run again on open and must be a no-op
	reopened := openTestLedger(t, path)
	got, err := reopened.SentAt(ctx, "keynote", "TZ1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.True(t, got.Equal(at))
}

func TestSQLiteLedger_MarkSentError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	at := time.Date(2025, time.January, 1, 4, 29, 30, 0, time.UTC)
	mock.ExpectExec("INSERT INTO reminders_sent").
		WithArgs("keynote", "TZ1", at.Unix()).
		WillReturnError(errors.New("disk I/O error"))

	l := NewSQLiteLedger(db)
	err = l.MarkSent(context.Background(), "keynote", "TZ1", at)
	assert.EqualError(t, err, "disk I/O error")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLiteLedger_SentAtError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT sent_at").
		WithArgs("keynote", "TZ1").
		WillReturnError(errors.New("database is locked"))

	l := NewSQLiteLedger(db)
	got, err := l.SentAt(context.Background(), "keynote", "TZ1")
	assert.Nil(t, got)
	assert.EqualError(t, err, "database is locked")
	assert.NoError(t, mock.ExpectationsWereMet())
}
