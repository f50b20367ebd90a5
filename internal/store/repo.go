package store

import (
	"context"
	"time"

	"github.com/ykvlv/eventbot/internal/domain"
)

// Repo defines read-only access to events and users.
// Absence is never an error: empty slices and nil users are returned instead.
type Repo interface {
	FetchAllEvents(ctx context.Context) ([]domain.Event, error)
	FetchUsersRegisteredFor(ctx context.Context, eventID string) ([]domain.User, error)
	FetchUser(ctx context.Context, accountID string) (*domain.User, error)
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

// Ledger remembers which users were already reminded of an event.
type Ledger interface {
	SentAt(ctx context.Context, eventID, userID string) (*time.Time, error)
	MarkSent(ctx context.Context, eventID, userID string, at time.Time) error
	Close() error
}
