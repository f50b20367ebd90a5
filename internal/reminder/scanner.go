// Package reminder finds events about to start and reminds registered users.
package reminder

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ykvlv/eventbot/internal/domain"
	"github.com/ykvlv/eventbot/internal/store"
)

// EventSource is the part of the store the scanner reads.
type EventSource interface {
	FetchAllEvents(ctx context.Context) ([]domain.Event, error)
	FetchUsersRegisteredFor(ctx context.Context, eventID string) ([]domain.User, error)
}

// Notifier delivers one reminder to one recipient.
type Notifier interface {
	SendReminder(ctx context.Context, r domain.Reminder) error
}

// Report summarizes one scan.
type Report struct {
	ScanID  string
	Window  domain.Window
	Due     int
	Sent    int
	Failed  int
	Skipped int
}

// Scanner matches events against the reminder window and fans out reminders.
type Scanner struct {
	events   EventSource
	notifier Notifier
	ledger   store.Ledger // nil disables dedup
	log      *zap.Logger
	loc      *time.Location
	lead     time.Duration
	now      func() time.Time
}

// Option customizes a Scanner.
type Option func(*Scanner)

// WithLedger skips users already reminded of an event and records new sends.
func WithLedger(l store.Ledger) Option {
	return func(s *Scanner) { s.ledger = l }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Scanner) { s.now = now }
}

// NewScanner creates a scanner comparing times in loc.
func NewScanner(events EventSource, notifier Notifier, loc *time.Location, log *zap.Logger, opts ...Option) *Scanner {
	s := &Scanner{
		events:   events,
		notifier: notifier,
		log:      log,
		loc:      loc,
		lead:     domain.ReminderLead,
		now:      time.Now,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Scan runs one pass. Store faults abort the pass and are returned;
// delivery faults are logged per recipient and counted in the report.
func (s *Scanner) Scan(ctx context.Context) (Report, error) {
	rep := Report{
		ScanID: uuid.NewString(),
		Window: domain.NewWindow(s.now(), s.loc, s.lead),
	}
	log := s.log.With(zap.String("scan_id", rep.ScanID))

	events, err := s.events.FetchAllEvents(ctx)
	if err != nil {
		return rep, fmt.Errorf("fetch events: %w", err)
	}

	for _, ev := range events {
		if !rep.Window.Contains(ev.Start) {
			continue
		}
		rep.Due++

		users, err := s.events.FetchUsersRegisteredFor(ctx, ev.ID)
		if err != nil {
			return rep, fmt.Errorf("fetch recipients of %s: %w", ev.ID, err)
		}
		log.Debug("event due",
			zap.String("event_id", ev.ID),
			zap.Time("start", ev.Start),
			zap.Int("recipients", len(users)),
		)

		for _, u := range users {
			s.remind(ctx, log, ev, u, &rep)
		}
	}

	log.Info("scan finished",
		zap.Time("window_start", rep.Window.Start),
		zap.Time("window_end", rep.Window.End),
		zap.Int("due", rep.Due),
		zap.Int("sent", rep.Sent),
		zap.Int("failed", rep.Failed),
		zap.Int("skipped", rep.Skipped),
	)
	return rep, nil
}

func (s *Scanner) remind(ctx context.Context, log *zap.Logger, ev domain.Event, u domain.User, rep *Report) {
	key := ledgerKey(u)
	if s.ledger != nil {
		sentAt, err := s.ledger.SentAt(ctx, ev.ID, key)
		if err != nil {
			// an unreadable ledger must not suppress reminders
			log.Warn("ledger read failed", zap.String("event_id", ev.ID), zap.Error(err))
		} else if sentAt != nil {
			rep.Skipped++
			return
		}
	}

	err := s.notifier.SendReminder(ctx, domain.Reminder{
		To:        u.Email,
		EventName: ev.Name,
		EventTime: ev.Display,
		Location:  ev.Location,
	})
	if err != nil {
		rep.Failed++
		log.Error("reminder failed",
			zap.String("event_id", ev.ID),
			zap.String("to", u.Email),
			zap.Error(err),
		)
		return
	}
	rep.Sent++

	if s.ledger != nil {
		if err := s.ledger.MarkSent(ctx, ev.ID, key, s.now()); err != nil {
			log.Warn("ledger write failed", zap.String("event_id", ev.ID), zap.Error(err))
		}
	}
}

// ledgerKey identifies the user half of an (event, user) ledger entry.
// Profiles without an account ID fall back to their email address.
func ledgerKey(u domain.User) string {
	if u.AccountID != "" {
		return u.AccountID
	}
	return u.Email
}
