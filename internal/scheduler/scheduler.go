package scheduler

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/ykvlv/eventbot/internal/reminder"
)

// DefaultInterval is the pause between two scans.
const DefaultInterval = 60 * time.Second

// Scanner is what the scheduler runs on every cycle.
type Scanner interface {
	Scan(ctx context.Context) (reminder.Report, error)
}

// State is the scheduler's position in its Idle/Scanning cycle.
type State int32

const (
	Idle State = iota
	Scanning
)

func (s State) String() string {
	if s == Scanning {
		return "scanning"
	}
	return "idle"
}

// Scheduler sleeps for a fixed interval, runs a scan, and repeats.
// The interval is measured from the end of one scan to the start of the next,
// so the cycle drifts by each scan's own duration.
type Scheduler struct {
	scanner  Scanner
	log      *zap.Logger
	interval time.Duration

	state  atomic.Int32
	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// New creates a new Scheduler. A non-positive interval means DefaultInterval.
func New(scanner Scanner, log *zap.Logger, interval time.Duration) *Scheduler {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Scheduler{
		scanner:  scanner,
		log:      log,
		interval: interval,
	}
}

// State reports whether a scan is in progress.
func (s *Scheduler) State() State {
	return State(s.state.Load())
}

// Start launches the loop on its own goroutine. Calling Start twice is a no-op.
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.done != nil {
		return
	}
	ctx, s.cancel = context.WithCancel(ctx)
	s.done = make(chan struct{})
	go func() {
		defer close(s.done)
		s.Run(ctx)
	}()
}

// Stop cancels the loop and waits for an in-flight scan to return.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	cancel, done := s.cancel, s.done
	s.mu.Unlock()
	if cancel == nil {
		return
	}
	cancel()
	<-done
}

// Run blocks until ctx is canceled.
func (s *Scheduler) Run(ctx context.Context) {
	s.log.Info("scheduler started", zap.Duration("interval", s.interval))
	timer := time.NewTimer(s.interval)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			s.log.Info("scheduler stopping")
			return
		case <-timer.C:
			s.tick(ctx)
			timer.Reset(s.interval)
		}
	}
}

// tick performs one scan. Errors and panics are logged; the loop always returns to Idle.
func (s *Scheduler) tick(ctx context.Context) {
	s.state.Store(int32(Scanning))
	defer s.state.Store(int32(Idle))
	defer func() {
		if r := recover(); r != nil {
			s.log.Error("scan panicked", zap.String("panic", fmt.Sprint(r)))
		}
	}()

	if _, err := s.scanner.Scan(ctx); err != nil {
		s.log.Error("scan failed", zap.Error(err))
	}
}
