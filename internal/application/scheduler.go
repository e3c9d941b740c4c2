package application

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/koop46/crypto-prices/internal/domain"
)

// Snapshot is a copy of the scheduler state handed to the presentation
// boundary. Bundle is nil until the first successful fetch.
type Snapshot struct {
	Bundle      *domain.QuoteBundle
	LastUpdated time.Time
	NextDue     time.Time
	LastErr     error
}

// Countdown is the time remaining until the next refresh, floored at zero.
func (s Snapshot) Countdown(now time.Time) time.Duration {
	d := s.NextDue.Sub(now)
	if d < 0 {
		return 0
	}
	return d
}

// Scheduler owns the process-wide refresh state machine: it decides when to
// fetch, persists successful bundles to the history log, and preserves the
// last-known-good bundle across failures. State lives only in memory and is
// rebuilt fresh each process start.
type Scheduler struct {
	fetcher  PriceFetcher
	store    HistoryStore
	keyTail  string
	interval time.Duration
	clock    Clock
	log      *zap.Logger

	mu          sync.Mutex
	bundle      *domain.QuoteBundle
	lastUpdated time.Time
	nextDue     time.Time
	lastErr     error

	force chan struct{}
}

type Option func(*Scheduler)

func WithClock(c Clock) Option { return func(s *Scheduler) { s.clock = c } }

func NewScheduler(fetcher PriceFetcher, store HistoryStore, keyTail string, interval time.Duration, log *zap.Logger, opts ...Option) *Scheduler {
	s := &Scheduler{
		fetcher:  fetcher,
		store:    store,
		keyTail:  keyTail,
		interval: interval,
		log:      log,
		force:    make(chan struct{}, 1),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.clock == nil {
		s.clock = realClock{}
	}
	if s.log == nil {
		s.log = zap.NewNop()
	}
	return s
}

// Start drives the refresh cycle until the context is canceled. The cadence
// check runs once per second; the fetch itself happens on this goroutine, so
// callers reading snapshots never block on the network and at most one fetch
// is in flight.
func (s *Scheduler) Start(ctx context.Context) {
	t := time.NewTicker(time.Second)
	defer t.Stop()

	s.log.Info("scheduler_started", zap.Duration("interval", s.interval))
	for {
		select {
		case <-ctx.Done():
			s.log.Info("scheduler_stopped")
			return
		case <-s.force:
			s.Refresh(ctx, s.clock.Now())
		case <-t.C:
			s.Tick(ctx, s.clock.Now())
		}
	}
}

// Tick runs one refresh cycle if the interval has elapsed or no cycle has
// ever run. Off-cadence ticks are no-ops.
func (s *Scheduler) Tick(ctx context.Context, now time.Time) {
	s.mu.Lock()
	due := s.nextDue.IsZero() || !now.Before(s.nextDue)
	s.mu.Unlock()
	if due {
		s.Refresh(ctx, now)
	}
}

// ForceRefresh requests an immediate cycle regardless of the cadence. It
// never blocks; a request made while one is already pending is coalesced.
func (s *Scheduler) ForceRefresh() {
	select {
	case s.force <- struct{}{}:
	default:
	}
}

// Refresh runs one fetch-persist-reschedule cycle unconditionally. On
// failure the current bundle and last-updated instant are left untouched and
// the next attempt is scheduled at the normal interval: failures are
// rate-limited by the cadence alone, never retried immediately.
func (s *Scheduler) Refresh(ctx context.Context, now time.Time) {
	bundle, err := s.fetcher.Fetch(ctx)
	if err != nil {
		s.log.Warn("refresh_failed", zap.Error(err))
		s.mu.Lock()
		s.lastErr = err
		s.nextDue = now.Add(s.interval)
		s.mu.Unlock()
		return
	}

	var warn error
	rec, err := domain.NewHistoryRecord(now, bundle, s.keyTail)
	if err == nil {
		err = s.store.Append(ctx, rec)
	}
	if err != nil {
		// A fresh bundle beats a durable row: keep showing the new
		// prices and surface the storage problem as a warning.
		warn = fmt.Errorf("%w: append history: %v", domain.ErrStorage, err)
		s.log.Warn("history_append_failed", zap.Error(err))
	}

	s.mu.Lock()
	s.bundle = &bundle
	s.lastUpdated = now
	s.nextDue = now.Add(s.interval)
	s.lastErr = warn
	s.mu.Unlock()

	s.log.Info("refresh_done",
		zap.Time("last_updated", now),
		zap.Time("next_due", now.Add(s.interval)),
	)
}

// Snapshot returns a copy of the current state. The bundle pointer is shared
// but bundles are immutable once constructed.
func (s *Scheduler) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{
		Bundle:      s.bundle,
		LastUpdated: s.lastUpdated,
		NextDue:     s.nextDue,
		LastErr:     s.lastErr,
	}
}
