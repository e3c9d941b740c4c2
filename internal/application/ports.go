package application

import (
	"context"
	"time"

	"github.com/koop46/crypto-prices/internal/domain"
)

// PriceFetcher performs one remote lookup for the fixed asset/currency set.
// Implementations must bound the call with a timeout and never return a
// partial bundle.
type PriceFetcher interface {
	Fetch(ctx context.Context) (domain.QuoteBundle, error)
}

// HistoryStore is the append-only durable log of price observations.
type HistoryStore interface {
	// Append writes one row. There is no deduplication: the log is an
	// event trace, not a keyed table.
	Append(ctx context.Context, rec domain.HistoryRecord) error
	// LoadWindow returns rows with timestamp >= now - domain.HistoryWindow
	// (boundary inclusive), ascending. A missing or empty log yields an
	// empty slice, not an error.
	LoadWindow(ctx context.Context, now time.Time) ([]domain.HistoryRecord, error)
}

// RefreshGuard deduplicates manual refresh triggers for a short period.
type RefreshGuard interface {
	// TryReserve returns true if key was absent and is now reserved.
	TryReserve(ctx context.Context, key string) (bool, error)
}

// Clock abstracts time.Now for tests.
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }
