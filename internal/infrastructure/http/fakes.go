package httpserver

import (
	"context"
	"sync"
	"time"

	"github.com/koop46/crypto-prices/internal/application"
	"github.com/koop46/crypto-prices/internal/domain"
)

var _ application.HistoryStore = (*fakeHistoryStore)(nil)
var _ application.PriceFetcher = (*fakeFetcher)(nil)
var _ application.RefreshGuard = (*fakeGuard)(nil)

type fakeHistoryStore struct {
	mu      sync.Mutex
	records []domain.HistoryRecord
	loadErr error
}

func (f *fakeHistoryStore) Append(_ context.Context, rec domain.HistoryRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.records = append(f.records, rec)
	return nil
}

func (f *fakeHistoryStore) LoadWindow(_ context.Context, now time.Time) ([]domain.HistoryRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	cutoff := now.Add(-domain.HistoryWindow)
	var out []domain.HistoryRecord
	for _, rec := range f.records {
		if !rec.Timestamp.Before(cutoff) {
			out = append(out, rec)
		}
	}
	return out, nil
}

type fakeFetcher struct {
	bundle domain.QuoteBundle
	err    error
}

func (f *fakeFetcher) Fetch(context.Context) (domain.QuoteBundle, error) {
	if f.err != nil {
		return domain.QuoteBundle{}, f.err
	}
	return f.bundle, nil
}

type fakeGuard struct {
	mu   sync.Mutex
	seen map[string]bool
	err  error
}

func (f *fakeGuard) TryReserve(_ context.Context, key string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return false, f.err
	}
	if f.seen == nil {
		f.seen = map[string]bool{}
	}
	if f.seen[key] {
		return false, nil
	}
	f.seen[key] = true
	return true, nil
}

func fakeBundle(at time.Time) domain.QuoteBundle {
	b, _ := domain.NewQuoteBundle(at, map[domain.Asset]domain.AssetQuote{
		domain.AssetAKT: {Prices: map[domain.Currency]float64{
			domain.CurrencyUSD: 4.0,
			domain.CurrencySEK: 40.0,
		}},
		domain.AssetSPICE: {Prices: map[domain.Currency]float64{
			domain.CurrencyUSD: 0.001,
			domain.CurrencySEK: 0.01,
		}},
	})
	return b
}

// NewInMemoryServer wires a Server against in-memory collaborators; it backs
// local development and the router tests.
func NewInMemoryServer() (*Server, *application.Scheduler, *fakeHistoryStore, *fakeGuard) {
	store := &fakeHistoryStore{}
	fetcher := &fakeFetcher{bundle: fakeBundle(time.Now())}
	guard := &fakeGuard{}
	sched := application.NewScheduler(fetcher, store, "6789", 5*time.Minute, nil)
	return NewServer(sched, store, guard), sched, store, guard
}
