package application

import (
	"context"
	"sync"
	"time"

	"github.com/koop46/crypto-prices/internal/domain"
)

type fakeClock struct{ t time.Time }

func (f fakeClock) Now() time.Time { return f.t }

type fakeFetcher struct {
	mu     sync.Mutex
	bundle domain.QuoteBundle
	err    error
	calls  int
}

func (f *fakeFetcher) Fetch(context.Context) (domain.QuoteBundle, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return domain.QuoteBundle{}, f.err
	}
	return f.bundle, nil
}

func (f *fakeFetcher) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type fakeStore struct {
	mu        sync.Mutex
	records   []domain.HistoryRecord
	appendErr error
}

func (f *fakeStore) Append(_ context.Context, rec domain.HistoryRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.appendErr != nil {
		return f.appendErr
	}
	f.records = append(f.records, rec)
	return nil
}

func (f *fakeStore) LoadWindow(_ context.Context, now time.Time) ([]domain.HistoryRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	cutoff := now.Add(-domain.HistoryWindow)
	var out []domain.HistoryRecord
	for _, r := range f.records {
		if !r.Timestamp.Before(cutoff) {
			out = append(out, r)
		}
	}
	return out, nil
}

func testBundle(aktUSD, spiceUSD float64) domain.QuoteBundle {
	b, err := domain.NewQuoteBundle(time.Now(), map[domain.Asset]domain.AssetQuote{
		domain.AssetAKT: {Prices: map[domain.Currency]float64{
			domain.CurrencyUSD: aktUSD,
			domain.CurrencySEK: aktUSD * 10,
		}},
		domain.AssetSPICE: {Prices: map[domain.Currency]float64{
			domain.CurrencyUSD: spiceUSD,
			domain.CurrencySEK: spiceUSD * 10,
		}},
	})
	if err != nil {
		panic(err)
	}
	return b
}
