package domain

import (
	"fmt"
	"time"
)

// Quote is one price observation for one asset in one currency.
type Quote struct {
	Asset    Asset
	Currency Currency
	Price    float64
}

// AssetQuote holds all quotes for one asset from a single fetch cycle.
// MarketCapUSD is nil when the upstream response omits it.
type AssetQuote struct {
	Prices       map[Currency]float64
	MarketCapUSD *float64
}

// QuoteBundle is the complete, atomically produced result of one fetch
// cycle: every tracked asset quoted in every tracked currency. A bundle is
// immutable once constructed.
type QuoteBundle struct {
	Quotes    map[Asset]AssetQuote
	FetchedAt time.Time
}

// NewQuoteBundle validates that quotes cover exactly the tracked assets and
// currencies with non-negative prices. Partial bundles are rejected.
func NewQuoteBundle(fetchedAt time.Time, quotes map[Asset]AssetQuote) (QuoteBundle, error) {
	for _, a := range Assets() {
		aq, ok := quotes[a]
		if !ok {
			return QuoteBundle{}, fmt.Errorf("missing asset %q", a)
		}
		for _, c := range Currencies() {
			p, ok := aq.Prices[c]
			if !ok {
				return QuoteBundle{}, fmt.Errorf("missing %s price for %q", c, a)
			}
			if p < 0 {
				return QuoteBundle{}, fmt.Errorf("negative %s price for %q: %v", c, a, p)
			}
		}
		if aq.MarketCapUSD != nil && *aq.MarketCapUSD < 0 {
			return QuoteBundle{}, fmt.Errorf("negative market cap for %q: %v", a, *aq.MarketCapUSD)
		}
	}
	return QuoteBundle{Quotes: quotes, FetchedAt: fetchedAt}, nil
}

// Price returns the quoted price for an asset in a currency.
func (b *QuoteBundle) Price(a Asset, c Currency) (float64, bool) {
	if b == nil {
		return 0, false
	}
	aq, ok := b.Quotes[a]
	if !ok {
		return 0, false
	}
	p, ok := aq.Prices[c]
	return p, ok
}

// MarketCapUSD returns the asset's USD market capitalization when known.
func (b *QuoteBundle) MarketCapUSD(a Asset) (float64, bool) {
	if b == nil {
		return 0, false
	}
	aq, ok := b.Quotes[a]
	if !ok || aq.MarketCapUSD == nil {
		return 0, false
	}
	return *aq.MarketCapUSD, true
}
