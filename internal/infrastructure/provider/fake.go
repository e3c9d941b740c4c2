package provider

import (
	"context"
	"time"

	"github.com/koop46/crypto-prices/internal/application"
	"github.com/koop46/crypto-prices/internal/domain"
)

// Ensure Fake implements application.PriceFetcher.
var _ application.PriceFetcher = (*Fake)(nil)

// Fake returns fixed prices; useful for dev profiles without an API key.
type Fake struct {
	aktUSD   float64
	spiceUSD float64
	sekRate  float64
}

func NewFake(aktUSD, spiceUSD, sekRate float64) *Fake {
	return &Fake{aktUSD: aktUSD, spiceUSD: spiceUSD, sekRate: sekRate}
}

func (f *Fake) Fetch(context.Context) (domain.QuoteBundle, error) {
	return domain.NewQuoteBundle(time.Now(), map[domain.Asset]domain.AssetQuote{
		domain.AssetAKT: {Prices: map[domain.Currency]float64{
			domain.CurrencyUSD: f.aktUSD,
			domain.CurrencySEK: f.aktUSD * f.sekRate,
		}},
		domain.AssetSPICE: {Prices: map[domain.Currency]float64{
			domain.CurrencyUSD: f.spiceUSD,
			domain.CurrencySEK: f.spiceUSD * f.sekRate,
		}},
	})
}
