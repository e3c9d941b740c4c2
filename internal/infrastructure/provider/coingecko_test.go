package provider_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/koop46/crypto-prices/internal/domain"
	"github.com/koop46/crypto-prices/internal/infrastructure/provider"
	"github.com/koop46/crypto-prices/internal/presentation"
)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

func httpClient(resBody string, code int) *http.Client {
	return &http.Client{
		Timeout: 2 * time.Second,
		Transport: roundTripFunc(func(r *http.Request) (*http.Response, error) {
			return &http.Response{
				StatusCode: code,
				Body:       io.NopCloser(strings.NewReader(resBody)),
				Header:     make(http.Header),
				Request:    r,
			}, nil
		}),
	}
}

const sampleOK = `{
  "akash-network": {"usd": 4.0, "sek": 40.0, "usd_market_cap": 1100000000},
  "spice-2": {"usd": 0.001, "sek": 0.01}
}`

func TestFetch_HappyPath(t *testing.T) {
	t.Parallel()
	p := &provider.CoinGecko{
		BaseURL: "https://api.coingecko.com",
		APIKey:  "CG-test-key",
		Client:  httpClient(sampleOK, 200),
	}

	b, err := p.Fetch(context.Background())
	require.NoError(t, err)

	usd, ok := b.Price(domain.AssetAKT, domain.CurrencyUSD)
	require.True(t, ok)
	require.InDelta(t, 4.0, usd, 1e-9)

	sek, ok := b.Price(domain.AssetSPICE, domain.CurrencySEK)
	require.True(t, ok)
	require.InDelta(t, 0.01, sek, 1e-9)

	mc, ok := b.MarketCapUSD(domain.AssetAKT)
	require.True(t, ok)
	require.InDelta(t, 1.1e9, mc, 1)
	_, ok = b.MarketCapUSD(domain.AssetSPICE)
	require.False(t, ok)

	// End to end: 4.0 / 0.001 == 4000.
	r, ok := presentation.Ratio(&b)
	require.True(t, ok)
	require.InDelta(t, 4000.0, r, 1e-9)
}

func TestFetch_RequestShape(t *testing.T) {
	t.Parallel()
	var got *http.Request
	client := &http.Client{
		Transport: roundTripFunc(func(r *http.Request) (*http.Response, error) {
			got = r
			return &http.Response{
				StatusCode: 200,
				Body:       io.NopCloser(strings.NewReader(sampleOK)),
				Header:     make(http.Header),
				Request:    r,
			}, nil
		}),
	}
	p := &provider.CoinGecko{BaseURL: "https://api.coingecko.com", APIKey: "CG-test-key", Client: client}

	_, err := p.Fetch(context.Background())
	require.NoError(t, err)
	require.Equal(t, "/api/v3/simple/price", got.URL.Path)
	require.Equal(t, "akash-network,spice-2", got.URL.Query().Get("ids"))
	require.Equal(t, "usd,sek", got.URL.Query().Get("vs_currencies"))
	require.Equal(t, "true", got.URL.Query().Get("include_market_cap"))
	require.Equal(t, "CG-test-key", got.Header.Get("x-cg-demo-api-key"))
}

func TestFetch_MissingAssetKey(t *testing.T) {
	t.Parallel()
	body := `{"akash-network": {"usd": 4.0, "sek": 40.0}}`
	p := &provider.CoinGecko{BaseURL: "https://api.coingecko.com", Client: httpClient(body, 200)}

	_, err := p.Fetch(context.Background())
	require.ErrorIs(t, err, domain.ErrMalformedResponse)
}

func TestFetch_MissingCurrency(t *testing.T) {
	t.Parallel()
	body := `{"akash-network": {"usd": 4.0}, "spice-2": {"usd": 0.001, "sek": 0.01}}`
	p := &provider.CoinGecko{BaseURL: "https://api.coingecko.com", Client: httpClient(body, 200)}

	_, err := p.Fetch(context.Background())
	require.ErrorIs(t, err, domain.ErrMalformedResponse)
}

func TestFetch_UpstreamStatus(t *testing.T) {
	t.Parallel()
	p := &provider.CoinGecko{BaseURL: "https://api.coingecko.com", Client: httpClient(`rate limited`, 429)}

	_, err := p.Fetch(context.Background())
	require.ErrorIs(t, err, domain.ErrNetwork)
}

func TestFetch_TransportError(t *testing.T) {
	t.Parallel()
	client := &http.Client{
		Transport: roundTripFunc(func(*http.Request) (*http.Response, error) {
			return nil, errors.New("connection refused")
		}),
	}
	p := &provider.CoinGecko{BaseURL: "https://api.coingecko.com", Client: client}

	_, err := p.Fetch(context.Background())
	require.ErrorIs(t, err, domain.ErrNetwork)
}

func TestFake_ProducesCompleteBundle(t *testing.T) {
	t.Parallel()
	b, err := provider.NewFake(4.0, 0.001, 10).Fetch(context.Background())
	require.NoError(t, err)

	r, ok := presentation.Ratio(&b)
	require.True(t, ok)
	require.InDelta(t, 4000.0, r, 1e-9)
}
