package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/koop46/crypto-prices/internal/application"
	"github.com/koop46/crypto-prices/internal/domain"
)

const (
	simplePricePath = "/api/v3/simple/price"
	apiKeyHeader    = "x-cg-demo-api-key"
)

// upstreamIDs maps tracked assets to their CoinGecko identifiers.
var upstreamIDs = map[domain.Asset]string{
	domain.AssetAKT:   "akash-network",
	domain.AssetSPICE: "spice-2",
}

// CoinGecko fetches the tracked assets from the CoinGecko simple-price
// endpoint. One bounded request per cycle; failures are never retried here,
// the refresh cadence rate-limits them.
type CoinGecko struct {
	BaseURL string
	APIKey  string
	Client  *http.Client
}

var _ application.PriceFetcher = (*CoinGecko)(nil)

func NewCoinGecko(baseURL, apiKey string, timeout time.Duration) *CoinGecko {
	return &CoinGecko{
		BaseURL: baseURL,
		APIKey:  apiKey,
		Client:  &http.Client{Timeout: timeout},
	}
}

func (p *CoinGecko) Fetch(ctx context.Context) (domain.QuoteBundle, error) {
	u, err := url.Parse(p.BaseURL)
	if err != nil {
		return domain.QuoteBundle{}, fmt.Errorf("coingecko: invalid base url: %w", err)
	}
	u.Path = simplePricePath

	ids := make([]string, 0, len(domain.Assets()))
	for _, a := range domain.Assets() {
		ids = append(ids, upstreamIDs[a])
	}
	curs := make([]string, 0, len(domain.Currencies()))
	for _, c := range domain.Currencies() {
		curs = append(curs, string(c))
	}
	q := u.Query()
	q.Set("ids", strings.Join(ids, ","))
	q.Set("vs_currencies", strings.Join(curs, ","))
	q.Set("include_market_cap", "true")
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return domain.QuoteBundle{}, fmt.Errorf("coingecko: create request: %w", err)
	}
	if p.APIKey != "" {
		req.Header.Set(apiKeyHeader, p.APIKey)
	}

	client := p.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return domain.QuoteBundle{}, fmt.Errorf("%w: coingecko request: %v", domain.ErrNetwork, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return domain.QuoteBundle{}, fmt.Errorf("%w: coingecko status %d", domain.ErrNetwork, resp.StatusCode)
	}

	// Response shape: {"akash-network": {"usd": 4.0, "sek": 40.0,
	// "usd_market_cap": 1.2e9}, ...}
	var body map[string]map[string]float64
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return domain.QuoteBundle{}, fmt.Errorf("%w: decode coingecko response: %v", domain.ErrMalformedResponse, err)
	}

	quotes := make(map[domain.Asset]domain.AssetQuote, len(domain.Assets()))
	for _, a := range domain.Assets() {
		raw, ok := body[upstreamIDs[a]]
		if !ok {
			return domain.QuoteBundle{}, fmt.Errorf("%w: missing asset %q", domain.ErrMalformedResponse, upstreamIDs[a])
		}
		prices := make(map[domain.Currency]float64, len(domain.Currencies()))
		for _, c := range domain.Currencies() {
			v, ok := raw[string(c)]
			if !ok {
				return domain.QuoteBundle{}, fmt.Errorf("%w: missing %s price for %q", domain.ErrMalformedResponse, c, upstreamIDs[a])
			}
			prices[c] = v
		}
		aq := domain.AssetQuote{Prices: prices}
		if mc, ok := raw["usd_market_cap"]; ok {
			aq.MarketCapUSD = &mc
		}
		quotes[a] = aq
	}

	bundle, err := domain.NewQuoteBundle(time.Now(), quotes)
	if err != nil {
		return domain.QuoteBundle{}, fmt.Errorf("%w: %v", domain.ErrMalformedResponse, err)
	}
	return bundle, nil
}
