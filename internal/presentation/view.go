package presentation

import (
	"time"

	"github.com/koop46/crypto-prices/internal/application"
	"github.com/koop46/crypto-prices/internal/domain"
)

// AssetCard is one asset's current quotes, raw for charting plus formatted
// for display.
type AssetCard struct {
	USD        float64 `json:"usd"`
	SEK        float64 `json:"sek"`
	USDDisplay string  `json:"usd_display"`
	SEKDisplay string  `json:"sek_display"`
	MarketCap  string  `json:"market_cap,omitempty"`
}

// Dashboard is everything the renderer needs for one frame.
type Dashboard struct {
	Assets               map[string]AssetCard `json:"assets,omitempty"`
	Ratio                *float64             `json:"akt_spice_ratio,omitempty"`
	LastUpdated          string               `json:"last_updated,omitempty"`
	NextRefreshInSeconds int                  `json:"next_refresh_in_seconds"`
	Warning              string               `json:"warning,omitempty"`
}

// HistoryRow is one windowed log row with the derived ratio column.
type HistoryRow struct {
	Timestamp string   `json:"timestamp"`
	AktUSD    float64  `json:"akt_usd"`
	AktSEK    float64  `json:"akt_sek"`
	SpiceUSD  float64  `json:"spice_usd"`
	SpiceSEK  float64  `json:"spice_sek"`
	Ratio     *float64 `json:"ratio,omitempty"`
}

// BuildDashboard shapes a scheduler snapshot for the renderer. A failed last
// cycle keeps the stale quotes visible with a warning; before any cycle
// succeeds the warning says data is unavailable.
func BuildDashboard(snap application.Snapshot, now time.Time) Dashboard {
	d := Dashboard{
		NextRefreshInSeconds: int(snap.Countdown(now).Seconds()),
	}
	if snap.LastErr != nil {
		d.Warning = snap.LastErr.Error()
	}
	if snap.Bundle == nil {
		if d.Warning == "" {
			d.Warning = domain.ErrNoData.Error()
		}
		return d
	}

	d.Assets = make(map[string]AssetCard, len(domain.Assets()))
	for _, a := range domain.Assets() {
		usd, _ := snap.Bundle.Price(a, domain.CurrencyUSD)
		sek, _ := snap.Bundle.Price(a, domain.CurrencySEK)
		// SPICE trades well below a cent; two digits would render 0.00.
		high := a == domain.AssetSPICE
		card := AssetCard{
			USD:        usd,
			SEK:        sek,
			USDDisplay: FormatPrice(usd, domain.CurrencyUSD, high),
			SEKDisplay: FormatPrice(sek, domain.CurrencySEK, high),
		}
		if mc, ok := snap.Bundle.MarketCapUSD(a); ok {
			card.MarketCap = FormatMarketCap(mc)
		}
		d.Assets[string(a)] = card
	}
	if r, ok := Ratio(snap.Bundle); ok {
		d.Ratio = &r
	}
	if !snap.LastUpdated.IsZero() {
		d.LastUpdated = snap.LastUpdated.Format(domain.TimestampLayout)
	}
	return d
}

// HistoryTable shapes windowed records into renderer rows, deriving the
// per-row AKT/SPICE ratio where defined.
func HistoryTable(records []domain.HistoryRecord) []HistoryRow {
	rows := make([]HistoryRow, 0, len(records))
	for _, rec := range records {
		row := HistoryRow{
			Timestamp: rec.Timestamp.Format(domain.TimestampLayout),
			AktUSD:    rec.AktUSD,
			AktSEK:    rec.AktSEK,
			SpiceUSD:  rec.SpiceUSD,
			SpiceSEK:  rec.SpiceSEK,
		}
		if rec.SpiceUSD > 0 {
			r := rec.AktUSD / rec.SpiceUSD
			row.Ratio = &r
		}
		rows = append(rows, row)
	}
	return rows
}
