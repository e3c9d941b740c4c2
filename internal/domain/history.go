package domain

import (
	"fmt"
	"time"
)

// TimestampLayout is the ISO-8601 local-naive, second-precision format the
// history log uses.
const TimestampLayout = "2006-01-02T15:04:05"

// HistoryWindow is the trailing slice of the log served to the renderer.
const HistoryWindow = 24 * time.Hour

// HistoryRecord is one persisted row of the append-only history log.
// Rows are appended in non-decreasing timestamp order (single writer) and
// never mutated or deleted.
type HistoryRecord struct {
	Timestamp time.Time
	AktUSD    float64
	AktSEK    float64
	SpiceUSD  float64
	SpiceSEK  float64
	// KeyTail holds the last 4 characters of the API credential for audit,
	// never the full secret.
	KeyTail string
}

// NewHistoryRecord flattens a quote bundle into a log row stamped at the
// given instant, truncated to second precision.
func NewHistoryRecord(at time.Time, b QuoteBundle, keyTail string) (HistoryRecord, error) {
	rec := HistoryRecord{Timestamp: at.Truncate(time.Second), KeyTail: keyTail}
	fields := []struct {
		asset Asset
		cur   Currency
		dst   *float64
	}{
		{AssetAKT, CurrencyUSD, &rec.AktUSD},
		{AssetAKT, CurrencySEK, &rec.AktSEK},
		{AssetSPICE, CurrencyUSD, &rec.SpiceUSD},
		{AssetSPICE, CurrencySEK, &rec.SpiceSEK},
	}
	for _, f := range fields {
		p, ok := b.Price(f.asset, f.cur)
		if !ok {
			return HistoryRecord{}, fmt.Errorf("bundle missing %s/%s", f.asset, f.cur)
		}
		*f.dst = p
	}
	return rec, nil
}

// CredentialTail returns the last 4 characters of a credential, or the
// credential itself when shorter.
func CredentialTail(credential string) string {
	if len(credential) <= 4 {
		return credential
	}
	return credential[len(credential)-4:]
}
