package pg

import (
	"context"
	"fmt"
	"time"

	"github.com/koop46/crypto-prices/internal/application"
	"github.com/koop46/crypto-prices/internal/domain"
)

// HistoryRepo is the Postgres-backed history log. Same append-only
// semantics as the CSV store: inserts only, no dedup, no updates.
type HistoryRepo struct{ db *DB }

var _ application.HistoryStore = (*HistoryRepo)(nil)

func NewHistoryRepo(db *DB) *HistoryRepo { return &HistoryRepo{db: db} }

func (r *HistoryRepo) Append(ctx context.Context, rec domain.HistoryRecord) error {
	const ins = `
        INSERT INTO price_history(observed_at, akt_usd, akt_sek, spice_usd, spice_sek, key_tail)
        VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.db.Pool.Exec(ctx, ins,
		rec.Timestamp, rec.AktUSD, rec.AktSEK, rec.SpiceUSD, rec.SpiceSEK, rec.KeyTail)
	if err != nil {
		return fmt.Errorf("%w: insert history: %v", domain.ErrStorage, err)
	}
	return nil
}

func (r *HistoryRepo) LoadWindow(ctx context.Context, now time.Time) ([]domain.HistoryRecord, error) {
	const q = `
        SELECT observed_at, akt_usd::float8, akt_sek::float8, spice_usd::float8, spice_sek::float8, key_tail
        FROM price_history
        WHERE observed_at >= $1
        ORDER BY observed_at`
	rows, err := r.db.Pool.Query(ctx, q, now.Add(-domain.HistoryWindow))
	if err != nil {
		return nil, fmt.Errorf("%w: query history: %v", domain.ErrStorage, err)
	}
	defer rows.Close()

	var out []domain.HistoryRecord
	for rows.Next() {
		var rec domain.HistoryRecord
		if err := rows.Scan(&rec.Timestamp, &rec.AktUSD, &rec.AktSEK, &rec.SpiceUSD, &rec.SpiceSEK, &rec.KeyTail); err != nil {
			return nil, fmt.Errorf("%w: scan history row: %v", domain.ErrStorage, err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: read history rows: %v", domain.ErrStorage, err)
	}
	return out, nil
}
