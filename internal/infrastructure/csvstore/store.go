// Package csvstore implements the history log as an append-only CSV file:
// one header row, one data row per successful fetch, never rewritten in
// place. Single-writer by assumption; no file locking.
package csvstore

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/koop46/crypto-prices/internal/application"
	"github.com/koop46/crypto-prices/internal/domain"
)

var header = []string{"timestamp", "akt_usd", "akt_sek", "spice_usd", "spice_sek", "api_key"}

type Store struct {
	path string
}

var _ application.HistoryStore = (*Store)(nil)

func New(path string) *Store { return &Store{path: path} }

// Append opens the log in append mode, writing the header first if the file
// does not exist yet. Duplicate records produce duplicate rows.
func (s *Store) Append(_ context.Context, rec domain.HistoryRecord) error {
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("%w: create log dir: %v", domain.ErrStorage, err)
		}
	}

	_, statErr := os.Stat(s.path)
	writeHeader := errors.Is(statErr, os.ErrNotExist)

	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("%w: open log: %v", domain.ErrStorage, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if writeHeader {
		if err := w.Write(header); err != nil {
			return fmt.Errorf("%w: write header: %v", domain.ErrStorage, err)
		}
	}
	row := []string{
		rec.Timestamp.Format(domain.TimestampLayout),
		formatFloat(rec.AktUSD),
		formatFloat(rec.AktSEK),
		formatFloat(rec.SpiceUSD),
		formatFloat(rec.SpiceSEK),
		rec.KeyTail,
	}
	if err := w.Write(row); err != nil {
		return fmt.Errorf("%w: write row: %v", domain.ErrStorage, err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("%w: flush log: %v", domain.ErrStorage, err)
	}
	return nil
}

// LoadWindow reads the whole log and returns rows inside the trailing
// window, ascending. A missing log is an empty history, not an error.
func (s *Store) LoadWindow(_ context.Context, now time.Time) ([]domain.HistoryRecord, error) {
	f, err := os.Open(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: open log: %v", domain.ErrStorage, err)
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: read log: %v", domain.ErrStorage, err)
	}

	cutoff := now.Add(-domain.HistoryWindow)
	out := make([]domain.HistoryRecord, 0, len(rows))
	for i, row := range rows {
		if i == 0 && len(row) > 0 && row[0] == header[0] {
			continue
		}
		rec, err := parseRow(row)
		if err != nil {
			return nil, fmt.Errorf("%w: row %d: %v", domain.ErrStorage, i+1, err)
		}
		if rec.Timestamp.Before(cutoff) {
			continue
		}
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Timestamp.Before(out[j].Timestamp) })
	return out, nil
}

func parseRow(row []string) (domain.HistoryRecord, error) {
	if len(row) != len(header) {
		return domain.HistoryRecord{}, fmt.Errorf("expected %d columns, got %d", len(header), len(row))
	}
	ts, err := time.ParseInLocation(domain.TimestampLayout, row[0], time.Local)
	if err != nil {
		return domain.HistoryRecord{}, fmt.Errorf("parse timestamp %q: %v", row[0], err)
	}
	rec := domain.HistoryRecord{Timestamp: ts, KeyTail: row[5]}
	for i, dst := range []*float64{&rec.AktUSD, &rec.AktSEK, &rec.SpiceUSD, &rec.SpiceSEK} {
		v, err := strconv.ParseFloat(row[i+1], 64)
		if err != nil {
			return domain.HistoryRecord{}, fmt.Errorf("parse %s %q: %v", header[i+1], row[i+1], err)
		}
		*dst = v
	}
	return rec, nil
}

func formatFloat(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }
