package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/parquet-go/parquet-go"

	"stratboard/internal/domain"
)

// Compile-time interface check.
var _ TradeStore = (*ParquetStore)(nil)

// ParquetStore implements TradeStore using Parquet files on disk, one
// file per trading day.
type ParquetStore struct {
	DataDir string
}

// NewParquetStore creates a new ParquetStore rooted at the given data
// directory.
func NewParquetStore(dataDir string) *ParquetStore {
	return &ParquetStore{DataDir: dataDir}
}

// TradeRow is the Parquet schema for trade records.
type TradeRow struct {
	Timestamp int64   `parquet:"timestamp,timestamp(millisecond)"` // Unix ms
	PnL       float64 `parquet:"pnl"`
	Platform  string  `parquet:"platform"`
	Strategy  string  `parquet:"strategy"`
}

// WriteTrades writes trade records to Parquet files organized by date.
// Rewriting a day merges with its existing rows and deduplicates.
func (s *ParquetStore) WriteTrades(_ context.Context, trades []domain.TradeRecord) error {
	if len(trades) == 0 {
		return nil
	}

	groups := make(map[string][]TradeRow)
	for _, t := range trades {
		date := t.Timestamp.Format("2006-01-02")
		groups[date] = append(groups[date], TradeRow{
			Timestamp: t.Timestamp.UnixMilli(),
			PnL:       t.PnL,
			Platform:  t.Platform,
			Strategy:  t.Strategy,
		})
	}

	for date, rows := range groups {
		path := s.tradePath(date)

		existing, _ := readParquetFile[TradeRow](path)
		merged := mergeTradeRows(existing, rows)

		if err := writeParquetFile(path, merged); err != nil {
			return fmt.Errorf("writing trades for %s: %w", date, err)
		}
	}
	return nil
}

// ReadTrades reads trade records from the daily Parquet files covering
// [start, end], filtered to timestamps within the range.
func (s *ParquetStore) ReadTrades(_ context.Context, start, end time.Time) ([]domain.TradeRecord, error) {
	var trades []domain.TradeRecord
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		path := s.tradePath(d.Format("2006-01-02"))
		rows, err := readParquetFile[TradeRow](path)
		if err != nil {
			// No file for this day.
			continue
		}
		for _, r := range rows {
			ts := time.UnixMilli(r.Timestamp).UTC()
			if (ts.Equal(start) || ts.After(start)) && (ts.Equal(end) || ts.Before(end)) {
				trades = append(trades, domain.TradeRecord{
					PnL:       r.PnL,
					Timestamp: ts,
					Platform:  r.Platform,
					Strategy:  r.Strategy,
				})
			}
		}
	}
	return trades, nil
}

// ListDates returns the dates that have a trade log file, ascending.
func (s *ParquetStore) ListDates(_ context.Context) ([]string, error) {
	dir := filepath.Join(s.DataDir, "trades")
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var dates []string
	for _, e := range entries {
		name := e.Name()
		if !e.IsDir() && filepath.Ext(name) == ".parquet" {
			dates = append(dates, name[:len(name)-len(".parquet")])
		}
	}
	sort.Strings(dates)
	return dates, nil
}

// tradePath returns the filesystem path for a daily trade Parquet file.
// Layout: <dataDir>/trades/<YYYY-MM-DD>.parquet
func (s *ParquetStore) tradePath(date string) string {
	return filepath.Join(s.DataDir, "trades", date+".parquet")
}

func writeParquetFile[T any](path string, records []T) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return parquet.WriteFile(path, records)
}

func readParquetFile[T any](path string) ([]T, error) {
	rows, err := parquet.ReadFile[T](path)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// mergeTradeRows deduplicates rows by their full value, preferring
// incoming over existing. Results are sorted by timestamp.
func mergeTradeRows(existing, incoming []TradeRow) []TradeRow {
	seen := make(map[TradeRow]struct{}, len(existing)+len(incoming))
	merged := make([]TradeRow, 0, len(existing)+len(incoming))
	for _, rows := range [][]TradeRow{existing, incoming} {
		for _, r := range rows {
			if _, ok := seen[r]; ok {
				continue
			}
			seen[r] = struct{}{}
			merged = append(merged, r)
		}
	}
	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].Timestamp < merged[j].Timestamp
	})
	return merged
}
