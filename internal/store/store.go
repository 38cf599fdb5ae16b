// Package store defines storage interfaces for persisting and retrieving
// trade logs and user-created template forks, with Parquet and SQLite
// implementations.
package store

import (
	"context"
	"errors"
	"time"

	"stratboard/internal/domain"
)

// ErrForkNotFound is returned by fork lookups for unknown ids.
var ErrForkNotFound = errors.New("fork not found")

// TradeStore persists and retrieves trade records for analytics.
type TradeStore interface {
	// WriteTrades persists a batch of trade records to storage.
	WriteTrades(ctx context.Context, trades []domain.TradeRecord) error

	// ReadTrades returns trade records with timestamps within [start, end].
	ReadTrades(ctx context.Context, start, end time.Time) ([]domain.TradeRecord, error)
}

// ForkStore persists user-created template forks.
type ForkStore interface {
	// SaveFork inserts or replaces a forked template.
	SaveFork(ctx context.Context, t *domain.StrategyTemplate) error

	// GetFork retrieves a forked template by id, or ErrForkNotFound.
	GetFork(ctx context.Context, id string) (*domain.StrategyTemplate, error)

	// ListForks returns all forked templates, newest first.
	ListForks(ctx context.Context) ([]domain.StrategyTemplate, error)

	// DeleteFork removes a forked template, or ErrForkNotFound.
	DeleteFork(ctx context.Context, id string) error
}
