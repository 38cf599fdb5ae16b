// Package importer converts broker order fills into trade records for
// the analytics store. Fills are paired into round trips per symbol
// using FIFO lot matching, so each closing fill yields one realized-P&L
// trade record.
package importer

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/alpacahq/alpaca-trade-api-go/v3/alpaca"

	"stratboard/internal/domain"
	"stratboard/internal/store"
	"stratboard/internal/util"
)

// Platform is the platform label stamped on imported trade records.
const Platform = "alpaca"

// OrderClient is the subset of the Alpaca trading client the importer
// uses. The concrete *alpaca.Client satisfies it.
type OrderClient interface {
	GetOrders(req alpaca.GetOrdersRequest) ([]alpaca.Order, error)
}

var _ OrderClient = (*alpaca.Client)(nil)

// Importer fetches closed orders from the broker and writes realized
// round-trip trades to the trade store.
type Importer struct {
	client    OrderClient
	store     store.TradeStore
	limiter   *util.RateLimiter
	batchSize int
	log       *slog.Logger
}

// New creates an Importer with the given client, target store, and
// request pacing.
func New(client OrderClient, s store.TradeStore, batchSize, rateLimitPerMin int) *Importer {
	if batchSize <= 0 {
		batchSize = 500
	}
	return &Importer{
		client:    client,
		store:     s,
		limiter:   util.NewRateLimiter(rateLimitPerMin),
		batchSize: batchSize,
		log:       slog.Default().With("component", "importer"),
	}
}

// NewAlpacaClient builds the concrete Alpaca trading client from
// credentials.
func NewAlpacaClient(apiKey, apiSecret, baseURL string) *alpaca.Client {
	return alpaca.NewClient(alpaca.ClientOpts{
		APIKey:    apiKey,
		APISecret: apiSecret,
		BaseURL:   baseURL,
	})
}

// Run imports all filled orders after start, pairs them into round
// trips, and writes the resulting trade records. It paginates through
// the order history rate-limited until a short page signals the end.
func (imp *Importer) Run(ctx context.Context, start time.Time) error {
	var fills []Fill
	after := start

	for {
		if err := imp.limiter.Wait(ctx); err != nil {
			return err
		}

		orders, err := imp.client.GetOrders(alpaca.GetOrdersRequest{
			Status:    "closed",
			After:     after,
			Limit:     imp.batchSize,
			Direction: "asc",
		})
		if err != nil {
			return fmt.Errorf("fetching orders after %s: %w", after.Format(time.RFC3339), err)
		}

		page := 0
		for _, o := range orders {
			f, ok := fillFromOrder(o)
			if !ok {
				continue
			}
			fills = append(fills, f)
			page++
			if f.Time.After(after) {
				after = f.Time
			}
		}

		imp.log.Info("fetched order page", "orders", len(orders), "fills", page)
		if len(orders) < imp.batchSize {
			break
		}
	}

	trades := RoundTrips(fills)
	if len(trades) == 0 {
		imp.log.Info("no round trips to import", "fills", len(fills))
		return nil
	}

	if err := imp.store.WriteTrades(ctx, trades); err != nil {
		return fmt.Errorf("writing imported trades: %w", err)
	}
	imp.log.Info("import complete", "fills", len(fills), "trades", len(trades))
	return nil
}

// Fill is a single executed order fill.
type Fill struct {
	Symbol string
	Side   string // "buy" or "sell"
	Qty    float64
	Price  float64
	Time   time.Time
}

// fillFromOrder extracts a Fill from a closed order, skipping orders
// that never filled.
func fillFromOrder(o alpaca.Order) (Fill, bool) {
	if o.FilledAt == nil || o.FilledAvgPrice == nil {
		return Fill{}, false
	}
	qty := o.FilledQty.InexactFloat64()
	if qty <= 0 {
		return Fill{}, false
	}
	return Fill{
		Symbol: o.Symbol,
		Side:   string(o.Side),
		Qty:    qty,
		Price:  o.FilledAvgPrice.InexactFloat64(),
		Time:   o.FilledAt.UTC(),
	}, true
}

// lot is an open position fragment awaiting a closing fill.
type lot struct {
	qty   float64
	price float64
}

// RoundTrips pairs fills into realized round trips per symbol using
// FIFO lot matching and returns one trade record per closing fill. A
// fill in the direction of the open position extends it; an opposite
// fill consumes lots oldest-first and realizes P&L on the matched
// quantity. Unmatched remainder flips the position. Fills are processed
// in time order; the record's strategy label is the symbol.
func RoundTrips(fills []Fill) []domain.TradeRecord {
	ordered := make([]Fill, len(fills))
	copy(ordered, fills)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Time.Before(ordered[j].Time)
	})

	type book struct {
		long bool // direction of the open lots
		lots []lot
	}
	books := make(map[string]*book)

	var trades []domain.TradeRecord
	for _, f := range ordered {
		b, ok := books[f.Symbol]
		if !ok {
			b = &book{}
			books[f.Symbol] = b
		}
		buying := f.Side == "buy"

		// Same direction (or flat): extend the position.
		if len(b.lots) == 0 || b.long == buying {
			b.long = buying
			b.lots = append(b.lots, lot{qty: f.Qty, price: f.Price})
			continue
		}

		// Opposite direction: close lots FIFO.
		qty := f.Qty
		var pnl float64
		for qty > 0 && len(b.lots) > 0 {
			open := &b.lots[0]
			matched := min(qty, open.qty)
			if b.long {
				pnl += (f.Price - open.price) * matched
			} else {
				pnl += (open.price - f.Price) * matched
			}
			open.qty -= matched
			qty -= matched
			if open.qty == 0 {
				b.lots = b.lots[1:]
			}
		}
		trades = append(trades, domain.TradeRecord{
			PnL:       pnl,
			Timestamp: f.Time,
			Platform:  Platform,
			Strategy:  f.Symbol,
		})

		// Remainder flips the position.
		if qty > 0 {
			b.long = buying
			b.lots = append(b.lots, lot{qty: qty, price: f.Price})
		}
	}
	return trades
}
