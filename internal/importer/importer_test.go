package importer

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/alpacahq/alpaca-trade-api-go/v3/alpaca"
	"github.com/shopspring/decimal"

	"stratboard/internal/domain"
)

func fill(symbol, side string, qty, price float64, minute int) Fill {
	return Fill{
		Symbol: symbol,
		Side:   side,
		Qty:    qty,
		Price:  price,
		Time:   time.Date(2025, 6, 2, 9, minute, 0, 0, time.UTC),
	}
}

func TestRoundTripsSimple(t *testing.T) {
	trades := RoundTrips([]Fill{
		fill("AAPL", "buy", 10, 100, 0),
		fill("AAPL", "sell", 10, 105, 1),
	})
	if len(trades) != 1 {
		t.Fatalf("RoundTrips returned %d trades, want 1", len(trades))
	}
	if trades[0].PnL != 50 {
		t.Errorf("PnL = %v, want 50", trades[0].PnL)
	}
	if trades[0].Platform != Platform || trades[0].Strategy != "AAPL" {
		t.Errorf("labels = %s/%s, want %s/AAPL", trades[0].Platform, trades[0].Strategy, Platform)
	}
}

func TestRoundTripsFIFO(t *testing.T) {
	// Two buy lots at different prices; the sell must match the older
	// lot first.
	trades := RoundTrips([]Fill{
		fill("TSLA", "buy", 5, 100, 0),
		fill("TSLA", "buy", 5, 110, 1),
		fill("TSLA", "sell", 7, 120, 2),
	})
	if len(trades) != 1 {
		t.Fatalf("RoundTrips returned %d trades, want 1", len(trades))
	}
	// 5 @ (120-100) + 2 @ (120-110).
	if want := 120.0; math.Abs(trades[0].PnL-want) > 1e-9 {
		t.Errorf("PnL = %v, want %v", trades[0].PnL, want)
	}
}

func TestRoundTripsPartialClose(t *testing.T) {
	trades := RoundTrips([]Fill{
		fill("MSFT", "buy", 10, 200, 0),
		fill("MSFT", "sell", 4, 210, 1),
		fill("MSFT", "sell", 6, 190, 2),
	})
	if len(trades) != 2 {
		t.Fatalf("RoundTrips returned %d trades, want 2", len(trades))
	}
	if trades[0].PnL != 40 {
		t.Errorf("first close PnL = %v, want 40", trades[0].PnL)
	}
	if trades[1].PnL != -60 {
		t.Errorf("second close PnL = %v, want -60", trades[1].PnL)
	}
}

func TestRoundTripsShort(t *testing.T) {
	// Sell first opens a short; the buy covers it.
	trades := RoundTrips([]Fill{
		fill("NVDA", "sell", 3, 500, 0),
		fill("NVDA", "buy", 3, 480, 1),
	})
	if len(trades) != 1 {
		t.Fatalf("RoundTrips returned %d trades, want 1", len(trades))
	}
	if trades[0].PnL != 60 {
		t.Errorf("short cover PnL = %v, want 60", trades[0].PnL)
	}
}

func TestRoundTripsFlip(t *testing.T) {
	// Oversized sell closes the long and opens a short with the rest.
	trades := RoundTrips([]Fill{
		fill("AMD", "buy", 5, 100, 0),
		fill("AMD", "sell", 8, 110, 1),
		fill("AMD", "buy", 3, 105, 2),
	})
	if len(trades) != 2 {
		t.Fatalf("RoundTrips returned %d trades, want 2", len(trades))
	}
	if trades[0].PnL != 50 {
		t.Errorf("flip close PnL = %v, want 50", trades[0].PnL)
	}
	// Short 3 @ 110 covered at 105.
	if trades[1].PnL != 15 {
		t.Errorf("cover PnL = %v, want 15", trades[1].PnL)
	}
}

func TestRoundTripsSymbolsIndependent(t *testing.T) {
	trades := RoundTrips([]Fill{
		fill("AAPL", "buy", 1, 100, 0),
		fill("TSLA", "buy", 1, 200, 1),
		fill("AAPL", "sell", 1, 101, 2),
		fill("TSLA", "sell", 1, 198, 3),
	})
	if len(trades) != 2 {
		t.Fatalf("RoundTrips returned %d trades, want 2", len(trades))
	}
	if trades[0].Strategy != "AAPL" || trades[0].PnL != 1 {
		t.Errorf("first trade = %+v, want AAPL +1", trades[0])
	}
	if trades[1].Strategy != "TSLA" || trades[1].PnL != -2 {
		t.Errorf("second trade = %+v, want TSLA -2", trades[1])
	}
}

// ---------------------------------------------------------------------------
// Run
// ---------------------------------------------------------------------------

type fakeOrderClient struct {
	orders []alpaca.Order
	calls  int
}

func (f *fakeOrderClient) GetOrders(_ alpaca.GetOrdersRequest) ([]alpaca.Order, error) {
	f.calls++
	if f.calls > 1 {
		return nil, nil
	}
	return f.orders, nil
}

type captureStore struct {
	trades []domain.TradeRecord
}

func (c *captureStore) WriteTrades(_ context.Context, trades []domain.TradeRecord) error {
	c.trades = append(c.trades, trades...)
	return nil
}

func (c *captureStore) ReadTrades(_ context.Context, _, _ time.Time) ([]domain.TradeRecord, error) {
	return c.trades, nil
}

func order(symbol string, side alpaca.Side, qty, price float64, minute int) alpaca.Order {
	filledAt := time.Date(2025, 6, 2, 10, minute, 0, 0, time.UTC)
	avg := decimal.NewFromFloat(price)
	return alpaca.Order{
		Symbol:         symbol,
		Side:           side,
		FilledQty:      decimal.NewFromFloat(qty),
		FilledAvgPrice: &avg,
		FilledAt:       &filledAt,
	}
}

func TestImporterRun(t *testing.T) {
	client := &fakeOrderClient{orders: []alpaca.Order{
		order("AAPL", alpaca.Buy, 10, 150, 0),
		order("AAPL", alpaca.Sell, 10, 155, 5),
		{Symbol: "SKIP", Side: alpaca.Buy}, // never filled, ignored
	}}
	dst := &captureStore{}

	imp := New(client, dst, 500, 6000)
	if err := imp.Run(context.Background(), time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if len(dst.trades) != 1 {
		t.Fatalf("imported %d trades, want 1", len(dst.trades))
	}
	if dst.trades[0].PnL != 50 {
		t.Errorf("imported PnL = %v, want 50", dst.trades[0].PnL)
	}
}
