package analytics

import (
	"math"
	"reflect"
	"testing"
	"time"

	"stratboard/internal/domain"
)

// trade builds a record on the given 2025 June weekday (June 1st was a
// Sunday) at the given hour.
func trade(pnl float64, day time.Weekday, hour int, platform, strategy string) domain.TradeRecord {
	return domain.TradeRecord{
		PnL:       pnl,
		Timestamp: time.Date(2025, time.June, 1+int(day), hour, 30, 0, 0, time.UTC),
		Platform:  platform,
		Strategy:  strategy,
	}
}

func TestAggregateEmpty(t *testing.T) {
	s := Aggregate(nil)
	if s.TotalTrades != 0 || s.WinRate != 0 || s.ProfitFactor != 0 {
		t.Errorf("empty snapshot totals = %+v, want zeroed", s)
	}
	if len(s.ByDayOfWeek) != 0 || len(s.ByHour) != 0 || len(s.ByPlatform) != 0 {
		t.Errorf("empty snapshot breakdowns not empty: %+v", s)
	}
	if s.BestDay != nil || s.WorstDay != nil {
		t.Errorf("BestDay/WorstDay = %v/%v, want nil", s.BestDay, s.WorstDay)
	}
}

func TestAggregateTotals(t *testing.T) {
	trades := []domain.TradeRecord{
		trade(100, time.Monday, 9, "binance", "arb"),
		trade(-50, time.Monday, 10, "binance", "arb"),
		trade(200, time.Tuesday, 9, "kraken", "momentum"),
		trade(0, time.Wednesday, 14, "binance", "arb"),
	}
	s := Aggregate(trades)

	if s.TotalTrades != 4 {
		t.Errorf("TotalTrades = %d, want 4", s.TotalTrades)
	}
	// pnl == 0 counts toward neither wins nor losses.
	if s.TotalWins != 2 || s.TotalLosses != 1 {
		t.Errorf("wins/losses = %d/%d, want 2/1", s.TotalWins, s.TotalLosses)
	}
	if s.WinRate != 50 {
		t.Errorf("WinRate = %v, want 50", s.WinRate)
	}
	if s.AvgWin != 150 {
		t.Errorf("AvgWin = %v, want 150", s.AvgWin)
	}
	if s.AvgLoss != 50 {
		t.Errorf("AvgLoss = %v, want 50", s.AvgLoss)
	}
	// 0.5*150 - 0.5*50.
	if math.Abs(s.Expectancy-50) > 1e-9 {
		t.Errorf("Expectancy = %v, want 50", s.Expectancy)
	}
	if s.ProfitFactor != 6 {
		t.Errorf("ProfitFactor = %v, want 6", s.ProfitFactor)
	}
	if s.LargestWin != 200 || s.LargestLoss != -50 {
		t.Errorf("largest win/loss = %v/%v, want 200/-50", s.LargestWin, s.LargestLoss)
	}
}

func TestAggregateDayBucketsConserve(t *testing.T) {
	trades := []domain.TradeRecord{
		trade(10, time.Sunday, 1, "a", "x"),
		trade(-3, time.Monday, 2, "a", "x"),
		trade(7, time.Friday, 3, "b", "y"),
		trade(-1, time.Saturday, 23, "b", "y"),
		trade(2.5, time.Sunday, 1, "a", "y"),
	}
	s := Aggregate(trades)

	if len(s.ByDayOfWeek) != 7 {
		t.Fatalf("ByDayOfWeek = %d buckets, want 7", len(s.ByDayOfWeek))
	}
	if s.ByDayOfWeek[0].Label != "Sunday" || s.ByDayOfWeek[6].Label != "Saturday" {
		t.Errorf("day order = %s..%s, want Sunday..Saturday",
			s.ByDayOfWeek[0].Label, s.ByDayOfWeek[6].Label)
	}

	var sumPnL, wantPnL float64
	var sumTrades int
	for _, d := range s.ByDayOfWeek {
		sumPnL += d.PnL
		sumTrades += d.Trades
	}
	for _, r := range trades {
		wantPnL += r.PnL
	}
	if math.Abs(sumPnL-wantPnL) > 1e-9 {
		t.Errorf("day bucket pnl sum = %v, want %v", sumPnL, wantPnL)
	}
	if sumTrades != len(trades) {
		t.Errorf("day bucket trade sum = %d, want %d", sumTrades, len(trades))
	}
}

func TestAggregateHourBuckets(t *testing.T) {
	trades := []domain.TradeRecord{
		trade(5, time.Monday, 9, "a", "x"),
		trade(5, time.Monday, 9, "a", "x"),
		trade(-2, time.Monday, 16, "a", "x"),
	}
	s := Aggregate(trades)

	// Only hours with trades are emitted.
	if len(s.ByHour) != 2 {
		t.Fatalf("ByHour = %d buckets, want 2", len(s.ByHour))
	}
	if s.ByHour[0].Hour != 9 || s.ByHour[0].Trades != 2 || s.ByHour[0].Wins != 2 {
		t.Errorf("hour 9 = %+v, want 2 trades, 2 wins", s.ByHour[0])
	}
	if s.ByHour[1].Hour != 16 || s.ByHour[1].PnL != -2 {
		t.Errorf("hour 16 = %+v, want pnl -2", s.ByHour[1])
	}
}

func TestAggregateFirstSeenOrder(t *testing.T) {
	trades := []domain.TradeRecord{
		trade(1, time.Monday, 9, "kraken", "swing"),
		trade(1, time.Monday, 9, "binance", "arb"),
		trade(1, time.Monday, 9, "kraken", "arb"),
	}
	s := Aggregate(trades)

	if s.ByPlatform[0].Label != "kraken" || s.ByPlatform[1].Label != "binance" {
		t.Errorf("platform order = [%s %s], want first-seen [kraken binance]",
			s.ByPlatform[0].Label, s.ByPlatform[1].Label)
	}
	if s.ByStrategy[0].Label != "swing" || s.ByStrategy[1].Label != "arb" {
		t.Errorf("strategy order = [%s %s], want first-seen [swing arb]",
			s.ByStrategy[0].Label, s.ByStrategy[1].Label)
	}
	if s.ByPlatform[0].Trades != 2 {
		t.Errorf("kraken trades = %d, want 2", s.ByPlatform[0].Trades)
	}
}

func TestAggregateProfitFactorEdges(t *testing.T) {
	onlyWins := Aggregate([]domain.TradeRecord{
		trade(10, time.Monday, 9, "a", "x"),
	})
	if !math.IsInf(onlyWins.ProfitFactor, 1) {
		t.Errorf("ProfitFactor(only wins) = %v, want +Inf", onlyWins.ProfitFactor)
	}

	onlyFlat := Aggregate([]domain.TradeRecord{
		trade(0, time.Monday, 9, "a", "x"),
	})
	if onlyFlat.ProfitFactor != 0 {
		t.Errorf("ProfitFactor(no wins, no losses) = %v, want 0", onlyFlat.ProfitFactor)
	}
}

func TestAggregateBestWorstDay(t *testing.T) {
	trades := []domain.TradeRecord{
		trade(50, time.Tuesday, 9, "a", "x"),
		trade(-20, time.Thursday, 9, "a", "x"),
		trade(50, time.Friday, 9, "a", "x"), // ties Tuesday
	}
	s := Aggregate(trades)

	// Tie keeps the earlier day in Sunday→Saturday order.
	if s.BestDay == nil || s.BestDay.Label != "Tuesday" {
		t.Errorf("BestDay = %+v, want Tuesday", s.BestDay)
	}
	if s.WorstDay == nil || s.WorstDay.Label != "Thursday" {
		t.Errorf("WorstDay = %+v, want Thursday", s.WorstDay)
	}
}

func TestAggregateDeterministic(t *testing.T) {
	trades := []domain.TradeRecord{
		trade(12, time.Monday, 9, "binance", "arb"),
		trade(-7, time.Tuesday, 11, "kraken", "swing"),
		trade(3, time.Monday, 9, "binance", "arb"),
	}
	a, b := Aggregate(trades), Aggregate(trades)
	if !reflect.DeepEqual(a, b) {
		t.Error("Aggregate is not deterministic for identical input")
	}
}
