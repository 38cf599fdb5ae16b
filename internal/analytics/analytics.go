// Package analytics reduces trade records into per-day, per-hour,
// per-platform, and per-strategy breakdowns plus summary statistics.
// Aggregation is a pure function of its input: no state is held between
// calls and the wall clock is never read, so identical input always
// produces identical output.
package analytics

import (
	"math"
	"time"

	"stratboard/internal/domain"
)

// BucketStats holds accumulated statistics for one breakdown bucket.
type BucketStats struct {
	Label  string  `json:"label"`
	PnL    float64 `json:"pnl"`
	Trades int     `json:"trades"`
	Wins   int     `json:"wins"`
}

// HourStats holds accumulated statistics for one hour of the day.
type HourStats struct {
	Hour   int     `json:"hour"`
	PnL    float64 `json:"pnl"`
	Trades int     `json:"trades"`
	Wins   int     `json:"wins"`
}

// Snapshot is a complete analytics view over one trade list.
//
// ProfitFactor is +Inf when wins exist without losses; transports that
// cannot carry infinities must convert it at their boundary.
type Snapshot struct {
	TotalTrades  int     `json:"totalTrades"`
	TotalWins    int     `json:"totalWins"`
	TotalLosses  int     `json:"totalLosses"`
	WinRate      float64 `json:"winRate"` // percent
	AvgWin       float64 `json:"avgWin"`
	AvgLoss      float64 `json:"avgLoss"` // positive magnitude
	Expectancy   float64 `json:"expectancy"`
	ProfitFactor float64 `json:"profitFactor"`
	LargestWin   float64 `json:"largestWin"`
	LargestLoss  float64 `json:"largestLoss"`

	ByDayOfWeek []BucketStats `json:"byDayOfWeek"` // 7 buckets, Sunday first
	ByHour      []HourStats   `json:"byHour"`      // only hours with trades
	ByPlatform  []BucketStats `json:"byPlatform"`  // first-seen order
	ByStrategy  []BucketStats `json:"byStrategy"`  // first-seen order

	BestDay  *BucketStats `json:"bestDay,omitempty"`
	WorstDay *BucketStats `json:"worstDay,omitempty"`
}

// Aggregate computes a Snapshot from a slice of trade records. A trade
// with pnl == 0 counts toward totals but toward neither wins nor
// losses. Empty input yields a zeroed snapshot with empty breakdowns.
func Aggregate(trades []domain.TradeRecord) Snapshot {
	var s Snapshot
	if len(trades) == 0 {
		return s
	}

	days := make([]BucketStats, 7)
	for d := time.Sunday; d <= time.Saturday; d++ {
		days[d].Label = d.String()
	}
	var hours [24]HourStats
	for h := range hours {
		hours[h].Hour = h
	}

	// Platform/strategy buckets keep first-seen order.
	platformIdx := make(map[string]int)
	strategyIdx := make(map[string]int)
	var platforms, strategies []BucketStats
	bucket := func(idx map[string]int, list *[]BucketStats, label string) *BucketStats {
		i, ok := idx[label]
		if !ok {
			i = len(*list)
			idx[label] = i
			*list = append(*list, BucketStats{Label: label})
		}
		return &(*list)[i]
	}

	var sumWins, sumLosses float64
	for i := range trades {
		r := &trades[i]
		s.TotalTrades++

		win := r.PnL > 0
		switch {
		case win:
			s.TotalWins++
			sumWins += r.PnL
			if r.PnL > s.LargestWin {
				s.LargestWin = r.PnL
			}
		case r.PnL < 0:
			s.TotalLosses++
			sumLosses += -r.PnL
			if r.PnL < s.LargestLoss {
				s.LargestLoss = r.PnL
			}
		}

		d := &days[r.Timestamp.Weekday()]
		d.PnL += r.PnL
		d.Trades++
		h := &hours[r.Timestamp.Hour()]
		h.PnL += r.PnL
		h.Trades++
		p := bucket(platformIdx, &platforms, r.Platform)
		p.PnL += r.PnL
		p.Trades++
		st := bucket(strategyIdx, &strategies, r.Strategy)
		st.PnL += r.PnL
		st.Trades++
		if win {
			d.Wins++
			h.Wins++
			p.Wins++
			st.Wins++
		}
	}

	s.WinRate = float64(s.TotalWins) / float64(s.TotalTrades) * 100
	if s.TotalWins > 0 {
		s.AvgWin = sumWins / float64(s.TotalWins)
	}
	if s.TotalLosses > 0 {
		s.AvgLoss = sumLosses / float64(s.TotalLosses)
	}
	p := s.WinRate / 100
	s.Expectancy = p*s.AvgWin - (1-p)*s.AvgLoss

	switch {
	case sumLosses > 0:
		s.ProfitFactor = sumWins / sumLosses
	case sumWins > 0:
		s.ProfitFactor = math.Inf(1)
	}

	s.ByDayOfWeek = days
	for h := range hours {
		if hours[h].Trades > 0 {
			s.ByHour = append(s.ByHour, hours[h])
		}
	}
	s.ByPlatform = platforms
	s.ByStrategy = strategies

	// Best/worst day among days that traded; ties keep the earlier
	// day in Sunday→Saturday order.
	for i := range days {
		d := &days[i]
		if d.Trades == 0 {
			continue
		}
		if s.BestDay == nil || d.PnL > s.BestDay.PnL {
			s.BestDay = d
		}
		if s.WorstDay == nil || d.PnL < s.WorstDay.PnL {
			s.WorstDay = d
		}
	}

	return s
}
