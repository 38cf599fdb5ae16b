// Package interpret classifies scalar backtest metrics into qualitative
// bands and derives cumulative-equity series from monthly returns. All
// functions are pure and stateless.
package interpret

import "math"

// Rating is a qualitative band for a backtest metric.
type Rating string

const (
	RatingExcellent  Rating = "Excellent"
	RatingGood       Rating = "Good"
	RatingAcceptable Rating = "Acceptable"
	RatingPoor       Rating = "Poor"

	RatingBreakEven Rating = "Break-even"
	RatingLosing    Rating = "Losing"

	RiskVeryLow  Rating = "Very Low Risk"
	RiskLow      Rating = "Low Risk"
	RiskModerate Rating = "Moderate Risk"
	RiskHigh     Rating = "High Risk"
)

// ClassifySharpe rates a Sharpe ratio. Thresholds are checked from most
// favorable down; the first match wins.
func ClassifySharpe(v float64) Rating {
	switch {
	case v >= 2.0:
		return RatingExcellent
	case v >= 1.0:
		return RatingGood
	case v >= 0.5:
		return RatingAcceptable
	default:
		return RatingPoor
	}
}

// ClassifySortino rates a Sortino ratio on the same bands as Sharpe.
func ClassifySortino(v float64) Rating {
	return ClassifySharpe(v)
}

// ClassifyDrawdown rates a maximum drawdown given as a percentage. The
// sign is ignored; drawdowns are magnitudes.
func ClassifyDrawdown(pct float64) Rating {
	pct = math.Abs(pct)
	switch {
	case pct <= 5:
		return RiskVeryLow
	case pct <= 10:
		return RiskLow
	case pct <= 20:
		return RiskModerate
	default:
		return RiskHigh
	}
}

// ClassifyProfitFactor rates a profit factor.
func ClassifyProfitFactor(v float64) Rating {
	switch {
	case v >= 2.0:
		return RatingExcellent
	case v >= 1.5:
		return RatingGood
	case v >= 1.0:
		return RatingBreakEven
	default:
		return RatingLosing
	}
}

// MonthlyReturn is one month's realized P&L, as supplied by the caller.
type MonthlyReturn struct {
	Month string  `json:"month"`
	PnL   float64 `json:"pnl"`
}

// EquityPoint is one step of a cumulative-equity series.
type EquityPoint struct {
	Month      string  `json:"month"`
	PnL        float64 `json:"pnl"`
	Cumulative float64 `json:"cumulative"`
	Capital    float64 `json:"capital"`
}

// CumulativeEquity scans monthly returns in the given order into a
// running-sum equity series: one output point per input month, with
// capital = initial + cumulative P&L so far.
func CumulativeEquity(monthly []MonthlyReturn, initialCapital float64) []EquityPoint {
	out := make([]EquityPoint, len(monthly))
	var cum float64
	for i, m := range monthly {
		cum += m.PnL
		out[i] = EquityPoint{
			Month:      m.Month,
			PnL:        m.PnL,
			Cumulative: cum,
			Capital:    initialCapital + cum,
		}
	}
	return out
}
