package catalog

import (
	"math"

	"stratboard/internal/domain"
)

// ExpectedMonthlyReturn estimates a template's monthly P&L from its
// backtest record: per-trade expected value scaled by trades per day
// over a 30-day month. Templates without a backtest yield 0.
func ExpectedMonthlyReturn(t *domain.StrategyTemplate) float64 {
	bt := t.Backtest
	if bt == nil {
		return 0
	}
	expectedValue := bt.WinRate*bt.AvgWin - (1-bt.WinRate)*math.Abs(bt.AvgLoss)
	return expectedValue * (bt.AvgTradesPerDay * 30)
}

// RiskScore rates a template's risk on a 1–10 scale. The base score of 5
// is adjusted by risk profile, backtest drawdown and win rate, and the
// configured position size; adjustments are additive and commutative,
// and the result is clamped to [1, 10]. Adjustments whose inputs are
// absent (no backtest, no maxPositionSize key) are skipped.
func RiskScore(t *domain.StrategyTemplate) int {
	score := 5

	switch t.RiskProfile {
	case domain.RiskConservative:
		score -= 2
	case domain.RiskAggressive:
		score += 2
	}

	if bt := t.Backtest; bt != nil {
		if bt.MaxDrawdown > 0.20 {
			score += 2
		} else if bt.MaxDrawdown < 0.10 {
			score--
		}
		if bt.WinRate < 0.60 {
			score++
		} else if bt.WinRate > 0.80 {
			score--
		}
	}

	if size, ok := t.Config.Float(domain.CfgMaxPositionSize); ok {
		if size > 0.15 {
			score++
		} else if size < 0.05 {
			score--
		}
	}

	if score < 1 {
		return 1
	}
	if score > 10 {
		return 10
	}
	return score
}
