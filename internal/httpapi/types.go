// Package httpapi provides the HTTP REST API over the template catalog,
// fork store, trade analytics, and metric interpreter, serving the same
// data as the TUI client in JSON format.
package httpapi

import (
	"stratboard/internal/analytics"
	"stratboard/internal/catalog"
	"stratboard/internal/domain"
	"stratboard/internal/interpret"
)

// TemplateSummaryJSON is the list-view representation of a template.
type TemplateSummaryJSON struct {
	ID                    string             `json:"id"`
	Name                  string             `json:"name"`
	Category              domain.Category    `json:"category"`
	Difficulty            domain.Difficulty  `json:"difficulty"`
	RiskProfile           domain.RiskProfile `json:"riskProfile"`
	RiskScore             int                `json:"riskScore"`
	ExpectedMonthlyReturn float64            `json:"expectedMonthlyReturn"`
	WinRate               float64            `json:"winRate,omitempty"`
	MinCapital            float64            `json:"minCapital"`
	Tags                  []string           `json:"tags"`
}

// TemplateDetailJSON is the full template plus derived metrics.
type TemplateDetailJSON struct {
	*domain.StrategyTemplate
	RiskScore             int     `json:"riskScore"`
	ExpectedMonthlyReturn float64 `json:"expectedMonthlyReturn"`
}

// TemplatesResponse lists template summaries.
type TemplatesResponse struct {
	Total     int                   `json:"total"`
	Templates []TemplateSummaryJSON `json:"templates"`
}

// ForkResponse pairs a created fork with its validation result, so the
// caller sees immediately whether the overrides produced a valid
// template.
type ForkResponse struct {
	Template   *domain.StrategyTemplate `json:"template"`
	Validation catalog.ValidationResult `json:"validation"`
}

// ForksResponse lists persisted forks.
type ForksResponse struct {
	Total int                       `json:"total"`
	Forks []domain.StrategyTemplate `json:"forks"`
}

// SnapshotJSON mirrors analytics.Snapshot for transport. ProfitFactor
// is a string because JSON has no infinity; "inf" marks the
// wins-without-losses case.
type SnapshotJSON struct {
	TotalTrades  int     `json:"totalTrades"`
	TotalWins    int     `json:"totalWins"`
	TotalLosses  int     `json:"totalLosses"`
	WinRate      float64 `json:"winRate"`
	AvgWin       float64 `json:"avgWin"`
	AvgLoss      float64 `json:"avgLoss"`
	Expectancy   float64 `json:"expectancy"`
	ProfitFactor string  `json:"profitFactor"`
	LargestWin   float64 `json:"largestWin"`
	LargestLoss  float64 `json:"largestLoss"`

	ByDayOfWeek []analytics.BucketStats `json:"byDayOfWeek"`
	ByHour      []analytics.HourStats   `json:"byHour"`
	ByPlatform  []analytics.BucketStats `json:"byPlatform"`
	ByStrategy  []analytics.BucketStats `json:"byStrategy"`

	BestDay  *analytics.BucketStats `json:"bestDay,omitempty"`
	WorstDay *analytics.BucketStats `json:"worstDay,omitempty"`
}

// convertSnapshot converts an analytics.Snapshot to its transport form.
func convertSnapshot(s analytics.Snapshot) SnapshotJSON {
	return SnapshotJSON{
		TotalTrades:  s.TotalTrades,
		TotalWins:    s.TotalWins,
		TotalLosses:  s.TotalLosses,
		WinRate:      s.WinRate,
		AvgWin:       s.AvgWin,
		AvgLoss:      s.AvgLoss,
		Expectancy:   s.Expectancy,
		ProfitFactor: interpret.FormatProfitFactor(s.ProfitFactor),
		LargestWin:   s.LargestWin,
		LargestLoss:  s.LargestLoss,
		ByDayOfWeek:  s.ByDayOfWeek,
		ByHour:       s.ByHour,
		ByPlatform:   s.ByPlatform,
		ByStrategy:   s.ByStrategy,
		BestDay:      s.BestDay,
		WorstDay:     s.WorstDay,
	}
}

// MetricRating pairs a metric value with its qualitative band.
type MetricRating struct {
	Value  float64          `json:"value"`
	Rating interpret.Rating `json:"rating"`
}

// InterpretResponse holds ratings for whichever metrics were queried.
type InterpretResponse struct {
	Sharpe       *MetricRating `json:"sharpe,omitempty"`
	Sortino      *MetricRating `json:"sortino,omitempty"`
	Drawdown     *MetricRating `json:"drawdown,omitempty"`
	ProfitFactor *MetricRating `json:"profitFactor,omitempty"`
}

// EquityCurveRequest is the body of the equity-curve endpoint.
type EquityCurveRequest struct {
	MonthlyReturns []interpret.MonthlyReturn `json:"monthlyReturns"`
	InitialCapital float64                   `json:"initialCapital"`
}

// EquityCurveResponse holds the computed equity series.
type EquityCurveResponse struct {
	Points []interpret.EquityPoint `json:"points"`
}

// convertSummary builds a template list-view entry with derived metrics.
func convertSummary(t *domain.StrategyTemplate) TemplateSummaryJSON {
	out := TemplateSummaryJSON{
		ID:                    t.ID,
		Name:                  t.Name,
		Category:              t.Category,
		Difficulty:            t.Difficulty,
		RiskProfile:           t.RiskProfile,
		RiskScore:             catalog.RiskScore(t),
		ExpectedMonthlyReturn: catalog.ExpectedMonthlyReturn(t),
		MinCapital:            t.Requirements.MinCapital,
		Tags:                  t.Tags,
	}
	if t.Backtest != nil {
		out.WinRate = t.Backtest.WinRate
	}
	return out
}
