package stratboard

import (
	"encoding/json"
	"math"
	"strconv"
	"time"
)

// Condition is one declarative entry or exit rule of a template.
type Condition struct {
	Kind       string         `json:"kind"`
	Parameters map[string]any `json:"parameters,omitempty"`
}

// Rules holds the ordered entry and exit rule sequences.
type Rules struct {
	Entry []Condition `json:"entry"`
	Exit  []Condition `json:"exit"`
}

// BacktestStats is the backtest statistics record of a template.
type BacktestStats struct {
	TotalTrades          int     `json:"totalTrades"`
	WinningTrades        int     `json:"winningTrades"`
	LosingTrades         int     `json:"losingTrades"`
	WinRate              float64 `json:"winRate"`
	AvgWin               float64 `json:"avgWin"`
	AvgLoss              float64 `json:"avgLoss"`
	MaxDrawdown          float64 `json:"maxDrawdown"`
	SharpeRatio          float64 `json:"sharpeRatio"`
	SortinoRatio         float64 `json:"sortinoRatio"`
	ProfitFactor         float64 `json:"profitFactor"`
	TotalReturn          float64 `json:"totalReturn"`
	AnnualizedReturn     float64 `json:"annualizedReturn"`
	MaxConsecutiveWins   int     `json:"maxConsecutiveWins"`
	MaxConsecutiveLosses int     `json:"maxConsecutiveLosses"`
	AvgTradesPerDay      float64 `json:"avgTradesPerDay"`
	AvgHoldTime          string  `json:"avgHoldTime"`
}

// ReturnRange is a min/max/avg band of expected returns, in percent.
type ReturnRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
	Avg float64 `json:"avg"`
}

// ExpectedReturns holds the advertised monthly and yearly return bands.
type ExpectedReturns struct {
	Monthly ReturnRange `json:"monthly"`
	Yearly  ReturnRange `json:"yearly"`
}

// Requirements describes what a user needs before deploying a template.
type Requirements struct {
	MinCapital         float64  `json:"minCapital"`
	RecommendedCapital float64  `json:"recommendedCapital"`
	RequiredExchanges  []string `json:"requiredExchanges"`
	APIPermissions     []string `json:"apiPermissions"`
}

// Template is a full strategy template. RiskScore and
// ExpectedMonthlyReturn are derived server-side and only populated on
// detail responses.
type Template struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Author  string `json:"author"`
	Version string `json:"version"`

	Category    string `json:"category"`
	Difficulty  string `json:"difficulty"`
	RiskProfile string `json:"riskProfile"`

	Description string `json:"description,omitempty"`

	Config map[string]any `json:"config"`
	Rules  Rules          `json:"rules"`

	Backtest        *BacktestStats  `json:"backtest,omitempty"`
	ExpectedReturns ExpectedReturns `json:"expectedReturns"`
	Requirements    Requirements    `json:"requirements"`

	Tags []string `json:"tags"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	ForkedFrom string `json:"forkedFrom,omitempty"`

	RiskScore             int     `json:"riskScore,omitempty"`
	ExpectedMonthlyReturn float64 `json:"expectedMonthlyReturn,omitempty"`
}

// TemplateSummary is the list-view representation of a template.
type TemplateSummary struct {
	ID                    string   `json:"id"`
	Name                  string   `json:"name"`
	Category              string   `json:"category"`
	Difficulty            string   `json:"difficulty"`
	RiskProfile           string   `json:"riskProfile"`
	RiskScore             int      `json:"riskScore"`
	ExpectedMonthlyReturn float64  `json:"expectedMonthlyReturn"`
	WinRate               float64  `json:"winRate,omitempty"`
	MinCapital            float64  `json:"minCapital"`
	Tags                  []string `json:"tags"`
}

// TemplateList is the response of the template listing endpoint.
type TemplateList struct {
	Total     int               `json:"total"`
	Templates []TemplateSummary `json:"templates"`
}

// TemplateFilter narrows and orders a template listing. Zero values
// mean "no constraint".
type TemplateFilter struct {
	Category   string
	Risk       string
	Difficulty string
	Capital    float64
	Tags       []string
	MatchAll   bool
	Sort       string // backtest metric JSON name
	Order      string // "asc" or "desc" (default)
}

// Overrides selects the template fields to replace when forking. Nil
// and empty fields inherit from the source.
type Overrides struct {
	Name        string         `json:"name,omitempty"`
	Author      string         `json:"author,omitempty"`
	Description string         `json:"description,omitempty"`
	Category    string         `json:"category,omitempty"`
	Difficulty  string         `json:"difficulty,omitempty"`
	RiskProfile string         `json:"riskProfile,omitempty"`
	Config      map[string]any `json:"config,omitempty"`
	Entry       []Condition    `json:"entry,omitempty"`
	Exit        []Condition    `json:"exit,omitempty"`
	Tags        []string       `json:"tags,omitempty"`
}

// ValidationResult reports every violation found in a template.
type ValidationResult struct {
	IsValid bool     `json:"isValid"`
	Errors  []string `json:"errors"`
}

// ForkResult pairs a created fork with its validation result.
type ForkResult struct {
	Template   *Template        `json:"template"`
	Validation ValidationResult `json:"validation"`
}

// ForkList is the response of the fork listing endpoint.
type ForkList struct {
	Total int        `json:"total"`
	Forks []Template `json:"forks"`
}

// Summary aggregates catalog-wide counts and statistics.
type Summary struct {
	Total          int            `json:"total"`
	ByCategory     map[string]int `json:"byCategory"`
	ByRiskProfile  map[string]int `json:"byRiskProfile"`
	ByDifficulty   map[string]int `json:"byDifficulty"`
	AvgWinRate     float64        `json:"avgWinRate"`
	AvgAnnualized  float64        `json:"avgAnnualizedReturn"`
	HighestWinRate float64        `json:"highestWinRate"`
	HighestReturn  float64        `json:"highestReturn"`
}

// Trade is a single executed trade submitted for analytics.
type Trade struct {
	PnL       float64   `json:"pnl"`
	Timestamp time.Time `json:"timestamp"`
	Platform  string    `json:"platform"`
	Strategy  string    `json:"strategy"`
}

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

// ProfitFactor is a float64 that survives JSON transport of the
// wins-without-losses case: the API serializes +Inf as the string
// "inf", and this type converts in both directions.
type ProfitFactor float64

func (p ProfitFactor) MarshalJSON() ([]byte, error) {
	if math.IsInf(float64(p), 1) {
		return json.Marshal("inf")
	}
	return []byte(strconv.FormatFloat(float64(p), 'g', -1, 64)), nil
}

func (p *ProfitFactor) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if s == "inf" {
			*p = ProfitFactor(math.Inf(1))
			return nil
		}
		var f float64
		if err := json.Unmarshal([]byte(s), &f); err != nil {
			return err
		}
		*p = ProfitFactor(f)
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	*p = ProfitFactor(f)
	return nil
}

// Snapshot is a complete analytics view over one trade list.
type Snapshot struct {
	TotalTrades  int          `json:"totalTrades"`
	TotalWins    int          `json:"totalWins"`
	TotalLosses  int          `json:"totalLosses"`
	WinRate      float64      `json:"winRate"`
	AvgWin       float64      `json:"avgWin"`
	AvgLoss      float64      `json:"avgLoss"`
	Expectancy   float64      `json:"expectancy"`
	ProfitFactor ProfitFactor `json:"profitFactor"`
	LargestWin   float64      `json:"largestWin"`
	LargestLoss  float64      `json:"largestLoss"`

	ByDayOfWeek []BucketStats `json:"byDayOfWeek"`
	ByHour      []HourStats   `json:"byHour"`
	ByPlatform  []BucketStats `json:"byPlatform"`
	ByStrategy  []BucketStats `json:"byStrategy"`

	BestDay  *BucketStats `json:"bestDay,omitempty"`
	WorstDay *BucketStats `json:"worstDay,omitempty"`
}

// Metrics selects which backtest metrics to interpret. Nil fields are
// skipped; at least one must be set.
type Metrics struct {
	Sharpe       *float64
	Sortino      *float64
	Drawdown     *float64
	ProfitFactor *float64
}

// MetricRating pairs a metric value with its qualitative band.
type MetricRating struct {
	Value  float64 `json:"value"`
	Rating string  `json:"rating"`
}

// Interpretation holds ratings for the metrics that were queried.
type Interpretation struct {
	Sharpe       *MetricRating `json:"sharpe,omitempty"`
	Sortino      *MetricRating `json:"sortino,omitempty"`
	Drawdown     *MetricRating `json:"drawdown,omitempty"`
	ProfitFactor *MetricRating `json:"profitFactor,omitempty"`
}

// MonthlyReturn is one month's realized P&L.
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
