// Package domain defines the core data types of the stratboard engine:
// strategy templates, entry/exit conditions, backtest statistics, and
// trade records.
package domain

import (
	"strings"
	"time"
)

// Category classifies a strategy template by its trading approach.
type Category string

const (
	CategoryArbitrage     Category = "arbitrage"
	CategoryMomentum      Category = "momentum"
	CategoryVolatility    Category = "volatility"
	CategoryNewsBased     Category = "news-based"
	CategoryScalping      Category = "scalping"
	CategorySwing         Category = "swing"
	CategoryMultiPlatform Category = "multi-platform"
)

// Categories returns all categories in their canonical display order.
func Categories() []Category {
	return []Category{
		CategoryArbitrage,
		CategoryMomentum,
		CategoryVolatility,
		CategoryNewsBased,
		CategoryScalping,
		CategorySwing,
		CategoryMultiPlatform,
	}
}

// Difficulty indicates how much experience a template assumes.
type Difficulty string

const (
	DifficultyBeginner     Difficulty = "beginner"
	DifficultyIntermediate Difficulty = "intermediate"
	DifficultyAdvanced     Difficulty = "advanced"
	DifficultyExpert       Difficulty = "expert"
)

// Difficulties returns all difficulty levels from beginner to expert.
func Difficulties() []Difficulty {
	return []Difficulty{
		DifficultyBeginner,
		DifficultyIntermediate,
		DifficultyAdvanced,
		DifficultyExpert,
	}
}

// RiskProfile indicates the overall risk posture of a template.
type RiskProfile string

const (
	RiskConservative RiskProfile = "conservative"
	RiskModerate     RiskProfile = "moderate"
	RiskAggressive   RiskProfile = "aggressive"
)

// RiskProfiles returns all risk profiles from conservative to aggressive.
func RiskProfiles() []RiskProfile {
	return []RiskProfile{RiskConservative, RiskModerate, RiskAggressive}
}

// Condition is a tagged, parameterized descriptor of a single entry or
// exit rule. Conditions are declarative: the registry stores and returns
// them but never evaluates them against market data.
type Condition struct {
	Kind       string         `json:"kind"`
	Parameters map[string]any `json:"parameters,omitempty"`
}

// Well-known condition kinds.
const (
	CondIndicatorThreshold = "indicator_threshold"
	CondVolumeSpike        = "volume_spike"
	CondTimeWindow         = "time_window"
	CondCrossover          = "crossover"
	CondPriceSpread        = "price_spread"
	CondNewsSentiment      = "news_sentiment"
)

// Clone returns a deep copy of the condition. The parameter bag is
// copied so mutations of the clone never reach the original.
func (c Condition) Clone() Condition {
	out := Condition{Kind: c.Kind}
	if c.Parameters != nil {
		out.Parameters = make(map[string]any, len(c.Parameters))
		for k, v := range c.Parameters {
			out.Parameters[k] = v
		}
	}
	return out
}

// CloneConditions deep-copies a rule sequence, preserving order.
func CloneConditions(conds []Condition) []Condition {
	if conds == nil {
		return nil
	}
	out := make([]Condition, len(conds))
	for i := range conds {
		out[i] = conds[i].Clone()
	}
	return out
}

// Rules holds the ordered entry and exit rule sequences of a template.
// Order is significant for documentation and display only.
type Rules struct {
	Entry []Condition `json:"entry"`
	Exit  []Condition `json:"exit"`
}

// Clone returns a deep copy of both rule sequences.
func (r Rules) Clone() Rules {
	return Rules{
		Entry: CloneConditions(r.Entry),
		Exit:  CloneConditions(r.Exit),
	}
}

// Config holds the numeric/boolean tuning parameters of a template:
// position sizing, stop-loss/take-profit fractions, trade-frequency
// caps, cooldown seconds, and per-category fields. It is an open
// parameter bag because each category carries its own extra keys.
type Config map[string]any

// Well-known config keys shared across categories.
const (
	CfgMaxPositionSize = "maxPositionSize"
	CfgStopLoss        = "stopLoss"
	CfgTakeProfit      = "takeProfit"
	CfgMaxTradesPerDay = "maxTradesPerDay"
	CfgCooldownSeconds = "cooldownSeconds"
)

// Float reads a numeric config value. The second return value reports
// whether the key is present and holds a number (ints are widened).
func (c Config) Float(key string) (float64, bool) {
	v, ok := c[key]
	if !ok {
		return 0, false
	}
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}

// Bool reads a boolean config value.
func (c Config) Bool(key string) (bool, bool) {
	v, ok := c[key]
	if !ok {
		return false, false
	}
	b, ok := v.(bool)
	return b, ok
}

// Clone returns a shallow-value deep copy of the config map.
func (c Config) Clone() Config {
	if c == nil {
		return nil
	}
	out := make(Config, len(c))
	for k, v := range c {
		out[k] = v
	}
	return out
}

// BacktestStats is the fixed-shape statistics record attached to a
// template, produced by an external backtest run.
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

// Metric returns the named backtest metric by its JSON field name.
// Unknown names report false; callers decide the fallback.
func (b *BacktestStats) Metric(name string) (float64, bool) {
	if b == nil {
		return 0, false
	}
	switch name {
	case "totalTrades":
		return float64(b.TotalTrades), true
	case "winningTrades":
		return float64(b.WinningTrades), true
	case "losingTrades":
		return float64(b.LosingTrades), true
	case "winRate":
		return b.WinRate, true
	case "avgWin":
		return b.AvgWin, true
	case "avgLoss":
		return b.AvgLoss, true
	case "maxDrawdown":
		return b.MaxDrawdown, true
	case "sharpeRatio":
		return b.SharpeRatio, true
	case "sortinoRatio":
		return b.SortinoRatio, true
	case "profitFactor":
		return b.ProfitFactor, true
	case "totalReturn":
		return b.TotalReturn, true
	case "annualizedReturn":
		return b.AnnualizedReturn, true
	case "maxConsecutiveWins":
		return float64(b.MaxConsecutiveWins), true
	case "maxConsecutiveLosses":
		return float64(b.MaxConsecutiveLosses), true
	case "avgTradesPerDay":
		return b.AvgTradesPerDay, true
	}
	return 0, false
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

// Clone deep-copies the requirement sets.
func (r Requirements) Clone() Requirements {
	out := r
	out.RequiredExchanges = append([]string(nil), r.RequiredExchanges...)
	out.APIPermissions = append([]string(nil), r.APIPermissions...)
	return out
}

// StrategyTemplate is a named, versioned strategy definition combining
// risk configuration, rule sets, and historical backtest statistics.
// Templates are treated as immutable: forking produces a new value.
type StrategyTemplate struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Author  string `json:"author"`
	Version string `json:"version"`

	Category    Category    `json:"category"`
	Difficulty  Difficulty  `json:"difficulty"`
	RiskProfile RiskProfile `json:"riskProfile"`

	Description string `json:"description,omitempty"`

	Config Config `json:"config"`
	Rules  Rules  `json:"rules"`

	Backtest        *BacktestStats  `json:"backtest,omitempty"`
	ExpectedReturns ExpectedReturns `json:"expectedReturns"`
	Requirements    Requirements    `json:"requirements"`

	Tags []string `json:"tags"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	// ForkedFrom holds the source template id for forked templates.
	ForkedFrom string `json:"forkedFrom,omitempty"`
}

// Clone returns a deep copy of the template. Config, rules, tags, and
// requirements are copied by value; the backtest record is duplicated.
func (t *StrategyTemplate) Clone() *StrategyTemplate {
	out := *t
	out.Config = t.Config.Clone()
	out.Rules = t.Rules.Clone()
	out.Requirements = t.Requirements.Clone()
	out.Tags = append([]string(nil), t.Tags...)
	if t.Backtest != nil {
		bt := *t.Backtest
		out.Backtest = &bt
	}
	return &out
}

// HasTag reports whether the template carries the tag, case-insensitively.
func (t *StrategyTemplate) HasTag(tag string) bool {
	for _, have := range t.Tags {
		if strings.EqualFold(have, tag) {
			return true
		}
	}
	return false
}

// TradeRecord is a single executed trade supplied to the analytics
// aggregator. Records are request-scoped: the caller materializes them,
// the aggregator consumes them, nothing is persisted by the engine.
type TradeRecord struct {
	PnL       float64   `json:"pnl"`
	Timestamp time.Time `json:"timestamp"`
	Platform  string    `json:"platform"`
	Strategy  string    `json:"strategy"`
}
