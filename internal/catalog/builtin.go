package catalog

import (
	"time"

	"stratboard/internal/domain"
)

// Builtin returns a registry over the nine built-in strategy templates.
// The dataset is static; every call builds a fresh registry so callers
// can never corrupt a shared one.
func Builtin() *Registry {
	return New(builtins()...)
}

func builtins() []*domain.StrategyTemplate {
	created := time.Date(2025, time.March, 12, 0, 0, 0, 0, time.UTC)
	updated := time.Date(2025, time.August, 4, 0, 0, 0, 0, time.UTC)

	return []*domain.StrategyTemplate{
		{
			ID:          "conservative-arb-bot",
			Name:        "Conservative Arb Bot",
			Author:      "stratboard",
			Version:     "2.3.1",
			Category:    domain.CategoryArbitrage,
			Difficulty:  domain.DifficultyBeginner,
			RiskProfile: domain.RiskConservative,
			Description: "Cross-exchange spot arbitrage with tight spread thresholds and small position sizes.",
			Config: domain.Config{
				domain.CfgMaxPositionSize: 0.04,
				domain.CfgStopLoss:        0.005,
				domain.CfgTakeProfit:      0.012,
				domain.CfgMaxTradesPerDay: 40,
				domain.CfgCooldownSeconds: 120,
				"minSpread":               0.004,
				"maxSlippage":             0.001,
			},
			Rules: domain.Rules{
				Entry: []domain.Condition{
					{Kind: domain.CondPriceSpread, Parameters: map[string]any{"minSpread": 0.004, "venues": 2}},
					{Kind: domain.CondVolumeSpike, Parameters: map[string]any{"minDepthUSD": 25000.0}},
				},
				Exit: []domain.Condition{
					{Kind: domain.CondPriceSpread, Parameters: map[string]any{"maxSpread": 0.001}},
					{Kind: domain.CondTimeWindow, Parameters: map[string]any{"maxHoldSeconds": 300}},
				},
			},
			Backtest: &domain.BacktestStats{
				TotalTrades:          1200,
				WinningTrades:        1020,
				LosingTrades:         174,
				WinRate:              0.85,
				AvgWin:               8.4,
				AvgLoss:              -5.1,
				MaxDrawdown:          0.04,
				SharpeRatio:          2.6,
				SortinoRatio:         3.4,
				ProfitFactor:         2.9,
				TotalReturn:          0.31,
				AnnualizedReturn:     0.27,
				MaxConsecutiveWins:   24,
				MaxConsecutiveLosses: 4,
				AvgTradesPerDay:      6.5,
				AvgHoldTime:          "3m 40s",
			},
			ExpectedReturns: domain.ExpectedReturns{
				Monthly: domain.ReturnRange{Min: 1.0, Max: 3.5, Avg: 2.2},
				Yearly:  domain.ReturnRange{Min: 12, Max: 42, Avg: 26},
			},
			Requirements: domain.Requirements{
				MinCapital:         1000,
				RecommendedCapital: 5000,
				RequiredExchanges:  []string{"binance", "kraken"},
				APIPermissions:     []string{"read", "trade"},
			},
			Tags:      []string{"arbitrage", "beginner-friendly", "low-risk", "market-neutral"},
			CreatedAt: created,
			UpdatedAt: updated,
		},
		{
			ID:          "cross-exchange-arb-pro",
			Name:        "Cross-Exchange Arb Pro",
			Author:      "stratboard",
			Version:     "1.9.0",
			Category:    domain.CategoryArbitrage,
			Difficulty:  domain.DifficultyAdvanced,
			RiskProfile: domain.RiskModerate,
			Description: "Latency-sensitive triangular and cross-exchange arbitrage across three venues.",
			Config: domain.Config{
				domain.CfgMaxPositionSize: 0.12,
				domain.CfgStopLoss:        0.008,
				domain.CfgTakeProfit:      0.02,
				domain.CfgMaxTradesPerDay: 200,
				domain.CfgCooldownSeconds: 10,
				"minSpread":               0.002,
				"legTimeoutMs":            750,
			},
			Rules: domain.Rules{
				Entry: []domain.Condition{
					{Kind: domain.CondPriceSpread, Parameters: map[string]any{"minSpread": 0.002, "venues": 3}},
				},
				Exit: []domain.Condition{
					{Kind: domain.CondPriceSpread, Parameters: map[string]any{"maxSpread": 0.0005}},
				},
			},
			Backtest: &domain.BacktestStats{
				TotalTrades:          8600,
				WinningTrades:        6450,
				LosingTrades:         2150,
				WinRate:              0.75,
				AvgWin:               4.2,
				AvgLoss:              -3.6,
				MaxDrawdown:          0.09,
				SharpeRatio:          2.1,
				SortinoRatio:         2.8,
				ProfitFactor:         2.2,
				TotalReturn:          0.58,
				AnnualizedReturn:     0.52,
				MaxConsecutiveWins:   41,
				MaxConsecutiveLosses: 9,
				AvgTradesPerDay:      47,
				AvgHoldTime:          "18s",
			},
			ExpectedReturns: domain.ExpectedReturns{
				Monthly: domain.ReturnRange{Min: 2, Max: 7, Avg: 4.1},
				Yearly:  domain.ReturnRange{Min: 24, Max: 90, Avg: 49},
			},
			Requirements: domain.Requirements{
				MinCapital:         25000,
				RecommendedCapital: 100000,
				RequiredExchanges:  []string{"binance", "okx", "bybit"},
				APIPermissions:     []string{"read", "trade"},
			},
			Tags:      []string{"arbitrage", "high-frequency", "multi-venue"},
			CreatedAt: created,
			UpdatedAt: updated,
		},
		{
			ID:          "momentum-breakout-rider",
			Name:        "Momentum Breakout Rider",
			Author:      "stratboard",
			Version:     "3.0.2",
			Category:    domain.CategoryMomentum,
			Difficulty:  domain.DifficultyIntermediate,
			RiskProfile: domain.RiskAggressive,
			Description: "Rides volume-confirmed breakouts above rolling resistance with trailing exits.",
			Config: domain.Config{
				domain.CfgMaxPositionSize: 0.2,
				domain.CfgStopLoss:        0.03,
				domain.CfgTakeProfit:      0.09,
				domain.CfgMaxTradesPerDay: 12,
				domain.CfgCooldownSeconds: 900,
				"breakoutLookback":        20,
				"volumeMultiple":          2.5,
			},
			Rules: domain.Rules{
				Entry: []domain.Condition{
					{Kind: domain.CondIndicatorThreshold, Parameters: map[string]any{"indicator": "rsi", "period": 14, "above": 60.0}},
					{Kind: domain.CondVolumeSpike, Parameters: map[string]any{"multiple": 2.5, "lookback": 20}},
				},
				Exit: []domain.Condition{
					{Kind: domain.CondIndicatorThreshold, Parameters: map[string]any{"indicator": "rsi", "period": 14, "below": 45.0}},
					{Kind: domain.CondCrossover, Parameters: map[string]any{"fast": "ema9", "slow": "ema21", "direction": "down"}},
				},
			},
			Backtest: &domain.BacktestStats{
				TotalTrades:          640,
				WinningTrades:        352,
				LosingTrades:         288,
				WinRate:              0.55,
				AvgWin:               96,
				AvgLoss:              -44,
				MaxDrawdown:          0.23,
				SharpeRatio:          1.4,
				SortinoRatio:         1.9,
				ProfitFactor:         2.1,
				TotalReturn:          1.12,
				AnnualizedReturn:     0.96,
				MaxConsecutiveWins:   9,
				MaxConsecutiveLosses: 7,
				AvgTradesPerDay:      2.4,
				AvgHoldTime:          "6h 10m",
			},
			ExpectedReturns: domain.ExpectedReturns{
				Monthly: domain.ReturnRange{Min: -4, Max: 18, Avg: 6.8},
				Yearly:  domain.ReturnRange{Min: -15, Max: 140, Avg: 62},
			},
			Requirements: domain.Requirements{
				MinCapital:         5000,
				RecommendedCapital: 20000,
				RequiredExchanges:  []string{"binance"},
				APIPermissions:     []string{"read", "trade"},
			},
			Tags:      []string{"momentum", "breakout", "trend"},
			CreatedAt: created,
			UpdatedAt: updated,
		},
		{
			ID:          "vol-squeeze-hunter",
			Name:        "Volatility Squeeze Hunter",
			Author:      "stratboard",
			Version:     "1.4.0",
			Category:    domain.CategoryVolatility,
			Difficulty:  domain.DifficultyAdvanced,
			RiskProfile: domain.RiskAggressive,
			Description: "Enters on Bollinger-band squeezes and trades the expansion in either direction.",
			Config: domain.Config{
				domain.CfgMaxPositionSize: 0.15,
				domain.CfgStopLoss:        0.025,
				domain.CfgTakeProfit:      0.07,
				domain.CfgMaxTradesPerDay: 8,
				domain.CfgCooldownSeconds: 1800,
				"bandwidthPercentile":     10,
				"atrPeriod":               14,
			},
			Rules: domain.Rules{
				Entry: []domain.Condition{
					{Kind: domain.CondIndicatorThreshold, Parameters: map[string]any{"indicator": "bb_width", "percentileBelow": 10}},
					{Kind: domain.CondVolumeSpike, Parameters: map[string]any{"multiple": 1.8}},
				},
				Exit: []domain.Condition{
					{Kind: domain.CondIndicatorThreshold, Parameters: map[string]any{"indicator": "atr", "period": 14, "contractionBelow": 0.5}},
				},
			},
			Backtest: &domain.BacktestStats{
				TotalTrades:          420,
				WinningTrades:        218,
				LosingTrades:         196,
				WinRate:              0.519,
				AvgWin:               132,
				AvgLoss:              -61,
				MaxDrawdown:          0.26,
				SharpeRatio:          1.2,
				SortinoRatio:         1.6,
				ProfitFactor:         1.9,
				TotalReturn:          0.84,
				AnnualizedReturn:     0.71,
				MaxConsecutiveWins:   8,
				MaxConsecutiveLosses: 8,
				AvgTradesPerDay:      1.6,
				AvgHoldTime:          "9h 45m",
			},
			ExpectedReturns: domain.ExpectedReturns{
				Monthly: domain.ReturnRange{Min: -6, Max: 16, Avg: 5.4},
				Yearly:  domain.ReturnRange{Min: -20, Max: 120, Avg: 51},
			},
			Requirements: domain.Requirements{
				MinCapital:         10000,
				RecommendedCapital: 40000,
				RequiredExchanges:  []string{"binance", "bybit"},
				APIPermissions:     []string{"read", "trade"},
			},
			Tags:      []string{"volatility", "breakout", "bollinger"},
			CreatedAt: created,
			UpdatedAt: updated,
		},
		{
			// Open-ended grid strategy: no take-profit, exits are
			// structural (grid rebalance), so CfgTakeProfit is absent.
			ID:          "grid-yield-harvester",
			Name:        "Grid Yield Harvester",
			Author:      "stratboard",
			Version:     "2.0.0",
			Category:    domain.CategoryVolatility,
			Difficulty:  domain.DifficultyIntermediate,
			RiskProfile: domain.RiskModerate,
			Description: "Places a static buy/sell grid inside a range and harvests oscillation yield.",
			Config: domain.Config{
				domain.CfgMaxPositionSize: 0.25,
				domain.CfgStopLoss:        0.12,
				domain.CfgMaxTradesPerDay: 60,
				domain.CfgCooldownSeconds: 0,
				"gridLevels":              24,
				"gridSpacing":             0.0075,
				"rangeLow":                0.85,
				"rangeHigh":               1.15,
			},
			Rules: domain.Rules{
				Entry: []domain.Condition{
					{Kind: domain.CondIndicatorThreshold, Parameters: map[string]any{"indicator": "price", "atGridLevel": true}},
				},
				Exit: []domain.Condition{
					{Kind: domain.CondIndicatorThreshold, Parameters: map[string]any{"indicator": "price", "atGridLevel": true, "side": "opposite"}},
				},
			},
			Backtest: &domain.BacktestStats{
				TotalTrades:          5200,
				WinningTrades:        4524,
				LosingTrades:         676,
				WinRate:              0.87,
				AvgWin:               3.1,
				AvgLoss:              -9.8,
				MaxDrawdown:          0.14,
				SharpeRatio:          1.8,
				SortinoRatio:         2.2,
				ProfitFactor:         2.1,
				TotalReturn:          0.46,
				AnnualizedReturn:     0.41,
				MaxConsecutiveWins:   63,
				MaxConsecutiveLosses: 6,
				AvgTradesPerDay:      19,
				AvgHoldTime:          "1h 20m",
			},
			ExpectedReturns: domain.ExpectedReturns{
				Monthly: domain.ReturnRange{Min: 1.5, Max: 5, Avg: 3.2},
				Yearly:  domain.ReturnRange{Min: 18, Max: 60, Avg: 38},
			},
			Requirements: domain.Requirements{
				MinCapital:         2000,
				RecommendedCapital: 10000,
				RequiredExchanges:  []string{"binance"},
				APIPermissions:     []string{"read", "trade"},
			},
			Tags:      []string{"grid", "yield", "range-bound", "passive"},
			CreatedAt: created,
			UpdatedAt: updated,
		},
		{
			ID:          "news-pulse-trader",
			Name:        "News Pulse Trader",
			Author:      "stratboard",
			Version:     "1.1.3",
			Category:    domain.CategoryNewsBased,
			Difficulty:  domain.DifficultyExpert,
			RiskProfile: domain.RiskAggressive,
			Description: "Trades the first minutes after high-impact headlines using sentiment scoring.",
			Config: domain.Config{
				domain.CfgMaxPositionSize: 0.18,
				domain.CfgStopLoss:        0.02,
				domain.CfgTakeProfit:      0.06,
				domain.CfgMaxTradesPerDay: 6,
				domain.CfgCooldownSeconds: 3600,
				"minSentimentScore":       0.7,
				"maxLatencyMs":            1500,
			},
			Rules: domain.Rules{
				Entry: []domain.Condition{
					{Kind: domain.CondNewsSentiment, Parameters: map[string]any{"minScore": 0.7, "sources": []any{"tier1"}}},
					{Kind: domain.CondVolumeSpike, Parameters: map[string]any{"multiple": 4.0, "windowSeconds": 60}},
				},
				Exit: []domain.Condition{
					{Kind: domain.CondTimeWindow, Parameters: map[string]any{"maxHoldSeconds": 1800}},
					{Kind: domain.CondNewsSentiment, Parameters: map[string]any{"reversalBelow": 0.3}},
				},
			},
			Backtest: &domain.BacktestStats{
				TotalTrades:          310,
				WinningTrades:        152,
				LosingTrades:         158,
				WinRate:              0.49,
				AvgWin:               240,
				AvgLoss:              -95,
				MaxDrawdown:          0.31,
				SharpeRatio:          1.1,
				SortinoRatio:         1.5,
				ProfitFactor:         2.4,
				TotalReturn:          1.34,
				AnnualizedReturn:     1.18,
				MaxConsecutiveWins:   6,
				MaxConsecutiveLosses: 9,
				AvgTradesPerDay:      1.1,
				AvgHoldTime:          "14m",
			},
			ExpectedReturns: domain.ExpectedReturns{
				Monthly: domain.ReturnRange{Min: -10, Max: 30, Avg: 8.9},
				Yearly:  domain.ReturnRange{Min: -35, Max: 220, Avg: 84},
			},
			Requirements: domain.Requirements{
				MinCapital:         15000,
				RecommendedCapital: 50000,
				RequiredExchanges:  []string{"binance", "coinbase"},
				APIPermissions:     []string{"read", "trade"},
			},
			Tags:      []string{"news", "sentiment", "event-driven"},
			CreatedAt: created,
			UpdatedAt: updated,
		},
		{
			ID:          "micro-scalp-engine",
			Name:        "Micro Scalp Engine",
			Author:      "stratboard",
			Version:     "4.2.0",
			Category:    domain.CategoryScalping,
			Difficulty:  domain.DifficultyExpert,
			RiskProfile: domain.RiskAggressive,
			Description: "Order-book imbalance scalping with sub-minute holds and strict loss caps.",
			Config: domain.Config{
				domain.CfgMaxPositionSize: 0.1,
				domain.CfgStopLoss:        0.003,
				domain.CfgTakeProfit:      0.006,
				domain.CfgMaxTradesPerDay: 400,
				domain.CfgCooldownSeconds: 5,
				"imbalanceRatio":          3.0,
				"maxSpreadTicks":          2,
			},
			Rules: domain.Rules{
				Entry: []domain.Condition{
					{Kind: domain.CondIndicatorThreshold, Parameters: map[string]any{"indicator": "book_imbalance", "above": 3.0}},
				},
				Exit: []domain.Condition{
					{Kind: domain.CondTimeWindow, Parameters: map[string]any{"maxHoldSeconds": 45}},
				},
			},
			Backtest: &domain.BacktestStats{
				TotalTrades:          21000,
				WinningTrades:        13650,
				LosingTrades:         7350,
				WinRate:              0.65,
				AvgWin:               1.9,
				AvgLoss:              -1.7,
				MaxDrawdown:          0.18,
				SharpeRatio:          1.7,
				SortinoRatio:         2.0,
				ProfitFactor:         2.1,
				TotalReturn:          0.74,
				AnnualizedReturn:     0.66,
				MaxConsecutiveWins:   28,
				MaxConsecutiveLosses: 13,
				AvgTradesPerDay:      110,
				AvgHoldTime:          "22s",
			},
			ExpectedReturns: domain.ExpectedReturns{
				Monthly: domain.ReturnRange{Min: 0, Max: 12, Avg: 5.1},
				Yearly:  domain.ReturnRange{Min: 0, Max: 110, Avg: 55},
			},
			Requirements: domain.Requirements{
				MinCapital:         20000,
				RecommendedCapital: 80000,
				RequiredExchanges:  []string{"binance"},
				APIPermissions:     []string{"read", "trade"},
			},
			Tags:      []string{"scalping", "high-frequency", "order-book"},
			CreatedAt: created,
			UpdatedAt: updated,
		},
		{
			ID:          "trend-following-swing",
			Name:        "Trend Following Swing Trader",
			Author:      "stratboard",
			Version:     "2.7.0",
			Category:    domain.CategorySwing,
			Difficulty:  domain.DifficultyBeginner,
			RiskProfile: domain.RiskModerate,
			Description: "Multi-day swing positions in the direction of the 50/200 moving-average trend.",
			Config: domain.Config{
				domain.CfgMaxPositionSize: 0.1,
				domain.CfgStopLoss:        0.05,
				domain.CfgTakeProfit:      0.15,
				domain.CfgMaxTradesPerDay: 3,
				domain.CfgCooldownSeconds: 14400,
				"fastMA":                  50,
				"slowMA":                  200,
			},
			Rules: domain.Rules{
				Entry: []domain.Condition{
					{Kind: domain.CondCrossover, Parameters: map[string]any{"fast": "sma50", "slow": "sma200", "direction": "up"}},
					{Kind: domain.CondIndicatorThreshold, Parameters: map[string]any{"indicator": "adx", "period": 14, "above": 25.0}},
				},
				Exit: []domain.Condition{
					{Kind: domain.CondCrossover, Parameters: map[string]any{"fast": "sma50", "slow": "sma200", "direction": "down"}},
				},
			},
			Backtest: &domain.BacktestStats{
				TotalTrades:          180,
				WinningTrades:        117,
				LosingTrades:         63,
				WinRate:              0.65,
				AvgWin:               380,
				AvgLoss:              -150,
				MaxDrawdown:          0.12,
				SharpeRatio:          1.6,
				SortinoRatio:         2.1,
				ProfitFactor:         2.8,
				TotalReturn:          0.67,
				AnnualizedReturn:     0.58,
				MaxConsecutiveWins:   11,
				MaxConsecutiveLosses: 4,
				AvgTradesPerDay:      0.4,
				AvgHoldTime:          "3d 6h",
			},
			ExpectedReturns: domain.ExpectedReturns{
				Monthly: domain.ReturnRange{Min: -2, Max: 10, Avg: 4.2},
				Yearly:  domain.ReturnRange{Min: 5, Max: 85, Avg: 48},
			},
			Requirements: domain.Requirements{
				MinCapital:         2500,
				RecommendedCapital: 10000,
				RequiredExchanges:  []string{"binance"},
				APIPermissions:     []string{"read", "trade"},
			},
			Tags:      []string{"swing", "trend", "beginner-friendly", "low-maintenance"},
			CreatedAt: created,
			UpdatedAt: updated,
		},
		{
			ID:          "multi-platform-balancer",
			Name:        "Multi-Platform Balancer",
			Author:      "stratboard",
			Version:     "1.6.2",
			Category:    domain.CategoryMultiPlatform,
			Difficulty:  domain.DifficultyIntermediate,
			RiskProfile: domain.RiskConservative,
			Description: "Keeps a target portfolio allocation balanced across venues, trading drift.",
			Config: domain.Config{
				domain.CfgMaxPositionSize: 0.3,
				domain.CfgStopLoss:        0.08,
				domain.CfgTakeProfit:      0.2,
				domain.CfgMaxTradesPerDay: 10,
				domain.CfgCooldownSeconds: 7200,
				"rebalanceThreshold":      0.05,
				"targetAllocations":       map[string]any{"btc": 0.5, "eth": 0.3, "stable": 0.2},
			},
			Rules: domain.Rules{
				Entry: []domain.Condition{
					{Kind: domain.CondIndicatorThreshold, Parameters: map[string]any{"indicator": "allocation_drift", "above": 0.05}},
				},
				Exit: []domain.Condition{
					{Kind: domain.CondIndicatorThreshold, Parameters: map[string]any{"indicator": "allocation_drift", "below": 0.01}},
				},
			},
			Backtest: &domain.BacktestStats{
				TotalTrades:          520,
				WinningTrades:        416,
				LosingTrades:         104,
				WinRate:              0.80,
				AvgWin:               45,
				AvgLoss:              -38,
				MaxDrawdown:          0.08,
				SharpeRatio:          2.2,
				SortinoRatio:         2.9,
				ProfitFactor:         4.7,
				TotalReturn:          0.39,
				AnnualizedReturn:     0.34,
				MaxConsecutiveWins:   19,
				MaxConsecutiveLosses: 3,
				AvgTradesPerDay:      1.8,
				AvgHoldTime:          "11h",
			},
			ExpectedReturns: domain.ExpectedReturns{
				Monthly: domain.ReturnRange{Min: 1, Max: 4, Avg: 2.6},
				Yearly:  domain.ReturnRange{Min: 12, Max: 48, Avg: 31},
			},
			Requirements: domain.Requirements{
				MinCapital:         5000,
				RecommendedCapital: 25000,
				RequiredExchanges:  []string{"binance", "coinbase", "kraken"},
				APIPermissions:     []string{"read", "trade"},
			},
			Tags:      []string{"multi-platform", "rebalancing", "portfolio", "low-risk"},
			CreatedAt: created,
			UpdatedAt: updated,
		},
	}
}
