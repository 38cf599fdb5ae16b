package catalog

import "stratboard/internal/domain"

// Summary aggregates catalog-wide counts and statistics for the
// dashboard overview.
type Summary struct {
	Total          int                        `json:"total"`
	ByCategory     map[domain.Category]int    `json:"byCategory"`
	ByRiskProfile  map[domain.RiskProfile]int `json:"byRiskProfile"`
	ByDifficulty   map[domain.Difficulty]int  `json:"byDifficulty"`
	AvgWinRate     float64                    `json:"avgWinRate"`
	AvgAnnualized  float64                    `json:"avgAnnualizedReturn"`
	HighestWinRate float64                    `json:"highestWinRate"`
	HighestReturn  float64                    `json:"highestReturn"`
}

// Summary computes per-bucket counts over every enum value (zero-filled
// when absent), the arithmetic mean of win rate and annualized return
// across all templates, and the catalog maxima of win rate and total
// return. Templates without a backtest contribute zeros to the means.
func (r *Registry) Summary() Summary {
	s := Summary{
		Total:         len(r.templates),
		ByCategory:    make(map[domain.Category]int, len(domain.Categories())),
		ByRiskProfile: make(map[domain.RiskProfile]int, len(domain.RiskProfiles())),
		ByDifficulty:  make(map[domain.Difficulty]int, len(domain.Difficulties())),
	}
	for _, c := range domain.Categories() {
		s.ByCategory[c] = 0
	}
	for _, p := range domain.RiskProfiles() {
		s.ByRiskProfile[p] = 0
	}
	for _, d := range domain.Difficulties() {
		s.ByDifficulty[d] = 0
	}

	var sumWinRate, sumAnnualized float64
	for _, t := range r.templates {
		s.ByCategory[t.Category]++
		s.ByRiskProfile[t.RiskProfile]++
		s.ByDifficulty[t.Difficulty]++

		if bt := t.Backtest; bt != nil {
			sumWinRate += bt.WinRate
			sumAnnualized += bt.AnnualizedReturn
			if bt.WinRate > s.HighestWinRate {
				s.HighestWinRate = bt.WinRate
			}
			if bt.TotalReturn > s.HighestReturn {
				s.HighestReturn = bt.TotalReturn
			}
		}
	}

	if s.Total > 0 {
		s.AvgWinRate = sumWinRate / float64(s.Total)
		s.AvgAnnualized = sumAnnualized / float64(s.Total)
	}
	return s
}
