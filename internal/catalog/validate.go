package catalog

import (
	"fmt"

	"stratboard/internal/domain"
)

// ValidationResult holds the outcome of a structural and semantic
// template check. Errors are collected in check-definition order so the
// caller always sees the full, deterministic list.
type ValidationResult struct {
	IsValid bool     `json:"isValid"`
	Errors  []string `json:"errors"`
}

// Validate runs all structural and semantic checks on a template and
// returns every violation. It never short-circuits.
//
// Structural: id, name, and config must be present; entry and exit rule
// sequences must each be non-empty. Semantic: maxPositionSize must be in
// (0, 1]; stopLoss must be below takeProfit when both are numeric.
// A missing takeProfit is legal (open-ended grid/yield strategies).
func Validate(t *domain.StrategyTemplate) ValidationResult {
	var errs []string

	if t.ID == "" {
		errs = append(errs, "template id is required")
	}
	if t.Name == "" {
		errs = append(errs, "template name is required")
	}
	if t.Config == nil {
		errs = append(errs, "template config is required")
	}
	if len(t.Rules.Entry) == 0 {
		errs = append(errs, "at least one entry rule is required")
	}
	if len(t.Rules.Exit) == 0 {
		errs = append(errs, "at least one exit rule is required")
	}

	if size, ok := t.Config.Float(domain.CfgMaxPositionSize); ok {
		if size <= 0 {
			errs = append(errs, fmt.Sprintf("maxPositionSize must be positive, got %v", size))
		}
		if size > 1 {
			errs = append(errs, fmt.Sprintf("maxPositionSize cannot exceed 1, got %v", size))
		}
	}

	stop, hasStop := t.Config.Float(domain.CfgStopLoss)
	take, hasTake := t.Config.Float(domain.CfgTakeProfit)
	if hasStop && hasTake && stop >= take {
		errs = append(errs, fmt.Sprintf("stopLoss (%v) must be less than takeProfit (%v)", stop, take))
	}

	return ValidationResult{IsValid: len(errs) == 0, Errors: errs}
}
