package catalog

import (
	"testing"

	"stratboard/internal/domain"
)

func validTemplate() *domain.StrategyTemplate {
	return &domain.StrategyTemplate{
		ID:   "test-template",
		Name: "Test Template",
		Config: domain.Config{
			domain.CfgMaxPositionSize: 0.1,
			domain.CfgStopLoss:        0.02,
			domain.CfgTakeProfit:      0.05,
		},
		Rules: domain.Rules{
			Entry: []domain.Condition{{Kind: domain.CondIndicatorThreshold}},
			Exit:  []domain.Condition{{Kind: domain.CondTimeWindow}},
		},
	}
}

func TestValidateOK(t *testing.T) {
	res := Validate(validTemplate())
	if !res.IsValid {
		t.Fatalf("Validate() = invalid, errors: %v", res.Errors)
	}
	if len(res.Errors) != 0 {
		t.Errorf("Errors = %v, want empty", res.Errors)
	}
}

func TestValidateCollectsAllErrors(t *testing.T) {
	res := Validate(&domain.StrategyTemplate{})
	if res.IsValid {
		t.Fatal("Validate(empty) = valid, want invalid")
	}
	want := []string{
		"template id is required",
		"template name is required",
		"template config is required",
		"at least one entry rule is required",
		"at least one exit rule is required",
	}
	if len(res.Errors) != len(want) {
		t.Fatalf("Errors = %v, want %d errors", res.Errors, len(want))
	}
	for i, msg := range want {
		if res.Errors[i] != msg {
			t.Errorf("Errors[%d] = %q, want %q", i, res.Errors[i], msg)
		}
	}
}

func TestValidatePositionSize(t *testing.T) {
	tests := []struct {
		size    any
		wantErr string
	}{
		{1.5, "maxPositionSize cannot exceed 1, got 1.5"},
		{0.0, "maxPositionSize must be positive, got 0"},
		{-0.1, "maxPositionSize must be positive, got -0.1"},
		{1.0, ""},
	}
	for _, tt := range tests {
		tpl := validTemplate()
		tpl.Config[domain.CfgMaxPositionSize] = tt.size
		res := Validate(tpl)
		if tt.wantErr == "" {
			if !res.IsValid {
				t.Errorf("size %v: invalid, errors: %v", tt.size, res.Errors)
			}
			continue
		}
		if res.IsValid {
			t.Errorf("size %v: valid, want error %q", tt.size, tt.wantErr)
			continue
		}
		if res.Errors[0] != tt.wantErr {
			t.Errorf("size %v: error = %q, want %q", tt.size, res.Errors[0], tt.wantErr)
		}
	}
}

func TestValidateStopVsTake(t *testing.T) {
	tpl := validTemplate()
	tpl.Config[domain.CfgStopLoss] = 0.05
	tpl.Config[domain.CfgTakeProfit] = 0.02
	res := Validate(tpl)
	if res.IsValid {
		t.Fatal("Validate() = valid, want stopLoss/takeProfit error")
	}
	want := "stopLoss (0.05) must be less than takeProfit (0.02)"
	if res.Errors[0] != want {
		t.Errorf("error = %q, want %q", res.Errors[0], want)
	}
}

func TestValidateMissingTakeProfit(t *testing.T) {
	// Open-ended strategies legitimately omit takeProfit.
	tpl := validTemplate()
	delete(tpl.Config, domain.CfgTakeProfit)
	if res := Validate(tpl); !res.IsValid {
		t.Errorf("Validate() = invalid without takeProfit, errors: %v", res.Errors)
	}
}

func TestValidateNonNumericTolerated(t *testing.T) {
	// A malformed value type skips the numeric checks rather than failing.
	tpl := validTemplate()
	tpl.Config[domain.CfgStopLoss] = "not-a-number"
	if res := Validate(tpl); !res.IsValid {
		t.Errorf("Validate() = invalid with non-numeric stopLoss, errors: %v", res.Errors)
	}
}
