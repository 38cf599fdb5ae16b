package interpret

import (
	"fmt"
	"math"
)

// FormatPnL formats a signed P&L value with an explicit sign.
func FormatPnL(v float64) string {
	if v >= 0 {
		return fmt.Sprintf("+%.2f", v)
	}
	return fmt.Sprintf("%.2f", v)
}

// FormatPercent formats a percentage with one decimal.
func FormatPercent(v float64) string {
	return fmt.Sprintf("%.1f%%", v)
}

// FormatProfitFactor formats a profit factor, rendering the
// wins-without-losses case as "inf".
func FormatProfitFactor(v float64) string {
	if math.IsInf(v, 1) {
		return "inf"
	}
	return fmt.Sprintf("%.2f", v)
}
