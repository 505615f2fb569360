package style

import (
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/rovshanmuradov/dealiq/internal/domain"
)

// Dollars formats whole dollars with thousands separators.
func Dollars(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "-"
	}
	s := decimal.NewFromFloat(v).Round(0).Abs().String()
	var b strings.Builder
	for i, c := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(c)
	}
	if v <= -0.5 {
		return "-$" + b.String()
	}
	return "$" + b.String()
}

// Percent formats a ratio with one decimal; +inf shows as ∞.
func Percent(r domain.Ratio) string {
	if !r.IsFinite() {
		if r.Float() > 0 {
			return "∞"
		}
		return "-"
	}
	return Pct(r.Float())
}

// Pct formats a decimal fraction as a percentage.
func Pct(v float64) string {
	return fmt.Sprintf("%.1f%%", v*100)
}

// Multiple formats coverage ratios such as DSCR.
func Multiple(r domain.Ratio) string {
	if !r.IsFinite() {
		return "∞"
	}
	return fmt.Sprintf("%.2fx", r.Float())
}
