// Package dealscore rates a deal on a 0-100 scale from metrics that were
// already computed upstream.
package dealscore

import (
	"math"

	"github.com/rovshanmuradov/dealiq/internal/domain"
	"github.com/rovshanmuradov/dealiq/internal/strategy"
)

// Weights of each component. Absent components drop out and the remaining
// weights are rescaled to sum to one.
type Weights struct {
	Discount      float64 `mapstructure:"discount"`
	CashOnCash    float64 `mapstructure:"cash_on_cash"`
	CapRate       float64 `mapstructure:"cap_rate"`
	DSCR          float64 `mapstructure:"dscr"`
	EquityCapture float64 `mapstructure:"equity_capture"`
}

func DefaultWeights() Weights {
	return Weights{
		Discount:      0.35,
		CashOnCash:    0.20,
		CapRate:       0.15,
		DSCR:          0.15,
		EquityCapture: 0.15,
	}
}

// Full-marks thresholds for each component.
const (
	discountSlope    = 400  // 25% discount required scores zero
	cashOnCashTarget = 0.12 // 12% cash-on-cash scores 100
	capRateTarget    = 0.10
	dscrFloor        = 1.0
	dscrHeadroom     = 0.5 // DSCR 1.5 scores 100
	equityTarget     = 0.25
)

// Inputs are the raw metrics behind a score. Nil pointers mark components
// that do not apply to the strategy.
type Inputs struct {
	ListPrice      float64
	BreakevenPrice float64
	CashOnCash     *float64
	CapRate        *float64
	DSCR           *domain.Ratio
	EquityCapture  *float64
}

// Score maps inputs to a clipped, weighted composite with grade and verdict.
func Score(in Inputs, w Weights) domain.DealScore {
	ds := domain.DealScore{BreakevenPrice: in.BreakevenPrice}

	if in.ListPrice > 0 {
		d := (in.ListPrice - in.BreakevenPrice) / in.ListPrice
		ds.DiscountRequiredPct = d
		ds.Components.Discount = ptr(clip(100 - discountSlope*d))
	}
	if in.CashOnCash != nil {
		ds.Components.CashOnCash = ptr(clip(*in.CashOnCash / cashOnCashTarget * 100))
	}
	if in.CapRate != nil {
		ds.Components.CapRate = ptr(clip(*in.CapRate / capRateTarget * 100))
	}
	if in.DSCR != nil {
		ds.Components.DSCR = ptr(dscrScore(*in.DSCR))
	}
	if in.EquityCapture != nil {
		ds.Components.EquityCapture = ptr(clip(*in.EquityCapture / equityTarget * 100))
	}

	weighted, total := 0.0, 0.0
	add := func(score *float64, weight float64) {
		if score == nil || weight <= 0 {
			return
		}
		weighted += *score * weight
		total += weight
	}
	c := ds.Components
	add(c.Discount, w.Discount)
	add(c.CashOnCash, w.CashOnCash)
	add(c.CapRate, w.CapRate)
	add(c.DSCR, w.DSCR)
	add(c.EquityCapture, w.EquityCapture)

	if total > 0 {
		ds.Score = weighted / total
	}
	ds.Grade, ds.Verdict = Grade(ds.Score)
	return ds
}

func dscrScore(r domain.Ratio) float64 {
	if math.IsInf(r.Float(), 1) {
		return 100
	}
	return clip((r.Float() - dscrFloor) / dscrHeadroom * 100)
}

// Grade buckets a score into a letter grade and verdict.
func Grade(score float64) (grade, verdict string) {
	switch {
	case score >= 85:
		return "A+", "Strong Buy"
	case score >= 70:
		return "A", "Good Deal"
	case score >= 55:
		return "B", "Worth Pursuing"
	case score >= 40:
		return "C", "Marginal"
	case score >= 25:
		return "D", "Weak"
	default:
		return "F", "Pass"
	}
}

// FromResult selects the components that apply to the strategy. The
// breakeven price is the strategy's IQ target.
func FromResult(r *strategy.Result, target domain.IQTargetResult) Inputs {
	p := r.Proforma
	in := Inputs{
		ListPrice:      p.Acquisition.ListPrice,
		BreakevenPrice: target.TargetPrice,
	}
	equity := equityCapture(p.Property.AfterRepairValue(), r.Price, p.Acquisition.RehabCost)

	switch m := r.Metrics.(type) {
	case *strategy.LTRMetrics:
		in.CashOnCash, in.CapRate, in.DSCR = ptr(m.CashOnCash.Float()), ptr(m.CapRate), &m.DSCR
		in.EquityCapture = equity
	case *strategy.STRMetrics:
		in.CashOnCash, in.CapRate, in.DSCR = ptr(m.CashOnCash.Float()), ptr(m.CapRate), &m.DSCR
		in.EquityCapture = equity
	case *strategy.BRRRRMetrics:
		in.CashOnCash, in.CapRate, in.DSCR = ptr(m.CashOnCash.Float()), ptr(m.CapRate), &m.DSCR
		in.EquityCapture = equity
	case *strategy.HouseHackMetrics:
		in.CashOnCash, in.CapRate, in.DSCR = ptr(m.CashOnCash.Float()), ptr(p.Metrics.CapRate), &m.DSCR
		in.EquityCapture = equity
	case *strategy.FlipMetrics:
		in.CashOnCash = ptr(m.ROI.Float())
		in.EquityCapture = equity
	case *strategy.WholesaleMetrics:
		in.CashOnCash = ptr(m.ROI.Float())
		in.EquityCapture = equity
	}
	return in
}

func equityCapture(marketValue, price, rehab float64) *float64 {
	if marketValue <= 0 {
		return nil
	}
	return ptr((marketValue - price - rehab) / marketValue)
}

// clip bounds a sub-score to [0, 100]; -Inf and NaN score zero.
func clip(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return math.Max(0, math.Min(100, v))
}

func ptr[T any](v T) *T {
	return &v
}
