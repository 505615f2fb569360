// Package iqtarget finds the maximum purchase price each strategy can
// justify.
//
// Rental strategies search for the price at which cash flow reaches zero.
// Flip and wholesale use the 70% rule in closed form. Numeric failures never
// surface as errors; they are reported through the Achievable and Converged
// flags of the result.
package iqtarget

import (
	"errors"
	"fmt"
	"math"

	"github.com/rovshanmuradov/dealiq/internal/domain"
	"github.com/rovshanmuradov/dealiq/internal/strategy"
)

// Options bound the price search. Bracket ends are multiples of list price.
type Options struct {
	BracketLow    float64
	BracketHigh   float64
	Tolerance     float64 // dollars of annual cash flow
	MaxIterations int
}

func DefaultOptions() Options {
	return Options{
		BracketLow:    0.5,
		BracketHigh:   1.1,
		Tolerance:     1,
		MaxIterations: 100,
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.BracketLow <= 0 {
		o.BracketLow = d.BracketLow
	}
	if o.BracketHigh <= o.BracketLow {
		o.BracketHigh = max(d.BracketHigh, o.BracketLow*2)
	}
	if o.Tolerance <= 0 {
		o.Tolerance = d.Tolerance
	}
	if o.MaxIterations <= 0 {
		o.MaxIterations = d.MaxIterations
	}
	return o
}

// Solve computes the IQ target for calc. The only errors returned are
// input errors raised by the strategy itself.
func Solve(calc strategy.Calculator, prop domain.Property, asm domain.Assumptions, opts Options) (domain.IQTargetResult, error) {
	opts = opts.withDefaults()
	id := calc.ID()

	res := domain.IQTargetResult{
		Strategy:   id,
		ListPrice:  prop.ListPrice,
		Achievable: true,
		Converged:  true,
	}
	res.HighlightedMetric, res.SecondaryMetric = metricLabels(id)

	switch id {
	case domain.StrategyFlip:
		res.TargetPrice = strategy.MaxAllowableOffer(prop.AfterRepairValue(), asm.RehabCost)
		res.Rationale = "Maximum offer under the 70% rule: ARV × 70% less rehab"
	case domain.StrategyWholesale:
		mao := strategy.MaxAllowableOffer(prop.AfterRepairValue(), asm.RehabCost)
		res.TargetPrice = mao * (1 - asm.WholesaleFeePct)
		res.Rationale = "Contract price that leaves the assignment fee inside the 70% rule offer"
	default:
		if err := searchBreakeven(calc, prop, asm, opts, &res); err != nil {
			return res, err
		}
	}

	if res.TargetPrice <= 0 {
		res.TargetPrice = 0
		res.Achievable = false
		res.Rationale += "; no positive price satisfies it"
	} else {
		at, err := calc.Analyze(prop, asm, res.TargetPrice)
		if err != nil {
			return res, fmt.Errorf("iq target %s: %w", id, err)
		}
		res.Extras = extras(at)
	}

	res.DiscountAmount = prop.ListPrice - res.TargetPrice
	if prop.ListPrice > 0 {
		res.DiscountPct = res.DiscountAmount / prop.ListPrice
	}
	return res, nil
}

// searchBreakeven bisects for the price where the strategy's cash flow is
// zero and folds root-finding failures into the result flags.
func searchBreakeven(calc strategy.Calculator, prop domain.Property, asm domain.Assumptions, opts Options, res *domain.IQTargetResult) error {
	var analyzeErr error
	cashFlow := func(price float64) float64 {
		r, err := calc.Analyze(prop, asm, price)
		if err != nil {
			analyzeErr = err
			return math.NaN()
		}
		cf, _ := strategy.CashFlow(r.Metrics)
		return cf
	}

	lo := prop.ListPrice * opts.BracketLow
	hi := prop.ListPrice * opts.BracketHigh
	price, iterations, err := FindPrice(cashFlow, lo, hi, opts.Tolerance, opts.MaxIterations)
	if analyzeErr != nil {
		return fmt.Errorf("iq target %s: %w", calc.ID(), analyzeErr)
	}

	res.TargetPrice = price
	res.Iterations = iterations
	res.Rationale = fmt.Sprintf("Highest price at which %s cash flow breaks even", calc.ID().Label())

	var notFound *domain.RootNotFoundError
	var nonConv *domain.NonConvergenceError
	switch {
	case errors.As(err, &notFound):
		res.Achievable = false
		if price == hi {
			res.Rationale = fmt.Sprintf("%s cash flow stays positive across the search range; capped at %.0f%% of list", calc.ID().Label(), opts.BracketHigh*100)
		} else {
			res.Rationale = fmt.Sprintf("%s cash flow is negative even at %.0f%% of list", calc.ID().Label(), opts.BracketLow*100)
		}
	case errors.As(err, &nonConv):
		res.Converged = false
	}
	return nil
}

// FindPrice bisects a cash flow that decreases with price for the price
// where it reaches zero within tol. When the root lies outside [lo, hi] it
// returns the nearer bound with *domain.RootNotFoundError. When the budget
// runs out it returns the highest price seen with non-negative cash flow
// and *domain.NonConvergenceError.
func FindPrice(cashFlow func(price float64) float64, lo, hi, tol float64, maxIter int) (float64, int, error) {
	fLo := cashFlow(lo)
	if math.IsNaN(fLo) {
		return lo, 0, &domain.RootNotFoundError{What: "breakeven price", Low: lo, High: hi}
	}
	if math.Abs(fLo) <= tol {
		return lo, 0, nil
	}
	if fLo < 0 {
		return lo, 0, &domain.RootNotFoundError{What: "breakeven price", Low: lo, High: hi}
	}
	fHi := cashFlow(hi)
	if math.IsNaN(fHi) {
		return lo, 0, &domain.RootNotFoundError{What: "breakeven price", Low: lo, High: hi}
	}
	if math.Abs(fHi) <= tol {
		return hi, 0, nil
	}
	if fHi > 0 {
		return hi, 0, &domain.RootNotFoundError{What: "breakeven price", Low: lo, High: hi}
	}

	residual := fLo
	for i := 1; i <= maxIter; i++ {
		mid := (lo + hi) / 2
		f := cashFlow(mid)
		if math.IsNaN(f) {
			return lo, i, &domain.NonConvergenceError{What: "breakeven price", Iterations: i, Residual: residual}
		}
		if math.Abs(f) <= tol {
			return mid, i, nil
		}
		if f > 0 {
			lo, residual = mid, f
		} else {
			hi = mid
		}
	}
	return lo, maxIter, &domain.NonConvergenceError{What: "breakeven price", Iterations: maxIter, Residual: residual}
}

func metricLabels(id domain.StrategyID) (string, string) {
	switch id {
	case domain.StrategyLTR:
		return "annual_cash_flow", "cap_rate"
	case domain.StrategySTR:
		return "annual_cash_flow", "revpar"
	case domain.StrategyBRRRR:
		return "acquisition_cash_flow", "cash_recovery_pct"
	case domain.StrategyFlip:
		return "max_allowable_offer", "net_profit"
	case domain.StrategyHouseHack:
		return "annual_cash_flow", "housing_cost_reduction"
	case domain.StrategyWholesale:
		return "max_allowable_offer", "assignment_fee"
	}
	return "", ""
}

func extras(r *strategy.Result) domain.IQTargetExtras {
	var e domain.IQTargetExtras
	switch m := r.Metrics.(type) {
	case *strategy.LTRMetrics:
		e.CashFlow = m.AnnualCashFlow
	case *strategy.STRMetrics:
		e.CashFlow = m.AnnualCashFlow
	case *strategy.BRRRRMetrics:
		e.CashFlow = m.AcquisitionCashFlow
		e.CashRecoveryPct = m.CashRecoveryPct
	case *strategy.FlipMetrics:
		e.NetProfit = m.NetProfit
		e.ROI = finite(m.ROI)
	case *strategy.HouseHackMetrics:
		e.CashFlow = m.AnnualCashFlow
	case *strategy.WholesaleMetrics:
		e.AssignmentFee = m.AssignmentFee
		e.NetProfit = m.NetProfit
		e.ROI = finite(m.ROI)
	}
	return e
}

func finite(r domain.Ratio) float64 {
	if !r.IsFinite() {
		return 0
	}
	return r.Float()
}
