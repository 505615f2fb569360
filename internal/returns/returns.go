// Package returns computes investment return metrics from a cash-flow series.
package returns

import (
	"math"

	"github.com/shopspring/decimal"

	"github.com/rovshanmuradov/dealiq/internal/domain"
)

// Search bounds for the IRR root-find.
const (
	DefaultLowRate       = -0.99
	DefaultHighRate      = 10.0
	DefaultTolerance     = 1e-6
	DefaultMaxIterations = 100
)

// IRROptions bound the IRR search.
type IRROptions struct {
	Low           float64
	High          float64
	Tolerance     float64 // on |NPV|
	MaxIterations int
}

// DefaultIRROptions searches [-99%, 1000%] for up to 100 iterations.
func DefaultIRROptions() IRROptions {
	return IRROptions{
		Low:           DefaultLowRate,
		High:          DefaultHighRate,
		Tolerance:     DefaultTolerance,
		MaxIterations: DefaultMaxIterations,
	}
}

func (o IRROptions) withDefaults() IRROptions {
	d := DefaultIRROptions()
	if o.Low == 0 && o.High == 0 {
		o.Low, o.High = d.Low, d.High
	}
	if o.Tolerance <= 0 {
		o.Tolerance = d.Tolerance
	}
	if o.MaxIterations <= 0 {
		o.MaxIterations = d.MaxIterations
	}
	return o
}

// NPV discounts flows[t] at rate, flows[0] being undiscounted.
func NPV(rate float64, flows []float64) float64 {
	npv := 0.0
	factor := 1.0
	for t, cf := range flows {
		if t > 0 {
			factor *= 1 + rate
		}
		npv += cf / factor
	}
	return npv
}

// dNPV is the derivative of NPV with respect to rate.
func dNPV(rate float64, flows []float64) float64 {
	d := 0.0
	for t, cf := range flows {
		if t == 0 {
			continue
		}
		d -= float64(t) * cf / math.Pow(1+rate, float64(t+1))
	}
	return d
}

// IRR finds the rate where NPV is zero with Newton steps safeguarded by a
// bisection bracket. It returns *domain.IRRNotFoundError when NPV has the
// same sign at both bracket ends and *domain.NonConvergenceError when the
// iteration budget runs out.
func IRR(flows []float64, opts IRROptions) (float64, error) {
	opts = opts.withDefaults()
	lo, hi := opts.Low, opts.High

	fLo, fHi := NPV(lo, flows), NPV(hi, flows)
	if math.Abs(fLo) <= opts.Tolerance {
		return lo, nil
	}
	if math.Abs(fHi) <= opts.Tolerance {
		return hi, nil
	}
	if math.IsNaN(fLo) || math.IsNaN(fHi) || (fLo > 0) == (fHi > 0) {
		return 0, &domain.IRRNotFoundError{Low: lo, High: hi, NPVLow: fLo, NPVHigh: fHi}
	}

	// orient so that f(lo) < 0 < f(hi)
	if fLo > 0 {
		lo, hi = hi, lo
	}

	rate := 0.1
	if rate <= math.Min(lo, hi) || rate >= math.Max(lo, hi) {
		rate = (lo + hi) / 2
	}
	f := NPV(rate, flows)

	for i := 0; i < opts.MaxIterations; i++ {
		if math.Abs(f) <= opts.Tolerance {
			return rate, nil
		}
		if f < 0 {
			lo = rate
		} else {
			hi = rate
		}

		next := math.NaN()
		if d := dNPV(rate, flows); d != 0 {
			next = rate - f/d
		}
		// fall back to bisection when Newton leaves the bracket
		if math.IsNaN(next) || next <= math.Min(lo, hi) || next >= math.Max(lo, hi) {
			next = (lo + hi) / 2
		}

		// a stalled Newton step is not a root; bisect instead, and stop
		// only once the bracket itself has collapsed
		if math.Abs(next-rate) < 1e-15 {
			next = (lo + hi) / 2
			if math.Abs(next-rate) < 1e-15 {
				residual := NPV(next, flows)
				if math.Abs(residual) <= opts.Tolerance {
					return next, nil
				}
				return next, &domain.NonConvergenceError{What: "irr", Iterations: i + 1, Residual: residual}
			}
		}
		rate = next
		f = NPV(rate, flows)
	}

	if math.Abs(f) <= opts.Tolerance {
		return rate, nil
	}
	return rate, &domain.NonConvergenceError{What: "irr", Iterations: opts.MaxIterations, Residual: f}
}

// Inputs describe a hold period for Compute.
type Inputs struct {
	InitialOutlay    float64   // cash invested at t=0
	CashFlows        []float64 // pre-tax cash flow for years 1..h
	TerminalProceeds float64   // after-tax sale proceeds at year h
	EndingEquity     float64   // value minus loan balance at year h
	IRR              IRROptions
}

// Result holds the computed return metrics. IRR is nil when undefined.
type Result struct {
	IRR                 *float64  `json:"irr"`
	IRRError            string    `json:"irr_error,omitempty"`
	EquityMultiple      float64   `json:"equity_multiple"`
	CAGR                float64   `json:"cagr"`
	AverageAnnualReturn float64   `json:"average_annual_return"`
	PaybackMonths       *int      `json:"payback_months"`
	TotalProfit         float64   `json:"total_profit"`
	TotalDistributions  float64   `json:"total_distributions"`
	InitialInvestment   float64   `json:"initial_investment"`
	CashFlowSeries      []float64 `json:"cash_flow_series"`
}

// Series builds [-outlay, cf1, ..., cfh + terminal].
func Series(outlay float64, cashFlows []float64, terminal float64) []float64 {
	series := make([]float64, len(cashFlows)+1)
	series[0] = -outlay
	copy(series[1:], cashFlows)
	if len(cashFlows) > 0 {
		series[len(series)-1] += terminal
	} else {
		series[0] += terminal
	}
	return series
}

// Compute derives IRR, equity multiple, CAGR, average annual return and
// payback. An IRR failure is recorded on the result, not returned.
func Compute(in Inputs) Result {
	series := Series(in.InitialOutlay, in.CashFlows, in.TerminalProceeds)
	years := len(in.CashFlows)

	total := decimal.NewFromFloat(in.TerminalProceeds)
	for _, cf := range in.CashFlows {
		total = total.Add(decimal.NewFromFloat(cf))
	}
	distributions := total.InexactFloat64()

	res := Result{
		TotalDistributions: distributions,
		TotalProfit:        distributions - in.InitialOutlay,
		InitialInvestment:  in.InitialOutlay,
		CashFlowSeries:     series,
		PaybackMonths:      PaybackMonths(in.InitialOutlay, in.CashFlows),
	}

	if irr, err := IRR(series, in.IRR); err != nil {
		res.IRRError = err.Error()
	} else {
		res.IRR = &irr
	}

	if in.InitialOutlay > 0 {
		res.EquityMultiple = distributions / in.InitialOutlay
		if years > 0 {
			res.AverageAnnualReturn = res.TotalProfit / in.InitialOutlay / float64(years)
			if in.EndingEquity > 0 {
				res.CAGR = math.Pow(in.EndingEquity/in.InitialOutlay, 1/float64(years)) - 1
			} else {
				res.CAGR = -1
			}
		}
	}
	return res
}

// Holding computes returns for cash put in at month 0 and recovered in one
// lump sum after months, as on a resale. The IRR is solved on the monthly
// series and compounded to a yearly rate; CAGR and average return are
// annualized the same way.
func Holding(outlay, proceeds float64, months int, opts IRROptions) Result {
	res := Result{
		TotalDistributions: proceeds,
		TotalProfit:        decimal.NewFromFloat(proceeds).Sub(decimal.NewFromFloat(outlay)).InexactFloat64(),
		InitialInvestment:  outlay,
	}
	if months <= 0 {
		res.IRRError = "holding period must be at least one month"
		return res
	}

	series := make([]float64, months+1)
	series[0] = -outlay
	series[months] += proceeds
	res.CashFlowSeries = series
	if proceeds >= outlay {
		res.PaybackMonths = &months
	}

	if monthly, err := IRR(series, opts); err != nil {
		res.IRRError = err.Error()
	} else {
		annual := math.Pow(1+monthly, 12) - 1
		res.IRR = &annual
	}

	if outlay > 0 {
		years := float64(months) / 12
		res.EquityMultiple = proceeds / outlay
		res.AverageAnnualReturn = res.TotalProfit / outlay / years
		if proceeds > 0 {
			res.CAGR = math.Pow(proceeds/outlay, 1/years) - 1
		} else {
			res.CAGR = -1
		}
	}
	return res
}

// PaybackMonths returns the first month in which cumulative cash flow,
// starting from -outlay, reaches zero. Annual flows are spread evenly
// over their twelve months. Nil means no payback within the horizon.
func PaybackMonths(outlay float64, annualCashFlows []float64) *int {
	if outlay <= 0 {
		zero := 0
		return &zero
	}
	cumulative := -outlay
	for y, cf := range annualCashFlows {
		monthly := cf / 12
		for m := 1; m <= 12; m++ {
			cumulative += monthly
			if cumulative >= 0 {
				month := y*12 + m
				return &month
			}
		}
	}
	return nil
}
