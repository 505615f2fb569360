// Package strategy evaluates a property under each of the six investment
// strategies. Every calculator runs the shared proforma pipeline through its
// own lens and returns strategy-specific metrics as one variant of a closed
// union.
package strategy

import (
	"fmt"

	"github.com/rovshanmuradov/dealiq/internal/domain"
	"github.com/rovshanmuradov/dealiq/internal/proforma"
	"github.com/rovshanmuradov/dealiq/internal/returns"
)

// SeventyPercentRule is the share of ARV a flipper or wholesaler may commit
// to purchase plus rehab.
const SeventyPercentRule = 0.70

// Metrics is implemented only by the six *Metrics types in this package.
// Consumers resolve it with an exhaustive type switch.
type Metrics interface {
	StrategyID() domain.StrategyID
	sealed()
}

// Result is one strategy evaluated at one purchase price.
type Result struct {
	Strategy domain.StrategyID  `json:"strategy"`
	Price    float64            `json:"price"`
	Proforma *proforma.Proforma `json:"proforma"`
	Metrics  Metrics            `json:"metrics"`
}

// Env carries engine-level settings shared by all calculators.
type Env struct {
	IRR returns.IRROptions
}

// DefaultEnv uses the default IRR search.
func DefaultEnv() Env {
	return Env{IRR: returns.DefaultIRROptions()}
}

// Calculator evaluates one strategy. Implementations are stateless and safe
// for concurrent use.
type Calculator interface {
	ID() domain.StrategyID
	Analyze(prop domain.Property, asm domain.Assumptions, price float64) (*Result, error)
}

type baseCalculator struct {
	id  domain.StrategyID
	env Env
}

func (b baseCalculator) ID() domain.StrategyID {
	return b.id
}

// build runs the proforma pipeline tagged with this strategy.
func (b baseCalculator) build(prop domain.Property, asm domain.Assumptions, price float64, opts ...proforma.Option) (*proforma.Proforma, error) {
	opts = append([]proforma.Option{
		proforma.WithStrategy(b.id),
		proforma.WithIRROptions(b.env.IRR),
	}, opts...)
	p, err := proforma.Build(prop, asm, price, opts...)
	if err != nil {
		return nil, fmt.Errorf("%s proforma: %w", b.id, err)
	}
	return p, nil
}

// New returns the calculator for a strategy id.
func New(id domain.StrategyID, env Env) (Calculator, error) {
	base := baseCalculator{id: id, env: env}
	switch id {
	case domain.StrategyLTR:
		return &ltrCalculator{baseCalculator: base}, nil
	case domain.StrategySTR:
		return &strCalculator{baseCalculator: base}, nil
	case domain.StrategyBRRRR:
		return &brrrrCalculator{baseCalculator: base}, nil
	case domain.StrategyFlip:
		return &flipCalculator{baseCalculator: base}, nil
	case domain.StrategyHouseHack:
		return &houseHackCalculator{baseCalculator: base}, nil
	case domain.StrategyWholesale:
		return &wholesaleCalculator{baseCalculator: base}, nil
	default:
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownStrategy, id)
	}
}

// All returns one calculator per strategy in display order.
func All(env Env) []Calculator {
	ids := domain.AllStrategies()
	out := make([]Calculator, 0, len(ids))
	for _, id := range ids {
		c, _ := New(id, env)
		out = append(out, c)
	}
	return out
}

// Analyze evaluates a single strategy at the given price.
func Analyze(id domain.StrategyID, prop domain.Property, asm domain.Assumptions, price float64, env Env) (*Result, error) {
	c, err := New(id, env)
	if err != nil {
		return nil, err
	}
	return c.Analyze(prop, asm, price)
}

// MaxAllowableOffer is ARV × 70% − rehab.
func MaxAllowableOffer(arv, rehab float64) float64 {
	return arv*SeventyPercentRule - rehab
}

// CashFlow is the annual figure the IQ target search drives to zero. It is
// false for strategies whose target is a closed form.
func CashFlow(m Metrics) (float64, bool) {
	switch v := m.(type) {
	case *LTRMetrics:
		return v.AnnualCashFlow, true
	case *STRMetrics:
		return v.AnnualCashFlow, true
	case *BRRRRMetrics:
		return v.AcquisitionCashFlow, true
	case *HouseHackMetrics:
		return v.AnnualCashFlow, true
	}
	return 0, false
}

// NetProfit is total profit over the hold for rentals and deal profit for
// flips and wholesales.
func NetProfit(r *Result) float64 {
	switch v := r.Metrics.(type) {
	case *LTRMetrics, *STRMetrics, *BRRRRMetrics, *HouseHackMetrics:
		return r.Proforma.Returns.TotalProfit
	case *FlipMetrics:
		return v.NetProfit
	case *WholesaleMetrics:
		return v.NetProfit
	}
	return 0
}

// CashOnCash is the strategy's headline cash-on-cash figure.
func CashOnCash(r *Result) domain.Ratio {
	switch v := r.Metrics.(type) {
	case *LTRMetrics:
		return v.CashOnCash
	case *STRMetrics:
		return v.CashOnCash
	case *BRRRRMetrics:
		return v.CashOnCash
	case *HouseHackMetrics:
		return v.CashOnCash
	case *FlipMetrics:
		return v.ROI
	case *WholesaleMetrics:
		return v.ROI
	}
	return 0
}
