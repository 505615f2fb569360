package strategy

import (
	"math"

	"github.com/rovshanmuradov/dealiq/internal/amortization"
	"github.com/rovshanmuradov/dealiq/internal/domain"
	"github.com/rovshanmuradov/dealiq/internal/proforma"
	"github.com/rovshanmuradov/dealiq/internal/returns"
)

// FlipMetrics describe a fix-and-flip resale.
type FlipMetrics struct {
	ARV                 float64      `json:"arv"`
	PurchasePrice       float64      `json:"purchase_price"`
	RehabCost           float64      `json:"rehab_cost"`
	FlipMargin          float64      `json:"flip_margin"`
	MaxAllowableOffer   float64      `json:"max_allowable_offer"`
	MeetsSeventyPctRule bool         `json:"meets_seventy_pct_rule"`
	HoldingMonths       int          `json:"holding_months"`
	ClosingCosts        float64      `json:"closing_costs"`
	HoldingCosts        float64      `json:"holding_costs"`
	SellingCosts        float64      `json:"selling_costs"`
	TotalCosts          float64      `json:"total_costs"`
	NetProfit           float64      `json:"net_profit"`
	TotalCashInvested   float64      `json:"total_cash_invested"`
	ROI                 domain.Ratio `json:"roi"`
	AnnualizedROI       domain.Ratio `json:"annualized_roi"`
	AfterTaxProfit      float64      `json:"after_tax_profit"`
	IRR                 *float64     `json:"irr"`
}

func (*FlipMetrics) StrategyID() domain.StrategyID { return domain.StrategyFlip }
func (*FlipMetrics) sealed()                       {}

type flipCalculator struct {
	baseCalculator
}

// Analyze treats the purchase loan as short-term interest-only money held
// for holding_months, then sells at ARV. Returns cover the resale only: cash
// in at closing, net sale proceeds after the loan payoff at holding_months.
func (c *flipCalculator) Analyze(prop domain.Property, asm domain.Assumptions, price float64) (*Result, error) {
	arv := prop.AfterRepairValue()
	p, err := c.build(prop, asm, price, proforma.WithValueBase(arv), proforma.WithShortHold())
	if err != nil {
		return nil, err
	}

	months := asm.HoldingMonths
	loan := p.Financing.LoanAmount
	margin := arv - price - asm.RehabCost
	closing := p.Acquisition.ClosingCosts
	holding := float64(months)*asm.CarryingCostsAnnual(price)/12 +
		amortization.InterestOnly(loan, asm.InterestRate, months)
	selling := arv * asm.SellingCostsPct
	costs := closing + holding + selling
	net := margin - costs
	invested := p.Financing.DownPayment + closing + asm.RehabCost + holding
	mao := MaxAllowableOffer(arv, asm.RehabCost)

	roi := domain.SafeRatio(net, invested)
	p.Returns = returns.Holding(invested, arv-selling-loan, months, c.env.IRR)

	return &Result{
		Strategy: c.id,
		Price:    price,
		Proforma: p,
		Metrics: &FlipMetrics{
			ARV:                 arv,
			PurchasePrice:       price,
			RehabCost:           asm.RehabCost,
			FlipMargin:          margin,
			MaxAllowableOffer:   mao,
			MeetsSeventyPctRule: price <= mao,
			HoldingMonths:       months,
			ClosingCosts:        closing,
			HoldingCosts:        holding,
			SellingCosts:        selling,
			TotalCosts:          costs,
			NetProfit:           net,
			TotalCashInvested:   invested,
			ROI:                 roi,
			AnnualizedROI:       annualize(roi, months),
			AfterTaxProfit:      net - math.Max(0, net)*asm.MarginalTaxRate,
			IRR:                 p.Returns.IRR,
		},
	}, nil
}

// annualize compounds a holding-period return to a yearly rate.
func annualize(roi domain.Ratio, months int) domain.Ratio {
	if months <= 0 || !roi.IsFinite() {
		return roi
	}
	if roi <= -1 {
		return -1
	}
	return domain.Ratio(math.Pow(1+roi.Float(), 12/float64(months)) - 1)
}
