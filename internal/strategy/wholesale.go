package strategy

import (
	"github.com/rovshanmuradov/dealiq/internal/domain"
	"github.com/rovshanmuradov/dealiq/internal/proforma"
	"github.com/rovshanmuradov/dealiq/internal/returns"
)

// WholesaleMetrics describe assigning a purchase contract to an end buyer.
type WholesaleMetrics struct {
	ARV                 float64      `json:"arv"`
	MaxAllowableOffer   float64      `json:"max_allowable_offer"`
	ContractPrice       float64      `json:"contract_price"`
	AssignmentFee       float64      `json:"assignment_fee"`
	MarketingCosts      float64      `json:"marketing_costs"`
	EarnestMoney        float64      `json:"earnest_money"`
	CashAtRisk          float64      `json:"cash_at_risk"`
	NetProfit           float64      `json:"net_profit"`
	ROI                 domain.Ratio `json:"roi"`
	MeetsSeventyPctRule bool         `json:"meets_seventy_pct_rule"`
}

func (*WholesaleMetrics) StrategyID() domain.StrategyID { return domain.StrategyWholesale }
func (*WholesaleMetrics) sealed()                       {}

type wholesaleCalculator struct {
	baseCalculator
}

// Analyze prices the assignment fee as a share of the contract price, or as
// the spread to MAO when no fee percentage is set. The contract is assigned,
// never closed, so there is no hold and no IRR.
func (c *wholesaleCalculator) Analyze(prop domain.Property, asm domain.Assumptions, price float64) (*Result, error) {
	arv := prop.AfterRepairValue()
	p, err := c.build(prop, asm, price, proforma.WithValueBase(arv), proforma.WithShortHold())
	if err != nil {
		return nil, err
	}

	mao := MaxAllowableOffer(arv, asm.RehabCost)
	fee := price * asm.WholesaleFeePct
	if asm.WholesaleFeePct == 0 {
		fee = mao - price
	}
	net := fee - asm.MarketingCosts
	atRisk := asm.MarketingCosts + asm.EarnestMoney
	p.Returns = returns.Result{
		IRRError:           "not applicable: the contract is assigned, not closed",
		TotalProfit:        net,
		TotalDistributions: fee,
		InitialInvestment:  atRisk,
	}

	return &Result{
		Strategy: c.id,
		Price:    price,
		Proforma: p,
		Metrics: &WholesaleMetrics{
			ARV:                 arv,
			MaxAllowableOffer:   mao,
			ContractPrice:       price,
			AssignmentFee:       fee,
			MarketingCosts:      asm.MarketingCosts,
			EarnestMoney:        asm.EarnestMoney,
			CashAtRisk:          atRisk,
			NetProfit:           net,
			ROI:                 domain.SafeRatio(net, atRisk),
			MeetsSeventyPctRule: price <= mao,
		},
	}, nil
}
