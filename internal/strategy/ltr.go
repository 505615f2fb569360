package strategy

import (
	"github.com/rovshanmuradov/dealiq/internal/domain"
)

// LTRMetrics are the headline figures of a buy-and-hold rental.
type LTRMetrics struct {
	MonthlyCashFlow float64      `json:"monthly_cash_flow"`
	AnnualCashFlow  float64      `json:"annual_cash_flow"`
	CapRate         float64      `json:"cap_rate"`
	CashOnCash      domain.Ratio `json:"cash_on_cash"`
	DSCR            domain.Ratio `json:"dscr"`
	OnePercentRule  float64      `json:"one_percent_rule"`
	IRR             *float64     `json:"irr"`
	EquityMultiple  float64      `json:"equity_multiple"`
}

func (*LTRMetrics) StrategyID() domain.StrategyID { return domain.StrategyLTR }
func (*LTRMetrics) sealed()                       {}

type ltrCalculator struct {
	baseCalculator
}

func (c *ltrCalculator) Analyze(prop domain.Property, asm domain.Assumptions, price float64) (*Result, error) {
	p, err := c.build(prop, asm, price)
	if err != nil {
		return nil, err
	}
	m := p.Metrics
	return &Result{
		Strategy: c.id,
		Price:    price,
		Proforma: p,
		Metrics: &LTRMetrics{
			MonthlyCashFlow: m.MonthlyCashFlow,
			AnnualCashFlow:  m.AnnualCashFlow,
			CapRate:         m.CapRate,
			CashOnCash:      m.CashOnCash,
			DSCR:            m.DSCR,
			OnePercentRule:  m.OnePercentRule,
			IRR:             p.Returns.IRR,
			EquityMultiple:  p.Returns.EquityMultiple,
		},
	}, nil
}
