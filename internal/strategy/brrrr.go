package strategy

import (
	"math"

	"github.com/rovshanmuradov/dealiq/internal/amortization"
	"github.com/rovshanmuradov/dealiq/internal/domain"
	"github.com/rovshanmuradov/dealiq/internal/proforma"
)

// BRRRRMetrics describe buy, rehab, rent, refinance, repeat.
type BRRRRMetrics struct {
	ARV                 float64      `json:"arv"`
	PurchaseLoan        float64      `json:"purchase_loan"`
	HoldingCosts        float64      `json:"holding_costs"`
	TotalCashInvested   float64      `json:"total_cash_invested"`
	RefinanceLoan       float64      `json:"refinance_loan"`
	RefinanceClosing    float64      `json:"refinance_closing"`
	CashOut             float64      `json:"cash_out"`
	CashRecoveryPct     float64      `json:"cash_recovery_pct"`
	InfiniteReturn      bool         `json:"infinite_return"`
	CashLeftInDeal      float64      `json:"cash_left_in_deal"`
	EquityCaptured      float64      `json:"equity_captured"`
	AcquisitionCashFlow float64      `json:"acquisition_cash_flow"`
	AnnualCashFlow      float64      `json:"annual_cash_flow"`
	MonthlyCashFlow     float64      `json:"monthly_cash_flow"`
	CapRate             float64      `json:"cap_rate"`
	CashOnCash          domain.Ratio `json:"cash_on_cash"`
	DSCR                domain.Ratio `json:"dscr"`
	IRR                 *float64     `json:"irr"`
}

func (*BRRRRMetrics) StrategyID() domain.StrategyID { return domain.StrategyBRRRR }
func (*BRRRRMetrics) sealed()                       {}

type brrrrCalculator struct {
	baseCalculator
}

// Analyze carries the purchase loan interest-only through the rehab, then
// refinances at refinance_ltv of ARV. The reported proforma is the
// post-refinance hold; its return series starts from the full cash invested
// and receives the cash-out in year one.
func (c *brrrrCalculator) Analyze(prop domain.Property, asm domain.Assumptions, price float64) (*Result, error) {
	acquisition, err := c.build(prop, asm, price)
	if err != nil {
		return nil, err
	}

	arv := prop.AfterRepairValue()
	purchaseLoan := acquisition.Financing.LoanAmount
	holding := float64(asm.HoldingMonths)*asm.CarryingCostsAnnual(price)/12 +
		amortization.InterestOnly(purchaseLoan, asm.InterestRate, asm.HoldingMonths)
	invested := acquisition.Acquisition.TotalCashInvested + holding

	refiLoan := arv * asm.RefinanceLTV
	refiClosing := refiLoan * asm.RefinanceClosingPct
	cashOut := refiLoan - purchaseLoan - refiClosing

	recovery := domain.SafeRatio(cashOut, invested)
	recoveryPct := math.Min(1, recovery.Float())
	if !recovery.IsFinite() {
		recoveryPct = math.Max(0, recoveryPct)
	}
	cashLeft := math.Max(0, invested-cashOut)

	p, err := c.build(prop, asm, price,
		proforma.WithLoan(refiLoan, asm.RefinanceRate, asm.TermYears),
		proforma.WithValueBase(arv),
		proforma.WithCashInvested(cashLeft),
		proforma.WithInitialOutlay(invested),
		proforma.WithYearOneInflow(cashOut),
	)
	if err != nil {
		return nil, err
	}

	m := p.Metrics
	return &Result{
		Strategy: c.id,
		Price:    price,
		Proforma: p,
		Metrics: &BRRRRMetrics{
			ARV:                 arv,
			PurchaseLoan:        purchaseLoan,
			HoldingCosts:        holding,
			TotalCashInvested:   invested,
			RefinanceLoan:       refiLoan,
			RefinanceClosing:    refiClosing,
			CashOut:             cashOut,
			CashRecoveryPct:     recoveryPct,
			InfiniteReturn:      recovery >= 1,
			CashLeftInDeal:      cashLeft,
			EquityCaptured:      arv - price - asm.RehabCost,
			AcquisitionCashFlow: acquisition.Metrics.AnnualCashFlow,
			AnnualCashFlow:      m.AnnualCashFlow,
			MonthlyCashFlow:     m.MonthlyCashFlow,
			CapRate:             m.CapRate,
			CashOnCash:          m.CashOnCash,
			DSCR:                m.DSCR,
			IRR:                 p.Returns.IRR,
		},
	}, nil
}
