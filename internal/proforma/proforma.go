// Package proforma builds the underwriting snapshot for one
// (property, assumptions, purchase price) triple: Year-1 income statement,
// financing, ratios, depreciation, multi-year projection, exit and returns.
//
// The JSON shape of Proforma is consumed by the report renderer and must stay
// stable field-for-field.
package proforma

import (
	"github.com/rovshanmuradov/dealiq/internal/domain"
	"github.com/rovshanmuradov/dealiq/internal/returns"
)

// Proforma is an immutable snapshot; it is never mutated after Build returns
// except for the Sensitivity and DealScore sections, which the engine fills
// on its own copy.
type Proforma struct {
	Strategy     domain.StrategyID         `json:"strategy"`
	Property     domain.Property           `json:"property"`
	Acquisition  Acquisition               `json:"acquisition"`
	Financing    Financing                 `json:"financing"`
	Income       Income                    `json:"income"`
	Expenses     Expenses                  `json:"expenses"`
	Metrics      Metrics                   `json:"metrics"`
	Depreciation Depreciation              `json:"depreciation"`
	Projections  Projections               `json:"projections"`
	Exit         Exit                      `json:"exit"`
	Returns      returns.Result            `json:"returns"`
	Sensitivity  *domain.SensitivityTables `json:"sensitivity"`
	DealScore    *domain.DealScore         `json:"deal_score"`
	Sources      map[string]string         `json:"sources"`
}

type Acquisition struct {
	PurchasePrice        float64 `json:"purchase_price"`
	ListPrice            float64 `json:"list_price"`
	DiscountFromList     float64 `json:"discount_from_list"`
	ClosingCosts         float64 `json:"closing_costs"`
	RehabCost            float64 `json:"rehab_cost"`
	TotalAcquisitionCost float64 `json:"total_acquisition_cost"`
	TotalCashInvested    float64 `json:"total_cash_invested"`
}

type Financing struct {
	LoanType          string  `json:"loan_type"`
	DownPaymentPct    float64 `json:"down_payment_pct"`
	DownPayment       float64 `json:"down_payment"`
	LoanAmount        float64 `json:"loan_amount"`
	InterestRate      float64 `json:"interest_rate"`
	TermYears         int     `json:"term_years"`
	MonthlyPayment    float64 `json:"monthly_payment"`
	AnnualDebtService float64 `json:"annual_debt_service"`
	LoanToValue       float64 `json:"loan_to_value"`
}

type Income struct {
	MonthlyRent          float64 `json:"monthly_rent"`
	AnnualGrossRent      float64 `json:"annual_gross_rent"`
	VacancyRate          float64 `json:"vacancy_rate"`
	VacancyAllowance     float64 `json:"vacancy_allowance"`
	OtherIncome          float64 `json:"other_income"`
	EffectiveGrossIncome float64 `json:"effective_gross_income"`
}

type Expenses struct {
	PropertyTaxes          float64 `json:"property_taxes"`
	Insurance              float64 `json:"insurance"`
	HOA                    float64 `json:"hoa"`
	Utilities              float64 `json:"utilities"`
	Landscaping            float64 `json:"landscaping"`
	PestControl            float64 `json:"pest_control"`
	Other                  float64 `json:"other"`
	Management             float64 `json:"management"`
	Maintenance            float64 `json:"maintenance"`
	CapExReserve           float64 `json:"capex_reserve"`
	PlatformFees           float64 `json:"platform_fees"`
	Cleaning               float64 `json:"cleaning"`
	TotalOperatingExpenses float64 `json:"total_operating_expenses"`
	ExpenseRatio           float64 `json:"expense_ratio"`
}

// Fixed sums the lines that do not scale with income. Management,
// maintenance, capex, platform fees and cleaning move with EGI or bookings.
func (e Expenses) Fixed() float64 {
	return e.PropertyTaxes + e.Insurance + e.HOA + e.Utilities +
		e.Landscaping + e.PestControl + e.Other
}

// Metrics are the Year-1 headline ratios. BreakevenOccupancy is the share
// of gross rent that covers fixed expenses plus debt service; the
// income-linked lines are left out since they shrink with occupancy.
type Metrics struct {
	NetOperatingIncome float64      `json:"net_operating_income"`
	AnnualDebtService  float64      `json:"annual_debt_service"`
	AnnualCashFlow     float64      `json:"annual_cash_flow"`
	MonthlyCashFlow    float64      `json:"monthly_cash_flow"`
	CapRate            float64      `json:"cap_rate"`
	CashOnCash         domain.Ratio `json:"cash_on_cash"`
	DSCR               domain.Ratio `json:"dscr"`
	GRM                float64      `json:"grm"`
	OnePercentRule     float64      `json:"one_percent_rule"`
	BreakevenOccupancy float64      `json:"breakeven_occupancy"`
	PricePerSqft       float64      `json:"price_per_sqft"`
	RentPerSqft        float64      `json:"rent_per_sqft"`
}

type Depreciation struct {
	DepreciableBasis   float64 `json:"depreciable_basis"`
	LandValue          float64 `json:"land_value"`
	RecoveryYears      float64 `json:"recovery_years"`
	AnnualDepreciation float64 `json:"annual_depreciation"`
}

// YearlyProjection is one projected operating year.
type YearlyProjection struct {
	Year                 int     `json:"year"`
	GrossRent            float64 `json:"gross_rent"`
	Vacancy              float64 `json:"vacancy"`
	OtherIncome          float64 `json:"other_income"`
	EffectiveGrossIncome float64 `json:"effective_gross_income"`
	OperatingExpenses    float64 `json:"operating_expenses"`
	NOI                  float64 `json:"noi"`
	DebtService          float64 `json:"debt_service"`
	Interest             float64 `json:"interest"`
	Principal            float64 `json:"principal"`
	PreTaxCashFlow       float64 `json:"pre_tax_cash_flow"`
	Depreciation         float64 `json:"depreciation"`
	TaxableIncome        float64 `json:"taxable_income"`
	IncomeTax            float64 `json:"income_tax"`
	AfterTaxCashFlow     float64 `json:"after_tax_cash_flow"`
	CumulativeCashFlow   float64 `json:"cumulative_cash_flow"`
	PropertyValue        float64 `json:"property_value"`
	LoanBalance          float64 `json:"loan_balance"`
	Equity               float64 `json:"equity"`
	TotalWealth          float64 `json:"total_wealth"`
}

// Projections carries the yearly rows plus parallel arrays for charting.
// Short-hold strategies leave it empty.
type Projections struct {
	Years              []YearlyProjection `json:"years"`
	AnnualCashFlow     []float64          `json:"annual_cash_flow"`
	NOI                []float64          `json:"noi"`
	CumulativeCashFlow []float64          `json:"cumulative_cash_flow"`
	PropertyValues     []float64          `json:"property_values"`
	EquityPositions    []float64          `json:"equity_positions"`
	LoanBalances       []float64          `json:"loan_balances"`
}

type Exit struct {
	HoldYears               int     `json:"hold_years"`
	SalePrice               float64 `json:"sale_price"`
	BrokerCommission        float64 `json:"broker_commission"`
	ClosingCosts            float64 `json:"closing_costs"`
	LoanPayoff              float64 `json:"loan_payoff"`
	NetSaleProceeds         float64 `json:"net_sale_proceeds"`
	AccumulatedDepreciation float64 `json:"accumulated_depreciation"`
	AdjustedBasis           float64 `json:"adjusted_basis"`
	TotalGain               float64 `json:"total_gain"`
	RecaptureTax            float64 `json:"recapture_tax"`
	CapitalGainsTax         float64 `json:"capital_gains_tax"`
	TotalTax                float64 `json:"total_tax"`
	AfterTaxProceeds        float64 `json:"after_tax_proceeds"`
}

// Clone returns a copy whose slices and maps are not shared with p.
func (p *Proforma) Clone() *Proforma {
	if p == nil {
		return nil
	}
	c := *p
	c.Projections = Projections{
		Years:              append([]YearlyProjection(nil), p.Projections.Years...),
		AnnualCashFlow:     append([]float64(nil), p.Projections.AnnualCashFlow...),
		NOI:                append([]float64(nil), p.Projections.NOI...),
		CumulativeCashFlow: append([]float64(nil), p.Projections.CumulativeCashFlow...),
		PropertyValues:     append([]float64(nil), p.Projections.PropertyValues...),
		EquityPositions:    append([]float64(nil), p.Projections.EquityPositions...),
		LoanBalances:       append([]float64(nil), p.Projections.LoanBalances...),
	}
	c.Returns.CashFlowSeries = append([]float64(nil), p.Returns.CashFlowSeries...)
	if p.Sources != nil {
		c.Sources = make(map[string]string, len(p.Sources))
		for k, v := range p.Sources {
			c.Sources[k] = v
		}
	}
	return &c
}
