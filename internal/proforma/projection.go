package proforma

import (
	"math"

	"github.com/shopspring/decimal"

	"github.com/rovshanmuradov/dealiq/internal/amortization"
)

type projectionInput struct {
	op           operating
	loan         *amortization.Loan
	depreciation Depreciation
	valueBase    float64
	appreciation float64
	taxRate      float64
	horizon      int
}

// project rolls the operating statement forward one year at a time. Debt
// figures come from the loan's yearly summaries, so loan_balance falls by
// exactly that year's principal. Cumulative cash flow is carried in decimal.
func project(in projectionInput) Projections {
	n := in.horizon
	out := Projections{
		Years:              make([]YearlyProjection, n),
		AnnualCashFlow:     make([]float64, n),
		NOI:                make([]float64, n),
		CumulativeCashFlow: make([]float64, n),
		PropertyValues:     make([]float64, n),
		EquityPositions:    make([]float64, n),
		LoanBalances:       make([]float64, n),
	}

	debt := in.loan.Years(n)
	running := decimal.Zero
	for i := 0; i < n; i++ {
		year := i + 1
		inc := in.op.income(year)
		exp := in.op.expenses(year, inc.EffectiveGrossIncome)
		noi := inc.EffectiveGrossIncome - exp.TotalOperatingExpenses

		d := debt[i]
		preTax := noi - d.Payment
		dep := in.depreciation.ForYear(year)
		taxable := noi - d.Interest - dep
		tax := taxable * in.taxRate
		running = running.Add(decimal.NewFromFloat(preTax))
		cumulative := running.InexactFloat64()

		value := in.valueBase * math.Pow(1+in.appreciation, float64(year))
		equity := value - d.EndingBalance

		out.Years[i] = YearlyProjection{
			Year:                 year,
			GrossRent:            inc.AnnualGrossRent,
			Vacancy:              inc.VacancyAllowance,
			OtherIncome:          inc.OtherIncome,
			EffectiveGrossIncome: inc.EffectiveGrossIncome,
			OperatingExpenses:    exp.TotalOperatingExpenses,
			NOI:                  noi,
			DebtService:          d.Payment,
			Interest:             d.Interest,
			Principal:            d.Principal,
			PreTaxCashFlow:       preTax,
			Depreciation:         dep,
			TaxableIncome:        taxable,
			IncomeTax:            tax,
			AfterTaxCashFlow:     preTax - tax,
			CumulativeCashFlow:   cumulative,
			PropertyValue:        value,
			LoanBalance:          d.EndingBalance,
			Equity:               equity,
			TotalWealth:          equity + cumulative,
		}
		out.AnnualCashFlow[i] = preTax
		out.NOI[i] = noi
		out.CumulativeCashFlow[i] = cumulative
		out.PropertyValues[i] = value
		out.EquityPositions[i] = equity
		out.LoanBalances[i] = d.EndingBalance
	}
	return out
}
