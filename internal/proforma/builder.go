package proforma

import (
	"fmt"
	"math"

	"github.com/rovshanmuradov/dealiq/internal/amortization"
	"github.com/rovshanmuradov/dealiq/internal/domain"
	"github.com/rovshanmuradov/dealiq/internal/returns"
)

// LoanTerms override the financing derived from the assumptions.
type LoanTerms struct {
	Amount    float64
	Rate      float64
	TermYears int
}

type settings struct {
	strategy       domain.StrategyID
	grossRevenue   *float64
	vacancyRate    float64
	loan           *LoanTerms
	valueBase      *float64
	cashInvested   *float64
	initialOutlay  *float64
	yearOneInflow  float64
	platformFeePct float64
	cleaning       float64
	shortHold      bool
	irr            returns.IRROptions
}

// Option adjusts how Build reads the assumptions for a strategy lens.
type Option func(*settings)

// WithStrategy tags the proforma with the strategy that produced it.
func WithStrategy(id domain.StrategyID) Option {
	return func(s *settings) { s.strategy = id }
}

// WithGrossRevenue replaces monthly_rent×12 and vacancy_rate with an
// annual revenue figure and its own vacancy rate.
func WithGrossRevenue(annual, vacancyRate float64) Option {
	return func(s *settings) {
		s.grossRevenue = &annual
		s.vacancyRate = vacancyRate
	}
}

// WithLoan finances the property with explicit terms instead of the
// purchase down payment split.
func WithLoan(amount, rate float64, termYears int) Option {
	return func(s *settings) {
		s.loan = &LoanTerms{Amount: amount, Rate: rate, TermYears: termYears}
	}
}

// WithValueBase sets the value that appreciation compounds from.
func WithValueBase(v float64) Option {
	return func(s *settings) { s.valueBase = &v }
}

// WithCashInvested sets the cash-on-cash denominator.
func WithCashInvested(v float64) Option {
	return func(s *settings) { s.cashInvested = &v }
}

// WithInitialOutlay sets the t=0 outflow of the return series. It defaults
// to the cash invested.
func WithInitialOutlay(v float64) Option {
	return func(s *settings) { s.initialOutlay = &v }
}

// WithYearOneInflow adds a one-off inflow (e.g. refinance cash-out) to the
// first year of the return series.
func WithYearOneInflow(v float64) Option {
	return func(s *settings) { s.yearOneInflow = v }
}

// WithPlatformFees charges pct of EGI as a booking platform fee.
func WithPlatformFees(pct float64) Option {
	return func(s *settings) { s.platformFeePct = pct }
}

// WithCleaning adds an annual cleaning cost that grows with expenses.
func WithCleaning(annual float64) Option {
	return func(s *settings) { s.cleaning = annual }
}

// WithShortHold reads the purchase loan as interest-only bridge money and
// skips the buy-and-hold projection, exit and returns. Strategies that
// resell or assign within months fill Returns themselves.
func WithShortHold() Option {
	return func(s *settings) { s.shortHold = true }
}

// WithIRROptions overrides the IRR search bounds.
func WithIRROptions(o returns.IRROptions) Option {
	return func(s *settings) { s.irr = o }
}

// Build assembles the full proforma at the given purchase price. Inputs are
// read-only; identical inputs always yield identical output.
func Build(prop domain.Property, asm domain.Assumptions, price float64, opts ...Option) (*Proforma, error) {
	if price <= 0 || math.IsNaN(price) || math.IsInf(price, 0) {
		return nil, &domain.InvalidInputError{Field: "purchase_price", Reason: fmt.Sprintf("must be a positive amount, got %v", price)}
	}

	s := settings{strategy: domain.StrategyLTR, vacancyRate: asm.VacancyRate, irr: returns.DefaultIRROptions()}
	for _, opt := range opts {
		opt(&s)
	}

	// acquisition
	closing := price * asm.ClosingCostsPct
	downPayment := price * asm.DownPaymentPct
	cashInvested := downPayment + closing + asm.RehabCost
	if s.cashInvested != nil {
		cashInvested = *s.cashInvested
	}
	valueBase := price
	if s.valueBase != nil {
		valueBase = *s.valueBase
	}

	// financing
	terms := LoanTerms{Amount: price - downPayment, Rate: asm.InterestRate, TermYears: asm.TermYears}
	if s.loan != nil {
		terms = *s.loan
	}
	loan, err := amortization.NewLoan(terms.Amount, terms.Rate, terms.TermYears)
	if err != nil {
		return nil, fmt.Errorf("financing: %w", err)
	}
	payment := loan.Payment()
	if s.shortHold {
		payment = amortization.InterestOnly(terms.Amount, terms.Rate, 1)
		terms.TermYears = 0
	}
	debtService := 12 * payment

	op := newOperating(asm, price, &s)
	income := op.income(1)
	expenses := op.expenses(1, income.EffectiveGrossIncome)
	noi := income.EffectiveGrossIncome - expenses.TotalOperatingExpenses
	cashFlow := noi - debtService

	p := &Proforma{
		Strategy: s.strategy,
		Property: prop,
		Acquisition: Acquisition{
			PurchasePrice:        price,
			ListPrice:            prop.ListPrice,
			DiscountFromList:     discountFromList(price, prop.ListPrice),
			ClosingCosts:         closing,
			RehabCost:            asm.RehabCost,
			TotalAcquisitionCost: price + closing + asm.RehabCost,
			TotalCashInvested:    cashInvested,
		},
		Financing: Financing{
			LoanType:          asm.LoanType,
			DownPaymentPct:    asm.DownPaymentPct,
			DownPayment:       downPayment,
			LoanAmount:        terms.Amount,
			InterestRate:      terms.Rate,
			TermYears:         terms.TermYears,
			MonthlyPayment:    payment,
			AnnualDebtService: debtService,
			LoanToValue:       safeDiv(terms.Amount, valueBase),
		},
		Income:   income,
		Expenses: expenses,
		Metrics: Metrics{
			NetOperatingIncome: noi,
			AnnualDebtService:  debtService,
			AnnualCashFlow:     cashFlow,
			MonthlyCashFlow:    cashFlow / 12,
			CapRate:            safeDiv(noi, price),
			CashOnCash:         domain.SafeRatio(cashFlow, cashInvested),
			DSCR:               dscr(noi, debtService),
			GRM:                safeDiv(price, income.AnnualGrossRent),
			OnePercentRule:     safeDiv(income.MonthlyRent, price),
			BreakevenOccupancy: safeDiv(expenses.Fixed()+debtService, income.AnnualGrossRent),
			PricePerSqft:       safeDiv(price, prop.SquareFeet),
			RentPerSqft:        safeDiv(income.MonthlyRent, prop.SquareFeet),
		},
		Depreciation: newDepreciation(price, asm.LandValuePct),
		Sources:      cloneSources(prop.Sources),
	}

	if s.shortHold {
		return p, nil
	}

	horizon := max(asm.Horizon(), 1)
	p.Projections = project(projectionInput{
		op:           op,
		loan:         loan,
		depreciation: p.Depreciation,
		valueBase:    valueBase,
		appreciation: asm.Appreciation,
		taxRate:      asm.MarginalTaxRate,
		horizon:      horizon,
	})

	hold := min(max(asm.HoldYears, 1), horizon)
	atExit := p.Projections.Years[hold-1]
	p.Exit = dispose(asm, price, atExit.PropertyValue, atExit.LoanBalance,
		p.Depreciation.Accumulated(hold), hold)

	outlay := cashInvested
	if s.initialOutlay != nil {
		outlay = *s.initialOutlay
	}
	flows := make([]float64, hold)
	copy(flows, p.Projections.AnnualCashFlow[:hold])
	flows[0] += s.yearOneInflow

	p.Returns = returns.Compute(returns.Inputs{
		InitialOutlay:    outlay,
		CashFlows:        flows,
		TerminalProceeds: p.Exit.AfterTaxProceeds,
		EndingEquity:     atExit.Equity,
		IRR:              s.irr,
	})
	return p, nil
}

// operating produces the income and expense lines for any projection year
// so that Year 1 of the projection and the Year-1 statement share one path.
type operating struct {
	asm         domain.Assumptions
	taxes       float64
	insurance   float64
	monthlyRent float64
	gross       float64
	vacancyRate float64
	other       float64
	platformPct float64
	cleaning    float64
}

func newOperating(asm domain.Assumptions, price float64, s *settings) operating {
	op := operating{
		asm:         asm,
		taxes:       asm.PropertyTaxesAt(price),
		insurance:   asm.InsuranceAt(price),
		monthlyRent: asm.MonthlyRent,
		gross:       asm.MonthlyRent * 12,
		vacancyRate: s.vacancyRate,
		other:       asm.OtherIncome * 12,
		platformPct: s.platformFeePct,
		cleaning:    s.cleaning,
	}
	if s.grossRevenue != nil {
		op.gross = *s.grossRevenue
		op.monthlyRent = *s.grossRevenue / 12
	}
	return op
}

func growth(rate float64, year int) float64 {
	return math.Pow(1+rate, float64(year-1))
}

func (o operating) income(year int) Income {
	g := growth(o.asm.RentGrowth, year)
	gross := o.gross * g
	vacancy := gross * o.vacancyRate
	other := o.other * g
	return Income{
		MonthlyRent:          o.monthlyRent * g,
		AnnualGrossRent:      gross,
		VacancyRate:          o.vacancyRate,
		VacancyAllowance:     vacancy,
		OtherIncome:          other,
		EffectiveGrossIncome: gross - vacancy + other,
	}
}

func (o operating) expenses(year int, egi float64) Expenses {
	g := growth(o.asm.ExpenseGrowth, year)
	e := Expenses{
		PropertyTaxes: o.taxes * g,
		Insurance:     o.insurance * g,
		HOA:           o.asm.HOA * g,
		Utilities:     o.asm.Utilities * g,
		Landscaping:   o.asm.Landscaping * g,
		PestControl:   o.asm.PestControl * g,
		Other:         o.asm.OtherExpenses * g,
		Management:    egi * o.asm.ManagementPct,
		Maintenance:   egi * o.asm.MaintenancePct,
		CapExReserve:  egi * o.asm.CapExPct,
		PlatformFees:  egi * o.platformPct,
		Cleaning:      o.cleaning * g,
	}
	e.TotalOperatingExpenses = e.Fixed() +
		e.Management + e.Maintenance + e.CapExReserve +
		e.PlatformFees + e.Cleaning
	e.ExpenseRatio = safeDiv(e.TotalOperatingExpenses, egi)
	return e
}

// dscr is NOI over debt service. Without debt there is no coverage
// constraint and the ratio is the +Inf sentinel whatever the NOI.
func dscr(noi, debtService float64) domain.Ratio {
	if debtService == 0 {
		return domain.Inf()
	}
	return domain.Ratio(noi / debtService)
}

func discountFromList(price, list float64) float64 {
	if list <= 0 {
		return 0
	}
	return 1 - price/list
}

// safeDiv returns 0 for a zero denominator; used for ratios whose
// undefined case reads naturally as zero (GRM, per-sqft figures).
func safeDiv(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return num / den
}

func cloneSources(src map[string]string) map[string]string {
	out := make(map[string]string, len(src))
	for k, v := range src {
		out[k] = v
	}
	return out
}
