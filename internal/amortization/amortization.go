// Package amortization generates fixed-rate mortgage schedules.
package amortization

import (
	"iter"
	"math"

	"github.com/shopspring/decimal"

	"github.com/rovshanmuradov/dealiq/internal/domain"
)

// Period is one monthly installment.
type Period struct {
	Number    int     `json:"number"`
	Payment   float64 `json:"payment"`
	Interest  float64 `json:"interest"`
	Principal float64 `json:"principal"`
	Balance   float64 `json:"balance"`
}

// YearSummary aggregates months 12(y-1)+1 .. 12y.
type YearSummary struct {
	Year            int     `json:"year"`
	StartingBalance float64 `json:"starting_balance"`
	Payment         float64 `json:"payment"`
	Interest        float64 `json:"interest"`
	Principal       float64 `json:"principal"`
	EndingBalance   float64 `json:"ending_balance"`
}

// Loan is an immutable fixed-rate, fully amortizing loan.
type Loan struct {
	principal  float64
	annualRate float64
	termYears  int
	payment    float64
}

// NewLoan validates terms and precomputes the monthly payment.
func NewLoan(principal, annualRate float64, termYears int) (*Loan, error) {
	if principal < 0 || math.IsNaN(principal) || math.IsInf(principal, 0) {
		return nil, &domain.InvalidLoanTermsError{Principal: principal, Rate: annualRate, TermYears: termYears, Reason: "principal must be non-negative"}
	}
	if termYears <= 0 {
		return nil, &domain.InvalidLoanTermsError{Principal: principal, Rate: annualRate, TermYears: termYears, Reason: "term must be positive"}
	}
	if annualRate < 0 || annualRate >= 1 || math.IsNaN(annualRate) {
		return nil, &domain.InvalidLoanTermsError{Principal: principal, Rate: annualRate, TermYears: termYears, Reason: "rate must be in [0, 1)"}
	}

	return &Loan{
		principal:  principal,
		annualRate: annualRate,
		termYears:  termYears,
		payment:    payment(principal, annualRate, termYears*12),
	}, nil
}

// MonthlyPayment is M = P·i·(1+i)^k / ((1+i)^k − 1), or P/k when i = 0.
func MonthlyPayment(principal, annualRate float64, termYears int) (float64, error) {
	loan, err := NewLoan(principal, annualRate, termYears)
	if err != nil {
		return 0, err
	}
	return loan.payment, nil
}

func payment(principal, annualRate float64, months int) float64 {
	if principal == 0 {
		return 0
	}
	i := annualRate / 12
	if i == 0 {
		return principal / float64(months)
	}
	growth := math.Pow(1+i, float64(months))
	return principal * i * growth / (growth - 1)
}

func (l *Loan) Principal() float64  { return l.principal }
func (l *Loan) AnnualRate() float64 { return l.annualRate }
func (l *Loan) TermYears() int      { return l.termYears }
func (l *Loan) Months() int         { return l.termYears * 12 }
func (l *Loan) Payment() float64    { return l.payment }

// AnnualDebtService is twelve monthly payments.
func (l *Loan) AnnualDebtService() float64 { return 12 * l.payment }

// Periods yields the schedule lazily. Each call starts a fresh pass.
// The last period absorbs floating-point drift so the balance ends at 0.
func (l *Loan) Periods() iter.Seq[Period] {
	return func(yield func(Period) bool) {
		i := l.annualRate / 12
		balance := l.principal
		months := l.Months()

		for n := 1; n <= months; n++ {
			interest := balance * i
			principal := l.payment - interest
			pay := l.payment
			if n == months || principal > balance {
				principal = balance
				pay = interest + principal
			}
			balance -= principal
			if balance < 0 {
				balance = 0
			}

			if !yield(Period{
				Number:    n,
				Payment:   pay,
				Interest:  interest,
				Principal: principal,
				Balance:   balance,
			}) {
				return
			}
		}
	}
}

// Schedule materializes the full schedule.
func (l *Loan) Schedule() []Period {
	out := make([]Period, 0, l.Months())
	for p := range l.Periods() {
		out = append(out, p)
	}
	return out
}

// BalanceAfter returns the balance after n payments.
func (l *Loan) BalanceAfter(n int) float64 {
	if n <= 0 {
		return l.principal
	}
	if n >= l.Months() {
		return 0
	}
	balance := l.principal
	for p := range l.Periods() {
		balance = p.Balance
		if p.Number == n {
			break
		}
	}
	return balance
}

// Years summarizes the first n loan years in one pass. Years past the
// term report zero payments and a zero balance. Monthly amounts are summed
// in decimal so twelve installments add up without float drift.
func (l *Loan) Years(n int) []YearSummary {
	out := make([]YearSummary, n)
	for y := range out {
		out[y].Year = y + 1
	}
	if n == 0 {
		return out
	}

	var payment, interest, principal decimal.Decimal
	flush := func(s *YearSummary) {
		s.Payment = payment.InexactFloat64()
		s.Interest = interest.InexactFloat64()
		s.Principal = principal.InexactFloat64()
		payment, interest, principal = decimal.Zero, decimal.Zero, decimal.Zero
	}

	balance := l.principal
	for p := range l.Periods() {
		y := (p.Number - 1) / 12
		if y >= n {
			break
		}
		s := &out[y]
		if (p.Number-1)%12 == 0 {
			s.StartingBalance = balance
		}
		payment = payment.Add(decimal.NewFromFloat(p.Payment))
		interest = interest.Add(decimal.NewFromFloat(p.Interest))
		principal = principal.Add(decimal.NewFromFloat(p.Principal))
		s.EndingBalance = p.Balance
		balance = p.Balance
		if p.Number%12 == 0 || p.Number == l.Months() {
			flush(s)
		}
	}

	// past payoff the balance stays at zero
	for y := l.termYears; y < n; y++ {
		out[y].StartingBalance = 0
		out[y].EndingBalance = 0
	}
	return out
}

// InterestOnly is the interest carried on an interest-only balance for the
// given number of months, as on short-term rehab loans.
func InterestOnly(principal, annualRate float64, months int) float64 {
	if principal <= 0 || months <= 0 {
		return 0
	}
	return principal * annualRate / 12 * float64(months)
}
