package amortization

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rovshanmuradov/dealiq/internal/domain"
)

func TestMonthlyPayment(t *testing.T) {
	tests := []struct {
		name      string
		principal float64
		rate      float64
		years     int
		want      float64
	}{
		{"30y at 7%", 240000, 0.07, 30, 1596.73},
		{"15y at 6%", 200000, 0.06, 15, 1687.71},
		{"zero rate", 120000, 0, 10, 1000},
		{"zero principal", 0, 0.07, 30, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := MonthlyPayment(tt.principal, tt.rate, tt.years)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 0.01)
		})
	}
}

func TestNewLoan_InvalidTerms(t *testing.T) {
	cases := []struct {
		name      string
		principal float64
		rate      float64
		years     int
	}{
		{"negative principal", -1, 0.05, 30},
		{"zero term", 100000, 0.05, 0},
		{"negative term", 100000, 0.05, -5},
		{"rate at 100%", 100000, 1, 30},
		{"negative rate", 100000, -0.01, 30},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewLoan(tc.principal, tc.rate, tc.years)
			require.Error(t, err)
			var termsErr *domain.InvalidLoanTermsError
			assert.True(t, errors.As(err, &termsErr), "expected InvalidLoanTermsError, got %T", err)
		})
	}
}

func TestPeriods_PrincipalConservation(t *testing.T) {
	for _, rate := range []float64{0, 0.035, 0.07, 0.125} {
		loan, err := NewLoan(240000, rate, 30)
		require.NoError(t, err)

		var principalSum float64
		var last Period
		count := 0
		for p := range loan.Periods() {
			principalSum += p.Principal
			last = p
			count++
		}

		assert.Equal(t, 360, count)
		assert.InDelta(t, 240000, principalSum, 1e-6, "rate %.3f", rate)
		assert.Equal(t, 0.0, last.Balance)
	}
}

func TestPeriods_BalanceMonotone(t *testing.T) {
	loan, err := NewLoan(300000, 0.065, 30)
	require.NoError(t, err)

	prev := loan.Principal()
	for p := range loan.Periods() {
		assert.LessOrEqual(t, p.Balance, prev)
		assert.InDelta(t, prev-p.Principal, p.Balance, 1e-6)
		assert.InDelta(t, p.Payment, p.Interest+p.Principal, 1e-9)
		prev = p.Balance
	}
}

func TestPeriods_Restartable(t *testing.T) {
	loan, err := NewLoan(150000, 0.05, 15)
	require.NoError(t, err)

	first := loan.Schedule()
	second := loan.Schedule()
	assert.Equal(t, first, second)

	// stopping early must not affect the next pass
	n := 0
	for range loan.Periods() {
		n++
		if n == 5 {
			break
		}
	}
	assert.Equal(t, first, loan.Schedule())
}

func TestBalanceAfter(t *testing.T) {
	loan, err := NewLoan(240000, 0.07, 30)
	require.NoError(t, err)

	schedule := loan.Schedule()
	assert.Equal(t, 240000.0, loan.BalanceAfter(0))
	assert.Equal(t, schedule[11].Balance, loan.BalanceAfter(12))
	assert.Equal(t, schedule[119].Balance, loan.BalanceAfter(120))
	assert.Equal(t, 0.0, loan.BalanceAfter(360))
	assert.Equal(t, 0.0, loan.BalanceAfter(500))
}

func TestYears(t *testing.T) {
	loan, err := NewLoan(100000, 0.06, 5)
	require.NoError(t, err)

	years := loan.Years(7)
	require.Len(t, years, 7)

	assert.InDelta(t, 12*loan.Payment(), years[0].Payment, 1e-6)
	assert.InDelta(t, years[0].Payment, years[0].Interest+years[0].Principal, 1e-6)
	assert.Equal(t, loan.BalanceAfter(12), years[0].EndingBalance)

	var principal float64
	for _, y := range years {
		principal += y.Principal
	}
	assert.InDelta(t, 100000, principal, 1e-6)

	// after payoff
	assert.Equal(t, 0.0, years[5].Payment)
	assert.Equal(t, 0.0, years[6].EndingBalance)
}

func TestInterestOnly(t *testing.T) {
	assert.InDelta(t, 6000, InterestOnly(200000, 0.06, 6), 1e-9)
	assert.Equal(t, 0.0, InterestOnly(0, 0.06, 6))
	assert.Equal(t, 0.0, InterestOnly(200000, 0.06, 0))
}
