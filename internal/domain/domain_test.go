package domain

import (
	"encoding/json"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAssumptions_NormalizesPercentsOnce(t *testing.T) {
	a, err := NewAssumptions(AssumptionsInput{
		DownPaymentPct: 20,
		InterestRate:   0.07,
		VacancyRate:    5,
		MaintenancePct: 0.05,
		MonthlyRent:    2200,
	})
	require.NoError(t, err)

	assert.InDelta(t, 0.20, a.DownPaymentPct, 1e-12)
	assert.InDelta(t, 0.07, a.InterestRate, 1e-12)
	assert.InDelta(t, 0.05, a.VacancyRate, 1e-12)
	assert.InDelta(t, 0.05, a.MaintenancePct, 1e-12)
	// money is never scaled
	assert.Equal(t, 2200.0, a.MonthlyRent)

	// feeding normalized values back in is a no-op
	again, err := NewAssumptions(a.Input())
	require.NoError(t, err)
	assert.Equal(t, a, again)
}

func TestNewAssumptions_Defaults(t *testing.T) {
	a, err := NewAssumptions(AssumptionsInput{InterestRate: 6.5})
	require.NoError(t, err)

	d := StandardDefaults()
	assert.Equal(t, d.TermYears, a.TermYears)
	assert.Equal(t, LoanConventional, a.LoanType)
	assert.Equal(t, d.HoldYears, a.HoldYears)
	assert.Equal(t, d.LandValuePct, a.LandValuePct)
	assert.Equal(t, d.RefinanceLTV, a.RefinanceLTV)
	assert.Equal(t, a.InterestRate, a.RefinanceRate)

	cash, err := NewAssumptions(AssumptionsInput{LoanType: LoanCash, DownPaymentPct: 20})
	require.NoError(t, err)
	assert.Equal(t, 1.0, cash.DownPaymentPct)

	custom := d
	custom.HoldYears = 7
	custom.MarginalTaxRate = 0.24
	b, err := NewAssumptionsWithDefaults(AssumptionsInput{}, custom)
	require.NoError(t, err)
	assert.Equal(t, 7, b.HoldYears)
	assert.Equal(t, 0.24, b.MarginalTaxRate)
}

func TestNewAssumptions_ExplicitZerosAreKept(t *testing.T) {
	zero := 0.0
	a, err := NewAssumptions(AssumptionsInput{
		InterestRate:        7,
		HoldingMonths:       Ptr(0),
		SellingCostsPct:     &zero,
		RefinanceLTV:        &zero,
		RefinanceRate:       &zero,
		LandValuePct:        &zero,
		CapitalGainsRate:    &zero,
		RecaptureRate:       &zero,
		MarginalTaxRate:     &zero,
		BrokerCommissionPct: &zero,
		SaleClosingPct:      &zero,
	})
	require.NoError(t, err)

	assert.Equal(t, 0, a.HoldingMonths)
	assert.Equal(t, 0.0, a.SellingCostsPct)
	assert.Equal(t, 0.0, a.RefinanceLTV)
	assert.Equal(t, 0.0, a.RefinanceRate)
	assert.Equal(t, 0.0, a.LandValuePct)
	assert.Equal(t, 0.0, a.CapitalGainsRate)
	assert.Equal(t, 0.0, a.RecaptureRate)
	assert.Equal(t, 0.0, a.MarginalTaxRate)
	assert.Equal(t, 0.0, a.BrokerCommissionPct)
	assert.Equal(t, 0.0, a.SaleClosingPct)

	// overrides are normalized like every other percentage
	b, err := NewAssumptions(AssumptionsInput{BrokerCommissionPct: Ptr(5.0), RefinanceRate: Ptr(6.5)})
	require.NoError(t, err)
	assert.InDelta(t, 0.05, b.BrokerCommissionPct, 1e-12)
	assert.InDelta(t, 0.065, b.RefinanceRate, 1e-12)
}

func TestNewAssumptions_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		in    AssumptionsInput
		field string
	}{
		{"vacancy over 100%", AssumptionsInput{VacancyRate: 150}, "VacancyRate"},
		{"negative rent", AssumptionsInput{MonthlyRent: -1}, "MonthlyRent"},
		{"unknown loan type", AssumptionsInput{LoanType: "balloon"}, "LoanType"},
		{"hold too long", AssumptionsInput{HoldYears: 41}, "HoldYears"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewAssumptions(tt.in)
			var invalid *InvalidInputError
			require.ErrorAs(t, err, &invalid)
			assert.Contains(t, invalid.Field, tt.field)
			assert.NotEmpty(t, invalid.Reason)
		})
	}
}

func TestProperty(t *testing.T) {
	p := Property{Address: "12 Oak St", ListPrice: 300000}
	require.NoError(t, p.Validate())
	assert.False(t, p.HasARV())
	assert.Equal(t, 300000.0, p.AfterRepairValue())

	arv := 360000.0
	p.ARV = &arv
	assert.True(t, p.HasARV())
	assert.Equal(t, arv, p.AfterRepairValue())

	p.ListPrice = 0
	var invalid *InvalidInputError
	require.ErrorAs(t, p.Validate(), &invalid)
	assert.Contains(t, invalid.Error(), "ListPrice")
}

func TestParseStrategy(t *testing.T) {
	cases := map[string]StrategyID{
		"ltr":         StrategyLTR,
		"Long-Term":   StrategyLTR,
		"airbnb":      StrategySTR,
		" BRRRR ":     StrategyBRRRR,
		"fix & flip":  StrategyFlip,
		"house-hack":  StrategyHouseHack,
		"wholesaling": StrategyWholesale,
	}
	for in, want := range cases {
		got, err := ParseStrategy(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseStrategy("timeshare")
	assert.True(t, errors.Is(err, ErrUnknownStrategy))

	assert.Len(t, AllStrategies(), 6)
	assert.Equal(t, "Fix & Flip", StrategyFlip.Label())
	assert.True(t, StrategyBRRRR.IsRental())
	assert.False(t, StrategyWholesale.IsRental())
}

func TestRatio(t *testing.T) {
	assert.Equal(t, Ratio(0.5), SafeRatio(1, 2))
	assert.True(t, math.IsInf(SafeRatio(1, 0).Float(), 1))
	assert.True(t, math.IsInf(SafeRatio(-1, 0).Float(), -1))
	assert.Equal(t, Ratio(0), SafeRatio(0, 0))
	assert.False(t, Inf().IsFinite())

	raw, err := json.Marshal(struct {
		DSCR Ratio `json:"dscr"`
		CoC  Ratio `json:"coc"`
	}{Inf(), 0.065})
	require.NoError(t, err)
	assert.JSONEq(t, `{"dscr":null,"coc":0.065}`, string(raw))

	var back struct {
		DSCR Ratio `json:"dscr"`
	}
	require.NoError(t, json.Unmarshal(raw, &back))
	assert.False(t, back.DSCR.IsFinite())
}

func TestRatio_NullDecodesAsPositiveInf(t *testing.T) {
	raw, err := json.Marshal(SafeRatio(-1, 0))
	require.NoError(t, err)
	assert.Equal(t, "null", string(raw))

	var back Ratio
	require.NoError(t, json.Unmarshal(raw, &back))
	assert.True(t, math.IsInf(back.Float(), 1), "the sign of -Inf does not survive the round trip")
}

func TestAssumptionHelpers(t *testing.T) {
	a := Assumptions{
		PropertyTaxes: 3600, Insurance: 1200, HOA: 600, Utilities: 1200, Landscaping: 300,
		ManagementPct: 0.08, MaintenancePct: 0.05, CapExPct: 0.05,
		HoldYears: 12, ProjectionYears: 10,
	}
	assert.Equal(t, 6900.0, a.FixedAnnualExpenses(250000))
	assert.Equal(t, 6600.0, a.CarryingCostsAnnual(250000))

	a.PropertyTaxRate = 0.01
	a.InsuranceRate = 0.002
	assert.InDelta(t, 3600+2500, a.PropertyTaxesAt(250000), 1e-9)
	assert.InDelta(t, 1200+500, a.InsuranceAt(250000), 1e-9)
	assert.InDelta(t, 6900+3000, a.FixedAnnualExpenses(250000), 1e-9)
	assert.InDelta(t, 6600+3600, a.CarryingCostsAnnual(300000), 1e-9)
	assert.InDelta(t, 0.18, a.VariableExpensePct(), 1e-12)
	assert.Equal(t, 12, a.Horizon())
}
