package strategy

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rovshanmuradov/dealiq/internal/domain"
)

func testProperty(arv float64) domain.Property {
	p := domain.Property{
		Address:    "48 Birch Ave",
		City:       "Dayton",
		State:      "OH",
		Bedrooms:   3,
		Bathrooms:  2,
		SquareFeet: 1400,
		ListPrice:  300000,
	}
	if arv > 0 {
		p.ARV = &arv
	}
	return p
}

func testAssumptions(t *testing.T, edit func(in *domain.AssumptionsInput)) domain.Assumptions {
	t.Helper()
	in := domain.AssumptionsInput{
		DownPaymentPct:         0.20,
		InterestRate:           0.07,
		TermYears:              30,
		ClosingCostsPct:        0.03,
		MonthlyRent:            2200,
		VacancyRate:            0.05,
		PropertyTaxes:          3600,
		Insurance:              1200,
		MaintenancePct:         0.05,
		RentGrowth:             0.03,
		ExpenseGrowth:          0.02,
		Appreciation:           0.03,
		RehabCost:              30000,
		HoldingMonths:          domain.Ptr(6),
		SellingCostsPct:        domain.Ptr(0.08),
		AverageDailyRate:       200,
		OccupancyRate:          0.65,
		STRPlatformFeePct:      0.03,
		STRCleaningPerTurnover: 100,
		STRAvgStayNights:       3,
		RoomRent:               800,
		MarketingCosts:         2000,
		EarnestMoney:           1000,
	}
	if edit != nil {
		edit(&in)
	}
	asm, err := domain.NewAssumptions(in)
	require.NoError(t, err)
	return asm
}

func TestNew_UnknownStrategy(t *testing.T) {
	_, err := New("condo_conversion", DefaultEnv())
	assert.True(t, errors.Is(err, domain.ErrUnknownStrategy))
}

func TestAll_VariantPerStrategy(t *testing.T) {
	prop := testProperty(375000)
	asm := testAssumptions(t, nil)

	calcs := All(DefaultEnv())
	require.Len(t, calcs, 6)

	for i, c := range calcs {
		id := domain.AllStrategies()[i]
		assert.Equal(t, id, c.ID())

		res, err := c.Analyze(prop, asm, 280000)
		require.NoError(t, err, id)
		assert.Equal(t, id, res.Strategy)
		assert.Equal(t, id, res.Proforma.Strategy)
		assert.Equal(t, id, res.Metrics.StrategyID())
		assert.Equal(t, 280000.0, res.Price)
	}
}

func TestAnalyze_InvalidPrice(t *testing.T) {
	_, err := Analyze(domain.StrategyFlip, testProperty(375000), testAssumptions(t, nil), 0, DefaultEnv())
	var inputErr *domain.InvalidInputError
	assert.True(t, errors.As(err, &inputErr))
}

func TestLTR(t *testing.T) {
	res, err := Analyze(domain.StrategyLTR, testProperty(0), testAssumptions(t, nil), 300000, DefaultEnv())
	require.NoError(t, err)

	m, ok := res.Metrics.(*LTRMetrics)
	require.True(t, ok)
	assert.Equal(t, res.Proforma.Metrics.AnnualCashFlow, m.AnnualCashFlow)
	assert.Equal(t, res.Proforma.Metrics.CapRate, m.CapRate)
	assert.Equal(t, res.Proforma.Returns.IRR, m.IRR)

	cf, ok := CashFlow(m)
	assert.True(t, ok)
	assert.Equal(t, m.AnnualCashFlow, cf)
}

func TestSTR(t *testing.T) {
	asm := testAssumptions(t, nil)
	res, err := Analyze(domain.StrategySTR, testProperty(0), asm, 300000, DefaultEnv())
	require.NoError(t, err)

	m := res.Metrics.(*STRMetrics)
	assert.InDelta(t, 237.25, m.NightsBooked, 1e-9)
	assert.InDelta(t, 47450, m.AnnualRevenue, 1e-9)
	assert.InDelta(t, 47450.0/365, m.RevPAR, 1e-9)
	assert.InDelta(t, 237.25/3*100, m.CleaningCosts, 1e-9)
	assert.InDelta(t, 47450*0.03, m.PlatformFees, 1e-9)
	assert.Equal(t, 0.0, res.Proforma.Income.VacancyAllowance)

	// running at the breakeven occupancy zeroes the cash flow
	require.True(t, m.BreakevenOccupancy.IsFinite())
	be := testAssumptions(t, func(in *domain.AssumptionsInput) {
		in.OccupancyRate = m.BreakevenOccupancy.Float()
	})
	atBE, err := Analyze(domain.StrategySTR, testProperty(0), be, 300000, DefaultEnv())
	require.NoError(t, err)
	assert.InDelta(t, 0, atBE.Metrics.(*STRMetrics).AnnualCashFlow, 1e-6)
}

func TestBRRRR(t *testing.T) {
	asm := testAssumptions(t, nil)
	res, err := Analyze(domain.StrategyBRRRR, testProperty(375000), asm, 250000, DefaultEnv())
	require.NoError(t, err)

	m := res.Metrics.(*BRRRRMetrics)
	assert.InDelta(t, 200000, m.PurchaseLoan, 1e-9)
	assert.InDelta(t, 2400+7000, m.HoldingCosts, 1e-9)
	assert.InDelta(t, 96900, m.TotalCashInvested, 1e-9)
	assert.InDelta(t, 281250, m.RefinanceLoan, 1e-9)
	assert.InDelta(t, 81250, m.CashOut, 1e-9)
	assert.InDelta(t, 81250.0/96900, m.CashRecoveryPct, 1e-12)
	assert.False(t, m.InfiniteReturn)
	assert.InDelta(t, 15650, m.CashLeftInDeal, 1e-9)
	assert.InDelta(t, 95000, m.EquityCaptured, 1e-9)

	p := res.Proforma
	assert.Equal(t, 281250.0, p.Financing.LoanAmount)
	assert.InDelta(t, 375000*1.03, p.Projections.PropertyValues[0], 1e-6)
	assert.Equal(t, 96900.0, p.Returns.InitialInvestment)
	assert.InDelta(t, p.Projections.AnnualCashFlow[0]+81250, p.Returns.CashFlowSeries[1], 1e-9)
	assert.InDelta(t, p.Metrics.AnnualCashFlow/15650, m.CashOnCash.Float(), 1e-12)

	ltr, err := Analyze(domain.StrategyLTR, testProperty(375000), asm, 250000, DefaultEnv())
	require.NoError(t, err)
	assert.Equal(t, ltr.Proforma.Metrics.AnnualCashFlow, m.AcquisitionCashFlow)
	cf, ok := CashFlow(m)
	assert.True(t, ok)
	assert.Equal(t, m.AcquisitionCashFlow, cf)
}

func TestBRRRR_InfiniteReturn(t *testing.T) {
	res, err := Analyze(domain.StrategyBRRRR, testProperty(500000), testAssumptions(t, nil), 250000, DefaultEnv())
	require.NoError(t, err)

	m := res.Metrics.(*BRRRRMetrics)
	assert.True(t, m.InfiniteReturn)
	assert.Equal(t, 1.0, m.CashRecoveryPct)
	assert.Equal(t, 0.0, m.CashLeftInDeal)
	assert.False(t, m.CashOnCash.IsFinite())
}

func TestFlip(t *testing.T) {
	res, err := Analyze(domain.StrategyFlip, testProperty(375000), testAssumptions(t, nil), 200000, DefaultEnv())
	require.NoError(t, err)

	m := res.Metrics.(*FlipMetrics)
	assert.InDelta(t, 145000, m.FlipMargin, 1e-9)
	assert.InDelta(t, 232500, m.MaxAllowableOffer, 1e-9)
	assert.True(t, m.MeetsSeventyPctRule)
	assert.InDelta(t, 6000, m.ClosingCosts, 1e-9)
	assert.InDelta(t, 2400+5600, m.HoldingCosts, 1e-9)
	assert.InDelta(t, 30000, m.SellingCosts, 1e-9)
	assert.InDelta(t, 101000, m.NetProfit, 1e-9)
	assert.InDelta(t, 84000, m.TotalCashInvested, 1e-9)
	assert.InDelta(t, 101000.0/84000, m.ROI.Float(), 1e-12)
	assert.InDelta(t, math.Pow(1+101000.0/84000, 2)-1, m.AnnualizedROI.Float(), 1e-9)
	assert.InDelta(t, 101000, m.AfterTaxProfit, 1e-9, "no marginal rate configured")

	require.NotNil(t, m.IRR)
	monthly := math.Pow(185000.0/84000, 1.0/6) - 1
	assert.InDelta(t, math.Pow(1+monthly, 12)-1, *m.IRR, 1e-6)
	assert.Equal(t, res.Proforma.Returns.IRR, m.IRR)
	assert.InDelta(t, 101000, res.Proforma.Returns.TotalProfit, 1e-6)
	assert.InDelta(t, 160000*0.07, res.Proforma.Metrics.AnnualDebtService, 1e-6, "purchase loan is serviced interest-only")
	assert.Empty(t, res.Proforma.Projections.Years)
	assert.Zero(t, res.Proforma.Exit.SalePrice)

	_, ok := CashFlow(m)
	assert.False(t, ok)
	assert.Equal(t, m.NetProfit, NetProfit(res))
	assert.Equal(t, m.ROI, CashOnCash(res))

	over, err := Analyze(domain.StrategyFlip, testProperty(375000), testAssumptions(t, nil), 240000, DefaultEnv())
	require.NoError(t, err)
	assert.False(t, over.Metrics.(*FlipMetrics).MeetsSeventyPctRule)
}

func TestFlip_ReturnsFollowHoldingPeriodNotRent(t *testing.T) {
	irr := func(edit func(in *domain.AssumptionsInput)) float64 {
		t.Helper()
		res, err := Analyze(domain.StrategyFlip, testProperty(375000), testAssumptions(t, edit), 200000, DefaultEnv())
		require.NoError(t, err)
		m := res.Metrics.(*FlipMetrics)
		require.NotNil(t, m.IRR)
		return *m.IRR
	}

	three := irr(func(in *domain.AssumptionsInput) { in.HoldingMonths = domain.Ptr(3) })
	twelve := irr(func(in *domain.AssumptionsInput) { in.HoldingMonths = domain.Ptr(12) })
	assert.Greater(t, three, twelve)

	base := irr(nil)
	richer := irr(func(in *domain.AssumptionsInput) { in.MonthlyRent = 4000 })
	assert.Equal(t, base, richer, "a resale earns nothing from rent")
}

func TestHouseHack(t *testing.T) {
	res, err := Analyze(domain.StrategyHouseHack, testProperty(0), testAssumptions(t, nil), 300000, DefaultEnv())
	require.NoError(t, err)

	m := res.Metrics.(*HouseHackMetrics)
	assert.Equal(t, 2, m.RentableUnits)
	assert.InDelta(t, 1600, m.RentalIncome, 1e-9)
	assert.InDelta(t, 1596.73+400, m.MortgagePayment, 0.01)
	assert.InDelta(t, 396.73, m.NetHousingCost, 0.01)
	assert.InDelta(t, 1-396.73/2200, m.HousingCostReduction, 1e-5)
	assert.Equal(t, 1600.0*12, res.Proforma.Income.AnnualGrossRent)

	fallback, err := Analyze(domain.StrategyHouseHack, testProperty(0),
		testAssumptions(t, func(in *domain.AssumptionsInput) { in.RoomRent = 0 }), 300000, DefaultEnv())
	require.NoError(t, err)
	assert.InDelta(t, 2200.0/3, fallback.Metrics.(*HouseHackMetrics).RoomRent, 1e-9)
}

func TestHouseHack_NeedsARoomToRent(t *testing.T) {
	for _, bedrooms := range []int{0, 1} {
		prop := testProperty(0)
		prop.Bedrooms = bedrooms
		_, err := Analyze(domain.StrategyHouseHack, prop, testAssumptions(t, nil), 300000, DefaultEnv())

		var inputErr *domain.InvalidInputError
		require.True(t, errors.As(err, &inputErr), "%d bedrooms", bedrooms)
		assert.Equal(t, "bedrooms", inputErr.Field)
	}
}

func TestRentableUnits(t *testing.T) {
	tests := []struct {
		bedrooms, rented, want int
	}{
		{3, 0, 2},
		{3, 1, 1},
		{3, 5, 2},
		{1, 0, 0},
		{0, 0, 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, rentableUnits(tt.bedrooms, tt.rented), "%d bedrooms, %d rented", tt.bedrooms, tt.rented)
	}
}

func TestWholesale(t *testing.T) {
	spread, err := Analyze(domain.StrategyWholesale, testProperty(375000), testAssumptions(t, nil), 200000, DefaultEnv())
	require.NoError(t, err)
	m := spread.Metrics.(*WholesaleMetrics)
	assert.InDelta(t, 32500, m.AssignmentFee, 1e-9)
	assert.InDelta(t, 30500, m.NetProfit, 1e-9)
	assert.InDelta(t, 3000, m.CashAtRisk, 1e-9)
	assert.Nil(t, spread.Proforma.Returns.IRR)
	assert.Contains(t, spread.Proforma.Returns.IRRError, "not applicable")
	assert.InDelta(t, 30500, spread.Proforma.Returns.TotalProfit, 1e-9)
	assert.Empty(t, spread.Proforma.Projections.Years)

	pct, err := Analyze(domain.StrategyWholesale, testProperty(375000),
		testAssumptions(t, func(in *domain.AssumptionsInput) { in.WholesaleFeePct = 5 }), 200000, DefaultEnv())
	require.NoError(t, err)
	m = pct.Metrics.(*WholesaleMetrics)
	assert.InDelta(t, 10000, m.AssignmentFee, 1e-9)
	assert.InDelta(t, 8000, m.NetProfit, 1e-9)
	assert.InDelta(t, 8000.0/3000, m.ROI.Float(), 1e-12)
	assert.Equal(t, m.NetProfit, NetProfit(pct))
}

func TestNetProfit_Rentals(t *testing.T) {
	res, err := Analyze(domain.StrategyLTR, testProperty(0), testAssumptions(t, nil), 300000, DefaultEnv())
	require.NoError(t, err)
	assert.Equal(t, res.Proforma.Returns.TotalProfit, NetProfit(res))
	assert.Equal(t, res.Proforma.Metrics.CashOnCash, CashOnCash(res))
}
