package sensitivity

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rovshanmuradov/dealiq/internal/domain"
	"github.com/rovshanmuradov/dealiq/internal/strategy"
)

func fixture(t *testing.T) (domain.Property, domain.Assumptions) {
	t.Helper()
	arv := 360000.0
	prop := domain.Property{Address: "3 Pine Rd", Bedrooms: 4, SquareFeet: 1800, ListPrice: 300000, ARV: &arv}
	asm, err := domain.NewAssumptions(domain.AssumptionsInput{
		DownPaymentPct:    0.25,
		InterestRate:      0.065,
		TermYears:         30,
		ClosingCostsPct:   0.03,
		MonthlyRent:       2600,
		VacancyRate:       0.06,
		PropertyTaxes:     4000,
		Insurance:         1400,
		ManagementPct:     0.08,
		MaintenancePct:    0.05,
		RentGrowth:        0.03,
		ExpenseGrowth:     0.025,
		Appreciation:      0.035,
		RehabCost:         25000,
		AverageDailyRate:  190,
		OccupancyRate:     0.7,
		STRPlatformFeePct: 0.03,
		RoomRent:          850,
		WholesaleFeePct:   0.04,
		MarketingCosts:    1500,
	})
	require.NoError(t, err)
	return prop, asm
}

func TestRun_ZeroRowReproducesBase(t *testing.T) {
	prop, asm := fixture(t)

	for _, calc := range strategy.All(strategy.DefaultEnv()) {
		t.Run(string(calc.ID()), func(t *testing.T) {
			base, err := calc.Analyze(prop, asm, 285000)
			require.NoError(t, err)

			tables, err := Run(context.Background(), calc, prop, asm, 285000, Options{Workers: 4})
			require.NoError(t, err)

			for _, variable := range domain.SensitivityVariables() {
				rows := tables.Table(variable)
				require.Len(t, rows, 5, variable)

				zero := rows[2]
				assert.Equal(t, 0.0, zero.ChangePct)
				assert.Equal(t, base.Proforma.Returns.IRR, zero.IRR, variable)
				assert.Equal(t, strategy.CashOnCash(base), zero.CashOnCash, variable)
				assert.Equal(t, strategy.NetProfit(base), zero.NetProfit, variable)
			}
		})
	}
}

func TestRun_OrderAndValues(t *testing.T) {
	prop, asm := fixture(t)
	calc, err := strategy.New(domain.StrategyLTR, strategy.DefaultEnv())
	require.NoError(t, err)

	tables, err := Run(context.Background(), calc, prop, asm, 300000, Options{Workers: 3})
	require.NoError(t, err)

	prices := tables.PurchasePrice
	want := []float64{240000, 270000, 300000, 330000, 360000}
	for i, row := range prices {
		assert.Equal(t, domain.VarPurchasePrice, row.Variable)
		assert.Equal(t, DefaultOffsets()[i], row.ChangePct)
		assert.InDelta(t, want[i], row.Value, 1e-6)
	}
	// cheaper purchase, better cash-on-cash
	for i := 1; i < len(prices); i++ {
		assert.Less(t, prices[i].CashOnCash.Float(), prices[i-1].CashOnCash.Float())
	}
	for i := 1; i < len(tables.Rent); i++ {
		assert.Greater(t, tables.Rent[i].NetProfit, tables.Rent[i-1].NetProfit)
	}
	assert.InDelta(t, 2600*1.1, tables.Rent[3].Value, 1e-9)
	assert.InDelta(t, 0.065*0.8, tables.InterestRate[0].Value, 1e-12)

	raw, err := json.Marshal(tables)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"appreciation":[`)
}

func TestRun_Deterministic(t *testing.T) {
	prop, asm := fixture(t)
	calc, err := strategy.New(domain.StrategyBRRRR, strategy.DefaultEnv())
	require.NoError(t, err)

	a, err := Run(context.Background(), calc, prop, asm, 280000, Options{Workers: 1})
	require.NoError(t, err)
	b, err := Run(context.Background(), calc, prop, asm, 280000, Options{Workers: 8})
	require.NoError(t, err)

	ja, _ := json.Marshal(a)
	jb, _ := json.Marshal(b)
	assert.Equal(t, string(ja), string(jb))
}

func TestRun_Cancelled(t *testing.T) {
	prop, asm := fixture(t)
	calc, err := strategy.New(domain.StrategyLTR, strategy.DefaultEnv())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = Run(ctx, calc, prop, asm, 300000, Options{})
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestPerturb_DoesNotMutate(t *testing.T) {
	_, asm := fixture(t)
	before := asm

	_, perturbed, value := Perturb(domain.StrategySTR, asm, 300000, domain.VarVacancy, 0.2)
	assert.Equal(t, before, asm)
	assert.InDelta(t, 0.36, value, 1e-12)
	assert.InDelta(t, 0.64, perturbed.OccupancyRate, 1e-12)

	_, same, _ := Perturb(domain.StrategySTR, asm, 300000, domain.VarVacancy, 0)
	assert.Equal(t, asm, same)

	_, rate, _ := Perturb(domain.StrategyBRRRR, asm, 300000, domain.VarInterestRate, 0.1)
	assert.InDelta(t, 0.0715, rate.InterestRate, 1e-12)
	assert.InDelta(t, 0.0715, rate.RefinanceRate, 1e-12)
}

func TestScenario_RecordsFailure(t *testing.T) {
	prop, asm := fixture(t)
	calc, err := strategy.New(domain.StrategyLTR, strategy.DefaultEnv())
	require.NoError(t, err)

	// -100% price is not a valid purchase; the row carries the error
	row := Scenario(calc, prop, asm, 300000, domain.VarPurchasePrice, -1)
	assert.Nil(t, row.IRR)
	assert.NotEmpty(t, row.IRRError)
}

func TestSet_CarriesRelatedInputs(t *testing.T) {
	_, asm := fixture(t)

	_, rent := Set(domain.StrategyLTR, asm, 300000, domain.VarRent, 2600*1.02)
	assert.InDelta(t, 2652, rent.MonthlyRent, 1e-9)
	assert.InDelta(t, 850*1.02, rent.RoomRent, 1e-9)
	assert.InDelta(t, 190*1.02, rent.AverageDailyRate, 1e-9)

	_, nightly := Set(domain.StrategySTR, asm, 300000, domain.VarRent, 209)
	assert.InDelta(t, 209, nightly.AverageDailyRate, 1e-12)
	assert.InDelta(t, 2600*1.1, nightly.MonthlyRent, 1e-9)

	_, rate := Set("", asm, 300000, domain.VarInterestRate, 0.07)
	assert.Equal(t, 0.07, rate.InterestRate)
	assert.Equal(t, 0.07, rate.RefinanceRate)

	asm.RefinanceRate = 0.06
	_, own := Set("", asm, 300000, domain.VarInterestRate, 0.07)
	assert.Equal(t, 0.06, own.RefinanceRate, "a separately quoted refinance rate stays put")

	_, str := Set(domain.StrategySTR, asm, 300000, domain.VarVacancy, 1.5)
	assert.Equal(t, 0.0, str.OccupancyRate)

	price, _ := Set("", asm, 300000, domain.VarPurchasePrice, 275000)
	assert.Equal(t, 275000.0, price)
}

func TestRun_PriceMovesPriceBasedExpenses(t *testing.T) {
	prop, asm := fixture(t)
	calc, err := strategy.New(domain.StrategyLTR, strategy.DefaultEnv())
	require.NoError(t, err)

	byRate := asm
	byRate.PropertyTaxes = 0
	byRate.PropertyTaxRate = 0.01
	byAmount := asm
	byAmount.PropertyTaxes = 3000

	p, a, _ := Perturb(domain.StrategyLTR, byRate, 300000, domain.VarPurchasePrice, 0.2)
	res, err := calc.Analyze(prop, a, p)
	require.NoError(t, err)
	assert.InDelta(t, 3600, res.Proforma.Expenses.PropertyTaxes, 1e-9)

	rated, err := Run(context.Background(), calc, prop, byRate, 300000, Options{Workers: 2})
	require.NoError(t, err)
	fixed, err := Run(context.Background(), calc, prop, byAmount, 300000, Options{Workers: 2})
	require.NoError(t, err)

	assert.InDelta(t, fixed.PurchasePrice[2].CashOnCash.Float(), rated.PurchasePrice[2].CashOnCash.Float(), 1e-12)
	assert.Less(t, rated.PurchasePrice[4].CashOnCash.Float(), fixed.PurchasePrice[4].CashOnCash.Float())
	assert.Greater(t, rated.PurchasePrice[0].CashOnCash.Float(), fixed.PurchasePrice[0].CashOnCash.Float())
}

func TestRun_ShortHoldStrategiesIgnoreRent(t *testing.T) {
	prop, asm := fixture(t)

	flip, err := strategy.New(domain.StrategyFlip, strategy.DefaultEnv())
	require.NoError(t, err)
	tables, err := Run(context.Background(), flip, prop, asm, 220000, Options{Workers: 2})
	require.NoError(t, err)
	base := tables.Rent[2].IRR
	require.NotNil(t, base)
	for _, row := range tables.Rent {
		require.NotNil(t, row.IRR)
		assert.Equal(t, *base, *row.IRR, "rent %v", row.ChangePct)
	}

	wholesale, err := strategy.New(domain.StrategyWholesale, strategy.DefaultEnv())
	require.NoError(t, err)
	tables, err = Run(context.Background(), wholesale, prop, asm, 220000, Options{Workers: 2})
	require.NoError(t, err)
	for _, variable := range domain.SensitivityVariables() {
		for _, row := range tables.Table(variable) {
			assert.Nil(t, row.IRR, variable)
		}
	}
}
