package deal

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"

	"github.com/rovshanmuradov/dealiq/internal/domain"
)

const dealsYAML = `
deals:
  - name: Oak duplex
    strategy: long-term
    property:
      address: 12 Oak St
      bedrooms: 3
      square_feet: 1500
      list_price: 300000
      arv: 340000
    assumptions:
      down_payment_pct: 20
      interest_rate: 7
      monthly_rent: 2200
      vacancy_rate: 5
      property_taxes: 3600
      insurance: 1200
  - name: bad strategy
    strategy: timeshare
    property:
      list_price: 100000
  - name: no price
    property:
      bedrooms: 2
  - property:
      address: 9 Elm Ave
      list_price: 180000
    purchase_price: 170000
    assumptions:
      interest_rate: 0.065
      vacancy_rate: 150
`

func TestParse_SkipsInvalid(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	loader := NewLoader(zap.New(core), domain.StandardDefaults())

	deals, err := loader.Parse([]byte(dealsYAML))
	require.NoError(t, err)
	require.Len(t, deals, 1)

	d := deals[0]
	assert.Equal(t, "Oak duplex", d.Name)
	assert.Equal(t, domain.StrategyLTR, d.Strategy)
	assert.Equal(t, 300000.0, d.PurchasePrice())
	assert.True(t, d.Property.HasARV())
	assert.InDelta(t, 0.20, d.Assumptions.DownPaymentPct, 1e-12)
	assert.InDelta(t, 0.07, d.Assumptions.InterestRate, 1e-12)
	assert.Equal(t, 30, d.Assumptions.TermYears)

	// unknown strategy, missing price, vacancy above 100%
	assert.Equal(t, 3, logs.Len())
}

func TestParse_NameFallbackAndPriceOverride(t *testing.T) {
	loader := NewLoader(zaptest.NewLogger(t), domain.StandardDefaults())
	deals, err := loader.Parse([]byte(`
deals:
  - property:
      address: 9 Elm Ave
      list_price: 180000
    purchase_price: 170000
`))
	require.NoError(t, err)
	require.Len(t, deals, 1)
	assert.Equal(t, "9 Elm Ave", deals[0].Name)
	assert.Equal(t, domain.StrategyID(""), deals[0].Strategy)
	assert.Equal(t, 170000.0, deals[0].PurchasePrice())
}

func TestParse_ConfigDefaultsApply(t *testing.T) {
	defaults := domain.StandardDefaults()
	defaults.HoldYears = 5
	loader := NewLoader(zaptest.NewLogger(t), defaults)

	deals, err := loader.Parse([]byte("deals:\n  - property:\n      list_price: 200000\n"))
	require.NoError(t, err)
	assert.Equal(t, 5, deals[0].Assumptions.HoldYears)
}

func TestParse_ExplicitZerosOverrideDefaults(t *testing.T) {
	loader := NewLoader(zaptest.NewLogger(t), domain.StandardDefaults())

	deals, err := loader.Parse([]byte(`
deals:
  - property:
      list_price: 200000
    assumptions:
      broker_commission_pct: 0
      selling_costs_pct: 0
      capital_gains_rate: 0
      land_value_pct: 0
  - property:
      list_price: 200000
`))
	require.NoError(t, err)
	require.Len(t, deals, 2)

	fsbo := deals[0].Assumptions
	assert.Equal(t, 0.0, fsbo.BrokerCommissionPct)
	assert.Equal(t, 0.0, fsbo.SellingCostsPct)
	assert.Equal(t, 0.0, fsbo.CapitalGainsRate)
	assert.Equal(t, 0.0, fsbo.LandValuePct)

	unset := deals[1].Assumptions
	assert.Equal(t, 0.06, unset.BrokerCommissionPct)
	assert.Equal(t, 0.08, unset.SellingCostsPct)
	assert.Equal(t, 0.15, unset.CapitalGainsRate)
	assert.Equal(t, 0.20, unset.LandValuePct)
}

func TestParse_Errors(t *testing.T) {
	loader := NewLoader(zaptest.NewLogger(t), domain.StandardDefaults())

	_, err := loader.Parse([]byte("deals: ["))
	assert.ErrorContains(t, err, "failed to parse YAML")

	_, err = loader.Parse([]byte("deals: []"))
	assert.ErrorContains(t, err, "no deals found")

	_, err = loader.Parse([]byte("deals:\n  - property:\n      list_price: -5\n"))
	assert.ErrorContains(t, err, "no valid deals")
}

func TestLoadDeals_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "deals.yaml")
	require.NoError(t, os.WriteFile(path, []byte(dealsYAML), 0o644))

	loader := NewLoader(zaptest.NewLogger(t), domain.StandardDefaults())
	deals, err := loader.LoadDeals(path)
	require.NoError(t, err)
	assert.Len(t, deals, 1)

	_, err = loader.LoadDeals(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "failed to read file")
}
