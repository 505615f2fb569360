package dealscore

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rovshanmuradov/dealiq/internal/domain"
	"github.com/rovshanmuradov/dealiq/internal/strategy"
)

func TestScore_WeightedComposite(t *testing.T) {
	dscr := domain.Ratio(1.25)
	ds := Score(Inputs{
		ListPrice:      300000,
		BreakevenPrice: 285000,
		CashOnCash:     ptr(0.06),
		CapRate:        ptr(0.05),
		DSCR:           &dscr,
		EquityCapture:  ptr(0.10),
	}, DefaultWeights())

	assert.InDelta(t, 0.05, ds.DiscountRequiredPct, 1e-12)
	assert.InDelta(t, 80, *ds.Components.Discount, 1e-9)
	assert.InDelta(t, 50, *ds.Components.CashOnCash, 1e-9)
	assert.InDelta(t, 50, *ds.Components.CapRate, 1e-9)
	assert.InDelta(t, 50, *ds.Components.DSCR, 1e-9)
	assert.InDelta(t, 40, *ds.Components.EquityCapture, 1e-9)
	assert.InDelta(t, 59, ds.Score, 1e-9)
	assert.Equal(t, "B", ds.Grade)
	assert.Equal(t, "Worth Pursuing", ds.Verdict)
	assert.Equal(t, 285000.0, ds.BreakevenPrice)
}

func TestScore_MissingComponentsRenormalize(t *testing.T) {
	ds := Score(Inputs{
		ListPrice:      300000,
		BreakevenPrice: 285000,
		CashOnCash:     ptr(0.06),
		EquityCapture:  ptr(0.10),
	}, DefaultWeights())

	assert.Nil(t, ds.Components.CapRate)
	assert.Nil(t, ds.Components.DSCR)
	assert.InDelta(t, (0.35*80+0.20*50+0.15*40)/0.70, ds.Score, 1e-9)
}

func TestScore_Clipping(t *testing.T) {
	inf := domain.Inf()
	ds := Score(Inputs{
		ListPrice:      300000,
		BreakevenPrice: 400000,
		CashOnCash:     ptr(5.0),
		CapRate:        ptr(-0.3),
		DSCR:           &inf,
		EquityCapture:  ptr(math.Inf(-1)),
	}, DefaultWeights())

	assert.Equal(t, 100.0, *ds.Components.Discount)
	assert.Equal(t, 100.0, *ds.Components.CashOnCash)
	assert.Equal(t, 0.0, *ds.Components.CapRate)
	assert.Equal(t, 100.0, *ds.Components.DSCR)
	assert.Equal(t, 0.0, *ds.Components.EquityCapture)
	assert.GreaterOrEqual(t, ds.Score, 0.0)
	assert.LessOrEqual(t, ds.Score, 100.0)
}

func TestScore_NoComponents(t *testing.T) {
	ds := Score(Inputs{}, DefaultWeights())
	assert.Equal(t, 0.0, ds.Score)
	assert.Equal(t, "F", ds.Grade)
	assert.Equal(t, "Pass", ds.Verdict)
}

func TestGrade(t *testing.T) {
	tests := []struct {
		score   float64
		grade   string
		verdict string
	}{
		{100, "A+", "Strong Buy"},
		{85, "A+", "Strong Buy"},
		{84.99, "A", "Good Deal"},
		{70, "A", "Good Deal"},
		{55, "B", "Worth Pursuing"},
		{40, "C", "Marginal"},
		{25, "D", "Weak"},
		{24.9, "F", "Pass"},
		{0, "F", "Pass"},
	}
	for _, tt := range tests {
		grade, verdict := Grade(tt.score)
		assert.Equal(t, tt.grade, grade, "score %v", tt.score)
		assert.Equal(t, tt.verdict, verdict, "score %v", tt.score)
	}
}

func TestFromResult(t *testing.T) {
	arv := 375000.0
	prop := domain.Property{Bedrooms: 3, ListPrice: 300000, ARV: &arv}
	asm, err := domain.NewAssumptions(domain.AssumptionsInput{
		DownPaymentPct: 0.2, InterestRate: 0.07, TermYears: 30,
		MonthlyRent: 2200, VacancyRate: 0.05, PropertyTaxes: 3600, Insurance: 1200,
		RehabCost: 30000,
	})
	require.NoError(t, err)
	target := domain.IQTargetResult{TargetPrice: 270000}

	ltr, err := strategy.Analyze(domain.StrategyLTR, prop, asm, 250000, strategy.DefaultEnv())
	require.NoError(t, err)
	in := FromResult(ltr, target)
	require.NotNil(t, in.CapRate)
	require.NotNil(t, in.DSCR)
	require.NotNil(t, in.EquityCapture)
	assert.Equal(t, 270000.0, in.BreakevenPrice)
	assert.Equal(t, 300000.0, in.ListPrice)
	assert.InDelta(t, (375000.0-250000-30000)/375000, *in.EquityCapture, 1e-12)

	flip, err := strategy.Analyze(domain.StrategyFlip, prop, asm, 200000, strategy.DefaultEnv())
	require.NoError(t, err)
	in = FromResult(flip, target)
	assert.Nil(t, in.CapRate)
	assert.Nil(t, in.DSCR)
	require.NotNil(t, in.CashOnCash)
	assert.Equal(t, flip.Metrics.(*strategy.FlipMetrics).ROI.Float(), *in.CashOnCash)
}
