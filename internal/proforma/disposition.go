package proforma

import (
	"github.com/shopspring/decimal"

	"github.com/rovshanmuradov/dealiq/internal/domain"
)

// dispose models a sale at the end of the hold. Gain up to the accumulated
// depreciation is taxed at the recapture rate, the rest at the capital
// gains rate. Losses owe no tax. Proceeds are worked in decimal.
func dispose(asm domain.Assumptions, price, salePrice, loanPayoff, accumulated float64, hold int) Exit {
	sale := decimal.NewFromFloat(salePrice)
	depreciated := decimal.NewFromFloat(accumulated)

	commission := sale.Mul(decimal.NewFromFloat(asm.BrokerCommissionPct))
	closing := sale.Mul(decimal.NewFromFloat(asm.SaleClosingPct))
	adjustedBasis := decimal.NewFromFloat(price).Sub(depreciated)
	realized := sale.Sub(commission).Sub(closing)
	gain := realized.Sub(adjustedBasis)

	recaptured := decimal.Min(depreciated, decimal.Max(gain, decimal.Zero))
	recaptureTax := recaptured.Mul(decimal.NewFromFloat(asm.RecaptureRate))
	capitalGainsTax := decimal.Max(decimal.Zero, gain.Sub(depreciated)).
		Mul(decimal.NewFromFloat(asm.CapitalGainsRate))
	totalTax := recaptureTax.Add(capitalGainsTax)

	net := realized.Sub(decimal.NewFromFloat(loanPayoff))
	return Exit{
		HoldYears:               hold,
		SalePrice:               salePrice,
		BrokerCommission:        commission.InexactFloat64(),
		ClosingCosts:            closing.InexactFloat64(),
		LoanPayoff:              loanPayoff,
		NetSaleProceeds:         net.InexactFloat64(),
		AccumulatedDepreciation: accumulated,
		AdjustedBasis:           adjustedBasis.InexactFloat64(),
		TotalGain:               gain.InexactFloat64(),
		RecaptureTax:            recaptureTax.InexactFloat64(),
		CapitalGainsTax:         capitalGainsTax.InexactFloat64(),
		TotalTax:                totalTax.InexactFloat64(),
		AfterTaxProceeds:        net.Sub(totalTax).InexactFloat64(),
	}
}
