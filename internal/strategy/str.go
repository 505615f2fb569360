package strategy

import (
	"math"

	"github.com/rovshanmuradov/dealiq/internal/domain"
	"github.com/rovshanmuradov/dealiq/internal/proforma"
)

const nightsPerYear = 365

// STRMetrics describe a short-term (nightly) rental.
type STRMetrics struct {
	AverageDailyRate   float64      `json:"average_daily_rate"`
	OccupancyRate      float64      `json:"occupancy_rate"`
	NightsBooked       float64      `json:"nights_booked"`
	Turnovers          float64      `json:"turnovers"`
	AnnualRevenue      float64      `json:"annual_revenue"`
	RevPAR             float64      `json:"revpar"`
	PlatformFees       float64      `json:"platform_fees"`
	CleaningCosts      float64      `json:"cleaning_costs"`
	BreakevenOccupancy domain.Ratio `json:"breakeven_occupancy"`
	MonthlyCashFlow    float64      `json:"monthly_cash_flow"`
	AnnualCashFlow     float64      `json:"annual_cash_flow"`
	CapRate            float64      `json:"cap_rate"`
	CashOnCash         domain.Ratio `json:"cash_on_cash"`
	DSCR               domain.Ratio `json:"dscr"`
	IRR                *float64     `json:"irr"`
}

func (*STRMetrics) StrategyID() domain.StrategyID { return domain.StrategySTR }
func (*STRMetrics) sealed()                       {}

type strCalculator struct {
	baseCalculator
}

// Analyze replaces rent with ADR × 365 × occupancy. Bookings carry no
// vacancy allowance; empty nights are already outside the occupancy.
func (c *strCalculator) Analyze(prop domain.Property, asm domain.Assumptions, price float64) (*Result, error) {
	nights := nightsPerYear * asm.OccupancyRate
	revenue := asm.AverageDailyRate * nights
	turnovers := 0.0
	if asm.STRAvgStayNights > 0 {
		turnovers = nights / asm.STRAvgStayNights
	}
	cleaning := turnovers * asm.STRCleaningPerTurnover

	p, err := c.build(prop, asm, price,
		proforma.WithGrossRevenue(revenue, 0),
		proforma.WithPlatformFees(asm.STRPlatformFeePct),
		proforma.WithCleaning(cleaning),
	)
	if err != nil {
		return nil, err
	}

	m := p.Metrics
	return &Result{
		Strategy: c.id,
		Price:    price,
		Proforma: p,
		Metrics: &STRMetrics{
			AverageDailyRate:   asm.AverageDailyRate,
			OccupancyRate:      asm.OccupancyRate,
			NightsBooked:       nights,
			Turnovers:          turnovers,
			AnnualRevenue:      revenue,
			RevPAR:             revenue / nightsPerYear,
			PlatformFees:       p.Expenses.PlatformFees,
			CleaningCosts:      p.Expenses.Cleaning,
			BreakevenOccupancy: breakevenOccupancy(asm, p),
			MonthlyCashFlow:    m.MonthlyCashFlow,
			AnnualCashFlow:     m.AnnualCashFlow,
			CapRate:            m.CapRate,
			CashOnCash:         m.CashOnCash,
			DSCR:               m.DSCR,
			IRR:                p.Returns.IRR,
		},
	}, nil
}

// breakevenOccupancy solves cash flow = 0 for nightly occupancy. Each booked
// night earns ADR less the EGI-linked expense share and its slice of a
// cleaning turnover. +Inf means no occupancy breaks even.
func breakevenOccupancy(asm domain.Assumptions, p *proforma.Proforma) domain.Ratio {
	variable := asm.VariableExpensePct() + asm.STRPlatformFeePct
	perNight := asm.AverageDailyRate * (1 - variable)
	if asm.STRAvgStayNights > 0 {
		perNight -= asm.STRCleaningPerTurnover / asm.STRAvgStayNights
	}
	fixed := asm.FixedAnnualExpenses(p.Acquisition.PurchasePrice) + p.Metrics.AnnualDebtService - p.Income.OtherIncome*(1-variable)

	if perNight <= 0 {
		if fixed <= 0 {
			return 0
		}
		return domain.Inf()
	}
	return domain.Ratio(math.Max(0, fixed/(nightsPerYear*perNight)))
}
