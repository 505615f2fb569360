package strategy

import (
	"github.com/rovshanmuradov/dealiq/internal/domain"
	"github.com/rovshanmuradov/dealiq/internal/proforma"
)

// HouseHackMetrics describe an owner-occupied purchase with the remaining
// bedrooms rented out.
type HouseHackMetrics struct {
	RentableUnits        int          `json:"rentable_units"`
	RoomRent             float64      `json:"room_rent"`
	RentalIncome         float64      `json:"rental_income"`
	MortgagePayment      float64      `json:"mortgage_payment"`
	NetHousingCost       float64      `json:"net_housing_cost"`
	MarketRent           float64      `json:"market_rent"`
	HousingCostReduction float64      `json:"housing_cost_reduction"`
	MonthlyCashFlow      float64      `json:"monthly_cash_flow"`
	AnnualCashFlow       float64      `json:"annual_cash_flow"`
	CashOnCash           domain.Ratio `json:"cash_on_cash"`
	DSCR                 domain.Ratio `json:"dscr"`
}

func (*HouseHackMetrics) StrategyID() domain.StrategyID { return domain.StrategyHouseHack }
func (*HouseHackMetrics) sealed()                       {}

type houseHackCalculator struct {
	baseCalculator
}

// Analyze keeps one bedroom for the owner. Monthly figures compare the full
// housing payment (PITI plus HOA) against room income.
func (c *houseHackCalculator) Analyze(prop domain.Property, asm domain.Assumptions, price float64) (*Result, error) {
	if prop.Bedrooms < 2 {
		return nil, &domain.InvalidInputError{
			Field:  "bedrooms",
			Reason: "a house hack needs an owner bedroom and at least one to rent",
		}
	}
	units := rentableUnits(prop.Bedrooms, asm.RoomsRented)
	roomRent := asm.RoomRent
	if roomRent == 0 {
		roomRent = asm.MonthlyRent / float64(prop.Bedrooms)
	}
	income := roomRent * float64(units)

	p, err := c.build(prop, asm, price, proforma.WithGrossRevenue(income*12, asm.VacancyRate))
	if err != nil {
		return nil, err
	}

	e := p.Expenses
	mortgage := p.Financing.MonthlyPayment + (e.PropertyTaxes+e.Insurance+e.HOA)/12
	net := mortgage - income
	reduction := 0.0
	if asm.MonthlyRent > 0 {
		reduction = 1 - net/asm.MonthlyRent
	}

	m := p.Metrics
	return &Result{
		Strategy: c.id,
		Price:    price,
		Proforma: p,
		Metrics: &HouseHackMetrics{
			RentableUnits:        units,
			RoomRent:             roomRent,
			RentalIncome:         income,
			MortgagePayment:      mortgage,
			NetHousingCost:       net,
			MarketRent:           asm.MonthlyRent,
			HousingCostReduction: reduction,
			MonthlyCashFlow:      m.MonthlyCashFlow,
			AnnualCashFlow:       m.AnnualCashFlow,
			CashOnCash:           m.CashOnCash,
			DSCR:                 m.DSCR,
		},
	}, nil
}

// rentableUnits is bedrooms less the owner's room, optionally capped by the
// number of rooms the owner chooses to rent.
func rentableUnits(bedrooms, roomsRented int) int {
	available := max(bedrooms-1, 0)
	if roomsRented > 0 {
		return min(roomsRented, available)
	}
	return available
}
