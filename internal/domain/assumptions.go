package domain

import "math"

// Loan types accepted by the financing section.
const (
	LoanConventional = "conventional"
	LoanFHA          = "fha"
	LoanVA           = "va"
	LoanDSCR         = "dscr"
	LoanHardMoney    = "hard_money"
	LoanCash         = "cash"
)

// Assumptions are the normalized financing, operating and exit inputs.
// Every rate and percentage is a decimal fraction (0.05 == 5%).
// Build them with NewAssumptions; the engine treats them as read-only values.
type Assumptions struct {
	// Financing
	DownPaymentPct  float64 `json:"down_payment_pct" yaml:"down_payment_pct" validate:"gte=0,lte=1"`
	InterestRate    float64 `json:"interest_rate" yaml:"interest_rate" validate:"gte=0,lt=1"`
	TermYears       int     `json:"term_years" yaml:"term_years" validate:"gt=0,lte=50"`
	LoanType        string  `json:"loan_type" yaml:"loan_type" validate:"oneof=conventional fha va dscr hard_money cash"`
	ClosingCostsPct float64 `json:"closing_costs_pct" yaml:"closing_costs_pct" validate:"gte=0,lte=1"`

	// Income
	MonthlyRent      float64 `json:"monthly_rent" yaml:"monthly_rent" validate:"gte=0"`
	OtherIncome      float64 `json:"other_income" yaml:"other_income" validate:"gte=0"`
	VacancyRate      float64 `json:"vacancy_rate" yaml:"vacancy_rate" validate:"gte=0,lte=1"`
	AverageDailyRate float64 `json:"average_daily_rate" yaml:"average_daily_rate" validate:"gte=0"`
	OccupancyRate    float64 `json:"occupancy_rate" yaml:"occupancy_rate" validate:"gte=0,lte=1"`

	// Expenses: fixed lines are annual amounts, *Rate lines are annual
	// shares of the purchase price, *Pct lines are shares of EGI
	PropertyTaxes   float64 `json:"property_taxes" yaml:"property_taxes" validate:"gte=0"`
	PropertyTaxRate float64 `json:"property_tax_rate" yaml:"property_tax_rate" validate:"gte=0,lt=1"`
	Insurance       float64 `json:"insurance" yaml:"insurance" validate:"gte=0"`
	InsuranceRate   float64 `json:"insurance_rate" yaml:"insurance_rate" validate:"gte=0,lt=1"`
	HOA             float64 `json:"hoa" yaml:"hoa" validate:"gte=0"`
	Utilities       float64 `json:"utilities" yaml:"utilities" validate:"gte=0"`
	Landscaping     float64 `json:"landscaping" yaml:"landscaping" validate:"gte=0"`
	PestControl     float64 `json:"pest_control" yaml:"pest_control" validate:"gte=0"`
	OtherExpenses   float64 `json:"other_expenses" yaml:"other_expenses" validate:"gte=0"`
	ManagementPct   float64 `json:"management_pct" yaml:"management_pct" validate:"gte=0,lte=1"`
	MaintenancePct  float64 `json:"maintenance_pct" yaml:"maintenance_pct" validate:"gte=0,lte=1"`
	CapExPct        float64 `json:"capex_pct" yaml:"capex_pct" validate:"gte=0,lte=1"`

	// Growth
	RentGrowth    float64 `json:"rent_growth" yaml:"rent_growth" validate:"gte=-0.5,lte=1"`
	ExpenseGrowth float64 `json:"expense_growth" yaml:"expense_growth" validate:"gte=-0.5,lte=1"`
	Appreciation  float64 `json:"appreciation" yaml:"appreciation" validate:"gte=-0.5,lte=1"`

	// Strategy knobs
	RehabCost              float64 `json:"rehab_cost" yaml:"rehab_cost" validate:"gte=0"`
	HoldingMonths          int     `json:"holding_months" yaml:"holding_months" validate:"gte=0,lte=120"`
	SellingCostsPct        float64 `json:"selling_costs_pct" yaml:"selling_costs_pct" validate:"gte=0,lte=1"`
	RoomsRented            int     `json:"rooms_rented" yaml:"rooms_rented" validate:"gte=0"`
	RoomRent               float64 `json:"room_rent" yaml:"room_rent" validate:"gte=0"`
	WholesaleFeePct        float64 `json:"wholesale_fee_pct" yaml:"wholesale_fee_pct" validate:"gte=0,lte=1"`
	MarketingCosts         float64 `json:"marketing_costs" yaml:"marketing_costs" validate:"gte=0"`
	EarnestMoney           float64 `json:"earnest_money" yaml:"earnest_money" validate:"gte=0"`
	RefinanceLTV           float64 `json:"refinance_ltv" yaml:"refinance_ltv" validate:"gte=0,lte=1"`
	RefinanceRate          float64 `json:"refinance_rate" yaml:"refinance_rate" validate:"gte=0,lt=1"`
	RefinanceClosingPct    float64 `json:"refinance_closing_pct" yaml:"refinance_closing_pct" validate:"gte=0,lte=1"`
	STRPlatformFeePct      float64 `json:"str_platform_fee_pct" yaml:"str_platform_fee_pct" validate:"gte=0,lte=1"`
	STRCleaningPerTurnover float64 `json:"str_cleaning_per_turnover" yaml:"str_cleaning_per_turnover" validate:"gte=0"`
	STRAvgStayNights       float64 `json:"str_avg_stay_nights" yaml:"str_avg_stay_nights" validate:"gte=0"`

	// Tax and exit
	LandValuePct        float64 `json:"land_value_pct" yaml:"land_value_pct" validate:"gte=0,lt=1"`
	CapitalGainsRate    float64 `json:"capital_gains_rate" yaml:"capital_gains_rate" validate:"gte=0,lte=1"`
	RecaptureRate       float64 `json:"recapture_rate" yaml:"recapture_rate" validate:"gte=0,lte=1"`
	MarginalTaxRate     float64 `json:"marginal_tax_rate" yaml:"marginal_tax_rate" validate:"gte=0,lte=1"`
	BrokerCommissionPct float64 `json:"broker_commission_pct" yaml:"broker_commission_pct" validate:"gte=0,lte=1"`
	SaleClosingPct      float64 `json:"sale_closing_pct" yaml:"sale_closing_pct" validate:"gte=0,lte=1"`
	HoldYears           int     `json:"hold_years" yaml:"hold_years" validate:"gte=1,lte=40"`
	ProjectionYears     int     `json:"projection_years" yaml:"projection_years" validate:"gte=1,lte=40"`
}

// AssumptionsInput is the raw shape arriving from deal files or callers.
// Percentages may be decimals (0.05) or percents (5). Pointer fields are
// optional overrides: nil takes the default, an explicit zero is kept.
type AssumptionsInput struct {
	DownPaymentPct  float64 `json:"down_payment_pct" yaml:"down_payment_pct"`
	InterestRate    float64 `json:"interest_rate" yaml:"interest_rate"`
	TermYears       int     `json:"term_years" yaml:"term_years"`
	LoanType        string  `json:"loan_type" yaml:"loan_type"`
	ClosingCostsPct float64 `json:"closing_costs_pct" yaml:"closing_costs_pct"`

	MonthlyRent      float64 `json:"monthly_rent" yaml:"monthly_rent"`
	OtherIncome      float64 `json:"other_income" yaml:"other_income"`
	VacancyRate      float64 `json:"vacancy_rate" yaml:"vacancy_rate"`
	AverageDailyRate float64 `json:"average_daily_rate" yaml:"average_daily_rate"`
	OccupancyRate    float64 `json:"occupancy_rate" yaml:"occupancy_rate"`

	PropertyTaxes   float64 `json:"property_taxes" yaml:"property_taxes"`
	PropertyTaxRate float64 `json:"property_tax_rate" yaml:"property_tax_rate"`
	Insurance       float64 `json:"insurance" yaml:"insurance"`
	InsuranceRate   float64 `json:"insurance_rate" yaml:"insurance_rate"`
	HOA             float64 `json:"hoa" yaml:"hoa"`
	Utilities       float64 `json:"utilities" yaml:"utilities"`
	Landscaping     float64 `json:"landscaping" yaml:"landscaping"`
	PestControl     float64 `json:"pest_control" yaml:"pest_control"`
	OtherExpenses   float64 `json:"other_expenses" yaml:"other_expenses"`
	ManagementPct   float64 `json:"management_pct" yaml:"management_pct"`
	MaintenancePct  float64 `json:"maintenance_pct" yaml:"maintenance_pct"`
	CapExPct        float64 `json:"capex_pct" yaml:"capex_pct"`

	RentGrowth    float64 `json:"rent_growth" yaml:"rent_growth"`
	ExpenseGrowth float64 `json:"expense_growth" yaml:"expense_growth"`
	Appreciation  float64 `json:"appreciation" yaml:"appreciation"`

	RehabCost              float64  `json:"rehab_cost" yaml:"rehab_cost"`
	HoldingMonths          *int     `json:"holding_months,omitempty" yaml:"holding_months"`
	SellingCostsPct        *float64 `json:"selling_costs_pct,omitempty" yaml:"selling_costs_pct"`
	RoomsRented            int      `json:"rooms_rented" yaml:"rooms_rented"`
	RoomRent               float64  `json:"room_rent" yaml:"room_rent"`
	WholesaleFeePct        float64  `json:"wholesale_fee_pct" yaml:"wholesale_fee_pct"`
	MarketingCosts         float64  `json:"marketing_costs" yaml:"marketing_costs"`
	EarnestMoney           float64  `json:"earnest_money" yaml:"earnest_money"`
	RefinanceLTV           *float64 `json:"refinance_ltv,omitempty" yaml:"refinance_ltv"`
	RefinanceRate          *float64 `json:"refinance_rate,omitempty" yaml:"refinance_rate"`
	RefinanceClosingPct    float64  `json:"refinance_closing_pct" yaml:"refinance_closing_pct"`
	STRPlatformFeePct      float64  `json:"str_platform_fee_pct" yaml:"str_platform_fee_pct"`
	STRCleaningPerTurnover float64  `json:"str_cleaning_per_turnover" yaml:"str_cleaning_per_turnover"`
	STRAvgStayNights       float64  `json:"str_avg_stay_nights" yaml:"str_avg_stay_nights"`

	LandValuePct        *float64 `json:"land_value_pct,omitempty" yaml:"land_value_pct"`
	CapitalGainsRate    *float64 `json:"capital_gains_rate,omitempty" yaml:"capital_gains_rate"`
	RecaptureRate       *float64 `json:"recapture_rate,omitempty" yaml:"recapture_rate"`
	MarginalTaxRate     *float64 `json:"marginal_tax_rate,omitempty" yaml:"marginal_tax_rate"`
	BrokerCommissionPct *float64 `json:"broker_commission_pct,omitempty" yaml:"broker_commission_pct"`
	SaleClosingPct      *float64 `json:"sale_closing_pct,omitempty" yaml:"sale_closing_pct"`
	HoldYears           int      `json:"hold_years" yaml:"hold_years"`
	ProjectionYears     int      `json:"projection_years" yaml:"projection_years"`
}

// Ptr returns a pointer to v, for filling optional input fields.
func Ptr[T any](v T) *T {
	return &v
}

// Defaults fill optional knobs left unset. Term, loan type, hold and
// projection years have no meaningful zero and default on zero; the rest
// default only when nil.
type Defaults struct {
	TermYears           int
	LoanType            string
	HoldYears           int
	ProjectionYears     int
	LandValuePct        float64
	CapitalGainsRate    float64
	RecaptureRate       float64
	MarginalTaxRate     float64
	BrokerCommissionPct float64
	SaleClosingPct      float64
	RefinanceLTV        float64
	HoldingMonths       int
	SellingCostsPct     float64
	STRAvgStayNights    float64
}

// StandardDefaults mirrors the built-in configuration.
func StandardDefaults() Defaults {
	return Defaults{
		TermYears:           30,
		LoanType:            LoanConventional,
		HoldYears:           10,
		ProjectionYears:     10,
		LandValuePct:        0.20,
		CapitalGainsRate:    0.15,
		RecaptureRate:       0.25,
		BrokerCommissionPct: 0.06,
		SaleClosingPct:      0.01,
		RefinanceLTV:        0.75,
		HoldingMonths:       6,
		SellingCostsPct:     0.08,
		STRAvgStayNights:    3,
	}
}

// NewAssumptions normalizes and validates raw input with StandardDefaults.
func NewAssumptions(in AssumptionsInput) (Assumptions, error) {
	return NewAssumptionsWithDefaults(in, StandardDefaults())
}

// NewAssumptionsWithDefaults is the single percent-normalization boundary:
// every percentage field is scaled here exactly once.
func NewAssumptionsWithDefaults(in AssumptionsInput, d Defaults) (Assumptions, error) {
	a := Assumptions{
		DownPaymentPct:         in.DownPaymentPct,
		InterestRate:           in.InterestRate,
		TermYears:              in.TermYears,
		LoanType:               in.LoanType,
		ClosingCostsPct:        in.ClosingCostsPct,
		MonthlyRent:            in.MonthlyRent,
		OtherIncome:            in.OtherIncome,
		VacancyRate:            in.VacancyRate,
		AverageDailyRate:       in.AverageDailyRate,
		OccupancyRate:          in.OccupancyRate,
		PropertyTaxes:          in.PropertyTaxes,
		PropertyTaxRate:        in.PropertyTaxRate,
		Insurance:              in.Insurance,
		InsuranceRate:          in.InsuranceRate,
		HOA:                    in.HOA,
		Utilities:              in.Utilities,
		Landscaping:            in.Landscaping,
		PestControl:            in.PestControl,
		OtherExpenses:          in.OtherExpenses,
		ManagementPct:          in.ManagementPct,
		MaintenancePct:         in.MaintenancePct,
		CapExPct:               in.CapExPct,
		RentGrowth:             in.RentGrowth,
		ExpenseGrowth:          in.ExpenseGrowth,
		Appreciation:           in.Appreciation,
		RehabCost:              in.RehabCost,
		HoldingMonths:          orDefault(in.HoldingMonths, d.HoldingMonths),
		SellingCostsPct:        orDefault(in.SellingCostsPct, d.SellingCostsPct),
		RoomsRented:            in.RoomsRented,
		RoomRent:               in.RoomRent,
		WholesaleFeePct:        in.WholesaleFeePct,
		MarketingCosts:         in.MarketingCosts,
		EarnestMoney:           in.EarnestMoney,
		RefinanceLTV:           orDefault(in.RefinanceLTV, d.RefinanceLTV),
		RefinanceClosingPct:    in.RefinanceClosingPct,
		STRPlatformFeePct:      in.STRPlatformFeePct,
		STRCleaningPerTurnover: in.STRCleaningPerTurnover,
		STRAvgStayNights:       in.STRAvgStayNights,
		LandValuePct:           orDefault(in.LandValuePct, d.LandValuePct),
		CapitalGainsRate:       orDefault(in.CapitalGainsRate, d.CapitalGainsRate),
		RecaptureRate:          orDefault(in.RecaptureRate, d.RecaptureRate),
		MarginalTaxRate:        orDefault(in.MarginalTaxRate, d.MarginalTaxRate),
		BrokerCommissionPct:    orDefault(in.BrokerCommissionPct, d.BrokerCommissionPct),
		SaleClosingPct:         orDefault(in.SaleClosingPct, d.SaleClosingPct),
		HoldYears:              in.HoldYears,
		ProjectionYears:        in.ProjectionYears,
	}

	for _, p := range a.percentFields() {
		*p = normalizePercent(*p)
	}

	// the refinance rate follows the purchase rate unless given
	a.RefinanceRate = a.InterestRate
	if in.RefinanceRate != nil {
		a.RefinanceRate = normalizePercent(*in.RefinanceRate)
	}

	if a.TermYears == 0 {
		a.TermYears = d.TermYears
	}
	if a.LoanType == "" {
		a.LoanType = d.LoanType
	}
	if a.LoanType == LoanCash {
		a.DownPaymentPct = 1
	}
	if a.HoldYears == 0 {
		a.HoldYears = d.HoldYears
	}
	if a.ProjectionYears == 0 {
		a.ProjectionYears = d.ProjectionYears
	}
	if a.STRAvgStayNights == 0 {
		a.STRAvgStayNights = d.STRAvgStayNights
	}

	if err := validateStruct(a); err != nil {
		return Assumptions{}, err
	}
	return a, nil
}

func orDefault[T any](v *T, def T) T {
	if v == nil {
		return def
	}
	return *v
}

// Input turns normalized assumptions back into raw input with every
// optional field set, so renormalizing yields the same value.
func (a Assumptions) Input() AssumptionsInput {
	return AssumptionsInput{
		DownPaymentPct:         a.DownPaymentPct,
		InterestRate:           a.InterestRate,
		TermYears:              a.TermYears,
		LoanType:               a.LoanType,
		ClosingCostsPct:        a.ClosingCostsPct,
		MonthlyRent:            a.MonthlyRent,
		OtherIncome:            a.OtherIncome,
		VacancyRate:            a.VacancyRate,
		AverageDailyRate:       a.AverageDailyRate,
		OccupancyRate:          a.OccupancyRate,
		PropertyTaxes:          a.PropertyTaxes,
		PropertyTaxRate:        a.PropertyTaxRate,
		Insurance:              a.Insurance,
		InsuranceRate:          a.InsuranceRate,
		HOA:                    a.HOA,
		Utilities:              a.Utilities,
		Landscaping:            a.Landscaping,
		PestControl:            a.PestControl,
		OtherExpenses:          a.OtherExpenses,
		ManagementPct:          a.ManagementPct,
		MaintenancePct:         a.MaintenancePct,
		CapExPct:               a.CapExPct,
		RentGrowth:             a.RentGrowth,
		ExpenseGrowth:          a.ExpenseGrowth,
		Appreciation:           a.Appreciation,
		RehabCost:              a.RehabCost,
		HoldingMonths:          Ptr(a.HoldingMonths),
		SellingCostsPct:        Ptr(a.SellingCostsPct),
		RoomsRented:            a.RoomsRented,
		RoomRent:               a.RoomRent,
		WholesaleFeePct:        a.WholesaleFeePct,
		MarketingCosts:         a.MarketingCosts,
		EarnestMoney:           a.EarnestMoney,
		RefinanceLTV:           Ptr(a.RefinanceLTV),
		RefinanceRate:          Ptr(a.RefinanceRate),
		RefinanceClosingPct:    a.RefinanceClosingPct,
		STRPlatformFeePct:      a.STRPlatformFeePct,
		STRCleaningPerTurnover: a.STRCleaningPerTurnover,
		STRAvgStayNights:       a.STRAvgStayNights,
		LandValuePct:           Ptr(a.LandValuePct),
		CapitalGainsRate:       Ptr(a.CapitalGainsRate),
		RecaptureRate:          Ptr(a.RecaptureRate),
		MarginalTaxRate:        Ptr(a.MarginalTaxRate),
		BrokerCommissionPct:    Ptr(a.BrokerCommissionPct),
		SaleClosingPct:         Ptr(a.SaleClosingPct),
		HoldYears:              a.HoldYears,
		ProjectionYears:        a.ProjectionYears,
	}
}

// Validate re-checks ranges on an already normalized value, e.g. after a
// sensitivity perturbation.
func (a Assumptions) Validate() error {
	return validateStruct(a)
}

func (a *Assumptions) percentFields() []*float64 {
	return []*float64{
		&a.DownPaymentPct, &a.InterestRate, &a.ClosingCostsPct,
		&a.VacancyRate, &a.OccupancyRate,
		&a.PropertyTaxRate, &a.InsuranceRate,
		&a.ManagementPct, &a.MaintenancePct, &a.CapExPct,
		&a.RentGrowth, &a.ExpenseGrowth, &a.Appreciation,
		&a.SellingCostsPct, &a.WholesaleFeePct,
		&a.RefinanceLTV, &a.RefinanceClosingPct,
		&a.STRPlatformFeePct,
		&a.LandValuePct, &a.CapitalGainsRate, &a.RecaptureRate, &a.MarginalTaxRate,
		&a.BrokerCommissionPct, &a.SaleClosingPct,
	}
}

// normalizePercent treats magnitudes above 1 as whole percents.
func normalizePercent(v float64) float64 {
	if math.Abs(v) > 1 {
		return v / 100
	}
	return v
}

// PropertyTaxesAt is the annual tax bill at a purchase price: the fixed
// amount plus the price-based rate.
func (a Assumptions) PropertyTaxesAt(price float64) float64 {
	return a.PropertyTaxes + price*a.PropertyTaxRate
}

// InsuranceAt is the annual premium at a purchase price.
func (a Assumptions) InsuranceAt(price float64) float64 {
	return a.Insurance + price*a.InsuranceRate
}

// FixedAnnualExpenses sums the expense lines that do not move with EGI.
func (a Assumptions) FixedAnnualExpenses(price float64) float64 {
	return a.PropertyTaxesAt(price) + a.InsuranceAt(price) + a.HOA + a.Utilities +
		a.Landscaping + a.PestControl + a.OtherExpenses
}

// CarryingCostsAnnual are the costs an owner pays while a property sits
// vacant during rehab.
func (a Assumptions) CarryingCostsAnnual(price float64) float64 {
	return a.PropertyTaxesAt(price) + a.InsuranceAt(price) + a.HOA + a.Utilities
}

// VariableExpensePct is the share of EGI consumed by percentage lines.
func (a Assumptions) VariableExpensePct() float64 {
	return a.ManagementPct + a.MaintenancePct + a.CapExPct
}

// Horizon is the number of projected years: enough to cover the hold.
func (a Assumptions) Horizon() int {
	if a.HoldYears > a.ProjectionYears {
		return a.HoldYears
	}
	return a.ProjectionYears
}
