package domain

// IQTargetResult is the strategy-specific maximum justified purchase price.
type IQTargetResult struct {
	Strategy          StrategyID     `json:"strategy"`
	TargetPrice       float64        `json:"target_price"`
	ListPrice         float64        `json:"list_price"`
	DiscountAmount    float64        `json:"discount_amount"`
	DiscountPct       float64        `json:"discount_pct"`
	Rationale         string         `json:"rationale"`
	HighlightedMetric string         `json:"highlighted_metric"`
	SecondaryMetric   string         `json:"secondary_metric"`
	Achievable        bool           `json:"achievable"`
	Converged         bool           `json:"converged"`
	Iterations        int            `json:"iterations"`
	Extras            IQTargetExtras `json:"extras"`
}

// IQTargetExtras carries the strategy-specific figures evaluated at the
// target price. Fields not relevant to a strategy stay zero.
type IQTargetExtras struct {
	CashFlow        float64 `json:"cash_flow"`
	CashRecoveryPct float64 `json:"cash_recovery_pct,omitempty"`
	NetProfit       float64 `json:"net_profit,omitempty"`
	ROI             float64 `json:"roi,omitempty"`
	AssignmentFee   float64 `json:"assignment_fee,omitempty"`
}

// SensitivityScenario is one perturbed recomputation.
type SensitivityScenario struct {
	Variable   string   `json:"variable"`
	ChangePct  float64  `json:"change_pct"`
	Value      float64  `json:"value"`
	IRR        *float64 `json:"irr"`
	IRRError   string   `json:"irr_error,omitempty"`
	CashOnCash Ratio    `json:"cash_on_cash"`
	NetProfit  float64  `json:"net_profit"`
}

// Sensitivity variable names, also the JSON array keys.
const (
	VarPurchasePrice = "purchase_price"
	VarInterestRate  = "interest_rate"
	VarRent          = "rent"
	VarVacancy       = "vacancy"
	VarAppreciation  = "appreciation"
)

// SensitivityVariables lists the five perturbed inputs in output order.
func SensitivityVariables() []string {
	return []string{VarPurchasePrice, VarInterestRate, VarRent, VarVacancy, VarAppreciation}
}

// SensitivityTables holds one array per perturbed variable.
type SensitivityTables struct {
	PurchasePrice []SensitivityScenario `json:"purchase_price"`
	InterestRate  []SensitivityScenario `json:"interest_rate"`
	Rent          []SensitivityScenario `json:"rent"`
	Vacancy       []SensitivityScenario `json:"vacancy"`
	Appreciation  []SensitivityScenario `json:"appreciation"`
}

// Table returns the array for a variable name.
func (t *SensitivityTables) Table(variable string) []SensitivityScenario {
	switch variable {
	case VarPurchasePrice:
		return t.PurchasePrice
	case VarInterestRate:
		return t.InterestRate
	case VarRent:
		return t.Rent
	case VarVacancy:
		return t.Vacancy
	case VarAppreciation:
		return t.Appreciation
	}
	return nil
}

// SetTable stores the array for a variable name.
func (t *SensitivityTables) SetTable(variable string, rows []SensitivityScenario) {
	switch variable {
	case VarPurchasePrice:
		t.PurchasePrice = rows
	case VarInterestRate:
		t.InterestRate = rows
	case VarRent:
		t.Rent = rows
	case VarVacancy:
		t.Vacancy = rows
	case VarAppreciation:
		t.Appreciation = rows
	}
}

// DealScore is the composite 0-100 rating with grade and verdict.
type DealScore struct {
	Score               float64         `json:"score"`
	Grade               string          `json:"grade"`
	Verdict             string          `json:"verdict"`
	BreakevenPrice      float64         `json:"breakeven_price"`
	DiscountRequiredPct float64         `json:"discount_required_pct"`
	Components          ScoreComponents `json:"components"`
}

// ScoreComponents are the clipped sub-scores; nil means not applicable.
type ScoreComponents struct {
	Discount      *float64 `json:"discount,omitempty"`
	CashOnCash    *float64 `json:"cash_on_cash,omitempty"`
	CapRate       *float64 `json:"cap_rate,omitempty"`
	DSCR          *float64 `json:"dscr,omitempty"`
	EquityCapture *float64 `json:"equity_capture,omitempty"`
}
