package domain

import (
	"errors"
	"fmt"
)

// ErrUnknownStrategy is returned for strategy ids outside the six supported ones.
var ErrUnknownStrategy = errors.New("unknown strategy")

// InvalidInputError rejects a Property or Assumptions value before computation.
type InvalidInputError struct {
	Field  string
	Reason string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid input: %s: %s", e.Field, e.Reason)
}

// InvalidLoanTermsError is raised by the amortization module.
type InvalidLoanTermsError struct {
	Principal float64
	Rate      float64
	TermYears int
	Reason    string
}

func (e *InvalidLoanTermsError) Error() string {
	return fmt.Sprintf("invalid loan terms (principal=%.2f rate=%.6f term=%dy): %s",
		e.Principal, e.Rate, e.TermYears, e.Reason)
}

// IRRNotFoundError means NPV does not change sign inside the search bracket.
// Callers render the IRR as undefined.
type IRRNotFoundError struct {
	Low     float64
	High    float64
	NPVLow  float64
	NPVHigh float64
}

func (e *IRRNotFoundError) Error() string {
	return fmt.Sprintf("irr not found in [%.2f, %.2f]: npv(low)=%.2f npv(high)=%.2f have the same sign",
		e.Low, e.High, e.NPVLow, e.NPVHigh)
}

// RootNotFoundError means a monotone search target lies outside its bracket.
type RootNotFoundError struct {
	What string
	Low  float64
	High float64
}

func (e *RootNotFoundError) Error() string {
	return fmt.Sprintf("%s: no root in [%.2f, %.2f]", e.What, e.Low, e.High)
}

// NonConvergenceError means a numeric search spent its iteration budget.
type NonConvergenceError struct {
	What       string
	Iterations int
	Residual   float64
}

func (e *NonConvergenceError) Error() string {
	return fmt.Sprintf("%s did not converge after %d iterations (residual %.6g)",
		e.What, e.Iterations, e.Residual)
}
