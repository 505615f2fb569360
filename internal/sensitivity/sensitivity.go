// Package sensitivity reruns a strategy with one input perturbed at a time.
package sensitivity

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/rovshanmuradov/dealiq/internal/domain"
	"github.com/rovshanmuradov/dealiq/internal/strategy"
)

// DefaultOffsets are relative changes applied to each variable.
func DefaultOffsets() []float64 {
	return []float64{-0.20, -0.10, 0, 0.10, 0.20}
}

// Options control the sweep.
type Options struct {
	Offsets []float64
	Workers int
}

// Run evaluates every (variable, offset) pair for calc. Scenario failures
// are recorded on the scenario row; only context cancellation aborts the
// sweep. Rows keep the offset order regardless of completion order.
func Run(ctx context.Context, calc strategy.Calculator, prop domain.Property, asm domain.Assumptions, price float64, opts Options) (*domain.SensitivityTables, error) {
	offsets := opts.Offsets
	if len(offsets) == 0 {
		offsets = DefaultOffsets()
	}
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	variables := domain.SensitivityVariables()
	rows := make([][]domain.SensitivityScenario, len(variables))
	for i := range rows {
		rows[i] = make([]domain.SensitivityScenario, len(offsets))
	}

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for vi, variable := range variables {
		for oi, offset := range offsets {
			g.Go(func() error {
				if err := gCtx.Err(); err != nil {
					return err
				}
				rows[vi][oi] = Scenario(calc, prop, asm, price, variable, offset)
				return nil
			})
		}
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("sensitivity %s: %w", calc.ID(), err)
	}

	tables := &domain.SensitivityTables{}
	for vi, variable := range variables {
		tables.SetTable(variable, rows[vi])
	}
	return tables, nil
}

// Scenario evaluates one perturbation.
func Scenario(calc strategy.Calculator, prop domain.Property, asm domain.Assumptions, price float64, variable string, offset float64) domain.SensitivityScenario {
	row := domain.SensitivityScenario{Variable: variable, ChangePct: offset}

	p, a, value := Perturb(calc.ID(), asm, price, variable, offset)
	row.Value = value

	res, err := calc.Analyze(prop, a, p)
	if err != nil {
		row.IRRError = err.Error()
		return row
	}
	row.IRR = res.Proforma.Returns.IRR
	row.IRRError = res.Proforma.Returns.IRRError
	row.CashOnCash = strategy.CashOnCash(res)
	row.NetProfit = strategy.NetProfit(res)
	return row
}

// Perturb scales one variable by (1 + offset) and returns the price and
// assumptions to rerun with, plus the perturbed headline value. asm is a
// value copy; the caller's assumptions are never touched. A zero offset
// returns the inputs unchanged.
func Perturb(id domain.StrategyID, asm domain.Assumptions, price float64, variable string, offset float64) (float64, domain.Assumptions, float64) {
	value := Headline(id, asm, price, variable)
	if offset == 0 {
		return price, asm, value
	}
	value *= 1 + offset
	price, asm = Set(id, asm, price, variable, value)
	return price, asm, value
}

// Headline is the figure a variable is quoted by. For short-term rentals
// rent means the nightly rate and vacancy means unbooked nights.
func Headline(id domain.StrategyID, asm domain.Assumptions, price float64, variable string) float64 {
	switch variable {
	case domain.VarPurchasePrice:
		return price
	case domain.VarInterestRate:
		return asm.InterestRate
	case domain.VarRent:
		if id == domain.StrategySTR {
			return asm.AverageDailyRate
		}
		return asm.MonthlyRent
	case domain.VarVacancy:
		if id == domain.StrategySTR {
			return 1 - asm.OccupancyRate
		}
		return asm.VacancyRate
	case domain.VarAppreciation:
		return asm.Appreciation
	}
	return 0
}

// Set moves a variable's headline to value and carries the change to the
// inputs that track it: a refinance rate quoted at the purchase rate, and
// every rent line by the same factor as the headline rent.
func Set(id domain.StrategyID, asm domain.Assumptions, price float64, variable string, value float64) (float64, domain.Assumptions) {
	switch variable {
	case domain.VarPurchasePrice:
		price = value

	case domain.VarInterestRate:
		if asm.RefinanceRate == asm.InterestRate {
			asm.RefinanceRate = value
		}
		asm.InterestRate = value

	case domain.VarRent:
		headline := Headline(id, asm, price, variable)
		if headline == 0 {
			if id == domain.StrategySTR {
				asm.AverageDailyRate = value
			} else {
				asm.MonthlyRent = value
			}
			break
		}
		k := value / headline
		asm.MonthlyRent *= k
		asm.RoomRent *= k
		asm.AverageDailyRate *= k
		if id == domain.StrategySTR {
			asm.AverageDailyRate = value
		} else {
			asm.MonthlyRent = value
		}

	case domain.VarVacancy:
		if id == domain.StrategySTR {
			if unbooked := 1 - asm.OccupancyRate; unbooked > 0 {
				asm.VacancyRate *= value / unbooked
			}
			asm.OccupancyRate = min(1, max(0, 1-value))
			break
		}
		asm.VacancyRate = value

	case domain.VarAppreciation:
		asm.Appreciation = value
	}
	return price, asm
}
