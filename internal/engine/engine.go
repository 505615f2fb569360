// Package engine is the entry point hosts call: one strategy in full, a
// sensitivity sweep, or a ranking across all six strategies.
package engine

import (
	"context"

	"go.uber.org/zap"

	"github.com/rovshanmuradov/dealiq/internal/config"
	"github.com/rovshanmuradov/dealiq/internal/dealscore"
	"github.com/rovshanmuradov/dealiq/internal/domain"
	"github.com/rovshanmuradov/dealiq/internal/iqtarget"
	"github.com/rovshanmuradov/dealiq/internal/logger"
	"github.com/rovshanmuradov/dealiq/internal/proforma"
	"github.com/rovshanmuradov/dealiq/internal/returns"
	"github.com/rovshanmuradov/dealiq/internal/sensitivity"
	"github.com/rovshanmuradov/dealiq/internal/strategy"
)

// Analysis is one strategy evaluated in full at one price.
type Analysis struct {
	Strategy domain.StrategyID     `json:"strategy"`
	Price    float64               `json:"price"`
	Proforma *proforma.Proforma    `json:"proforma"`
	Metrics  strategy.Metrics      `json:"metrics"`
	IQTarget domain.IQTargetResult `json:"iq_target"`
}

// Engine holds settings only; it keeps no state between calls and is safe
// for concurrent use.
type Engine struct {
	logger  *zap.Logger
	env     strategy.Env
	iq      iqtarget.Options
	weights dealscore.Weights
	offsets []float64
	workers int
}

// New builds an engine from cfg. A nil cfg uses config.Default().
func New(cfg *config.Config, log *zap.Logger) *Engine {
	if cfg == nil {
		cfg = config.Default()
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Engine{
		logger: log.Named("engine"),
		env: strategy.Env{IRR: returns.IRROptions{
			Low:           cfg.IRR.Low,
			High:          cfg.IRR.High,
			Tolerance:     cfg.IRR.Tolerance,
			MaxIterations: cfg.IRR.MaxIterations,
		}},
		iq: iqtarget.Options{
			BracketLow:    cfg.IQTarget.BracketLow,
			BracketHigh:   cfg.IQTarget.BracketHigh,
			Tolerance:     cfg.IQTarget.Tolerance,
			MaxIterations: cfg.IQTarget.MaxIterations,
		},
		weights: dealscore.Weights{
			Discount:      cfg.DealScore.Discount,
			CashOnCash:    cfg.DealScore.CashOnCash,
			CapRate:       cfg.DealScore.CapRate,
			DSCR:          cfg.DealScore.DSCR,
			EquityCapture: cfg.DealScore.EquityCapture,
		},
		offsets: append([]float64(nil), cfg.SensitivityOffsets...),
		workers: cfg.Workers,
	}
}

// Analyze evaluates one strategy at list price.
func (e *Engine) Analyze(ctx context.Context, prop domain.Property, asm domain.Assumptions, id domain.StrategyID) (*Analysis, error) {
	return e.AnalyzeAt(ctx, prop, asm, id, prop.ListPrice)
}

// AnalyzeAt evaluates one strategy at price and attaches the IQ target,
// deal score and sensitivity tables.
func (e *Engine) AnalyzeAt(ctx context.Context, prop domain.Property, asm domain.Assumptions, id domain.StrategyID, price float64) (*Analysis, error) {
	log := logger.WithOperation(e.logger, "analyze").With(zap.String("strategy", string(id)))
	defer logger.TrackPerformance(log, "analyze")()

	calc, err := e.prepare(prop, asm, id)
	if err != nil {
		return nil, err
	}

	a, err := e.evaluate(ctx, calc, prop, asm, price, log)
	if err != nil {
		return nil, err
	}

	tables, err := sensitivity.Run(ctx, calc, prop, asm, price, sensitivity.Options{
		Offsets: e.offsets,
		Workers: e.workers,
	})
	if err != nil {
		return nil, err
	}
	a.Proforma.Sensitivity = tables
	return a, nil
}

// Sensitivity runs the sweep for one strategy at list price.
func (e *Engine) Sensitivity(ctx context.Context, prop domain.Property, asm domain.Assumptions, id domain.StrategyID) (*domain.SensitivityTables, error) {
	return e.SensitivityAt(ctx, prop, asm, id, prop.ListPrice)
}

func (e *Engine) SensitivityAt(ctx context.Context, prop domain.Property, asm domain.Assumptions, id domain.StrategyID, price float64) (*domain.SensitivityTables, error) {
	calc, err := e.prepare(prop, asm, id)
	if err != nil {
		return nil, err
	}
	e.logger.Debug("Sensitivity sweep", zap.String("strategy", string(id)), zap.Int("offsets", len(e.offsets)))
	return sensitivity.Run(ctx, calc, prop, asm, price, sensitivity.Options{
		Offsets: e.offsets,
		Workers: e.workers,
	})
}

// prepare validates inputs at the boundary and resolves the calculator.
func (e *Engine) prepare(prop domain.Property, asm domain.Assumptions, id domain.StrategyID) (strategy.Calculator, error) {
	if err := prop.Validate(); err != nil {
		return nil, err
	}
	if err := asm.Validate(); err != nil {
		return nil, err
	}
	return strategy.New(id, e.env)
}

// evaluate runs the strategy, its IQ target and its deal score.
func (e *Engine) evaluate(ctx context.Context, calc strategy.Calculator, prop domain.Property, asm domain.Assumptions, price float64, log *zap.Logger) (*Analysis, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	res, err := calc.Analyze(prop, asm, price)
	if err != nil {
		return nil, err
	}

	target, err := iqtarget.Solve(calc, prop, asm, e.iq)
	if err != nil {
		return nil, err
	}
	if !target.Converged {
		log.Warn("IQ target search hit its iteration limit",
			zap.Int("iterations", target.Iterations),
			zap.Float64("target_price", target.TargetPrice))
	}

	score := dealscore.Score(dealscore.FromResult(res, target), e.weights)
	res.Proforma.DealScore = &score

	log.Debug("Strategy analyzed",
		zap.Float64("price", price),
		zap.Float64("score", score.Score),
		zap.String("grade", score.Grade),
		zap.Float64("iq_target", target.TargetPrice))

	return &Analysis{
		Strategy: calc.ID(),
		Price:    price,
		Proforma: res.Proforma,
		Metrics:  res.Metrics,
		IQTarget: target,
	}, nil
}
