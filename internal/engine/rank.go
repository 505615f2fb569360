package engine

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/rovshanmuradov/dealiq/internal/domain"
	"github.com/rovshanmuradov/dealiq/internal/logger"
	"github.com/rovshanmuradov/dealiq/internal/strategy"
)

// Entry is one strategy's place in a ranking. Exactly one of Analysis and
// Error is set.
type Entry struct {
	Rank     int               `json:"rank"`
	Strategy domain.StrategyID `json:"strategy"`
	Label    string            `json:"label"`
	Analysis *Analysis         `json:"analysis,omitempty"`
	Error    string            `json:"error,omitempty"`
}

// Score is the entry's deal score, or -1 for failed entries.
func (en Entry) Score() float64 {
	if en.Analysis == nil || en.Analysis.Proforma.DealScore == nil {
		return -1
	}
	return en.Analysis.Proforma.DealScore.Score
}

// Ranking orders all six strategies for one property at one price.
type Ranking struct {
	RunID     string          `json:"run_id"`
	CreatedAt time.Time       `json:"created_at"`
	Property  domain.Property `json:"property"`
	Price     float64         `json:"price"`
	Entries   []Entry         `json:"entries"`
	Summary   Summary         `json:"summary"`
}

// Best returns the top-ranked successful entry.
func (r *Ranking) Best() (Entry, bool) {
	for _, en := range r.Entries {
		if en.Analysis != nil {
			return en, true
		}
	}
	return Entry{}, false
}

// Rank evaluates every strategy at list price.
func (e *Engine) Rank(ctx context.Context, prop domain.Property, asm domain.Assumptions) (*Ranking, error) {
	return e.RankAt(ctx, prop, asm, prop.ListPrice)
}

// RankAt evaluates the six strategies concurrently and orders them by deal
// score. A strategy that fails is kept with its error and ranked last; it
// never cancels the others. Only invalid input or ctx cancellation fail the
// whole call.
func (e *Engine) RankAt(ctx context.Context, prop domain.Property, asm domain.Assumptions, price float64) (*Ranking, error) {
	if err := prop.Validate(); err != nil {
		return nil, err
	}
	if err := asm.Validate(); err != nil {
		return nil, err
	}

	runID := uuid.New().String()
	log := logger.WithOperation(e.logger, "rank").With(zap.String("run_id", runID))
	defer logger.TrackPerformance(log, "rank")()
	log.Info("Ranking started", zap.String("deal", prop.Address), zap.Float64("price", price))

	calcs := strategy.All(e.env)
	entries := make([]Entry, len(calcs))

	var g errgroup.Group
	if e.workers > 0 {
		g.SetLimit(e.workers)
	}
	for i, calc := range calcs {
		g.Go(func() error {
			entry := Entry{Strategy: calc.ID(), Label: calc.ID().Label()}
			slog := log.With(zap.String("strategy", string(calc.ID())))

			a, err := e.evaluate(ctx, calc, prop, asm, price, slog)
			if err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				slog.Warn("Strategy failed", zap.Error(err))
				entry.Error = err.Error()
			} else {
				entry.Analysis = a
			}
			entries[i] = entry
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("rank: %w", err)
	}

	// stable: ties keep display order
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Score() > entries[j].Score()
	})
	for i := range entries {
		entries[i].Rank = i + 1
	}

	r := &Ranking{
		RunID:     runID,
		CreatedAt: time.Now().UTC(),
		Property:  prop,
		Price:     price,
		Entries:   entries,
	}
	r.Summary = summarize(r)

	if best, ok := r.Best(); ok {
		log.Info("Ranking completed",
			zap.String("strategy", string(best.Strategy)),
			zap.Float64("score", best.Score()),
			zap.Int("failed", r.Summary.Failed))
	} else {
		log.Warn("Ranking completed with no successful strategy")
	}
	return r, nil
}
