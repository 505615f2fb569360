package engine

import (
	"fmt"

	"github.com/rovshanmuradov/dealiq/internal/domain"
	"github.com/rovshanmuradov/dealiq/internal/strategy"
)

// ViableScore is the lowest deal score counted as worth pursuing.
const ViableScore = 55

// Summary condenses a ranking for display.
type Summary struct {
	Best            domain.StrategyID `json:"best,omitempty"`
	BestScore       float64           `json:"best_score"`
	BestGrade       string            `json:"best_grade,omitempty"`
	BestVerdict     string            `json:"best_verdict,omitempty"`
	Evaluated       int               `json:"evaluated"`
	Failed          int               `json:"failed"`
	Viable          int               `json:"viable"`
	CashFlowing     int               `json:"cash_flowing"`
	Recommendations []string          `json:"recommendations"`
}

func summarize(r *Ranking) Summary {
	var s Summary
	for _, en := range r.Entries {
		if en.Analysis == nil {
			s.Failed++
			continue
		}
		s.Evaluated++
		if en.Score() >= ViableScore {
			s.Viable++
		}
		if cf, ok := strategy.CashFlow(en.Analysis.Metrics); ok && cf > 0 {
			s.CashFlowing++
		}
	}

	if best, ok := r.Best(); ok {
		ds := best.Analysis.Proforma.DealScore
		s.Best = best.Strategy
		s.BestScore = ds.Score
		s.BestGrade = ds.Grade
		s.BestVerdict = ds.Verdict
	}
	s.Recommendations = recommendations(r, s)
	return s
}

func recommendations(r *Ranking, s Summary) []string {
	var recs []string

	best, ok := r.Best()
	if !ok {
		return []string{"No strategy could be evaluated; check the property and assumptions"}
	}

	if s.Viable == 0 {
		recs = append(recs, fmt.Sprintf(
			"No strategy reaches a B grade at $%.0f; renegotiate toward the IQ target or pass", r.Price))
	} else {
		recs = append(recs, fmt.Sprintf("Lead with %s: %s (%s, score %.0f)",
			best.Label, best.Analysis.Proforma.DealScore.Verdict, s.BestGrade, s.BestScore))
	}

	target := best.Analysis.IQTarget
	switch {
	case !target.Achievable:
		recs = append(recs, fmt.Sprintf("%s has no achievable IQ target inside the search range", best.Label))
	case target.TargetPrice < r.Price:
		recs = append(recs, fmt.Sprintf("Offer at or below $%.0f for %s (%.1f%% under list)",
			target.TargetPrice, best.Label, target.DiscountPct*100))
	default:
		recs = append(recs, fmt.Sprintf("%s works at the current price with $%.0f of headroom",
			best.Label, target.TargetPrice-r.Price))
	}

	if s.CashFlowing == 0 {
		var rentals int
		for _, en := range r.Entries {
			if en.Strategy.IsRental() && en.Analysis != nil {
				rentals++
			}
		}
		if rentals > 0 {
			recs = append(recs, "No rental strategy cash flows at this price")
		}
	}

	for _, en := range r.Entries {
		if en.Error != "" {
			recs = append(recs, fmt.Sprintf("%s could not be evaluated: %s", en.Label, en.Error))
		}
	}
	return recs
}
