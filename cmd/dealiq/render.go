package main

import (
	"fmt"
	"strings"

	"github.com/rovshanmuradov/dealiq/internal/deal"
	"github.com/rovshanmuradov/dealiq/internal/engine"
	"github.com/rovshanmuradov/dealiq/internal/ui"
	"github.com/rovshanmuradov/dealiq/internal/ui/style"
)

func renderRanking(d *deal.Deal, r *engine.Ranking) string {
	var b strings.Builder
	b.WriteString(style.TitleStyle.Render(d.Name))
	b.WriteString(style.MutedStyle.Render(fmt.Sprintf("  %s at %s", d.Property.Address, style.Dollars(r.Price))))
	b.WriteString("\n")

	b.WriteString(ui.RankingTable(r).SetWidth(120).ClearSelection().View())
	b.WriteString("\n")

	for _, rec := range r.Summary.Recommendations {
		b.WriteString("• " + rec + "\n")
	}
	return b.String()
}

func renderAnalysis(d *deal.Deal, a *engine.Analysis) string {
	p := a.Proforma
	ds := p.DealScore

	irr := "n/a"
	if p.Returns.IRR != nil {
		irr = style.Pct(*p.Returns.IRR)
	}
	target := "not achievable"
	if a.IQTarget.Achievable {
		target = fmt.Sprintf("%s (%s under list)", style.Dollars(a.IQTarget.TargetPrice), style.Pct(a.IQTarget.DiscountPct))
	}

	lines := []string{
		style.TitleStyle.Render(d.Name+" · "+a.Strategy.Label()) + "  " + style.GradeStyle(ds.Grade).Render(ds.Grade) + "  " + ds.Verdict,
		style.MutedStyle.Render(fmt.Sprintf("%s at %s", d.Property.Address, style.Dollars(a.Price))),
		fmt.Sprintf("%s %.0f", style.LabelStyle.Render("Deal score"), ds.Score),
		fmt.Sprintf("%s %s", style.LabelStyle.Render("IQ target "), target),
		fmt.Sprintf("%s %s/yr", style.LabelStyle.Render("Cash flow "), style.Signed(p.Metrics.AnnualCashFlow, style.Dollars(p.Metrics.AnnualCashFlow))),
		fmt.Sprintf("%s %s  %s %s  %s %s",
			style.LabelStyle.Render("Cap"), style.Pct(p.Metrics.CapRate),
			style.LabelStyle.Render("CoC"), style.Percent(p.Metrics.CashOnCash),
			style.LabelStyle.Render("IRR"), irr),
	}
	return style.PanelStyle.Render(strings.Join(lines, "\n"))
}
