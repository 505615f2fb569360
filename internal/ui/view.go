package ui

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/rovshanmuradov/dealiq/internal/engine"
	"github.com/rovshanmuradov/dealiq/internal/strategy"
	"github.com/rovshanmuradov/dealiq/internal/ui/component"
	"github.com/rovshanmuradov/dealiq/internal/ui/style"
)

const sparkWidth = 30

// RankingTable renders a ranking as a table, rows colored by grade.
func RankingTable(r *engine.Ranking) *component.Table {
	t := newRankingTable()
	fillRankingTable(t, r)
	return t
}

func newRankingTable() *component.Table {
	return component.NewTable().
		AddColumn("#", 2, lipgloss.Right).
		AddColumn("Strategy", 18, lipgloss.Left).
		AddColumn("Score", 5, lipgloss.Right).
		AddColumn("Grade", 5, lipgloss.Center).
		AddColumn("Verdict", 0, lipgloss.Left).
		AddColumn("IQ Target", 11, lipgloss.Right).
		AddColumn("Cash Flow/yr", 12, lipgloss.Right).
		AddColumn("CoC", 8, lipgloss.Right).
		AddColumn("Profit", 11, lipgloss.Right)
}

func fillRankingTable(t *component.Table, r *engine.Ranking) {
	palette := style.DefaultPalette()
	rows := make([][]string, len(r.Entries))
	for i, en := range r.Entries {
		rows[i] = rankingRow(en)
	}
	t.SetRows(rows)

	for i, en := range r.Entries {
		color := palette.TextMuted
		if en.Analysis != nil {
			color = palette.Grade(en.Analysis.Proforma.DealScore.Grade)
		}
		t.SetRowStyle(i, style.TableRowStyle.Foreground(color))
	}
}

func rankingRow(en engine.Entry) []string {
	row := []string{fmt.Sprint(en.Rank), en.Label}
	if en.Analysis == nil {
		return append(row, "-", "-", "error: "+en.Error, "-", "-", "-", "-")
	}

	a := en.Analysis
	ds := a.Proforma.DealScore
	res := &strategy.Result{Strategy: a.Strategy, Price: a.Price, Proforma: a.Proforma, Metrics: a.Metrics}

	cashFlow := "-"
	if cf, ok := strategy.CashFlow(a.Metrics); ok {
		cashFlow = style.Dollars(cf)
	}
	target := "n/a"
	if a.IQTarget.Achievable {
		target = style.Dollars(a.IQTarget.TargetPrice)
	}

	return append(row,
		fmt.Sprintf("%.0f", ds.Score),
		ds.Grade,
		ds.Verdict,
		target,
		cashFlow,
		style.Percent(strategy.CashOnCash(res)),
		style.Dollars(strategy.NetProfit(res)),
	)
}

// View renders the ranking screen.
func (m *Model) View() string {
	var b strings.Builder

	b.WriteString(style.HeaderStyle.Render("dealiq · " + m.deal.Name))
	b.WriteString("\n")
	b.WriteString(m.inputsView())
	b.WriteString("\n\n")

	switch {
	case m.ranking == nil && m.err != nil:
		b.WriteString(style.ErrorStyle.Render("✗ " + m.err.Error()))
	case m.ranking == nil:
		b.WriteString(style.MutedStyle.Render("Ranking strategies…"))
	default:
		b.WriteString(m.table.View())
		b.WriteString("\n")
		b.WriteString(style.AdaptiveJoinHorizontal(m.width, m.detailView(), m.summaryView()))
	}

	if m.ranking != nil && m.err != nil {
		b.WriteString("\n")
		b.WriteString(style.ErrorStyle.Render("✗ " + m.err.Error()))
	}
	if m.status != "" {
		b.WriteString("\n")
		b.WriteString(style.SuccessStyle.Render(m.status))
	}
	for _, entry := range m.tail {
		b.WriteString("\n")
		b.WriteString(style.MutedStyle.Render(fmt.Sprintf("%s %-5s %s",
			entry.Timestamp.Format("15:04:05"), entry.Level, entry.Message)))
	}

	b.WriteString("\n")
	b.WriteString(style.HelpStyle.Render(m.help.View(m.keys)))
	return b.String()
}

func (m *Model) inputsView() string {
	in := m.Inputs()
	field := func(label, value string, steps int) string {
		s := style.LabelStyle.Render(label+" ") + value
		if steps != 0 {
			s += style.InfoStyle.Render(fmt.Sprintf(" (%+d)", steps))
		}
		return s
	}

	parts := []string{
		field("Price", style.Dollars(in.Price), m.adj.Price),
		field("Rate", fmt.Sprintf("%.3f%%", in.InterestRate*100), m.adj.Rate),
		field("Rent", style.Dollars(in.MonthlyRent)+"/mo", m.adj.Rent),
		field("Vacancy", fmt.Sprintf("%.1f%%", in.VacancyRate*100), m.adj.Vacancy),
	}
	line := strings.Join(parts, style.MutedStyle.Render("  │  "))
	if m.pending {
		line += "  " + style.WarningStyle.Render("⟳ computing")
	}
	return style.MutedStyle.Render(m.deal.Property.Address) + "\n" + line
}

func (m *Model) detailView() string {
	en, ok := m.Selected()
	if !ok || en.Analysis == nil {
		return style.PanelStyle.Render(style.MutedStyle.Render("No analysis for this strategy"))
	}

	a := en.Analysis
	p := a.Proforma
	ds := p.DealScore

	var lines []string
	lines = append(lines,
		style.TitleStyle.Render(en.Label)+"  "+style.GradeStyle(ds.Grade).Render(ds.Grade)+"  "+ds.Verdict)

	target := a.IQTarget
	if target.Achievable {
		lines = append(lines, fmt.Sprintf("%s %s (%s under list)",
			style.LabelStyle.Render("IQ target"), style.Dollars(target.TargetPrice), style.Pct(target.DiscountPct)))
	} else {
		lines = append(lines, style.LabelStyle.Render("IQ target")+" not achievable")
	}
	if target.Rationale != "" {
		lines = append(lines, style.MutedStyle.Render(target.Rationale))
	}

	irr := "n/a"
	if p.Returns.IRR != nil {
		irr = style.Pct(*p.Returns.IRR)
	}
	metrics := fmt.Sprintf("%s %s  %s %s  %s %s",
		style.LabelStyle.Render("Cap"), style.Pct(p.Metrics.CapRate),
		style.LabelStyle.Render("DSCR"), style.Multiple(p.Metrics.DSCR),
		style.LabelStyle.Render("IRR"), irr)
	if a.Strategy.IsRental() {
		lines = append(lines, metrics)
	} else {
		lines = append(lines, fmt.Sprintf("%s %s", style.LabelStyle.Render("IRR"), irr))
	}

	if years := p.Projections.Years; len(years) > 1 {
		cash := make([]float64, len(years))
		equity := make([]float64, len(years))
		for i, y := range years {
			cash[i] = y.PreTaxCashFlow
			equity[i] = y.Equity
		}
		palette := style.DefaultPalette()
		lines = append(lines,
			style.LabelStyle.Render("Cash flow ")+component.NewSparkline(sparkWidth).SetData(cash).ShowText(true).View(),
			style.LabelStyle.Render("Equity    ")+component.NewSparkline(sparkWidth).SetData(equity).SetColor(palette.Success).ShowText(true).View(),
		)
	}

	return style.ActivePanelStyle.Render(strings.Join(lines, "\n"))
}

func (m *Model) summaryView() string {
	s := m.ranking.Summary
	lines := []string{
		style.SubHeaderStyle.Render("Summary"),
		fmt.Sprintf("%d evaluated · %d viable · %d cash flowing", s.Evaluated, s.Viable, s.CashFlowing),
	}
	if s.Failed > 0 {
		lines = append(lines, style.ErrorStyle.Render(fmt.Sprintf("%d failed", s.Failed)))
	}
	for _, rec := range s.Recommendations {
		lines = append(lines, "• "+rec)
	}
	return style.PanelStyle.Render(strings.Join(lines, "\n"))
}

func exportStatus(paths []string) string {
	names := make([]string, len(paths))
	for i, p := range paths {
		names[i] = filepath.Base(p)
	}
	return "💾 Wrote " + strings.Join(names, ", ")
}
