// Package ui is the interactive ranking screen: one deal, six strategies,
// and key bindings that nudge the inputs and re-rank.
package ui

import (
	"context"
	"errors"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/rovshanmuradov/dealiq/internal/deal"
	"github.com/rovshanmuradov/dealiq/internal/domain"
	"github.com/rovshanmuradov/dealiq/internal/engine"
	"github.com/rovshanmuradov/dealiq/internal/export"
	"github.com/rovshanmuradov/dealiq/internal/logger"
	"github.com/rovshanmuradov/dealiq/internal/sensitivity"
	"github.com/rovshanmuradov/dealiq/internal/ui/component"
	"github.com/rovshanmuradov/dealiq/internal/ui/state"
)

// Nudge sizes per key press.
const (
	PriceStep   = 0.01    // share of the deal's purchase price
	RateStep    = 0.00125 // absolute, 1/8 point
	RentStep    = 0.02    // share of the base rent
	VacancyStep = 0.01    // absolute

	logTail     = 3
	logInterval = time.Second
)

// Ranker is the engine surface the screen needs.
type Ranker interface {
	RankAt(ctx context.Context, prop domain.Property, asm domain.Assumptions, price float64) (*engine.Ranking, error)
}

// Exporter writes the current ranking and the selected projection.
type Exporter interface {
	ExportRanking(r *engine.Ranking, format export.Format) (string, error)
	ExportProjection(a *engine.Analysis) (string, error)
}

// LogSource supplies the log tail shown under the table.
type LogSource interface {
	GetRecentLogs(limit int) []logger.LogEntry
}

// Options wires the model's collaborators. Ranker is required.
type Options struct {
	Ranker   Ranker
	Exporter Exporter
	Logs     LogSource
	Cache    *state.RankingCache
	Logger   *zap.Logger
}

// Adjustments count key presses per input; zero everywhere is the deal as
// loaded. Counting steps instead of summing floats keeps repeated nudges
// exact and cache keys stable.
type Adjustments struct {
	Price   int
	Rate    int
	Rent    int
	Vacancy int
}

// Model is the bubbletea model for the ranking screen.
type Model struct {
	ctx    context.Context
	deal   *deal.Deal
	ranker Ranker
	export Exporter
	logs   LogSource
	cache  *state.RankingCache
	logger *zap.Logger

	adj     Adjustments
	gen     uint64
	cancel  context.CancelFunc
	pending bool

	ranking *engine.Ranking
	err     error
	status  string
	tail    []logger.LogEntry

	table *component.Table
	keys  KeyMap
	help  help.Model

	width  int
	height int
}

// NewModel creates the ranking screen for one deal.
func NewModel(ctx context.Context, d *deal.Deal, opts Options) *Model {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Cache == nil {
		opts.Cache = state.NewRankingCache(opts.Logger)
	}

	return &Model{
		ctx:    ctx,
		deal:   d,
		ranker: opts.Ranker,
		export: opts.Exporter,
		logs:   opts.Logs,
		cache:  opts.Cache,
		logger: opts.Logger.Named("ui"),
		table:  newRankingTable(),
		keys:   DefaultKeyMap(),
		help:   help.New(),
	}
}

// Init starts the first ranking and the log tail ticker.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.recompute(), m.tickLogs())
}

// Update handles key presses and command results.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		m.table.SetWidth(msg.Width - 4)
		return m, nil

	case tea.KeyMsg:
		return m, m.handleKey(msg)

	case RankedMsg:
		m.applyRanked(msg)
		return m, nil

	case ExportedMsg:
		if msg.Err != nil {
			m.status = ""
			m.err = msg.Err
		} else {
			m.status = exportStatus(msg.Paths)
		}
		return m, nil

	case logTickMsg:
		if m.logs != nil {
			m.tail = m.logs.GetRecentLogs(logTail)
		}
		return m, m.tickLogs()
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.stop()
		return tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	case key.Matches(msg, m.keys.Up):
		m.table.MoveUp()
	case key.Matches(msg, m.keys.Down):
		m.table.MoveDown()

	case key.Matches(msg, m.keys.PriceUp):
		return m.nudge(func(a *Adjustments) { a.Price++ })
	case key.Matches(msg, m.keys.PriceDown):
		return m.nudge(func(a *Adjustments) { a.Price-- })
	case key.Matches(msg, m.keys.RateUp):
		return m.nudge(func(a *Adjustments) { a.Rate++ })
	case key.Matches(msg, m.keys.RateDown):
		return m.nudge(func(a *Adjustments) { a.Rate-- })
	case key.Matches(msg, m.keys.RentUp):
		return m.nudge(func(a *Adjustments) { a.Rent++ })
	case key.Matches(msg, m.keys.RentDown):
		return m.nudge(func(a *Adjustments) { a.Rent-- })
	case key.Matches(msg, m.keys.VacancyUp):
		return m.nudge(func(a *Adjustments) { a.Vacancy++ })
	case key.Matches(msg, m.keys.VacancyDown):
		return m.nudge(func(a *Adjustments) { a.Vacancy-- })
	case key.Matches(msg, m.keys.Reset):
		return m.nudge(func(a *Adjustments) { *a = Adjustments{} })

	case key.Matches(msg, m.keys.Export):
		return m.exportCmd(export.FormatCSV)
	case key.Matches(msg, m.keys.ExportJSON):
		return m.exportCmd(export.FormatJSON)
	}
	return nil
}

// nudge applies one adjustment and re-ranks. Nudges that would leave the
// valid input range are ignored.
func (m *Model) nudge(apply func(*Adjustments)) tea.Cmd {
	next := m.adj
	apply(&next)
	if !m.inRange(next) {
		return nil
	}
	m.adj = next
	return m.recompute()
}

func (m *Model) inRange(a Adjustments) bool {
	base := m.deal.Assumptions
	rate := base.InterestRate + float64(a.Rate)*RateStep
	vacancy := base.VacancyRate + float64(a.Vacancy)*VacancyStep
	return 1+float64(a.Price)*PriceStep > 0 &&
		1+float64(a.Rent)*RentStep >= 0 &&
		rate >= -1e-9 && rate < 1 &&
		vacancy >= -1e-9 && vacancy <= 1+1e-9
}

// Inputs are the current values after adjustments.
func (m *Model) Inputs() state.Inputs {
	base := m.deal.Assumptions
	return state.Inputs{
		Price:        m.deal.PurchasePrice() * (1 + float64(m.adj.Price)*PriceStep),
		InterestRate: max(base.InterestRate+float64(m.adj.Rate)*RateStep, 0),
		MonthlyRent:  base.MonthlyRent * (1 + float64(m.adj.Rent)*RentStep),
		VacancyRate:  min(max(base.VacancyRate+float64(m.adj.Vacancy)*VacancyStep, 0), 1),
	}
}

// recompute starts a ranking for the current inputs under a new generation
// and cancels the one in flight. A cache hit is applied immediately.
func (m *Model) recompute() tea.Cmd {
	m.gen++
	gen := m.gen
	in := m.Inputs()

	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}

	if r, ok := m.cache.Get(in); ok {
		m.applyRanked(RankedMsg{Gen: gen, Inputs: in, Ranking: r})
		return nil
	}

	prop := m.deal.Property
	asm := m.deal.Assumptions
	_, asm = sensitivity.Set("", asm, in.Price, domain.VarInterestRate, in.InterestRate)
	_, asm = sensitivity.Set("", asm, in.Price, domain.VarRent, in.MonthlyRent)
	_, asm = sensitivity.Set("", asm, in.Price, domain.VarVacancy, in.VacancyRate)

	ctx, cancel := context.WithCancel(m.ctx)
	m.cancel = cancel
	m.pending = true
	ranker, cache, log := m.ranker, m.cache, m.logger

	return func() tea.Msg {
		defer cancel()
		r, err := ranker.RankAt(ctx, prop, asm, in.Price)
		if err == nil {
			cache.Put(in, r)
		} else if !errors.Is(err, context.Canceled) {
			log.Warn("Ranking failed", zap.Uint64("gen", gen), zap.Error(err))
		}
		return RankedMsg{Gen: gen, Inputs: in, Ranking: r, Err: err}
	}
}

func (m *Model) applyRanked(msg RankedMsg) {
	if msg.Gen != m.gen {
		m.logger.Debug("Dropped stale ranking", zap.Uint64("gen", msg.Gen), zap.Uint64("current", m.gen))
		return
	}
	m.pending = false
	m.cancel = nil
	if msg.Err != nil {
		m.err = msg.Err
		return
	}

	selected, hadSelection := m.Selected()
	m.ranking = msg.Ranking
	m.err = nil
	fillRankingTable(m.table, msg.Ranking)

	// keep the cursor on the same strategy across re-ranks
	if hadSelection {
		for i, en := range msg.Ranking.Entries {
			if en.Strategy == selected.Strategy {
				m.table.SetSelectedRow(i)
				break
			}
		}
	}
}

// Selected returns the entry under the cursor.
func (m *Model) Selected() (engine.Entry, bool) {
	if m.ranking == nil {
		return engine.Entry{}, false
	}
	i := m.table.SelectedRow()
	if i < 0 || i >= len(m.ranking.Entries) {
		return engine.Entry{}, false
	}
	return m.ranking.Entries[i], true
}

// Ranking is the ranking currently on screen.
func (m *Model) Ranking() *engine.Ranking {
	return m.ranking
}

// Pending reports whether a recompute is in flight.
func (m *Model) Pending() bool {
	return m.pending
}

func (m *Model) exportCmd(format export.Format) tea.Cmd {
	if m.export == nil {
		m.status = "export is not configured"
		return nil
	}
	if m.ranking == nil {
		m.status = "nothing to export yet"
		return nil
	}
	r, x := m.ranking, m.export
	selected, ok := m.Selected()

	return func() tea.Msg {
		path, err := x.ExportRanking(r, format)
		if err != nil {
			return ExportedMsg{Err: err}
		}
		paths := []string{path}
		if ok && selected.Analysis != nil {
			p, err := x.ExportProjection(selected.Analysis)
			if err != nil {
				return ExportedMsg{Paths: paths, Err: err}
			}
			paths = append(paths, p)
		}
		return ExportedMsg{Paths: paths}
	}
}

func (m *Model) tickLogs() tea.Cmd {
	if m.logs == nil {
		return nil
	}
	return tea.Tick(logInterval, func(t time.Time) tea.Msg { return logTickMsg(t) })
}

func (m *Model) stop() {
	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}
}
