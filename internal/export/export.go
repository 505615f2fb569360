package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/rovshanmuradov/dealiq/internal/domain"
	"github.com/rovshanmuradov/dealiq/internal/engine"
	"github.com/rovshanmuradov/dealiq/internal/strategy"
)

// Format represents the export file format
type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
)

// ParseFormat accepts "csv" or "json" in any case.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatCSV, FormatJSON:
		return f, nil
	default:
		return "", fmt.Errorf("unsupported format: %q", s)
	}
}

// Exporter writes rankings and analyses under one output directory.
type Exporter struct {
	logger *zap.Logger
	dir    string
	now    func() time.Time
}

// NewExporter creates an exporter writing into dir.
func NewExporter(dir string, logger *zap.Logger) *Exporter {
	return &Exporter{
		logger: logger,
		dir:    dir,
		now:    time.Now,
	}
}

// Metadata heads every JSON document.
type Metadata struct {
	ExportedAt time.Time `json:"exported_at"`
	RunID      string    `json:"run_id,omitempty"`
	Deal       string    `json:"deal"`
	Strategy   string    `json:"strategy,omitempty"`
	Price      float64   `json:"price"`
}

// RankingHeaders are the ranking CSV columns.
func RankingHeaders() []string {
	return []string{
		"rank", "strategy", "label", "price", "deal_score", "grade", "verdict",
		"iq_target", "annual_cash_flow", "cash_on_cash", "cap_rate", "irr",
		"net_profit", "error",
	}
}

// ProjectionHeaders are the per-year projection CSV columns.
func ProjectionHeaders() []string {
	return []string{
		"year", "gross_rent", "effective_gross_income", "operating_expenses",
		"noi", "debt_service", "interest", "principal", "pre_tax_cash_flow",
		"depreciation", "after_tax_cash_flow", "cumulative_cash_flow",
		"property_value", "loan_balance", "equity", "total_wealth",
	}
}

// ExportRanking writes a ranking as CSV (one row per strategy) or JSON.
func (x *Exporter) ExportRanking(r *engine.Ranking, format Format) (string, error) {
	if r == nil || len(r.Entries) == 0 {
		return "", fmt.Errorf("nothing to export")
	}

	path, err := x.path("ranking", r.Property.Address, "", format)
	if err != nil {
		return "", err
	}

	switch format {
	case FormatCSV:
		rows := make([][]string, 0, len(r.Entries))
		for _, en := range r.Entries {
			rows = append(rows, rankingRow(en, r.Price))
		}
		err = writeCSV(path, RankingHeaders(), rows)
	case FormatJSON:
		err = writeJSON(path, struct {
			Metadata Metadata        `json:"metadata"`
			Ranking  *engine.Ranking `json:"ranking"`
		}{
			Metadata: Metadata{ExportedAt: x.now().UTC(), RunID: r.RunID, Deal: r.Property.Address, Price: r.Price},
			Ranking:  r,
		})
	default:
		err = fmt.Errorf("unsupported format: %s", format)
	}
	if err != nil {
		return "", err
	}

	x.logger.Info("Export written", zap.String("file", path), zap.Int("count", len(r.Entries)))
	return path, nil
}

// ExportProjection writes one CSV row per projected year.
func (x *Exporter) ExportProjection(a *engine.Analysis) (string, error) {
	if a == nil || a.Proforma == nil {
		return "", fmt.Errorf("nothing to export")
	}
	path, err := x.path("projection", a.Proforma.Property.Address, string(a.Strategy), FormatCSV)
	if err != nil {
		return "", err
	}

	years := a.Proforma.Projections.Years
	rows := make([][]string, 0, len(years))
	for _, y := range years {
		rows = append(rows, []string{
			strconv.Itoa(y.Year),
			money(y.GrossRent),
			money(y.EffectiveGrossIncome),
			money(y.OperatingExpenses),
			money(y.NOI),
			money(y.DebtService),
			money(y.Interest),
			money(y.Principal),
			money(y.PreTaxCashFlow),
			money(y.Depreciation),
			money(y.AfterTaxCashFlow),
			money(y.CumulativeCashFlow),
			money(y.PropertyValue),
			money(y.LoanBalance),
			money(y.Equity),
			money(y.TotalWealth),
		})
	}
	if err := writeCSV(path, ProjectionHeaders(), rows); err != nil {
		return "", err
	}

	x.logger.Info("Export written", zap.String("file", path), zap.Int("count", len(rows)))
	return path, nil
}

// ExportProforma writes the full analysis as a JSON document.
func (x *Exporter) ExportProforma(a *engine.Analysis) (string, error) {
	if a == nil || a.Proforma == nil {
		return "", fmt.Errorf("nothing to export")
	}
	path, err := x.path("proforma", a.Proforma.Property.Address, string(a.Strategy), FormatJSON)
	if err != nil {
		return "", err
	}

	doc := struct {
		Metadata Metadata         `json:"metadata"`
		Analysis *engine.Analysis `json:"analysis"`
	}{
		Metadata: Metadata{
			ExportedAt: x.now().UTC(),
			Deal:       a.Proforma.Property.Address,
			Strategy:   string(a.Strategy),
			Price:      a.Price,
		},
		Analysis: a,
	}
	if err := writeJSON(path, doc); err != nil {
		return "", err
	}

	x.logger.Info("Export written", zap.String("file", path))
	return path, nil
}

func rankingRow(en engine.Entry, price float64) []string {
	row := []string{strconv.Itoa(en.Rank), string(en.Strategy), en.Label, money(price)}
	if en.Analysis == nil {
		return append(row, "", "", "", "", "", "", "", "", "", en.Error)
	}

	a := en.Analysis
	ds := a.Proforma.DealScore
	res := &strategy.Result{Strategy: a.Strategy, Price: a.Price, Proforma: a.Proforma, Metrics: a.Metrics}

	cashFlow := ""
	if cf, ok := strategy.CashFlow(a.Metrics); ok {
		cashFlow = money(cf)
	}
	capRate := ""
	if a.Strategy.IsRental() {
		capRate = ratio(domain.Ratio(a.Proforma.Metrics.CapRate))
	}
	irr := ""
	if a.Proforma.Returns.IRR != nil {
		irr = ratio(domain.Ratio(*a.Proforma.Returns.IRR))
	}

	return append(row,
		decimal.NewFromFloat(ds.Score).StringFixed(1),
		ds.Grade,
		ds.Verdict,
		money(a.IQTarget.TargetPrice),
		cashFlow,
		ratio(strategy.CashOnCash(res)),
		capRate,
		irr,
		money(strategy.NetProfit(res)),
		"",
	)
}

// money rounds to cents.
func money(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return ""
	}
	return decimal.NewFromFloat(v).StringFixed(2)
}

// ratio keeps four decimals; infinite ratios export as "inf".
func ratio(r domain.Ratio) string {
	f := r.Float()
	switch {
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	case math.IsNaN(f):
		return ""
	}
	return decimal.NewFromFloat(f).StringFixed(4)
}

var unsafeChars = regexp.MustCompile(`[^a-z0-9]+`)

// slug turns an address into a file-name fragment.
func slug(s string) string {
	s = strings.Trim(unsafeChars.ReplaceAllString(strings.ToLower(s), "_"), "_")
	if len(s) > 40 {
		s = strings.TrimRight(s[:40], "_")
	}
	if s == "" {
		return "deal"
	}
	return s
}

func (x *Exporter) path(kind, deal, strategyID string, format Format) (string, error) {
	if err := os.MkdirAll(x.dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}
	name := kind + "_" + slug(deal)
	if strategyID != "" {
		name += "_" + strategyID
	}
	name += "_" + x.now().Format("20060102_150405") + "." + string(format)
	return filepath.Join(x.dir, name), nil
}

func writeCSV(path string, header []string, rows [][]string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV headers: %w", err)
	}
	if err := writer.WriteAll(rows); err != nil {
		return fmt.Errorf("failed to write CSV rows: %w", err)
	}
	return nil
}

func writeJSON(path string, v interface{}) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create JSON file: %w", err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(v); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}
