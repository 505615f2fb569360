package export

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"

	"github.com/rovshanmuradov/dealiq/internal/config"
	"github.com/rovshanmuradov/dealiq/internal/domain"
	"github.com/rovshanmuradov/dealiq/internal/engine"
)

func fixture(t *testing.T) (domain.Property, domain.Assumptions) {
	t.Helper()
	arv := 350000.0
	prop := domain.Property{Address: "12 Oak St, Austin TX", Bedrooms: 3, SquareFeet: 1500, ListPrice: 300000, ARV: &arv}
	asm, err := domain.NewAssumptions(domain.AssumptionsInput{
		DownPaymentPct: 0.2,
		InterestRate:   0.07,
		MonthlyRent:    2200,
		VacancyRate:    0.05,
		PropertyTaxes:  3600,
		Insurance:      1200,
		MaintenancePct: 0.05,
		RehabCost:      25000,
		OccupancyRate:  0.6,
	})
	require.NoError(t, err)
	return prop, asm
}

func newExporter(t *testing.T) *Exporter {
	x := NewExporter(t.TempDir(), zaptest.NewLogger(t))
	x.now = func() time.Time { return time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC) }
	return x
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return records
}

func TestExportRankingCSV(t *testing.T) {
	prop, asm := fixture(t)
	r, err := engine.New(config.Default(), zap.NewNop()).Rank(context.Background(), prop, asm)
	require.NoError(t, err)

	x := newExporter(t)
	path, err := x.ExportRanking(r, FormatCSV)
	require.NoError(t, err)
	assert.Equal(t, "ranking_12_oak_st_austin_tx_20260301_093000.csv", filepath.Base(path))

	records := readCSV(t, path)
	require.Len(t, records, 7)
	assert.Equal(t, RankingHeaders(), records[0])
	for i, row := range records[1:] {
		require.Len(t, row, len(RankingHeaders()))
		assert.Equal(t, string(r.Entries[i].Strategy), row[1])
		assert.Equal(t, "300000.00", row[3])
	}
}

func TestExportRankingJSON(t *testing.T) {
	prop, asm := fixture(t)
	r, err := engine.New(config.Default(), zap.NewNop()).Rank(context.Background(), prop, asm)
	require.NoError(t, err)

	path, err := newExporter(t).ExportRanking(r, FormatJSON)
	require.NoError(t, err)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	var doc struct {
		Metadata Metadata `json:"metadata"`
		Ranking  struct {
			RunID   string            `json:"run_id"`
			Entries []json.RawMessage `json:"entries"`
		} `json:"ranking"`
	}
	require.NoError(t, json.Unmarshal(raw, &doc))
	assert.Equal(t, r.RunID, doc.Metadata.RunID)
	assert.Equal(t, r.RunID, doc.Ranking.RunID)
	assert.Len(t, doc.Ranking.Entries, 6)
}

func TestExportProjectionAndProforma(t *testing.T) {
	prop, asm := fixture(t)
	a, err := engine.New(config.Default(), zap.NewNop()).Analyze(context.Background(), prop, asm, domain.StrategyLTR)
	require.NoError(t, err)
	x := newExporter(t)

	path, err := x.ExportProjection(a)
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(path, "_ltr_20260301_093000.csv"))

	records := readCSV(t, path)
	require.Len(t, records, len(a.Proforma.Projections.Years)+1)
	assert.Equal(t, "1", records[1][0])
	assert.Equal(t, money(a.Proforma.Projections.Years[0].NOI), records[1][4])

	path, err = x.ExportProforma(a)
	require.NoError(t, err)
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"strategy": "ltr"`)
	assert.Contains(t, string(raw), `"iq_target"`)
	assert.Contains(t, string(raw), `"sensitivity"`)
}

func TestExportErrors(t *testing.T) {
	x := newExporter(t)

	_, err := x.ExportRanking(nil, FormatCSV)
	assert.Error(t, err)
	_, err = x.ExportRanking(&engine.Ranking{Entries: []engine.Entry{{Strategy: domain.StrategyLTR}}}, "xml")
	assert.ErrorContains(t, err, "unsupported format")
	_, err = x.ExportProforma(nil)
	assert.Error(t, err)
}

func TestFormatting(t *testing.T) {
	assert.Equal(t, "1597.76", money(1597.755))
	assert.Equal(t, "-134.71", money(-134.7149))
	assert.Equal(t, "", money(domain.Inf().Float()))
	assert.Equal(t, "inf", ratio(domain.Inf()))
	assert.Equal(t, "0.0650", ratio(0.065))

	assert.Equal(t, "12_oak_st", slug("12 Oak St."))
	assert.Equal(t, "deal", slug("!!!"))

	f, err := ParseFormat(" JSON ")
	require.NoError(t, err)
	assert.Equal(t, FormatJSON, f)
	_, err = ParseFormat("xlsx")
	assert.Error(t, err)
}
