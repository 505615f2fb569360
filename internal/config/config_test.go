package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadConfig_FileOverrides(t *testing.T) {
	path := writeFile(t, "dealiq.yaml", `
debug_logging: true
workers: 2
hold_years: 7
sensitivity_offsets: [-0.15, 0, 0.15]
iq_target:
  tolerance: 0.5
tax:
  capital_gains_rate: 0.2
deal_score:
  discount: 0.5
`)
	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.True(t, cfg.DebugLogging)
	assert.Equal(t, 2, cfg.Workers)
	assert.Equal(t, 7, cfg.HoldYears)
	assert.Equal(t, []float64{-0.15, 0, 0.15}, cfg.SensitivityOffsets)
	assert.Equal(t, 0.5, cfg.IQTarget.Tolerance)
	assert.Equal(t, 1.1, cfg.IQTarget.BracketHigh)
	assert.Equal(t, 0.2, cfg.Tax.CapitalGainsRate)
	assert.Equal(t, 0.5, cfg.DealScore.Discount)
	assert.Equal(t, 0.20, cfg.DealScore.CashOnCash)

	d := cfg.Defaults()
	assert.Equal(t, 7, d.HoldYears)
	assert.Equal(t, 0.2, d.CapitalGainsRate)
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("DEALIQ_WORKERS", "3")
	t.Setenv("DEALIQ_BRRRR_REFINANCE_LTV", "0.7")

	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Workers)
	assert.Equal(t, 0.7, cfg.BRRRR.RefinanceLTV)
}

func TestLoadConfig_Errors(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"negative workers", "workers: -1"},
		{"hold too long", "hold_years: 80"},
		{"bad offset", "sensitivity_offsets: [-1]"},
		{"inverted bracket", "iq_target:\n  bracket_low: 1.2\n  bracket_high: 1.1"},
		{"irr floor", "irr:\n  low: -1"},
		{"rate above one", "tax:\n  recapture_rate: 25"},
		{"zero weights", "deal_score:\n  discount: 0\n  cash_on_cash: 0\n  cap_rate: 0\n  dscr: 0\n  equity_capture: 0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig(writeFile(t, "bad.yaml", tt.body))
			assert.Error(t, err)
		})
	}
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read config error")
}

func TestLoadConfig_ZeroWorkersUseDefault(t *testing.T) {
	cfg, err := LoadConfig(writeFile(t, "w.yaml", "workers: 0"))
	require.NoError(t, err)
	assert.Equal(t, DefaultWorkers, cfg.Workers)
}
