// =================================
// File: internal/config/config.go
// =================================
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/rovshanmuradov/dealiq/internal/domain"
)

type Config struct {
	DebugLogging       bool      `mapstructure:"debug_logging"`
	Workers            int       `mapstructure:"workers"`
	ProjectionYears    int       `mapstructure:"projection_years"`
	HoldYears          int       `mapstructure:"hold_years"`
	SensitivityOffsets []float64 `mapstructure:"sensitivity_offsets"`
	ExportDir          string    `mapstructure:"export_dir"`

	IQTarget  IQTargetConfig `mapstructure:"iq_target"`
	IRR       IRRConfig      `mapstructure:"irr"`
	Tax       TaxConfig      `mapstructure:"tax"`
	Exit      ExitConfig     `mapstructure:"exit"`
	BRRRR     BRRRRConfig    `mapstructure:"brrrr"`
	DealScore ScoreWeights   `mapstructure:"deal_score"`
	Log       LogConfig      `mapstructure:"log"`
}

// IQTargetConfig bounds the breakeven price search. Bracket ends are
// multiples of list price; tolerance is in dollars of annual cash flow.
type IQTargetConfig struct {
	BracketLow    float64 `mapstructure:"bracket_low"`
	BracketHigh   float64 `mapstructure:"bracket_high"`
	Tolerance     float64 `mapstructure:"tolerance"`
	MaxIterations int     `mapstructure:"max_iterations"`
}

type IRRConfig struct {
	Low           float64 `mapstructure:"low"`
	High          float64 `mapstructure:"high"`
	Tolerance     float64 `mapstructure:"tolerance"`
	MaxIterations int     `mapstructure:"max_iterations"`
}

type TaxConfig struct {
	LandValuePct     float64 `mapstructure:"land_value_pct"`
	CapitalGainsRate float64 `mapstructure:"capital_gains_rate"`
	RecaptureRate    float64 `mapstructure:"recapture_rate"`
	MarginalTaxRate  float64 `mapstructure:"marginal_tax_rate"`
}

type ExitConfig struct {
	BrokerCommissionPct float64 `mapstructure:"broker_commission_pct"`
	SaleClosingPct      float64 `mapstructure:"sale_closing_pct"`
}

type BRRRRConfig struct {
	RefinanceLTV float64 `mapstructure:"refinance_ltv"`
}

type ScoreWeights struct {
	Discount      float64 `mapstructure:"discount"`
	CashOnCash    float64 `mapstructure:"cash_on_cash"`
	CapRate       float64 `mapstructure:"cap_rate"`
	DSCR          float64 `mapstructure:"dscr"`
	EquityCapture float64 `mapstructure:"equity_capture"`
}

// LogConfig controls the rotating JSON log; an empty file disables it.
type LogConfig struct {
	File       string `mapstructure:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
	Compress   bool   `mapstructure:"compress"`
}

const (
	DefaultWorkers         = 6
	DefaultProjectionYears = 10
	DefaultHoldYears       = 10
	DefaultExportDir       = "exports"

	envPrefix = "DEALIQ"
)

// Default returns the built-in configuration used when no file is given.
func Default() *Config {
	std := domain.StandardDefaults()
	return &Config{
		DebugLogging:       false,
		Workers:            DefaultWorkers,
		ProjectionYears:    DefaultProjectionYears,
		HoldYears:          DefaultHoldYears,
		SensitivityOffsets: []float64{-0.20, -0.10, 0, 0.10, 0.20},
		ExportDir:          DefaultExportDir,
		IQTarget: IQTargetConfig{
			BracketLow:    0.5,
			BracketHigh:   1.1,
			Tolerance:     1,
			MaxIterations: 100,
		},
		IRR: IRRConfig{
			Low:           -0.99,
			High:          10,
			Tolerance:     1e-6,
			MaxIterations: 100,
		},
		Tax: TaxConfig{
			LandValuePct:     std.LandValuePct,
			CapitalGainsRate: std.CapitalGainsRate,
			RecaptureRate:    std.RecaptureRate,
		},
		Exit: ExitConfig{
			BrokerCommissionPct: std.BrokerCommissionPct,
			SaleClosingPct:      std.SaleClosingPct,
		},
		BRRRR: BRRRRConfig{RefinanceLTV: std.RefinanceLTV},
		DealScore: ScoreWeights{
			Discount:      0.35,
			CashOnCash:    0.20,
			CapRate:       0.15,
			DSCR:          0.15,
			EquityCapture: 0.15,
		},
		Log: LogConfig{
			MaxSizeMB:  50,
			MaxBackups: 3,
			MaxAgeDays: 14,
			Compress:   true,
		},
	}
}

// LoadConfig reads configuration from path (YAML or JSON) on top of the
// defaults, then applies DEALIQ_* environment overrides. An empty path
// skips the file.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config error: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal error: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	d := Default()
	defaults := map[string]interface{}{
		"debug_logging":              d.DebugLogging,
		"workers":                    d.Workers,
		"projection_years":           d.ProjectionYears,
		"hold_years":                 d.HoldYears,
		"sensitivity_offsets":        d.SensitivityOffsets,
		"export_dir":                 d.ExportDir,
		"iq_target.bracket_low":      d.IQTarget.BracketLow,
		"iq_target.bracket_high":     d.IQTarget.BracketHigh,
		"iq_target.tolerance":        d.IQTarget.Tolerance,
		"iq_target.max_iterations":   d.IQTarget.MaxIterations,
		"irr.low":                    d.IRR.Low,
		"irr.high":                   d.IRR.High,
		"irr.tolerance":              d.IRR.Tolerance,
		"irr.max_iterations":         d.IRR.MaxIterations,
		"tax.land_value_pct":         d.Tax.LandValuePct,
		"tax.capital_gains_rate":     d.Tax.CapitalGainsRate,
		"tax.recapture_rate":         d.Tax.RecaptureRate,
		"tax.marginal_tax_rate":      d.Tax.MarginalTaxRate,
		"exit.broker_commission_pct": d.Exit.BrokerCommissionPct,
		"exit.sale_closing_pct":      d.Exit.SaleClosingPct,
		"brrrr.refinance_ltv":        d.BRRRR.RefinanceLTV,
		"deal_score.discount":        d.DealScore.Discount,
		"deal_score.cash_on_cash":    d.DealScore.CashOnCash,
		"deal_score.cap_rate":        d.DealScore.CapRate,
		"deal_score.dscr":            d.DealScore.DSCR,
		"deal_score.equity_capture":  d.DealScore.EquityCapture,
		"log.file":                   d.Log.File,
		"log.max_size_mb":            d.Log.MaxSizeMB,
		"log.max_backups":            d.Log.MaxBackups,
		"log.max_age_days":           d.Log.MaxAgeDays,
		"log.compress":               d.Log.Compress,
	}
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
}

// validate rejects out-of-range values and fills zero workers.
func (c *Config) validate() error {
	if c.Workers < 0 {
		return errors.New("invalid workers count")
	}
	if c.Workers == 0 {
		c.Workers = DefaultWorkers
	}
	if c.ProjectionYears < 1 || c.ProjectionYears > 40 {
		return fmt.Errorf("projection_years must be in [1, 40], got %d", c.ProjectionYears)
	}
	if c.HoldYears < 1 || c.HoldYears > 40 {
		return fmt.Errorf("hold_years must be in [1, 40], got %d", c.HoldYears)
	}
	for _, o := range c.SensitivityOffsets {
		if o <= -1 || o > 1 {
			return fmt.Errorf("sensitivity offset %v out of range (-1, 1]", o)
		}
	}
	if c.IQTarget.BracketLow <= 0 || c.IQTarget.BracketHigh <= c.IQTarget.BracketLow {
		return errors.New("iq_target bracket must satisfy 0 < bracket_low < bracket_high")
	}
	if c.IQTarget.Tolerance <= 0 || c.IQTarget.MaxIterations <= 0 {
		return errors.New("iq_target tolerance and max_iterations must be positive")
	}
	if c.IRR.Low <= -1 || c.IRR.High <= c.IRR.Low {
		return errors.New("irr bracket must satisfy -1 < low < high")
	}
	if c.IRR.Tolerance <= 0 || c.IRR.MaxIterations <= 0 {
		return errors.New("irr tolerance and max_iterations must be positive")
	}

	rates := map[string]float64{
		"tax.land_value_pct":         c.Tax.LandValuePct,
		"tax.capital_gains_rate":     c.Tax.CapitalGainsRate,
		"tax.recapture_rate":         c.Tax.RecaptureRate,
		"tax.marginal_tax_rate":      c.Tax.MarginalTaxRate,
		"exit.broker_commission_pct": c.Exit.BrokerCommissionPct,
		"exit.sale_closing_pct":      c.Exit.SaleClosingPct,
		"brrrr.refinance_ltv":        c.BRRRR.RefinanceLTV,
	}
	for key, r := range rates {
		if r < 0 || r > 1 {
			return fmt.Errorf("%s must be a decimal in [0, 1], got %v", key, r)
		}
	}

	if c.Log.MaxSizeMB < 0 || c.Log.MaxBackups < 0 || c.Log.MaxAgeDays < 0 {
		return errors.New("log rotation limits must be non-negative")
	}

	w := c.DealScore
	if w.Discount < 0 || w.CashOnCash < 0 || w.CapRate < 0 || w.DSCR < 0 || w.EquityCapture < 0 {
		return errors.New("deal_score weights must be non-negative")
	}
	if w.Discount+w.CashOnCash+w.CapRate+w.DSCR+w.EquityCapture == 0 {
		return errors.New("deal_score weights must not all be zero")
	}
	return nil
}

// Defaults converts the configured knobs into assumption defaults.
func (c *Config) Defaults() domain.Defaults {
	d := domain.StandardDefaults()
	d.HoldYears = c.HoldYears
	d.ProjectionYears = c.ProjectionYears
	d.LandValuePct = c.Tax.LandValuePct
	d.CapitalGainsRate = c.Tax.CapitalGainsRate
	d.RecaptureRate = c.Tax.RecaptureRate
	d.MarginalTaxRate = c.Tax.MarginalTaxRate
	d.BrokerCommissionPct = c.Exit.BrokerCommissionPct
	d.SaleClosingPct = c.Exit.SaleClosingPct
	d.RefinanceLTV = c.BRRRR.RefinanceLTV
	return d
}
