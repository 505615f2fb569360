// Package deal loads deal definitions from YAML files.
package deal

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/rovshanmuradov/dealiq/internal/domain"
)

// Deal is one validated property with its assumptions. An empty Strategy
// asks for a ranking across all strategies; a zero Price means list price.
type Deal struct {
	ID          int
	Name        string
	Strategy    domain.StrategyID
	Price       float64
	Property    domain.Property
	Assumptions domain.Assumptions
	LoadedAt    time.Time
}

// PurchasePrice is the price the deal is underwritten at.
func (d *Deal) PurchasePrice() float64 {
	if d.Price > 0 {
		return d.Price
	}
	return d.Property.ListPrice
}

// File represents the structure of a deals YAML file.
type File struct {
	Deals []struct {
		Name          string                  `yaml:"name"`
		Strategy      string                  `yaml:"strategy"`
		PurchasePrice float64                 `yaml:"purchase_price"`
		Property      domain.Property         `yaml:"property"`
		Assumptions   domain.AssumptionsInput `yaml:"assumptions"`
	} `yaml:"deals"`
}

// Loader parses deal files, filling unset assumptions from defaults.
type Loader struct {
	logger   *zap.Logger
	defaults domain.Defaults
}

func NewLoader(logger *zap.Logger, defaults domain.Defaults) *Loader {
	return &Loader{logger: logger, defaults: defaults}
}

// LoadDeals reads deals from a YAML file. Invalid entries are skipped with
// a warning; it fails only when nothing valid remains.
func (l *Loader) LoadDeals(path string) ([]*Deal, error) {
	if filepath.IsAbs(path) {
		l.logger.Debug("Using absolute path for deals file", zap.String("path", path))
	}

	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return l.Parse(data)
}

// Parse decodes and validates deals from YAML bytes.
func (l *Loader) Parse(data []byte) ([]*Deal, error) {
	var file File
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	if len(file.Deals) == 0 {
		return nil, fmt.Errorf("no deals found in file")
	}

	deals := make([]*Deal, 0, len(file.Deals))
	for i, raw := range file.Deals {
		name := raw.Name
		if name == "" {
			name = raw.Property.Address
		}
		if name == "" {
			name = fmt.Sprintf("deal-%d", i+1)
		}

		var id domain.StrategyID
		if raw.Strategy != "" {
			parsed, err := domain.ParseStrategy(raw.Strategy)
			if err != nil {
				l.logger.Warn("Skipping deal with unknown strategy", zap.String("deal", name), zap.Error(err))
				continue
			}
			id = parsed
		}

		if err := raw.Property.Validate(); err != nil {
			l.logger.Warn("Skipping deal with invalid property", zap.String("deal", name), zap.Error(err))
			continue
		}

		asm, err := domain.NewAssumptionsWithDefaults(raw.Assumptions, l.defaults)
		if err != nil {
			l.logger.Warn("Skipping deal with invalid assumptions", zap.String("deal", name), zap.Error(err))
			continue
		}

		if raw.PurchasePrice < 0 {
			l.logger.Warn("Skipping deal with negative purchase price",
				zap.String("deal", name),
				zap.Float64("purchase_price", raw.PurchasePrice))
			continue
		}

		deals = append(deals, &Deal{
			ID:          i,
			Name:        name,
			Strategy:    id,
			Price:       raw.PurchasePrice,
			Property:    raw.Property,
			Assumptions: asm,
			LoadedAt:    time.Now(),
		})
	}

	if len(deals) == 0 {
		return nil, fmt.Errorf("no valid deals loaded")
	}

	l.logger.Info("Deals loaded", zap.Int("count", len(deals)))
	return deals, nil
}
