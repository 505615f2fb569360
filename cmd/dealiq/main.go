package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/rovshanmuradov/dealiq/internal/config"
	"github.com/rovshanmuradov/dealiq/internal/deal"
	"github.com/rovshanmuradov/dealiq/internal/domain"
	"github.com/rovshanmuradov/dealiq/internal/engine"
	"github.com/rovshanmuradov/dealiq/internal/export"
	"github.com/rovshanmuradov/dealiq/internal/logger"
)

func main() {
	configPath := flag.String("config", "", "Path to config file (optional)")
	dealsPath := flag.String("deals", "configs/deals.yaml", "Path to deals YAML file")
	strategyFlag := flag.String("strategy", "", "Analyze a single strategy instead of ranking all six")
	exportFlag := flag.String("export", "csv", "Export format: csv, json or none")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	appLogger := logger.New(os.Stdout, logger.Options{
		Debug:      cfg.DebugLogging,
		File:       cfg.Log.File,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAgeDays: cfg.Log.MaxAgeDays,
		Compress:   cfg.Log.Compress,
	})
	defer func() { _ = logger.Sync(appLogger) }()

	var only domain.StrategyID
	if *strategyFlag != "" {
		if only, err = domain.ParseStrategy(*strategyFlag); err != nil {
			appLogger.Fatal("Invalid strategy", zap.Error(err))
		}
	}

	var exporter *export.Exporter
	var format export.Format
	if *exportFlag != "none" {
		if format, err = export.ParseFormat(*exportFlag); err != nil {
			appLogger.Fatal("Invalid export format", zap.Error(err))
		}
		exporter = export.NewExporter(cfg.ExportDir, appLogger)
	}

	deals, err := deal.NewLoader(appLogger, cfg.Defaults()).LoadDeals(*dealsPath)
	if err != nil {
		appLogger.Fatal("Failed to load deals", zap.Error(err))
	}

	r := &runner{
		ctx:      ctx,
		logger:   appLogger,
		engine:   engine.New(cfg, appLogger),
		exporter: exporter,
		format:   format,
	}

	failed := 0
	for _, d := range deals {
		if ctx.Err() != nil {
			break
		}
		id := d.Strategy
		if only != "" {
			id = only
		}
		if err := r.run(d, id); err != nil {
			failed++
			appLogger.Error("Deal failed", zap.String("deal", d.Name), zap.Error(err))
		}
	}

	if failed > 0 || ctx.Err() != nil {
		_ = logger.Sync(appLogger)
		os.Exit(1)
	}
}

type runner struct {
	ctx      context.Context
	logger   *zap.Logger
	engine   *engine.Engine
	exporter *export.Exporter
	format   export.Format
}

// run ranks every strategy for the deal, or analyzes just id when set.
func (r *runner) run(d *deal.Deal, id domain.StrategyID) error {
	if id == "" {
		ranking, err := r.engine.RankAt(r.ctx, d.Property, d.Assumptions, d.PurchasePrice())
		if err != nil {
			return err
		}
		fmt.Println(renderRanking(d, ranking))
		if r.exporter != nil {
			if _, err := r.exporter.ExportRanking(ranking, r.format); err != nil {
				return fmt.Errorf("export ranking: %w", err)
			}
		}
		return nil
	}

	a, err := r.engine.AnalyzeAt(r.ctx, d.Property, d.Assumptions, id, d.PurchasePrice())
	if err != nil {
		return err
	}
	fmt.Println(renderAnalysis(d, a))
	if r.exporter == nil {
		return nil
	}
	if r.format == export.FormatJSON {
		_, err = r.exporter.ExportProforma(a)
	} else {
		_, err = r.exporter.ExportProjection(a)
	}
	if err != nil {
		return fmt.Errorf("export analysis: %w", err)
	}
	return nil
}
