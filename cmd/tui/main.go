package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/rovshanmuradov/dealiq/internal/config"
	"github.com/rovshanmuradov/dealiq/internal/deal"
	"github.com/rovshanmuradov/dealiq/internal/engine"
	"github.com/rovshanmuradov/dealiq/internal/export"
	"github.com/rovshanmuradov/dealiq/internal/logger"
	"github.com/rovshanmuradov/dealiq/internal/ui"
	"github.com/rovshanmuradov/dealiq/internal/ui/state"
)

const (
	logBufferSize   = 1000
	cacheSweepEvery = 5 * time.Minute
	cacheMaxAge     = 30 * time.Minute
)

func main() {
	configPath := flag.String("config", "", "Path to config file (optional)")
	dealsPath := flag.String("deals", "configs/deals.yaml", "Path to deals YAML file")
	dealName := flag.String("deal", "", "Name of the deal to open (default: first)")
	flag.Parse()

	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	console, err := logger.CreatePrettyLogger(cfg.DebugLogging)
	if err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer func() { _ = logger.Sync(console) }()

	// While the alt screen is up, logs go to the ring buffer only; entries
	// that fall out of it are spilled to the configured log file.
	buffer, err := logger.NewLogBuffer(logBufferSize, cfg.Log.File, console)
	if err != nil {
		console.Fatal("Failed to create log buffer", zap.Error(err))
	}
	defer func() {
		if err := buffer.Close(); err != nil {
			console.Warn("Failed to close log buffer", zap.Error(err))
		}
	}()

	appLogger, err := logger.CreateTUILoggerWithBuffer(cfg.DebugLogging, buffer)
	if err != nil {
		console.Fatal("Failed to init TUI logger", zap.Error(err))
	}

	deals, err := deal.NewLoader(appLogger, cfg.Defaults()).LoadDeals(*dealsPath)
	if err != nil {
		console.Fatal("Failed to load deals", zap.Error(err))
	}
	d, err := pickDeal(deals, *dealName)
	if err != nil {
		console.Fatal("Failed to open deal", zap.Error(err))
	}

	cache := state.NewRankingCache(appLogger)
	stopSweep := cache.StartCleanup(cacheSweepEvery, cacheMaxAge)
	defer stopSweep()

	model := ui.NewModel(rootCtx, d, ui.Options{
		Ranker:   engine.New(cfg, appLogger),
		Exporter: export.NewExporter(cfg.ExportDir, appLogger),
		Logs:     buffer,
		Cache:    cache,
		Logger:   appLogger,
	})

	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(rootCtx))
	if _, err := program.Run(); err != nil && rootCtx.Err() == nil {
		console.Error("💥 TUI application failed", zap.Error(err))
		return
	}

	entries, hits, misses, _ := cache.Stats()
	console.Info("🛑 TUI closed",
		zap.String("deal", d.Name),
		zap.Uint64("cached", entries),
		zap.Uint64("hits", hits),
		zap.Uint64("misses", misses))
}

func pickDeal(deals []*deal.Deal, name string) (*deal.Deal, error) {
	if name == "" {
		return deals[0], nil
	}
	for _, d := range deals {
		if d.Name == name {
			return d, nil
		}
	}
	return nil, fmt.Errorf("no deal named %q", name)
}
