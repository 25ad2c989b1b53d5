package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/HerbHall/dnstuner/internal/config"
	"github.com/HerbHall/dnstuner/internal/pipeline"
	"github.com/HerbHall/dnstuner/internal/probe"
	"github.com/HerbHall/dnstuner/internal/resolvconf"
	"github.com/HerbHall/dnstuner/internal/version"
	"github.com/HerbHall/dnstuner/pkg/catalog"
	"github.com/HerbHall/dnstuner/pkg/models"
	"go.uber.org/zap"
)

func main() {
	configPath := flag.String("config", "", "path to configuration file")
	iface := flag.String("interface", "", "network service to configure (overrides config)")
	dryRun := flag.Bool("dry-run", false, "probe and rank without changing resolver configuration")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(version.Info())
		return
	}

	// Initialize logger
	logger, err := zap.NewProduction()
	if err != nil {
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("dnstuner starting", zap.String("version", version.Short()))

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Fatal("failed to load configuration", zap.Error(err))
	}
	if *iface != "" {
		cfg.Interface = *iface
	}
	if *dryRun {
		cfg.DryRun = true
	}

	candidates, err := loadCandidates(cfg)
	if err != nil {
		logger.Fatal("failed to load resolver catalog", zap.Error(err))
	}

	manager, err := resolvconf.NewScutil(cfg.Interface, cfg.SettleDelay, logger)
	if err != nil {
		logger.Fatal("resolver configuration tools unavailable", zap.Error(err))
	}

	prober := probe.NewICMPProber(cfg.PingCount, cfg.ProbeTimeout)
	collector := probe.NewCollector(prober, cfg.Concurrency, logger)
	driver := pipeline.New(candidates, collector, manager, logger, cfg.DryRun)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	report, err := driver.Run(ctx)
	if err != nil {
		logger.Fatal("pipeline failed", zap.Error(err))
	}

	if err := report.RenderTable(os.Stdout); err != nil {
		logger.Fatal("failed to render results", zap.Error(err))
	}

	if report.NoneFound {
		logger.Warn("no reachable resolver found; interface left in automatic mode")
	}
	logger.Info("dnstuner completed", zap.String("run_id", report.RunID))
}

func loadCandidates(cfg *config.Config) ([]models.Candidate, error) {
	if cfg.CatalogPath != "" {
		return catalog.LoadFile(cfg.CatalogPath)
	}
	return catalog.Default().Entries()
}
