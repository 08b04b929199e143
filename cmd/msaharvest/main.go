// Command msaharvest extracts per-gene MSA exports from the target web
// application and writes one artifact file per gene.
//
// Usage:
//
//	msaharvest -genes genes.csv                  # full run, headless
//	msaharvest -genes genes.csv -limit 5 -headful # visible test run
//	msaharvest -genes genes.csv -config harvest.yaml
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	_ "modernc.org/sqlite"

	"github.com/hazyhaar/msaharvest/genelist"
	"github.com/hazyhaar/msaharvest/harvest"
	"github.com/hazyhaar/msaharvest/report"
	"github.com/hazyhaar/msaharvest/runlog"
)

func main() {
	genesPath := flag.String("genes", "", "path to the gene list CSV (name,id)")
	configPath := flag.String("config", "", "path to harvest.yaml config file")
	outDir := flag.String("out", "", "output directory (overrides config)")
	headful := flag.Bool("headful", false, "run Chrome visibly instead of headless")
	limit := flag.Int("limit", 0, "process only the first N genes (test mode)")
	logLevel := flag.String("log-level", "info", "log level: debug, info, warn, error")
	flag.Parse()

	var level slog.Level
	switch *logLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, logger, *genesPath, *configPath, *outDir, *headful, *limit); err != nil {
		logger.Error("msaharvest: fatal", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, logger *slog.Logger, genesPath, configPath, outDir string, headful bool, limit int) error {
	if genesPath == "" {
		fmt.Fprintln(os.Stderr, "usage: msaharvest -genes <csv> [-config <file>] [-limit N] [-headful]")
		os.Exit(1)
	}

	cfg := harvest.DefaultConfig()
	if configPath != "" {
		loaded, err := harvest.LoadConfigFile(configPath)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = loaded
	}
	if headful {
		cfg.Browser.Mode = "headful"
	}
	if outDir != "" {
		cfg.OutputDir = outDir
	}

	genes, err := genelist.Load(genesPath)
	if err != nil {
		return err
	}
	if len(genes) == 0 {
		return fmt.Errorf("no usable genes in %s", genesPath)
	}
	if limit > 0 && limit < len(genes) {
		logger.Info("msaharvest: test mode", "limit", limit, "available", len(genes))
		genes = genes[:limit]
	}

	var opts []harvest.Option
	if cfg.RunDB != "" {
		store, err := runlog.Open(cfg.RunDB)
		if err != nil {
			return fmt.Errorf("open run db: %w", err)
		}
		defer store.Close()
		opts = append(opts, harvest.WithStore(store))
	}

	runner, err := harvest.New(cfg, logger, opts...)
	if err != nil {
		return err
	}

	sum, err := runner.Run(ctx, genes)
	if sum != nil {
		report.Render(os.Stdout, *sum)
	}
	return err
}
