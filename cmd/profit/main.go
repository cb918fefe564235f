// Package main provides the profit entry point: load a sandwich batch, price
// every referenced mint, attribute per-sandwich profit, and persist the
// ledger and per-bot aggregates.
package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"path/filepath"

	"solana-sandwich-lab/internal/config"
	"solana-sandwich-lab/internal/observability"
	"solana-sandwich-lab/internal/pricing"
	"solana-sandwich-lab/internal/profit"
	"solana-sandwich-lab/internal/reporting"
	chstore "solana-sandwich-lab/internal/storage/clickhouse"
	"solana-sandwich-lab/internal/storage/migrations"
)

func main() {
	configPath := flag.String("config", "", "TOML config file path")
	input := flag.String("input", "", "Sandwich batch file (default <results_dir>/"+reporting.SandwichBatchFile+")")
	flag.Parse()

	logger := log.New(os.Stdout, "[profit] ", log.LstdFlags)

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Fatalf("Load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		logger.Fatalf("Invalid config: %v", err)
	}

	path := *input
	if path == "" {
		path = filepath.Join(cfg.Output.ResultsDir, reporting.SandwichBatchFile)
	}

	sandwiches, err := reporting.LoadSandwiches(path)
	if err != nil {
		logger.Fatalf("Load sandwiches: %v", err)
	}
	logger.Printf("Loaded %d sandwiches from %s", len(sandwiches), path)

	ctx := context.Background()

	metrics := startMetrics(cfg, logger)

	oracle := pricing.NewJupiterClient(
		pricing.WithAPIURL(cfg.Profit.PriceAPIURL),
		pricing.WithLogger(logger),
		pricing.WithMetrics(metrics),
	)
	analyzer := profit.NewAnalyzer(profit.AnalyzerOptions{
		Oracle: oracle,
		TopN:   cfg.Profit.TopBots,
		Logger: logger,
	})

	result, err := analyzer.Analyze(ctx, sandwiches)
	if errors.Is(err, profit.ErrNoSandwiches) {
		logger.Printf("Nothing to analyze; run detect first")
		return
	}
	if err != nil {
		logger.Fatalf("Analyze: %v", err)
	}
	if result.Skipped > 0 {
		logger.Printf("Skipped %d misaligned candidates", result.Skipped)
	}
	if metrics != nil {
		metrics.RecordsAttributed.Add(float64(len(result.Records)))
		metrics.MisalignedSkipped.Add(float64(result.Skipped))
	}

	reporting.PrintProfitSummary(logger, result.Summary)

	writer := reporting.NewWriter(cfg.Output.ResultsDir)
	ledgerPath, err := writer.SaveProfitLedger(result.Records)
	if err != nil {
		logger.Fatalf("Save profit ledger: %v", err)
	}
	botPath, err := writer.SaveBotSummary(result.Bots)
	if err != nil {
		logger.Fatalf("Save bot summary: %v", err)
	}
	logger.Printf("Results saved to: %s, %s", ledgerPath, botPath)

	if cfg.Storage.ClickhouseDSN != "" && len(result.Records) > 0 {
		if err := storeRecords(ctx, cfg, result, logger); err != nil {
			logger.Fatalf("Store profit records: %v", err)
		}
	}
}

func storeRecords(ctx context.Context, cfg *config.Config, result *profit.Result, logger *log.Logger) error {
	conn, err := migrations.RunClickhouseMigrations(ctx, cfg.Storage.ClickhouseDSN)
	if err != nil {
		return err
	}
	defer conn.Close()

	if err := chstore.NewProfitRecordStore(conn).InsertBulk(ctx, result.Records); err != nil {
		return err
	}
	logger.Printf("Stored %d profit records in ClickHouse", len(result.Records))
	return nil
}

// startMetrics exposes /metrics and /health when metrics are enabled.
func startMetrics(cfg *config.Config, logger *log.Logger) *observability.Metrics {
	if !cfg.Metrics.Enabled {
		return nil
	}

	metrics := observability.NewMetrics("")
	go func() {
		mux := http.NewServeMux()
		mux.Handle("/metrics", observability.Handler())
		mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			w.Write([]byte("ok"))
		})
		logger.Printf("Starting metrics server on %s", cfg.Metrics.Addr)
		if err := http.ListenAndServe(cfg.Metrics.Addr, mux); err != nil && err != http.ErrServerClosed {
			logger.Printf("Metrics server error: %v", err)
		}
	}()
	return metrics
}
