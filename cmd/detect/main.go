// Package main provides the detect entry point: load a swap batch, run the
// sandwich detector over it, and persist the sandwich artifact.
package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"path/filepath"

	"solana-sandwich-lab/internal/config"
	"solana-sandwich-lab/internal/detection"
	"solana-sandwich-lab/internal/observability"
	"solana-sandwich-lab/internal/reporting"
	"solana-sandwich-lab/internal/storage/migrations"
	pgstore "solana-sandwich-lab/internal/storage/postgres"
)

func main() {
	configPath := flag.String("config", "", "TOML config file path")
	input := flag.String("input", "", "Swap batch file (default <results_dir>/"+reporting.SwapBatchFile+")")
	flag.Parse()

	logger := log.New(os.Stdout, "[detect] ", log.LstdFlags)

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Fatalf("Load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		logger.Fatalf("Invalid config: %v", err)
	}

	metrics := startMetrics(cfg, logger)

	path := *input
	if path == "" {
		path = filepath.Join(cfg.Output.ResultsDir, reporting.SwapBatchFile)
	}

	swaps, err := reporting.LoadSwaps(path)
	if err != nil {
		logger.Fatalf("Load swaps: %v", err)
	}
	logger.Printf("Loaded %d swaps from %s", len(swaps), path)

	detection.SortSwaps(swaps)
	if err := detection.ValidateOrdering(swaps); err != nil {
		logger.Fatalf("Swap ordering: %v", err)
	}

	detector := detection.NewDetector(detection.Options{
		MaxSlotGap: cfg.Detection.MaxSlotGap,
		Exclusive:  cfg.Detection.Exclusive,
	})
	sandwiches := detector.Detect(swaps)
	if metrics != nil {
		metrics.SandwichesDetected.Add(float64(len(sandwiches)))
	}

	reporting.PrintDetectionSummary(logger, sandwiches)

	writer := reporting.NewWriter(cfg.Output.ResultsDir)
	out, err := writer.SaveSandwiches(sandwiches)
	if err != nil {
		logger.Fatalf("Save sandwiches: %v", err)
	}
	logger.Printf("Results saved to: %s", out)

	if cfg.Storage.PostgresDSN != "" && len(sandwiches) > 0 {
		ctx := context.Background()
		pool, err := pgstore.NewPool(ctx, cfg.Storage.PostgresDSN)
		if err != nil {
			logger.Fatalf("Connect PostgreSQL: %v", err)
		}
		defer pool.Close()

		if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
			logger.Fatalf("Run migrations: %v", err)
		}
		if err := pgstore.NewSandwichStore(pool).InsertBulk(ctx, sandwiches); err != nil {
			logger.Fatalf("Store sandwiches: %v", err)
		}
		logger.Printf("Stored %d sandwiches in PostgreSQL", len(sandwiches))
	}
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
