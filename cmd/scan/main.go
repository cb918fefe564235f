// Package main provides the scan entry point: fetch recent transactions,
// extract swaps, and persist the swap batch artifact.
package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"solana-sandwich-lab/internal/config"
	"solana-sandwich-lab/internal/extraction"
	"solana-sandwich-lab/internal/observability"
	"solana-sandwich-lab/internal/reporting"
	"solana-sandwich-lab/internal/scanner"
	"solana-sandwich-lab/internal/solana"
	"solana-sandwich-lab/internal/storage/migrations"
	pgstore "solana-sandwich-lab/internal/storage/postgres"
)

func main() {
	configPath := flag.String("config", "", "TOML config file path")
	mode := flag.String("mode", "window", "Scan mode: window, pools, or tail")
	window := flag.Int64("window", 0, "Slot window override (0 = config value)")
	tailFor := flag.Duration("tail-for", 0, "In tail mode, stop after this duration (0 = until signal)")
	flag.Parse()

	logger := log.New(os.Stdout, "[scan] ", log.LstdFlags)

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Fatalf("Load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		logger.Fatalf("Invalid config: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Printf("Received signal %v, shutting down...", sig)
		cancel()
	}()

	metrics := startMetrics(cfg, logger)

	rpc := solana.NewHTTPClient(cfg.RPC.Endpoint,
		solana.WithTimeout(cfg.RPC.Timeout.Duration),
		solana.WithMaxRetries(cfg.RPC.MaxRetries),
		solana.WithRetryDelay(cfg.RPC.RetryDelay.Duration),
	)

	s := scanner.New(scanner.Options{
		RPC:        rpc,
		Extractor:  extraction.NewExtractor(extraction.DefaultVenues()),
		BatchSize:  cfg.Scan.BatchSize,
		BatchDelay: cfg.Scan.BatchDelay.Duration,
		Logger:     logger,
		Metrics:    metrics,
	})

	slotWindow := cfg.Scan.SlotWindow
	if *window > 0 {
		slotWindow = *window
	}

	var result *scanner.Result
	switch *mode {
	case "window":
		result, err = s.ScanWindow(ctx, slotWindow)
	case "pools":
		result, err = s.ScanPools(ctx, extraction.DefaultVenues().Venues(), cfg.Scan.SignatureLimit)
	case "tail":
		result, err = tailSlots(ctx, cfg, s, logger, *tailFor)
	default:
		logger.Fatalf("Unknown mode: %s", *mode)
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		logger.Fatalf("Scan failed: %v", err)
	}
	if result == nil {
		return
	}

	reporting.PrintScanSummary(logger, result.Swaps)

	writer := reporting.NewWriter(cfg.Output.ResultsDir)
	path, err := writer.SaveSwaps(result.Swaps)
	if err != nil {
		logger.Fatalf("Save swaps: %v", err)
	}
	logger.Printf("Results saved to: %s", path)

	if cfg.Storage.PostgresDSN != "" {
		if err := storeSwaps(ctx, cfg, result, logger); err != nil {
			logger.Fatalf("Store swaps: %v", err)
		}
	}
}

// tailSlots follows the slot subscription and scans each notified slot until
// the context is cancelled or the deadline passes.
func tailSlots(ctx context.Context, cfg *config.Config, s *scanner.Scanner, logger *log.Logger, limit time.Duration) (*scanner.Result, error) {
	if limit > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, limit)
		defer cancel()
	}

	ws, err := solana.NewWSClient(ctx, cfg.RPC.WSEndpoint, nil)
	if err != nil {
		return nil, err
	}
	defer ws.Close()

	slots, err := ws.SubscribeSlots(ctx)
	if err != nil {
		return nil, err
	}
	logger.Printf("Tailing slots from %s", cfg.RPC.WSEndpoint)

	merged := &scanner.Result{Extraction: extraction.NewStats()}
	for {
		select {
		case <-ctx.Done():
			return merged, nil
		case note, ok := <-slots:
			if !ok {
				return merged, nil
			}
			result, err := s.ScanWindow(ctx, 1)
			if err != nil {
				logger.Printf("[WARN] scan slot %d: %v", note.Slot, err)
				continue
			}
			merged.Swaps = append(merged.Swaps, result.Swaps...)
			merged.Blocks += result.Blocks
			merged.BlocksFail += result.BlocksFail
			merged.TxsSeen += result.TxsSeen
			merged.Extraction.Merge(result.Extraction)
		}
	}
}

func storeSwaps(ctx context.Context, cfg *config.Config, result *scanner.Result, logger *log.Logger) error {
	pool, err := pgstore.NewPool(ctx, cfg.Storage.PostgresDSN)
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
		return err
	}

	if err := pgstore.NewSwapStore(pool).InsertBulk(ctx, result.Swaps); err != nil {
		return err
	}
	logger.Printf("Stored %d swaps in PostgreSQL", len(result.Swaps))
	return nil
}

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
