// Package reporting persists pipeline artifacts as JSON files and renders
// console summaries. Each pipeline stage reads the previous stage's artifact
// and writes its own, so the stages can run as independent processes.
package reporting

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"solana-sandwich-lab/internal/domain"
)

// Default artifact filenames, relative to the results directory.
const (
	SwapBatchFile     = "transactions.json"
	SandwichBatchFile = "sandwich_attacks.json"
	ProfitLedgerFile  = "profit_analysis.json"
	BotSummaryFile    = "bot_pnl.json"
)

// SwapBatch is the scan-stage artifact.
type SwapBatch struct {
	ScanTimestamp string                    `json:"scan_timestamp"`
	TotalCount    int                       `json:"total_count"`
	Transactions  []*domain.SwapTransaction `json:"transactions"`
}

// SandwichSummary counts distinct participants across a detection run.
type SandwichSummary struct {
	UniqueBotWallets    int `json:"unique_bot_wallets"`
	UniqueVictimWallets int `json:"unique_victim_wallets"`
}

// SandwichBatch is the detection-stage artifact.
type SandwichBatch struct {
	DetectionTimestamp string             `json:"detection_timestamp"`
	TotalSandwiches    int                `json:"total_sandwiches"`
	Summary            SandwichSummary    `json:"summary"`
	Sandwiches         []*domain.Sandwich `json:"sandwiches"`
}

// Writer persists artifacts under a results directory.
type Writer struct {
	dir string
	now func() time.Time // injectable clock for deterministic output
}

// NewWriter creates a Writer rooted at dir.
func NewWriter(dir string) *Writer {
	return &Writer{
		dir: dir,
		now: func() time.Time { return time.Now().UTC() },
	}
}

// WithClock sets a custom clock function for deterministic output.
func (w *Writer) WithClock(now func() time.Time) *Writer {
	w.now = now
	return w
}

// SaveSwaps writes the scan-stage artifact. An empty slice still produces a
// well-formed batch.
func (w *Writer) SaveSwaps(swaps []*domain.SwapTransaction) (string, error) {
	if swaps == nil {
		swaps = []*domain.SwapTransaction{}
	}
	batch := &SwapBatch{
		ScanTimestamp: w.now().Format(time.RFC3339),
		TotalCount:    len(swaps),
		Transactions:  swaps,
	}
	return w.save(SwapBatchFile, batch)
}

// SaveSandwiches writes the detection-stage artifact with participant counts.
func (w *Writer) SaveSandwiches(sandwiches []*domain.Sandwich) (string, error) {
	if sandwiches == nil {
		sandwiches = []*domain.Sandwich{}
	}

	bots := make(map[string]struct{})
	victims := make(map[string]struct{})
	for _, s := range sandwiches {
		bots[s.Metadata.BotWallet] = struct{}{}
		victims[s.Metadata.VictimWallet] = struct{}{}
	}

	batch := &SandwichBatch{
		DetectionTimestamp: w.now().Format(time.RFC3339),
		TotalSandwiches:    len(sandwiches),
		Summary: SandwichSummary{
			UniqueBotWallets:    len(bots),
			UniqueVictimWallets: len(victims),
		},
		Sandwiches: sandwiches,
	}
	return w.save(SandwichBatchFile, batch)
}

// SaveProfitLedger writes the per-record profit artifact, a flat array sorted
// by the analyzer.
func (w *Writer) SaveProfitLedger(records []*domain.ProfitRecord) (string, error) {
	if records == nil {
		records = []*domain.ProfitRecord{}
	}
	return w.save(ProfitLedgerFile, records)
}

// SaveBotSummary writes the bot -> aggregate artifact.
func (w *Writer) SaveBotSummary(bots []*domain.BotSummary) (string, error) {
	byBot := make(map[string]*domain.BotSummary, len(bots))
	for _, b := range bots {
		byBot[b.Bot] = b
	}
	return w.save(BotSummaryFile, byBot)
}

// save marshals v with indentation and writes it atomically enough for a
// single-writer pipeline.
func (w *Writer) save(name string, v interface{}) (string, error) {
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return "", fmt.Errorf("create results dir: %w", err)
	}

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal %s: %w", name, err)
	}

	path := filepath.Join(w.dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", name, err)
	}
	return path, nil
}

// LoadSwaps reads a scan-stage artifact. A missing or malformed file is an
// error; the caller decides whether that is fatal.
func LoadSwaps(path string) ([]*domain.SwapTransaction, error) {
	var batch SwapBatch
	if err := load(path, &batch); err != nil {
		return nil, err
	}
	return batch.Transactions, nil
}

// LoadSandwiches reads a detection-stage artifact.
func LoadSandwiches(path string) ([]*domain.Sandwich, error) {
	var batch SandwichBatch
	if err := load(path, &batch); err != nil {
		return nil, err
	}
	return batch.Sandwiches, nil
}

func load(path string, v interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}
