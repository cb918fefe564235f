// Package scanner implements the fetch regime: concurrent, bounded-fan-out
// retrieval of blocks and transactions from the ledger, feeding the swap
// extractor. Analysis stages downstream are single-threaded; the scanner
// re-establishes (slot, tx_index) order before handing results over.
package scanner

import (
	"context"
	"log"
	"sync"
	"time"

	"solana-sandwich-lab/internal/detection"
	"solana-sandwich-lab/internal/domain"
	"solana-sandwich-lab/internal/extraction"
	"solana-sandwich-lab/internal/observability"
	"solana-sandwich-lab/internal/solana"
)

// Default fetch parameters.
const (
	// DefaultSlotWindow is the number of recent slots scanned.
	DefaultSlotWindow = 300
	// DefaultBatchSize is the fan-out per fetch batch.
	DefaultBatchSize = 20
	// DefaultBatchDelay is the pause between batches, respecting RPC rate
	// limits.
	DefaultBatchDelay = 100 * time.Millisecond
	// DefaultItemTimeout bounds a single block or transaction fetch.
	DefaultItemTimeout = 30 * time.Second
	// DefaultSignatureLimit caps signatures fetched per monitored pool.
	DefaultSignatureLimit = 100
)

// Scanner fetches raw transactions and extracts canonical swap records.
type Scanner struct {
	rpc         solana.RPCClient
	extractor   *extraction.Extractor
	batchSize   int
	batchDelay  time.Duration
	itemTimeout time.Duration
	logger      *log.Logger
	metrics     *observability.Metrics
}

// Options configures a Scanner.
type Options struct {
	RPC         solana.RPCClient
	Extractor   *extraction.Extractor
	BatchSize   int
	BatchDelay  time.Duration
	ItemTimeout time.Duration
	Logger      *log.Logger
	Metrics     *observability.Metrics // optional
}

// New creates a Scanner.
func New(opts Options) *Scanner {
	batchSize := opts.BatchSize
	if batchSize == 0 {
		batchSize = DefaultBatchSize
	}
	batchDelay := opts.BatchDelay
	if batchDelay == 0 {
		batchDelay = DefaultBatchDelay
	}
	itemTimeout := opts.ItemTimeout
	if itemTimeout == 0 {
		itemTimeout = DefaultItemTimeout
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	return &Scanner{
		rpc:         opts.RPC,
		extractor:   opts.Extractor,
		batchSize:   batchSize,
		batchDelay:  batchDelay,
		itemTimeout: itemTimeout,
		logger:      logger,
		metrics:     opts.Metrics,
	}
}

// Result contains the swaps and counters from one scan.
type Result struct {
	Swaps      []*domain.SwapTransaction
	Blocks     int // blocks fetched successfully
	BlocksFail int // block fetches that failed or returned nothing
	TxsSeen    int // raw transactions inspected
	Extraction *extraction.Stats
}

// ScanWindow fetches the last `window` slots ending at the current slot,
// extracts swaps from every transaction, and returns them sorted by
// (slot, tx_index). Individual block failures are counted, never fatal.
func (s *Scanner) ScanWindow(ctx context.Context, window int64) (*Result, error) {
	if window <= 0 {
		window = DefaultSlotWindow
	}

	current, err := s.rpc.GetSlot(ctx)
	if err != nil {
		return nil, err
	}

	fromSlot := current - window + 1
	if fromSlot < 0 {
		fromSlot = 0
	}
	s.logger.Printf("Scanning slots %d..%d", fromSlot, current)

	slots := make([]int64, 0, window)
	for slot := fromSlot; slot <= current; slot++ {
		slots = append(slots, slot)
	}

	result := &Result{Extraction: extraction.NewStats()}
	blocks := s.fetchBlocks(ctx, slots, result)

	for _, block := range blocks {
		for i := range block.Transactions {
			s.extractOne(&block.Transactions[i], result)
		}
	}

	s.finish(result)
	return result, nil
}

// ScanPools fetches recent signatures for each monitored pool address and
// extracts swaps from the referenced transactions.
func (s *Scanner) ScanPools(ctx context.Context, pools []domain.Venue, limit int) (*Result, error) {
	if limit <= 0 {
		limit = DefaultSignatureLimit
	}

	result := &Result{Extraction: extraction.NewStats()}

	for _, pool := range pools {
		s.logger.Printf("Fetching signatures for %s", pool.Name)

		started := time.Now()
		sigs, err := s.rpc.GetSignaturesForAddress(ctx, pool.ProgramID, &solana.SignaturesOpts{Limit: limit})
		if s.metrics != nil {
			s.metrics.RPCCallLatency.WithLabelValues("getSignaturesForAddress").Observe(time.Since(started).Seconds())
		}
		if err != nil {
			s.logger.Printf("[WARN] signatures for %s: %v", pool.Name, err)
			continue
		}

		var pending []string
		for _, sig := range sigs {
			if sig.Err != nil {
				continue
			}
			pending = append(pending, sig.Signature)
		}
		s.logger.Printf("Found %d successful signatures for %s", len(pending), pool.Name)

		txs := s.fetchTransactions(ctx, pending, result)
		for _, tx := range txs {
			s.extractOne(tx, result)
		}
	}

	s.finish(result)
	return result, nil
}

// fetchBlocks retrieves blocks in bounded batches. Failures are isolated
// per slot.
func (s *Scanner) fetchBlocks(ctx context.Context, slots []int64, result *Result) []*solana.Block {
	var blocks []*solana.Block

	for start := 0; start < len(slots); start += s.batchSize {
		end := start + s.batchSize
		if end > len(slots) {
			end = len(slots)
		}
		batch := slots[start:end]

		fetched := make([]*solana.Block, len(batch))
		var wg sync.WaitGroup
		for i, slot := range batch {
			wg.Add(1)
			go func(i int, slot int64) {
				defer wg.Done()
				itemCtx, cancel := context.WithTimeout(ctx, s.itemTimeout)
				defer cancel()
				started := time.Now()
				block, err := s.rpc.GetBlock(itemCtx, slot)
				if s.metrics != nil {
					s.metrics.RPCCallLatency.WithLabelValues("getBlock").Observe(time.Since(started).Seconds())
				}
				if err != nil {
					// Skipped slots and transient failures alike: drop the
					// slot, keep the scan alive.
					return
				}
				fetched[i] = block
			}(i, slot)
		}
		wg.Wait()

		for _, block := range fetched {
			if block == nil {
				result.BlocksFail++
				if s.metrics != nil {
					s.metrics.BlocksFailed.Inc()
				}
				continue
			}
			result.Blocks++
			result.TxsSeen += len(block.Transactions)
			if s.metrics != nil {
				s.metrics.BlocksFetched.Inc()
				s.metrics.TxsFetched.Add(float64(len(block.Transactions)))
			}
			blocks = append(blocks, block)
		}

		s.logger.Printf("Progress: %d/%d slots fetched", end, len(slots))
		s.pause(ctx, end < len(slots))
	}

	return blocks
}

// fetchTransactions retrieves transactions by signature in bounded batches.
func (s *Scanner) fetchTransactions(ctx context.Context, signatures []string, result *Result) []*solana.Transaction {
	var txs []*solana.Transaction

	for start := 0; start < len(signatures); start += s.batchSize {
		end := start + s.batchSize
		if end > len(signatures) {
			end = len(signatures)
		}
		batch := signatures[start:end]

		fetched := make([]*solana.Transaction, len(batch))
		var wg sync.WaitGroup
		for i, sig := range batch {
			wg.Add(1)
			go func(i int, sig string) {
				defer wg.Done()
				itemCtx, cancel := context.WithTimeout(ctx, s.itemTimeout)
				defer cancel()
				started := time.Now()
				tx, err := s.rpc.GetTransaction(itemCtx, sig)
				if s.metrics != nil {
					s.metrics.RPCCallLatency.WithLabelValues("getTransaction").Observe(time.Since(started).Seconds())
				}
				if err != nil {
					return
				}
				fetched[i] = tx
			}(i, sig)
		}
		wg.Wait()

		for _, tx := range fetched {
			if tx == nil {
				if s.metrics != nil {
					s.metrics.FetchItemFailures.Inc()
				}
				continue
			}
			result.TxsSeen++
			if s.metrics != nil {
				s.metrics.TxsFetched.Inc()
			}
			txs = append(txs, tx)
		}

		s.logger.Printf("Progress: %d/%d transactions fetched", end, len(signatures))
		s.pause(ctx, end < len(signatures))
	}

	return txs
}

// pause sleeps for the inter-batch delay unless the scan is done.
func (s *Scanner) pause(ctx context.Context, more bool) {
	if !more {
		return
	}
	select {
	case <-ctx.Done():
	case <-time.After(s.batchDelay):
	}
}

// extractOne runs the extractor on one raw transaction and records the
// outcome.
func (s *Scanner) extractOne(tx *solana.Transaction, result *Result) {
	swap, reason := s.extractor.Extract(tx)
	result.Extraction.Record(reason)
	if s.metrics != nil {
		if reason == extraction.ReasonNone {
			s.metrics.SwapsExtracted.Inc()
		} else {
			s.metrics.TxsSkipped.WithLabelValues(reason.String()).Inc()
		}
	}
	if swap != nil {
		result.Swaps = append(result.Swaps, swap)
	}
}

// finish restores deterministic order after concurrent fetch completion.
func (s *Scanner) finish(result *Result) {
	detection.SortSwaps(result.Swaps)
	if s.metrics != nil && len(result.Swaps) > 0 {
		s.metrics.ExtractionSlots.Set(float64(result.Swaps[len(result.Swaps)-1].Slot))
	}
	s.logger.Printf("Scan finished: %s (blocks=%d failed=%d txs=%d)",
		result.Extraction, result.Blocks, result.BlocksFail, result.TxsSeen)
}
