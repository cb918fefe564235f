package profit

import (
	"context"
	"errors"
	"log"
	"sort"

	"solana-sandwich-lab/internal/domain"
	"solana-sandwich-lab/internal/pricing"
)

// DefaultTopBots is the headline summary size.
const DefaultTopBots = 5

// maxAlignmentWarnings caps per-candidate warning logs to avoid flooding.
const maxAlignmentWarnings = 5

// ErrNoSandwiches is returned when the input batch is empty.
var ErrNoSandwiches = errors.New("no sandwiches to analyze")

// Analyzer prices and attributes a batch of sandwiches.
type Analyzer struct {
	oracle pricing.Oracle
	topN   int
	logger *log.Logger
}

// AnalyzerOptions configures an Analyzer.
type AnalyzerOptions struct {
	Oracle pricing.Oracle
	TopN   int // defaults to DefaultTopBots
	Logger *log.Logger
}

// NewAnalyzer creates a profit analyzer.
func NewAnalyzer(opts AnalyzerOptions) *Analyzer {
	topN := opts.TopN
	if topN == 0 {
		topN = DefaultTopBots
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	return &Analyzer{
		oracle: opts.Oracle,
		topN:   topN,
		logger: logger,
	}
}

// Result is the outcome of one analysis run. Records is the full audit
// ledger, ordered by profit_usd descending; Summary carries the headline
// figures and top bots.
type Result struct {
	Records []*domain.ProfitRecord
	Summary *domain.AnalysisSummary
	Bots    []*domain.BotSummary // every bot, ranked like Summary.TopBots
	Skipped int                  // candidates dropped for misaligned flow
}

// Analyze prices every referenced mint, attributes each sandwich, and
// aggregates per-bot summaries. Misaligned candidates are skipped and
// counted; missing prices degrade the affected records to zero USD profit.
func (a *Analyzer) Analyze(ctx context.Context, sandwiches []*domain.Sandwich) (*Result, error) {
	if len(sandwiches) == 0 {
		return nil, ErrNoSandwiches
	}

	prices, err := a.oracle.PricesUSD(ctx, CollectMints(sandwiches))
	if err != nil {
		return nil, err
	}

	solPrice := prices[domain.SOLMint]
	if solPrice == 0 {
		a.logger.Printf("[WARN] SOL price missing; SOL profits stay zero")
	}
	a.logger.Printf("Fetched %d prices. SOL price = %.4f USD", len(prices), solPrice)

	records := make([]*domain.ProfitRecord, 0, len(sandwiches))
	skipped := 0
	for i, s := range sandwiches {
		record, err := Attribute(s, i+1, prices, solPrice)
		if err != nil {
			skipped++
			if skipped <= maxAlignmentWarnings {
				a.logger.Printf("[WARN] skipped sandwich #%d: %v", i+1, err)
			}
			continue
		}
		records = append(records, record)
	}
	if skipped > maxAlignmentWarnings {
		a.logger.Printf("[WARN] %d further misaligned sandwiches skipped", skipped-maxAlignmentWarnings)
	}

	sortRecords(records)

	return &Result{
		Records: records,
		Summary: a.Summarize(records, solPrice),
		Bots:    BotSummaries(records),
		Skipped: skipped,
	}, nil
}

// sortRecords orders by profit_usd descending, sandwich id ascending on
// ties for determinism.
func sortRecords(records []*domain.ProfitRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		if records[i].ProfitUSD != records[j].ProfitUSD {
			return records[i].ProfitUSD > records[j].ProfitUSD
		}
		return records[i].SandwichID < records[j].SandwichID
	})
}

// Summarize computes the headline summary over attributed records.
func (a *Analyzer) Summarize(records []*domain.ProfitRecord, solPrice float64) *domain.AnalysisSummary {
	summary := &domain.AnalysisSummary{
		TotalSandwiches: len(records),
		SOLPriceUSD:     solPrice,
	}

	for _, r := range records {
		if r.ProfitRaw > 0 {
			summary.ProfitableCount++
		} else {
			summary.LossCount++
		}
		if r.ProfitUSD > summary.MaxProfitUSD {
			summary.MaxProfitUSD = r.ProfitUSD
		}
		if r.ProfitSOL > summary.MaxProfitSOL {
			summary.MaxProfitSOL = r.ProfitSOL
		}
		summary.TotalProfitUSD += r.ProfitUSD
		summary.TotalProfitSOL += r.ProfitSOL
	}

	bots := BotSummaries(records)
	if len(bots) > a.topN {
		bots = bots[:a.topN]
	}
	summary.TopBots = bots
	return summary
}

// BotSummaries aggregates records per bot wallet, ranked by USD profit
// descending, bot wallet ascending on ties.
func BotSummaries(records []*domain.ProfitRecord) []*domain.BotSummary {
	perBot := make(map[string]*domain.BotSummary)
	for _, r := range records {
		bot, ok := perBot[r.Bot]
		if !ok {
			bot = &domain.BotSummary{Bot: r.Bot}
			perBot[r.Bot] = bot
		}
		bot.SandwichCount++
		bot.ProfitUSD += r.ProfitUSD
		bot.ProfitSOL += r.ProfitSOL
	}

	bots := make([]*domain.BotSummary, 0, len(perBot))
	for _, b := range perBot {
		bots = append(bots, b)
	}
	sort.Slice(bots, func(i, j int) bool {
		if bots[i].ProfitUSD != bots[j].ProfitUSD {
			return bots[i].ProfitUSD > bots[j].ProfitUSD
		}
		return bots[i].Bot < bots[j].Bot
	})
	return bots
}
