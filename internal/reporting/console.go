package reporting

import (
	"log"
	"sort"

	"solana-sandwich-lab/internal/domain"
)

// PrintScanSummary logs the per-pool breakdown of a scan.
func PrintScanSummary(logger *log.Logger, swaps []*domain.SwapTransaction) {
	if logger == nil {
		logger = log.Default()
	}

	logger.Printf("Total swaps: %d", len(swaps))
	if len(swaps) == 0 {
		return
	}

	byPool := make(map[string]int)
	for _, s := range swaps {
		byPool[s.PoolName]++
	}

	pools := make([]string, 0, len(byPool))
	for name := range byPool {
		pools = append(pools, name)
	}
	sort.Strings(pools)

	logger.Printf("Breakdown by pool:")
	for _, name := range pools {
		count := byPool[name]
		logger.Printf("  - %s: %d swaps (%.1f%%)", name, count,
			float64(count)/float64(len(swaps))*100)
	}
}

// PrintDetectionSummary logs headline numbers of a detection run.
func PrintDetectionSummary(logger *log.Logger, sandwiches []*domain.Sandwich) {
	if logger == nil {
		logger = log.Default()
	}

	bots := make(map[string]struct{})
	victims := make(map[string]struct{})
	for _, s := range sandwiches {
		bots[s.Metadata.BotWallet] = struct{}{}
		victims[s.Metadata.VictimWallet] = struct{}{}
	}

	logger.Printf("Sandwiches detected: %d", len(sandwiches))
	logger.Printf("Unique bot wallets: %d", len(bots))
	logger.Printf("Unique victim wallets: %d", len(victims))
}

// PrintProfitSummary logs the analysis summary and the top bots.
func PrintProfitSummary(logger *log.Logger, summary *domain.AnalysisSummary) {
	if logger == nil {
		logger = log.Default()
	}

	logger.Printf("Analyzed %d sandwiches: %d profitable, %d at a loss",
		summary.TotalSandwiches, summary.ProfitableCount, summary.LossCount)
	logger.Printf("Total profit: %.4f USD | %.4f SOL",
		summary.TotalProfitUSD, summary.TotalProfitSOL)
	logger.Printf("Best sandwich: %.4f USD | %.4f SOL",
		summary.MaxProfitUSD, summary.MaxProfitSOL)

	if len(summary.TopBots) == 0 {
		return
	}
	logger.Printf("Top bots by USD profit:")
	for _, bot := range summary.TopBots {
		name := bot.Bot
		if len(name) > 16 {
			name = name[:16] + "..."
		}
		logger.Printf("  %s | %.4f USD (%.4f SOL) across %d sandwiches",
			name, bot.ProfitUSD, bot.ProfitSOL, bot.SandwichCount)
	}
}
