// Package main provides the simulate entry point: run a synthetic wide
// sandwich against a constant-product pool and save the three swaps as a
// regular swap batch, so the detect stage can consume it end to end.
package main

import (
	"flag"
	"log"
	"os"

	"solana-sandwich-lab/internal/config"
	"solana-sandwich-lab/internal/reporting"
	"solana-sandwich-lab/internal/simulation"
)

func main() {
	configPath := flag.String("config", "", "TOML config file path")
	tokenReserve := flag.Float64("token-reserve", 1_000_000, "Pool token reserve")
	solReserve := flag.Float64("sol-reserve", 500, "Pool SOL reserve")
	botSpend := flag.Float64("bot-spend", 20, "Bot front-run spend in SOL")
	victimSpend := flag.Float64("victim-spend", 30, "Victim spend in SOL")
	gapFrontVictim := flag.Int64("gap-front-victim", 1, "Slots between front-run and victim")
	gapVictimBack := flag.Int64("gap-victim-back", 3, "Slots between victim and back-run")
	save := flag.Bool("save", true, "Write the synthetic swaps as a swap batch")
	flag.Parse()

	logger := log.New(os.Stdout, "[simulate] ", log.LstdFlags)

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Fatalf("Load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		logger.Fatalf("Invalid config: %v", err)
	}

	pool := simulation.NewPoolState(*tokenReserve, *solReserve)
	result := simulation.RunSandwich(pool, simulation.Options{
		BotSOLSpend:        *botSpend,
		VictimSOLSpend:     *victimSpend,
		SlotGapFrontVictim: *gapFrontVictim,
		SlotGapVictimBack:  *gapVictimBack,
	})

	result.PrintSummary(logger, pool)

	if !*save {
		return
	}

	writer := reporting.NewWriter(cfg.Output.ResultsDir)
	path, err := writer.SaveSwaps(result.Transactions)
	if err != nil {
		logger.Fatalf("Save swaps: %v", err)
	}
	logger.Printf("Synthetic batch saved to: %s", path)
}
