package simulation

import (
	"fmt"
	"log"

	"solana-sandwich-lab/internal/domain"
)

// Fixture identities. The bot signs the front- and back-run, the victim the
// middle swap.
const (
	SimTokenMint = "EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v"

	BotWallet    = "BOT_WALLET_ABC"
	VictimWallet = "VICTIM_WALLET_XYZ"

	sigFront  = "SIM_FRONT"
	sigVictim = "SIM_VICTIM"
	sigBack   = "SIM_BACK"

	simPoolName = "SIMULATED_POOL"
	simProgram  = "Raydium CLMM"
	baseSlot    = 10_000
)

// Options configures a sandwich run. Zero values take the canonical
// scenario: 20 SOL bot spend, 30 SOL victim spend, slot gaps 1 and 3.
type Options struct {
	BotSOLSpend        float64
	VictimSOLSpend     float64
	SlotGapFrontVictim int64
	SlotGapVictimBack  int64
}

// Result carries the synthetic swaps and the economics of the attack.
type Result struct {
	InitialPrice     float64
	FinalPrice       float64
	Transactions     []*domain.SwapTransaction // front-run, victim, back-run
	BotProfitSOL     float64
	VictimLossTokens float64
}

// RunSandwich executes a wide sandwich against the pool: the bot buys, the
// victim buys at the worsened price, the bot sells everything back. The pool
// is mutated through all three legs.
func RunSandwich(pool *PoolState, opts Options) *Result {
	botSpend := opts.BotSOLSpend
	if botSpend == 0 {
		botSpend = 20
	}
	victimSpend := opts.VictimSOLSpend
	if victimSpend == 0 {
		victimSpend = 30
	}
	gapFV := opts.SlotGapFrontVictim
	if gapFV == 0 {
		gapFV = 1
	}
	gapVB := opts.SlotGapVictimBack
	if gapVB == 0 {
		gapVB = 3
	}

	initialPrice := pool.Price()
	tokenAcquired := pool.SwapSOLForToken(botSpend)
	victimTokenOut := pool.SwapSOLForToken(victimSpend)
	solReturned := pool.SwapTokenForSOL(tokenAcquired)

	front := simTx(sigFront, baseSlot, BotWallet, domain.SOLMint, SimTokenMint, botSpend, tokenAcquired)
	victim := simTx(sigVictim, baseSlot+gapFV, VictimWallet, domain.SOLMint, SimTokenMint, victimSpend, victimTokenOut)
	back := simTx(sigBack, baseSlot+gapFV+gapVB, BotWallet, SimTokenMint, domain.SOLMint, tokenAcquired, solReturned)

	return &Result{
		InitialPrice:     initialPrice,
		FinalPrice:       pool.Price(),
		Transactions:     []*domain.SwapTransaction{front, victim, back},
		BotProfitSOL:     solReturned - botSpend,
		VictimLossTokens: victimSpend/initialPrice - victimTokenOut,
	}
}

func simTx(signature string, slot int64, signer, tokenIn, tokenOut string, amountIn, amountOut float64) *domain.SwapTransaction {
	return &domain.SwapTransaction{
		Signature:   signature,
		Slot:        slot,
		TxIndex:     1,
		Signer:      signer,
		SwapProgram: simProgram,
		PoolName:    simPoolName,
		TokenIn:     tokenIn,
		TokenOut:    tokenOut,
		AmountIn:    amountIn,
		AmountOut:   amountOut,
	}
}

// PrintSummary writes a human-readable breakdown of a run to the logger.
func (r *Result) PrintSummary(logger *log.Logger, pool *PoolState) {
	if logger == nil {
		logger = log.Default()
	}

	front, victim, back := r.Transactions[0], r.Transactions[1], r.Transactions[2]

	logger.Printf("Pool: %.0f tokens / %.2f SOL, price %.8f -> %.8f (%+.2f%%)",
		pool.TokenReserve, pool.SOLReserve, r.InitialPrice, r.FinalPrice,
		(r.FinalPrice/r.InitialPrice-1)*100)
	logger.Printf("Front-run (slot %d): spent %.6f SOL, received %.6f tokens",
		front.Slot, front.AmountIn, front.AmountOut)
	logger.Printf("Back-run (slot %d): spent %.6f tokens, received %.6f SOL, profit %+.6f SOL (ROI %.2f%%)",
		back.Slot, back.AmountIn, back.AmountOut, r.BotProfitSOL,
		r.BotProfitSOL/front.AmountIn*100)

	expected := victim.AmountIn / r.InitialPrice
	logger.Printf("Victim (slot %d): spent %.6f SOL, expected %.6f tokens, got %.6f, loss %.6f (%.2f%%)",
		victim.Slot, victim.AmountIn, expected, victim.AmountOut,
		r.VictimLossTokens, r.VictimLossTokens/expected*100)
	logger.Printf("Timing: front->victim %d slot(s), victim->back %d slot(s), span %d slot(s)",
		victim.Slot-front.Slot, back.Slot-victim.Slot, back.Slot-front.Slot)
}

// String implements fmt.Stringer with the one-line economics of the run.
func (r *Result) String() string {
	return fmt.Sprintf("bot %+.6f SOL, victim -%.6f tokens, price %.8f -> %.8f",
		r.BotProfitSOL, r.VictimLossTokens, r.InitialPrice, r.FinalPrice)
}
