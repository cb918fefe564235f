package extraction

import "solana-sandwich-lab/internal/domain"

// Known DEX program IDs on mainnet.
const (
	// RaydiumAMMV4 is the Raydium AMM v4 program ID.
	RaydiumAMMV4 = "675kPX9MHTjS2zt1qfr1NYHuzeLXfQM9H24wFSUt1Mp8"
	// RaydiumCLMM is the Raydium concentrated liquidity program ID.
	RaydiumCLMM = "CAMMCzo5YL8w4VFF8KVHrK22GGUsp5VTaW7grrKgrWqK"
	// OrcaWhirlpools is the Orca Whirlpools program ID.
	OrcaWhirlpools = "whirLbMiicVdio4qvUfM5KAg6Ct8VwpYzGff3uctyCc"
	// JupiterV6 is the Jupiter aggregator v6 program ID.
	JupiterV6 = "JUP6LkbZbjS1jKKwapdHNy74zcZ3tLUZoi5QNyVTaV4"
	// MeteoraDLMM is the Meteora DLMM program ID.
	MeteoraDLMM = "LBUZKhRxPF3XUpBCjp4YzTKgLccjZhTSDM9YuVaPwxo"
)

// DefaultVenues returns the monitored DEX programs.
func DefaultVenues() domain.VenueTable {
	return domain.NewVenueTable([]domain.Venue{
		{ProgramID: RaydiumAMMV4, Name: "Raydium AMM"},
		{ProgramID: RaydiumCLMM, Name: "Raydium CLMM"},
		{ProgramID: OrcaWhirlpools, Name: "Orca Whirlpools"},
		{ProgramID: JupiterV6, Name: "Jupiter V6"},
		{ProgramID: MeteoraDLMM, Name: "Meteora DLMM"},
	})
}

// swapLogMarkers are instruction-log fragments that indicate a swap
// instruction executed. The log heuristic runs before the instruction scan
// because logs survive even when the swap program is invoked via CPI and
// never appears as a top-level instruction.
var swapLogMarkers = []string{
	"Instruction: Swap",
	"Instruction: SwapBaseIn",
	"Instruction: SwapBaseOut",
	"Instruction: SwapV2",
	"Instruction: TwoHopSwap",
	"Instruction: Route",
	"Instruction: SharedAccountsRoute",
	"ray_log",
}
