package solana

import "context"

// RPCClient defines the Solana RPC HTTP interface consumed by the scanner.
// Every call is independent and retryable; a nil result with a nil error
// means the item does not exist.
type RPCClient interface {
	// GetTransaction retrieves a transaction by signature.
	GetTransaction(ctx context.Context, signature string) (*Transaction, error)

	// GetBlock retrieves a block by slot number.
	GetBlock(ctx context.Context, slot int64) (*Block, error)

	// GetSignaturesForAddress retrieves signatures for an address with pagination.
	GetSignaturesForAddress(ctx context.Context, address string, opts *SignaturesOpts) ([]SignatureInfo, error)

	// GetSlot retrieves the current slot height.
	GetSlot(ctx context.Context) (int64, error)
}

// Transaction represents a Solana transaction with the metadata required for
// swap extraction.
type Transaction struct {
	Slot      int64
	TxIndex   int // position within the block; -1 when fetched by signature
	Signature string
	BlockTime int64 // Unix timestamp (seconds)
	Meta      *TransactionMeta
	Message   *TransactionMessage
}

// TransactionMeta contains transaction execution metadata.
type TransactionMeta struct {
	Err               interface{}
	Fee               uint64
	LogMessages       []string
	PreBalances       []uint64 // lamports per account key, before execution
	PostBalances      []uint64 // lamports per account key, after execution
	PreTokenBalances  []TokenBalance
	PostTokenBalances []TokenBalance
	InnerInstructions []InnerInstructionSet
}

// TokenBalance is one entry of pre/postTokenBalances.
type TokenBalance struct {
	AccountIndex int
	Mint         string
	Owner        string // may be empty on older nodes
	UIAmount     TokenAmount
}

// TokenAmount is the uiTokenAmount of a token balance.
type TokenAmount struct {
	Amount   string // raw integer amount as string
	Decimals int
	UIAmount *float64 // nil when the account holds zero
}

// UIValue returns the human-denominated amount, 0 when absent.
func (a TokenAmount) UIValue() float64 {
	if a.UIAmount == nil {
		return 0
	}
	return *a.UIAmount
}

// Instruction is one compiled instruction referencing account keys by index.
type Instruction struct {
	ProgramIDIndex int
	Accounts       []int
	Data           string // base58
}

// InnerInstructionSet groups inner instructions spawned by one top-level
// instruction.
type InnerInstructionSet struct {
	Index        int
	Instructions []Instruction
}

// MessageHeader describes the signer/writability layout of the account keys.
type MessageHeader struct {
	NumRequiredSignatures       int
	NumReadonlySignedAccounts   int
	NumReadonlyUnsignedAccounts int
}

// TransactionMessage contains the compiled transaction message.
type TransactionMessage struct {
	AccountKeys  []string
	Header       MessageHeader
	Instructions []Instruction
}

// ProgramID resolves the program address of an instruction, "" when the
// index is out of range.
func (m *TransactionMessage) ProgramID(in Instruction) string {
	if in.ProgramIDIndex < 0 || in.ProgramIDIndex >= len(m.AccountKeys) {
		return ""
	}
	return m.AccountKeys[in.ProgramIDIndex]
}

// IsWritable reports whether the account at index i is writable, per the
// compiled message layout.
func (m *TransactionMessage) IsWritable(i int) bool {
	h := m.Header
	n := len(m.AccountKeys)
	if i < 0 || i >= n {
		return false
	}
	if i < h.NumRequiredSignatures {
		return i < h.NumRequiredSignatures-h.NumReadonlySignedAccounts
	}
	return i < n-h.NumReadonlyUnsignedAccounts
}
