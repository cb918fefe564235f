package extraction

import (
	"math"
	"strings"

	"filippo.io/edwards25519"
	"github.com/mr-tron/base58"

	"solana-sandwich-lab/internal/domain"
	"solana-sandwich-lab/internal/solana"
)

// DefaultEpsilon is the minimum absolute token delta treated as movement.
// Smaller deltas are rounding noise, not a swap leg.
const DefaultEpsilon = 1e-4

// Tip heuristic bounds, in lamports. Credits outside this range on a
// secondary account are ordinary transfers or rent, not tips.
const (
	minTipLamports = 1_000
	maxTipLamports = 10_000_000_000 // 10 SOL
)

// lamportsBaseFeePerSignature is the fixed network fee per signature.
const lamportsBaseFeePerSignature = 5_000

// Extractor maps raw transactions to canonical swap records.
// The venue table and pool names are explicit configuration, not process
// state, so tests can supply synthetic tables.
type Extractor struct {
	venues    domain.VenueTable
	poolNames map[string]string // programID -> pool name override
	epsilon   float64
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithEpsilon overrides the minimum-delta threshold.
func WithEpsilon(eps float64) Option {
	return func(e *Extractor) {
		e.epsilon = eps
	}
}

// WithPoolNames supplies a programID -> pool name table. Programs absent
// from the table keep the venue name as the pool name.
func WithPoolNames(names map[string]string) Option {
	return func(e *Extractor) {
		e.poolNames = names
	}
}

// NewExtractor creates an extractor for the given venue table.
func NewExtractor(venues domain.VenueTable, opts ...Option) *Extractor {
	e := &Extractor{
		venues:  venues,
		epsilon: DefaultEpsilon,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract maps one raw transaction to a canonical swap record.
// A nil record with a non-ReasonNone reason means the transaction was
// skipped; extraction never fails a batch.
func (e *Extractor) Extract(tx *solana.Transaction) (*domain.SwapTransaction, Reason) {
	if tx == nil || tx.Meta == nil || tx.Message == nil {
		return nil, ReasonMissingMeta
	}
	if tx.Meta.Err != nil {
		return nil, ReasonFailedTx
	}

	// Without account keys no program ID can resolve, so check the signer
	// before the venue scan to report the more precise reason.
	if len(tx.Message.AccountKeys) == 0 {
		return nil, ReasonNoSigner
	}
	signer := tx.Message.AccountKeys[0]

	venue, ok := e.identifyVenue(tx)
	if !ok {
		return nil, ReasonNotSwap
	}

	tokenIn, tokenOut, amountIn, amountOut, ok := e.resolveFlow(tx, signer)
	if !ok {
		return nil, ReasonAmbiguousFlow
	}

	txIndex := tx.TxIndex
	if txIndex < 0 {
		txIndex = domain.UnknownTxIndex
	}

	poolName := venue.Name
	if name, ok := e.poolNames[venue.ProgramID]; ok {
		poolName = name
	}

	swap := &domain.SwapTransaction{
		Signature:   tx.Signature,
		Slot:        tx.Slot,
		TxIndex:     txIndex,
		Signer:      signer,
		SwapProgram: venue.Name,
		PoolName:    poolName,
		TokenIn:     tokenIn,
		TokenOut:    tokenOut,
		AmountIn:    amountIn,
		AmountOut:   amountOut,
		PriorityFee: priorityFee(tx),
	}
	swap.TipAccount, swap.TipAmount = e.findTip(tx, signer)

	return swap, ReasonNone
}

// identifyVenue locates the swap program behind the transaction.
// The log-marker heuristic runs first: when a known swap instruction appears
// in the logs, both top-level and inner instructions are searched for a
// monitored program (the venue may only be reachable via CPI). Without a
// marker the search falls back to a direct scan of top-level program IDs.
func (e *Extractor) identifyVenue(tx *solana.Transaction) (domain.Venue, bool) {
	if hasSwapMarker(tx.Meta.LogMessages) {
		for _, in := range tx.Message.Instructions {
			if v, ok := e.venues.Lookup(tx.Message.ProgramID(in)); ok {
				return v, true
			}
		}
		for _, set := range tx.Meta.InnerInstructions {
			for _, in := range set.Instructions {
				if v, ok := e.venues.Lookup(tx.Message.ProgramID(in)); ok {
					return v, true
				}
			}
		}
	}

	// Fallback: top-level program scan only.
	for _, in := range tx.Message.Instructions {
		if v, ok := e.venues.Lookup(tx.Message.ProgramID(in)); ok {
			return v, true
		}
	}

	return domain.Venue{}, false
}

// hasSwapMarker reports whether any log line carries a known swap marker.
func hasSwapMarker(logs []string) bool {
	for _, line := range logs {
		for _, marker := range swapLogMarkers {
			if strings.Contains(line, marker) {
				return true
			}
		}
	}
	return false
}

// mintDelta accumulates the net movement of one mint across the relevant
// token accounts.
type mintDelta struct {
	mint  string
	delta float64
}

// resolveFlow computes per-mint balance deltas and applies the extreme-value
// rule: the most negative relevant delta is the input leg, the most positive
// is the output leg. Both must exist for the movement to count as a swap.
func (e *Extractor) resolveFlow(tx *solana.Transaction, signer string) (tokenIn, tokenOut string, amountIn, amountOut float64, ok bool) {
	deltas := relevantDeltas(tx, signer, e.epsilon)
	if len(deltas) == 0 {
		return "", "", 0, 0, false
	}

	var in, out *mintDelta
	for i := range deltas {
		d := &deltas[i]
		if d.delta < 0 && (in == nil || d.delta < in.delta) {
			in = d
		}
		if d.delta > 0 && (out == nil || d.delta > out.delta) {
			out = d
		}
	}
	if in == nil || out == nil {
		return "", "", 0, 0, false
	}

	return in.mint, out.mint, math.Abs(in.delta), out.delta, true
}

// balanceKey identifies one token account's holding of one mint.
type balanceKey struct {
	accountIndex int
	mint         string
}

// relevantDeltas returns per-mint net deltas for token accounts owned by the
// signer. When no balance entry carries owner metadata, deltas of the first
// non-signer writable account stand in for the signer's (older nodes omit
// the owner field). Deltas at or below epsilon are dropped as noise.
func relevantDeltas(tx *solana.Transaction, signer string, epsilon float64) []mintDelta {
	pre := make(map[balanceKey]float64)
	owners := make(map[int]string)
	haveOwners := false

	for _, b := range tx.Meta.PreTokenBalances {
		pre[balanceKey{b.AccountIndex, b.Mint}] = b.UIAmount.UIValue()
		if b.Owner != "" {
			owners[b.AccountIndex] = b.Owner
			haveOwners = true
		}
	}

	post := make(map[balanceKey]float64)
	for _, b := range tx.Meta.PostTokenBalances {
		post[balanceKey{b.AccountIndex, b.Mint}] = b.UIAmount.UIValue()
		if b.Owner != "" {
			owners[b.AccountIndex] = b.Owner
			haveOwners = true
		}
	}

	// Union of keys; a missing side counts as zero.
	keys := make(map[balanceKey]struct{}, len(pre)+len(post))
	for k := range pre {
		keys[k] = struct{}{}
	}
	for k := range post {
		keys[k] = struct{}{}
	}

	relevant := func(accountIndex int) bool {
		if haveOwners {
			return owners[accountIndex] == signer
		}
		return accountIndex == firstWritableNonSigner(tx.Message, signer)
	}

	// Aggregate per mint across the relevant accounts so multi-hop routes
	// that touch intermediate accounts of the same mint net out.
	byMint := make(map[string]float64)
	for k := range keys {
		if !relevant(k.accountIndex) {
			continue
		}
		d := post[k] - pre[k]
		byMint[k.mint] += d
	}

	var out []mintDelta
	for mint, d := range byMint {
		if math.Abs(d) <= epsilon {
			continue
		}
		out = append(out, mintDelta{mint: mint, delta: d})
	}
	return out
}

// firstWritableNonSigner returns the index of the first writable account key
// that is not the signer, or -1.
func firstWritableNonSigner(msg *solana.TransactionMessage, signer string) int {
	for i, key := range msg.AccountKeys {
		if key == signer {
			continue
		}
		if msg.IsWritable(i) {
			return i
		}
	}
	return -1
}

// priorityFee estimates the priority portion of the transaction fee: the
// total fee minus the fixed per-signature base fee.
func priorityFee(tx *solana.Transaction) uint64 {
	base := uint64(lamportsBaseFeePerSignature)
	if n := tx.Message.Header.NumRequiredSignatures; n > 1 {
		base = uint64(n) * lamportsBaseFeePerSignature
	}
	if tx.Meta.Fee <= base {
		return 0
	}
	return tx.Meta.Fee - base
}

// findTip looks for a bounded lamport credit on a secondary wallet account.
// Tip recipients are plain wallets, so program-derived addresses (off-curve
// keys) and monitored programs are excluded. Best-effort: the first match
// wins, and no match is common.
func (e *Extractor) findTip(tx *solana.Transaction, signer string) (*string, uint64) {
	meta := tx.Meta
	keys := tx.Message.AccountKeys
	n := len(meta.PreBalances)
	if len(meta.PostBalances) < n {
		n = len(meta.PostBalances)
	}

	for i := 1; i < n && i < len(keys); i++ {
		key := keys[i]
		if key == signer {
			continue
		}
		if _, isProgram := e.venues.Lookup(key); isProgram {
			continue
		}
		if meta.PostBalances[i] <= meta.PreBalances[i] {
			continue
		}
		credit := meta.PostBalances[i] - meta.PreBalances[i]
		if credit < minTipLamports || credit > maxTipLamports {
			continue
		}
		if !isOnCurve(key) {
			continue
		}
		tip := key
		return &tip, credit
	}

	return nil, 0
}

// isOnCurve reports whether a base58 account key decodes to a point on the
// ed25519 curve. Wallet addresses are on-curve; PDAs are not.
func isOnCurve(key string) bool {
	raw, err := base58.Decode(key)
	if err != nil || len(raw) != 32 {
		return false
	}
	_, err = new(edwards25519.Point).SetBytes(raw)
	return err == nil
}
