package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"solana-sandwich-lab/internal/domain"
	"solana-sandwich-lab/internal/storage"
)

// SwapStore implements storage.SwapStore using PostgreSQL.
type SwapStore struct {
	pool *Pool
}

// NewSwapStore creates a new SwapStore.
func NewSwapStore(pool *Pool) *SwapStore {
	return &SwapStore{pool: pool}
}

// Compile-time interface check.
var _ storage.SwapStore = (*SwapStore)(nil)

const insertSwapQuery = `
	INSERT INTO swaps (
		signature, slot, tx_index, signer, swap_program, pool_name,
		token_in, token_out, amount_in, amount_out,
		priority_fee, tip_account, tip_amount
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
`

const selectSwapColumns = `
	signature, slot, tx_index, signer, swap_program, pool_name,
	token_in, token_out, amount_in, amount_out,
	priority_fee, tip_account, tip_amount
`

// Insert adds a new swap. Returns ErrDuplicateKey if the signature exists.
func (s *SwapStore) Insert(ctx context.Context, swap *domain.SwapTransaction) error {
	if swap == nil || swap.Signature == "" {
		return storage.ErrInvalidInput
	}

	_, err := s.pool.Exec(ctx, insertSwapQuery, swapArgs(swap)...)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert swap: %w", err)
	}
	return nil
}

// InsertBulk adds multiple swaps atomically. Fails entire batch on any duplicate.
func (s *SwapStore) InsertBulk(ctx context.Context, swaps []*domain.SwapTransaction) error {
	if len(swaps) == 0 {
		return nil
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, swap := range swaps {
		if swap == nil || swap.Signature == "" {
			return storage.ErrInvalidInput
		}
		if _, err := tx.Exec(ctx, insertSwapQuery, swapArgs(swap)...); err != nil {
			if isDuplicateKeyError(err) {
				return storage.ErrDuplicateKey
			}
			return fmt.Errorf("insert swap in bulk: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}

	return nil
}

// GetBySignature retrieves a swap by signature. Returns ErrNotFound if not exists.
func (s *SwapStore) GetBySignature(ctx context.Context, signature string) (*domain.SwapTransaction, error) {
	query := `SELECT ` + selectSwapColumns + ` FROM swaps WHERE signature = $1`

	row := s.pool.QueryRow(ctx, query, signature)
	swap, err := scanSwap(row)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get swap by signature: %w", err)
	}
	return swap, nil
}

// GetBySlotRange retrieves swaps within [start, end] (inclusive), ordered by
// (slot, tx_index) ASC.
func (s *SwapStore) GetBySlotRange(ctx context.Context, start, end int64) ([]*domain.SwapTransaction, error) {
	query := `
		SELECT ` + selectSwapColumns + `
		FROM swaps
		WHERE slot >= $1 AND slot <= $2
		ORDER BY slot ASC, tx_index ASC, signature ASC
	`

	rows, err := s.pool.Query(ctx, query, start, end)
	if err != nil {
		return nil, fmt.Errorf("get swaps by slot range: %w", err)
	}
	defer rows.Close()

	return scanSwaps(rows)
}

// GetBySigner retrieves all swaps signed by a wallet, ordered by
// (slot, tx_index) ASC.
func (s *SwapStore) GetBySigner(ctx context.Context, signer string) ([]*domain.SwapTransaction, error) {
	query := `
		SELECT ` + selectSwapColumns + `
		FROM swaps
		WHERE signer = $1
		ORDER BY slot ASC, tx_index ASC, signature ASC
	`

	rows, err := s.pool.Query(ctx, query, signer)
	if err != nil {
		return nil, fmt.Errorf("get swaps by signer: %w", err)
	}
	defer rows.Close()

	return scanSwaps(rows)
}

func swapArgs(swap *domain.SwapTransaction) []interface{} {
	return []interface{}{
		swap.Signature,
		swap.Slot,
		swap.TxIndex,
		swap.Signer,
		swap.SwapProgram,
		swap.PoolName,
		swap.TokenIn,
		swap.TokenOut,
		swap.AmountIn,
		swap.AmountOut,
		swap.PriorityFee,
		swap.TipAccount,
		swap.TipAmount,
	}
}

// scanSwap scans a single row into a SwapTransaction.
func scanSwap(row pgx.Row) (*domain.SwapTransaction, error) {
	var swap domain.SwapTransaction
	err := row.Scan(
		&swap.Signature,
		&swap.Slot,
		&swap.TxIndex,
		&swap.Signer,
		&swap.SwapProgram,
		&swap.PoolName,
		&swap.TokenIn,
		&swap.TokenOut,
		&swap.AmountIn,
		&swap.AmountOut,
		&swap.PriorityFee,
		&swap.TipAccount,
		&swap.TipAmount,
	)
	if err != nil {
		return nil, err
	}
	return &swap, nil
}

// scanSwaps scans multiple rows into a slice of SwapTransaction.
func scanSwaps(rows pgx.Rows) ([]*domain.SwapTransaction, error) {
	var swaps []*domain.SwapTransaction

	for rows.Next() {
		swap, err := scanSwap(rows)
		if err != nil {
			return nil, fmt.Errorf("scan swap row: %w", err)
		}
		swaps = append(swaps, swap)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate swap rows: %w", err)
	}

	return swaps, nil
}
