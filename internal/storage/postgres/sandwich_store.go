package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"

	"solana-sandwich-lab/internal/domain"
	"solana-sandwich-lab/internal/storage"
)

// SandwichStore implements storage.SandwichStore using PostgreSQL.
// The three legs are stored as JSONB documents: detection owns their shape
// and queries only touch the flattened metadata columns.
type SandwichStore struct {
	pool *Pool
}

// NewSandwichStore creates a new SandwichStore.
func NewSandwichStore(pool *Pool) *SandwichStore {
	return &SandwichStore{pool: pool}
}

// Compile-time interface check.
var _ storage.SandwichStore = (*SandwichStore)(nil)

const insertSandwichQuery = `
	INSERT INTO sandwiches (
		front_signature, victim_signature, back_signature,
		front_slot, front_tx_index,
		bot_wallet, victim_wallet,
		slot_gap_front_to_victim, slot_gap_victim_to_backrun, slot_gap_front_to_backrun,
		token_a, token_b, is_opposite_direction,
		front_run, victim, back_run
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
`

const selectSandwichColumns = `
	bot_wallet, victim_wallet,
	slot_gap_front_to_victim, slot_gap_victim_to_backrun, slot_gap_front_to_backrun,
	token_a, token_b, is_opposite_direction,
	front_run, victim, back_run
`

// Insert adds a new sandwich. Returns ErrDuplicateKey if the signature
// triple exists.
func (s *SandwichStore) Insert(ctx context.Context, sandwich *domain.Sandwich) error {
	args, err := sandwichArgs(sandwich)
	if err != nil {
		return err
	}

	if _, err := s.pool.Exec(ctx, insertSandwichQuery, args...); err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert sandwich: %w", err)
	}
	return nil
}

// InsertBulk adds multiple sandwiches atomically. Fails entire batch on any duplicate.
func (s *SandwichStore) InsertBulk(ctx context.Context, sandwiches []*domain.Sandwich) error {
	if len(sandwiches) == 0 {
		return nil
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, sandwich := range sandwiches {
		args, err := sandwichArgs(sandwich)
		if err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, insertSandwichQuery, args...); err != nil {
			if isDuplicateKeyError(err) {
				return storage.ErrDuplicateKey
			}
			return fmt.Errorf("insert sandwich in bulk: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}

	return nil
}

// GetAll retrieves all sandwiches, ordered by front-run (slot, tx_index) ASC.
func (s *SandwichStore) GetAll(ctx context.Context) ([]*domain.Sandwich, error) {
	query := `
		SELECT ` + selectSandwichColumns + `
		FROM sandwiches
		ORDER BY front_slot ASC, front_tx_index ASC, front_signature ASC
	`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("get all sandwiches: %w", err)
	}
	defer rows.Close()

	return scanSandwiches(rows)
}

// GetByBot retrieves all sandwiches attributed to a bot wallet, ordered by
// front-run (slot, tx_index) ASC.
func (s *SandwichStore) GetByBot(ctx context.Context, bot string) ([]*domain.Sandwich, error) {
	query := `
		SELECT ` + selectSandwichColumns + `
		FROM sandwiches
		WHERE bot_wallet = $1
		ORDER BY front_slot ASC, front_tx_index ASC, front_signature ASC
	`

	rows, err := s.pool.Query(ctx, query, bot)
	if err != nil {
		return nil, fmt.Errorf("get sandwiches by bot: %w", err)
	}
	defer rows.Close()

	return scanSandwiches(rows)
}

func sandwichArgs(s *domain.Sandwich) ([]interface{}, error) {
	if s == nil || s.FrontRun == nil || s.Victim == nil || s.BackRun == nil {
		return nil, storage.ErrInvalidInput
	}

	front, err := json.Marshal(s.FrontRun)
	if err != nil {
		return nil, fmt.Errorf("marshal front run: %w", err)
	}
	victim, err := json.Marshal(s.Victim)
	if err != nil {
		return nil, fmt.Errorf("marshal victim: %w", err)
	}
	back, err := json.Marshal(s.BackRun)
	if err != nil {
		return nil, fmt.Errorf("marshal back run: %w", err)
	}

	m := s.Metadata
	return []interface{}{
		s.FrontRun.Signature,
		s.Victim.Signature,
		s.BackRun.Signature,
		s.FrontRun.Slot,
		s.FrontRun.TxIndex,
		m.BotWallet,
		m.VictimWallet,
		m.SlotGapFrontToVictim,
		m.SlotGapVictimToBackrun,
		m.SlotGapFrontToBackrun,
		m.TokenPair[0],
		m.TokenPair[1],
		m.IsOppositeDirection,
		front,
		victim,
		back,
	}, nil
}

// scanSandwiches scans rows into sandwiches, rebuilding legs from JSONB.
func scanSandwiches(rows pgx.Rows) ([]*domain.Sandwich, error) {
	var sandwiches []*domain.Sandwich

	for rows.Next() {
		var (
			s                   domain.Sandwich
			tokenA, tokenB      string
			front, victim, back []byte
		)

		err := rows.Scan(
			&s.Metadata.BotWallet,
			&s.Metadata.VictimWallet,
			&s.Metadata.SlotGapFrontToVictim,
			&s.Metadata.SlotGapVictimToBackrun,
			&s.Metadata.SlotGapFrontToBackrun,
			&tokenA,
			&tokenB,
			&s.Metadata.IsOppositeDirection,
			&front,
			&victim,
			&back,
		)
		if err != nil {
			return nil, fmt.Errorf("scan sandwich row: %w", err)
		}
		s.Metadata.TokenPair = [2]string{tokenA, tokenB}

		s.FrontRun = &domain.SwapTransaction{}
		if err := json.Unmarshal(front, s.FrontRun); err != nil {
			return nil, fmt.Errorf("unmarshal front run: %w", err)
		}
		s.Victim = &domain.SwapTransaction{}
		if err := json.Unmarshal(victim, s.Victim); err != nil {
			return nil, fmt.Errorf("unmarshal victim: %w", err)
		}
		s.BackRun = &domain.SwapTransaction{}
		if err := json.Unmarshal(back, s.BackRun); err != nil {
			return nil, fmt.Errorf("unmarshal back run: %w", err)
		}

		sandwiches = append(sandwiches, &s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sandwich rows: %w", err)
	}

	return sandwiches, nil
}
