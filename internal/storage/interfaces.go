// Package storage defines the persistence interfaces for scan, detection,
// and profit artifacts. Stores are append-only: records never change once
// written, so duplicates are rejected rather than merged.
package storage

import (
	"context"

	"solana-sandwich-lab/internal/domain"
)

// SwapStore provides access to extracted swap storage.
type SwapStore interface {
	// Insert adds a new swap. Returns ErrDuplicateKey if the signature exists.
	Insert(ctx context.Context, s *domain.SwapTransaction) error

	// InsertBulk adds multiple swaps atomically. Fails entire batch on any duplicate.
	InsertBulk(ctx context.Context, swaps []*domain.SwapTransaction) error

	// GetBySignature retrieves a swap by signature. Returns ErrNotFound if not exists.
	GetBySignature(ctx context.Context, signature string) (*domain.SwapTransaction, error)

	// GetBySlotRange retrieves swaps within [start, end] (inclusive),
	// ordered by (slot, tx_index) ASC.
	GetBySlotRange(ctx context.Context, start, end int64) ([]*domain.SwapTransaction, error)

	// GetBySigner retrieves all swaps signed by a wallet, ordered by (slot, tx_index) ASC.
	GetBySigner(ctx context.Context, signer string) ([]*domain.SwapTransaction, error)
}

// SandwichStore provides access to detected sandwich storage.
type SandwichStore interface {
	// Insert adds a new sandwich. Returns ErrDuplicateKey if the
	// (front-run, victim, back-run) signature triple exists.
	Insert(ctx context.Context, s *domain.Sandwich) error

	// InsertBulk adds multiple sandwiches atomically. Fails entire batch on any duplicate.
	InsertBulk(ctx context.Context, sandwiches []*domain.Sandwich) error

	// GetAll retrieves all sandwiches, ordered by front-run (slot, tx_index) ASC.
	GetAll(ctx context.Context) ([]*domain.Sandwich, error)

	// GetByBot retrieves all sandwiches attributed to a bot wallet,
	// ordered by front-run (slot, tx_index) ASC.
	GetByBot(ctx context.Context, bot string) ([]*domain.Sandwich, error)
}

// ProfitRecordStore provides access to profit attribution storage.
type ProfitRecordStore interface {
	// InsertBulk adds multiple records. ClickHouse-backed implementations
	// do not enforce uniqueness; one analysis run writes one batch.
	InsertBulk(ctx context.Context, records []*domain.ProfitRecord) error

	// GetAll retrieves all records, ordered by profit_usd DESC.
	GetAll(ctx context.Context) ([]*domain.ProfitRecord, error)

	// GetByBot retrieves records for one bot wallet, ordered by profit_usd DESC.
	GetByBot(ctx context.Context, bot string) ([]*domain.ProfitRecord, error)
}
