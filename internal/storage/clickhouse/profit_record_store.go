package clickhouse

import (
	"context"
	"encoding/json"
	"fmt"

	"solana-sandwich-lab/internal/domain"
	"solana-sandwich-lab/internal/storage"
)

// ProfitRecordStore implements storage.ProfitRecordStore using ClickHouse.
// MergeTree does not enforce uniqueness; one analysis run writes one batch,
// and repeated runs append.
type ProfitRecordStore struct {
	conn *Conn
}

// NewProfitRecordStore creates a new ProfitRecordStore.
func NewProfitRecordStore(conn *Conn) *ProfitRecordStore {
	return &ProfitRecordStore{conn: conn}
}

// Compile-time interface check.
var _ storage.ProfitRecordStore = (*ProfitRecordStore)(nil)

const selectRecordColumns = `
	sandwich_id, bot,
	token_spent, amount_spent, token_received, amount_received,
	profit_raw, profit_usd, profit_sol,
	front_run, victim, back_run
`

// InsertBulk adds multiple records via a prepared batch.
func (s *ProfitRecordStore) InsertBulk(ctx context.Context, records []*domain.ProfitRecord) error {
	if len(records) == 0 {
		return nil
	}

	batch, err := s.conn.PrepareBatch(ctx, `
		INSERT INTO profit_records (
			sandwich_id, bot,
			token_spent, amount_spent, token_received, amount_received,
			profit_raw, profit_usd, profit_sol,
			front_run, victim, back_run
		)
	`)
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}

	for _, r := range records {
		if r == nil {
			return storage.ErrInvalidInput
		}
		front, victim, back, err := marshalLegs(r)
		if err != nil {
			return err
		}
		err = batch.Append(
			uint32(r.SandwichID), r.Bot,
			r.TokenSpent, r.AmountSpent, r.TokenReceived, r.AmountReceived,
			r.ProfitRaw, r.ProfitUSD, r.ProfitSOL,
			front, victim, back,
		)
		if err != nil {
			return fmt.Errorf("append profit record: %w", err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("send batch: %w", err)
	}
	return nil
}

// GetAll retrieves all records, ordered by profit_usd DESC.
func (s *ProfitRecordStore) GetAll(ctx context.Context) ([]*domain.ProfitRecord, error) {
	query := `
		SELECT ` + selectRecordColumns + `
		FROM profit_records
		ORDER BY profit_usd DESC, sandwich_id ASC
	`

	rows, err := s.conn.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("get all profit records: %w", err)
	}
	defer rows.Close()

	return scanRecords(rows)
}

// GetByBot retrieves records for one bot wallet, ordered by profit_usd DESC.
func (s *ProfitRecordStore) GetByBot(ctx context.Context, bot string) ([]*domain.ProfitRecord, error) {
	query := `
		SELECT ` + selectRecordColumns + `
		FROM profit_records
		WHERE bot = ?
		ORDER BY profit_usd DESC, sandwich_id ASC
	`

	rows, err := s.conn.Query(ctx, query, bot)
	if err != nil {
		return nil, fmt.Errorf("get profit records by bot: %w", err)
	}
	defer rows.Close()

	return scanRecords(rows)
}

func marshalLegs(r *domain.ProfitRecord) (front, victim, back string, err error) {
	f, err := json.Marshal(r.FrontRun)
	if err != nil {
		return "", "", "", fmt.Errorf("marshal front run: %w", err)
	}
	v, err := json.Marshal(r.Victim)
	if err != nil {
		return "", "", "", fmt.Errorf("marshal victim: %w", err)
	}
	b, err := json.Marshal(r.BackRun)
	if err != nil {
		return "", "", "", fmt.Errorf("marshal back run: %w", err)
	}
	return string(f), string(v), string(b), nil
}

type rowScanner interface {
	Next() bool
	Scan(dest ...interface{}) error
	Err() error
}

func scanRecords(rows rowScanner) ([]*domain.ProfitRecord, error) {
	var records []*domain.ProfitRecord

	for rows.Next() {
		var (
			r                   domain.ProfitRecord
			sandwichID          uint32
			front, victim, back string
		)

		err := rows.Scan(
			&sandwichID, &r.Bot,
			&r.TokenSpent, &r.AmountSpent, &r.TokenReceived, &r.AmountReceived,
			&r.ProfitRaw, &r.ProfitUSD, &r.ProfitSOL,
			&front, &victim, &back,
		)
		if err != nil {
			return nil, fmt.Errorf("scan profit record row: %w", err)
		}
		r.SandwichID = int(sandwichID)

		if err := unmarshalLeg(front, &r.FrontRun); err != nil {
			return nil, err
		}
		if err := unmarshalLeg(victim, &r.Victim); err != nil {
			return nil, err
		}
		if err := unmarshalLeg(back, &r.BackRun); err != nil {
			return nil, err
		}

		records = append(records, &r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate profit record rows: %w", err)
	}

	return records, nil
}

func unmarshalLeg(data string, leg **domain.SwapTransaction) error {
	if data == "" || data == "null" {
		return nil
	}
	var swap domain.SwapTransaction
	if err := json.Unmarshal([]byte(data), &swap); err != nil {
		return fmt.Errorf("unmarshal leg: %w", err)
	}
	*leg = &swap
	return nil
}
