package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"binscope/internal/model"
)

// Store provides Postgres persistence for bin snapshots.
type Store struct {
	pool *pgxpool.Pool
}

func NewStore(ctx context.Context, dsn string) (*Store, error) {
	if dsn == "" {
		return nil, fmt.Errorf("pg dsn is required")
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, err
	}
	return &Store{pool: pool}, nil
}

func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// EnsureSchema creates the snapshot table when it does not exist.
func (s *Store) EnsureSchema(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS bin_snapshots (
			pool_address    TEXT             NOT NULL,
			bin_id          INTEGER          NOT NULL,
			price           DOUBLE PRECISION NOT NULL,
			liquidity_base  DOUBLE PRECISION NOT NULL,
			liquidity_quote DOUBLE PRECISION NOT NULL,
			total_liquidity DOUBLE PRECISION NOT NULL,
			is_active       BOOLEAN          NOT NULL,
			block_number    BIGINT,
			observed_at     BIGINT           NOT NULL,
			PRIMARY KEY (pool_address, bin_id, observed_at)
		)
	`)
	if err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

// PutSnapshots inserts a batch of snapshots, ignoring duplicates of the
// same observation instant.
func (s *Store) PutSnapshots(ctx context.Context, snapshots []model.BinSnapshot) error {
	if len(snapshots) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, snapshot := range snapshots {
		batch.Queue(`
			INSERT INTO bin_snapshots (
				pool_address, bin_id, price, liquidity_base, liquidity_quote,
				total_liquidity, is_active, block_number, observed_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			ON CONFLICT (pool_address, bin_id, observed_at) DO NOTHING
		`,
			snapshot.Pool,
			snapshot.BinID,
			snapshot.Price,
			snapshot.LiquidityBase,
			snapshot.LiquidityQuote,
			snapshot.TotalLiquidity,
			snapshot.IsActive,
			int64(snapshot.BlockNumber),
			snapshot.ObservedAt,
		)
	}

	results := s.pool.SendBatch(ctx, batch)
	defer results.Close()

	for range snapshots {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("insert snapshot: %w", err)
		}
	}
	return nil
}
