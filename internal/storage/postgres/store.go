// Package postgres persists resolver and router output to Postgres.
package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"chainscope/internal/model"
)

// Store provides Postgres persistence for balance changes and trades.
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

// PutBalanceChanges inserts resolved balance change rows.
func (s *Store) PutBalanceChanges(ctx context.Context, records []model.BalanceChangeRecord) error {
	if len(records) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, record := range records {
		batch.Queue(`
			INSERT INTO balance_changes (
				chain, subject, asset_slug, atomic_amount, is_nft, tx_ref, resolved_at, created_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, now())
		`,
			record.Chain,
			record.Subject,
			record.AssetSlug,
			record.AtomicAmount,
			record.IsNft,
			record.TxRef,
			record.ResolvedAt,
		)
	}
	return s.sendBatch(ctx, batch, len(records))
}

// PutTrades inserts quoted trade rows.
func (s *Store) PutTrades(ctx context.Context, records []model.TradeRecord) error {
	if len(records) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, record := range records {
		batch.Queue(`
			INSERT INTO trades (
				input_slug, input_amount, output_slug, output_amount, route_dexes, route_hops, quoted_at, created_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, now())
		`,
			record.InputSlug,
			record.InputAmount,
			record.OutputSlug,
			record.OutputAmount,
			record.RouteDexes,
			record.RouteHops,
			record.QuotedAt,
		)
	}
	return s.sendBatch(ctx, batch, len(records))
}

func (s *Store) sendBatch(ctx context.Context, batch *pgx.Batch, queued int) error {
	br := s.pool.SendBatch(ctx, batch)
	defer br.Close()

	for i := 0; i < queued; i++ {
		if _, err := br.Exec(); err != nil {
			return err
		}
	}
	return nil
}
