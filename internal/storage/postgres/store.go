package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"profitScope/internal/model"
)

// Store provides Postgres persistence for trader rankings.
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

// WriteRanking replaces the stored ranking for the contract and mode in one
// batched write: stale rows are removed and the new entries upserted with
// their rank position.
func (s *Store) WriteRanking(ctx context.Context, ranking model.Ranking) error {
	batch := &pgx.Batch{}
	batch.Queue(`
		DELETE FROM trader_rankings
		WHERE contract = $1 AND mode = $2
	`, ranking.Contract, string(ranking.Mode))

	for position, entry := range ranking.Entries {
		batch.Queue(`
			INSERT INTO trader_rankings (
				contract, mode, address, value, position, created_at, updated_at
			) VALUES ($1, $2, $3, $4, $5, now(), now())
			ON CONFLICT (contract, mode, address)
			DO UPDATE SET
				value = EXCLUDED.value,
				position = EXCLUDED.position,
				updated_at = now()
		`,
			ranking.Contract,
			string(ranking.Mode),
			entry.Address,
			entry.Value,
			position+1,
		)
	}

	br := s.pool.SendBatch(ctx, batch)
	defer br.Close()

	for i := 0; i < len(ranking.Entries)+1; i++ {
		if _, err := br.Exec(); err != nil {
			return err
		}
	}
	return nil
}
