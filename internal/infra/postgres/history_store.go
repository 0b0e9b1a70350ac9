package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"quizwiz/internal/domain"
)

// HistoryStore keeps the state record as JSONB in the quiz_state table.
type HistoryStore struct {
	pool *pgxpool.Pool
	key  string
}

func NewHistoryStore(pool *pgxpool.Pool) *HistoryStore {
	return &HistoryStore{pool: pool, key: domain.StorageKey}
}

func (s *HistoryStore) Load(ctx context.Context) (domain.State, error) {
	var raw []byte
	err := s.pool.QueryRow(ctx, `SELECT data FROM quiz_state WHERE key=$1`, s.key).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.DefaultState(), nil
	}
	if err != nil {
		return domain.State{}, fmt.Errorf("load state: %w", err)
	}
	return domain.DecodeState(raw)
}

func (s *HistoryStore) Save(ctx context.Context, state domain.State) error {
	data, err := domain.EncodeState(state)
	if err != nil {
		return err
	}
	_, err = s.pool.Exec(ctx,
		`INSERT INTO quiz_state (key, data, updated_at) VALUES ($1, $2::jsonb, now())
		 ON CONFLICT (key) DO UPDATE SET data=EXCLUDED.data, updated_at=now()`,
		s.key, string(data),
	)
	if err != nil {
		return fmt.Errorf("save state: %w", err)
	}
	return nil
}
