package redis

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"quizwiz/internal/domain"
)

// HistoryStore keeps the state record as a single JSON string under the storage key.
type HistoryStore struct {
	client *redis.Client
	key    string
}

func NewHistoryStore(client *redis.Client) *HistoryStore {
	return &HistoryStore{client: client, key: domain.StorageKey}
}

func (s *HistoryStore) Load(ctx context.Context) (domain.State, error) {
	raw, err := s.client.Get(ctx, s.key).Bytes()
	if errors.Is(err, redis.Nil) {
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
	if err := s.client.Set(ctx, s.key, data, 0).Err(); err != nil {
		return fmt.Errorf("save state: %w", err)
	}
	return nil
}
