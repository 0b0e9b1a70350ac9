package memory

import (
	"context"
	"sync"

	"quizwiz/internal/domain"
)

// HistoryStore keeps the encoded state record in process memory. It goes through the
// same codec as the durable stores, so a corrupt record behaves identically.
type HistoryStore struct {
	mu  sync.RWMutex
	raw []byte
}

func NewHistoryStore() *HistoryStore {
	return &HistoryStore{}
}

// NewHistoryStoreWithData seeds the store with a raw record, as if written earlier.
func NewHistoryStoreWithData(raw []byte) *HistoryStore {
	return &HistoryStore{raw: append([]byte(nil), raw...)}
}

func (s *HistoryStore) Load(_ context.Context) (domain.State, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.raw == nil {
		return domain.DefaultState(), nil
	}
	return domain.DecodeState(s.raw)
}

func (s *HistoryStore) Save(_ context.Context, state domain.State) error {
	data, err := domain.EncodeState(state)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.raw = data
	s.mu.Unlock()
	return nil
}

// Raw returns a copy of the stored record.
func (s *HistoryStore) Raw() []byte {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]byte(nil), s.raw...)
}
