package redis

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"quizwiz/internal/app"
)

// SessionStore is a Redis-aware implementation of app.SessionRepository.
// Services (and their timers) live in process; Redis only carries a liveness
// marker per player so other instances can tell someone is mid-attempt.
type SessionStore struct {
	client     *redis.Client
	ttl        time.Duration
	newService func() *app.QuizService

	mu       sync.RWMutex
	sessions map[string]*app.QuizService
}

func NewSessionStore(client *redis.Client, ttl time.Duration, newService func() *app.QuizService) *SessionStore {
	return &SessionStore{
		client:     client,
		ttl:        ttl,
		newService: newService,
		sessions:   make(map[string]*app.QuizService),
	}
}

func (s *SessionStore) GetOrCreate(playerID string) *app.QuizService {
	s.mu.Lock()
	defer s.mu.Unlock()
	svc, ok := s.sessions[playerID]
	if !ok {
		svc = s.newService()
		s.sessions[playerID] = svc
	}
	// best-effort liveness marker, refreshed on every reconnect
	_ = s.client.Set(context.Background(), s.key(playerID), svc.ID(), s.ttl).Err()
	return svc
}

func (s *SessionStore) Get(playerID string) (*app.QuizService, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	svc, ok := s.sessions[playerID]
	return svc, ok
}

func (s *SessionStore) DeleteIfIdle(playerID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	svc, ok := s.sessions[playerID]
	if !ok {
		return
	}
	if !svc.Active() {
		svc.Reset()
		delete(s.sessions, playerID)
		_ = s.client.Del(context.Background(), s.key(playerID)).Err()
	}
}

func (s *SessionStore) key(playerID string) string {
	return "quiz:session:" + playerID
}
