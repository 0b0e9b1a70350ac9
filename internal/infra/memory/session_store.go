package memory

import (
	"sync"

	"quizwiz/internal/app"
)

// SessionStore is an in-memory implementation of app.SessionRepository.
type SessionStore struct {
	newService func() *app.QuizService

	mu       sync.RWMutex
	sessions map[string]*app.QuizService
}

// NewSessionStore builds services on demand with newService.
func NewSessionStore(newService func() *app.QuizService) *SessionStore {
	return &SessionStore{
		newService: newService,
		sessions:   make(map[string]*app.QuizService),
	}
}

func (s *SessionStore) GetOrCreate(playerID string) *app.QuizService {
	s.mu.Lock()
	defer s.mu.Unlock()
	if svc, ok := s.sessions[playerID]; ok {
		return svc
	}
	svc := s.newService()
	s.sessions[playerID] = svc
	return svc
}

func (s *SessionStore) Get(playerID string) (*app.QuizService, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	svc, ok := s.sessions[playerID]
	return svc, ok
}

// DeleteIfIdle drops the player's service unless an attempt is still running.
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
	}
}
