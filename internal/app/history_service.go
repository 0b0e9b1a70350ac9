package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"quizwiz/internal/domain"
)

// HistoryRepository persists the single state record (settings + recent results).
// Load returns domain.DefaultState when nothing was stored yet and wraps
// domain.ErrPersistenceCorrupt when the stored record cannot be decoded.
type HistoryRepository interface {
	Load(ctx context.Context) (domain.State, error)
	Save(ctx context.Context, state domain.State) error
}

// HistoryService owns the process-wide settings and bounded result history.
type HistoryService struct {
	repo HistoryRepository

	mu    sync.RWMutex
	state domain.State
}

// NewHistoryService loads the stored state. A corrupt record is replaced by defaults.
func NewHistoryService(ctx context.Context, repo HistoryRepository) (*HistoryService, error) {
	state, err := repo.Load(ctx)
	if err != nil {
		if !errors.Is(err, domain.ErrPersistenceCorrupt) {
			return nil, fmt.Errorf("load history: %w", err)
		}
		slog.Warn("stored quiz state unreadable, using defaults", "error", err)
		state = domain.DefaultState()
	}
	return &HistoryService{repo: repo, state: state}, nil
}

// Settings returns the last used settings.
func (h *HistoryService) Settings() domain.Settings {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.state.Settings
}

// UpdateSettings merges u into the stored settings and persists them.
func (h *HistoryService) UpdateSettings(ctx context.Context, u domain.SettingsUpdate) (domain.Settings, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	merged, err := h.state.Settings.Merge(u)
	if err != nil {
		return h.state.Settings, err
	}
	if err := h.commitLocked(ctx, h.state.WithSettings(merged)); err != nil {
		return h.state.Settings, err
	}
	return merged, nil
}

// RecordResult prepends r to the history, keeping the most recent domain.MaxResults.
func (h *HistoryService) RecordResult(ctx context.Context, r domain.Result) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.commitLocked(ctx, h.state.WithResult(r))
}

// commitLocked persists next and only then makes it visible.
func (h *HistoryService) commitLocked(ctx context.Context, next domain.State) error {
	if err := h.repo.Save(ctx, next); err != nil {
		return fmt.Errorf("save history: %w", err)
	}
	h.state = next
	return nil
}

// Results returns the stored results, most recent first.
func (h *HistoryService) Results() []domain.Result {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return append([]domain.Result(nil), h.state.Results...)
}

// Leaderboard returns the stored results ordered for display.
func (h *HistoryService) Leaderboard(by SortBy) []domain.Result {
	return SortResults(h.Results(), by)
}

func (h *HistoryService) Stats() Stats {
	return Summarize(h.Results())
}
