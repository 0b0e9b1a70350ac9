package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"quizwiz/internal/domain"
)

func newTestStore(t *testing.T) *HistoryStore {
	t.Helper()
	s, err := New(":memory:")
	if err != nil {
		t.Fatalf("newTestStore: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestLoadEmptyReturnsDefaults(t *testing.T) {
	s := newTestStore(t)
	state, err := s.Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if state.Settings != domain.DefaultSettings() || len(state.Results) != 0 {
		t.Fatalf("expected default state, got %+v", state)
	}
}

func TestSaveOverwritesRecord(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	state := domain.DefaultState().WithResult(domain.Result{Score: 40, Date: "2024-01-01 10:00:00"})
	if err := s.Save(ctx, state); err != nil {
		t.Fatalf("Save: %v", err)
	}
	state.Settings.Amount = 25
	state = state.WithResult(domain.Result{Score: 90, Date: "2024-01-02 10:00:00"})
	if err := s.Save(ctx, state); err != nil {
		t.Fatalf("Save 2: %v", err)
	}

	got, err := s.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.Settings.Amount != 25 || len(got.Results) != 2 || got.Results[0].Score != 90 {
		t.Fatalf("unexpected state %+v", got)
	}

	var rows int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM kv`).Scan(&rows); err != nil {
		t.Fatalf("count: %v", err)
	}
	if rows != 1 {
		t.Fatalf("expected a single record, got %d", rows)
	}
}

func TestCorruptRecord(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	if err := s.writeRaw(ctx, `{"settings":`); err != nil {
		t.Fatalf("writeRaw: %v", err)
	}
	state, err := s.Load(ctx)
	if !errors.Is(err, domain.ErrPersistenceCorrupt) {
		t.Fatalf("expected ErrPersistenceCorrupt, got %v", err)
	}
	if state.Settings != domain.DefaultSettings() {
		t.Fatalf("corrupt record should decode to defaults, got %+v", state)
	}
}

func TestStateSurvivesReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "quizwiz.db")

	s, err := New(path)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := s.Save(ctx, domain.DefaultState().WithResult(domain.Result{Score: 70})); err != nil {
		t.Fatalf("Save: %v", err)
	}
	s.Close()

	reopened, err := New(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()
	got, err := reopened.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(got.Results) != 1 || got.Results[0].Score != 70 {
		t.Fatalf("unexpected state after reopen %+v", got)
	}
}
