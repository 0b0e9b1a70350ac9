package memory

import (
	"context"
	"errors"
	"strings"
	"testing"

	"quizwiz/internal/domain"
)

func TestStaticQuestionSourceFilters(t *testing.T) {
	src := NewStaticQuestionSource(SampleQuestions())

	tests := []struct {
		name     string
		settings domain.Settings
		want     int
		wantErr  error
	}{
		{"any", domain.Settings{Amount: 5, Category: domain.Any, Difficulty: domain.Any, Type: domain.Any}, 5, nil},
		{"computers", domain.Settings{Amount: 3, Category: "18", Difficulty: domain.Any, Type: domain.Any}, 3, nil},
		{"boolean easy", domain.Settings{Amount: 2, Category: domain.Any, Difficulty: domain.DifficultyEasy, Type: domain.TypeBoolean}, 2, nil},
		{"science decoded category", domain.Settings{Amount: 2, Category: "17", Difficulty: domain.Any, Type: domain.Any}, 2, nil},
		{"too many", domain.Settings{Amount: 4, Category: "18", Difficulty: domain.Any, Type: domain.Any}, 0, domain.ErrInsufficientQuestions},
		{"invalid", domain.Settings{Amount: 0, Category: domain.Any, Difficulty: domain.Any, Type: domain.Any}, 0, domain.ErrInvalidParameter},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			qs, err := src.FetchQuestions(context.Background(), tt.settings)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				if qs != nil {
					t.Fatalf("failed fetch must not return questions")
				}
				return
			}
			if err != nil {
				t.Fatalf("fetch: %v", err)
			}
			if len(qs) != tt.want {
				t.Fatalf("expected %d questions, got %d", tt.want, len(qs))
			}
		})
	}
}

func TestStaticQuestionSourceDecodes(t *testing.T) {
	src := NewStaticQuestionSource(SampleQuestions())
	qs, err := src.FetchQuestions(context.Background(), domain.Settings{Amount: 1, Category: "18", Difficulty: domain.DifficultyEasy, Type: domain.Any})
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if qs[0].Text != `What does "CPU" stand for?` {
		t.Fatalf("expected decoded text, got %q", qs[0].Text)
	}
}

func TestHistoryStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewHistoryStore()
	state, err := store.Load(ctx)
	if err != nil || state.Settings != domain.DefaultSettings() {
		t.Fatalf("expected defaults, got %+v err=%v", state, err)
	}

	state = state.WithResult(domain.Result{Score: 70, Date: "2024-02-02 08:00:00"})
	if err := store.Save(ctx, state); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(got.Results) != 1 || got.Results[0].Score != 70 {
		t.Fatalf("unexpected state %+v", got)
	}
	if raw := string(store.Raw()); !strings.Contains(raw, `"results":[{`) || !strings.Contains(raw, `"settings":{`) {
		t.Fatalf("unexpected stored record %s", raw)
	}

	corrupt := NewHistoryStoreWithData([]byte("not json"))
	if _, err := corrupt.Load(ctx); !errors.Is(err, domain.ErrPersistenceCorrupt) {
		t.Fatalf("expected ErrPersistenceCorrupt, got %v", err)
	}
}
