package redis

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"

	"quizwiz/internal/app"
	"quizwiz/internal/infra/memory"
)

func TestSessionStoreSetsAndClearsKeys(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	history, err := app.NewHistoryService(context.Background(), memory.NewHistoryStore())
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	store := NewSessionStore(newClient(mr), time.Minute, func() *app.QuizService {
		return app.NewQuizService(memory.NewStaticQuestionSource(memory.SampleQuestions()), history)
	})

	svc := store.GetOrCreate("player-1")
	if !mr.Exists("quiz:session:player-1") {
		t.Fatalf("expected redis key to be set")
	}
	if v, _ := mr.Get("quiz:session:player-1"); v != svc.ID() {
		t.Fatalf("expected attempt id %s, got %s", svc.ID(), v)
	}

	mr.FastForward(50 * time.Second)
	if again := store.GetOrCreate("player-1"); again != svc {
		t.Fatalf("expected the same service on reconnect")
	}
	if ttl := mr.TTL("quiz:session:player-1"); ttl != time.Minute {
		t.Fatalf("expected marker refreshed to 1m, got %s", ttl)
	}

	store.DeleteIfIdle("player-1")
	if mr.Exists("quiz:session:player-1") {
		t.Fatalf("expected redis key to be removed")
	}
}
