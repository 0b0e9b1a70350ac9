package cli

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"

	"quizwiz/internal/app"
	"quizwiz/internal/config"
	"quizwiz/internal/infra/memory"
	"quizwiz/internal/infra/postgres"
	infraredis "quizwiz/internal/infra/redis"
	"quizwiz/internal/infra/sqlite"
	"quizwiz/internal/trivia"
)

// runtime holds the process-wide dependencies every command shares.
type runtime struct {
	cfg         config.Config
	history     *app.HistoryService
	source      app.QuestionSource
	categories  app.CategoryRepository
	redis       *redis.Client
	perQuestion time.Duration
	closers     []func()
}

func newRuntime(ctx context.Context, cfg config.Config) (*runtime, error) {
	rt := &runtime{
		cfg:         cfg,
		perQuestion: config.Duration(cfg.Trivia.PerQuestion, app.DefaultPerQuestion),
	}
	if cfg.Redis.Addr != "" {
		rt.redis = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		rt.closers = append(rt.closers, func() { rt.redis.Close() })
	}

	repo, err := rt.historyRepository(ctx)
	if err != nil {
		rt.Close()
		return nil, err
	}
	rt.history, err = app.NewHistoryService(ctx, repo)
	if err != nil {
		rt.Close()
		return nil, err
	}

	var loader memory.CategoryLoader
	switch cfg.Trivia.Source {
	case "static":
		rt.source = memory.NewStaticQuestionSource(memory.SampleQuestions())
		loader = memory.StaticCategoryLoader{}
	case "opentdb", "":
		client := trivia.New(cfg.Trivia.BaseURL, nil, config.Duration(cfg.Trivia.Timeout, 10*time.Second))
		rt.source = client
		loader = client
	default:
		rt.Close()
		return nil, fmt.Errorf("unknown question source %q", cfg.Trivia.Source)
	}

	categoriesTTL := config.Duration(cfg.Trivia.CategoriesTTL, time.Hour)
	if rt.redis != nil {
		rt.categories = infraredis.NewCategoryRepository(rt.redis, loader, categoriesTTL)
	} else {
		rt.categories = memory.NewCategoryRepository(loader, categoriesTTL)
	}
	return rt, nil
}

func (rt *runtime) historyRepository(ctx context.Context) (app.HistoryRepository, error) {
	switch rt.cfg.Storage.Backend {
	case "sqlite", "":
		store, err := sqlite.New(rt.cfg.Storage.Path)
		if err != nil {
			return nil, err
		}
		rt.closers = append(rt.closers, func() { store.Close() })
		return store, nil
	case "memory":
		return memory.NewHistoryStore(), nil
	case "redis":
		if rt.redis == nil {
			return nil, fmt.Errorf("redis storage requires redis.addr")
		}
		return infraredis.NewHistoryStore(rt.redis), nil
	case "postgres":
		if err := runMigrationsWithConfig(ctx, rt.cfg); err != nil {
			return nil, err
		}
		pool, err := pgxpool.Connect(ctx, rt.cfg.Postgres.URL)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		rt.closers = append(rt.closers, pool.Close)
		return postgres.NewHistoryStore(pool), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", rt.cfg.Storage.Backend)
	}
}

// NewQuizService builds a service for one player over the shared history.
func (rt *runtime) NewQuizService() *app.QuizService {
	return app.NewQuizService(rt.source, rt.history,
		app.WithPerQuestion(rt.perQuestion),
		app.WithCategories(rt.categories),
	)
}

func (rt *runtime) Close() {
	for i := len(rt.closers) - 1; i >= 0; i-- {
		rt.closers[i]()
	}
	slog.Debug("runtime closed")
}
