package integration

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	goredis "github.com/redis/go-redis/v9"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/migrate"

	"quizwiz/internal/app"
	"quizwiz/internal/domain"
	"quizwiz/internal/infra/memory"
	"quizwiz/internal/infra/postgres"
	pgmigrations "quizwiz/internal/infra/postgres/migrations"
	infraredis "quizwiz/internal/infra/redis"
)

func TestPostgresHistoryEndToEnd(t *testing.T) {
	ctx := context.Background()
	requireDocker(t)

	pgURL, pgCleanup := startPostgres(t, ctx)
	defer pgCleanup()
	migrateDB(t, ctx, pgURL)

	pool, err := pgxpool.Connect(ctx, pgURL)
	if err != nil {
		t.Fatalf("connect pg: %v", err)
	}
	defer pool.Close()

	playAndReload(t, ctx, postgres.NewHistoryStore(pool))

	// a malformed record must fall back to defaults instead of failing startup
	if _, err := pool.Exec(ctx, `UPDATE quiz_state SET data='{"settings":{"amount":0}}'::jsonb`); err != nil {
		t.Fatalf("corrupt record: %v", err)
	}
	history, err := app.NewHistoryService(ctx, postgres.NewHistoryStore(pool))
	if err != nil {
		t.Fatalf("history over corrupt record: %v", err)
	}
	if history.Settings() != domain.DefaultSettings() {
		t.Fatalf("expected defaults, got %+v", history.Settings())
	}
}

func TestRedisHistoryEndToEnd(t *testing.T) {
	ctx := context.Background()
	requireDocker(t)

	redisURL, redisCleanup := startRedis(t, ctx)
	defer redisCleanup()

	client, err := redisClientFromURL(redisURL)
	if err != nil {
		t.Fatalf("redis client: %v", err)
	}
	defer client.Close()

	playAndReload(t, ctx, infraredis.NewHistoryStore(client))
}

// playAndReload runs one full attempt through the service and checks the
// result and settings come back from a fresh service over the same store.
func playAndReload(t *testing.T, ctx context.Context, repo app.HistoryRepository) {
	t.Helper()
	history, err := app.NewHistoryService(ctx, repo)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	amount, category := 3, "18"
	if _, err := history.UpdateSettings(ctx, domain.SettingsUpdate{Amount: &amount, Category: &category}); err != nil {
		t.Fatalf("update settings: %v", err)
	}

	service := app.NewQuizService(memory.NewStaticQuestionSource(memory.SampleQuestions()), history)
	snap, err := service.Start(ctx)
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	for i := 0; i < snap.Total; i++ {
		if _, err := service.SelectAnswer(i, snap.Question.Options[0]); err != nil {
			t.Fatalf("answer %d: %v", i, err)
		}
		snap = service.Navigate(1)
	}
	res, err := service.Submit(ctx)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if res.TotalQuestions != 3 || res.Category != "Computers" {
		t.Fatalf("unexpected result %+v", res)
	}

	reloaded, err := app.NewHistoryService(ctx, repo)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if got := reloaded.Results(); len(got) != 1 || got[0] != res {
		t.Fatalf("expected persisted result, got %+v", got)
	}
	if s := reloaded.Settings(); s.Amount != 3 || s.Category != "18" {
		t.Fatalf("expected persisted settings, got %+v", s)
	}
}

func startPostgres(t *testing.T, ctx context.Context) (string, func()) {
	t.Helper()
	req := tc.ContainerRequest{
		Image:        "postgres:15-alpine",
		Env:          map[string]string{"POSTGRES_USER": "quiz", "POSTGRES_PASSWORD": "quizpass", "POSTGRES_DB": "quizdb"},
		ExposedPorts: []string{"5432/tcp"},
		WaitingFor:   wait.ForLog("database system is ready to accept connections").WithOccurrence(2).WithStartupTimeout(60 * time.Second),
	}
	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		if strings.Contains(err.Error(), "Cannot connect to the Docker daemon") {
			t.Skipf("docker not available: %v", err)
		}
		t.Fatalf("start postgres: %v", err)
	}
	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("host: %v", err)
	}
	port, err := container.MappedPort(ctx, "5432/tcp")
	if err != nil {
		t.Fatalf("port: %v", err)
	}
	dsn := fmt.Sprintf("postgres://quiz:quizpass@%s:%s/quizdb?sslmode=disable", host, port.Port())
	return dsn, func() {
		_ = container.Terminate(ctx)
	}
}

func startRedis(t *testing.T, ctx context.Context) (string, func()) {
	t.Helper()
	req := tc.ContainerRequest{
		Image:        "redis:7-alpine",
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor:   wait.ForListeningPort("6379/tcp").WithStartupTimeout(30 * time.Second),
	}
	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		if strings.Contains(err.Error(), "Cannot connect to the Docker daemon") {
			t.Skipf("docker not available: %v", err)
		}
		t.Fatalf("start redis: %v", err)
	}
	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("redis host: %v", err)
	}
	port, err := container.MappedPort(ctx, "6379/tcp")
	if err != nil {
		t.Fatalf("redis port: %v", err)
	}
	url := fmt.Sprintf("redis://%s:%s", host, port.Port())
	return url, func() {
		_ = container.Terminate(ctx)
	}
}

func migrateDB(t *testing.T, ctx context.Context, dsn string) {
	t.Helper()
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))
	db := bun.NewDB(sqldb, pgdialect.New())
	defer db.Close()

	migrator := migrate.NewMigrator(db, pgmigrations.Migrations)
	if err := migrator.Init(ctx); err != nil {
		t.Fatalf("migrator init: %v", err)
	}
	if _, err := migrator.Migrate(ctx); err != nil {
		t.Fatalf("migrate: %v", err)
	}
}

func redisClientFromURL(url string) (*goredis.Client, error) {
	opts, err := goredis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	return goredis.NewClient(opts), nil
}

func requireDocker(t *testing.T) {
	t.Helper()
	if _, err := tc.NewDockerProvider(); err != nil {
		t.Skipf("docker not available: %v", err)
	}
}
