package cli

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"quizwiz/internal/app"
	"quizwiz/internal/config"
	"quizwiz/internal/domain"
	"quizwiz/internal/infra/memory"
	infraredis "quizwiz/internal/infra/redis"
	transport "quizwiz/internal/transport/http"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "start",
		Short: "Start the quiz server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			return runServer(cmd.Context(), cfg)
		},
	}
	cmd.Flags().String("port", "", "port to listen on")
	return cmd
}

func runServer(ctx context.Context, cfg config.Config) error {
	rt, err := newRuntime(ctx, cfg)
	if err != nil {
		return err
	}
	defer rt.Close()

	var sessions app.SessionRepository
	if rt.redis != nil {
		sessions = infraredis.NewSessionStore(rt.redis, sessionTTL(config.Duration(cfg.Redis.TTL, 10*time.Minute), rt.perQuestion), rt.NewQuizService)
	} else {
		sessions = memory.NewSessionStore(rt.NewQuizService)
	}

	handler := transport.NewRouter(
		transport.NewAPI(rt.history, rt.categories),
		transport.NewWSHandler(sessions),
		cfg.Lang,
	)

	port := cfg.Server.Port
	if port == "" {
		port = "8080"
	}
	// only headers are bounded; websocket connections stay open for the whole attempt
	server := &http.Server{
		Addr:              ":" + port,
		Handler:           handler,
		ReadHeaderTimeout: 15 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		slog.Info("starting quiz server",
			"addr", server.Addr,
			"storage", cfg.Storage.Backend,
			"source", cfg.Trivia.Source,
			"lang", cfg.Lang,
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(stop)

	select {
	case <-stop:
		slog.Info("shutting down server")
	case <-ctx.Done():
		slog.Info("context canceled, shutting down server")
	case err := <-errc:
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// sessionTTL keeps a liveness marker alive for at least the longest possible attempt.
func sessionTTL(configured, perQuestion time.Duration) time.Duration {
	if longest := domain.MaxAmount * perQuestion; longest > configured {
		return longest
	}
	return configured
}
