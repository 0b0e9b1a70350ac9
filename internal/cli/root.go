package cli

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"quizwiz/internal/config"
	"quizwiz/internal/i18n"
)

// Execute runs the CLI.
func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "quizwiz",
		Short:        "Timed trivia quizzes from the Open Trivia DB",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
				slog.Warn("error reading .env", "error", err)
			}
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			setupLogging(cfg.Log.Level, cfg.Log.Format)
			if err := i18n.Init(cfg.Lang); err != nil {
				return err
			}
			cmd.SetContext(i18n.WithLocalizer(cmd.Context(), i18n.NewLocalizer(cfg.Lang)))
			return nil
		},
	}

	f := cmd.PersistentFlags()
	f.String("config", "config/config.yaml", "path to YAML config")
	f.String("storage", "", "history backend (sqlite, redis, postgres, memory)")
	f.String("db", "", "SQLite database path")
	f.String("source", "", "question source (opentdb, static)")
	f.StringP("lang", "l", "", "message language (en, es)")
	f.String("redis-addr", "", "redis address for history, category cache and session markers")
	f.String("postgres-url", "", "postgres connection URL")
	f.String("log-level", "", "log level (debug, info, warn, error)")
	f.String("log-format", "", "log format (text, json)")

	cmd.AddCommand(
		NewStartCmd(),
		NewPlayCmd(),
		NewHistoryCmd(),
		NewSettingsCmd(),
		NewCategoriesCmd(),
		NewMigrateCmd(),
	)
	return cmd
}

func setupLogging(level, format string) {
	var logLevel slog.Level
	switch strings.ToLower(level) {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}
	handlerOpts := &slog.HandlerOptions{Level: logLevel}
	var logHandler slog.Handler
	switch strings.ToLower(format) {
	case "json":
		logHandler = slog.NewJSONHandler(os.Stderr, handlerOpts)
	default:
		logHandler = slog.NewTextHandler(os.Stderr, handlerOpts)
	}
	slog.SetDefault(slog.New(logHandler))
}

// viperForCmd binds a command's flags and QUIZWIZ_* environment variables.
func viperForCmd(cmd *cobra.Command) *viper.Viper {
	v := viper.New()
	_ = v.BindPFlags(cmd.Flags())

	v.SetEnvPrefix("QUIZWIZ")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	return v
}

// loadConfig reads the YAML file and applies flag and environment overrides on top.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	v := viperForCmd(cmd)
	cfg, err := config.Load(v.GetString("config"))
	if err != nil {
		return cfg, err
	}

	override := func(key string, dst *string) {
		if s := v.GetString(key); s != "" {
			*dst = s
		}
	}
	override("storage", &cfg.Storage.Backend)
	override("db", &cfg.Storage.Path)
	override("source", &cfg.Trivia.Source)
	override("lang", &cfg.Lang)
	override("log-level", &cfg.Log.Level)
	override("log-format", &cfg.Log.Format)
	override("port", &cfg.Server.Port)
	override("redis-addr", &cfg.Redis.Addr)
	override("postgres-url", &cfg.Postgres.URL)
	return cfg, nil
}
