package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/voyage-ai/voyage/internal/config"
	"github.com/voyage-ai/voyage/internal/events"
	"github.com/voyage-ai/voyage/internal/llm"
	"github.com/voyage-ai/voyage/internal/orchestrator"
	"github.com/voyage-ai/voyage/internal/store"
	"github.com/voyage-ai/voyage/internal/tool"
	"github.com/voyage-ai/voyage/internal/tool/builtins"
)

var (
	flagConfig  string
	flagHome    string
	flagVerbose bool

	cfg    *config.Config
	logger *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "voyage",
	Short: "Voyage - natural-language trip planning",
	Long: `Voyage turns a free-form travel prompt into a researched,
budget-partitioned, day-by-day itinerary. It can also replan a trip
mid-journey when spending runs ahead of budget, and rebuild the rest
of a single day.`,
	PersistentPreRunE: setup,
	SilenceUsage:      true,
	SilenceErrors:     true,
}

// Execute runs the root command with signal-aware context cancellation.
func Execute(ctx context.Context) error {
	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "config file path (default $VOYAGE_HOME/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&flagHome, "home", "", "voyage home directory (default ~/.voyage)")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "debug logging")

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(planCmd)
	rootCmd.AddCommand(replanCmd)
	rootCmd.AddCommand(optimizeDayCmd)
	rootCmd.AddCommand(tripsCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(versionCmd)
}

// setup loads configuration and builds the process-wide logger.
func setup(cmd *cobra.Command, args []string) error {
	if cmd.Name() == "init" || cmd.Name() == "version" || cmd.Name() == "help" {
		return nil
	}

	path := configPath()
	loaded, err := config.NewConfigLoader(config.NewValidator()).LoadWithDefaults(path)
	if err != nil {
		return err
	}
	cfg = loaded
	logger = newLogger(cfg.Logging)
	return nil
}

func homeDir() string {
	if flagHome != "" {
		return flagHome
	}
	if env := os.Getenv("VOYAGE_HOME"); env != "" {
		return env
	}
	return config.DefaultHomeDir()
}

func configPath() string {
	if flagConfig != "" {
		return flagConfig
	}
	return filepath.Join(homeDir(), "config.yaml")
}

func newLogger(lc config.LoggingConfig) *slog.Logger {
	level := slog.LevelInfo
	switch lc.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	if flagVerbose {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if lc.Format == "text" {
		handler = slog.NewTextHandler(os.Stderr, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	}
	return slog.New(handler)
}

// buildPipeline assembles the orchestrator with the builtin capability
// catalog, the plan archive, and the configured narrator. The caller owns
// the returned closer.
func buildPipeline() (*orchestrator.Orchestrator, *store.Store, func(), error) {
	registry := tool.NewRegistry()
	if err := builtins.RegisterAll(registry); err != nil {
		return nil, nil, nil, err
	}

	if err := os.MkdirAll(filepath.Dir(cfg.Store.Path), 0o755); err != nil {
		return nil, nil, nil, err
	}
	archive, err := store.Open(cfg.Store)
	if err != nil {
		return nil, nil, nil, err
	}

	narrator, err := llm.New(cfg.LLM)
	if err != nil {
		archive.Close()
		return nil, nil, nil, err
	}

	bus := events.NewBus()
	o, err := orchestrator.New(cfg, registry, archive, bus, narrator, logger)
	if err != nil {
		archive.Close()
		bus.Close()
		return nil, nil, nil, err
	}

	closer := func() {
		bus.Close()
		archive.Close()
	}
	return o, archive, closer, nil
}
