package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/pfrederiksen/pitcher-luck/internal/config"
	"github.com/pfrederiksen/pitcher-luck/internal/dataset"
	"github.com/pfrederiksen/pitcher-luck/internal/logger"
	"github.com/pfrederiksen/pitcher-luck/internal/storage"
)

const (
	ExitSuccess = 0
	ExitError   = 1
)

var (
	flagEnvFile  string
	flagDataDir  string
	flagYears    string
	flagCacheDir string
	flagNoCache  bool
	flagLogLevel string
	flagVerbose  bool
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pitcher-luck",
		Short: "MLB pitcher win-loss records: skill or luck?",
		Long: `A dashboard that shows MLB starting pitchers' win-loss records next to
the luck they had (run support and team errors) and their skill (ERA).

Serve it live, export it as a static site, or print the table here.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&flagEnvFile, "env-file", ".env", "Optional .env file with PITCHERLUCK_* settings")
	pf.StringVar(&flagDataDir, "data-dir", "", "Data directory (default \""+config.DefaultDataDir+"\")")
	pf.StringVar(&flagYears, "years", "", "Comma-separated seasons to load (default \""+config.DefaultYearsValue+"\")")
	pf.StringVar(&flagCacheDir, "cache-dir", "", "Season cache directory (default \""+config.DefaultCacheDir+"\")")
	pf.BoolVar(&flagNoCache, "no-cache", false, "Rebuild seasons from the CSV files without the season cache")
	pf.StringVar(&flagLogLevel, "log-level", "", "Log level: DEBUG, INFO, WARN or ERROR")
	pf.BoolVar(&flagVerbose, "verbose", false, "Enable verbose logging")

	cmd.AddCommand(
		newRunCmd(),
		newExportCmd(),
		newServeCmd(),
		newCleanCmd(),
		newTableCmd(),
		newCheckCmd(),
	)

	return cmd
}

// loadConfig reads the environment, applies flag overrides and configures
// the default logger.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(flagEnvFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	flags := cmd.Flags()
	if flags.Changed("data-dir") {
		cfg.DataDir = flagDataDir
	}
	if flags.Changed("years") {
		years, err := config.ParseYears(flagYears)
		if err != nil {
			return nil, err
		}
		cfg.Years = years
	}
	if flags.Changed("cache-dir") {
		cfg.CacheDir = flagCacheDir
	}
	if flagNoCache {
		cfg.CacheDir = ""
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = flagLogLevel
	}
	if flagVerbose {
		cfg.LogLevel = string(logger.LevelDebug)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	level, err := logger.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	logger.SetDefault(logger.New(level, os.Stderr))
	logger.Debug("configuration loaded", logger.Fields{
		"data_dir":  cfg.DataDir,
		"years":     cfg.Years,
		"cache_dir": cfg.CacheDir,
	})

	return cfg, nil
}

// loadStore builds the dataset, using the season cache when configured. A
// cache that cannot be opened is skipped with a warning.
func loadStore(ctx context.Context, cfg *config.Config) (*dataset.Store, error) {
	var cache dataset.SeasonCache
	if cfg.CacheDir != "" {
		st, err := storage.New(cfg.CacheDir)
		if err != nil {
			logger.Warn("season cache unavailable", logger.Fields{"dir": cfg.CacheDir, "error": err.Error()})
		} else {
			defer st.Close()
			cache = st
		}
	}

	store, err := dataset.Load(ctx, cfg, cache)
	if err != nil {
		return nil, fmt.Errorf("loading data: %w", err)
	}
	return store, nil
}

// signalContext is cancelled on SIGINT or SIGTERM.
func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}

// Execute runs the CLI
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(ExitError)
	}
	os.Exit(ExitSuccess)
}
