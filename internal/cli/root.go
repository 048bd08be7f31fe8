// Package cli holds the ezexam command tree.
package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vytor/ezexam/internal/config"
	"github.com/vytor/ezexam/internal/db"
	"github.com/vytor/ezexam/internal/logger"
)

// version is set via -ldflags at build time.
var version = "(devel)"

// NewRootCmd builds the command tree. Running it without a subcommand serves
// the HTTP API.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "ezexam",
		Short:         "Gamified math lesson backend",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().String("db", "", "Path to SQLite database file (overrides DB_PATH)")

	serve := newServeCmd()
	root.RunE = serve.RunE
	root.Flags().AddFlagSet(serve.Flags())

	root.AddCommand(serve)
	root.AddCommand(newSeedCmd())
	root.AddCommand(newReconcileCmd())
	root.AddCommand(newVersionCmd())
	return root
}

func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// loadConfig resolves configuration with --db taking priority over DB_PATH,
// validates it and installs the default logger.
func loadConfig(cmd *cobra.Command) (config.Config, *logger.Logger, error) {
	cfg := config.Load()
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		cfg.DBPath = p
	}
	if err := cfg.Validate(); err != nil {
		return cfg, nil, fmt.Errorf("invalid configuration:\n%w", err)
	}

	log := logger.New(
		logger.WithLevel(logger.ParseLevel(cfg.LogLevel)),
		logger.WithFormat(logger.ParseFormat(cfg.LogFormat)),
		logger.WithColors(cfg.LogColor && strings.EqualFold(cfg.LogFormat, "text")),
		logger.WithOutput(cmd.ErrOrStderr()),
	)
	logger.SetDefault(log)
	return cfg, log, nil
}

func openDB(cfg config.Config, log *logger.Logger) (*db.DB, error) {
	log.Debug("opening database at %s", cfg.DBPath)
	database, err := db.Open(cfg.DBPath, cfg.DBMaxOpenConns)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return database, nil
}
