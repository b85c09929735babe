// Package cli wires the cobra command tree for the importer binary.
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/bcre/estate-import/internal/config"
	"github.com/bcre/estate-import/internal/logging"
)

// version is set at build time via ldflags.
var version = "dev"

// app carries state shared by commands after bootstrap.
type app struct {
	cfg      *config.Config
	logClose io.Closer
}

// Execute runs the root command. Exit code 0 means the run completed
// (skipped rows included); any error exits non-zero.
func Execute() {
	root := newRootCommand()
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	a := &app{}
	cmd := &cobra.Command{
		Use:           "estate-import",
		Short:         "CSV importer for realtor and listing data",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			if a.logClose != nil {
				_ = a.logClose.Close()
			}
		},
	}
	cmd.AddCommand(newImportCommand(a))
	cmd.AddCommand(newServeCommand(a))
	cmd.AddCommand(newSamplesCommand())
	return cmd
}

// bootstrap loads configuration and installs the configured logger.
func (a *app) bootstrap() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	closer, err := logging.Setup(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.File)
	if err != nil {
		return err
	}

	a.cfg = cfg
	a.logClose = closer
	return nil
}

// connect opens and verifies the database pool.
// A failure here is run-scoped: nothing has been imported yet.
func (a *app) connect(ctx context.Context) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(a.cfg.Database.URL)
	if err != nil {
		return nil, fmt.Errorf("parse database URL: %w", err)
	}
	poolConfig.MaxConns = int32(a.cfg.Database.MaxConns)
	poolConfig.MinConns = int32(a.cfg.Database.MinConns)

	connectCtx, cancel := context.WithTimeout(ctx, a.cfg.Database.ConnectTimeout)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(connectCtx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	if err := pool.Ping(connectCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	slog.Info("connected to database")
	return pool, nil
}
