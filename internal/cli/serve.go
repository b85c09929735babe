package cli

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/bcre/estate-import/internal/core"
	"github.com/bcre/estate-import/internal/web"
)

func newServeCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP import API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), a)
		},
	}
}

func runServe(ctx context.Context, a *app) error {
	if err := a.bootstrap(); err != nil {
		return err
	}

	pool, err := a.connect(ctx)
	if err != nil {
		return err
	}
	defer pool.Close()

	service := core.NewService(pool, core.Options{
		MaxFileSize: a.cfg.Import.MaxFileSize,
	})
	server := web.NewServer(service, pool, a.cfg)

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown error", "error", err)
		}
	}()

	slog.Info("server starting", "addr", a.cfg.Server.Addr())
	if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
