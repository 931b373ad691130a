package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"mada_server_go/jobs"

	"github.com/spf13/cobra"
)

const shutdownTimeout = 10 * time.Second

// NewServeCommand создает команду запуска HTTP сервера и планировщика.
func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	var listen string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		Long: `Start the HTTP API server and the calendar expiry scheduler.

The database is created and migrated on start if needed.

Example:
  mada serve --config ./config.yaml
  MADA_JWT_SECRET=... mada serve --listen :9090 -v`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, rootOpts, listen)
		},
	}

	cmd.Flags().StringVar(&listen, "listen", "", "listen address (overrides config)")
	return cmd
}

func runServe(cmd *cobra.Command, opts *RootOptions, listen string) error {
	cfg, logger, err := loadConfig(opts)
	if err != nil {
		return err
	}
	if listen != "" {
		cfg.Listen = listen
	}

	a, err := newApp(cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := a.Close(); closeErr != nil {
			logger.Error("error closing database", "err", closeErr)
		}
	}()

	scheduler := jobs.NewScheduler(time.Local, logger.With("component", "scheduler"))
	if err := scheduler.ScheduleExpiry(cfg.Calendar.ExpiryCron, a.calendars); err != nil {
		return err
	}
	scheduler.Start()

	parentCtx := cmd.Context()
	if parentCtx == nil {
		parentCtx = context.Background()
	}
	ctx, stop := signal.NotifyContext(parentCtx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := &http.Server{
		Addr:              cfg.Listen,
		Handler:           a.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", cfg.Listen)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
	case <-ctx.Done():
		logger.Info("shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	scheduler.Stop(shutdownCtx)
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	return nil
}
