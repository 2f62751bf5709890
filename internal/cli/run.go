package cli

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/usagewatch/usagewatch/internal/server"
	"github.com/usagewatch/usagewatch/pkg/monitor"
	"github.com/usagewatch/usagewatch/pkg/notify"
	"github.com/usagewatch/usagewatch/pkg/statestore"
	"github.com/usagewatch/usagewatch/pkg/usage"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the usage monitor",
	Long: `Poll the usage API at the configured interval, fire threshold
notifications, and serve the local status API.`,
	RunE: runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().StringP("listen", "l", "", "Status server listen address (default from config)")
	runCmd.Flags().Duration("interval", 0, "Poll interval (default from config)")
}

func runRun(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	if listen, _ := cmd.Flags().GetString("listen"); listen != "" {
		cfg.Server.Listen = listen
	}
	interval := cfg.PollInterval()
	if flagInterval, _ := cmd.Flags().GetDuration("interval"); flagInterval > 0 {
		interval = flagInterval
	}

	logger := newLogger(cfg)

	desc, err := loadDescriptor(cfg)
	if err != nil {
		return err
	}

	fetcher := usage.NewFetcher(desc, cfg.FetchTimeout(), logger)
	dispatcher := notify.NewDispatcher(initNotifiers(cfg), logger)
	store := statestore.NewStore(cfg.State.Path, logger)

	sinks := []monitor.Sink{monitor.NewLogSink(logger)}
	if cfg.Status.File != "" {
		sinks = append(sinks, monitor.NewStatusFileSink(cfg.Status.File, logger))
	}

	mon := monitor.New(fetcher, dispatcher, store, sinks, interval, logger)

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	errCh := make(chan error, 1)
	if cfg.Server.Enabled {
		apiServer := server.New(mon, store, logger)
		srv := &http.Server{
			Addr:         cfg.Server.Listen,
			Handler:      apiServer.Handler(),
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
		}

		go func() {
			logger.Info("status server started", "listen", cfg.Server.Listen)
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				errCh <- err
			}
		}()
		defer func() {
			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer shutdownCancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
	}

	go func() {
		logger.Info("monitor started", "interval", interval.String(), "url", desc.URL)
		mon.Run(ctx)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("status server error: %w", err)
	case sig := <-quit:
		logger.Info("shutting down", "signal", sig.String())
		cancel()
	}

	return nil
}
