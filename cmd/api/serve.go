package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"uptime-monitor/internals/app"
	"uptime-monitor/internals/server"
	"uptime-monitor/pkg/db"
	"uptime-monitor/pkg/logger"

	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API, the scheduler, the prober and the result recorder",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Done is closed on SIGINT / SIGTERM
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log := logger.Init(cfg)
	log.Info().Msg("logger initialized")

	dbPool, err := db.ConnectToDB(ctx, &cfg.DB, log)
	if err != nil {
		return fmt.Errorf("failed to initialize db pool: %w", err)
	}
	log.Info().Msg("database pool initialized")

	container, err := app.NewContainer(ctx, dbPool, cfg, log, true)
	if err != nil {
		dbPool.Close()
		return fmt.Errorf("failed to initialize dependencies: %w", err)
	}
	log.Info().Msg("dependencies initialized")

	// jobs come back from the trigger table before the first tick
	if err := container.Scheduler.Reconcile(ctx); err != nil {
		_ = container.Shutdown(context.Background())
		return fmt.Errorf("failed to restore triggers: %w", err)
	}
	container.Scheduler.Start()
	app.StartConsumers(ctx, container)
	log.Info().Msg("scheduler, prober and recorder started")

	srv := server.New(fmt.Sprintf(":%d", cfg.Port), app.RegisterRoutes(container), log)
	srvErr := srv.Start()

	select {
	case <-ctx.Done():
		log.Info().Msg("shutdown signal received")
	case err := <-srvErr:
		if err != nil {
			log.Error().Err(err).Msg("http server failed, shutting down")
		}
	}

	// 1. stop accepting requests
	if err := srv.Shutdown(context.Background()); err != nil {
		log.Error().Err(err).Msg("server shutdown failed")
	}

	// 2. drain consumers, stop triggers, close infra
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := container.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("dependencies shutdown failed")
	}

	log.Info().Msg("graceful shutdown complete")
	return nil
}
