package main

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/chrimar3/MVP-Hotel-sub001/app"
	"github.com/chrimar3/MVP-Hotel-sub001/config"
	"github.com/chrimar3/MVP-Hotel-sub001/internal/observability"
	"github.com/chrimar3/MVP-Hotel-sub001/routes"
)

func newServeCmd() *cobra.Command {
	var configFile string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the review generation HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configFile)
			if err != nil {
				return err
			}

			logger, err := observability.NewLogger(cfg.Logging)
			if err != nil {
				return fmt.Errorf("build logger: %w", err)
			}

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			deps, err := app.NewDependencies(ctx, cfg, logger)
			if err != nil {
				return fmt.Errorf("wire dependencies: %w", err)
			}
			if err := deps.Start(); err != nil {
				return fmt.Errorf("start workers: %w", err)
			}

			srv := &http.Server{
				Addr:         cfg.Server.Address(),
				Handler:      routes.SetupRoutes(deps),
				ReadTimeout:  cfg.Server.ReadTimeout,
				WriteTimeout: cfg.Server.WriteTimeout,
			}

			serverErr := make(chan error, 1)
			go func() {
				logger.Info("http server listening",
					zap.String("addr", srv.Addr),
					zap.String("environment", cfg.Environment))
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					serverErr <- err
				}
			}()

			select {
			case err := <-serverErr:
				_ = deps.Close(context.Background())
				return fmt.Errorf("server error: %w", err)
			case <-ctx.Done():
				logger.Info("shutdown signal received")
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
			defer cancel()

			if err := srv.Shutdown(shutdownCtx); err != nil {
				logger.Warn("http server shutdown incomplete", zap.Error(err))
			}
			return deps.Close(shutdownCtx)
		},
	}

	cmd.Flags().StringVarP(&configFile, "config", "c", "", "path to an env file (default: .env when present)")
	return cmd
}

// loadConfig builds configuration from the environment, optionally
// overlaying an explicit env file first
func loadConfig(configFile string) (*config.Config, error) {
	if configFile == "" {
		return config.New()
	}
	return config.New(configFile)
}
