package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/upb/forum-backend/app"
	"github.com/upb/forum-backend/config"
	"github.com/upb/forum-backend/internal/observability"
	"github.com/upb/forum-backend/routes"
	"go.uber.org/zap"
)

var rootCmd = &cobra.Command{
	Use:           "forum-api",
	Short:         "Forum REST backend with HTTP Basic authentication.",
	SilenceErrors: true,
	SilenceUsage:  true,
	RunE:          runServe,
}

// Execute runs the CLI. Without a subcommand it serves the API.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	for _, cmd := range []*cobra.Command{rootCmd, serveCmd} {
		cmd.Flags().BoolVar(&serveMigrate, "migrate", true, "apply pending database migrations before serving")
	}
	migrateCmd.Flags().IntVar(&migrateDownSteps, "down", 0, "roll back this many migrations instead of applying")
	seedAdminCmd.Flags().StringVar(&seedLogin, "login", "", "administrator login (default ADMIN_LOGIN)")
	seedAdminCmd.Flags().StringVar(&seedPassword, "password", "", "administrator password (default ADMIN_PASSWORD)")

	rootCmd.AddCommand(serveCmd, migrateCmd, seedAdminCmd)
}

// initLogger builds the process logger from the observability config
func initLogger(cfg config.ObservabilityConfig) (*zap.Logger, error) {
	return observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
}

// bootstrap loads configuration, the logger and all dependencies
func bootstrap(ctx context.Context) (*app.Dependencies, error) {
	cfg, err := config.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger, err := initLogger(cfg.Observability)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	logger.Info("starting forum-api",
		zap.String("environment", cfg.Environment),
		zap.String("database", cfg.Database.LogString()))

	deps, err := app.NewDependencies(ctx, cfg, routes.PermitAll, logger)
	if err != nil {
		_ = logger.Sync()
		return nil, err
	}
	return deps, nil
}
