package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/upb/forum-backend/routes"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var serveMigrate bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the API and operations HTTP servers.",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	deps, err := bootstrap(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err := deps.Close(context.Background()); err != nil {
			fmt.Fprintln(os.Stderr, err)
		}
	}()

	if serveMigrate {
		if err := deps.DB.Migrate(); err != nil {
			return err
		}
	}
	if deps.Config.Admin.Seed {
		if err := deps.SeedAdmin(ctx); err != nil {
			return err
		}
	}

	cfg := deps.Config
	servers := []*http.Server{{
		Addr:              cfg.Server.Address(),
		Handler:           routes.SetupRoutes(deps),
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       60 * time.Second,
	}}
	if cfg.Observability.MetricsAddr != "" {
		servers = append(servers, &http.Server{
			Addr:              cfg.Observability.MetricsAddr,
			Handler:           routes.SetupOpsRoutes(deps),
			ReadHeaderTimeout: 5 * time.Second,
		})
	}

	return serveHTTP(ctx, deps.Logger, cfg.Server.ShutdownTimeout, servers...)
}

// serveHTTP runs every server until ctx is done or one of them fails, then
// shuts all of them down within shutdownTimeout.
func serveHTTP(ctx context.Context, logger *zap.Logger, shutdownTimeout time.Duration, servers ...*http.Server) error {
	g, gctx := errgroup.WithContext(ctx)

	for _, srv := range servers {
		g.Go(func() error {
			logger.Info("http server listening", zap.String("addr", srv.Addr))
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("server %s failed: %w", srv.Addr, err)
			}
			return nil
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down http servers")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		var errs []error
		for _, srv := range servers {
			if err := srv.Shutdown(shutdownCtx); err != nil {
				errs = append(errs, fmt.Errorf("server %s shutdown: %w", srv.Addr, err))
			}
		}
		return errors.Join(errs...)
	})

	if err := g.Wait(); err != nil {
		return err
	}
	logger.Info("http servers stopped")
	return nil
}
