package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	httpadapter "github.com/jsamuelsen/quotekeeper/internal/adapters/http"
	"github.com/jsamuelsen/quotekeeper/internal/adapters/http/handlers"
	"github.com/jsamuelsen/quotekeeper/internal/platform/telemetry"
)

func newServeCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and the background sync until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApplication(cmd, opts, serve)
		},
	}
}

func serve(ctx context.Context, a *application) error {
	logger := a.logger

	logger.InfoContext(ctx, "starting service",
		slog.String("version", Version),
		slog.String("commit", Commit),
		slog.String("environment", a.cfg.App.Environment),
		slog.String("storage", a.cfg.Storage.Driver),
	)

	telProvider, err := telemetry.New(ctx, telemetry.ConfigFrom(a.cfg))
	if err != nil {
		return fmt.Errorf("initializing telemetry: %w", err)
	}

	defer func() {
		if err := telProvider.Shutdown(context.WithoutCancel(ctx)); err != nil {
			logger.Error("telemetry shutdown error", slog.Any("error", err))
		}
	}()

	quotes := a.store.Load(ctx)
	logger.InfoContext(ctx, "quotes loaded", slog.Int("count", len(quotes)))

	routerCfg := httpadapter.RouterConfig{
		Logger:        logger,
		ServiceName:   a.cfg.App.Name,
		HealthHandler: handlers.NewHealthHandler(a.health, handlers.NewBuildInfo(Version, Commit, BuildTime)),
		QuoteHandler:  handlers.NewQuoteHandler(a.store),
		SyncHandler:   a.syncHandler(),
		Timeout:       httpadapter.DefaultRequestTimeout,
	}

	server := httpadapter.New(&a.cfg.Server, logger)
	httpadapter.SetupRouter(server.Engine(), routerCfg)

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error { return server.Run(ctx) })

	if a.cfg.Sync.Enabled {
		g.Go(func() error { return a.syncer.Run(ctx) })
	} else {
		logger.InfoContext(ctx, "background sync disabled")
	}

	if err := g.Wait(); err != nil {
		return err
	}

	logger.Info("shutdown complete")

	return nil
}

// syncHandler returns nil when background sync is disabled, which leaves
// POST /api/v1/sync unmounted.
func (a *application) syncHandler() *handlers.SyncHandler {
	if !a.cfg.Sync.Enabled {
		return nil
	}

	return handlers.NewSyncHandler(a.syncer)
}
