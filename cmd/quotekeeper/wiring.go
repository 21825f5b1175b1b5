package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jsamuelsen/quotekeeper/internal/adapters/clients"
	"github.com/jsamuelsen/quotekeeper/internal/adapters/clients/acl"
	"github.com/jsamuelsen/quotekeeper/internal/adapters/storage"
	"github.com/jsamuelsen/quotekeeper/internal/app"
	"github.com/jsamuelsen/quotekeeper/internal/platform/config"
	"github.com/jsamuelsen/quotekeeper/internal/ports"
)

// defaultPushWait bounds how long a command waits for background pushes on exit.
const defaultPushWait = 10 * time.Second

// application is the wired object graph shared by every command.
type application struct {
	cfg    *config.Config
	logger *slog.Logger

	durable storage.Durable
	remote  *acl.RemoteQuotes
	pusher  *app.Pusher
	store   *app.QuoteStore
	syncer  *app.Syncer
	health  *ports.DefaultHealthRegistry
}

func newApplication(cfg *config.Config, logger *slog.Logger) (*application, error) {
	durable, err := storage.Open(storage.Config{Driver: cfg.Storage.Driver, Path: cfg.Storage.Path}, logger)
	if err != nil {
		return nil, fmt.Errorf("opening storage: %w", err)
	}

	client, err := clients.New(&clients.Config{
		BaseURL:     cfg.Services.Remote.BaseURL,
		ServiceName: cfg.Services.Remote.Name,
		Timeout:     cfg.Client.Timeout,
		Retry:       cfg.Client.Retry,
		Circuit:     cfg.Client.CircuitBreaker,
		Transport:   cfg.Client.Transport,
		Logger:      logger,
	})
	if err != nil {
		return nil, errors.Join(fmt.Errorf("creating remote client: %w", err), durable.Close())
	}

	remote := acl.NewRemoteQuotes(acl.RemoteQuotesConfig{
		Client: client,
		Limit:  cfg.Sync.RemoteLimit,
		Logger: logger,
	})

	pusher := app.NewPusher(app.PusherConfig{
		Sink:    remote,
		Timeout: cfg.Sync.PushTimeout,
		Rate:    cfg.Sync.PushRate,
		Burst:   cfg.Sync.PushBurst,
		Logger:  logger,
	})

	// The last viewed quote lives only as long as the process.
	store := app.NewQuoteStore(app.QuoteStoreConfig{
		Durable: durable,
		Session: storage.NewMemory(),
		Pusher:  pusher,
		Logger:  logger,
	})

	syncer := app.NewSyncer(app.SyncerConfig{
		Store:    store,
		Source:   remote,
		Sink:     remote,
		Interval: cfg.Sync.Interval,
		Logger:   logger,
	})

	health := ports.NewHealthRegistry()
	health.CheckTimeout = cfg.Client.Timeout

	if err := health.Register(durable); err != nil {
		return nil, errors.Join(err, durable.Close())
	}

	if err := health.RegisterOptional(remote); err != nil {
		return nil, errors.Join(err, durable.Close())
	}

	return &application{
		cfg:     cfg,
		logger:  logger,
		durable: durable,
		remote:  remote,
		pusher:  pusher,
		store:   store,
		syncer:  syncer,
		health:  health,
	}, nil
}

// Close waits for in-flight pushes, bounded by the push timeout, then closes storage.
func (a *application) Close(ctx context.Context) error {
	waitCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), a.pushTimeout())
	defer cancel()

	if err := a.pusher.Close(waitCtx); err != nil {
		a.logger.WarnContext(ctx, "abandoning in-flight pushes", slog.Any("error", err))
	}

	if err := a.durable.Close(); err != nil {
		return fmt.Errorf("closing storage: %w", err)
	}

	return nil
}

func (a *application) pushTimeout() time.Duration {
	if a.cfg.Sync.PushTimeout > 0 {
		return a.cfg.Sync.PushTimeout
	}

	return defaultPushWait
}
