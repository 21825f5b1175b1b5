//go:build integration

package integration

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/quotekeeper/internal/adapters/clients"
	"github.com/jsamuelsen/quotekeeper/internal/adapters/clients/acl"
	httpadapter "github.com/jsamuelsen/quotekeeper/internal/adapters/http"
	"github.com/jsamuelsen/quotekeeper/internal/adapters/http/handlers"
	"github.com/jsamuelsen/quotekeeper/internal/adapters/storage"
	"github.com/jsamuelsen/quotekeeper/internal/app"
	"github.com/jsamuelsen/quotekeeper/internal/platform/config"
	"github.com/jsamuelsen/quotekeeper/internal/ports"
)

// fakeRemote imitates the jsonplaceholder posts API.
type fakeRemote struct {
	server *httptest.Server

	down      atomic.Bool
	posts     atomic.Int32
	lastQuery atomic.Value
}

func newFakeRemote() *fakeRemote {
	f := &fakeRemote{}
	f.server = httptest.NewServer(http.HandlerFunc(f.serve))

	return f
}

func (f *fakeRemote) serve(w http.ResponseWriter, r *http.Request) {
	if f.down.Load() {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}

	if r.URL.Path != "/posts" {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	switch r.Method {
	case http.MethodGet:
		f.lastQuery.Store(r.URL.RawQuery)
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `[
			{"userId":1,"id":1,"title":"sunt aut facere repellat","body":"quia et suscipit"},
			{"userId":1,"id":2,"title":"qui est esse","body":"est rerum tempore"},
			{"userId":1,"id":3,"title":"","body":"untitled posts are dropped"}
		]`)
	case http.MethodPost:
		f.posts.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `{"id":101}`)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (f *fakeRemote) Close() { f.server.Close() }

// service is the API wired the way serve wires it, against a fake remote.
type service struct {
	server  *httptest.Server
	remote  *fakeRemote
	durable storage.Durable
	pusher  *app.Pusher
	store   *app.QuoteStore
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testClientConfig(baseURL string) *clients.Config {
	return &clients.Config{
		ServiceName: "jsonplaceholder",
		BaseURL:     baseURL,
		Timeout:     2 * time.Second,
		Retry: config.RetryConfig{
			MaxAttempts:     2,
			InitialInterval: 10 * time.Millisecond,
			MaxInterval:     50 * time.Millisecond,
			Multiplier:      2.0,
		},
		Circuit: config.CircuitBreakerConfig{
			MaxFailures:   10,
			Timeout:       time.Second,
			HalfOpenLimit: 1,
		},
		Logger: discardLogger(),
	}
}

// startService wires storage under dir (or memory when dir is empty), the
// remote adapter, the store and the router.
func startService(driver, dir string) (*service, error) {
	gin.SetMode(gin.TestMode)

	logger := discardLogger()
	remote := newFakeRemote()

	path := ""
	if dir != "" {
		path = filepath.Join(dir, "quotes")
		if driver == storage.DriverSQLite {
			path += ".db"
		}
	}

	durable, err := storage.Open(storage.Config{Driver: driver, Path: path}, logger)
	if err != nil {
		remote.Close()
		return nil, err
	}

	client, err := clients.New(testClientConfig(remote.server.URL))
	if err != nil {
		remote.Close()
		return nil, errors.Join(err, durable.Close())
	}

	remoteQuotes := acl.NewRemoteQuotes(acl.RemoteQuotesConfig{Client: client, Logger: logger})

	pusher := app.NewPusher(app.PusherConfig{
		Sink:    remoteQuotes,
		Timeout: 2 * time.Second,
		Rate:    100,
		Burst:   10,
		Logger:  logger,
	})

	store := app.NewQuoteStore(app.QuoteStoreConfig{
		Durable: durable,
		Session: storage.NewMemory(),
		Pusher:  pusher,
		Logger:  logger,
	})

	syncer := app.NewSyncer(app.SyncerConfig{
		Store:  store,
		Source: remoteQuotes,
		Sink:   remoteQuotes,
		Logger: logger,
	})

	registry := ports.NewHealthRegistry()
	_ = registry.Register(durable)
	_ = registry.RegisterOptional(remoteQuotes)

	engine := gin.New()
	httpadapter.SetupRouter(engine, httpadapter.RouterConfig{
		Logger:        logger,
		ServiceName:   "quotekeeper-integration",
		HealthHandler: handlers.NewHealthHandler(registry, handlers.NewBuildInfo("test", "test", "test")),
		QuoteHandler:  handlers.NewQuoteHandler(store),
		SyncHandler:   handlers.NewSyncHandler(syncer),
		Timeout:       5 * time.Second,
	})

	return &service{
		server:  httptest.NewServer(engine),
		remote:  remote,
		durable: durable,
		pusher:  pusher,
		store:   store,
	}, nil
}

func (s *service) URL() string { return s.server.URL }

// Close drains pushes and releases everything startService opened.
func (s *service) Close() error {
	s.server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	waitErr := s.pusher.Close(ctx)
	s.remote.Close()

	return errors.Join(waitErr, s.durable.Close())
}
