package acl

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jsamuelsen/quotekeeper/internal/adapters/clients"
	"github.com/jsamuelsen/quotekeeper/internal/domain"
	"github.com/jsamuelsen/quotekeeper/internal/platform/logging"
	"github.com/jsamuelsen/quotekeeper/internal/ports"
)

const (
	postsPath    = "/posts"
	defaultLimit = 3
)

var _ ports.RemoteQuotes = (*RemoteQuotes)(nil)

// RemoteQuotesConfig configures the remote quote adapter.
type RemoteQuotesConfig struct {
	// Client must have its BaseURL set to the remote API root.
	Client *clients.Client

	// Limit is how many posts one fetch asks for. Defaults to 3.
	Limit int

	Logger *slog.Logger
}

// RemoteQuotes implements ports.RemoteQuotes against a jsonplaceholder-style
// posts API.
type RemoteQuotes struct {
	client *clients.Client
	limit  int
	logger *slog.Logger
}

// NewRemoteQuotes creates the adapter. Panics if Client is nil.
func NewRemoteQuotes(cfg RemoteQuotesConfig) *RemoteQuotes {
	if cfg.Client == nil {
		panic("acl: RemoteQuotesConfig.Client is required")
	}

	limit := cfg.Limit
	if limit <= 0 {
		limit = defaultLimit
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &RemoteQuotes{
		client: cfg.Client,
		limit:  limit,
		logger: logger.With(slog.String("component", "acl.RemoteQuotes")),
	}
}

// FetchQuotes pulls the latest posts and translates them into quotes.
func (r *RemoteQuotes) FetchQuotes(ctx context.Context) ([]domain.Quote, error) {
	path := fmt.Sprintf("%s?_limit=%d", postsPath, r.limit)
	logger := logging.FromContextOr(ctx, r.logger)

	logger.Log(ctx, logging.LevelTrace, "fetching remote quotes", slog.String("path", path))

	var posts []post
	if err := r.client.GetJSON(ctx, path, &posts); err != nil {
		return nil, MapError(err, r.client.Name(), "fetch quotes")
	}

	quotes, dropped := TranslateEach(posts, postToQuote)
	if dropped > 0 {
		logger.DebugContext(ctx, "dropped untranslatable remote posts", slog.Int("dropped", dropped))
	}

	logger.Log(ctx, logging.LevelTrace, "fetched remote quotes",
		slog.Int("posts", len(posts)),
		slog.Int("quotes", len(quotes)),
	)

	return quotes, nil
}

// PushQuote posts a single quote.
func (r *RemoteQuotes) PushQuote(ctx context.Context, quote domain.Quote) error {
	if err := r.client.PostJSON(ctx, postsPath, quoteToOutgoing(quote), nil); err != nil {
		return MapError(err, r.client.Name(), "push quote")
	}

	return nil
}

// PushQuotes posts the whole list as one JSON array.
func (r *RemoteQuotes) PushQuotes(ctx context.Context, quotes []domain.Quote) error {
	body := make([]outgoingQuote, 0, len(quotes))
	for _, q := range quotes {
		body = append(body, quoteToOutgoing(q))
	}

	if err := r.client.PostJSON(ctx, postsPath, body, nil); err != nil {
		return MapError(err, r.client.Name(), "push quotes")
	}

	return nil
}

// Name implements ports.HealthChecker.
func (r *RemoteQuotes) Name() string {
	return "remote"
}

// Check implements ports.HealthChecker using the client's circuit state,
// so readiness probes never hit the remote.
func (r *RemoteQuotes) Check(ctx context.Context) error {
	return MapError(r.client.Check(ctx), r.client.Name(), "health check")
}
