package ports

import (
	"context"

	"github.com/jsamuelsen/quotekeeper/internal/domain"
)

// RemoteQuoteSource is the pull side of remote reconciliation.
// The remote is untrusted and best-effort; implementations return
// domain.ErrNetwork for transport failures and non-success statuses.
type RemoteQuoteSource interface {
	FetchQuotes(ctx context.Context) ([]domain.Quote, error)
}

// RemoteQuoteSink is the push side of remote reconciliation.
type RemoteQuoteSink interface {
	// PushQuote notifies the remote of a single locally added quote.
	PushQuote(ctx context.Context, quote domain.Quote) error

	// PushQuotes sends the full local list.
	PushQuotes(ctx context.Context, quotes []domain.Quote) error
}

// RemoteQuotes is implemented by adapters that both pull and push.
type RemoteQuotes interface {
	RemoteQuoteSource
	RemoteQuoteSink
}
