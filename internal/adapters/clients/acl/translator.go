package acl

import (
	"strconv"
	"strings"

	"github.com/jsamuelsen/quotekeeper/internal/domain"
)

// RemoteCategory is the category every remote quote is filed under.
const RemoteCategory = "Server"

// remoteIDPrefix keeps remote ids from colliding with locally generated ones.
const remoteIDPrefix = "server-"

// Translator converts one external DTO into a domain value.
// ok is false when the DTO has nothing usable.
type Translator[E, D any] func(ext E) (value D, ok bool)

// TranslateEach applies translate to every item and keeps the usable results.
// dropped counts the items that did not translate.
func TranslateEach[E, D any](items []E, translate Translator[E, D]) (out []D, dropped int) {
	out = make([]D, 0, len(items))

	for _, item := range items {
		value, ok := translate(item)
		if !ok {
			dropped++
			continue
		}

		out = append(out, value)
	}

	return out, dropped
}

// post is the jsonplaceholder resource used as the remote quote shape.
type post struct {
	ID     int    `json:"id"`
	UserID int    `json:"userId,omitempty"`
	Title  string `json:"title"`
	Body   string `json:"body,omitempty"`
}

// postToQuote maps a post onto a quote. Posts without a title are dropped.
func postToQuote(p post) (domain.Quote, bool) {
	q := domain.Quote{
		Text:     p.Title,
		Category: RemoteCategory,
	}

	if p.ID > 0 {
		q.ID = domain.QuoteID(remoteIDPrefix + strconv.Itoa(p.ID))
	}

	q = q.Normalized()

	return q, q.Valid()
}

// outgoingQuote is the body pushed to the remote. It keeps the quote's own
// field names so the remote receives what an export would contain.
type outgoingQuote struct {
	ID       string `json:"id,omitempty"`
	Text     string `json:"text"`
	Category string `json:"category"`
}

func quoteToOutgoing(q domain.Quote) outgoingQuote {
	return outgoingQuote{
		ID:       strings.TrimSpace(string(q.ID)),
		Text:     q.Text,
		Category: q.Category,
	}
}
