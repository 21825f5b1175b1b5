package dto

import (
	"github.com/jsamuelsen/quotekeeper/internal/app"
	"github.com/jsamuelsen/quotekeeper/internal/domain"
)

// QuoteResponse is a single quote.
type QuoteResponse struct {
	ID       string `json:"id,omitempty"`
	Text     string `json:"text"`
	Category string `json:"category"`
}

// NewQuoteResponse converts a domain quote.
func NewQuoteResponse(q domain.Quote) QuoteResponse {
	return QuoteResponse{ID: string(q.ID), Text: q.Text, Category: q.Category}
}

// QuoteListResponse wraps the full quote list.
type QuoteListResponse struct {
	Quotes []QuoteResponse `json:"quotes"`
	Count  int             `json:"count"`
}

// NewQuoteListResponse converts a list of domain quotes.
func NewQuoteListResponse(quotes []domain.Quote) QuoteListResponse {
	out := make([]QuoteResponse, 0, len(quotes))
	for _, q := range quotes {
		out = append(out, NewQuoteResponse(q))
	}

	return QuoteListResponse{Quotes: out, Count: len(out)}
}

// AddQuoteRequest is the body of POST /quotes.
// Blank values pass binding so the store reports them as domain validation errors.
type AddQuoteRequest struct {
	Text     string `json:"text"     validate:"max=1000"`
	Category string `json:"category" validate:"max=100"`
}

// RandomQuoteQuery is the query of GET /quotes/random.
type RandomQuoteQuery struct {
	Category string `form:"category" validate:"max=100"`
}

// QuoteViewResponse is a quote or the empty state.
type QuoteViewResponse struct {
	Quote    *QuoteResponse `json:"quote,omitempty"`
	Empty    bool           `json:"empty"`
	Message  string         `json:"message,omitempty"`
	Category string         `json:"category,omitempty"`
	Restored bool           `json:"restored,omitempty"`
}

// NewRandomQuoteResponse builds the response for a random pick.
func NewRandomQuoteResponse(q domain.Quote, ok bool) QuoteViewResponse {
	if !ok {
		return QuoteViewResponse{Empty: true, Message: domain.NoQuotesMessage}
	}

	resp := NewQuoteResponse(q)

	return QuoteViewResponse{Quote: &resp}
}

// NewViewResponse builds the start-up view response.
func NewViewResponse(v app.View) QuoteViewResponse {
	resp := NewRandomQuoteResponse(v.Quote, !v.Empty)
	resp.Category = v.Category
	resp.Restored = v.Restored

	return resp
}

// CategoriesResponse lists categories with "All" first.
type CategoriesResponse struct {
	Categories []string `json:"categories"`
}

// CategoryPreference is the body and response of /preferences/category.
type CategoryPreference struct {
	Category string `json:"category" validate:"max=100"`
}

// ImportResponse reports the outcome of an import.
type ImportResponse struct {
	Added   int    `json:"added"`
	Skipped int    `json:"skipped"`
	Message string `json:"message"`
}

// NewImportResponse converts an import result.
func NewImportResponse(r app.ImportResult) ImportResponse {
	return ImportResponse{Added: r.Added, Skipped: r.Skipped, Message: "Quotes imported successfully!"}
}

// SyncResponse reports one manual sync run.
type SyncResponse struct {
	Pulled    int    `json:"pulled"`
	Added     int    `json:"added"`
	Pushed    int    `json:"pushed"`
	PushError string `json:"pushError,omitempty"`
}

// NewSyncResponse converts a sync result.
func NewSyncResponse(r app.SyncResult) SyncResponse {
	resp := SyncResponse{Pulled: r.Pulled, Added: r.Added, Pushed: r.Pushed}
	if r.PushErr != nil {
		resp.PushError = r.PushErr.Error()
	}

	return resp
}
