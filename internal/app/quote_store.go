// Package app contains application services that orchestrate use cases.
// This is the application layer - it coordinates domain rules and
// infrastructure through ports.
//
// What does NOT belong here:
//   - HTTP/CLI specifics (that's adapters and cmd)
//   - Storage engines and wire formats (that's adapters)
//   - Identity and merge rules (that's the domain layer)
package app

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"slices"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/jsamuelsen/quotekeeper/internal/domain"
	"github.com/jsamuelsen/quotekeeper/internal/platform/logging"
	"github.com/jsamuelsen/quotekeeper/internal/ports"
)

// ExportFilename is the suggested name for exported payloads.
const ExportFilename = "quotes.json"

// ImportResult reports how many quotes an import appended.
// Zero is a valid outcome meaning every element was a duplicate.
type ImportResult struct {
	Added   int `json:"added"`
	Skipped int `json:"skipped"`
}

// ReconcileResult reports how many remote quotes were appended.
type ReconcileResult struct {
	Added int `json:"added"`
}

// View is what the UI shows on start-up.
type View struct {
	Quote    domain.Quote
	Empty    bool
	Category string
	Restored bool
}

// QuoteStore owns the authoritative quote list.
// Every load-mutate-persist cycle holds mu; network calls never do.
type QuoteStore struct {
	durable ports.KeyValueStore
	session ports.KeyValueStore
	pusher  *Pusher
	exec    *Executor
	logger  *slog.Logger
	intn    func(n int) int
	newID   func() (domain.QuoteID, error)

	mu     sync.Mutex
	quotes []domain.Quote
	loaded bool
}

// QuoteStoreConfig contains the store's collaborators.
type QuoteStoreConfig struct {
	// Durable holds the quote list and the selected category. Required.
	Durable ports.KeyValueStore

	// Session holds the last viewed quote. Required.
	Session ports.KeyValueStore

	// Pusher receives locally added quotes. Optional.
	Pusher *Pusher

	Logger *slog.Logger

	// Intn overrides random selection, mainly for tests.
	Intn func(n int) int

	// NewID overrides id assignment, mainly for tests.
	NewID func() (domain.QuoteID, error)
}

// NewQuoteStore creates a store. The list is loaded lazily on first use
// unless Load is called explicitly.
func NewQuoteStore(cfg QuoteStoreConfig) *QuoteStore {
	if cfg.Durable == nil || cfg.Session == nil {
		panic("app: QuoteStoreConfig requires Durable and Session storage")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	logger = logger.With(slog.String("component", "app.QuoteStore"))

	intn := cfg.Intn
	if intn == nil {
		intn = rand.IntN
	}

	newID := cfg.NewID
	if newID == nil {
		newID = newQuoteID
	}

	return &QuoteStore{
		durable: cfg.Durable,
		session: cfg.Session,
		pusher:  cfg.Pusher,
		exec:    NewExecutor(logger),
		logger:  logger,
		intn:    intn,
		newID:   newID,
	}
}

func newQuoteID() (domain.QuoteID, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", err
	}

	return domain.QuoteID(id.String()), nil
}

func (s *QuoteStore) log(ctx context.Context) *slog.Logger {
	return logging.FromContextOr(ctx, s.logger)
}

// Load re-reads the list from durable storage and returns a copy.
// Absent or corrupt state yields the seed list; Load never fails and never writes.
// When storage cannot be read the seed list is returned but not adopted, so
// the next call reads again and no mutation persists over the stored list.
func (s *QuoteStore) Load(ctx context.Context) []domain.Quote {
	s.mu.Lock()
	defer s.mu.Unlock()

	quotes, err := s.readQuotes(ctx)
	s.quotes = quotes
	s.loaded = err == nil

	return slices.Clone(quotes)
}

// ensureLoaded must be called with mu held. On a read error s.quotes holds
// the seed list for display only and the error is returned; callers that
// write must not persist in that case.
func (s *QuoteStore) ensureLoaded(ctx context.Context) error {
	if s.loaded {
		return nil
	}

	quotes, err := s.readQuotes(ctx)
	s.quotes = quotes
	if err != nil {
		return fmt.Errorf("loading stored quotes: %w", err)
	}

	s.loaded = true

	return nil
}

// readQuotes returns the seed list alongside any storage error.
func (s *QuoteStore) readQuotes(ctx context.Context) ([]domain.Quote, error) {
	raw, ok, err := s.durable.Get(ctx, ports.KeyQuotes)
	if err != nil {
		s.log(ctx).WarnContext(ctx, "reading persisted quotes failed, using seed quotes", slog.Any("error", err))
		return domain.SeedQuotes(), err
	}

	if !ok {
		return domain.SeedQuotes(), nil
	}

	quotes, skipped, err := decodeQuoteArray([]byte(raw), "stored quotes")
	if err != nil {
		s.log(ctx).WarnContext(ctx, "persisted quotes are corrupt, using seed quotes", slog.Any("error", err))
		return domain.SeedQuotes(), nil
	}

	if skipped > 0 {
		s.log(ctx).WarnContext(ctx, "dropped malformed persisted quotes", slog.Int("skipped", skipped))
	}

	if len(quotes) == 0 {
		return domain.SeedQuotes(), nil
	}

	return quotes, nil
}

// Save overwrites the persisted list with quotes and makes it current.
func (s *QuoteStore) Save(ctx context.Context, quotes []domain.Quote) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	quotes = slices.Clone(quotes)
	if err := s.persist(ctx, quotes); err != nil {
		return err
	}

	s.quotes = quotes
	s.loaded = true

	return nil
}

// persist must be called with mu held.
func (s *QuoteStore) persist(ctx context.Context, quotes []domain.Quote) error {
	if quotes == nil {
		quotes = []domain.Quote{}
	}

	data, err := json.Marshal(quotes)
	if err != nil {
		return err
	}

	return s.durable.Set(ctx, ports.KeyQuotes, string(data))
}

// Quotes returns a copy of the current list.
func (s *QuoteStore) Quotes(ctx context.Context) []domain.Quote {
	s.mu.Lock()
	defer s.mu.Unlock()

	_ = s.ensureLoaded(ctx)

	return slices.Clone(s.quotes)
}

type addInput struct {
	text     string
	category string
}

// AddQuote validates, appends, and persists a new quote, then pushes it to the
// remote in the background. A failed push never affects the returned quote.
func (s *QuoteStore) AddQuote(ctx context.Context, text, category string) (domain.Quote, error) {
	op := Operation[addInput, domain.Quote, domain.Quote]{
		Name: "AddQuote",
		Validate: func(_ context.Context, in addInput) error {
			if in.text == "" {
				return domain.NewValidationError("text", "must not be empty")
			}

			if in.category == "" {
				return domain.NewValidationError("category", "must not be empty")
			}

			return nil
		},
		Perform: func(_ context.Context, in addInput) (domain.Quote, error) {
			id, err := s.newID()
			if err != nil {
				return domain.Quote{}, err
			}

			return domain.Quote{ID: id, Text: in.text, Category: in.category}, nil
		},
		Verify: func(_ context.Context, _ addInput, q domain.Quote) error {
			if q.ID == "" || !q.Valid() {
				return domain.NewValidationError("quote", "incomplete quote was built")
			}

			return nil
		},
		Archive: func(ctx context.Context, _ addInput, q domain.Quote) error {
			s.mu.Lock()
			defer s.mu.Unlock()

			if err := s.ensureLoaded(ctx); err != nil {
				return err
			}

			next := append(slices.Clone(s.quotes), q)
			if err := s.persist(ctx, next); err != nil {
				return err
			}

			s.quotes = next

			return nil
		},
		Respond: func(_ context.Context, _ addInput, q domain.Quote) (domain.Quote, error) {
			return q, nil
		},
	}

	quote, err := Execute(ctx, s.exec, op, addInput{
		text:     strings.TrimSpace(text),
		category: strings.TrimSpace(category),
	})
	if err != nil {
		return domain.Quote{}, err
	}

	quotesAdded.WithLabelValues(SourceLocal).Inc()
	s.log(ctx).InfoContext(ctx, "quote added",
		slog.String("quote_id", string(quote.ID)),
		slog.String("category", quote.Category),
	)

	s.PushToRemote(ctx, quote)

	return quote, nil
}

// PushToRemote notifies the remote of quote without waiting.
// Without a configured pusher the returned task is already finished.
func (s *QuoteStore) PushToRemote(ctx context.Context, quote domain.Quote) *PushTask {
	if s.pusher == nil {
		return newFinishedTask(quote, nil)
	}

	return s.pusher.Push(ctx, quote)
}

// GetRandomQuote picks uniformly from quotes in category, or from all quotes
// when category is empty or "All". ok is false when nothing matches.
// The pick is remembered as the last viewed quote for this session.
func (s *QuoteStore) GetRandomQuote(ctx context.Context, category string) (domain.Quote, bool) {
	s.mu.Lock()
	_ = s.ensureLoaded(ctx)

	candidates := s.quotes
	if category != "" && category != domain.AllCategories {
		candidates = make([]domain.Quote, 0, len(s.quotes))

		for _, q := range s.quotes {
			if q.Category == category {
				candidates = append(candidates, q)
			}
		}
	}

	var (
		quote domain.Quote
		ok    bool
	)

	if len(candidates) > 0 {
		quote, ok = candidates[s.intn(len(candidates))], true
	}

	s.mu.Unlock()

	if ok {
		s.rememberLastViewed(ctx, quote)
	}

	return quote, ok
}

func (s *QuoteStore) rememberLastViewed(ctx context.Context, quote domain.Quote) {
	data, err := json.Marshal(quote)
	if err == nil {
		err = s.session.Set(ctx, ports.KeyLastQuote, string(data))
	}

	if err != nil {
		s.log(ctx).WarnContext(ctx, "storing last viewed quote failed", slog.Any("error", err))
	}
}

// LastViewed returns the last quote shown in this session.
// A missing or corrupt value reads as absent.
func (s *QuoteStore) LastViewed(ctx context.Context) (domain.Quote, bool) {
	raw, ok, err := s.session.Get(ctx, ports.KeyLastQuote)
	if err != nil || !ok {
		return domain.Quote{}, false
	}

	var quote domain.Quote
	if err := json.Unmarshal([]byte(raw), &quote); err != nil || !quote.Valid() {
		s.log(ctx).DebugContext(ctx, "ignoring corrupt last viewed quote")
		return domain.Quote{}, false
	}

	return quote, true
}

// ListCategories returns "All" followed by distinct categories in first-seen order.
func (s *QuoteStore) ListCategories(ctx context.Context) []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	_ = s.ensureLoaded(ctx)

	return domain.Categories(s.quotes)
}

// ExportJSON renders the current list as an indented JSON array.
func (s *QuoteStore) ExportJSON(ctx context.Context) ([]byte, error) {
	quotes := s.Quotes(ctx)
	if quotes == nil {
		quotes = []domain.Quote{}
	}

	return json.MarshalIndent(quotes, "", "  ")
}

// ImportJSON merges the quotes in payload into the store.
// The payload must be a JSON array holding at least one valid quote;
// malformed elements and duplicates are skipped.
func (s *QuoteStore) ImportJSON(ctx context.Context, payload []byte) (ImportResult, error) {
	incoming, skipped, err := decodeQuoteArray(payload, "import")
	if err != nil {
		return ImportResult{}, err
	}

	if len(incoming) == 0 {
		return ImportResult{}, domain.NewFormatError("import", "no element is a quote with text and category", nil)
	}

	added, err := s.merge(ctx, incoming)
	if err != nil {
		return ImportResult{}, err
	}

	quotesAdded.WithLabelValues(SourceImport).Add(float64(added))
	s.log(ctx).InfoContext(ctx, "quotes imported",
		slog.Int("added", added),
		slog.Int("duplicates", len(incoming)-added),
		slog.Int("malformed", skipped),
	)

	return ImportResult{Added: added, Skipped: skipped + len(incoming) - added}, nil
}

// ReconcileWithRemote appends remote quotes whose identity is not present locally.
// Existing quotes are never replaced or removed, so repeating a call with the
// same data changes nothing.
func (s *QuoteStore) ReconcileWithRemote(ctx context.Context, remote []domain.Quote) (ReconcileResult, error) {
	incoming := make([]domain.Quote, 0, len(remote))

	for _, q := range remote {
		if q.Valid() {
			incoming = append(incoming, q.Normalized())
		}
	}

	added, err := s.merge(ctx, incoming)
	if err != nil {
		return ReconcileResult{}, err
	}

	if added > 0 {
		quotesAdded.WithLabelValues(SourceRemote).Add(float64(added))
		s.log(ctx).InfoContext(ctx, "reconciled remote quotes", slog.Int("added", added))
	}

	return ReconcileResult{Added: added}, nil
}

// merge appends the new identities from incoming and persists once if any were added.
func (s *QuoteStore) merge(ctx context.Context, incoming []domain.Quote) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureLoaded(ctx); err != nil {
		return 0, err
	}

	added := domain.MergeNew(s.quotes, incoming)
	if len(added) == 0 {
		return 0, nil
	}

	next := append(slices.Clone(s.quotes), added...)
	if err := s.persist(ctx, next); err != nil {
		return 0, err
	}

	s.quotes = next

	return len(added), nil
}

// SelectedCategory returns the saved category filter.
// A saved category that no longer exists resolves to "All".
func (s *QuoteStore) SelectedCategory(ctx context.Context) string {
	raw, ok, err := s.durable.Get(ctx, ports.KeySelectedCategory)
	if err != nil {
		s.log(ctx).WarnContext(ctx, "reading selected category failed", slog.Any("error", err))
		return domain.AllCategories
	}

	if !ok || raw == "" {
		return domain.AllCategories
	}

	if !slices.Contains(s.ListCategories(ctx), raw) {
		return domain.AllCategories
	}

	return raw
}

// SetSelectedCategory saves the category filter. Unknown categories are rejected.
// Choosing "All" clears the saved filter, since "All" is what an absent one reads as.
func (s *QuoteStore) SetSelectedCategory(ctx context.Context, category string) error {
	category = strings.TrimSpace(category)
	if category == "" || category == domain.AllCategories {
		return s.durable.Delete(ctx, ports.KeySelectedCategory)
	}

	if !slices.Contains(s.ListCategories(ctx), category) {
		return domain.NewNotFoundError("category", category)
	}

	return s.durable.Set(ctx, ports.KeySelectedCategory, category)
}

// RestoreView rebuilds the start-up view: the last viewed quote if the session
// has one, otherwise a random quote from the saved category.
func (s *QuoteStore) RestoreView(ctx context.Context) View {
	category := s.SelectedCategory(ctx)

	if quote, ok := s.LastViewed(ctx); ok {
		return View{Quote: quote, Category: category, Restored: true}
	}

	quote, ok := s.GetRandomQuote(ctx, category)

	return View{Quote: quote, Empty: !ok, Category: category}
}

// decodeQuoteArray decodes payload as a JSON array, keeping only elements that
// decode to a quote with non-empty text and category.
func decodeQuoteArray(payload []byte, source string) (quotes []domain.Quote, skipped int, err error) {
	var elements []json.RawMessage
	if err := json.Unmarshal(payload, &elements); err != nil {
		return nil, 0, domain.NewFormatError(source, "payload is not a JSON array", err)
	}

	if elements == nil {
		return nil, 0, domain.NewFormatError(source, "payload is not a JSON array", nil)
	}

	quotes = make([]domain.Quote, 0, len(elements))

	for _, element := range elements {
		var q domain.Quote
		if err := json.Unmarshal(element, &q); err != nil || !q.Valid() {
			skipped++
			continue
		}

		quotes = append(quotes, q.Normalized())
	}

	return quotes, skipped, nil
}
