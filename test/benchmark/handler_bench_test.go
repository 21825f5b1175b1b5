package benchmark

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	httpadapter "github.com/jsamuelsen/quotekeeper/internal/adapters/http"
	"github.com/jsamuelsen/quotekeeper/internal/adapters/http/handlers"
	"github.com/jsamuelsen/quotekeeper/internal/adapters/storage"
	"github.com/jsamuelsen/quotekeeper/internal/app"
	"github.com/jsamuelsen/quotekeeper/internal/domain"
	"github.com/jsamuelsen/quotekeeper/internal/ports"
)

func init() {
	// Set Gin to release mode for accurate benchmarks
	gin.SetMode(gin.ReleaseMode)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newStore returns a memory-backed store holding the seeds plus n extra quotes.
func newStore(b *testing.B, n int) *app.QuoteStore {
	b.Helper()

	store := app.NewQuoteStore(app.QuoteStoreConfig{
		Durable: storage.NewMemory(),
		Session: storage.NewMemory(),
		Logger:  discardLogger(),
	})

	quotes := domain.SeedQuotes()
	for i := range n {
		quotes = append(quotes, domain.Quote{
			ID:       domain.QuoteID(fmt.Sprintf("bench-%d", i)),
			Text:     fmt.Sprintf("Benchmark quote number %d", i),
			Category: fmt.Sprintf("Category %d", i%10),
		})
	}

	if err := store.Save(context.Background(), quotes); err != nil {
		b.Fatalf("seeding store: %v", err)
	}

	return store
}

func setupRouter(b *testing.B, n int) *gin.Engine {
	b.Helper()

	registry := ports.NewHealthRegistry()
	_ = registry.Register(storage.NewMemory())

	router := gin.New()
	httpadapter.SetupRouter(router, httpadapter.RouterConfig{
		Logger:        discardLogger(),
		ServiceName:   "quotekeeper-bench",
		HealthHandler: handlers.NewHealthHandler(registry, handlers.NewBuildInfo("1.0.0", "abc123", "2024-01-01T00:00:00Z")),
		QuoteHandler:  handlers.NewQuoteHandler(newStore(b, n)),
	})

	return router
}

func benchmarkRequest(b *testing.B, router http.Handler, method, target string, body []byte) {
	b.Helper()

	b.ReportAllocs()

	for b.Loop() {
		req := httptest.NewRequest(method, target, bytes.NewReader(body))
		if body != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if w.Code >= http.StatusBadRequest {
			b.Fatalf("%s %s: status %d: %s", method, target, w.Code, w.Body.String())
		}
	}
}

// BenchmarkLiveness is the probe path and should stay close to bare routing cost.
func BenchmarkLiveness(b *testing.B) {
	benchmarkRequest(b, setupRouter(b, 0), http.MethodGet, "/-/live", nil)
}

func BenchmarkReadiness(b *testing.B) {
	benchmarkRequest(b, setupRouter(b, 0), http.MethodGet, "/-/ready", nil)
}

func BenchmarkListQuotes(b *testing.B) {
	for _, n := range []int{10, 1000} {
		b.Run(fmt.Sprintf("quotes=%d", n), func(b *testing.B) {
			benchmarkRequest(b, setupRouter(b, n), http.MethodGet, "/api/v1/quotes", nil)
		})
	}
}

func BenchmarkRandomQuote(b *testing.B) {
	for _, category := range []string{domain.AllCategories, "Category%203"} {
		b.Run(category, func(b *testing.B) {
			benchmarkRequest(b, setupRouter(b, 1000), http.MethodGet, "/api/v1/quotes/random?category="+category, nil)
		})
	}
}

func BenchmarkExport(b *testing.B) {
	benchmarkRequest(b, setupRouter(b, 1000), http.MethodGet, "/api/v1/quotes/export", nil)
}

// BenchmarkImportDuplicates measures the identity check when every element is already stored.
func BenchmarkImportDuplicates(b *testing.B) {
	store := newStore(b, 1000)

	payload, err := store.ExportJSON(context.Background())
	if err != nil {
		b.Fatal(err)
	}

	router := gin.New()
	handlers.NewQuoteHandler(store).RegisterRoutes(router.Group("/api/v1"))

	benchmarkRequest(b, router, http.MethodPost, "/api/v1/quotes/import", payload)
}

func BenchmarkMergeNew(b *testing.B) {
	existing := make([]domain.Quote, 0, 1000)
	incoming := make([]domain.Quote, 0, 100)

	for i := range 1000 {
		existing = append(existing, domain.Quote{Text: fmt.Sprintf("Existing %d", i), Category: "Work"})
	}

	for i := range 100 {
		incoming = append(incoming, domain.Quote{Text: fmt.Sprintf("existing  %d", i*20), Category: "work"})
	}

	b.ReportAllocs()

	for b.Loop() {
		_ = domain.MergeNew(existing, incoming)
	}
}
