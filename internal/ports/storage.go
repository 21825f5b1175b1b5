// Package ports defines interfaces for external dependencies.
// Ports are contracts that adapters implement, allowing the application layer
// to depend on abstractions rather than concrete implementations.
//
// Port Design Principles:
//   - Context as first parameter (always) for cancellation and deadlines
//   - Return domain types, never external DTOs or infrastructure types
//   - Error returns use domain error types (ErrNetwork, ErrFormat, etc.)
//   - Keep interfaces small and focused
package ports

import (
	"context"
)

// Storage keys shared by the store and its adapters.
const (
	// KeyQuotes holds the full quote list as a JSON array.
	KeyQuotes = "quotes"

	// KeySelectedCategory holds the last chosen category filter.
	KeySelectedCategory = "selectedCategory"

	// KeyLastQuote holds the last displayed quote as a JSON object (session scope).
	KeyLastQuote = "lastQuote"
)

// KeyValueStore is a string-keyed, string-valued persistence backend.
//
// Example usage in application layer:
//
//	store := app.NewQuoteStore(app.QuoteStoreConfig{
//	    Durable: badgerKV,
//	    Session: storage.NewMemory(),
//	})
type KeyValueStore interface {
	// Get returns the value for key. The bool is false when the key is absent.
	Get(ctx context.Context, key string) (string, bool, error)

	// Set overwrites the value for key.
	Set(ctx context.Context, key, value string) error

	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases the backend. Further calls fail.
	Close() error
}
