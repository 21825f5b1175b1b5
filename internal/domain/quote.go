// Package domain contains core business entities and rules.
package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"golang.org/x/text/cases"
)

const (
	// AllCategories is the synthetic category meaning "no filter".
	AllCategories = "All"

	// NoQuotesMessage is shown in place of a quote when the filter matches nothing.
	NoQuotesMessage = "No quotes available."
)

// QuoteID identifies a quote across stores.
// Older payloads carry numeric ids, newer ones strings; both decode to the
// same textual form so they compare equal.
type QuoteID string

// UnmarshalJSON accepts a JSON string, number, or null.
func (id *QuoteID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}

	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}

		*id = QuoteID(strings.TrimSpace(s))

		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("quote id must be a string or number: %w", err)
	}

	*id = QuoteID(n.String())

	return nil
}

// Quote is a text/category pair with an optional identity.
// This is a domain entity - it has no knowledge of external systems.
type Quote struct {
	// ID is optional; quotes created locally always get one.
	ID QuoteID `json:"id,omitempty"`

	// Text is the quotation itself.
	Text string `json:"text"`

	// Category groups quotes for filtering.
	Category string `json:"category"`
}

// Normalized returns a copy with surrounding whitespace removed from every field.
func (q Quote) Normalized() Quote {
	return Quote{
		ID:       QuoteID(strings.TrimSpace(string(q.ID))),
		Text:     strings.TrimSpace(q.Text),
		Category: strings.TrimSpace(q.Category),
	}
}

// Valid reports whether both text and category are non-empty after trimming.
func (q Quote) Valid() bool {
	return strings.TrimSpace(q.Text) != "" && strings.TrimSpace(q.Category) != ""
}

// CompositeKey is the identity used when at least one side of a comparison has no id.
// Whitespace runs collapse and letters are case-folded, so "Ship  it." and
// "ship it." in "motivation" are the same quote.
func (q Quote) CompositeKey() string {
	return normalizeKeyPart(q.Text) + "|" + normalizeKeyPart(q.Category)
}

func normalizeKeyPart(s string) string {
	return cases.Fold().String(strings.Join(strings.Fields(s), " "))
}

// SeedQuotes returns the quotes installed when no persisted list exists.
func SeedQuotes() []Quote {
	return []Quote{
		{Text: "The best way to get started is to quit talking and begin doing.", Category: "Motivation"},
		{Text: "In the middle of difficulty lies opportunity.", Category: "Inspiration"},
		{Text: "The only way to do great work is to love what you do.", Category: "Work"},
	}
}

// Categories returns "All" followed by the distinct categories in first-seen order.
func Categories(quotes []Quote) []string {
	seen := make(map[string]struct{}, len(quotes))
	categories := make([]string, 0, len(quotes)+1)
	categories = append(categories, AllCategories)

	for _, q := range quotes {
		if _, ok := seen[q.Category]; ok {
			continue
		}

		seen[q.Category] = struct{}{}
		categories = append(categories, q.Category)
	}

	return categories
}

// IdentityIndex answers "is this quote already present" under the identity rule:
// two quotes that both carry an id are the same iff the ids match; otherwise
// they are the same iff their composite keys match.
type IdentityIndex struct {
	ids      map[QuoteID]struct{}
	keys     map[string]struct{}
	keysNoID map[string]struct{}
}

// NewIdentityIndex builds an index over the given quotes.
func NewIdentityIndex(quotes []Quote) *IdentityIndex {
	idx := &IdentityIndex{
		ids:      make(map[QuoteID]struct{}, len(quotes)),
		keys:     make(map[string]struct{}, len(quotes)),
		keysNoID: make(map[string]struct{}),
	}

	for _, q := range quotes {
		idx.Add(q)
	}

	return idx
}

// Contains reports whether a quote with the same identity has been added.
func (idx *IdentityIndex) Contains(q Quote) bool {
	key := q.CompositeKey()

	if q.ID == "" {
		_, ok := idx.keys[key]
		return ok
	}

	if _, ok := idx.ids[q.ID]; ok {
		return true
	}

	_, ok := idx.keysNoID[key]

	return ok
}

// Add records a quote's identity.
func (idx *IdentityIndex) Add(q Quote) {
	key := q.CompositeKey()
	idx.keys[key] = struct{}{}

	if q.ID == "" {
		idx.keysNoID[key] = struct{}{}
		return
	}

	idx.ids[q.ID] = struct{}{}
}

// MergeNew returns the incoming quotes whose identity is not already in existing,
// in their original order, dropping duplicates within incoming as well.
func MergeNew(existing, incoming []Quote) []Quote {
	idx := NewIdentityIndex(existing)
	added := make([]Quote, 0, len(incoming))

	for _, q := range incoming {
		if idx.Contains(q) {
			continue
		}

		idx.Add(q)
		added = append(added, q)
	}

	return added
}
