package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuoteID_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected QuoteID
		wantErr  bool
	}{
		{name: "string id", input: `"q-1"`, expected: "q-1"},
		{name: "string id is trimmed", input: `"  q-1 "`, expected: "q-1"},
		{name: "integer id", input: `42`, expected: "42"},
		{name: "null id", input: `null`, expected: ""},
		{name: "boolean id", input: `true`, wantErr: true},
		{name: "object id", input: `{"x":1}`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var id QuoteID

			err := json.Unmarshal([]byte(tt.input), &id)
			if tt.wantErr {
				require.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.expected, id)
		})
	}
}

func TestQuote_JSONShape(t *testing.T) {
	data, err := json.Marshal(Quote{Text: "a", Category: "b"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"text":"a","category":"b"}`, string(data))

	data, err = json.Marshal(Quote{ID: "7", Text: "a", Category: "b"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"7","text":"a","category":"b"}`, string(data))
}

func TestQuote_Valid(t *testing.T) {
	assert.True(t, Quote{Text: "x", Category: "y"}.Valid())
	assert.False(t, Quote{Text: "   ", Category: "y"}.Valid())
	assert.False(t, Quote{Text: "x", Category: ""}.Valid())
}

func TestQuote_CompositeKey(t *testing.T) {
	a := Quote{Text: "Ship  it.", Category: "Motivation"}
	b := Quote{Text: " ship it. ", Category: "MOTIVATION"}
	c := Quote{Text: "Ship it.", Category: "Work"}

	assert.Equal(t, a.CompositeKey(), b.CompositeKey())
	assert.NotEqual(t, a.CompositeKey(), c.CompositeKey())
}

func TestSeedQuotes_ReturnsFreshCopy(t *testing.T) {
	first := SeedQuotes()
	first[0].Text = "mutated"

	assert.Len(t, SeedQuotes(), 3)
	assert.NotEqual(t, "mutated", SeedQuotes()[0].Text)
}

func TestCategories(t *testing.T) {
	quotes := append(SeedQuotes(), Quote{Text: "Ship it.", Category: "Motivation"}, Quote{Text: "x", Category: "Zen"})

	assert.Equal(t, []string{"All", "Motivation", "Inspiration", "Work", "Zen"}, Categories(quotes))
	assert.Equal(t, []string{"All"}, Categories(nil))
}

func TestIdentityIndex_Contains(t *testing.T) {
	existing := []Quote{
		{ID: "1", Text: "alpha", Category: "A"},
		{Text: "beta", Category: "B"},
	}
	idx := NewIdentityIndex(existing)

	tests := []struct {
		name     string
		quote    Quote
		expected bool
	}{
		{"same id different text", Quote{ID: "1", Text: "other", Category: "Z"}, true},
		{"different id same text", Quote{ID: "2", Text: "alpha", Category: "A"}, false},
		{"no id same text as id-bearing quote", Quote{Text: "alpha", Category: "A"}, true},
		{"id-bearing quote matching id-less quote by text", Quote{ID: "9", Text: "Beta", Category: "b"}, true},
		{"no id new text", Quote{Text: "gamma", Category: "C"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, idx.Contains(tt.quote))
		})
	}
}

func TestMergeNew(t *testing.T) {
	existing := SeedQuotes()
	incoming := []Quote{
		{Text: "In the middle of difficulty lies opportunity.", Category: "Inspiration"},
		{ID: "server-1", Text: "new one", Category: "Server"},
		{ID: "server-1", Text: "new one again", Category: "Server"},
		{Text: "fresh", Category: "Server"},
		{Text: "FRESH", Category: "server"},
	}

	added := MergeNew(existing, incoming)

	require.Len(t, added, 2)
	assert.Equal(t, QuoteID("server-1"), added[0].ID)
	assert.Equal(t, "fresh", added[1].Text)
	assert.Empty(t, MergeNew(append(existing, added...), incoming))
}
