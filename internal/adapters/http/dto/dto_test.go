package dto

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/quotekeeper/internal/app"
	"github.com/jsamuelsen/quotekeeper/internal/domain"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestNewErrorResponseWithDetails(t *testing.T) {
	got := NewErrorResponseWithDetails(ErrorCodeValidation, "request validation failed", map[string]string{
		"text": "must be at most 1000 characters",
	})

	assert.Equal(t, &ErrorResponse{
		Error: ErrorDetail{
			Code:    ErrorCodeValidation,
			Message: "request validation failed",
			Details: map[string]string{"text": "must be at most 1000 characters"},
		},
	}, got)
}

func TestWithTraceID(t *testing.T) {
	resp := NewErrorResponse(ErrorCodeInternal, "internal error")

	got := resp.WithTraceID("trace-123")

	assert.Same(t, resp, got)
	assert.Equal(t, "trace-123", got.TraceID)
}

func TestHTTPStatusFromCode(t *testing.T) {
	tests := []struct {
		code string
		want int
	}{
		{ErrorCodeNotFound, http.StatusNotFound},
		{ErrorCodeValidation, http.StatusBadRequest},
		{ErrorCodeInvalidFormat, http.StatusBadRequest},
		{ErrorCodeBadRequest, http.StatusBadRequest},
		{ErrorCodeUnavailable, http.StatusServiceUnavailable},
		{ErrorCodeTimeout, http.StatusGatewayTimeout},
		{ErrorCodeInternal, http.StatusInternalServerError},
		{"UNKNOWN_CODE", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.want, HTTPStatusFromCode(tt.code))
		})
	}
}

func TestTraceID_FallsBackToRequestID(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/", http.NoBody)

	assert.Empty(t, TraceID(c))

	c.Request.Header.Set("X-Request-ID", "req-1")
	assert.Equal(t, "req-1", TraceID(c))
}

func TestAbort(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", http.NoBody)

	Abort(c, ErrorCodeInvalidFormat, "not an array")

	assert.True(t, c.IsAborted())
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":{"code":"INVALID_FORMAT","message":"not an array"}}`, w.Body.String())
}

func TestNewQuoteListResponse(t *testing.T) {
	got := NewQuoteListResponse([]domain.Quote{
		{ID: "1", Text: "a", Category: "x"},
		{Text: "b", Category: "y"},
	})

	assert.Equal(t, 2, got.Count)
	assert.Equal(t, QuoteResponse{ID: "1", Text: "a", Category: "x"}, got.Quotes[0])
	assert.Equal(t, QuoteResponse{Text: "b", Category: "y"}, got.Quotes[1])

	empty := NewQuoteListResponse(nil)
	assert.NotNil(t, empty.Quotes)
	assert.Zero(t, empty.Count)
}

func TestNewRandomQuoteResponse(t *testing.T) {
	t.Run("quote", func(t *testing.T) {
		got := NewRandomQuoteResponse(domain.Quote{Text: "t", Category: "c"}, true)
		require.NotNil(t, got.Quote)
		assert.Equal(t, "t", got.Quote.Text)
		assert.False(t, got.Empty)
		assert.Empty(t, got.Message)
	})

	t.Run("empty", func(t *testing.T) {
		got := NewRandomQuoteResponse(domain.Quote{}, false)
		assert.Nil(t, got.Quote)
		assert.True(t, got.Empty)
		assert.Equal(t, domain.NoQuotesMessage, got.Message)
	})
}

func TestNewViewResponse(t *testing.T) {
	got := NewViewResponse(app.View{
		Quote:    domain.Quote{Text: "t", Category: "Work"},
		Category: "Work",
		Restored: true,
	})

	require.NotNil(t, got.Quote)
	assert.Equal(t, "Work", got.Category)
	assert.True(t, got.Restored)

	empty := NewViewResponse(app.View{Empty: true, Category: "All"})
	assert.True(t, empty.Empty)
	assert.Equal(t, "All", empty.Category)
}

func TestNewSyncResponse(t *testing.T) {
	got := NewSyncResponse(app.SyncResult{Pulled: 3, Added: 1, Pushed: 4, PushErr: errors.New("push failed")})

	assert.Equal(t, SyncResponse{Pulled: 3, Added: 1, Pushed: 4, PushError: "push failed"}, got)
}

func TestBindAndValidate(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		errType error
	}{
		{name: "valid", body: `{"text":"Stay hungry","category":"Motivation"}`},
		{name: "blank values pass binding", body: `{"text":"","category":""}`},
		{name: "malformed JSON", body: `{invalid}`, errType: ErrBinding},
		{name: "category too long", body: `{"text":"t","category":"` + strings.Repeat("x", 101) + `"}`, errType: ErrValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := gin.CreateTestContext(httptest.NewRecorder())
			c.Request = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))
			c.Request.Header.Set("Content-Type", "application/json")

			var req AddQuoteRequest
			err := BindAndValidate(c, &req)

			if tt.errType != nil {
				require.ErrorIs(t, err, tt.errType)
				return
			}

			require.NoError(t, err)
		})
	}
}

func TestBindQueryAndValidate(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/?category=Work", http.NoBody)

	var q RandomQuoteQuery
	require.NoError(t, BindQueryAndValidate(c, &q))
	assert.Equal(t, "Work", q.Category)
}

func TestValidationErrors(t *testing.T) {
	err := Validate(&AddQuoteRequest{Text: strings.Repeat("x", 1001), Category: "c"})
	require.ErrorIs(t, err, ErrValidation)

	assert.Equal(t, map[string]string{"text": "must be at most 1000 characters"}, ValidationErrors(err))
	assert.Empty(t, ValidationErrors(errors.New("plain")))
}

func TestValidationMessage_Tags(t *testing.T) {
	type probe struct {
		Driver string `json:"driver" validate:"required,oneof=memory badger"`
		Count  int    `json:"count"  validate:"min=2"`
	}

	err := Validate(&probe{Driver: "redis", Count: 1})
	require.Error(t, err)

	assert.Equal(t, map[string]string{
		"driver": "must be one of: memory badger",
		"count":  "must be at least 2",
	}, ValidationErrors(err))
}

func TestHandleError(t *testing.T) {
	tests := []struct {
		name           string
		err            error
		wantStatus     int
		wantCode       string
		wantMessageKey string
	}{
		{
			name:           "validation error",
			err:            domain.NewValidationError("text", "must not be empty"),
			wantStatus:     http.StatusBadRequest,
			wantCode:       ErrorCodeValidation,
			wantMessageKey: "text",
		},
		{
			name:           "format error",
			err:            domain.NewFormatError("import", "payload is not a JSON array", nil),
			wantStatus:     http.StatusBadRequest,
			wantCode:       ErrorCodeInvalidFormat,
			wantMessageKey: "JSON array",
		},
		{
			name:           "not found error",
			err:            domain.NewNotFoundError("category", "Poetry"),
			wantStatus:     http.StatusNotFound,
			wantCode:       ErrorCodeNotFound,
			wantMessageKey: "Poetry",
		},
		{
			name:           "network error",
			err:            domain.NewNetworkError("jsonplaceholder", "fetch quotes", "status 503"),
			wantStatus:     http.StatusServiceUnavailable,
			wantCode:       ErrorCodeUnavailable,
			wantMessageKey: "fetch quotes",
		},
		{
			name:           "binding error",
			err:            fmt.Errorf("%w: unexpected EOF", ErrBinding),
			wantStatus:     http.StatusBadRequest,
			wantCode:       ErrorCodeBadRequest,
			wantMessageKey: "unexpected EOF",
		},
		{
			name:           "internal error",
			err:            errors.New("disk on fire"),
			wantStatus:     http.StatusInternalServerError,
			wantCode:       ErrorCodeInternal,
			wantMessageKey: "internal error occurred",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/", http.NoBody)
			c.Set(ContextKeyTraceID, "trace-123")

			HandleError(c, tt.err)

			assert.Equal(t, tt.wantStatus, w.Code)

			var response ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))

			assert.Equal(t, tt.wantCode, response.Error.Code)
			assert.Contains(t, response.Error.Message, tt.wantMessageKey)
			assert.Equal(t, "trace-123", response.TraceID)
		})
	}
}

func TestHandleError_ValidationDetails(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", http.NoBody)

	HandleError(c, Validate(&AddQuoteRequest{Text: strings.Repeat("x", 1001), Category: "c"}))

	var response ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, map[string]string{"text": "must be at most 1000 characters"}, response.Error.Details)
}
