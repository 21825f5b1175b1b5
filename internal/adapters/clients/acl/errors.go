package acl

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/jsamuelsen/quotekeeper/internal/adapters/clients"
	"github.com/jsamuelsen/quotekeeper/internal/domain"
)

// errorBody covers the two error envelopes seen from JSON APIs: nested
// {"error":{"message":...}} and flat {"message":...}.
type errorBody struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
	Message string `json:"message"`
}

// parseErrorMessage extracts a message from an error response body.
// Returns "" when the body is not a recognised envelope.
func parseErrorMessage(body string) string {
	body = strings.TrimSpace(body)
	if body == "" {
		return ""
	}

	var eb errorBody
	if err := json.Unmarshal([]byte(body), &eb); err != nil {
		return ""
	}

	if eb.Error.Message != "" {
		return eb.Error.Message
	}

	return eb.Message
}

// MapError translates a client-layer error into a domain.NetworkError.
// nil maps to nil, and an existing NetworkError passes through.
func MapError(err error, serviceName, operation string) error {
	if err == nil {
		return nil
	}

	if domain.IsNetwork(err) {
		return err
	}

	return domain.NewNetworkError(serviceName, operation, reason(err))
}

func reason(err error) string {
	var se *clients.StatusError

	switch {
	case errors.Is(err, clients.ErrCircuitOpen):
		return "circuit breaker open"
	case errors.As(err, &se):
		msg := parseErrorMessage(se.Body)
		if msg == "" {
			msg = http.StatusText(se.StatusCode)
		}
		return fmt.Sprintf("status %d: %s", se.StatusCode, msg)
	case errors.Is(err, clients.ErrDecodeResponse):
		return "malformed response"
	case errors.Is(err, context.DeadlineExceeded):
		return "timed out"
	case errors.Is(err, context.Canceled):
		return "canceled"
	default:
		return err.Error()
	}
}
