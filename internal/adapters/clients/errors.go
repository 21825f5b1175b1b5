// Package clients provides the instrumented HTTP client used to reach
// downstream services.
package clients

import (
	"errors"
	"fmt"
)

// Client errors are infrastructure failures. Callers translate them into
// domain errors at the anti-corruption layer.
var (
	// ErrCircuitOpen is returned while the circuit breaker blocks requests.
	ErrCircuitOpen = errors.New("circuit breaker open")

	// ErrMaxRetriesExceeded wraps the last attempt's error once retries are exhausted.
	ErrMaxRetriesExceeded = errors.New("max retries exceeded")

	// ErrDecodeResponse is returned when a 2xx body is not the expected JSON.
	ErrDecodeResponse = errors.New("decoding response")
)

// StatusError is an HTTP response outside the 2xx range.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("unexpected status %d", e.StatusCode)
	}

	return fmt.Sprintf("unexpected status %d: %s", e.StatusCode, e.Body)
}

// StatusCode extracts the HTTP status from err, or 0 when err carries none.
func StatusCode(err error) int {
	var se *StatusError
	if errors.As(err, &se) {
		return se.StatusCode
	}

	return 0
}
