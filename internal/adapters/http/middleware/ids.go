// Package middleware provides the Gin middleware chain of the HTTP server.
package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/jsamuelsen/quotekeeper/internal/platform/logging"
)

const (
	// HeaderRequestID identifies a single request.
	HeaderRequestID = "X-Request-ID"

	// HeaderCorrelationID follows a request across services, including the
	// pushes and pulls made to the remote quote service on its behalf.
	HeaderCorrelationID = "X-Correlation-ID"

	// ContextKeyRequestID is the gin context key for the request ID.
	ContextKeyRequestID = "request_id"

	// ContextKeyCorrelationID is the gin context key for the correlation ID.
	ContextKeyCorrelationID = "correlation_id"
)

type contextKey string

const (
	ctxKeyRequestID     contextKey = "request_id"
	ctxKeyCorrelationID contextKey = "correlation_id"
)

// RequestIDFromContext returns the request ID stored by RequestID, or "".
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(ctxKeyRequestID).(string)
	return id
}

// CorrelationIDFromContext returns the correlation ID stored by CorrelationID, or "".
func CorrelationIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(ctxKeyCorrelationID).(string)
	return id
}

// ContextWithRequestID stores a request ID for outbound clients and tags the
// context logger with it.
func ContextWithRequestID(ctx context.Context, id string) context.Context {
	return logging.WithRequestID(context.WithValue(ctx, ctxKeyRequestID, id), id)
}

// ContextWithCorrelationID stores a correlation ID for outbound clients and
// tags the context logger with it.
func ContextWithCorrelationID(ctx context.Context, id string) context.Context {
	return logging.WithCorrelationID(context.WithValue(ctx, ctxKeyCorrelationID, id), id)
}

type idMiddlewareConfig struct {
	header string
	key    string
	enrich func(ctx context.Context, id string) context.Context
}

// RequestID takes X-Request-ID from the request or generates one, echoes it
// on the response, and stores it on both the gin and request contexts.
func RequestID() gin.HandlerFunc {
	return idMiddleware(idMiddlewareConfig{
		header: HeaderRequestID,
		key:    ContextKeyRequestID,
		enrich: ContextWithRequestID,
	})
}

// CorrelationID does for X-Correlation-ID what RequestID does for X-Request-ID.
func CorrelationID() gin.HandlerFunc {
	return idMiddleware(idMiddlewareConfig{
		header: HeaderCorrelationID,
		key:    ContextKeyCorrelationID,
		enrich: ContextWithCorrelationID,
	})
}

func idMiddleware(cfg idMiddlewareConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(cfg.header)
		if id == "" {
			id = uuid.NewString()
		}

		c.Set(cfg.key, id)
		c.Header(cfg.header, id)
		c.Request = c.Request.WithContext(cfg.enrich(c.Request.Context(), id))

		c.Next()
	}
}

// GetRequestID returns the request ID from the gin context, or "".
func GetRequestID(c *gin.Context) string {
	return c.GetString(ContextKeyRequestID)
}

// GetCorrelationID returns the correlation ID from the gin context, or "".
func GetCorrelationID(c *gin.Context) string {
	return c.GetString(ContextKeyCorrelationID)
}
