package web

import (
	"context"
	"log/slog"
)

// ContextKey is a custom type used for creating context keys.
// Using a custom type for context keys helps prevent collisions between keys
// defined in different packages.
type ContextKey string

const (
	// RequestIDContextKey stores the request id set by the RequestID middleware.
	RequestIDContextKey = ContextKey("request_id")
	// LoggerContextKey stores a request-scoped *slog.Logger.
	LoggerContextKey = ContextKey("logger")
)

// GetRequestID extracts request ID from context / Extrait l'ID de la requête du contexte
func GetRequestID(ctx context.Context) string {
	if requestID, ok := ctx.Value(RequestIDContextKey).(string); ok {
		return requestID
	}
	return ""
}

// LoggerFrom returns the request logger, or the default one / Retourne le logger de la requête ou celui par défaut
func LoggerFrom(ctx context.Context) *slog.Logger {
	if logger, ok := ctx.Value(LoggerContextKey).(*slog.Logger); ok {
		return logger
	}
	return slog.Default()
}
