package services

import "context"

type contextKey string

const (
	playerIDKey  contextKey = "player_id"
	requestIDKey contextKey = "request_id"
)

// WithPlayerID annotates context with the media player identifier.
func WithPlayerID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, playerIDKey, id)
}

// PlayerIDFromContext returns the player identifier if present.
func PlayerIDFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(playerIDKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}

// WithRequestID annotates context with a correlation identifier.
func WithRequestID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestIDFromContext extracts the correlation identifier if present.
func RequestIDFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(requestIDKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}
