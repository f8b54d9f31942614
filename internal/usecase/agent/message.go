package agent

import "context"

type messageKey struct{}

// ContextWithMessage stores the user message of the current turn.
func ContextWithMessage(ctx context.Context, message string) context.Context {
	return context.WithValue(ctx, messageKey{}, message)
}

// MessageFromContext returns the user message of the current turn, or "".
// Tool handlers use it when a parameter is better inferred from the raw request.
func MessageFromContext(ctx context.Context) string {
	m, _ := ctx.Value(messageKey{}).(string)
	return m
}
