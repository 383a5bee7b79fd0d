package domain

import "context"

type callerKey struct{}

// WithCaller returns a context carrying the calling identity. The host
// boundary (HTTP handler, test harness) is responsible for setting it.
func WithCaller(ctx context.Context, id AccountID) context.Context {
	return context.WithValue(ctx, callerKey{}, id)
}

// CallerFrom extracts the calling identity from the context.
func CallerFrom(ctx context.Context) (AccountID, bool) {
	id, ok := ctx.Value(callerKey{}).(AccountID)
	if !ok || id == "" {
		return "", false
	}
	return id, true
}
