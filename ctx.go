package headstart

import (
	"context"
)

var tokenCtxKey = &contextKey{"access_token"}

type contextKey struct {
	name string
}

// WithAccessToken sets the platform access token in the given context
func WithAccessToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenCtxKey, token)
}

// AccessTokenFromContext finds the access token from the context.
func AccessTokenFromContext(ctx context.Context) (string, bool) {
	raw, ok := ctx.Value(tokenCtxKey).(string)
	return raw, ok
}
