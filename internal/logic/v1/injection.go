package v1

import (
	"context"

	"github.com/breeew/stellar-api/pkg/security"
)

const (
	TOKEN_CONTEXT_KEY = "__stellar.access_token"
)

func InjectTokenClaim(ctx context.Context) (security.TokenClaims, bool) {
	val, ok := ctx.Value(TOKEN_CONTEXT_KEY).(security.TokenClaims)
	return val, ok
}

// WithTokenClaim returns a copy of ctx carrying claims, for callers
// outside of an http request.
func WithTokenClaim(ctx context.Context, claims security.TokenClaims) context.Context {
	return context.WithValue(ctx, TOKEN_CONTEXT_KEY, claims)
}
