package auth

import (
	"context"
	"net/http"
)

// Principal is the verified caller attached to a request.
type Principal struct {
	UID    string          `json:"uid"`
	Email  string          `json:"email"`
	Claims *FirebaseClaims `json:"-"`
}

type contextKey string

const principalContextKey contextKey = "principal"

func WithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, principalContextKey, p)
}

func GetPrincipalFromContext(ctx context.Context) (*Principal, bool) {
	p, ok := ctx.Value(principalContextKey).(*Principal)
	return p, ok && p != nil
}

func GetPrincipalFromRequest(r *http.Request) (*Principal, bool) {
	return GetPrincipalFromContext(r.Context())
}
