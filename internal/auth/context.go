package auth

import (
	"context"

	"github.com/fintrack/fintrack/internal/model"
)

type identityKey struct{}

// ContextWithAuth returns a copy of ctx carrying the request identity.
func ContextWithAuth(ctx context.Context, identity *model.AuthContext) context.Context {
	return context.WithValue(ctx, identityKey{}, identity)
}

// AuthFromContext returns the identity stored by ContextWithAuth, or nil.
func AuthFromContext(ctx context.Context) *model.AuthContext {
	identity, _ := ctx.Value(identityKey{}).(*model.AuthContext)
	return identity
}

// UserIDFromContext returns the authenticated user id, or "" for anonymous requests.
func UserIDFromContext(ctx context.Context) string {
	if identity := AuthFromContext(ctx); identity != nil {
		return identity.UserID
	}
	return ""
}
