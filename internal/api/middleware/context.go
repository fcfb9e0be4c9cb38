package middleware

import (
	"context"
	"net/http"

	"github.com/jswierad/crmcore/internal/identity"
)

type contextKey string

const identityKey contextKey = "identity"

// SetIdentity returns a context carrying the resolved caller identity.
func SetIdentity(ctx context.Context, id identity.Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

// GetIdentity returns the caller identity resolved by the auth middleware.
func GetIdentity(r *http.Request) (identity.Identity, bool) {
	id, ok := r.Context().Value(identityKey).(identity.Identity)
	return id, ok
}
