package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/jswierad/crmcore/internal/api/response"
	"github.com/jswierad/crmcore/internal/authz"
	"github.com/jswierad/crmcore/internal/cache"
	"github.com/jswierad/crmcore/internal/identity"
)

// SessionCookie is the cookie carrying the opaque session token when no
// Authorization header is present.
const SessionCookie = "crm_session"

// Auth resolves the caller's identity from the opaque session token via the
// identity provider, with a short-lived cache in front of it.
type Auth struct {
	provider identity.Provider
	cache    cache.Cache
	ttl      time.Duration
}

// NewAuth creates the auth middleware. ttl bounds how long a resolved
// identity may be served from cache.
func NewAuth(p identity.Provider, c cache.Cache, ttl time.Duration) *Auth {
	return &Auth{provider: p, cache: c, ttl: ttl}
}

// Authenticate rejects requests without a valid session before any data
// access happens, and injects the resolved identity into the context.
func (a *Auth) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := extractToken(r)
		if token == "" {
			response.Error(w, http.StatusUnauthorized,
				response.CodeAuthenticationRequired, "Missing session token", nil)
			return
		}

		id, err := a.resolve(r, token)
		if err != nil {
			var pErr *identity.ProviderError
			switch {
			case errors.Is(err, identity.ErrUnauthenticated):
				response.Error(w, http.StatusUnauthorized,
					response.CodeAuthenticationRequired, "Invalid or expired session", nil)
			case errors.As(err, &pErr):
				response.Error(w, http.StatusBadGateway,
					response.CodeUpstreamError, pErr.Message, nil)
			default:
				response.Error(w, http.StatusBadGateway,
					response.CodeUpstreamError, "Identity provider unreachable", nil)
			}
			return
		}

		next.ServeHTTP(w, r.WithContext(SetIdentity(r.Context(), *id)))
	})
}

// resolve checks the cache first and falls back to the provider. Cache
// failures are ignored; authentication itself never fails open.
func (a *Auth) resolve(r *http.Request, token string) (*identity.Identity, error) {
	key := cache.SessionKey(token)

	if data, found, err := a.cache.Get(r.Context(), key); err == nil && found {
		var id identity.Identity
		if json.Unmarshal(data, &id) == nil {
			return &id, nil
		}
	}

	id, err := a.provider.ResolveSession(r.Context(), token)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(id); err == nil {
		_ = a.cache.Set(r.Context(), key, data, a.ttl)
	}
	return id, nil
}

// RequireOrganization rejects sessions that carry no organization
// membership. Tenant-scoped procedures must never run with an empty tenant.
func RequireOrganization(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := GetIdentity(r)
		if !ok {
			response.Error(w, http.StatusUnauthorized,
				response.CodeAuthenticationRequired, "Missing session", nil)
			return
		}
		if !id.HasOrganization() {
			response.Error(w, http.StatusBadRequest,
				response.CodeMissingOrganization, "Session has no active organization", nil)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Require returns middleware that enforces the role policy for the given
// operation.
func Require(op authz.Operation) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, ok := GetIdentity(r)
			if !ok {
				response.Error(w, http.StatusUnauthorized,
					response.CodeAuthenticationRequired, "Missing session", nil)
				return
			}
			if !authz.Can(id.Role, op) {
				response.Error(w, http.StatusForbidden,
					response.CodeForbidden, "Insufficient permissions", nil)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func extractToken(r *http.Request) string {
	if auth := r.Header.Get("Authorization"); auth != "" {
		parts := strings.SplitN(auth, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return strings.TrimSpace(parts[1])
		}
		return ""
	}
	if c, err := r.Cookie(SessionCookie); err == nil {
		return c.Value
	}
	return ""
}
