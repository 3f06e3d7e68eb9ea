package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/mmind/mastermind-go/internal/api/apierr"
	"github.com/mmind/mastermind-go/internal/model"
)

// TokenCookie is the cookie carrying the access token for browser clients
const TokenCookie = "AccessToken"

type contextKey string

const identityContextKey contextKey = "identity"

// IdentityResolver turns a request credential into the caller's identity
type IdentityResolver interface {
	Resolve(ctx context.Context, token string) (*model.Identity, error)
}

// Auth creates authentication middleware
func Auth(resolver IdentityResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := extractToken(r)
			if token == "" {
				apierr.WriteError(w, apierr.NewUnauthorizedError())
				return
			}

			identity, err := resolver.Resolve(r.Context(), token)
			if err != nil {
				apierr.WriteError(w, err)
				return
			}

			ctx := WithIdentity(r.Context(), identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// extractToken extracts the access token from the request
func extractToken(r *http.Request) string {
	// Check Authorization header first
	authHeader := r.Header.Get("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
	}

	// Fall back to cookie
	cookie, err := r.Cookie(TokenCookie)
	if err == nil {
		return cookie.Value
	}

	return ""
}

// WithIdentity stores the caller's identity in the context
func WithIdentity(ctx context.Context, identity *model.Identity) context.Context {
	return context.WithValue(ctx, identityContextKey, identity)
}

// GetIdentity returns the authenticated identity from the request context
func GetIdentity(ctx context.Context) *model.Identity {
	identity, _ := ctx.Value(identityContextKey).(*model.Identity)
	return identity
}

// MustGetIdentity returns the authenticated identity or panics
func MustGetIdentity(ctx context.Context) *model.Identity {
	identity := GetIdentity(ctx)
	if identity == nil {
		panic("no identity in context - auth middleware not applied?")
	}
	return identity
}
