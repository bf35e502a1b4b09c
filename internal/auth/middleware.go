package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"github.com/fieldworks/fieldworks-api/internal/domain"
)

// contextKey is a private type for context values.
type contextKey int

const principalKey contextKey = iota

// PrincipalFromContext extracts the authenticated principal set by the
// Require middleware.
func PrincipalFromContext(ctx context.Context) (domain.Principal, bool) {
	p, ok := ctx.Value(principalKey).(domain.Principal)
	return p, ok
}

// WithPrincipal returns a context carrying the given principal.
// Exported for handler tests.
func WithPrincipal(ctx context.Context, p domain.Principal) context.Context {
	return context.WithValue(ctx, principalKey, p)
}

// Middleware authenticates requests with bearer tokens.
type Middleware struct {
	tokens *TokenManager
	logger zerolog.Logger
}

// NewMiddleware creates an authentication middleware.
func NewMiddleware(tokens *TokenManager, logger zerolog.Logger) *Middleware {
	return &Middleware{
		tokens: tokens,
		logger: logger.With().Str("component", "auth").Logger(),
	}
}

// Require rejects requests without a valid bearer token and stores the
// principal in the request context for downstream handlers.
func (m *Middleware) Require(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			respondUnauthorized(w, ErrMissingToken.Error())
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			respondUnauthorized(w, ErrMissingToken.Error())
			return
		}

		principal, err := m.tokens.Verify(parts[1])
		if err != nil {
			m.logger.Warn().Err(err).Msg("token validation failed")
			respondUnauthorized(w, ErrInvalidToken.Error())
			return
		}

		next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), principal)))
	})
}

// RequireRoles restricts a route subtree to the given roles. It must run
// after Require; route-level gating passes before any handler, then
// per-instance ownership checks apply inside the services.
func RequireRoles(roles ...domain.Role) func(http.Handler) http.Handler {
	allowed := make(map[domain.Role]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal, ok := PrincipalFromContext(r.Context())
			if !ok {
				respondUnauthorized(w, ErrMissingToken.Error())
				return
			}
			if !allowed[principal.Role] {
				respondError(w, http.StatusForbidden, ErrForbiddenRole.Error())
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func respondUnauthorized(w http.ResponseWriter, message string) {
	respondError(w, http.StatusUnauthorized, message)
}

func respondError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"success": false,
		"message": message,
	})
}
