package ratelimit

import (
	"encoding/json"
	"net"
	"net/http"

	"github.com/rs/zerolog"
)

// Middleware returns an HTTP middleware limiting requests per client IP.
// Limiter errors fail open: the request proceeds and the error is logged.
func Middleware(limiter Limiter, logger zerolog.Logger) func(http.Handler) http.Handler {
	log := logger.With().Str("component", "ratelimit").Logger()

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := clientIP(r)

			allowed, err := limiter.Allow(r.Context(), key)
			if err != nil {
				log.Error().Err(err).Str("client", key).Msg("rate limiter failed, allowing request")
				next.ServeHTTP(w, r)
				return
			}
			if !allowed {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)
				_ = json.NewEncoder(w).Encode(map[string]interface{}{
					"success": false,
					"message": "too many requests",
				})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// clientIP extracts the remote IP, ignoring the port.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
