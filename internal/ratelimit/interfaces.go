// Package ratelimit provides per-client request rate limiting.
// For single-node deployments, an in-memory limiter is used.
// For multi-node deployments, a Redis-based limiter can be used.
package ratelimit

import (
	"context"
	"time"
)

// Limiter defines the interface for fixed-window rate limiting.
// This abstraction allows switching between an in-memory limiter
// (single-node) and a Redis-based limiter (multi-node) without changing
// the middleware.
type Limiter interface {
	// Allow records one request for key and reports whether it fits
	// inside the current window.
	Allow(ctx context.Context, key string) (bool, error)
}

// Config holds limiter settings shared by all implementations.
type Config struct {
	// RequestsPerWindow is the number of requests allowed per key per window.
	RequestsPerWindow int

	// Window is the fixed window size.
	Window time.Duration
}
