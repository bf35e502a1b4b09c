package ratelimit

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestMemoryLimiter_Allow(t *testing.T) {
	limiter := NewMemoryLimiter(Config{RequestsPerWindow: 3, Window: time.Minute})
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		allowed, err := limiter.Allow(ctx, "10.0.0.1")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !allowed {
			t.Fatalf("request %d unexpectedly limited", i+1)
		}
	}

	allowed, err := limiter.Allow(ctx, "10.0.0.1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if allowed {
		t.Error("expected fourth request limited")
	}

	// A different client has its own window.
	allowed, err = limiter.Allow(ctx, "10.0.0.2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !allowed {
		t.Error("expected separate client unaffected")
	}
}

func TestMemoryLimiter_WindowResets(t *testing.T) {
	limiter := NewMemoryLimiter(Config{RequestsPerWindow: 1, Window: 20 * time.Millisecond})
	ctx := context.Background()

	if allowed, _ := limiter.Allow(ctx, "10.0.0.1"); !allowed {
		t.Fatal("first request should pass")
	}
	if allowed, _ := limiter.Allow(ctx, "10.0.0.1"); allowed {
		t.Fatal("second request should be limited")
	}

	time.Sleep(30 * time.Millisecond)

	if allowed, _ := limiter.Allow(ctx, "10.0.0.1"); !allowed {
		t.Error("expected fresh window after expiry")
	}
}

// failingLimiter always errors, to exercise the fail-open path.
type failingLimiter struct{}

func (failingLimiter) Allow(ctx context.Context, key string) (bool, error) {
	return false, errors.New("backend down")
}

func TestMiddleware(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	t.Run("limits after threshold", func(t *testing.T) {
		limiter := NewMemoryLimiter(Config{RequestsPerWindow: 2, Window: time.Minute})
		handler := Middleware(limiter, zerolog.Nop())(next)

		for i, wantStatus := range []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests} {
			req := httptest.NewRequest(http.MethodGet, "/api/products", nil)
			req.RemoteAddr = "10.0.0.1:51234"
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			if rec.Code != wantStatus {
				t.Errorf("request %d: expected status %d, got %d", i+1, wantStatus, rec.Code)
			}
		}
	})

	t.Run("limiter failure fails open", func(t *testing.T) {
		handler := Middleware(failingLimiter{}, zerolog.Nop())(next)

		req := httptest.NewRequest(http.MethodGet, "/api/products", nil)
		req.RemoteAddr = "10.0.0.1:51234"
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Errorf("expected request allowed on limiter failure, got %d", rec.Code)
		}
	})
}
