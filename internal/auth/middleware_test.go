package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/fieldworks/fieldworks-api/internal/domain"
)

func TestMiddleware_Require(t *testing.T) {
	tokens := NewTokenManager("test-secret", time.Hour)
	mw := NewMiddleware(tokens, zerolog.Nop())

	user := &domain.User{ID: primitive.NewObjectID(), Role: domain.RoleUser}
	valid, err := tokens.Issue(user)
	if err != nil {
		t.Fatalf("failed to issue token: %v", err)
	}

	var gotPrincipal domain.Principal
	var called bool
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		gotPrincipal, _ = PrincipalFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	tests := []struct {
		name       string
		header     string
		wantStatus int
		wantCalled bool
	}{
		{
			name:       "valid bearer token",
			header:     "Bearer " + valid,
			wantStatus: http.StatusOK,
			wantCalled: true,
		},
		{
			name:       "missing header",
			header:     "",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "wrong scheme",
			header:     "Basic " + valid,
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "invalid token",
			header:     "Bearer garbage",
			wantStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called = false

			req := httptest.NewRequest(http.MethodGet, "/api/orders", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()

			mw.Require(next).ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("expected status %d, got %d", tt.wantStatus, rec.Code)
			}
			if called != tt.wantCalled {
				t.Errorf("expected handler called=%v, got %v", tt.wantCalled, called)
			}
			if tt.wantCalled && gotPrincipal.ID != user.ID {
				t.Errorf("expected principal %s in context, got %s", user.ID.Hex(), gotPrincipal.ID.Hex())
			}
		})
	}
}

func TestRequireRoles(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	gate := RequireRoles(domain.RolePublisher, domain.RoleAdmin)(next)

	tests := []struct {
		name       string
		principal  *domain.Principal
		wantStatus int
	}{
		{
			name:       "admin allowed",
			principal:  &domain.Principal{ID: primitive.NewObjectID(), Role: domain.RoleAdmin},
			wantStatus: http.StatusOK,
		},
		{
			name:       "publisher allowed",
			principal:  &domain.Principal{ID: primitive.NewObjectID(), Role: domain.RolePublisher},
			wantStatus: http.StatusOK,
		},
		{
			name:       "plain user forbidden",
			principal:  &domain.Principal{ID: primitive.NewObjectID(), Role: domain.RoleUser},
			wantStatus: http.StatusForbidden,
		},
		{
			name:       "no principal unauthorized",
			principal:  nil,
			wantStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/knowledge-base", nil)
			if tt.principal != nil {
				req = req.WithContext(WithPrincipal(req.Context(), *tt.principal))
			}
			rec := httptest.NewRecorder()

			gate.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("expected status %d, got %d", tt.wantStatus, rec.Code)
			}
		})
	}
}
