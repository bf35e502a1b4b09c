// Package auth provides bearer-token authentication and role gating for
// the Fieldworks API.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/fieldworks/fieldworks-api/internal/domain"
)

// Token errors.
var (
	// ErrMissingToken indicates no bearer token was supplied.
	ErrMissingToken = errors.New("not authorized to access this route")

	// ErrInvalidToken indicates the token failed validation.
	ErrInvalidToken = errors.New("invalid or expired token")

	// ErrForbiddenRole indicates the principal's role may not access the route.
	ErrForbiddenRole = errors.New("user role is not authorized to access this route")
)

// Claims are the JWT claims carried by an access token.
type Claims struct {
	UserID string `json:"user_id"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// TokenManager issues and verifies HS256 access tokens.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenManager creates a token manager with the given signing secret
// and token lifetime.
func NewTokenManager(secret string, ttl time.Duration) *TokenManager {
	return &TokenManager{
		secret: []byte(secret),
		ttl:    ttl,
	}
}

// Issue signs a token for the given user.
func (m *TokenManager) Issue(user *domain.User) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID: user.ID.Hex(),
		Role:   string(user.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Verify validates a token string and returns the principal it carries.
func (m *TokenManager) Verify(tokenString string) (domain.Principal, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil || !token.Valid {
		return domain.Principal{}, ErrInvalidToken
	}

	userID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		return domain.Principal{}, ErrInvalidToken
	}

	role := domain.Role(claims.Role)
	if err := domain.ValidateRole(role); err != nil {
		return domain.Principal{}, ErrInvalidToken
	}

	return domain.Principal{ID: userID, Role: role}, nil
}
