// Package domain contains the core business entities for the Fieldworks API.
// These are BSON-mapped structs representing the fundamental concepts of the
// marketplace and knowledge platform.
package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Role categorizes what a user may do at the route level.
type Role string

const (
	// RoleUser is the default role assigned at registration.
	RoleUser Role = "user"

	// RolePublisher may create and maintain knowledge base content.
	RolePublisher Role = "publisher"

	// RoleAdmin may perform any operation, including mutating resources
	// owned by other users.
	RoleAdmin Role = "admin"
)

// ValidateRole checks the role against the allowed set.
func ValidateRole(r Role) error {
	switch r {
	case RoleUser, RolePublisher, RoleAdmin:
		return nil
	}
	return ErrInvalidRole
}

// User represents a registered user in the system.
// Users own the resources they create and authenticate with email/password.
type User struct {
	// ID is the unique identifier for the user.
	ID primitive.ObjectID `bson:"_id,omitempty" json:"id"`

	// Name is the display name.
	Name string `bson:"name" json:"name"`

	// Email is the unique email address used for login.
	Email string `bson:"email" json:"email"`

	// PasswordHash is the bcrypt hash of the user's password.
	// This should never be exposed in API responses.
	PasswordHash string `bson:"password_hash" json:"-"`

	// Role determines route-level permissions.
	Role Role `bson:"role" json:"role"`

	// CreatedAt is the timestamp when the user was created.
	CreatedAt time.Time `bson:"created_at" json:"created_at"`

	// UpdatedAt is the timestamp when the user was last updated.
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// NewUser creates a new User with default values.
func NewUser(name, email, passwordHash string) *User {
	now := time.Now().UTC()
	return &User{
		Name:         name,
		Email:        email,
		PasswordHash: passwordHash,
		Role:         RoleUser,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// Principal is the authenticated actor performing a request.
// It carries only what authorization decisions need.
type Principal struct {
	ID   primitive.ObjectID
	Role Role
}

// IsAdmin reports whether the principal has the admin role.
func (p Principal) IsAdmin() bool {
	return p.Role == RoleAdmin
}

// CanMutate reports whether the principal may update or delete a resource
// owned by ownerID. Owners and admins may; everyone else may not.
func (p Principal) CanMutate(ownerID primitive.ObjectID) bool {
	return p.ID == ownerID || p.IsAdmin()
}
