package domain

import (
	"errors"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestValidateRole(t *testing.T) {
	for _, role := range []Role{RoleUser, RolePublisher, RoleAdmin} {
		if err := ValidateRole(role); err != nil {
			t.Errorf("expected %s valid, got %v", role, err)
		}
	}

	for _, role := range []Role{"", "superuser", "Admin"} {
		if err := ValidateRole(role); !errors.Is(err, ErrInvalidRole) {
			t.Errorf("expected ErrInvalidRole for %q, got %v", role, err)
		}
	}
}

func TestPrincipal_CanMutate(t *testing.T) {
	owner := primitive.NewObjectID()
	stranger := primitive.NewObjectID()

	tests := []struct {
		name      string
		principal Principal
		ownerID   primitive.ObjectID
		want      bool
	}{
		{
			name:      "owner may mutate own resource",
			principal: Principal{ID: owner, Role: RoleUser},
			ownerID:   owner,
			want:      true,
		},
		{
			name:      "admin may mutate any resource",
			principal: Principal{ID: stranger, Role: RoleAdmin},
			ownerID:   owner,
			want:      true,
		},
		{
			name:      "publisher may not mutate another's resource",
			principal: Principal{ID: stranger, Role: RolePublisher},
			ownerID:   owner,
			want:      false,
		},
		{
			name:      "plain user may not mutate another's resource",
			principal: Principal{ID: stranger, Role: RoleUser},
			ownerID:   owner,
			want:      false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.principal.CanMutate(tt.ownerID); got != tt.want {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestNewUser(t *testing.T) {
	u := NewUser("Jane", "jane@fieldworks.dev", "hash")

	if u.Role != RoleUser {
		t.Errorf("expected default role user, got %s", u.Role)
	}
	if u.CreatedAt.IsZero() || u.UpdatedAt.IsZero() {
		t.Error("expected timestamps set")
	}
}
