package identity

import (
	"context"

	"github.com/google/uuid"
)

// UserRepository defines the interface for user persistence
type UserRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)

	// FindByUsername finds a user by username within the tenant
	FindByUsername(ctx context.Context, tenantID uuid.UUID, username string) (*User, error)

	ExistsByUsername(ctx context.Context, tenantID uuid.UUID, username string) (bool, error)

	// Save creates or updates a user
	Save(ctx context.Context, user *User) error
}
