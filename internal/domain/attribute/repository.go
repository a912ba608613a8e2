package attribute

import (
	"context"

	"github.com/emlak/backend/internal/domain/listing"
	"github.com/google/uuid"
)

// DefinitionRepository defines persistence for attribute definitions
type DefinitionRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Definition, error)
	// FindByCategory returns the definitions of a category ordered by sort order;
	// an empty category returns every definition
	FindByCategory(ctx context.Context, tenantID uuid.UUID, category listing.Category) ([]*Definition, error)
	ExistsByKey(ctx context.Context, tenantID uuid.UUID, category listing.Category, key string) (bool, error)
	Save(ctx context.Context, def *Definition) error
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error
}

// Validator checks an attributes map against the definitions of a category
type Validator interface {
	Validate(ctx context.Context, tenantID uuid.UUID, category listing.Category, attrs listing.Attributes) error
}
