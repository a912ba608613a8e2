package branch

import (
	"context"

	"github.com/emlak/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// BranchRepository defines persistence for branches
type BranchRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Branch, error)
	FindBySlug(ctx context.Context, tenantID uuid.UUID, slug string) (*Branch, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Branch, error)
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)
	ExistsBySlug(ctx context.Context, tenantID uuid.UUID, slug string) (bool, error)
	Save(ctx context.Context, branch *Branch) error
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error
}
