package consultant

import (
	"context"

	"github.com/emlak/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// ConsultantRepository defines persistence for consultants
type ConsultantRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Consultant, error)
	FindBySlug(ctx context.Context, tenantID uuid.UUID, slug string) (*Consultant, error)
	// FindAllForTenant supports the "branch_id" and "is_active" filter keys
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Consultant, error)
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)
	CountByBranch(ctx context.Context, tenantID, branchID uuid.UUID) (int64, error)
	Save(ctx context.Context, consultant *Consultant) error
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error
}
