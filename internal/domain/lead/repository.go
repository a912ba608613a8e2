package lead

import (
	"context"

	"github.com/emlak/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// CustomerRequestRepository defines persistence for customer requests
type CustomerRequestRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*CustomerRequest, error)
	// FindAllForTenant supports filter keys "status", "type" and "branch_id"
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]*CustomerRequest, error)
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)
	Save(ctx context.Context, request *CustomerRequest) error
}
