package listing

import (
	"context"

	"github.com/emlak/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// SearchQuery is a filtered, paginated listing search
type SearchQuery struct {
	Filter   FilterState
	Page     int
	PageSize int
	// PublishedOnly restricts the search to publicly visible listings
	PublishedOnly bool
}

// ShowcaseScope selects the bounded listing set behind a showcase page
type ShowcaseScope struct {
	OpportunitiesOnly bool
	BranchID          *uuid.UUID
	Limit             int
}

// ListingRepository defines persistence for listings
type ListingRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Listing, error)
	FindBySlug(ctx context.Context, tenantID uuid.UUID, slug string) (*Listing, error)

	// Search applies the filter state in SQL and returns one page plus the total count
	Search(ctx context.Context, tenantID uuid.UUID, query SearchQuery) ([]*Listing, int64, error)

	// FindShowcase returns published listings of a showcase, newest first
	FindShowcase(ctx context.Context, tenantID uuid.UUID, scope ShowcaseScope) ([]*Listing, error)

	// FindAllForTenant is the admin listing; filter keys: "state", "branch_id", "consultant_id"
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]*Listing, error)
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)

	CountByBranch(ctx context.Context, tenantID, branchID uuid.UUID) (int64, error)
	CountByConsultant(ctx context.Context, tenantID, consultantID uuid.UUID) (int64, error)
	CountByLocation(ctx context.Context, tenantID uuid.UUID, column string, id uuid.UUID) (int64, error)

	Save(ctx context.Context, listing *Listing) error
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error
}
