package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/emlak/backend/internal/domain/listing"
	"github.com/emlak/backend/internal/domain/shared"
	"github.com/emlak/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// listingLocationColumns are the columns CountByLocation accepts
var listingLocationColumns = map[string]bool{
	"city_id":         true,
	"district_id":     true,
	"neighborhood_id": true,
}

// GormListingRepository implements listing.ListingRepository using GORM
type GormListingRepository struct {
	db *gorm.DB
}

// NewGormListingRepository creates a new GormListingRepository
func NewGormListingRepository(db *gorm.DB) *GormListingRepository {
	return &GormListingRepository{db: db}
}

// withBranchSlug selects the listing row together with its branch slug
func (r *GormListingRepository) withBranchSlug(query *gorm.DB) *gorm.DB {
	return query.
		Select("listings.*, branches.slug AS branch_slug").
		Joins("LEFT JOIN branches ON branches.id = listings.branch_id")
}

func (r *GormListingRepository) tenantQuery(ctx context.Context, tenantID uuid.UUID) *gorm.DB {
	return r.db.WithContext(ctx).Model(&models.ListingModel{}).Where("listings.tenant_id = ?", tenantID)
}

// FindByIDForTenant finds a listing by ID within a tenant
func (r *GormListingRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*listing.Listing, error) {
	var model models.ListingModel
	if err := r.withBranchSlug(r.tenantQuery(ctx, tenantID)).
		Where("listings.id = ?", id).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewNotFoundError("Listing")
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindBySlug finds a listing by its slug within a tenant
func (r *GormListingRepository) FindBySlug(ctx context.Context, tenantID uuid.UUID, slug string) (*listing.Listing, error) {
	var model models.ListingModel
	if err := r.withBranchSlug(r.tenantQuery(ctx, tenantID)).
		Where("listings.slug = ?", strings.ToLower(slug)).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewNotFoundError("Listing")
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// Search runs a filtered search and returns one page plus the total count.
// A non-positive PageSize returns every match.
func (r *GormListingRepository) Search(ctx context.Context, tenantID uuid.UUID, q listing.SearchQuery) ([]*listing.Listing, int64, error) {
	filtered := func() *gorm.DB {
		query := r.tenantQuery(ctx, tenantID)
		if q.PublishedOnly {
			query = query.Where("listings.state = ?", listing.StatePublished)
		}
		return applyListingFilter(query, tenantID, q.Filter)
	}

	var total int64
	if err := filtered().Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count listings: %w", err)
	}
	if total == 0 {
		return []*listing.Listing{}, 0, nil
	}

	query := orderListings(r.withBranchSlug(filtered()), q.Filter)
	if q.PageSize > 0 {
		page := max(q.Page, 1)
		query = query.Offset((page - 1) * q.PageSize).Limit(q.PageSize)
	}

	var rows []models.ListingModel
	if err := query.Find(&rows).Error; err != nil {
		return nil, 0, fmt.Errorf("search listings: %w", err)
	}
	return toDomainListings(rows), total, nil
}

// FindShowcase returns the published listings of a showcase, newest first
func (r *GormListingRepository) FindShowcase(ctx context.Context, tenantID uuid.UUID, scope listing.ShowcaseScope) ([]*listing.Listing, error) {
	query := r.withBranchSlug(r.tenantQuery(ctx, tenantID)).
		Where("listings.state = ?", listing.StatePublished)
	if scope.OpportunitiesOnly {
		query = query.Where("listings.is_opportunity = ?", true)
	}
	if scope.BranchID != nil {
		query = query.Where("listings.branch_id = ?", *scope.BranchID)
	}
	if scope.Limit > 0 {
		query = query.Limit(scope.Limit)
	}

	var rows []models.ListingModel
	if err := query.Order("listings.created_at DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return toDomainListings(rows), nil
}

// FindAllForTenant is the admin listing table
func (r *GormListingRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]*listing.Listing, error) {
	query := r.withBranchSlug(r.applyFilter(r.tenantQuery(ctx, tenantID), filter))

	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset(filter.Offset()).Limit(filter.PageSize)
	}
	orderBy := ValidateSortField(filter.OrderBy, ListingSortFields, "created_at")
	query = query.Order("listings." + orderBy + " " + ValidateSortOrder(filter.OrderDir))

	var rows []models.ListingModel
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return toDomainListings(rows), nil
}

// CountForTenant counts listings for the admin table
func (r *GormListingRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	if err := r.applyFilter(r.tenantQuery(ctx, tenantID), filter).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountByBranch counts the listings assigned to a branch
func (r *GormListingRepository) CountByBranch(ctx context.Context, tenantID, branchID uuid.UUID) (int64, error) {
	var count int64
	if err := r.tenantQuery(ctx, tenantID).
		Where("listings.branch_id = ?", branchID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountByConsultant counts the listings assigned to a consultant
func (r *GormListingRepository) CountByConsultant(ctx context.Context, tenantID, consultantID uuid.UUID) (int64, error) {
	var count int64
	if err := r.tenantQuery(ctx, tenantID).
		Where("listings.consultant_id = ?", consultantID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountByLocation counts the listings referencing a city, district or neighborhood
func (r *GormListingRepository) CountByLocation(ctx context.Context, tenantID uuid.UUID, column string, id uuid.UUID) (int64, error) {
	if !listingLocationColumns[column] {
		return 0, fmt.Errorf("unsupported location column %q", column)
	}
	var count int64
	if err := r.tenantQuery(ctx, tenantID).
		Where("listings."+column+" = ?", id).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates a listing or updates it under optimistic locking
func (r *GormListingRepository) Save(ctx context.Context, l *listing.Listing) error {
	return saveVersioned(ctx, r.db, l, l.TenantID, func() any {
		return models.ListingModelFromDomain(l)
	})
}

// DeleteForTenant deletes a listing within a tenant
func (r *GormListingRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.ListingModel{}, "tenant_id = ? AND id = ?", tenantID, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewNotFoundError("Listing")
	}
	return nil
}

func (r *GormListingRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("(listings.title ILIKE ? OR listings.listing_no ILIKE ?)", pattern, pattern)
	}
	for key, value := range filter.Filters {
		switch key {
		case "state":
			query = query.Where("listings.state = ?", value)
		case "branch_id":
			query = query.Where("listings.branch_id = ?", value)
		case "consultant_id":
			query = query.Where("listings.consultant_id = ?", value)
		}
	}
	return query
}

func toDomainListings(rows []models.ListingModel) []*listing.Listing {
	out := make([]*listing.Listing, len(rows))
	for i := range rows {
		out[i] = rows[i].ToDomain()
	}
	return out
}

var _ listing.ListingRepository = (*GormListingRepository)(nil)
