package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/emlak/backend/internal/domain/branch"
	"github.com/emlak/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormBranchRepository implements branch.BranchRepository using GORM
type GormBranchRepository struct {
	db *gorm.DB
}

// NewGormBranchRepository creates a new GormBranchRepository
func NewGormBranchRepository(db *gorm.DB) *GormBranchRepository {
	return &GormBranchRepository{db: db}
}

// FindByIDForTenant finds a branch by ID within a tenant
func (r *GormBranchRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*branch.Branch, error) {
	var b branch.Branch
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&b).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewNotFoundError("Branch")
		}
		return nil, err
	}
	return &b, nil
}

// FindBySlug finds a branch by its slug within a tenant
func (r *GormBranchRepository) FindBySlug(ctx context.Context, tenantID uuid.UUID, slug string) (*branch.Branch, error) {
	var b branch.Branch
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND slug = ?", tenantID, strings.ToLower(slug)).
		First(&b).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewNotFoundError("Branch")
		}
		return nil, err
	}
	return &b, nil
}

// FindAllForTenant finds all branches for a tenant
func (r *GormBranchRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]branch.Branch, error) {
	var branches []branch.Branch
	query := r.applyFilter(r.db.WithContext(ctx).Model(&branch.Branch{}).Where("tenant_id = ?", tenantID), filter)

	if err := query.Find(&branches).Error; err != nil {
		return nil, err
	}
	return branches, nil
}

// CountForTenant counts branches for a tenant
func (r *GormBranchRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&branch.Branch{}).Where("tenant_id = ?", tenantID)
	query = r.applyFilterWithoutPagination(query, filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ExistsBySlug checks if a branch with the slug exists in the tenant
func (r *GormBranchRepository) ExistsBySlug(ctx context.Context, tenantID uuid.UUID, slug string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&branch.Branch{}).
		Where("tenant_id = ? AND slug = ?", tenantID, slug).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Save creates or updates a branch
func (r *GormBranchRepository) Save(ctx context.Context, b *branch.Branch) error {
	return saveVersioned(ctx, r.db, b, b.TenantID, func() any { return b })
}

// DeleteForTenant deletes a branch within a tenant
func (r *GormBranchRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&branch.Branch{}, "tenant_id = ? AND id = ?", tenantID, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewNotFoundError("Branch")
	}
	return nil
}

func (r *GormBranchRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset(filter.Offset()).Limit(filter.PageSize)
	}

	orderBy := ValidateSortField(filter.OrderBy, BranchSortFields, "sort_order")
	orderDir := "ASC"
	if filter.OrderBy != "" {
		orderDir = ValidateSortOrder(filter.OrderDir)
	}
	return query.Order(orderBy + " " + orderDir).Order("name ASC")
}

func (r *GormBranchRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("name ILIKE ? OR address ILIKE ?", searchPattern, searchPattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "is_active":
			query = query.Where("is_active = ?", value)
		case "city_id":
			query = query.Where("city_id = ?", value)
		}
	}

	return query
}

var _ branch.BranchRepository = (*GormBranchRepository)(nil)
