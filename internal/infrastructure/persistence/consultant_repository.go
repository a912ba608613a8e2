package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/emlak/backend/internal/domain/consultant"
	"github.com/emlak/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormConsultantRepository implements consultant.ConsultantRepository using GORM
type GormConsultantRepository struct {
	db *gorm.DB
}

// NewGormConsultantRepository creates a new GormConsultantRepository
func NewGormConsultantRepository(db *gorm.DB) *GormConsultantRepository {
	return &GormConsultantRepository{db: db}
}

// FindByIDForTenant finds a consultant by ID within a tenant
func (r *GormConsultantRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*consultant.Consultant, error) {
	var c consultant.Consultant
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&c).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewNotFoundError("Consultant")
		}
		return nil, err
	}
	return &c, nil
}

// FindBySlug finds a consultant by slug within a tenant
func (r *GormConsultantRepository) FindBySlug(ctx context.Context, tenantID uuid.UUID, slug string) (*consultant.Consultant, error) {
	var c consultant.Consultant
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND slug = ?", tenantID, strings.ToLower(slug)).
		First(&c).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewNotFoundError("Consultant")
		}
		return nil, err
	}
	return &c, nil
}

// FindAllForTenant finds consultants of a tenant
func (r *GormConsultantRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]consultant.Consultant, error) {
	var consultants []consultant.Consultant
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&consultant.Consultant{}).Where("tenant_id = ?", tenantID), filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset(filter.Offset()).Limit(filter.PageSize)
	}
	orderBy := ValidateSortField(filter.OrderBy, ConsultantSortFields, "sort_order")
	orderDir := "ASC"
	if filter.OrderBy != "" {
		orderDir = ValidateSortOrder(filter.OrderDir)
	}

	if err := query.Order(orderBy + " " + orderDir).Order("full_name ASC").Find(&consultants).Error; err != nil {
		return nil, err
	}
	return consultants, nil
}

// CountForTenant counts consultants of a tenant
func (r *GormConsultantRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&consultant.Consultant{}).Where("tenant_id = ?", tenantID), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountByBranch counts the consultants attached to a branch
func (r *GormConsultantRepository) CountByBranch(ctx context.Context, tenantID, branchID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&consultant.Consultant{}).
		Where("tenant_id = ? AND branch_id = ?", tenantID, branchID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates a consultant
func (r *GormConsultantRepository) Save(ctx context.Context, c *consultant.Consultant) error {
	return saveVersioned(ctx, r.db, c, c.TenantID, func() any { return c })
}

// DeleteForTenant deletes a consultant within a tenant
func (r *GormConsultantRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&consultant.Consultant{}, "tenant_id = ? AND id = ?", tenantID, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewNotFoundError("Consultant")
	}
	return nil
}

func (r *GormConsultantRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		query = query.Where("full_name ILIKE ?", "%"+filter.Search+"%")
	}
	for key, value := range filter.Filters {
		switch key {
		case "branch_id":
			query = query.Where("branch_id = ?", value)
		case "is_active":
			query = query.Where("is_active = ?", value)
		}
	}
	return query
}

var _ consultant.ConsultantRepository = (*GormConsultantRepository)(nil)
