package persistence

import (
	"context"
	"errors"

	"github.com/emlak/backend/internal/domain/lead"
	"github.com/emlak/backend/internal/domain/shared"
	"github.com/emlak/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormCustomerRequestRepository implements lead.CustomerRequestRepository using GORM
type GormCustomerRequestRepository struct {
	db *gorm.DB
}

// NewGormCustomerRequestRepository creates a new GormCustomerRequestRepository
func NewGormCustomerRequestRepository(db *gorm.DB) *GormCustomerRequestRepository {
	return &GormCustomerRequestRepository{db: db}
}

// FindByIDForTenant finds a request by ID within a tenant
func (r *GormCustomerRequestRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*lead.CustomerRequest, error) {
	var model models.CustomerRequestModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewNotFoundError("Customer request")
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAllForTenant lists requests, newest first unless the filter orders otherwise
func (r *GormCustomerRequestRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]*lead.CustomerRequest, error) {
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.CustomerRequestModel{}).Where("tenant_id = ?", tenantID), filter)
	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset(filter.Offset()).Limit(filter.PageSize)
	}
	orderBy := ValidateSortField(filter.OrderBy, CustomerRequestSortFields, "created_at")
	query = query.Order(orderBy + " " + ValidateSortOrder(filter.OrderDir))

	var rows []models.CustomerRequestModel
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]*lead.CustomerRequest, len(rows))
	for i := range rows {
		out[i] = rows[i].ToDomain()
	}
	return out, nil
}

// CountForTenant counts requests matching the filter
func (r *GormCustomerRequestRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.CustomerRequestModel{}).Where("tenant_id = ?", tenantID), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates a request or updates it under optimistic locking
func (r *GormCustomerRequestRepository) Save(ctx context.Context, request *lead.CustomerRequest) error {
	return saveVersioned(ctx, r.db, request, request.TenantID, func() any {
		model := &models.CustomerRequestModel{}
		model.FromDomain(request)
		return model
	})
}

func (r *GormCustomerRequestRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("full_name ILIKE ? OR phone LIKE ?", pattern, pattern)
	}
	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "type":
			query = query.Where("type = ?", value)
		case "branch_id":
			query = query.Where("branch_id = ?", value)
		}
	}
	return query
}

var _ lead.CustomerRequestRepository = (*GormCustomerRequestRepository)(nil)
