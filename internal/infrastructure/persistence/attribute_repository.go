package persistence

import (
	"context"
	"errors"

	"github.com/emlak/backend/internal/domain/attribute"
	"github.com/emlak/backend/internal/domain/listing"
	"github.com/emlak/backend/internal/domain/shared"
	"github.com/emlak/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormAttributeDefinitionRepository implements attribute.DefinitionRepository using GORM
type GormAttributeDefinitionRepository struct {
	db *gorm.DB
}

// NewGormAttributeDefinitionRepository creates a new GormAttributeDefinitionRepository
func NewGormAttributeDefinitionRepository(db *gorm.DB) *GormAttributeDefinitionRepository {
	return &GormAttributeDefinitionRepository{db: db}
}

// FindByIDForTenant finds a definition by ID within a tenant
func (r *GormAttributeDefinitionRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*attribute.Definition, error) {
	var model models.AttributeDefinitionModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewNotFoundError("Attribute definition")
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByCategory returns the definitions of a category, or all of them when category is empty
func (r *GormAttributeDefinitionRepository) FindByCategory(ctx context.Context, tenantID uuid.UUID, category listing.Category) ([]*attribute.Definition, error) {
	query := r.db.WithContext(ctx).Where("tenant_id = ?", tenantID)
	if category != "" {
		query = query.Where("category = ?", category)
	}

	var rows []models.AttributeDefinitionModel
	if err := query.Order("category ASC, sort_order ASC, key ASC").Find(&rows).Error; err != nil {
		return nil, err
	}

	defs := make([]*attribute.Definition, len(rows))
	for i := range rows {
		defs[i] = rows[i].ToDomain()
	}
	return defs, nil
}

// ExistsByKey checks if the category already defines the key
func (r *GormAttributeDefinitionRepository) ExistsByKey(ctx context.Context, tenantID uuid.UUID, category listing.Category, key string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.AttributeDefinitionModel{}).
		Where("tenant_id = ? AND category = ? AND key = ?", tenantID, category, key).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Save creates a definition or updates it under optimistic locking
func (r *GormAttributeDefinitionRepository) Save(ctx context.Context, def *attribute.Definition) error {
	return saveVersioned(ctx, r.db, def, def.TenantID, func() any {
		model := &models.AttributeDefinitionModel{}
		model.FromDomain(def)
		return model
	})
}

// DeleteForTenant deletes a definition within a tenant
func (r *GormAttributeDefinitionRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.AttributeDefinitionModel{}, "tenant_id = ? AND id = ?", tenantID, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewNotFoundError("Attribute definition")
	}
	return nil
}

var _ attribute.DefinitionRepository = (*GormAttributeDefinitionRepository)(nil)
