package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/emlak/backend/internal/domain/shared"
	"github.com/emlak/backend/internal/domain/site"
	"github.com/emlak/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormSettingsRepository implements site.SettingsRepository using GORM
type GormSettingsRepository struct {
	db *gorm.DB
}

// NewGormSettingsRepository creates a new GormSettingsRepository
func NewGormSettingsRepository(db *gorm.DB) *GormSettingsRepository {
	return &GormSettingsRepository{db: db}
}

// Find loads the tenant's settings
func (r *GormSettingsRepository) Find(ctx context.Context, tenantID uuid.UUID) (*site.Settings, error) {
	var model models.SiteSettingsModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// Save upserts the tenant's settings row
func (r *GormSettingsRepository) Save(ctx context.Context, settings *site.Settings) error {
	model := &models.SiteSettingsModel{}
	model.FromDomain(settings)
	return r.db.WithContext(ctx).Save(model).Error
}

// GormPageRepository implements site.PageRepository using GORM
type GormPageRepository struct {
	db *gorm.DB
}

// NewGormPageRepository creates a new GormPageRepository
func NewGormPageRepository(db *gorm.DB) *GormPageRepository {
	return &GormPageRepository{db: db}
}

// FindByIDForTenant finds a page by ID within a tenant
func (r *GormPageRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*site.Page, error) {
	var model models.PageModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewNotFoundError("Page")
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindBySlug finds a page by slug within a tenant
func (r *GormPageRepository) FindBySlug(ctx context.Context, tenantID uuid.UUID, slug string) (*site.Page, error) {
	var model models.PageModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND slug = ?", tenantID, strings.ToLower(slug)).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewNotFoundError("Page")
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAllForTenant returns every page of the tenant ordered by title
func (r *GormPageRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID) ([]*site.Page, error) {
	var rows []models.PageModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Order("title ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	pages := make([]*site.Page, len(rows))
	for i := range rows {
		pages[i] = rows[i].ToDomain()
	}
	return pages, nil
}

// ExistsBySlug checks if another page already uses the slug
func (r *GormPageRepository) ExistsBySlug(ctx context.Context, tenantID uuid.UUID, slug string, excludeID *uuid.UUID) (bool, error) {
	query := r.db.WithContext(ctx).
		Model(&models.PageModel{}).
		Where("tenant_id = ? AND slug = ?", tenantID, slug)
	if excludeID != nil {
		query = query.Where("id <> ?", *excludeID)
	}
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Save creates a page or updates it under optimistic locking
func (r *GormPageRepository) Save(ctx context.Context, page *site.Page) error {
	return saveVersioned(ctx, r.db, page, page.TenantID, func() any {
		model := &models.PageModel{}
		model.FromDomain(page)
		return model
	})
}

// DeleteForTenant deletes a page within a tenant
func (r *GormPageRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.PageModel{}, "tenant_id = ? AND id = ?", tenantID, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewNotFoundError("Page")
	}
	return nil
}

var (
	_ site.SettingsRepository = (*GormSettingsRepository)(nil)
	_ site.PageRepository     = (*GormPageRepository)(nil)
)
