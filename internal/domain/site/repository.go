package site

import (
	"context"

	"github.com/google/uuid"
)

// SettingsRepository loads and stores the per-tenant settings
type SettingsRepository interface {
	// Find returns shared.ErrNotFound when the tenant has no saved settings
	Find(ctx context.Context, tenantID uuid.UUID) (*Settings, error)
	Save(ctx context.Context, settings *Settings) error
}

// PageRepository defines persistence for CMS pages
type PageRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Page, error)
	FindBySlug(ctx context.Context, tenantID uuid.UUID, slug string) (*Page, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID) ([]*Page, error)
	ExistsBySlug(ctx context.Context, tenantID uuid.UUID, slug string, excludeID *uuid.UUID) (bool, error)
	Save(ctx context.Context, page *Page) error
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error
}
