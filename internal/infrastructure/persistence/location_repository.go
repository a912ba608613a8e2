package persistence

import (
	"context"
	"errors"

	"github.com/emlak/backend/internal/domain/location"
	"github.com/emlak/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormCityRepository implements location.CityRepository using GORM
type GormCityRepository struct {
	db *gorm.DB
}

// NewGormCityRepository creates a new GormCityRepository
func NewGormCityRepository(db *gorm.DB) *GormCityRepository {
	return &GormCityRepository{db: db}
}

// FindByIDForTenant finds a city by ID within a tenant
func (r *GormCityRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*location.City, error) {
	var city location.City
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&city).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewNotFoundError("City")
		}
		return nil, err
	}
	return &city, nil
}

// FindAllForTenant returns every city of the tenant ordered for display
func (r *GormCityRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID) ([]location.City, error) {
	var cities []location.City
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Order("sort_order ASC, name ASC").
		Find(&cities).Error; err != nil {
		return nil, err
	}
	return cities, nil
}

// ExistsBySlug checks if a city with the slug exists in the tenant
func (r *GormCityRepository) ExistsBySlug(ctx context.Context, tenantID uuid.UUID, slug string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&location.City{}).
		Where("tenant_id = ? AND slug = ?", tenantID, slug).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// HasDistricts reports whether any district references the city
func (r *GormCityRepository) HasDistricts(ctx context.Context, tenantID, cityID uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&location.District{}).
		Where("tenant_id = ? AND city_id = ?", tenantID, cityID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Save creates or updates a city
func (r *GormCityRepository) Save(ctx context.Context, city *location.City) error {
	return saveVersioned(ctx, r.db, city, city.TenantID, func() any { return city })
}

// DeleteForTenant deletes a city within a tenant
func (r *GormCityRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&location.City{}, "tenant_id = ? AND id = ?", tenantID, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewNotFoundError("City")
	}
	return nil
}

// GormDistrictRepository implements location.DistrictRepository using GORM
type GormDistrictRepository struct {
	db *gorm.DB
}

// NewGormDistrictRepository creates a new GormDistrictRepository
func NewGormDistrictRepository(db *gorm.DB) *GormDistrictRepository {
	return &GormDistrictRepository{db: db}
}

// FindByIDForTenant finds a district by ID within a tenant
func (r *GormDistrictRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*location.District, error) {
	var district location.District
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&district).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewNotFoundError("District")
		}
		return nil, err
	}
	return &district, nil
}

// FindByCity returns the districts of a city
func (r *GormDistrictRepository) FindByCity(ctx context.Context, tenantID, cityID uuid.UUID) ([]location.District, error) {
	var districts []location.District
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND city_id = ?", tenantID, cityID).
		Order("sort_order ASC, name ASC").
		Find(&districts).Error; err != nil {
		return nil, err
	}
	return districts, nil
}

// HasNeighborhoods reports whether any neighborhood references the district
func (r *GormDistrictRepository) HasNeighborhoods(ctx context.Context, tenantID, districtID uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&location.Neighborhood{}).
		Where("tenant_id = ? AND district_id = ?", tenantID, districtID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Save creates or updates a district
func (r *GormDistrictRepository) Save(ctx context.Context, district *location.District) error {
	return saveVersioned(ctx, r.db, district, district.TenantID, func() any { return district })
}

// DeleteForTenant deletes a district within a tenant
func (r *GormDistrictRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&location.District{}, "tenant_id = ? AND id = ?", tenantID, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewNotFoundError("District")
	}
	return nil
}

// GormNeighborhoodRepository implements location.NeighborhoodRepository using GORM
type GormNeighborhoodRepository struct {
	db *gorm.DB
}

// NewGormNeighborhoodRepository creates a new GormNeighborhoodRepository
func NewGormNeighborhoodRepository(db *gorm.DB) *GormNeighborhoodRepository {
	return &GormNeighborhoodRepository{db: db}
}

// FindByIDForTenant finds a neighborhood by ID within a tenant
func (r *GormNeighborhoodRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*location.Neighborhood, error) {
	var n location.Neighborhood
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&n).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewNotFoundError("Neighborhood")
		}
		return nil, err
	}
	return &n, nil
}

// FindByDistrict returns the neighborhoods of a district
func (r *GormNeighborhoodRepository) FindByDistrict(ctx context.Context, tenantID, districtID uuid.UUID) ([]location.Neighborhood, error) {
	var neighborhoods []location.Neighborhood
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND district_id = ?", tenantID, districtID).
		Order("sort_order ASC, name ASC").
		Find(&neighborhoods).Error; err != nil {
		return nil, err
	}
	return neighborhoods, nil
}

// Save creates or updates a neighborhood
func (r *GormNeighborhoodRepository) Save(ctx context.Context, n *location.Neighborhood) error {
	return saveVersioned(ctx, r.db, n, n.TenantID, func() any { return n })
}

// DeleteForTenant deletes a neighborhood within a tenant
func (r *GormNeighborhoodRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&location.Neighborhood{}, "tenant_id = ? AND id = ?", tenantID, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewNotFoundError("Neighborhood")
	}
	return nil
}

var (
	_ location.CityRepository         = (*GormCityRepository)(nil)
	_ location.DistrictRepository     = (*GormDistrictRepository)(nil)
	_ location.NeighborhoodRepository = (*GormNeighborhoodRepository)(nil)
)
