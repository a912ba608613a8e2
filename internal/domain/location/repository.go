package location

import (
	"context"

	"github.com/google/uuid"
)

// CityRepository defines persistence for cities
type CityRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*City, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID) ([]City, error)
	ExistsBySlug(ctx context.Context, tenantID uuid.UUID, slug string) (bool, error)
	HasDistricts(ctx context.Context, tenantID, cityID uuid.UUID) (bool, error)
	Save(ctx context.Context, city *City) error
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error
}

// DistrictRepository defines persistence for districts
type DistrictRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*District, error)
	// FindByCity returns the districts of a city ordered by sort order and name
	FindByCity(ctx context.Context, tenantID, cityID uuid.UUID) ([]District, error)
	HasNeighborhoods(ctx context.Context, tenantID, districtID uuid.UUID) (bool, error)
	Save(ctx context.Context, district *District) error
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error
}

// NeighborhoodRepository defines persistence for neighborhoods
type NeighborhoodRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Neighborhood, error)
	FindByDistrict(ctx context.Context, tenantID, districtID uuid.UUID) ([]Neighborhood, error)
	Save(ctx context.Context, neighborhood *Neighborhood) error
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error
}
