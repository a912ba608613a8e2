package location

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/emlak/backend/internal/domain/listing"
	"github.com/emlak/backend/internal/domain/location"
	"github.com/emlak/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultCacheTTL is how long reference lists stay cached between admin writes
const DefaultCacheTTL = time.Hour

// LocationService serves the city/district/neighborhood hierarchy.
// Public lists are read through the cache; every admin write invalidates
// the list it touched.
type LocationService struct {
	cityRepo         location.CityRepository
	districtRepo     location.DistrictRepository
	neighborhoodRepo location.NeighborhoodRepository
	listingRepo      listing.ListingRepository
	cache            shared.Cache
	ttl              time.Duration
	logger           *zap.Logger
}

// NewLocationService creates a new LocationService
func NewLocationService(
	cityRepo location.CityRepository,
	districtRepo location.DistrictRepository,
	neighborhoodRepo location.NeighborhoodRepository,
	listingRepo listing.ListingRepository,
	cache shared.Cache,
	logger *zap.Logger,
) *LocationService {
	return &LocationService{
		cityRepo:         cityRepo,
		districtRepo:     districtRepo,
		neighborhoodRepo: neighborhoodRepo,
		listingRepo:      listingRepo,
		cache:            cache,
		ttl:              DefaultCacheTTL,
		logger:           logger,
	}
}

// WithCacheTTL overrides the reference list TTL
func (s *LocationService) WithCacheTTL(ttl time.Duration) *LocationService {
	s.ttl = ttl
	return s
}

func citiesKey(tenantID uuid.UUID) string {
	return fmt.Sprintf("cities:%s", tenantID)
}

func districtsKey(tenantID, cityID uuid.UUID) string {
	return fmt.Sprintf("districts:%s:%s", tenantID, cityID)
}

func neighborhoodsKey(tenantID, districtID uuid.UUID) string {
	return fmt.Sprintf("neighborhoods:%s:%s", tenantID, districtID)
}

// cachedList reads key from the cache and falls back to load on a miss.
// Cache failures are logged and never fail the request.
func cachedList[T any](ctx context.Context, s *LocationService, key string, load func() ([]T, error)) ([]T, error) {
	var items []T
	hit, err := s.cache.Get(ctx, key, &items)
	if err != nil {
		s.logger.Warn("Reference cache read failed", zap.String("key", key), zap.Error(err))
	} else if hit {
		return items, nil
	}

	items, err = load()
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(ctx, key, items, s.ttl); err != nil {
		s.logger.Warn("Reference cache write failed", zap.String("key", key), zap.Error(err))
	}
	return items, nil
}

func (s *LocationService) invalidate(ctx context.Context, keys ...string) {
	if err := s.cache.Delete(ctx, keys...); err != nil {
		s.logger.Warn("Reference cache invalidation failed", zap.Strings("keys", keys), zap.Error(err))
	}
}

// ListCities returns all cities of the tenant in display order
func (s *LocationService) ListCities(ctx context.Context, tenantID uuid.UUID) ([]CityResponse, error) {
	return cachedList(ctx, s, citiesKey(tenantID), func() ([]CityResponse, error) {
		cities, err := s.cityRepo.FindAllForTenant(ctx, tenantID)
		if err != nil {
			return nil, err
		}
		responses := make([]CityResponse, len(cities))
		for i := range cities {
			responses[i] = ToCityResponse(&cities[i])
		}
		return responses, nil
	})
}

// ListDistricts returns the districts of a city
func (s *LocationService) ListDistricts(ctx context.Context, tenantID, cityID uuid.UUID) ([]DistrictResponse, error) {
	return cachedList(ctx, s, districtsKey(tenantID, cityID), func() ([]DistrictResponse, error) {
		districts, err := s.districtRepo.FindByCity(ctx, tenantID, cityID)
		if err != nil {
			return nil, err
		}
		responses := make([]DistrictResponse, len(districts))
		for i := range districts {
			responses[i] = ToDistrictResponse(&districts[i])
		}
		return responses, nil
	})
}

// ListNeighborhoods returns the neighborhoods of a district
func (s *LocationService) ListNeighborhoods(ctx context.Context, tenantID, districtID uuid.UUID) ([]NeighborhoodResponse, error) {
	return cachedList(ctx, s, neighborhoodsKey(tenantID, districtID), func() ([]NeighborhoodResponse, error) {
		neighborhoods, err := s.neighborhoodRepo.FindByDistrict(ctx, tenantID, districtID)
		if err != nil {
			return nil, err
		}
		responses := make([]NeighborhoodResponse, len(neighborhoods))
		for i := range neighborhoods {
			responses[i] = ToNeighborhoodResponse(&neighborhoods[i])
		}
		return responses, nil
	})
}

// GetCity retrieves a city by ID
func (s *LocationService) GetCity(ctx context.Context, tenantID, id uuid.UUID) (*CityResponse, error) {
	city, err := s.cityRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	resp := ToCityResponse(city)
	return &resp, nil
}

// CreateCity creates a new city
func (s *LocationService) CreateCity(ctx context.Context, tenantID uuid.UUID, req CreateCityRequest) (*CityResponse, error) {
	city, err := location.NewCity(tenantID, req.Name, req.PlateCode)
	if err != nil {
		return nil, err
	}

	exists, err := s.cityRepo.ExistsBySlug(ctx, tenantID, city.Slug)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "City with this name already exists")
	}

	if req.SortOrder != nil {
		city.SetSortOrder(*req.SortOrder)
	}

	if err := s.cityRepo.Save(ctx, city); err != nil {
		return nil, err
	}
	s.invalidate(ctx, citiesKey(tenantID))

	resp := ToCityResponse(city)
	return &resp, nil
}

// UpdateCity applies a partial update to a city
func (s *LocationService) UpdateCity(ctx context.Context, tenantID, id uuid.UUID, req UpdateCityRequest) (*CityResponse, error) {
	city, err := s.cityRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil && *req.Name != city.Name {
		if err := city.Rename(*req.Name); err != nil {
			return nil, err
		}
		exists, err := s.cityRepo.ExistsBySlug(ctx, tenantID, city.Slug)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, shared.NewDomainError("ALREADY_EXISTS", "City with this name already exists")
		}
	}
	if req.SortOrder != nil {
		city.SetSortOrder(*req.SortOrder)
	}

	if err := s.cityRepo.Save(ctx, city); err != nil {
		return nil, err
	}
	s.invalidate(ctx, citiesKey(tenantID))

	resp := ToCityResponse(city)
	return &resp, nil
}

// DeleteCity removes a city that has no districts and no listings
func (s *LocationService) DeleteCity(ctx context.Context, tenantID, id uuid.UUID) error {
	if _, err := s.cityRepo.FindByIDForTenant(ctx, tenantID, id); err != nil {
		return err
	}

	hasDistricts, err := s.cityRepo.HasDistricts(ctx, tenantID, id)
	if err != nil {
		return err
	}
	if hasDistricts {
		return shared.NewDomainError("HAS_CHILDREN", "City still has districts")
	}
	if err := s.ensureNoListings(ctx, tenantID, "city_id", id, "City"); err != nil {
		return err
	}

	if err := s.cityRepo.DeleteForTenant(ctx, tenantID, id); err != nil {
		return err
	}
	s.invalidate(ctx, citiesKey(tenantID), districtsKey(tenantID, id))
	return nil
}

// CreateDistrict creates a district under an existing city
func (s *LocationService) CreateDistrict(ctx context.Context, tenantID uuid.UUID, req CreateDistrictRequest) (*DistrictResponse, error) {
	if _, err := s.cityRepo.FindByIDForTenant(ctx, tenantID, req.CityID); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("INVALID_CITY", "City not found")
		}
		return nil, err
	}

	district, err := location.NewDistrict(tenantID, req.CityID, req.Name)
	if err != nil {
		return nil, err
	}
	if req.SortOrder != nil {
		district.SortOrder = *req.SortOrder
	}

	if err := s.districtRepo.Save(ctx, district); err != nil {
		return nil, err
	}
	s.invalidate(ctx, districtsKey(tenantID, district.CityID))

	resp := ToDistrictResponse(district)
	return &resp, nil
}

// UpdateDistrict applies a partial update to a district
func (s *LocationService) UpdateDistrict(ctx context.Context, tenantID, id uuid.UUID, req UpdateDistrictRequest) (*DistrictResponse, error) {
	district, err := s.districtRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		if err := district.Rename(*req.Name); err != nil {
			return nil, err
		}
	}
	if req.SortOrder != nil {
		district.SortOrder = *req.SortOrder
	}

	if err := s.districtRepo.Save(ctx, district); err != nil {
		return nil, err
	}
	s.invalidate(ctx, districtsKey(tenantID, district.CityID))

	resp := ToDistrictResponse(district)
	return &resp, nil
}

// DeleteDistrict removes a district that has no neighborhoods and no listings
func (s *LocationService) DeleteDistrict(ctx context.Context, tenantID, id uuid.UUID) error {
	district, err := s.districtRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return err
	}

	hasNeighborhoods, err := s.districtRepo.HasNeighborhoods(ctx, tenantID, id)
	if err != nil {
		return err
	}
	if hasNeighborhoods {
		return shared.NewDomainError("HAS_CHILDREN", "District still has neighborhoods")
	}
	if err := s.ensureNoListings(ctx, tenantID, "district_id", id, "District"); err != nil {
		return err
	}

	if err := s.districtRepo.DeleteForTenant(ctx, tenantID, id); err != nil {
		return err
	}
	s.invalidate(ctx, districtsKey(tenantID, district.CityID), neighborhoodsKey(tenantID, id))
	return nil
}

// CreateNeighborhood creates a neighborhood under an existing district
func (s *LocationService) CreateNeighborhood(ctx context.Context, tenantID uuid.UUID, req CreateNeighborhoodRequest) (*NeighborhoodResponse, error) {
	if _, err := s.districtRepo.FindByIDForTenant(ctx, tenantID, req.DistrictID); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("INVALID_DISTRICT", "District not found")
		}
		return nil, err
	}

	neighborhood, err := location.NewNeighborhood(tenantID, req.DistrictID, req.Name)
	if err != nil {
		return nil, err
	}
	if req.SortOrder != nil {
		neighborhood.SortOrder = *req.SortOrder
	}

	if err := s.neighborhoodRepo.Save(ctx, neighborhood); err != nil {
		return nil, err
	}
	s.invalidate(ctx, neighborhoodsKey(tenantID, neighborhood.DistrictID))

	resp := ToNeighborhoodResponse(neighborhood)
	return &resp, nil
}

// UpdateNeighborhood applies a partial update to a neighborhood
func (s *LocationService) UpdateNeighborhood(ctx context.Context, tenantID, id uuid.UUID, req UpdateNeighborhoodRequest) (*NeighborhoodResponse, error) {
	neighborhood, err := s.neighborhoodRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		if err := neighborhood.Rename(*req.Name); err != nil {
			return nil, err
		}
	}
	if req.SortOrder != nil {
		neighborhood.SortOrder = *req.SortOrder
	}

	if err := s.neighborhoodRepo.Save(ctx, neighborhood); err != nil {
		return nil, err
	}
	s.invalidate(ctx, neighborhoodsKey(tenantID, neighborhood.DistrictID))

	resp := ToNeighborhoodResponse(neighborhood)
	return &resp, nil
}

// DeleteNeighborhood removes a neighborhood no listing points at
func (s *LocationService) DeleteNeighborhood(ctx context.Context, tenantID, id uuid.UUID) error {
	neighborhood, err := s.neighborhoodRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return err
	}
	if err := s.ensureNoListings(ctx, tenantID, "neighborhood_id", id, "Neighborhood"); err != nil {
		return err
	}

	if err := s.neighborhoodRepo.DeleteForTenant(ctx, tenantID, id); err != nil {
		return err
	}
	s.invalidate(ctx, neighborhoodsKey(tenantID, neighborhood.DistrictID))
	return nil
}

func (s *LocationService) ensureNoListings(ctx context.Context, tenantID uuid.UUID, column string, id uuid.UUID, resource string) error {
	count, err := s.listingRepo.CountByLocation(ctx, tenantID, column, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return shared.NewDomainError("HAS_CHILDREN", resource+" is still used by listings")
	}
	return nil
}
