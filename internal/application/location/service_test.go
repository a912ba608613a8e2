package location

import (
	"context"
	"testing"

	"github.com/emlak/backend/internal/domain/location"
	"github.com/emlak/backend/internal/domain/shared"
	"github.com/emlak/backend/internal/infrastructure/cache"
	"github.com/emlak/backend/internal/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type locationFixture struct {
	service       *LocationService
	cities        *testutil.MockCityRepository
	districts     *testutil.MockDistrictRepository
	neighborhoods *testutil.MockNeighborhoodRepository
	listings      *testutil.MockListingRepository
	cache         *cache.InMemoryCache
}

func newLocationFixture(t *testing.T) *locationFixture {
	t.Helper()
	f := &locationFixture{
		cities:        new(testutil.MockCityRepository),
		districts:     new(testutil.MockDistrictRepository),
		neighborhoods: new(testutil.MockNeighborhoodRepository),
		listings:      new(testutil.MockListingRepository),
		cache:         cache.NewInMemoryCache(),
	}
	t.Cleanup(func() { _ = f.cache.Close() })
	f.service = NewLocationService(f.cities, f.districts, f.neighborhoods, f.listings, f.cache, zap.NewNop())
	return f
}

func TestLocationService_ListCities_UsesCache(t *testing.T) {
	f := newLocationFixture(t)
	ctx := context.Background()
	tenantID := uuid.New()

	izmir, err := location.NewCity(tenantID, "İzmir", 35)
	require.NoError(t, err)
	f.cities.On("FindAllForTenant", ctx, tenantID).Return([]location.City{*izmir}, nil).Once()

	first, err := f.service.ListCities(ctx, tenantID)
	require.NoError(t, err)
	second, err := f.service.ListCities(ctx, tenantID)
	require.NoError(t, err)

	require.Len(t, first, 1)
	assert.Equal(t, "izmir", first[0].Slug)
	assert.Equal(t, first[0].ID, second[0].ID)
	f.cities.AssertNumberOfCalls(t, "FindAllForTenant", 1)
}

func TestLocationService_CreateCity_InvalidatesList(t *testing.T) {
	f := newLocationFixture(t)
	ctx := context.Background()
	tenantID := uuid.New()

	f.cities.On("FindAllForTenant", ctx, tenantID).Return([]location.City{}, nil).Twice()
	f.cities.On("ExistsBySlug", ctx, tenantID, "ankara").Return(false, nil)
	f.cities.On("Save", ctx, mock.AnythingOfType("*location.City")).Return(nil)

	_, err := f.service.ListCities(ctx, tenantID)
	require.NoError(t, err)

	created, err := f.service.CreateCity(ctx, tenantID, CreateCityRequest{Name: "Ankara", PlateCode: 6})
	require.NoError(t, err)
	assert.Equal(t, "ankara", created.Slug)
	assert.Equal(t, 6, created.PlateCode)

	_, err = f.service.ListCities(ctx, tenantID)
	require.NoError(t, err)
	f.cities.AssertNumberOfCalls(t, "FindAllForTenant", 2)
}

func TestLocationService_CreateCity_Duplicate(t *testing.T) {
	f := newLocationFixture(t)
	ctx := context.Background()
	tenantID := uuid.New()

	f.cities.On("ExistsBySlug", ctx, tenantID, "istanbul").Return(true, nil)

	_, err := f.service.CreateCity(ctx, tenantID, CreateCityRequest{Name: "İstanbul", PlateCode: 34})
	require.Error(t, err)
	assert.ErrorIs(t, err, shared.ErrAlreadyExists)
	f.cities.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestLocationService_DeleteCity(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()

	t.Run("rejects a city that still has districts", func(t *testing.T) {
		f := newLocationFixture(t)
		city, _ := location.NewCity(tenantID, "Bursa", 16)
		f.cities.On("FindByIDForTenant", ctx, tenantID, city.ID).Return(city, nil)
		f.cities.On("HasDistricts", ctx, tenantID, city.ID).Return(true, nil)

		err := f.service.DeleteCity(ctx, tenantID, city.ID)
		assert.ErrorIs(t, err, shared.ErrHasChildren)
		f.cities.AssertNotCalled(t, "DeleteForTenant", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("rejects a city used by listings", func(t *testing.T) {
		f := newLocationFixture(t)
		city, _ := location.NewCity(tenantID, "Bursa", 16)
		f.cities.On("FindByIDForTenant", ctx, tenantID, city.ID).Return(city, nil)
		f.cities.On("HasDistricts", ctx, tenantID, city.ID).Return(false, nil)
		f.listings.On("CountByLocation", ctx, tenantID, "city_id", city.ID).Return(int64(3), nil)

		err := f.service.DeleteCity(ctx, tenantID, city.ID)
		assert.ErrorIs(t, err, shared.ErrHasChildren)
	})

	t.Run("deletes an empty city", func(t *testing.T) {
		f := newLocationFixture(t)
		city, _ := location.NewCity(tenantID, "Bursa", 16)
		f.cities.On("FindByIDForTenant", ctx, tenantID, city.ID).Return(city, nil)
		f.cities.On("HasDistricts", ctx, tenantID, city.ID).Return(false, nil)
		f.listings.On("CountByLocation", ctx, tenantID, "city_id", city.ID).Return(int64(0), nil)
		f.cities.On("DeleteForTenant", ctx, tenantID, city.ID).Return(nil)

		require.NoError(t, f.service.DeleteCity(ctx, tenantID, city.ID))
		f.cities.AssertExpectations(t)
	})

	t.Run("missing city", func(t *testing.T) {
		f := newLocationFixture(t)
		id := uuid.New()
		f.cities.On("FindByIDForTenant", ctx, tenantID, id).Return(nil, shared.NewNotFoundError("City"))

		err := f.service.DeleteCity(ctx, tenantID, id)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestLocationService_CreateDistrict(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()

	t.Run("unknown city", func(t *testing.T) {
		f := newLocationFixture(t)
		cityID := uuid.New()
		f.cities.On("FindByIDForTenant", ctx, tenantID, cityID).Return(nil, shared.NewNotFoundError("City"))

		_, err := f.service.CreateDistrict(ctx, tenantID, CreateDistrictRequest{CityID: cityID, Name: "Kadıköy"})
		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_CITY", domainErr.Code)
	})

	t.Run("invalidates the district list of its city", func(t *testing.T) {
		f := newLocationFixture(t)
		city, _ := location.NewCity(tenantID, "İstanbul", 34)
		f.cities.On("FindByIDForTenant", ctx, tenantID, city.ID).Return(city, nil)
		f.districts.On("FindByCity", ctx, tenantID, city.ID).Return([]location.District{}, nil).Twice()
		f.districts.On("Save", ctx, mock.AnythingOfType("*location.District")).Return(nil)

		_, err := f.service.ListDistricts(ctx, tenantID, city.ID)
		require.NoError(t, err)

		sortOrder := 2
		created, err := f.service.CreateDistrict(ctx, tenantID, CreateDistrictRequest{CityID: city.ID, Name: "Kadıköy", SortOrder: &sortOrder})
		require.NoError(t, err)
		assert.Equal(t, "kadikoy", created.Slug)
		assert.Equal(t, 2, created.SortOrder)

		_, err = f.service.ListDistricts(ctx, tenantID, city.ID)
		require.NoError(t, err)
		f.districts.AssertNumberOfCalls(t, "FindByCity", 2)
	})
}

func TestLocationService_DeleteDistrict_HasNeighborhoods(t *testing.T) {
	f := newLocationFixture(t)
	ctx := context.Background()
	tenantID := uuid.New()

	district, _ := location.NewDistrict(tenantID, uuid.New(), "Çankaya")
	f.districts.On("FindByIDForTenant", ctx, tenantID, district.ID).Return(district, nil)
	f.districts.On("HasNeighborhoods", ctx, tenantID, district.ID).Return(true, nil)

	err := f.service.DeleteDistrict(ctx, tenantID, district.ID)
	assert.ErrorIs(t, err, shared.ErrHasChildren)
}

func TestLocationService_Neighborhoods(t *testing.T) {
	f := newLocationFixture(t)
	ctx := context.Background()
	tenantID := uuid.New()
	districtID := uuid.New()

	moda, _ := location.NewNeighborhood(tenantID, districtID, "Moda")
	f.neighborhoods.On("FindByDistrict", ctx, tenantID, districtID).Return([]location.Neighborhood{*moda}, nil).Once()

	list, err := f.service.ListNeighborhoods(ctx, tenantID, districtID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Moda", list[0].Name)

	f.neighborhoods.On("FindByIDForTenant", ctx, tenantID, moda.ID).Return(moda, nil)
	f.listings.On("CountByLocation", ctx, tenantID, "neighborhood_id", moda.ID).Return(int64(0), nil)
	f.neighborhoods.On("DeleteForTenant", ctx, tenantID, moda.ID).Return(nil)
	f.neighborhoods.On("FindByDistrict", ctx, tenantID, districtID).Return([]location.Neighborhood{}, nil).Once()

	require.NoError(t, f.service.DeleteNeighborhood(ctx, tenantID, moda.ID))

	list, err = f.service.ListNeighborhoods(ctx, tenantID, districtID)
	require.NoError(t, err)
	assert.Empty(t, list)
}
