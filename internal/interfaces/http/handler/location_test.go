package handler

import (
	"net/http"
	"testing"

	locationapp "github.com/emlak/backend/internal/application/location"
	"github.com/emlak/backend/internal/domain/location"
	"github.com/emlak/backend/internal/domain/shared"
	"github.com/emlak/backend/internal/infrastructure/cache"
	"github.com/emlak/backend/internal/interfaces/http/dto"
	"github.com/emlak/backend/internal/testutil"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type locationHandlerFixture struct {
	engine        *gin.Engine
	tenantID      uuid.UUID
	cities        *testutil.MockCityRepository
	districts     *testutil.MockDistrictRepository
	neighborhoods *testutil.MockNeighborhoodRepository
	listings      *testutil.MockListingRepository
}

func newLocationHandlerFixture(t *testing.T) *locationHandlerFixture {
	t.Helper()
	f := &locationHandlerFixture{
		tenantID:      uuid.New(),
		cities:        new(testutil.MockCityRepository),
		districts:     new(testutil.MockDistrictRepository),
		neighborhoods: new(testutil.MockNeighborhoodRepository),
		listings:      new(testutil.MockListingRepository),
	}
	c := cache.NewInMemoryCache()
	t.Cleanup(func() { _ = c.Close() })

	svc := locationapp.NewLocationService(f.cities, f.districts, f.neighborhoods, f.listings, c, zap.NewNop())
	h := NewLocationHandler(svc)

	f.engine = newTestEngine(f.tenantID)
	f.engine.GET("/cities", h.ListCities)
	f.engine.GET("/districts", h.ListDistricts)
	f.engine.GET("/neighborhoods", h.ListNeighborhoods)
	admin := f.engine.Group("/admin")
	admin.POST("/cities", h.CreateCity)
	admin.DELETE("/cities/:id", h.DeleteCity)
	admin.DELETE("/districts/:id", h.DeleteDistrict)
	return f
}

func TestLocationHandler_ListCities(t *testing.T) {
	f := newLocationHandlerFixture(t)
	izmir, err := location.NewCity(f.tenantID, "İzmir", 35)
	require.NoError(t, err)
	f.cities.On("FindAllForTenant", mock.Anything, f.tenantID).Return([]location.City{*izmir}, nil)

	rec := doJSON(t, f.engine, http.MethodGet, "/cities", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	var got []locationapp.CityResponse
	resp := decode(t, rec, &got)
	assert.True(t, resp.Success)
	require.Len(t, got, 1)
	assert.Equal(t, "izmir", got[0].Slug)
	assert.Equal(t, 35, got[0].PlateCode)
}

func TestLocationHandler_ListDistricts(t *testing.T) {
	t.Run("city required", func(t *testing.T) {
		f := newLocationHandlerFixture(t)

		rec := doJSON(t, f.engine, http.MethodGet, "/districts", nil)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "cityId is required", decode(t, rec, nil).Error.Message)
		f.districts.AssertNotCalled(t, "FindByCity", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("malformed city", func(t *testing.T) {
		f := newLocationHandlerFixture(t)

		rec := doJSON(t, f.engine, http.MethodGet, "/districts?cityId=35", nil)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("districts of the city", func(t *testing.T) {
		f := newLocationHandlerFixture(t)
		cityID := uuid.New()
		karsiyaka, err := location.NewDistrict(f.tenantID, cityID, "Karşıyaka")
		require.NoError(t, err)
		f.districts.On("FindByCity", mock.Anything, f.tenantID, cityID).Return([]location.District{*karsiyaka}, nil)

		rec := doJSON(t, f.engine, http.MethodGet, "/districts?cityId="+cityID.String(), nil)

		require.Equal(t, http.StatusOK, rec.Code)
		var got []locationapp.DistrictResponse
		decode(t, rec, &got)
		require.Len(t, got, 1)
		assert.Equal(t, cityID, got[0].CityID)
		assert.Equal(t, "Karşıyaka", got[0].Name)
	})
}

func TestLocationHandler_ListNeighborhoods_Empty(t *testing.T) {
	f := newLocationHandlerFixture(t)
	districtID := uuid.New()
	f.neighborhoods.On("FindByDistrict", mock.Anything, f.tenantID, districtID).Return([]location.Neighborhood{}, nil)

	rec := doJSON(t, f.engine, http.MethodGet, "/neighborhoods?districtId="+districtID.String(), nil)

	require.Equal(t, http.StatusOK, rec.Code)
	var got []locationapp.NeighborhoodResponse
	decode(t, rec, &got)
	assert.Empty(t, got)
}

func TestLocationHandler_CreateCity(t *testing.T) {
	f := newLocationHandlerFixture(t)
	f.cities.On("ExistsBySlug", mock.Anything, f.tenantID, "ankara").Return(false, nil)
	f.cities.On("Save", mock.Anything, mock.AnythingOfType("*location.City")).Return(nil)

	rec := doJSON(t, f.engine, http.MethodPost, "/admin/cities", locationapp.CreateCityRequest{Name: "Ankara", PlateCode: 6})

	require.Equal(t, http.StatusCreated, rec.Code)
	var got locationapp.CityResponse
	decode(t, rec, &got)
	assert.Equal(t, "ankara", got.Slug)
	assert.NotEqual(t, uuid.Nil, got.ID)
}

func TestLocationHandler_CreateCity_Invalid(t *testing.T) {
	f := newLocationHandlerFixture(t)

	rec := doJSON(t, f.engine, http.MethodPost, "/admin/cities", map[string]any{"plate_code": 99})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decode(t, rec, nil)
	assert.Equal(t, dto.ErrCodeValidation, resp.Error.Code)
	fields := make([]string, 0, len(resp.Error.Details))
	for _, d := range resp.Error.Details {
		fields = append(fields, d.Field)
	}
	assert.ElementsMatch(t, []string{"name", "plate_code"}, fields)
}

func TestLocationHandler_DeleteCity(t *testing.T) {
	t.Run("no children", func(t *testing.T) {
		f := newLocationHandlerFixture(t)
		city, err := location.NewCity(f.tenantID, "Bursa", 16)
		require.NoError(t, err)
		f.cities.On("FindByIDForTenant", mock.Anything, f.tenantID, city.ID).Return(city, nil)
		f.cities.On("HasDistricts", mock.Anything, f.tenantID, city.ID).Return(false, nil)
		f.listings.On("CountByLocation", mock.Anything, f.tenantID, "city_id", city.ID).Return(int64(0), nil)
		f.cities.On("DeleteForTenant", mock.Anything, f.tenantID, city.ID).Return(nil)

		rec := doJSON(t, f.engine, http.MethodDelete, "/admin/cities/"+city.ID.String(), nil)

		assert.Equal(t, http.StatusNoContent, rec.Code)
		f.cities.AssertCalled(t, "DeleteForTenant", mock.Anything, f.tenantID, city.ID)
	})

	t.Run("has districts", func(t *testing.T) {
		f := newLocationHandlerFixture(t)
		city, err := location.NewCity(f.tenantID, "Bursa", 16)
		require.NoError(t, err)
		f.cities.On("FindByIDForTenant", mock.Anything, f.tenantID, city.ID).Return(city, nil)
		f.cities.On("HasDistricts", mock.Anything, f.tenantID, city.ID).Return(true, nil)

		rec := doJSON(t, f.engine, http.MethodDelete, "/admin/cities/"+city.ID.String(), nil)

		assert.Equal(t, http.StatusConflict, rec.Code)
		assert.Equal(t, dto.ErrCodeHasChildren, decode(t, rec, nil).Error.Code)
		f.cities.AssertNotCalled(t, "DeleteForTenant", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("unknown city", func(t *testing.T) {
		f := newLocationHandlerFixture(t)
		id := uuid.New()
		f.cities.On("FindByIDForTenant", mock.Anything, f.tenantID, id).Return(nil, shared.ErrNotFound)

		rec := doJSON(t, f.engine, http.MethodDelete, "/admin/cities/"+id.String(), nil)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestLocationHandler_DeleteDistrict_UsedByListings(t *testing.T) {
	f := newLocationHandlerFixture(t)
	district, err := location.NewDistrict(f.tenantID, uuid.New(), "Nilüfer")
	require.NoError(t, err)
	f.districts.On("FindByIDForTenant", mock.Anything, f.tenantID, district.ID).Return(district, nil)
	f.districts.On("HasNeighborhoods", mock.Anything, f.tenantID, district.ID).Return(false, nil)
	f.listings.On("CountByLocation", mock.Anything, f.tenantID, "district_id", district.ID).Return(int64(3), nil)

	rec := doJSON(t, f.engine, http.MethodDelete, "/admin/districts/"+district.ID.String(), nil)

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "District is still used by listings", decode(t, rec, nil).Error.Message)
}
