package handler

import (
	locationapp "github.com/emlak/backend/internal/application/location"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// LocationHandler serves the city, district and neighborhood endpoints
type LocationHandler struct {
	BaseHandler
	locationService *locationapp.LocationService
}

// NewLocationHandler creates a new LocationHandler
func NewLocationHandler(locationService *locationapp.LocationService) *LocationHandler {
	return &LocationHandler{locationService: locationService}
}

// requiredQuery parses a mandatory UUID query parameter
func (h *LocationHandler) requiredQuery(c *gin.Context, name string) (uuid.UUID, bool) {
	id, ok := h.uuidQuery(c, name)
	if !ok {
		return uuid.Nil, false
	}
	if id == nil {
		h.BadRequest(c, name+" is required")
		return uuid.Nil, false
	}
	return *id, true
}

// ListCities godoc
// @ID           listCities
// @Summary      List cities
// @Tags         locations
// @Produce      json
// @Param        X-Tenant-ID  header  string  false  "Tenant ID (default tenant when omitted)"
// @Success      200  {object}  APIResponse[[]locationapp.CityResponse]
// @Router       /cities [get]
func (h *LocationHandler) ListCities(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}

	cities, err := h.locationService.ListCities(c.Request.Context(), tenantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, cities)
}

// ListDistricts godoc
// @ID           listDistricts
// @Summary      List districts of a city
// @Tags         locations
// @Produce      json
// @Param        X-Tenant-ID  header  string  false  "Tenant ID (default tenant when omitted)"
// @Param        cityId       query   string  true   "City ID"  format(uuid)
// @Success      200  {object}  APIResponse[[]locationapp.DistrictResponse]
// @Failure      400  {object}  ErrorResponse
// @Router       /districts [get]
func (h *LocationHandler) ListDistricts(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	cityID, ok := h.requiredQuery(c, "cityId")
	if !ok {
		return
	}

	districts, err := h.locationService.ListDistricts(c.Request.Context(), tenantID, cityID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, districts)
}

// ListNeighborhoods godoc
// @ID           listNeighborhoods
// @Summary      List neighborhoods of a district
// @Tags         locations
// @Produce      json
// @Param        X-Tenant-ID  header  string  false  "Tenant ID (default tenant when omitted)"
// @Param        districtId   query   string  true   "District ID"  format(uuid)
// @Success      200  {object}  APIResponse[[]locationapp.NeighborhoodResponse]
// @Failure      400  {object}  ErrorResponse
// @Router       /neighborhoods [get]
func (h *LocationHandler) ListNeighborhoods(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	districtID, ok := h.requiredQuery(c, "districtId")
	if !ok {
		return
	}

	neighborhoods, err := h.locationService.ListNeighborhoods(c.Request.Context(), tenantID, districtID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, neighborhoods)
}

// GetCity godoc
// @ID           adminGetCity
// @Summary      Get city
// @Tags         admin-locations
// @Produce      json
// @Param        id   path      string  true  "City ID"  format(uuid)
// @Success      200  {object}  APIResponse[locationapp.CityResponse]
// @Failure      404  {object}  ErrorResponse
// @Security     BearerAuth
// @Router       /admin/cities/{id} [get]
func (h *LocationHandler) GetCity(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}

	city, err := h.locationService.GetCity(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, city)
}

// CreateCity godoc
// @ID           createCity
// @Summary      Create city
// @Tags         admin-locations
// @Accept       json
// @Produce      json
// @Param        request  body      locationapp.CreateCityRequest  true  "City"
// @Success      201      {object}  APIResponse[locationapp.CityResponse]
// @Failure      400      {object}  ErrorResponse
// @Failure      409      {object}  ErrorResponse
// @Security     BearerAuth
// @Router       /admin/cities [post]
func (h *LocationHandler) CreateCity(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}

	var req locationapp.CreateCityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	city, err := h.locationService.CreateCity(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, city)
}

// UpdateCity godoc
// @ID           updateCity
// @Summary      Update city
// @Tags         admin-locations
// @Accept       json
// @Produce      json
// @Param        id       path      string                         true  "City ID"  format(uuid)
// @Param        request  body      locationapp.UpdateCityRequest  true  "Fields to change"
// @Success      200      {object}  APIResponse[locationapp.CityResponse]
// @Failure      400      {object}  ErrorResponse
// @Failure      404      {object}  ErrorResponse
// @Security     BearerAuth
// @Router       /admin/cities/{id} [patch]
func (h *LocationHandler) UpdateCity(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}

	var req locationapp.UpdateCityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	city, err := h.locationService.UpdateCity(c.Request.Context(), tenantID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, city)
}

// DeleteCity godoc
// @ID           deleteCity
// @Summary      Delete city
// @Description  Rejected with 409 while the city still has districts or listings
// @Tags         admin-locations
// @Param        id   path  string  true  "City ID"  format(uuid)
// @Success      204
// @Failure      404  {object}  ErrorResponse
// @Failure      409  {object}  ErrorResponse
// @Security     BearerAuth
// @Router       /admin/cities/{id} [delete]
func (h *LocationHandler) DeleteCity(c *gin.Context) {
	h.remove(c, h.locationService.DeleteCity)
}

// CreateDistrict godoc
// @ID           createDistrict
// @Summary      Create district
// @Tags         admin-locations
// @Accept       json
// @Produce      json
// @Param        request  body      locationapp.CreateDistrictRequest  true  "District"
// @Success      201      {object}  APIResponse[locationapp.DistrictResponse]
// @Failure      400      {object}  ErrorResponse
// @Failure      404      {object}  ErrorResponse
// @Security     BearerAuth
// @Router       /admin/districts [post]
func (h *LocationHandler) CreateDistrict(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}

	var req locationapp.CreateDistrictRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	district, err := h.locationService.CreateDistrict(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, district)
}

// UpdateDistrict godoc
// @ID           updateDistrict
// @Summary      Update district
// @Tags         admin-locations
// @Accept       json
// @Produce      json
// @Param        id       path      string                             true  "District ID"  format(uuid)
// @Param        request  body      locationapp.UpdateDistrictRequest  true  "Fields to change"
// @Success      200      {object}  APIResponse[locationapp.DistrictResponse]
// @Failure      400      {object}  ErrorResponse
// @Failure      404      {object}  ErrorResponse
// @Security     BearerAuth
// @Router       /admin/districts/{id} [patch]
func (h *LocationHandler) UpdateDistrict(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}

	var req locationapp.UpdateDistrictRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	district, err := h.locationService.UpdateDistrict(c.Request.Context(), tenantID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, district)
}

// DeleteDistrict godoc
// @ID           deleteDistrict
// @Summary      Delete district
// @Tags         admin-locations
// @Param        id   path  string  true  "District ID"  format(uuid)
// @Success      204
// @Failure      404  {object}  ErrorResponse
// @Failure      409  {object}  ErrorResponse
// @Security     BearerAuth
// @Router       /admin/districts/{id} [delete]
func (h *LocationHandler) DeleteDistrict(c *gin.Context) {
	h.remove(c, h.locationService.DeleteDistrict)
}

// CreateNeighborhood godoc
// @ID           createNeighborhood
// @Summary      Create neighborhood
// @Tags         admin-locations
// @Accept       json
// @Produce      json
// @Param        request  body      locationapp.CreateNeighborhoodRequest  true  "Neighborhood"
// @Success      201      {object}  APIResponse[locationapp.NeighborhoodResponse]
// @Failure      400      {object}  ErrorResponse
// @Failure      404      {object}  ErrorResponse
// @Security     BearerAuth
// @Router       /admin/neighborhoods [post]
func (h *LocationHandler) CreateNeighborhood(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}

	var req locationapp.CreateNeighborhoodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	n, err := h.locationService.CreateNeighborhood(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, n)
}

// UpdateNeighborhood godoc
// @ID           updateNeighborhood
// @Summary      Update neighborhood
// @Tags         admin-locations
// @Accept       json
// @Produce      json
// @Param        id       path      string                                 true  "Neighborhood ID"  format(uuid)
// @Param        request  body      locationapp.UpdateNeighborhoodRequest  true  "Fields to change"
// @Success      200      {object}  APIResponse[locationapp.NeighborhoodResponse]
// @Failure      400      {object}  ErrorResponse
// @Failure      404      {object}  ErrorResponse
// @Security     BearerAuth
// @Router       /admin/neighborhoods/{id} [patch]
func (h *LocationHandler) UpdateNeighborhood(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}

	var req locationapp.UpdateNeighborhoodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	n, err := h.locationService.UpdateNeighborhood(c.Request.Context(), tenantID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, n)
}

// DeleteNeighborhood godoc
// @ID           deleteNeighborhood
// @Summary      Delete neighborhood
// @Tags         admin-locations
// @Param        id   path  string  true  "Neighborhood ID"  format(uuid)
// @Success      204
// @Failure      404  {object}  ErrorResponse
// @Failure      409  {object}  ErrorResponse
// @Security     BearerAuth
// @Router       /admin/neighborhoods/{id} [delete]
func (h *LocationHandler) DeleteNeighborhood(c *gin.Context) {
	h.remove(c, h.locationService.DeleteNeighborhood)
}
