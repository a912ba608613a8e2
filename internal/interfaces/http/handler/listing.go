package handler

import (
	"net/http"
	"strconv"

	listingapp "github.com/emlak/backend/internal/application/listing"
	"github.com/emlak/backend/internal/domain/listing"
	"github.com/emlak/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
)

// ListingHandler serves the public listing pages
type ListingHandler struct {
	BaseHandler
	queryService    *listingapp.QueryService
	brochureService *listingapp.BrochureService
}

// NewListingHandler creates a new ListingHandler
func NewListingHandler(queryService *listingapp.QueryService, brochureService *listingapp.BrochureService) *ListingHandler {
	return &ListingHandler{
		queryService:    queryService,
		brochureService: brochureService,
	}
}

// filterState parses the filter query of the request, answering 400 when
// it is invalid.
func (h *ListingHandler) filterState(c *gin.Context) (listing.FilterState, bool) {
	fs, err := listing.ParseFilterState(c.Request.URL.Query())
	if err != nil {
		h.HandleError(c, err)
		return listing.FilterState{}, false
	}
	return fs, true
}

// Search godoc
// @ID           searchListings
// @Summary      Search listings
// @Description  Filtered, paginated search over published listings. Meta carries the canonical query of the applied filter.
// @Tags         listings
// @Produce      json
// @Param        X-Tenant-ID      header  string  false  "Tenant ID (default tenant when omitted)"
// @Param        status           query   string  false  "FOR_SALE or FOR_RENT"
// @Param        category         query   string  false  "Listing category"
// @Param        subPropertyType  query   string  false  "Sub property type"
// @Param        cityId           query   string  false  "City ID"  format(uuid)
// @Param        districtId       query   string  false  "District ID"  format(uuid)
// @Param        neighborhoodIds  query   string  false  "Comma separated neighborhood IDs"
// @Param        minPrice         query   number  false  "Minimum price"
// @Param        maxPrice         query   number  false  "Maximum price"
// @Param        minArea          query   number  false  "Minimum area"
// @Param        maxArea          query   number  false  "Maximum area"
// @Param        roomCount        query   string  false  "Comma separated room counts"
// @Param        buildingAge      query   string  false  "Building age bucket"
// @Param        heatingType      query   string  false  "Heating type"
// @Param        q                query   string  false  "Free text"
// @Param        isOpportunity    query   bool    false  "Opportunities only"
// @Param        sort             query   string  false  "price, area or createdAt"
// @Param        order            query   string  false  "asc or desc"
// @Param        page             query   int     false  "Page number"  default(1)
// @Param        pageSize         query   int     false  "Page size"    default(12)
// @Success      200  {object}  APIResponse[[]listingapp.ListingSummary]
// @Failure      400  {object}  ErrorResponse
// @Router       /listings [get]
func (h *ListingHandler) Search(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}

	params, err := listingapp.ParseSearchParams(c.Request.URL.Query())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	result, err := h.queryService.Search(c.Request.Context(), tenantID, params)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	meta := dto.NewMeta(result.Meta.Total, result.Meta.Page, result.Meta.PageSize)
	meta.Query = result.Meta.Query
	h.SuccessWithMeta(c, result.Items, meta)
}

// Opportunities godoc
// @ID           listOpportunities
// @Summary      Opportunity showcase
// @Description  Published opportunity listings narrowed by the filter query
// @Tags         listings
// @Produce      json
// @Param        X-Tenant-ID  header  string  false  "Tenant ID (default tenant when omitted)"
// @Success      200  {object}  APIResponse[listingapp.ShowcaseResult]
// @Failure      400  {object}  ErrorResponse
// @Router       /listings/opportunities [get]
func (h *ListingHandler) Opportunities(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	fs, ok := h.filterState(c)
	if !ok {
		return
	}

	result, err := h.queryService.Opportunities(c.Request.Context(), tenantID, fs)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// BranchShowcase godoc
// @ID           listBranchListings
// @Summary      Branch showcase
// @Description  Published listings of an active branch narrowed by the filter query
// @Tags         listings
// @Produce      json
// @Param        X-Tenant-ID  header  string  false  "Tenant ID (default tenant when omitted)"
// @Param        slug         path    string  true   "Branch slug"
// @Success      200  {object}  APIResponse[listingapp.ShowcaseResult]
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /branches/slug/{slug}/listings [get]
func (h *ListingHandler) BranchShowcase(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	fs, ok := h.filterState(c)
	if !ok {
		return
	}

	result, err := h.queryService.BranchShowcase(c.Request.Context(), tenantID, c.Param("slug"), fs)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// Map godoc
// @ID           listingMap
// @Summary      Listing map clusters
// @Description  Geohash clusters of the published listings matching the filter query
// @Tags         listings
// @Produce      json
// @Param        X-Tenant-ID  header  string  false  "Tenant ID (default tenant when omitted)"
// @Param        precision    query   int     false  "Geohash precision (clamped)"
// @Success      200  {object}  APIResponse[listingapp.MapResult]
// @Failure      400  {object}  ErrorResponse
// @Router       /listings/map [get]
func (h *ListingHandler) Map(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	fs, ok := h.filterState(c)
	if !ok {
		return
	}

	precision := 0
	if raw := c.Query(listingapp.ParamPrecision); raw != "" {
		p, err := strconv.Atoi(raw)
		if err != nil {
			h.Error(c, http.StatusBadRequest, dto.ErrCodeInvalidFilter, "precision must be an integer")
			return
		}
		precision = p
	}

	result, err := h.queryService.Map(c.Request.Context(), tenantID, fs, precision)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// GetByID godoc
// @ID           getListing
// @Summary      Get listing
// @Description  Published listing detail by ID
// @Tags         listings
// @Produce      json
// @Param        X-Tenant-ID  header  string  false  "Tenant ID (default tenant when omitted)"
// @Param        id           path    string  true   "Listing ID"  format(uuid)
// @Success      200  {object}  APIResponse[listingapp.ListingResponse]
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /listings/{id} [get]
func (h *ListingHandler) GetByID(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}

	result, err := h.queryService.GetPublic(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// GetBySlug godoc
// @ID           getListingBySlug
// @Summary      Get listing by slug
// @Tags         listings
// @Produce      json
// @Param        X-Tenant-ID  header  string  false  "Tenant ID (default tenant when omitted)"
// @Param        slug         path    string  true   "Listing slug"
// @Success      200  {object}  APIResponse[listingapp.ListingResponse]
// @Failure      404  {object}  ErrorResponse
// @Router       /listings/slug/{slug} [get]
func (h *ListingHandler) GetBySlug(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}

	result, err := h.queryService.GetPublicBySlug(c.Request.Context(), tenantID, c.Param("slug"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// Brochure godoc
// @ID           getListingBrochure
// @Summary      Listing brochure
// @Description  Printable brochure of a published listing as PDF, or as HTML with format=html
// @Tags         listings
// @Produce      application/pdf
// @Produce      html
// @Param        X-Tenant-ID  header  string  false  "Tenant ID (default tenant when omitted)"
// @Param        id           path    string  true   "Listing ID"  format(uuid)
// @Param        format       query   string  false  "pdf (default) or html"
// @Success      200
// @Failure      404  {object}  ErrorResponse
// @Failure      503  {object}  ErrorResponse
// @Router       /listings/{id}/brochure [get]
func (h *ListingHandler) Brochure(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	ctx := c.Request.Context()

	if c.Query("format") == "html" {
		data, err := h.brochureService.Data(ctx, tenantID, id)
		if err != nil {
			h.HandleError(c, err)
			return
		}
		html, err := h.brochureService.HTML(data)
		if err != nil {
			h.HandleError(c, err)
			return
		}
		c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(html))
		return
	}

	pdf, filename, err := h.brochureService.Render(ctx, tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.Header("Content-Disposition", `inline; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/pdf", pdf)
}
