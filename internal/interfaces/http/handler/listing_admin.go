package handler

import (
	"context"

	listingapp "github.com/emlak/backend/internal/application/listing"
	"github.com/emlak/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ListingAdminHandler serves the back office listing endpoints
type ListingAdminHandler struct {
	BaseHandler
	listingService *listingapp.ListingService
}

// NewListingAdminHandler creates a new ListingAdminHandler
func NewListingAdminHandler(listingService *listingapp.ListingService) *ListingAdminHandler {
	return &ListingAdminHandler{listingService: listingService}
}

// List godoc
// @ID           adminListListings
// @Summary      List listings
// @Description  Listings of the tenant in every state
// @Tags         admin-listings
// @Produce      json
// @Param        search         query  string  false  "Title or listing number"
// @Param        state          query  string  false  "DRAFT, PUBLISHED or ARCHIVED"
// @Param        branch_id      query  string  false  "Branch ID"      format(uuid)
// @Param        consultant_id  query  string  false  "Consultant ID"  format(uuid)
// @Param        page           query  int     false  "Page number"    default(1)
// @Param        page_size      query  int     false  "Page size"      default(20)
// @Param        order_by       query  string  false  "Sort column"
// @Param        order_dir      query  string  false  "asc or desc"
// @Success      200  {object}  APIResponse[[]listingapp.ListingSummary]
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse
// @Security     BearerAuth
// @Router       /admin/listings [get]
func (h *ListingAdminHandler) List(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}

	var filter listingapp.AdminListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindError(c, err)
		return
	}

	items, total, err := h.listingService.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	page, pageSize := pageOf(filter.Page, filter.PageSize)
	h.SuccessWithMeta(c, items, dto.NewMeta(total, page, pageSize))
}

// GetByID godoc
// @ID           adminGetListing
// @Summary      Get listing
// @Tags         admin-listings
// @Produce      json
// @Param        id   path      string  true  "Listing ID"  format(uuid)
// @Success      200  {object}  APIResponse[listingapp.ListingResponse]
// @Failure      404  {object}  ErrorResponse
// @Security     BearerAuth
// @Router       /admin/listings/{id} [get]
func (h *ListingAdminHandler) GetByID(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}

	result, err := h.listingService.GetByID(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// Create godoc
// @ID           createListing
// @Summary      Create listing
// @Description  Creates a draft listing. Attributes are validated against the category's attribute definitions.
// @Tags         admin-listings
// @Accept       json
// @Produce      json
// @Param        request  body      listingapp.CreateListingRequest  true  "Listing"
// @Success      201      {object}  APIResponse[listingapp.ListingResponse]
// @Failure      400      {object}  ErrorResponse
// @Failure      401      {object}  ErrorResponse
// @Security     BearerAuth
// @Router       /admin/listings [post]
func (h *ListingAdminHandler) Create(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}

	var req listingapp.CreateListingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	result, err := h.listingService.Create(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, result)
}

// Update godoc
// @ID           updateListing
// @Summary      Update listing
// @Tags         admin-listings
// @Accept       json
// @Produce      json
// @Param        id       path      string                           true  "Listing ID"  format(uuid)
// @Param        request  body      listingapp.UpdateListingRequest  true  "Fields to change"
// @Success      200      {object}  APIResponse[listingapp.ListingResponse]
// @Failure      400      {object}  ErrorResponse
// @Failure      404      {object}  ErrorResponse
// @Failure      409      {object}  ErrorResponse
// @Security     BearerAuth
// @Router       /admin/listings/{id} [patch]
func (h *ListingAdminHandler) Update(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}

	var req listingapp.UpdateListingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	result, err := h.listingService.Update(c.Request.Context(), tenantID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// Delete godoc
// @ID           deleteListing
// @Summary      Delete listing
// @Tags         admin-listings
// @Param        id   path  string  true  "Listing ID"  format(uuid)
// @Success      204
// @Failure      404  {object}  ErrorResponse
// @Security     BearerAuth
// @Router       /admin/listings/{id} [delete]
func (h *ListingAdminHandler) Delete(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}

	if err := h.listingService.Delete(c.Request.Context(), tenantID, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Publish godoc
// @ID           publishListing
// @Summary      Publish listing
// @Tags         admin-listings
// @Produce      json
// @Param        id   path      string  true  "Listing ID"  format(uuid)
// @Success      200  {object}  APIResponse[listingapp.ListingResponse]
// @Failure      404  {object}  ErrorResponse
// @Failure      422  {object}  ErrorResponse
// @Security     BearerAuth
// @Router       /admin/listings/{id}/publish [post]
func (h *ListingAdminHandler) Publish(c *gin.Context) {
	h.transition(c, h.listingService.Publish)
}

// Archive godoc
// @ID           archiveListing
// @Summary      Archive listing
// @Tags         admin-listings
// @Produce      json
// @Param        id   path      string  true  "Listing ID"  format(uuid)
// @Success      200  {object}  APIResponse[listingapp.ListingResponse]
// @Failure      404  {object}  ErrorResponse
// @Failure      422  {object}  ErrorResponse
// @Security     BearerAuth
// @Router       /admin/listings/{id}/archive [post]
func (h *ListingAdminHandler) Archive(c *gin.Context) {
	h.transition(c, h.listingService.Archive)
}

func (h *ListingAdminHandler) transition(c *gin.Context, apply func(ctx context.Context, tenantID, id uuid.UUID) (*listingapp.ListingResponse, error)) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}

	result, err := apply(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// AddImage godoc
// @ID           addListingImage
// @Summary      Upload listing image
// @Description  Stores a JPEG, PNG or WebP image and appends it to the listing
// @Tags         admin-listings
// @Accept       multipart/form-data
// @Produce      json
// @Param        id    path      string  true  "Listing ID"  format(uuid)
// @Param        file  formData  file    true  "Image"
// @Success      201   {object}  APIResponse[listingapp.ListingResponse]
// @Failure      400   {object}  ErrorResponse
// @Failure      413   {object}  ErrorResponse
// @Security     BearerAuth
// @Router       /admin/listings/{id}/images [post]
func (h *ListingAdminHandler) AddImage(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	upload, ok := h.upload(c)
	if !ok {
		return
	}

	result, err := h.listingService.AddImage(c.Request.Context(), tenantID, id, upload)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, result)
}

// RemoveImage godoc
// @ID           removeListingImage
// @Summary      Remove listing image
// @Tags         admin-listings
// @Produce      json
// @Param        id       path      string  true  "Listing ID"  format(uuid)
// @Param        imageId  path      string  true  "Image ID"    format(uuid)
// @Success      200      {object}  APIResponse[listingapp.ListingResponse]
// @Failure      404      {object}  ErrorResponse
// @Security     BearerAuth
// @Router       /admin/listings/{id}/images/{imageId} [delete]
func (h *ListingAdminHandler) RemoveImage(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	imageID, ok := h.uuidParam(c, "imageId")
	if !ok {
		return
	}

	result, err := h.listingService.RemoveImage(c.Request.Context(), tenantID, id, imageID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}
