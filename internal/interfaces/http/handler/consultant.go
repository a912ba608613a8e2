package handler

import (
	consultantapp "github.com/emlak/backend/internal/application/consultant"
	"github.com/emlak/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
)

// ConsultantHandler handles consultant-related API endpoints
type ConsultantHandler struct {
	BaseHandler
	consultantService *consultantapp.ConsultantService
}

// NewConsultantHandler creates a new ConsultantHandler
func NewConsultantHandler(consultantService *consultantapp.ConsultantService) *ConsultantHandler {
	return &ConsultantHandler{consultantService: consultantService}
}

// ListPublic godoc
// @ID           listConsultants
// @Summary      List consultants
// @Description  Active consultants, optionally of one branch
// @Tags         consultants
// @Produce      json
// @Param        X-Tenant-ID  header  string  false  "Tenant ID (default tenant when omitted)"
// @Param        branchId     query   string  false  "Branch ID"  format(uuid)
// @Success      200  {object}  APIResponse[[]consultantapp.ConsultantResponse]
// @Failure      400  {object}  ErrorResponse
// @Router       /consultants [get]
func (h *ConsultantHandler) ListPublic(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	branchID, ok := h.uuidQuery(c, "branchId")
	if !ok {
		return
	}

	consultants, err := h.consultantService.ListPublic(c.Request.Context(), tenantID, branchID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, consultants)
}

// GetBySlug godoc
// @ID           getConsultantBySlug
// @Summary      Get consultant by slug
// @Tags         consultants
// @Produce      json
// @Param        X-Tenant-ID  header  string  false  "Tenant ID (default tenant when omitted)"
// @Param        slug         path    string  true   "Consultant slug"
// @Success      200  {object}  APIResponse[consultantapp.ConsultantResponse]
// @Failure      404  {object}  ErrorResponse
// @Router       /consultants/slug/{slug} [get]
func (h *ConsultantHandler) GetBySlug(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}

	result, err := h.consultantService.GetPublicBySlug(c.Request.Context(), tenantID, c.Param("slug"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// List godoc
// @ID           adminListConsultants
// @Summary      List consultants
// @Tags         admin-consultants
// @Produce      json
// @Param        search     query  string  false  "Name"
// @Param        branch_id  query  string  false  "Branch ID"  format(uuid)
// @Param        is_active  query  bool    false  "Active flag"
// @Param        page       query  int     false  "Page number"  default(1)
// @Param        page_size  query  int     false  "Page size"    default(20)
// @Success      200  {object}  APIResponse[[]consultantapp.ConsultantResponse]
// @Failure      400  {object}  ErrorResponse
// @Security     BearerAuth
// @Router       /admin/consultants [get]
func (h *ConsultantHandler) List(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}

	var filter consultantapp.ConsultantListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindError(c, err)
		return
	}

	consultants, total, err := h.consultantService.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	page, pageSize := pageOf(filter.Page, filter.PageSize)
	h.SuccessWithMeta(c, consultants, dto.NewMeta(total, page, pageSize))
}

// GetByID godoc
// @ID           adminGetConsultant
// @Summary      Get consultant
// @Tags         admin-consultants
// @Produce      json
// @Param        id   path      string  true  "Consultant ID"  format(uuid)
// @Success      200  {object}  APIResponse[consultantapp.ConsultantResponse]
// @Failure      404  {object}  ErrorResponse
// @Security     BearerAuth
// @Router       /admin/consultants/{id} [get]
func (h *ConsultantHandler) GetByID(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}

	result, err := h.consultantService.GetByID(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// Create godoc
// @ID           createConsultant
// @Summary      Create consultant
// @Tags         admin-consultants
// @Accept       json
// @Produce      json
// @Param        request  body      consultantapp.CreateConsultantRequest  true  "Consultant"
// @Success      201      {object}  APIResponse[consultantapp.ConsultantResponse]
// @Failure      400      {object}  ErrorResponse
// @Security     BearerAuth
// @Router       /admin/consultants [post]
func (h *ConsultantHandler) Create(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}

	var req consultantapp.CreateConsultantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	result, err := h.consultantService.Create(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, result)
}

// Update godoc
// @ID           updateConsultant
// @Summary      Update consultant
// @Tags         admin-consultants
// @Accept       json
// @Produce      json
// @Param        id       path      string                                 true  "Consultant ID"  format(uuid)
// @Param        request  body      consultantapp.UpdateConsultantRequest  true  "Fields to change"
// @Success      200      {object}  APIResponse[consultantapp.ConsultantResponse]
// @Failure      400      {object}  ErrorResponse
// @Failure      404      {object}  ErrorResponse
// @Security     BearerAuth
// @Router       /admin/consultants/{id} [patch]
func (h *ConsultantHandler) Update(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}

	var req consultantapp.UpdateConsultantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	result, err := h.consultantService.Update(c.Request.Context(), tenantID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// Delete godoc
// @ID           deleteConsultant
// @Summary      Delete consultant
// @Tags         admin-consultants
// @Param        id   path  string  true  "Consultant ID"  format(uuid)
// @Success      204
// @Failure      404  {object}  ErrorResponse
// @Failure      409  {object}  ErrorResponse
// @Security     BearerAuth
// @Router       /admin/consultants/{id} [delete]
func (h *ConsultantHandler) Delete(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}

	if err := h.consultantService.Delete(c.Request.Context(), tenantID, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// UploadPhoto godoc
// @ID           uploadConsultantPhoto
// @Summary      Upload consultant photo
// @Tags         admin-consultants
// @Accept       multipart/form-data
// @Produce      json
// @Param        id    path      string  true  "Consultant ID"  format(uuid)
// @Param        file  formData  file    true  "Photo"
// @Success      200   {object}  APIResponse[consultantapp.ConsultantResponse]
// @Failure      400   {object}  ErrorResponse
// @Security     BearerAuth
// @Router       /admin/consultants/{id}/photo [post]
func (h *ConsultantHandler) UploadPhoto(c *gin.Context) {
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

	result, err := h.consultantService.UploadPhoto(c.Request.Context(), tenantID, id, upload)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}
