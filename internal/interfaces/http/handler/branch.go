package handler

import (
	branchapp "github.com/emlak/backend/internal/application/branch"
	"github.com/emlak/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
)

// BranchHandler handles branch-related API endpoints
type BranchHandler struct {
	BaseHandler
	branchService *branchapp.BranchService
}

// NewBranchHandler creates a new BranchHandler
func NewBranchHandler(branchService *branchapp.BranchService) *BranchHandler {
	return &BranchHandler{branchService: branchService}
}

// ListPublic godoc
// @ID           listBranches
// @Summary      List branches
// @Description  Active branches in display order
// @Tags         branches
// @Produce      json
// @Param        X-Tenant-ID  header  string  false  "Tenant ID (default tenant when omitted)"
// @Success      200  {object}  APIResponse[[]branchapp.BranchResponse]
// @Router       /branches [get]
func (h *BranchHandler) ListPublic(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}

	branches, err := h.branchService.ListPublic(c.Request.Context(), tenantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, branches)
}

// GetBySlug godoc
// @ID           getBranchBySlug
// @Summary      Get branch by slug
// @Tags         branches
// @Produce      json
// @Param        X-Tenant-ID  header  string  false  "Tenant ID (default tenant when omitted)"
// @Param        slug         path    string  true   "Branch slug"
// @Success      200  {object}  APIResponse[branchapp.BranchResponse]
// @Failure      404  {object}  ErrorResponse
// @Router       /branches/slug/{slug} [get]
func (h *BranchHandler) GetBySlug(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}

	b, err := h.branchService.GetPublicBySlug(c.Request.Context(), tenantID, c.Param("slug"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, b)
}

// List godoc
// @ID           adminListBranches
// @Summary      List branches
// @Tags         admin-branches
// @Produce      json
// @Param        search     query  string  false  "Name"
// @Param        city_id    query  string  false  "City ID"  format(uuid)
// @Param        is_active  query  bool    false  "Active flag"
// @Param        page       query  int     false  "Page number"  default(1)
// @Param        page_size  query  int     false  "Page size"    default(20)
// @Success      200  {object}  APIResponse[[]branchapp.BranchResponse]
// @Failure      400  {object}  ErrorResponse
// @Security     BearerAuth
// @Router       /admin/branches [get]
func (h *BranchHandler) List(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}

	var filter branchapp.BranchListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindError(c, err)
		return
	}

	branches, total, err := h.branchService.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	page, pageSize := pageOf(filter.Page, filter.PageSize)
	h.SuccessWithMeta(c, branches, dto.NewMeta(total, page, pageSize))
}

// GetByID godoc
// @ID           adminGetBranch
// @Summary      Get branch
// @Tags         admin-branches
// @Produce      json
// @Param        id   path      string  true  "Branch ID"  format(uuid)
// @Success      200  {object}  APIResponse[branchapp.BranchResponse]
// @Failure      404  {object}  ErrorResponse
// @Security     BearerAuth
// @Router       /admin/branches/{id} [get]
func (h *BranchHandler) GetByID(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}

	b, err := h.branchService.GetByID(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, b)
}

// Create godoc
// @ID           createBranch
// @Summary      Create branch
// @Tags         admin-branches
// @Accept       json
// @Produce      json
// @Param        request  body      branchapp.CreateBranchRequest  true  "Branch"
// @Success      201      {object}  APIResponse[branchapp.BranchResponse]
// @Failure      400      {object}  ErrorResponse
// @Failure      409      {object}  ErrorResponse
// @Security     BearerAuth
// @Router       /admin/branches [post]
func (h *BranchHandler) Create(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}

	var req branchapp.CreateBranchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	b, err := h.branchService.Create(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, b)
}

// Update godoc
// @ID           updateBranch
// @Summary      Update branch
// @Tags         admin-branches
// @Accept       json
// @Produce      json
// @Param        id       path      string                         true  "Branch ID"  format(uuid)
// @Param        request  body      branchapp.UpdateBranchRequest  true  "Fields to change"
// @Success      200      {object}  APIResponse[branchapp.BranchResponse]
// @Failure      400      {object}  ErrorResponse
// @Failure      404      {object}  ErrorResponse
// @Security     BearerAuth
// @Router       /admin/branches/{id} [patch]
func (h *BranchHandler) Update(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}

	var req branchapp.UpdateBranchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	b, err := h.branchService.Update(c.Request.Context(), tenantID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, b)
}

// Delete godoc
// @ID           deleteBranch
// @Summary      Delete branch
// @Description  Fails with 409 while consultants or listings still reference the branch
// @Tags         admin-branches
// @Param        id   path  string  true  "Branch ID"  format(uuid)
// @Success      204
// @Failure      404  {object}  ErrorResponse
// @Failure      409  {object}  ErrorResponse
// @Security     BearerAuth
// @Router       /admin/branches/{id} [delete]
func (h *BranchHandler) Delete(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}

	if err := h.branchService.Delete(c.Request.Context(), tenantID, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// UploadImage godoc
// @ID           uploadBranchImage
// @Summary      Upload branch image
// @Tags         admin-branches
// @Accept       multipart/form-data
// @Produce      json
// @Param        id    path      string  true  "Branch ID"  format(uuid)
// @Param        file  formData  file    true  "Image"
// @Success      200   {object}  APIResponse[branchapp.BranchResponse]
// @Failure      400   {object}  ErrorResponse
// @Security     BearerAuth
// @Router       /admin/branches/{id}/image [post]
func (h *BranchHandler) UploadImage(c *gin.Context) {
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

	b, err := h.branchService.UploadImage(c.Request.Context(), tenantID, id, upload)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, b)
}
