package handler

import (
	siteapp "github.com/emlak/backend/internal/application/site"
	"github.com/gin-gonic/gin"
)

// SiteHandler serves the site settings and the content pages
type SiteHandler struct {
	BaseHandler
	settings    *siteapp.SettingsProvider
	pageService *siteapp.PageService
}

// NewSiteHandler creates a new SiteHandler
func NewSiteHandler(settings *siteapp.SettingsProvider, pageService *siteapp.PageService) *SiteHandler {
	return &SiteHandler{
		settings:    settings,
		pageService: pageService,
	}
}

// GetSettings godoc
// @ID           getSiteSettings
// @Summary      Site settings
// @Description  Design, contact, social and SEO settings of the tenant's site
// @Tags         site
// @Produce      json
// @Param        X-Tenant-ID  header  string  false  "Tenant ID (default tenant when omitted)"
// @Success      200  {object}  APIResponse[siteapp.SettingsResponse]
// @Router       /settings [get]
func (h *SiteHandler) GetSettings(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}

	settings, err := h.settings.Get(c.Request.Context(), tenantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, settings)
}

// UpdateSettings godoc
// @ID           updateSiteSettings
// @Summary      Update site settings
// @Description  Replaces the sections present in the body
// @Tags         admin-site
// @Accept       json
// @Produce      json
// @Param        request  body      siteapp.UpdateSettingsRequest  true  "Settings"
// @Success      200      {object}  APIResponse[siteapp.SettingsResponse]
// @Failure      400      {object}  ErrorResponse
// @Security     BearerAuth
// @Router       /admin/settings [patch]
func (h *SiteHandler) UpdateSettings(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}

	var req siteapp.UpdateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	settings, err := h.settings.Update(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, settings)
}

// GetPageBySlug godoc
// @ID           getPageBySlug
// @Summary      Get published page
// @Tags         site
// @Produce      json
// @Param        X-Tenant-ID  header  string  false  "Tenant ID (default tenant when omitted)"
// @Param        slug         path    string  true   "Page slug"
// @Success      200  {object}  APIResponse[siteapp.PageResponse]
// @Failure      404  {object}  ErrorResponse
// @Router       /pages/slug/{slug} [get]
func (h *SiteHandler) GetPageBySlug(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}

	page, err := h.pageService.GetPublishedBySlug(c.Request.Context(), tenantID, c.Param("slug"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, page)
}

// ListPages godoc
// @ID           adminListPages
// @Summary      List pages
// @Tags         admin-site
// @Produce      json
// @Success      200  {object}  APIResponse[[]siteapp.PageResponse]
// @Security     BearerAuth
// @Router       /admin/pages [get]
func (h *SiteHandler) ListPages(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}

	pages, err := h.pageService.List(c.Request.Context(), tenantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, pages)
}

// GetPage godoc
// @ID           adminGetPage
// @Summary      Get page
// @Tags         admin-site
// @Produce      json
// @Param        id   path      string  true  "Page ID"  format(uuid)
// @Success      200  {object}  APIResponse[siteapp.PageResponse]
// @Failure      404  {object}  ErrorResponse
// @Security     BearerAuth
// @Router       /admin/pages/{id} [get]
func (h *SiteHandler) GetPage(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}

	page, err := h.pageService.GetByID(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, page)
}

// CreatePage godoc
// @ID           createPage
// @Summary      Create page
// @Tags         admin-site
// @Accept       json
// @Produce      json
// @Param        request  body      siteapp.CreatePageRequest  true  "Page"
// @Success      201      {object}  APIResponse[siteapp.PageResponse]
// @Failure      400      {object}  ErrorResponse
// @Failure      409      {object}  ErrorResponse
// @Security     BearerAuth
// @Router       /admin/pages [post]
func (h *SiteHandler) CreatePage(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}

	var req siteapp.CreatePageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	page, err := h.pageService.Create(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, page)
}

// UpdatePage godoc
// @ID           updatePage
// @Summary      Update page
// @Tags         admin-site
// @Accept       json
// @Produce      json
// @Param        id       path      string                     true  "Page ID"  format(uuid)
// @Param        request  body      siteapp.UpdatePageRequest  true  "Fields to change"
// @Success      200      {object}  APIResponse[siteapp.PageResponse]
// @Failure      400      {object}  ErrorResponse
// @Failure      404      {object}  ErrorResponse
// @Security     BearerAuth
// @Router       /admin/pages/{id} [patch]
func (h *SiteHandler) UpdatePage(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}

	var req siteapp.UpdatePageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	page, err := h.pageService.Update(c.Request.Context(), tenantID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, page)
}

// DeletePage godoc
// @ID           deletePage
// @Summary      Delete page
// @Tags         admin-site
// @Param        id   path  string  true  "Page ID"  format(uuid)
// @Success      204
// @Failure      404  {object}  ErrorResponse
// @Security     BearerAuth
// @Router       /admin/pages/{id} [delete]
func (h *SiteHandler) DeletePage(c *gin.Context) {
	h.remove(c, h.pageService.Delete)
}
