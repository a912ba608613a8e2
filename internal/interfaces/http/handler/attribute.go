package handler

import (
	attributeapp "github.com/emlak/backend/internal/application/attribute"
	"github.com/gin-gonic/gin"
)

// AttributeHandler serves the listing attribute definitions
type AttributeHandler struct {
	BaseHandler
	definitionService *attributeapp.DefinitionService
}

// NewAttributeHandler creates a new AttributeHandler
func NewAttributeHandler(definitionService *attributeapp.DefinitionService) *AttributeHandler {
	return &AttributeHandler{definitionService: definitionService}
}

// List godoc
// @ID           listAttributeDefinitions
// @Summary      List attribute definitions
// @Description  Attribute definitions, optionally of one listing category
// @Tags         listing-attributes
// @Produce      json
// @Param        X-Tenant-ID  header  string  false  "Tenant ID (default tenant when omitted)"
// @Param        category     query   string  false  "Listing category"
// @Success      200  {object}  APIResponse[[]attributeapp.DefinitionResponse]
// @Router       /listing-attributes [get]
func (h *AttributeHandler) List(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}

	defs, err := h.definitionService.List(c.Request.Context(), tenantID, c.Query("category"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, defs)
}

// Schema godoc
// @ID           getAttributeSchema
// @Summary      Attribute JSON schema
// @Description  JSON schema the attributes of a listing in the category are validated against
// @Tags         listing-attributes
// @Produce      json
// @Param        X-Tenant-ID  header  string  false  "Tenant ID (default tenant when omitted)"
// @Param        category     path    string  true   "Listing category"
// @Success      200  {object}  APIResponse[map[string]any]
// @Router       /listing-attributes/schema/{category} [get]
func (h *AttributeHandler) Schema(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}

	schema, err := h.definitionService.Schema(c.Request.Context(), tenantID, c.Param("category"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, schema)
}

// GetByID godoc
// @ID           adminGetAttributeDefinition
// @Summary      Get attribute definition
// @Tags         admin-listing-attributes
// @Produce      json
// @Param        id   path      string  true  "Definition ID"  format(uuid)
// @Success      200  {object}  APIResponse[attributeapp.DefinitionResponse]
// @Failure      404  {object}  ErrorResponse
// @Security     BearerAuth
// @Router       /admin/listing-attributes/{id} [get]
func (h *AttributeHandler) GetByID(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}

	def, err := h.definitionService.GetByID(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, def)
}

// Create godoc
// @ID           createAttributeDefinition
// @Summary      Create attribute definition
// @Tags         admin-listing-attributes
// @Accept       json
// @Produce      json
// @Param        request  body      attributeapp.CreateDefinitionRequest  true  "Definition"
// @Success      201      {object}  APIResponse[attributeapp.DefinitionResponse]
// @Failure      400      {object}  ErrorResponse
// @Failure      409      {object}  ErrorResponse
// @Security     BearerAuth
// @Router       /admin/listing-attributes [post]
func (h *AttributeHandler) Create(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}

	var req attributeapp.CreateDefinitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	def, err := h.definitionService.Create(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, def)
}

// Update godoc
// @ID           updateAttributeDefinition
// @Summary      Update attribute definition
// @Tags         admin-listing-attributes
// @Accept       json
// @Produce      json
// @Param        id       path      string                                true  "Definition ID"  format(uuid)
// @Param        request  body      attributeapp.UpdateDefinitionRequest  true  "Fields to change"
// @Success      200      {object}  APIResponse[attributeapp.DefinitionResponse]
// @Failure      400      {object}  ErrorResponse
// @Failure      404      {object}  ErrorResponse
// @Security     BearerAuth
// @Router       /admin/listing-attributes/{id} [patch]
func (h *AttributeHandler) Update(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}

	var req attributeapp.UpdateDefinitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	def, err := h.definitionService.Update(c.Request.Context(), tenantID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, def)
}

// Delete godoc
// @ID           deleteAttributeDefinition
// @Summary      Delete attribute definition
// @Tags         admin-listing-attributes
// @Param        id   path  string  true  "Definition ID"  format(uuid)
// @Success      204
// @Failure      404  {object}  ErrorResponse
// @Security     BearerAuth
// @Router       /admin/listing-attributes/{id} [delete]
func (h *AttributeHandler) Delete(c *gin.Context) {
	h.remove(c, h.definitionService.Delete)
}
