package handler

import (
	leadapp "github.com/emlak/backend/internal/application/lead"
	"github.com/emlak/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
)

// CustomerRequestHandler handles the customer request form and its back
// office queue
type CustomerRequestHandler struct {
	BaseHandler
	requestService *leadapp.RequestService
}

// NewCustomerRequestHandler creates a new CustomerRequestHandler
func NewCustomerRequestHandler(requestService *leadapp.RequestService) *CustomerRequestHandler {
	return &CustomerRequestHandler{requestService: requestService}
}

// Submit godoc
// @ID           submitCustomerRequest
// @Summary      Submit customer request
// @Description  Records a buy, rent, sell or valuation request and notifies the branch
// @Tags         customer-requests
// @Accept       json
// @Produce      json
// @Param        X-Tenant-ID  header    string                 false  "Tenant ID (default tenant when omitted)"
// @Param        request      body      leadapp.SubmitRequest  true   "Request"
// @Success      201          {object}  APIResponse[leadapp.CustomerRequestResponse]
// @Failure      400          {object}  ErrorResponse
// @Failure      429          {object}  ErrorResponse
// @Router       /requests/customer [post]
func (h *CustomerRequestHandler) Submit(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}

	var req leadapp.SubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	result, err := h.requestService.Submit(c.Request.Context(), tenantID, req, c.ClientIP())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, result)
}

// List godoc
// @ID           adminListCustomerRequests
// @Summary      List customer requests
// @Tags         admin-customer-requests
// @Produce      json
// @Param        status     query  string  false  "NEW, CONTACTED or CLOSED"
// @Param        type       query  string  false  "Request type"
// @Param        branch_id  query  string  false  "Branch ID"  format(uuid)
// @Param        search     query  string  false  "Name, phone or email"
// @Param        page       query  int     false  "Page number"  default(1)
// @Param        page_size  query  int     false  "Page size"    default(20)
// @Success      200  {object}  APIResponse[[]leadapp.CustomerRequestResponse]
// @Failure      400  {object}  ErrorResponse
// @Security     BearerAuth
// @Router       /admin/requests/customer [get]
func (h *CustomerRequestHandler) List(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}

	var filter leadapp.ListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindError(c, err)
		return
	}

	requests, total, err := h.requestService.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	page, pageSize := pageOf(filter.Page, filter.PageSize)
	h.SuccessWithMeta(c, requests, dto.NewMeta(total, page, pageSize))
}

// GetByID godoc
// @ID           adminGetCustomerRequest
// @Summary      Get customer request
// @Tags         admin-customer-requests
// @Produce      json
// @Param        id   path      string  true  "Request ID"  format(uuid)
// @Success      200  {object}  APIResponse[leadapp.CustomerRequestResponse]
// @Failure      404  {object}  ErrorResponse
// @Security     BearerAuth
// @Router       /admin/requests/customer/{id} [get]
func (h *CustomerRequestHandler) GetByID(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}

	result, err := h.requestService.GetByID(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// ChangeStatus godoc
// @ID           changeCustomerRequestStatus
// @Summary      Change request status
// @Tags         admin-customer-requests
// @Accept       json
// @Produce      json
// @Param        id       path      string                       true  "Request ID"  format(uuid)
// @Param        request  body      leadapp.ChangeStatusRequest  true  "New status"
// @Success      200      {object}  APIResponse[leadapp.CustomerRequestResponse]
// @Failure      400      {object}  ErrorResponse
// @Failure      404      {object}  ErrorResponse
// @Failure      422      {object}  ErrorResponse
// @Security     BearerAuth
// @Router       /admin/requests/customer/{id}/status [patch]
func (h *CustomerRequestHandler) ChangeStatus(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}

	var req leadapp.ChangeStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	result, err := h.requestService.ChangeStatus(c.Request.Context(), tenantID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}
