package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/vereinhub/backend/internal/application/membership"
	"github.com/vereinhub/backend/internal/interfaces/http/middleware"
)

// MembershipRequestHandler handles membership request workflow endpoints
type MembershipRequestHandler struct {
	BaseHandler
	requestService *membership.RequestService
}

// NewMembershipRequestHandler creates a new membership request handler
func NewMembershipRequestHandler(requestService *membership.RequestService) *MembershipRequestHandler {
	return &MembershipRequestHandler{requestService: requestService}
}

// RequestListQuery represents query parameters for listing membership requests
type RequestListQuery struct {
	Status   string `form:"status" binding:"omitempty,oneof=PENDING UNDER_REVIEW ADDITIONAL_INFO_REQUESTED APPROVED REJECTED WITHDRAWN"`
	Search   string `form:"search"`
	Page     int    `form:"page,default=1" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size,default=20" binding:"omitempty,min=1,max=100"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// Submit handles public submission of a membership request
// @Summary Submit membership request
// @Description Submit a new membership application. Repeat submissions with the
// @Description same Idempotency-Key header return the original request.
// @Tags membership-requests
// @Accept json
// @Produce json
// @Param Idempotency-Key header string false "Idempotency key for safe retries"
// @Param request body membership.SubmitRequestRequest true "Application details"
// @Success 201 {object} APIResponse[membership.RequestResponse]
// @Failure 400 {object} ErrorResponse
// @Router /membership/requests [post]
func (h *MembershipRequestHandler) Submit(c *gin.Context) {
	var req membership.SubmitRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.RespondBindError(c, err)
		return
	}
	req.IdempotencyKey = c.GetHeader("Idempotency-Key")

	result, err := h.requestService.Submit(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, result)
}

// GetByID handles fetching a single membership request
// @Summary Get membership request
// @Description Get a membership request by ID, including its vote summary
// @Tags membership-requests
// @Produce json
// @Param id path string true "Request ID"
// @Success 200 {object} APIResponse[membership.RequestResponse]
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /membership/requests/{id} [get]
func (h *MembershipRequestHandler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid request ID")
		return
	}

	result, err := h.requestService.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// GetByNumber handles fetching a membership request by its request number
// @Summary Get membership request by number
// @Description Get a membership request by its human-readable request number
// @Tags membership-requests
// @Produce json
// @Param number path string true "Request number"
// @Success 200 {object} APIResponse[membership.RequestResponse]
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /membership/requests/number/{number} [get]
func (h *MembershipRequestHandler) GetByNumber(c *gin.Context) {
	number := c.Param("number")
	if number == "" {
		h.BadRequest(c, "Request number is required")
		return
	}

	result, err := h.requestService.GetByNumber(c.Request.Context(), number)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// List handles listing membership requests with filtering and pagination
// @Summary List membership requests
// @Description List membership requests with optional status filter and search
// @Tags membership-requests
// @Produce json
// @Param status query string false "Filter by status" Enums(PENDING, UNDER_REVIEW, ADDITIONAL_INFO_REQUESTED, APPROVED, REJECTED, WITHDRAWN)
// @Param search query string false "Search by applicant name, email or request number"
// @Param page query int false "Page number" default(1)
// @Param page_size query int false "Page size" default(20)
// @Param order_by query string false "Sort field"
// @Param order_dir query string false "Sort direction" Enums(asc, desc)
// @Success 200 {object} APIResponse[[]membership.RequestListResponse]
// @Security BearerAuth
// @Router /membership/requests [get]
func (h *MembershipRequestHandler) List(c *gin.Context) {
	var query RequestListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.BadRequest(c, "Invalid query parameters: "+err.Error())
		return
	}

	requests, total, err := h.requestService.List(
		c.Request.Context(),
		query.Page, query.PageSize,
		query.Status, query.Search,
		query.OrderBy, query.OrderDir,
	)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, requests, total, query.Page, query.PageSize)
}

// UpdateStatus handles workflow transitions on a membership request
// @Summary Transition membership request
// @Description Move a membership request through the review workflow. Approval
// @Description creates the member record in the same transaction.
// @Tags membership-requests
// @Accept json
// @Produce json
// @Param id path string true "Request ID"
// @Param request body membership.UpdateRequestStatusRequest true "Target status"
// @Success 200 {object} APIResponse[membership.RequestResponse]
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse
// @Security BearerAuth
// @Router /membership/requests/{id}/status [patch]
func (h *MembershipRequestHandler) UpdateStatus(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid request ID")
		return
	}

	var req membership.UpdateRequestStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.RespondBindError(c, err)
		return
	}

	result, err := h.requestService.UpdateStatus(c.Request.Context(), actor, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}
