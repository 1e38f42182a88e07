package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/vereinhub/backend/internal/application/membership"
)

// MemberHandler handles member roster endpoints
type MemberHandler struct {
	BaseHandler
	memberService *membership.MemberService
}

// NewMemberHandler creates a new member handler
func NewMemberHandler(memberService *membership.MemberService) *MemberHandler {
	return &MemberHandler{memberService: memberService}
}

// MemberListQuery represents query parameters for listing members
type MemberListQuery struct {
	Status   string `form:"status" binding:"omitempty,oneof=ACTIVE RESIGNED"`
	Search   string `form:"search"`
	Page     int    `form:"page,default=1" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size,default=20" binding:"omitempty,min=1,max=100"`
}

// GetByID handles fetching a single member
// @Summary Get member
// @Description Get a member by ID
// @Tags members
// @Produce json
// @Param id path string true "Member ID"
// @Success 200 {object} APIResponse[membership.MemberResponse]
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /members/{id} [get]
func (h *MemberHandler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid member ID")
		return
	}

	member, err := h.memberService.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, member)
}

// GetByNumber handles fetching a member by member number
// @Summary Get member by number
// @Description Get a member by their human-readable member number
// @Tags members
// @Produce json
// @Param number path string true "Member number"
// @Success 200 {object} APIResponse[membership.MemberResponse]
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /members/number/{number} [get]
func (h *MemberHandler) GetByNumber(c *gin.Context) {
	number := c.Param("number")
	if number == "" {
		h.BadRequest(c, "Member number is required")
		return
	}

	member, err := h.memberService.GetByNumber(c.Request.Context(), number)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, member)
}

// List handles listing members with filtering and pagination
// @Summary List members
// @Description List members with optional status filter and search
// @Tags members
// @Produce json
// @Param status query string false "Filter by status" Enums(ACTIVE, RESIGNED)
// @Param search query string false "Search by name, email or member number"
// @Param page query int false "Page number" default(1)
// @Param page_size query int false "Page size" default(20)
// @Success 200 {object} APIResponse[[]membership.MemberResponse]
// @Security BearerAuth
// @Router /members [get]
func (h *MemberHandler) List(c *gin.Context) {
	var query MemberListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.BadRequest(c, "Invalid query parameters: "+err.Error())
		return
	}

	members, total, err := h.memberService.List(
		c.Request.Context(),
		query.Page, query.PageSize,
		query.Status, query.Search,
	)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, members, total, query.Page, query.PageSize)
}

// Resign handles marking a member as resigned
// @Summary Resign member
// @Description Mark a member as resigned. The member record is kept for the roster history.
// @Tags members
// @Produce json
// @Param id path string true "Member ID"
// @Success 200 {object} APIResponse[membership.MemberResponse]
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Security BearerAuth
// @Router /members/{id}/resign [post]
func (h *MemberHandler) Resign(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid member ID")
		return
	}

	member, err := h.memberService.Resign(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, member)
}
