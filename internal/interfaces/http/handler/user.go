package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/vereinhub/backend/internal/application/identity"
	domainIdentity "github.com/vereinhub/backend/internal/domain/identity"
	"github.com/vereinhub/backend/internal/interfaces/http/middleware"
)

// UserHandler handles user account management endpoints
type UserHandler struct {
	BaseHandler
	userService     *identity.UserService
	deletionService *identity.DeletionService
}

// NewUserHandler creates a new user handler
func NewUserHandler(userService *identity.UserService, deletionService *identity.DeletionService) *UserHandler {
	return &UserHandler{
		userService:     userService,
		deletionService: deletionService,
	}
}

// UserListQuery represents query parameters for listing users
type UserListQuery struct {
	Keyword  string `form:"keyword"`
	Status   string `form:"status" binding:"omitempty,oneof=pending active locked deactivated"`
	Role     string `form:"role" binding:"omitempty,oneof=admin board editor"`
	Page     int    `form:"page,default=1" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size,default=20" binding:"omitempty,min=1,max=100"`
	SortBy   string `form:"sort_by"`
	SortDir  string `form:"sort_dir" binding:"omitempty,oneof=asc desc"`
}

// AssignRolesRequest represents a request to replace a user's roles
type AssignRolesRequest struct {
	Roles []string `json:"roles" binding:"required,min=1,dive,oneof=admin board editor"`
}

// ResetPasswordRequest represents an administrative password reset
type ResetPasswordRequest struct {
	NewPassword string `json:"new_password" binding:"required,min=8,max=128"`
}

// Create handles user account creation
// @Summary Create user
// @Description Create a new user account (admin only)
// @Tags users
// @Accept json
// @Produce json
// @Param request body identity.CreateUserRequest true "User details"
// @Success 201 {object} APIResponse[identity.UserResponse]
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Security BearerAuth
// @Router /users [post]
func (h *UserHandler) Create(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req identity.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.RespondBindError(c, err)
		return
	}

	user, err := h.userService.Create(c.Request.Context(), actor, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, user)
}

// GetByID handles fetching a single user
// @Summary Get user
// @Description Get a user account by ID
// @Tags users
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} APIResponse[identity.UserResponse]
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /users/{id} [get]
func (h *UserHandler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid user ID")
		return
	}

	user, err := h.userService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, user)
}

// List handles listing users with filtering and pagination
// @Summary List users
// @Description List user accounts with optional keyword, status and role filters
// @Tags users
// @Produce json
// @Param keyword query string false "Search by username, email or display name"
// @Param status query string false "Filter by status" Enums(pending, active, locked, deactivated)
// @Param role query string false "Filter by role" Enums(admin, board, editor)
// @Param page query int false "Page number" default(1)
// @Param page_size query int false "Page size" default(20)
// @Success 200 {object} APIResponse[[]identity.UserResponse]
// @Security BearerAuth
// @Router /users [get]
func (h *UserHandler) List(c *gin.Context) {
	var query UserListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.BadRequest(c, "Invalid query parameters: "+err.Error())
		return
	}

	filter := domainIdentity.NewUserFilter().
		WithKeyword(query.Keyword).
		WithRole(query.Role).
		WithPagination(query.Page, query.PageSize)
	if query.Status != "" {
		filter = filter.WithStatus(domainIdentity.UserStatus(query.Status))
	}
	if query.SortBy != "" {
		filter.SortBy = query.SortBy
	}
	if query.SortDir != "" {
		filter.SortOrder = query.SortDir
	}

	result, err := h.userService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Users, result.Total, result.Page, result.PageSize)
}

// Count handles counting users
// @Summary Count users
// @Description Get the total number of user accounts
// @Tags users
// @Produce json
// @Success 200 {object} APIResponse[CountData]
// @Security BearerAuth
// @Router /users/count [get]
func (h *UserHandler) Count(c *gin.Context) {
	count, err := h.userService.Count(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, CountData{Count: count})
}

// Activate handles activating a user account
// @Summary Activate user
// @Description Activate a pending or deactivated user account (admin only)
// @Tags users
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} APIResponse[identity.UserResponse]
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /users/{id}/activate [post]
func (h *UserHandler) Activate(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid user ID")
		return
	}

	user, err := h.userService.Activate(c.Request.Context(), actor, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, user)
}

// Deactivate handles deactivating a user account
// @Summary Deactivate user
// @Description Deactivate an active user account (admin only)
// @Tags users
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} APIResponse[identity.UserResponse]
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /users/{id}/deactivate [post]
func (h *UserHandler) Deactivate(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid user ID")
		return
	}

	user, err := h.userService.Deactivate(c.Request.Context(), actor, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, user)
}

// AssignRoles handles replacing a user's roles
// @Summary Assign roles
// @Description Replace the roles of a user account (admin only)
// @Tags users
// @Accept json
// @Produce json
// @Param id path string true "User ID"
// @Param request body AssignRolesRequest true "New role set"
// @Success 200 {object} APIResponse[identity.UserResponse]
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /users/{id}/roles [put]
func (h *UserHandler) AssignRoles(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid user ID")
		return
	}

	var req AssignRolesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.RespondBindError(c, err)
		return
	}

	user, err := h.userService.AssignRoles(c.Request.Context(), actor, id, req.Roles)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, user)
}

// ResetPassword handles an administrative password reset
// @Summary Reset password
// @Description Reset a user's password (admin only)
// @Tags users
// @Accept json
// @Produce json
// @Param id path string true "User ID"
// @Param request body ResetPasswordRequest true "New password"
// @Success 200 {object} SuccessResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /users/{id}/reset-password [post]
func (h *UserHandler) ResetPassword(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid user ID")
		return
	}

	var req ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.RespondBindError(c, err)
		return
	}

	if err := h.userService.ResetPassword(c.Request.Context(), actor, id, req.NewPassword); err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, gin.H{"message": "Password reset successfully"})
}

// GetOwnedContent handles the pre-deletion ownership audit
// @Summary Get owned content
// @Description List content still owned by a user, grouped by kind
// @Tags users
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} APIResponse[identity.OwnedContentResponse]
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /users/{id}/owned-content [get]
func (h *UserHandler) GetOwnedContent(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid user ID")
		return
	}

	content, err := h.deletionService.GetOwnedContent(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, content)
}

// Delete handles user account deletion with optional content reassignment
// @Summary Delete user
// @Description Delete a user account. Fails with HAS_OWNED_CONTENT when the
// @Description user still owns content and no reassignment target is given.
// @Tags users
// @Accept json
// @Produce json
// @Param id path string true "User ID"
// @Param request body identity.DeleteUserRequest false "Optional reassignment target"
// @Success 204 "No Content"
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse
// @Security BearerAuth
// @Router /users/{id} [delete]
func (h *UserHandler) Delete(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid user ID")
		return
	}

	// The body is optional. A bare DELETE audits and refuses when content
	// remains; a reassign_to target moves ownership first.
	var req identity.DeleteUserRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			middleware.RespondBindError(c, err)
			return
		}
	}

	if err := h.deletionService.DeleteUser(c.Request.Context(), actor, id, req); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
