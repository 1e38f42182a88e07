package identity

import (
	"time"

	"github.com/vereinhub/backend/internal/domain/content"
	"github.com/vereinhub/backend/internal/domain/identity"
	"github.com/google/uuid"
)

// LoginInput contains the input for user login
type LoginInput struct {
	Username string
	Password string
	IP       string // Client IP for login tracking
}

// LoginResult contains the result of a successful login
type LoginResult struct {
	AccessToken           string
	RefreshToken          string
	AccessTokenExpiresAt  time.Time
	RefreshTokenExpiresAt time.Time
	TokenType             string
	User                  UserInfo
}

// UserInfo contains basic user information returned after login
type UserInfo struct {
	ID          uuid.UUID
	Username    string
	DisplayName string
	Email       string
	Roles       []string
}

// ChangePasswordInput contains the input for password change
type ChangePasswordInput struct {
	UserID      uuid.UUID
	OldPassword string
	NewPassword string
}

// CreateUserRequest represents a request to create a user account
type CreateUserRequest struct {
	Username    string   `json:"username" binding:"required,min=3,max=100"`
	Email       string   `json:"email" binding:"required,email,max=200"`
	Password    string   `json:"password" binding:"required,min=8,max=128"`
	DisplayName string   `json:"display_name" binding:"max=200"`
	Roles       []string `json:"roles" binding:"dive,oneof=admin board editor"`
}

// UserResponse represents a user in API responses
type UserResponse struct {
	ID          uuid.UUID  `json:"id"`
	Username    string     `json:"username"`
	Email       string     `json:"email"`
	DisplayName string     `json:"display_name,omitempty"`
	Status      string     `json:"status"`
	Roles       []string   `json:"roles"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// OwnedContentItem represents one content item referencing a user
type OwnedContentItem struct {
	Kind  string    `json:"kind"`
	ID    uuid.UUID `json:"id"`
	Title string    `json:"title"`
}

// OwnedContentResponse is the read-only ownership audit for a user
type OwnedContentResponse struct {
	UserID uuid.UUID          `json:"user_id"`
	Total  int                `json:"total"`
	Counts map[string]int     `json:"counts"`
	Items  []OwnedContentItem `json:"items"`
}

// DeleteUserRequest represents a user deletion. When the user still owns
// content, ReassignTo names the user who inherits it.
type DeleteUserRequest struct {
	ReassignTo *uuid.UUID `json:"reassign_to"`
}

// ToUserResponse converts a domain User to UserResponse
func ToUserResponse(u *identity.User) UserResponse {
	roles := u.Roles
	if roles == nil {
		roles = []string{}
	}
	return UserResponse{
		ID:          u.ID,
		Username:    u.Username,
		Email:       u.Email,
		DisplayName: u.DisplayName,
		Status:      string(u.Status),
		Roles:       roles,
		LastLoginAt: u.LastLoginAt,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}

// ToOwnedContentResponse converts a domain OwnershipAudit to its API shape
func ToOwnedContentResponse(audit *content.OwnershipAudit) OwnedContentResponse {
	items := make([]OwnedContentItem, 0, len(audit.Items))
	for _, item := range audit.Items {
		items = append(items, OwnedContentItem{
			Kind:  string(item.Kind),
			ID:    item.ID,
			Title: item.Title,
		})
	}
	counts := make(map[string]int, len(audit.Counts))
	for kind, n := range audit.Counts {
		counts[string(kind)] = n
	}
	return OwnedContentResponse{
		UserID: audit.UserID,
		Total:  audit.Total(),
		Counts: counts,
		Items:  items,
	}
}
