package identity

import (
	"context"
	"errors"

	"github.com/vereinhub/backend/internal/domain/identity"
	"github.com/vereinhub/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// UserService handles user account management. User deletion lives in
// DeletionService because it has to consult content ownership first.
type UserService struct {
	userRepo identity.UserRepository
	logger   *zap.Logger
}

func NewUserService(userRepo identity.UserRepository, logger *zap.Logger) *UserService {
	return &UserService{
		userRepo: userRepo,
		logger:   logger,
	}
}

// UserListResult is one page of users plus paging totals.
type UserListResult struct {
	Users      []UserResponse `json:"users"`
	Total      int64          `json:"total"`
	Page       int            `json:"page"`
	PageSize   int            `json:"page_size"`
	TotalPages int            `json:"total_pages"`
}

// Create creates a new user account. Admin only.
func (s *UserService) Create(ctx context.Context, actor identity.Actor, req CreateUserRequest) (*UserResponse, error) {
	if !actor.IsAdmin() {
		return nil, shared.NewDomainError("FORBIDDEN", "Only administrators can create user accounts")
	}

	s.logger.Info("Creating new user",
		zap.String("username", req.Username),
		zap.String("created_by", actor.Username))

	if err := s.ensureIdentifiersFree(ctx, req.Username, req.Email); err != nil {
		return nil, err
	}

	user, err := identity.NewUser(req.Username, req.Email, req.Password, req.DisplayName)
	if err != nil {
		return nil, err
	}
	for _, role := range req.Roles {
		user.AssignRole(role)
	}

	// Accounts created by an admin are usable immediately
	if err := user.Activate(); err != nil {
		return nil, err
	}
	user.SetCreatedBy(actor.UserID)

	if err := s.userRepo.Create(ctx, user); err != nil {
		s.logger.Error("Failed to create user", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to create user")
	}

	s.logger.Info("User created",
		zap.String("user_id", user.ID.String()),
		zap.String("username", user.Username))

	resp := ToUserResponse(user)
	return &resp, nil
}

// ensureIdentifiersFree rejects usernames and emails already on record.
func (s *UserService) ensureIdentifiersFree(ctx context.Context, username, email string) error {
	taken, err := s.userRepo.ExistsByUsername(ctx, username)
	if err != nil {
		s.logger.Error("Failed to check username existence", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to check username availability")
	}
	if taken {
		return shared.NewDomainError("USERNAME_EXISTS", "Username already exists")
	}

	taken, err = s.userRepo.ExistsByEmail(ctx, email)
	if err != nil {
		s.logger.Error("Failed to check email existence", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to check email availability")
	}
	if taken {
		return shared.NewDomainError("EMAIL_EXISTS", "Email already exists")
	}
	return nil
}

// load wraps FindByID with the service-level error vocabulary.
func (s *UserService) load(ctx context.Context, id uuid.UUID) (*identity.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if errors.Is(err, shared.ErrNotFound) {
		return nil, shared.NewDomainError("USER_NOT_FOUND", "User not found")
	}
	if err != nil {
		s.logger.Error("Failed to find user", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to find user")
	}
	return user, nil
}

func (s *UserService) GetByID(ctx context.Context, id uuid.UUID) (*UserResponse, error) {
	user, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToUserResponse(user)
	return &resp, nil
}

// List retrieves a paginated list of users.
func (s *UserService) List(ctx context.Context, filter identity.UserFilter) (*UserListResult, error) {
	users, total, err := s.userRepo.FindAll(ctx, filter)
	if err != nil {
		s.logger.Error("Failed to list users", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to list users")
	}

	responses := make([]UserResponse, len(users))
	for i, user := range users {
		responses[i] = ToUserResponse(user)
	}

	pageSize := filter.Limit()
	return &UserListResult{
		Users:      responses,
		Total:      total,
		Page:       filter.Page,
		PageSize:   pageSize,
		TotalPages: int((total + int64(pageSize) - 1) / int64(pageSize)),
	}, nil
}

// Activate activates a user account. Admin only.
func (s *UserService) Activate(ctx context.Context, actor identity.Actor, id uuid.UUID) (*UserResponse, error) {
	if !actor.IsAdmin() {
		return nil, shared.NewDomainError("FORBIDDEN", "Only administrators can activate accounts")
	}
	return s.mutate(ctx, id, "activate", (*identity.User).Activate)
}

// Deactivate deactivates a user account. Admin only, and never the
// admin's own account.
func (s *UserService) Deactivate(ctx context.Context, actor identity.Actor, id uuid.UUID) (*UserResponse, error) {
	if !actor.IsAdmin() {
		return nil, shared.NewDomainError("FORBIDDEN", "Only administrators can deactivate accounts")
	}
	if actor.UserID == id {
		return nil, shared.NewDomainError("INVALID_OPERATION", "Administrators cannot deactivate their own account")
	}
	return s.mutate(ctx, id, "deactivate", (*identity.User).Deactivate)
}

// AssignRoles replaces a user's roles. Admin only.
func (s *UserService) AssignRoles(ctx context.Context, actor identity.Actor, id uuid.UUID, roles []string) (*UserResponse, error) {
	if !actor.IsAdmin() {
		return nil, shared.NewDomainError("FORBIDDEN", "Only administrators can assign roles")
	}
	for _, role := range roles {
		if role != identity.RoleAdmin && role != identity.RoleBoard && role != identity.RoleEditor {
			return nil, shared.NewDomainError("INVALID_ROLE", "Unknown role: "+role)
		}
	}
	return s.mutate(ctx, id, "assign roles", func(user *identity.User) error {
		for _, role := range user.Roles {
			user.RemoveRole(role)
		}
		for _, role := range roles {
			user.AssignRole(role)
		}
		return nil
	})
}

// ResetPassword sets a new password for a user. Admin only.
func (s *UserService) ResetPassword(ctx context.Context, actor identity.Actor, id uuid.UUID, newPassword string) error {
	if !actor.IsAdmin() {
		return shared.NewDomainError("FORBIDDEN", "Only administrators can reset passwords")
	}

	user, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	if err := user.ChangePassword(newPassword); err != nil {
		return err
	}
	if err := s.userRepo.Update(ctx, user); err != nil {
		s.logger.Error("Failed to reset password", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to reset password")
	}

	s.logger.Info("User password reset", zap.String("user_id", id.String()))
	return nil
}

func (s *UserService) Count(ctx context.Context) (int64, error) {
	return s.userRepo.Count(ctx)
}

// mutate loads the user, applies fn and persists the result.
func (s *UserService) mutate(ctx context.Context, id uuid.UUID, action string, fn func(*identity.User) error) (*UserResponse, error) {
	user, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := fn(user); err != nil {
		return nil, err
	}
	if err := s.userRepo.Update(ctx, user); err != nil {
		s.logger.Error("Failed to "+action, zap.String("user_id", id.String()), zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to update user")
	}

	s.logger.Info("User updated", zap.String("user_id", id.String()), zap.String("action", action))

	resp := ToUserResponse(user)
	return &resp, nil
}
