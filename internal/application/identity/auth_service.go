package identity

import (
	"context"

	"github.com/vereinhub/backend/internal/domain/identity"
	"github.com/vereinhub/backend/internal/domain/shared"
	"github.com/vereinhub/backend/internal/infrastructure/auth"
	"go.uber.org/zap"
)

// AuthService handles login, token refresh and logout.
type AuthService struct {
	userRepo   identity.UserRepository
	jwtService *auth.JWTService
	blacklist  auth.TokenBlacklist
	logger     *zap.Logger
}

func NewAuthService(
	userRepo identity.UserRepository,
	jwtService *auth.JWTService,
	blacklist auth.TokenBlacklist,
	logger *zap.Logger,
) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		jwtService: jwtService,
		blacklist:  blacklist,
		logger:     logger,
	}
}

// loginResult pairs the fresh tokens with the user's public profile.
func loginResult(user *identity.User, pair *auth.TokenPair) *LoginResult {
	return &LoginResult{
		AccessToken:           pair.AccessToken,
		RefreshToken:          pair.RefreshToken,
		AccessTokenExpiresAt:  pair.AccessTokenExpiresAt,
		RefreshTokenExpiresAt: pair.RefreshTokenExpiresAt,
		TokenType:             pair.TokenType,
		User: UserInfo{
			ID:          user.ID,
			Username:    user.Username,
			DisplayName: user.DisplayName,
			Email:       user.Email,
			Roles:       user.Roles,
		},
	}
}

// inactiveAccountError maps the account status onto the error the client
// sees. Unknown credentials and bad passwords share one message so the
// response does not reveal whether the username exists.
func inactiveAccountError(status identity.UserStatus) error {
	switch status {
	case identity.UserStatusLocked:
		return shared.NewDomainError("ACCOUNT_LOCKED", "Account is locked. Please contact an administrator")
	case identity.UserStatusDeactivated:
		return shared.NewDomainError("ACCOUNT_DEACTIVATED", "Account has been deactivated")
	case identity.UserStatusPending:
		return shared.NewDomainError("ACCOUNT_PENDING", "Account is pending activation")
	}
	return shared.NewDomainError("ACCOUNT_INACTIVE", "Account is not active")
}

// Login authenticates a user and returns a token pair.
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*LoginResult, error) {
	s.logger.Info("Login attempt", zap.String("username", input.Username))

	user, err := s.userRepo.FindByUsername(ctx, input.Username)
	if err != nil {
		s.logger.Warn("User not found during login", zap.String("username", input.Username))
		return nil, shared.NewDomainError("INVALID_CREDENTIALS", "Invalid username or password")
	}

	if !user.CanLogin() {
		s.logger.Warn("Login attempt for inactive account",
			zap.String("username", input.Username),
			zap.String("status", string(user.Status)))
		return nil, inactiveAccountError(user.Status)
	}

	if !user.VerifyPassword(input.Password) {
		s.logger.Warn("Invalid password attempt", zap.String("username", input.Username))
		return nil, shared.NewDomainError("INVALID_CREDENTIALS", "Invalid username or password")
	}

	pair, err := s.jwtService.GenerateTokenPair(auth.GenerateTokenInput{
		UserID:   user.ID,
		Username: user.Username,
		Roles:    user.Roles,
	})
	if err != nil {
		s.logger.Error("Failed to generate token pair", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to generate tokens")
	}

	// Login succeeds even when the timestamp update fails
	user.RecordLogin()
	if err := s.userRepo.Update(ctx, user); err != nil {
		s.logger.Error("Failed to record login", zap.Error(err))
	}

	return loginResult(user, pair), nil
}

// RefreshToken exchanges a refresh token for a fresh token pair.
// Roles are re-read from the user record so revocations take effect.
func (s *AuthService) RefreshToken(ctx context.Context, refreshToken string) (*LoginResult, error) {
	claims, err := s.jwtService.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_TOKEN", "Invalid or expired refresh token")
	}

	userID, err := claims.GetUserUUID()
	if err != nil {
		return nil, shared.NewDomainError("INVALID_TOKEN", "Invalid token claims")
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_TOKEN", "User no longer exists")
	}
	if !user.CanLogin() {
		return nil, shared.NewDomainError("ACCOUNT_INACTIVE", "Account is not active")
	}

	pair, err := s.jwtService.RefreshTokenPair(refreshToken, user.Username, user.Roles)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_TOKEN", "Failed to refresh tokens")
	}
	return loginResult(user, pair), nil
}

// Logout blacklists the current access token until it expires.
func (s *AuthService) Logout(ctx context.Context, claims *auth.Claims) error {
	if s.blacklist == nil || claims == nil {
		return nil
	}
	jti := claims.RegisteredClaims.ID
	if jti == "" {
		return nil
	}
	if err := s.blacklist.AddToBlacklist(ctx, jti, claims.GetRemainingTTL()); err != nil {
		s.logger.Error("Failed to blacklist token", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to log out")
	}
	return nil
}

// ChangePassword changes the user's password after verifying the old one.
func (s *AuthService) ChangePassword(ctx context.Context, input ChangePasswordInput) error {
	user, err := s.userRepo.FindByID(ctx, input.UserID)
	if err != nil {
		return err
	}
	if !user.VerifyPassword(input.OldPassword) {
		return shared.NewDomainError("INVALID_CREDENTIALS", "Current password is incorrect")
	}
	if err := user.ChangePassword(input.NewPassword); err != nil {
		return err
	}
	return s.userRepo.Update(ctx, user)
}
