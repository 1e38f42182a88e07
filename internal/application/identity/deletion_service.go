package identity

import (
	"context"
	"errors"

	"github.com/vereinhub/backend/internal/domain/content"
	"github.com/vereinhub/backend/internal/domain/identity"
	"github.com/vereinhub/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DeletionService guards user deletion against dangling content references.
// Posts, events, initiatives and tasks all point at user accounts, so an
// account holding any of them can only be removed together with a
// reassignment target.
type DeletionService struct {
	userRepo  identity.UserRepository
	ownership content.OwnershipRepository
	publisher shared.EventPublisher
	logger    *zap.Logger
}

// NewDeletionService creates a new deletion service
func NewDeletionService(
	userRepo identity.UserRepository,
	ownership content.OwnershipRepository,
	logger *zap.Logger,
) *DeletionService {
	return &DeletionService{
		userRepo:  userRepo,
		ownership: ownership,
		logger:    logger,
	}
}

// SetEventPublisher wires the bus that receives deletion audit events
func (s *DeletionService) SetEventPublisher(publisher shared.EventPublisher) {
	s.publisher = publisher
}

// GetOwnedContent returns the read-only ownership audit for a user.
// It never modifies anything and is safe to call repeatedly.
func (s *DeletionService) GetOwnedContent(ctx context.Context, userID uuid.UUID) (*OwnedContentResponse, error) {
	if _, err := s.findUser(ctx, userID); err != nil {
		return nil, err
	}

	audit, err := s.ownership.AuditOwnership(ctx, userID)
	if err != nil {
		s.logger.Error("Failed to audit content ownership",
			zap.String("user_id", userID.String()),
			zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to audit content ownership")
	}

	resp := ToOwnedContentResponse(audit)
	return &resp, nil
}

// DeleteUser removes a user account. When the account still owns content
// and no reassignment target is given, the call fails with the full audit
// so the caller can decide where the content should go. Reassignment and
// deletion run in a single transaction.
func (s *DeletionService) DeleteUser(ctx context.Context, actor identity.Actor, userID uuid.UUID, req DeleteUserRequest) error {
	if !actor.IsAdmin() {
		return shared.NewDomainError("FORBIDDEN", "Only administrators can delete user accounts")
	}
	if actor.UserID == userID {
		return shared.NewDomainError("INVALID_OPERATION", "Administrators cannot delete their own account")
	}

	user, err := s.findUser(ctx, userID)
	if err != nil {
		return err
	}

	if req.ReassignTo != nil {
		if err := s.validateTarget(ctx, userID, *req.ReassignTo); err != nil {
			return err
		}
	}

	audit, err := s.ownership.AuditOwnership(ctx, userID)
	if err != nil {
		s.logger.Error("Failed to audit content ownership",
			zap.String("user_id", userID.String()),
			zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to audit content ownership")
	}

	if audit.IsEmpty() {
		if err := s.userRepo.Delete(ctx, userID); err != nil {
			s.logger.Error("Failed to delete user", zap.Error(err))
			return shared.NewDomainError("INTERNAL_ERROR", "Failed to delete user")
		}
		s.logger.Info("User deleted",
			zap.String("user_id", userID.String()),
			zap.String("deleted_by", actor.Username))
		s.publishDeleted(ctx, user, nil)
		return nil
	}

	if req.ReassignTo == nil {
		s.logger.Info("User deletion blocked by owned content",
			zap.String("user_id", userID.String()),
			zap.Int("owned_items", audit.Total()))
		details := ToOwnedContentResponse(audit)
		return shared.NewDomainErrorWithDetails("HAS_OWNED_CONTENT",
			"User still owns content. Provide reassign_to to transfer it before deletion", details)
	}

	if err := s.ownership.ReassignAndDeleteUser(ctx, userID, *req.ReassignTo); err != nil {
		s.logger.Error("Failed to reassign content and delete user",
			zap.String("user_id", userID.String()),
			zap.String("reassign_to", req.ReassignTo.String()),
			zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to reassign content and delete user")
	}

	s.logger.Info("User deleted with content reassignment",
		zap.String("user_id", userID.String()),
		zap.String("reassign_to", req.ReassignTo.String()),
		zap.Int("reassigned_items", audit.Total()),
		zap.String("deleted_by", actor.Username))
	s.publishDeleted(ctx, user, req.ReassignTo)

	return nil
}

// publishDeleted emits the deletion audit event. Best effort.
func (s *DeletionService) publishDeleted(ctx context.Context, user *identity.User, reassignedTo *uuid.UUID) {
	if s.publisher == nil {
		return
	}
	_ = s.publisher.Publish(ctx, identity.NewUserDeletedEvent(user, reassignedTo))
}

// validateTarget checks that the reassignment target can take over content
func (s *DeletionService) validateTarget(ctx context.Context, userID, targetID uuid.UUID) error {
	if targetID == userID {
		return shared.NewDomainError("INVALID_TARGET_USER", "Content cannot be reassigned to the user being deleted")
	}

	target, err := s.userRepo.FindByID(ctx, targetID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return shared.NewDomainError("INVALID_TARGET_USER", "Reassignment target does not exist")
		}
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to find reassignment target")
	}
	if !target.IsActive() {
		return shared.NewDomainError("INVALID_TARGET_USER", "Reassignment target must be an active user")
	}
	return nil
}

func (s *DeletionService) findUser(ctx context.Context, userID uuid.UUID) (*identity.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("USER_NOT_FOUND", "User not found")
		}
		s.logger.Error("Failed to find user", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to find user")
	}
	return user, nil
}
