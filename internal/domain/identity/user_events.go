package identity

import (
	"github.com/vereinhub/backend/internal/domain/shared"
	"github.com/google/uuid"
)

const AggregateTypeUser = "User"

const (
	EventTypeUserCreated       = "UserCreated"
	EventTypeUserStatusChanged = "UserStatusChanged"
	EventTypeUserDeleted       = "UserDeleted"
)

// UserCreatedEvent records a new account.
type UserCreatedEvent struct {
	shared.BaseDomainEvent
	Username string     `json:"username"`
	Email    string     `json:"email"`
	Status   UserStatus `json:"status"`
}

func NewUserCreatedEvent(user *User) *UserCreatedEvent {
	return &UserCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeUserCreated, AggregateTypeUser, user.ID),
		Username:        user.Username,
		Email:           user.Email,
		Status:          user.Status,
	}
}

// UserStatusChangedEvent records activation, deactivation or locking.
type UserStatusChangedEvent struct {
	shared.BaseDomainEvent
	Username  string     `json:"username"`
	NewStatus UserStatus `json:"new_status"`
}

func NewUserStatusChangedEvent(user *User) *UserStatusChangedEvent {
	return &UserStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeUserStatusChanged, AggregateTypeUser, user.ID),
		Username:        user.Username,
		NewStatus:       user.Status,
	}
}

// UserDeletedEvent records an account removal, including where owned
// content went.
type UserDeletedEvent struct {
	shared.BaseDomainEvent
	Username     string     `json:"username"`
	ReassignedTo *uuid.UUID `json:"reassigned_to,omitempty"`
}

func NewUserDeletedEvent(user *User, reassignedTo *uuid.UUID) *UserDeletedEvent {
	return &UserDeletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeUserDeleted, AggregateTypeUser, user.ID),
		Username:        user.Username,
		ReassignedTo:    reassignedTo,
	}
}
