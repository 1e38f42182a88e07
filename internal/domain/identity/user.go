package identity

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/vereinhub/backend/internal/domain/shared"
	"golang.org/x/crypto/bcrypt"
)

// UserStatus represents the status of a user account
type UserStatus string

const (
	UserStatusPending     UserStatus = "pending"
	UserStatusActive      UserStatus = "active"
	UserStatusLocked      UserStatus = "locked"
	UserStatusDeactivated UserStatus = "deactivated"
)

// IsValid checks if the status is valid
func (s UserStatus) IsValid() bool {
	switch s {
	case UserStatusPending, UserStatusActive, UserStatusLocked, UserStatusDeactivated:
		return true
	}
	return false
}

// Well-known roles
const (
	RoleAdmin  = "admin"
	RoleBoard  = "board"
	RoleEditor = "editor"
)

const bcryptCost = 12

var (
	usernameRegex  = regexp.MustCompile(`^[a-zA-Z0-9_\-.]+$`)
	userEmailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
)

// User is an account that can sign in and act in the system.
// Board membership and administrative rights are carried as roles.
type User struct {
	shared.AuditedAggregateRoot
	Username     string
	Email        string
	PasswordHash string
	DisplayName  string
	Status       UserStatus
	Roles        []string
	LastLoginAt  *time.Time
}

// NewUser creates a new user account in pending status
func NewUser(username, email, password, displayName string) (*User, error) {
	if err := validateUsername(username); err != nil {
		return nil, err
	}
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	if err := validatePassword(password); err != nil {
		return nil, err
	}

	hash, err := hashPassword(password)
	if err != nil {
		return nil, err
	}

	user := &User{
		AuditedAggregateRoot: shared.AuditedAggregateRoot{
			BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		},
		Username:     username,
		Email:        strings.ToLower(email),
		PasswordHash: hash,
		DisplayName:  displayName,
		Status:       UserStatusPending,
		Roles:        make([]string, 0),
	}

	user.AddDomainEvent(NewUserCreatedEvent(user))
	return user, nil
}

func validateUsername(username string) error {
	if len(username) < 3 || len(username) > 100 {
		return shared.NewDomainError("INVALID_INPUT", "Username must be between 3 and 100 characters")
	}
	if !usernameRegex.MatchString(username) {
		return shared.NewDomainError("INVALID_INPUT", "Username may only contain letters, digits, underscore, hyphen and dot")
	}
	return nil
}

func validateEmail(email string) error {
	if len(email) > 200 {
		return shared.NewDomainError("INVALID_INPUT", "Email must not exceed 200 characters")
	}
	if !userEmailRegex.MatchString(email) {
		return shared.NewDomainError("INVALID_INPUT", "Invalid email format")
	}
	return nil
}

func validatePassword(password string) error {
	if len(password) < 8 || len(password) > 128 {
		return shared.NewDomainError("INVALID_INPUT", "Password must be between 8 and 128 characters")
	}
	var hasLetter, hasNumber bool
	for _, c := range password {
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z':
			hasLetter = true
		case c >= '0' && c <= '9':
			hasNumber = true
		}
	}
	if !hasLetter || !hasNumber {
		return shared.NewDomainError("INVALID_INPUT", "Password must contain at least one letter and one number")
	}
	return nil
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// Activate activates the user account
func (u *User) Activate() error {
	if u.Status == UserStatusActive {
		return shared.NewDomainError("INVALID_STATE", "User is already active")
	}
	u.Status = UserStatusActive
	u.UpdatedAt = time.Now()
	u.IncrementVersion()
	u.AddDomainEvent(NewUserStatusChangedEvent(u))
	return nil
}

// Deactivate deactivates the user account
func (u *User) Deactivate() error {
	if u.Status == UserStatusDeactivated {
		return shared.NewDomainError("INVALID_STATE", "User is already deactivated")
	}
	u.Status = UserStatusDeactivated
	u.UpdatedAt = time.Now()
	u.IncrementVersion()
	u.AddDomainEvent(NewUserStatusChangedEvent(u))
	return nil
}

// VerifyPassword checks the given password against the stored hash
func (u *User) VerifyPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}

// ChangePassword sets a new password after validation
func (u *User) ChangePassword(newPassword string) error {
	if err := validatePassword(newPassword); err != nil {
		return err
	}
	hash, err := hashPassword(newPassword)
	if err != nil {
		return err
	}
	u.PasswordHash = hash
	u.UpdatedAt = time.Now()
	u.IncrementVersion()
	return nil
}

// RecordLogin records a successful login
func (u *User) RecordLogin() {
	now := time.Now()
	u.LastLoginAt = &now
	u.UpdatedAt = now
}

// AssignRole adds a role to the user if not already present
func (u *User) AssignRole(role string) {
	for _, r := range u.Roles {
		if r == role {
			return
		}
	}
	u.Roles = append(u.Roles, role)
	u.UpdatedAt = time.Now()
	u.IncrementVersion()
}

// RemoveRole removes a role from the user
func (u *User) RemoveRole(role string) {
	for i, r := range u.Roles {
		if r == role {
			u.Roles = append(u.Roles[:i], u.Roles[i+1:]...)
			u.UpdatedAt = time.Now()
			u.IncrementVersion()
			return
		}
	}
}

// HasRole checks if the user has the given role
func (u *User) HasRole(role string) bool {
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// IsAdmin checks if the user has the admin role
func (u *User) IsAdmin() bool {
	return u.HasRole(RoleAdmin)
}

// IsBoardMember checks if the user sits on the board
func (u *User) IsBoardMember() bool {
	return u.HasRole(RoleBoard)
}

// IsActive checks if the user account is active
func (u *User) IsActive() bool {
	return u.Status == UserStatusActive
}

// CanLogin checks if the user may sign in
func (u *User) CanLogin() bool {
	return u.Status == UserStatusActive
}
