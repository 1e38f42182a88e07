package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/vereinhub/backend/internal/domain/identity"
)

// UserModel is the persistence model for the User domain entity.
type UserModel struct {
	AuditedAggregateModel
	Username     string              `gorm:"type:varchar(100);not null;uniqueIndex"`
	Email        string              `gorm:"type:varchar(200);not null;uniqueIndex"`
	PasswordHash string              `gorm:"type:varchar(255);not null"`
	DisplayName  string              `gorm:"type:varchar(200)"`
	Status       identity.UserStatus `gorm:"type:varchar(20);not null;default:'pending';index"`
	LastLoginAt  *time.Time          `gorm:"index"`

	Roles []UserRoleModel `gorm:"foreignKey:UserID"`
}

// TableName returns the table name for GORM
func (UserModel) TableName() string {
	return "users"
}

// ToDomain converts the persistence model to a domain User entity
func (m *UserModel) ToDomain() *identity.User {
	user := &identity.User{
		Username:     m.Username,
		Email:        m.Email,
		PasswordHash: m.PasswordHash,
		DisplayName:  m.DisplayName,
		Status:       m.Status,
		LastLoginAt:  m.LastLoginAt,
		Roles:        make([]string, len(m.Roles)),
	}
	m.PopulateAuditedAggregateRoot(&user.AuditedAggregateRoot)

	for i, r := range m.Roles {
		user.Roles[i] = r.Role
	}
	return user
}

// FromDomain populates the persistence model from a domain User entity.
// Role rows are written separately by the repository.
func (m *UserModel) FromDomain(u *identity.User) {
	m.FromDomainAuditedAggregateRoot(u.AuditedAggregateRoot)
	m.Username = u.Username
	m.Email = u.Email
	m.PasswordHash = u.PasswordHash
	m.DisplayName = u.DisplayName
	m.Status = u.Status
	m.LastLoginAt = u.LastLoginAt
}

// UserModelFromDomain creates a new persistence model from a domain User entity
func UserModelFromDomain(u *identity.User) *UserModel {
	m := &UserModel{}
	m.FromDomain(u)
	return m
}

// UserRoleModel is the persistence model for a role held by a user.
// Roles are plain strings; the composite key prevents duplicate assignments.
type UserRoleModel struct {
	UserID    uuid.UUID `gorm:"type:uuid;primaryKey"`
	Role      string    `gorm:"type:varchar(50);primaryKey"`
	CreatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (UserRoleModel) TableName() string {
	return "user_roles"
}
