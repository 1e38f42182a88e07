package identity

import (
	"context"

	"github.com/google/uuid"
)

// UserRepository is the persistence port for user aggregates.
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	Update(ctx context.Context, user *User) error
	Delete(ctx context.Context, id uuid.UUID) error

	FindByID(ctx context.Context, id uuid.UUID) (*User, error)
	FindByUsername(ctx context.Context, username string) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindAll(ctx context.Context, filter UserFilter) ([]*User, int64, error)

	ExistsByUsername(ctx context.Context, username string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Count(ctx context.Context) (int64, error)

	// CountActiveBoardMembers returns the number of active users holding
	// the board role. The quorum for membership votes is derived from
	// this count at tally time.
	CountActiveBoardMembers(ctx context.Context) (int64, error)
}

// UserFilter narrows and pages user list queries.
type UserFilter struct {
	// Keyword matches username, email and display name
	Keyword string
	Status  *UserStatus
	Role    string

	Page     int
	PageSize int

	SortBy    string
	SortOrder string
}

// NewUserFilter returns the default page of newest users first.
func NewUserFilter() UserFilter {
	return UserFilter{
		Page:      1,
		PageSize:  20,
		SortBy:    "created_at",
		SortOrder: "desc",
	}
}

func (f UserFilter) WithKeyword(keyword string) UserFilter {
	f.Keyword = keyword
	return f
}

func (f UserFilter) WithStatus(status UserStatus) UserFilter {
	f.Status = &status
	return f
}

func (f UserFilter) WithRole(role string) UserFilter {
	f.Role = role
	return f
}

func (f UserFilter) WithPagination(page, pageSize int) UserFilter {
	f.Page = page
	f.PageSize = pageSize
	return f
}

func (f UserFilter) Offset() int {
	if f.Page <= 0 {
		return 0
	}
	return (f.Page - 1) * f.PageSize
}

// Limit clamps the page size to at most 100 rows, defaulting to 20.
func (f UserFilter) Limit() int {
	switch {
	case f.PageSize <= 0:
		return 20
	case f.PageSize > 100:
		return 100
	}
	return f.PageSize
}

// Actor identifies who performs an operation. Handlers build it from the
// validated JWT claims and pass it explicitly into application services.
type Actor struct {
	UserID   uuid.UUID
	Username string
	Roles    []string
}

func (a Actor) HasRole(role string) bool {
	for _, r := range a.Roles {
		if r == role {
			return true
		}
	}
	return false
}

func (a Actor) IsAdmin() bool {
	return a.HasRole(RoleAdmin)
}

func (a Actor) IsBoardMember() bool {
	return a.HasRole(RoleBoard)
}
