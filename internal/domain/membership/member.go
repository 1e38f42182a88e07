package membership

import (
	"fmt"
	"strings"
	"time"

	"github.com/vereinhub/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// MemberStatus represents the status of an association member
type MemberStatus string

const (
	MemberStatusActive   MemberStatus = "ACTIVE"
	MemberStatusResigned MemberStatus = "RESIGNED"
)

// IsValid checks if the status is valid
func (s MemberStatus) IsValid() bool {
	return s == MemberStatusActive || s == MemberStatusResigned
}

// String returns the string representation
func (s MemberStatus) String() string {
	return string(s)
}

// Member is an admitted association member. Members are created exclusively
// through the approval of a membership request, or seeded by migration.
type Member struct {
	shared.BaseAggregateRoot
	MemberNumber string
	Name         string
	Email        string
	Phone        string
	Address      string
	MemberType   MemberType
	Status       MemberStatus
	JoinedAt     time.Time
	ResignedAt   *time.Time

	// SourceRequestID links back to the approved request, nil for seeded members
	SourceRequestID *uuid.UUID
}

// NewMemberFromRequest creates a member from an approved membership request
func NewMemberFromRequest(memberNumber string, request *MembershipRequest) (*Member, error) {
	if strings.TrimSpace(memberNumber) == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Member number is required")
	}
	if request == nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "Source request is required")
	}
	if !request.RequestedType.IsValid() {
		return nil, shared.NewDomainError("INVALID_INPUT", fmt.Sprintf("Invalid member type: %s", request.RequestedType))
	}

	now := time.Now()
	member := &Member{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		MemberNumber:      memberNumber,
		Name:              request.ApplicantName,
		Email:             request.ApplicantEmail,
		Phone:             request.Phone,
		Address:           request.Address,
		MemberType:        request.RequestedType,
		Status:            MemberStatusActive,
		JoinedAt:          now,
		SourceRequestID:   &request.ID,
	}

	member.AddDomainEvent(NewMemberCreatedEvent(member))
	return member, nil
}

// Resign marks the member as resigned. The member record stays on file.
func (m *Member) Resign() error {
	if m.Status == MemberStatusResigned {
		return shared.NewDomainError("INVALID_STATE", "Member has already resigned")
	}

	now := time.Now()
	m.Status = MemberStatusResigned
	m.ResignedAt = &now
	m.UpdatedAt = now
	m.IncrementVersion()
	return nil
}

// UpdateContact updates the member's contact details
func (m *Member) UpdateContact(email, phone, address string) error {
	if email != "" && !requestEmailRegex.MatchString(email) {
		return shared.NewDomainError("INVALID_INPUT", "Invalid email format")
	}
	if email != "" {
		m.Email = email
	}
	m.Phone = phone
	m.Address = address
	m.UpdatedAt = time.Now()
	m.IncrementVersion()
	return nil
}

// IsActive checks if the member is active
func (m *Member) IsActive() bool {
	return m.Status == MemberStatusActive
}
