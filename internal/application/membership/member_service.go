package membership

import (
	"context"

	"github.com/vereinhub/backend/internal/domain/membership"
	"github.com/vereinhub/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// MemberService handles member queries and lifecycle operations.
// Members are only ever created through request approval; this service
// never constructs them directly.
type MemberService struct {
	members membership.MemberRepository
}

// NewMemberService creates a new member service
func NewMemberService(members membership.MemberRepository) *MemberService {
	return &MemberService{members: members}
}

// Get retrieves a member by ID
func (s *MemberService) Get(ctx context.Context, id uuid.UUID) (*MemberResponse, error) {
	member, err := s.members.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	response := ToMemberResponse(member)
	return &response, nil
}

// GetByNumber retrieves a member by its member number
func (s *MemberService) GetByNumber(ctx context.Context, memberNumber string) (*MemberResponse, error) {
	member, err := s.members.FindByMemberNumber(ctx, memberNumber)
	if err != nil {
		return nil, err
	}

	response := ToMemberResponse(member)
	return &response, nil
}

// List retrieves members with pagination
func (s *MemberService) List(ctx context.Context, page, pageSize int, status, search string) ([]MemberResponse, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	filter := shared.Filter{
		Page:     page,
		PageSize: pageSize,
		OrderBy:  "created_at",
		OrderDir: "desc",
		Search:   search,
		Filters:  make(map[string]interface{}),
	}
	if status != "" {
		filter.Filters["status"] = status
	}

	members, err := s.members.FindAll(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.members.Count(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]MemberResponse, 0, len(members))
	for i := range members {
		responses = append(responses, ToMemberResponse(&members[i]))
	}
	return responses, total, nil
}

// Resign marks a member as resigned; the record stays on file
func (s *MemberService) Resign(ctx context.Context, id uuid.UUID) (*MemberResponse, error) {
	member, err := s.members.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := member.Resign(); err != nil {
		return nil, err
	}
	if err := s.members.Save(ctx, member); err != nil {
		return nil, err
	}

	response := ToMemberResponse(member)
	return &response, nil
}
