package membership

import (
	"context"

	"github.com/vereinhub/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// MembershipRequestRepository defines the interface for membership request persistence
type MembershipRequestRepository interface {
	// FindByID retrieves a request by ID, including its votes
	FindByID(ctx context.Context, id uuid.UUID) (*MembershipRequest, error)

	// FindByRequestNumber retrieves a request by its human-readable number
	FindByRequestNumber(ctx context.Context, requestNumber string) (*MembershipRequest, error)

	// FindAll retrieves requests with filtering
	FindAll(ctx context.Context, filter shared.Filter) ([]MembershipRequest, error)

	// FindByStatus retrieves requests in a given status
	FindByStatus(ctx context.Context, status RequestStatus, filter shared.Filter) ([]MembershipRequest, error)

	// Save creates or updates a request
	Save(ctx context.Context, request *MembershipRequest) error

	// SaveWithLock updates a request with optimistic locking
	SaveWithLock(ctx context.Context, request *MembershipRequest) error

	// FinalizeApproval persists the approved request and the member it
	// produced in a single transaction, guarded by the request version
	FinalizeApproval(ctx context.Context, request *MembershipRequest, member *Member) error

	// Count returns the total number of requests matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// CountByStatus returns the number of requests in a given status
	CountByStatus(ctx context.Context, status RequestStatus) (int64, error)

	// ExistsByRequestNumber checks if a request number is taken
	ExistsByRequestNumber(ctx context.Context, requestNumber string) (bool, error)

	// ExistsOpenByEmail checks if the applicant already has a non-terminal request
	ExistsOpenByEmail(ctx context.Context, email string) (bool, error)

	// GenerateRequestNumber generates the next request number (MR-YYYY-NNNNN)
	GenerateRequestNumber(ctx context.Context) (string, error)
}

// BoardVoteRepository defines the interface for board vote persistence
type BoardVoteRepository interface {
	// FindByRequest retrieves all votes on a request
	FindByRequest(ctx context.Context, requestID uuid.UUID) ([]BoardVote, error)

	// FindByRequestAndMember retrieves a board member's vote on a request
	FindByRequestAndMember(ctx context.Context, requestID, boardMemberID uuid.UUID) (*BoardVote, error)

	// Upsert inserts the vote, or replaces the choice and comment when the
	// board member already voted on the request
	Upsert(ctx context.Context, vote *BoardVote) error

	// CountByRequest returns the number of votes on a request
	CountByRequest(ctx context.Context, requestID uuid.UUID) (int64, error)

	// CountsByRequestIDs returns per-choice vote counts for a set of requests
	CountsByRequestIDs(ctx context.Context, requestIDs []uuid.UUID) (map[uuid.UUID]VoteCounts, error)
}

// VoteCounts holds per-choice counts for list summaries
type VoteCounts struct {
	Approve int `json:"approve"`
	Reject  int `json:"reject"`
	Abstain int `json:"abstain"`
}

// MemberRepository defines the interface for member persistence
type MemberRepository interface {
	// FindByID retrieves a member by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Member, error)

	// FindByMemberNumber retrieves a member by its human-readable number
	FindByMemberNumber(ctx context.Context, memberNumber string) (*Member, error)

	// FindAll retrieves members with filtering
	FindAll(ctx context.Context, filter shared.Filter) ([]Member, error)

	// FindByStatus retrieves members in a given status
	FindByStatus(ctx context.Context, status MemberStatus, filter shared.Filter) ([]Member, error)

	// Save creates or updates a member
	Save(ctx context.Context, member *Member) error

	// Count returns the total number of members matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// ExistsByEmail checks if a member with the email exists
	ExistsByEmail(ctx context.Context, email string) (bool, error)

	// GenerateMemberNumber generates the next member number (M-YYYY-NNNNN)
	GenerateMemberNumber(ctx context.Context) (string, error)
}
