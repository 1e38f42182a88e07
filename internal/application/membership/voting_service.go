package membership

import (
	"context"

	"github.com/vereinhub/backend/internal/domain/identity"
	"github.com/vereinhub/backend/internal/domain/membership"
	"github.com/vereinhub/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// VotingService handles board voting on membership requests
type VotingService struct {
	requests membership.MembershipRequestRepository
	votes    membership.BoardVoteRepository
	users    identity.UserRepository
	finalize *RequestService
}

// NewVotingService creates a new voting service. The request service is
// used to finalize requests when auto-finalization is enabled.
func NewVotingService(
	requests membership.MembershipRequestRepository,
	votes membership.BoardVoteRepository,
	users identity.UserRepository,
	requestService *RequestService,
) *VotingService {
	return &VotingService{
		requests: requests,
		votes:    votes,
		users:    users,
		finalize: requestService,
	}
}

// CastVote records or replaces a board member's vote on a request and
// returns the vote together with the fresh tally. A board member holds at
// most one vote per request; voting again overwrites the previous choice.
func (s *VotingService) CastVote(ctx context.Context, actor identity.Actor, requestID uuid.UUID, req CastVoteRequest) (*VoteResponse, *TallyResponse, error) {
	if !actor.IsBoardMember() {
		return nil, nil, shared.ErrForbidden
	}

	request, err := s.requests.FindByID(ctx, requestID)
	if err != nil {
		return nil, nil, err
	}
	if !request.Status.CanAcceptVotes() {
		return nil, nil, shared.NewDomainError("REQUEST_CLOSED",
			"Votes cannot be cast on a request in a terminal status")
	}

	choice := membership.VoteChoice(req.Choice)
	existing, err := s.votes.FindByRequestAndMember(ctx, requestID, actor.UserID)
	if err != nil && err != shared.ErrNotFound {
		return nil, nil, err
	}

	var vote *membership.BoardVote
	if existing != nil {
		if err := existing.Update(choice, req.Comment); err != nil {
			return nil, nil, err
		}
		vote = existing
	} else {
		vote, err = membership.NewBoardVote(requestID, actor.UserID, choice, req.Comment)
		if err != nil {
			return nil, nil, err
		}
	}

	if err := s.votes.Upsert(ctx, vote); err != nil {
		return nil, nil, err
	}

	tally, err := s.tally(ctx, request)
	if err != nil {
		return nil, nil, err
	}

	if s.finalize != nil && s.finalize.Policy().AutoFinalize && tally.QuorumMet {
		switch tally.Outcome {
		case membership.TallyOutcomeApprove:
			if _, err := s.finalize.ApproveRequest(ctx, actor, request); err != nil {
				return nil, nil, err
			}
		case membership.TallyOutcomeReject:
			if _, err := s.finalize.RejectRequest(ctx, actor, request, "Rejected by board vote"); err != nil {
				return nil, nil, err
			}
		}
	}

	voteResponse := ToVoteResponse(vote)
	tallyResponse := ToTallyResponse(tally)
	return &voteResponse, &tallyResponse, nil
}

// ListVotes returns all votes on a request together with the tally
func (s *VotingService) ListVotes(ctx context.Context, requestID uuid.UUID) ([]VoteResponse, *TallyResponse, error) {
	request, err := s.requests.FindByID(ctx, requestID)
	if err != nil {
		return nil, nil, err
	}

	votes, err := s.votes.FindByRequest(ctx, requestID)
	if err != nil {
		return nil, nil, err
	}

	responses := make([]VoteResponse, 0, len(votes))
	for i := range votes {
		responses = append(responses, ToVoteResponse(&votes[i]))
	}

	tally, err := s.tallyFromVotes(ctx, request, votes)
	if err != nil {
		return nil, nil, err
	}
	tallyResponse := ToTallyResponse(tally)
	return responses, &tallyResponse, nil
}

// Tally computes the fresh advisory tally for a request
func (s *VotingService) Tally(ctx context.Context, requestID uuid.UUID) (*TallyResponse, error) {
	request, err := s.requests.FindByID(ctx, requestID)
	if err != nil {
		return nil, err
	}

	tally, err := s.tally(ctx, request)
	if err != nil {
		return nil, err
	}
	response := ToTallyResponse(tally)
	return &response, nil
}

func (s *VotingService) tally(ctx context.Context, request *membership.MembershipRequest) (membership.VoteTally, error) {
	votes, err := s.votes.FindByRequest(ctx, request.ID)
	if err != nil {
		return membership.VoteTally{}, err
	}
	return s.tallyFromVotes(ctx, request, votes)
}

func (s *VotingService) tallyFromVotes(ctx context.Context, request *membership.MembershipRequest, votes []membership.BoardVote) (membership.VoteTally, error) {
	// Board size is read live so resignations immediately affect the quorum
	boardSize, err := s.users.CountActiveBoardMembers(ctx)
	if err != nil {
		return membership.VoteTally{}, err
	}

	quorumFraction := DefaultPolicy().QuorumFraction
	if s.finalize != nil {
		quorumFraction = s.finalize.Policy().QuorumFraction
	}
	return membership.NewVoteTally(request.ID, votes, int(boardSize), quorumFraction), nil
}
