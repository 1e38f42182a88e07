package membership

import (
	"fmt"
	"math"
	"time"

	"github.com/vereinhub/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// VoteChoice represents a board member's position on a membership request
type VoteChoice string

const (
	VoteChoiceApprove VoteChoice = "APPROVE"
	VoteChoiceReject  VoteChoice = "REJECT"
	VoteChoiceAbstain VoteChoice = "ABSTAIN"
)

// IsValid checks if the vote choice is valid
func (c VoteChoice) IsValid() bool {
	switch c {
	case VoteChoiceApprove, VoteChoiceReject, VoteChoiceAbstain:
		return true
	}
	return false
}

// String returns the string representation
func (c VoteChoice) String() string {
	return string(c)
}

// BoardVote is a single board member's vote on a membership request.
// Each board member holds at most one vote per request; re-voting
// overwrites the previous choice.
type BoardVote struct {
	shared.BaseEntity
	RequestID     uuid.UUID
	BoardMemberID uuid.UUID
	Choice        VoteChoice
	Comment       string
}

// NewBoardVote creates a new board vote
func NewBoardVote(requestID, boardMemberID uuid.UUID, choice VoteChoice, comment string) (*BoardVote, error) {
	if !choice.IsValid() {
		return nil, shared.NewDomainError("INVALID_INPUT", fmt.Sprintf("Invalid vote choice: %s", choice))
	}
	if len(comment) > 2000 {
		return nil, shared.NewDomainError("INVALID_INPUT", "Vote comment must not exceed 2000 characters")
	}

	return &BoardVote{
		BaseEntity:    shared.NewBaseEntity(),
		RequestID:     requestID,
		BoardMemberID: boardMemberID,
		Choice:        choice,
		Comment:       comment,
	}, nil
}

// Update replaces the choice and comment of an existing vote
func (v *BoardVote) Update(choice VoteChoice, comment string) error {
	if !choice.IsValid() {
		return shared.NewDomainError("INVALID_INPUT", fmt.Sprintf("Invalid vote choice: %s", choice))
	}
	v.Choice = choice
	v.Comment = comment
	v.UpdatedAt = time.Now()
	return nil
}

// VoteTally aggregates the votes on a request against the live board size.
// The tally is advisory: it informs the reviewer but does not by itself
// finalize a request unless auto-finalization is enabled.
type VoteTally struct {
	RequestID    uuid.UUID `json:"request_id"`
	Approve      int       `json:"approve"`
	Reject       int       `json:"reject"`
	Abstain      int       `json:"abstain"`
	BoardSize    int       `json:"board_size"`
	Quorum       int       `json:"quorum"`
	QuorumMet    bool      `json:"quorum_met"`
	Outcome      string    `json:"outcome"`
}

// Tally outcomes
const (
	TallyOutcomeApprove   = "APPROVE"
	TallyOutcomeReject    = "REJECT"
	TallyOutcomeUndecided = "UNDECIDED"
)

// NewVoteTally computes the tally for a request.
// boardSize is the number of currently active board members, read at tally
// time. quorumFraction is the configured fraction of the board whose votes
// must be present; the quorum never drops below a strict majority.
func NewVoteTally(requestID uuid.UUID, votes []BoardVote, boardSize int, quorumFraction float64) VoteTally {
	tally := VoteTally{
		RequestID: requestID,
		BoardSize: boardSize,
		Outcome:   TallyOutcomeUndecided,
	}

	for _, v := range votes {
		switch v.Choice {
		case VoteChoiceApprove:
			tally.Approve++
		case VoteChoiceReject:
			tally.Reject++
		case VoteChoiceAbstain:
			tally.Abstain++
		}
	}

	if boardSize <= 0 {
		return tally
	}

	quorum := int(math.Ceil(quorumFraction * float64(boardSize)))
	if majority := boardSize/2 + 1; quorum < majority {
		quorum = majority
	}
	tally.Quorum = quorum

	cast := tally.Approve + tally.Reject + tally.Abstain
	tally.QuorumMet = cast >= quorum

	if !tally.QuorumMet {
		return tally
	}
	// Abstentions count towards quorum but not towards the outcome: a side
	// carries only with a strict majority of all cast votes.
	switch {
	case tally.Approve*2 > cast:
		tally.Outcome = TallyOutcomeApprove
	case tally.Reject*2 > cast:
		tally.Outcome = TallyOutcomeReject
	}
	return tally
}
