package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/vereinhub/backend/internal/application/membership"
	"github.com/vereinhub/backend/internal/interfaces/http/middleware"
)

// VoteHandler handles board voting endpoints on membership requests
type VoteHandler struct {
	BaseHandler
	votingService *membership.VotingService
}

// NewVoteHandler creates a new vote handler
func NewVoteHandler(votingService *membership.VotingService) *VoteHandler {
	return &VoteHandler{votingService: votingService}
}

// CastVoteResult bundles the recorded vote with the resulting tally
type CastVoteResult struct {
	Vote  *membership.VoteResponse  `json:"vote"`
	Tally *membership.TallyResponse `json:"tally"`
}

// VoteListResult bundles the vote list with the current tally
type VoteListResult struct {
	Votes []membership.VoteResponse `json:"votes"`
	Tally *membership.TallyResponse `json:"tally"`
}

// CastVote handles casting or changing a board member's vote
// @Summary Cast vote
// @Description Cast a vote on a membership request. A board member voting
// @Description again replaces their previous vote.
// @Tags votes
// @Accept json
// @Produce json
// @Param id path string true "Request ID"
// @Param request body membership.CastVoteRequest true "Vote choice"
// @Success 200 {object} APIResponse[CastVoteResult]
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Security BearerAuth
// @Router /membership/requests/{id}/votes [put]
func (h *VoteHandler) CastVote(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	requestID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid request ID")
		return
	}

	var req membership.CastVoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.RespondBindError(c, err)
		return
	}

	vote, tally, err := h.votingService.CastVote(c.Request.Context(), actor, requestID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, CastVoteResult{Vote: vote, Tally: tally})
}

// ListVotes handles listing all votes on a membership request
// @Summary List votes
// @Description List all board votes on a membership request with the tally
// @Tags votes
// @Produce json
// @Param id path string true "Request ID"
// @Success 200 {object} APIResponse[VoteListResult]
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /membership/requests/{id}/votes [get]
func (h *VoteHandler) ListVotes(c *gin.Context) {
	requestID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid request ID")
		return
	}

	votes, tally, err := h.votingService.ListVotes(c.Request.Context(), requestID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, VoteListResult{Votes: votes, Tally: tally})
}

// GetTally handles fetching the current vote tally
// @Summary Get vote tally
// @Description Get the current vote tally and advisory quorum for a request
// @Tags votes
// @Produce json
// @Param id path string true "Request ID"
// @Success 200 {object} APIResponse[membership.TallyResponse]
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /membership/requests/{id}/tally [get]
func (h *VoteHandler) GetTally(c *gin.Context) {
	requestID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid request ID")
		return
	}

	tally, err := h.votingService.Tally(c.Request.Context(), requestID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, tally)
}
