package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	appmembership "github.com/vereinhub/backend/internal/application/membership"
	"github.com/vereinhub/backend/internal/domain/membership"
	"github.com/vereinhub/backend/internal/domain/shared"
)

func setupVoteRouter(handler *VoteHandler, actorID uuid.UUID, roles ...string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	authed := r.Group("/api/v1/membership")
	authed.Use(actorContext(actorID, roles...))
	authed.PUT("/requests/:id/votes", handler.CastVote)
	authed.GET("/requests/:id/votes", handler.ListVotes)
	authed.GET("/requests/:id/tally", handler.GetTally)
	return r
}

func newVoteHandlerStack(requestRepo *MockMembershipRequestRepository, voteRepo *MockBoardVoteRepository, userRepo *MockUserRepository) *VoteHandler {
	requestService := appmembership.NewRequestService(requestRepo, voteRepo, new(MockMemberRepository), userRepo)
	votingService := appmembership.NewVotingService(requestRepo, voteRepo, userRepo, requestService)
	return NewVoteHandler(votingService)
}

func newRequestUnderReview(t *testing.T) *membership.MembershipRequest {
	t.Helper()
	request := newPendingRequest(t)
	require.NoError(t, request.StartReview(uuid.New()))
	request.ClearDomainEvents()
	return request
}

func TestVoteHandler_CastVote_Success(t *testing.T) {
	request := newRequestUnderReview(t)
	actorID := uuid.New()

	requestRepo := new(MockMembershipRequestRepository)
	requestRepo.On("FindByID", mock.Anything, request.ID).Return(request, nil)

	voteRepo := new(MockBoardVoteRepository)
	voteRepo.On("FindByRequestAndMember", mock.Anything, request.ID, actorID).Return(nil, shared.ErrNotFound)
	voteRepo.On("Upsert", mock.Anything, mock.Anything).Return(nil)
	vote, err := membership.NewBoardVote(request.ID, actorID, membership.VoteChoiceApprove, "Looks good")
	require.NoError(t, err)
	voteRepo.On("FindByRequest", mock.Anything, request.ID).Return([]membership.BoardVote{*vote}, nil)

	userRepo := new(MockUserRepository)
	userRepo.On("CountActiveBoardMembers", mock.Anything).Return(int64(5), nil)

	handler := newVoteHandlerStack(requestRepo, voteRepo, userRepo)
	router := setupVoteRouter(handler, actorID, "board")

	body, _ := json.Marshal(appmembership.CastVoteRequest{Choice: "APPROVE", Comment: "Looks good"})
	req := httptest.NewRequest(http.MethodPut, "/api/v1/membership/requests/"+request.ID.String()+"/votes", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	data := response["data"].(map[string]interface{})
	voteData := data["vote"].(map[string]interface{})
	assert.Equal(t, "APPROVE", voteData["choice"])
	tallyData := data["tally"].(map[string]interface{})
	assert.Equal(t, float64(1), tallyData["approve"])
	assert.Equal(t, float64(5), tallyData["board_size"])
}

func TestVoteHandler_CastVote_NotBoardMember(t *testing.T) {
	request := newRequestUnderReview(t)
	actorID := uuid.New()

	handler := newVoteHandlerStack(new(MockMembershipRequestRepository), new(MockBoardVoteRepository), new(MockUserRepository))
	router := setupVoteRouter(handler, actorID, "editor")

	body, _ := json.Marshal(appmembership.CastVoteRequest{Choice: "APPROVE"})
	req := httptest.NewRequest(http.MethodPut, "/api/v1/membership/requests/"+request.ID.String()+"/votes", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestVoteHandler_CastVote_RequestClosed(t *testing.T) {
	request := newRequestUnderReview(t)
	actorID := uuid.New()
	require.NoError(t, request.Reject(actorID, "Incomplete application"))
	request.ClearDomainEvents()

	requestRepo := new(MockMembershipRequestRepository)
	requestRepo.On("FindByID", mock.Anything, request.ID).Return(request, nil)

	handler := newVoteHandlerStack(requestRepo, new(MockBoardVoteRepository), new(MockUserRepository))
	router := setupVoteRouter(handler, actorID, "board")

	body, _ := json.Marshal(appmembership.CastVoteRequest{Choice: "APPROVE"})
	req := httptest.NewRequest(http.MethodPut, "/api/v1/membership/requests/"+request.ID.String()+"/votes", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	errInfo := response["error"].(map[string]interface{})
	assert.Equal(t, "REQUEST_CLOSED", errInfo["code"])
}

func TestVoteHandler_CastVote_InvalidChoice(t *testing.T) {
	actorID := uuid.New()
	handler := newVoteHandlerStack(new(MockMembershipRequestRepository), new(MockBoardVoteRepository), new(MockUserRepository))
	router := setupVoteRouter(handler, actorID, "board")

	body, _ := json.Marshal(map[string]string{"choice": "MAYBE"})
	req := httptest.NewRequest(http.MethodPut, "/api/v1/membership/requests/"+uuid.New().String()+"/votes", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestVoteHandler_ListVotes_Success(t *testing.T) {
	request := newRequestUnderReview(t)
	actorID := uuid.New()

	voteA, err := membership.NewBoardVote(request.ID, uuid.New(), membership.VoteChoiceApprove, "")
	require.NoError(t, err)
	voteB, err := membership.NewBoardVote(request.ID, uuid.New(), membership.VoteChoiceReject, "")
	require.NoError(t, err)

	requestRepo := new(MockMembershipRequestRepository)
	requestRepo.On("FindByID", mock.Anything, request.ID).Return(request, nil)

	voteRepo := new(MockBoardVoteRepository)
	voteRepo.On("FindByRequest", mock.Anything, request.ID).Return([]membership.BoardVote{*voteA, *voteB}, nil)

	userRepo := new(MockUserRepository)
	userRepo.On("CountActiveBoardMembers", mock.Anything).Return(int64(3), nil)

	handler := newVoteHandlerStack(requestRepo, voteRepo, userRepo)
	router := setupVoteRouter(handler, actorID, "board")

	req := httptest.NewRequest(http.MethodGet, "/api/v1/membership/requests/"+request.ID.String()+"/votes", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	data := response["data"].(map[string]interface{})
	votes := data["votes"].([]interface{})
	assert.Len(t, votes, 2)
	tally := data["tally"].(map[string]interface{})
	assert.Equal(t, float64(1), tally["approve"])
	assert.Equal(t, float64(1), tally["reject"])
	// Two of three board members voted, which meets the majority quorum
	assert.Equal(t, true, tally["quorum_met"])
}

func TestVoteHandler_GetTally_QuorumNotMet(t *testing.T) {
	request := newRequestUnderReview(t)
	actorID := uuid.New()

	vote, err := membership.NewBoardVote(request.ID, uuid.New(), membership.VoteChoiceApprove, "")
	require.NoError(t, err)

	requestRepo := new(MockMembershipRequestRepository)
	requestRepo.On("FindByID", mock.Anything, request.ID).Return(request, nil)

	voteRepo := new(MockBoardVoteRepository)
	voteRepo.On("FindByRequest", mock.Anything, request.ID).Return([]membership.BoardVote{*vote}, nil)

	userRepo := new(MockUserRepository)
	userRepo.On("CountActiveBoardMembers", mock.Anything).Return(int64(7), nil)

	handler := newVoteHandlerStack(requestRepo, voteRepo, userRepo)
	router := setupVoteRouter(handler, actorID, "board")

	req := httptest.NewRequest(http.MethodGet, "/api/v1/membership/requests/"+request.ID.String()+"/tally", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	data := response["data"].(map[string]interface{})
	assert.Equal(t, false, data["quorum_met"])
	assert.Equal(t, float64(7), data["board_size"])
}
