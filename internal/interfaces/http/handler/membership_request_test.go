package handler

import (
	"bytes"
	"context"
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

// MockMembershipRequestRepository is a mock implementation of membership.MembershipRequestRepository
type MockMembershipRequestRepository struct {
	mock.Mock
}

var _ membership.MembershipRequestRepository = (*MockMembershipRequestRepository)(nil)

func (m *MockMembershipRequestRepository) FindByID(ctx context.Context, id uuid.UUID) (*membership.MembershipRequest, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*membership.MembershipRequest), args.Error(1)
}

func (m *MockMembershipRequestRepository) FindByRequestNumber(ctx context.Context, requestNumber string) (*membership.MembershipRequest, error) {
	args := m.Called(ctx, requestNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*membership.MembershipRequest), args.Error(1)
}

func (m *MockMembershipRequestRepository) FindAll(ctx context.Context, filter shared.Filter) ([]membership.MembershipRequest, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]membership.MembershipRequest), args.Error(1)
}

func (m *MockMembershipRequestRepository) FindByStatus(ctx context.Context, status membership.RequestStatus, filter shared.Filter) ([]membership.MembershipRequest, error) {
	args := m.Called(ctx, status, filter)
	return args.Get(0).([]membership.MembershipRequest), args.Error(1)
}

func (m *MockMembershipRequestRepository) Save(ctx context.Context, request *membership.MembershipRequest) error {
	args := m.Called(ctx, request)
	return args.Error(0)
}

func (m *MockMembershipRequestRepository) SaveWithLock(ctx context.Context, request *membership.MembershipRequest) error {
	args := m.Called(ctx, request)
	return args.Error(0)
}

func (m *MockMembershipRequestRepository) FinalizeApproval(ctx context.Context, request *membership.MembershipRequest, member *membership.Member) error {
	args := m.Called(ctx, request, member)
	return args.Error(0)
}

func (m *MockMembershipRequestRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockMembershipRequestRepository) CountByStatus(ctx context.Context, status membership.RequestStatus) (int64, error) {
	args := m.Called(ctx, status)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockMembershipRequestRepository) ExistsByRequestNumber(ctx context.Context, requestNumber string) (bool, error) {
	args := m.Called(ctx, requestNumber)
	return args.Bool(0), args.Error(1)
}

func (m *MockMembershipRequestRepository) ExistsOpenByEmail(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func (m *MockMembershipRequestRepository) GenerateRequestNumber(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

// MockBoardVoteRepository is a mock implementation of membership.BoardVoteRepository
type MockBoardVoteRepository struct {
	mock.Mock
}

var _ membership.BoardVoteRepository = (*MockBoardVoteRepository)(nil)

func (m *MockBoardVoteRepository) FindByRequest(ctx context.Context, requestID uuid.UUID) ([]membership.BoardVote, error) {
	args := m.Called(ctx, requestID)
	return args.Get(0).([]membership.BoardVote), args.Error(1)
}

func (m *MockBoardVoteRepository) FindByRequestAndMember(ctx context.Context, requestID, boardMemberID uuid.UUID) (*membership.BoardVote, error) {
	args := m.Called(ctx, requestID, boardMemberID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*membership.BoardVote), args.Error(1)
}

func (m *MockBoardVoteRepository) Upsert(ctx context.Context, vote *membership.BoardVote) error {
	args := m.Called(ctx, vote)
	return args.Error(0)
}

func (m *MockBoardVoteRepository) CountByRequest(ctx context.Context, requestID uuid.UUID) (int64, error) {
	args := m.Called(ctx, requestID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockBoardVoteRepository) CountsByRequestIDs(ctx context.Context, requestIDs []uuid.UUID) (map[uuid.UUID]membership.VoteCounts, error) {
	args := m.Called(ctx, requestIDs)
	return args.Get(0).(map[uuid.UUID]membership.VoteCounts), args.Error(1)
}

// MockMemberRepository is a mock implementation of membership.MemberRepository
type MockMemberRepository struct {
	mock.Mock
}

var _ membership.MemberRepository = (*MockMemberRepository)(nil)

func (m *MockMemberRepository) FindByID(ctx context.Context, id uuid.UUID) (*membership.Member, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*membership.Member), args.Error(1)
}

func (m *MockMemberRepository) FindByMemberNumber(ctx context.Context, memberNumber string) (*membership.Member, error) {
	args := m.Called(ctx, memberNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*membership.Member), args.Error(1)
}

func (m *MockMemberRepository) FindAll(ctx context.Context, filter shared.Filter) ([]membership.Member, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]membership.Member), args.Error(1)
}

func (m *MockMemberRepository) FindByStatus(ctx context.Context, status membership.MemberStatus, filter shared.Filter) ([]membership.Member, error) {
	args := m.Called(ctx, status, filter)
	return args.Get(0).([]membership.Member), args.Error(1)
}

func (m *MockMemberRepository) Save(ctx context.Context, member *membership.Member) error {
	args := m.Called(ctx, member)
	return args.Error(0)
}

func (m *MockMemberRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockMemberRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func (m *MockMemberRepository) GenerateMemberNumber(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

// actorContext injects JWT context values so getActor succeeds without tokens
func actorContext(userID uuid.UUID, roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("jwt_user_id", userID.String())
		c.Set("jwt_username", "testuser")
		c.Set("jwt_roles", roles)
		c.Next()
	}
}

func newRequestServiceForHandler(requestRepo *MockMembershipRequestRepository, voteRepo *MockBoardVoteRepository, memberRepo *MockMemberRepository, userRepo *MockUserRepository) *appmembership.RequestService {
	return appmembership.NewRequestService(requestRepo, voteRepo, memberRepo, userRepo)
}

func setupRequestRouter(handler *MembershipRequestHandler, actorID uuid.UUID, roles ...string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/api/v1/membership/requests", handler.Submit)
	r.GET("/api/v1/membership/requests", handler.List)
	r.GET("/api/v1/membership/requests/:id", handler.GetByID)
	r.GET("/api/v1/membership/requests/number/:number", handler.GetByNumber)

	authed := r.Group("/api/v1/membership")
	authed.Use(actorContext(actorID, roles...))
	authed.PATCH("/requests/:id/status", handler.UpdateStatus)
	return r
}

func newPendingRequest(t *testing.T) *membership.MembershipRequest {
	t.Helper()
	request, err := membership.NewMembershipRequest("MR-2026-00001", "Ada Example", "ada@example.org",
		membership.MemberTypeRegular, "I would like to join")
	require.NoError(t, err)
	request.ClearDomainEvents()
	return request
}

func TestMembershipRequestHandler_Submit_Success(t *testing.T) {
	requestRepo := new(MockMembershipRequestRepository)
	requestRepo.On("ExistsOpenByEmail", mock.Anything, "ada@example.org").Return(false, nil)
	requestRepo.On("GenerateRequestNumber", mock.Anything).Return("MR-2026-00001", nil)
	requestRepo.On("Save", mock.Anything, mock.Anything).Return(nil)

	service := newRequestServiceForHandler(requestRepo, new(MockBoardVoteRepository), new(MockMemberRepository), new(MockUserRepository))
	handler := NewMembershipRequestHandler(service)
	router := setupRequestRouter(handler, uuid.New(), "admin")

	body, _ := json.Marshal(appmembership.SubmitRequestRequest{
		ApplicantName:  "Ada Example",
		ApplicantEmail: "ada@example.org",
		RequestedType:  "REGULAR",
		Motivation:     "I would like to join",
	})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/membership/requests", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.True(t, response["success"].(bool))
	data := response["data"].(map[string]interface{})
	assert.Equal(t, "MR-2026-00001", data["request_number"])
	assert.Equal(t, "PENDING", data["status"])
	requestRepo.AssertExpectations(t)
}

func TestMembershipRequestHandler_Submit_InvalidType(t *testing.T) {
	service := newRequestServiceForHandler(new(MockMembershipRequestRepository), new(MockBoardVoteRepository), new(MockMemberRepository), new(MockUserRepository))
	handler := NewMembershipRequestHandler(service)
	router := setupRequestRouter(handler, uuid.New())

	body, _ := json.Marshal(map[string]string{
		"applicant_name":  "Ada Example",
		"applicant_email": "ada@example.org",
		"requested_type":  "LIFETIME",
	})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/membership/requests", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestMembershipRequestHandler_Submit_DuplicateOpenRequest(t *testing.T) {
	requestRepo := new(MockMembershipRequestRepository)
	requestRepo.On("ExistsOpenByEmail", mock.Anything, "ada@example.org").Return(true, nil)

	service := newRequestServiceForHandler(requestRepo, new(MockBoardVoteRepository), new(MockMemberRepository), new(MockUserRepository))
	handler := NewMembershipRequestHandler(service)
	router := setupRequestRouter(handler, uuid.New())

	body, _ := json.Marshal(appmembership.SubmitRequestRequest{
		ApplicantName:  "Ada Example",
		ApplicantEmail: "ada@example.org",
		RequestedType:  "REGULAR",
	})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/membership/requests", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestMembershipRequestHandler_GetByID_Success(t *testing.T) {
	request := newPendingRequest(t)

	requestRepo := new(MockMembershipRequestRepository)
	requestRepo.On("FindByID", mock.Anything, request.ID).Return(request, nil)

	service := newRequestServiceForHandler(requestRepo, new(MockBoardVoteRepository), new(MockMemberRepository), new(MockUserRepository))
	handler := NewMembershipRequestHandler(service)
	router := setupRequestRouter(handler, uuid.New())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/membership/requests/"+request.ID.String(), nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	data := response["data"].(map[string]interface{})
	assert.Equal(t, "Ada Example", data["applicant_name"])
}

func TestMembershipRequestHandler_GetByID_InvalidUUID(t *testing.T) {
	service := newRequestServiceForHandler(new(MockMembershipRequestRepository), new(MockBoardVoteRepository), new(MockMemberRepository), new(MockUserRepository))
	handler := NewMembershipRequestHandler(service)
	router := setupRequestRouter(handler, uuid.New())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/membership/requests/not-a-uuid", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestMembershipRequestHandler_GetByID_NotFound(t *testing.T) {
	id := uuid.New()
	requestRepo := new(MockMembershipRequestRepository)
	requestRepo.On("FindByID", mock.Anything, id).Return(nil, shared.ErrNotFound)

	service := newRequestServiceForHandler(requestRepo, new(MockBoardVoteRepository), new(MockMemberRepository), new(MockUserRepository))
	handler := NewMembershipRequestHandler(service)
	router := setupRequestRouter(handler, uuid.New())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/membership/requests/"+id.String(), nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestMembershipRequestHandler_UpdateStatus_StartReview(t *testing.T) {
	request := newPendingRequest(t)
	actorID := uuid.New()

	requestRepo := new(MockMembershipRequestRepository)
	requestRepo.On("FindByID", mock.Anything, request.ID).Return(request, nil)
	requestRepo.On("SaveWithLock", mock.Anything, request).Return(nil)

	service := newRequestServiceForHandler(requestRepo, new(MockBoardVoteRepository), new(MockMemberRepository), new(MockUserRepository))
	handler := NewMembershipRequestHandler(service)
	router := setupRequestRouter(handler, actorID, "board")

	body, _ := json.Marshal(appmembership.UpdateRequestStatusRequest{Status: "UNDER_REVIEW"})
	req := httptest.NewRequest(http.MethodPatch, "/api/v1/membership/requests/"+request.ID.String()+"/status", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	data := response["data"].(map[string]interface{})
	assert.Equal(t, "UNDER_REVIEW", data["status"])
}

func TestMembershipRequestHandler_UpdateStatus_InvalidTransition(t *testing.T) {
	// Requesting additional info from PENDING skips the review step
	request := newPendingRequest(t)
	actorID := uuid.New()

	requestRepo := new(MockMembershipRequestRepository)
	requestRepo.On("FindByID", mock.Anything, request.ID).Return(request, nil)

	service := newRequestServiceForHandler(requestRepo, new(MockBoardVoteRepository), new(MockMemberRepository), new(MockUserRepository))
	handler := NewMembershipRequestHandler(service)
	router := setupRequestRouter(handler, actorID, "admin")

	body, _ := json.Marshal(appmembership.UpdateRequestStatusRequest{Status: "ADDITIONAL_INFO_REQUESTED", Message: "Please send documents"})
	req := httptest.NewRequest(http.MethodPatch, "/api/v1/membership/requests/"+request.ID.String()+"/status", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	errInfo := response["error"].(map[string]interface{})
	assert.Equal(t, "INVALID_TRANSITION", errInfo["code"])
}

func TestMembershipRequestHandler_UpdateStatus_BoardCannotFinalize(t *testing.T) {
	request := newPendingRequest(t)
	actorID := uuid.New()

	service := newRequestServiceForHandler(new(MockMembershipRequestRepository), new(MockBoardVoteRepository), new(MockMemberRepository), new(MockUserRepository))
	handler := NewMembershipRequestHandler(service)
	router := setupRequestRouter(handler, actorID, "board")

	body, _ := json.Marshal(appmembership.UpdateRequestStatusRequest{Status: "APPROVED"})
	req := httptest.NewRequest(http.MethodPatch, "/api/v1/membership/requests/"+request.ID.String()+"/status", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestMembershipRequestHandler_UpdateStatus_ForbiddenWithoutRole(t *testing.T) {
	request := newPendingRequest(t)
	actorID := uuid.New()

	service := newRequestServiceForHandler(new(MockMembershipRequestRepository), new(MockBoardVoteRepository), new(MockMemberRepository), new(MockUserRepository))
	handler := NewMembershipRequestHandler(service)
	router := setupRequestRouter(handler, actorID, "editor")

	body, _ := json.Marshal(appmembership.UpdateRequestStatusRequest{Status: "UNDER_REVIEW"})
	req := httptest.NewRequest(http.MethodPatch, "/api/v1/membership/requests/"+request.ID.String()+"/status", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestMembershipRequestHandler_UpdateStatus_Approve(t *testing.T) {
	request := newPendingRequest(t)
	actorID := uuid.New()
	require.NoError(t, request.StartReview(actorID))
	request.ClearDomainEvents()

	requestRepo := new(MockMembershipRequestRepository)
	requestRepo.On("FindByID", mock.Anything, request.ID).Return(request, nil)
	requestRepo.On("FinalizeApproval", mock.Anything, request, mock.Anything).Return(nil)

	memberRepo := new(MockMemberRepository)
	memberRepo.On("GenerateMemberNumber", mock.Anything).Return("M-2026-00001", nil)

	service := newRequestServiceForHandler(requestRepo, new(MockBoardVoteRepository), memberRepo, new(MockUserRepository))
	handler := NewMembershipRequestHandler(service)
	router := setupRequestRouter(handler, actorID, "admin")

	body, _ := json.Marshal(appmembership.UpdateRequestStatusRequest{Status: "APPROVED"})
	req := httptest.NewRequest(http.MethodPatch, "/api/v1/membership/requests/"+request.ID.String()+"/status", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	data := response["data"].(map[string]interface{})
	assert.Equal(t, "APPROVED", data["status"])
	assert.NotEmpty(t, data["created_member_id"])
	requestRepo.AssertExpectations(t)
	memberRepo.AssertExpectations(t)
}
