package membership

import (
	"context"
	"fmt"
	"time"

	"github.com/vereinhub/backend/internal/domain/identity"
	"github.com/vereinhub/backend/internal/domain/membership"
	"github.com/vereinhub/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Policy holds the governance settings for the membership workflow
type Policy struct {
	// QuorumFraction is the fraction of active board members whose votes
	// must be present before a tally is decisive. The effective quorum
	// never drops below a strict majority.
	QuorumFraction float64

	// AutoFinalize finalizes a request automatically once a decisive
	// tally is reached. Default is off: the tally stays advisory and a
	// reviewer finalizes explicitly.
	AutoFinalize bool

	// IdempotencyTTL is how long a submission idempotency key is remembered
	IdempotencyTTL time.Duration
}

// DefaultPolicy returns the default governance policy
func DefaultPolicy() Policy {
	return Policy{
		QuorumFraction: 0.5,
		AutoFinalize:   false,
		IdempotencyTTL: 24 * time.Hour,
	}
}

// RequestService handles membership request workflows
type RequestService struct {
	requests    membership.MembershipRequestRepository
	votes       membership.BoardVoteRepository
	members     membership.MemberRepository
	users       identity.UserRepository
	idempotency shared.IdempotencyStore
	publisher   shared.EventPublisher
	policy      Policy
}

// NewRequestService creates a new membership request service
func NewRequestService(
	requests membership.MembershipRequestRepository,
	votes membership.BoardVoteRepository,
	members membership.MemberRepository,
	users identity.UserRepository,
) *RequestService {
	return &RequestService{
		requests: requests,
		votes:    votes,
		members:  members,
		users:    users,
		policy:   DefaultPolicy(),
	}
}

// SetIdempotencyStore wires the store used to deduplicate submissions
func (s *RequestService) SetIdempotencyStore(store shared.IdempotencyStore) {
	s.idempotency = store
}

// SetEventPublisher wires the bus that receives workflow audit events
func (s *RequestService) SetEventPublisher(publisher shared.EventPublisher) {
	s.publisher = publisher
}

// SetPolicy overrides the governance policy
func (s *RequestService) SetPolicy(policy Policy) {
	if policy.QuorumFraction <= 0 || policy.QuorumFraction > 1 {
		policy.QuorumFraction = 0.5
	}
	if policy.IdempotencyTTL <= 0 {
		policy.IdempotencyTTL = 24 * time.Hour
	}
	s.policy = policy
}

// Policy returns the active governance policy
func (s *RequestService) Policy() Policy {
	return s.policy
}

// Submit creates a new membership request from a public application.
// Submission is unauthenticated; an optional idempotency key guards
// against duplicate form posts.
func (s *RequestService) Submit(ctx context.Context, req SubmitRequestRequest) (*RequestResponse, error) {
	if req.IdempotencyKey != "" && s.idempotency != nil {
		fresh, err := s.idempotency.MarkProcessed(ctx, "membership:submit:"+req.IdempotencyKey, s.policy.IdempotencyTTL)
		if err != nil {
			return nil, fmt.Errorf("failed to check idempotency key: %w", err)
		}
		if !fresh {
			return nil, shared.NewDomainError("ALREADY_EXISTS",
				"A request with this idempotency key was already submitted")
		}
	}

	open, err := s.requests.ExistsOpenByEmail(ctx, req.ApplicantEmail)
	if err != nil {
		return nil, err
	}
	if open {
		return nil, shared.NewDomainError("ALREADY_EXISTS",
			fmt.Sprintf("An open membership request for %s already exists", req.ApplicantEmail))
	}

	requestNumber, err := s.requests.GenerateRequestNumber(ctx)
	if err != nil {
		return nil, err
	}

	request, err := membership.NewMembershipRequest(requestNumber, req.ApplicantName, req.ApplicantEmail,
		membership.MemberType(req.RequestedType), req.Motivation)
	if err != nil {
		return nil, err
	}
	request.SetContactDetails(req.Phone, req.Address, req.ResidenceStatus)

	if err := s.requests.Save(ctx, request); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, request)

	response := ToRequestResponse(request)
	return &response, nil
}

// Get retrieves a request with its votes
func (s *RequestService) Get(ctx context.Context, id uuid.UUID) (*RequestResponse, error) {
	request, err := s.requests.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	response := ToRequestResponse(request)
	return &response, nil
}

// GetByNumber retrieves a request by its human-readable number
func (s *RequestService) GetByNumber(ctx context.Context, requestNumber string) (*RequestResponse, error) {
	request, err := s.requests.FindByRequestNumber(ctx, requestNumber)
	if err != nil {
		return nil, err
	}

	response := ToRequestResponse(request)
	return &response, nil
}

// List retrieves requests with pagination and per-request vote summaries
func (s *RequestService) List(ctx context.Context, page, pageSize int, status, search, orderBy, orderDir string) ([]RequestListResponse, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	if orderBy == "" {
		orderBy = "created_at"
	}
	if orderDir == "" {
		orderDir = "desc"
	}

	filter := shared.Filter{
		Page:     page,
		PageSize: pageSize,
		OrderBy:  orderBy,
		OrderDir: orderDir,
		Search:   search,
		Filters:  make(map[string]interface{}),
	}
	if status != "" {
		filter.Filters["status"] = status
	}

	requests, err := s.requests.FindAll(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.requests.Count(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	ids := make([]uuid.UUID, 0, len(requests))
	for i := range requests {
		ids = append(ids, requests[i].ID)
	}
	counts, err := s.votes.CountsByRequestIDs(ctx, ids)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]RequestListResponse, 0, len(requests))
	for i := range requests {
		responses = append(responses, ToRequestListResponse(&requests[i], counts[requests[i].ID]))
	}
	return responses, total, nil
}

// UpdateStatus performs a workflow transition on a request.
// The target status decides which transition runs; terminal requests
// reject every transition with INVALID_TRANSITION from the domain.
func (s *RequestService) UpdateStatus(ctx context.Context, actor identity.Actor, id uuid.UUID, req UpdateRequestStatusRequest) (*RequestResponse, error) {
	target := membership.RequestStatus(req.Status)
	if !target.IsValid() || target == membership.RequestStatusPending {
		return nil, shared.NewDomainError("INVALID_INPUT", fmt.Sprintf("Invalid target status: %s", req.Status))
	}

	if err := s.authorizeTransition(actor, target); err != nil {
		return nil, err
	}

	request, err := s.requests.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Notes != "" {
		request.SetAdminNotes(req.Notes)
	}

	switch target {
	case membership.RequestStatusUnderReview:
		if err := request.StartReview(actor.UserID); err != nil {
			return nil, err
		}
	case membership.RequestStatusInfoRequested:
		if err := request.RequestAdditionalInfo(actor.UserID, req.Message); err != nil {
			return nil, err
		}
	case membership.RequestStatusRejected:
		if err := request.Reject(actor.UserID, req.Reason); err != nil {
			return nil, err
		}
	case membership.RequestStatusWithdrawn:
		if err := request.Withdraw(actor.UserID); err != nil {
			return nil, err
		}
	case membership.RequestStatusApproved:
		return s.approve(ctx, actor, request)
	}

	if err := s.requests.SaveWithLock(ctx, request); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, request)

	response := ToRequestResponse(request)
	return &response, nil
}

// ApproveRequest finalizes a loaded request as approved, creating the member
// in the same transaction. Used by UpdateStatus and by vote auto-finalization.
func (s *RequestService) ApproveRequest(ctx context.Context, actor identity.Actor, request *membership.MembershipRequest) (*RequestResponse, error) {
	return s.approve(ctx, actor, request)
}

// RejectRequest finalizes a loaded request as rejected.
// Used by vote auto-finalization.
func (s *RequestService) RejectRequest(ctx context.Context, actor identity.Actor, request *membership.MembershipRequest, reason string) (*RequestResponse, error) {
	if err := request.Reject(actor.UserID, reason); err != nil {
		return nil, err
	}
	if err := s.requests.SaveWithLock(ctx, request); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, request)
	response := ToRequestResponse(request)
	return &response, nil
}

func (s *RequestService) approve(ctx context.Context, actor identity.Actor, request *membership.MembershipRequest) (*RequestResponse, error) {
	if err := request.Approve(actor.UserID); err != nil {
		return nil, err
	}

	memberNumber, err := s.members.GenerateMemberNumber(ctx)
	if err != nil {
		return nil, err
	}
	member, err := membership.NewMemberFromRequest(memberNumber, request)
	if err != nil {
		return nil, err
	}
	if err := request.LinkMember(member.ID); err != nil {
		return nil, err
	}

	// Request update, member insert and version check run in one transaction
	if err := s.requests.FinalizeApproval(ctx, request, member); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, request)
	s.publishEvents(ctx, member)

	response := ToRequestResponse(request)
	return &response, nil
}

// publishEvents drains the aggregate's pending events onto the bus.
// Audit publication is best effort and never fails the workflow.
func (s *RequestService) publishEvents(ctx context.Context, aggregate shared.AggregateRoot) {
	if s.publisher == nil {
		return
	}
	events := aggregate.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	_ = s.publisher.Publish(ctx, events...)
	aggregate.ClearDomainEvents()
}

func (s *RequestService) authorizeTransition(actor identity.Actor, target membership.RequestStatus) error {
	switch target {
	case membership.RequestStatusWithdrawn:
		// Applicants have no accounts; withdrawals arrive through an admin
		if !actor.IsAdmin() {
			return shared.ErrForbidden
		}
	case membership.RequestStatusApproved, membership.RequestStatusRejected:
		// Board votes are advisory; only an admin finalizes
		if !actor.IsAdmin() {
			return shared.ErrForbidden
		}
	default:
		if !actor.IsAdmin() && !actor.IsBoardMember() {
			return shared.ErrForbidden
		}
	}
	return nil
}
