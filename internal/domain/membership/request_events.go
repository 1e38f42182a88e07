package membership

import (
	"github.com/vereinhub/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Aggregate type constants
const (
	AggregateTypeMembershipRequest = "MembershipRequest"
	AggregateTypeMember            = "Member"
)

// Membership request domain event types
const (
	EventTypeRequestSubmitted     = "MembershipRequestSubmitted"
	EventTypeRequestStatusChanged = "MembershipRequestStatusChanged"
	EventTypeRequestApproved      = "MembershipRequestApproved"
	EventTypeRequestRejected      = "MembershipRequestRejected"
	EventTypeVoteCast             = "BoardVoteCast"
	EventTypeMemberCreated        = "MemberCreated"
)

// RequestSubmittedEvent is published when a membership request is submitted
type RequestSubmittedEvent struct {
	shared.BaseDomainEvent
	RequestID      uuid.UUID  `json:"request_id"`
	RequestNumber  string     `json:"request_number"`
	ApplicantName  string     `json:"applicant_name"`
	ApplicantEmail string     `json:"applicant_email"`
	RequestedType  MemberType `json:"requested_type"`
}

// NewRequestSubmittedEvent creates a new RequestSubmittedEvent
func NewRequestSubmittedEvent(r *MembershipRequest) *RequestSubmittedEvent {
	return &RequestSubmittedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeRequestSubmitted, AggregateTypeMembershipRequest, r.ID),
		RequestID:       r.ID,
		RequestNumber:   r.RequestNumber,
		ApplicantName:   r.ApplicantName,
		ApplicantEmail:  r.ApplicantEmail,
		RequestedType:   r.RequestedType,
	}
}

// EventType returns the event type
func (e *RequestSubmittedEvent) EventType() string {
	return EventTypeRequestSubmitted
}

// RequestStatusChangedEvent is published on any non-terminal workflow transition
type RequestStatusChangedEvent struct {
	shared.BaseDomainEvent
	RequestID     uuid.UUID     `json:"request_id"`
	RequestNumber string        `json:"request_number"`
	NewStatus     RequestStatus `json:"new_status"`
}

// NewRequestStatusChangedEvent creates a new RequestStatusChangedEvent
func NewRequestStatusChangedEvent(r *MembershipRequest, newStatus RequestStatus) *RequestStatusChangedEvent {
	return &RequestStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeRequestStatusChanged, AggregateTypeMembershipRequest, r.ID),
		RequestID:       r.ID,
		RequestNumber:   r.RequestNumber,
		NewStatus:       newStatus,
	}
}

// EventType returns the event type
func (e *RequestStatusChangedEvent) EventType() string {
	return EventTypeRequestStatusChanged
}

// RequestApprovedEvent is published when a request is approved
type RequestApprovedEvent struct {
	shared.BaseDomainEvent
	RequestID     uuid.UUID  `json:"request_id"`
	RequestNumber string     `json:"request_number"`
	ApprovedBy    *uuid.UUID `json:"approved_by"`
}

// NewRequestApprovedEvent creates a new RequestApprovedEvent
func NewRequestApprovedEvent(r *MembershipRequest) *RequestApprovedEvent {
	return &RequestApprovedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeRequestApproved, AggregateTypeMembershipRequest, r.ID),
		RequestID:       r.ID,
		RequestNumber:   r.RequestNumber,
		ApprovedBy:      r.ApprovedBy,
	}
}

// EventType returns the event type
func (e *RequestApprovedEvent) EventType() string {
	return EventTypeRequestApproved
}

// RequestRejectedEvent is published when a request is rejected
type RequestRejectedEvent struct {
	shared.BaseDomainEvent
	RequestID     uuid.UUID  `json:"request_id"`
	RequestNumber string     `json:"request_number"`
	RejectedBy    *uuid.UUID `json:"rejected_by"`
	Reason        string     `json:"reason"`
}

// NewRequestRejectedEvent creates a new RequestRejectedEvent
func NewRequestRejectedEvent(r *MembershipRequest) *RequestRejectedEvent {
	return &RequestRejectedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeRequestRejected, AggregateTypeMembershipRequest, r.ID),
		RequestID:       r.ID,
		RequestNumber:   r.RequestNumber,
		RejectedBy:      r.RejectedBy,
		Reason:          r.RejectionReason,
	}
}

// EventType returns the event type
func (e *RequestRejectedEvent) EventType() string {
	return EventTypeRequestRejected
}

// VoteCastEvent is published when a board member casts or changes a vote
type VoteCastEvent struct {
	shared.BaseDomainEvent
	RequestID     uuid.UUID `json:"request_id"`
	BoardMemberID uuid.UUID `json:"board_member_id"`
	Choice        VoteChoice `json:"choice"`
}

// NewVoteCastEvent creates a new VoteCastEvent
func NewVoteCastEvent(v *BoardVote) *VoteCastEvent {
	return &VoteCastEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeVoteCast, AggregateTypeMembershipRequest, v.RequestID),
		RequestID:       v.RequestID,
		BoardMemberID:   v.BoardMemberID,
		Choice:          v.Choice,
	}
}

// EventType returns the event type
func (e *VoteCastEvent) EventType() string {
	return EventTypeVoteCast
}

// MemberCreatedEvent is published when an approval creates a member record
type MemberCreatedEvent struct {
	shared.BaseDomainEvent
	MemberID     uuid.UUID  `json:"member_id"`
	MemberNumber string     `json:"member_number"`
	RequestID    *uuid.UUID `json:"request_id,omitempty"`
}

// NewMemberCreatedEvent creates a new MemberCreatedEvent
func NewMemberCreatedEvent(m *Member) *MemberCreatedEvent {
	return &MemberCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeMemberCreated, AggregateTypeMember, m.ID),
		MemberID:        m.ID,
		MemberNumber:    m.MemberNumber,
		RequestID:       m.SourceRequestID,
	}
}

// EventType returns the event type
func (e *MemberCreatedEvent) EventType() string {
	return EventTypeMemberCreated
}
