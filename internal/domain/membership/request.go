package membership

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/vereinhub/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// RequestStatus represents the status of a membership request
type RequestStatus string

const (
	RequestStatusPending       RequestStatus = "PENDING"
	RequestStatusUnderReview   RequestStatus = "UNDER_REVIEW"
	RequestStatusInfoRequested RequestStatus = "ADDITIONAL_INFO_REQUESTED"
	RequestStatusApproved      RequestStatus = "APPROVED"
	RequestStatusRejected      RequestStatus = "REJECTED"
	RequestStatusWithdrawn     RequestStatus = "WITHDRAWN"
)

// IsValid checks if the status is valid
func (s RequestStatus) IsValid() bool {
	switch s {
	case RequestStatusPending, RequestStatusUnderReview, RequestStatusInfoRequested,
		RequestStatusApproved, RequestStatusRejected, RequestStatusWithdrawn:
		return true
	}
	return false
}

// String returns the string representation
func (s RequestStatus) String() string {
	return string(s)
}

// CanTransitionTo checks if transition to target status is allowed
func (s RequestStatus) CanTransitionTo(target RequestStatus) bool {
	switch s {
	case RequestStatusPending:
		return target == RequestStatusUnderReview || target == RequestStatusApproved ||
			target == RequestStatusRejected || target == RequestStatusWithdrawn
	case RequestStatusUnderReview:
		return target == RequestStatusInfoRequested || target == RequestStatusApproved ||
			target == RequestStatusRejected || target == RequestStatusWithdrawn
	case RequestStatusInfoRequested:
		return target == RequestStatusUnderReview || target == RequestStatusWithdrawn
	case RequestStatusApproved, RequestStatusRejected, RequestStatusWithdrawn:
		return false // Terminal states
	}
	return false
}

// IsTerminal checks if the status is terminal
func (s RequestStatus) IsTerminal() bool {
	return s == RequestStatusApproved || s == RequestStatusRejected || s == RequestStatusWithdrawn
}

// CanAcceptVotes checks if board votes may be cast in this status
func (s RequestStatus) CanAcceptVotes() bool {
	return !s.IsTerminal()
}

// MemberType represents the type of membership being requested
type MemberType string

const (
	MemberTypeRegular    MemberType = "REGULAR"
	MemberTypeSupporting MemberType = "SUPPORTING"
	MemberTypeHonorary   MemberType = "HONORARY"
)

// IsValid checks if the member type is valid
func (t MemberType) IsValid() bool {
	switch t {
	case MemberTypeRegular, MemberTypeSupporting, MemberTypeHonorary:
		return true
	}
	return false
}

// String returns the string representation
func (t MemberType) String() string {
	return string(t)
}

var requestEmailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// MembershipRequest is the aggregate root for a membership application.
// Requests move through a review workflow and are never physically deleted;
// terminal requests stay on record for auditing.
type MembershipRequest struct {
	shared.BaseAggregateRoot
	RequestNumber   string
	ApplicantName   string
	ApplicantEmail  string
	Phone           string
	Address         string
	ResidenceStatus string
	RequestedType   MemberType
	Motivation      string
	Status          RequestStatus

	ReviewedBy *uuid.UUID
	ReviewedAt *time.Time

	InfoRequestedAt    *time.Time
	InfoRequestMessage string

	ApprovedBy *uuid.UUID
	ApprovedAt *time.Time

	RejectedBy      *uuid.UUID
	RejectedAt      *time.Time
	RejectionReason string

	WithdrawnBy *uuid.UUID
	WithdrawnAt *time.Time

	AdminNotes string

	// CreatedMemberID is set exactly once, when approval creates the member record
	CreatedMemberID *uuid.UUID

	Votes []BoardVote
}

// NewMembershipRequest creates a new membership request in PENDING status
func NewMembershipRequest(requestNumber, applicantName, applicantEmail string, requestedType MemberType, motivation string) (*MembershipRequest, error) {
	if strings.TrimSpace(requestNumber) == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Request number is required")
	}
	if strings.TrimSpace(applicantName) == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Applicant name is required")
	}
	if len(applicantName) > 200 {
		return nil, shared.NewDomainError("INVALID_INPUT", "Applicant name must not exceed 200 characters")
	}
	if !requestEmailRegex.MatchString(applicantEmail) {
		return nil, shared.NewDomainError("INVALID_INPUT", "Invalid applicant email format")
	}
	if !requestedType.IsValid() {
		return nil, shared.NewDomainError("INVALID_INPUT", fmt.Sprintf("Invalid member type: %s", requestedType))
	}

	request := &MembershipRequest{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		RequestNumber:     requestNumber,
		ApplicantName:     applicantName,
		ApplicantEmail:    applicantEmail,
		RequestedType:     requestedType,
		Motivation:        motivation,
		Status:            RequestStatusPending,
		Votes:             make([]BoardVote, 0),
	}

	request.AddDomainEvent(NewRequestSubmittedEvent(request))
	return request, nil
}

// SetContactDetails sets optional contact fields
func (r *MembershipRequest) SetContactDetails(phone, address, residenceStatus string) {
	r.Phone = phone
	r.Address = address
	r.ResidenceStatus = residenceStatus
	r.UpdatedAt = time.Now()
}

// SetAdminNotes replaces the internal review notes
func (r *MembershipRequest) SetAdminNotes(notes string) {
	r.AdminNotes = notes
	r.UpdatedAt = time.Now()
	r.IncrementVersion()
}

// StartReview moves the request from PENDING or ADDITIONAL_INFO_REQUESTED into UNDER_REVIEW
func (r *MembershipRequest) StartReview(reviewerID uuid.UUID) error {
	if !r.Status.CanTransitionTo(RequestStatusUnderReview) {
		return shared.NewDomainError("INVALID_TRANSITION",
			fmt.Sprintf("Cannot start review in %s status", r.Status))
	}

	now := time.Now()
	r.Status = RequestStatusUnderReview
	r.ReviewedBy = &reviewerID
	r.ReviewedAt = &now
	r.UpdatedAt = now
	r.IncrementVersion()

	r.AddDomainEvent(NewRequestStatusChangedEvent(r, RequestStatusUnderReview))
	return nil
}

// RequestAdditionalInfo asks the applicant for more information
func (r *MembershipRequest) RequestAdditionalInfo(reviewerID uuid.UUID, message string) error {
	if !r.Status.CanTransitionTo(RequestStatusInfoRequested) {
		return shared.NewDomainError("INVALID_TRANSITION",
			fmt.Sprintf("Cannot request additional information in %s status", r.Status))
	}
	if strings.TrimSpace(message) == "" {
		return shared.NewDomainError("INVALID_INPUT", "Information request message is required")
	}

	now := time.Now()
	r.Status = RequestStatusInfoRequested
	r.ReviewedBy = &reviewerID
	r.InfoRequestedAt = &now
	r.InfoRequestMessage = message
	r.UpdatedAt = now
	r.IncrementVersion()

	r.AddDomainEvent(NewRequestStatusChangedEvent(r, RequestStatusInfoRequested))
	return nil
}

// Approve marks the request as approved. The caller is responsible for
// creating the member record and calling LinkMember in the same transaction.
func (r *MembershipRequest) Approve(approverID uuid.UUID) error {
	if !r.Status.CanTransitionTo(RequestStatusApproved) {
		return shared.NewDomainError("INVALID_TRANSITION",
			fmt.Sprintf("Cannot approve request in %s status", r.Status))
	}

	now := time.Now()
	r.Status = RequestStatusApproved
	r.ApprovedBy = &approverID
	r.ApprovedAt = &now
	r.UpdatedAt = now
	r.IncrementVersion()

	r.AddDomainEvent(NewRequestApprovedEvent(r))
	return nil
}

// LinkMember records the member created from this request.
// A request produces at most one member.
func (r *MembershipRequest) LinkMember(memberID uuid.UUID) error {
	if r.CreatedMemberID != nil {
		return shared.NewDomainError("ALREADY_APPROVED",
			fmt.Sprintf("Request %s already produced member %s", r.RequestNumber, r.CreatedMemberID))
	}
	r.CreatedMemberID = &memberID
	r.UpdatedAt = time.Now()
	return nil
}

// Reject marks the request as rejected with a mandatory reason
func (r *MembershipRequest) Reject(reviewerID uuid.UUID, reason string) error {
	if !r.Status.CanTransitionTo(RequestStatusRejected) {
		return shared.NewDomainError("INVALID_TRANSITION",
			fmt.Sprintf("Cannot reject request in %s status", r.Status))
	}
	if strings.TrimSpace(reason) == "" {
		return shared.NewDomainError("INVALID_INPUT", "Rejection reason is required")
	}

	now := time.Now()
	r.Status = RequestStatusRejected
	r.RejectedBy = &reviewerID
	r.RejectedAt = &now
	r.RejectionReason = reason
	r.UpdatedAt = now
	r.IncrementVersion()

	r.AddDomainEvent(NewRequestRejectedEvent(r))
	return nil
}

// Withdraw closes the request at the applicant's (or an admin's) initiative
func (r *MembershipRequest) Withdraw(actorID uuid.UUID) error {
	if !r.Status.CanTransitionTo(RequestStatusWithdrawn) {
		return shared.NewDomainError("INVALID_TRANSITION",
			fmt.Sprintf("Cannot withdraw request in %s status", r.Status))
	}

	now := time.Now()
	r.Status = RequestStatusWithdrawn
	r.WithdrawnBy = &actorID
	r.WithdrawnAt = &now
	r.UpdatedAt = now
	r.IncrementVersion()

	r.AddDomainEvent(NewRequestStatusChangedEvent(r, RequestStatusWithdrawn))
	return nil
}

// IsPending checks if the request is pending initial review
func (r *MembershipRequest) IsPending() bool {
	return r.Status == RequestStatusPending
}

// IsUnderReview checks if the request is being reviewed
func (r *MembershipRequest) IsUnderReview() bool {
	return r.Status == RequestStatusUnderReview
}

// IsClosed checks if the request is in a terminal status
func (r *MembershipRequest) IsClosed() bool {
	return r.Status.IsTerminal()
}
