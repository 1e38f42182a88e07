package membership

import (
	"time"

	"github.com/vereinhub/backend/internal/domain/membership"
	"github.com/google/uuid"
)

// =============================================================================
// Membership Request DTOs
// =============================================================================

// SubmitRequestRequest represents a membership application submission
type SubmitRequestRequest struct {
	ApplicantName   string `json:"applicant_name" binding:"required,min=1,max=200"`
	ApplicantEmail  string `json:"applicant_email" binding:"required,email,max=200"`
	Phone           string `json:"phone" binding:"max=50"`
	Address         string `json:"address" binding:"max=500"`
	ResidenceStatus string `json:"residence_status" binding:"max=100"`
	RequestedType   string `json:"requested_type" binding:"required,oneof=REGULAR SUPPORTING HONORARY"`
	Motivation      string `json:"motivation" binding:"max=4000"`
	IdempotencyKey  string `json:"-"` // Set from the Idempotency-Key header, not from the request body
}

// UpdateRequestStatusRequest represents a workflow transition on a request
type UpdateRequestStatusRequest struct {
	Status  string `json:"status" binding:"required,oneof=UNDER_REVIEW ADDITIONAL_INFO_REQUESTED APPROVED REJECTED WITHDRAWN"`
	Message string `json:"message" binding:"max=2000"`
	Reason  string `json:"reason" binding:"max=2000"`
	Notes   string `json:"notes" binding:"max=4000"`
}

// CastVoteRequest represents a board member's vote submission
type CastVoteRequest struct {
	Choice  string `json:"choice" binding:"required,oneof=APPROVE REJECT ABSTAIN"`
	Comment string `json:"comment" binding:"max=2000"`
}

// RequestResponse represents a membership request in API responses
type RequestResponse struct {
	ID                 uuid.UUID      `json:"id"`
	RequestNumber      string         `json:"request_number"`
	ApplicantName      string         `json:"applicant_name"`
	ApplicantEmail     string         `json:"applicant_email"`
	Phone              string         `json:"phone,omitempty"`
	Address            string         `json:"address,omitempty"`
	ResidenceStatus    string         `json:"residence_status,omitempty"`
	RequestedType      string         `json:"requested_type"`
	Motivation         string         `json:"motivation,omitempty"`
	Status             string         `json:"status"`
	ReviewedBy         *uuid.UUID     `json:"reviewed_by,omitempty"`
	ReviewedAt         *time.Time     `json:"reviewed_at,omitempty"`
	InfoRequestedAt    *time.Time     `json:"info_requested_at,omitempty"`
	InfoRequestMessage string         `json:"info_request_message,omitempty"`
	ApprovedBy         *uuid.UUID     `json:"approved_by,omitempty"`
	ApprovedAt         *time.Time     `json:"approved_at,omitempty"`
	RejectedBy         *uuid.UUID     `json:"rejected_by,omitempty"`
	RejectedAt         *time.Time     `json:"rejected_at,omitempty"`
	RejectionReason    string         `json:"rejection_reason,omitempty"`
	WithdrawnAt        *time.Time     `json:"withdrawn_at,omitempty"`
	AdminNotes         string         `json:"admin_notes,omitempty"`
	CreatedMemberID    *uuid.UUID     `json:"created_member_id,omitempty"`
	Votes              []VoteResponse `json:"votes,omitempty"`
	CreatedAt          time.Time      `json:"created_at"`
	UpdatedAt          time.Time      `json:"updated_at"`
	Version            int            `json:"version"`
}

// RequestListResponse is the slim projection used in request listings
type RequestListResponse struct {
	ID            uuid.UUID   `json:"id"`
	RequestNumber string      `json:"request_number"`
	ApplicantName string      `json:"applicant_name"`
	RequestedType string      `json:"requested_type"`
	Status        string      `json:"status"`
	VoteSummary   VoteSummary `json:"vote_summary"`
	CreatedAt     time.Time   `json:"created_at"`
}

// VoteSummary carries per-choice vote counts in listings
type VoteSummary struct {
	Approve int `json:"approve"`
	Reject  int `json:"reject"`
	Abstain int `json:"abstain"`
}

// VoteResponse represents a board vote in API responses
type VoteResponse struct {
	ID            uuid.UUID `json:"id"`
	RequestID     uuid.UUID `json:"request_id"`
	BoardMemberID uuid.UUID `json:"board_member_id"`
	Choice        string    `json:"choice"`
	Comment       string    `json:"comment,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// TallyResponse represents the advisory vote tally for a request
type TallyResponse struct {
	RequestID uuid.UUID `json:"request_id"`
	Approve   int       `json:"approve"`
	Reject    int       `json:"reject"`
	Abstain   int       `json:"abstain"`
	BoardSize int       `json:"board_size"`
	Quorum    int       `json:"quorum"`
	QuorumMet bool      `json:"quorum_met"`
	Outcome   string    `json:"outcome"`
}

// MemberResponse represents a member in API responses
type MemberResponse struct {
	ID              uuid.UUID  `json:"id"`
	MemberNumber    string     `json:"member_number"`
	Name            string     `json:"name"`
	Email           string     `json:"email"`
	Phone           string     `json:"phone,omitempty"`
	Address         string     `json:"address,omitempty"`
	MemberType      string     `json:"member_type"`
	Status          string     `json:"status"`
	JoinedAt        time.Time  `json:"joined_at"`
	ResignedAt      *time.Time `json:"resigned_at,omitempty"`
	SourceRequestID *uuid.UUID `json:"source_request_id,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// =============================================================================
// Converters
// =============================================================================

// ToRequestResponse converts a domain MembershipRequest to RequestResponse
func ToRequestResponse(r *membership.MembershipRequest) RequestResponse {
	votes := make([]VoteResponse, 0, len(r.Votes))
	for i := range r.Votes {
		votes = append(votes, ToVoteResponse(&r.Votes[i]))
	}
	return RequestResponse{
		ID:                 r.ID,
		RequestNumber:      r.RequestNumber,
		ApplicantName:      r.ApplicantName,
		ApplicantEmail:     r.ApplicantEmail,
		Phone:              r.Phone,
		Address:            r.Address,
		ResidenceStatus:    r.ResidenceStatus,
		RequestedType:      string(r.RequestedType),
		Motivation:         r.Motivation,
		Status:             string(r.Status),
		ReviewedBy:         r.ReviewedBy,
		ReviewedAt:         r.ReviewedAt,
		InfoRequestedAt:    r.InfoRequestedAt,
		InfoRequestMessage: r.InfoRequestMessage,
		ApprovedBy:         r.ApprovedBy,
		ApprovedAt:         r.ApprovedAt,
		RejectedBy:         r.RejectedBy,
		RejectedAt:         r.RejectedAt,
		RejectionReason:    r.RejectionReason,
		WithdrawnAt:        r.WithdrawnAt,
		AdminNotes:         r.AdminNotes,
		CreatedMemberID:    r.CreatedMemberID,
		Votes:              votes,
		CreatedAt:          r.CreatedAt,
		UpdatedAt:          r.UpdatedAt,
		Version:            r.Version,
	}
}

// ToRequestListResponse converts a domain request to its listing projection
func ToRequestListResponse(r *membership.MembershipRequest, counts membership.VoteCounts) RequestListResponse {
	return RequestListResponse{
		ID:            r.ID,
		RequestNumber: r.RequestNumber,
		ApplicantName: r.ApplicantName,
		RequestedType: string(r.RequestedType),
		Status:        string(r.Status),
		VoteSummary: VoteSummary{
			Approve: counts.Approve,
			Reject:  counts.Reject,
			Abstain: counts.Abstain,
		},
		CreatedAt: r.CreatedAt,
	}
}

// ToVoteResponse converts a domain BoardVote to VoteResponse
func ToVoteResponse(v *membership.BoardVote) VoteResponse {
	return VoteResponse{
		ID:            v.ID,
		RequestID:     v.RequestID,
		BoardMemberID: v.BoardMemberID,
		Choice:        string(v.Choice),
		Comment:       v.Comment,
		CreatedAt:     v.CreatedAt,
		UpdatedAt:     v.UpdatedAt,
	}
}

// ToTallyResponse converts a domain VoteTally to TallyResponse
func ToTallyResponse(t membership.VoteTally) TallyResponse {
	return TallyResponse{
		RequestID: t.RequestID,
		Approve:   t.Approve,
		Reject:    t.Reject,
		Abstain:   t.Abstain,
		BoardSize: t.BoardSize,
		Quorum:    t.Quorum,
		QuorumMet: t.QuorumMet,
		Outcome:   t.Outcome,
	}
}

// ToMemberResponse converts a domain Member to MemberResponse
func ToMemberResponse(m *membership.Member) MemberResponse {
	return MemberResponse{
		ID:              m.ID,
		MemberNumber:    m.MemberNumber,
		Name:            m.Name,
		Email:           m.Email,
		Phone:           m.Phone,
		Address:         m.Address,
		MemberType:      string(m.MemberType),
		Status:          string(m.Status),
		JoinedAt:        m.JoinedAt,
		ResignedAt:      m.ResignedAt,
		SourceRequestID: m.SourceRequestID,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
}
