package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/vereinhub/backend/internal/domain/membership"
)

// MembershipRequestModel is the persistence model for the MembershipRequest aggregate.
type MembershipRequestModel struct {
	AggregateModel
	RequestNumber   string                   `gorm:"type:varchar(20);not null;uniqueIndex"`
	ApplicantName   string                   `gorm:"type:varchar(200);not null"`
	ApplicantEmail  string                   `gorm:"type:varchar(200);not null;index"`
	Phone           string                   `gorm:"type:varchar(50)"`
	Address         string                   `gorm:"type:varchar(500)"`
	ResidenceStatus string                   `gorm:"type:varchar(100)"`
	RequestedType   membership.MemberType    `gorm:"type:varchar(20);not null"`
	Motivation      string                   `gorm:"type:text"`
	Status          membership.RequestStatus `gorm:"type:varchar(30);not null;default:'PENDING';index"`

	ReviewedBy *uuid.UUID `gorm:"type:uuid"`
	ReviewedAt *time.Time

	InfoRequestedAt    *time.Time
	InfoRequestMessage string `gorm:"type:text"`

	ApprovedBy *uuid.UUID `gorm:"type:uuid"`
	ApprovedAt *time.Time

	RejectedBy      *uuid.UUID `gorm:"type:uuid"`
	RejectedAt      *time.Time
	RejectionReason string `gorm:"type:text"`

	WithdrawnBy *uuid.UUID `gorm:"type:uuid"`
	WithdrawnAt *time.Time

	AdminNotes string `gorm:"type:text"`

	CreatedMemberID *uuid.UUID `gorm:"type:uuid"`

	Votes []BoardVoteModel `gorm:"foreignKey:RequestID"`
}

// TableName returns the table name for GORM
func (MembershipRequestModel) TableName() string {
	return "membership_requests"
}

// ToDomain converts the persistence model to a domain MembershipRequest
func (m *MembershipRequestModel) ToDomain() *membership.MembershipRequest {
	request := &membership.MembershipRequest{
		RequestNumber:      m.RequestNumber,
		ApplicantName:      m.ApplicantName,
		ApplicantEmail:     m.ApplicantEmail,
		Phone:              m.Phone,
		Address:            m.Address,
		ResidenceStatus:    m.ResidenceStatus,
		RequestedType:      m.RequestedType,
		Motivation:         m.Motivation,
		Status:             m.Status,
		ReviewedBy:         m.ReviewedBy,
		ReviewedAt:         m.ReviewedAt,
		InfoRequestedAt:    m.InfoRequestedAt,
		InfoRequestMessage: m.InfoRequestMessage,
		ApprovedBy:         m.ApprovedBy,
		ApprovedAt:         m.ApprovedAt,
		RejectedBy:         m.RejectedBy,
		RejectedAt:         m.RejectedAt,
		RejectionReason:    m.RejectionReason,
		WithdrawnBy:        m.WithdrawnBy,
		WithdrawnAt:        m.WithdrawnAt,
		AdminNotes:         m.AdminNotes,
		CreatedMemberID:    m.CreatedMemberID,
		Votes:              make([]membership.BoardVote, len(m.Votes)),
	}
	m.PopulateAggregateRoot(&request.BaseAggregateRoot)

	for i, v := range m.Votes {
		request.Votes[i] = *v.ToDomain()
	}
	return request
}

// FromDomain populates the persistence model from a domain MembershipRequest.
// Votes are persisted through their own repository and are not written here.
func (m *MembershipRequestModel) FromDomain(r *membership.MembershipRequest) {
	m.FromDomainAggregateRoot(r.BaseAggregateRoot)
	m.RequestNumber = r.RequestNumber
	m.ApplicantName = r.ApplicantName
	m.ApplicantEmail = r.ApplicantEmail
	m.Phone = r.Phone
	m.Address = r.Address
	m.ResidenceStatus = r.ResidenceStatus
	m.RequestedType = r.RequestedType
	m.Motivation = r.Motivation
	m.Status = r.Status
	m.ReviewedBy = r.ReviewedBy
	m.ReviewedAt = r.ReviewedAt
	m.InfoRequestedAt = r.InfoRequestedAt
	m.InfoRequestMessage = r.InfoRequestMessage
	m.ApprovedBy = r.ApprovedBy
	m.ApprovedAt = r.ApprovedAt
	m.RejectedBy = r.RejectedBy
	m.RejectedAt = r.RejectedAt
	m.RejectionReason = r.RejectionReason
	m.WithdrawnBy = r.WithdrawnBy
	m.WithdrawnAt = r.WithdrawnAt
	m.AdminNotes = r.AdminNotes
	m.CreatedMemberID = r.CreatedMemberID
}

// MembershipRequestModelFromDomain creates a new persistence model from a domain MembershipRequest
func MembershipRequestModelFromDomain(r *membership.MembershipRequest) *MembershipRequestModel {
	m := &MembershipRequestModel{}
	m.FromDomain(r)
	return m
}

// BoardVoteModel is the persistence model for a board member's vote.
// The unique index enforces one vote per board member per request.
type BoardVoteModel struct {
	BaseModel
	RequestID     uuid.UUID             `gorm:"type:uuid;not null;uniqueIndex:uniq_board_votes_request_member;index"`
	BoardMemberID uuid.UUID             `gorm:"type:uuid;not null;uniqueIndex:uniq_board_votes_request_member"`
	Choice        membership.VoteChoice `gorm:"type:varchar(10);not null"`
	Comment       string                `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (BoardVoteModel) TableName() string {
	return "board_votes"
}

// ToDomain converts the persistence model to a domain BoardVote
func (m *BoardVoteModel) ToDomain() *membership.BoardVote {
	return &membership.BoardVote{
		BaseEntity:    m.BaseModel.ToDomain(),
		RequestID:     m.RequestID,
		BoardMemberID: m.BoardMemberID,
		Choice:        m.Choice,
		Comment:       m.Comment,
	}
}

// BoardVoteModelFromDomain creates a new persistence model from a domain BoardVote
func BoardVoteModelFromDomain(v *membership.BoardVote) *BoardVoteModel {
	m := &BoardVoteModel{}
	m.FromDomainBaseEntity(v.BaseEntity)
	m.RequestID = v.RequestID
	m.BoardMemberID = v.BoardMemberID
	m.Choice = v.Choice
	m.Comment = v.Comment
	return m
}

// MemberModel is the persistence model for the Member aggregate.
type MemberModel struct {
	AggregateModel
	MemberNumber    string                  `gorm:"type:varchar(20);not null;uniqueIndex"`
	Name            string                  `gorm:"type:varchar(200);not null"`
	Email           string                  `gorm:"type:varchar(200);not null;index"`
	Phone           string                  `gorm:"type:varchar(50)"`
	Address         string                  `gorm:"type:varchar(500)"`
	MemberType      membership.MemberType   `gorm:"type:varchar(20);not null"`
	Status          membership.MemberStatus `gorm:"type:varchar(20);not null;default:'ACTIVE';index"`
	JoinedAt        time.Time               `gorm:"not null"`
	ResignedAt      *time.Time
	SourceRequestID *uuid.UUID `gorm:"type:uuid;index"`
}

// TableName returns the table name for GORM
func (MemberModel) TableName() string {
	return "members"
}

// ToDomain converts the persistence model to a domain Member
func (m *MemberModel) ToDomain() *membership.Member {
	member := &membership.Member{
		MemberNumber:    m.MemberNumber,
		Name:            m.Name,
		Email:           m.Email,
		Phone:           m.Phone,
		Address:         m.Address,
		MemberType:      m.MemberType,
		Status:          m.Status,
		JoinedAt:        m.JoinedAt,
		ResignedAt:      m.ResignedAt,
		SourceRequestID: m.SourceRequestID,
	}
	m.PopulateAggregateRoot(&member.BaseAggregateRoot)
	return member
}

// FromDomain populates the persistence model from a domain Member
func (m *MemberModel) FromDomain(member *membership.Member) {
	m.FromDomainAggregateRoot(member.BaseAggregateRoot)
	m.MemberNumber = member.MemberNumber
	m.Name = member.Name
	m.Email = member.Email
	m.Phone = member.Phone
	m.Address = member.Address
	m.MemberType = member.MemberType
	m.Status = member.Status
	m.JoinedAt = member.JoinedAt
	m.ResignedAt = member.ResignedAt
	m.SourceRequestID = member.SourceRequestID
}

// MemberModelFromDomain creates a new persistence model from a domain Member
func MemberModelFromDomain(member *membership.Member) *MemberModel {
	m := &MemberModel{}
	m.FromDomain(member)
	return m
}
