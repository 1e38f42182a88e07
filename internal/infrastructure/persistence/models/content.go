package models

import (
	"time"

	"github.com/google/uuid"
)

// PostModel is the persistence model for a news post. Posts reference their
// author; the ownership audit and reassignment operate on these rows.
type PostModel struct {
	BaseModel
	Title       string     `gorm:"type:varchar(300);not null"`
	Slug        string     `gorm:"type:varchar(300);not null;uniqueIndex"`
	Body        string     `gorm:"type:text"`
	Language    string     `gorm:"type:varchar(10);not null;default:'de'"`
	Published   bool       `gorm:"not null;default:false"`
	PublishedAt *time.Time `gorm:"index"`
	AuthorID    uuid.UUID  `gorm:"type:uuid;not null;index"`
}

// TableName returns the table name for GORM
func (PostModel) TableName() string {
	return "posts"
}

// EventModel is the persistence model for an association event.
type EventModel struct {
	BaseModel
	Title    string    `gorm:"type:varchar(300);not null"`
	Body     string    `gorm:"type:text"`
	Language string    `gorm:"type:varchar(10);not null;default:'de'"`
	Location string    `gorm:"type:varchar(300)"`
	StartsAt time.Time `gorm:"not null;index"`
	EndsAt   *time.Time
	AuthorID uuid.UUID `gorm:"type:uuid;not null;index"`
}

// TableName returns the table name for GORM
func (EventModel) TableName() string {
	return "events"
}

// InitiativeModel is the persistence model for a project initiative.
// Initiatives reference their project lead.
type InitiativeModel struct {
	BaseModel
	Title         string    `gorm:"type:varchar(300);not null"`
	Description   string    `gorm:"type:text"`
	Status        string    `gorm:"type:varchar(20);not null;default:'active';index"`
	ProjectLeadID uuid.UUID `gorm:"type:uuid;not null;index"`
}

// TableName returns the table name for GORM
func (InitiativeModel) TableName() string {
	return "initiatives"
}

// TaskModel is the persistence model for a task inside an initiative.
// Tasks reference their assignee.
type TaskModel struct {
	BaseModel
	InitiativeID uuid.UUID  `gorm:"type:uuid;not null;index"`
	Title        string     `gorm:"type:varchar(300);not null"`
	Description  string     `gorm:"type:text"`
	Status       string     `gorm:"type:varchar(20);not null;default:'open';index"`
	DueAt        *time.Time `gorm:"index"`
	AssignedToID uuid.UUID  `gorm:"type:uuid;not null;index"`
}

// TableName returns the table name for GORM
func (TaskModel) TableName() string {
	return "tasks"
}
