package content

import (
	"github.com/google/uuid"
)

// Kind identifies the kind of a content item that can reference a user
type Kind string

const (
	KindPost       Kind = "post"
	KindEvent      Kind = "event"
	KindInitiative Kind = "initiative"
	KindTask       Kind = "task"
)

// IsValid checks if the kind is valid
func (k Kind) IsValid() bool {
	switch k {
	case KindPost, KindEvent, KindInitiative, KindTask:
		return true
	}
	return false
}

// String returns the string representation
func (k Kind) String() string {
	return string(k)
}

// OwnedItemRef is a reference to a single content item owned by a user.
// Posts and events reference their author, initiatives their project lead,
// tasks their assignee.
type OwnedItemRef struct {
	Kind  Kind      `json:"kind"`
	ID    uuid.UUID `json:"id"`
	Title string    `json:"title"`
}

// OwnershipAudit is the result of a side-effect-free scan over all content
// tables for items referencing a user
type OwnershipAudit struct {
	UserID uuid.UUID      `json:"user_id"`
	Items  []OwnedItemRef `json:"items"`
	Counts map[Kind]int   `json:"counts"`
}

// NewOwnershipAudit builds an audit from the collected item references
func NewOwnershipAudit(userID uuid.UUID, items []OwnedItemRef) *OwnershipAudit {
	counts := make(map[Kind]int)
	for _, item := range items {
		counts[item.Kind]++
	}
	return &OwnershipAudit{
		UserID: userID,
		Items:  items,
		Counts: counts,
	}
}

// Total returns the total number of owned items
func (a *OwnershipAudit) Total() int {
	return len(a.Items)
}

// IsEmpty checks if the user owns no content
func (a *OwnershipAudit) IsEmpty() bool {
	return len(a.Items) == 0
}
