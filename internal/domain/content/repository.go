package content

import (
	"context"

	"github.com/google/uuid"
)

// OwnershipRepository audits and transfers content ownership.
// The audit is strictly read-only; the reassignment runs together with the
// user deletion in one transaction so no dangling references can appear.
type OwnershipRepository interface {
	// AuditOwnership scans all content tables for items referencing the user
	AuditOwnership(ctx context.Context, userID uuid.UUID) (*OwnershipAudit, error)

	// CountOwnedBy returns the total number of items referencing the user
	CountOwnedBy(ctx context.Context, userID uuid.UUID) (int64, error)

	// ReassignAndDeleteUser moves every owned item to the target user and
	// deletes the user record in a single transaction
	ReassignAndDeleteUser(ctx context.Context, userID, targetUserID uuid.UUID) error
}
