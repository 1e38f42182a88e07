package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/vereinhub/backend/internal/domain/content"
	"github.com/vereinhub/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormOwnershipRepository implements OwnershipRepository using GORM.
// It scans the content tables that reference users: posts and events by
// author, initiatives by project lead, tasks by assignee.
type GormOwnershipRepository struct {
	db *gorm.DB
}

// NewGormOwnershipRepository creates a new GormOwnershipRepository
func NewGormOwnershipRepository(db *gorm.DB) *GormOwnershipRepository {
	return &GormOwnershipRepository{db: db}
}

// ownershipScan describes one content table and the column referencing a user
type ownershipScan struct {
	kind   content.Kind
	model  interface{}
	column string
}

func (r *GormOwnershipRepository) scans() []ownershipScan {
	return []ownershipScan{
		{kind: content.KindPost, model: &models.PostModel{}, column: "author_id"},
		{kind: content.KindEvent, model: &models.EventModel{}, column: "author_id"},
		{kind: content.KindInitiative, model: &models.InitiativeModel{}, column: "project_lead_id"},
		{kind: content.KindTask, model: &models.TaskModel{}, column: "assigned_to_id"},
	}
}

// AuditOwnership scans all content tables for items referencing the user.
// The scan is read-only.
func (r *GormOwnershipRepository) AuditOwnership(ctx context.Context, userID uuid.UUID) (*content.OwnershipAudit, error) {
	type itemRow struct {
		ID    uuid.UUID
		Title string
	}

	var items []content.OwnedItemRef
	for _, scan := range r.scans() {
		var rows []itemRow
		if err := r.db.WithContext(ctx).
			Model(scan.model).
			Select("id, title").
			Where(scan.column+" = ?", userID).
			Order("created_at ASC").
			Scan(&rows).Error; err != nil {
			return nil, err
		}
		for _, row := range rows {
			items = append(items, content.OwnedItemRef{
				Kind:  scan.kind,
				ID:    row.ID,
				Title: row.Title,
			})
		}
	}

	return content.NewOwnershipAudit(userID, items), nil
}

// CountOwnedBy returns the total number of items referencing the user
func (r *GormOwnershipRepository) CountOwnedBy(ctx context.Context, userID uuid.UUID) (int64, error) {
	var total int64
	for _, scan := range r.scans() {
		var count int64
		if err := r.db.WithContext(ctx).
			Model(scan.model).
			Where(scan.column+" = ?", userID).
			Count(&count).Error; err != nil {
			return 0, err
		}
		total += count
	}
	return total, nil
}

// ReassignAndDeleteUser moves every owned item to the target user and deletes
// the user record in a single transaction. Either everything is transferred
// and the user is gone, or nothing changed.
func (r *GormOwnershipRepository) ReassignAndDeleteUser(ctx context.Context, userID, targetUserID uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, scan := range r.scans() {
			if err := tx.Model(scan.model).
				Where(scan.column+" = ?", userID).
				Update(scan.column, targetUserID).Error; err != nil {
				return err
			}
		}

		if err := tx.Where("user_id = ?", userID).Delete(&models.UserRoleModel{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.UserModel{}, "id = ?", userID).Error
	})
}

// Ensure GormOwnershipRepository implements OwnershipRepository
var _ content.OwnershipRepository = (*GormOwnershipRepository)(nil)
