package persistence

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/vereinhub/backend/internal/domain/identity"
	"github.com/vereinhub/backend/internal/domain/shared"
	"github.com/vereinhub/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormUserRepository persists identity.User aggregates. Role assignments
// live in their own table and are rewritten wholesale on every save.
type GormUserRepository struct {
	db *gorm.DB
}

var _ identity.UserRepository = (*GormUserRepository)(nil)

func NewGormUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

func (r *GormUserRepository) Create(ctx context.Context, user *identity.User) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(models.UserModelFromDomain(user)).Error; err != nil {
			return err
		}
		return replaceRoles(tx, user)
	})
}

func (r *GormUserRepository) Update(ctx context.Context, user *identity.User) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Omit("Roles").Save(models.UserModelFromDomain(user))
		switch {
		case res.Error != nil:
			return res.Error
		case res.RowsAffected == 0:
			return shared.ErrNotFound
		}
		return replaceRoles(tx, user)
	})
}

// replaceRoles deletes and recreates the user's role rows inside tx.
func replaceRoles(tx *gorm.DB, user *identity.User) error {
	if err := tx.Where("user_id = ?", user.ID).Delete(&models.UserRoleModel{}).Error; err != nil {
		return err
	}
	if len(user.Roles) == 0 {
		return nil
	}

	now := time.Now()
	rows := make([]models.UserRoleModel, 0, len(user.Roles))
	for _, role := range user.Roles {
		rows = append(rows, models.UserRoleModel{
			UserID:    user.ID,
			Role:      role,
			CreatedAt: now,
		})
	}
	return tx.Create(&rows).Error
}

func (r *GormUserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", id).Delete(&models.UserRoleModel{}).Error; err != nil {
			return err
		}

		res := tx.Delete(&models.UserModel{}, "id = ?", id)
		switch {
		case res.Error != nil:
			return res.Error
		case res.RowsAffected == 0:
			return shared.ErrNotFound
		}
		return nil
	})
}

// findOne loads a single user with roles, mapping gorm's not-found
// sentinel onto the domain one.
func (r *GormUserRepository) findOne(ctx context.Context, conds ...any) (*identity.User, error) {
	var model models.UserModel
	err := r.db.WithContext(ctx).Preload("Roles").First(&model, conds...).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, shared.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return model.ToDomain(), nil
}

func (r *GormUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.User, error) {
	return r.findOne(ctx, "id = ?", id)
}

func (r *GormUserRepository) FindByUsername(ctx context.Context, username string) (*identity.User, error) {
	return r.findOne(ctx, "LOWER(username) = ?", strings.ToLower(username))
}

func (r *GormUserRepository) FindByEmail(ctx context.Context, email string) (*identity.User, error) {
	if email == "" {
		return nil, shared.ErrNotFound
	}
	return r.findOne(ctx, "LOWER(email) = ?", strings.ToLower(email))
}

// FindAll returns a filtered, sorted page of users plus the unpaged total.
func (r *GormUserRepository) FindAll(ctx context.Context, filter identity.UserFilter) ([]*identity.User, int64, error) {
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.UserModel{}), filter)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	// Sort fields are whitelisted, never interpolated from raw input
	order := ValidateSortField(filter.SortBy, UserSortFields, "created_at") +
		" " + ValidateSortOrder(filter.SortOrder)

	var rows []*models.UserModel
	if err := query.
		Order(order).
		Offset(filter.Offset()).
		Limit(filter.Limit()).
		Preload("Roles").
		Find(&rows).Error; err != nil {
		return nil, 0, err
	}

	users := make([]*identity.User, len(rows))
	for i, row := range rows {
		users[i] = row.ToDomain()
	}
	return users, total, nil
}

func (r *GormUserRepository) applyFilter(query *gorm.DB, filter identity.UserFilter) *gorm.DB {
	if filter.Keyword != "" {
		pattern := "%" + filter.Keyword + "%"
		query = query.Where("username ILIKE ? OR email ILIKE ? OR display_name ILIKE ?",
			pattern, pattern, pattern)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.Role != "" {
		query = query.Where("id IN (?)",
			r.db.Model(&models.UserRoleModel{}).Select("user_id").Where("role = ?", filter.Role))
	}
	return query
}

// countWhere counts users under an optional query scope.
func (r *GormUserRepository) countWhere(ctx context.Context, scope func(*gorm.DB) *gorm.DB) (int64, error) {
	query := r.db.WithContext(ctx).Model(&models.UserModel{})
	if scope != nil {
		query = scope(query)
	}
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormUserRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	count, err := r.countWhere(ctx, func(q *gorm.DB) *gorm.DB {
		return q.Where("LOWER(username) = ?", strings.ToLower(username))
	})
	return count > 0, err
}

func (r *GormUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	if email == "" {
		return false, nil
	}
	count, err := r.countWhere(ctx, func(q *gorm.DB) *gorm.DB {
		return q.Where("LOWER(email) = ?", strings.ToLower(email))
	})
	return count > 0, err
}

func (r *GormUserRepository) Count(ctx context.Context) (int64, error) {
	return r.countWhere(ctx, nil)
}

// CountActiveBoardMembers counts active users holding the board role.
// The vote quorum is derived from this count at tally time, so a board
// member who is deactivated stops counting immediately.
func (r *GormUserRepository) CountActiveBoardMembers(ctx context.Context) (int64, error) {
	return r.countWhere(ctx, func(q *gorm.DB) *gorm.DB {
		return q.Joins("JOIN user_roles ON users.id = user_roles.user_id").
			Where("user_roles.role = ? AND users.status = ?", identity.RoleBoard, identity.UserStatusActive)
	})
}
