package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/vereinhub/backend/internal/domain/membership"
	"github.com/vereinhub/backend/internal/domain/shared"
	"github.com/vereinhub/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormMemberRepository implements MemberRepository using GORM
type GormMemberRepository struct {
	db *gorm.DB
}

// NewGormMemberRepository creates a new GormMemberRepository
func NewGormMemberRepository(db *gorm.DB) *GormMemberRepository {
	return &GormMemberRepository{db: db}
}

// FindByID finds a member by ID
func (r *GormMemberRepository) FindByID(ctx context.Context, id uuid.UUID) (*membership.Member, error) {
	var model models.MemberModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByMemberNumber finds a member by its human-readable number
func (r *GormMemberRepository) FindByMemberNumber(ctx context.Context, memberNumber string) (*membership.Member, error) {
	var model models.MemberModel
	if err := r.db.WithContext(ctx).
		Where("member_number = ?", strings.ToUpper(memberNumber)).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll finds all members matching the filter
func (r *GormMemberRepository) FindAll(ctx context.Context, filter shared.Filter) ([]membership.Member, error) {
	var memberModels []models.MemberModel
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.MemberModel{}), filter)

	if err := query.Find(&memberModels).Error; err != nil {
		return nil, err
	}

	members := make([]membership.Member, len(memberModels))
	for i, model := range memberModels {
		members[i] = *model.ToDomain()
	}
	return members, nil
}

// FindByStatus finds members in a given status
func (r *GormMemberRepository) FindByStatus(ctx context.Context, status membership.MemberStatus, filter shared.Filter) ([]membership.Member, error) {
	var memberModels []models.MemberModel
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&models.MemberModel{}).
			Where("status = ?", status),
		filter,
	)

	if err := query.Find(&memberModels).Error; err != nil {
		return nil, err
	}

	members := make([]membership.Member, len(memberModels))
	for i, model := range memberModels {
		members[i] = *model.ToDomain()
	}
	return members, nil
}

// Save creates or updates a member
func (r *GormMemberRepository) Save(ctx context.Context, member *membership.Member) error {
	model := models.MemberModelFromDomain(member)
	return r.db.WithContext(ctx).Save(model).Error
}

// Count counts members matching the filter
func (r *GormMemberRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&models.MemberModel{}), filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ExistsByEmail checks if a member with the given email exists
func (r *GormMemberRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	if email == "" {
		return false, nil
	}
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.MemberModel{}).
		Where("LOWER(email) = ?", strings.ToLower(email)).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// ExistsByMemberNumber checks if a member number is taken
func (r *GormMemberRepository) ExistsByMemberNumber(ctx context.Context, memberNumber string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.MemberModel{}).
		Where("member_number = ?", strings.ToUpper(memberNumber)).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// GenerateMemberNumber generates a unique member number
// Format: M-YYYY-NNNNN (e.g., M-2026-00001)
func (r *GormMemberRepository) GenerateMemberNumber(ctx context.Context) (string, error) {
	year := time.Now().Year()
	prefix := fmt.Sprintf("M-%d-", year)

	// Get the highest member number for this year
	var lastMember models.MemberModel
	err := r.db.WithContext(ctx).
		Model(&models.MemberModel{}).
		Where("member_number LIKE ?", prefix+"%").
		Order("member_number DESC").
		First(&lastMember).Error

	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", err
	}

	var nextNum int64 = 1
	if err == nil && lastMember.MemberNumber != "" {
		parts := strings.Split(lastMember.MemberNumber, "-")
		if len(parts) == 3 {
			var num int64
			_, parseErr := fmt.Sscanf(parts[2], "%d", &num)
			if parseErr == nil {
				nextNum = num + 1
			}
		}
	}

	memberNumber := fmt.Sprintf("%s%05d", prefix, nextNum)

	// Verify uniqueness
	exists, err := r.ExistsByMemberNumber(ctx, memberNumber)
	if err != nil {
		return "", err
	}
	if exists {
		// If exists, try incrementing until we find a unique one
		for i := 0; i < 100; i++ {
			nextNum++
			memberNumber = fmt.Sprintf("%s%05d", prefix, nextNum)
			exists, err = r.ExistsByMemberNumber(ctx, memberNumber)
			if err != nil {
				return "", err
			}
			if !exists {
				break
			}
		}
	}

	return memberNumber, nil
}

// applyFilter applies filter options to the query
func (r *GormMemberRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	// Sort fields are whitelisted; anything else falls back to member_number
	if filter.OrderBy == "" {
		return query.Order("member_number ASC")
	}
	orderBy := ValidateSortField(filter.OrderBy, MemberSortFields, "member_number")
	query = query.Order(orderBy + " " + ValidateSortOrder(filter.OrderDir))

	return query
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormMemberRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("name ILIKE ? OR email ILIKE ? OR member_number ILIKE ?",
			searchPattern, searchPattern, searchPattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "member_type":
			query = query.Where("member_type = ?", value)
		}
	}

	return query
}

// Ensure GormMemberRepository implements MemberRepository
var _ membership.MemberRepository = (*GormMemberRepository)(nil)
