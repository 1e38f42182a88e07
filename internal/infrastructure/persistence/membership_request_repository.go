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

// GormMembershipRequestRepository implements MembershipRequestRepository using GORM
type GormMembershipRequestRepository struct {
	db *gorm.DB
}

// NewGormMembershipRequestRepository creates a new GormMembershipRequestRepository
func NewGormMembershipRequestRepository(db *gorm.DB) *GormMembershipRequestRepository {
	return &GormMembershipRequestRepository{db: db}
}

// FindByID finds a request by ID, including its votes
func (r *GormMembershipRequestRepository) FindByID(ctx context.Context, id uuid.UUID) (*membership.MembershipRequest, error) {
	var model models.MembershipRequestModel
	if err := r.db.WithContext(ctx).
		Preload("Votes").
		First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByRequestNumber finds a request by its human-readable number
func (r *GormMembershipRequestRepository) FindByRequestNumber(ctx context.Context, requestNumber string) (*membership.MembershipRequest, error) {
	var model models.MembershipRequestModel
	if err := r.db.WithContext(ctx).
		Preload("Votes").
		Where("request_number = ?", strings.ToUpper(requestNumber)).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll finds all requests matching the filter
func (r *GormMembershipRequestRepository) FindAll(ctx context.Context, filter shared.Filter) ([]membership.MembershipRequest, error) {
	var requestModels []models.MembershipRequestModel
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.MembershipRequestModel{}), filter)

	if err := query.Find(&requestModels).Error; err != nil {
		return nil, err
	}

	requests := make([]membership.MembershipRequest, len(requestModels))
	for i, model := range requestModels {
		requests[i] = *model.ToDomain()
	}
	return requests, nil
}

// FindByStatus finds requests in a given status
func (r *GormMembershipRequestRepository) FindByStatus(ctx context.Context, status membership.RequestStatus, filter shared.Filter) ([]membership.MembershipRequest, error) {
	var requestModels []models.MembershipRequestModel
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&models.MembershipRequestModel{}).
			Where("status = ?", status),
		filter,
	)

	if err := query.Find(&requestModels).Error; err != nil {
		return nil, err
	}

	requests := make([]membership.MembershipRequest, len(requestModels))
	for i, model := range requestModels {
		requests[i] = *model.ToDomain()
	}
	return requests, nil
}

// Save creates or updates a request
func (r *GormMembershipRequestRepository) Save(ctx context.Context, request *membership.MembershipRequest) error {
	model := models.MembershipRequestModelFromDomain(request)
	return r.db.WithContext(ctx).Omit("Votes").Save(model).Error
}

// SaveWithLock updates a request with optimistic locking (version check).
// Returns ErrConcurrencyConflict when the stored version no longer matches.
func (r *GormMembershipRequestRepository) SaveWithLock(ctx context.Context, request *membership.MembershipRequest) error {
	model := models.MembershipRequestModelFromDomain(request)
	result := r.db.WithContext(ctx).
		Model(model).
		Omit("Votes").
		Where("id = ? AND version = ?", request.ID, request.Version-1).
		Select("*").
		Updates(model)

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

// FinalizeApproval persists the approved request and the member it produced
// in a single transaction. The request update is guarded by the version so a
// concurrent reviewer cannot approve the same request twice.
func (r *GormMembershipRequestRepository) FinalizeApproval(ctx context.Context, request *membership.MembershipRequest, member *membership.Member) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		requestModel := models.MembershipRequestModelFromDomain(request)
		result := tx.Model(requestModel).
			Omit("Votes").
			Where("id = ? AND version = ?", request.ID, request.Version-1).
			Select("*").
			Updates(requestModel)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrConcurrencyConflict
		}

		memberModel := models.MemberModelFromDomain(member)
		return tx.Create(memberModel).Error
	})
}

// Count counts requests matching the filter
func (r *GormMembershipRequestRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&models.MembershipRequestModel{}), filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountByStatus counts requests in a given status
func (r *GormMembershipRequestRepository) CountByStatus(ctx context.Context, status membership.RequestStatus) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.MembershipRequestModel{}).
		Where("status = ?", status).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ExistsByRequestNumber checks if a request number is taken
func (r *GormMembershipRequestRepository) ExistsByRequestNumber(ctx context.Context, requestNumber string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.MembershipRequestModel{}).
		Where("request_number = ?", strings.ToUpper(requestNumber)).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// ExistsOpenByEmail checks if the applicant already has a non-terminal request
func (r *GormMembershipRequestRepository) ExistsOpenByEmail(ctx context.Context, email string) (bool, error) {
	if email == "" {
		return false, nil
	}
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.MembershipRequestModel{}).
		Where("LOWER(applicant_email) = ? AND status IN ?",
			strings.ToLower(email),
			[]membership.RequestStatus{
				membership.RequestStatusPending,
				membership.RequestStatusUnderReview,
				membership.RequestStatusInfoRequested,
			}).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// GenerateRequestNumber generates a unique request number
// Format: MR-YYYY-NNNNN (e.g., MR-2026-00001)
func (r *GormMembershipRequestRepository) GenerateRequestNumber(ctx context.Context) (string, error) {
	year := time.Now().Year()
	prefix := fmt.Sprintf("MR-%d-", year)

	// Get the highest request number for this year
	var lastRequest models.MembershipRequestModel
	err := r.db.WithContext(ctx).
		Model(&models.MembershipRequestModel{}).
		Where("request_number LIKE ?", prefix+"%").
		Order("request_number DESC").
		First(&lastRequest).Error

	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", err
	}

	var nextNum int64 = 1
	if err == nil && lastRequest.RequestNumber != "" {
		parts := strings.Split(lastRequest.RequestNumber, "-")
		if len(parts) == 3 {
			var num int64
			_, parseErr := fmt.Sscanf(parts[2], "%d", &num)
			if parseErr == nil {
				nextNum = num + 1
			}
		}
	}

	requestNumber := fmt.Sprintf("%s%05d", prefix, nextNum)

	// Verify uniqueness
	exists, err := r.ExistsByRequestNumber(ctx, requestNumber)
	if err != nil {
		return "", err
	}
	if exists {
		// If exists, try incrementing until we find a unique one
		for i := 0; i < 100; i++ {
			nextNum++
			requestNumber = fmt.Sprintf("%s%05d", prefix, nextNum)
			exists, err = r.ExistsByRequestNumber(ctx, requestNumber)
			if err != nil {
				return "", err
			}
			if !exists {
				break
			}
		}
	}

	return requestNumber, nil
}

// applyFilter applies filter options to the query
func (r *GormMembershipRequestRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	// Sort fields are whitelisted; anything else falls back to created_at
	orderBy := ValidateSortField(filter.OrderBy, RequestSortFields, "created_at")
	orderDir := ValidateSortOrder(filter.OrderDir)
	query = query.Order(orderBy + " " + orderDir)

	return query
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormMembershipRequestRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("applicant_name ILIKE ? OR applicant_email ILIKE ? OR request_number ILIKE ?",
			searchPattern, searchPattern, searchPattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "requested_type":
			query = query.Where("requested_type = ?", value)
		case "reviewed_by":
			query = query.Where("reviewed_by = ?", value)
		}
	}

	return query
}

// Ensure GormMembershipRequestRepository implements MembershipRequestRepository
var _ membership.MembershipRequestRepository = (*GormMembershipRequestRepository)(nil)
