package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/vereinhub/backend/internal/domain/membership"
	"github.com/vereinhub/backend/internal/domain/shared"
	"github.com/vereinhub/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormBoardVoteRepository implements BoardVoteRepository using GORM
type GormBoardVoteRepository struct {
	db *gorm.DB
}

// NewGormBoardVoteRepository creates a new GormBoardVoteRepository
func NewGormBoardVoteRepository(db *gorm.DB) *GormBoardVoteRepository {
	return &GormBoardVoteRepository{db: db}
}

// FindByRequest finds all votes on a request
func (r *GormBoardVoteRepository) FindByRequest(ctx context.Context, requestID uuid.UUID) ([]membership.BoardVote, error) {
	var voteModels []models.BoardVoteModel
	if err := r.db.WithContext(ctx).
		Where("request_id = ?", requestID).
		Order("created_at ASC").
		Find(&voteModels).Error; err != nil {
		return nil, err
	}

	votes := make([]membership.BoardVote, len(voteModels))
	for i, model := range voteModels {
		votes[i] = *model.ToDomain()
	}
	return votes, nil
}

// FindByRequestAndMember finds a board member's vote on a request
func (r *GormBoardVoteRepository) FindByRequestAndMember(ctx context.Context, requestID, boardMemberID uuid.UUID) (*membership.BoardVote, error) {
	var model models.BoardVoteModel
	if err := r.db.WithContext(ctx).
		Where("request_id = ? AND board_member_id = ?", requestID, boardMemberID).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// Upsert inserts the vote, or replaces the choice and comment when the board
// member already voted on the request. The conflict target matches the unique
// index on (request_id, board_member_id).
func (r *GormBoardVoteRepository) Upsert(ctx context.Context, vote *membership.BoardVote) error {
	model := models.BoardVoteModelFromDomain(vote)
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "request_id"}, {Name: "board_member_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"choice", "comment", "updated_at"}),
		}).
		Create(model).Error
}

// CountByRequest counts the votes on a request
func (r *GormBoardVoteRepository) CountByRequest(ctx context.Context, requestID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.BoardVoteModel{}).
		Where("request_id = ?", requestID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountsByRequestIDs returns per-choice vote counts for a set of requests
// in a single grouped query
func (r *GormBoardVoteRepository) CountsByRequestIDs(ctx context.Context, requestIDs []uuid.UUID) (map[uuid.UUID]membership.VoteCounts, error) {
	counts := make(map[uuid.UUID]membership.VoteCounts, len(requestIDs))
	if len(requestIDs) == 0 {
		return counts, nil
	}

	type countRow struct {
		RequestID uuid.UUID
		Choice    membership.VoteChoice
		Count     int
	}

	var rows []countRow
	if err := r.db.WithContext(ctx).
		Model(&models.BoardVoteModel{}).
		Select("request_id, choice, COUNT(*) AS count").
		Where("request_id IN ?", requestIDs).
		Group("request_id, choice").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	for _, row := range rows {
		c := counts[row.RequestID]
		switch row.Choice {
		case membership.VoteChoiceApprove:
			c.Approve = row.Count
		case membership.VoteChoiceReject:
			c.Reject = row.Count
		case membership.VoteChoiceAbstain:
			c.Abstain = row.Count
		}
		counts[row.RequestID] = c
	}
	return counts, nil
}

// Ensure GormBoardVoteRepository implements BoardVoteRepository
var _ membership.BoardVoteRepository = (*GormBoardVoteRepository)(nil)
