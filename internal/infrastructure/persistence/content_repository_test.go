package persistence

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vereinhub/backend/internal/domain/content"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// newMockOwnershipRepository creates a GormOwnershipRepository with a mocked SQL connection
func newMockOwnershipRepository(t *testing.T) (*GormOwnershipRepository, sqlmock.Sqlmock, *sql.DB) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return NewGormOwnershipRepository(gormDB), mock, mockDB
}

func TestGormOwnershipRepository_AuditOwnership(t *testing.T) {
	t.Run("collects items from all content tables", func(t *testing.T) {
		repo, mock, mockDB := newMockOwnershipRepository(t)
		defer mockDB.Close()

		userID := uuid.New()
		postID := uuid.New()
		taskID := uuid.New()

		mock.ExpectQuery(`SELECT id, title FROM "posts" WHERE author_id = \$1 ORDER BY created_at ASC`).
			WithArgs(userID).
			WillReturnRows(sqlmock.NewRows([]string{"id", "title"}).AddRow(postID, "Sommerfest 2026"))
		mock.ExpectQuery(`SELECT id, title FROM "events" WHERE author_id = \$1 ORDER BY created_at ASC`).
			WithArgs(userID).
			WillReturnRows(sqlmock.NewRows([]string{"id", "title"}))
		mock.ExpectQuery(`SELECT id, title FROM "initiatives" WHERE project_lead_id = \$1 ORDER BY created_at ASC`).
			WithArgs(userID).
			WillReturnRows(sqlmock.NewRows([]string{"id", "title"}))
		mock.ExpectQuery(`SELECT id, title FROM "tasks" WHERE assigned_to_id = \$1 ORDER BY created_at ASC`).
			WithArgs(userID).
			WillReturnRows(sqlmock.NewRows([]string{"id", "title"}).AddRow(taskID, "Book the venue"))

		audit, err := repo.AuditOwnership(context.Background(), userID)

		require.NoError(t, err)
		assert.Equal(t, userID, audit.UserID)
		assert.Equal(t, 2, audit.Total())
		assert.Equal(t, 1, audit.Counts[content.KindPost])
		assert.Equal(t, 1, audit.Counts[content.KindTask])
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns empty audit for a user without content", func(t *testing.T) {
		repo, mock, mockDB := newMockOwnershipRepository(t)
		defer mockDB.Close()

		userID := uuid.New()
		emptyRows := func() *sqlmock.Rows { return sqlmock.NewRows([]string{"id", "title"}) }

		mock.ExpectQuery(`SELECT id, title FROM "posts"`).WithArgs(userID).WillReturnRows(emptyRows())
		mock.ExpectQuery(`SELECT id, title FROM "events"`).WithArgs(userID).WillReturnRows(emptyRows())
		mock.ExpectQuery(`SELECT id, title FROM "initiatives"`).WithArgs(userID).WillReturnRows(emptyRows())
		mock.ExpectQuery(`SELECT id, title FROM "tasks"`).WithArgs(userID).WillReturnRows(emptyRows())

		audit, err := repo.AuditOwnership(context.Background(), userID)

		require.NoError(t, err)
		assert.True(t, audit.IsEmpty())
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormOwnershipRepository_ReassignAndDeleteUser(t *testing.T) {
	t.Run("reassigns all content and deletes the user in one transaction", func(t *testing.T) {
		repo, mock, mockDB := newMockOwnershipRepository(t)
		defer mockDB.Close()

		userID := uuid.New()
		targetID := uuid.New()

		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE "posts" SET "author_id"=\$1.* WHERE author_id = \$3`).
			WillReturnResult(sqlmock.NewResult(0, 2))
		mock.ExpectExec(`UPDATE "events" SET "author_id"=\$1.* WHERE author_id = \$3`).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectExec(`UPDATE "initiatives" SET "project_lead_id"=\$1.* WHERE project_lead_id = \$3`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`UPDATE "tasks" SET "assigned_to_id"=\$1.* WHERE assigned_to_id = \$3`).
			WillReturnResult(sqlmock.NewResult(0, 3))
		mock.ExpectExec(`DELETE FROM "user_roles" WHERE user_id = \$1`).
			WithArgs(userID).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`DELETE FROM "users" WHERE id = \$1`).
			WithArgs(userID).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		err := repo.ReassignAndDeleteUser(context.Background(), userID, targetID)

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rolls back when a reassignment fails", func(t *testing.T) {
		repo, mock, mockDB := newMockOwnershipRepository(t)
		defer mockDB.Close()

		userID := uuid.New()
		targetID := uuid.New()

		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE "posts" SET "author_id"=\$1.* WHERE author_id = \$3`).
			WillReturnError(assert.AnError)
		mock.ExpectRollback()

		err := repo.ReassignAndDeleteUser(context.Background(), userID, targetID)

		assert.Error(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
