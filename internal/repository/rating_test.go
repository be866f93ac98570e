package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"gastronauta/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestRatingRepository_Upsert(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewRatingRepository(db)
	ctx := context.Background()

	t.Run("Insert carries the conflict clause", func(t *testing.T) {
		// One row per (recipe_id, user_id); a re-rate overwrites in place.
		mock.ExpectBegin()
		mock.ExpectQuery(regexp.QuoteMeta(`ON CONFLICT ("recipe_id","user_id") DO UPDATE SET`)).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
		mock.ExpectCommit()

		err := repo.Upsert(ctx, &models.Rating{RecipeID: 2, UserID: 1, Score: 5, Comment: "Great"})
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Database error wraps as internal", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "ratings"`)).
			WillReturnError(errors.New("connection reset"))
		mock.ExpectRollback()

		err := repo.Upsert(ctx, &models.Rating{RecipeID: 2, UserID: 1, Score: 4})
		require.Error(t, err)
		appErr, ok := err.(*models.AppError)
		require.True(t, ok)
		assert.Equal(t, models.CodeInternal, appErr.Code)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRatingRepository_GetByRecipeAndUser(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewRatingRepository(db)
	ctx := context.Background()

	t.Run("Found", func(t *testing.T) {
		rows := sqlmock.NewRows([]string{"id", "recipe_id", "user_id", "score", "comment"}).
			AddRow(7, 2, 1, 4, "Decent")
		mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "ratings" WHERE recipe_id = $1 AND user_id = $2`)).
			WithArgs(2, 1, 1).
			WillReturnRows(rows)

		rating, err := repo.GetByRecipeAndUser(ctx, 2, 1)
		require.NoError(t, err)
		require.NotNil(t, rating)
		assert.Equal(t, 4, rating.Score)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Not found returns nil without error", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "ratings" WHERE recipe_id = $1 AND user_id = $2`)).
			WithArgs(2, 9, 1).
			WillReturnError(gorm.ErrRecordNotFound)

		rating, err := repo.GetByRecipeAndUser(ctx, 2, 9)
		assert.NoError(t, err)
		assert.Nil(t, rating)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRatingRepository_Delete(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewRatingRepository(db)
	ctx := context.Background()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "ratings" WHERE recipe_id = $1 AND user_id = $2`)).
		WithArgs(2, 1).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.Delete(ctx, 2, 1)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
