package repository

import (
	"context"
	"regexp"
	"testing"

	"gastronauta/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestReactionRepository_Get(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewReactionRepository(db)
	ctx := context.Background()

	t.Run("Existing reaction", func(t *testing.T) {
		rows := sqlmock.NewRows([]string{"id", "comment_id", "user_id", "kind"}).
			AddRow(10, 5, 1, "like")
		mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "comment_reactions" WHERE comment_id = $1 AND user_id = $2`)).
			WithArgs(5, 1, 1).
			WillReturnRows(rows)

		reaction, err := repo.Get(ctx, 5, 1)
		require.NoError(t, err)
		require.NotNil(t, reaction)
		assert.Equal(t, models.ReactionLike, reaction.Kind)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("No reaction", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "comment_reactions" WHERE comment_id = $1 AND user_id = $2`)).
			WithArgs(5, 1, 1).
			WillReturnError(gorm.ErrRecordNotFound)

		reaction, err := repo.Get(ctx, 5, 1)
		assert.NoError(t, err)
		assert.Nil(t, reaction)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestReactionRepository_UpdateKind(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewReactionRepository(db)
	ctx := context.Background()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "comment_reactions" SET`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.UpdateKind(ctx, 10, models.ReactionDislike)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReactionRepository_Delete(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewReactionRepository(db)
	ctx := context.Background()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "comment_reactions" WHERE "comment_reactions"."id" = $1`)).
		WithArgs(10).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.Delete(ctx, 10)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReactionRepository_Counts(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewReactionRepository(db)
	ctx := context.Background()

	rows := sqlmock.NewRows([]string{"likes", "dislikes"}).AddRow(3, 1)
	mock.ExpectQuery(`SELECT COUNT\(\*\) FILTER`).
		WithArgs(5).
		WillReturnRows(rows)

	counts, err := repo.Counts(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, int64(3), counts.Likes)
	assert.Equal(t, int64(1), counts.Dislikes)
	assert.NoError(t, mock.ExpectationsWereMet())
}
