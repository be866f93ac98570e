package repository

import (
	"context"
	"errors"

	"gastronauta/internal/models"

	"gorm.io/gorm"
)

// ReactionCounts is the like/dislike tally for a single comment.
type ReactionCounts struct {
	Likes    int64 `json:"likes"`
	Dislikes int64 `json:"dislikes"`
}

// ReactionRepository defines persistence operations for comment reactions.
type ReactionRepository interface {
	Get(ctx context.Context, commentID, userID uint) (*models.CommentReaction, error)
	Insert(ctx context.Context, reaction *models.CommentReaction) error
	UpdateKind(ctx context.Context, id uint, kind models.ReactionKind) error
	Delete(ctx context.Context, id uint) error
	Counts(ctx context.Context, commentID uint) (*ReactionCounts, error)
}

type reactionRepository struct {
	db *gorm.DB
}

// NewReactionRepository returns a new ReactionRepository implementation.
func NewReactionRepository(db *gorm.DB) ReactionRepository {
	return &reactionRepository{db: db}
}

func (r *reactionRepository) Get(ctx context.Context, commentID, userID uint) (*models.CommentReaction, error) {
	var reaction models.CommentReaction
	err := r.db.WithContext(ctx).
		Where("comment_id = ? AND user_id = ?", commentID, userID).
		First(&reaction).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &reaction, nil
}

func (r *reactionRepository) Insert(ctx context.Context, reaction *models.CommentReaction) error {
	if err := r.db.WithContext(ctx).Create(reaction).Error; err != nil {
		if isUniqueConstraintError(err) {
			// A concurrent insert won the race; the row exists either way.
			return models.NewConflictError("Reaction already exists")
		}
		return models.NewInternalError(err)
	}
	return nil
}

func (r *reactionRepository) UpdateKind(ctx context.Context, id uint, kind models.ReactionKind) error {
	if err := r.db.WithContext(ctx).
		Model(&models.CommentReaction{}).
		Where("id = ?", id).
		Update("kind", kind).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *reactionRepository) Delete(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).Delete(&models.CommentReaction{}, id).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *reactionRepository) Counts(ctx context.Context, commentID uint) (*ReactionCounts, error) {
	var counts ReactionCounts
	err := r.db.WithContext(ctx).
		Model(&models.CommentReaction{}).
		Select(
			"COUNT(*) FILTER (WHERE kind = 'like') as likes, "+
				"COUNT(*) FILTER (WHERE kind = 'dislike') as dislikes",
		).
		Where("comment_id = ?", commentID).
		Scan(&counts).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return &counts, nil
}
