package repository

import (
	"context"
	"errors"

	"gastronauta/internal/cache"
	"gastronauta/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// RatingRepository defines persistence operations for recipe ratings.
type RatingRepository interface {
	GetByRecipeAndUser(ctx context.Context, recipeID, userID uint) (*models.Rating, error)
	Upsert(ctx context.Context, rating *models.Rating) error
	ListByRecipe(ctx context.Context, recipeID uint, limit, offset int) ([]*models.Rating, error)
	Stats(ctx context.Context, recipeID uint) (*models.RatingStats, error)
	Delete(ctx context.Context, recipeID, userID uint) error
}

type ratingRepository struct {
	db *gorm.DB
}

// NewRatingRepository returns a new RatingRepository implementation.
func NewRatingRepository(db *gorm.DB) RatingRepository {
	return &ratingRepository{db: db}
}

func (r *ratingRepository) GetByRecipeAndUser(ctx context.Context, recipeID, userID uint) (*models.Rating, error) {
	var rating models.Rating
	err := r.db.WithContext(ctx).
		Where("recipe_id = ? AND user_id = ?", recipeID, userID).
		First(&rating).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &rating, nil
}

// Upsert writes the rating, overwriting score and comment on the unique
// (recipe_id, user_id) pair. The caller decides what the comment should be
// when the re-rate omits one.
func (r *ratingRepository) Upsert(ctx context.Context, rating *models.Rating) error {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "recipe_id"}, {Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"score", "comment", "updated_at"}),
		}).
		Create(rating).Error
	if err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateRecipe(ctx, rating.RecipeID)
	return nil
}

func (r *ratingRepository) ListByRecipe(ctx context.Context, recipeID uint, limit, offset int) ([]*models.Rating, error) {
	var ratings []*models.Rating
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("recipe_id = ?", recipeID).
		Order("updated_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&ratings).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return ratings, nil
}

func (r *ratingRepository) Stats(ctx context.Context, recipeID uint) (*models.RatingStats, error) {
	var stats models.RatingStats
	err := r.db.WithContext(ctx).
		Model(&models.Rating{}).
		Select("COALESCE(ROUND(AVG(score), 1), 0) as avg_rating, COUNT(*) as ratings_count").
		Where("recipe_id = ?", recipeID).
		Scan(&stats).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return &stats, nil
}

func (r *ratingRepository) Delete(ctx context.Context, recipeID, userID uint) error {
	if err := r.db.WithContext(ctx).
		Where("recipe_id = ? AND user_id = ?", recipeID, userID).
		Delete(&models.Rating{}).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateRecipe(ctx, recipeID)
	return nil
}
