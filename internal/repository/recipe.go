package repository

import (
	"context"
	"errors"
	"time"

	"gastronauta/internal/cache"
	"gastronauta/internal/models"
	"gastronauta/internal/observability"

	"gorm.io/gorm"
)

// RecipeRepository defines the interface for recipe data operations
type RecipeRepository interface {
	Create(ctx context.Context, recipe *models.Recipe) error
	GetByID(ctx context.Context, id uint, viewerID uint) (*models.Recipe, error)
	GetByUserID(ctx context.Context, userID uint, limit, offset int, viewerID uint) ([]*models.Recipe, error)
	List(ctx context.Context, limit, offset int, viewerID uint) ([]*models.Recipe, error)
	ListLiked(ctx context.Context, userID uint, limit, offset int) ([]*models.Recipe, error)
	Search(ctx context.Context, query string, limit, offset int, viewerID uint) ([]*models.Recipe, error)
	Update(ctx context.Context, recipe *models.Recipe) error
	Delete(ctx context.Context, id uint) error
	IsLiked(ctx context.Context, userID, recipeID uint) (bool, error)
	CountLikes(ctx context.Context, recipeID uint) (int64, error)
	Like(ctx context.Context, userID, recipeID uint) error
	Unlike(ctx context.Context, userID, recipeID uint) error
}

// recipeRepository implements RecipeRepository
type recipeRepository struct {
	db *gorm.DB
}

// NewRecipeRepository creates a new recipe repository
func NewRecipeRepository(db *gorm.DB) RecipeRepository {
	return &recipeRepository{db: db}
}

// applyRecipeDetails adds subqueries to fetch counts, the rating aggregate and
// the viewer's liked status in a single query.
func (r *recipeRepository) applyRecipeDetails(db *gorm.DB, viewerID uint) *gorm.DB {
	selectQuery := "recipes.*, " +
		"(SELECT COUNT(*) FROM likes WHERE likes.recipe_id = recipes.id) as likes_count, " +
		"(SELECT COUNT(*) FROM comments WHERE comments.recipe_id = recipes.id AND comments.deleted_at IS NULL) as comments_count, " +
		"(SELECT COALESCE(ROUND(AVG(score), 1), 0) FROM ratings WHERE ratings.recipe_id = recipes.id) as avg_rating, " +
		"(SELECT COUNT(*) FROM ratings WHERE ratings.recipe_id = recipes.id) as ratings_count"

	if viewerID != 0 {
		return db.Select(selectQuery+", EXISTS(SELECT 1 FROM likes WHERE likes.recipe_id = recipes.id AND likes.user_id = ?) as liked", viewerID)
	}

	return db.Select(selectQuery + ", false as liked")
}

func (r *recipeRepository) Create(ctx context.Context, recipe *models.Recipe) error {
	if err := r.db.WithContext(ctx).Create(recipe).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *recipeRepository) GetByID(ctx context.Context, id uint, viewerID uint) (*models.Recipe, error) {
	var recipe models.Recipe

	fetch := func() error {
		return r.applyRecipeDetails(r.db.WithContext(ctx), viewerID).
			Preload("User").
			First(&recipe, id).Error
	}

	var err error
	if viewerID == 0 {
		// Anonymous reads share one cache entry; liked is always false for them.
		err = cache.Aside(ctx, cache.RecipeKey(id), &recipe, cache.RecipeTTL, fetch)
	} else {
		err = fetch()
	}

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Recipe", id)
		}
		if _, ok := err.(*models.AppError); ok {
			return nil, err
		}
		return nil, models.NewInternalError(err)
	}
	return &recipe, nil
}

func (r *recipeRepository) GetByUserID(ctx context.Context, userID uint, limit, offset int, viewerID uint) ([]*models.Recipe, error) {
	var recipes []*models.Recipe
	err := r.applyRecipeDetails(r.db.WithContext(ctx), viewerID).
		Preload("User").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&recipes).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return recipes, nil
}

func (r *recipeRepository) List(ctx context.Context, limit, offset int, viewerID uint) ([]*models.Recipe, error) {
	defer observability.ObserveQuery("list", "recipes", time.Now())

	var recipes []*models.Recipe
	err := r.applyRecipeDetails(r.db.WithContext(ctx), viewerID).
		Preload("User").
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&recipes).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return recipes, nil
}

func (r *recipeRepository) ListLiked(ctx context.Context, userID uint, limit, offset int) ([]*models.Recipe, error) {
	var recipes []*models.Recipe
	err := r.applyRecipeDetails(r.db.WithContext(ctx), userID).
		Preload("User").
		Joins("JOIN likes ON likes.recipe_id = recipes.id AND likes.user_id = ?", userID).
		Order("likes.created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&recipes).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return recipes, nil
}

func (r *recipeRepository) Search(ctx context.Context, query string, limit, offset int, viewerID uint) ([]*models.Recipe, error) {
	var recipes []*models.Recipe
	like := "%" + query + "%"
	err := r.applyRecipeDetails(r.db.WithContext(ctx), viewerID).
		Preload("User").
		Where("title ILIKE ? OR description ILIKE ? OR ingredients ILIKE ?", like, like, like).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&recipes).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return recipes, nil
}

func (r *recipeRepository) Update(ctx context.Context, recipe *models.Recipe) error {
	if err := r.db.WithContext(ctx).Save(recipe).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateRecipe(ctx, recipe.ID)
	return nil
}

func (r *recipeRepository) Delete(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).Delete(&models.Recipe{}, id).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateRecipe(ctx, id)
	return nil
}

func (r *recipeRepository) IsLiked(ctx context.Context, userID, recipeID uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Like{}).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Count(&count).Error; err != nil {
		return false, models.NewInternalError(err)
	}
	return count > 0, nil
}

func (r *recipeRepository) CountLikes(ctx context.Context, recipeID uint) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Like{}).
		Where("recipe_id = ?", recipeID).
		Count(&count).Error; err != nil {
		return 0, models.NewInternalError(err)
	}
	return count, nil
}

func (r *recipeRepository) Like(ctx context.Context, userID, recipeID uint) error {
	// INSERT ... ON CONFLICT DO NOTHING handles concurrent double-likes
	// atomically without a duplicate key error.
	result := r.db.WithContext(ctx).Exec(
		`INSERT INTO likes (user_id, recipe_id, created_at)
		 VALUES (?, ?, NOW())
		 ON CONFLICT (user_id, recipe_id) DO NOTHING`,
		userID, recipeID,
	)
	if result.Error != nil {
		return models.NewInternalError(result.Error)
	}
	cache.InvalidateRecipe(ctx, recipeID)
	return nil
}

func (r *recipeRepository) Unlike(ctx context.Context, userID, recipeID uint) error {
	// Hard delete the like record (not soft delete)
	err := r.db.WithContext(ctx).Unscoped().
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Delete(&models.Like{}).Error
	if err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateRecipe(ctx, recipeID)
	return nil
}
