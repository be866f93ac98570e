package service

import (
	"context"
	"os"
	"strings"

	"gastronauta/internal/middleware"
	"gastronauta/internal/models"
	"gastronauta/internal/repository"
	"gastronauta/internal/validation"
)

// RecipeService provides recipe business logic.
type RecipeService struct {
	recipeRepo repository.RecipeRepository
	ratingRepo repository.RatingRepository

	// removeFile is swapped in tests; defaults to os.Remove.
	removeFile func(path string) error
}

// NewRecipeService returns a new RecipeService.
func NewRecipeService(recipeRepo repository.RecipeRepository, ratingRepo repository.RatingRepository) *RecipeService {
	return &RecipeService{
		recipeRepo: recipeRepo,
		ratingRepo: ratingRepo,
		removeFile: os.Remove,
	}
}

// WithFileRemover overrides how replaced and orphaned image files are deleted.
func (s *RecipeService) WithFileRemover(fn func(path string) error) *RecipeService {
	s.removeFile = fn
	return s
}

// cleanupImage removes an image file best-effort; failures are logged, never
// propagated.
func (s *RecipeService) cleanupImage(path string) {
	if path == "" {
		return
	}
	if err := s.removeFile(path); err != nil && !os.IsNotExist(err) {
		middleware.Logger.Warn("failed to remove recipe image", "path", path, "error", err)
	}
}

// RecipeInput carries the user-editable recipe fields.
type RecipeInput struct {
	Title         string `json:"title"`
	Ingredients   string `json:"ingredients"`
	Steps         string `json:"steps"`
	Description   string `json:"description"`
	PrepTime      string `json:"prep_time"`
	Difficulty    string `json:"difficulty"`
	Cost          string `json:"cost"`
	Servings      string `json:"servings"`
	CookingMethod string `json:"cooking_method"`
	ImagePath     string `json:"image_path"`
}

func validateRecipeInput(in RecipeInput) error {
	if strings.TrimSpace(in.Title) == "" {
		return models.NewValidationError("Title is required")
	}
	if strings.TrimSpace(in.Ingredients) == "" {
		return models.NewValidationError("Ingredients are required")
	}
	if strings.TrimSpace(in.Steps) == "" {
		return models.NewValidationError("Steps are required")
	}
	if len(in.Title) > 200 {
		return models.NewValidationError("Title must be at most 200 characters")
	}
	return nil
}

// Create stores a new recipe owned by userID.
func (s *RecipeService) Create(ctx context.Context, userID uint, in RecipeInput) (*models.Recipe, error) {
	if err := validateRecipeInput(in); err != nil {
		return nil, err
	}

	recipe := &models.Recipe{
		UserID:        userID,
		Title:         strings.TrimSpace(in.Title),
		Ingredients:   in.Ingredients,
		Steps:         in.Steps,
		Description:   in.Description,
		PrepTime:      in.PrepTime,
		Difficulty:    in.Difficulty,
		Cost:          in.Cost,
		Servings:      in.Servings,
		CookingMethod: in.CookingMethod,
		ImagePath:     in.ImagePath,
	}
	if err := s.recipeRepo.Create(ctx, recipe); err != nil {
		return nil, err
	}
	return s.recipeRepo.GetByID(ctx, recipe.ID, userID)
}

// Get returns the recipe with counters computed for the viewer.
func (s *RecipeService) Get(ctx context.Context, id, viewerID uint) (*models.Recipe, error) {
	return s.recipeRepo.GetByID(ctx, id, viewerID)
}

// Feed returns the newest recipes across all users.
func (s *RecipeService) Feed(ctx context.Context, limit, offset int, viewerID uint) ([]*models.Recipe, error) {
	return s.recipeRepo.List(ctx, limit, offset, viewerID)
}

// ByUser returns a user's recipes, newest first.
func (s *RecipeService) ByUser(ctx context.Context, userID uint, limit, offset int, viewerID uint) ([]*models.Recipe, error) {
	return s.recipeRepo.GetByUserID(ctx, userID, limit, offset, viewerID)
}

// Liked returns the recipes userID has liked, most recently liked first.
func (s *RecipeService) Liked(ctx context.Context, userID uint, limit, offset int) ([]*models.Recipe, error) {
	return s.recipeRepo.ListLiked(ctx, userID, limit, offset)
}

// Search matches the query against titles and ingredients.
func (s *RecipeService) Search(ctx context.Context, query string, limit, offset int, viewerID uint) ([]*models.Recipe, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, models.NewValidationError("Search query is required")
	}
	return s.recipeRepo.Search(ctx, query, limit, offset, viewerID)
}

// Update rewrites the recipe's editable fields. Only the owner may update.
func (s *RecipeService) Update(ctx context.Context, id, userID uint, in RecipeInput) (*models.Recipe, error) {
	if err := validateRecipeInput(in); err != nil {
		return nil, err
	}

	recipe, err := s.recipeRepo.GetByID(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	if recipe.UserID != userID {
		return nil, models.NewForbiddenError("You can only edit your own recipes")
	}

	oldImage := recipe.ImagePath

	recipe.Title = strings.TrimSpace(in.Title)
	recipe.Ingredients = in.Ingredients
	recipe.Steps = in.Steps
	recipe.Description = in.Description
	recipe.PrepTime = in.PrepTime
	recipe.Difficulty = in.Difficulty
	recipe.Cost = in.Cost
	recipe.Servings = in.Servings
	recipe.CookingMethod = in.CookingMethod
	if in.ImagePath != "" {
		recipe.ImagePath = in.ImagePath
	}

	if err := s.recipeRepo.Update(ctx, recipe); err != nil {
		return nil, err
	}

	if in.ImagePath != "" && oldImage != in.ImagePath {
		s.cleanupImage(oldImage)
	}
	return s.recipeRepo.GetByID(ctx, id, userID)
}

// Delete removes the recipe. Only the owner may delete.
func (s *RecipeService) Delete(ctx context.Context, id, userID uint) error {
	recipe, err := s.recipeRepo.GetByID(ctx, id, userID)
	if err != nil {
		return err
	}
	if recipe.UserID != userID {
		return models.NewForbiddenError("You can only delete your own recipes")
	}

	if err := s.recipeRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.cleanupImage(recipe.ImagePath)
	return nil
}

// RateInput carries a rating submission.
type RateInput struct {
	Score   int    `json:"score"`
	Comment string `json:"comment"`
}

// Rate upserts the caller's rating on the recipe. A re-rate that omits the
// comment keeps the previous one; the score always moves to the new value.
func (s *RecipeService) Rate(ctx context.Context, recipeID, userID uint, in RateInput) (*models.RatingStats, error) {
	if err := validation.ValidateScore(in.Score); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	if _, err := s.recipeRepo.GetByID(ctx, recipeID, 0); err != nil {
		return nil, err
	}

	comment := strings.TrimSpace(in.Comment)
	if comment == "" {
		existing, err := s.ratingRepo.GetByRecipeAndUser(ctx, recipeID, userID)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			comment = existing.Comment
		}
	}

	rating := &models.Rating{
		RecipeID: recipeID,
		UserID:   userID,
		Score:    in.Score,
		Comment:  comment,
	}
	if err := s.ratingRepo.Upsert(ctx, rating); err != nil {
		return nil, err
	}

	return s.ratingRepo.Stats(ctx, recipeID)
}

// Ratings lists individual ratings with their review comments.
func (s *RecipeService) Ratings(ctx context.Context, recipeID uint, limit, offset int) ([]*models.Rating, error) {
	if _, err := s.recipeRepo.GetByID(ctx, recipeID, 0); err != nil {
		return nil, err
	}
	return s.ratingRepo.ListByRecipe(ctx, recipeID, limit, offset)
}

// DeleteRating removes a rating from the recipe. Only the rating's author may
// remove it.
func (s *RecipeService) DeleteRating(ctx context.Context, recipeID, ratingID, userID uint) (*models.RatingStats, error) {
	if _, err := s.recipeRepo.GetByID(ctx, recipeID, 0); err != nil {
		return nil, err
	}

	own, err := s.ratingRepo.GetByRecipeAndUser(ctx, recipeID, userID)
	if err != nil {
		return nil, err
	}
	if own == nil {
		return nil, models.NewNotFoundError("Rating", ratingID)
	}
	if own.ID != ratingID {
		return nil, models.NewForbiddenError("You can only delete your own rating")
	}

	if err := s.ratingRepo.Delete(ctx, recipeID, userID); err != nil {
		return nil, err
	}
	return s.ratingRepo.Stats(ctx, recipeID)
}
