package service

import (
	"context"
	"strings"

	"gastronauta/internal/models"
	"gastronauta/internal/repository"
)

const maxCommentLength = 2000

// CommentService provides comment business logic.
type CommentService struct {
	commentRepo repository.CommentRepository
	recipeRepo  repository.RecipeRepository
}

// NewCommentService returns a new CommentService.
func NewCommentService(commentRepo repository.CommentRepository, recipeRepo repository.RecipeRepository) *CommentService {
	return &CommentService{commentRepo: commentRepo, recipeRepo: recipeRepo}
}

// Add creates a comment by userID on the recipe.
func (s *CommentService) Add(ctx context.Context, recipeID, userID uint, content string) (*models.Comment, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, models.NewValidationError("Comment cannot be empty")
	}
	if len(content) > maxCommentLength {
		return nil, models.NewValidationError("Comment is too long")
	}

	if _, err := s.recipeRepo.GetByID(ctx, recipeID, 0); err != nil {
		return nil, err
	}

	comment := &models.Comment{
		RecipeID: recipeID,
		UserID:   userID,
		Content:  content,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

// ListByRecipe returns the recipe's comments with reaction tallies for the viewer.
func (s *CommentService) ListByRecipe(ctx context.Context, recipeID uint, limit, offset int, viewerID uint) ([]*models.Comment, error) {
	if _, err := s.recipeRepo.GetByID(ctx, recipeID, 0); err != nil {
		return nil, err
	}
	return s.commentRepo.ListByRecipe(ctx, recipeID, limit, offset, viewerID)
}

// Delete removes the comment. The comment's author and the owner of the
// recipe it sits on may both delete it.
func (s *CommentService) Delete(ctx context.Context, commentID, userID uint) error {
	comment, err := s.commentRepo.GetByID(ctx, commentID)
	if err != nil {
		return err
	}

	if comment.UserID != userID {
		recipe, err := s.recipeRepo.GetByID(ctx, comment.RecipeID, 0)
		if err != nil {
			return err
		}
		if recipe.UserID != userID {
			return models.NewForbiddenError("You can only delete your own comments")
		}
	}

	return s.commentRepo.Delete(ctx, commentID)
}
