package service

import (
	"context"

	"gastronauta/internal/models"
	"gastronauta/internal/repository"
)

// ReactionService holds the toggle logic shared by recipe likes and comment
// reactions: reacting the same way twice removes the reaction, reacting
// differently replaces it.
type ReactionService struct {
	recipeRepo   repository.RecipeRepository
	commentRepo  repository.CommentRepository
	reactionRepo repository.ReactionRepository
}

// NewReactionService returns a new ReactionService.
func NewReactionService(
	recipeRepo repository.RecipeRepository,
	commentRepo repository.CommentRepository,
	reactionRepo repository.ReactionRepository,
) *ReactionService {
	return &ReactionService{
		recipeRepo:   recipeRepo,
		commentRepo:  commentRepo,
		reactionRepo: reactionRepo,
	}
}

// LikeResult is the state of a recipe's like relation after a toggle.
type LikeResult struct {
	Liked bool  `json:"liked"`
	Total int64 `json:"total"`
}

// ReactionResult is the state of a comment's reactions after an update.
type ReactionResult struct {
	MyReaction models.ReactionKind `json:"my_reaction"`
	Likes      int64               `json:"likes"`
	Dislikes   int64               `json:"dislikes"`
}

// reactionAction is the storage operation a transition resolves to.
type reactionAction int

const (
	actionInsert reactionAction = iota
	actionDelete
	actionUpdate
)

// transition resolves the {absent, like, dislike} state machine. Requesting
// the current state removes it, anything else replaces it.
func transition(current, requested models.ReactionKind) reactionAction {
	switch {
	case current == models.ReactionNone:
		return actionInsert
	case current == requested:
		return actionDelete
	default:
		return actionUpdate
	}
}

// ToggleRecipeLike flips the caller's like on the recipe and returns the
// resulting state together with the fresh total.
func (s *ReactionService) ToggleRecipeLike(ctx context.Context, userID, recipeID uint) (*LikeResult, error) {
	if _, err := s.recipeRepo.GetByID(ctx, recipeID, 0); err != nil {
		return nil, err
	}

	liked, err := s.recipeRepo.IsLiked(ctx, userID, recipeID)
	if err != nil {
		return nil, err
	}

	if liked {
		err = s.recipeRepo.Unlike(ctx, userID, recipeID)
	} else {
		err = s.recipeRepo.Like(ctx, userID, recipeID)
	}
	if err != nil {
		return nil, err
	}

	total, err := s.recipeRepo.CountLikes(ctx, recipeID)
	if err != nil {
		return nil, err
	}

	return &LikeResult{Liked: !liked, Total: total}, nil
}

// SetCommentReaction applies the caller's reaction to the comment and returns
// the resulting state with fresh tallies.
func (s *ReactionService) SetCommentReaction(ctx context.Context, userID, commentID uint, kind models.ReactionKind) (*ReactionResult, error) {
	if !kind.Valid() {
		return nil, models.NewValidationError("Reaction must be 'like' or 'dislike'")
	}

	if _, err := s.commentRepo.GetByID(ctx, commentID); err != nil {
		return nil, err
	}

	current, err := s.reactionRepo.Get(ctx, commentID, userID)
	if err != nil {
		return nil, err
	}

	currentKind := models.ReactionNone
	if current != nil {
		currentKind = current.Kind
	}

	result := kind
	switch transition(currentKind, kind) {
	case actionInsert:
		err = s.reactionRepo.Insert(ctx, &models.CommentReaction{
			CommentID: commentID,
			UserID:    userID,
			Kind:      kind,
		})
		// A concurrent insert winning the race leaves a row in place; the
		// tallies below reflect whatever landed.
		if appErr, ok := err.(*models.AppError); ok && appErr.Code == models.CodeConflict {
			err = nil
		}
	case actionDelete:
		err = s.reactionRepo.Delete(ctx, current.ID)
		result = models.ReactionNone
	case actionUpdate:
		err = s.reactionRepo.UpdateKind(ctx, current.ID, kind)
	}
	if err != nil {
		return nil, err
	}

	counts, err := s.reactionRepo.Counts(ctx, commentID)
	if err != nil {
		return nil, err
	}

	return &ReactionResult{
		MyReaction: result,
		Likes:      counts.Likes,
		Dislikes:   counts.Dislikes,
	}, nil
}
