package service

import (
	"context"
	"time"

	"gastronauta/internal/models"
	"gastronauta/internal/repository"
)

type userRepoStub struct {
	getByIDFn              func(context.Context, uint) (*models.User, error)
	getProfileFn           func(context.Context, uint, uint) (*models.User, error)
	getByEmailFn           func(context.Context, string) (*models.User, error)
	getByUsernameFn        func(context.Context, string) (*models.User, error)
	createFn               func(context.Context, *models.User) error
	updateFn               func(context.Context, *models.User) error
	updatePasswordFn       func(context.Context, uint, string) error
	setResetTokenFn        func(context.Context, uint, string, time.Time) error
	getByValidResetTokenFn func(context.Context, string, time.Time) (*models.User, error)
	redeemResetFn          func(context.Context, uint, string) error
	deleteAccountFn        func(context.Context, uint) error
}

func (s *userRepoStub) GetByID(ctx context.Context, id uint) (*models.User, error) {
	return s.getByIDFn(ctx, id)
}
func (s *userRepoStub) GetProfile(ctx context.Context, id, viewerID uint) (*models.User, error) {
	return s.getProfileFn(ctx, id, viewerID)
}
func (s *userRepoStub) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.getByEmailFn(ctx, email)
}
func (s *userRepoStub) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.getByUsernameFn(ctx, username)
}
func (s *userRepoStub) Create(ctx context.Context, user *models.User) error {
	return s.createFn(ctx, user)
}
func (s *userRepoStub) Update(ctx context.Context, user *models.User) error {
	return s.updateFn(ctx, user)
}
func (s *userRepoStub) UpdatePassword(ctx context.Context, id uint, hashed string) error {
	return s.updatePasswordFn(ctx, id, hashed)
}
func (s *userRepoStub) SetResetToken(ctx context.Context, id uint, hash string, expiry time.Time) error {
	return s.setResetTokenFn(ctx, id, hash, expiry)
}
func (s *userRepoStub) GetByValidResetToken(ctx context.Context, hash string, now time.Time) (*models.User, error) {
	return s.getByValidResetTokenFn(ctx, hash, now)
}
func (s *userRepoStub) RedeemReset(ctx context.Context, id uint, hashed string) error {
	return s.redeemResetFn(ctx, id, hashed)
}
func (s *userRepoStub) DeleteAccount(ctx context.Context, id uint) error {
	return s.deleteAccountFn(ctx, id)
}

func noopUserRepo() *userRepoStub {
	return &userRepoStub{
		getByIDFn:       func(context.Context, uint) (*models.User, error) { return &models.User{ID: 1}, nil },
		getProfileFn:    func(context.Context, uint, uint) (*models.User, error) { return &models.User{ID: 1}, nil },
		getByEmailFn:    func(context.Context, string) (*models.User, error) { return nil, nil },
		getByUsernameFn: func(context.Context, string) (*models.User, error) { return nil, nil },
		createFn:        func(context.Context, *models.User) error { return nil },
		updateFn:        func(context.Context, *models.User) error { return nil },
		updatePasswordFn: func(context.Context, uint, string) error {
			return nil
		},
		setResetTokenFn: func(context.Context, uint, string, time.Time) error { return nil },
		getByValidResetTokenFn: func(context.Context, string, time.Time) (*models.User, error) {
			return nil, nil
		},
		redeemResetFn:   func(context.Context, uint, string) error { return nil },
		deleteAccountFn: func(context.Context, uint) error { return nil },
	}
}

type recipeRepoStub struct {
	createFn      func(context.Context, *models.Recipe) error
	getByIDFn     func(context.Context, uint, uint) (*models.Recipe, error)
	getByUserIDFn func(context.Context, uint, int, int, uint) ([]*models.Recipe, error)
	listFn        func(context.Context, int, int, uint) ([]*models.Recipe, error)
	listLikedFn   func(context.Context, uint, int, int) ([]*models.Recipe, error)
	searchFn      func(context.Context, string, int, int, uint) ([]*models.Recipe, error)
	updateFn      func(context.Context, *models.Recipe) error
	deleteFn      func(context.Context, uint) error
	isLikedFn     func(context.Context, uint, uint) (bool, error)
	countLikesFn  func(context.Context, uint) (int64, error)
	likeFn        func(context.Context, uint, uint) error
	unlikeFn      func(context.Context, uint, uint) error
}

func (s *recipeRepoStub) Create(ctx context.Context, r *models.Recipe) error {
	return s.createFn(ctx, r)
}
func (s *recipeRepoStub) GetByID(ctx context.Context, id, viewerID uint) (*models.Recipe, error) {
	return s.getByIDFn(ctx, id, viewerID)
}
func (s *recipeRepoStub) GetByUserID(ctx context.Context, userID uint, limit, offset int, viewerID uint) ([]*models.Recipe, error) {
	return s.getByUserIDFn(ctx, userID, limit, offset, viewerID)
}
func (s *recipeRepoStub) List(ctx context.Context, limit, offset int, viewerID uint) ([]*models.Recipe, error) {
	return s.listFn(ctx, limit, offset, viewerID)
}
func (s *recipeRepoStub) ListLiked(ctx context.Context, userID uint, limit, offset int) ([]*models.Recipe, error) {
	return s.listLikedFn(ctx, userID, limit, offset)
}
func (s *recipeRepoStub) Search(ctx context.Context, q string, limit, offset int, viewerID uint) ([]*models.Recipe, error) {
	return s.searchFn(ctx, q, limit, offset, viewerID)
}
func (s *recipeRepoStub) Update(ctx context.Context, r *models.Recipe) error {
	return s.updateFn(ctx, r)
}
func (s *recipeRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}
func (s *recipeRepoStub) IsLiked(ctx context.Context, userID, recipeID uint) (bool, error) {
	return s.isLikedFn(ctx, userID, recipeID)
}
func (s *recipeRepoStub) CountLikes(ctx context.Context, recipeID uint) (int64, error) {
	return s.countLikesFn(ctx, recipeID)
}
func (s *recipeRepoStub) Like(ctx context.Context, userID, recipeID uint) error {
	return s.likeFn(ctx, userID, recipeID)
}
func (s *recipeRepoStub) Unlike(ctx context.Context, userID, recipeID uint) error {
	return s.unlikeFn(ctx, userID, recipeID)
}

func noopRecipeRepo() *recipeRepoStub {
	return &recipeRepoStub{
		createFn: func(context.Context, *models.Recipe) error { return nil },
		getByIDFn: func(_ context.Context, id, _ uint) (*models.Recipe, error) {
			return &models.Recipe{ID: id, UserID: 1, Title: "Tortilla"}, nil
		},
		getByUserIDFn: func(context.Context, uint, int, int, uint) ([]*models.Recipe, error) { return nil, nil },
		listFn:        func(context.Context, int, int, uint) ([]*models.Recipe, error) { return nil, nil },
		listLikedFn:   func(context.Context, uint, int, int) ([]*models.Recipe, error) { return nil, nil },
		searchFn:      func(context.Context, string, int, int, uint) ([]*models.Recipe, error) { return nil, nil },
		updateFn:      func(context.Context, *models.Recipe) error { return nil },
		deleteFn:      func(context.Context, uint) error { return nil },
		isLikedFn:     func(context.Context, uint, uint) (bool, error) { return false, nil },
		countLikesFn:  func(context.Context, uint) (int64, error) { return 0, nil },
		likeFn:        func(context.Context, uint, uint) error { return nil },
		unlikeFn:      func(context.Context, uint, uint) error { return nil },
	}
}

type commentRepoStub struct {
	createFn       func(context.Context, *models.Comment) error
	getByIDFn      func(context.Context, uint) (*models.Comment, error)
	listByRecipeFn func(context.Context, uint, int, int, uint) ([]*models.Comment, error)
	deleteFn       func(context.Context, uint) error
}

func (s *commentRepoStub) Create(ctx context.Context, c *models.Comment) error {
	return s.createFn(ctx, c)
}
func (s *commentRepoStub) GetByID(ctx context.Context, id uint) (*models.Comment, error) {
	return s.getByIDFn(ctx, id)
}
func (s *commentRepoStub) ListByRecipe(ctx context.Context, recipeID uint, limit, offset int, viewerID uint) ([]*models.Comment, error) {
	return s.listByRecipeFn(ctx, recipeID, limit, offset, viewerID)
}
func (s *commentRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}

func noopCommentRepo() *commentRepoStub {
	return &commentRepoStub{
		createFn: func(context.Context, *models.Comment) error { return nil },
		getByIDFn: func(_ context.Context, id uint) (*models.Comment, error) {
			return &models.Comment{ID: id, RecipeID: 2, UserID: 1}, nil
		},
		listByRecipeFn: func(context.Context, uint, int, int, uint) ([]*models.Comment, error) { return nil, nil },
		deleteFn:       func(context.Context, uint) error { return nil },
	}
}

type reactionRepoStub struct {
	getFn        func(context.Context, uint, uint) (*models.CommentReaction, error)
	insertFn     func(context.Context, *models.CommentReaction) error
	updateKindFn func(context.Context, uint, models.ReactionKind) error
	deleteFn     func(context.Context, uint) error
	countsFn     func(context.Context, uint) (*repository.ReactionCounts, error)
}

func (s *reactionRepoStub) Get(ctx context.Context, commentID, userID uint) (*models.CommentReaction, error) {
	return s.getFn(ctx, commentID, userID)
}
func (s *reactionRepoStub) Insert(ctx context.Context, r *models.CommentReaction) error {
	return s.insertFn(ctx, r)
}
func (s *reactionRepoStub) UpdateKind(ctx context.Context, id uint, kind models.ReactionKind) error {
	return s.updateKindFn(ctx, id, kind)
}
func (s *reactionRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}
func (s *reactionRepoStub) Counts(ctx context.Context, commentID uint) (*repository.ReactionCounts, error) {
	return s.countsFn(ctx, commentID)
}

func noopReactionRepo() *reactionRepoStub {
	return &reactionRepoStub{
		getFn:        func(context.Context, uint, uint) (*models.CommentReaction, error) { return nil, nil },
		insertFn:     func(context.Context, *models.CommentReaction) error { return nil },
		updateKindFn: func(context.Context, uint, models.ReactionKind) error { return nil },
		deleteFn:     func(context.Context, uint) error { return nil },
		countsFn: func(context.Context, uint) (*repository.ReactionCounts, error) {
			return &repository.ReactionCounts{}, nil
		},
	}
}

type ratingRepoStub struct {
	getByRecipeAndUserFn func(context.Context, uint, uint) (*models.Rating, error)
	upsertFn             func(context.Context, *models.Rating) error
	listByRecipeFn       func(context.Context, uint, int, int) ([]*models.Rating, error)
	statsFn              func(context.Context, uint) (*models.RatingStats, error)
	deleteFn             func(context.Context, uint, uint) error
}

func (s *ratingRepoStub) GetByRecipeAndUser(ctx context.Context, recipeID, userID uint) (*models.Rating, error) {
	return s.getByRecipeAndUserFn(ctx, recipeID, userID)
}
func (s *ratingRepoStub) Upsert(ctx context.Context, r *models.Rating) error {
	return s.upsertFn(ctx, r)
}
func (s *ratingRepoStub) ListByRecipe(ctx context.Context, recipeID uint, limit, offset int) ([]*models.Rating, error) {
	return s.listByRecipeFn(ctx, recipeID, limit, offset)
}
func (s *ratingRepoStub) Stats(ctx context.Context, recipeID uint) (*models.RatingStats, error) {
	return s.statsFn(ctx, recipeID)
}
func (s *ratingRepoStub) Delete(ctx context.Context, recipeID, userID uint) error {
	return s.deleteFn(ctx, recipeID, userID)
}

func noopRatingRepo() *ratingRepoStub {
	return &ratingRepoStub{
		getByRecipeAndUserFn: func(context.Context, uint, uint) (*models.Rating, error) { return nil, nil },
		upsertFn:             func(context.Context, *models.Rating) error { return nil },
		listByRecipeFn:       func(context.Context, uint, int, int) ([]*models.Rating, error) { return nil, nil },
		statsFn:              func(context.Context, uint) (*models.RatingStats, error) { return &models.RatingStats{}, nil },
		deleteFn:             func(context.Context, uint, uint) error { return nil },
	}
}

type followRepoStub struct {
	createFn         func(context.Context, uint, uint) error
	deleteFn         func(context.Context, uint, uint) error
	existsFn         func(context.Context, uint, uint) (bool, error)
	countFollowersFn func(context.Context, uint) (int64, error)
	countFollowingFn func(context.Context, uint) (int64, error)
	listFollowersFn  func(context.Context, uint, int, int, uint) ([]*models.User, error)
	listFollowingFn  func(context.Context, uint, int, int, uint) ([]*models.User, error)
}

func (s *followRepoStub) Create(ctx context.Context, followerID, followeeID uint) error {
	return s.createFn(ctx, followerID, followeeID)
}
func (s *followRepoStub) Delete(ctx context.Context, followerID, followeeID uint) error {
	return s.deleteFn(ctx, followerID, followeeID)
}
func (s *followRepoStub) Exists(ctx context.Context, followerID, followeeID uint) (bool, error) {
	return s.existsFn(ctx, followerID, followeeID)
}
func (s *followRepoStub) CountFollowers(ctx context.Context, userID uint) (int64, error) {
	return s.countFollowersFn(ctx, userID)
}
func (s *followRepoStub) CountFollowing(ctx context.Context, userID uint) (int64, error) {
	return s.countFollowingFn(ctx, userID)
}
func (s *followRepoStub) ListFollowers(ctx context.Context, userID uint, limit, offset int, viewerID uint) ([]*models.User, error) {
	return s.listFollowersFn(ctx, userID, limit, offset, viewerID)
}
func (s *followRepoStub) ListFollowing(ctx context.Context, userID uint, limit, offset int, viewerID uint) ([]*models.User, error) {
	return s.listFollowingFn(ctx, userID, limit, offset, viewerID)
}

func noopFollowRepo() *followRepoStub {
	return &followRepoStub{
		createFn:         func(context.Context, uint, uint) error { return nil },
		deleteFn:         func(context.Context, uint, uint) error { return nil },
		existsFn:         func(context.Context, uint, uint) (bool, error) { return false, nil },
		countFollowersFn: func(context.Context, uint) (int64, error) { return 0, nil },
		countFollowingFn: func(context.Context, uint) (int64, error) { return 0, nil },
		listFollowersFn:  func(context.Context, uint, int, int, uint) ([]*models.User, error) { return nil, nil },
		listFollowingFn:  func(context.Context, uint, int, int, uint) ([]*models.User, error) { return nil, nil },
	}
}

type mailerStub struct {
	sendFn func(ctx context.Context, toEmail, username, resetURL string) error
}

func (s *mailerStub) SendResetLink(ctx context.Context, toEmail, username, resetURL string) error {
	return s.sendFn(ctx, toEmail, username, resetURL)
}
