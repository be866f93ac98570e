package repository

import (
	"context"

	"gastronauta/internal/cache"
	"gastronauta/internal/models"

	"gorm.io/gorm"
)

// FollowRepository defines persistence operations for the follow graph.
type FollowRepository interface {
	Create(ctx context.Context, followerID, followeeID uint) error
	Delete(ctx context.Context, followerID, followeeID uint) error
	Exists(ctx context.Context, followerID, followeeID uint) (bool, error)
	CountFollowers(ctx context.Context, userID uint) (int64, error)
	CountFollowing(ctx context.Context, userID uint) (int64, error)
	ListFollowers(ctx context.Context, userID uint, limit, offset int, viewerID uint) ([]*models.User, error)
	ListFollowing(ctx context.Context, userID uint, limit, offset int, viewerID uint) ([]*models.User, error)
}

type followRepository struct {
	db *gorm.DB
}

// NewFollowRepository returns a new FollowRepository implementation.
func NewFollowRepository(db *gorm.DB) FollowRepository {
	return &followRepository{db: db}
}

// Create inserts the edge; following someone already followed is a no-op.
func (r *followRepository) Create(ctx context.Context, followerID, followeeID uint) error {
	result := r.db.WithContext(ctx).Exec(
		`INSERT INTO follows (follower_id, followee_id, created_at)
		 VALUES (?, ?, NOW())
		 ON CONFLICT (follower_id, followee_id) DO NOTHING`,
		followerID, followeeID,
	)
	if result.Error != nil {
		return models.NewInternalError(result.Error)
	}
	cache.InvalidateUser(ctx, followeeID)
	return nil
}

// Delete removes the edge; unfollowing someone not followed is a no-op.
func (r *followRepository) Delete(ctx context.Context, followerID, followeeID uint) error {
	err := r.db.WithContext(ctx).
		Where("follower_id = ? AND followee_id = ?", followerID, followeeID).
		Delete(&models.Follow{}).Error
	if err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateUser(ctx, followeeID)
	return nil
}

func (r *followRepository) Exists(ctx context.Context, followerID, followeeID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Follow{}).
		Where("follower_id = ? AND followee_id = ?", followerID, followeeID).
		Count(&count).Error
	if err != nil {
		return false, models.NewInternalError(err)
	}
	return count > 0, nil
}

func (r *followRepository) CountFollowers(ctx context.Context, userID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Follow{}).
		Where("followee_id = ?", userID).
		Count(&count).Error
	if err != nil {
		return 0, models.NewInternalError(err)
	}
	return count, nil
}

func (r *followRepository) CountFollowing(ctx context.Context, userID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Follow{}).
		Where("follower_id = ?", userID).
		Count(&count).Error
	if err != nil {
		return 0, models.NewInternalError(err)
	}
	return count, nil
}

// listUsers annotates each row with whether the viewer follows them and
// whether they follow the viewer, so follower lists can render follow buttons
// without extra queries.
func (r *followRepository) listUsers(db *gorm.DB, viewerID uint) *gorm.DB {
	selectQuery := "users.*"
	if viewerID != 0 {
		return db.Select(selectQuery+
			", EXISTS(SELECT 1 FROM follows f2 WHERE f2.follower_id = ? AND f2.followee_id = users.id) as is_following"+
			", EXISTS(SELECT 1 FROM follows f3 WHERE f3.follower_id = users.id AND f3.followee_id = ?) as follows_me",
			viewerID, viewerID)
	}
	return db.Select(selectQuery + ", false as is_following, false as follows_me")
}

func (r *followRepository) ListFollowers(ctx context.Context, userID uint, limit, offset int, viewerID uint) ([]*models.User, error) {
	var users []*models.User
	err := r.listUsers(r.db.WithContext(ctx).Model(&models.User{}), viewerID).
		Joins("JOIN follows ON follows.follower_id = users.id AND follows.followee_id = ?", userID).
		Order("follows.created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&users).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return users, nil
}

func (r *followRepository) ListFollowing(ctx context.Context, userID uint, limit, offset int, viewerID uint) ([]*models.User, error) {
	var users []*models.User
	err := r.listUsers(r.db.WithContext(ctx).Model(&models.User{}), viewerID).
		Joins("JOIN follows ON follows.followee_id = users.id AND follows.follower_id = ?", userID).
		Order("follows.created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&users).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return users, nil
}
