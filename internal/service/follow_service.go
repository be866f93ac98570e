package service

import (
	"context"

	"gastronauta/internal/models"
	"gastronauta/internal/repository"
)

// FollowService manages the directed follow graph.
type FollowService struct {
	followRepo repository.FollowRepository
	userRepo   repository.UserRepository
}

// NewFollowService returns a new FollowService.
func NewFollowService(followRepo repository.FollowRepository, userRepo repository.UserRepository) *FollowService {
	return &FollowService{followRepo: followRepo, userRepo: userRepo}
}

// FollowState is the relation between the caller and a user after a change.
type FollowState struct {
	Following     bool  `json:"following"`
	FollowerCount int64 `json:"follower_count"`
}

// Follow adds the edge follower -> followee. Following yourself is rejected;
// following someone already followed changes nothing.
func (s *FollowService) Follow(ctx context.Context, followerID, followeeID uint) (*FollowState, error) {
	if followerID == followeeID {
		return nil, models.NewInvalidOperationError("You cannot follow yourself")
	}

	if _, err := s.userRepo.GetByID(ctx, followeeID); err != nil {
		return nil, err
	}

	if err := s.followRepo.Create(ctx, followerID, followeeID); err != nil {
		return nil, err
	}

	count, err := s.followRepo.CountFollowers(ctx, followeeID)
	if err != nil {
		return nil, err
	}
	return &FollowState{Following: true, FollowerCount: count}, nil
}

// Unfollow removes the edge; removing a missing edge changes nothing.
func (s *FollowService) Unfollow(ctx context.Context, followerID, followeeID uint) (*FollowState, error) {
	if followerID == followeeID {
		return nil, models.NewInvalidOperationError("You cannot unfollow yourself")
	}

	if _, err := s.userRepo.GetByID(ctx, followeeID); err != nil {
		return nil, err
	}

	if err := s.followRepo.Delete(ctx, followerID, followeeID); err != nil {
		return nil, err
	}

	count, err := s.followRepo.CountFollowers(ctx, followeeID)
	if err != nil {
		return nil, err
	}
	return &FollowState{Following: false, FollowerCount: count}, nil
}

// Followers lists the users following userID, annotated for the viewer.
func (s *FollowService) Followers(ctx context.Context, userID uint, limit, offset int, viewerID uint) ([]*models.User, error) {
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return nil, err
	}
	return s.followRepo.ListFollowers(ctx, userID, limit, offset, viewerID)
}

// Following lists the users userID follows, annotated for the viewer.
func (s *FollowService) Following(ctx context.Context, userID uint, limit, offset int, viewerID uint) ([]*models.User, error) {
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return nil, err
	}
	return s.followRepo.ListFollowing(ctx, userID, limit, offset, viewerID)
}
