package server

import (
	"gastronauta/internal/models"

	"github.com/gofiber/fiber/v2"
)

type followRequest struct {
	UserID uint `json:"user_id"`
}

// FollowUser handles POST /api/users/follow
func (s *Server) FollowUser(c *fiber.Ctx) error {
	var req followRequest
	if err := c.BodyParser(&req); err != nil || req.UserID == 0 {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("user_id is required"))
	}

	state, err := s.followService.Follow(c.Context(), currentUserID(c), req.UserID)
	if err != nil {
		return models.Respond(c, err)
	}
	return c.JSON(state)
}

// UnfollowUser handles DELETE /api/users/follow
func (s *Server) UnfollowUser(c *fiber.Ctx) error {
	var req followRequest
	if err := c.BodyParser(&req); err != nil || req.UserID == 0 {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("user_id is required"))
	}

	state, err := s.followService.Unfollow(c.Context(), currentUserID(c), req.UserID)
	if err != nil {
		return models.Respond(c, err)
	}
	return c.JSON(state)
}

// GetFollowers handles GET /api/users/:id/followers
func (s *Server) GetFollowers(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	p := parsePagination(c, 20)

	users, svcErr := s.followService.Followers(c.Context(), id, p.Limit, p.Offset, currentUserID(c))
	if svcErr != nil {
		return models.Respond(c, svcErr)
	}
	return c.JSON(fiber.Map{
		"followers": users,
		"limit":     p.Limit,
		"offset":    p.Offset,
	})
}

// GetFollowing handles GET /api/users/:id/following
func (s *Server) GetFollowing(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	p := parsePagination(c, 20)

	users, svcErr := s.followService.Following(c.Context(), id, p.Limit, p.Offset, currentUserID(c))
	if svcErr != nil {
		return models.Respond(c, svcErr)
	}
	return c.JSON(fiber.Map{
		"following": users,
		"limit":     p.Limit,
		"offset":    p.Offset,
	})
}
