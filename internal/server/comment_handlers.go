package server

import (
	"gastronauta/internal/models"

	"github.com/gofiber/fiber/v2"
)

// ReactToComment handles POST /api/comments/:id/react
func (s *Server) ReactToComment(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Kind models.ReactionKind `json:"kind"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	result, svcErr := s.reactionService.SetCommentReaction(c.Context(), currentUserID(c), id, req.Kind)
	if svcErr != nil {
		return models.Respond(c, svcErr)
	}
	return c.JSON(result)
}

// DeleteComment handles DELETE /api/comments/:id
func (s *Server) DeleteComment(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if svcErr := s.commentService.Delete(c.Context(), id, currentUserID(c)); svcErr != nil {
		return models.Respond(c, svcErr)
	}
	return c.JSON(fiber.Map{
		"message": "Comment deleted",
	})
}
