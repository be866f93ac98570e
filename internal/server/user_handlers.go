package server

import (
	"gastronauta/internal/models"
	"gastronauta/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetMyProfile handles GET /api/users/me
func (s *Server) GetMyProfile(c *fiber.Ctx) error {
	userID := currentUserID(c)
	user, err := s.userService.Profile(c.Context(), userID, userID)
	if err != nil {
		return models.Respond(c, err)
	}
	return c.JSON(user)
}

// GetUserProfile handles GET /api/users/:id
func (s *Server) GetUserProfile(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	user, svcErr := s.userService.Profile(c.Context(), id, currentUserID(c))
	if svcErr != nil {
		return models.Respond(c, svcErr)
	}
	return c.JSON(user)
}

// UpdateMyProfile handles PUT /api/users/me
func (s *Server) UpdateMyProfile(c *fiber.Ctx) error {
	var req service.ProfileInput
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	user, err := s.userService.UpdateProfile(c.Context(), currentUserID(c), req)
	if err != nil {
		return models.Respond(c, err)
	}
	return c.JSON(user)
}

// UploadAvatar handles POST /api/users/me/avatar
func (s *Server) UploadAvatar(c *fiber.Ctx) error {
	content, err := formImageBytes(c)
	if err != nil {
		return models.Respond(c, err)
	}

	result, err := s.uploadService.Save(content)
	if err != nil {
		return models.Respond(c, err)
	}

	user, err := s.userService.UpdateProfile(c.Context(), currentUserID(c), service.ProfileInput{
		AvatarPath: result.Path,
	})
	if err != nil {
		s.discardUpload(result.Path)
		return models.Respond(c, err)
	}

	return c.JSON(fiber.Map{
		"user":           user,
		"path":           result.Path,
		"thumbnail_path": result.ThumbnailPath,
	})
}

// ChangePassword handles POST /api/users/change-password
func (s *Server) ChangePassword(c *fiber.Ctx) error {
	var req struct {
		CurrentPassword string `json:"current_password"`
		NewPassword     string `json:"new_password"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	if err := s.userService.ChangePassword(c.Context(), currentUserID(c), req.CurrentPassword, req.NewPassword); err != nil {
		return models.Respond(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Password changed",
	})
}

// DeleteMyAccount handles DELETE /api/users/me
func (s *Server) DeleteMyAccount(c *fiber.Ctx) error {
	var req struct {
		Password string `json:"password"`
	}
	if err := c.BodyParser(&req); err != nil || req.Password == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Password confirmation is required"))
	}

	if err := s.userService.DeleteAccount(c.Context(), currentUserID(c), req.Password); err != nil {
		return models.Respond(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Account deleted",
	})
}
