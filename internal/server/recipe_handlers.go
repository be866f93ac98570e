package server

import (
	"strings"

	"gastronauta/internal/models"
	"gastronauta/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetFeed handles GET /api/recipes/feed
func (s *Server) GetFeed(c *fiber.Ctx) error {
	p := parsePagination(c, 20)
	recipes, err := s.recipeService.Feed(c.Context(), p.Limit, p.Offset, s.optionalUserID(c))
	if err != nil {
		return models.Respond(c, err)
	}
	return c.JSON(fiber.Map{
		"recipes": recipes,
		"limit":   p.Limit,
		"offset":  p.Offset,
	})
}

// SearchRecipes handles GET /api/recipes/search
func (s *Server) SearchRecipes(c *fiber.Ctx) error {
	p := parsePagination(c, 20)
	recipes, err := s.recipeService.Search(c.Context(), c.Query("q"), p.Limit, p.Offset, s.optionalUserID(c))
	if err != nil {
		return models.Respond(c, err)
	}
	return c.JSON(fiber.Map{
		"recipes": recipes,
		"query":   c.Query("q"),
		"limit":   p.Limit,
		"offset":  p.Offset,
	})
}

// GetUserRecipes handles GET /api/recipes/user/:userId
func (s *Server) GetUserRecipes(c *fiber.Ctx) error {
	userID, err := s.parseID(c, "userId")
	if err != nil {
		return nil
	}
	p := parsePagination(c, 20)

	recipes, svcErr := s.recipeService.ByUser(c.Context(), userID, p.Limit, p.Offset, s.optionalUserID(c))
	if svcErr != nil {
		return models.Respond(c, svcErr)
	}
	return c.JSON(fiber.Map{
		"recipes": recipes,
		"limit":   p.Limit,
		"offset":  p.Offset,
	})
}

// GetMyRecipes handles GET /api/recipes/mine
func (s *Server) GetMyRecipes(c *fiber.Ctx) error {
	userID := currentUserID(c)
	p := parsePagination(c, 20)

	recipes, err := s.recipeService.ByUser(c.Context(), userID, p.Limit, p.Offset, userID)
	if err != nil {
		return models.Respond(c, err)
	}
	return c.JSON(fiber.Map{
		"recipes": recipes,
		"limit":   p.Limit,
		"offset":  p.Offset,
	})
}

// GetLikedRecipes handles GET /api/recipes/liked
func (s *Server) GetLikedRecipes(c *fiber.Ctx) error {
	p := parsePagination(c, 20)
	recipes, err := s.recipeService.Liked(c.Context(), currentUserID(c), p.Limit, p.Offset)
	if err != nil {
		return models.Respond(c, err)
	}
	return c.JSON(fiber.Map{
		"recipes": recipes,
		"limit":   p.Limit,
		"offset":  p.Offset,
	})
}

// GetRecipe handles GET /api/recipes/:id
func (s *Server) GetRecipe(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	recipe, svcErr := s.recipeService.Get(c.Context(), id, s.optionalUserID(c))
	if svcErr != nil {
		return models.Respond(c, svcErr)
	}
	return c.JSON(recipe)
}

// CreateRecipe handles POST /api/recipes. The body is either JSON or a
// multipart form with an optional "image" part attached in the same request.
func (s *Server) CreateRecipe(c *fiber.Ctx) error {
	var req service.RecipeInput
	uploadedPath := ""

	if strings.HasPrefix(c.Get(fiber.HeaderContentType), fiber.MIMEMultipartForm) {
		req = recipeInputFromForm(c)
		if _, fileErr := c.FormFile("image"); fileErr == nil {
			content, svcErr := formImageBytes(c)
			if svcErr != nil {
				return models.Respond(c, svcErr)
			}
			result, svcErr := s.uploadService.Save(content)
			if svcErr != nil {
				return models.Respond(c, svcErr)
			}
			req.ImagePath = result.Path
			uploadedPath = result.Path
		}
	} else if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	recipe, err := s.recipeService.Create(c.Context(), currentUserID(c), req)
	if err != nil {
		s.discardUpload(uploadedPath)
		return models.Respond(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(recipe)
}

func recipeInputFromForm(c *fiber.Ctx) service.RecipeInput {
	return service.RecipeInput{
		Title:         c.FormValue("title"),
		Ingredients:   c.FormValue("ingredients"),
		Steps:         c.FormValue("steps"),
		Description:   c.FormValue("description"),
		PrepTime:      c.FormValue("prep_time"),
		Difficulty:    c.FormValue("difficulty"),
		Cost:          c.FormValue("cost"),
		Servings:      c.FormValue("servings"),
		CookingMethod: c.FormValue("cooking_method"),
	}
}

// UpdateRecipe handles PUT /api/recipes/:id
func (s *Server) UpdateRecipe(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req service.RecipeInput
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	recipe, svcErr := s.recipeService.Update(c.Context(), id, currentUserID(c), req)
	if svcErr != nil {
		return models.Respond(c, svcErr)
	}
	return c.JSON(recipe)
}

// DeleteRecipe handles DELETE /api/recipes/:id
func (s *Server) DeleteRecipe(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if svcErr := s.recipeService.Delete(c.Context(), id, currentUserID(c)); svcErr != nil {
		return models.Respond(c, svcErr)
	}
	return c.JSON(fiber.Map{
		"message": "Recipe deleted",
	})
}

// ToggleLike handles POST /api/recipes/:id/like
func (s *Server) ToggleLike(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	result, svcErr := s.reactionService.ToggleRecipeLike(c.Context(), currentUserID(c), id)
	if svcErr != nil {
		return models.Respond(c, svcErr)
	}
	return c.JSON(result)
}

// GetComments handles GET /api/recipes/:id/comments
func (s *Server) GetComments(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	p := parsePagination(c, 50)

	comments, svcErr := s.commentService.ListByRecipe(c.Context(), id, p.Limit, p.Offset, s.optionalUserID(c))
	if svcErr != nil {
		return models.Respond(c, svcErr)
	}
	return c.JSON(fiber.Map{
		"comments": comments,
		"limit":    p.Limit,
		"offset":   p.Offset,
	})
}

// CreateComment handles POST /api/recipes/:id/comments
func (s *Server) CreateComment(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Content string `json:"content"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	comment, svcErr := s.commentService.Add(c.Context(), id, currentUserID(c), req.Content)
	if svcErr != nil {
		return models.Respond(c, svcErr)
	}
	return c.Status(fiber.StatusCreated).JSON(comment)
}

// RateRecipe handles POST /api/recipes/:id/ratings
func (s *Server) RateRecipe(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req service.RateInput
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	stats, svcErr := s.recipeService.Rate(c.Context(), id, currentUserID(c), req)
	if svcErr != nil {
		return models.Respond(c, svcErr)
	}
	return c.JSON(stats)
}

// GetRatings handles GET /api/recipes/:id/ratings
func (s *Server) GetRatings(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	p := parsePagination(c, 20)

	ratings, svcErr := s.recipeService.Ratings(c.Context(), id, p.Limit, p.Offset)
	if svcErr != nil {
		return models.Respond(c, svcErr)
	}
	return c.JSON(fiber.Map{
		"ratings": ratings,
		"limit":   p.Limit,
		"offset":  p.Offset,
	})
}

// DeleteRating handles DELETE /api/recipes/:id/ratings/:ratingId
func (s *Server) DeleteRating(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	ratingID, err := s.parseID(c, "ratingId")
	if err != nil {
		return nil
	}

	stats, svcErr := s.recipeService.DeleteRating(c.Context(), id, ratingID, currentUserID(c))
	if svcErr != nil {
		return models.Respond(c, svcErr)
	}
	return c.JSON(stats)
}

// UploadRecipeImage handles POST /api/recipes/:id/image
func (s *Server) UploadRecipeImage(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	userID := currentUserID(c)
	recipe, svcErr := s.recipeService.Get(c.Context(), id, userID)
	if svcErr != nil {
		return models.Respond(c, svcErr)
	}
	if recipe.UserID != userID {
		return models.Respond(c, models.NewForbiddenError("You can only edit your own recipes"))
	}

	content, svcErr := formImageBytes(c)
	if svcErr != nil {
		return models.Respond(c, svcErr)
	}

	result, svcErr := s.uploadService.Save(content)
	if svcErr != nil {
		return models.Respond(c, svcErr)
	}

	updated, svcErr := s.recipeService.Update(c.Context(), id, userID, service.RecipeInput{
		Title:         recipe.Title,
		Ingredients:   recipe.Ingredients,
		Steps:         recipe.Steps,
		Description:   recipe.Description,
		PrepTime:      recipe.PrepTime,
		Difficulty:    recipe.Difficulty,
		Cost:          recipe.Cost,
		Servings:      recipe.Servings,
		CookingMethod: recipe.CookingMethod,
		ImagePath:     result.Path,
	})
	if svcErr != nil {
		s.discardUpload(result.Path)
		return models.Respond(c, svcErr)
	}

	return c.JSON(fiber.Map{
		"recipe":         updated,
		"path":           result.Path,
		"thumbnail_path": result.ThumbnailPath,
	})
}
