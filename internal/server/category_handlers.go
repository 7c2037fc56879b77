package server

import (
	"meetup/internal/models"
	"meetup/internal/service"

	"github.com/gofiber/fiber/v2"
)

// ListCategories handles GET /api/posts/categories
func (s *Server) ListCategories(c *fiber.Ctx) error {
	categories, err := s.categoryService.ListCategories(c.UserContext())
	if err != nil {
		return models.RespondError(c, err)
	}
	return c.JSON(categories)
}

// CreateCategory handles POST /api/posts/categories
func (s *Server) CreateCategory(c *fiber.Ctx) error {
	var req service.CategoryInput
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	category, err := s.categoryService.CreateCategory(c.UserContext(), req)
	if err != nil {
		return models.RespondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(category)
}

// GetCategory handles GET /api/posts/categories/:id
func (s *Server) GetCategory(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}

	category, err := s.categoryService.GetCategory(c.UserContext(), id)
	if err != nil {
		return models.RespondError(c, err)
	}
	return c.JSON(category)
}

// UpdateCategory handles PUT /api/posts/categories/:id
func (s *Server) UpdateCategory(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}
	var req service.CategoryInput
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	category, err := s.categoryService.UpdateCategory(c.UserContext(), id, req)
	if err != nil {
		return models.RespondError(c, err)
	}
	return c.JSON(category)
}

// DeleteCategory handles DELETE /api/posts/categories/:id
func (s *Server) DeleteCategory(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.categoryService.DeleteCategory(c.UserContext(), id); err != nil {
		return models.RespondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
