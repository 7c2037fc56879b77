package server

import (
	"meetup/internal/models"
	"meetup/internal/service"

	"github.com/gofiber/fiber/v2"
)

// ListTags handles GET /api/posts/tags
func (s *Server) ListTags(c *fiber.Ctx) error {
	tags, err := s.tagService.ListTags(c.UserContext())
	if err != nil {
		return models.RespondError(c, err)
	}
	return c.JSON(tags)
}

// CreateTag handles POST /api/posts/tags
func (s *Server) CreateTag(c *fiber.Ctx) error {
	var req service.TagInput
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	tag, err := s.tagService.CreateTag(c.UserContext(), req)
	if err != nil {
		return models.RespondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(tag)
}

// GetTag handles GET /api/posts/tags/:id
func (s *Server) GetTag(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}

	tag, err := s.tagService.GetTag(c.UserContext(), id)
	if err != nil {
		return models.RespondError(c, err)
	}
	return c.JSON(tag)
}

// DeleteTag handles DELETE /api/posts/tags/:id. The tag is removed from
// every post carrying it.
func (s *Server) DeleteTag(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.tagService.DeleteTag(c.UserContext(), id); err != nil {
		return models.RespondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
