package server

import (
	"meetup/internal/models"
	"meetup/internal/service"

	"github.com/gofiber/fiber/v2"
)

// LikePost handles POST /api/posts/likes with body {"post": id}.
func (s *Server) LikePost(c *fiber.Ctx) error {
	userID, err := callerID(c)
	if err != nil {
		return models.RespondError(c, err)
	}
	var req service.LikeInput
	if err := parseBody(c, &req); err != nil {
		return nil
	}
	req.UserID = userID

	like, err := s.likeService.Like(c.UserContext(), req)
	if err != nil {
		return models.RespondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(like)
}

// UnlikePost handles DELETE /api/posts/likes with body {"post": id}.
func (s *Server) UnlikePost(c *fiber.Ctx) error {
	userID, err := callerID(c)
	if err != nil {
		return models.RespondError(c, err)
	}
	var req service.LikeInput
	if err := parseBody(c, &req); err != nil {
		return nil
	}
	req.UserID = userID

	if err := s.likeService.Unlike(c.UserContext(), req); err != nil {
		return models.RespondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
