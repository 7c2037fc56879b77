package server

import (
	"meetup/internal/models"
	"meetup/internal/service"

	"github.com/gofiber/fiber/v2"
)

// Register handles POST /api/users
func (s *Server) Register(c *fiber.Ctx) error {
	var req service.RegisterInput
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	user, err := s.userService.Register(c.UserContext(), req)
	if err != nil {
		return models.RespondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(user)
}

// VerifyUser handles POST /api/users/verify with body {"key": "..."}.
func (s *Server) VerifyUser(c *fiber.Ctx) error {
	var req struct {
		Key string `json:"key"`
	}
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	user, err := s.userService.Verify(c.UserContext(), req.Key)
	if err != nil {
		return models.RespondError(c, err)
	}
	return c.JSON(user)
}

// GetMyProfile handles GET /api/users/me
func (s *Server) GetMyProfile(c *fiber.Ctx) error {
	userID, err := callerID(c)
	if err != nil {
		return models.RespondError(c, err)
	}

	user, err := s.userService.GetUserByID(c.UserContext(), userID)
	if err != nil {
		return models.RespondError(c, err)
	}
	return c.JSON(user)
}

// GetFeatureFlags handles GET /api/feature-flags: the flags as evaluated for
// the caller.
func (s *Server) GetFeatureFlags(c *fiber.Ctx) error {
	userID, err := callerID(c)
	if err != nil {
		return models.RespondError(c, err)
	}
	return c.JSON(fiber.Map{
		"flags": s.featureFlags.Snapshot(userID),
	})
}
