package server

import (
	"strconv"

	"meetup/internal/models"
	"meetup/internal/service"

	"github.com/gofiber/fiber/v2"
)

// ListComments handles GET /api/posts/comments, optionally filtered by ?post=.
func (s *Server) ListComments(c *fiber.Ctx) error {
	if err := rejectRepeatedQuery(c, "post"); err != nil {
		return nil
	}

	var postID *uint
	if raw := c.Query("post"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil || id == 0 {
			return models.RespondError(c, models.NewValidationError("post must be a positive integer"))
		}
		v := uint(id)
		postID = &v
	}

	comments, err := s.commentService.ListComments(c.UserContext(), postID)
	if err != nil {
		return models.RespondError(c, err)
	}
	return c.JSON(comments)
}

// CreateComment handles POST /api/posts/comments
func (s *Server) CreateComment(c *fiber.Ctx) error {
	userID, err := callerID(c)
	if err != nil {
		return models.RespondError(c, err)
	}
	var req service.CreateCommentInput
	if err := parseBody(c, &req); err != nil {
		return nil
	}
	req.AuthorID = userID

	comment, err := s.commentService.CreateComment(c.UserContext(), req)
	if err != nil {
		return models.RespondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(comment)
}

// GetComment handles GET /api/posts/comments/:id
func (s *Server) GetComment(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}

	comment, err := s.commentService.GetComment(c.UserContext(), id)
	if err != nil {
		return models.RespondError(c, err)
	}
	return c.JSON(comment)
}

// UpdateComment handles PUT /api/posts/comments/:id. Only content may change.
func (s *Server) UpdateComment(c *fiber.Ctx) error {
	userID, err := callerID(c)
	if err != nil {
		return models.RespondError(c, err)
	}
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}
	fields, err := parseFields(c)
	if err != nil {
		return nil
	}

	comment, err := s.commentService.UpdateComment(c.UserContext(), service.UpdateCommentInput{
		UserID:    userID,
		CommentID: id,
		Fields:    fields,
	})
	if err != nil {
		return models.RespondError(c, err)
	}
	return c.JSON(comment)
}

// DeleteComment handles DELETE /api/posts/comments/:id
func (s *Server) DeleteComment(c *fiber.Ctx) error {
	userID, err := callerID(c)
	if err != nil {
		return models.RespondError(c, err)
	}
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.commentService.DeleteComment(c.UserContext(), userID, id); err != nil {
		return models.RespondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
