package server

import (
	"meetup/internal/models"
	"meetup/internal/service"

	"github.com/gofiber/fiber/v2"
)

var postFilterKeys = []string{
	"category", "tags", "startDate", "endDate", "timeOfDay", "location", "page", "pageSize",
}

// postDetail always renders the comments list, including when it is empty.
type postDetail struct {
	*models.Post
	Comments []*models.Comment `json:"comments"`
}

func newPostDetail(p *models.Post) postDetail {
	comments := p.Comments
	if comments == nil {
		comments = []*models.Comment{}
	}
	return postDetail{Post: p, Comments: comments}
}

// ListPosts handles GET /api/posts
func (s *Server) ListPosts(c *fiber.Ctx) error {
	if err := rejectRepeatedQuery(c, postFilterKeys...); err != nil {
		return nil
	}

	page, err := s.postService.ListPosts(c.UserContext(), service.ListPostsInput{
		Category:  c.Query("category"),
		Tags:      c.Query("tags"),
		StartDate: c.Query("startDate"),
		EndDate:   c.Query("endDate"),
		TimeOfDay: c.Query("timeOfDay"),
		Location:  c.Query("location"),
		Page:      c.Query("page"),
		PageSize:  c.Query("pageSize"),
	})
	if err != nil {
		return models.RespondError(c, err)
	}
	return c.JSON(page)
}

// CreatePost handles POST /api/posts
func (s *Server) CreatePost(c *fiber.Ctx) error {
	userID, err := callerID(c)
	if err != nil {
		return models.RespondError(c, err)
	}
	var req service.CreatePostInput
	if err := parseBody(c, &req); err != nil {
		return nil
	}
	req.AuthorID = userID

	post, err := s.postService.CreatePost(c.UserContext(), req)
	if err != nil {
		return models.RespondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(newPostDetail(post))
}

// GetPost handles GET /api/posts/:id
func (s *Server) GetPost(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}

	post, err := s.postService.GetPost(c.UserContext(), id)
	if err != nil {
		return models.RespondError(c, err)
	}
	return c.JSON(newPostDetail(post))
}

// PatchPost handles PATCH /api/posts/:id
func (s *Server) PatchPost(c *fiber.Ctx) error {
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

	post, err := s.postService.PatchPost(c.UserContext(), service.PatchPostInput{
		UserID: userID,
		PostID: id,
		Fields: fields,
	})
	if err != nil {
		return models.RespondError(c, err)
	}
	return c.JSON(newPostDetail(post))
}

// DeletePost handles DELETE /api/posts/:id
func (s *Server) DeletePost(c *fiber.Ctx) error {
	userID, err := callerID(c)
	if err != nil {
		return models.RespondError(c, err)
	}
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.postService.DeletePost(c.UserContext(), userID, id); err != nil {
		return models.RespondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
