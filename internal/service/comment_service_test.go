package service

import (
	"context"
	"testing"

	"meetup/internal/models"
	"meetup/internal/notifications"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommentService_CreateComment(t *testing.T) {
	t.Parallel()

	comments := noopCommentRepo()
	comments.getActiveFn = func(_ context.Context, id uint) (*models.Comment, error) {
		switch id {
		case 1:
			return &models.Comment{ID: 1, PostID: 10}, nil
		case 2:
			return &models.Comment{ID: 2, PostID: 10, ParentCommentID: uintPtr(1)}, nil
		case 3:
			return &models.Comment{ID: 3, PostID: 20}, nil
		}
		return nil, models.NewNotFoundError("Comment", id)
	}
	var created *models.Comment
	comments.createFn = func(_ context.Context, c *models.Comment) error {
		c.ID = 50
		created = c
		return nil
	}
	posts := noopPostRepo()
	posts.findActiveFn = func(_ context.Context, id uint) (*models.Post, error) {
		if id != 10 {
			return nil, models.NewNotFoundError("Post", id)
		}
		return &models.Post{ID: id}, nil
	}
	events := &recordingPublisher{}
	svc := NewCommentService(comments, posts, events)
	ctx := context.Background()

	t.Run("missing post", func(t *testing.T) {
		_, err := svc.CreateComment(ctx, CreateCommentInput{AuthorID: 1, Content: "hi"})
		assertValidationError(t, err)
	})
	t.Run("empty content", func(t *testing.T) {
		_, err := svc.CreateComment(ctx, CreateCommentInput{AuthorID: 1, Post: uintPtr(10), Content: "  "})
		assertValidationError(t, err)
	})
	t.Run("unknown post", func(t *testing.T) {
		_, err := svc.CreateComment(ctx, CreateCommentInput{AuthorID: 1, Post: uintPtr(99), Content: "hi"})
		assertCode(t, err, models.CodeNotFound)
	})
	t.Run("parent missing", func(t *testing.T) {
		_, err := svc.CreateComment(ctx, CreateCommentInput{AuthorID: 1, Post: uintPtr(10), Content: "hi", ParentComment: uintPtr(77)})
		assertValidationError(t, err)
	})
	t.Run("parent on other post", func(t *testing.T) {
		_, err := svc.CreateComment(ctx, CreateCommentInput{AuthorID: 1, Post: uintPtr(10), Content: "hi", ParentComment: uintPtr(3)})
		assertValidationError(t, err)
	})
	t.Run("third level reply", func(t *testing.T) {
		_, err := svc.CreateComment(ctx, CreateCommentInput{AuthorID: 1, Post: uintPtr(10), Content: "hi", ParentComment: uintPtr(2)})
		assertValidationError(t, err)
	})
	t.Run("reply", func(t *testing.T) {
		c, err := svc.CreateComment(ctx, CreateCommentInput{AuthorID: 4, Post: uintPtr(10), Content: "hi", ParentComment: uintPtr(1)})
		require.NoError(t, err)
		assert.Same(t, created, c)
		assert.EqualValues(t, 4, *c.AuthorID)
		assert.EqualValues(t, 1, *c.ParentCommentID)
		assert.Equal(t, []string{notifications.EventCommentCreated}, events.types())
	})
}

func TestCommentService_UpdateComment(t *testing.T) {
	t.Parallel()

	author := uint(4)
	comments := noopCommentRepo()
	comments.getActiveFn = func(_ context.Context, id uint) (*models.Comment, error) {
		return &models.Comment{ID: id, PostID: 10, Content: "old", AuthorID: &author}, nil
	}
	updates := 0
	comments.updateContentFn = func(_ context.Context, c *models.Comment, content string) error {
		updates++
		c.Content = content
		return nil
	}
	svc := NewCommentService(comments, noopPostRepo(), nil)
	ctx := context.Background()

	for _, body := range []string{`{"content":"x","post":2}`, `{"author":1}`, `{"parentComment":null}`, `{"id":3}`} {
		_, err := svc.UpdateComment(ctx, UpdateCommentInput{UserID: author, CommentID: 1, Fields: rawFields(t, body)})
		assertForbiddenError(t, err)
	}

	_, err := svc.UpdateComment(ctx, UpdateCommentInput{UserID: 5, CommentID: 1, Fields: rawFields(t, `{"content":"mine now"}`)})
	assertForbiddenError(t, err)

	_, err = svc.UpdateComment(ctx, UpdateCommentInput{UserID: author, CommentID: 1, Fields: rawFields(t, `{}`)})
	assertValidationError(t, err)
	_, err = svc.UpdateComment(ctx, UpdateCommentInput{UserID: author, CommentID: 1, Fields: rawFields(t, `{"content":""}`)})
	assertValidationError(t, err)
	assert.Zero(t, updates)

	c, err := svc.UpdateComment(ctx, UpdateCommentInput{UserID: author, CommentID: 1, Fields: rawFields(t, `{"content":"edited"}`)})
	require.NoError(t, err)
	assert.Equal(t, "edited", c.Content)
	assert.Equal(t, 1, updates)
}

func TestCommentService_DeleteComment(t *testing.T) {
	t.Parallel()

	author := uint(4)
	comments := noopCommentRepo()
	comments.getActiveFn = func(_ context.Context, id uint) (*models.Comment, error) {
		if id == 404 {
			return nil, models.NewNotFoundError("Comment", id)
		}
		return &models.Comment{ID: id, PostID: 10, AuthorID: &author}, nil
	}
	deleted := false
	comments.softDeleteFn = func(_ context.Context, _ *models.Comment) error {
		deleted = true
		return nil
	}
	events := &recordingPublisher{}
	svc := NewCommentService(comments, noopPostRepo(), events)
	ctx := context.Background()

	assertCode(t, svc.DeleteComment(ctx, author, 404), models.CodeNotFound)
	assertForbiddenError(t, svc.DeleteComment(ctx, 5, 1))
	assert.False(t, deleted)

	require.NoError(t, svc.DeleteComment(ctx, author, 1))
	assert.True(t, deleted)
	assert.Equal(t, []string{notifications.EventCommentDeleted}, events.types())
}
