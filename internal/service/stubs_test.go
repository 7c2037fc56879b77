package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"meetup/internal/models"
	"meetup/internal/notifications"
	"meetup/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// postRepoStub is a stub for repository.PostRepository.
type postRepoStub struct {
	createFn     func(context.Context, *models.Post, []string) error
	listFn       func(context.Context, repository.PostFilter) ([]models.Post, int64, error)
	getActiveFn  func(context.Context, uint) (*models.Post, error)
	findActiveFn func(context.Context, uint) (*models.Post, error)
	patchFn      func(context.Context, *models.Post, map[string]any, []string, bool) error
	softDeleteFn func(context.Context, uint) error
}

func (s *postRepoStub) Create(ctx context.Context, post *models.Post, tags []string) error {
	return s.createFn(ctx, post, tags)
}
func (s *postRepoStub) List(ctx context.Context, f repository.PostFilter) ([]models.Post, int64, error) {
	return s.listFn(ctx, f)
}
func (s *postRepoStub) GetActive(ctx context.Context, id uint) (*models.Post, error) {
	return s.getActiveFn(ctx, id)
}
func (s *postRepoStub) FindActive(ctx context.Context, id uint) (*models.Post, error) {
	return s.findActiveFn(ctx, id)
}
func (s *postRepoStub) Patch(ctx context.Context, post *models.Post, fields map[string]any, tags []string, replace bool) error {
	return s.patchFn(ctx, post, fields, tags, replace)
}
func (s *postRepoStub) SoftDelete(ctx context.Context, id uint) error {
	return s.softDeleteFn(ctx, id)
}

func noopPostRepo() *postRepoStub {
	return &postRepoStub{
		createFn: func(_ context.Context, p *models.Post, _ []string) error {
			p.ID = 1
			return nil
		},
		listFn: func(_ context.Context, _ repository.PostFilter) ([]models.Post, int64, error) {
			return nil, 0, nil
		},
		getActiveFn:  func(_ context.Context, id uint) (*models.Post, error) { return &models.Post{ID: id}, nil },
		findActiveFn: func(_ context.Context, id uint) (*models.Post, error) { return &models.Post{ID: id}, nil },
		patchFn: func(_ context.Context, _ *models.Post, _ map[string]any, _ []string, _ bool) error {
			return nil
		},
		softDeleteFn: func(_ context.Context, _ uint) error { return nil },
	}
}

// commentRepoStub is a stub for repository.CommentRepository.
type commentRepoStub struct {
	createFn        func(context.Context, *models.Comment) error
	getActiveFn     func(context.Context, uint) (*models.Comment, error)
	listFn          func(context.Context, *uint) ([]models.Comment, error)
	updateContentFn func(context.Context, *models.Comment, string) error
	softDeleteFn    func(context.Context, *models.Comment) error
}

func (s *commentRepoStub) Create(ctx context.Context, c *models.Comment) error {
	return s.createFn(ctx, c)
}
func (s *commentRepoStub) GetActive(ctx context.Context, id uint) (*models.Comment, error) {
	return s.getActiveFn(ctx, id)
}
func (s *commentRepoStub) List(ctx context.Context, postID *uint) ([]models.Comment, error) {
	return s.listFn(ctx, postID)
}
func (s *commentRepoStub) UpdateContent(ctx context.Context, c *models.Comment, content string) error {
	return s.updateContentFn(ctx, c, content)
}
func (s *commentRepoStub) SoftDelete(ctx context.Context, c *models.Comment) error {
	return s.softDeleteFn(ctx, c)
}

func noopCommentRepo() *commentRepoStub {
	return &commentRepoStub{
		createFn:    func(_ context.Context, _ *models.Comment) error { return nil },
		getActiveFn: func(_ context.Context, id uint) (*models.Comment, error) { return &models.Comment{ID: id}, nil },
		listFn:      func(_ context.Context, _ *uint) ([]models.Comment, error) { return nil, nil },
		updateContentFn: func(_ context.Context, c *models.Comment, content string) error {
			c.Content = content
			return nil
		},
		softDeleteFn: func(_ context.Context, _ *models.Comment) error { return nil },
	}
}

// recordingPublisher captures published events.
type recordingPublisher struct {
	mu     sync.Mutex
	events []notifications.Event
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, ev notifications.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	return p.err
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, ev := range p.events {
		out = append(out, ev.Type)
	}
	return out
}

func uintPtr(v uint) *uint { return &v }
func intPtr(v int) *int    { return &v }

func assertCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr), "expected AppError, got %T: %v", err, err)
	assert.Equal(t, code, appErr.Code)
}

// assertValidationError asserts that err is an AppError with code VALIDATION_ERROR.
func assertValidationError(t *testing.T, err error) {
	t.Helper()
	assertCode(t, err, models.CodeValidation)
}

func assertForbiddenError(t *testing.T, err error) {
	t.Helper()
	assertCode(t, err, models.CodeForbidden)
}
