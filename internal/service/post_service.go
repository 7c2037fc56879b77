package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"meetup/internal/models"
	"meetup/internal/notifications"
	"meetup/internal/observability"
	"meetup/internal/repository"
	"meetup/internal/validation"

	"go.opentelemetry.io/otel/attribute"
)

const (
	defaultPageSize = 20
	maxPageSize     = 50
)

// immutablePostFields may never appear in a patch body.
var immutablePostFields = []string{"id", "author", "authorId", "category", "categoryId", "createdDate", "created_date"}

type PostService struct {
	posts  repository.PostRepository
	events EventPublisher
}

type CreatePostInput struct {
	AuthorID  uint     `json:"-"`
	Title     string   `json:"title" validate:"required,max=50"`
	Content   string   `json:"content" validate:"required"`
	Location  string   `json:"location" validate:"required,max=255"`
	Capacity  int      `json:"capacity" validate:"gte=1"`
	Date      string   `json:"date" validate:"required,datetime=2006-01-02"`
	TimeOfDay *int     `json:"timeOfDay" validate:"required,gte=0,lte=2"`
	Category  *uint    `json:"category" validate:"required"`
	Tags      []string `json:"tags" validate:"dive,required,max=50"`
}

// ListPostsInput carries the raw query values; empty means unset.
type ListPostsInput struct {
	Category  string
	Tags      string
	StartDate string
	EndDate   string
	TimeOfDay string
	Location  string
	Page      string
	PageSize  string
}

// PatchPostInput carries the decoded PATCH body keyed by JSON field name.
type PatchPostInput struct {
	UserID uint
	PostID uint
	Fields map[string]json.RawMessage
}

type postPatch struct {
	Title     *string  `json:"title" validate:"omitnil,min=1,max=50"`
	Content   *string  `json:"content" validate:"omitnil,min=1"`
	Location  *string  `json:"location" validate:"omitnil,min=1,max=255"`
	Capacity  *int     `json:"capacity" validate:"omitnil,gte=1"`
	Date      *string  `json:"date" validate:"omitnil,datetime=2006-01-02"`
	TimeOfDay *int     `json:"timeOfDay" validate:"omitnil,gte=0,lte=2"`
	Tags      []string `json:"tags" validate:"dive,required,max=50"`
}

func NewPostService(posts repository.PostRepository, events EventPublisher) *PostService {
	return &PostService{posts: posts, events: events}
}

func (s *PostService) CreatePost(ctx context.Context, in CreatePostInput) (post *models.Post, err error) {
	ctx, end := observability.StartSpan(ctx, "PostService.CreatePost",
		attribute.Int64("user.id", int64(in.AuthorID)))
	defer func() { end(err) }()

	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	date, err := models.ParseDate(in.Date)
	if err != nil {
		return nil, models.NewValidationError("date must be a date in YYYY-MM-DD format")
	}

	authorID := in.AuthorID
	post = &models.Post{
		Title:      in.Title,
		Content:    in.Content,
		Location:   in.Location,
		Capacity:   in.Capacity,
		Date:       date,
		TimeOfDay:  models.TimeOfDay(*in.TimeOfDay),
		CategoryID: in.Category,
		AuthorID:   &authorID,
	}
	if err := s.posts.Create(ctx, post, in.Tags); err != nil {
		return nil, storeError(err, "Tag with this title already exists")
	}

	publish(ctx, s.events, notifications.Event{Type: notifications.EventPostCreated, ID: post.ID, PostID: post.ID, ActorID: in.AuthorID})

	created, err := s.posts.GetActive(ctx, post.ID)
	if err != nil {
		return nil, storeError(err, "")
	}
	return created, nil
}

func (s *PostService) ListPosts(ctx context.Context, in ListPostsInput) (page models.Page[models.Post], err error) {
	ctx, end := observability.StartSpan(ctx, "PostService.ListPosts")
	defer func() { end(err) }()

	filter, err := parsePostFilter(in)
	if err != nil {
		return page, err
	}
	posts, total, err := s.posts.List(ctx, filter)
	if err != nil {
		return page, storeError(err, "")
	}
	return models.NewPage(posts, filter.Page, filter.PageSize, total), nil
}

func parsePostFilter(in ListPostsInput) (repository.PostFilter, error) {
	f := repository.PostFilter{Page: 1, PageSize: defaultPageSize}

	if in.Page != "" {
		page, err := strconv.Atoi(in.Page)
		if err != nil || page < 1 {
			return f, models.NewValidationError("page must be a positive integer")
		}
		f.Page = page
	}
	if in.PageSize != "" {
		size, err := strconv.Atoi(in.PageSize)
		if err != nil || size < 1 {
			return f, models.NewValidationError("pageSize must be a positive integer")
		}
		f.PageSize = min(size, maxPageSize)
	}

	if in.Category != "" {
		if id, err := strconv.ParseUint(in.Category, 10, 64); err == nil {
			categoryID := uint(id)
			f.CategoryID = &categoryID
		} else {
			f.CategoryTitle = in.Category
		}
	}

	for _, title := range strings.Split(in.Tags, ",") {
		if title = strings.TrimSpace(title); title != "" {
			f.Tags = append(f.Tags, title)
		}
	}

	for _, d := range []struct {
		raw  string
		name string
		dst  **models.Date
	}{
		{in.StartDate, "startDate", &f.StartDate},
		{in.EndDate, "endDate", &f.EndDate},
	} {
		if d.raw == "" {
			continue
		}
		date, err := models.ParseDate(d.raw)
		if err != nil {
			return f, models.NewValidationError(d.name + " must be a date in YYYY-MM-DD format")
		}
		*d.dst = &date
	}

	if in.TimeOfDay != "" {
		n, err := strconv.Atoi(in.TimeOfDay)
		tod := models.TimeOfDay(n)
		if err != nil || !tod.Valid() {
			return f, models.NewValidationError("timeOfDay must be 0, 1 or 2")
		}
		f.TimeOfDay = &tod
	}

	f.Location = strings.TrimSpace(in.Location)
	return f, nil
}

func (s *PostService) GetPost(ctx context.Context, id uint) (*models.Post, error) {
	post, err := s.posts.GetActive(ctx, id)
	if err != nil {
		return nil, storeError(err, "")
	}
	return post, nil
}

// PatchPost applies a partial update. Ownership is checked before any field
// is validated; immutable fields are rejected outright.
func (s *PostService) PatchPost(ctx context.Context, in PatchPostInput) (*models.Post, error) {
	for _, key := range immutablePostFields {
		if _, ok := in.Fields[key]; ok {
			return nil, models.NewForbiddenError(fmt.Sprintf("Changing %s is not allowed", key))
		}
	}

	post, err := s.posts.FindActive(ctx, in.PostID)
	if err != nil {
		return nil, storeError(err, "")
	}
	if !post.OwnedBy(in.UserID) {
		return nil, models.NewForbiddenError("You can only modify your own posts")
	}

	patch, err := decodePatch(in.Fields)
	if err != nil {
		return nil, err
	}
	if err := validation.Struct(patch); err != nil {
		return nil, err
	}

	fields := map[string]any{}
	if patch.Title != nil {
		fields["title"] = *patch.Title
	}
	if patch.Content != nil {
		fields["content"] = *patch.Content
	}
	if patch.Location != nil {
		fields["location"] = *patch.Location
	}
	if patch.Capacity != nil {
		fields["capacity"] = *patch.Capacity
	}
	if patch.Date != nil {
		date, err := models.ParseDate(*patch.Date)
		if err != nil {
			return nil, models.NewValidationError("date must be a date in YYYY-MM-DD format")
		}
		fields["date"] = date
	}
	if patch.TimeOfDay != nil {
		fields["time_of_day"] = models.TimeOfDay(*patch.TimeOfDay)
	}
	_, replaceTags := in.Fields["tags"]

	if err := s.posts.Patch(ctx, post, fields, patch.Tags, replaceTags); err != nil {
		return nil, storeError(err, "Tag with this title already exists")
	}

	updated, err := s.posts.GetActive(ctx, post.ID)
	if err != nil {
		return nil, storeError(err, "")
	}
	return updated, nil
}

func decodePatch(fields map[string]json.RawMessage) (*postPatch, error) {
	raw, err := json.Marshal(fields)
	if err != nil {
		return nil, models.NewValidationError("Invalid request body")
	}
	var patch postPatch
	if err := json.Unmarshal(raw, &patch); err != nil {
		return nil, models.NewValidationError("Invalid request body")
	}
	return &patch, nil
}

func (s *PostService) DeletePost(ctx context.Context, userID, postID uint) error {
	post, err := s.posts.FindActive(ctx, postID)
	if err != nil {
		return storeError(err, "")
	}
	if !post.OwnedBy(userID) {
		return models.NewForbiddenError("You can only delete your own posts")
	}
	if err := s.posts.SoftDelete(ctx, postID); err != nil {
		return storeError(err, "")
	}
	publish(ctx, s.events, notifications.Event{Type: notifications.EventPostDeleted, ID: postID, PostID: postID, ActorID: userID})
	return nil
}
