package service

import (
	"context"
	"encoding/json"
	"strings"

	"meetup/internal/models"
	"meetup/internal/notifications"
	"meetup/internal/repository"
)

type CommentService struct {
	commentRepo repository.CommentRepository
	postRepo    repository.PostRepository
	events      EventPublisher
}

type CreateCommentInput struct {
	AuthorID      uint   `json:"-"`
	Content       string `json:"content"`
	Post          *uint  `json:"post"`
	ParentComment *uint  `json:"parentComment"`
}

// UpdateCommentInput carries the decoded PUT body; only "content" may be set.
type UpdateCommentInput struct {
	UserID    uint
	CommentID uint
	Fields    map[string]json.RawMessage
}

func NewCommentService(
	commentRepo repository.CommentRepository,
	postRepo repository.PostRepository,
	events EventPublisher,
) *CommentService {
	return &CommentService{
		commentRepo: commentRepo,
		postRepo:    postRepo,
		events:      events,
	}
}

func (s *CommentService) CreateComment(ctx context.Context, in CreateCommentInput) (*models.Comment, error) {
	if in.Post == nil {
		return nil, models.NewValidationError("post is required")
	}
	if strings.TrimSpace(in.Content) == "" {
		return nil, models.NewValidationError("content is required")
	}
	if _, err := s.postRepo.FindActive(ctx, *in.Post); err != nil {
		return nil, storeError(err, "")
	}

	if in.ParentComment != nil {
		parent, err := s.commentRepo.GetActive(ctx, *in.ParentComment)
		if err != nil {
			if isNotFound(err) {
				return nil, models.NewValidationError("parentComment must reference an active comment")
			}
			return nil, storeError(err, "")
		}
		if parent.PostID != *in.Post {
			return nil, models.NewValidationError("parentComment belongs to a different post")
		}
		if parent.ParentCommentID != nil {
			return nil, models.NewValidationError("Replies cannot be nested more than one level")
		}
	}

	authorID := in.AuthorID
	comment := &models.Comment{
		Content:         in.Content,
		PostID:          *in.Post,
		ParentCommentID: in.ParentComment,
		AuthorID:        &authorID,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, storeError(err, "")
	}

	publish(ctx, s.events, notifications.Event{Type: notifications.EventCommentCreated, ID: comment.ID, PostID: comment.PostID, ActorID: in.AuthorID})
	return comment, nil
}

func (s *CommentService) ListComments(ctx context.Context, postID *uint) ([]models.Comment, error) {
	comments, err := s.commentRepo.List(ctx, postID)
	return comments, storeError(err, "")
}

func (s *CommentService) GetComment(ctx context.Context, id uint) (*models.Comment, error) {
	comment, err := s.commentRepo.GetActive(ctx, id)
	if err != nil {
		return nil, storeError(err, "")
	}
	return comment, nil
}

func (s *CommentService) UpdateComment(ctx context.Context, in UpdateCommentInput) (*models.Comment, error) {
	comment, err := s.commentRepo.GetActive(ctx, in.CommentID)
	if err != nil {
		return nil, storeError(err, "")
	}

	for key := range in.Fields {
		if key != "content" {
			return nil, models.NewForbiddenError("Only content can be changed")
		}
	}
	if !comment.OwnedBy(in.UserID) {
		return nil, models.NewForbiddenError("You can only update your own comments")
	}

	var content string
	if raw, ok := in.Fields["content"]; ok {
		if err := json.Unmarshal(raw, &content); err != nil {
			return nil, models.NewValidationError("content must be a string")
		}
	}
	if strings.TrimSpace(content) == "" {
		return nil, models.NewValidationError("content is required")
	}

	if err := s.commentRepo.UpdateContent(ctx, comment, content); err != nil {
		return nil, storeError(err, "")
	}
	return comment, nil
}

func (s *CommentService) DeleteComment(ctx context.Context, userID, commentID uint) error {
	comment, err := s.commentRepo.GetActive(ctx, commentID)
	if err != nil {
		return storeError(err, "")
	}
	if !comment.OwnedBy(userID) {
		return models.NewForbiddenError("You can only delete your own comments")
	}
	if err := s.commentRepo.SoftDelete(ctx, comment); err != nil {
		return storeError(err, "")
	}
	publish(ctx, s.events, notifications.Event{Type: notifications.EventCommentDeleted, ID: comment.ID, PostID: comment.PostID, ActorID: userID})
	return nil
}
