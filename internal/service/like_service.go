package service

import (
	"context"

	"meetup/internal/models"
	"meetup/internal/notifications"
	"meetup/internal/observability"
	"meetup/internal/repository"
)

const likeConflict = "Only one like for a post is allowed per user"

type LikeService struct {
	repo   repository.LikeRepository
	events EventPublisher
}

// LikeInput is the body of like create and delete.
type LikeInput struct {
	UserID uint  `json:"-"`
	Post   *uint `json:"post"`
}

func NewLikeService(repo repository.LikeRepository, events EventPublisher) *LikeService {
	return &LikeService{repo: repo, events: events}
}

func (s *LikeService) Like(ctx context.Context, in LikeInput) (*models.Like, error) {
	if in.Post == nil {
		return nil, models.NewValidationError("post is required")
	}
	like := &models.Like{UserID: in.UserID, PostID: *in.Post}
	if err := s.repo.Create(ctx, like); err != nil {
		err = storeError(err, likeConflict)
		if appErr, ok := err.(*models.AppError); ok && appErr.Code == models.CodeConflict {
			observability.LikeRejections.Inc()
		}
		return nil, err
	}
	publish(ctx, s.events, notifications.Event{Type: notifications.EventLikeCreated, ID: like.ID, PostID: like.PostID, ActorID: in.UserID})
	return like, nil
}

func (s *LikeService) Unlike(ctx context.Context, in LikeInput) error {
	if in.Post == nil {
		return models.NewValidationError("post is required")
	}
	if err := s.repo.Delete(ctx, in.UserID, *in.Post); err != nil {
		return storeError(err, "")
	}
	publish(ctx, s.events, notifications.Event{Type: notifications.EventLikeDeleted, PostID: *in.Post, ActorID: in.UserID})
	return nil
}
