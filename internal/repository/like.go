package repository

import (
	"context"

	"meetup/internal/cache"
	"meetup/internal/models"

	"gorm.io/gorm"
)

// LikeRepository persists (user, post) likes.
type LikeRepository interface {
	Create(ctx context.Context, like *models.Like) error
	Delete(ctx context.Context, userID, postID uint) error
}

type likeRepository struct {
	db *gorm.DB
}

// NewLikeRepository creates a new LikeRepository
func NewLikeRepository(db *gorm.DB) LikeRepository {
	return &likeRepository{db: db}
}

// Create checks the post is active and inserts the like in one transaction.
// A second like by the same user fails on the (user_id, post_id) unique index.
func (r *likeRepository) Create(ctx context.Context, like *models.Like) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var post models.Post
		if err := activeOnly(tx.Select("id"), "posts").First(&post, like.PostID).Error; err != nil {
			return notFoundOr(err, "Post", like.PostID)
		}
		return tx.Omit("User", "Post").Create(like).Error
	})
	if err != nil {
		return err
	}
	cache.InvalidatePost(ctx, like.PostID)
	return nil
}

func (r *likeRepository) Delete(ctx context.Context, userID, postID uint) error {
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND post_id = ?", userID, postID).
		Delete(&models.Like{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return &models.AppError{Code: models.CodeNotFound, Message: "Like not found"}
	}
	cache.InvalidatePost(ctx, postID)
	return nil
}
