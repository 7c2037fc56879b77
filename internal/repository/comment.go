package repository

import (
	"context"

	"meetup/internal/cache"
	"meetup/internal/models"

	"gorm.io/gorm"
)

// CommentRepository defines interface for comment operations
type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error
	GetActive(ctx context.Context, id uint) (*models.Comment, error)
	List(ctx context.Context, postID *uint) ([]models.Comment, error)
	UpdateContent(ctx context.Context, comment *models.Comment, content string) error
	SoftDelete(ctx context.Context, comment *models.Comment) error
}

type commentRepository struct {
	db *gorm.DB
}

// NewCommentRepository creates a new CommentRepository
func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db}
}

func (r *commentRepository) Create(ctx context.Context, comment *models.Comment) error {
	comment.IsActive = true
	if err := r.db.WithContext(ctx).Omit("ParentComment", "Author").Create(comment).Error; err != nil {
		return err
	}
	cache.InvalidatePost(ctx, comment.PostID)
	return nil
}

func (r *commentRepository) GetActive(ctx context.Context, id uint) (*models.Comment, error) {
	var comment models.Comment
	if err := activeOnly(r.db.WithContext(ctx), "comments").First(&comment, id).Error; err != nil {
		return nil, notFoundOr(err, "Comment", id)
	}
	return &comment, nil
}

func (r *commentRepository) List(ctx context.Context, postID *uint) ([]models.Comment, error) {
	comments := []models.Comment{}
	q := activeOnly(r.db.WithContext(ctx), "comments")
	if postID != nil {
		q = q.Where("comments.post_id = ?", *postID)
	}
	err := q.Order("comments.created_date ASC").Order("comments.id ASC").Find(&comments).Error
	return comments, err
}

func (r *commentRepository) UpdateContent(ctx context.Context, comment *models.Comment, content string) error {
	if err := r.db.WithContext(ctx).Model(comment).Update("content", content).Error; err != nil {
		return err
	}
	comment.Content = content
	cache.InvalidatePost(ctx, comment.PostID)
	return nil
}

func (r *commentRepository) SoftDelete(ctx context.Context, comment *models.Comment) error {
	if err := r.db.WithContext(ctx).Model(comment).Update("is_active", false).Error; err != nil {
		return err
	}
	comment.IsActive = false
	cache.InvalidatePost(ctx, comment.PostID)
	return nil
}
