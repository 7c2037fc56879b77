package repository

import (
	"context"

	"meetup/internal/cache"
	"meetup/internal/models"

	"gorm.io/gorm"
)

// TagRepository defines persistence operations for tags.
type TagRepository interface {
	Create(ctx context.Context, tag *models.Tag) error
	List(ctx context.Context) ([]models.Tag, error)
	GetByID(ctx context.Context, id uint) (*models.Tag, error)
	Delete(ctx context.Context, id uint) error
}

type tagRepository struct {
	db *gorm.DB
}

// NewTagRepository returns a new TagRepository implementation.
func NewTagRepository(db *gorm.DB) TagRepository {
	return &tagRepository{db: db}
}

func (r *tagRepository) Create(ctx context.Context, tag *models.Tag) error {
	if err := r.db.WithContext(ctx).Create(tag).Error; err != nil {
		return err
	}
	cache.InvalidateTags(ctx)
	return nil
}

func (r *tagRepository) List(ctx context.Context) ([]models.Tag, error) {
	tags := []models.Tag{}
	err := cache.Aside(ctx, cache.TagListKey, &tags, cache.ListTTL, func() error {
		return r.db.WithContext(ctx).Order("id ASC").Find(&tags).Error
	})
	if err != nil {
		return nil, err
	}
	return tags, nil
}

func (r *tagRepository) GetByID(ctx context.Context, id uint) (*models.Tag, error) {
	var tag models.Tag
	if err := r.db.WithContext(ctx).First(&tag, id).Error; err != nil {
		return nil, notFoundOr(err, "Tag", id)
	}
	return &tag, nil
}

// Delete removes the tag and its post links.
func (r *tagRepository) Delete(ctx context.Context, id uint) error {
	var postIDs []uint
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Table("post_tags").Where("tag_id = ?", id).Pluck("post_id", &postIDs).Error; err != nil {
			return err
		}
		if err := tx.Exec("DELETE FROM post_tags WHERE tag_id = ?", id).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.Tag{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return models.NewNotFoundError("Tag", id)
		}
		return nil
	})
	if err != nil {
		return err
	}

	cache.InvalidateTags(ctx)
	for _, postID := range postIDs {
		cache.InvalidatePost(ctx, postID)
	}
	return nil
}

// getOrCreateTags resolves titles to tag rows inside tx, creating the missing
// ones. Duplicate titles collapse; order follows first appearance.
func getOrCreateTags(tx *gorm.DB, titles []string) ([]models.Tag, error) {
	tags := make([]models.Tag, 0, len(titles))
	seen := make(map[string]struct{}, len(titles))
	for _, title := range titles {
		if _, dup := seen[title]; dup {
			continue
		}
		seen[title] = struct{}{}

		var tag models.Tag
		if err := tx.Where(models.Tag{Title: title}).FirstOrCreate(&tag).Error; err != nil {
			return nil, err
		}
		tags = append(tags, tag)
	}
	return tags, nil
}
