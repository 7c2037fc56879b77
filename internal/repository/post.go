package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"meetup/internal/cache"
	"meetup/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PostFilter narrows the post list. Zero values mean "no constraint".
type PostFilter struct {
	CategoryID    *uint
	CategoryTitle string
	// Tags are ANDed: a post must carry every title.
	Tags      []string
	StartDate *models.Date
	EndDate   *models.Date
	TimeOfDay *models.TimeOfDay
	Location  string
	Page      int
	PageSize  int
}

// PostRepository defines the interface for post data operations
type PostRepository interface {
	Create(ctx context.Context, post *models.Post, tagTitles []string) error
	List(ctx context.Context, filter PostFilter) ([]models.Post, int64, error)
	GetActive(ctx context.Context, id uint) (*models.Post, error)
	FindActive(ctx context.Context, id uint) (*models.Post, error)
	Patch(ctx context.Context, post *models.Post, fields map[string]any, tagTitles []string, replaceTags bool) error
	SoftDelete(ctx context.Context, id uint) error
}

type postRepository struct {
	db *gorm.DB
}

// NewPostRepository creates a new post repository
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

// Create resolves tags, checks the category and inserts the post in one
// transaction, so a rejected post leaves no freshly created tags behind.
func (r *postRepository) Create(ctx context.Context, post *models.Post, tagTitles []string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		tags, err := getOrCreateTags(tx, tagTitles)
		if err != nil {
			return err
		}

		if post.CategoryID == nil {
			return models.NewValidationError("category is required")
		}
		var category models.Category
		if err := activeOnly(tx, "categories").First(&category, *post.CategoryID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewValidationError(fmt.Sprintf("Invalid category %d: category does not exist or is inactive", *post.CategoryID))
			}
			return err
		}

		post.IsActive = true
		if err := tx.Omit(clause.Associations).Create(post).Error; err != nil {
			return err
		}
		if len(tags) > 0 {
			if err := tx.Model(post).Association("Tags").Append(tags); err != nil {
				return err
			}
		}
		post.Tags = tags
		return nil
	})
}

func (r *postRepository) List(ctx context.Context, filter PostFilter) ([]models.Post, int64, error) {
	var total int64
	if err := r.filtered(ctx, filter).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	posts := []models.Post{}
	if total == 0 {
		return posts, 0, nil
	}

	err := withLikes(r.filtered(ctx, filter)).
		Preload("Category").
		Preload("Tags", orderTags).
		Order("posts.created_date DESC").
		Order("posts.id DESC").
		Limit(filter.PageSize).
		Offset((filter.Page - 1) * filter.PageSize).
		Find(&posts).Error
	if err != nil {
		return nil, 0, err
	}
	for i := range posts {
		normalizeTags(&posts[i])
	}
	return posts, total, nil
}

func (r *postRepository) filtered(ctx context.Context, f PostFilter) *gorm.DB {
	q := activeOnly(r.db.WithContext(ctx).Model(&models.Post{}), "posts")

	switch {
	case f.CategoryID != nil:
		q = q.Where("posts.category_id = ?", *f.CategoryID)
	case f.CategoryTitle != "":
		q = q.Where("posts.category_id IN (?)",
			r.db.WithContext(ctx).Model(&models.Category{}).Select("id").Where("title = ?", f.CategoryTitle))
	}

	for _, title := range f.Tags {
		q = q.Where(`EXISTS (SELECT 1 FROM post_tags JOIN tags ON tags.id = post_tags.tag_id
			WHERE post_tags.post_id = posts.id AND tags.title = ?)`, title)
	}

	if f.StartDate != nil {
		q = q.Where("posts.date >= ?", *f.StartDate)
	}
	if f.EndDate != nil {
		q = q.Where("posts.date <= ?", *f.EndDate)
	}
	if f.TimeOfDay != nil {
		q = q.Where("posts.time_of_day = ?", *f.TimeOfDay)
	}
	if f.Location != "" {
		q = q.Where("LOWER(posts.location) LIKE ? ESCAPE '!'", "%"+escapeLike(strings.ToLower(f.Location))+"%")
	}
	return q
}

// GetActive returns the post detail: category, tags, active comments and the
// like count. The payload is cached per post.
func (r *postRepository) GetActive(ctx context.Context, id uint) (*models.Post, error) {
	var post models.Post
	err := cache.Aside(ctx, cache.PostKey(id), &post, cache.PostTTL, func() error {
		return withLikes(activeOnly(r.db.WithContext(ctx).Model(&models.Post{}), "posts")).
			Preload("Category").
			Preload("Tags", orderTags).
			Preload("Comments", func(db *gorm.DB) *gorm.DB {
				return db.Where("comments.is_active = ?", true).Order("comments.created_date ASC, comments.id ASC")
			}).
			Where("posts.id = ?", id).
			First(&post).Error
	})
	if err != nil {
		return nil, notFoundOr(err, "Post", id)
	}
	normalizeTags(&post)
	if post.Comments == nil {
		post.Comments = []*models.Comment{}
	}
	return &post, nil
}

// FindActive loads the bare row, bypassing the cache. Ownership checks use it
// so they never act on a stale payload.
func (r *postRepository) FindActive(ctx context.Context, id uint) (*models.Post, error) {
	var post models.Post
	if err := activeOnly(r.db.WithContext(ctx), "posts").First(&post, id).Error; err != nil {
		return nil, notFoundOr(err, "Post", id)
	}
	return &post, nil
}

// Patch applies column updates and, when replaceTags is set, swaps the tag set
// in a single transaction.
func (r *postRepository) Patch(ctx context.Context, post *models.Post, fields map[string]any, tagTitles []string, replaceTags bool) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if len(fields) > 0 {
			if err := tx.Model(post).Updates(fields).Error; err != nil {
				return err
			}
		}
		if !replaceTags {
			return nil
		}

		tags, err := getOrCreateTags(tx, tagTitles)
		if err != nil {
			return err
		}
		assoc := tx.Model(post).Association("Tags")
		if len(tags) == 0 {
			return assoc.Clear()
		}
		return assoc.Replace(tags)
	})
	if err != nil {
		return err
	}
	cache.InvalidatePost(ctx, post.ID)
	return nil
}

func (r *postRepository) SoftDelete(ctx context.Context, id uint) error {
	res := activeOnly(r.db.WithContext(ctx).Model(&models.Post{}), "posts").
		Where("posts.id = ?", id).
		Update("is_active", false)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("Post", id)
	}
	cache.InvalidatePost(ctx, id)
	return nil
}

// withLikes selects the like count into Post.Likes.
func withLikes(db *gorm.DB) *gorm.DB {
	return db.Select("posts.*, (SELECT COUNT(*) FROM likes WHERE likes.post_id = posts.id) AS likes")
}

// likeEscaper makes a user value match literally inside LIKE. The escape
// character is '!' because backslash needs extra quoting on MySQL.
var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

func orderTags(db *gorm.DB) *gorm.DB {
	return db.Order("tags.id ASC")
}

func normalizeTags(p *models.Post) {
	if p.Tags == nil {
		p.Tags = []models.Tag{}
	}
}
