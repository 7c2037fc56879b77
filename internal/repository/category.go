package repository

import (
	"context"

	"meetup/internal/cache"
	"meetup/internal/models"

	"gorm.io/gorm"
)

// CategoryRepository defines persistence operations for categories.
type CategoryRepository interface {
	Create(ctx context.Context, category *models.Category) error
	ListActive(ctx context.Context) ([]models.Category, error)
	GetActive(ctx context.Context, id uint) (*models.Category, error)
	UpdateTitle(ctx context.Context, category *models.Category, title string) error
	SoftDelete(ctx context.Context, id uint) error
}

type categoryRepository struct {
	db *gorm.DB
}

// NewCategoryRepository returns a new CategoryRepository implementation.
func NewCategoryRepository(db *gorm.DB) CategoryRepository {
	return &categoryRepository{db: db}
}

func (r *categoryRepository) Create(ctx context.Context, category *models.Category) error {
	category.IsActive = true
	if err := r.db.WithContext(ctx).Create(category).Error; err != nil {
		return err
	}
	cache.InvalidateCategories(ctx)
	return nil
}

func (r *categoryRepository) ListActive(ctx context.Context) ([]models.Category, error) {
	categories := []models.Category{}
	err := cache.Aside(ctx, cache.CategoryListKey, &categories, cache.ListTTL, func() error {
		return activeOnly(r.db.WithContext(ctx), "categories").
			Order("categories.id ASC").
			Find(&categories).Error
	})
	if err != nil {
		return nil, err
	}
	return categories, nil
}

func (r *categoryRepository) GetActive(ctx context.Context, id uint) (*models.Category, error) {
	var category models.Category
	err := activeOnly(r.db.WithContext(ctx), "categories").First(&category, id).Error
	if err != nil {
		return nil, notFoundOr(err, "Category", id)
	}
	return &category, nil
}

// UpdateTitle renames the category. Cached post details embed the category,
// so every post filed under it is invalidated too.
func (r *categoryRepository) UpdateTitle(ctx context.Context, category *models.Category, title string) error {
	var postIDs []uint
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(category).Update("title", title).Error; err != nil {
			return err
		}
		return pluckCategoryPosts(tx, category.ID, &postIDs)
	})
	if err != nil {
		return err
	}
	category.Title = title
	invalidateCategoryPosts(ctx, postIDs)
	return nil
}

// SoftDelete retires the category. Posts keep their reference.
func (r *categoryRepository) SoftDelete(ctx context.Context, id uint) error {
	var postIDs []uint
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := activeOnly(tx.Model(&models.Category{}), "categories").
			Where("categories.id = ?", id).
			Update("is_active", false)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return models.NewNotFoundError("Category", id)
		}
		return pluckCategoryPosts(tx, id, &postIDs)
	})
	if err != nil {
		return err
	}
	invalidateCategoryPosts(ctx, postIDs)
	return nil
}

func pluckCategoryPosts(tx *gorm.DB, categoryID uint, postIDs *[]uint) error {
	return tx.Model(&models.Post{}).Where("category_id = ?", categoryID).Pluck("id", postIDs).Error
}

func invalidateCategoryPosts(ctx context.Context, postIDs []uint) {
	cache.InvalidateCategories(ctx)
	for _, postID := range postIDs {
		cache.InvalidatePost(ctx, postID)
	}
}
