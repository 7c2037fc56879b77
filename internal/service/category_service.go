package service

import (
	"context"
	"strings"

	"meetup/internal/models"
	"meetup/internal/repository"
	"meetup/internal/validation"
)

const categoryConflict = "Category with this title already exists"

type CategoryService struct {
	repo repository.CategoryRepository
}

// CategoryInput is the body of category create and update.
type CategoryInput struct {
	Title string `json:"title" validate:"required,max=50"`
}

func NewCategoryService(repo repository.CategoryRepository) *CategoryService {
	return &CategoryService{repo: repo}
}

func (s *CategoryService) CreateCategory(ctx context.Context, in CategoryInput) (*models.Category, error) {
	in.Title = strings.TrimSpace(in.Title)
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	category := &models.Category{Title: in.Title}
	if err := s.repo.Create(ctx, category); err != nil {
		return nil, storeError(err, categoryConflict)
	}
	return category, nil
}

func (s *CategoryService) ListCategories(ctx context.Context) ([]models.Category, error) {
	categories, err := s.repo.ListActive(ctx)
	return categories, storeError(err, "")
}

func (s *CategoryService) GetCategory(ctx context.Context, id uint) (*models.Category, error) {
	category, err := s.repo.GetActive(ctx, id)
	return category, storeError(err, "")
}

func (s *CategoryService) UpdateCategory(ctx context.Context, id uint, in CategoryInput) (*models.Category, error) {
	category, err := s.repo.GetActive(ctx, id)
	if err != nil {
		return nil, storeError(err, "")
	}
	in.Title = strings.TrimSpace(in.Title)
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	if err := s.repo.UpdateTitle(ctx, category, in.Title); err != nil {
		return nil, storeError(err, categoryConflict)
	}
	return category, nil
}

func (s *CategoryService) DeleteCategory(ctx context.Context, id uint) error {
	return storeError(s.repo.SoftDelete(ctx, id), "")
}
