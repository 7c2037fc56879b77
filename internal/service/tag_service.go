package service

import (
	"context"

	"meetup/internal/models"
	"meetup/internal/repository"
	"meetup/internal/validation"
)

type TagService struct {
	repo repository.TagRepository
}

// TagInput is the body of tag create. Titles are kept verbatim: "Go" and "go" are distinct tags.
type TagInput struct {
	Title string `json:"title" validate:"required,max=50"`
}

func NewTagService(repo repository.TagRepository) *TagService {
	return &TagService{repo: repo}
}

func (s *TagService) CreateTag(ctx context.Context, in TagInput) (*models.Tag, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	tag := &models.Tag{Title: in.Title}
	if err := s.repo.Create(ctx, tag); err != nil {
		return nil, storeError(err, "Tag with this title already exists")
	}
	return tag, nil
}

func (s *TagService) ListTags(ctx context.Context) ([]models.Tag, error) {
	tags, err := s.repo.List(ctx)
	return tags, storeError(err, "")
}

func (s *TagService) GetTag(ctx context.Context, id uint) (*models.Tag, error) {
	tag, err := s.repo.GetByID(ctx, id)
	return tag, storeError(err, "")
}

func (s *TagService) DeleteTag(ctx context.Context, id uint) error {
	return storeError(s.repo.Delete(ctx, id), "")
}
