package services

import (
	"context"

	"github.com/pagecrest/blogapi/models"
	"github.com/pagecrest/blogapi/repositories"
)

// TagService lists tags. Tags are written only by the admin service,
// which also owns invalidating their cache entry when it mutates them.
type TagService struct {
	tags repositories.TagRepository
}

// NewTagService wires the tag service.
func NewTagService(tags repositories.TagRepository) *TagService {
	return &TagService{tags: tags}
}

// List returns all tags that label at least one post, alphabetical.
func (s *TagService) List(ctx context.Context) ([]models.Tag, error) {
	tags, err := s.tags.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	if tags == nil {
		tags = []models.Tag{}
	}
	return tags, nil
}
