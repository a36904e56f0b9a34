package services

import (
	"context"

	"github.com/pagecrest/blogapi/repositories"
)

// SitemapService exposes the slugs of all published posts so crawlers
// never have to paginate the list endpoint.
type SitemapService struct {
	posts repositories.PostRepository
}

// NewSitemapService wires the sitemap service.
func NewSitemapService(posts repositories.PostRepository) *SitemapService {
	return &SitemapService{posts: posts}
}

// Slugs returns published slugs, most recently created first.
func (s *SitemapService) Slugs(ctx context.Context) ([]string, error) {
	slugs, err := s.posts.PublishedSlugs(ctx)
	if err != nil {
		return nil, err
	}
	if slugs == nil {
		slugs = []string{}
	}
	return slugs, nil
}
