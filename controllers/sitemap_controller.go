package controllers

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/pagecrest/blogapi/services"
	"github.com/pagecrest/blogapi/utils"
)

// SitemapController serves the crawler facing slug listing.
type SitemapController struct {
	sitemap *services.SitemapService
	cache   utils.Cache
	ttl     time.Duration
}

// NewSitemapController creates a new SitemapController instance.
func NewSitemapController(sitemap *services.SitemapService, cache utils.Cache, ttl time.Duration) *SitemapController {
	return &SitemapController{sitemap: sitemap, cache: cache, ttl: ttl}
}

// GetSitemap returns published slugs, newest first.
func (s *SitemapController) GetSitemap(ctx *gin.Context) {
	serveCached(ctx, s.cache, s.ttl, func() (interface{}, error) {
		return s.sitemap.Slugs(ctx.Request.Context())
	})
}
