package controllers

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/pagecrest/blogapi/services"
	"github.com/pagecrest/blogapi/utils"
)

// TagController serves the tag listing endpoint.
type TagController struct {
	tags  *services.TagService
	cache utils.Cache
	ttl   time.Duration
}

// NewTagController creates a new TagController instance.
func NewTagController(tags *services.TagService, cache utils.Cache, ttl time.Duration) *TagController {
	return &TagController{tags: tags, cache: cache, ttl: ttl}
}

// ListTags returns all tags with at least one post, alphabetical.
func (t *TagController) ListTags(ctx *gin.Context) {
	serveCached(ctx, t.cache, t.ttl, func() (interface{}, error) {
		return t.tags.List(ctx.Request.Context())
	})
}
