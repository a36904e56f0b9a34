package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/pagecrest/blogapi/services"
	"github.com/pagecrest/blogapi/utils"
)

// PostController serves the public post endpoints.
type PostController struct {
	posts *services.PostService
	cache utils.Cache
	ttl   time.Duration
}

// NewPostController creates a new PostController instance.
func NewPostController(posts *services.PostService, cache utils.Cache, ttl time.Duration) *PostController {
	return &PostController{posts: posts, cache: cache, ttl: ttl}
}

// ListPosts returns a filtered, sorted, paginated page of published posts.
func (p *PostController) ListPosts(ctx *gin.Context) {
	serveCached(ctx, p.cache, p.ttl, func() (interface{}, error) {
		return p.posts.List(
			ctx.Request.Context(),
			ctx.Query("tag"),
			ctx.Query("page"),
			ctx.Query("size"),
			ctx.Query("sort"),
		)
	})
}

// GetPost returns the post detail for a slug, or a 301 to the canonical
// slug URL when the segment is a numeric id. Redirects are not cached;
// the slug form is.
func (p *PostController) GetPost(ctx *gin.Context) {
	segment := ctx.Param("slugOrId")

	key := utils.CacheKey(ctx.Request.URL.Path, ctx.Request.URL.Query())
	if b, ok := p.cache.Get(ctx.Request.Context(), key); ok {
		ctx.Data(200, "application/json; charset=utf-8", b)
		return
	}

	lookup, err := p.posts.GetBySlugOrID(ctx.Request.Context(), segment)
	if err != nil {
		utils.Fail(ctx, err)
		return
	}
	if lookup.RedirectSlug != "" {
		ctx.Redirect(http.StatusMovedPermanently, "/api/v1/posts/"+lookup.RedirectSlug)
		return
	}

	serveAndStore(ctx, p.cache, key, p.ttl, lookup.Post)
}

// IncrementViews bumps the view counter for a published post and returns
// the fresh count.
func (p *PostController) IncrementViews(ctx *gin.Context) {
	count, err := p.posts.IncrementViews(ctx.Request.Context(), ctx.Param("slugOrId"))
	if err != nil {
		utils.Fail(ctx, err)
		return
	}
	utils.Success(ctx, count)
}
