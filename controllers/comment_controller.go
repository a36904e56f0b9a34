package controllers

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/pagecrest/blogapi/services"
	"github.com/pagecrest/blogapi/utils"
)

// CommentController serves the public comment endpoints.
type CommentController struct {
	comments *services.CommentService
	cache    utils.Cache
	ttl      time.Duration
}

// NewCommentController creates a new CommentController instance.
func NewCommentController(comments *services.CommentService, cache utils.Cache, ttl time.Duration) *CommentController {
	return &CommentController{comments: comments, cache: cache, ttl: ttl}
}

// ListComments returns a post's comments oldest first.
func (c *CommentController) ListComments(ctx *gin.Context) {
	serveCached(ctx, c.cache, c.ttl, func() (interface{}, error) {
		return c.comments.ListByPost(ctx.Request.Context(), ctx.Param("postId"))
	})
}

// CreateComment accepts a public comment on a published post.
func (c *CommentController) CreateComment(ctx *gin.Context) {
	var input services.CreateCommentInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		utils.Fail(ctx, utils.NewValidationError("invalid request payload"))
		return
	}

	comment, err := c.comments.Create(ctx.Request.Context(), ctx.Param("postId"), input)
	if err != nil {
		utils.Fail(ctx, err)
		return
	}
	utils.Success(ctx, comment)
}
