package services

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pagecrest/blogapi/models"
	"github.com/pagecrest/blogapi/repositories"
	"github.com/pagecrest/blogapi/utils"
)

const (
	commentMinLen = 1
	commentMaxLen = 500
	authorMinLen  = 2
	authorMaxLen  = 20
)

// CreateCommentInput is the request body for comment creation.
type CreateCommentInput struct {
	Content string `json:"content"`
	Author  string `json:"author"`
}

// CommentService handles public comment reads and creation. Comment
// deletion belongs to the admin service.
type CommentService struct {
	comments repositories.CommentRepository
	posts    repositories.PostRepository
	cache    utils.Cache
}

// NewCommentService wires the comment service.
func NewCommentService(comments repositories.CommentRepository, posts repositories.PostRepository, cache utils.Cache) *CommentService {
	return &CommentService{comments: comments, posts: posts, cache: cache}
}

// ListByPost returns a post's comments oldest first. The post must exist
// and be published.
func (s *CommentService) ListByPost(ctx context.Context, postIDStr string) ([]models.Comment, error) {
	postID, err := parsePostID(postIDStr)
	if err != nil {
		return nil, err
	}
	if err := s.requirePublished(ctx, postID); err != nil {
		return nil, err
	}
	comments, err := s.comments.ListByPost(ctx, postID)
	if err != nil {
		return nil, err
	}
	if comments == nil {
		comments = []models.Comment{}
	}
	return comments, nil
}

// Create validates and persists a new comment. The post check runs
// before body validation so clients always see 404 for a bad post id, no
// matter how broken the body is. Field violations are collected and
// reported together.
func (s *CommentService) Create(ctx context.Context, postIDStr string, input CreateCommentInput) (*models.Comment, error) {
	postID, err := parsePostID(postIDStr)
	if err != nil {
		return nil, err
	}
	if err := s.requirePublished(ctx, postID); err != nil {
		return nil, err
	}

	content := utils.Sanitize(input.Content)
	author := utils.Sanitize(strings.TrimSpace(input.Author))

	var violations []string
	if n := len([]rune(content)); n < commentMinLen || n > commentMaxLen {
		violations = append(violations, "content must be between 1 and 500 characters")
	}
	if n := len([]rune(author)); n < authorMinLen || n > authorMaxLen {
		violations = append(violations, "author must be between 2 and 20 characters")
	}
	if len(violations) > 0 {
		return nil, utils.NewValidationError(strings.Join(violations, "; "))
	}

	comment := &models.Comment{
		ID:         uuid.NewString(),
		PostID:     postID,
		Content:    content,
		AuthorName: author,
		CreatedAt:  time.Now().UTC(),
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, err
	}

	// The comment-list endpoint takes no query parameters, so the exact
	// key covers its only cached variant.
	s.cache.Delete(ctx, commentsCachePrefix+postIDStr)

	return comment, nil
}

func (s *CommentService) requirePublished(ctx context.Context, postID uint) error {
	exists, err := s.posts.ExistsPublished(ctx, postID)
	if err != nil {
		return err
	}
	if !exists {
		return utils.NewNotFoundError("post not found")
	}
	return nil
}

func parsePostID(postIDStr string) (uint, error) {
	id, err := strconv.ParseUint(postIDStr, 10, 64)
	if err != nil || id == 0 {
		return 0, utils.NewValidationError("postId must be a positive integer")
	}
	return uint(id), nil
}
