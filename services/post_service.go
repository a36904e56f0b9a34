package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/pagecrest/blogapi/models"
	"github.com/pagecrest/blogapi/repositories"
	"github.com/pagecrest/blogapi/utils"
)

// Cache key bases mirror the public routes. Invalidation is deliberately
// coarse: wiping the whole posts prefix also clears detail entries, which
// costs a few extra store round trips but can never leave a stale page.
const (
	postsCachePrefix    = "cache:/api/v1/posts"
	commentsCachePrefix = "cache:/api/v1/comments/"
)

var numericSegment = regexp.MustCompile(`^[0-9]+$`)

// Sortable fields exposed by the list endpoint, mapped to their columns.
var sortColumns = map[string]string{
	"createdAt": "created_at",
	"updatedAt": "updated_at",
	"views":     "views",
	"title":     "title",
}

// PostView is the API shape of a post, tags attached in name order.
type PostView struct {
	ID        uint      `json:"id"`
	Slug      string    `json:"slug"`
	Title     string    `json:"title"`
	Summary   string    `json:"summary"`
	Content   string    `json:"content"`
	Views     uint64    `json:"views"`
	Tags      []string  `json:"tags"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// PostPage is the paginated list envelope payload.
type PostPage struct {
	Content       []PostView `json:"content"`
	TotalElements int64      `json:"totalElements"`
	PageNumber    int        `json:"pageNumber"`
	PageSize      int        `json:"pageSize"`
}

// PostLookup is the outcome of a slug-or-id lookup. A non-empty
// RedirectSlug tells the handler to answer 301 to the canonical slug URL
// instead of returning content.
type PostLookup struct {
	RedirectSlug string
	Post         *PostView
}

// ViewCount carries the read-back after a view increment.
type ViewCount struct {
	Views uint64 `json:"views"`
}

// PostService orchestrates post reads and the single view-counter write.
type PostService struct {
	posts repositories.PostRepository
	tags  repositories.TagRepository
	cache utils.Cache
}

// NewPostService wires the post service.
func NewPostService(posts repositories.PostRepository, tags repositories.TagRepository, cache utils.Cache) *PostService {
	return &PostService{posts: posts, tags: tags, cache: cache}
}

// List returns one page of published posts. Raw query strings come in so
// validation lives here, not in the handler; page defaults to 0, size to
// 10, sort to createdAt,desc.
func (s *PostService) List(ctx context.Context, tag, pageStr, sizeStr, sortStr string) (*PostPage, error) {
	page := 0
	if pageStr != "" {
		v, err := strconv.Atoi(pageStr)
		if err != nil || v < 0 {
			return nil, utils.NewValidationError("page must be a non-negative integer")
		}
		page = v
	}

	size := 10
	if sizeStr != "" {
		v, err := strconv.Atoi(sizeStr)
		if err != nil || v < 1 || v > 100 {
			return nil, utils.NewValidationError("size must be an integer between 1 and 100")
		}
		size = v
	}

	column, desc, err := parseSort(sortStr)
	if err != nil {
		return nil, err
	}

	// The count shares the filter but not the pagination; both reads are
	// independent, so issue them concurrently.
	var (
		wg       sync.WaitGroup
		posts    []models.Post
		total    int64
		pageErr  error
		countErr error
	)
	wg.Add(1)
	go func() {
		defer wg.Done()
		total, countErr = s.posts.CountPublished(ctx, tag)
	}()
	posts, pageErr = s.posts.ListPublished(ctx, tag, column, desc, page*size, size)
	wg.Wait()
	if pageErr != nil {
		return nil, pageErr
	}
	if countErr != nil {
		return nil, countErr
	}

	views, err := s.attachTags(ctx, posts)
	if err != nil {
		return nil, err
	}

	return &PostPage{
		Content:       views,
		TotalElements: total,
		PageNumber:    page,
		PageSize:      size,
	}, nil
}

// GetBySlugOrID resolves a single path segment. Numeric segments are
// treated as post ids and converge on the canonical slug URL via 301 so
// old numeric permalinks stay stable without serving duplicate content.
func (s *PostService) GetBySlugOrID(ctx context.Context, segment string) (*PostLookup, error) {
	if numericSegment.MatchString(segment) {
		id, err := strconv.ParseUint(segment, 10, 64)
		if err != nil {
			return nil, utils.NewNotFoundError("post not found")
		}
		post, err := s.posts.FindPublishedByID(ctx, uint(id))
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, utils.NewNotFoundError("post not found")
			}
			return nil, err
		}
		return &PostLookup{RedirectSlug: post.Slug}, nil
	}

	post, err := s.posts.FindPublishedBySlug(ctx, segment)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.NewNotFoundError("post not found")
		}
		return nil, err
	}

	views, err := s.attachTags(ctx, []models.Post{*post})
	if err != nil {
		return nil, err
	}
	return &PostLookup{Post: &views[0]}, nil
}

// IncrementViews bumps the counter for a published post and reads back
// the stored value. A concurrent increment may make the read-back higher
// than the value just written; callers only need a recent count.
func (s *PostService) IncrementViews(ctx context.Context, idStr string) (*ViewCount, error) {
	id, err := strconv.ParseUint(idStr, 10, 64)
	if err != nil {
		return nil, utils.NewValidationError("postId must be an integer")
	}

	rows, err := s.posts.IncrementViews(ctx, uint(id))
	if err != nil {
		return nil, err
	}
	if rows == 0 {
		return nil, utils.NewNotFoundError("post not found")
	}

	post, err := s.posts.FindPublishedByID(ctx, uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.NewNotFoundError("post not found")
		}
		return nil, err
	}

	s.cache.Delete(ctx, postsCachePrefix+"/"+post.Slug)
	s.cache.DeleteByPrefix(ctx, postsCachePrefix)

	return &ViewCount{Views: post.Views}, nil
}

// attachTags batch-fetches tag names for a page of posts in one round
// trip and maps rows to the API shape.
func (s *PostService) attachTags(ctx context.Context, posts []models.Post) ([]PostView, error) {
	ids := make([]uint, 0, len(posts))
	for _, p := range posts {
		ids = append(ids, p.ID)
	}
	names, err := s.tags.NamesByPostIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	views := make([]PostView, 0, len(posts))
	for _, p := range posts {
		tags := names[p.ID]
		if tags == nil {
			tags = []string{}
		}
		views = append(views, PostView{
			ID:        p.ID,
			Slug:      p.Slug,
			Title:     p.Title,
			Summary:   p.Summary,
			Content:   p.Content,
			Views:     p.Views,
			Tags:      tags,
			CreatedAt: p.CreatedAt,
			UpdatedAt: p.UpdatedAt,
		})
	}
	return views, nil
}

func parseSort(sortStr string) (column string, desc bool, err error) {
	if sortStr == "" {
		return "created_at", true, nil
	}
	parts := strings.Split(sortStr, ",")
	if len(parts) != 2 {
		return "", false, utils.NewValidationError("sort must be of the form field,direction")
	}
	column, ok := sortColumns[parts[0]]
	if !ok {
		return "", false, utils.NewValidationError(fmt.Sprintf("sort field %q is not sortable", parts[0]))
	}
	switch strings.ToLower(parts[1]) {
	case "asc":
		return column, false, nil
	case "desc":
		return column, true, nil
	default:
		return "", false, utils.NewValidationError(fmt.Sprintf("sort direction %q must be asc or desc", parts[1]))
	}
}
