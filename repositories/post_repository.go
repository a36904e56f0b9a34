package repositories

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/pagecrest/blogapi/models"
)

// PostRepository defines storage operations for posts. Every query is
// scoped to published rows; drafts never leave the store through this
// interface.
type PostRepository interface {
	ListPublished(ctx context.Context, tag, orderColumn string, desc bool, offset, limit int) ([]models.Post, error)
	CountPublished(ctx context.Context, tag string) (int64, error)
	FindPublishedByID(ctx context.Context, id uint) (*models.Post, error)
	FindPublishedBySlug(ctx context.Context, slug string) (*models.Post, error)
	ExistsPublished(ctx context.Context, id uint) (bool, error)
	// IncrementViews atomically bumps the counter for a published post and
	// reports how many rows were touched (0 means absent or draft).
	IncrementViews(ctx context.Context, id uint) (int64, error)
	// PublishedSlugs returns slugs of published posts newest first.
	PublishedSlugs(ctx context.Context) ([]string, error)
}

type postRepository struct {
	db *gorm.DB
}

// NewPostRepository creates the GORM backed PostRepository.
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

// publishedScope restricts a query to published posts, optionally joined
// on a tag name filter.
func (r *postRepository) publishedScope(ctx context.Context, tag string) *gorm.DB {
	q := r.db.WithContext(ctx).Model(&models.Post{}).Where("posts.state = ?", models.StatePublished)
	if tag != "" {
		q = q.Joins("JOIN post_tags ON post_tags.post_id = posts.id").
			Joins("JOIN tags ON tags.id = post_tags.tag_id").
			Where("tags.name = ?", tag)
	}
	return q
}

func (r *postRepository) ListPublished(ctx context.Context, tag, orderColumn string, desc bool, offset, limit int) ([]models.Post, error) {
	direction := "ASC"
	if desc {
		direction = "DESC"
	}
	// orderColumn comes from the service's whitelist, never from the client.
	var posts []models.Post
	err := r.publishedScope(ctx, tag).
		Order(fmt.Sprintf("posts.%s %s", orderColumn, direction)).
		Offset(offset).
		Limit(limit).
		Find(&posts).Error
	return posts, err
}

func (r *postRepository) CountPublished(ctx context.Context, tag string) (int64, error) {
	var total int64
	err := r.publishedScope(ctx, tag).Count(&total).Error
	return total, err
}

func (r *postRepository) FindPublishedByID(ctx context.Context, id uint) (*models.Post, error) {
	var post models.Post
	err := r.db.WithContext(ctx).
		Where("id = ? AND state = ?", id, models.StatePublished).
		First(&post).Error
	if err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *postRepository) FindPublishedBySlug(ctx context.Context, slug string) (*models.Post, error) {
	var post models.Post
	err := r.db.WithContext(ctx).
		Where("slug = ? AND state = ?", slug, models.StatePublished).
		First(&post).Error
	if err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *postRepository) ExistsPublished(ctx context.Context, id uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Post{}).
		Where("id = ? AND state = ?", id, models.StatePublished).
		Count(&count).Error
	return count > 0, err
}

func (r *postRepository) IncrementViews(ctx context.Context, id uint) (int64, error) {
	res := r.db.WithContext(ctx).Model(&models.Post{}).
		Where("id = ? AND state = ?", id, models.StatePublished).
		UpdateColumn("views", gorm.Expr("views + 1"))
	return res.RowsAffected, res.Error
}

func (r *postRepository) PublishedSlugs(ctx context.Context) ([]string, error) {
	var slugs []string
	err := r.db.WithContext(ctx).Model(&models.Post{}).
		Where("state = ?", models.StatePublished).
		Order("created_at DESC").
		Pluck("slug", &slugs).Error
	return slugs, err
}
