package repositories

import (
	"context"

	"gorm.io/gorm"

	"github.com/pagecrest/blogapi/models"
)

// TagRepository defines storage operations for tags.
type TagRepository interface {
	// ListActive returns tags with at least one post, ordered by name.
	ListActive(ctx context.Context) ([]models.Tag, error)
	// NamesByPostIDs fetches tag names for a batch of posts in a single
	// round trip, each post's names ordered alphabetically.
	NamesByPostIDs(ctx context.Context, postIDs []uint) (map[uint][]string, error)
}

type tagRepository struct {
	db *gorm.DB
}

// NewTagRepository creates the GORM backed TagRepository.
func NewTagRepository(db *gorm.DB) TagRepository {
	return &tagRepository{db: db}
}

func (r *tagRepository) ListActive(ctx context.Context) ([]models.Tag, error) {
	var tags []models.Tag
	err := r.db.WithContext(ctx).
		Where("post_count > 0").
		Order("name ASC").
		Find(&tags).Error
	return tags, err
}

func (r *tagRepository) NamesByPostIDs(ctx context.Context, postIDs []uint) (map[uint][]string, error) {
	result := make(map[uint][]string, len(postIDs))
	if len(postIDs) == 0 {
		return result, nil
	}

	var rows []struct {
		PostID uint
		Name   string
	}
	err := r.db.WithContext(ctx).Model(&models.PostTag{}).
		Select("post_tags.post_id, tags.name").
		Joins("JOIN tags ON tags.id = post_tags.tag_id").
		Where("post_tags.post_id IN ?", postIDs).
		Order("tags.name ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		result[row.PostID] = append(result[row.PostID], row.Name)
	}
	return result, nil
}
