package services

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/pagecrest/blogapi/models"
)

// fakeStore implements the repository interfaces in memory and counts
// calls so tests can assert on round trips.
type fakeStore struct {
	mu         sync.Mutex
	posts      []models.Post
	tags       []models.Tag
	tagsByPost map[uint][]string
	comments   []models.Comment
	calls      map[string]int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		tagsByPost: map[uint][]string{},
		calls:      map[string]int{},
	}
}

func (f *fakeStore) count(name string) {
	f.mu.Lock()
	f.calls[name]++
	f.mu.Unlock()
}

func (f *fakeStore) published(tag string) []models.Post {
	var out []models.Post
	for _, p := range f.posts {
		if p.State != models.StatePublished {
			continue
		}
		if tag != "" && !contains(f.tagsByPost[p.ID], tag) {
			continue
		}
		out = append(out, p)
	}
	return out
}

func (f *fakeStore) ListPublished(_ context.Context, tag, orderColumn string, desc bool, offset, limit int) ([]models.Post, error) {
	f.count("ListPublished")
	posts := f.published(tag)
	sort.SliceStable(posts, func(i, j int) bool {
		var less bool
		switch orderColumn {
		case "views":
			less = posts[i].Views < posts[j].Views
		case "title":
			less = posts[i].Title < posts[j].Title
		case "updated_at":
			less = posts[i].UpdatedAt.Before(posts[j].UpdatedAt)
		default:
			less = posts[i].CreatedAt.Before(posts[j].CreatedAt)
		}
		if desc {
			return !less
		}
		return less
	})
	if offset >= len(posts) {
		return nil, nil
	}
	end := offset + limit
	if end > len(posts) {
		end = len(posts)
	}
	return posts[offset:end], nil
}

func (f *fakeStore) CountPublished(_ context.Context, tag string) (int64, error) {
	f.count("CountPublished")
	return int64(len(f.published(tag))), nil
}

func (f *fakeStore) FindPublishedByID(_ context.Context, id uint) (*models.Post, error) {
	f.count("FindPublishedByID")
	for i := range f.posts {
		if f.posts[i].ID == id && f.posts[i].State == models.StatePublished {
			p := f.posts[i]
			return &p, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeStore) FindPublishedBySlug(_ context.Context, slug string) (*models.Post, error) {
	f.count("FindPublishedBySlug")
	for i := range f.posts {
		if f.posts[i].Slug == slug && f.posts[i].State == models.StatePublished {
			p := f.posts[i]
			return &p, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeStore) ExistsPublished(_ context.Context, id uint) (bool, error) {
	f.count("ExistsPublished")
	for i := range f.posts {
		if f.posts[i].ID == id && f.posts[i].State == models.StatePublished {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeStore) IncrementViews(_ context.Context, id uint) (int64, error) {
	f.count("IncrementViews")
	for i := range f.posts {
		if f.posts[i].ID == id && f.posts[i].State == models.StatePublished {
			f.posts[i].Views++
			return 1, nil
		}
	}
	return 0, nil
}

func (f *fakeStore) PublishedSlugs(_ context.Context) ([]string, error) {
	f.count("PublishedSlugs")
	posts := f.published("")
	sort.SliceStable(posts, func(i, j int) bool {
		return posts[i].CreatedAt.After(posts[j].CreatedAt)
	})
	slugs := make([]string, 0, len(posts))
	for _, p := range posts {
		slugs = append(slugs, p.Slug)
	}
	return slugs, nil
}

func (f *fakeStore) ListActive(_ context.Context) ([]models.Tag, error) {
	f.count("ListActive")
	var out []models.Tag
	for _, t := range f.tags {
		if t.PostCount > 0 {
			out = append(out, t)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (f *fakeStore) NamesByPostIDs(_ context.Context, postIDs []uint) (map[uint][]string, error) {
	f.count("NamesByPostIDs")
	result := make(map[uint][]string, len(postIDs))
	for _, id := range postIDs {
		if names, ok := f.tagsByPost[id]; ok {
			sorted := append([]string(nil), names...)
			sort.Strings(sorted)
			result[id] = sorted
		}
	}
	return result, nil
}

func (f *fakeStore) ListByPost(_ context.Context, postID uint) ([]models.Comment, error) {
	f.count("ListByPost")
	var out []models.Comment
	for _, c := range f.comments {
		if c.PostID == postID {
			out = append(out, c)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (f *fakeStore) Create(_ context.Context, comment *models.Comment) error {
	f.count("Create")
	f.comments = append(f.comments, *comment)
	return nil
}

func contains(items []string, target string) bool {
	for _, it := range items {
		if it == target {
			return true
		}
	}
	return false
}

// spyCache is an in-memory Cache recording deletions.
type spyCache struct {
	mu              sync.Mutex
	data            map[string][]byte
	deleted         []string
	deletedPrefixes []string
}

func newSpyCache() *spyCache {
	return &spyCache{data: map[string][]byte{}}
}

func (c *spyCache) Get(_ context.Context, key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	b, ok := c.data[key]
	return b, ok
}

func (c *spyCache) Set(_ context.Context, key string, value []byte, _ time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = value
}

func (c *spyCache) Delete(_ context.Context, key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
	c.deleted = append(c.deleted, key)
}

func (c *spyCache) DeleteByPrefix(_ context.Context, prefix string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for k := range c.data {
		if strings.HasPrefix(k, prefix) {
			delete(c.data, k)
		}
	}
	c.deletedPrefixes = append(c.deletedPrefixes, prefix)
}
