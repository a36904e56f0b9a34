package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/pagecrest/blogapi/models"
	"github.com/pagecrest/blogapi/services"
)

// memStore is an in-memory stand-in for the repositories, counting calls
// so tests can prove the cache absorbed a round trip.
type memStore struct {
	mu         sync.Mutex
	posts      []models.Post
	tags       []models.Tag
	tagsByPost map[uint][]string
	comments   []models.Comment
	calls      map[string]int
}

func newMemStore() *memStore {
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	return &memStore{
		posts: []models.Post{
			{ID: 7, Slug: "go-slices", Title: "Go slices", State: models.StatePublished, Views: 10, CreatedAt: base},
			{ID: 8, Slug: "sql-joins", Title: "SQL joins", State: models.StatePublished, Views: 3, CreatedAt: base.Add(time.Hour)},
			{ID: 9, Slug: "unfinished", Title: "Draft", State: models.StateDraft, CreatedAt: base.Add(2 * time.Hour)},
		},
		tags: []models.Tag{
			{ID: 1, Name: "go", PostCount: 1},
			{ID: 2, Name: "sql", PostCount: 1},
		},
		tagsByPost: map[uint][]string{7: {"go"}, 8: {"sql"}},
		calls:      map[string]int{},
	}
}

func (m *memStore) count(name string) {
	m.mu.Lock()
	m.calls[name]++
	m.mu.Unlock()
}

func (m *memStore) callCount(name string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[name]
}

func (m *memStore) published() []models.Post {
	var out []models.Post
	for _, p := range m.posts {
		if p.State == models.StatePublished {
			out = append(out, p)
		}
	}
	return out
}

func (m *memStore) ListPublished(_ context.Context, tag, _ string, _ bool, offset, limit int) ([]models.Post, error) {
	m.count("ListPublished")
	posts := m.published()
	if tag != "" {
		var filtered []models.Post
		for _, p := range posts {
			for _, name := range m.tagsByPost[p.ID] {
				if name == tag {
					filtered = append(filtered, p)
					break
				}
			}
		}
		posts = filtered
	}
	if offset >= len(posts) {
		return nil, nil
	}
	end := offset + limit
	if end > len(posts) {
		end = len(posts)
	}
	return posts[offset:end], nil
}

func (m *memStore) CountPublished(_ context.Context, tag string) (int64, error) {
	m.count("CountPublished")
	posts, _ := m.ListPublished(context.Background(), tag, "", false, 0, len(m.posts))
	m.mu.Lock()
	m.calls["ListPublished"]-- // internal reuse, not a real round trip
	m.mu.Unlock()
	return int64(len(posts)), nil
}

func (m *memStore) FindPublishedByID(_ context.Context, id uint) (*models.Post, error) {
	m.count("FindPublishedByID")
	for i := range m.posts {
		if m.posts[i].ID == id && m.posts[i].State == models.StatePublished {
			p := m.posts[i]
			return &p, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *memStore) FindPublishedBySlug(_ context.Context, slug string) (*models.Post, error) {
	m.count("FindPublishedBySlug")
	for i := range m.posts {
		if m.posts[i].Slug == slug && m.posts[i].State == models.StatePublished {
			p := m.posts[i]
			return &p, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *memStore) ExistsPublished(_ context.Context, id uint) (bool, error) {
	m.count("ExistsPublished")
	for i := range m.posts {
		if m.posts[i].ID == id && m.posts[i].State == models.StatePublished {
			return true, nil
		}
	}
	return false, nil
}

func (m *memStore) IncrementViews(_ context.Context, id uint) (int64, error) {
	m.count("IncrementViews")
	for i := range m.posts {
		if m.posts[i].ID == id && m.posts[i].State == models.StatePublished {
			m.posts[i].Views++
			return 1, nil
		}
	}
	return 0, nil
}

func (m *memStore) PublishedSlugs(_ context.Context) ([]string, error) {
	m.count("PublishedSlugs")
	posts := m.published()
	sort.SliceStable(posts, func(i, j int) bool { return posts[i].CreatedAt.After(posts[j].CreatedAt) })
	slugs := make([]string, 0, len(posts))
	for _, p := range posts {
		slugs = append(slugs, p.Slug)
	}
	return slugs, nil
}

func (m *memStore) ListActive(_ context.Context) ([]models.Tag, error) {
	m.count("ListActive")
	var out []models.Tag
	for _, t := range m.tags {
		if t.PostCount > 0 {
			out = append(out, t)
		}
	}
	return out, nil
}

func (m *memStore) NamesByPostIDs(_ context.Context, postIDs []uint) (map[uint][]string, error) {
	m.count("NamesByPostIDs")
	result := make(map[uint][]string, len(postIDs))
	for _, id := range postIDs {
		if names, ok := m.tagsByPost[id]; ok {
			sorted := append([]string(nil), names...)
			sort.Strings(sorted)
			result[id] = sorted
		}
	}
	return result, nil
}

func (m *memStore) ListByPost(_ context.Context, postID uint) ([]models.Comment, error) {
	m.count("ListByPost")
	var out []models.Comment
	for _, c := range m.comments {
		if c.PostID == postID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *memStore) Create(_ context.Context, comment *models.Comment) error {
	m.count("Create")
	m.comments = append(m.comments, *comment)
	return nil
}

// memCache is a map backed cache honoring prefix deletes.
type memCache struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newMemCache() *memCache {
	return &memCache{data: map[string][]byte{}}
}

func (c *memCache) Get(_ context.Context, key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	b, ok := c.data[key]
	return b, ok
}

func (c *memCache) Set(_ context.Context, key string, value []byte, _ time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = value
}

func (c *memCache) Delete(_ context.Context, key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
}

func (c *memCache) DeleteByPrefix(_ context.Context, prefix string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for k := range c.data {
		if strings.HasPrefix(k, prefix) {
			delete(c.data, k)
		}
	}
}

// newTestRouter wires the real services and controllers over the fakes,
// mirroring the production route table.
func newTestRouter(store *memStore, cache *memCache) *gin.Engine {
	gin.SetMode(gin.TestMode)

	postService := services.NewPostService(store, store, cache)
	commentService := services.NewCommentService(store, store, cache)
	tagService := services.NewTagService(store)
	sitemapService := services.NewSitemapService(store)

	ttl := time.Hour
	postController := NewPostController(postService, cache, ttl)
	commentController := NewCommentController(commentService, cache, ttl)
	tagController := NewTagController(tagService, cache, ttl)
	sitemapController := NewSitemapController(sitemapService, cache, ttl)

	r := gin.New()
	api := r.Group("/api/v1")
	api.GET("/posts", postController.ListPosts)
	api.GET("/posts/:slugOrId", postController.GetPost)
	api.PATCH("/posts/:slugOrId/views", postController.IncrementViews)
	api.GET("/comments/:postId", commentController.ListComments)
	api.POST("/comments/:postId", commentController.CreateComment)
	api.GET("/tags", tagController.ListTags)
	api.GET("/sitemap", sitemapController.GetSitemap)
	return r
}

func doRequest(t *testing.T, r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}
