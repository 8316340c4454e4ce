package posts

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/dmitrijs2005/gophblog/internal/common"
	"github.com/dmitrijs2005/gophblog/internal/server/models"
)

// MemoryRepository is an in-process Repository for tests and local runs.
type MemoryRepository struct {
	mu     sync.RWMutex
	nextID int64
	posts  map[int64]models.Post
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{posts: make(map[int64]models.Post)}
}

func (r *MemoryRepository) Create(_ context.Context, post *models.NewPost) (*models.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	p := models.Post{
		ID:        r.nextID,
		Title:     post.Title,
		Content:   post.Content,
		AuthorID:  post.AuthorID,
		CreatedAt: time.Now().UTC(),
	}
	r.posts[p.ID] = p
	return &p, nil
}

func (r *MemoryRepository) FindByID(_ context.Context, id int64) (*models.Post, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.posts[id]
	if !ok {
		return nil, common.ErrRecordNotFound
	}
	return &p, nil
}

func (r *MemoryRepository) FindAll(_ context.Context) ([]*models.Post, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*models.Post, 0, len(r.posts))
	for _, p := range r.posts {
		result = append(result, &p)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (r *MemoryRepository) Update(_ context.Context, id int64, post *models.NewPost) (*models.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.posts[id]
	if !ok {
		return nil, common.ErrRecordNotFound
	}
	p.Title = post.Title
	p.Content = post.Content
	r.posts[id] = p
	return &p, nil
}

func (r *MemoryRepository) Delete(_ context.Context, id int64) (*models.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.posts[id]
	if !ok {
		return nil, common.ErrRecordNotFound
	}
	delete(r.posts, id)
	return &p, nil
}
