package apihandlers

import (
	"context"
	"sort"
	"strings"
	"sync"

	"bulkcat/internal/models"
	"bulkcat/internal/store"
)

// memStore is an in-memory store.Store for handler tests.
type memStore struct {
	mu         sync.Mutex
	users      map[string]*models.User // by api key
	categories map[int64]*models.Category
	posts      map[int64]*models.Post
	postCats   map[int64][]int64
	pingErr    error
	listErr    error
}

func newMemStore() *memStore {
	return &memStore{
		users:      map[string]*models.User{},
		categories: map[int64]*models.Category{},
		posts:      map[int64]*models.Post{},
		postCats:   map[int64][]int64{},
	}
}

func (m *memStore) GetPost(ctx context.Context, id int64) (*models.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.posts[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *memStore) ListPosts(ctx context.Context, q store.PostQuery) ([]*models.Post, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.listErr != nil {
		return nil, 0, m.listErr
	}
	var matched []*models.Post
	for _, p := range m.posts {
		if q.PostType != "" && p.Type != q.PostType || q.Status != "" && p.Status != q.Status {
			continue
		}
		if q.IncludeCategory > 0 && !m.hasCategory(p.ID, q.IncludeCategory) {
			continue
		}
		if q.ExcludeCategory > 0 && m.hasCategory(p.ID, q.ExcludeCategory) {
			continue
		}
		ok := true
		for _, term := range store.SearchTerms(q.Search) {
			if !strings.Contains(strings.ToLower(p.Title), strings.ToLower(term)) {
				ok = false
			}
		}
		if ok {
			matched = append(matched, p)
		}
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID > matched[j].ID })
	total := len(matched)
	if q.Offset >= total {
		return []*models.Post{}, total, nil
	}
	end := q.Offset + q.Limit
	if q.Limit <= 0 || end > total {
		end = total
	}
	return matched[q.Offset:end], total, nil
}

func (m *memStore) hasCategory(postID, catID int64) bool {
	for _, c := range m.postCats[postID] {
		if c == catID {
			return true
		}
	}
	return false
}

func (m *memStore) GetCategoriesForPosts(ctx context.Context, postIDs []int64) (map[int64][]*models.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := map[int64][]*models.Category{}
	for _, id := range postIDs {
		for _, c := range m.postCats[id] {
			out[id] = append(out[id], m.categories[c])
		}
	}
	return out, nil
}

func (m *memStore) SetPostCategories(ctx context.Context, postID int64, categoryIDs []int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.posts[postID]; !ok {
		return store.ErrNotFound
	}
	for _, c := range categoryIDs {
		if _, ok := m.categories[c]; !ok {
			return store.ErrForeignKeyViolation
		}
	}
	m.postCats[postID] = append([]int64(nil), categoryIDs...)
	return nil
}

func (m *memStore) Ping(ctx context.Context) error { return m.pingErr }

func (m *memStore) GetCategory(ctx context.Context, id int64) (*models.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.categories[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return c, nil
}

func (m *memStore) ListCategories(ctx context.Context) ([]*models.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.listErr != nil {
		return nil, m.listErr
	}
	out := make([]*models.Category, 0, len(m.categories))
	for _, c := range m.categories {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *memStore) GetUserByAPIKey(ctx context.Context, apiKey string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[apiKey]
	if !ok {
		return nil, store.ErrNotFound
	}
	return u, nil
}

func (m *memStore) GetUserByLogin(ctx context.Context, login string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Login == login {
			return u, nil
		}
	}
	return nil, store.ErrNotFound
}

func (m *memStore) Migrate(ctx context.Context) error { return nil }

func (m *memStore) Close() {}

var _ store.Store = (*memStore)(nil)
