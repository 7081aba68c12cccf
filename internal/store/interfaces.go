package store

import (
	"context"

	"bulkcat/internal/models"

	"github.com/hibiken/asynq"
)

// --- Job Client ---

type JobClient interface {
	// Enqueue includes related entity info for recording purposes
	Enqueue(ctx context.Context, task *asynq.Task, relatedEntityType string, relatedEntityID int64, opts ...asynq.Option) (*asynq.TaskInfo, error)
	EnqueuePostMoved(ctx context.Context, event models.MoveEvent) error
	Close() error
}

// --- Post Store ---

// PostQuery is the storage-level form of the filter view. Zero values disable a filter.
type PostQuery struct {
	IncludeCategory int64
	ExcludeCategory int64
	Search          string
	PostType        string
	Status          string
	Limit           int
	Offset          int
}

type PostStore interface {
	GetPost(ctx context.Context, id int64) (*models.Post, error)
	// ListPosts returns one page of matching posts, newest first, and the total match count.
	ListPosts(ctx context.Context, q PostQuery) ([]*models.Post, int, error)
	GetCategoriesForPosts(ctx context.Context, postIDs []int64) (map[int64][]*models.Category, error)
	// SetPostCategories replaces the post's category set with categoryIDs.
	SetPostCategories(ctx context.Context, postID int64, categoryIDs []int64) error

	Ping(ctx context.Context) error
}

// --- Category Store ---

type CategoryStore interface {
	GetCategory(ctx context.Context, id int64) (*models.Category, error)
	ListCategories(ctx context.Context) ([]*models.Category, error)
}

// --- User Store ---

type UserStore interface {
	GetUserByAPIKey(ctx context.Context, apiKey string) (*models.User, error)
	GetUserByLogin(ctx context.Context, login string) (*models.User, error)
}

// Store is the full content store: everything one backend provides.
type Store interface {
	PostStore
	CategoryStore
	UserStore

	Migrate(ctx context.Context) error
	Close()
}
