package services

import (
	"context"

	"bulkcat/internal/models"
	"bulkcat/internal/store"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/mock"
)

type mockPostStore struct {
	mock.Mock
}

func (m *mockPostStore) GetPost(ctx context.Context, id int64) (*models.Post, error) {
	args := m.Called(ctx, id)
	post, _ := args.Get(0).(*models.Post)
	return post, args.Error(1)
}

func (m *mockPostStore) ListPosts(ctx context.Context, q store.PostQuery) ([]*models.Post, int, error) {
	args := m.Called(ctx, q)
	posts, _ := args.Get(0).([]*models.Post)
	return posts, args.Int(1), args.Error(2)
}

func (m *mockPostStore) GetCategoriesForPosts(ctx context.Context, postIDs []int64) (map[int64][]*models.Category, error) {
	args := m.Called(ctx, postIDs)
	cats, _ := args.Get(0).(map[int64][]*models.Category)
	return cats, args.Error(1)
}

func (m *mockPostStore) SetPostCategories(ctx context.Context, postID int64, categoryIDs []int64) error {
	args := m.Called(ctx, postID, categoryIDs)
	return args.Error(0)
}

func (m *mockPostStore) Ping(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

type mockCategoryStore struct {
	mock.Mock
}

func (m *mockCategoryStore) GetCategory(ctx context.Context, id int64) (*models.Category, error) {
	args := m.Called(ctx, id)
	cat, _ := args.Get(0).(*models.Category)
	return cat, args.Error(1)
}

func (m *mockCategoryStore) ListCategories(ctx context.Context) ([]*models.Category, error) {
	args := m.Called(ctx)
	cats, _ := args.Get(0).([]*models.Category)
	return cats, args.Error(1)
}

type mockJobClient struct {
	mock.Mock
}

func (m *mockJobClient) Enqueue(ctx context.Context, task *asynq.Task, relatedEntityType string, relatedEntityID int64, opts ...asynq.Option) (*asynq.TaskInfo, error) {
	args := m.Called(ctx, task, relatedEntityType, relatedEntityID, opts)
	info, _ := args.Get(0).(*asynq.TaskInfo)
	return info, args.Error(1)
}

func (m *mockJobClient) EnqueuePostMoved(ctx context.Context, event models.MoveEvent) error {
	return m.Called(ctx, event).Error(0)
}

func (m *mockJobClient) Close() error {
	return m.Called().Error(0)
}

var (
	_ store.PostStore     = (*mockPostStore)(nil)
	_ store.CategoryStore = (*mockCategoryStore)(nil)
	_ store.JobClient     = (*mockJobClient)(nil)
)
