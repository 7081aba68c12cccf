package services

import (
	"context"
	"errors"
	"testing"

	"bulkcat/internal/models"
	"bulkcat/internal/store"

	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var (
	admin  = &models.User{ID: 1, Login: "admin", Role: models.RoleAdministrator}
	editor = &models.User{ID: 2, Login: "ed", Role: models.RoleEditor}
	target = &models.Category{ID: 5, Name: "Archive", Slug: "archive"}
)

func publishedPost(id int64, title string) *models.Post {
	return &models.Post{ID: id, Title: title, Type: models.PostTypePost, Status: models.PostStatusPublish, AuthorID: 99}
}

func newTestService(posts *mockPostStore, cats *mockCategoryStore, observers ...MoveObserver) *BulkMoveService {
	return NewBulkMoveService(BulkMoveDeps{
		PostStore:     posts,
		CategoryStore: cats,
		Observers:     observers,
	})
}

func requireMoveError(t *testing.T, err error, code string) *MoveError {
	t.Helper()
	var moveErr *MoveError
	require.True(t, errors.As(err, &moveErr), "expected *MoveError, got %v", err)
	assert.Equal(t, code, moveErr.Code)
	assert.NotEmpty(t, moveErr.Message)
	return moveErr
}

func TestExecute_ValidationOrder(t *testing.T) {
	ctx := context.Background()

	t.Run("no posts selected", func(t *testing.T) {
		posts, cats := new(mockPostStore), new(mockCategoryStore)
		res, err := newTestService(posts, cats).Execute(ctx, BulkMoveRequest{TargetCategoryID: 5}, admin)
		assert.Nil(t, res)
		requireMoveError(t, err, CodeNoPostsSelected)
		cats.AssertNotCalled(t, "GetCategory", mock.Anything, mock.Anything)
		posts.AssertNotCalled(t, "GetPost", mock.Anything, mock.Anything)
	})

	t.Run("non-positive category", func(t *testing.T) {
		posts, cats := new(mockPostStore), new(mockCategoryStore)
		_, err := newTestService(posts, cats).Execute(ctx, BulkMoveRequest{PostIDs: []int64{1}, TargetCategoryID: 0}, admin)
		requireMoveError(t, err, CodeInvalidCategory)
		cats.AssertNotCalled(t, "GetCategory", mock.Anything, mock.Anything)
	})

	t.Run("missing category", func(t *testing.T) {
		posts, cats := new(mockPostStore), new(mockCategoryStore)
		cats.On("GetCategory", mock.Anything, int64(77)).Return(nil, store.ErrNotFound).Once()
		_, err := newTestService(posts, cats).Execute(ctx, BulkMoveRequest{PostIDs: []int64{1}, TargetCategoryID: 77}, admin)
		moveErr := requireMoveError(t, err, CodeCategoryNotExists)
		assert.True(t, errors.Is(moveErr, store.ErrNotFound))
		posts.AssertNotCalled(t, "SetPostCategories", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("category lookup failure", func(t *testing.T) {
		posts, cats := new(mockPostStore), new(mockCategoryStore)
		cats.On("GetCategory", mock.Anything, int64(5)).Return(nil, errors.New("connection reset")).Once()
		_, err := newTestService(posts, cats).Execute(ctx, BulkMoveRequest{PostIDs: []int64{1}, TargetCategoryID: 5}, admin)
		requireMoveError(t, err, CodeCategoryInfoFailed)
	})

	t.Run("actor lacks manage capability", func(t *testing.T) {
		posts, cats := new(mockPostStore), new(mockCategoryStore)
		cats.On("GetCategory", mock.Anything, int64(5)).Return(target, nil)
		svc := newTestService(posts, cats)

		_, err := svc.Execute(ctx, BulkMoveRequest{PostIDs: []int64{1}, TargetCategoryID: 5}, editor)
		requireMoveError(t, err, CodeInsufficientPermissions)
		_, err = svc.Execute(ctx, BulkMoveRequest{PostIDs: []int64{1}, TargetCategoryID: 5}, nil)
		requireMoveError(t, err, CodeInsufficientPermissions)
		posts.AssertNotCalled(t, "GetPost", mock.Anything, mock.Anything)
	})
}

func TestExecute_PartialFailure(t *testing.T) {
	ctx := context.Background()
	posts, cats := new(mockPostStore), new(mockCategoryStore)
	cats.On("GetCategory", mock.Anything, int64(5)).Return(target, nil).Once()
	posts.On("GetPost", mock.Anything, int64(1)).Return(publishedPost(1, "One"), nil).Once()
	posts.On("GetPost", mock.Anything, int64(2)).Return(nil, store.ErrNotFound).Once()
	posts.On("GetPost", mock.Anything, int64(3)).Return(publishedPost(3, "Three"), nil).Once()
	posts.On("SetPostCategories", mock.Anything, int64(1), []int64{5}).Return(nil).Once()
	posts.On("SetPostCategories", mock.Anything, int64(3), []int64{5}).Return(nil).Once()

	var events []models.MoveEvent
	observer := MoveObserverFunc(func(ctx context.Context, e models.MoveEvent) error {
		events = append(events, e)
		return nil
	})

	res, err := newTestService(posts, cats, observer).Execute(ctx, BulkMoveRequest{PostIDs: []int64{1, 2, 3}, TargetCategoryID: 5}, admin)
	require.NoError(t, err)

	assert.Equal(t, 2, res.Succeeded)
	assert.Equal(t, 1, res.Failed)
	assert.Equal(t, 3, res.Total)
	assert.Equal(t, []FailedItem{{ID: 2, Title: "(no title)", Reason: ReasonNotFound}}, res.FailedItems)
	assert.True(t, res.Success())
	assert.Equal(t, "Successfully moved 2 post(s), 1 post(s) failed to move.", res.Message())
	assert.Equal(t, target, res.Target)
	assert.NotEmpty(t, res.BatchID)

	require.Len(t, events, 2)
	assert.Equal(t, int64(1), events[0].PostID)
	assert.Equal(t, int64(3), events[1].PostID)
	for _, e := range events {
		assert.Equal(t, int64(5), e.CategoryID)
		assert.Equal(t, admin.ID, e.ActorID)
		assert.Equal(t, res.BatchID, e.BatchID)
	}
	posts.AssertExpectations(t)
}

func TestExecute_FailureReasonsInPriorityOrder(t *testing.T) {
	ctx := context.Background()
	posts, cats := new(mockPostStore), new(mockCategoryStore)
	cats.On("GetCategory", mock.Anything, int64(5)).Return(target, nil)

	page := &models.Post{ID: 10, Title: "About", Type: "page", AuthorID: 2}
	notMine := publishedPost(11, "")
	broken := publishedPost(12, "Broken")
	author := &models.User{ID: 2, Login: "writer", Role: models.RoleAuthor}

	posts.On("GetPost", mock.Anything, int64(9)).Return(nil, store.ErrNotFound)
	posts.On("GetPost", mock.Anything, int64(10)).Return(page, nil)
	posts.On("GetPost", mock.Anything, int64(11)).Return(notMine, nil)
	posts.On("GetPost", mock.Anything, int64(12)).Return(broken, nil)
	posts.On("SetPostCategories", mock.Anything, int64(12), []int64{5}).Return(errors.New("disk full"))

	// an administrator still fails on a post the store refuses
	svc := newTestService(posts, cats)
	res, err := svc.Execute(ctx, BulkMoveRequest{PostIDs: []int64{9, 10, 12}, TargetCategoryID: 5}, admin)
	require.NoError(t, err)
	assert.Equal(t, []FailedItem{
		{ID: 9, Title: "(no title)", Reason: ReasonNotFound},
		{ID: 10, Title: "About", Reason: ReasonWrongType},
		{ID: 12, Title: "Broken", Reason: "disk full"},
	}, res.FailedItems)
	assert.False(t, res.Success())
	assert.Equal(t, "No posts were moved, please check permissions or try again.", res.Message())

	// per-item edit permission is checked after the type
	checker := &stubChecker{manage: true, edit: map[int64]bool{}}
	svc = NewBulkMoveService(BulkMoveDeps{PostStore: posts, CategoryStore: cats, Authorizer: checker})
	res, err = svc.Execute(ctx, BulkMoveRequest{PostIDs: []int64{11, 10}, TargetCategoryID: 5}, author)
	require.NoError(t, err)
	assert.Equal(t, []FailedItem{
		{ID: 11, Title: "(no title)", Reason: ReasonNoPermission},
		{ID: 10, Title: "About", Reason: ReasonWrongType},
	}, res.FailedItems)
	assert.Equal(t, res.Total, res.Succeeded+res.Failed)
}

func TestExecute_DuplicatesAreNotCollapsed(t *testing.T) {
	ctx := context.Background()
	posts, cats := new(mockPostStore), new(mockCategoryStore)
	cats.On("GetCategory", mock.Anything, int64(5)).Return(target, nil)
	posts.On("GetPost", mock.Anything, int64(1)).Return(publishedPost(1, "One"), nil).Twice()
	posts.On("SetPostCategories", mock.Anything, int64(1), []int64{5}).Return(nil).Twice()

	res, err := newTestService(posts, cats).Execute(ctx, BulkMoveRequest{PostIDs: []int64{1, 1}, TargetCategoryID: 5}, admin)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Total)
	assert.Equal(t, 2, res.Succeeded)
	assert.Equal(t, "Successfully moved 2 post(s).", res.Message())
	posts.AssertExpectations(t)
}

func TestExecute_ObserverErrorDoesNotFailItem(t *testing.T) {
	ctx := context.Background()
	posts, cats := new(mockPostStore), new(mockCategoryStore)
	jobs := new(mockJobClient)
	cats.On("GetCategory", mock.Anything, int64(5)).Return(target, nil)
	posts.On("GetPost", mock.Anything, int64(1)).Return(publishedPost(1, "One"), nil)
	posts.On("SetPostCategories", mock.Anything, int64(1), []int64{5}).Return(nil)
	jobs.On("EnqueuePostMoved", mock.Anything, mock.MatchedBy(func(e models.MoveEvent) bool {
		return e.PostID == 1 && e.CategoryID == 5
	})).Return(errors.New("redis down")).Once()

	svc := newTestService(posts, cats)
	svc.AddObserver(NewJobObserver(jobs))
	res, err := svc.Execute(ctx, BulkMoveRequest{PostIDs: []int64{1}, TargetCategoryID: 5}, admin)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Succeeded)
	assert.Empty(t, res.FailedItems)
	jobs.AssertExpectations(t)
}

func TestExecute_AuditLine(t *testing.T) {
	ctx := context.Background()
	posts, cats := new(mockPostStore), new(mockCategoryStore)
	cats.On("GetCategory", mock.Anything, int64(5)).Return(target, nil)
	posts.On("GetPost", mock.Anything, int64(1)).Return(publishedPost(1, "One"), nil)
	posts.On("GetPost", mock.Anything, int64(2)).Return(nil, store.ErrNotFound)
	posts.On("SetPostCategories", mock.Anything, int64(1), []int64{5}).Return(nil)

	logger, hook := logtest.NewNullLogger()
	svc := NewBulkMoveService(BulkMoveDeps{
		PostStore:     posts,
		CategoryStore: cats,
		Audit:         NewAuditLogger(logger),
	})
	_, err := svc.Execute(ctx, BulkMoveRequest{PostIDs: []int64{1, 2}, TargetCategoryID: 5}, admin)
	require.NoError(t, err)

	require.Len(t, hook.Entries, 1)
	entry := hook.LastEntry()
	assert.Equal(t, logrus.InfoLevel, entry.Level)
	assert.Equal(t, "[Bulk Move] User admin (ID: 1) performed bulk move: 1 succeeded, 1 failed, target category: Archive (ID: 5)", entry.Message)
	assert.Equal(t, 1, entry.Data["succeeded"])
	assert.Equal(t, 1, entry.Data["failed"])

	// validation failures write nothing
	hook.Reset()
	_, err = svc.Execute(ctx, BulkMoveRequest{TargetCategoryID: 5}, admin)
	require.Error(t, err)
	assert.Empty(t, hook.Entries)
}

type stubChecker struct {
	manage bool
	edit   map[int64]bool
}

func (s *stubChecker) CanManage(u *models.User) bool { return s.manage }

func (s *stubChecker) CanEditPost(u *models.User, p *models.Post) bool { return s.edit[p.ID] }
