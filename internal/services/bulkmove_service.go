package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"bulkcat/internal/authz"
	"bulkcat/internal/models"
	"bulkcat/internal/store"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// Request-level failure codes, shared with the HTTP layer.
const (
	CodeNonceFailed             = "nonce_failed"
	CodeInsufficientPermissions = "insufficient_permissions"
	CodeNoPostsSelected         = "no_posts_selected"
	CodeInvalidCategory         = "invalid_category"
	CodeCategoryNotExists       = "category_not_exists"
	CodeCategoryInfoFailed      = "category_info_failed"
	CodeMoveFailed              = "move_failed"
)

// Per-item failure reasons, in the order they are checked.
const (
	ReasonNotFound     = "item does not exist"
	ReasonWrongType    = "item is not a standard post"
	ReasonNoPermission = "no permission to edit this item"
)

const untitled = "(no title)"

// MoveError is a request-level validation failure: no post was touched.
type MoveError struct {
	Code    string
	Message string
	Err     error
}

func (e *MoveError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *MoveError) Unwrap() error { return e.Err }

func newMoveError(code, msg string, err error) *MoveError {
	return &MoveError{Code: code, Message: msg, Err: err}
}

type BulkMoveRequest struct {
	PostIDs          []int64
	TargetCategoryID int64
}

type FailedItem struct {
	ID     int64  `json:"id"`
	Title  string `json:"title"`
	Reason string `json:"reason"`
}

type BulkMoveResult struct {
	BatchID     string
	Target      *models.Category
	Succeeded   int
	Failed      int
	Total       int
	FailedItems []FailedItem
}

// Success reports overall success: at least one post was moved.
func (r *BulkMoveResult) Success() bool {
	return r.Succeeded > 0
}

// Message is the human-readable summary shown to the operator.
func (r *BulkMoveResult) Message() string {
	switch {
	case r.Succeeded == 0:
		return "No posts were moved, please check permissions or try again."
	case r.Failed == 0:
		return fmt.Sprintf("Successfully moved %d post(s).", r.Succeeded)
	default:
		return fmt.Sprintf("Successfully moved %d post(s), %d post(s) failed to move.", r.Succeeded, r.Failed)
	}
}

type BulkMoveDeps struct {
	PostStore     store.PostStore
	CategoryStore store.CategoryStore
	Authorizer    authz.Checker
	Observers     []MoveObserver
	Audit         *AuditLogger // nil disables audit lines
}

// BulkMoveService reassigns many posts to one category, one post at a time.
type BulkMoveService struct {
	posts      store.PostStore
	categories store.CategoryStore
	authorizer authz.Checker
	observers  []MoveObserver
	audit      *AuditLogger
	now        func() time.Time
}

func NewBulkMoveService(deps BulkMoveDeps) *BulkMoveService {
	authorizer := deps.Authorizer
	if authorizer == nil {
		authorizer = authz.NewRoleChecker()
	}
	return &BulkMoveService{
		posts:      deps.PostStore,
		categories: deps.CategoryStore,
		authorizer: authorizer,
		observers:  deps.Observers,
		audit:      deps.Audit,
		now:        time.Now,
	}
}

// AddObserver registers o to be notified after every successful move.
func (s *BulkMoveService) AddObserver(o MoveObserver) {
	s.observers = append(s.observers, o)
}

// Execute validates the request, then moves each post independently.
// A *MoveError means nothing was attempted; otherwise the result describes
// every item, and failures on individual posts never stop the batch.
func (s *BulkMoveService) Execute(ctx context.Context, req BulkMoveRequest, actor *models.User) (*BulkMoveResult, error) {
	if len(req.PostIDs) == 0 {
		return nil, newMoveError(CodeNoPostsSelected, "Please select at least one post.", nil)
	}
	if req.TargetCategoryID <= 0 {
		return nil, newMoveError(CodeInvalidCategory, "Please select a valid target category.", nil)
	}
	target, err := s.categories.GetCategory(ctx, req.TargetCategoryID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, newMoveError(CodeCategoryNotExists, "The selected category does not exist, please choose another one.", err)
		}
		return nil, newMoveError(CodeCategoryInfoFailed, "Unable to load the category, please try again.", err)
	}
	if !s.authorizer.CanManage(actor) {
		return nil, newMoveError(CodeInsufficientPermissions, "Insufficient permissions: only site administrators can perform this operation.", nil)
	}

	result := &BulkMoveResult{
		BatchID:     uuid.NewString(),
		Target:      target,
		Total:       len(req.PostIDs),
		FailedItems: []FailedItem{},
	}
	for _, postID := range req.PostIDs {
		post, reason := s.moveOne(ctx, postID, target.ID, actor)
		if reason == "" {
			result.Succeeded++
			s.notify(ctx, models.MoveEvent{
				BatchID:    result.BatchID,
				PostID:     postID,
				CategoryID: target.ID,
				ActorID:    actor.ID,
				MovedAt:    s.now().UTC(),
			})
			continue
		}
		title := untitled
		if post != nil && post.Title != "" {
			title = post.Title
		}
		result.FailedItems = append(result.FailedItems, FailedItem{ID: postID, Title: title, Reason: reason})
	}
	result.Failed = len(result.FailedItems)

	if s.audit != nil {
		s.audit.RecordBulkMove(actor, result)
	}
	return result, nil
}

// moveOne returns the loaded post (if any) and an empty reason on success.
func (s *BulkMoveService) moveOne(ctx context.Context, postID, categoryID int64, actor *models.User) (*models.Post, string) {
	post, err := s.posts.GetPost(ctx, postID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ReasonNotFound
		}
		return nil, err.Error()
	}
	if post.Type != models.PostTypePost {
		return post, ReasonWrongType
	}
	if !s.authorizer.CanEditPost(actor, post) {
		return post, ReasonNoPermission
	}
	if err := s.posts.SetPostCategories(ctx, postID, []int64{categoryID}); err != nil {
		return post, err.Error()
	}
	return post, ""
}

func (s *BulkMoveService) notify(ctx context.Context, event models.MoveEvent) {
	for _, o := range s.observers {
		if err := o.PostMoved(ctx, event); err != nil {
			log.WithFields(log.Fields{
				"post_id":  event.PostID,
				"batch_id": event.BatchID,
			}).Warnf("Move observer failed: %v", err)
		}
	}
}
