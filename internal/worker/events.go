// Package worker holds the asynq task handlers run by `bulkcat worker`.
package worker

import (
	"context"
	"encoding/json"
	"fmt"

	"bulkcat/internal/models"
	"bulkcat/internal/tasks"

	"github.com/hibiken/asynq"
	log "github.com/sirupsen/logrus"
)

// RegisterHandlers attaches every event handler to mux.
func RegisterHandlers(mux *asynq.ServeMux, logger log.FieldLogger) {
	mux.HandleFunc(tasks.TypePostCategoryMoved, HandlePostMoved(logger))
}

// HandlePostMoved consumes post-moved events. Listeners outside this process
// hook in here; the default reaction is one structured log line per event.
func HandlePostMoved(logger log.FieldLogger) asynq.HandlerFunc {
	if logger == nil {
		logger = log.StandardLogger()
	}
	return func(ctx context.Context, t *asynq.Task) error {
		var event models.MoveEvent
		if err := json.Unmarshal(t.Payload(), &event); err != nil {
			return fmt.Errorf("decode %s payload: %v: %w", t.Type(), err, asynq.SkipRetry)
		}
		if event.PostID <= 0 || event.CategoryID <= 0 {
			return fmt.Errorf("invalid %s payload (post_id=%d, category_id=%d): %w",
				t.Type(), event.PostID, event.CategoryID, asynq.SkipRetry)
		}

		logger.WithFields(log.Fields{
			"batch_id":    event.BatchID,
			"post_id":     event.PostID,
			"category_id": event.CategoryID,
			"actor_id":    event.ActorID,
			"moved_at":    event.MovedAt,
		}).Info("Post category moved")
		return nil
	}
}
