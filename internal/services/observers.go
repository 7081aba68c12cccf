package services

import (
	"context"

	"bulkcat/internal/models"
	"bulkcat/internal/store"

	log "github.com/sirupsen/logrus"
)

// MoveObserver is notified after each post whose category set was replaced.
type MoveObserver interface {
	PostMoved(ctx context.Context, event models.MoveEvent) error
}

// MoveObserverFunc adapts a plain function to MoveObserver.
type MoveObserverFunc func(ctx context.Context, event models.MoveEvent) error

func (f MoveObserverFunc) PostMoved(ctx context.Context, event models.MoveEvent) error {
	return f(ctx, event)
}

// JobObserver publishes move events to the job queue for external listeners.
type JobObserver struct {
	jobs store.JobClient
}

func NewJobObserver(jobs store.JobClient) *JobObserver {
	return &JobObserver{jobs: jobs}
}

func (o *JobObserver) PostMoved(ctx context.Context, event models.MoveEvent) error {
	return o.jobs.EnqueuePostMoved(ctx, event)
}

// LogObserver writes one debug line per moved post.
type LogObserver struct {
	logger log.FieldLogger
}

func NewLogObserver(logger log.FieldLogger) *LogObserver {
	if logger == nil {
		logger = log.StandardLogger()
	}
	return &LogObserver{logger: logger}
}

func (o *LogObserver) PostMoved(ctx context.Context, event models.MoveEvent) error {
	o.logger.WithFields(log.Fields{
		"batch_id":    event.BatchID,
		"post_id":     event.PostID,
		"category_id": event.CategoryID,
		"actor_id":    event.ActorID,
	}).Debug("Post category moved")
	return nil
}
