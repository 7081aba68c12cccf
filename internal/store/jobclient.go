package store

import (
	"context"
	"encoding/json"
	"fmt"

	"bulkcat/internal/models"
	"bulkcat/internal/tasks"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	log "github.com/sirupsen/logrus"
)

// AsynqJobClient enqueues move events for external listeners.
type AsynqJobClient struct {
	client *asynq.Client
	queue  string
}

// RedisOptions mirrors the redis section of the config.
type RedisOptions struct {
	Address  string
	Password string
	DB       int
}

func NewAsynqJobClient(opts RedisOptions, queue string) (*AsynqJobClient, error) {
	if opts.Address == "" {
		return nil, fmt.Errorf("redis address cannot be empty for AsynqJobClient")
	}
	if queue == "" {
		queue = tasks.DefaultEventQueue
	}
	cli := asynq.NewClient(asynq.RedisClientOpt{
		Addr:     opts.Address,
		Password: opts.Password,
		DB:       opts.DB,
	})
	return &AsynqJobClient{client: cli, queue: queue}, nil
}

func (jc *AsynqJobClient) Close() error {
	return jc.client.Close()
}

// Enqueue enqueues a task and logs the related entity it concerns.
func (jc *AsynqJobClient) Enqueue(ctx context.Context, task *asynq.Task, relatedEntityType string, relatedEntityID int64, opts ...asynq.Option) (*asynq.TaskInfo, error) {
	if jc.client == nil {
		return nil, fmt.Errorf("AsynqJobClient internal client is not initialized")
	}
	info, err := jc.client.EnqueueContext(ctx, task, opts...)
	if err != nil {
		return nil, err
	}

	entry := log.WithFields(log.Fields{
		"task_type":   task.Type(),
		"queue":       info.Queue,
		"entity_type": relatedEntityType,
		"entity_id":   relatedEntityID,
	})
	// asynq ids are uuids unless a custom TaskID option was given
	if _, err := uuid.Parse(info.ID); err != nil {
		entry.Warnf("Enqueued task with non-uuid id %q", info.ID)
	} else {
		entry.WithField("task_id", info.ID).Debug("Enqueued task")
	}
	return info, nil
}

func (jc *AsynqJobClient) EnqueuePostMoved(ctx context.Context, event models.MoveEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode move event for post %d: %w", event.PostID, err)
	}
	task := asynq.NewTask(tasks.TypePostCategoryMoved, payload)
	_, err = jc.Enqueue(ctx, task, "post", event.PostID, asynq.Queue(jc.queue), asynq.MaxRetry(3))
	if err != nil {
		return fmt.Errorf("enqueue move event for post %d: %w", event.PostID, err)
	}
	return nil
}

var _ JobClient = (*AsynqJobClient)(nil)
