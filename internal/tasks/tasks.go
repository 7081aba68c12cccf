package tasks

// Defines constants for task types used in Asynq.

const (
	// TypePostCategoryMoved is emitted after a post's category set was replaced.
	TypePostCategoryMoved = "post:category_moved"
)

// DefaultEventQueue receives move events when no queue is configured.
const DefaultEventQueue = "events"
