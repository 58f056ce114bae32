package job

import (
	"context"
	"encoding/json"
	"time"
)

// Kind is the closed set of job types the engine dispatches on. Processors
// are registered per (queue, kind); an unknown kind is a wiring bug, not a
// runtime branch.
type Kind string

const (
	KindPublishPost      Kind = "publish_post"
	KindPublishBulk      Kind = "publish_bulk"
	KindCollect          Kind = "collect_analytics"
	KindCollectCron      Kind = "collect_analytics_scheduled"
	KindDispatch         Kind = "dispatch_notification"
	KindDispatchBulk     Kind = "dispatch_bulk"
	KindProcessMedia     Kind = "process_media"
	KindQueueCleanup     Kind = "queue_cleanup"
	KindHealthCheck      Kind = "health_check"
	KindMonitorSentiment Kind = "monitor_sentiment"
)

// Queue names.
const (
	QueuePosts         = "post-scheduling"
	QueueAnalytics     = "analytics-collection"
	QueueNotifications = "notification-dispatch"
	QueueMedia         = "media-processing"
	QueueMaintenance   = "maintenance"
)

// Job is one unit of asynchronous work. Immutable after submission except
// for queue-internal retry bookkeeping.
type Job struct {
	ID           string          `json:"id"`
	Kind         Kind            `json:"kind"`
	Payload      json.RawMessage `json:"payload"`
	UserID       string          `json:"user_id,omitempty"`
	WorkspaceID  string          `json:"workspace_id,omitempty"`
	Priority     int             `json:"priority"`
	CreatedAt    time.Time       `json:"created_at"`
	ScheduledFor time.Time       `json:"scheduled_for,omitempty"`

	// AttemptsMade is set by the queue before each processor invocation.
	AttemptsMade int `json:"attempts_made"`
	MaxAttempts  int `json:"max_attempts"`
}

// ProcessorFunc performs the work for one job kind. It always returns a
// Result; a non-nil error marks the whole invocation failed and consumes an
// attempt, except for gate rejections which reschedule without cost.
type ProcessorFunc func(ctx context.Context, j Job) (Result, error)

// ProgressFunc reports bulk progress as a percentage in [0,100].
type ProgressFunc func(pct float64)
