package scheduler

import (
	"context"

	"jobs-srv/internal/analytics"
	"jobs-srv/internal/media"
	"jobs-srv/internal/model"
	"jobs-srv/internal/publish"
	"jobs-srv/internal/queue"
	"jobs-srv/internal/sentiment"
)

// UseCase is the orchestration surface of the worker: it owns the queues,
// wires processors to them and turns platform requests into jobs.
type UseCase interface {
	// Start registers all processors, creates workers per the configured
	// concurrency table and installs the recurring jobs. Idempotent; per-queue
	// worker failures are logged and startup continues degraded.
	Start(ctx context.Context) error

	// SchedulePost enqueues one post for publishing at its scheduled time.
	SchedulePost(ctx context.Context, input publish.PostInput) (string, error)
	// ScheduleBulkPosts enqueues a batch of posts as one low-priority job.
	ScheduleBulkPosts(ctx context.Context, input publish.BulkInput) (string, error)
	// ScheduleAnalyticsCollection enqueues an on-demand metrics collection.
	ScheduleAnalyticsCollection(ctx context.Context, input AnalyticsInput) (string, error)
	// ScheduleNotification enqueues one notification dispatch, deferred when
	// the input carries a future ScheduledFor.
	ScheduleNotification(ctx context.Context, input NotificationInput) (string, error)
	// ScheduleMediaProcessing enqueues rendition derivation for one asset.
	ScheduleMediaProcessing(ctx context.Context, input media.ProcessInput) (string, error)

	// Notify schedules an immediate notification dispatch. Processors use this
	// so they never talk to queues directly.
	Notify(ctx context.Context, n model.NotificationData) error

	CancelJob(queueName, jobID string) error
	RetryJob(queueName, jobID string) error
	GetJobStats(ctx context.Context) (map[string]queue.Stats, error)

	// Shutdown stops intake and recurring schedules, then drains in-flight
	// jobs until ctx expires.
	Shutdown(ctx context.Context) error
}

// Directory lists what the recurring jobs should operate on. Backed by the
// platform's account and workspace registry.
type Directory interface {
	// ListScheduledCollections returns one collection input per workspace
	// enrolled at the given frequency.
	ListScheduledCollections(ctx context.Context, freq analytics.Frequency) ([]analytics.ScheduledInput, error)
	// ListMonitoredWorkspaces returns the workspaces with sentiment monitoring
	// enabled.
	ListMonitoredWorkspaces(ctx context.Context) ([]sentiment.MonitorInput, error)
}
