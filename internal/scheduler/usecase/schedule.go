package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"jobs-srv/internal/job"
	"jobs-srv/internal/media"
	"jobs-srv/internal/model"
	"jobs-srv/internal/publish"
	"jobs-srv/internal/queue"
	"jobs-srv/internal/scheduler"
)

// Attempt budgets per job family.
const (
	postAttempts         = 3
	bulkPostAttempts     = 2
	analyticsAttempts    = 3
	notificationAttempts = 3
	mediaAttempts        = 2
)

// Bulk publishes yield to single scheduled posts.
const bulkPostPriority = -5

func (uc *implUseCase) SchedulePost(ctx context.Context, input publish.PostInput) (string, error) {
	payload, err := json.Marshal(input)
	if err != nil {
		return "", err
	}

	return uc.manager.AddJob(ctx, job.QueuePosts, job.Job{
		ID:           fmt.Sprintf("post_%s", input.PostID),
		Kind:         job.KindPublishPost,
		Payload:      payload,
		UserID:       input.UserID,
		WorkspaceID:  input.WorkspaceID,
		ScheduledFor: input.ScheduledFor,
	}, queue.Options{
		Delay:    uc.delayUntil(input.ScheduledFor),
		Attempts: postAttempts,
	})
}

func (uc *implUseCase) ScheduleBulkPosts(ctx context.Context, input publish.BulkInput) (string, error) {
	payload, err := json.Marshal(input)
	if err != nil {
		return "", err
	}

	return uc.manager.AddJob(ctx, job.QueuePosts, job.Job{
		ID:          fmt.Sprintf("bulk_%s", input.BatchID),
		Kind:        job.KindPublishBulk,
		Payload:     payload,
		UserID:      input.UserID,
		WorkspaceID: input.WorkspaceID,
	}, queue.Options{
		Priority: bulkPostPriority,
		Attempts: bulkPostAttempts,
	})
}

func (uc *implUseCase) ScheduleAnalyticsCollection(ctx context.Context, input scheduler.AnalyticsInput) (string, error) {
	payload, err := json.Marshal(input.Collect)
	if err != nil {
		return "", err
	}

	return uc.manager.AddJob(ctx, job.QueueAnalytics, job.Job{
		ID:          fmt.Sprintf("analytics_%s_%d", input.Collect.UserID, uc.clk.Now().UnixMilli()),
		Kind:        job.KindCollect,
		Payload:     payload,
		UserID:      input.Collect.UserID,
		WorkspaceID: input.Collect.WorkspaceID,
	}, queue.Options{
		Priority: input.Priority,
		Attempts: analyticsAttempts,
	})
}

func (uc *implUseCase) ScheduleNotification(ctx context.Context, input scheduler.NotificationInput) (string, error) {
	if input.Notification.ID == "" {
		input.Notification.ID = uuid.NewString()
	}
	payload, err := json.Marshal(input)
	if err != nil {
		return "", err
	}

	return uc.manager.AddJob(ctx, job.QueueNotifications, job.Job{
		ID:           fmt.Sprintf("notification_%s", input.Notification.ID),
		Kind:         job.KindDispatch,
		Payload:      payload,
		UserID:       input.Notification.UserID,
		WorkspaceID:  input.Notification.WorkspaceID.String,
		ScheduledFor: input.ScheduledFor,
	}, queue.Options{
		Delay:    uc.delayUntil(input.ScheduledFor),
		Attempts: notificationAttempts,
	})
}

func (uc *implUseCase) ScheduleMediaProcessing(ctx context.Context, input media.ProcessInput) (string, error) {
	payload, err := json.Marshal(input)
	if err != nil {
		return "", err
	}

	return uc.manager.AddJob(ctx, job.QueueMedia, job.Job{
		ID:      fmt.Sprintf("media_%s", input.AssetID),
		Kind:    job.KindProcessMedia,
		Payload: payload,
		UserID:  input.UserID,
	}, queue.Options{
		Attempts: mediaAttempts,
	})
}

// Notify schedules an immediate dispatch for a notification produced by a
// processor.
func (uc *implUseCase) Notify(ctx context.Context, n model.NotificationData) error {
	if n.CreatedAt.IsZero() {
		n.CreatedAt = uc.clk.Now()
	}
	_, err := uc.ScheduleNotification(ctx, scheduler.NotificationInput{Notification: n})
	return err
}

func (uc *implUseCase) CancelJob(queueName, jobID string) error {
	return uc.manager.RemoveJob(queueName, jobID)
}

func (uc *implUseCase) RetryJob(queueName, jobID string) error {
	return uc.manager.RetryJob(queueName, jobID)
}

func (uc *implUseCase) GetJobStats(ctx context.Context) (map[string]queue.Stats, error) {
	return uc.manager.GetAllQueueStats(), nil
}

func (uc *implUseCase) Shutdown(ctx context.Context) error {
	if _, ok := ctx.Deadline(); !ok && uc.cfg.ShutdownTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, uc.cfg.ShutdownTimeout)
		defer cancel()
	}
	return uc.manager.Shutdown(ctx)
}

// delayUntil converts an absolute schedule time to a queue delay. Past or
// zero times run immediately.
func (uc *implUseCase) delayUntil(at time.Time) time.Duration {
	if at.IsZero() {
		return 0
	}
	if d := at.Sub(uc.clk.Now()); d > 0 {
		return d
	}
	return 0
}
