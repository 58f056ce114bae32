package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"jobs-srv/internal/analytics"
	"jobs-srv/internal/job"
	"jobs-srv/internal/media"
	"jobs-srv/internal/notification"
	"jobs-srv/internal/publish"
	"jobs-srv/internal/scheduler"
)

// finish stamps timing metrics on the result and mirrors err into it. Gate
// rejections and typed errors pass through unchanged so the queue can react
// to their kind.
func (uc *implUseCase) finish(start time.Time, data map[string]any, err error) (job.Result, error) {
	now := uc.clk.Now()
	res := job.Result{
		Success: err == nil,
		Data:    data,
		Metrics: job.Metrics{Duration: now.Sub(start), Timestamp: now},
	}
	if err != nil {
		var jerr *job.Error
		if errors.As(err, &jerr) {
			res.Err = jerr
		} else {
			res.Err = job.NewJobError("processor_failed", err.Error(), err)
		}
	}
	return res, err
}

func (uc *implUseCase) badPayload(start time.Time, j job.Job, err error) (job.Result, error) {
	return uc.finish(start, nil, job.NewJobError("bad_payload",
		fmt.Sprintf("job %s (%s): undecodable payload", j.ID, j.Kind), err))
}

func (uc *implUseCase) processPublishPost(ctx context.Context, j job.Job) (job.Result, error) {
	start := uc.clk.Now()

	var input publish.PostInput
	if err := json.Unmarshal(j.Payload, &input); err != nil {
		return uc.badPayload(start, j, err)
	}

	out, err := uc.procs.Publish.PublishPost(ctx, input)
	return uc.finish(start, map[string]any{
		"post_id":   out.PostID,
		"succeeded": out.Succeeded,
		"failed":    out.Failed,
	}, err)
}

func (uc *implUseCase) processPublishBulk(ctx context.Context, j job.Job) (job.Result, error) {
	start := uc.clk.Now()

	var input publish.BulkInput
	if err := json.Unmarshal(j.Payload, &input); err != nil {
		return uc.badPayload(start, j, err)
	}

	progress := func(pct float64) {
		uc.l.Debugf(ctx, "internal.scheduler.processor: bulk %s progress %.0f%%", input.BatchID, pct)
	}

	out, err := uc.procs.Publish.PublishBulk(ctx, input, progress)
	return uc.finish(start, map[string]any{
		"batch_id":         out.BatchID,
		"total_posts":      out.TotalPosts,
		"successful_posts": out.SuccessfulPosts,
		"failed_posts":     out.FailedPosts,
	}, err)
}

func (uc *implUseCase) processCollect(ctx context.Context, j job.Job) (job.Result, error) {
	start := uc.clk.Now()

	var input analytics.CollectInput
	if err := json.Unmarshal(j.Payload, &input); err != nil {
		return uc.badPayload(start, j, err)
	}

	out, err := uc.procs.Analytics.Collect(ctx, input)
	return uc.finish(start, map[string]any{
		"total_metrics":       out.TotalMetrics,
		"successful_accounts": out.SuccessfulAccounts,
		"failed_accounts":     out.FailedAccounts,
	}, err)
}

func (uc *implUseCase) processCollectCron(ctx context.Context, j job.Job) (job.Result, error) {
	start := uc.clk.Now()

	var rc scheduler.RecurringCollection
	if err := json.Unmarshal(j.Payload, &rc); err != nil {
		return uc.badPayload(start, j, err)
	}

	if uc.directory == nil {
		uc.l.Warnf(ctx, "internal.scheduler.processor: %s collection fired without a directory", rc.Frequency)
		return uc.finish(start, map[string]any{"workspaces": 0}, nil)
	}

	inputs, err := uc.directory.ListScheduledCollections(ctx, rc.Frequency)
	if err != nil {
		return uc.finish(start, nil, job.NewJobError("directory_unavailable",
			fmt.Sprintf("list %s collections", rc.Frequency), err))
	}

	failed := 0
	for _, input := range inputs {
		if _, err := uc.procs.Analytics.CollectScheduled(ctx, input); err != nil {
			failed++
			uc.l.Errorf(ctx, "internal.scheduler.processor: %s collection for user %s: %v", rc.Frequency, input.UserID, err)
		}
	}

	data := map[string]any{
		"frequency":  string(rc.Frequency),
		"workspaces": len(inputs),
		"failed":     failed,
	}
	if failed > 0 && failed == len(inputs) {
		return uc.finish(start, data, job.NewJobError("all_collections_failed",
			fmt.Sprintf("%s collection failed for every workspace", rc.Frequency), nil))
	}
	return uc.finish(start, data, nil)
}

func (uc *implUseCase) processDispatch(ctx context.Context, j job.Job) (job.Result, error) {
	start := uc.clk.Now()

	var input scheduler.NotificationInput
	if err := json.Unmarshal(j.Payload, &input); err != nil {
		return uc.badPayload(start, j, err)
	}

	out, err := uc.procs.Notification.Dispatch(ctx, notification.DispatchInput{
		Notification: input.Notification,
		ScheduledFor: input.ScheduledFor,
		Channels:     input.Channels,
		Preferences:  input.Preferences,
	})

	channels := make([]string, 0, len(out.Results))
	for _, r := range out.Results {
		if r.Success {
			channels = append(channels, string(r.Channel))
		}
	}
	return uc.finish(start, map[string]any{
		"notification_id": out.NotificationID,
		"delivered":       out.Delivered,
		"channels":        channels,
	}, err)
}

func (uc *implUseCase) processDispatchBulk(ctx context.Context, j job.Job) (job.Result, error) {
	start := uc.clk.Now()

	var input notification.BulkInput
	if err := json.Unmarshal(j.Payload, &input); err != nil {
		return uc.badPayload(start, j, err)
	}

	out, err := uc.procs.Notification.DispatchBulk(ctx, input)

	// Gated items come back deferred; re-enqueue each as its own delayed
	// dispatch so it fires when its quiet window ends.
	for i, item := range out.Results {
		if !item.Deferred || i >= len(input.Notifications) {
			continue
		}
		if _, rerr := uc.ScheduleNotification(ctx, scheduler.NotificationInput{
			Notification: input.Notifications[i],
			ScheduledFor: item.ResumeAt,
			Channels:     input.Channels,
		}); rerr != nil {
			uc.l.Errorf(ctx, "internal.scheduler.processor: reschedule deferred notification %s: %v", item.NotificationID, rerr)
		}
	}

	return uc.finish(start, map[string]any{
		"batch_id":  out.BatchID,
		"total":     out.Total,
		"delivered": out.Delivered,
		"deferred":  out.Deferred,
		"failed":    out.Failed,
	}, err)
}

func (uc *implUseCase) processMedia(ctx context.Context, j job.Job) (job.Result, error) {
	start := uc.clk.Now()

	var input media.ProcessInput
	if err := json.Unmarshal(j.Payload, &input); err != nil {
		return uc.badPayload(start, j, err)
	}

	out, err := uc.procs.Media.Process(ctx, input)
	return uc.finish(start, map[string]any{
		"asset_id":  out.AssetID,
		"succeeded": out.Succeeded,
		"failed":    out.Failed,
	}, err)
}

func (uc *implUseCase) processCleanup(ctx context.Context, j job.Job) (job.Result, error) {
	start := uc.clk.Now()

	removed := uc.manager.CleanStale(uc.cfg.StaleJobAge)
	uc.l.Infof(ctx, "internal.scheduler.processor: cleanup removed %d stale job records", removed)

	return uc.finish(start, map[string]any{"removed": removed}, nil)
}

func (uc *implUseCase) processHealthCheck(ctx context.Context, j job.Job) (job.Result, error) {
	start := uc.clk.Now()

	stats := uc.manager.GetAllQueueStats()
	for name, s := range stats {
		uc.l.Infof(ctx, "internal.scheduler.processor: health %s waiting=%d active=%d completed=%d failed=%d",
			name, s.Waiting, s.Active, s.Completed, s.Failed)
	}

	return uc.finish(start, map[string]any{"queues": len(stats)}, nil)
}

func (uc *implUseCase) processSentimentSweep(ctx context.Context, j job.Job) (job.Result, error) {
	start := uc.clk.Now()

	if uc.directory == nil {
		return uc.finish(start, map[string]any{"workspaces": 0}, nil)
	}

	workspaces, err := uc.directory.ListMonitoredWorkspaces(ctx)
	if err != nil {
		return uc.finish(start, nil, job.NewJobError("directory_unavailable", "list monitored workspaces", err))
	}

	alerts, failed := 0, 0
	for _, ws := range workspaces {
		raised, err := uc.procs.Sentiment.MonitorWorkspace(ctx, ws)
		if err != nil {
			failed++
			uc.l.Errorf(ctx, "internal.scheduler.processor: monitor workspace %s: %v", ws.WorkspaceID, err)
			continue
		}
		alerts += len(raised)

		if err := uc.procs.Sentiment.UpdateSentimentTrends(ctx, ws.WorkspaceID); err != nil {
			failed++
			uc.l.Errorf(ctx, "internal.scheduler.processor: update trends for %s: %v", ws.WorkspaceID, err)
		}
	}

	data := map[string]any{
		"workspaces": len(workspaces),
		"alerts":     alerts,
		"failed":     failed,
	}
	if failed > 0 && failed >= len(workspaces) && len(workspaces) > 0 {
		return uc.finish(start, data, job.NewJobError("all_workspaces_failed", "sentiment sweep failed everywhere", nil))
	}
	return uc.finish(start, data, nil)
}
