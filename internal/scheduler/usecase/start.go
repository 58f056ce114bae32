package usecase

import (
	"context"
	"encoding/json"

	"jobs-srv/internal/analytics"
	"jobs-srv/internal/job"
	"jobs-srv/internal/queue"
	"jobs-srv/internal/scheduler"
)

// Recurring schedules, five-field cron.
const (
	cronAnalyticsHourly = "0 * * * *"
	cronAnalyticsDaily  = "0 2 * * *"
	cronAnalyticsWeekly = "0 3 * * 1"
	cronQueueCleanup    = "0 4 * * *"
	cronHealthCheck     = "*/15 * * * *"
	cronSentimentSweep  = "*/10 * * * *"
)

// The maintenance queue runs housekeeping jobs strictly one at a time.
const maintenanceConcurrency = 1

func (uc *implUseCase) Start(ctx context.Context) error {
	uc.mu.Lock()
	if uc.started {
		uc.mu.Unlock()
		return nil
	}
	uc.started = true
	uc.mu.Unlock()

	if err := uc.registerProcessors(); err != nil {
		return err
	}
	uc.createWorkers(ctx)
	uc.installRecurring(ctx)

	uc.l.Infof(ctx, "internal.scheduler.start: scheduler started")
	return nil
}

// registerProcessors binds every job kind to its processor. A binding
// failure is a wiring bug, not a degraded mode.
func (uc *implUseCase) registerProcessors() error {
	bindings := []struct {
		queue string
		kind  job.Kind
		fn    job.ProcessorFunc
	}{
		{job.QueuePosts, job.KindPublishPost, uc.processPublishPost},
		{job.QueuePosts, job.KindPublishBulk, uc.processPublishBulk},
		{job.QueueAnalytics, job.KindCollect, uc.processCollect},
		{job.QueueAnalytics, job.KindCollectCron, uc.processCollectCron},
		{job.QueueNotifications, job.KindDispatch, uc.processDispatch},
		{job.QueueNotifications, job.KindDispatchBulk, uc.processDispatchBulk},
		{job.QueueMedia, job.KindProcessMedia, uc.processMedia},
		{job.QueueMaintenance, job.KindQueueCleanup, uc.processCleanup},
		{job.QueueMaintenance, job.KindHealthCheck, uc.processHealthCheck},
		{job.QueueMaintenance, job.KindMonitorSentiment, uc.processSentimentSweep},
	}

	for _, b := range bindings {
		if err := uc.manager.RegisterProcessor(b.queue, b.kind, b.fn); err != nil {
			return job.NewInfrastructureError("register_processor_failed",
				string(b.kind)+" on "+b.queue, err)
		}
	}
	return nil
}

// createWorkers starts the per-queue worker pools. A failed queue is logged
// and skipped so the rest of the system still runs.
func (uc *implUseCase) createWorkers(ctx context.Context) {
	workers := []struct {
		queue       string
		concurrency int
	}{
		{job.QueuePosts, uc.cfg.PostConcurrency},
		{job.QueueAnalytics, uc.cfg.AnalyticsConcurrency},
		{job.QueueNotifications, uc.cfg.NotificationConcurrency},
		{job.QueueMedia, uc.cfg.MediaConcurrency},
		{job.QueueMaintenance, maintenanceConcurrency},
	}

	for _, w := range workers {
		if err := uc.manager.CreateWorker(w.queue, w.concurrency); err != nil {
			uc.l.Errorf(ctx, "internal.scheduler.start: create worker for %s: %v", w.queue, err)
			continue
		}
		uc.l.Infof(ctx, "internal.scheduler.start: queue %s running with concurrency %d", w.queue, w.concurrency)
	}
}

// installRecurring installs the cron-driven jobs. Failures are logged and
// skipped.
func (uc *implUseCase) installRecurring(ctx context.Context) {
	recurring := []struct {
		queue   string
		j       job.Job
		pattern string
	}{
		{job.QueueAnalytics, uc.recurringCollection("analytics_hourly", analytics.FrequencyHourly), cronAnalyticsHourly},
		{job.QueueAnalytics, uc.recurringCollection("analytics_daily", analytics.FrequencyDaily), cronAnalyticsDaily},
		{job.QueueAnalytics, uc.recurringCollection("analytics_weekly", analytics.FrequencyWeekly), cronAnalyticsWeekly},
		{job.QueueMaintenance, job.Job{ID: "queue_cleanup", Kind: job.KindQueueCleanup}, cronQueueCleanup},
		{job.QueueMaintenance, job.Job{ID: "health_check", Kind: job.KindHealthCheck}, cronHealthCheck},
		{job.QueueMaintenance, job.Job{ID: "sentiment_sweep", Kind: job.KindMonitorSentiment}, cronSentimentSweep},
	}

	for _, r := range recurring {
		_, err := uc.manager.AddJob(ctx, r.queue, r.j, queue.Options{
			Repeat:           &queue.RepeatOptions{Pattern: r.pattern},
			RemoveOnComplete: true,
		})
		if err != nil {
			uc.l.Errorf(ctx, "internal.scheduler.start: install %s (%s): %v", r.j.ID, r.pattern, err)
		}
	}
}

func (uc *implUseCase) recurringCollection(id string, freq analytics.Frequency) job.Job {
	payload, _ := json.Marshal(scheduler.RecurringCollection{Frequency: freq})
	return job.Job{ID: id, Kind: job.KindCollectCron, Payload: payload}
}
