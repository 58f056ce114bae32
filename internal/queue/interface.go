package queue

import (
	"context"
	"time"

	"jobs-srv/internal/job"
)

// Manager owns named queues, their processors and their workers. One logical
// queue exists per name; jobs across queues run in parallel, jobs within a
// queue are bounded by the worker concurrency.
type Manager interface {
	// RegisterProcessor registers fn for a job kind on a queue. Registering
	// the same function twice is a no-op; registering a different function
	// for an already-bound kind is an error.
	RegisterProcessor(queueName string, kind job.Kind, fn job.ProcessorFunc) error

	// CreateWorker starts concurrency goroutines pulling jobs from the queue.
	// Fails if the queue has no registered processor.
	CreateWorker(queueName string, concurrency int) error

	// AddJob enqueues a job. Deterministic job IDs collapse duplicate
	// enqueues while the job is pending or running. A Repeat option installs
	// a recurring definition instead of a single execution.
	AddJob(ctx context.Context, queueName string, j job.Job, opts Options) (string, error)

	// RemoveJob cancels a pending job or repeat definition. Best-effort: a
	// job already executing or finished is left alone without error.
	RemoveJob(queueName, jobID string) error

	// RetryJob re-enqueues a failed job for immediate execution with a fresh
	// attempt budget.
	RetryJob(queueName, jobID string) error

	// JobState reports the current state of a job.
	JobState(queueName, jobID string) (State, error)

	// GetAllQueueStats returns per-queue job counts.
	GetAllQueueStats() map[string]Stats

	// CleanStale drops terminal job records older than maxAge and returns how
	// many were removed.
	CleanStale(maxAge time.Duration) int

	// Shutdown stops intake and recurring schedules, then waits for in-flight
	// jobs to drain until ctx expires.
	Shutdown(ctx context.Context) error
}
