package queue

import "errors"

var (
	ErrQueueNotFound      = errors.New("queue not found")
	ErrJobNotFound        = errors.New("job not found")
	ErrNoProcessor        = errors.New("queue has no registered processor")
	ErrProcessorConflict  = errors.New("a different processor is already registered for this kind")
	ErrWorkerExists       = errors.New("queue already has a worker")
	ErrInvalidConcurrency = errors.New("concurrency must be positive")
	ErrInvalidCron        = errors.New("invalid cron pattern")
	ErrJobNotFailed       = errors.New("job is not in failed state")
	ErrShuttingDown       = errors.New("queue manager is shutting down")
)
