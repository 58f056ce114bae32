package queue

import "time"

// State is the lifecycle position of a job inside its queue.
type State string

const (
	StateWaiting   State = "waiting"
	StateDelayed   State = "delayed"
	StateActive    State = "active"
	StateCompleted State = "completed"
	StateFailed    State = "failed"
	StateCancelled State = "cancelled"
)

// Terminal reports whether the state is final.
func (s State) Terminal() bool {
	return s == StateCompleted || s == StateFailed || s == StateCancelled
}

// RepeatOptions installs a recurring schedule using five-field cron syntax.
type RepeatOptions struct {
	Pattern string
}

// Options controls how a job is enqueued.
type Options struct {
	// Delay defers first execution. Zero or negative runs immediately.
	Delay time.Duration
	// Priority orders waiting jobs; higher runs first.
	Priority int
	// Attempts is the total execution budget including the first run.
	// Zero means one attempt.
	Attempts int
	// Repeat installs a recurring definition instead of a single execution.
	Repeat *RepeatOptions
	// RemoveOnComplete drops the job record as soon as it completes.
	RemoveOnComplete bool
	// RemoveOnFail drops the job record as soon as it exhausts attempts.
	RemoveOnFail bool
}

// Stats is a per-queue snapshot. Completed and Failed are monotonic counters
// that survive record retention cleanup, so queue-depth conservation holds.
type Stats struct {
	Waiting   int `json:"waiting"`
	Active    int `json:"active"`
	Completed int `json:"completed"`
	Failed    int `json:"failed"`
}
