package job

import "time"

// Metrics describes one processor or target invocation.
type Metrics struct {
	Duration  time.Duration `json:"duration"`
	Timestamp time.Time     `json:"timestamp"`
}

// Result is always produced by a processor invocation, success or failure.
// It is never panicked across the processor boundary.
type Result struct {
	Success bool           `json:"success"`
	Data    map[string]any `json:"data,omitempty"`
	Err     *Error         `json:"error,omitempty"`
	Metrics Metrics        `json:"metrics"`
}
