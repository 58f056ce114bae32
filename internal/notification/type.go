package notification

import (
	"time"

	"jobs-srv/internal/model"
)

// DispatchInput is one notification to deliver. A future ScheduledFor defers
// the dispatch until that time. A non-empty Channels list restricts delivery
// to those channels; Preferences, when set, replaces the stored preferences
// for this dispatch only.
type DispatchInput struct {
	Notification model.NotificationData
	ScheduledFor time.Time
	Channels     []model.Channel
	Preferences  *model.NotificationPreferences
}

// ChannelResult is the outcome of one channel attempt.
type ChannelResult struct {
	Channel   model.Channel `json:"channel"`
	Success   bool          `json:"success"`
	MessageID string        `json:"message_id,omitempty"`
	Err       error         `json:"-"`
}

// DispatchOutput summarizes a completed dispatch. Delivered is true when at
// least one channel succeeded.
type DispatchOutput struct {
	NotificationID string
	Delivered      bool
	Results        []ChannelResult
	DispatchedAt   time.Time
}

// BulkInput carries a batch of notifications dispatched sequentially. A
// non-empty Channels list applies to every item in the batch.
type BulkInput struct {
	BatchID       string
	Notifications []model.NotificationData
	Channels      []model.Channel
}

// BulkItemResult is the per-notification outcome within a batch. A deferred
// item was gated (quiet hours) rather than failed; ResumeAt says when it can
// be dispatched.
type BulkItemResult struct {
	NotificationID string
	Delivered      bool
	Deferred       bool
	ResumeAt       time.Time
	Err            error
}

// BulkOutput summarizes a batch dispatch.
type BulkOutput struct {
	BatchID   string
	Total     int
	Delivered int
	Deferred  int
	Failed    int
	Results   []BulkItemResult
}
