package scheduler

import (
	"time"

	"jobs-srv/internal/analytics"
	"jobs-srv/internal/model"
)

// AnalyticsInput is an on-demand collection request. Priority is passed
// through to the queue; callers raise it for user-facing refreshes.
type AnalyticsInput struct {
	Collect  analytics.CollectInput `json:"collect"`
	Priority int                    `json:"priority"`
}

// NotificationInput is one notification dispatch request. It doubles as the
// job payload for the notification-dispatch queue. Channels restricts
// delivery to the listed channels; Preferences, when set, overrides the
// recipient's stored preferences for this dispatch.
type NotificationInput struct {
	Notification model.NotificationData         `json:"notification"`
	ScheduledFor time.Time                      `json:"scheduled_for,omitempty"`
	Channels     []model.Channel                `json:"channels,omitempty"`
	Preferences  *model.NotificationPreferences `json:"preferences,omitempty"`
}

// RecurringCollection is the payload of the cron-installed analytics jobs.
// The processor expands it through the Directory at execution time, so
// enrollment changes take effect without reinstalling the schedule.
type RecurringCollection struct {
	Frequency analytics.Frequency `json:"frequency"`
}
