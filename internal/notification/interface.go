package notification

import (
	"context"

	"jobs-srv/internal/model"
)

// UseCase dispatches notifications across every channel the recipient has
// enabled.
type UseCase interface {
	Dispatch(ctx context.Context, input DispatchInput) (DispatchOutput, error)
	DispatchBulk(ctx context.Context, input BulkInput) (BulkOutput, error)
}

// PreferenceSource loads delivery preferences for a user. A NotFound-style
// error is not fatal; dispatch falls back to in-app only.
type PreferenceSource interface {
	GetPreferences(ctx context.Context, userID string) (model.NotificationPreferences, error)
}

// Sender delivers a notification over one channel. Implementations must be
// safe for concurrent use.
type Sender interface {
	Channel() model.Channel
	// Available reports whether this channel applies to the given recipient
	// and notification. Unavailable channels are skipped silently.
	Available(pref model.NotificationPreferences, n model.NotificationData) bool
	// Deliver performs the delivery and returns a channel-specific message id.
	Deliver(ctx context.Context, n model.NotificationData, pref model.NotificationPreferences) (string, error)
}
