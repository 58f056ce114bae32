package model

import (
	"time"

	"github.com/aarondl/null/v8"
)

// Priority orders notifications and controls channel availability.
type Priority string

const (
	PriorityLow      Priority = "low"
	PriorityMedium   Priority = "medium"
	PriorityHigh     Priority = "high"
	PriorityCritical Priority = "critical"
)

// Channel identifies a delivery channel.
type Channel string

const (
	ChannelInApp   Channel = "in_app"
	ChannelEmail   Channel = "email"
	ChannelPush    Channel = "push"
	ChannelSMS     Channel = "sms"
	ChannelWebhook Channel = "webhook"
)

// NotificationData is one notification to deliver.
type NotificationData struct {
	ID          string         `json:"id"`
	Type        string         `json:"type"`
	Title       string         `json:"title"`
	Message     string         `json:"message"`
	UserID      string         `json:"user_id"`
	WorkspaceID null.String    `json:"workspace_id,omitempty"`
	Priority    Priority       `json:"priority"`
	Category    string         `json:"category"`
	ActionURL   null.String    `json:"action_url,omitempty"`
	ActionLabel null.String    `json:"action_label,omitempty"`
	Metadata    map[string]any `json:"metadata,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
}

// ChannelFlags records which channels a user has enabled.
type ChannelFlags struct {
	Email   bool `json:"email"`
	Push    bool `json:"push"`
	SMS     bool `json:"sms"`
	Webhook bool `json:"webhook"`
}

// QuietHours is a daily window during which non-critical notifications are
// deferred. Start and End are "HH:MM"; Start > End spans midnight.
type QuietHours struct {
	Enabled  bool   `json:"enabled"`
	Start    string `json:"start"`
	End      string `json:"end"`
	Timezone string `json:"timezone"`
}

// NotificationPreferences is the per-user delivery configuration.
// The SMS channel is only honored for critical priority regardless of the
// preference flag.
type NotificationPreferences struct {
	Channels    ChannelFlags `json:"channels"`
	QuietHours  *QuietHours  `json:"quiet_hours,omitempty"`
	Email       string       `json:"email,omitempty"`
	PhoneNumber string       `json:"phone_number,omitempty"`
	PushTokens  []string     `json:"push_tokens,omitempty"`
	WebhookURLs []string     `json:"webhook_urls,omitempty"`
}
