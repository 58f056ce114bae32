package channel

import (
	"context"

	"jobs-srv/internal/model"
)

// Store persists the in-app copy of a notification.
type Store interface {
	SaveNotification(ctx context.Context, n model.NotificationData) error
}

// Publisher pushes the stored notification to live subscribers.
type Publisher interface {
	Publish(ctx context.Context, topic string, payload []byte) error
}

// EmailClient sends a rendered HTML message.
type EmailClient interface {
	Send(ctx context.Context, to, subject, htmlBody string) (string, error)
}

// PushPayload is the body handed to the push provider.
type PushPayload struct {
	Title              string         `json:"title"`
	Body               string         `json:"body"`
	Tag                string         `json:"tag,omitempty"`
	Data               map[string]any `json:"data,omitempty"`
	RequireInteraction bool           `json:"require_interaction"`
}

// PushClient delivers a payload to one device token.
type PushClient interface {
	Send(ctx context.Context, token string, payload PushPayload) (string, error)
}

// SMSClient sends a short text message.
type SMSClient interface {
	Send(ctx context.Context, phoneNumber, body string) (string, error)
}
