package channel

import (
	"context"
	"fmt"
	"time"

	"jobs-srv/internal/model"
	"jobs-srv/internal/notification"
	"jobs-srv/pkg/log"
	"jobs-srv/pkg/webhook"
)

type implWebhook struct {
	l      log.Logger
	sender webhook.Sender
}

func NewWebhook(l log.Logger, sender webhook.Sender) notification.Sender {
	return &implWebhook{l: l, sender: sender}
}

func (s *implWebhook) Channel() model.Channel { return model.ChannelWebhook }

func (s *implWebhook) Available(pref model.NotificationPreferences, n model.NotificationData) bool {
	return pref.Channels.Webhook && len(pref.WebhookURLs) > 0
}

// Deliver posts to every configured endpoint. Endpoints are isolated from
// each other; one reachable endpoint counts as delivered.
func (s *implWebhook) Deliver(ctx context.Context, n model.NotificationData, pref model.NotificationPreferences) (string, error) {
	opts := webhook.MessageOptions{
		Type:        messageTypeFor(n.Priority),
		Title:       n.Title,
		Description: n.Message,
		Timestamp:   n.CreatedAt,
		Fields: []webhook.EmbedField{
			{Name: "Priority", Value: string(n.Priority), Inline: true},
			{Name: "Category", Value: n.Category, Inline: true},
		},
		Footer: &webhook.EmbedFooter{Text: fmt.Sprintf("Notification %s", n.ID)},
	}
	if opts.Timestamp.IsZero() {
		opts.Timestamp = time.Now()
	}
	if n.ActionURL.Valid {
		opts.Fields = append(opts.Fields, webhook.EmbedField{Name: "Link", Value: n.ActionURL.String})
	}

	var lastErr error
	delivered := 0
	for _, url := range pref.WebhookURLs {
		if err := s.sender.SendEmbed(ctx, url, opts); err != nil {
			s.l.Warnf(ctx, "internal.notification.channel.webhook: endpoint failed for %s: %v", n.ID, err)
			lastErr = err
			continue
		}
		delivered++
	}

	if delivered == 0 {
		return "", fmt.Errorf("webhook for %s reached no endpoint: %w", n.ID, lastErr)
	}
	return fmt.Sprintf("%s:%d", n.ID, delivered), nil
}

func messageTypeFor(p model.Priority) webhook.MessageType {
	switch p {
	case model.PriorityCritical:
		return webhook.MessageTypeError
	case model.PriorityHigh:
		return webhook.MessageTypeWarning
	default:
		return webhook.MessageTypeInfo
	}
}
