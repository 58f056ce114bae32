package channel

import (
	"context"
	"fmt"

	"jobs-srv/internal/model"
	"jobs-srv/internal/notification"
	"jobs-srv/pkg/log"
)

type implPush struct {
	l      log.Logger
	client PushClient
}

func NewPush(l log.Logger, client PushClient) notification.Sender {
	return &implPush{l: l, client: client}
}

func (s *implPush) Channel() model.Channel { return model.ChannelPush }

func (s *implPush) Available(pref model.NotificationPreferences, n model.NotificationData) bool {
	return pref.Channels.Push && len(pref.PushTokens) > 0
}

// Deliver fans out to every registered device. One reachable device counts
// as delivered; dead tokens are logged and skipped.
func (s *implPush) Deliver(ctx context.Context, n model.NotificationData, pref model.NotificationPreferences) (string, error) {
	payload := PushPayload{
		Title: n.Title,
		Body:  n.Message,
		Tag:   n.ID,
		Data: map[string]any{
			"notification_id": n.ID,
			"type":            n.Type,
			"category":        n.Category,
		},
		// Critical alerts stay on screen until acknowledged.
		RequireInteraction: n.Priority == model.PriorityCritical,
	}
	if n.ActionURL.Valid {
		payload.Data["action_url"] = n.ActionURL.String
	}

	var firstID string
	var lastErr error
	delivered := 0
	for _, token := range pref.PushTokens {
		msgID, err := s.client.Send(ctx, token, payload)
		if err != nil {
			s.l.Warnf(ctx, "internal.notification.channel.push: token delivery failed for %s: %v", n.ID, err)
			lastErr = err
			continue
		}
		if firstID == "" {
			firstID = msgID
		}
		delivered++
	}

	if delivered == 0 {
		return "", fmt.Errorf("push for %s reached no device: %w", n.ID, lastErr)
	}
	return firstID, nil
}
