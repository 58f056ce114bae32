package channel

import (
	"context"
	"fmt"

	"jobs-srv/internal/model"
	"jobs-srv/internal/notification"
	"jobs-srv/pkg/log"
)

// smsMaxLength keeps the message within a single segment.
const smsMaxLength = 160

type implSMS struct {
	l      log.Logger
	client SMSClient
}

func NewSMS(l log.Logger, client SMSClient) notification.Sender {
	return &implSMS{l: l, client: client}
}

func (s *implSMS) Channel() model.Channel { return model.ChannelSMS }

// Available requires both the preference flag and critical priority. SMS is
// reserved for emergencies regardless of what the user enabled.
func (s *implSMS) Available(pref model.NotificationPreferences, n model.NotificationData) bool {
	return pref.Channels.SMS && pref.PhoneNumber != "" && n.Priority == model.PriorityCritical
}

func (s *implSMS) Deliver(ctx context.Context, n model.NotificationData, pref model.NotificationPreferences) (string, error) {
	body := fmt.Sprintf("%s: %s", n.Title, n.Message)
	if len(body) > smsMaxLength {
		body = body[:smsMaxLength-3] + "..."
	}
	return s.client.Send(ctx, pref.PhoneNumber, body)
}
