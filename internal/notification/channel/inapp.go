package channel

import (
	"context"
	"encoding/json"
	"fmt"

	"jobs-srv/internal/model"
	"jobs-srv/internal/notification"
	"jobs-srv/pkg/log"
)

type implInApp struct {
	l     log.Logger
	store Store
	pub   Publisher
}

// NewInApp builds the in-app sender. It is the one channel that ignores
// preferences: every notification gets a stored copy.
func NewInApp(l log.Logger, store Store, pub Publisher) notification.Sender {
	return &implInApp{l: l, store: store, pub: pub}
}

func (s *implInApp) Channel() model.Channel { return model.ChannelInApp }

func (s *implInApp) Available(pref model.NotificationPreferences, n model.NotificationData) bool {
	return true
}

func (s *implInApp) Deliver(ctx context.Context, n model.NotificationData, pref model.NotificationPreferences) (string, error) {
	if err := s.store.SaveNotification(ctx, n); err != nil {
		return "", fmt.Errorf("save in-app notification: %w", err)
	}

	// The live push is best effort; the stored copy is the delivery.
	payload, err := json.Marshal(n)
	if err == nil {
		topic := fmt.Sprintf("notification:user:%s", n.UserID)
		if pubErr := s.pub.Publish(ctx, topic, payload); pubErr != nil {
			s.l.Warnf(ctx, "internal.notification.channel.in_app: publish %s: %v", n.ID, pubErr)
		}
	}

	return n.ID, nil
}
