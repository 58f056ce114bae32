package channel

import (
	"context"
	"errors"
	"testing"

	"jobs-srv/internal/model"
	"jobs-srv/pkg/log"
	"jobs-srv/pkg/webhook"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubWebhookSender struct {
	sent    []string
	failFor map[string]bool
}

func (s *stubWebhookSender) Send(ctx context.Context, url, content string) error {
	return nil
}

func (s *stubWebhookSender) SendEmbed(ctx context.Context, url string, opts webhook.MessageOptions) error {
	if s.failFor[url] {
		return errors.New("endpoint unreachable")
	}
	s.sent = append(s.sent, url)
	return nil
}

func (s *stubWebhookSender) Close() error { return nil }

func TestWebhookSender(t *testing.T) {
	pref := model.NotificationPreferences{
		Channels:    model.ChannelFlags{Webhook: true},
		WebhookURLs: []string{"https://hooks.example.com/a", "https://hooks.example.com/b"},
	}

	t.Run("posts to every endpoint", func(t *testing.T) {
		stub := &stubWebhookSender{}
		s := NewWebhook(log.NewNoop(), stub)

		require.True(t, s.Available(pref, sampleNotification()))
		_, err := s.Deliver(context.Background(), sampleNotification(), pref)
		require.NoError(t, err)
		assert.Equal(t, pref.WebhookURLs, stub.sent)
	})

	t.Run("one reachable endpoint counts as delivered", func(t *testing.T) {
		stub := &stubWebhookSender{failFor: map[string]bool{"https://hooks.example.com/a": true}}
		s := NewWebhook(log.NewNoop(), stub)

		_, err := s.Deliver(context.Background(), sampleNotification(), pref)
		require.NoError(t, err)
		assert.Equal(t, []string{"https://hooks.example.com/b"}, stub.sent)
	})

	t.Run("all endpoints down fails the channel", func(t *testing.T) {
		stub := &stubWebhookSender{failFor: map[string]bool{
			"https://hooks.example.com/a": true,
			"https://hooks.example.com/b": true,
		}}
		s := NewWebhook(log.NewNoop(), stub)

		_, err := s.Deliver(context.Background(), sampleNotification(), pref)
		assert.Error(t, err)
	})

	t.Run("disabled preference makes the channel unavailable", func(t *testing.T) {
		s := NewWebhook(log.NewNoop(), &stubWebhookSender{})
		assert.False(t, s.Available(model.NotificationPreferences{WebhookURLs: pref.WebhookURLs}, sampleNotification()))
	})
}
