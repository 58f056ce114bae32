package channel

import (
	"context"
	"errors"
	"strings"
	"testing"

	"jobs-srv/internal/model"
	"jobs-srv/pkg/log"

	"github.com/aarondl/null/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memStore struct {
	saved []model.NotificationData
	err   error
}

func (s *memStore) SaveNotification(ctx context.Context, n model.NotificationData) error {
	if s.err != nil {
		return s.err
	}
	s.saved = append(s.saved, n)
	return nil
}

type memPublisher struct {
	topics []string
	err    error
}

func (p *memPublisher) Publish(ctx context.Context, topic string, payload []byte) error {
	if p.err != nil {
		return p.err
	}
	p.topics = append(p.topics, topic)
	return nil
}

type stubEmail struct {
	to, subject, body string
	err               error
}

func (c *stubEmail) Send(ctx context.Context, to, subject, htmlBody string) (string, error) {
	if c.err != nil {
		return "", c.err
	}
	c.to, c.subject, c.body = to, subject, htmlBody
	return "email-1", nil
}

type stubPush struct {
	payloads map[string]PushPayload
	failFor  map[string]bool
}

func (c *stubPush) Send(ctx context.Context, token string, payload PushPayload) (string, error) {
	if c.failFor[token] {
		return "", errors.New("token expired")
	}
	if c.payloads == nil {
		c.payloads = make(map[string]PushPayload)
	}
	c.payloads[token] = payload
	return "push-" + token, nil
}

type stubSMS struct {
	to, body string
}

func (c *stubSMS) Send(ctx context.Context, phoneNumber, body string) (string, error) {
	c.to, c.body = phoneNumber, body
	return "sms-1", nil
}

func sampleNotification() model.NotificationData {
	return model.NotificationData{
		ID:       "n1",
		Type:     "milestone_reached",
		Title:    "Milestone reached",
		Message:  "Your account passed 10000 followers",
		UserID:   "user-1",
		Priority: model.PriorityHigh,
		Category: "analytics",
	}
}

func TestInAppDeliver(t *testing.T) {
	store := &memStore{}
	pub := &memPublisher{}
	s := NewInApp(log.NewNoop(), store, pub)

	assert.True(t, s.Available(model.NotificationPreferences{}, sampleNotification()))

	id, err := s.Deliver(context.Background(), sampleNotification(), model.NotificationPreferences{})
	require.NoError(t, err)
	assert.Equal(t, "n1", id)
	require.Len(t, store.saved, 1)
	assert.Equal(t, []string{"notification:user:user-1"}, pub.topics)

	t.Run("publish failure is tolerated", func(t *testing.T) {
		s := NewInApp(log.NewNoop(), &memStore{}, &memPublisher{err: errors.New("redis down")})
		_, err := s.Deliver(context.Background(), sampleNotification(), model.NotificationPreferences{})
		assert.NoError(t, err)
	})

	t.Run("store failure fails the channel", func(t *testing.T) {
		s := NewInApp(log.NewNoop(), &memStore{err: errors.New("db down")}, &memPublisher{})
		_, err := s.Deliver(context.Background(), sampleNotification(), model.NotificationPreferences{})
		assert.Error(t, err)
	})
}

func TestEmailSender(t *testing.T) {
	client := &stubEmail{}
	s := NewEmail(log.NewNoop(), client)

	pref := model.NotificationPreferences{
		Channels: model.ChannelFlags{Email: true},
		Email:    "u@example.com",
	}

	t.Run("availability needs flag and address", func(t *testing.T) {
		assert.True(t, s.Available(pref, sampleNotification()))
		assert.False(t, s.Available(model.NotificationPreferences{Channels: model.ChannelFlags{Email: true}}, sampleNotification()))
		assert.False(t, s.Available(model.NotificationPreferences{Email: "u@example.com"}, sampleNotification()))
	})

	n := sampleNotification()
	n.ActionURL = null.StringFrom("https://app.example.com/analytics")
	n.Metadata = map[string]any{"followers": 10000}

	id, err := s.Deliver(context.Background(), n, pref)
	require.NoError(t, err)
	assert.Equal(t, "email-1", id)
	assert.Equal(t, "u@example.com", client.to)
	assert.Equal(t, "Milestone reached", client.subject)
	assert.Contains(t, client.body, "https://app.example.com/analytics")
	assert.Contains(t, client.body, "followers")
	assert.Contains(t, client.body, "10000")

	t.Run("critical subject is flagged urgent", func(t *testing.T) {
		crit := sampleNotification()
		crit.Priority = model.PriorityCritical
		_, err := s.Deliver(context.Background(), crit, pref)
		require.NoError(t, err)
		assert.Equal(t, "[URGENT] Milestone reached", client.subject)
	})
}

func TestPushSender(t *testing.T) {
	pref := model.NotificationPreferences{
		Channels:   model.ChannelFlags{Push: true},
		PushTokens: []string{"tok-a", "tok-b"},
	}

	t.Run("critical requires interaction", func(t *testing.T) {
		client := &stubPush{}
		s := NewPush(log.NewNoop(), client)

		crit := sampleNotification()
		crit.Priority = model.PriorityCritical
		_, err := s.Deliver(context.Background(), crit, pref)
		require.NoError(t, err)
		assert.True(t, client.payloads["tok-a"].RequireInteraction)

		norm := sampleNotification()
		_, err = s.Deliver(context.Background(), norm, pref)
		require.NoError(t, err)
		assert.False(t, client.payloads["tok-b"].RequireInteraction)
	})

	t.Run("one live token is enough", func(t *testing.T) {
		client := &stubPush{failFor: map[string]bool{"tok-a": true}}
		s := NewPush(log.NewNoop(), client)

		id, err := s.Deliver(context.Background(), sampleNotification(), pref)
		require.NoError(t, err)
		assert.Equal(t, "push-tok-b", id)
	})

	t.Run("all tokens dead fails the channel", func(t *testing.T) {
		client := &stubPush{failFor: map[string]bool{"tok-a": true, "tok-b": true}}
		s := NewPush(log.NewNoop(), client)

		_, err := s.Deliver(context.Background(), sampleNotification(), pref)
		assert.Error(t, err)
	})
}

func TestSMSSender(t *testing.T) {
	client := &stubSMS{}
	s := NewSMS(log.NewNoop(), client)

	pref := model.NotificationPreferences{
		Channels:    model.ChannelFlags{SMS: true},
		PhoneNumber: "+15550001111",
	}

	t.Run("only critical notifications qualify", func(t *testing.T) {
		crit := sampleNotification()
		crit.Priority = model.PriorityCritical
		assert.True(t, s.Available(pref, crit))
		assert.False(t, s.Available(pref, sampleNotification()))

		noFlag := pref
		noFlag.Channels.SMS = false
		assert.False(t, s.Available(noFlag, crit))
	})

	t.Run("long messages are truncated to one segment", func(t *testing.T) {
		crit := sampleNotification()
		crit.Priority = model.PriorityCritical
		crit.Message = strings.Repeat("negative sentiment spike ", 20)

		_, err := s.Deliver(context.Background(), crit, pref)
		require.NoError(t, err)
		assert.Equal(t, "+15550001111", client.to)
		assert.LessOrEqual(t, len(client.body), 160)
		assert.True(t, strings.HasSuffix(client.body, "..."))
	})
}
