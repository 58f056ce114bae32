package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"jobs-srv/internal/job"
	"jobs-srv/internal/model"
	"jobs-srv/internal/notification"
	"jobs-srv/pkg/clock"
	"jobs-srv/pkg/log"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubPrefs struct {
	prefs map[string]model.NotificationPreferences
	err   error
}

func (s *stubPrefs) GetPreferences(ctx context.Context, userID string) (model.NotificationPreferences, error) {
	if s.err != nil {
		return model.NotificationPreferences{}, s.err
	}
	return s.prefs[userID], nil
}

type stubSender struct {
	channel   model.Channel
	available func(pref model.NotificationPreferences, n model.NotificationData) bool
	err       error
	delivered []string
}

func (s *stubSender) Channel() model.Channel { return s.channel }

func (s *stubSender) Available(pref model.NotificationPreferences, n model.NotificationData) bool {
	if s.available == nil {
		return true
	}
	return s.available(pref, n)
}

func (s *stubSender) Deliver(ctx context.Context, n model.NotificationData, pref model.NotificationPreferences) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	s.delivered = append(s.delivered, n.ID)
	return "msg-" + n.ID, nil
}

func testNotification(id string, priority model.Priority) model.NotificationData {
	return model.NotificationData{
		ID:       id,
		Type:     "post_published",
		Title:    "Post published",
		Message:  "Your post went live",
		UserID:   "user-1",
		Priority: priority,
		Category: "publishing",
	}
}

func TestDispatchDelivers(t *testing.T) {
	clk := clock.NewMockClock(time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC))
	inApp := &stubSender{channel: model.ChannelInApp}
	email := &stubSender{
		channel:   model.ChannelEmail,
		available: func(p model.NotificationPreferences, n model.NotificationData) bool { return p.Channels.Email },
	}

	prefs := &stubPrefs{prefs: map[string]model.NotificationPreferences{
		"user-1": {Channels: model.ChannelFlags{Email: true}, Email: "u@example.com"},
	}}
	uc := New(log.NewNoop(), clk, prefs, []notification.Sender{inApp, email})

	out, err := uc.Dispatch(context.Background(), notification.DispatchInput{
		Notification: testNotification("n1", model.PriorityMedium),
	})
	require.NoError(t, err)

	assert.True(t, out.Delivered)
	assert.Len(t, out.Results, 2)
	assert.Equal(t, []string{"n1"}, inApp.delivered)
	assert.Equal(t, []string{"n1"}, email.delivered)
}

func TestDispatchFutureScheduleIsGated(t *testing.T) {
	clk := clock.NewMockClock(time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC))
	inApp := &stubSender{channel: model.ChannelInApp}
	uc := New(log.NewNoop(), clk, &stubPrefs{}, []notification.Sender{inApp})

	scheduled := clk.Now().Add(2 * time.Hour)
	_, err := uc.Dispatch(context.Background(), notification.DispatchInput{
		Notification: testNotification("n1", model.PriorityMedium),
		ScheduledFor: scheduled,
	})

	gate, ok := job.AsGateRejection(err)
	require.True(t, ok)
	assert.Equal(t, "scheduled_future", gate.Code)
	assert.True(t, gate.RetryAt.Equal(scheduled))
	assert.Empty(t, inApp.delivered)
}

func TestDispatchChannelFailureIsIsolated(t *testing.T) {
	clk := clock.NewMockClock(time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC))
	inApp := &stubSender{channel: model.ChannelInApp}
	email := &stubSender{channel: model.ChannelEmail, err: errors.New("smtp down")}

	uc := New(log.NewNoop(), clk, &stubPrefs{}, []notification.Sender{inApp, email})

	out, err := uc.Dispatch(context.Background(), notification.DispatchInput{
		Notification: testNotification("n1", model.PriorityMedium),
	})
	require.NoError(t, err)
	assert.True(t, out.Delivered)

	byChannel := map[model.Channel]bool{}
	for _, r := range out.Results {
		byChannel[r.Channel] = r.Success
	}
	assert.True(t, byChannel[model.ChannelInApp])
	assert.False(t, byChannel[model.ChannelEmail])
}

func TestDispatchAllChannelsFailed(t *testing.T) {
	clk := clock.NewMockClock(time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC))
	inApp := &stubSender{channel: model.ChannelInApp, err: errors.New("store down")}
	uc := New(log.NewNoop(), clk, &stubPrefs{}, []notification.Sender{inApp})

	out, err := uc.Dispatch(context.Background(), notification.DispatchInput{
		Notification: testNotification("n1", model.PriorityMedium),
	})

	require.Error(t, err)
	assert.False(t, out.Delivered)
	var jerr *job.Error
	require.ErrorAs(t, err, &jerr)
	assert.Equal(t, job.KindJobError, jerr.Kind)
}

func TestDispatchPreferenceFailureFallsBackToInApp(t *testing.T) {
	clk := clock.NewMockClock(time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC))
	inApp := &stubSender{channel: model.ChannelInApp}
	email := &stubSender{
		channel:   model.ChannelEmail,
		available: func(p model.NotificationPreferences, n model.NotificationData) bool { return p.Channels.Email },
	}
	uc := New(log.NewNoop(), clk, &stubPrefs{err: errors.New("db down")}, []notification.Sender{inApp, email})

	out, err := uc.Dispatch(context.Background(), notification.DispatchInput{
		Notification: testNotification("n1", model.PriorityMedium),
	})
	require.NoError(t, err)

	assert.True(t, out.Delivered)
	assert.Len(t, out.Results, 1)
	assert.Equal(t, model.ChannelInApp, out.Results[0].Channel)
}

func TestDispatchMissingRecipient(t *testing.T) {
	clk := clock.NewMockClock(time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC))
	uc := New(log.NewNoop(), clk, &stubPrefs{}, nil)

	n := testNotification("n1", model.PriorityMedium)
	n.UserID = ""
	_, err := uc.Dispatch(context.Background(), notification.DispatchInput{Notification: n})
	assert.ErrorIs(t, err, notification.ErrNoRecipient)
}

func TestQuietHoursGate(t *testing.T) {
	// Quiet 22:00-07:00 UTC, evaluated at 23:30.
	prefs := &stubPrefs{prefs: map[string]model.NotificationPreferences{
		"user-1": {QuietHours: &model.QuietHours{
			Enabled:  true,
			Start:    "22:00",
			End:      "07:00",
			Timezone: "UTC",
		}},
	}}

	t.Run("medium priority is deferred to the window end", func(t *testing.T) {
		clk := clock.NewMockClock(time.Date(2026, 3, 10, 23, 30, 0, 0, time.UTC))
		inApp := &stubSender{channel: model.ChannelInApp}
		uc := New(log.NewNoop(), clk, prefs, []notification.Sender{inApp})

		_, err := uc.Dispatch(context.Background(), notification.DispatchInput{
			Notification: testNotification("n1", model.PriorityMedium),
		})

		gate, ok := job.AsGateRejection(err)
		require.True(t, ok)
		assert.Equal(t, "quiet_hours", gate.Code)
		assert.Equal(t, time.Date(2026, 3, 11, 7, 0, 0, 0, time.UTC), gate.RetryAt)
		assert.Empty(t, inApp.delivered)
	})

	t.Run("critical priority bypasses quiet hours", func(t *testing.T) {
		clk := clock.NewMockClock(time.Date(2026, 3, 10, 23, 30, 0, 0, time.UTC))
		inApp := &stubSender{channel: model.ChannelInApp}
		uc := New(log.NewNoop(), clk, prefs, []notification.Sender{inApp})

		out, err := uc.Dispatch(context.Background(), notification.DispatchInput{
			Notification: testNotification("n2", model.PriorityCritical),
		})
		require.NoError(t, err)
		assert.True(t, out.Delivered)
	})

	t.Run("outside the window delivery proceeds", func(t *testing.T) {
		clk := clock.NewMockClock(time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC))
		inApp := &stubSender{channel: model.ChannelInApp}
		uc := New(log.NewNoop(), clk, prefs, []notification.Sender{inApp})

		out, err := uc.Dispatch(context.Background(), notification.DispatchInput{
			Notification: testNotification("n3", model.PriorityLow),
		})
		require.NoError(t, err)
		assert.True(t, out.Delivered)
	})
}

func TestDispatchBulk(t *testing.T) {
	clk := clock.NewMockClock(time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC))
	inApp := &stubSender{channel: model.ChannelInApp}
	uc := New(log.NewNoop(), clk, &stubPrefs{}, []notification.Sender{inApp})

	missing := testNotification("n2", model.PriorityLow)
	missing.UserID = ""

	out, err := uc.DispatchBulk(context.Background(), notification.BulkInput{
		BatchID: "batch-1",
		Notifications: []model.NotificationData{
			testNotification("n1", model.PriorityLow),
			missing,
			testNotification("n3", model.PriorityLow),
		},
	})
	require.NoError(t, err)

	assert.Equal(t, 3, out.Total)
	assert.Equal(t, 2, out.Delivered)
	assert.Equal(t, 1, out.Failed)
	assert.ErrorIs(t, out.Results[1].Err, notification.ErrNoRecipient)
	assert.Equal(t, []string{"n1", "n3"}, inApp.delivered)
}

func TestDispatchBulkAppliesQuietHours(t *testing.T) {
	// Quiet 22:00-07:00 UTC, evaluated at 23:30: non-critical batch items are
	// deferred exactly like single dispatches, critical ones go through.
	prefs := &stubPrefs{prefs: map[string]model.NotificationPreferences{
		"user-1": {QuietHours: &model.QuietHours{
			Enabled:  true,
			Start:    "22:00",
			End:      "07:00",
			Timezone: "UTC",
		}},
	}}
	clk := clock.NewMockClock(time.Date(2026, 3, 10, 23, 30, 0, 0, time.UTC))
	inApp := &stubSender{channel: model.ChannelInApp}
	uc := New(log.NewNoop(), clk, prefs, []notification.Sender{inApp})

	out, err := uc.DispatchBulk(context.Background(), notification.BulkInput{
		BatchID: "batch-q",
		Notifications: []model.NotificationData{
			testNotification("n1", model.PriorityMedium),
			testNotification("n2", model.PriorityCritical),
		},
	})
	require.NoError(t, err)

	assert.Equal(t, 1, out.Delivered)
	assert.Equal(t, 1, out.Deferred)
	assert.Equal(t, 0, out.Failed)
	assert.True(t, out.Results[0].Deferred)
	assert.Equal(t, time.Date(2026, 3, 11, 7, 0, 0, 0, time.UTC), out.Results[0].ResumeAt)
	assert.True(t, out.Results[1].Delivered)
	assert.Equal(t, []string{"n2"}, inApp.delivered)

	t.Run("a fully deferred batch is not a failure", func(t *testing.T) {
		out, err := uc.DispatchBulk(context.Background(), notification.BulkInput{
			BatchID: "batch-q2",
			Notifications: []model.NotificationData{
				testNotification("n3", model.PriorityLow),
			},
		})
		require.NoError(t, err)
		assert.Equal(t, 1, out.Deferred)
		assert.Equal(t, 0, out.Failed)
	})
}

func TestDispatchChannelFilter(t *testing.T) {
	clk := clock.NewMockClock(time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC))
	inApp := &stubSender{channel: model.ChannelInApp}
	email := &stubSender{channel: model.ChannelEmail}
	uc := New(log.NewNoop(), clk, &stubPrefs{}, []notification.Sender{inApp, email})

	out, err := uc.Dispatch(context.Background(), notification.DispatchInput{
		Notification: testNotification("n1", model.PriorityMedium),
		Channels:     []model.Channel{model.ChannelEmail},
	})
	require.NoError(t, err)

	require.Len(t, out.Results, 1)
	assert.Equal(t, model.ChannelEmail, out.Results[0].Channel)
	assert.Empty(t, inApp.delivered)
	assert.Equal(t, []string{"n1"}, email.delivered)
}

func TestDispatchInlinePreferences(t *testing.T) {
	clk := clock.NewMockClock(time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC))
	email := &stubSender{
		channel:   model.ChannelEmail,
		available: func(p model.NotificationPreferences, n model.NotificationData) bool { return p.Channels.Email },
	}
	// The stored source errors; the inline preferences must win without a
	// fallback to zero-value defaults.
	uc := New(log.NewNoop(), clk, &stubPrefs{err: errors.New("db down")}, []notification.Sender{email})

	out, err := uc.Dispatch(context.Background(), notification.DispatchInput{
		Notification: testNotification("n1", model.PriorityMedium),
		Preferences:  &model.NotificationPreferences{Channels: model.ChannelFlags{Email: true}, Email: "u@example.com"},
	})
	require.NoError(t, err)

	assert.True(t, out.Delivered)
	assert.Equal(t, []string{"n1"}, email.delivered)
}
