package usecase

import (
	"context"
	"testing"
	"time"

	"jobs-srv/internal/model"
	"jobs-srv/internal/sentiment"
	"jobs-srv/internal/sentiment/repository/inmem"
	"jobs-srv/pkg/clock"
	"jobs-srv/pkg/log"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const workspaceID = "ws-1"

var monitorNow = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

type stubScorer struct {
	score float64
	err   error
}

func (s *stubScorer) Score(ctx context.Context, content string) (float64, error) {
	return s.score, s.err
}

type stubNotifier struct {
	sent     []model.NotificationData
	channels [][]model.Channel
}

func (n *stubNotifier) Notify(ctx context.Context, data model.NotificationData, channels []model.Channel) error {
	n.sent = append(n.sent, data)
	n.channels = append(n.channels, channels)
	return nil
}

// seedObservations inserts count observations with the given score spread
// evenly inside [from, to).
func seedObservations(t *testing.T, repo sentiment.Repository, count int, score float64, from, to time.Time) {
	t.Helper()
	step := to.Sub(from) / time.Duration(count+1)
	for i := 0; i < count; i++ {
		err := repo.SaveObservation(context.Background(), model.Observation{
			ID:          time.Now().Format("150405.000000000") + string(rune('a'+i%26)),
			WorkspaceID: workspaceID,
			Platform:    "twitter",
			Score:       score,
			ObservedAt:  from.Add(step * time.Duration(i+1)),
		})
		require.NoError(t, err)
	}
}

func TestMonitorVolumeSurge(t *testing.T) {
	rule := model.AlertRule{
		ID:          "rule-vs",
		WorkspaceID: workspaceID,
		Type:        model.RuleVolumeSurge,
		Threshold:   2.0,
		Timeframe:   time.Hour,
		IsActive:    true,
	}

	t.Run("doubled volume triggers", func(t *testing.T) {
		repo := inmem.New()
		repo.SeedRules(rule)
		notif := &stubNotifier{}
		uc := New(log.NewNoop(), clock.NewMockClock(monitorNow), repo, &stubScorer{}, notif)

		// Comparison window is [now-3h, now-1h): 10 observations. Current
		// window is the last hour: 21 observations → ratio 2.1.
		seedObservations(t, repo, 10, 0, monitorNow.Add(-3*time.Hour), monitorNow.Add(-time.Hour))
		seedObservations(t, repo, 21, 0, monitorNow.Add(-time.Hour), monitorNow)

		alerts, err := uc.MonitorWorkspace(context.Background(), sentiment.MonitorInput{WorkspaceID: workspaceID, UserID: "user-1"})
		require.NoError(t, err)

		require.Len(t, alerts, 1)
		assert.Equal(t, model.CrisisVolumeSurge, alerts[0].AlertType)
		assert.InDelta(t, 2.1, alerts[0].CurrentValue, 1e-9)
		require.Len(t, notif.sent, 1)
		assert.Equal(t, "crisis_alert", notif.sent[0].Type)

		// LOW severity escalates on in-app + email only, and the alert row
		// records exactly that channel set.
		assert.Equal(t, []model.Channel{model.ChannelInApp, model.ChannelEmail}, notif.channels[0])
		assert.Equal(t, model.NotificationsSent{Email: true}, alerts[0].NotificationsSent)
	})

	t.Run("below the ratio stays quiet", func(t *testing.T) {
		repo := inmem.New()
		repo.SeedRules(rule)
		uc := New(log.NewNoop(), clock.NewMockClock(monitorNow), repo, &stubScorer{}, &stubNotifier{})

		seedObservations(t, repo, 10, 0, monitorNow.Add(-3*time.Hour), monitorNow.Add(-time.Hour))
		seedObservations(t, repo, 19, 0, monitorNow.Add(-time.Hour), monitorNow)

		alerts, err := uc.MonitorWorkspace(context.Background(), sentiment.MonitorInput{WorkspaceID: workspaceID})
		require.NoError(t, err)
		assert.Empty(t, alerts)
	})

	t.Run("empty comparison window divides by one", func(t *testing.T) {
		repo := inmem.New()
		repo.SeedRules(rule)
		uc := New(log.NewNoop(), clock.NewMockClock(monitorNow), repo, &stubScorer{}, &stubNotifier{})

		seedObservations(t, repo, 3, 0, monitorNow.Add(-time.Hour), monitorNow)

		alerts, err := uc.MonitorWorkspace(context.Background(), sentiment.MonitorInput{WorkspaceID: workspaceID})
		require.NoError(t, err)
		require.Len(t, alerts, 1)
		assert.InDelta(t, 3.0, alerts[0].CurrentValue, 1e-9)
	})
}

func TestMonitorSentimentDrop(t *testing.T) {
	rule := model.AlertRule{
		ID:          "rule-sd",
		WorkspaceID: workspaceID,
		Type:        model.RuleSentimentDrop,
		Threshold:   -0.3,
		Timeframe:   time.Hour,
		IsActive:    true,
	}

	repo := inmem.New()
	repo.SeedRules(rule)
	notif := &stubNotifier{}
	uc := New(log.NewNoop(), clock.NewMockClock(monitorNow), repo, &stubScorer{}, notif)

	// Comparison avg 0.4, current avg 0.05 → delta -0.35 ≤ -0.3. The measured
	// value sits 0.05 from the threshold, which is the LOW band.
	seedObservations(t, repo, 10, 0.4, monitorNow.Add(-3*time.Hour), monitorNow.Add(-time.Hour))
	seedObservations(t, repo, 10, 0.05, monitorNow.Add(-time.Hour), monitorNow)

	alerts, err := uc.MonitorWorkspace(context.Background(), sentiment.MonitorInput{WorkspaceID: workspaceID})
	require.NoError(t, err)

	require.Len(t, alerts, 1)
	assert.Equal(t, model.CrisisSentimentDrop, alerts[0].AlertType)
	assert.Equal(t, model.SeverityLow, alerts[0].Severity)
	assert.InDelta(t, -0.35, alerts[0].CurrentValue, 1e-9)
}

func TestMonitorNegativeSpike(t *testing.T) {
	rule := model.AlertRule{
		ID:          "rule-ns",
		WorkspaceID: workspaceID,
		Type:        model.RuleNegativeSpike,
		Threshold:   0.4,
		Timeframe:   30 * time.Minute,
		IsActive:    true,
	}

	repo := inmem.New()
	repo.SeedRules(rule)
	uc := New(log.NewNoop(), clock.NewMockClock(monitorNow), repo, &stubScorer{}, &stubNotifier{})

	// 6 negative of 10 → ratio 0.6; 0.2 above threshold → LOW band.
	seedObservations(t, repo, 6, -0.5, monitorNow.Add(-time.Hour), monitorNow.Add(-30*time.Minute))
	seedObservations(t, repo, 4, 0.5, monitorNow.Add(-30*time.Minute), monitorNow)

	alerts, err := uc.MonitorWorkspace(context.Background(), sentiment.MonitorInput{WorkspaceID: workspaceID})
	require.NoError(t, err)

	require.Len(t, alerts, 1)
	assert.Equal(t, model.CrisisNegativeSpike, alerts[0].AlertType)
	assert.InDelta(t, 0.6, alerts[0].CurrentValue, 1e-9)
}

func TestMonitorCooldown(t *testing.T) {
	rule := model.AlertRule{
		ID:          "rule-vs",
		WorkspaceID: workspaceID,
		Type:        model.RuleVolumeSurge,
		Threshold:   1.5,
		Timeframe:   time.Hour,
		IsActive:    true,
	}

	repo := inmem.New()
	repo.SeedRules(rule)
	clk := clock.NewMockClock(monitorNow)
	notif := &stubNotifier{}
	uc := New(log.NewNoop(), clk, repo, &stubScorer{}, notif)

	seedObservations(t, repo, 9, 0, monitorNow.Add(-time.Hour), monitorNow)

	alerts, err := uc.MonitorWorkspace(context.Background(), sentiment.MonitorInput{WorkspaceID: workspaceID})
	require.NoError(t, err)
	require.Len(t, alerts, 1)

	// A second pass inside the rule timeframe stays silent.
	clk.Add(10 * time.Minute)
	alerts, err = uc.MonitorWorkspace(context.Background(), sentiment.MonitorInput{WorkspaceID: workspaceID})
	require.NoError(t, err)
	assert.Empty(t, alerts)

	// Once the timeframe elapses the same condition may alert again.
	clk.Add(time.Hour)
	seedObservations(t, repo, 20, 0, clk.Now().Add(-time.Hour), clk.Now())
	alerts, err = uc.MonitorWorkspace(context.Background(), sentiment.MonitorInput{WorkspaceID: workspaceID})
	require.NoError(t, err)
	assert.Len(t, alerts, 1)
}

func TestSeverityBands(t *testing.T) {
	tests := []struct {
		name      string
		current   float64
		threshold float64
		want      model.Severity
	}{
		{"far past threshold is critical", 2.9, 2.0, model.SeverityCritical},
		{"critical band lower bound", 2.8, 2.0, model.SeverityCritical},
		{"high band", 2.7, 2.0, model.SeverityHigh},
		{"medium band", 2.4, 2.0, model.SeverityMedium},
		{"just past threshold is low", 2.1, 2.0, model.SeverityLow},
		{"negative direction uses distance", -0.35, -0.3, model.SeverityLow},
		{"deep drop escalates", -1.2, -0.3, model.SeverityCritical},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, severityFor(tt.current, tt.threshold))
		})
	}
}

func TestCrisisTypeMapping(t *testing.T) {
	assert.Equal(t, model.CrisisSentimentDrop, crisisTypeFor(model.RuleSentimentDrop))
	assert.Equal(t, model.CrisisVolumeSurge, crisisTypeFor(model.RuleVolumeSurge))
	assert.Equal(t, model.CrisisNegativeSpike, crisisTypeFor(model.RuleNegativeSpike))
	// A rule type nobody recognizes must not masquerade as a brand attack.
	assert.Equal(t, model.CrisisUnknown, crisisTypeFor(model.RuleType("mystery")))
}
