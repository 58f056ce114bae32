package sentiment

import (
	"context"
	"time"

	"jobs-srv/internal/model"

	"github.com/aarondl/null/v8"
)

// UseCase owns rule evaluation, trend aggregation, mood reporting and
// single-item crisis escalation for workspace sentiment.
type UseCase interface {
	// MonitorWorkspace evaluates every active alert rule against the rolling
	// windows and returns the crisis alerts raised this pass.
	MonitorWorkspace(ctx context.Context, input MonitorInput) ([]model.CrisisAlert, error)
	// UpdateSentimentTrends upserts today's per-platform aggregates plus the
	// workspace-wide row.
	UpdateSentimentTrends(ctx context.Context, workspaceID string) error
	// MoodRecommendations classifies the last week of trend rows into a mood
	// and direction with content-strategy suggestions.
	MoodRecommendations(ctx context.Context, workspaceID string) (MoodReport, error)
	// AnalyzeNewContent scores and persists one item, escalating directly to
	// a brand-attack alert when it is hostile and high-reach.
	AnalyzeNewContent(ctx context.Context, input NewContentInput) (NewContentOutput, error)
}

// Repository is the persistence boundary for observations, rules, alerts and
// trend rows.
type Repository interface {
	SaveObservation(ctx context.Context, obs model.Observation) error
	ListObservations(ctx context.Context, workspaceID string, from, to time.Time) ([]model.Observation, error)

	ListActiveRules(ctx context.Context, workspaceID string) ([]model.AlertRule, error)

	SaveCrisisAlert(ctx context.Context, alert model.CrisisAlert) error
	// LatestAlert returns the most recent alert of the given type, or
	// ErrNotFound.
	LatestAlert(ctx context.Context, workspaceID string, alertType model.CrisisType) (model.CrisisAlert, error)

	UpsertTrend(ctx context.Context, trend model.SentimentTrend) error
	// GetTrend returns the row for one (workspace, date, platform) key, or
	// ErrNotFound. A null platform selects the workspace-wide row.
	GetTrend(ctx context.Context, workspaceID string, date time.Time, platform null.String) (model.SentimentTrend, error)
	// ListRecentTrends returns up to limit workspace-wide rows, newest first.
	ListRecentTrends(ctx context.Context, workspaceID string, limit int) ([]model.SentimentTrend, error)
}

// Scorer turns raw content into a sentiment score in [-1, 1].
type Scorer interface {
	Score(ctx context.Context, content string) (float64, error)
}

// Notifier delivers crisis notifications on the requested channels.
type Notifier interface {
	Notify(ctx context.Context, n model.NotificationData, channels []model.Channel) error
}
