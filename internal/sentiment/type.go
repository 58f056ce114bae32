package sentiment

import "jobs-srv/internal/model"

// Sentiment classification cutoffs: a score above positiveCutoff counts as
// positive, below negativeCutoff as negative, anything between as neutral.
const (
	PositiveCutoff = 0.1
	NegativeCutoff = -0.1
)

// WindowStats aggregates one observation window.
type WindowStats struct {
	TotalCount    int     `json:"total_count"`
	AvgSentiment  float64 `json:"avg_sentiment"`
	PositiveCount int     `json:"positive_count"`
	NegativeCount int     `json:"negative_count"`
	NeutralCount  int     `json:"neutral_count"`
	NegativeRatio float64 `json:"negative_ratio"`
}

// MonitorInput identifies the workspace to evaluate and who gets notified.
type MonitorInput struct {
	WorkspaceID string `json:"workspace_id"`
	UserID      string `json:"user_id"`
}

// NewContentInput is one piece of audience content to score and persist.
type NewContentInput struct {
	WorkspaceID     string   `json:"workspace_id"`
	UserID          string   `json:"user_id"`
	Platform        string   `json:"platform"`
	Content         string   `json:"content"`
	AuthorFollowers int64    `json:"author_followers"`
	Topics          []string `json:"topics,omitempty"`
}

// NewContentOutput carries the persisted observation and, when the content
// crossed the brand-attack bar, the raised alert.
type NewContentOutput struct {
	Observation model.Observation
	Alert       *model.CrisisAlert
}

// Mood classifies the latest trend row.
type Mood string

const (
	MoodPositive Mood = "positive"
	MoodNegative Mood = "negative"
	MoodNeutral  Mood = "neutral"
	MoodMixed    Mood = "mixed"
)

// TrendDirection classifies the week-over-week movement.
type TrendDirection string

const (
	TrendImproving TrendDirection = "improving"
	TrendDeclining TrendDirection = "declining"
	TrendStable    TrendDirection = "stable"
)

// MoodReport is the content-strategy summary for a workspace.
type MoodReport struct {
	CurrentMood     Mood           `json:"current_mood"`
	Trend           TrendDirection `json:"trend"`
	Recommendations []string       `json:"recommendations"`
	Insights        []string       `json:"insights"`
}
