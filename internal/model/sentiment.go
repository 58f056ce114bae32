package model

import (
	"time"

	"github.com/aarondl/null/v8"
)

// RuleType is the kind of threshold an alert rule evaluates.
type RuleType string

const (
	RuleSentimentDrop RuleType = "sentiment_drop"
	RuleVolumeSurge   RuleType = "volume_surge"
	RuleNegativeSpike RuleType = "negative_spike"
)

// Severity grades a crisis alert.
type Severity string

const (
	SeverityLow      Severity = "LOW"
	SeverityMedium   Severity = "MEDIUM"
	SeverityHigh     Severity = "HIGH"
	SeverityCritical Severity = "CRITICAL"
)

// CrisisType categorizes a crisis alert.
type CrisisType string

const (
	CrisisSentimentDrop CrisisType = "SENTIMENT_DROP"
	CrisisVolumeSurge   CrisisType = "VOLUME_SURGE"
	CrisisNegativeSpike CrisisType = "NEGATIVE_SPIKE"
	CrisisBrandAttack   CrisisType = "BRAND_ATTACK"
	// CrisisUnknown marks an alert whose rule type could not be mapped. It is
	// kept distinct from BRAND_ATTACK so a misconfigured rule does not
	// masquerade as a high-severity crisis.
	CrisisUnknown CrisisType = "UNKNOWN"
)

// AlertRule is a configured threshold over a rolling window.
type AlertRule struct {
	ID          string        `json:"id"`
	WorkspaceID string        `json:"workspace_id"`
	Type        RuleType      `json:"type"`
	Threshold   float64       `json:"threshold"`
	Timeframe   time.Duration `json:"timeframe"`
	IsActive    bool          `json:"is_active"`
}

// Observation is one scored piece of audience content.
type Observation struct {
	ID              string    `json:"id"`
	WorkspaceID     string    `json:"workspace_id"`
	Platform        string    `json:"platform"`
	Content         string    `json:"content"`
	Score           float64   `json:"score"` // [-1, 1]
	AuthorFollowers int64     `json:"author_followers"`
	Topics          []string  `json:"topics,omitempty"`
	ObservedAt      time.Time `json:"observed_at"`
}

// SentimentTrend is the per-day, per-platform aggregate. A null Platform is
// the workspace-wide row. Rows are upserted once per day and never deleted.
type SentimentTrend struct {
	WorkspaceID       string      `json:"workspace_id"`
	Date              time.Time   `json:"date"`
	Platform          null.String `json:"platform"`
	TotalMentions     int         `json:"total_mentions"`
	AvgSentiment      float64     `json:"avg_sentiment"`
	PositiveCount     int         `json:"positive_count"`
	NegativeCount     int         `json:"negative_count"`
	NeutralCount      int         `json:"neutral_count"`
	SentimentChange   float64     `json:"sentiment_change"`
	VolumeChange      float64     `json:"volume_change"`
	TopPositiveTopics []string    `json:"top_positive_topics"`
	TopNegativeTopics []string    `json:"top_negative_topics"`
}

// NotificationsSent records which crisis channels were actually used.
type NotificationsSent struct {
	Email bool `json:"email"`
	Slack bool `json:"slack"`
	SMS   bool `json:"sms"`
}

// CrisisAlert is a write-once record of a threshold crossing.
type CrisisAlert struct {
	ID                string            `json:"id"`
	WorkspaceID       string            `json:"workspace_id"`
	RuleID            null.String       `json:"rule_id,omitempty"`
	AlertType         CrisisType        `json:"alert_type"`
	Severity          Severity          `json:"severity"`
	Title             string            `json:"title"`
	Description       string            `json:"description"`
	TriggerMetric     string            `json:"trigger_metric"`
	CurrentValue      float64           `json:"current_value"`
	ThresholdValue    float64           `json:"threshold_value"`
	Timeframe         time.Duration     `json:"timeframe"`
	NotificationsSent NotificationsSent `json:"notifications_sent"`
	CreatedAt         time.Time         `json:"created_at"`
}
