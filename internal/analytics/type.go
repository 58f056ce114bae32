package analytics

import "time"

// Account identifies one connected platform account.
type Account struct {
	Platform  string `json:"platform"`
	AccountID string `json:"account_id"`
}

// DateRange is the collection window.
type DateRange struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
}

// MetricGroups selects which metric families a collection gathers.
type MetricGroups struct {
	Posts      bool `json:"include_post_metrics"`
	Audience   bool `json:"include_audience_metrics"`
	Engagement bool `json:"include_engagement_metrics"`
}

// AllMetricGroups enables every family, as the scheduled collections do.
func AllMetricGroups() MetricGroups {
	return MetricGroups{Posts: true, Audience: true, Engagement: true}
}

// PostMetrics is the per-post aggregate family.
type PostMetrics struct {
	PostCount   int   `json:"post_count"`
	Impressions int64 `json:"impressions"`
	Reach       int64 `json:"reach"`
}

// AudienceMetrics is the follower family. GrowthRate is a percentage over
// the collection window; negative means shrinking.
type AudienceMetrics struct {
	Followers  int64   `json:"followers"`
	GrowthRate float64 `json:"growth_rate"`
}

// EngagementMetrics is the interaction family. EngagementRate is a
// percentage.
type EngagementMetrics struct {
	EngagementRate float64 `json:"engagement_rate"`
	Likes          int64   `json:"likes"`
	Comments       int64   `json:"comments"`
	Shares         int64   `json:"shares"`
}

// AccountMetrics holds whichever families the source returned. A nil family
// was either disabled or unavailable.
type AccountMetrics struct {
	Posts      *PostMetrics       `json:"posts,omitempty"`
	Audience   *AudienceMetrics   `json:"audience,omitempty"`
	Engagement *EngagementMetrics `json:"engagement,omitempty"`
}

// Count returns how many metric families are populated.
func (m AccountMetrics) Count() int {
	n := 0
	if m.Posts != nil {
		n++
	}
	if m.Audience != nil {
		n++
	}
	if m.Engagement != nil {
		n++
	}
	return n
}

// CollectInput is one collection job.
type CollectInput struct {
	UserID      string       `json:"user_id"`
	WorkspaceID string       `json:"workspace_id,omitempty"`
	Accounts    []Account    `json:"accounts"`
	Range       DateRange    `json:"range"`
	Groups      MetricGroups `json:"groups"`
}

// Frequency selects the lookback window of a scheduled collection.
type Frequency string

const (
	FrequencyHourly Frequency = "hourly"
	FrequencyDaily  Frequency = "daily"
	FrequencyWeekly Frequency = "weekly"
)

// ScheduledInput is the recurring-job payload.
type ScheduledInput struct {
	UserID      string    `json:"user_id"`
	WorkspaceID string    `json:"workspace_id,omitempty"`
	Accounts    []Account `json:"accounts"`
	Frequency   Frequency `json:"frequency"`
}

// AccountOutcome is the isolated result for one account.
type AccountOutcome struct {
	Account Account
	Success bool
	Metrics AccountMetrics
	Err     error
}

// CollectOutput summarizes a collection run.
type CollectOutput struct {
	TotalMetrics       int
	SuccessfulAccounts int
	FailedAccounts     int
	Outcomes           []AccountOutcome
}
