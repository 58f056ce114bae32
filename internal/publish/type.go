package publish

import "time"

// Content is the platform-independent body of a post.
type Content struct {
	Text      string   `json:"text"`
	MediaURLs []string `json:"media_urls,omitempty"`
	Link      string   `json:"link,omitempty"`
}

// Ack is what a platform returns for a successful publish.
type Ack struct {
	PlatformPostID string         `json:"platform_post_id"`
	Metrics        map[string]any `json:"metrics,omitempty"`
}

// PostInput is one post with its target platforms and the account to use on
// each.
type PostInput struct {
	PostID       string            `json:"post_id"`
	UserID       string            `json:"user_id"`
	WorkspaceID  string            `json:"workspace_id,omitempty"`
	Content      Content           `json:"content"`
	Platforms    []string          `json:"platforms"`
	AccountIDs   map[string]string `json:"account_ids"`
	ScheduledFor time.Time         `json:"scheduled_for,omitempty"`
}

// PlatformOutcome is the isolated result for one target platform.
type PlatformOutcome struct {
	Platform       string `json:"platform"`
	Success        bool   `json:"success"`
	PlatformPostID string `json:"platform_post_id,omitempty"`
	Err            error  `json:"-"`
}

// PostOutput aggregates one post's platform outcomes. One outcome per
// requested platform, in request order.
type PostOutput struct {
	PostID    string
	Outcomes  []PlatformOutcome
	Succeeded int
	Failed    int
}

// BulkInput is a batch of posts published sequentially within one job.
type BulkInput struct {
	BatchID     string      `json:"batch_id"`
	UserID      string      `json:"user_id"`
	WorkspaceID string      `json:"workspace_id,omitempty"`
	Posts       []PostInput `json:"posts"`
}

// BulkOutput is the batch summary.
type BulkOutput struct {
	BatchID         string
	TotalPosts      int
	SuccessfulPosts int
	FailedPosts     int
	Results         []PostOutput
}
