package usecase

import (
	"context"
	"fmt"
	"time"

	"jobs-srv/internal/analytics"
	"jobs-srv/internal/job"
	"jobs-srv/internal/model"

	"github.com/google/uuid"
)

// Performance alert thresholds, in percent.
const (
	lowEngagementThreshold   = 1.0
	followerDeclineThreshold = -5.0
)

// followerMilestones is checked in ascending order; a follower count inside
// [m, 1.1m) matches the first such m only.
var followerMilestones = []int64{1_000, 5_000, 10_000, 50_000, 100_000, 500_000, 1_000_000}

// Collect queries every account independently, then runs the performance and
// milestone checks over the successful results. A completion notification
// always fires.
func (uc *implUseCase) Collect(ctx context.Context, input analytics.CollectInput) (analytics.CollectOutput, error) {
	if len(input.Accounts) == 0 {
		return analytics.CollectOutput{}, job.NewJobError("no_accounts",
			"analytics collection has no accounts", analytics.ErrNoAccounts)
	}

	out := analytics.CollectOutput{
		Outcomes: make([]analytics.AccountOutcome, 0, len(input.Accounts)),
	}

	for _, acc := range input.Accounts {
		outcome := analytics.AccountOutcome{Account: acc}

		metrics, err := uc.source.Query(ctx, acc.Platform, acc.AccountID, input.Range, input.Groups)
		if err != nil {
			outcome.Err = job.NewTargetError("query_failed",
				fmt.Sprintf("analytics query for %s/%s failed", acc.Platform, acc.AccountID), err)
			out.FailedAccounts++
			uc.l.Warnf(ctx, "internal.analytics.collect: account %s/%s failed: %v", acc.Platform, acc.AccountID, err)
		} else {
			outcome.Success = true
			outcome.Metrics = metrics
			out.SuccessfulAccounts++
			out.TotalMetrics += metrics.Count()
		}

		out.Outcomes = append(out.Outcomes, outcome)
	}

	for _, outcome := range out.Outcomes {
		if !outcome.Success {
			continue
		}
		uc.checkPerformance(ctx, input, outcome)
		uc.checkMilestones(ctx, input, outcome)
	}

	uc.notifyCompletion(ctx, input, out)

	if out.SuccessfulAccounts == 0 {
		return out, job.NewJobError("all_accounts_failed",
			fmt.Sprintf("all %d accounts failed", out.FailedAccounts), nil)
	}
	return out, nil
}

// checkPerformance raises HIGH-priority alerts for weak engagement or a
// shrinking audience.
func (uc *implUseCase) checkPerformance(ctx context.Context, input analytics.CollectInput, outcome analytics.AccountOutcome) {
	acc := outcome.Account

	if eng := outcome.Metrics.Engagement; eng != nil && eng.EngagementRate < lowEngagementThreshold {
		uc.notify(ctx, model.NotificationData{
			ID:       uuid.NewString(),
			Type:     "performance_alert",
			Title:    "Low engagement detected",
			Message:  fmt.Sprintf("%s engagement dropped to %.2f%%", acc.Platform, eng.EngagementRate),
			UserID:   input.UserID,
			Priority: model.PriorityHigh,
			Category: "analytics",
			Metadata: map[string]any{
				"platform":        acc.Platform,
				"account_id":      acc.AccountID,
				"metric":          "engagement_rate",
				"engagement_rate": eng.EngagementRate,
			},
		})
	}

	if aud := outcome.Metrics.Audience; aud != nil && aud.GrowthRate < followerDeclineThreshold {
		uc.notify(ctx, model.NotificationData{
			ID:       uuid.NewString(),
			Type:     "performance_alert",
			Title:    "Follower decline detected",
			Message:  fmt.Sprintf("%s followers shrinking at %.2f%%", acc.Platform, aud.GrowthRate),
			UserID:   input.UserID,
			Priority: model.PriorityHigh,
			Category: "analytics",
			Metadata: map[string]any{
				"platform":    acc.Platform,
				"account_id":  acc.AccountID,
				"metric":      "follower_growth",
				"growth_rate": aud.GrowthRate,
			},
		})
	}
}

// checkMilestones fires one celebratory notification for the first milestone
// whose window contains the current follower count.
func (uc *implUseCase) checkMilestones(ctx context.Context, input analytics.CollectInput, outcome analytics.AccountOutcome) {
	aud := outcome.Metrics.Audience
	if aud == nil {
		return
	}

	for _, m := range followerMilestones {
		// The 10% window keeps the notification one-time in practice: once
		// the count grows past 1.1m the milestone stops matching.
		if aud.Followers >= m && float64(aud.Followers) < float64(m)*1.1 {
			uc.notify(ctx, model.NotificationData{
				ID:       uuid.NewString(),
				Type:     "milestone_reached",
				Title:    "Follower milestone reached",
				Message:  fmt.Sprintf("Your %s account passed %d followers", outcome.Account.Platform, m),
				UserID:   input.UserID,
				Priority: model.PriorityMedium,
				Category: "analytics",
				Metadata: map[string]any{
					"platform":   outcome.Account.Platform,
					"account_id": outcome.Account.AccountID,
					"milestone":  m,
					"followers":  aud.Followers,
				},
			})
			break
		}
	}
}

func (uc *implUseCase) notifyCompletion(ctx context.Context, input analytics.CollectInput, out analytics.CollectOutput) {
	priority := model.PriorityLow
	if out.FailedAccounts > 0 {
		priority = model.PriorityHigh
	}

	uc.notify(ctx, model.NotificationData{
		ID:       uuid.NewString(),
		Type:     "analytics_collected",
		Title:    "Analytics collection finished",
		Message:  fmt.Sprintf("Collected %d metric groups from %d accounts", out.TotalMetrics, out.SuccessfulAccounts),
		UserID:   input.UserID,
		Priority: priority,
		Category: "analytics",
		Metadata: map[string]any{
			"total_metrics":       out.TotalMetrics,
			"successful_accounts": out.SuccessfulAccounts,
			"failed_accounts":     out.FailedAccounts,
		},
	})
}

// CollectScheduled translates a recurring-job frequency into a concrete
// window and delegates to Collect with every metric group enabled.
func (uc *implUseCase) CollectScheduled(ctx context.Context, input analytics.ScheduledInput) (analytics.CollectOutput, error) {
	lookback, err := lookbackFor(input.Frequency)
	if err != nil {
		return analytics.CollectOutput{}, job.NewJobError("unknown_frequency",
			fmt.Sprintf("frequency %q", input.Frequency), err)
	}

	now := uc.clk.Now()
	return uc.Collect(ctx, analytics.CollectInput{
		UserID:      input.UserID,
		WorkspaceID: input.WorkspaceID,
		Accounts:    input.Accounts,
		Range:       analytics.DateRange{From: now.Add(-lookback), To: now},
		Groups:      analytics.AllMetricGroups(),
	})
}

func lookbackFor(f analytics.Frequency) (time.Duration, error) {
	switch f {
	case analytics.FrequencyHourly:
		return time.Hour, nil
	case analytics.FrequencyDaily:
		return 24 * time.Hour, nil
	case analytics.FrequencyWeekly:
		return 7 * 24 * time.Hour, nil
	default:
		return 0, analytics.ErrUnknownFrequency
	}
}

func (uc *implUseCase) notify(ctx context.Context, n model.NotificationData) {
	if err := uc.notifier.Notify(ctx, n); err != nil {
		uc.l.Warnf(ctx, "internal.analytics: notification %s not scheduled: %v", n.Type, err)
	}
}
