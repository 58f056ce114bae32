package analytics

import (
	"context"

	"jobs-srv/internal/model"
)

// UseCase collects platform metrics for connected accounts and raises the
// derived alerts and milestone notifications.
type UseCase interface {
	Collect(ctx context.Context, input CollectInput) (CollectOutput, error)
	// CollectScheduled is the recurring-job adapter: it derives the lookback
	// window from the frequency and collects every metric group.
	CollectScheduled(ctx context.Context, input ScheduledInput) (CollectOutput, error)
}

// Source is the external analytics backend for one platform account.
type Source interface {
	Query(ctx context.Context, platform, accountID string, rng DateRange, groups MetricGroups) (AccountMetrics, error)
}

// Notifier delivers the notifications produced by a collection run.
type Notifier interface {
	Notify(ctx context.Context, n model.NotificationData) error
}
