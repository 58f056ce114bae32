package publish

import (
	"context"

	"jobs-srv/internal/job"
	"jobs-srv/internal/model"
)

// UseCase publishes scheduled posts to their target platforms.
type UseCase interface {
	PublishPost(ctx context.Context, input PostInput) (PostOutput, error)
	PublishBulk(ctx context.Context, input BulkInput, progress job.ProgressFunc) (BulkOutput, error)
}

// Publisher is the external platform client. One call publishes one post to
// one account on one platform.
type Publisher interface {
	Publish(ctx context.Context, platform, accountID string, content Content) (Ack, error)
}

// Notifier delivers the success/failure notifications produced by a publish
// run. Implemented by the scheduler so processors never talk to queues
// directly.
type Notifier interface {
	Notify(ctx context.Context, n model.NotificationData) error
}
