package usecase

import (
	"context"
	"fmt"
	"strings"

	"jobs-srv/internal/job"
	"jobs-srv/internal/model"
	"jobs-srv/internal/publish"

	"github.com/aarondl/null/v8"
	"github.com/google/uuid"
)

// PublishPost attempts every target platform independently, then reports the
// split to the user. One platform reaching the audience is a success; total
// failure is the only failure.
func (uc *implUseCase) PublishPost(ctx context.Context, input publish.PostInput) (publish.PostOutput, error) {
	if len(input.Platforms) == 0 {
		return publish.PostOutput{}, job.NewJobError("no_platforms",
			fmt.Sprintf("post %s has no target platforms", input.PostID), publish.ErrNoPlatforms)
	}

	out := uc.publishTargets(ctx, input)
	uc.notifyOutcome(ctx, input, out)

	if out.Succeeded == 0 {
		return out, job.NewJobError("all_platforms_failed",
			fmt.Sprintf("post %s failed on all %d platforms", input.PostID, out.Failed), publish.ErrAllPlatformsFailed)
	}
	return out, nil
}

// publishTargets runs the per-platform loop. Outcomes are positional: one
// entry per requested platform, in request order.
func (uc *implUseCase) publishTargets(ctx context.Context, input publish.PostInput) publish.PostOutput {
	out := publish.PostOutput{
		PostID:   input.PostID,
		Outcomes: make([]publish.PlatformOutcome, 0, len(input.Platforms)),
	}

	for _, platform := range input.Platforms {
		outcome := publish.PlatformOutcome{Platform: platform}

		accountID, ok := input.AccountIDs[platform]
		if !ok || accountID == "" {
			outcome.Err = job.NewTargetError("missing_account",
				fmt.Sprintf("no account connected for %s", platform), nil)
		} else if ack, err := uc.publisher.Publish(ctx, platform, accountID, input.Content); err != nil {
			outcome.Err = job.NewTargetError("publish_failed",
				fmt.Sprintf("publish to %s failed", platform), err)
		} else {
			outcome.Success = true
			outcome.PlatformPostID = ack.PlatformPostID
		}

		if outcome.Success {
			out.Succeeded++
		} else {
			out.Failed++
			uc.l.Warnf(ctx, "internal.publish: post %s target %s failed: %v", input.PostID, platform, outcome.Err)
		}
		out.Outcomes = append(out.Outcomes, outcome)
	}

	return out
}

// notifyOutcome sends the success and failure notifications. Both fire on a
// partial success. Notification delivery problems are logged, never
// propagated into the publish result.
func (uc *implUseCase) notifyOutcome(ctx context.Context, input publish.PostInput, out publish.PostOutput) {
	var succeeded, failed []string
	failures := make(map[string]any)
	for _, o := range out.Outcomes {
		if o.Success {
			succeeded = append(succeeded, o.Platform)
		} else {
			failed = append(failed, o.Platform)
			failures[o.Platform] = o.Err.Error()
		}
	}

	if len(succeeded) > 0 {
		uc.notify(ctx, model.NotificationData{
			ID:       uuid.NewString(),
			Type:     "post_published",
			Title:    "Post published",
			Message:  fmt.Sprintf("Your post is live on %s", strings.Join(succeeded, ", ")),
			UserID:   input.UserID,
			Priority: model.PriorityMedium,
			Category: "publishing",
			Metadata: map[string]any{"post_id": input.PostID, "platforms": succeeded},
		})
	}
	if len(failed) > 0 {
		uc.notify(ctx, model.NotificationData{
			ID:          uuid.NewString(),
			Type:        "post_publish_failed",
			Title:       "Post failed to publish",
			Message:     fmt.Sprintf("Publishing failed on %s", strings.Join(failed, ", ")),
			UserID:      input.UserID,
			Priority:    model.PriorityHigh,
			Category:    "publishing",
			ActionURL:   null.StringFrom(fmt.Sprintf("/posts/%s", input.PostID)),
			ActionLabel: null.StringFrom("Try Again"),
			Metadata:    map[string]any{"post_id": input.PostID, "platforms": failed, "errors": failures},
		})
	}
}

// PublishBulk publishes posts one at a time, reporting progress after each.
// A failing post does not stop the batch.
func (uc *implUseCase) PublishBulk(ctx context.Context, input publish.BulkInput, progress job.ProgressFunc) (publish.BulkOutput, error) {
	out := publish.BulkOutput{
		BatchID:    input.BatchID,
		TotalPosts: len(input.Posts),
		Results:    make([]publish.PostOutput, 0, len(input.Posts)),
	}

	for i, post := range input.Posts {
		if post.UserID == "" {
			post.UserID = input.UserID
		}
		if post.WorkspaceID == "" {
			post.WorkspaceID = input.WorkspaceID
		}

		res := uc.publishTargets(ctx, post)
		uc.notifyOutcome(ctx, post, res)

		if res.Succeeded > 0 {
			out.SuccessfulPosts++
		} else {
			out.FailedPosts++
		}
		out.Results = append(out.Results, res)

		if progress != nil {
			progress(float64(i+1) / float64(out.TotalPosts) * 100)
		}
	}

	uc.notify(ctx, model.NotificationData{
		ID:       uuid.NewString(),
		Type:     "bulk_publish_completed",
		Title:    "Bulk publishing finished",
		Message:  fmt.Sprintf("%d of %d posts published", out.SuccessfulPosts, out.TotalPosts),
		UserID:   input.UserID,
		Priority: bulkPriority(out),
		Category: "publishing",
		Metadata: map[string]any{
			"batch_id":         input.BatchID,
			"total_posts":      out.TotalPosts,
			"successful_posts": out.SuccessfulPosts,
			"failed_posts":     out.FailedPosts,
		},
	})

	if out.TotalPosts > 0 && out.SuccessfulPosts == 0 {
		return out, job.NewJobError("bulk_all_failed",
			fmt.Sprintf("batch %s: every post failed", input.BatchID), publish.ErrAllPlatformsFailed)
	}
	return out, nil
}

func bulkPriority(out publish.BulkOutput) model.Priority {
	if out.FailedPosts > 0 {
		return model.PriorityHigh
	}
	return model.PriorityMedium
}

func (uc *implUseCase) notify(ctx context.Context, n model.NotificationData) {
	if err := uc.notifier.Notify(ctx, n); err != nil {
		uc.l.Warnf(ctx, "internal.publish: notification %s not scheduled: %v", n.Type, err)
	}
}
