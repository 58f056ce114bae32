package usecase

import (
	"context"
	"fmt"

	"jobs-srv/internal/job"
	"jobs-srv/internal/model"
	"jobs-srv/internal/notification"
)

// Dispatch runs one notification through the scheduling and quiet-hours
// gates, then fans out to every available channel. Channel failures are
// isolated: the dispatch succeeds as long as one channel delivered.
func (uc *implUseCase) Dispatch(ctx context.Context, input notification.DispatchInput) (notification.DispatchOutput, error) {
	n := input.Notification
	if n.UserID == "" {
		return notification.DispatchOutput{}, notification.ErrNoRecipient
	}

	now := uc.clk.Now()
	if input.ScheduledFor.After(now) {
		return notification.DispatchOutput{}, job.NewGateRejection("scheduled_future",
			fmt.Sprintf("notification %s scheduled for %s", n.ID, input.ScheduledFor.Format("2006-01-02 15:04")),
			input.ScheduledFor)
	}

	pref := uc.resolvePreferences(ctx, input)

	// Critical notifications punch through quiet hours.
	if n.Priority != model.PriorityCritical {
		if resume, quiet := quietHoursDeferral(pref.QuietHours, now); quiet {
			return notification.DispatchOutput{}, job.NewGateRejection("quiet_hours",
				fmt.Sprintf("notification %s deferred by quiet hours until %s", n.ID, resume.Format("2006-01-02 15:04")),
				resume)
		}
	}

	results := uc.fanOut(ctx, n, pref, input.Channels)

	out := notification.DispatchOutput{
		NotificationID: n.ID,
		Results:        results,
		DispatchedAt:   now,
	}
	for _, r := range results {
		if r.Success {
			out.Delivered = true
			break
		}
	}
	if !out.Delivered {
		return out, job.NewJobError("all_channels_failed",
			fmt.Sprintf("notification %s: no channel delivered", n.ID), notification.ErrAllChannelsFailed)
	}

	uc.l.Infof(ctx, "internal.notification.dispatch: delivered %s to %d/%d channels", n.ID, countSuccessful(results), len(results))
	return out, nil
}

// DispatchBulk delegates each item to the single-notification path, so every
// item passes the same gates. Gated items come back deferred with their
// resume time instead of delivered; individual failures do not stop the
// batch.
func (uc *implUseCase) DispatchBulk(ctx context.Context, input notification.BulkInput) (notification.BulkOutput, error) {
	out := notification.BulkOutput{
		BatchID: input.BatchID,
		Total:   len(input.Notifications),
		Results: make([]notification.BulkItemResult, 0, len(input.Notifications)),
	}

	for _, n := range input.Notifications {
		item := notification.BulkItemResult{NotificationID: n.ID}

		res, err := uc.Dispatch(ctx, notification.DispatchInput{
			Notification: n,
			Channels:     input.Channels,
		})
		if gate, gated := job.AsGateRejection(err); gated {
			item.Deferred = true
			item.ResumeAt = gate.RetryAt
			out.Deferred++
		} else if err != nil {
			item.Err = err
			out.Failed++
		} else {
			item.Delivered = res.Delivered
			out.Delivered++
		}
		out.Results = append(out.Results, item)
	}

	uc.l.Infof(ctx, "internal.notification.dispatch_bulk: batch %s delivered %d/%d, %d deferred",
		input.BatchID, out.Delivered, out.Total, out.Deferred)
	if out.Total > 0 && out.Failed == out.Total {
		return out, job.NewJobError("bulk_all_failed",
			fmt.Sprintf("batch %s: no notification delivered", input.BatchID), notification.ErrAllChannelsFailed)
	}
	return out, nil
}

// resolvePreferences picks the inline override when the caller supplied one,
// otherwise loads from the source. A failing source falls back to zero-value
// preferences, which leaves only the always-on in-app channel available.
func (uc *implUseCase) resolvePreferences(ctx context.Context, input notification.DispatchInput) model.NotificationPreferences {
	if input.Preferences != nil {
		return *input.Preferences
	}
	pref, err := uc.prefs.GetPreferences(ctx, input.Notification.UserID)
	if err != nil {
		uc.l.Warnf(ctx, "internal.notification.dispatch: preferences for %s unavailable, using defaults: %v", input.Notification.UserID, err)
		return model.NotificationPreferences{}
	}
	return pref
}

func (uc *implUseCase) fanOut(ctx context.Context, n model.NotificationData, pref model.NotificationPreferences, channels []model.Channel) []notification.ChannelResult {
	results := make([]notification.ChannelResult, 0, len(uc.senders))

	requested := make(map[model.Channel]bool, len(channels))
	for _, c := range channels {
		requested[c] = true
	}

	for _, s := range uc.senders {
		if len(requested) > 0 && !requested[s.Channel()] {
			continue
		}
		if !s.Available(pref, n) {
			continue
		}
		msgID, err := s.Deliver(ctx, n, pref)
		if err != nil {
			uc.l.Warnf(ctx, "internal.notification.dispatch: channel %s failed for %s: %v", s.Channel(), n.ID, err)
		}
		results = append(results, notification.ChannelResult{
			Channel:   s.Channel(),
			Success:   err == nil,
			MessageID: msgID,
			Err:       err,
		})
	}

	return results
}

func countSuccessful(results []notification.ChannelResult) int {
	n := 0
	for _, r := range results {
		if r.Success {
			n++
		}
	}
	return n
}
