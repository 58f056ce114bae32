package usecase

import (
	"context"
	"fmt"

	"jobs-srv/internal/model"
	"jobs-srv/internal/sentiment"

	"github.com/aarondl/null/v8"
	"github.com/google/uuid"
)

// Brand-attack escalation bar: strongly hostile content from a high-reach
// author skips the rolling-window rules entirely.
const (
	brandAttackScoreCutoff    = -0.5
	brandAttackFollowerCutoff = 100_000
)

// AnalyzeNewContent scores and persists one item as it arrives, raising an
// immediate brand-attack alert when it crosses the escalation bar.
func (uc *implUseCase) AnalyzeNewContent(ctx context.Context, input sentiment.NewContentInput) (sentiment.NewContentOutput, error) {
	score, err := uc.scorer.Score(ctx, input.Content)
	if err != nil {
		return sentiment.NewContentOutput{}, fmt.Errorf("score content: %w", err)
	}

	obs := model.Observation{
		ID:              uuid.NewString(),
		WorkspaceID:     input.WorkspaceID,
		Platform:        input.Platform,
		Content:         input.Content,
		Score:           score,
		AuthorFollowers: input.AuthorFollowers,
		Topics:          input.Topics,
		ObservedAt:      uc.clk.Now(),
	}
	if err := uc.repo.SaveObservation(ctx, obs); err != nil {
		return sentiment.NewContentOutput{}, fmt.Errorf("save observation: %w", err)
	}

	out := sentiment.NewContentOutput{Observation: obs}

	if score < brandAttackScoreCutoff && input.AuthorFollowers > brandAttackFollowerCutoff {
		channels := crisisChannels(model.SeverityCritical)
		alert := model.CrisisAlert{
			ID:          uuid.NewString(),
			WorkspaceID: input.WorkspaceID,
			AlertType:   model.CrisisBrandAttack,
			Severity:    model.SeverityCritical,
			Title:       "Potential brand attack detected",
			Description: fmt.Sprintf("Hostile content (score %.2f) from an account with %d followers on %s",
				score, input.AuthorFollowers, input.Platform),
			TriggerMetric:     "content_score",
			CurrentValue:      score,
			ThresholdValue:    brandAttackScoreCutoff,
			NotificationsSent: notificationsSentFor(channels),
			CreatedAt:         obs.ObservedAt,
		}

		if err := uc.repo.SaveCrisisAlert(ctx, alert); err != nil {
			uc.l.Errorf(ctx, "internal.sentiment.analyze: save brand-attack alert: %v", err)
		} else {
			out.Alert = &alert
			uc.notify(ctx, model.NotificationData{
				ID:          uuid.NewString(),
				Type:        "crisis_alert",
				Title:       alert.Title,
				Message:     alert.Description,
				UserID:      input.UserID,
				WorkspaceID: null.StringFrom(input.WorkspaceID),
				Priority:    model.PriorityCritical,
				Category:    "sentiment",
				Metadata: map[string]any{
					"alert_id":         alert.ID,
					"alert_type":       string(model.CrisisBrandAttack),
					"score":            score,
					"author_followers": input.AuthorFollowers,
					"platform":         input.Platform,
				},
				CreatedAt: obs.ObservedAt,
			}, channels)
		}
	}

	return out, nil
}
