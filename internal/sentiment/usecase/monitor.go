package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"jobs-srv/internal/model"
	"jobs-srv/internal/sentiment"

	"github.com/aarondl/null/v8"
	"github.com/google/uuid"
)

// currentWindow is the width of the "now" observation window every rule is
// evaluated against.
const currentWindow = time.Hour

// MonitorWorkspace runs one evaluation pass. Each triggered rule yields at
// most one crisis alert; a rule whose crisis type already alerted within its
// own timeframe is skipped (cooldown).
func (uc *implUseCase) MonitorWorkspace(ctx context.Context, input sentiment.MonitorInput) ([]model.CrisisAlert, error) {
	now := uc.clk.Now()
	windowStart := now.Add(-currentWindow)

	currentObs, err := uc.repo.ListObservations(ctx, input.WorkspaceID, windowStart, now)
	if err != nil {
		return nil, fmt.Errorf("list current observations: %w", err)
	}
	current := computeStats(currentObs)

	rules, err := uc.repo.ListActiveRules(ctx, input.WorkspaceID)
	if err != nil {
		return nil, fmt.Errorf("list alert rules: %w", err)
	}

	var raised []model.CrisisAlert
	for _, rule := range rules {
		comparisonStart := windowStart.Add(-2 * rule.Timeframe)
		comparisonObs, err := uc.repo.ListObservations(ctx, input.WorkspaceID, comparisonStart, windowStart)
		if err != nil {
			uc.l.Errorf(ctx, "internal.sentiment.monitor: comparison window for rule %s: %v", rule.ID, err)
			continue
		}
		comparison := computeStats(comparisonObs)

		currentValue, triggered := evaluateRule(rule, current, comparison)
		if !triggered {
			continue
		}

		alert, ok := uc.raiseAlert(ctx, input, rule, currentValue, now)
		if ok {
			raised = append(raised, alert)
		}
	}

	uc.l.Infof(ctx, "internal.sentiment.monitor: workspace %s evaluated %d rules, raised %d alerts",
		input.WorkspaceID, len(rules), len(raised))
	return raised, nil
}

// evaluateRule returns the measured value for the rule's metric and whether
// it crossed the threshold.
func evaluateRule(rule model.AlertRule, current, comparison sentiment.WindowStats) (float64, bool) {
	switch rule.Type {
	case model.RuleSentimentDrop:
		delta := current.AvgSentiment - comparison.AvgSentiment
		return delta, delta <= rule.Threshold
	case model.RuleVolumeSurge:
		base := comparison.TotalCount
		if base < 1 {
			base = 1
		}
		ratio := float64(current.TotalCount) / float64(base)
		return ratio, ratio >= rule.Threshold
	case model.RuleNegativeSpike:
		return current.NegativeRatio, current.NegativeRatio >= rule.Threshold
	default:
		return 0, false
	}
}

// raiseAlert persists and notifies one crisis alert unless its type is still
// cooling down.
func (uc *implUseCase) raiseAlert(ctx context.Context, input sentiment.MonitorInput, rule model.AlertRule, currentValue float64, now time.Time) (model.CrisisAlert, bool) {
	crisisType := crisisTypeFor(rule.Type)

	last, err := uc.repo.LatestAlert(ctx, input.WorkspaceID, crisisType)
	switch {
	case err == nil:
		if now.Sub(last.CreatedAt) < rule.Timeframe {
			uc.l.Debugf(ctx, "internal.sentiment.monitor: %s still cooling down for workspace %s", crisisType, input.WorkspaceID)
			return model.CrisisAlert{}, false
		}
	case !errors.Is(err, sentiment.ErrNotFound):
		uc.l.Errorf(ctx, "internal.sentiment.monitor: cooldown lookup for %s: %v", crisisType, err)
		return model.CrisisAlert{}, false
	}

	severity := severityFor(currentValue, rule.Threshold)
	channels := crisisChannels(severity)
	alert := model.CrisisAlert{
		ID:                uuid.NewString(),
		WorkspaceID:       input.WorkspaceID,
		RuleID:            null.StringFrom(rule.ID),
		AlertType:         crisisType,
		Severity:          severity,
		Title:             alertTitle(crisisType),
		Description:       alertDescription(rule, currentValue),
		TriggerMetric:     string(rule.Type),
		CurrentValue:      currentValue,
		ThresholdValue:    rule.Threshold,
		Timeframe:         rule.Timeframe,
		NotificationsSent: notificationsSentFor(channels),
		CreatedAt:         now,
	}

	if err := uc.repo.SaveCrisisAlert(ctx, alert); err != nil {
		uc.l.Errorf(ctx, "internal.sentiment.monitor: save alert for rule %s: %v", rule.ID, err)
		return model.CrisisAlert{}, false
	}

	uc.notify(ctx, model.NotificationData{
		ID:          uuid.NewString(),
		Type:        "crisis_alert",
		Title:       alert.Title,
		Message:     alert.Description,
		UserID:      input.UserID,
		WorkspaceID: null.StringFrom(input.WorkspaceID),
		Priority:    priorityFor(severity),
		Category:    "sentiment",
		Metadata: map[string]any{
			"alert_id":   alert.ID,
			"alert_type": string(crisisType),
			"severity":   string(severity),
			"current":    currentValue,
			"threshold":  rule.Threshold,
		},
		CreatedAt: now,
	}, channels)

	return alert, true
}

func alertTitle(t model.CrisisType) string {
	switch t {
	case model.CrisisSentimentDrop:
		return "Sentiment drop detected"
	case model.CrisisVolumeSurge:
		return "Mention volume surge detected"
	case model.CrisisNegativeSpike:
		return "Negative mention spike detected"
	default:
		return "Unrecognized alert condition triggered"
	}
}

func alertDescription(rule model.AlertRule, currentValue float64) string {
	return fmt.Sprintf("%s crossed its threshold: measured %.3f against %.3f over the last %s",
		rule.Type, currentValue, rule.Threshold, rule.Timeframe)
}

func (uc *implUseCase) notify(ctx context.Context, n model.NotificationData, channels []model.Channel) {
	if err := uc.notifier.Notify(ctx, n, channels); err != nil {
		uc.l.Warnf(ctx, "internal.sentiment: notification %s not scheduled: %v", n.Type, err)
	}
}
