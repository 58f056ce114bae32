package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"jobs-srv/internal/model"
	"jobs-srv/internal/sentiment"

	"github.com/friendsofgo/errors"
)

func (r *implRepository) SaveCrisisAlert(ctx context.Context, alert model.CrisisAlert) error {
	sent, err := json.Marshal(alert.NotificationsSent)
	if err != nil {
		return errors.Wrap(err, "marshal notifications_sent")
	}

	const query = `
		INSERT INTO crisis_alerts
			(id, workspace_id, rule_id, alert_type, severity, title, description,
			 trigger_metric, current_value, threshold_value, timeframe_seconds,
			 notifications_sent, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`

	_, err = r.db.ExecContext(ctx, query,
		alert.ID, alert.WorkspaceID, alert.RuleID, alert.AlertType, alert.Severity,
		alert.Title, alert.Description, alert.TriggerMetric,
		alert.CurrentValue, alert.ThresholdValue, int64(alert.Timeframe/time.Second),
		sent, alert.CreatedAt)
	if err != nil {
		r.l.Errorf(ctx, "internal.sentiment.repository.postgres.SaveCrisisAlert.Exec: %v", err)
		return errors.Wrap(err, "insert crisis alert")
	}

	return nil
}

func (r *implRepository) LatestAlert(ctx context.Context, workspaceID string, alertType model.CrisisType) (model.CrisisAlert, error) {
	const query = `
		SELECT id, workspace_id, rule_id, alert_type, severity, title, description,
		       trigger_metric, current_value, threshold_value, timeframe_seconds,
		       notifications_sent, created_at
		FROM crisis_alerts
		WHERE workspace_id = $1 AND alert_type = $2
		ORDER BY created_at DESC
		LIMIT 1`

	var (
		alert            model.CrisisAlert
		timeframeSeconds int64
		sent             []byte
	)
	err := r.db.QueryRowContext(ctx, query, workspaceID, alertType).Scan(
		&alert.ID, &alert.WorkspaceID, &alert.RuleID, &alert.AlertType, &alert.Severity,
		&alert.Title, &alert.Description, &alert.TriggerMetric,
		&alert.CurrentValue, &alert.ThresholdValue, &timeframeSeconds,
		&sent, &alert.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return model.CrisisAlert{}, sentiment.ErrNotFound
		}
		r.l.Errorf(ctx, "internal.sentiment.repository.postgres.LatestAlert.Scan: %v", err)
		return model.CrisisAlert{}, errors.Wrap(err, "select latest crisis alert")
	}

	alert.Timeframe = time.Duration(timeframeSeconds) * time.Second
	if len(sent) > 0 {
		if err := json.Unmarshal(sent, &alert.NotificationsSent); err != nil {
			return model.CrisisAlert{}, errors.Wrap(err, "unmarshal notifications_sent")
		}
	}

	return alert, nil
}
