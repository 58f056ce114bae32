package postgres

import (
	"context"
	"time"

	"jobs-srv/internal/model"

	"github.com/friendsofgo/errors"
)

func (r *implRepository) ListActiveRules(ctx context.Context, workspaceID string) ([]model.AlertRule, error) {
	const query = `
		SELECT id, workspace_id, rule_type, threshold, timeframe_seconds, is_active
		FROM alert_rules
		WHERE workspace_id = $1 AND is_active = TRUE
		ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query, workspaceID)
	if err != nil {
		r.l.Errorf(ctx, "internal.sentiment.repository.postgres.ListActiveRules.Query: %v", err)
		return nil, errors.Wrap(err, "list alert rules")
	}
	defer rows.Close()

	var out []model.AlertRule
	for rows.Next() {
		var rule model.AlertRule
		var timeframeSeconds int64
		if err := rows.Scan(&rule.ID, &rule.WorkspaceID, &rule.Type,
			&rule.Threshold, &timeframeSeconds, &rule.IsActive); err != nil {
			r.l.Errorf(ctx, "internal.sentiment.repository.postgres.ListActiveRules.Scan: %v", err)
			return nil, errors.Wrap(err, "scan alert rule")
		}
		rule.Timeframe = time.Duration(timeframeSeconds) * time.Second
		out = append(out, rule)
	}
	if err := rows.Err(); err != nil {
		r.l.Errorf(ctx, "internal.sentiment.repository.postgres.ListActiveRules.Rows: %v", err)
		return nil, errors.Wrap(err, "iterate alert rules")
	}

	return out, nil
}
