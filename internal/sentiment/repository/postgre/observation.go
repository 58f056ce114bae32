package postgres

import (
	"context"
	"time"

	"jobs-srv/internal/model"

	"github.com/friendsofgo/errors"
	"github.com/lib/pq"
)

func (r *implRepository) SaveObservation(ctx context.Context, obs model.Observation) error {
	const query = `
		INSERT INTO sentiment_observations
			(id, workspace_id, platform, content, score, author_followers, topics, observed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := r.db.ExecContext(ctx, query,
		obs.ID, obs.WorkspaceID, obs.Platform, obs.Content,
		obs.Score, obs.AuthorFollowers, pq.Array(obs.Topics), obs.ObservedAt)
	if err != nil {
		r.l.Errorf(ctx, "internal.sentiment.repository.postgres.SaveObservation.Exec: %v", err)
		return errors.Wrap(err, "insert sentiment observation")
	}

	return nil
}

func (r *implRepository) ListObservations(ctx context.Context, workspaceID string, from, to time.Time) ([]model.Observation, error) {
	const query = `
		SELECT id, workspace_id, platform, content, score, author_followers, topics, observed_at
		FROM sentiment_observations
		WHERE workspace_id = $1 AND observed_at >= $2 AND observed_at < $3
		ORDER BY observed_at`

	rows, err := r.db.QueryContext(ctx, query, workspaceID, from, to)
	if err != nil {
		r.l.Errorf(ctx, "internal.sentiment.repository.postgres.ListObservations.Query: %v", err)
		return nil, errors.Wrap(err, "list sentiment observations")
	}
	defer rows.Close()

	var out []model.Observation
	for rows.Next() {
		var obs model.Observation
		if err := rows.Scan(&obs.ID, &obs.WorkspaceID, &obs.Platform, &obs.Content,
			&obs.Score, &obs.AuthorFollowers, pq.Array(&obs.Topics), &obs.ObservedAt); err != nil {
			r.l.Errorf(ctx, "internal.sentiment.repository.postgres.ListObservations.Scan: %v", err)
			return nil, errors.Wrap(err, "scan sentiment observation")
		}
		out = append(out, obs)
	}
	if err := rows.Err(); err != nil {
		r.l.Errorf(ctx, "internal.sentiment.repository.postgres.ListObservations.Rows: %v", err)
		return nil, errors.Wrap(err, "iterate sentiment observations")
	}

	return out, nil
}
