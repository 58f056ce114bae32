package postgres

import (
	"context"
	"database/sql"
	"time"

	"jobs-srv/internal/model"
	"jobs-srv/internal/sentiment"

	"github.com/aarondl/null/v8"
	"github.com/friendsofgo/errors"
	"github.com/lib/pq"
)

// UpsertTrend relies on the unique index over (workspace_id, date, platform);
// the COALESCE keeps the null-platform workspace row a single conflict
// target.
func (r *implRepository) UpsertTrend(ctx context.Context, trend model.SentimentTrend) error {
	const query = `
		INSERT INTO sentiment_trends
			(workspace_id, date, platform, total_mentions, avg_sentiment,
			 positive_count, negative_count, neutral_count,
			 sentiment_change, volume_change, top_positive_topics, top_negative_topics)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (workspace_id, date, COALESCE(platform, ''))
		DO UPDATE SET
			total_mentions = EXCLUDED.total_mentions,
			avg_sentiment = EXCLUDED.avg_sentiment,
			positive_count = EXCLUDED.positive_count,
			negative_count = EXCLUDED.negative_count,
			neutral_count = EXCLUDED.neutral_count,
			sentiment_change = EXCLUDED.sentiment_change,
			volume_change = EXCLUDED.volume_change,
			top_positive_topics = EXCLUDED.top_positive_topics,
			top_negative_topics = EXCLUDED.top_negative_topics`

	_, err := r.db.ExecContext(ctx, query,
		trend.WorkspaceID, trend.Date, trend.Platform,
		trend.TotalMentions, trend.AvgSentiment,
		trend.PositiveCount, trend.NegativeCount, trend.NeutralCount,
		trend.SentimentChange, trend.VolumeChange,
		pq.Array(trend.TopPositiveTopics), pq.Array(trend.TopNegativeTopics))
	if err != nil {
		r.l.Errorf(ctx, "internal.sentiment.repository.postgres.UpsertTrend.Exec: %v", err)
		return errors.Wrap(err, "upsert sentiment trend")
	}

	return nil
}

func (r *implRepository) GetTrend(ctx context.Context, workspaceID string, date time.Time, platform null.String) (model.SentimentTrend, error) {
	const query = `
		SELECT workspace_id, date, platform, total_mentions, avg_sentiment,
		       positive_count, negative_count, neutral_count,
		       sentiment_change, volume_change, top_positive_topics, top_negative_topics
		FROM sentiment_trends
		WHERE workspace_id = $1 AND date = $2 AND COALESCE(platform, '') = COALESCE($3, '')`

	trend, err := scanTrend(r.db.QueryRowContext(ctx, query, workspaceID, date, platform))
	if err != nil {
		if err == sql.ErrNoRows {
			return model.SentimentTrend{}, sentiment.ErrNotFound
		}
		r.l.Errorf(ctx, "internal.sentiment.repository.postgres.GetTrend.Scan: %v", err)
		return model.SentimentTrend{}, errors.Wrap(err, "select sentiment trend")
	}

	return trend, nil
}

func (r *implRepository) ListRecentTrends(ctx context.Context, workspaceID string, limit int) ([]model.SentimentTrend, error) {
	const query = `
		SELECT workspace_id, date, platform, total_mentions, avg_sentiment,
		       positive_count, negative_count, neutral_count,
		       sentiment_change, volume_change, top_positive_topics, top_negative_topics
		FROM sentiment_trends
		WHERE workspace_id = $1 AND platform IS NULL
		ORDER BY date DESC
		LIMIT $2`

	rows, err := r.db.QueryContext(ctx, query, workspaceID, limit)
	if err != nil {
		r.l.Errorf(ctx, "internal.sentiment.repository.postgres.ListRecentTrends.Query: %v", err)
		return nil, errors.Wrap(err, "list sentiment trends")
	}
	defer rows.Close()

	var out []model.SentimentTrend
	for rows.Next() {
		trend, err := scanTrend(rows)
		if err != nil {
			r.l.Errorf(ctx, "internal.sentiment.repository.postgres.ListRecentTrends.Scan: %v", err)
			return nil, errors.Wrap(err, "scan sentiment trend")
		}
		out = append(out, trend)
	}
	if err := rows.Err(); err != nil {
		r.l.Errorf(ctx, "internal.sentiment.repository.postgres.ListRecentTrends.Rows: %v", err)
		return nil, errors.Wrap(err, "iterate sentiment trends")
	}

	return out, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTrend(row rowScanner) (model.SentimentTrend, error) {
	var trend model.SentimentTrend
	err := row.Scan(
		&trend.WorkspaceID, &trend.Date, &trend.Platform,
		&trend.TotalMentions, &trend.AvgSentiment,
		&trend.PositiveCount, &trend.NegativeCount, &trend.NeutralCount,
		&trend.SentimentChange, &trend.VolumeChange,
		pq.Array(&trend.TopPositiveTopics), pq.Array(&trend.TopNegativeTopics))
	return trend, err
}
