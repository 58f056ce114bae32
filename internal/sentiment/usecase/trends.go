package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"jobs-srv/internal/model"
	"jobs-srv/internal/sentiment"

	"github.com/aarondl/null/v8"
)

const topTopicCount = 3

// UpdateSentimentTrends recomputes today's aggregate for every platform seen
// today plus the workspace-wide row, and upserts them. Change fields are
// deltas against yesterday's row for the same key.
func (uc *implUseCase) UpdateSentimentTrends(ctx context.Context, workspaceID string) error {
	now := uc.clk.Now().UTC()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	obs, err := uc.repo.ListObservations(ctx, workspaceID, dayStart, now)
	if err != nil {
		return fmt.Errorf("list today's observations: %w", err)
	}
	if len(obs) == 0 {
		uc.l.Debugf(ctx, "internal.sentiment.trends: workspace %s has no observations today", workspaceID)
		return nil
	}

	byPlatform := make(map[string][]model.Observation)
	for _, o := range obs {
		byPlatform[o.Platform] = append(byPlatform[o.Platform], o)
	}

	for platform, platformObs := range byPlatform {
		trend := uc.buildTrend(ctx, workspaceID, dayStart, null.StringFrom(platform), platformObs)
		if err := uc.repo.UpsertTrend(ctx, trend); err != nil {
			return fmt.Errorf("upsert %s trend: %w", platform, err)
		}
	}

	// The null-platform row aggregates the whole workspace.
	workspaceTrend := uc.buildTrend(ctx, workspaceID, dayStart, null.String{}, obs)
	if err := uc.repo.UpsertTrend(ctx, workspaceTrend); err != nil {
		return fmt.Errorf("upsert workspace trend: %w", err)
	}

	uc.l.Infof(ctx, "internal.sentiment.trends: workspace %s upserted %d platform rows + workspace row",
		workspaceID, len(byPlatform))
	return nil
}

func (uc *implUseCase) buildTrend(ctx context.Context, workspaceID string, date time.Time, platform null.String, obs []model.Observation) model.SentimentTrend {
	stats := computeStats(obs)

	trend := model.SentimentTrend{
		WorkspaceID:       workspaceID,
		Date:              date,
		Platform:          platform,
		TotalMentions:     stats.TotalCount,
		AvgSentiment:      stats.AvgSentiment,
		PositiveCount:     stats.PositiveCount,
		NegativeCount:     stats.NegativeCount,
		NeutralCount:      stats.NeutralCount,
		TopPositiveTopics: topTopics(obs, true),
		TopNegativeTopics: topTopics(obs, false),
	}

	prev, err := uc.repo.GetTrend(ctx, workspaceID, date.AddDate(0, 0, -1), platform)
	switch {
	case err == nil:
		trend.SentimentChange = stats.AvgSentiment - prev.AvgSentiment
		base := prev.TotalMentions
		if base < 1 {
			base = 1
		}
		trend.VolumeChange = float64(stats.TotalCount-prev.TotalMentions) / float64(base) * 100
	case errors.Is(err, sentiment.ErrNotFound):
		// First day for this key; change fields stay zero.
	default:
		uc.l.Warnf(ctx, "internal.sentiment.trends: previous-day lookup: %v", err)
	}

	return trend
}

// topTopics ranks topic frequency among positively or negatively classified
// observations.
func topTopics(obs []model.Observation, positive bool) []string {
	counts := make(map[string]int)
	for _, o := range obs {
		if positive && o.Score <= sentiment.PositiveCutoff {
			continue
		}
		if !positive && o.Score >= sentiment.NegativeCutoff {
			continue
		}
		for _, t := range o.Topics {
			counts[t]++
		}
	}
	if len(counts) == 0 {
		return nil
	}

	topics := make([]string, 0, len(counts))
	for t := range counts {
		topics = append(topics, t)
	}
	sort.Slice(topics, func(i, j int) bool {
		if counts[topics[i]] != counts[topics[j]] {
			return counts[topics[i]] > counts[topics[j]]
		}
		return topics[i] < topics[j]
	})

	if len(topics) > topTopicCount {
		topics = topics[:topTopicCount]
	}
	return topics
}
