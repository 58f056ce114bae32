package usecase

import (
	"context"
	"fmt"

	"jobs-srv/internal/model"
	"jobs-srv/internal/sentiment"
)

// Mood and trend classification cutoffs over trend-row averages.
const (
	moodPositiveCutoff = 0.2
	moodNegativeCutoff = -0.2
	mixedShareCutoff   = 0.3
	trendDeltaCutoff   = 0.1
)

const moodWindowDays = 7

// moodKey indexes the fixed recommendation table.
type moodKey struct {
	mood  sentiment.Mood
	trend sentiment.TrendDirection
}

var recommendations = map[moodKey][]string{
	{sentiment.MoodPositive, sentiment.TrendImproving}: {
		"Double down on the formats driving the positive response",
		"Capture testimonials and user stories while goodwill is high",
	},
	{sentiment.MoodPositive, sentiment.TrendStable}: {
		"Maintain the current posting cadence",
		"Experiment with one new format per week to keep momentum",
	},
	{sentiment.MoodPositive, sentiment.TrendDeclining}: {
		"Revisit what changed in recent posts; early goodwill is eroding",
		"Re-engage your most active commenters before the dip deepens",
	},
	{sentiment.MoodNegative, sentiment.TrendImproving}: {
		"Recovery is underway; keep responding publicly to complaints",
		"Publish the fixes and improvements your audience asked for",
	},
	{sentiment.MoodNegative, sentiment.TrendStable}: {
		"Address the recurring complaints head-on with a dedicated post",
		"Pause promotional content until sentiment recovers",
	},
	{sentiment.MoodNegative, sentiment.TrendDeclining}: {
		"Treat this as an escalating situation: respond within the hour",
		"Prepare a public statement covering the dominant negative topics",
	},
	{sentiment.MoodNeutral, sentiment.TrendImproving}: {
		"Lean into the content that started moving sentiment upward",
	},
	{sentiment.MoodNeutral, sentiment.TrendStable}: {
		"Introduce stronger calls to action; the audience is passive",
		"Test emotionally resonant content to break the flatline",
	},
	{sentiment.MoodNeutral, sentiment.TrendDeclining}: {
		"Audit recent content for tone-deaf messaging before it turns negative",
	},
	{sentiment.MoodMixed, sentiment.TrendImproving}: {
		"Amplify the segments responding well; isolate the detractor topics",
	},
	{sentiment.MoodMixed, sentiment.TrendStable}: {
		"Split your strategy: nurture advocates, answer critics separately",
	},
	{sentiment.MoodMixed, sentiment.TrendDeclining}: {
		"Identify which audience segment is souring and engage it directly",
	},
}

// MoodRecommendations classifies the last week of workspace-wide trend rows
// into a mood and direction and returns the matching strategy suggestions.
func (uc *implUseCase) MoodRecommendations(ctx context.Context, workspaceID string) (sentiment.MoodReport, error) {
	rows, err := uc.repo.ListRecentTrends(ctx, workspaceID, moodWindowDays)
	if err != nil {
		return sentiment.MoodReport{}, fmt.Errorf("list recent trends: %w", err)
	}
	if len(rows) == 0 {
		return sentiment.MoodReport{}, sentiment.ErrNoTrendData
	}

	latest := rows[0]
	oldest := rows[len(rows)-1]

	report := sentiment.MoodReport{
		CurrentMood: classifyMood(latest),
		Trend:       classifyTrend(latest, oldest, len(rows)),
	}
	report.Recommendations = recommendations[moodKey{report.CurrentMood, report.Trend}]
	report.Insights = buildInsights(latest)
	return report, nil
}

func classifyMood(latest model.SentimentTrend) sentiment.Mood {
	switch {
	case latest.AvgSentiment >= moodPositiveCutoff:
		return sentiment.MoodPositive
	case latest.AvgSentiment <= moodNegativeCutoff:
		return sentiment.MoodNegative
	}

	// Near-zero average with substantial mass on both sides is polarization,
	// not indifference.
	if latest.TotalMentions > 0 {
		pos := float64(latest.PositiveCount) / float64(latest.TotalMentions)
		neg := float64(latest.NegativeCount) / float64(latest.TotalMentions)
		if pos >= mixedShareCutoff && neg >= mixedShareCutoff {
			return sentiment.MoodMixed
		}
	}
	return sentiment.MoodNeutral
}

func classifyTrend(latest, oldest model.SentimentTrend, rowCount int) sentiment.TrendDirection {
	if rowCount < 2 {
		return sentiment.TrendStable
	}
	delta := latest.AvgSentiment - oldest.AvgSentiment
	switch {
	case delta >= trendDeltaCutoff:
		return sentiment.TrendImproving
	case delta <= -trendDeltaCutoff:
		return sentiment.TrendDeclining
	default:
		return sentiment.TrendStable
	}
}

func buildInsights(latest model.SentimentTrend) []string {
	var insights []string

	switch {
	case latest.SentimentChange > 0:
		insights = append(insights, fmt.Sprintf("Sentiment improved %.2f points since yesterday", latest.SentimentChange))
	case latest.SentimentChange < 0:
		insights = append(insights, fmt.Sprintf("Sentiment dropped %.2f points since yesterday", -latest.SentimentChange))
	}

	switch {
	case latest.VolumeChange > 0:
		insights = append(insights, fmt.Sprintf("Mention volume up %.0f%% day over day", latest.VolumeChange))
	case latest.VolumeChange < 0:
		insights = append(insights, fmt.Sprintf("Mention volume down %.0f%% day over day", -latest.VolumeChange))
	}

	if len(latest.TopPositiveTopics) > 0 {
		insights = append(insights, fmt.Sprintf("Audiences respond well to: %s", joinTopics(latest.TopPositiveTopics)))
	}
	if len(latest.TopNegativeTopics) > 0 {
		insights = append(insights, fmt.Sprintf("Friction concentrates around: %s", joinTopics(latest.TopNegativeTopics)))
	}

	return insights
}

func joinTopics(topics []string) string {
	out := ""
	for i, t := range topics {
		if i > 0 {
			out += ", "
		}
		out += t
	}
	return out
}
