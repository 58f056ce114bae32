package usecase

import (
	"jobs-srv/internal/model"
	"jobs-srv/internal/sentiment"
)

// computeStats aggregates one observation window.
func computeStats(obs []model.Observation) sentiment.WindowStats {
	stats := sentiment.WindowStats{TotalCount: len(obs)}
	if len(obs) == 0 {
		return stats
	}

	var sum float64
	for _, o := range obs {
		sum += o.Score
		switch {
		case o.Score > sentiment.PositiveCutoff:
			stats.PositiveCount++
		case o.Score < sentiment.NegativeCutoff:
			stats.NegativeCount++
		default:
			stats.NeutralCount++
		}
	}

	stats.AvgSentiment = sum / float64(len(obs))
	stats.NegativeRatio = float64(stats.NegativeCount) / float64(len(obs))
	return stats
}

// severityFor maps the distance between the measured value and the rule
// threshold onto the fixed severity bands.
func severityFor(currentValue, threshold float64) model.Severity {
	distance := currentValue - threshold
	if distance < 0 {
		distance = -distance
	}

	switch {
	case distance >= 0.8:
		return model.SeverityCritical
	case distance >= 0.6:
		return model.SeverityHigh
	case distance >= 0.3:
		return model.SeverityMedium
	default:
		return model.SeverityLow
	}
}

// crisisTypeFor maps a rule type onto its crisis category. Anything
// unrecognized lands in the explicit unknown bucket rather than being
// mistaken for a brand attack.
func crisisTypeFor(t model.RuleType) model.CrisisType {
	switch t {
	case model.RuleSentimentDrop:
		return model.CrisisSentimentDrop
	case model.RuleVolumeSurge:
		return model.CrisisVolumeSurge
	case model.RuleNegativeSpike:
		return model.CrisisNegativeSpike
	default:
		return model.CrisisUnknown
	}
}

// priorityFor translates crisis severity into notification priority.
func priorityFor(s model.Severity) model.Priority {
	switch s {
	case model.SeverityCritical:
		return model.PriorityCritical
	case model.SeverityHigh:
		return model.PriorityHigh
	case model.SeverityMedium:
		return model.PriorityMedium
	default:
		return model.PriorityLow
	}
}

// crisisChannels selects the escalation channels for a severity: in-app and
// email always, the on-call webhook from HIGH up, SMS only when CRITICAL.
func crisisChannels(s model.Severity) []model.Channel {
	channels := []model.Channel{model.ChannelInApp, model.ChannelEmail}
	switch s {
	case model.SeverityCritical:
		channels = append(channels, model.ChannelWebhook, model.ChannelSMS)
	case model.SeverityHigh:
		channels = append(channels, model.ChannelWebhook)
	}
	return channels
}

// notificationsSentFor flattens the requested channel set into the flags
// persisted on the alert row.
func notificationsSentFor(channels []model.Channel) model.NotificationsSent {
	var sent model.NotificationsSent
	for _, c := range channels {
		switch c {
		case model.ChannelEmail:
			sent.Email = true
		case model.ChannelWebhook:
			sent.Slack = true
		case model.ChannelSMS:
			sent.SMS = true
		}
	}
	return sent
}
