package inmem

import (
	"context"
	"sort"
	"sync"
	"time"

	"jobs-srv/internal/model"
	"jobs-srv/internal/sentiment"

	"github.com/aarondl/null/v8"
)

// trendKey identifies one upserted row. A null platform maps to the empty
// string, mirroring the COALESCE in the postgres implementation.
type trendKey struct {
	workspaceID string
	date        time.Time
	platform    string
}

// implRepository is a process-local sentiment.Repository for tests and
// single-node runs.
type implRepository struct {
	mu           sync.RWMutex
	observations []model.Observation
	rules        []model.AlertRule
	alerts       []model.CrisisAlert
	trends       map[trendKey]model.SentimentTrend
}

var _ sentiment.Repository = &implRepository{}

func New() *implRepository {
	return &implRepository{
		trends: make(map[trendKey]model.SentimentTrend),
	}
}

// SeedRules replaces the rule set.
func (r *implRepository) SeedRules(rules ...model.AlertRule) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rules = append([]model.AlertRule(nil), rules...)
}

func (r *implRepository) SaveObservation(ctx context.Context, obs model.Observation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.observations = append(r.observations, obs)
	return nil
}

func (r *implRepository) ListObservations(ctx context.Context, workspaceID string, from, to time.Time) ([]model.Observation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []model.Observation
	for _, o := range r.observations {
		if o.WorkspaceID != workspaceID {
			continue
		}
		if o.ObservedAt.Before(from) || !o.ObservedAt.Before(to) {
			continue
		}
		out = append(out, o)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ObservedAt.Before(out[j].ObservedAt) })
	return out, nil
}

func (r *implRepository) ListActiveRules(ctx context.Context, workspaceID string) ([]model.AlertRule, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []model.AlertRule
	for _, rule := range r.rules {
		if rule.WorkspaceID == workspaceID && rule.IsActive {
			out = append(out, rule)
		}
	}
	return out, nil
}

func (r *implRepository) SaveCrisisAlert(ctx context.Context, alert model.CrisisAlert) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.alerts = append(r.alerts, alert)
	return nil
}

func (r *implRepository) LatestAlert(ctx context.Context, workspaceID string, alertType model.CrisisType) (model.CrisisAlert, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var (
		latest model.CrisisAlert
		found  bool
	)
	for _, a := range r.alerts {
		if a.WorkspaceID != workspaceID || a.AlertType != alertType {
			continue
		}
		if !found || a.CreatedAt.After(latest.CreatedAt) {
			latest = a
			found = true
		}
	}
	if !found {
		return model.CrisisAlert{}, sentiment.ErrNotFound
	}
	return latest, nil
}

func (r *implRepository) UpsertTrend(ctx context.Context, trend model.SentimentTrend) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.trends[keyFor(trend.WorkspaceID, trend.Date, trend.Platform)] = trend
	return nil
}

func (r *implRepository) GetTrend(ctx context.Context, workspaceID string, date time.Time, platform null.String) (model.SentimentTrend, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	trend, ok := r.trends[keyFor(workspaceID, date, platform)]
	if !ok {
		return model.SentimentTrend{}, sentiment.ErrNotFound
	}
	return trend, nil
}

func (r *implRepository) ListRecentTrends(ctx context.Context, workspaceID string, limit int) ([]model.SentimentTrend, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []model.SentimentTrend
	for _, t := range r.trends {
		if t.WorkspaceID == workspaceID && !t.Platform.Valid {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func keyFor(workspaceID string, date time.Time, platform null.String) trendKey {
	return trendKey{
		workspaceID: workspaceID,
		date:        date.UTC().Truncate(24 * time.Hour),
		platform:    platform.String,
	}
}
