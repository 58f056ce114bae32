package usecase

import (
	"context"
	"fmt"

	"jobs-srv/internal/job"
	"jobs-srv/internal/queue"

	"github.com/robfig/cron/v3"
)

// addRepeat installs a recurring definition. The returned id identifies the
// definition itself, not any single execution; each cron activation enqueues
// a fresh instance with a tick-stamped id.
func (m *implManager) addRepeat(ctx context.Context, q *queueState, j job.Job, opts queue.Options) (string, error) {
	pattern := opts.Repeat.Pattern
	if _, err := cron.ParseStandard(pattern); err != nil {
		return "", fmt.Errorf("%w %q: %v", queue.ErrInvalidCron, pattern, err)
	}

	var stale *repeatDef
	q.mu.Lock()
	if q.stopped {
		q.mu.Unlock()
		return "", queue.ErrShuttingDown
	}
	if def, ok := q.repeats[j.ID]; ok {
		if def.pattern == pattern {
			q.mu.Unlock()
			return j.ID, nil
		}
		// Same id, new pattern: replace the old schedule.
		delete(q.repeats, j.ID)
		stale = def
	}
	q.mu.Unlock()

	if stale != nil {
		m.mu.Lock()
		m.cron.Remove(stale.entryID)
		m.mu.Unlock()
	}

	template := j
	instOpts := opts
	instOpts.Repeat = nil

	m.mu.Lock()
	entryID, err := m.cron.AddFunc(pattern, func() {
		tick := m.clk.Now()
		instance := template
		instance.ID = fmt.Sprintf("%s:%d", template.ID, tick.Unix())
		instance.CreatedAt = tick

		if _, addErr := m.AddJob(context.Background(), q.name, instance, instOpts); addErr != nil {
			m.l.Errorf(context.Background(), "internal.queue.repeat: enqueue tick of %s: %v", template.ID, addErr)
		}
	})
	if err != nil {
		m.mu.Unlock()
		return "", fmt.Errorf("%w %q: %v", queue.ErrInvalidCron, pattern, err)
	}
	m.cron.Start()
	m.mu.Unlock()

	q.mu.Lock()
	q.repeats[j.ID] = &repeatDef{id: j.ID, pattern: pattern, entryID: entryID}
	q.mu.Unlock()

	m.l.Infof(ctx, "internal.queue.repeat: installed %s on %s with pattern %q", j.ID, q.name, pattern)
	return j.ID, nil
}
