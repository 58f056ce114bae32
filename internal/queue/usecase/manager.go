package usecase

import (
	"context"
	"reflect"
	"time"

	"jobs-srv/internal/job"
	"jobs-srv/internal/queue"

	"github.com/google/uuid"
)

func (m *implManager) RegisterProcessor(queueName string, kind job.Kind, fn job.ProcessorFunc) error {
	if fn == nil {
		return queue.ErrNoProcessor
	}

	q := m.getOrCreateQueue(queueName)

	q.mu.Lock()
	defer q.mu.Unlock()

	if existing, ok := q.processors[kind]; ok {
		if reflect.ValueOf(existing).Pointer() == reflect.ValueOf(fn).Pointer() {
			return nil
		}
		return queue.ErrProcessorConflict
	}

	q.processors[kind] = fn
	return nil
}

func (m *implManager) AddJob(ctx context.Context, queueName string, j job.Job, opts queue.Options) (string, error) {
	m.mu.Lock()
	closed := m.closed
	m.mu.Unlock()
	if closed {
		return "", queue.ErrShuttingDown
	}

	q := m.getOrCreateQueue(queueName)

	if j.ID == "" {
		j.ID = uuid.NewString()
	}
	if j.CreatedAt.IsZero() {
		j.CreatedAt = m.clk.Now()
	}
	j.Priority = opts.Priority
	if opts.Attempts <= 0 {
		opts.Attempts = 1
	}

	if opts.Repeat != nil {
		return m.addRepeat(ctx, q, j, opts)
	}

	q.mu.Lock()
	defer q.mu.Unlock()

	if q.stopped {
		return "", queue.ErrShuttingDown
	}

	// Idempotent ids: a duplicate enqueue of a live job collapses into the
	// existing one. A terminal record with the same id is replaced.
	if existing, ok := q.jobs[j.ID]; ok && !existing.state.Terminal() {
		return j.ID, nil
	}

	rec := &jobRecord{
		job:         j,
		opts:        opts,
		maxAttempts: opts.Attempts,
		heapIndex:   -1,
	}
	q.jobs[j.ID] = rec

	if opts.Delay > 0 {
		rec.state = queue.StateDelayed
		rec.timer = time.AfterFunc(opts.Delay, func() { m.promote(q, rec) })
	} else {
		q.pushWaiting(rec)
	}

	return j.ID, nil
}

// promote moves a delayed job into the waiting heap once its timer fires.
func (m *implManager) promote(q *queueState, rec *jobRecord) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if rec.state != queue.StateDelayed || q.stopped {
		return
	}
	rec.timer = nil
	q.pushWaiting(rec)
}

func (m *implManager) RemoveJob(queueName, jobID string) error {
	q := m.getQueue(queueName)
	if q == nil {
		return queue.ErrQueueNotFound
	}

	q.mu.Lock()
	if def, ok := q.repeats[jobID]; ok {
		delete(q.repeats, jobID)
		q.mu.Unlock()

		m.mu.Lock()
		m.cron.Remove(def.entryID)
		m.mu.Unlock()
		return nil
	}

	rec, ok := q.jobs[jobID]
	if !ok {
		q.mu.Unlock()
		return queue.ErrJobNotFound
	}

	switch rec.state {
	case queue.StateWaiting:
		// Left in the heap; popWaiting drops it lazily.
		rec.state = queue.StateCancelled
		rec.finishedAt = m.clk.Now()
	case queue.StateDelayed:
		if rec.timer != nil {
			rec.timer.Stop()
			rec.timer = nil
		}
		rec.state = queue.StateCancelled
		rec.finishedAt = m.clk.Now()
	default:
		// Active or terminal: best-effort cancellation only, not an error.
	}
	q.mu.Unlock()
	return nil
}

func (m *implManager) RetryJob(queueName, jobID string) error {
	q := m.getQueue(queueName)
	if q == nil {
		return queue.ErrQueueNotFound
	}

	q.mu.Lock()
	defer q.mu.Unlock()

	rec, ok := q.jobs[jobID]
	if !ok {
		return queue.ErrJobNotFound
	}
	if rec.state != queue.StateFailed {
		return queue.ErrJobNotFailed
	}
	if q.stopped {
		return queue.ErrShuttingDown
	}

	// A manual retry starts over with a fresh attempt budget. The failed
	// counter is not rolled back; the retried run is a new execution.
	rec.attemptsMade = 0
	rec.lastErr = nil
	rec.finishedAt = time.Time{}
	q.pushWaiting(rec)
	return nil
}

func (m *implManager) JobState(queueName, jobID string) (queue.State, error) {
	q := m.getQueue(queueName)
	if q == nil {
		return "", queue.ErrQueueNotFound
	}

	q.mu.Lock()
	defer q.mu.Unlock()

	rec, ok := q.jobs[jobID]
	if !ok {
		return "", queue.ErrJobNotFound
	}
	return rec.state, nil
}

func (m *implManager) GetAllQueueStats() map[string]queue.Stats {
	stats := make(map[string]queue.Stats)
	for _, q := range m.snapshotQueues() {
		q.mu.Lock()
		s := queue.Stats{
			Active:    q.activeCount,
			Completed: q.completedTotal,
			Failed:    q.failedTotal,
		}
		for _, rec := range q.jobs {
			if rec.state == queue.StateWaiting || rec.state == queue.StateDelayed {
				s.Waiting++
			}
		}
		q.mu.Unlock()
		stats[q.name] = s
	}
	return stats
}

func (m *implManager) CleanStale(maxAge time.Duration) int {
	cutoff := m.clk.Now().Add(-maxAge)
	removed := 0

	for _, q := range m.snapshotQueues() {
		q.mu.Lock()
		for id, rec := range q.jobs {
			if rec.state.Terminal() && !rec.finishedAt.IsZero() && rec.finishedAt.Before(cutoff) {
				delete(q.jobs, id)
				removed++
			}
		}
		q.mu.Unlock()
	}
	return removed
}

func (m *implManager) Shutdown(ctx context.Context) error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return nil
	}
	m.closed = true
	cronCtx := m.cron.Stop()
	m.mu.Unlock()

	for _, q := range m.snapshotQueues() {
		q.mu.Lock()
		q.stopped = true
		for _, rec := range q.jobs {
			if rec.state == queue.StateDelayed && rec.timer != nil {
				rec.timer.Stop()
				rec.timer = nil
			}
		}
		q.cond.Broadcast()
		q.mu.Unlock()
	}

	done := make(chan struct{})
	go func() {
		<-cronCtx.Done()
		for _, q := range m.snapshotQueues() {
			q.wg.Wait()
		}
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
