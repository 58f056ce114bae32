package usecase

import (
	"context"
	"fmt"
	"time"

	"jobs-srv/internal/job"
	"jobs-srv/internal/queue"
)

const (
	retryBackoffBase = time.Second
	retryBackoffMax  = time.Minute
)

func (m *implManager) CreateWorker(queueName string, concurrency int) error {
	if concurrency <= 0 {
		return queue.ErrInvalidConcurrency
	}

	q := m.getOrCreateQueue(queueName)

	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.processors) == 0 {
		return fmt.Errorf("queue %s: %w", queueName, queue.ErrNoProcessor)
	}
	if q.workerStarted {
		return fmt.Errorf("queue %s: %w", queueName, queue.ErrWorkerExists)
	}

	q.workerStarted = true
	q.concurrency = concurrency
	for i := 0; i < concurrency; i++ {
		q.wg.Add(1)
		go m.runWorker(q)
	}
	return nil
}

// runWorker is one concurrency slot: pull a job, run its processor, settle
// the result, repeat until the queue stops and drains.
func (m *implManager) runWorker(q *queueState) {
	defer q.wg.Done()
	ctx := context.Background()

	for {
		q.mu.Lock()
		rec := q.popWaiting()
		for rec == nil && !q.stopped {
			q.cond.Wait()
			rec = q.popWaiting()
		}
		if rec == nil {
			q.mu.Unlock()
			return
		}

		rec.state = queue.StateActive
		rec.attemptsMade++
		q.activeCount++

		fn, ok := q.processors[rec.job.Kind]
		jcopy := rec.job
		jcopy.AttemptsMade = rec.attemptsMade
		jcopy.MaxAttempts = rec.maxAttempts
		q.mu.Unlock()

		var (
			res job.Result
			err error
		)
		if !ok {
			// The kind set is closed at wiring time; reaching this means a
			// job was enqueued for a kind nobody registered.
			err = job.NewInfrastructureError("no_processor",
				fmt.Sprintf("no processor for kind %s on queue %s", rec.job.Kind, q.name), nil)
		} else {
			res, err = m.invoke(ctx, fn, jcopy)
		}

		m.settle(ctx, q, rec, res, err)
	}
}

// invoke runs the processor with panic containment so a crashing processor
// degrades into a failed job instead of taking the worker down.
func (m *implManager) invoke(ctx context.Context, fn job.ProcessorFunc, j job.Job) (res job.Result, err error) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			m.l.Errorf(ctx, "internal.queue.worker.invoke: panic in processor for %s: %v", j.ID, r)
			err = job.NewJobError("processor_panic", fmt.Sprintf("panic: %v", r), nil)
		}
		if res.Metrics.Timestamp.IsZero() {
			res.Metrics = job.Metrics{Duration: time.Since(start), Timestamp: m.clk.Now()}
		}
	}()

	return fn(ctx, j)
}

// settle applies the outcome of one attempt under the queue lock.
func (m *implManager) settle(ctx context.Context, q *queueState, rec *jobRecord, res job.Result, err error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.activeCount--

	if err == nil {
		rec.result = &res
		m.finalizeLocked(q, rec, queue.StateCompleted)
		return
	}

	if gate, ok := job.AsGateRejection(err); ok {
		// Deferred execution, not a failure: the attempt is refunded and the
		// job sleeps until the gate opens.
		rec.attemptsMade--
		if q.stopped {
			rec.state = queue.StateCancelled
			rec.finishedAt = m.clk.Now()
			return
		}
		delay := gate.RetryAt.Sub(m.clk.Now())
		if delay < 0 {
			delay = 0
		}
		m.l.Infof(ctx, "internal.queue.worker.settle: job %s gated until %s", rec.job.ID, gate.RetryAt.Format(time.RFC3339))
		rec.state = queue.StateDelayed
		rec.timer = time.AfterFunc(delay, func() { m.promote(q, rec) })
		return
	}

	rec.lastErr = err
	if rec.attemptsMade >= rec.maxAttempts || q.stopped {
		m.l.Errorf(ctx, "internal.queue.worker.settle: job %s failed after %d attempts: %v", rec.job.ID, rec.attemptsMade, err)
		m.finalizeLocked(q, rec, queue.StateFailed)
		return
	}

	backoff := retryBackoffBase << (rec.attemptsMade - 1)
	if backoff > retryBackoffMax {
		backoff = retryBackoffMax
	}
	m.l.Warnf(ctx, "internal.queue.worker.settle: job %s attempt %d/%d failed, retrying in %s: %v",
		rec.job.ID, rec.attemptsMade, rec.maxAttempts, backoff, err)
	rec.state = queue.StateDelayed
	rec.timer = time.AfterFunc(backoff, func() { m.promote(q, rec) })
}

// finalizeLocked moves a record to a terminal state and applies retention.
// Caller holds q.mu.
func (m *implManager) finalizeLocked(q *queueState, rec *jobRecord, state queue.State) {
	rec.state = state
	rec.finishedAt = m.clk.Now()

	switch state {
	case queue.StateCompleted:
		q.completedTotal++
		if rec.opts.RemoveOnComplete {
			delete(q.jobs, rec.job.ID)
		}
	case queue.StateFailed:
		q.failedTotal++
		if rec.opts.RemoveOnFail {
			delete(q.jobs, rec.job.ID)
		}
	}
}
