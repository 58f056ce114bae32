package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"jobs-srv/internal/job"
	"jobs-srv/internal/queue"
	"jobs-srv/pkg/clock"
	"jobs-srv/pkg/log"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testQueue = "test-queue"

func newTestManager() queue.Manager {
	return New(log.NewNoop(), clock.NewRealClock())
}

func okProcessor(ctx context.Context, j job.Job) (job.Result, error) {
	return job.Result{Success: true}, nil
}

func TestRegisterProcessor(t *testing.T) {
	m := newTestManager()

	require.NoError(t, m.RegisterProcessor(testQueue, job.KindDispatch, okProcessor))

	t.Run("same function twice is a no-op", func(t *testing.T) {
		assert.NoError(t, m.RegisterProcessor(testQueue, job.KindDispatch, okProcessor))
	})

	t.Run("different function for same kind conflicts", func(t *testing.T) {
		other := func(ctx context.Context, j job.Job) (job.Result, error) {
			return job.Result{}, nil
		}
		assert.ErrorIs(t, m.RegisterProcessor(testQueue, job.KindDispatch, other), queue.ErrProcessorConflict)
	})

	t.Run("second kind on the same queue is fine", func(t *testing.T) {
		assert.NoError(t, m.RegisterProcessor(testQueue, job.KindDispatchBulk, okProcessor))
	})
}

func TestCreateWorkerRequiresProcessor(t *testing.T) {
	m := newTestManager()

	err := m.CreateWorker("empty-queue", 2)
	assert.ErrorIs(t, err, queue.ErrNoProcessor)

	require.NoError(t, m.RegisterProcessor("empty-queue", job.KindDispatch, okProcessor))
	assert.NoError(t, m.CreateWorker("empty-queue", 2))
	assert.ErrorIs(t, m.CreateWorker("empty-queue", 2), queue.ErrWorkerExists)

	assert.ErrorIs(t, m.CreateWorker("another", 0), queue.ErrInvalidConcurrency)
}

func TestAddJobCollapsesDuplicateIDs(t *testing.T) {
	m := newTestManager()
	ctx := context.Background()

	// No worker: jobs stay waiting so the collapse is observable.
	id1, err := m.AddJob(ctx, testQueue, job.Job{ID: "post_42", Kind: job.KindPublishPost}, queue.Options{})
	require.NoError(t, err)
	id2, err := m.AddJob(ctx, testQueue, job.Job{ID: "post_42", Kind: job.KindPublishPost}, queue.Options{})
	require.NoError(t, err)

	assert.Equal(t, "post_42", id1)
	assert.Equal(t, id1, id2)

	stats := m.GetAllQueueStats()
	assert.Equal(t, 1, stats[testQueue].Waiting)
}

func TestAddJobNegativeDelayRunsImmediately(t *testing.T) {
	m := newTestManager()
	ctx := context.Background()

	var ran atomic.Int32
	require.NoError(t, m.RegisterProcessor(testQueue, job.KindDispatch, func(ctx context.Context, j job.Job) (job.Result, error) {
		ran.Add(1)
		return job.Result{Success: true}, nil
	}))
	require.NoError(t, m.CreateWorker(testQueue, 1))

	_, err := m.AddJob(ctx, testQueue, job.Job{ID: "n1", Kind: job.KindDispatch}, queue.Options{Delay: -time.Hour})
	require.NoError(t, err)

	require.Eventually(t, func() bool { return ran.Load() == 1 }, 2*time.Second, 10*time.Millisecond)
}

func TestWorkerProcessesByPriority(t *testing.T) {
	m := newTestManager()
	ctx := context.Background()

	var mu sync.Mutex
	var order []string
	release := make(chan struct{})

	require.NoError(t, m.RegisterProcessor(testQueue, job.KindDispatch, func(ctx context.Context, j job.Job) (job.Result, error) {
		<-release
		mu.Lock()
		order = append(order, j.ID)
		mu.Unlock()
		return job.Result{Success: true}, nil
	}))

	// Enqueue before starting the worker so priorities decide the order.
	_, err := m.AddJob(ctx, testQueue, job.Job{ID: "low", Kind: job.KindDispatch}, queue.Options{Priority: -5})
	require.NoError(t, err)
	_, err = m.AddJob(ctx, testQueue, job.Job{ID: "high", Kind: job.KindDispatch}, queue.Options{Priority: 10})
	require.NoError(t, err)
	_, err = m.AddJob(ctx, testQueue, job.Job{ID: "mid", Kind: job.KindDispatch}, queue.Options{})
	require.NoError(t, err)

	require.NoError(t, m.CreateWorker(testQueue, 1))
	close(release)

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(order) == 3
	}, 2*time.Second, 10*time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"high", "mid", "low"}, order)
}

func TestRemoveJob(t *testing.T) {
	m := newTestManager()
	ctx := context.Background()

	t.Run("waiting job is cancelled", func(t *testing.T) {
		_, err := m.AddJob(ctx, testQueue, job.Job{ID: "w1", Kind: job.KindDispatch}, queue.Options{})
		require.NoError(t, err)

		require.NoError(t, m.RemoveJob(testQueue, "w1"))
		state, err := m.JobState(testQueue, "w1")
		require.NoError(t, err)
		assert.Equal(t, queue.StateCancelled, state)
	})

	t.Run("delayed job is cancelled", func(t *testing.T) {
		_, err := m.AddJob(ctx, testQueue, job.Job{ID: "d1", Kind: job.KindDispatch}, queue.Options{Delay: time.Hour})
		require.NoError(t, err)

		require.NoError(t, m.RemoveJob(testQueue, "d1"))
		state, err := m.JobState(testQueue, "d1")
		require.NoError(t, err)
		assert.Equal(t, queue.StateCancelled, state)
	})

	t.Run("unknown job errors", func(t *testing.T) {
		assert.ErrorIs(t, m.RemoveJob(testQueue, "nope"), queue.ErrJobNotFound)
	})

	t.Run("completed job is a no-op", func(t *testing.T) {
		m2 := newTestManager()
		require.NoError(t, m2.RegisterProcessor(testQueue, job.KindDispatch, okProcessor))
		require.NoError(t, m2.CreateWorker(testQueue, 1))

		_, err := m2.AddJob(ctx, testQueue, job.Job{ID: "c1", Kind: job.KindDispatch}, queue.Options{})
		require.NoError(t, err)

		require.Eventually(t, func() bool {
			s, err := m2.JobState(testQueue, "c1")
			return err == nil && s == queue.StateCompleted
		}, 2*time.Second, 10*time.Millisecond)

		assert.NoError(t, m2.RemoveJob(testQueue, "c1"))
	})
}

func TestRetryAfterAttemptsExhausted(t *testing.T) {
	m := newTestManager()
	ctx := context.Background()

	var calls atomic.Int32
	require.NoError(t, m.RegisterProcessor(testQueue, job.KindDispatch, func(ctx context.Context, j job.Job) (job.Result, error) {
		if calls.Add(1) <= 2 {
			return job.Result{}, job.NewJobError("boom", "transient failure", errors.New("boom"))
		}
		return job.Result{Success: true}, nil
	}))
	require.NoError(t, m.CreateWorker(testQueue, 1))

	_, err := m.AddJob(ctx, testQueue, job.Job{ID: "r1", Kind: job.KindDispatch}, queue.Options{Attempts: 2})
	require.NoError(t, err)

	// Two attempts fail (second after ~1s backoff), so the job lands failed.
	require.Eventually(t, func() bool {
		s, err := m.JobState(testQueue, "r1")
		return err == nil && s == queue.StateFailed
	}, 5*time.Second, 20*time.Millisecond)
	assert.EqualValues(t, 2, calls.Load())

	// Manual retry resets the attempt budget and succeeds on the third call.
	require.NoError(t, m.RetryJob(testQueue, "r1"))
	require.Eventually(t, func() bool {
		s, err := m.JobState(testQueue, "r1")
		return err == nil && s == queue.StateCompleted
	}, 2*time.Second, 10*time.Millisecond)

	t.Run("retry of a non-failed job errors", func(t *testing.T) {
		assert.ErrorIs(t, m.RetryJob(testQueue, "r1"), queue.ErrJobNotFailed)
	})
}

func TestGateRejectionDoesNotConsumeAttempts(t *testing.T) {
	m := newTestManager()
	ctx := context.Background()

	var calls atomic.Int32
	require.NoError(t, m.RegisterProcessor(testQueue, job.KindDispatch, func(ctx context.Context, j job.Job) (job.Result, error) {
		if calls.Add(1) == 1 {
			return job.Result{}, job.NewGateRejection("quiet_hours", "inside quiet hours", time.Now().Add(50*time.Millisecond))
		}
		// The attempt counter must still read 1: the gated run was refunded.
		if j.AttemptsMade != 1 {
			return job.Result{}, job.NewJobError("attempts", "gate consumed an attempt", nil)
		}
		return job.Result{Success: true}, nil
	}))
	require.NoError(t, m.CreateWorker(testQueue, 1))

	_, err := m.AddJob(ctx, testQueue, job.Job{ID: "g1", Kind: job.KindDispatch}, queue.Options{Attempts: 1})
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		s, err := m.JobState(testQueue, "g1")
		return err == nil && s == queue.StateCompleted
	}, 2*time.Second, 10*time.Millisecond)
	assert.EqualValues(t, 2, calls.Load())
}

func TestGateDelayUsesInjectedClock(t *testing.T) {
	// The manager clock runs an hour ahead of the wall clock. A gate RetryAt
	// expressed in manager time must yield a short delay, not an hour-long
	// one computed against time.Now.
	clk := clock.NewMockClock(time.Now().Add(time.Hour))
	m := New(log.NewNoop(), clk)
	ctx := context.Background()

	var calls atomic.Int32
	require.NoError(t, m.RegisterProcessor(testQueue, job.KindDispatch, func(ctx context.Context, j job.Job) (job.Result, error) {
		if calls.Add(1) == 1 {
			return job.Result{}, job.NewGateRejection("quiet_hours", "inside quiet hours", clk.Now().Add(30*time.Millisecond))
		}
		return job.Result{Success: true}, nil
	}))
	require.NoError(t, m.CreateWorker(testQueue, 1))

	_, err := m.AddJob(ctx, testQueue, job.Job{ID: "g2", Kind: job.KindDispatch}, queue.Options{Attempts: 1})
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		s, err := m.JobState(testQueue, "g2")
		return err == nil && s == queue.StateCompleted
	}, 2*time.Second, 10*time.Millisecond)
	assert.EqualValues(t, 2, calls.Load())
}

func TestQueueDepthConservation(t *testing.T) {
	m := newTestManager()
	ctx := context.Background()

	require.NoError(t, m.RegisterProcessor(testQueue, job.KindDispatch, okProcessor))

	// 5 added: 2 removed while waiting, then the rest completed.
	for _, id := range []string{"a", "b", "c", "d", "e"} {
		_, err := m.AddJob(ctx, testQueue, job.Job{ID: id, Kind: job.KindDispatch}, queue.Options{})
		require.NoError(t, err)
	}
	require.NoError(t, m.RemoveJob(testQueue, "b"))
	require.NoError(t, m.RemoveJob(testQueue, "d"))

	stats := m.GetAllQueueStats()[testQueue]
	assert.Equal(t, 3, stats.Waiting)

	require.NoError(t, m.CreateWorker(testQueue, 2))
	require.Eventually(t, func() bool {
		s := m.GetAllQueueStats()[testQueue]
		return s.Completed == 3
	}, 2*time.Second, 10*time.Millisecond)

	stats = m.GetAllQueueStats()[testQueue]
	assert.Equal(t, 0, stats.Waiting)
	assert.Equal(t, 0, stats.Active)
	assert.Equal(t, 3, stats.Completed)
	assert.Equal(t, 0, stats.Failed)
}

func TestConcurrencyBound(t *testing.T) {
	m := newTestManager()
	ctx := context.Background()

	var current, peak atomic.Int32
	block := make(chan struct{})

	require.NoError(t, m.RegisterProcessor(testQueue, job.KindDispatch, func(ctx context.Context, j job.Job) (job.Result, error) {
		n := current.Add(1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		<-block
		current.Add(-1)
		return job.Result{Success: true}, nil
	}))
	require.NoError(t, m.CreateWorker(testQueue, 2))

	for i := 0; i < 6; i++ {
		_, err := m.AddJob(ctx, testQueue, job.Job{Kind: job.KindDispatch}, queue.Options{})
		require.NoError(t, err)
	}

	require.Eventually(t, func() bool { return current.Load() == 2 }, 2*time.Second, 10*time.Millisecond)
	close(block)

	require.Eventually(t, func() bool {
		return m.GetAllQueueStats()[testQueue].Completed == 6
	}, 2*time.Second, 10*time.Millisecond)
	assert.EqualValues(t, 2, peak.Load())
}

func TestRepeatInstallation(t *testing.T) {
	m := newTestManager()
	ctx := context.Background()

	id, err := m.AddJob(ctx, testQueue, job.Job{ID: "hourly_collect", Kind: job.KindCollectCron},
		queue.Options{Repeat: &queue.RepeatOptions{Pattern: "0 * * * *"}})
	require.NoError(t, err)
	assert.Equal(t, "hourly_collect", id)

	t.Run("re-install with same pattern collapses", func(t *testing.T) {
		id2, err := m.AddJob(ctx, testQueue, job.Job{ID: "hourly_collect", Kind: job.KindCollectCron},
			queue.Options{Repeat: &queue.RepeatOptions{Pattern: "0 * * * *"}})
		require.NoError(t, err)
		assert.Equal(t, id, id2)
	})

	t.Run("invalid pattern is rejected", func(t *testing.T) {
		_, err := m.AddJob(ctx, testQueue, job.Job{ID: "bad", Kind: job.KindCollectCron},
			queue.Options{Repeat: &queue.RepeatOptions{Pattern: "not cron"}})
		assert.ErrorIs(t, err, queue.ErrInvalidCron)
	})

	t.Run("repeat definition can be removed", func(t *testing.T) {
		assert.NoError(t, m.RemoveJob(testQueue, "hourly_collect"))
	})
}

func TestCleanStale(t *testing.T) {
	m := newTestManager()
	ctx := context.Background()

	require.NoError(t, m.RegisterProcessor(testQueue, job.KindDispatch, okProcessor))
	require.NoError(t, m.CreateWorker(testQueue, 1))

	_, err := m.AddJob(ctx, testQueue, job.Job{ID: "old1", Kind: job.KindDispatch}, queue.Options{})
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		s, err := m.JobState(testQueue, "old1")
		return err == nil && s == queue.StateCompleted
	}, 2*time.Second, 10*time.Millisecond)

	// Zero max age: anything terminal that finished before now is stale.
	time.Sleep(20 * time.Millisecond)
	removed := m.CleanStale(0)
	assert.Equal(t, 1, removed)

	_, err = m.JobState(testQueue, "old1")
	assert.ErrorIs(t, err, queue.ErrJobNotFound)

	// Counters survive cleanup.
	assert.Equal(t, 1, m.GetAllQueueStats()[testQueue].Completed)
}

func TestShutdownDrainsInFlight(t *testing.T) {
	m := newTestManager()
	ctx := context.Background()

	started := make(chan struct{})
	var finished atomic.Bool

	require.NoError(t, m.RegisterProcessor(testQueue, job.KindDispatch, func(ctx context.Context, j job.Job) (job.Result, error) {
		close(started)
		time.Sleep(100 * time.Millisecond)
		finished.Store(true)
		return job.Result{Success: true}, nil
	}))
	require.NoError(t, m.CreateWorker(testQueue, 1))

	_, err := m.AddJob(ctx, testQueue, job.Job{ID: "inflight", Kind: job.KindDispatch}, queue.Options{})
	require.NoError(t, err)
	<-started

	shutdownCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	require.NoError(t, m.Shutdown(shutdownCtx))
	assert.True(t, finished.Load())

	t.Run("no intake after shutdown", func(t *testing.T) {
		_, err := m.AddJob(ctx, testQueue, job.Job{Kind: job.KindDispatch}, queue.Options{})
		assert.ErrorIs(t, err, queue.ErrShuttingDown)
	})
}

func TestProcessorPanicBecomesFailedJob(t *testing.T) {
	m := newTestManager()
	ctx := context.Background()

	require.NoError(t, m.RegisterProcessor(testQueue, job.KindDispatch, func(ctx context.Context, j job.Job) (job.Result, error) {
		var payload map[string]string
		// Deliberately explode on bad payload to exercise containment.
		if err := json.Unmarshal(j.Payload, &payload); err != nil {
			panic(err)
		}
		return job.Result{Success: true}, nil
	}))
	require.NoError(t, m.CreateWorker(testQueue, 1))

	_, err := m.AddJob(ctx, testQueue, job.Job{ID: "p1", Kind: job.KindDispatch, Payload: []byte("{bad json")}, queue.Options{})
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		s, err := m.JobState(testQueue, "p1")
		return err == nil && s == queue.StateFailed
	}, 2*time.Second, 10*time.Millisecond)
}
