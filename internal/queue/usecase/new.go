package usecase

import (
	"sync"

	"jobs-srv/internal/queue"
	"jobs-srv/pkg/clock"
	"jobs-srv/pkg/log"

	"github.com/robfig/cron/v3"
)

type implManager struct {
	l   log.Logger
	clk clock.Clock

	mu     sync.Mutex
	queues map[string]*queueState
	cron   *cron.Cron
	closed bool
}

// New creates an in-process queue Manager. The cron runner starts lazily
// with the first repeat definition.
func New(l log.Logger, clk clock.Clock) queue.Manager {
	return &implManager{
		l:      l,
		clk:    clk,
		queues: make(map[string]*queueState),
		cron:   cron.New(),
	}
}

// getOrCreateQueue returns the queue state for name, creating it on first
// use. Queues come into existence by being referenced, matching how
// processors and workers are wired before any job arrives.
func (m *implManager) getOrCreateQueue(name string) *queueState {
	m.mu.Lock()
	defer m.mu.Unlock()

	q, ok := m.queues[name]
	if !ok {
		q = newQueueState(name)
		m.queues[name] = q
	}
	return q
}

// getQueue returns the queue state for name, or nil.
func (m *implManager) getQueue(name string) *queueState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.queues[name]
}

func (m *implManager) snapshotQueues() []*queueState {
	m.mu.Lock()
	defer m.mu.Unlock()

	qs := make([]*queueState, 0, len(m.queues))
	for _, q := range m.queues {
		qs = append(qs, q)
	}
	return qs
}
