package usecase

import (
	"container/heap"
	"sync"
	"time"

	"jobs-srv/internal/job"
	"jobs-srv/internal/queue"

	"github.com/robfig/cron/v3"
)

// jobRecord is the queue-internal view of one submitted job.
type jobRecord struct {
	job   job.Job
	opts  queue.Options
	state queue.State

	// seq breaks priority ties FIFO. A re-enqueue gets a fresh seq so a
	// retried job goes to the back of its priority class.
	seq uint64

	attemptsMade int
	maxAttempts  int

	timer      *time.Timer
	result     *job.Result
	lastErr    error
	finishedAt time.Time

	// heapIndex is maintained by jobHeap; -1 while not in the heap.
	heapIndex int
}

// repeatDef is an installed recurring schedule.
type repeatDef struct {
	id      string
	pattern string
	entryID cron.EntryID
}

// queueState holds everything belonging to one named queue. All fields are
// guarded by mu; cond signals waiting workers when the heap grows or the
// queue stops.
type queueState struct {
	name string

	mu   sync.Mutex
	cond *sync.Cond

	processors map[job.Kind]job.ProcessorFunc
	jobs       map[string]*jobRecord
	repeats    map[string]*repeatDef
	waiting    jobHeap
	seq        uint64

	workerStarted bool
	concurrency   int
	wg            sync.WaitGroup
	stopped       bool

	activeCount    int
	completedTotal int
	failedTotal    int
}

func newQueueState(name string) *queueState {
	q := &queueState{
		name:       name,
		processors: make(map[job.Kind]job.ProcessorFunc),
		jobs:       make(map[string]*jobRecord),
		repeats:    make(map[string]*repeatDef),
	}
	q.cond = sync.NewCond(&q.mu)
	return q
}

// pushWaiting moves rec into the waiting heap and wakes one worker.
// Caller holds q.mu.
func (q *queueState) pushWaiting(rec *jobRecord) {
	rec.state = queue.StateWaiting
	q.seq++
	rec.seq = q.seq
	heap.Push(&q.waiting, rec)
	q.cond.Signal()
}

// popWaiting removes the best runnable record, skipping lazily-cancelled
// entries. Returns nil when the heap is empty. Caller holds q.mu.
func (q *queueState) popWaiting() *jobRecord {
	for q.waiting.Len() > 0 {
		rec := heap.Pop(&q.waiting).(*jobRecord)
		if rec.state == queue.StateWaiting {
			return rec
		}
		// Cancelled while queued; already accounted for, just drop it.
	}
	return nil
}

// jobHeap orders by priority descending, then submission order.
type jobHeap []*jobRecord

func (h jobHeap) Len() int { return len(h) }

func (h jobHeap) Less(i, j int) bool {
	if h[i].job.Priority != h[j].job.Priority {
		return h[i].job.Priority > h[j].job.Priority
	}
	return h[i].seq < h[j].seq
}

func (h jobHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].heapIndex = i
	h[j].heapIndex = j
}

func (h *jobHeap) Push(x any) {
	rec := x.(*jobRecord)
	rec.heapIndex = len(*h)
	*h = append(*h, rec)
}

func (h *jobHeap) Pop() any {
	old := *h
	n := len(old)
	rec := old[n-1]
	old[n-1] = nil
	rec.heapIndex = -1
	*h = old[:n-1]
	return rec
}
