// Package notify queues transient, auto-dismissing notifications per
// installation. All user-facing errors become toasts; nothing here ever
// blocks the caller.
package notify

import (
	"sync"
	"time"

	"lookbook/internal/platform/metrics"
	"lookbook/pkg/domain"
)

// Kind distinguishes the toast styling.
type Kind string

const (
	KindSuccess Kind = "success"
	KindError   Kind = "error"
)

// Toast is a single transient notification.
type Toast struct {
	Message   string    `json:"message"`
	Kind      Kind      `json:"kind"`
	CreatedAt time.Time `json:"created_at"`
}

// Queue holds undelivered toasts per installation. Toasts older than the TTL
// auto-dismiss: they are dropped on the next drain instead of being delivered.
type Queue struct {
	ttl     time.Duration
	now     func() time.Time
	metrics *metrics.Metrics

	mu     sync.Mutex
	queues map[domain.InstallationID][]Toast
}

// QueueOption configures Queue.
type QueueOption func(*Queue)

// WithClock overrides the time source, for tests.
func WithClock(now func() time.Time) QueueOption {
	return func(q *Queue) {
		if now != nil {
			q.now = now
		}
	}
}

// WithMetrics records queued toasts.
func WithMetrics(m *metrics.Metrics) QueueOption {
	return func(q *Queue) {
		q.metrics = m
	}
}

// NewQueue constructs an empty toast queue.
func NewQueue(ttl time.Duration, opts ...QueueOption) *Queue {
	q := &Queue{
		ttl:    ttl,
		now:    time.Now,
		queues: make(map[domain.InstallationID][]Toast),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(q)
		}
	}
	return q
}

// Success queues a success toast.
func (q *Queue) Success(inst domain.InstallationID, msg string) {
	q.push(inst, Toast{Message: msg, Kind: KindSuccess, CreatedAt: q.now()})
}

// Error queues an error toast.
func (q *Queue) Error(inst domain.InstallationID, msg string) {
	q.push(inst, Toast{Message: msg, Kind: KindError, CreatedAt: q.now()})
}

// Drain returns and removes the installation's undelivered toasts, skipping
// any that have already auto-dismissed.
func (q *Queue) Drain(inst domain.InstallationID) []Toast {
	q.mu.Lock()
	defer q.mu.Unlock()

	pending := q.queues[inst]
	delete(q.queues, inst)

	cutoff := q.now().Add(-q.ttl)
	live := make([]Toast, 0, len(pending))
	for _, t := range pending {
		if t.CreatedAt.After(cutoff) {
			live = append(live, t)
		}
	}
	return live
}

func (q *Queue) push(inst domain.InstallationID, t Toast) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.queues[inst] = append(q.queues[inst], t)
	if q.metrics != nil {
		q.metrics.ToastsQueued.Inc()
	}
}
