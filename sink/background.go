package sink

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"

	"uowmetrics/diag"
	"uowmetrics/entry"
	"uowmetrics/internal/selfmetrics"
	appErrors "uowmetrics/pkg/errors"
)

// Background is a bounded, non-blocking EntrySink: Append hands a root
// entry to a single consumer goroutine over a fixed-capacity queue. When
// the queue is full, the oldest queued entry is dropped to make room for
// the new one, so the producer-facing Append call never blocks.
//
// Grounded on a worker-loop/bounded-queue pattern with exactly one
// consumer goroutine for in-order delivery, with drop-newest-on-full
// replaced by drop-oldest.
type Background struct {
	downstream EntrySink
	logger     *logrus.Logger
	name       string

	mu     sync.Mutex
	queue  []*entry.RootEntry
	notify chan struct{}
	cap    int

	closeOnce sync.Once
	stopCh    chan struct{}
	doneCh    chan struct{}
}

// NewBackground starts a background consumer goroutine delivering to
// downstream, backed by a slice-based FIFO queue holding at most capacity
// entries.
func NewBackground(downstream EntrySink, capacity int, name string) *Background {
	if capacity <= 0 {
		capacity = 1
	}
	b := &Background{
		downstream: downstream,
		logger:     logrus.StandardLogger(),
		name:       name,
		queue:      make([]*entry.RootEntry, 0, capacity),
		notify:     make(chan struct{}, 1),
		cap:        capacity,
		stopCh:     make(chan struct{}),
		doneCh:     make(chan struct{}),
	}
	go b.run()
	return b
}

// Append enqueues root, never blocking. If the queue is already at
// capacity, the oldest queued entry is dropped and a diag.KindQueueFull
// event is reported.
func (b *Background) Append(root *entry.RootEntry) {
	b.mu.Lock()
	dropped := false
	if len(b.queue) >= b.cap {
		b.queue = b.queue[1:]
		dropped = true
	}
	b.queue = append(b.queue, root)
	selfmetrics.SetQueueDepth(b.name, len(b.queue))
	b.mu.Unlock()

	if dropped {
		selfmetrics.IncDropped(b.name)
		wrapped := appErrors.SinkError(b.name, "queue at capacity, dropped oldest entry")
		diag.Report(context.Background(), diag.Event{Kind: diag.KindQueueFull, EntryType: root.EntryType, Err: wrapped})
	}

	select {
	case b.notify <- struct{}{}:
	default:
	}
}

func (b *Background) run() {
	defer close(b.doneCh)
	for {
		select {
		case <-b.notify:
			b.drainOnce()
		case <-b.stopCh:
			b.drainOnce()
			return
		}
	}
}

func (b *Background) drainOnce() {
	for {
		b.mu.Lock()
		if len(b.queue) == 0 {
			b.mu.Unlock()
			return
		}
		root := b.queue[0]
		b.queue = b.queue[1:]
		selfmetrics.SetQueueDepth(b.name, len(b.queue))
		b.mu.Unlock()

		b.downstream.Append(root)
	}
}

// Close signals the consumer goroutine to drain any remaining entries and
// blocks until it has exited. Close is idempotent and always returns nil.
func (b *Background) Close() error {
	b.closeOnce.Do(func() {
		close(b.stopCh)
		<-b.doneCh
	})
	return nil
}
