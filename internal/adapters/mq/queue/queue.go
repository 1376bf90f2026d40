// Package queue defines the contract for enqueuing and consuming
// machine-output batches awaiting normalization.
package queue

import (
	"context"
	"sync"

	"github.com/okian/glossa/internal/domain/model"
	"github.com/okian/glossa/pkg/metrics"
)

// Default queue configuration constants.
const (
	defaultCapacity = 1024
)

// Batch is one delivery of machine-generated sources: detector
// tracks, classifier frame samples, and/or aligner words.
type Batch struct {
	Tracks       []model.Track
	FrameSamples []model.FrameSample
	Words        []model.AlignmentUnit

	// FrameInterval is the classifier sampling stride of this batch,
	// 0 to keep the session's configured stride.
	FrameInterval int
}

// Queue provides non-blocking enqueue and channel-based dequeue semantics.
type Queue interface {
	// Enqueue adds a batch to the queue.
	// Returns false if the queue is full and the batch was not enqueued.
	Enqueue(ctx context.Context, b Batch) bool

	// Dequeue returns a channel that will receive batches as they
	// become available. The channel is closed when the queue closes.
	Dequeue(ctx context.Context) <-chan Batch

	// Len returns the current number of queued batches.
	Len(ctx context.Context) int

	// Close gracefully shuts down the queue. After closing, no new
	// batches can be enqueued and the dequeue channel is closed.
	Close() error
}

// InMemoryQueue implements Queue using a buffered channel.
type InMemoryQueue struct {
	batches  chan Batch
	capacity int

	mu     sync.RWMutex
	closed bool
}

// NewInMemoryQueue creates a new in-memory queue with configuration options.
func NewInMemoryQueue(opts ...Option) *InMemoryQueue {
	q := &InMemoryQueue{
		capacity: defaultCapacity,
	}
	for _, opt := range opts {
		opt(q)
	}
	q.batches = make(chan Batch, q.capacity)

	metrics.UpdateIngestQueueCapacity(q.capacity)
	metrics.UpdateIngestQueueSize(0)
	return q
}

// Enqueue adds a batch to the queue.
func (q *InMemoryQueue) Enqueue(ctx context.Context, b Batch) bool {
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		metrics.RecordIngestBatch("rejected_closed")
		return false
	}

	select {
	case q.batches <- b:
		metrics.UpdateIngestQueueSize(len(q.batches))
		return true
	case <-ctx.Done():
		metrics.RecordIngestBatch("rejected_cancelled")
		return false
	default:
		metrics.RecordIngestBatch("rejected_backpressure")
		return false
	}
}

// Dequeue returns a channel that will receive batches as they become
// available.
func (q *InMemoryQueue) Dequeue(ctx context.Context) <-chan Batch {
	out := make(chan Batch)
	go func() {
		defer close(out)
		for b := range q.batches {
			select {
			case out <- b:
				metrics.UpdateIngestQueueSize(len(q.batches))
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}

// Len returns the current number of queued batches.
func (q *InMemoryQueue) Len(ctx context.Context) int {
	return len(q.batches)
}

// Close gracefully shuts down the queue.
func (q *InMemoryQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return nil
	}
	close(q.batches)
	q.closed = true
	return nil
}

// IsClosed returns true if the queue has been closed.
func (q *InMemoryQueue) IsClosed() bool {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.closed
}
