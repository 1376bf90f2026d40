// Package worker normalizes machine-output batches off the ingest
// queue before they reach the annotation session.
package worker

import (
	"context"
	"fmt"
	"math"
	"runtime"
	"sort"
	"strconv"
	"time"

	"github.com/okian/glossa/internal/adapters/mq/queue"
	"github.com/okian/glossa/internal/domain/model"
	"github.com/okian/glossa/pkg/logger"
	"github.com/okian/glossa/pkg/metrics"
)

// Default worker configuration constants.
const (
	workerShutdownTimeout = 5 * time.Second
)

// Sink receives normalized batches, typically the annotation session
// service.
type Sink interface {
	ApplySources(ctx context.Context, b queue.Batch)
}

// Source defines how workers receive batches.
type Source interface {
	Dequeue(ctx context.Context) <-chan queue.Batch
}

// Worker consumes batches, drops malformed entries, orders frame
// samples, and forwards the result to the sink. Sorting here is what
// makes the nearest-sample early-exit scan safe downstream.
type Worker struct {
	source Source
	sink   Sink
	name   string

	shutdown chan struct{}
	done     chan struct{}

	logger logger.Logger
}

// Option applies a configuration option to the Worker.
type Option func(*Worker)

// WithName sets the worker's name for logging.
func WithName(name string) Option {
	return func(w *Worker) {
		if name != "" {
			w.name = name
		}
	}
}

// New creates a worker with configuration options.
func New(source Source, sink Sink, opts ...Option) *Worker {
	w := &Worker{
		source:   source,
		sink:     sink,
		name:     "ingest",
		shutdown: make(chan struct{}),
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	w.logger = logger.Get().Named(w.name)
	return w
}

// Run starts the worker loop until ctx is canceled or the queue
// closes.
func (w *Worker) Run(ctx context.Context) {
	defer close(w.done)

	batches := w.source.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.shutdown:
			return
		case b, ok := <-batches:
			if !ok {
				return
			}
			w.process(ctx, b)
		}
	}
}

// Shutdown gracefully stops the worker.
func (w *Worker) Shutdown(ctx context.Context) error {
	close(w.shutdown)
	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		w.logger.Warn(ctx, "shutdown timed out")
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}

// process normalizes one batch and hands it to the sink.
func (w *Worker) process(ctx context.Context, b queue.Batch) {
	dropped := 0

	tracks := make([]model.Track, 0, len(b.Tracks))
	for _, t := range b.Tracks {
		t, ok := normalizeTrack(t)
		if !ok {
			dropped++
			continue
		}
		tracks = append(tracks, t)
	}

	samples := make([]model.FrameSample, 0, len(b.FrameSamples))
	for _, s := range b.FrameSamples {
		s, ok := normalizeSample(s)
		if !ok {
			dropped++
			continue
		}
		samples = append(samples, s)
	}
	sort.SliceStable(samples, func(i, j int) bool {
		return samples[i].Frame < samples[j].Frame
	})

	words := make([]model.AlignmentUnit, 0, len(b.Words))
	for _, u := range b.Words {
		if u.Text == "" || !finite(u.Start) || !finite(u.End) || u.End < u.Start {
			dropped++
			continue
		}
		words = append(words, u)
	}

	if dropped > 0 {
		metrics.RecordIngestDroppedSamples(dropped)
		w.logger.Warn(ctx, "dropped malformed entries from batch",
			logger.Int("dropped", dropped))
	}

	w.sink.ApplySources(ctx, queue.Batch{
		Tracks:        tracks,
		FrameSamples:  samples,
		Words:         words,
		FrameInterval: b.FrameInterval,
	})
	metrics.RecordIngestBatch("applied")
	w.logger.Debug(ctx, "applied batch",
		logger.Int("tracks", len(tracks)),
		logger.Int("samples", len(samples)),
		logger.Int("words", len(words)),
	)
}

// normalizeTrack recomputes a track's bounds from its samples and
// rejects tracks without a usable time range.
func normalizeTrack(t model.Track) (model.Track, bool) {
	if t.Label == "" {
		return t, false
	}
	if len(t.Samples) > 0 {
		start, end := math.Inf(1), math.Inf(-1)
		kept := t.Samples[:0]
		for _, s := range t.Samples {
			if !finite(s.Time) || !finite(s.Confidence) {
				continue
			}
			kept = append(kept, s)
			start = math.Min(start, s.Time)
			end = math.Max(end, s.Time)
		}
		t.Samples = kept
		if len(kept) > 0 {
			t.Start, t.End = start, end
		}
	}
	if !finite(t.Start) || !finite(t.End) || t.End < t.Start {
		return t, false
	}
	return t, true
}

// normalizeSample rejects samples without a usable time or confidence
// map and strips non-finite confidences.
func normalizeSample(s model.FrameSample) (model.FrameSample, bool) {
	if !finite(s.Time) || len(s.Confidences) == 0 {
		return s, false
	}
	for label, c := range s.Confidences {
		if !finite(c) {
			delete(s.Confidences, label)
		}
	}
	if len(s.Confidences) == 0 {
		return s, false
	}
	return s, true
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// Pool manages multiple workers.
type Pool struct {
	workers []*Worker
	logger  logger.Logger
}

// NewPool creates a worker pool of the given size over one queue and
// sink.
func NewPool(workerCount int, source Source, sink Sink) *Pool {
	if workerCount < 1 {
		workerCount = runtime.NumCPU()
	}
	p := &Pool{
		workers: make([]*Worker, workerCount),
		logger:  logger.Get().Named("ingest-pool"),
	}
	for i := 0; i < workerCount; i++ {
		p.workers[i] = New(source, sink, WithName("ingest-"+strconv.Itoa(i)))
	}
	return p
}

// Start starts all workers in the pool.
func (p *Pool) Start(ctx context.Context) {
	for _, w := range p.workers {
		go w.Run(ctx)
	}
}

// Stop gracefully stops all workers.
func (p *Pool) Stop() {
	ctx, cancel := context.WithTimeout(context.Background(), workerShutdownTimeout)
	defer cancel()
	for _, w := range p.workers {
		if err := w.Shutdown(ctx); err != nil {
			p.logger.Warn(ctx, "worker stop timed out", logger.Error(err))
		}
	}
}
