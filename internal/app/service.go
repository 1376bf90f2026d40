// Package service provides the core business service that implements
// the dependencies required by the HTTP API: one annotation session
// owning manual spans, machine-generated sources, and the tracking
// workflow.
package service

import (
	"context"
	"fmt"
	"runtime"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/okian/glossa/internal/adapters/mq/queue"
	workerpool "github.com/okian/glossa/internal/adapters/mq/worker"
	"github.com/okian/glossa/internal/adapters/repository"
	"github.com/okian/glossa/internal/domain/layering"
	"github.com/okian/glossa/internal/domain/model"
	"github.com/okian/glossa/internal/domain/overlap"
	"github.com/okian/glossa/internal/domain/timeline"
	"github.com/okian/glossa/internal/domain/tracking"
	"github.com/okian/glossa/internal/domain/types"
	"github.com/okian/glossa/pkg/logger"
	"github.com/okian/glossa/pkg/metrics"
)

// Service owns one annotation session. A single mutex serializes every
// operation: the engine is synchronous by design and the session's
// state (spans, sources, workflow) is owned by one annotator at a
// time.
type Service struct {
	mu sync.Mutex

	// Manual annotation state.
	segments *model.SegmentList
	spans    map[string][]model.Span   // segment id -> accepted spans
	layers   map[string]map[string]int // segment id -> span id -> layer

	// Machine-generated sources and their join engine.
	tracks  []model.Track
	samples []model.FrameSample
	words   []model.AlignmentUnit
	joiner  *timeline.Joiner

	// Tracking workflow, created when media is opened.
	workflow    *tracking.Workflow
	annotations []model.Annotation

	// Ingestion pipeline.
	ingestQueue *queue.InMemoryQueue
	ingestPool  *workerpool.Pool

	// Persistence.
	store repository.Store

	// Configuration.
	maxLayers         int
	frameInterval     int
	ingestQueueSize   int
	ingestWorkerCount int
	maxWindowSeconds  float64

	started bool
	logger  logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithStore sets the archive store.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		s.store = store
	}
}

// WithMaxLayers caps the stacking layer count of one segment.
// 0 means unlimited.
func WithMaxLayers(n int) Option {
	return func(s *Service) {
		if n >= 0 {
			s.maxLayers = n
		}
	}
}

// WithFrameInterval sets the default classifier sampling stride.
func WithFrameInterval(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.frameInterval = n
		}
	}
}

// WithIngestQueueSize bounds the machine-output batch queue.
func WithIngestQueueSize(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.ingestQueueSize = n
		}
	}
}

// WithIngestWorkerCount sets the number of normalization workers.
func WithIngestWorkerCount(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.ingestWorkerCount = n
		}
	}
}

// WithMaxWindowSeconds caps the span of one label window query.
func WithMaxWindowSeconds(sec float64) Option {
	return func(s *Service) {
		if sec > 0 {
			s.maxWindowSeconds = sec
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		spans:             make(map[string][]model.Span),
		layers:            make(map[string]map[string]int),
		maxLayers:         0,
		frameInterval:     1,
		ingestQueueSize:   1024,
		ingestWorkerCount: runtime.NumCPU(),
		maxWindowSeconds:  3600,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start initializes and starts the service components.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.rebuildJoiner()
	s.ingestQueue = queue.NewInMemoryQueue(queue.WithCapacity(s.ingestQueueSize))
	s.ingestPool = workerpool.NewPool(s.ingestWorkerCount, s.ingestQueue, s)
	s.ingestPool.Start(ctx)

	s.started = true
	s.logger.Info(ctx, "annotation service started",
		logger.Int("ingestWorkers", s.ingestWorkerCount),
		logger.Int("ingestQueueSize", s.ingestQueueSize),
		logger.Int("maxLayers", s.maxLayers),
	)
	return nil
}

// Stop gracefully shuts down the service. The ingest pipeline is
// drained without holding s.mu: a worker mid-batch sinks back into
// ApplySources, which needs the lock to complete.
func (s *Service) Stop() {
	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		return
	}
	ingestQueue := s.ingestQueue
	ingestPool := s.ingestPool
	s.mu.Unlock()

	if ingestQueue != nil {
		_ = ingestQueue.Close()
	}
	if ingestPool != nil {
		ingestPool.Stop()
	}

	s.mu.Lock()
	if s.store != nil {
		_ = s.store.Close()
	}
	s.started = false
	s.mu.Unlock()
	s.logger.Info(context.Background(), "annotation service stopped")
}

// SetSegments replaces the session's segment list. Existing spans are
// cleared: segment identity and offsets define span ownership, so a
// new document starts a new span set.
func (s *Service) SetSegments(ctx context.Context, ids []string, lengths []int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	list, err := model.NewSegmentList(ids, lengths)
	if err != nil {
		return err
	}
	s.segments = list
	s.spans = make(map[string][]model.Span)
	s.layers = make(map[string]map[string]int)
	s.logger.Info(ctx, "segments set",
		logger.Int("count", list.Len()),
		logger.Int("totalLength", list.TotalLength()),
	)
	return nil
}

// Segments returns the session's segments with derived offsets.
func (s *Service) Segments(ctx context.Context) []model.Segment {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.segments == nil {
		return nil
	}
	return s.segments.Segments()
}

// AddSpan validates a candidate span against its owning segment's
// accepted spans and, on acceptance, repacks the segment's layers.
// The returned Layering reflects the segment after acceptance.
func (s *Service) AddSpan(ctx context.Context, span model.Span) (model.Span, types.Layering, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.segments == nil {
		return model.Span{}, types.Layering{}, ErrNoSegments
	}
	owner, err := s.segments.Owner(span)
	if err != nil {
		metrics.RecordSpanRejected("segment")
		return model.Span{}, types.Layering{}, err
	}
	if span.ID == "" {
		span.ID = uuid.NewString()
	}
	if span.Kind == "" {
		span.Kind = model.KindText
	}

	existing := s.spans[owner.ID]
	if err := overlap.Validate(span, existing); err != nil {
		metrics.RecordSpanRejected("crossing")
		s.logger.Debug(ctx, "span rejected",
			logger.String("span", span.ID),
			logger.Error(err),
		)
		return model.Span{}, types.Layering{}, err
	}

	// Tentative repack so a layer-ceiling breach rejects the candidate
	// without mutating the accepted set.
	candidateSet := append(append([]model.Span{}, existing...), span)
	assign := layering.Pack(candidateSet)
	count := layering.Count(assign)
	if s.maxLayers > 0 && count > s.maxLayers {
		metrics.RecordSpanRejected("layer_limit")
		return model.Span{}, types.Layering{}, fmt.Errorf("%w: %d layers, limit %d", ErrLayerLimit, count, s.maxLayers)
	}

	s.spans[owner.ID] = candidateSet
	s.layers[owner.ID] = assign
	metrics.RecordSpanAccepted()
	metrics.UpdateLayerCount(owner.ID, count)
	s.logger.Debug(ctx, "span accepted",
		logger.String("span", span.ID),
		logger.String("segment", owner.ID),
		logger.Int("layers", count),
	)
	return span, types.Layering{Layers: assign, Count: count}, nil
}

// RemoveSpan deletes a span and repacks its segment.
func (s *Service) RemoveSpan(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for segID, spans := range s.spans {
		for i, sp := range spans {
			if sp.ID != id {
				continue
			}
			s.spans[segID] = append(spans[:i], spans[i+1:]...)
			assign := layering.Pack(s.spans[segID])
			s.layers[segID] = assign
			metrics.UpdateLayerCount(segID, layering.Count(assign))
			return nil
		}
	}
	return fmt.Errorf("%w: %q", ErrSpanNotFound, id)
}

// SegmentSpans returns a copy of one segment's accepted spans.
func (s *Service) SegmentSpans(ctx context.Context, segmentID string) ([]model.Span, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.segments == nil {
		return nil, ErrNoSegments
	}
	if _, err := s.segments.ByID(segmentID); err != nil {
		return nil, err
	}
	out := make([]model.Span, len(s.spans[segmentID]))
	copy(out, s.spans[segmentID])
	return out, nil
}

// Layers returns the current layer assignment of one segment.
func (s *Service) Layers(ctx context.Context, segmentID string) (types.Layering, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.segments == nil {
		return types.Layering{}, ErrNoSegments
	}
	if _, err := s.segments.ByID(segmentID); err != nil {
		return types.Layering{}, err
	}
	assign := s.layers[segmentID]
	if assign == nil {
		assign = map[string]int{}
	}
	return types.Layering{Layers: assign, Count: layering.Count(assign)}, nil
}

// Ingest submits a machine-output batch for asynchronous
// normalization. Returns false on backpressure or when the service is
// not started.
func (s *Service) Ingest(ctx context.Context, b queue.Batch) bool {
	s.mu.Lock()
	q := s.ingestQueue
	s.mu.Unlock()
	if q == nil {
		return false
	}
	return q.Enqueue(ctx, b)
}

// ApplySources merges a normalized batch into the session's sources
// and rebuilds the join engine. Called by ingest workers; also usable
// directly by hosts that do their own normalization.
func (s *Service) ApplySources(ctx context.Context, b queue.Batch) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Ingest workers sort frame samples before sinking here, but
	// direct callers may not; the joiner's ordered scan requires it.
	incoming := b.FrameSamples
	if !sort.SliceIsSorted(incoming, func(i, j int) bool {
		return incoming[i].Frame < incoming[j].Frame
	}) {
		incoming = append([]model.FrameSample{}, incoming...)
		sort.SliceStable(incoming, func(i, j int) bool {
			return incoming[i].Frame < incoming[j].Frame
		})
	}

	s.tracks = append(s.tracks, b.Tracks...)
	s.samples = mergeSamples(s.samples, incoming)
	s.words = append(s.words, b.Words...)
	if b.FrameInterval > 0 {
		s.frameInterval = b.FrameInterval
	}
	s.rebuildJoiner()
}

// mergeSamples keeps the session's classifier samples ordered by frame
// number as batches accumulate, preserving the nearest-sample
// early-exit guarantee.
func mergeSamples(existing, incoming []model.FrameSample) []model.FrameSample {
	if len(incoming) == 0 {
		return existing
	}
	merged := make([]model.FrameSample, 0, len(existing)+len(incoming))
	i, j := 0, 0
	for i < len(existing) && j < len(incoming) {
		if existing[i].Frame <= incoming[j].Frame {
			merged = append(merged, existing[i])
			i++
		} else {
			merged = append(merged, incoming[j])
			j++
		}
	}
	merged = append(merged, existing[i:]...)
	merged = append(merged, incoming[j:]...)
	return merged
}

func (s *Service) rebuildJoiner() {
	s.joiner = timeline.New(
		timeline.WithTracks(s.tracks),
		timeline.WithFrameSamples(s.samples, true),
		timeline.WithWords(s.words),
		timeline.WithFrameInterval(s.frameInterval),
	)
}

// Labels decorates the time window [start, end] with every active
// machine-generated label across the three source shapes.
func (s *Service) Labels(ctx context.Context, start, end float64) (types.WindowLabels, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.joiner == nil {
		return types.WindowLabels{}, ErrNotStarted
	}
	if end < start {
		return types.WindowLabels{}, fmt.Errorf("%w: [%f,%f]", ErrBadWindow, start, end)
	}
	if end-start > s.maxWindowSeconds {
		return types.WindowLabels{}, fmt.Errorf("%w: %.1fs, limit %.1fs", ErrWindowTooWide, end-start, s.maxWindowSeconds)
	}

	began := time.Now()
	out := types.WindowLabels{
		Tracks:      s.joiner.ActiveTracks(start, end),
		Confidences: s.joiner.AverageConfidences(start, end),
		Words:       s.joiner.ActiveWords(start, end),
	}
	metrics.RecordJoinQuery("window")
	metrics.RecordJoinQueryLatency(float64(time.Since(began).Microseconds()) / 1000.0)
	return out, nil
}

// FrameLabels returns the classifier sample nearest the given frame.
func (s *Service) FrameLabels(ctx context.Context, frame int) (model.FrameSample, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.joiner == nil {
		return model.FrameSample{}, false
	}
	metrics.RecordJoinQuery("frame")
	return s.joiner.NearestSample(frame)
}

// OpenMedia creates the tracking workflow for media with the given
// frame count and rate, clearing any in-progress box.
func (s *Service) OpenMedia(ctx context.Context, totalFrames int, fps float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if totalFrames <= 0 {
		return fmt.Errorf("%w: %d frames", ErrNoMedia, totalFrames)
	}
	opts := []tracking.Option{}
	if fps > 0 {
		opts = append(opts, tracking.WithFPS(fps))
	}
	s.workflow = tracking.New(totalFrames, opts...)
	s.logger.Info(ctx, "media opened",
		logger.Int("totalFrames", totalFrames),
		logger.Float64("fps", fps),
	)
	return nil
}

// Draw starts a new tracked box.
func (s *Service) Draw(ctx context.Context, box model.Box, frame int, t float64, label, color string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.workflow == nil {
		return ErrNoMedia
	}
	if err := s.workflow.Draw(box, frame, t, label, color); err != nil {
		metrics.RecordTrackingRejection("draw")
		return err
	}
	metrics.RecordTrackingTransition("draw")
	return nil
}

// Adjust repositions the current box.
func (s *Service) Adjust(ctx context.Context, box model.Box) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.workflow == nil {
		return ErrNoMedia
	}
	if err := s.workflow.Adjust(box); err != nil {
		metrics.RecordTrackingRejection("adjust")
		return err
	}
	metrics.RecordTrackingTransition("adjust")
	return nil
}

// TrackNext records the current box and steps playback forward.
func (s *Service) TrackNext(ctx context.Context, interval int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.workflow == nil {
		return ErrNoMedia
	}
	if err := s.workflow.TrackNext(interval); err != nil {
		metrics.RecordTrackingRejection("next")
		return err
	}
	metrics.RecordTrackingTransition("next")
	return nil
}

// TrackPrev truncates forward history and steps playback back.
func (s *Service) TrackPrev(ctx context.Context, interval int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.workflow == nil {
		return ErrNoMedia
	}
	if err := s.workflow.TrackPrev(interval); err != nil {
		metrics.RecordTrackingRejection("prev")
		return err
	}
	metrics.RecordTrackingTransition("prev")
	return nil
}

// Confirm emits a single-frame annotation.
func (s *Service) Confirm(ctx context.Context) (model.Annotation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.workflow == nil {
		return model.Annotation{}, ErrNoMedia
	}
	ann, err := s.workflow.Confirm()
	if err != nil {
		metrics.RecordTrackingRejection("confirm")
		return model.Annotation{}, err
	}
	s.annotations = append(s.annotations, ann)
	metrics.RecordTrackingTransition("confirm")
	metrics.RecordAnnotationSaved(len(ann.Frames))
	return ann, nil
}

// SaveSequence finalizes the keyframe sequence into a dense tracked
// annotation.
func (s *Service) SaveSequence(ctx context.Context) (model.Annotation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.workflow == nil {
		return model.Annotation{}, ErrNoMedia
	}
	ann, err := s.workflow.SaveSequence()
	if err != nil {
		metrics.RecordTrackingRejection("save")
		return model.Annotation{}, err
	}
	s.annotations = append(s.annotations, ann)
	metrics.RecordTrackingTransition("save")
	metrics.RecordAnnotationSaved(len(ann.Frames))
	s.logger.Info(ctx, "sequence saved",
		logger.String("annotation", ann.ID),
		logger.String("label", ann.Label),
		logger.Int("keyframes", len(ann.Keyframes)),
		logger.Int("frames", len(ann.Frames)),
	)
	return ann, nil
}

// ClearBox discards the in-progress box and keyframe history.
func (s *Service) ClearBox(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.workflow == nil {
		return
	}
	s.workflow.Clear()
	metrics.RecordTrackingTransition("clear")
}

// Annotations returns the session's finalized tracked annotations.
func (s *Service) Annotations(ctx context.Context) []model.Annotation {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]model.Annotation, len(s.annotations))
	copy(out, s.annotations)
	return out
}

// SaveArchive snapshots the session into the archive store. The
// caller provides metadata; the session contributes its accepted
// spans and finalized annotations.
func (s *Service) SaveArchive(ctx context.Context, a model.Archive) (model.Archive, error) {
	s.mu.Lock()
	if s.store == nil {
		s.mu.Unlock()
		return model.Archive{}, ErrNoStore
	}
	a.Spans = s.allSpans()
	a.Tracks = append([]model.Annotation{}, s.annotations...)
	store := s.store
	s.mu.Unlock()

	saved, err := store.Save(ctx, a)
	if err != nil {
		return model.Archive{}, err
	}
	metrics.RecordArchiveOp("save")
	metrics.UpdateArchiveCount(store.Count(ctx))
	return saved, nil
}

// LoadArchive returns a stored archive document.
func (s *Service) LoadArchive(ctx context.Context, id string) (model.Archive, error) {
	if s.store == nil {
		return model.Archive{}, ErrNoStore
	}
	a, err := s.store.Get(ctx, id)
	if err != nil {
		return model.Archive{}, err
	}
	metrics.RecordArchiveOp("load")
	return a, nil
}

// ListArchives lists stored archives, newest first.
func (s *Service) ListArchives(ctx context.Context, f repository.Filter) ([]repository.Summary, error) {
	if s.store == nil {
		return nil, ErrNoStore
	}
	metrics.RecordArchiveOp("list")
	return s.store.List(ctx, f)
}

// DeleteArchive removes a stored archive.
func (s *Service) DeleteArchive(ctx context.Context, id string) error {
	if s.store == nil {
		return ErrNoStore
	}
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	metrics.RecordArchiveOp("delete")
	metrics.UpdateArchiveCount(s.store.Count(ctx))
	return nil
}

// RenameArchive updates a stored archive's display name.
func (s *Service) RenameArchive(ctx context.Context, id, name string) error {
	if s.store == nil {
		return ErrNoStore
	}
	if err := s.store.Rename(ctx, id, name); err != nil {
		return err
	}
	metrics.RecordArchiveOp("rename")
	return nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()

	segs := 0
	if s.segments != nil {
		segs = s.segments.Len()
	}
	spanCount := 0
	for _, spans := range s.spans {
		spanCount += len(spans)
	}
	stats := map[string]any{
		"started":     s.started,
		"segments":    segs,
		"spans":       spanCount,
		"tracks":      len(s.tracks),
		"samples":     len(s.samples),
		"words":       len(s.words),
		"annotations": len(s.annotations),
	}
	if s.ingestQueue != nil {
		stats["ingestQueueLength"] = s.ingestQueue.Len(context.Background())
	}
	if s.workflow != nil {
		stats["trackingState"] = s.workflow.State().String()
	}
	return stats
}

// allSpans flattens the per-segment span sets in segment order.
// Callers hold s.mu.
func (s *Service) allSpans() []model.Span {
	var out []model.Span
	if s.segments == nil {
		return out
	}
	for _, g := range s.segments.Segments() {
		out = append(out, s.spans[g.ID]...)
	}
	return out
}
