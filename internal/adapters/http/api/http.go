// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/okian/glossa/internal/adapters/mq/queue"
	"github.com/okian/glossa/internal/adapters/repository"
	service "github.com/okian/glossa/internal/app"
	"github.com/okian/glossa/internal/domain/model"
	"github.com/okian/glossa/internal/domain/overlap"
	"github.com/okian/glossa/internal/domain/tracking"
	"github.com/okian/glossa/internal/domain/types"
)

// Dependencies required by HTTP handlers. Using an interface bundle
// keeps the handler layer loosely coupled to implementations in other
// packages.
type Dependencies interface {
	SegmentDependencies
	SpanDependencies
	LabelDependencies
	SourceDependencies
	TrackingDependencies
	ArchiveDependencies
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler   *HealthHandler
	statsHandler    *StatsHandler
	segmentsHandler *SegmentsHandler
	spansHandler    *SpansHandler
	labelsHandler   *LabelsHandler
	sourcesHandler  *SourcesHandler
	trackingHandler *TrackingHandler
	archivesHandler *ArchivesHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider) *Server {
	return &Server{
		healthHandler:   NewHealthHandler(),
		statsHandler:    NewStatsHandler(statsProvider),
		segmentsHandler: NewSegmentsHandler(deps),
		spansHandler:    NewSpansHandler(deps),
		labelsHandler:   NewLabelsHandler(deps),
		sourcesHandler:  NewSourcesHandler(deps),
		trackingHandler: NewTrackingHandler(deps),
		archivesHandler: NewArchivesHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	// Specific paths first (most specific to least specific)
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/segments", MetricsMiddleware(s.segmentsHandler.HandleSegments, "segments"))
	mux.HandleFunc("/segments/", MetricsMiddleware(s.segmentsHandler.HandleSegmentDetail, "segment_detail"))
	mux.HandleFunc("/spans", MetricsMiddleware(s.spansHandler.HandlePostSpan, "spans"))
	mux.HandleFunc("/spans/", MetricsMiddleware(s.spansHandler.HandleDeleteSpan, "span_delete"))
	mux.HandleFunc("/labels", MetricsMiddleware(s.labelsHandler.HandleWindow, "labels"))
	mux.HandleFunc("/labels/frame", MetricsMiddleware(s.labelsHandler.HandleFrame, "labels_frame"))
	mux.HandleFunc("/sources", MetricsMiddleware(s.sourcesHandler.HandlePostBatch, "sources"))
	mux.HandleFunc("/media", MetricsMiddleware(s.trackingHandler.HandleOpenMedia, "media"))
	mux.HandleFunc("/tracking/", MetricsMiddleware(s.trackingHandler.HandleAction, "tracking"))
	mux.HandleFunc("/annotations", MetricsMiddleware(s.trackingHandler.HandleAnnotations, "annotations"))
	mux.HandleFunc("/archives", MetricsMiddleware(s.archivesHandler.HandleArchives, "archives"))
	mux.HandleFunc("/archives/", MetricsMiddleware(s.archivesHandler.HandleArchiveDetail, "archive_detail"))
}

// Read shapes shared by handler responses.
type (
	// Layering mirrors the stacking result returned after span writes.
	Layering = types.Layering
	// WindowLabels mirrors the label-join read shape.
	WindowLabels = types.WindowLabels
)

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// writeDomainError translates session and domain errors to their HTTP
// status and code, falling back to 500 for anything unrecognized.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, overlap.ErrCrossing):
		writeError(w, http.StatusConflict, "crossing_overlap", err)
	case errors.Is(err, service.ErrLayerLimit):
		writeError(w, http.StatusConflict, "layer_limit", err)
	case errors.Is(err, model.ErrUnknownSegment),
		errors.Is(err, service.ErrSpanNotFound),
		errors.Is(err, repository.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", err)
	case errors.Is(err, model.ErrEmptySpan),
		errors.Is(err, model.ErrSegmentStraddle),
		errors.Is(err, model.ErrBadSegment),
		errors.Is(err, service.ErrBadWindow),
		errors.Is(err, service.ErrWindowTooWide),
		errors.Is(err, service.ErrNoSegments),
		errors.Is(err, service.ErrNoStore),
		errors.Is(err, tracking.ErrBadInterval):
		writeError(w, http.StatusBadRequest, "bad_request", err)
	case errors.Is(err, service.ErrNoMedia),
		errors.Is(err, service.ErrNotStarted),
		errors.Is(err, tracking.ErrAlreadyBoxed),
		errors.Is(err, tracking.ErrNoBox),
		errors.Is(err, tracking.ErrMediaEnd),
		errors.Is(err, tracking.ErrNoHistory),
		errors.Is(err, tracking.ErrBeforeFirstKey),
		errors.Is(err, tracking.ErrNothingToSave):
		writeError(w, http.StatusConflict, "invalid_state", err)
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err)
	}
}

// Batch re-exported so API clients need not import the queue package.
type Batch = queue.Batch
