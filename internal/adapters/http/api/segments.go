// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/okian/glossa/internal/domain/model"
	"github.com/okian/glossa/internal/domain/types"
)

// SegmentDependencies defines the interface for segment operations.
type SegmentDependencies interface {
	SetSegments(ctx context.Context, ids []string, lengths []int) error
	Segments(ctx context.Context) []model.Segment
	SegmentSpans(ctx context.Context, segmentID string) ([]model.Span, error)
	Layers(ctx context.Context, segmentID string) (types.Layering, error)
}

// SegmentsHandler handles segment requests.
type SegmentsHandler struct {
	deps SegmentDependencies
}

// NewSegmentsHandler creates a new segments handler.
func NewSegmentsHandler(deps SegmentDependencies) *SegmentsHandler {
	return &SegmentsHandler{deps: deps}
}

// segmentsRequest mirrors the schema for PUT /segments.
type segmentsRequest struct {
	Segments []struct {
		ID     string `json:"id"`
		Length int    `json:"length"`
	} `json:"segments"`
}

func (r segmentsRequest) validate() error {
	if len(r.Segments) == 0 {
		return NewKind("api.put_segments", ErrBadRequest)
	}
	for _, g := range r.Segments {
		if strings.TrimSpace(g.ID) == "" || g.Length <= 0 {
			return NewKind("api.put_segments", ErrBadRequest)
		}
	}
	return nil
}

// HandleSegments handles PUT and GET /segments requests.
func (h *SegmentsHandler) HandleSegments(w http.ResponseWriter, r *http.Request) {
	const op = "api.segments"
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, map[string]any{"segments": h.deps.Segments(r.Context())})
	case http.MethodPut:
		var req segmentsRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
			return
		}
		if err := req.validate(); err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", err)
			return
		}
		ids := make([]string, len(req.Segments))
		lengths := make([]int, len(req.Segments))
		for i, g := range req.Segments {
			ids[i] = g.ID
			lengths[i] = g.Length
		}
		if err := h.deps.SetSegments(r.Context(), ids, lengths); err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"segments": h.deps.Segments(r.Context())})
	default:
		http.NotFound(w, r)
	}
}

// HandleSegmentDetail handles GET /segments/{id}/spans and
// GET /segments/{id}/layers requests.
func (h *SegmentsHandler) HandleSegmentDetail(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	path := strings.TrimPrefix(r.URL.Path, "/segments/")
	id, view, ok := strings.Cut(path, "/")
	if !ok || id == "" {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}
	switch view {
	case "spans":
		spans, err := h.deps.SegmentSpans(r.Context(), id)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"spans": spans})
	case "layers":
		layering, err := h.deps.Layers(r.Context(), id)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, layering)
	default:
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
	}
}
