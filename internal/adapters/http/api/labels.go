// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"
	"strconv"

	"github.com/okian/glossa/internal/domain/model"
	"github.com/okian/glossa/internal/domain/types"
)

// LabelDependencies defines the interface for label join queries.
type LabelDependencies interface {
	Labels(ctx context.Context, start, end float64) (types.WindowLabels, error)
	FrameLabels(ctx context.Context, frame int) (model.FrameSample, bool)
}

// LabelsHandler handles label join requests.
type LabelsHandler struct {
	deps LabelDependencies
}

// NewLabelsHandler creates a new labels handler.
func NewLabelsHandler(deps LabelDependencies) *LabelsHandler {
	return &LabelsHandler{deps: deps}
}

// HandleWindow handles GET /labels?start=&end= requests.
func (h *LabelsHandler) HandleWindow(w http.ResponseWriter, r *http.Request) {
	const op = "api.labels_window"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	q := r.URL.Query()
	start, err := strconv.ParseFloat(q.Get("start"), 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	end, err := strconv.ParseFloat(q.Get("end"), 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	labels, err := h.deps.Labels(r.Context(), start, end)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, labels)
}

// HandleFrame handles GET /labels/frame?frame= requests, returning the
// classifier sample nearest the frame.
func (h *LabelsHandler) HandleFrame(w http.ResponseWriter, r *http.Request) {
	const op = "api.labels_frame"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	frame, err := strconv.Atoi(r.URL.Query().Get("frame"))
	if err != nil || frame < 0 {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}
	sample, ok := h.deps.FrameLabels(r.Context(), frame)
	if !ok {
		writeJSON(w, http.StatusOK, map[string]any{"found": false})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"found": true, "sample": sample})
}
