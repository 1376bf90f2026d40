// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/okian/glossa/internal/domain/model"
)

// TrackingDependencies defines the interface for the box tracking
// workflow.
type TrackingDependencies interface {
	OpenMedia(ctx context.Context, totalFrames int, fps float64) error
	Draw(ctx context.Context, box model.Box, frame int, t float64, label, color string) error
	Adjust(ctx context.Context, box model.Box) error
	TrackNext(ctx context.Context, interval int) error
	TrackPrev(ctx context.Context, interval int) error
	Confirm(ctx context.Context) (model.Annotation, error)
	SaveSequence(ctx context.Context) (model.Annotation, error)
	ClearBox(ctx context.Context)
	Annotations(ctx context.Context) []model.Annotation
}

// TrackingHandler handles tracking workflow requests.
type TrackingHandler struct {
	deps TrackingDependencies
}

// NewTrackingHandler creates a new tracking handler.
func NewTrackingHandler(deps TrackingDependencies) *TrackingHandler {
	return &TrackingHandler{deps: deps}
}

// mediaRequest mirrors the schema for POST /media.
type mediaRequest struct {
	TotalFrames int     `json:"total_frames"`
	FPS         float64 `json:"fps"`
}

// HandleOpenMedia handles POST /media requests.
func (h *TrackingHandler) HandleOpenMedia(w http.ResponseWriter, r *http.Request) {
	const op = "api.open_media"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req mediaRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if req.TotalFrames <= 0 {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}
	if err := h.deps.OpenMedia(r.Context(), req.TotalFrames, req.FPS); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "opened"})
}

// trackingRequest carries the union of the per-action payloads; each
// action reads only its own fields.
type trackingRequest struct {
	Box      model.Box `json:"box"`
	Frame    int       `json:"frame"`
	Time     float64   `json:"time"`
	Label    string    `json:"label"`
	Color    string    `json:"color"`
	Interval int       `json:"interval"`
}

// HandleAction handles POST /tracking/{action} requests where action is
// one of draw, adjust, next, prev, confirm, save, clear.
func (h *TrackingHandler) HandleAction(w http.ResponseWriter, r *http.Request) {
	const op = "api.tracking"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	action := strings.TrimPrefix(r.URL.Path, "/tracking/")
	if action == "" || strings.Contains(action, "/") {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}

	var req trackingRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
			return
		}
	}

	ctx := r.Context()
	switch action {
	case "draw":
		if strings.TrimSpace(req.Label) == "" {
			writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, errors.New("missing label")))
			return
		}
		if err := h.deps.Draw(ctx, req.Box, req.Frame, req.Time, req.Label, req.Color); err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "boxed"})
	case "adjust":
		if err := h.deps.Adjust(ctx, req.Box); err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "adjusted"})
	case "next":
		if err := h.deps.TrackNext(ctx, req.Interval); err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "advanced"})
	case "prev":
		if err := h.deps.TrackPrev(ctx, req.Interval); err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "stepped_back"})
	case "confirm":
		ann, err := h.deps.Confirm(ctx)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, ann)
	case "save":
		ann, err := h.deps.SaveSequence(ctx)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, ann)
	case "clear":
		h.deps.ClearBox(ctx)
		writeJSON(w, http.StatusOK, map[string]string{"status": "cleared"})
	default:
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
	}
}

// HandleAnnotations handles GET /annotations requests.
func (h *TrackingHandler) HandleAnnotations(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"annotations": h.deps.Annotations(r.Context())})
}
