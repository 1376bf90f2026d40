// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/okian/glossa/internal/domain/model"
	"github.com/okian/glossa/internal/domain/overlap"
	"github.com/okian/glossa/internal/domain/types"
)

// SpanDependencies defines the interface for span write operations.
type SpanDependencies interface {
	AddSpan(ctx context.Context, span model.Span) (model.Span, types.Layering, error)
	RemoveSpan(ctx context.Context, id string) error
}

// SpansHandler handles span requests.
type SpansHandler struct {
	deps SpanDependencies
}

// NewSpansHandler creates a new spans handler.
func NewSpansHandler(deps SpanDependencies) *SpansHandler {
	return &SpansHandler{deps: deps}
}

// spanRequest mirrors the schema for POST /spans. Offsets are global;
// end is exclusive.
type spanRequest struct {
	Label string `json:"label"`
	Color string `json:"color"`
	Start int    `json:"start"`
	End   int    `json:"end"`
	Kind  string `json:"kind"`
}

func (s spanRequest) validate() error {
	switch {
	case strings.TrimSpace(s.Label) == "":
		return errors.New("missing label")
	case s.Start < 0:
		return errors.New("negative start offset")
	case s.End <= s.Start:
		return errors.New("end must be greater than start")
	}
	switch model.SpanKind(s.Kind) {
	case model.KindText, model.KindAudio, model.KindVideo, "":
		return nil
	default:
		return errors.New("unknown kind")
	}
}

// spanResponse carries the accepted span and the segment's stacking
// after acceptance.
type spanResponse struct {
	Span     model.Span     `json:"span"`
	Layering types.Layering `json:"layering"`
}

// conflictResponse points the client at the existing span a rejected
// candidate crosses.
type conflictResponse struct {
	Code          string `json:"code"`
	Message       string `json:"message"`
	ConflictingID string `json:"conflicting_id"`
}

// HandlePostSpan handles POST /spans requests.
func (h *SpansHandler) HandlePostSpan(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_span"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req spanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	span, layering, err := h.deps.AddSpan(r.Context(), model.Span{
		Label: req.Label,
		Color: req.Color,
		Start: req.Start,
		End:   req.End,
		Kind:  model.SpanKind(req.Kind),
	})
	if err != nil {
		var conflict *overlap.Conflict
		if errors.As(err, &conflict) {
			writeJSON(w, http.StatusConflict, conflictResponse{
				Code:          "crossing_overlap",
				Message:       conflict.Error(),
				ConflictingID: conflict.ConflictingID,
			})
			return
		}
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, spanResponse{Span: span, Layering: layering})
}

// HandleDeleteSpan handles DELETE /spans/{id} requests.
func (h *SpansHandler) HandleDeleteSpan(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		http.NotFound(w, r)
		return
	}
	id := strings.TrimPrefix(r.URL.Path, "/spans/")
	if id == "" || strings.Contains(id, "/") {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}
	if err := h.deps.RemoveSpan(r.Context(), id); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
