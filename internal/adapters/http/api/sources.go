// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/okian/glossa/internal/adapters/mq/queue"
	"github.com/okian/glossa/internal/domain/model"
)

// SourceDependencies defines the interface for machine-output ingestion.
type SourceDependencies interface {
	// Ingest submits a batch for async normalization. Returns false on
	// backpressure.
	Ingest(ctx context.Context, b queue.Batch) bool
}

// SourcesHandler handles machine-output batch requests.
type SourcesHandler struct {
	deps SourceDependencies
}

// NewSourcesHandler creates a new sources handler.
func NewSourcesHandler(deps SourceDependencies) *SourcesHandler {
	return &SourcesHandler{deps: deps}
}

// batchRequest mirrors the schema for POST /sources. Any of the three
// source slices may be empty.
type batchRequest struct {
	Tracks        []model.Track         `json:"tracks"`
	FrameSamples  []model.FrameSample   `json:"frame_samples"`
	Words         []model.AlignmentUnit `json:"words"`
	FrameInterval int                   `json:"frame_interval"`
}

func (b batchRequest) validate() error {
	if len(b.Tracks) == 0 && len(b.FrameSamples) == 0 && len(b.Words) == 0 {
		return NewKind("api.post_batch", ErrBadRequest)
	}
	return nil
}

// HandlePostBatch handles POST /sources requests.
func (h *SourcesHandler) HandlePostBatch(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_batch"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req batchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	ok := h.deps.Ingest(r.Context(), queue.Batch{
		Tracks:        req.Tracks,
		FrameSamples:  req.FrameSamples,
		Words:         req.Words,
		FrameInterval: req.FrameInterval,
	})
	if !ok {
		writeError(w, http.StatusTooManyRequests, "backpressure", NewKind(op, ErrBackpressure))
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]string{"status": "accepted"})
}
