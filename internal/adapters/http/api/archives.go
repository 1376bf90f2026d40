// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/okian/glossa/internal/adapters/repository"
	"github.com/okian/glossa/internal/domain/model"
)

// ArchiveDependencies defines the interface for archive persistence.
type ArchiveDependencies interface {
	SaveArchive(ctx context.Context, a model.Archive) (model.Archive, error)
	LoadArchive(ctx context.Context, id string) (model.Archive, error)
	ListArchives(ctx context.Context, f repository.Filter) ([]repository.Summary, error)
	DeleteArchive(ctx context.Context, id string) error
	RenameArchive(ctx context.Context, id, name string) error
}

// ArchivesHandler handles archive requests.
type ArchivesHandler struct {
	deps ArchiveDependencies
}

// NewArchivesHandler creates a new archives handler.
func NewArchivesHandler(deps ArchiveDependencies) *ArchivesHandler {
	return &ArchivesHandler{deps: deps}
}

// archiveRequest mirrors the schema for POST /archives. Spans and
// tracks come from the live session, not the request.
type archiveRequest struct {
	ID        string `json:"id"`
	Corpus    string `json:"corpus"`
	Type      string `json:"type"`
	Framework string `json:"framework"`
	TextID    string `json:"text_id"`
	Name      string `json:"name"`
	Coder     string `json:"coder"`
	Text      string `json:"text"`
}

func (a archiveRequest) validate() error {
	switch {
	case strings.TrimSpace(a.Corpus) == "":
		return errors.New("missing corpus")
	case a.Type != "text" && a.Type != "multimodal":
		return errors.New("type must be text or multimodal")
	}
	return nil
}

type renameRequest struct {
	Name string `json:"name"`
}

// HandleArchives handles POST and GET /archives requests.
func (h *ArchivesHandler) HandleArchives(w http.ResponseWriter, r *http.Request) {
	const op = "api.archives"
	switch r.Method {
	case http.MethodGet:
		q := r.URL.Query()
		summaries, err := h.deps.ListArchives(r.Context(), repository.Filter{
			Corpus: q.Get("corpus"),
			Type:   q.Get("type"),
			TextID: q.Get("text_id"),
		})
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"archives": summaries})
	case http.MethodPost:
		var req archiveRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
			return
		}
		if err := req.validate(); err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
			return
		}
		saved, err := h.deps.SaveArchive(r.Context(), model.Archive{
			ID:        req.ID,
			Corpus:    req.Corpus,
			Type:      req.Type,
			Framework: req.Framework,
			TextID:    req.TextID,
			Name:      req.Name,
			Coder:     req.Coder,
			Text:      req.Text,
		})
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, saved)
	default:
		http.NotFound(w, r)
	}
}

// HandleArchiveDetail handles GET, DELETE /archives/{id} and
// POST /archives/{id}/rename requests.
func (h *ArchivesHandler) HandleArchiveDetail(w http.ResponseWriter, r *http.Request) {
	const op = "api.archive_detail"
	path := strings.TrimPrefix(r.URL.Path, "/archives/")
	id, rest, nested := strings.Cut(path, "/")
	if id == "" {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}

	if nested {
		if rest != "rename" || r.Method != http.MethodPost {
			http.NotFound(w, r)
			return
		}
		var req renameRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
			return
		}
		if strings.TrimSpace(req.Name) == "" {
			writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
			return
		}
		if err := h.deps.RenameArchive(r.Context(), id, req.Name); err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "renamed"})
		return
	}

	switch r.Method {
	case http.MethodGet:
		a, err := h.deps.LoadArchive(r.Context(), id)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, a)
	case http.MethodDelete:
		if err := h.deps.DeleteArchive(r.Context(), id); err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
	default:
		http.NotFound(w, r)
	}
}
