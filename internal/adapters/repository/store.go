// Package repository defines the annotation archive store interface
// and errors.
package repository

import (
	"context"
	"time"

	"github.com/okian/glossa/internal/domain/model"
)

// Filter narrows archive listings. Zero-value fields match everything.
type Filter struct {
	Corpus string
	Type   string
	TextID string
}

// Summary is the listing row for one archive: enough to render a
// picker without loading the full document.
type Summary struct {
	ID         string    `json:"id"`
	Corpus     string    `json:"corpus"`
	Type       string    `json:"type"`
	Framework  string    `json:"framework"`
	TextID     string    `json:"text_id,omitempty"`
	Name       string    `json:"name,omitempty"`
	Coder      string    `json:"coder,omitempty"`
	SpanCount  int       `json:"span_count"`
	TrackCount int       `json:"track_count"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Store provides read/write access to persisted annotation archives.
type Store interface {
	// Save upserts an archive by id, assigning an id when empty. On
	// update, empty Name and Coder fields keep their stored values so
	// re-saving a session does not lose them.
	Save(ctx context.Context, a model.Archive) (model.Archive, error)

	// Get returns the full archive document.
	// Returns ErrNotFound if the archive is unknown.
	Get(ctx context.Context, id string) (model.Archive, error)

	// List returns archive summaries matching the filter, newest
	// first.
	List(ctx context.Context, f Filter) ([]Summary, error)

	// Delete removes an archive. Returns ErrNotFound if unknown.
	Delete(ctx context.Context, id string) error

	// Rename updates an archive's display name. Returns ErrNotFound
	// if unknown.
	Rename(ctx context.Context, id, name string) error

	// Count returns the number of persisted archives.
	Count(ctx context.Context) int

	// Close releases underlying resources.
	Close() error
}
