package model

import "time"

// Archive is a persisted snapshot of one annotation session: the
// manual spans, the finalized tracked annotations, and enough metadata
// to list and reload it. The engine never owns persistence; the
// repository adapter serializes archives.
type Archive struct {
	ID        string       `json:"id"`
	Corpus    string       `json:"corpus"`
	Type      string       `json:"type"` // "text" or "multimodal"
	Framework string       `json:"framework"`
	TextID    string       `json:"text_id,omitempty"`
	Name      string       `json:"name,omitempty"`
	Coder     string       `json:"coder,omitempty"`
	Text      string       `json:"text,omitempty"`
	Spans     []Span       `json:"spans"`
	Tracks    []Annotation `json:"tracks,omitempty"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}
