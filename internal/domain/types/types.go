// Package types contains common read shapes used across the application
package types

import "github.com/okian/glossa/internal/domain/model"

// LabelHit is a deduplicated {label, color} pair from bounded tracks.
type LabelHit struct {
	Label string `json:"label"`
	Color string `json:"color"`
}

// LabelScore is a per-label averaged classifier confidence.
type LabelScore struct {
	Label      string  `json:"label"`
	Confidence float64 `json:"confidence"`
}

// Layering is the visual stacking computed for one segment's spans.
type Layering struct {
	// Layers maps span id to its stacking layer index, 0 being the
	// layer closest to the base text.
	Layers map[string]int `json:"layers"`
	// Count is max(layer index)+1, used by the caller to size the
	// rendering area. A segment with no spans has zero layers.
	Count int `json:"count"`
}

// WindowLabels decorates a time window with every machine-generated
// label active in it, one slice per source shape.
type WindowLabels struct {
	Tracks      []LabelHit            `json:"tracks"`
	Confidences []LabelScore          `json:"confidences"`
	Words       []model.AlignmentUnit `json:"words"`
}
