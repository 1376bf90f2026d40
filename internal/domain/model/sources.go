package model

// Machine-generated sources are read-only to the engine: an external
// detector, classifier, or forced aligner produced them and the engine
// only answers queries against them.

// TrackSample is one underlying observation of a detector track.
type TrackSample struct {
	Time       float64 `json:"time"`
	Frame      int     `json:"frame"`
	Confidence float64 `json:"confidence"`
	Box        Box     `json:"box"`
}

// Track is a machine-generated, time-bounded, labeled detection with an
// identity spanning multiple per-time samples.
type Track struct {
	ID      string        `json:"id"`
	Label   string        `json:"label"`
	Color   string        `json:"color"`
	Start   float64       `json:"start"`
	End     float64       `json:"end"`
	Samples []TrackSample `json:"samples,omitempty"`
}

// FrameSample is one classification result at a single point in time,
// carrying per-label confidences.
type FrameSample struct {
	Time        float64            `json:"time"`
	Frame       int                `json:"frame"`
	Confidences map[string]float64 `json:"confidences"`
}

// AlignmentUnit is a machine-generated, scored, time-bounded sub-span,
// typically one spoken word from forced alignment.
type AlignmentUnit struct {
	Text  string  `json:"text"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Score float64 `json:"score"`
}
