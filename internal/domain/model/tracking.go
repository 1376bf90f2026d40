package model

import (
	"errors"
	"fmt"
)

// ErrKeyframeOrder is returned when keyframe frame numbers are not
// strictly increasing. This is an invariant of KeyframeSequence, not
// recoverable input: the tracking workflow cannot produce such a
// sequence, so hitting it means the caller bypassed the workflow.
var ErrKeyframeOrder = errors.New("keyframe frame numbers must strictly increase")

// Box is a spatial bounding box as [x1, y1, x2, y2].
type Box [4]float64

// Keyframe is a user-authored spatial box anchored to one specific
// frame number.
type Keyframe struct {
	Frame int     `json:"frame"`
	Box   Box     `json:"box"`
	Time  float64 `json:"time"`
	Label string  `json:"label"`
	Color string  `json:"color,omitempty"`
}

// InterpolatedFrame is a derived, dense per-frame box produced by
// linearly interpolating between two keyframes.
type InterpolatedFrame struct {
	Frame int     `json:"frame"`
	Box   Box     `json:"box"`
	Time  float64 `json:"time"`
	Label string  `json:"label"`
}

// KeyframeSequence is the ordered keyframe list of one tracked box.
// Once saved it is immutable and expanded into per-frame boxes.
type KeyframeSequence struct {
	ID        string     `json:"id"`
	Label     string     `json:"label"`
	Color     string     `json:"color"`
	Keyframes []Keyframe `json:"keyframes"`
}

// Validate enforces the strictly-increasing frame number invariant.
func (s KeyframeSequence) Validate() error {
	if len(s.Keyframes) == 0 {
		return fmt.Errorf("%w: empty sequence", ErrKeyframeOrder)
	}
	for i := 1; i < len(s.Keyframes); i++ {
		if s.Keyframes[i].Frame <= s.Keyframes[i-1].Frame {
			return fmt.Errorf("%w: frame %d follows %d",
				ErrKeyframeOrder, s.Keyframes[i].Frame, s.Keyframes[i-1].Frame)
		}
	}
	return nil
}

// Annotation is a finalized record emitted by the tracking workflow:
// either a single-frame event or a saved keyframe sequence together
// with its dense expansion.
type Annotation struct {
	ID         string              `json:"id"`
	Label      string              `json:"label"`
	Color      string              `json:"color"`
	StartFrame int                 `json:"start_frame"`
	EndFrame   int                 `json:"end_frame"`
	FrameCount int                 `json:"frame_count"`
	StartTime  float64             `json:"start_time"`
	EndTime    float64             `json:"end_time"`
	Keyframes  []Keyframe          `json:"keyframes"`
	Frames     []InterpolatedFrame `json:"frames"`
}
