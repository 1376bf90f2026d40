package tracking

import (
	"fmt"
	"math"

	"github.com/okian/glossa/internal/domain/model"
)

// Interpolate expands a keyframe sequence into one spatial record per
// integer frame between the first and last keyframe inclusive.
//
// A single keyframe passes through unchanged. For each consecutive
// pair (a, b) with n = b.Frame - a.Frame, frames a.Frame..b.Frame are
// produced by component-wise linear interpolation of box and time at
// t = i/n, box coordinates rounded to integers, label taken from a.
// The duplicate frame shared at each pair boundary is dropped when
// concatenating.
//
// A pair with n <= 0 violates the KeyframeSequence invariant and fails
// loudly; the tracking workflow cannot produce one, so the caller
// bypassed the workflow.
func Interpolate(keyframes []model.Keyframe) ([]model.InterpolatedFrame, error) {
	if len(keyframes) == 0 {
		return nil, ErrEmptySequence
	}
	if len(keyframes) == 1 {
		k := keyframes[0]
		return []model.InterpolatedFrame{{Frame: k.Frame, Box: k.Box, Time: k.Time, Label: k.Label}}, nil
	}

	var out []model.InterpolatedFrame
	for p := 1; p < len(keyframes); p++ {
		a, b := keyframes[p-1], keyframes[p]
		n := b.Frame - a.Frame
		if n <= 0 {
			return nil, fmt.Errorf("%w: frame %d follows %d", model.ErrKeyframeOrder, b.Frame, a.Frame)
		}
		start := 0
		if p > 1 {
			// Frame a.Frame was already emitted as the previous
			// pair's endpoint.
			start = 1
		}
		for i := start; i <= n; i++ {
			t := float64(i) / float64(n)
			out = append(out, model.InterpolatedFrame{
				Frame: a.Frame + i,
				Box:   lerpBox(a.Box, b.Box, t),
				Time:  lerp(a.Time, b.Time, t),
				Label: a.Label,
			})
		}
	}
	return out, nil
}

func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

func lerpBox(a, b model.Box, t float64) model.Box {
	var out model.Box
	for i := range out {
		out[i] = math.Round(lerp(a[i], b[i], t))
	}
	return out
}
