// Package timeline answers "what machine-generated labels are active
// in this window" across three differently-shaped time series:
// discrete bounded tracks, continuous per-frame classification
// samples, and discrete scored alignment words.
package timeline

import (
	"math"
	"sort"

	"github.com/okian/glossa/internal/domain/model"
	"github.com/okian/glossa/internal/domain/types"
)

// Joiner holds the read-only source collections for one session. All
// queries are side-effect-free; a degraded or empty source yields an
// empty result for that source only and never fails the whole query.
type Joiner struct {
	tracks  []model.Track
	samples []model.FrameSample
	words   []model.AlignmentUnit

	// frameInterval is the sampling stride of the classifier source,
	// used as the early-exit tolerance of NearestSample.
	frameInterval int
	// ordered records whether samples are sorted by frame number.
	// Ingestion sorts them; sources supplied directly may not be, in
	// which case NearestSample falls back to a full scan.
	ordered bool
}

// Option applies a configuration option to the Joiner.
type Option func(*Joiner)

// WithTracks sets the detector track source.
func WithTracks(tracks []model.Track) Option {
	return func(j *Joiner) {
		j.tracks = tracks
	}
}

// WithFrameSamples sets the classifier sample source. ordered must be
// true only when samples are sorted by frame number ascending.
func WithFrameSamples(samples []model.FrameSample, ordered bool) Option {
	return func(j *Joiner) {
		j.samples = samples
		j.ordered = ordered
	}
}

// WithWords sets the forced-alignment word source.
func WithWords(words []model.AlignmentUnit) Option {
	return func(j *Joiner) {
		j.words = words
	}
}

// WithFrameInterval sets the classifier sampling stride.
func WithFrameInterval(n int) Option {
	return func(j *Joiner) {
		if n > 0 {
			j.frameInterval = n
		}
	}
}

// New creates a Joiner over the given sources.
func New(opts ...Option) *Joiner {
	j := &Joiner{frameInterval: 1}
	for _, opt := range opts {
		opt(j)
	}
	return j
}

// ActiveTracks returns the {label, color} pairs of tracks active in
// [start, end]. The overlap test is inclusive on both bounds: a track
// ending exactly at start still counts. Tracks are deduplicated by
// label; the first-seen color wins and first-seen order is kept.
func (j *Joiner) ActiveTracks(start, end float64) []types.LabelHit {
	var hits []types.LabelHit
	seen := make(map[string]struct{})
	for _, t := range j.tracks {
		if t.Start > end || t.End < start {
			continue
		}
		if t.Label == "" {
			continue
		}
		if _, ok := seen[t.Label]; ok {
			continue
		}
		seen[t.Label] = struct{}{}
		hits = append(hits, types.LabelHit{Label: t.Label, Color: t.Color})
	}
	return hits
}

// AverageConfidences averages each label's classifier confidence over
// the samples falling in [start, end]. A label absent from a sample
// contributes 0 for that sample, so the divisor is the filtered sample
// count, not a per-label denominator. Results are sorted by descending
// average, ties by label for determinism. Samples with no confidence
// map or non-finite values are skipped as malformed.
func (j *Joiner) AverageConfidences(start, end float64) []types.LabelScore {
	sums := make(map[string]float64)
	n := 0
	for _, s := range j.samples {
		if s.Time < start || s.Time > end {
			continue
		}
		if len(s.Confidences) == 0 {
			continue
		}
		n++
		for label, c := range s.Confidences {
			if math.IsNaN(c) || math.IsInf(c, 0) {
				continue
			}
			sums[label] += c
		}
	}
	if n == 0 {
		return nil
	}
	scores := make([]types.LabelScore, 0, len(sums))
	for label, sum := range sums {
		scores = append(scores, types.LabelScore{Label: label, Confidence: sum / float64(n)})
	}
	sort.Slice(scores, func(a, b int) bool {
		if scores[a].Confidence != scores[b].Confidence {
			return scores[a].Confidence > scores[b].Confidence
		}
		return scores[a].Label < scores[b].Label
	})
	return scores
}

// NearestSample returns the classifier sample closest to the target
// frame. On frame-ordered sources the scan stops once the distance has
// grown past the sampling stride; that is an optimization only, and a
// full linear scan over an unordered source produces the same answer.
func (j *Joiner) NearestSample(frame int) (model.FrameSample, bool) {
	if len(j.samples) == 0 {
		return model.FrameSample{}, false
	}
	best := j.samples[0]
	bestDist := abs(best.Frame - frame)
	for _, s := range j.samples[1:] {
		d := abs(s.Frame - frame)
		if d < bestDist {
			best = s
			bestDist = d
			continue
		}
		if j.ordered && s.Frame > frame && d > bestDist+j.frameInterval {
			break
		}
	}
	return best, true
}

// ActiveWords returns every alignment word overlapping [start, end]
// with the same inclusive test as tracks. Unlike tracks there is no
// dedup: every matching word is returned in time order.
func (j *Joiner) ActiveWords(start, end float64) []model.AlignmentUnit {
	var out []model.AlignmentUnit
	for _, w := range j.words {
		if w.Start > end || w.End < start {
			continue
		}
		out = append(out, w)
	}
	sort.SliceStable(out, func(a, b int) bool {
		return out[a].Start < out[b].Start
	})
	return out
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
