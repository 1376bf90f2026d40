// Package layering packs a segment's spans into stacking layers so
// that spans sharing a layer never overlap.
package layering

import (
	"sort"

	"github.com/okian/glossa/internal/domain/model"
)

// interval is the placed shape a layer tracks; only offsets matter at
// this stage.
type interval struct {
	start, end int
}

func (iv interval) overlaps(o interval) bool {
	return iv.start < o.end && o.start < iv.end
}

// Pack assigns each span a layer index with a greedy first-fit scan.
// Spans are placed longest first (ties broken by start offset, then
// id, for a fully deterministic result), each into the lowest layer
// containing nothing it numerically overlaps. Nested spans therefore
// stack above the spans that contain them. This is greedy interval
// coloring: not guaranteed minimal on adversarial input, but
// deterministic and stable for the tens of spans a segment carries.
//
// Pack is pure and recomputed from scratch on every span-set change;
// assignments are never patched incrementally.
func Pack(spans []model.Span) map[string]int {
	assign := make(map[string]int, len(spans))
	if len(spans) == 0 {
		return assign
	}

	ordered := make([]model.Span, len(spans))
	copy(ordered, spans)
	sort.SliceStable(ordered, func(i, j int) bool {
		if li, lj := ordered[i].Length(), ordered[j].Length(); li != lj {
			return li > lj
		}
		if ordered[i].Start != ordered[j].Start {
			return ordered[i].Start < ordered[j].Start
		}
		return ordered[i].ID < ordered[j].ID
	})

	var layers [][]interval
	for _, s := range ordered {
		iv := interval{start: s.Start, end: s.End}
		placed := false
		for idx := range layers {
			if fits(layers[idx], iv) {
				layers[idx] = append(layers[idx], iv)
				assign[s.ID] = idx
				placed = true
				break
			}
		}
		if !placed {
			layers = append(layers, []interval{iv})
			assign[s.ID] = len(layers) - 1
		}
	}
	return assign
}

// Count returns the total layer count of an assignment: max index + 1,
// zero for an empty segment.
func Count(assign map[string]int) int {
	max := -1
	for _, idx := range assign {
		if idx > max {
			max = idx
		}
	}
	return max + 1
}

func fits(layer []interval, iv interval) bool {
	for _, placed := range layer {
		if placed.overlaps(iv) {
			return false
		}
	}
	return true
}
