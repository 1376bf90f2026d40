package seed

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/okian/glossa/internal/domain/model"
)

// Label palette for generated spans and tracks.
var palette = []struct {
	label string
	color string
}{
	{"gesture", "#3498db"},
	{"gaze", "#9b59b6"},
	{"posture", "#1abc9c"},
	{"speech", "#e74c3c"},
	{"head", "#f1c40f"},
}

// generator produces deterministic synthetic payloads for one run.
type generator struct {
	rng *rand.Rand
}

func newGenerator(seed int64) *generator {
	return &generator{rng: rand.New(rand.NewSource(seed))}
}

// document builds a segmented document with varied sentence lengths.
func (g *generator) document(n int) segmentsRequest {
	if n < 1 {
		n = 1
	}
	var req segmentsRequest
	for i := 0; i < n; i++ {
		req.Segments = append(req.Segments, segmentPayload{
			ID:     fmt.Sprintf("sent-%03d", i),
			Length: 40 + g.rng.Intn(80),
		})
	}
	return req
}

// spans generates candidates inside random segments. Roughly one in
// five deliberately crosses an earlier candidate so runs exercise the
// rejection path too.
func (g *generator) spans(doc segmentsRequest, n int) []spanRequest {
	offsets := make([]int, len(doc.Segments)+1)
	for i, s := range doc.Segments {
		offsets[i+1] = offsets[i] + s.Length
	}

	out := make([]spanRequest, 0, n)
	for i := 0; i < n; i++ {
		seg := g.rng.Intn(len(doc.Segments))
		segStart, segLen := offsets[seg], doc.Segments[seg].Length
		p := palette[g.rng.Intn(len(palette))]

		start := segStart + g.rng.Intn(segLen-1)
		length := 1 + g.rng.Intn(segLen-(start-segStart))
		sp := spanRequest{
			Label: p.label,
			Color: p.color,
			Start: start,
			End:   start + length,
			Kind:  "text",
		}
		if i%5 == 4 && len(out) > 0 {
			// Shift to straddle the previous span's end.
			prev := out[len(out)-1]
			sp.Start = prev.Start + (prev.End-prev.Start)/2
			sp.End = prev.End + 1
		}
		out = append(out, sp)
	}
	return out
}

// batch builds one machine-output delivery: a handful of bounded
// tracks, a classifier sample run, and aligned words.
func (g *generator) batch(index int) batchRequest {
	base := float64(index) * 10

	var tracks []model.Track
	for i := 0; i < 3; i++ {
		p := palette[g.rng.Intn(len(palette))]
		start := base + g.rng.Float64()*5
		tracks = append(tracks, model.Track{
			Label: p.label,
			Color: p.color,
			Start: start,
			End:   start + 1 + g.rng.Float64()*4,
		})
	}

	var samples []model.FrameSample
	for f := 0; f < 50; f += 5 {
		frame := index*50 + f
		conf := map[string]float64{}
		for _, p := range palette[:3] {
			if g.rng.Float64() < 0.7 {
				conf[p.label] = math.Round(g.rng.Float64()*1000) / 1000
			}
		}
		if len(conf) == 0 {
			conf[palette[0].label] = 0.5
		}
		samples = append(samples, model.FrameSample{
			Time:        float64(frame) / 25,
			Frame:       frame,
			Confidences: conf,
		})
	}

	var words []model.AlignmentUnit
	t := base
	for i := 0; i < 8; i++ {
		d := 0.2 + g.rng.Float64()*0.5
		words = append(words, model.AlignmentUnit{
			Text:  fmt.Sprintf("word%d_%d", index, i),
			Start: t,
			End:   t + d,
			Score: 0.6 + g.rng.Float64()*0.4,
		})
		t += d + 0.05
	}

	return batchRequest{
		Tracks:        tracks,
		FrameSamples:  samples,
		Words:         words,
		FrameInterval: 5,
	}
}

// box returns a random plausible bounding box.
func (g *generator) box() model.Box {
	x := g.rng.Float64() * 500
	y := g.rng.Float64() * 300
	return model.Box{x, y, x + 40 + g.rng.Float64()*100, y + 60 + g.rng.Float64()*120}
}
