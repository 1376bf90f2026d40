package timeline_test

import (
	"testing"

	model "github.com/okian/glossa/internal/domain/model"
	timeline "github.com/okian/glossa/internal/domain/timeline"
	types "github.com/okian/glossa/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

func TestActiveTracks(t *testing.T) {
	Convey("Given a joiner over detector tracks", t, func() {
		j := timeline.New(timeline.WithTracks([]model.Track{
			{ID: "t1", Label: "gesture", Color: "#111", Start: 0, End: 5},
			{ID: "t2", Label: "gaze", Color: "#222", Start: 4, End: 9},
			{ID: "t3", Label: "gesture", Color: "#333", Start: 6, End: 12},
			{ID: "t4", Label: "", Start: 0, End: 20},
		}))

		Convey("When the window overlaps several tracks", func() {
			hits := j.ActiveTracks(4, 8)

			Convey("Then labels are deduplicated with first-seen color", func() {
				So(hits, ShouldResemble, []types.LabelHit{
					{Label: "gesture", Color: "#111"},
					{Label: "gaze", Color: "#222"},
				})
			})
		})

		Convey("When a track ends exactly at the window start", func() {
			hits := j.ActiveTracks(5, 6)

			Convey("Then the inclusive bound still counts it", func() {
				So(hits, ShouldContain, types.LabelHit{Label: "gesture", Color: "#111"})
			})
		})

		Convey("When the window touches nothing", func() {
			So(j.ActiveTracks(50, 60), ShouldBeEmpty)
		})

		Convey("When there are no tracks at all", func() {
			empty := timeline.New()
			So(empty.ActiveTracks(0, 10), ShouldBeEmpty)
		})
	})
}

func TestAverageConfidences(t *testing.T) {
	Convey("Given classifier samples", t, func() {
		j := timeline.New(timeline.WithFrameSamples([]model.FrameSample{
			{Time: 1, Frame: 25, Confidences: map[string]float64{"smile": 0.9, "nod": 0.3}},
			{Time: 2, Frame: 50, Confidences: map[string]float64{"smile": 0.6}},
			{Time: 3, Frame: 75, Confidences: map[string]float64{"nod": 0.6}},
			{Time: 9, Frame: 225, Confidences: map[string]float64{"smile": 1.0}},
		}, true))

		Convey("When averaging over a three-sample window", func() {
			scores := j.AverageConfidences(0.5, 3.5)

			Convey("Then an absent label counts as zero for that sample", func() {
				// smile: (0.9 + 0.6 + 0) / 3, nod: (0.3 + 0 + 0.6) / 3
				So(scores, ShouldHaveLength, 2)
				So(scores[0].Label, ShouldEqual, "smile")
				So(scores[0].Confidence, ShouldAlmostEqual, 0.5)
				So(scores[1].Label, ShouldEqual, "nod")
				So(scores[1].Confidence, ShouldAlmostEqual, 0.3)
			})
		})

		Convey("When averages tie", func() {
			tied := timeline.New(timeline.WithFrameSamples([]model.FrameSample{
				{Time: 1, Frame: 25, Confidences: map[string]float64{"b": 0.4, "a": 0.4}},
			}, true))
			scores := tied.AverageConfidences(0, 2)

			Convey("Then the label breaks the tie", func() {
				So(scores[0].Label, ShouldEqual, "a")
				So(scores[1].Label, ShouldEqual, "b")
			})
		})

		Convey("When no sample falls in the window", func() {
			So(j.AverageConfidences(4, 8), ShouldBeNil)
		})

		Convey("When samples lack confidence maps", func() {
			degraded := timeline.New(timeline.WithFrameSamples([]model.FrameSample{
				{Time: 1, Frame: 25},
				{Time: 2, Frame: 50, Confidences: map[string]float64{"smile": 0.8}},
			}, true))
			scores := degraded.AverageConfidences(0, 3)

			Convey("Then malformed samples are skipped, not counted", func() {
				So(scores, ShouldHaveLength, 1)
				So(scores[0].Confidence, ShouldAlmostEqual, 0.8)
			})
		})
	})
}

func TestNearestSample(t *testing.T) {
	samples := []model.FrameSample{
		{Time: 0, Frame: 0, Confidences: map[string]float64{"a": 0.1}},
		{Time: 0.4, Frame: 10, Confidences: map[string]float64{"a": 0.2}},
		{Time: 0.8, Frame: 20, Confidences: map[string]float64{"a": 0.3}},
		{Time: 1.2, Frame: 30, Confidences: map[string]float64{"a": 0.4}},
	}

	Convey("Given ordered classifier samples", t, func() {
		j := timeline.New(
			timeline.WithFrameSamples(samples, true),
			timeline.WithFrameInterval(10),
		)

		Convey("When the target sits between samples", func() {
			s, ok := j.NearestSample(13)
			So(ok, ShouldBeTrue)
			So(s.Frame, ShouldEqual, 10)
		})

		Convey("When the target is past the last sample", func() {
			s, ok := j.NearestSample(500)
			So(ok, ShouldBeTrue)
			So(s.Frame, ShouldEqual, 30)
		})

		Convey("When the source is unordered", func() {
			shuffled := []model.FrameSample{samples[2], samples[0], samples[3], samples[1]}
			full := timeline.New(timeline.WithFrameSamples(shuffled, false))

			Convey("Then the full scan finds the same answer", func() {
				for _, frame := range []int{0, 7, 13, 25, 500} {
					want, _ := j.NearestSample(frame)
					got, ok := full.NearestSample(frame)
					So(ok, ShouldBeTrue)
					So(got.Frame, ShouldEqual, want.Frame)
				}
			})
		})

		Convey("When there are no samples", func() {
			empty := timeline.New()
			_, ok := empty.NearestSample(10)
			So(ok, ShouldBeFalse)
		})
	})
}

func TestActiveWords(t *testing.T) {
	Convey("Given aligned words", t, func() {
		j := timeline.New(timeline.WithWords([]model.AlignmentUnit{
			{Text: "world", Start: 1.0, End: 1.4, Score: 0.9},
			{Text: "hello", Start: 0.5, End: 0.9, Score: 0.8},
			{Text: "again", Start: 3.0, End: 3.5, Score: 0.7},
		}))

		Convey("When querying a window", func() {
			words := j.ActiveWords(0.9, 2.0)

			Convey("Then matches come back in time order without dedup", func() {
				So(words, ShouldHaveLength, 2)
				So(words[0].Text, ShouldEqual, "hello")
				So(words[1].Text, ShouldEqual, "world")
			})
		})

		Convey("When nothing matches", func() {
			So(j.ActiveWords(10, 11), ShouldBeEmpty)
		})
	})
}
