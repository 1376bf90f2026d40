package model_test

import (
	"testing"

	model "github.com/okian/glossa/internal/domain/model"
	"github.com/smartystreets/goconvey/convey"
)

func TestSpan(t *testing.T) {
	convey.Convey("Given a span", t, func() {
		convey.Convey("When start is before end", func() {
			s := model.Span{ID: "a", Label: "gesture", Start: 2, End: 8}

			convey.Convey("Then it validates and reports its length", func() {
				convey.So(s.Validate(), convey.ShouldBeNil)
				convey.So(s.Length(), convey.ShouldEqual, 6)
			})
		})

		convey.Convey("When start equals end", func() {
			s := model.Span{ID: "a", Start: 5, End: 5}

			convey.Convey("Then validation fails with the empty-span error", func() {
				convey.So(s.Validate(), convey.ShouldWrap, model.ErrEmptySpan)
			})
		})

		convey.Convey("When start is after end", func() {
			s := model.Span{ID: "a", Start: 9, End: 3}

			convey.Convey("Then validation fails", func() {
				convey.So(s.Validate(), convey.ShouldWrap, model.ErrEmptySpan)
			})
		})

		convey.Convey("When checking numeric overlap", func() {
			a := model.Span{Start: 2, End: 8}

			convey.Convey("Then touching ranges do not overlap", func() {
				convey.So(a.Overlaps(model.Span{Start: 8, End: 12}), convey.ShouldBeFalse)
			})
			convey.Convey("Then intersecting ranges overlap", func() {
				convey.So(a.Overlaps(model.Span{Start: 5, End: 10}), convey.ShouldBeTrue)
			})
			convey.Convey("Then nested ranges overlap", func() {
				convey.So(a.Overlaps(model.Span{Start: 3, End: 6}), convey.ShouldBeTrue)
			})
		})
	})
}

func TestSegmentList(t *testing.T) {
	convey.Convey("Given a segment list built from ids and lengths", t, func() {
		list, err := model.NewSegmentList([]string{"s0", "s1", "s2"}, []int{10, 20, 5})
		convey.So(err, convey.ShouldBeNil)

		convey.Convey("Then offsets are the prefix sum of lengths", func() {
			segs := list.Segments()
			convey.So(segs[0].Start, convey.ShouldEqual, 0)
			convey.So(segs[1].Start, convey.ShouldEqual, 10)
			convey.So(segs[2].Start, convey.ShouldEqual, 30)
			convey.So(list.TotalLength(), convey.ShouldEqual, 35)
		})

		convey.Convey("When appending a segment", func() {
			convey.So(list.Append("s3", 7), convey.ShouldBeNil)

			convey.Convey("Then offsets are recomputed", func() {
				segs := list.Segments()
				convey.So(segs[3].Start, convey.ShouldEqual, 35)
				convey.So(segs[3].End(), convey.ShouldEqual, 42)
			})
		})

		convey.Convey("When mapping a local offset to global", func() {
			global, err := list.GlobalOffset("s1", 4)
			convey.So(err, convey.ShouldBeNil)
			convey.So(global, convey.ShouldEqual, 14)
		})

		convey.Convey("When the local offset exceeds the segment", func() {
			_, err := list.GlobalOffset("s1", 25)
			convey.So(err, convey.ShouldWrap, model.ErrSegmentStraddle)
		})

		convey.Convey("When resolving span ownership", func() {
			convey.Convey("Then a contained span maps to its segment", func() {
				owner, err := list.Owner(model.Span{ID: "a", Start: 12, End: 18})
				convey.So(err, convey.ShouldBeNil)
				convey.So(owner.ID, convey.ShouldEqual, "s1")
			})

			convey.Convey("Then a span touching the segment end is still owned", func() {
				owner, err := list.Owner(model.Span{ID: "a", Start: 10, End: 30})
				convey.So(err, convey.ShouldBeNil)
				convey.So(owner.ID, convey.ShouldEqual, "s1")
			})

			convey.Convey("Then a straddling span is rejected", func() {
				_, err := list.Owner(model.Span{ID: "a", Start: 8, End: 14})
				convey.So(err, convey.ShouldWrap, model.ErrSegmentStraddle)
			})

			convey.Convey("Then a span outside the document is unknown", func() {
				_, err := list.Owner(model.Span{ID: "a", Start: 40, End: 44})
				convey.So(err, convey.ShouldWrap, model.ErrUnknownSegment)
			})
		})
	})

	convey.Convey("Given invalid construction input", t, func() {
		convey.Convey("When ids and lengths differ in count", func() {
			_, err := model.NewSegmentList([]string{"a"}, []int{1, 2})
			convey.So(err, convey.ShouldWrap, model.ErrBadSegment)
		})

		convey.Convey("When a length is zero", func() {
			_, err := model.NewSegmentList([]string{"a"}, []int{0})
			convey.So(err, convey.ShouldWrap, model.ErrBadSegment)
		})
	})
}

func TestKeyframeSequence(t *testing.T) {
	convey.Convey("Given a keyframe sequence", t, func() {
		convey.Convey("When frames strictly increase", func() {
			seq := model.KeyframeSequence{Keyframes: []model.Keyframe{
				{Frame: 0}, {Frame: 5}, {Frame: 9},
			}}
			convey.So(seq.Validate(), convey.ShouldBeNil)
		})

		convey.Convey("When a frame repeats", func() {
			seq := model.KeyframeSequence{Keyframes: []model.Keyframe{
				{Frame: 0}, {Frame: 5}, {Frame: 5},
			}}
			convey.So(seq.Validate(), convey.ShouldWrap, model.ErrKeyframeOrder)
		})

		convey.Convey("When the sequence is empty", func() {
			seq := model.KeyframeSequence{}
			convey.So(seq.Validate(), convey.ShouldWrap, model.ErrKeyframeOrder)
		})
	})
}
