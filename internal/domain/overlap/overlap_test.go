package overlap_test

import (
	"errors"
	"testing"

	model "github.com/okian/glossa/internal/domain/model"
	overlap "github.com/okian/glossa/internal/domain/overlap"
	. "github.com/smartystreets/goconvey/convey"
)

func TestClassify(t *testing.T) {
	Convey("Given two spans", t, func() {
		base := model.Span{ID: "base", Start: 2, End: 8}

		Convey("Then separated ranges are disjoint", func() {
			So(overlap.Classify(base, model.Span{Start: 9, End: 12}), ShouldEqual, overlap.Disjoint)
		})

		Convey("Then touching ranges are disjoint", func() {
			So(overlap.Classify(base, model.Span{Start: 8, End: 12}), ShouldEqual, overlap.Disjoint)
		})

		Convey("Then a contained range is nested", func() {
			So(overlap.Classify(base, model.Span{Start: 3, End: 6}), ShouldEqual, overlap.Nested)
		})

		Convey("Then an identical range is nested", func() {
			So(overlap.Classify(base, model.Span{Start: 2, End: 8}), ShouldEqual, overlap.Nested)
		})

		Convey("Then a containing range is nested", func() {
			So(overlap.Classify(base, model.Span{Start: 0, End: 10}), ShouldEqual, overlap.Nested)
		})

		Convey("Then a partial intersection is crossing", func() {
			So(overlap.Classify(base, model.Span{Start: 5, End: 10}), ShouldEqual, overlap.Crossing)
		})

		Convey("Then the relation is symmetric", func() {
			a := model.Span{Start: 5, End: 10}
			So(overlap.Classify(base, a), ShouldEqual, overlap.Classify(a, base))
		})
	})
}

func TestValidate(t *testing.T) {
	Convey("Given a segment with an accepted span [2,8)", t, func() {
		existing := []model.Span{{ID: "e1", Start: 2, End: 8}}

		Convey("When the candidate crosses it", func() {
			err := overlap.Validate(model.Span{ID: "c1", Start: 5, End: 10}, existing)

			Convey("Then it is rejected with the conflicting span id", func() {
				So(err, ShouldWrap, overlap.ErrCrossing)
				var conflict *overlap.Conflict
				So(errors.As(err, &conflict), ShouldBeTrue)
				So(conflict.ConflictingID, ShouldEqual, "e1")
				So(conflict.CandidateID, ShouldEqual, "c1")
			})
		})

		Convey("When the candidate nests inside it", func() {
			So(overlap.Validate(model.Span{ID: "c2", Start: 3, End: 6}, existing), ShouldBeNil)
		})

		Convey("When the candidate is disjoint", func() {
			So(overlap.Validate(model.Span{ID: "c3", Start: 9, End: 12}, existing), ShouldBeNil)
		})

		Convey("When the candidate itself is degenerate", func() {
			err := overlap.Validate(model.Span{ID: "c4", Start: 6, End: 6}, existing)
			So(err, ShouldWrap, model.ErrEmptySpan)
		})

		Convey("When a crossing hides behind a later span", func() {
			many := []model.Span{
				{ID: "e1", Start: 20, End: 30},
				{ID: "e2", Start: 2, End: 8},
			}
			err := overlap.Validate(model.Span{ID: "c5", Start: 5, End: 10}, many)

			Convey("Then every existing span is checked", func() {
				var conflict *overlap.Conflict
				So(errors.As(err, &conflict), ShouldBeTrue)
				So(conflict.ConflictingID, ShouldEqual, "e2")
			})
		})
	})
}

func TestRevalidate(t *testing.T) {
	Convey("Given an accepted set", t, func() {
		Convey("When all pairs are disjoint or nested", func() {
			spans := []model.Span{
				{ID: "a", Start: 0, End: 10},
				{ID: "b", Start: 2, End: 5},
				{ID: "c", Start: 12, End: 15},
			}
			So(overlap.Revalidate(spans), ShouldBeNil)
		})

		Convey("When a crossing pair slipped in", func() {
			spans := []model.Span{
				{ID: "a", Start: 0, End: 10},
				{ID: "b", Start: 5, End: 15},
			}
			So(overlap.Revalidate(spans), ShouldWrap, overlap.ErrCrossing)
		})
	})
}
