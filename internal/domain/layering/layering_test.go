package layering_test

import (
	"testing"

	layering "github.com/okian/glossa/internal/domain/layering"
	model "github.com/okian/glossa/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestPack(t *testing.T) {
	Convey("Given a segment's spans", t, func() {
		Convey("When the segment is empty", func() {
			assign := layering.Pack(nil)

			Convey("Then there are zero layers", func() {
				So(assign, ShouldBeEmpty)
				So(layering.Count(assign), ShouldEqual, 0)
			})
		})

		Convey("When spans are disjoint", func() {
			spans := []model.Span{
				{ID: "a", Start: 0, End: 5},
				{ID: "b", Start: 6, End: 9},
				{ID: "c", Start: 10, End: 20},
			}
			assign := layering.Pack(spans)

			Convey("Then they share layer zero", func() {
				So(assign["a"], ShouldEqual, 0)
				So(assign["b"], ShouldEqual, 0)
				So(assign["c"], ShouldEqual, 0)
				So(layering.Count(assign), ShouldEqual, 1)
			})
		})

		Convey("When spans nest", func() {
			spans := []model.Span{
				{ID: "outer", Start: 0, End: 20},
				{ID: "mid", Start: 2, End: 12},
				{ID: "inner", Start: 4, End: 8},
			}
			assign := layering.Pack(spans)

			Convey("Then deeper nesting stacks higher", func() {
				So(assign["outer"], ShouldEqual, 0)
				So(assign["mid"], ShouldEqual, 1)
				So(assign["inner"], ShouldEqual, 2)
				So(layering.Count(assign), ShouldEqual, 3)
			})
		})

		Convey("When a nested span fits beside a disjoint one", func() {
			spans := []model.Span{
				{ID: "outer", Start: 0, End: 10},
				{ID: "inner", Start: 2, End: 6},
				{ID: "far", Start: 12, End: 30},
			}
			assign := layering.Pack(spans)

			Convey("Then first-fit reuses the lowest open layer", func() {
				So(assign["far"], ShouldEqual, 0)
				So(assign["outer"], ShouldEqual, 0)
				So(assign["inner"], ShouldEqual, 1)
			})
		})

		Convey("When packing any accepted set", func() {
			spans := []model.Span{
				{ID: "a", Start: 0, End: 30},
				{ID: "b", Start: 0, End: 15},
				{ID: "c", Start: 15, End: 30},
				{ID: "d", Start: 3, End: 9},
				{ID: "e", Start: 20, End: 26},
			}
			assign := layering.Pack(spans)

			Convey("Then no two spans on one layer overlap", func() {
				for i, s1 := range spans {
					for _, s2 := range spans[i+1:] {
						if assign[s1.ID] == assign[s2.ID] {
							So(s1.Overlaps(s2), ShouldBeFalse)
						}
					}
				}
			})

			Convey("Then repacking a shuffled copy gives the same result", func() {
				shuffled := []model.Span{spans[4], spans[1], spans[3], spans[0], spans[2]}
				So(layering.Pack(shuffled), ShouldResemble, assign)
			})
		})

		Convey("When spans tie on length", func() {
			spans := []model.Span{
				{ID: "z", Start: 10, End: 14},
				{ID: "a", Start: 10, End: 14},
			}
			assign := layering.Pack(spans)

			Convey("Then the id breaks the tie deterministically", func() {
				So(assign["a"], ShouldEqual, 0)
				So(assign["z"], ShouldEqual, 1)
			})
		})
	})
}
