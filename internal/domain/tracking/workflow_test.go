package tracking_test

import (
	"testing"

	model "github.com/okian/glossa/internal/domain/model"
	tracking "github.com/okian/glossa/internal/domain/tracking"
	. "github.com/smartystreets/goconvey/convey"
)

func TestWorkflowDraw(t *testing.T) {
	Convey("Given an idle workflow", t, func() {
		w := tracking.New(100)

		Convey("When drawing a box", func() {
			err := w.Draw(model.Box{0, 0, 10, 10}, 5, 0.2, "walker", "#2ecc71")

			Convey("Then the workflow is boxed at that frame", func() {
				So(err, ShouldBeNil)
				So(w.State(), ShouldEqual, tracking.Boxed)
				So(w.Frame(), ShouldEqual, 5)
			})

			Convey("Then drawing again is rejected", func() {
				So(w.Draw(model.Box{}, 6, 0.24, "x", ""), ShouldWrap, tracking.ErrAlreadyBoxed)
			})
		})

		Convey("When drawing past the end of media", func() {
			err := w.Draw(model.Box{}, 100, 4, "walker", "")
			So(err, ShouldWrap, tracking.ErrMediaEnd)
			So(w.State(), ShouldEqual, tracking.Idle)
		})

		Convey("When adjusting without a box", func() {
			So(w.Adjust(model.Box{}), ShouldWrap, tracking.ErrNoBox)
		})
	})
}

func TestWorkflowStepping(t *testing.T) {
	Convey("Given a boxed workflow", t, func() {
		w := tracking.New(100, tracking.WithFPS(25))
		So(w.Draw(model.Box{0, 0, 10, 10}, 0, 0, "walker", ""), ShouldBeNil)

		Convey("When stepping forward", func() {
			So(w.TrackNext(10), ShouldBeNil)

			Convey("Then the box became a keyframe and playback moved", func() {
				So(w.Frame(), ShouldEqual, 10)
				So(w.Keyframes(), ShouldHaveLength, 1)
				So(w.Keyframes()[0].Frame, ShouldEqual, 0)
			})
		})

		Convey("When stepping past the end of media", func() {
			err := w.TrackNext(150)

			Convey("Then it is rejected with no state change", func() {
				So(err, ShouldWrap, tracking.ErrMediaEnd)
				So(w.Frame(), ShouldEqual, 0)
				So(w.Keyframes(), ShouldBeEmpty)
				So(w.State(), ShouldEqual, tracking.Boxed)
			})
		})

		Convey("When the interval is not positive", func() {
			So(w.TrackNext(0), ShouldWrap, tracking.ErrBadInterval)
		})

		Convey("When stepping back with no history", func() {
			So(w.TrackPrev(5), ShouldWrap, tracking.ErrNoHistory)
		})

		Convey("When stepping back after forward steps", func() {
			So(w.TrackNext(10), ShouldBeNil)
			So(w.TrackNext(10), ShouldBeNil)
			So(w.Keyframes(), ShouldHaveLength, 2)

			So(w.TrackPrev(10), ShouldBeNil)

			Convey("Then forward history is truncated and the box kept", func() {
				So(w.Frame(), ShouldEqual, 10)
				So(w.Keyframes(), ShouldHaveLength, 1)
				So(w.State(), ShouldEqual, tracking.Boxed)
			})

			Convey("Then stepping before the first keyframe is rejected", func() {
				So(w.TrackPrev(20), ShouldWrap, tracking.ErrBeforeFirstKey)
				So(w.Frame(), ShouldEqual, 10)
			})
		})

		Convey("When stepping to a frame already keyframed", func() {
			So(w.TrackNext(10), ShouldBeNil)
			So(w.TrackNext(10), ShouldBeNil)
			So(w.TrackPrev(10), ShouldBeNil)
			So(w.Adjust(model.Box{5, 5, 15, 15}), ShouldBeNil)
			So(w.TrackNext(10), ShouldBeNil)

			Convey("Then the keyframe is updated in place, not duplicated", func() {
				keyframes := w.Keyframes()
				So(keyframes, ShouldHaveLength, 2)
				So(keyframes[1].Frame, ShouldEqual, 10)
				So(keyframes[1].Box, ShouldResemble, model.Box{5, 5, 15, 15})
			})
		})
	})
}

func TestWorkflowConfirm(t *testing.T) {
	Convey("Given a boxed workflow", t, func() {
		w := tracking.New(100)
		So(w.Draw(model.Box{3, 4, 30, 40}, 42, 1.68, "wave", "#e67e22"), ShouldBeNil)

		Convey("When confirming", func() {
			ann, err := w.Confirm()

			Convey("Then a single-frame annotation is emitted", func() {
				So(err, ShouldBeNil)
				So(ann.ID, ShouldNotBeEmpty)
				So(ann.StartFrame, ShouldEqual, 42)
				So(ann.EndFrame, ShouldEqual, 42)
				So(ann.FrameCount, ShouldEqual, 1)
				So(ann.Frames, ShouldHaveLength, 1)
				So(ann.Frames[0].Box, ShouldResemble, model.Box{3, 4, 30, 40})
			})

			Convey("Then the workflow returns to idle", func() {
				So(w.State(), ShouldEqual, tracking.Idle)
				So(w.Keyframes(), ShouldBeEmpty)
			})
		})
	})

	Convey("Given an idle workflow", t, func() {
		w := tracking.New(100)
		_, err := w.Confirm()
		So(err, ShouldWrap, tracking.ErrNoBox)
	})
}

func TestWorkflowSaveSequence(t *testing.T) {
	Convey("Given a tracked box across several frames", t, func() {
		w := tracking.New(100, tracking.WithFPS(25))
		boxA := model.Box{0, 0, 10, 10}
		boxB := model.Box{10, 10, 20, 20}

		So(w.Draw(boxA, 0, 0, "walker", "#2ecc71"), ShouldBeNil)
		So(w.TrackNext(5), ShouldBeNil)
		So(w.Adjust(boxB), ShouldBeNil)

		Convey("When saving the sequence", func() {
			ann, err := w.SaveSequence()
			So(err, ShouldBeNil)

			Convey("Then the current box is recorded as the final keyframe", func() {
				So(ann.Keyframes, ShouldHaveLength, 2)
				So(ann.StartFrame, ShouldEqual, 0)
				So(ann.EndFrame, ShouldEqual, 5)
			})

			Convey("Then the dense expansion covers every frame", func() {
				So(ann.Frames, ShouldHaveLength, 6)
				So(ann.FrameCount, ShouldEqual, 6)
				So(ann.Frames[0].Box, ShouldResemble, boxA)
				So(ann.Frames[5].Box, ShouldResemble, boxB)
				So(ann.Frames[2].Box, ShouldResemble, model.Box{4, 4, 14, 14})
				So(ann.Frames[3].Box, ShouldResemble, model.Box{6, 6, 16, 16})
			})

			Convey("Then the workflow resets for the next box", func() {
				So(w.State(), ShouldEqual, tracking.Idle)
				So(w.Keyframes(), ShouldBeEmpty)
			})
		})
	})

	Convey("Given a workflow with nothing to save", t, func() {
		w := tracking.New(100)
		_, err := w.SaveSequence()
		So(err, ShouldWrap, tracking.ErrNothingToSave)
	})

	Convey("Given a cleared workflow", t, func() {
		w := tracking.New(100)
		So(w.Draw(model.Box{0, 0, 1, 1}, 0, 0, "walker", ""), ShouldBeNil)
		So(w.TrackNext(5), ShouldBeNil)
		w.Clear()

		Convey("Then state and history are gone", func() {
			So(w.State(), ShouldEqual, tracking.Idle)
			So(w.Keyframes(), ShouldBeEmpty)
			_, err := w.SaveSequence()
			So(err, ShouldWrap, tracking.ErrNothingToSave)
		})
	})
}
