package metrics_test

import (
	"testing"

	"github.com/okian/glossa/pkg/metrics"
	. "github.com/smartystreets/goconvey/convey"
)

func TestPackageHelpers(t *testing.T) {
	Convey("Given the global metrics manager", t, func() {
		Convey("Then recording through the helpers does not panic", func() {
			So(func() {
				metrics.RecordSpanAccepted()
				metrics.RecordSpanRejected("crossing")
				metrics.UpdateLayerCount("s0", 3)
				metrics.RecordJoinQuery("window")
				metrics.RecordJoinQueryLatency(1.25)
				metrics.RecordTrackingTransition("draw")
				metrics.RecordTrackingRejection("next")
				metrics.RecordAnnotationSaved(6)
				metrics.RecordArchiveOp("save")
				metrics.UpdateArchiveCount(2)
				metrics.RecordIngestBatch("applied")
				metrics.RecordIngestDroppedSamples(1)
				metrics.UpdateIngestQueueSize(4)
				metrics.UpdateIngestQueueCapacity(1024)
				metrics.RecordHTTPRequest("spans", "POST", "201")
				metrics.RecordHTTPRequestDuration("spans", "POST", 2.5)
			}, ShouldNotPanic)
		})

		Convey("Then the custom registry gathers the recorded families", func() {
			families, err := metrics.GetRegistry().Gather()
			So(err, ShouldBeNil)
			So(len(families), ShouldBeGreaterThan, 0)

			names := make(map[string]struct{}, len(families))
			for _, f := range families {
				names[f.GetName()] = struct{}{}
			}
			_, ok := names["glossa_annotation_spans_accepted_total"]
			So(ok, ShouldBeTrue)
		})
	})
}

func TestNewManagerOptions(t *testing.T) {
	Convey("Given a manager with custom options", t, func() {
		m := metrics.NewManager(
			metrics.WithNamespace("testns"),
			metrics.WithSubsystem("sub"),
			metrics.WithHistogramBuckets([]float64{1, 2, 4}),
		)
		So(m, ShouldNotBeNil)
	})
}
