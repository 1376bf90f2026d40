package queue_test

import (
	"context"
	"testing"
	"time"

	queue "github.com/okian/glossa/internal/adapters/mq/queue"
	model "github.com/okian/glossa/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestInMemoryQueue(t *testing.T) {
	Convey("Given an in-memory batch queue", t, func() {
		ctx := context.Background()
		q := queue.NewInMemoryQueue(queue.WithCapacity(2))

		batch := queue.Batch{Tracks: []model.Track{{ID: "t1", Label: "gesture", Start: 0, End: 1}}}

		Convey("When enqueuing within capacity", func() {
			So(q.Enqueue(ctx, batch), ShouldBeTrue)
			So(q.Len(ctx), ShouldEqual, 1)

			Convey("Then dequeue delivers the batch", func() {
				out := q.Dequeue(ctx)
				select {
				case got := <-out:
					So(got.Tracks, ShouldHaveLength, 1)
					So(got.Tracks[0].Label, ShouldEqual, "gesture")
				case <-time.After(time.Second):
					t.Fatal("timed out waiting for batch")
				}
			})
		})

		Convey("When the queue is full", func() {
			So(q.Enqueue(ctx, batch), ShouldBeTrue)
			So(q.Enqueue(ctx, batch), ShouldBeTrue)

			Convey("Then further enqueues report backpressure", func() {
				So(q.Enqueue(ctx, batch), ShouldBeFalse)
			})
		})

		Convey("When the queue is closed", func() {
			So(q.Close(), ShouldBeNil)

			Convey("Then enqueues are rejected", func() {
				So(q.Enqueue(ctx, batch), ShouldBeFalse)
				So(q.IsClosed(), ShouldBeTrue)
			})

			Convey("Then closing again is a no-op", func() {
				So(q.Close(), ShouldBeNil)
			})

			Convey("Then the dequeue channel drains and closes", func() {
				out := q.Dequeue(ctx)
				select {
				case _, ok := <-out:
					So(ok, ShouldBeFalse)
				case <-time.After(time.Second):
					t.Fatal("timed out waiting for close")
				}
			})
		})

		Convey("When the context is already cancelled", func() {
			cancelled, cancel := context.WithCancel(ctx)
			cancel()

			full := queue.NewInMemoryQueue(queue.WithCapacity(1))
			So(full.Enqueue(ctx, batch), ShouldBeTrue)

			Convey("Then enqueue into a full queue reports failure", func() {
				So(full.Enqueue(cancelled, batch), ShouldBeFalse)
			})
		})
	})
}
