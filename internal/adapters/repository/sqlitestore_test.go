package repository_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	repository "github.com/okian/glossa/internal/adapters/repository"
	model "github.com/okian/glossa/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func newTestStore(t *testing.T) *repository.SQLiteStore {
	t.Helper()
	path := filepath.Join(t.TempDir(), "archives.db")
	store, err := repository.NewSQLiteStore(context.Background(), path)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func sampleArchive() model.Archive {
	return model.Archive{
		Corpus:    "dialog",
		Type:      "multimodal",
		Framework: "gesture-study",
		TextID:    "text-7",
		Name:      "first pass",
		Coder:     "rk",
		Text:      "hello world",
		Spans: []model.Span{
			{ID: "s1", Label: "gesture", Start: 0, End: 5, Kind: model.KindText},
		},
		Tracks: []model.Annotation{
			{ID: "a1", Label: "walker", StartFrame: 0, EndFrame: 5, FrameCount: 6},
		},
	}
}

func TestSQLiteStoreSaveGet(t *testing.T) {
	Convey("Given an empty store", t, func() {
		ctx := context.Background()
		store := newTestStore(t)

		Convey("When saving an archive without an id", func() {
			saved, err := store.Save(ctx, sampleArchive())
			So(err, ShouldBeNil)

			Convey("Then an id and timestamps are assigned", func() {
				So(saved.ID, ShouldNotBeEmpty)
				So(saved.CreatedAt.IsZero(), ShouldBeFalse)
				So(saved.UpdatedAt.IsZero(), ShouldBeFalse)
			})

			Convey("Then the full document round-trips", func() {
				got, err := store.Get(ctx, saved.ID)
				So(err, ShouldBeNil)
				So(got.Spans, ShouldResemble, saved.Spans)
				So(got.Tracks, ShouldHaveLength, 1)
				So(got.Text, ShouldEqual, "hello world")
			})

			Convey("When re-saving with blank display metadata", func() {
				update := saved
				update.Name = ""
				update.Coder = ""
				update.TextID = ""
				update.Spans = append(update.Spans, model.Span{ID: "s2", Label: "gaze", Start: 6, End: 9})

				resaved, err := store.Save(ctx, update)
				So(err, ShouldBeNil)

				Convey("Then stored metadata is preserved", func() {
					So(resaved.Name, ShouldEqual, "first pass")
					So(resaved.Coder, ShouldEqual, "rk")
					So(resaved.TextID, ShouldEqual, "text-7")
					So(resaved.CreatedAt.Equal(saved.CreatedAt), ShouldBeTrue)
				})

				Convey("Then the span set is updated", func() {
					got, err := store.Get(ctx, saved.ID)
					So(err, ShouldBeNil)
					So(got.Spans, ShouldHaveLength, 2)
				})
			})
		})

		Convey("When getting an unknown id", func() {
			_, err := store.Get(ctx, "missing")
			So(err, ShouldWrap, repository.ErrNotFound)
		})
	})
}

func TestSQLiteStoreListFilterDelete(t *testing.T) {
	Convey("Given a store with several archives", t, func() {
		ctx := context.Background()
		store := newTestStore(t)

		first, err := store.Save(ctx, sampleArchive())
		So(err, ShouldBeNil)

		time.Sleep(5 * time.Millisecond) // distinct updated_at ordering

		other := sampleArchive()
		other.Corpus = "news"
		other.Type = "text"
		other.TextID = "text-9"
		second, err := store.Save(ctx, other)
		So(err, ShouldBeNil)

		Convey("When listing without a filter", func() {
			summaries, err := store.List(ctx, repository.Filter{})
			So(err, ShouldBeNil)

			Convey("Then all archives come back newest first", func() {
				So(summaries, ShouldHaveLength, 2)
				So(summaries[0].ID, ShouldEqual, second.ID)
				So(summaries[1].ID, ShouldEqual, first.ID)
				So(summaries[0].SpanCount, ShouldEqual, 1)
				So(summaries[0].TrackCount, ShouldEqual, 1)
			})
		})

		Convey("When filtering by corpus and type", func() {
			summaries, err := store.List(ctx, repository.Filter{Corpus: "news", Type: "text"})
			So(err, ShouldBeNil)
			So(summaries, ShouldHaveLength, 1)
			So(summaries[0].ID, ShouldEqual, second.ID)
		})

		Convey("When renaming an archive", func() {
			So(store.Rename(ctx, first.ID, "second pass"), ShouldBeNil)

			got, err := store.Get(ctx, first.ID)
			So(err, ShouldBeNil)
			So(got.Name, ShouldEqual, "second pass")
		})

		Convey("When deleting an archive", func() {
			So(store.Delete(ctx, first.ID), ShouldBeNil)
			So(store.Count(ctx), ShouldEqual, 1)

			Convey("Then deleting it again reports not found", func() {
				So(store.Delete(ctx, first.ID), ShouldWrap, repository.ErrNotFound)
			})
		})

		Convey("When counting", func() {
			So(store.Count(ctx), ShouldEqual, 2)
		})
	})
}
