package dedupe

import (
	"context"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestTracker(t *testing.T) {
	ctx := context.Background()

	Convey("Given a fresh tracker", t, func() {
		tr := NewTracker()

		Convey("When recording a new id", func() {
			seen := tr.SeenAndRecord(ctx, "week_1_test_report.csv")

			Convey("Then it was not seen before", func() {
				So(seen, ShouldBeFalse)
				So(tr.Size(), ShouldEqual, 1)
			})

			Convey("And recording it again reports a duplicate", func() {
				So(tr.SeenAndRecord(ctx, "week_1_test_report.csv"), ShouldBeTrue)
				So(tr.Size(), ShouldEqual, 1)
			})
		})

		Convey("When unrecording an id", func() {
			tr.SeenAndRecord(ctx, "a")
			tr.Unrecord(ctx, "a")

			Convey("Then it can be recorded again", func() {
				So(tr.SeenAndRecord(ctx, "a"), ShouldBeFalse)
			})
		})

		Convey("When unrecording an unknown id", func() {
			tr.Unrecord(ctx, "nope")

			Convey("Then nothing changes", func() {
				So(tr.Size(), ShouldEqual, 0)
			})
		})
	})

	Convey("Given a tracker bounded to two entries", t, func() {
		tr := NewTracker(WithMaxSize(2))
		tr.SeenAndRecord(ctx, "a")
		tr.SeenAndRecord(ctx, "b")

		Convey("When a third id arrives", func() {
			tr.SeenAndRecord(ctx, "c")

			Convey("Then the oldest entry was evicted", func() {
				So(tr.Size(), ShouldEqual, 2)
				So(tr.SeenAndRecord(ctx, "a"), ShouldBeFalse)
			})
		})
	})
}
