package ingest

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestReadEvents(t *testing.T) {
	Convey("Given a well-formed CSV with all columns", t, func() {
		input := `sn,station,status,error_code,badge,event_id
mxq1,fto,pass,,123,10
mxq1,test4,fail,0-A23,123,5
`
		events, err := ReadEvents(strings.NewReader(input))

		Convey("Then rows decode with event_id as the sequence", func() {
			So(err, ShouldBeNil)
			So(events, ShouldHaveLength, 2)
			So(events[0].SN, ShouldEqual, "mxq1")
			So(events[0].Station, ShouldEqual, "fto")
			So(events[0].Seq, ShouldEqual, 10)
			So(events[1].Seq, ShouldEqual, 5)
			So(events[1].ErrorCode, ShouldEqual, "0-A23")
			So(events[1].Badge, ShouldEqual, "123")
		})
	})

	Convey("Given a CSV without error_code and event_id", t, func() {
		input := `sn,station,status,badge
mxq1,fto,fail,123
mxq1,swap,pass,456
`
		events, err := ReadEvents(strings.NewReader(input))

		Convey("Then error codes default empty and row order is the sequence", func() {
			So(err, ShouldBeNil)
			So(events[0].ErrorCode, ShouldEqual, "")
			So(events[0].Seq, ShouldEqual, 0)
			So(events[1].Seq, ShouldEqual, 1)
		})
	})

	Convey("Given a CSV missing a required column", t, func() {
		input := `sn,station,status
mxq1,fto,pass
`
		_, err := ReadEvents(strings.NewReader(input))

		Convey("Then it fails with the missing-column kind", func() {
			So(err, ShouldNotBeNil)
			So(errors.Is(err, ErrMissingColumn), ShouldBeTrue)
			So(err.Error(), ShouldContainSubstring, "badge")
		})
	})

	Convey("Given headers with stray case and spacing", t, func() {
		input := "SN, Station ,STATUS,Badge\nmxq1,fto,pass,123\n"
		events, err := ReadEvents(strings.NewReader(input))

		Convey("Then columns still match", func() {
			So(err, ShouldBeNil)
			So(events, ShouldHaveLength, 1)
			So(events[0].Badge, ShouldEqual, "123")
		})
	})

	Convey("Given a non-integer event_id", t, func() {
		input := `sn,station,status,badge,event_id
mxq1,fto,pass,123,abc
`
		_, err := ReadEvents(strings.NewReader(input))

		Convey("Then it fails with the bad-event-id kind", func() {
			So(errors.Is(err, ErrBadEventID), ShouldBeTrue)
		})
	})

	Convey("Given an empty file", t, func() {
		_, err := ReadEvents(strings.NewReader(""))

		Convey("Then it is a validation failure", func() {
			So(errors.Is(err, ErrMissingColumn), ShouldBeTrue)
		})
	})

	Convey("Given a header but no rows", t, func() {
		events, err := ReadEvents(strings.NewReader("sn,station,status,badge\n"))

		Convey("Then it succeeds with zero events", func() {
			So(err, ShouldBeNil)
			So(events, ShouldBeEmpty)
		})
	})
}

func TestReadEventsFile(t *testing.T) {
	Convey("Given a CSV on disk", t, func() {
		dir := t.TempDir()
		path := filepath.Join(dir, "week_1_test_report.csv")
		content := "sn,station,status,badge\nmxq1,fto,pass,123\n"
		So(os.WriteFile(path, []byte(content), 0o644), ShouldBeNil)

		Convey("When reading it", func() {
			events, err := ReadEventsFile(path)

			Convey("Then events decode", func() {
				So(err, ShouldBeNil)
				So(events, ShouldHaveLength, 1)
			})
		})

		Convey("When the file does not exist", func() {
			_, err := ReadEventsFile(filepath.Join(dir, "missing.csv"))

			Convey("Then the error names the path", func() {
				So(err, ShouldNotBeNil)
				So(err.Error(), ShouldContainSubstring, "missing.csv")
			})
		})
	})
}
