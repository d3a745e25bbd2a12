package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/yorch88/tech-performance/internal/adapters/ingest"
)

const sampleCSV = `sn,station,status,error_code,badge
mxq1,fto,pass,,
mxq1,runnin,fail,e101,
mxq1,swap,pass,,987
mxq1,runnin,pass,,
mxq2,fto,fail,e200,
mxq2,swap,pass,,456
mxq2,fto,fail,e200,
`

func writeInput(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(sampleCSV), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestServiceProcess(t *testing.T) {
	ctx := context.Background()
	fixed := time.Date(2025, 3, 10, 9, 30, 0, 0, time.UTC)

	Convey("Given a service over temp directories", t, func() {
		inputDir := t.TempDir()
		reportsDir := filepath.Join(t.TempDir(), "reports")
		path := writeInput(t, inputDir, "week_4_test_report.csv")

		svc := New(inputDir, reportsDir, withClock(func() time.Time { return fixed }))
		job := ingest.ReportFile{
			Path: path, Name: "week_4_test_report.csv", Kind: ingest.KindWeek, Period: 4,
		}

		Convey("When a valid report file is processed", func() {
			So(svc.Process(ctx, job), ShouldBeNil)

			Convey("Then the rendered report lands in the reports dir", func() {
				out, err := os.ReadFile(filepath.Join(reportsDir, "week_4_test_report_report.txt"))
				So(err, ShouldBeNil)
				text := string(out)
				So(text, ShouldContainSubstring, "Reporte Semanal (week_4_test_report.csv)")
				So(text, ShouldContainSubstring, "Generado: 2025-03-10 09:30:00")
				So(text, ShouldContainSubstring, "987")
			})

			Convey("Then the run is stored with its metadata", func() {
				run, err := svc.Store().Latest(ctx)
				So(err, ShouldBeNil)
				So(run.ID, ShouldNotBeEmpty)
				So(run.SourceFile, ShouldEqual, "week_4_test_report.csv")
				So(run.Kind, ShouldEqual, ingest.KindWeek)
				So(run.Period, ShouldEqual, 4)
				So(run.Result.Meta.TotalFailures, ShouldEqual, 3)
				So(run.ReportText, ShouldStartWith, "Reporte Semanal")
			})

			Convey("Then stats reflect the completed run", func() {
				st := svc.Stats(ctx)
				So(st.Runs, ShouldEqual, 1)
				So(st.Workers, ShouldEqual, 2)
				So(st.LastRun, ShouldNotBeNil)
				So(st.LastRun.SourceFile, ShouldEqual, "week_4_test_report.csv")
			})

			Convey("Then the input file is kept by default", func() {
				_, err := os.Stat(path)
				So(err, ShouldBeNil)
			})
		})

		Convey("When delete-processed is enabled", func() {
			svc := New(inputDir, reportsDir, WithDeleteProcessed(true))
			So(svc.Process(ctx, job), ShouldBeNil)

			_, err := os.Stat(path)
			So(os.IsNotExist(err), ShouldBeTrue)
		})

		Convey("When the input file is unreadable", func() {
			missing := ingest.ReportFile{
				Path: filepath.Join(inputDir, "gone.csv"), Name: "gone.csv", Kind: ingest.KindWeek,
			}
			err := svc.Process(ctx, missing)

			Convey("Then the error names the file and nothing is stored", func() {
				So(err, ShouldNotBeNil)
				So(err.Error(), ShouldContainSubstring, "gone.csv")
				So(svc.Store().Count(ctx), ShouldEqual, 0)
			})
		})

		Convey("When the file lacks required columns", func() {
			bad := filepath.Join(inputDir, "week_5_test_report.csv")
			So(os.WriteFile(bad, []byte("sn,status\nmxq1,pass\n"), 0o644), ShouldBeNil)

			err := svc.Process(ctx, ingest.ReportFile{
				Path: bad, Name: "week_5_test_report.csv", Kind: ingest.KindWeek, Period: 5,
			})
			So(err, ShouldNotBeNil)
			So(svc.Store().Count(ctx), ShouldEqual, 0)
		})
	})
}

func TestServicePipeline(t *testing.T) {
	ctx := context.Background()

	Convey("Given a started service", t, func() {
		inputDir := t.TempDir()
		reportsDir := filepath.Join(t.TempDir(), "reports")
		writeInput(t, inputDir, "week_1_test_report.csv")

		svc := New(inputDir, reportsDir,
			WithScanInterval(time.Hour), // only explicit scans drive this test
			WithWorkerCount(1),
		)
		svc.Start(ctx)
		Reset(svc.Stop)

		Convey("When files flow through scan, queue and workers", func() {
			So(waitFor(func() bool { return svc.Store().Count(ctx) == 1 }), ShouldBeTrue)

			Convey("Then dropping another file and rescanning processes it too", func() {
				writeInput(t, inputDir, "week_2_test_report.csv")
				So(svc.TriggerScan(ctx), ShouldEqual, 1)
				So(waitFor(func() bool { return svc.Store().Count(ctx) == 2 }), ShouldBeTrue)

				names := []string{}
				runs, err := svc.Store().List(ctx)
				So(err, ShouldBeNil)
				for _, r := range runs {
					names = append(names, r.SourceFile)
				}
				So(names, ShouldContain, "week_1_test_report.csv")
				So(names, ShouldContain, "week_2_test_report.csv")
			})

			Convey("Then an already-seen file is not reprocessed", func() {
				So(svc.TriggerScan(ctx), ShouldEqual, 0)
			})
		})
	})
}

// waitFor polls cond until it holds or a second passes.
func waitFor(cond func() bool) bool {
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(5 * time.Millisecond)
	}
	return cond()
}
