package api_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/yorch88/tech-performance/internal/adapters/http/api"
	"github.com/yorch88/tech-performance/internal/adapters/ingest"
	"github.com/yorch88/tech-performance/internal/adapters/repository"
	"github.com/yorch88/tech-performance/internal/app"
	"github.com/yorch88/tech-performance/internal/domain/perf"
)

type mockDeps struct {
	store    repository.Store
	stats    app.Stats
	enqueued int
	scans    int
}

func (m *mockDeps) Stats(_ context.Context) app.Stats { return m.stats }

func (m *mockDeps) TriggerScan(_ context.Context) int {
	m.scans++
	return m.enqueued
}

func (m *mockDeps) Store() repository.Store { return m.store }

func seededDeps(t *testing.T) *mockDeps {
	t.Helper()
	store := repository.NewMemStore()
	err := store.Add(context.Background(), repository.Run{
		ID:         "run-1",
		SourceFile: "week_8_test_report.csv",
		Kind:       ingest.KindWeek,
		Period:     8,
		Title:      "Reporte Semanal (week_8_test_report.csv)",
		Result: &perf.Result{
			Rows: []perf.Row{{Badge: "987", Attempts: 4, Successes: 4}},
			Meta: perf.Meta{TotalFailures: 11, ActiveTechnicians: 6},
		},
		ReportText: "Reporte Semanal (week_8_test_report.csv)\n----\n",
		FinishedAt: time.Date(2025, 3, 10, 9, 30, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatal(err)
	}
	return &mockDeps{
		store:    store,
		stats:    app.Stats{Runs: 1, Queued: 0, Workers: 2},
		enqueued: 3,
	}
}

func newMux(deps api.Dependencies) *http.ServeMux {
	mux := http.NewServeMux()
	api.NewServer(deps).Register(context.Background(), mux)
	return mux
}

func TestServerRegister(t *testing.T) {
	Convey("Given a registered API server", t, func() {
		deps := seededDeps(t)
		mux := newMux(deps)

		do := func(method, path string) *httptest.ResponseRecorder {
			req := httptest.NewRequest(method, path, nil)
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)
			return w
		}

		Convey("Then the health endpoint responds ok", func() {
			w := do(http.MethodGet, "/healthz")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Body.String(), ShouldContainSubstring, `"status":"ok"`)
		})

		Convey("Then stats are served as JSON", func() {
			w := do(http.MethodGet, "/stats")
			So(w.Code, ShouldEqual, http.StatusOK)

			var st app.Stats
			So(json.Unmarshal(w.Body.Bytes(), &st), ShouldBeNil)
			So(st.Runs, ShouldEqual, 1)
			So(st.Workers, ShouldEqual, 2)
		})

		Convey("Then runs are listed as summaries", func() {
			w := do(http.MethodGet, "/runs")
			So(w.Code, ShouldEqual, http.StatusOK)

			var runs []map[string]any
			So(json.Unmarshal(w.Body.Bytes(), &runs), ShouldBeNil)
			So(runs, ShouldHaveLength, 1)
			So(runs[0]["id"], ShouldEqual, "run-1")
			So(runs[0]["source_file"], ShouldEqual, "week_8_test_report.csv")
			So(runs[0], ShouldNotContainKey, "result")
		})

		Convey("Then a run is fetched by id with its full result", func() {
			w := do(http.MethodGet, "/runs/run-1")
			So(w.Code, ShouldEqual, http.StatusOK)

			var run map[string]any
			So(json.Unmarshal(w.Body.Bytes(), &run), ShouldBeNil)
			So(run["id"], ShouldEqual, "run-1")
			So(run["result"], ShouldNotBeNil)
			So(run, ShouldNotContainKey, "ReportText")
		})

		Convey("Then the rendered report is served as plain text", func() {
			w := do(http.MethodGet, "/runs/run-1/report")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Header().Get("Content-Type"), ShouldStartWith, "text/plain")
			So(w.Body.String(), ShouldStartWith, "Reporte Semanal")
		})

		Convey("Then an unknown run id yields 404", func() {
			w := do(http.MethodGet, "/runs/nope")
			So(w.Code, ShouldEqual, http.StatusNotFound)
			So(w.Body.String(), ShouldContainSubstring, "not_found")
		})

		Convey("Then a malformed runs path yields 400", func() {
			w := do(http.MethodGet, "/runs/run-1/nope")
			So(w.Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("Then POST /scan triggers a scan", func() {
			w := do(http.MethodPost, "/scan")
			So(w.Code, ShouldEqual, http.StatusAccepted)
			So(w.Body.String(), ShouldContainSubstring, `"enqueued":3`)
			So(deps.scans, ShouldEqual, 1)
		})

		Convey("Then wrong methods are rejected", func() {
			So(do(http.MethodPost, "/runs").Code, ShouldEqual, http.StatusNotFound)
			So(do(http.MethodGet, "/scan").Code, ShouldEqual, http.StatusNotFound)
			So(do(http.MethodDelete, "/healthz").Code, ShouldEqual, http.StatusNotFound)
		})
	})
}
