package config_test

import (
	"testing"

	"github.com/smartystreets/goconvey/convey"

	"github.com/yorch88/tech-performance/internal/config"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with default options", t, func() {
		cfg := config.New()

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.Addr, convey.ShouldEqual, ":9090")
			convey.So(cfg.InputDir, convey.ShouldEqual, "./data")
			convey.So(cfg.ReportsDir, convey.ShouldEqual, "./reports")
			convey.So(cfg.ScanIntervalSeconds, convey.ShouldEqual, 60)
			convey.So(cfg.WorkerCount, convey.ShouldEqual, 2)
			convey.So(cfg.JobQueueSize, convey.ShouldEqual, 1024)
			convey.So(cfg.RepairStation, convey.ShouldEqual, "swap")
			convey.So(cfg.DeleteProcessed, convey.ShouldBeTrue)
			convey.So(cfg.MaxRuns, convey.ShouldEqual, 100)
			convey.So(cfg.SeenCacheSize, convey.ShouldEqual, 10_000)
			convey.So(cfg.StationOrder, convey.ShouldBeNil)
		})
	})
}
