package config_test

import (
	"runtime"
	"testing"

	"github.com/okian/ember/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with default options", t, func() {
		cfg := config.New()

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
			convey.So(cfg.LogLevel, convey.ShouldEqual, "info")
			convey.So(cfg.DatabaseURL, convey.ShouldBeEmpty)
			convey.So(cfg.IngestQueueSize, convey.ShouldEqual, 100_000)
			convey.So(cfg.WorkerCount, convey.ShouldEqual, runtime.NumCPU()*4)
			convey.So(cfg.DedupeSize, convey.ShouldEqual, 500_000)
			convey.So(cfg.ShardCount, convey.ShouldEqual, 8)
			convey.So(cfg.MaxListLimit, convey.ShouldEqual, 100)
			convey.So(cfg.TrendWindowDays, convey.ShouldEqual, 30)
			convey.So(cfg.HealthWindowDays, convey.ShouldEqual, 7)
			convey.So(cfg.BcryptCost, convey.ShouldEqual, 10)
		})
	})
}
