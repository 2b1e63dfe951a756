package config_test

import (
	"testing"
	"time"

	"github.com/okian/frcscout/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with default options", t, func() {
		cfg := config.New()

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.Addr, convey.ShouldEqual, ":5000")
			convey.So(cfg.Season, convey.ShouldEqual, 2025)
			convey.So(cfg.StoreBackend, convey.ShouldEqual, config.BackendFile)
			convey.So(cfg.NotesFile, convey.ShouldEqual, "team_notes.json")
			convey.So(cfg.FavoritesFile, convey.ShouldEqual, "favorites.json")
			convey.So(cfg.UpstreamTimeout(), convey.ShouldEqual, 5*time.Second)
			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})
	})
}
