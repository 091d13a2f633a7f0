package log

import (
	"path/filepath"
	"testing"

	"github.com/reelfeed/reelfeed/filesystem"
	"github.com/reelfeed/reelfeed/key"
	"github.com/reelfeed/reelfeed/where"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"
)

func TestSetup(t *testing.T) {
	Convey("Given an in-memory filesystem", t, func() {
		filesystem.SetMemMapFs()
		t.Setenv(where.EnvConfigPath, "/config")

		Convey("Disabled logging writes nothing", func() {
			viper.Set(key.LogsWrite, false)
			So(Setup(), ShouldBeNil)
			Info("hidden")

			files, err := filesystem.API().ReadDir(where.Logs())
			So(err, ShouldBeNil)
			So(files, ShouldBeEmpty)
		})

		Convey("Enabled logging appends to the daily file", func() {
			viper.Set(key.LogsWrite, true)
			viper.Set(key.LogsLevel, "debug")
			defer viper.Set(key.LogsWrite, false)

			So(Setup(), ShouldBeNil)
			WithIndex(3).Info("player created")
			Debugf("window %d", 2)

			files, err := filesystem.API().ReadDir(where.Logs())
			So(err, ShouldBeNil)
			So(files, ShouldHaveLength, 1)

			data, err := filesystem.API().ReadFile(filepath.Join(where.Logs(), files[0].Name()))
			So(err, ShouldBeNil)
			So(string(data), ShouldContainSubstring, "player created")
			So(string(data), ShouldContainSubstring, "index=3")
			So(string(data), ShouldContainSubstring, "window 2")
		})
	})
}
