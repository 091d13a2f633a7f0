package config

import (
	"errors"
	"testing"
	"time"

	"github.com/reelfeed/reelfeed/filesystem"
	"github.com/reelfeed/reelfeed/key"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"
)

func init() {
	filesystem.SetMemMapFs()
}

func TestSetup(t *testing.T) {
	Convey("Config Setup", t, func() {
		Convey("Should initialize without error", func() {
			So(Setup(), ShouldBeNil)
		})

		Convey("Should have default values populated", func() {
			_ = Setup()
			for name := range Default {
				So(viper.Get(name), ShouldNotBeNil)
			}
		})

		Convey("EnvKeyReplacer should convert dots to underscores", func() {
			So(EnvKeyReplacer.Replace("window.load_distance"), ShouldEqual, "window_load_distance")
		})

		Convey("Env should carry the application prefix", func() {
			f := Default[key.SafetyNetGraceMs]
			So(f.Env(), ShouldEqual, "REELFEED_SAFETYNET_GRACE_MS")
		})
	})
}

func TestLoad(t *testing.T) {
	Convey("Given the default configuration", t, func() {
		So(Setup(), ShouldBeNil)

		Convey("Load should produce valid settings", func() {
			s, err := Load()
			So(err, ShouldBeNil)
			So(s.LoadDistance, ShouldEqual, 2)
			So(s.UnloadDistance, ShouldEqual, 3)
			So(s.Thresholds, ShouldResemble, []float64{0.5, 0.75, 1})
			So(s.Grace, ShouldEqual, 1500*time.Millisecond)
			So(s.Provider, ShouldEqual, "sim")
		})

		Convey("An unload distance not above the load distance is rejected", func() {
			viper.Set(key.WindowUnloadDistance, 2)
			defer viper.Set(key.WindowUnloadDistance, 3)

			_, err := Load()
			So(errors.Is(err, ErrInvalidSettings), ShouldBeTrue)
		})

		Convey("Thresholds above 100 percent are rejected", func() {
			viper.Set(key.ViewportThresholds, []int{50, 120})
			defer viper.Set(key.ViewportThresholds, []int{50, 75, 100})

			_, err := Load()
			So(errors.Is(err, ErrInvalidSettings), ShouldBeTrue)
		})
	})
}

func TestField(t *testing.T) {
	Convey("Given a registered field", t, func() {
		So(Setup(), ShouldBeNil)
		f := Default[key.WindowLoadDistance]

		Convey("Pretty lists key, env and type", func() {
			out := f.Pretty()
			So(out, ShouldContainSubstring, key.WindowLoadDistance)
			So(out, ShouldContainSubstring, "REELFEED_WINDOW_LOAD_DISTANCE")
			So(out, ShouldContainSubstring, "int")
		})

		Convey("JSON carries the current value and the default", func() {
			viper.Set(key.WindowLoadDistance, 1)
			defer viper.Set(key.WindowLoadDistance, 2)

			data, err := f.MarshalJSON()
			So(err, ShouldBeNil)
			So(string(data), ShouldContainSubstring, `"value":1`)
			So(string(data), ShouldContainSubstring, `"default":2`)
			So(string(data), ShouldContainSubstring, `"type":"int"`)
		})
	})
}
