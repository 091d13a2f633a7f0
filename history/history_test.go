package history

import (
	"testing"

	"github.com/reelfeed/reelfeed/filesystem"
	"github.com/reelfeed/reelfeed/key"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"
)

func init() {
	filesystem.SetMemMapFs()
}

func TestHistory(t *testing.T) {
	Convey("Given position saving is enabled", t, func() {
		viper.Set(key.HistorySavePosition, true)
		manifest := "/feeds/reels.json"
		_ = Remove(manifest)

		Convey("A saved position can be looked up", func() {
			So(Save(Position{Manifest: manifest, Index: 7, ItemID: "abc", Filter: "music"}), ShouldBeNil)

			pos := Lookup(manifest).MustGet()
			So(pos.Index, ShouldEqual, 7)
			So(pos.ItemID, ShouldEqual, "abc")
			So(pos.Filter, ShouldEqual, "music")
			So(pos.SavedAt.IsZero(), ShouldBeFalse)
		})

		Convey("Saving again overwrites the position", func() {
			So(Save(Position{Manifest: manifest, Index: 1}), ShouldBeNil)
			So(Save(Position{Manifest: manifest, Index: 4}), ShouldBeNil)
			So(Lookup(manifest).MustGet().Index, ShouldEqual, 4)
		})

		Convey("Positions are kept per manifest", func() {
			So(Save(Position{Manifest: manifest, Index: 2}), ShouldBeNil)
			So(Lookup("/feeds/other.json").IsAbsent(), ShouldBeTrue)
		})

		Convey("Removed positions are gone", func() {
			So(Save(Position{Manifest: manifest, Index: 2}), ShouldBeNil)
			So(Remove(manifest), ShouldBeNil)
			So(Lookup(manifest).IsAbsent(), ShouldBeTrue)
		})
	})

	Convey("Given position saving is disabled", t, func() {
		viper.Set(key.HistorySavePosition, false)
		manifest := "/feeds/disabled.json"

		Convey("Save is a no-op", func() {
			So(Save(Position{Manifest: manifest, Index: 3}), ShouldBeNil)
			So(Lookup(manifest).IsAbsent(), ShouldBeTrue)
		})
	})
}
