package where

import (
	"testing"

	"github.com/reelfeed/reelfeed/filesystem"
	"github.com/samber/lo"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	filesystem.SetMemMapFs()
}

func TestPaths(t *testing.T) {
	Convey("Path functions", t, func() {
		for name, fn := range map[string]func() string{
			"Config":  Config,
			"Cache":   Cache,
			"Logs":    Logs,
			"Sockets": Sockets,
		} {
			Convey(name+"() should resolve to an existing directory", func() {
				path := fn()
				So(path, ShouldNotBeEmpty)
				So(lo.Must(filesystem.API().IsDir(path)), ShouldBeTrue)
			})
		}

		Convey("History() should live in the cache directory", func() {
			So(History(), ShouldStartWith, Cache())
		})
	})
}

func TestManifestKey(t *testing.T) {
	Convey("ManifestKey", t, func() {
		Convey("Should be stable for the same path", func() {
			So(ManifestKey("feeds/tokyo.json"), ShouldEqual, ManifestKey("feeds/tokyo.json"))
		})

		Convey("Should differ for different paths", func() {
			So(ManifestKey("a.json"), ShouldNotEqual, ManifestKey("b.json"))
		})

		Convey("Should be 16 hex characters", func() {
			So(len(ManifestKey("a.json")), ShouldEqual, 16)
		})
	})
}
