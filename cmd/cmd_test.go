package cmd

import (
	"testing"
	"time"

	"github.com/reelfeed/reelfeed/feed"
	"github.com/reelfeed/reelfeed/history"
	"github.com/reelfeed/reelfeed/key"
	"github.com/reelfeed/reelfeed/lifecycle"
	"github.com/reelfeed/reelfeed/loop"
	"github.com/reelfeed/reelfeed/player"
	"github.com/reelfeed/reelfeed/reel"
	"github.com/reelfeed/reelfeed/render"
	. "github.com/smartystreets/goconvey/convey"
)

func TestResumeIndex(t *testing.T) {
	Convey("Given a synthetic store", t, func() {
		store := syntheticStore(6)

		Convey("The saved item is found by id", func() {
			So(resumeIndex(store, history.Position{ItemID: "reel-4", Index: 1}), ShouldEqual, 4)
		})

		Convey("A vanished item falls back to the saved index", func() {
			So(resumeIndex(store, history.Position{ItemID: "gone", Index: 3}), ShouldEqual, 3)
		})

		Convey("An index past the end starts over", func() {
			So(resumeIndex(store, history.Position{ItemID: "gone", Index: 6}), ShouldEqual, 0)
		})

		Convey("A filtered store reindexes items", func() {
			even := store.Filter(feed.Filter{Collection: "even"})
			So(resumeIndex(even, history.Position{ItemID: "reel-4"}), ShouldEqual, 2)
		})
	})
}

func TestResolveCollection(t *testing.T) {
	Convey("Given a store with collections", t, func() {
		store := feed.NewStore(nil, []feed.Collection{
			{ID: "cats", NameEN: "Cats", Active: true, DisplayOrder: 1},
			{ID: "dogs", NameEN: "Dogs", Active: true, DisplayOrder: 2},
		})

		Convey("Names resolve case-insensitively", func() {
			c, err := resolveCollection(store, "DOGS")
			So(err, ShouldBeNil)
			So(c.ID, ShouldEqual, "dogs")
		})

		Convey("Unknown input suggests the closest id", func() {
			_, err := resolveCollection(store, "cwts")
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, "did you mean")
			So(err.Error(), ShouldContainSubstring, "cats")
		})

		Convey("A manifest without collections says so", func() {
			_, err := resolveCollection(feed.NewStore(nil, nil), "cats")
			So(err.Error(), ShouldContainSubstring, "defines none")
		})
	})

	Convey("Labels carry the icon and count", t, func() {
		So(collectionLabel(feed.Collection{ID: "a", NameEN: "Alpha", Icon: "*"}, 3), ShouldEqual, "* Alpha (3)")
		So(collectionLabel(feed.Collection{ID: "a"}, 0), ShouldEqual, "a (0)")
	})
}

func TestParseValue(t *testing.T) {
	Convey("Values are converted to the type of the default", t, func() {
		v, err := parseValue(key.WindowLoadDistance, []string{"4"})
		So(err, ShouldBeNil)
		So(v, ShouldEqual, 4)

		v, err = parseValue(key.ViewportThresholds, []string{"25", "100"})
		So(err, ShouldBeNil)
		So(v, ShouldResemble, []int{25, 100})

		v, err = parseValue(key.LoopIdle, []string{"false"})
		So(err, ShouldBeNil)
		So(v, ShouldEqual, false)

		v, err = parseValue(key.PlayerProvider, []string{"mpv"})
		So(err, ShouldBeNil)
		So(v, ShouldEqual, "mpv")

		_, err = parseValue(key.WindowLoadDistance, []string{"two"})
		So(err, ShouldNotBeNil)
	})
}

func TestFramesTable(t *testing.T) {
	Convey("Given frames of a simulated session", t, func() {
		m := loop.NewManual(time.Time{})
		sim := player.NewSim(m, player.SimOptions{BootstrapDelay: 100 * time.Millisecond, ReadyDelay: 100 * time.Millisecond})
		session := reel.New(m, sim, syntheticStore(8), reel.Options{
			Window:     lifecycle.Window{Load: 1, Unload: 2},
			Render:     render.Options{Initial: 2, Batch: 4},
			Thresholds: []float64{0.5, 1},
			Grace:      time.Second,
		})

		steps, err := reel.ParseScript("j G")
		So(err, ShouldBeNil)
		frames := reel.Play(m, session, steps, time.Second)

		Convey("Every frame becomes a row", func() {
			out := framesTable(frames, 120)
			So(out, ShouldContainSubstring, "start")
			So(out, ShouldContainSubstring, "next")
			So(out, ShouldContainSubstring, "bottom")
			So(out, ShouldContainSubstring, "7 playing")
		})
	})
}

func TestLocationsTable(t *testing.T) {
	Convey("Locations render as flag and path rows", t, func() {
		out := locationsTable([]location{
			{name: "config", path: func() string { return "/tmp/reelfeed" }, flag: "config"},
			{name: "positions", path: func() string { return "/tmp/positions.json" }, flag: "history"},
		})
		So(out, ShouldContainSubstring, "--history")
		So(out, ShouldContainSubstring, "/tmp/positions.json")
		So(out, ShouldContainSubstring, "config")
	})
}
