package reel

import (
	"errors"
	"testing"
	"time"

	"github.com/reelfeed/reelfeed/player"
	. "github.com/smartystreets/goconvey/convey"
)

func TestParseScript(t *testing.T) {
	Convey("Scripts accept commas and whitespace", t, func() {
		steps, err := ParseScript("j, k J K\ng G w @3 f=even f=")
		So(err, ShouldBeNil)

		names := make([]string, len(steps))
		for i, s := range steps {
			names[i] = s.Name
		}
		So(names, ShouldResemble, []string{
			"next", "prev", "half down", "half up", "top", "bottom", "wait", "@3", "filter even", "clear filter",
		})
	})

	Convey("Unknown steps are rejected", t, func() {
		_, err := ParseScript("j x")
		So(errors.Is(err, ErrBadScript), ShouldBeTrue)

		_, err = ParseScript("@-1")
		So(errors.Is(err, ErrBadScript), ShouldBeTrue)
	})

	Convey("An empty script has no steps", t, func() {
		steps, err := ParseScript("  ")
		So(err, ShouldBeNil)
		So(steps, ShouldBeEmpty)
	})
}

func TestPlay(t *testing.T) {
	Convey("Given a scripted session", t, func() {
		s, _, m := newTestSession(testItems(10), player.SimOptions{})
		steps, err := ParseScript("j @5 f=even G")
		So(err, ShouldBeNil)

		frames := Play(m, s, steps, time.Second)
		So(frames, ShouldHaveLength, 5)

		Convey("Each frame is taken after the dwell", func() {
			for i, f := range frames {
				So(f.At, ShouldEqual, time.Duration(i+1)*time.Second)
			}
		})

		Convey("The current item follows the script", func() {
			current := make([]int, len(frames))
			for i, f := range frames {
				current[i] = f.Snapshot.Current
			}
			So(current, ShouldResemble, []int{0, 1, 5, 0, 4})
		})

		Convey("Every settled frame plays the current item", func() {
			for _, f := range frames {
				h, ok := f.Snapshot.Playing()
				So(ok, ShouldBeTrue)
				So(h.Index, ShouldEqual, f.Snapshot.Current)
				So(h.State, ShouldEqual, player.StatePlaying)
			}
		})

		Convey("The filter step rebuilds the feed", func() {
			So(frames[3].Snapshot.Filter, ShouldEqual, "even")
			So(frames[3].Snapshot.Items, ShouldEqual, 5)
			So(frames[3].Snapshot.Mounts, ShouldEqual, 2)
		})
	})
}
