package tui

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/reelfeed/reelfeed/adapter"
	"github.com/reelfeed/reelfeed/feed"
	"github.com/reelfeed/reelfeed/internal/ui"
	"github.com/reelfeed/reelfeed/key"
	"github.com/reelfeed/reelfeed/lifecycle"
	"github.com/reelfeed/reelfeed/loop"
	"github.com/reelfeed/reelfeed/player"
	"github.com/reelfeed/reelfeed/reel"
	"github.com/reelfeed/reelfeed/render"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"
)

func init() {
	viper.Set(key.IconsVariant, "plain")
}

// manualHost runs calls on a manual clock and lets every posted task run
// before returning.
type manualHost struct {
	m *loop.Manual
}

func (h manualHost) Call(_ context.Context, fn func()) error {
	h.m.Post(fn)
	h.m.Drain()
	return nil
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func testStore(n int) *feed.Store {
	items := make([]feed.Item, n)
	for i := range items {
		items[i] = feed.Item{
			ID:       fmt.Sprintf("id-%d", i),
			Kind:     feed.NativeEmbeddable,
			MediaRef: fmt.Sprintf("v%d", i),
		}
		if i%2 == 0 {
			items[i].Collections = []string{"even"}
		}
	}

	return feed.NewStore(items, []feed.Collection{
		{ID: "even", NameEN: "Even Reels", Active: true, DisplayOrder: 1},
		{ID: "empty", NameEN: "Nothing Here", Active: true, DisplayOrder: 2},
	})
}

func newTestBubble(n int) (*statefulBubble, *reel.Session, *loop.Manual) {
	m := loop.NewManual(time.Time{})
	sim := player.NewSim(m, player.SimOptions{
		BootstrapDelay: 100 * time.Millisecond,
		ReadyDelay:     100 * time.Millisecond,
	})
	store := testStore(n)

	session := reel.New(m, sim, store, reel.Options{
		Window:     lifecycle.Window{Load: 1, Unload: 2},
		Render:     render.Options{Initial: 4, Batch: 4},
		Thresholds: []float64{0.5, 1},
		Grace:      time.Second,
	})

	b := newBubble(manualHost{m}, session, store.Collections(), time.Hour)
	b.resize(80, 30)
	return b, session, m
}

// apply runs cmd, which must be a single loop round trip, and feeds its
// message back.
func apply(b *statefulBubble, cmd tea.Cmd) {
	So(cmd, ShouldNotBeNil)
	b.Update(cmd())
}

func TestBubble(t *testing.T) {
	Convey("Given a bubble over a started session", t, func() {
		b, session, m := newTestBubble(10)
		manualHost{m}.Call(context.Background(), session.Start)

		So(b.state, ShouldEqual, loadingState)
		apply(b, b.sync())
		So(b.state, ShouldEqual, feedState)
		So(b.snapshot.Items, ShouldEqual, 10)
		So(b.snapshot.Current, ShouldEqual, 0)

		Convey("Moving down makes the next item current", func() {
			apply(b, b.updateFeed(runes("j")))
			apply(b, b.sync())
			So(b.snapshot.Current, ShouldEqual, 1)

			apply(b, b.updateFeed(runes("k")))
			apply(b, b.sync())
			So(b.snapshot.Current, ShouldEqual, 0)
		})

		Convey("Jumping to the bottom reaches the last item", func() {
			apply(b, b.updateFeed(runes("G")))
			apply(b, b.sync())
			So(b.snapshot.Current, ShouldEqual, 9)

			apply(b, b.updateFeed(runes("g")))
			apply(b, b.sync())
			So(b.snapshot.Current, ShouldEqual, 0)
		})

		Convey("Players show up once the API is ready", func() {
			m.Step(200 * time.Millisecond)
			apply(b, b.sync())
			So(b.snapshot.APIReady, ShouldBeTrue)
			So(b.snapshot.Live(), ShouldResemble, []int{0, 1})

			view := b.View()
			So(view, ShouldContainSubstring, "v0")
			So(view, ShouldContainSubstring, "player api ready")
		})

		Convey("Filtering by collection rebuilds the feed", func() {
			b.Update(runes("/"))
			So(b.state, ShouldEqual, filterState)
			So(b.View(), ShouldContainSubstring, "Even Reels")

			b.inputC.SetValue("even")
			apply(b, b.updateFilter(tea.KeyMsg{Type: tea.KeyEnter}))
			So(b.state, ShouldEqual, feedState)
			So(b.snapshot.Filter, ShouldEqual, "even")
			So(b.snapshot.Items, ShouldEqual, 5)

			Convey("Escape shows every reel again", func() {
				apply(b, b.updateFeed(tea.KeyMsg{Type: tea.KeyEsc}))
				So(b.snapshot.Filter, ShouldBeEmpty)
				So(b.snapshot.Items, ShouldEqual, 10)
			})
		})

		Convey("Leaving the filter prompt keeps the feed", func() {
			b.updateFeed(runes("/"))
			So(b.updateFilter(tea.KeyMsg{Type: tea.KeyEsc}), ShouldBeNil)
			So(b.state, ShouldEqual, feedState)
			So(b.snapshot.Mounts, ShouldEqual, 1)
		})

		Convey("Errors switch to the error view until dismissed", func() {
			b.Update(errors.New("boom"))
			So(b.state, ShouldEqual, errorState)
			So(b.View(), ShouldContainSubstring, "boom")

			apply(b, b.updateError(tea.KeyMsg{Type: tea.KeyEsc}))
			So(b.state, ShouldEqual, feedState)
		})

		Convey("The current reel opens in the browser", func() {
			var opened string
			b.opener = func(url string) error {
				opened = url
				return nil
			}

			apply(b, b.updateFeed(runes("j")))
			apply(b, b.sync())

			cmd := b.updateFeed(runes("o"))
			So(cmd, ShouldNotBeNil)
			msg := cmd()
			So(opened, ShouldEqual, "https://www.youtube.com/watch?v=v1")
			So(msg, ShouldEqual, ui.NotificationMsg("opened id-1"))

			b.Update(msg)
			So(b.notifier.Notification(), ShouldEqual, "opened id-1")

			Convey("Failures are reported as notifications", func() {
				b.opener = func(string) error { return errors.New("no browser") }
				So(b.updateFeed(runes("o"))(), ShouldEqual, ui.NotificationMsg("could not open id-1: no browser"))
			})
		})

		Convey("Quitting returns the quit command", func() {
			_, cmd := b.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
			So(cmd(), ShouldHaveSameTypeAs, tea.QuitMsg{})
		})

		Convey("The position names the current item", func() {
			pos := position(session, "feed.json")
			So(pos.Index, ShouldEqual, 0)
			So(pos.ItemID, ShouldEqual, "id-0")
			So(pos.Manifest, ShouldEqual, "feed.json")
		})
	})
}

func TestApplyCollection(t *testing.T) {
	Convey("Given a started session", t, func() {
		_, session, m := newTestBubble(6)
		host := manualHost{m}
		host.Call(context.Background(), session.Start)

		call := func(query string) (note string) {
			host.Call(context.Background(), func() { note = applyCollection(session, query) })
			return
		}

		Convey("A fuzzy name selects the collection", func() {
			So(call("even reel"), ShouldEqual, "showing Even Reels")
			So(session.Filter().Collection, ShouldEqual, "even")
		})

		Convey("An unknown collection leaves the feed alone", func() {
			So(call("zzz"), ShouldContainSubstring, "no collection matches")
			So(session.Filter().IsZero(), ShouldBeTrue)
		})

		Convey("An empty collection is refused", func() {
			So(call("empty"), ShouldEqual, "Nothing Here has no reels")
			So(session.Filter().IsZero(), ShouldBeTrue)
		})
	})
}

func TestRowIcon(t *testing.T) {
	Convey("Row icons follow the player", t, func() {
		managed := feed.Item{Kind: feed.NativeEmbeddable}

		So(rowIcon(feed.Item{Kind: feed.OpaqueEmbed}, adapter.HandleInfo{}, false), ShouldEqual, "#")
		So(rowIcon(managed, adapter.HandleInfo{}, false), ShouldEqual, ".")
		So(rowIcon(managed, adapter.HandleInfo{Readiness: adapter.Loading}, true), ShouldEqual, "*")
		So(rowIcon(managed, adapter.HandleInfo{Readiness: adapter.Ready, State: player.StatePlaying}, true), ShouldEqual, ">")
		So(rowIcon(managed, adapter.HandleInfo{Readiness: adapter.Ready, State: player.StateBuffering}, true), ShouldEqual, "~")
		So(rowIcon(managed, adapter.HandleInfo{Readiness: adapter.Ready, State: player.StateCued}, true), ShouldEqual, "=")
	})
}

func TestKeymap(t *testing.T) {
	Convey("Help follows the state", t, func() {
		k := newStatefulKeymap()

		k.setState(feedState)
		So(len(k.FullHelp()[0]), ShouldBeGreaterThan, len(k.ShortHelp()))

		k.setState(filterState)
		So(k.ShortHelp(), ShouldHaveLength, 2)

		k.setState(loadingState)
		So(k.ShortHelp(), ShouldHaveLength, 1)
	})
}
