package safetynet

import (
	"testing"
	"time"

	"github.com/reelfeed/reelfeed/loop"
	"github.com/reelfeed/reelfeed/player"
	"github.com/samber/mo"
	. "github.com/smartystreets/goconvey/convey"
)

type stubPlayers struct {
	states map[int]player.State
	plays  []int
}

func (s *stubPlayers) State(index int) mo.Option[player.State] {
	st, ok := s.states[index]
	if !ok {
		return mo.None[player.State]()
	}
	return mo.Some(st)
}

func (s *stubPlayers) Play(index int) {
	s.plays = append(s.plays, index)
	s.states[index] = player.StatePlaying
}

type stubGeometry map[int]bool

func (g stubGeometry) Visible(index int) bool {
	return g[index]
}

func TestNet(t *testing.T) {
	Convey("Given an armed safety net", t, func() {
		m := loop.NewManual(time.Time{})
		players := &stubPlayers{states: map[int]player.State{}}
		geometry := stubGeometry{0: true}
		current := 0

		n := New(m, 1500*time.Millisecond, players, geometry, func() int { return current })

		Convey("A stalled current player gets one corrective play", func() {
			players.states[0] = player.StateUnstarted
			n.Arm()

			m.Advance(1499 * time.Millisecond)
			So(players.plays, ShouldBeEmpty)

			m.Advance(time.Millisecond)
			So(players.plays, ShouldResemble, []int{0})
			So(n.Fired(), ShouldEqual, 1)
			So(n.Armed(), ShouldBeFalse)

			m.Advance(10 * time.Second)
			So(players.plays, ShouldResemble, []int{0})
		})

		Convey("Re-arming replaces the pending check", func() {
			players.states[0] = player.StateCued
			n.Arm()
			m.Advance(time.Second)
			n.Arm()
			m.Advance(time.Second)
			So(players.plays, ShouldBeEmpty)

			m.Advance(500 * time.Millisecond)
			So(players.plays, ShouldResemble, []int{0})
		})

		Convey("Playing and buffering players are left alone", func() {
			for _, s := range []player.State{player.StatePlaying, player.StateBuffering} {
				players.states[0] = s
				n.Arm()
				m.Advance(2 * time.Second)
			}
			So(players.plays, ShouldBeEmpty)
		})

		Convey("Nothing happens without a ready player", func() {
			n.Arm()
			m.Advance(2 * time.Second)
			So(players.plays, ShouldBeEmpty)
		})

		Convey("An item scrolled away is not played", func() {
			players.states[1] = player.StatePaused
			current = 1
			n.Arm()
			m.Advance(2 * time.Second)
			So(players.plays, ShouldBeEmpty)
		})

		Convey("The current index is read at check time", func() {
			players.states[0] = player.StatePaused
			current = -1
			n.Arm()
			current = 0
			m.Advance(2 * time.Second)
			So(players.plays, ShouldResemble, []int{0})
		})

		Convey("Cancel prevents the check", func() {
			players.states[0] = player.StateUnstarted
			n.Arm()
			n.Cancel()
			m.Advance(2 * time.Second)
			So(players.plays, ShouldBeEmpty)
		})
	})
}
