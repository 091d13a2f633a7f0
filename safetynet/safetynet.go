// Package safetynet issues a corrective play when the current item should be
// playing but is not, for example after a playing event was missed.
package safetynet

import (
	"time"

	"github.com/reelfeed/reelfeed/log"
	"github.com/reelfeed/reelfeed/loop"
	"github.com/reelfeed/reelfeed/player"
	"github.com/samber/mo"
)

// DefaultGrace is the delay between arming and checking.
const DefaultGrace = 1500 * time.Millisecond

// Players is the view of the adapter the check needs.
type Players interface {
	// State is the live state of a ready player, if any.
	State(index int) mo.Option[player.State]
	Play(index int)
}

// Geometry reports whether an item is actually on screen.
type Geometry interface {
	Visible(index int) bool
}

// Net is a single-shot check. Arming it again replaces the pending check.
type Net struct {
	timer    *loop.Timer
	grace    time.Duration
	players  Players
	geometry Geometry
	current  func() int

	fired int
}

// New creates a disarmed net.
func New(sched loop.Scheduler, grace time.Duration, players Players, geometry Geometry, current func() int) *Net {
	if grace <= 0 {
		grace = DefaultGrace
	}
	return &Net{
		timer:    loop.NewTimer(sched),
		grace:    grace,
		players:  players,
		geometry: geometry,
		current:  current,
	}
}

// Arm schedules a check after the grace period, replacing any pending one.
func (n *Net) Arm() {
	n.timer.Reset(n.grace, n.check)
}

// Cancel drops the pending check.
func (n *Net) Cancel() {
	n.timer.Stop()
}

// Armed reports whether a check is pending.
func (n *Net) Armed() bool {
	return n.timer.Pending()
}

// Fired counts corrective plays.
func (n *Net) Fired() int {
	return n.fired
}

func (n *Net) check() {
	index := n.current()
	if index < 0 {
		return
	}

	state, ok := n.players.State(index).Get()
	if !ok || state.Active() {
		return
	}

	if !n.geometry.Visible(index) {
		log.WithIndex(index).Debug("safety net skipped: current item no longer visible")
		return
	}

	n.fired++
	log.WithFields(log.Fields{"index": index, "state": state.String()}).Info("safety net: corrective play")
	n.players.Play(index)
}
