// Package player defines the contract of an embeddable player API and its
// providers. Players are created per feed item and report back through an
// event sink.
//
// Two providers exist: Sim, a deterministic in-process player driven by the
// event loop, and MPV, which drives one mpv process per item over JSON-IPC.
package player

import (
	"errors"
	"fmt"

	"github.com/reelfeed/reelfeed/loop"
)

// ErrUnknownProvider is returned for an unrecognised provider name.
var ErrUnknownProvider = errors.New("unknown player provider")

// State is the playback state reported by a player.
type State int

const (
	StateUnstarted State = iota
	StateEnded
	StatePlaying
	StatePaused
	StateBuffering
	StateCued
)

func (s State) String() string {
	switch s {
	case StateUnstarted:
		return "unstarted"
	case StateEnded:
		return "ended"
	case StatePlaying:
		return "playing"
	case StatePaused:
		return "paused"
	case StateBuffering:
		return "buffering"
	case StateCued:
		return "cued"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Active reports whether the state counts as playing.
func (s State) Active() bool {
	return s == StatePlaying || s == StateBuffering
}

// EventKind discriminates Event.
type EventKind int

const (
	// EventReady is sent once, when the player accepts commands.
	EventReady EventKind = iota
	// EventStateChange carries the new State.
	EventStateChange
	// EventError carries Err. The player stays usable.
	EventError
	// EventFailed reports, with Err, that a player being built will never
	// become ready.
	EventFailed
)

func (k EventKind) String() string {
	switch k {
	case EventReady:
		return "ready"
	case EventStateChange:
		return "state"
	case EventError:
		return "error"
	case EventFailed:
		return "failed"
	default:
		return fmt.Sprintf("EventKind(%d)", int(k))
	}
}

// Event is a player notification.
type Event struct {
	Kind  EventKind
	State State
	Err   error
}

// Sink receives events. Providers may call it from any goroutine.
type Sink func(Event)

// Instance is a live player.
type Instance interface {
	Play() error
	Pause() error
	// State queries the player for its current state.
	State() (State, error)
	Destroy() error
}

// Provider creates players once its API is loaded.
type Provider interface {
	Name() string
	// Bootstrap loads the API and calls ready exactly once when it can
	// create players.
	Bootstrap(ready func())
	// NewPlayer mounts a player for mediaRef on the node targetID.
	NewPlayer(targetID, mediaRef string, sink Sink) (Instance, error)
}

// Names of the built-in providers.
const (
	NameSim = "sim"
	NameMPV = "mpv"
)

// Available lists the built-in provider names.
func Available() []string {
	return []string{NameSim, NameMPV}
}

// New creates the named provider. Sim players run on sched.
func New(name string, sched loop.Scheduler, sim SimOptions) (Provider, error) {
	switch name {
	case NameSim:
		return NewSim(sched, sim), nil
	case NameMPV:
		return NewMPV(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, name)
	}
}
