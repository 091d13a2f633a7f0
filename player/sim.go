package player

import (
	"errors"
	"fmt"
	"time"

	"github.com/reelfeed/reelfeed/loop"
	"github.com/samber/lo"
)

var (
	errSimDestroyed = errors.New("player destroyed")
	errSimNotReady  = errors.New("player not ready")
)

// SimOptions tune the simulated provider.
type SimOptions struct {
	// BootstrapDelay is how long the API takes to load.
	BootstrapDelay time.Duration
	// ReadyDelay is how long a new player takes to accept commands.
	ReadyDelay time.Duration
	// CueInsteadOfPlay makes the first play on each player end in Cued, the
	// way autoplay policies block unmuted playback.
	CueInsteadOfPlay bool
	// SwallowPlays drops the first n play calls on each player silently.
	SwallowPlays int
	// ClipLength is the media duration. Zero means endless.
	ClipLength time.Duration
	// FailRefs lists media references whose construction fails.
	FailRefs []string
}

// Sim is an in-process provider whose players run on the event loop.
type Sim struct {
	sched loop.Scheduler
	opts  SimOptions

	bootstrapped bool
	players      map[string]*SimPlayer
	plays        int
}

// NewSim creates a simulated provider on sched.
func NewSim(sched loop.Scheduler, opts SimOptions) *Sim {
	return &Sim{
		sched:   sched,
		opts:    opts,
		players: make(map[string]*SimPlayer),
	}
}

// Name implements Provider.
func (s *Sim) Name() string {
	return NameSim
}

// Bootstrap implements Provider. Only the first call has an effect.
func (s *Sim) Bootstrap(ready func()) {
	if s.bootstrapped {
		return
	}
	s.bootstrapped = true
	s.sched.After(s.opts.BootstrapDelay, ready)
}

// NewPlayer implements Provider.
func (s *Sim) NewPlayer(targetID, mediaRef string, sink Sink) (Instance, error) {
	if lo.Contains(s.opts.FailRefs, mediaRef) {
		return nil, fmt.Errorf("sim: cannot load %q", mediaRef)
	}

	p := &SimPlayer{
		sim:      s,
		targetID: targetID,
		mediaRef: mediaRef,
		sink:     sink,
		state:    StateUnstarted,
		clip:     loop.NewTimer(s.sched),
	}
	p.cancelReady = s.sched.After(s.opts.ReadyDelay, p.becomeReady)
	s.players[targetID] = p
	return p, nil
}

// Live returns the number of players not yet destroyed.
func (s *Sim) Live() int {
	return len(s.players)
}

// Player returns the live player mounted on targetID.
func (s *Sim) Player(targetID string) (*SimPlayer, bool) {
	p, ok := s.players[targetID]
	return p, ok
}

// Playing returns the media references currently playing.
func (s *Sim) Playing() []string {
	var refs []string
	for _, p := range s.players {
		if p.state == StatePlaying {
			refs = append(refs, p.mediaRef)
		}
	}
	return refs
}

// Plays counts play calls that started playback.
func (s *Sim) Plays() int {
	return s.plays
}

// SimPlayer is a simulated Instance.
type SimPlayer struct {
	sim      *Sim
	targetID string
	mediaRef string
	sink     Sink

	state     State
	ready     bool
	destroyed bool
	swallowed int
	cued      bool

	cancelReady loop.CancelFunc
	clip        *loop.Timer
}

func (p *SimPlayer) becomeReady() {
	if p.destroyed {
		return
	}
	p.ready = true
	p.sink(Event{Kind: EventReady})
}

func (p *SimPlayer) set(state State) {
	if p.state == state {
		return
	}
	p.state = state
	p.sink(Event{Kind: EventStateChange, State: state})
}

// Play implements Instance.
func (p *SimPlayer) Play() error {
	switch {
	case p.destroyed:
		return errSimDestroyed
	case !p.ready:
		return errSimNotReady
	case p.swallowed < p.sim.opts.SwallowPlays:
		p.swallowed++
		return nil
	case p.sim.opts.CueInsteadOfPlay && !p.cued:
		p.cued = true
		p.set(StateCued)
		return nil
	}

	if p.state == StatePlaying {
		return nil
	}

	p.sim.plays++
	p.set(StatePlaying)
	if p.sim.opts.ClipLength > 0 {
		p.clip.Reset(p.sim.opts.ClipLength, func() {
			if !p.destroyed && p.state == StatePlaying {
				p.set(StateEnded)
			}
		})
	}
	return nil
}

// Pause implements Instance.
func (p *SimPlayer) Pause() error {
	switch {
	case p.destroyed:
		return errSimDestroyed
	case !p.ready:
		return errSimNotReady
	}

	p.clip.Stop()
	if p.state == StatePlaying || p.state == StateBuffering {
		p.set(StatePaused)
	}
	return nil
}

// State implements Instance.
func (p *SimPlayer) State() (State, error) {
	if p.destroyed {
		return StateUnstarted, errSimDestroyed
	}
	return p.state, nil
}

// Destroy implements Instance.
func (p *SimPlayer) Destroy() error {
	if p.destroyed {
		return errSimDestroyed
	}
	p.destroyed = true
	p.cancelReady()
	p.clip.Stop()
	delete(p.sim.players, p.targetID)
	return nil
}

// Stall puts a playing player back into Unstarted without notifying anyone,
// the way a player silently drops its playing event.
func (p *SimPlayer) Stall() {
	p.clip.Stop()
	p.state = StateUnstarted
}

// Ref returns the media reference.
func (p *SimPlayer) Ref() string {
	return p.mediaRef
}
