// Package adapter owns the per-index player handles: their creation,
// readiness, play/pause commands and teardown. All player callbacks are
// funnelled through a single transition function.
package adapter

import (
	"fmt"
	"runtime/debug"

	"github.com/reelfeed/reelfeed/dom"
	"github.com/reelfeed/reelfeed/log"
	"github.com/reelfeed/reelfeed/loop"
	"github.com/reelfeed/reelfeed/player"
	"github.com/samber/lo"
	"github.com/samber/mo"
	"golang.org/x/exp/slices"
)

// NoIntent is reported by Intent when nothing should be playing.
const NoIntent = -1

// Readiness is the lifecycle of a handle.
type Readiness int

const (
	Loading Readiness = iota
	Ready
	Destroyed
	Failed
)

func (r Readiness) String() string {
	switch r {
	case Loading:
		return "loading"
	case Ready:
		return "ready"
	case Destroyed:
		return "destroyed"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("Readiness(%d)", int(r))
	}
}

// handle binds a feed index to a live player.
type handle struct {
	index     int
	readiness Readiness
	state     player.State
	instance  player.Instance
	node      dom.Node
}

// HandleInfo is a snapshot of a handle.
type HandleInfo struct {
	Index     int
	Readiness Readiness
	State     player.State
	TargetID  string
}

// Stats are cumulative counters.
type Stats struct {
	Created   int
	Destroyed int
	Failed    int
	Plays     int
	Pauses    int
}

// Adapter manages handles. It must only be used from the event loop.
type Adapter struct {
	sched    loop.Scheduler
	provider player.Provider
	doc      *dom.Document
	current  func() int

	handles map[int]*handle
	intent  int
	stats   Stats

	// OnReady, when set, is called after a handle becomes ready.
	OnReady func(index int)
}

// New creates an adapter. current reports the index the user is looking at.
func New(sched loop.Scheduler, provider player.Provider, doc *dom.Document, current func() int) *Adapter {
	return &Adapter{
		sched:    sched,
		provider: provider,
		doc:      doc,
		current:  current,
		handles:  make(map[int]*handle),
		intent:   NoIntent,
	}
}

// Create mounts a player for index unless one exists or is being built.
func (a *Adapter) Create(index int, mediaRef string) {
	if _, ok := a.handles[index]; ok {
		return
	}

	node, err := a.doc.Replace(index, dom.KindPlayer)
	if err != nil {
		log.WithIndex(index).Warnf("create player: %v", err)
		return
	}

	h := &handle{index: index, readiness: Loading, state: player.StateUnstarted, node: node}
	a.handles[index] = h

	instance, err := a.construct(node.ID, mediaRef, h)
	if err != nil {
		a.drop(h, fmt.Errorf("create player %d: %w", index, err))
		return
	}

	h.instance = instance
	a.stats.Created++
	log.WithFields(log.Fields{"index": index, "target": node.ID}).Debug("player created")
}

func (a *Adapter) construct(targetID, mediaRef string, h *handle) (instance player.Instance, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()

	instance, err = a.provider.NewPlayer(targetID, mediaRef, func(ev player.Event) {
		a.sched.Post(func() { a.dispatch(h, ev) })
	})
	if err == nil && instance == nil {
		err = fmt.Errorf("provider %s returned no player", a.provider.Name())
	}
	return instance, err
}

// dispatch is the transition function for every player event.
func (a *Adapter) dispatch(h *handle, ev player.Event) {
	if a.handles[h.index] != h {
		log.WithFields(log.Fields{"index": h.index, "event": ev.Kind}).Debug("event from stale player ignored")
		return
	}

	isCurrent := a.current() == h.index

	switch ev.Kind {
	case player.EventReady:
		h.readiness = Ready
		log.WithIndex(h.index).Debug("player ready")
		if isCurrent {
			a.Play(h.index)
		}
		if a.OnReady != nil {
			a.OnReady(h.index)
		}

	case player.EventStateChange:
		h.state = ev.State
		switch ev.State {
		case player.StateEnded:
			if isCurrent {
				a.Play(h.index)
			}
		case player.StateCued, player.StateUnstarted:
			if isCurrent {
				a.Play(h.index)
			}
		case player.StatePlaying:
			if !isCurrent {
				a.Pause(h.index)
			}
		}

	case player.EventFailed:
		a.drop(h, fmt.Errorf("create player %d: %w", h.index, ev.Err))

	case player.EventError:
		log.WithIndex(h.index).Warnf("player error: %v", ev.Err)
	}
}

// drop forgets a handle whose player could not be built. The index gets a
// placeholder back and is created again by the next recompute.
func (a *Adapter) drop(h *handle, err error) {
	delete(a.handles, h.index)
	h.readiness = Failed
	if a.intent == h.index {
		a.intent = NoIntent
	}
	a.stats.Failed++
	a.restore(h.index)
	log.WithIndex(h.index).Errorf("%v", err)
}

func (a *Adapter) ready(index int) (*handle, bool) {
	h, ok := a.handles[index]
	if !ok || h.readiness != Ready {
		return nil, false
	}
	return h, true
}

// Play starts index and moves the play intent to it, pausing the previous
// target. Without a ready handle it does nothing.
func (a *Adapter) Play(index int) {
	h, ok := a.ready(index)
	if !ok {
		return
	}

	if a.intent != index && a.intent != NoIntent {
		a.Pause(a.intent)
	}
	a.intent = index

	if a.call(h, "play", h.instance.Play) {
		a.stats.Plays++
	}
}

// Pause pauses index. Without a ready handle it does nothing.
func (a *Adapter) Pause(index int) {
	h, ok := a.ready(index)
	if !ok {
		return
	}

	if a.intent == index {
		a.intent = NoIntent
	}

	if a.call(h, "pause", h.instance.Pause) {
		a.stats.Pauses++
	}
}

// PauseAllExcept pauses every ready handle but index.
func (a *Adapter) PauseAllExcept(index int) {
	for _, i := range a.indices() {
		if i != index {
			a.Pause(i)
		}
	}
}

// Destroy tears the handle down and puts a placeholder back in its node.
func (a *Adapter) Destroy(index int) {
	h, ok := a.handles[index]
	if !ok {
		return
	}

	delete(a.handles, index)
	h.readiness = Destroyed
	if a.intent == index {
		a.intent = NoIntent
	}

	if h.instance != nil {
		a.call(h, "destroy", h.instance.Destroy)
	}
	a.restore(index)
	a.stats.Destroyed++
	log.WithIndex(index).Debug("player destroyed")
}

// DestroyAll destroys every handle.
func (a *Adapter) DestroyAll() {
	for _, i := range a.indices() {
		a.Destroy(i)
	}
}

func (a *Adapter) restore(index int) {
	if !a.doc.Has(index) {
		return
	}
	if _, err := a.doc.Replace(index, dom.KindPlaceholder); err != nil {
		log.WithIndex(index).Warnf("restore placeholder: %v", err)
	}
}

// Has reports whether a handle exists for index, ready or not.
func (a *Adapter) Has(index int) bool {
	_, ok := a.handles[index]
	return ok
}

// Live returns the number of handles.
func (a *Adapter) Live() int {
	return len(a.handles)
}

// Intent returns the index that should be playing.
func (a *Adapter) Intent() int {
	return a.intent
}

// Info returns a snapshot of the handle at index.
func (a *Adapter) Info(index int) mo.Option[HandleInfo] {
	h, ok := a.handles[index]
	if !ok {
		return mo.None[HandleInfo]()
	}
	return mo.Some(h.info())
}

// Snapshot returns every handle in index order.
func (a *Adapter) Snapshot() []HandleInfo {
	return lo.Map(a.indices(), func(i int, _ int) HandleInfo {
		return a.handles[i].info()
	})
}

// State queries the player at index for its live state. The last reported
// state is used when the query fails.
func (a *Adapter) State(index int) mo.Option[player.State] {
	h, ok := a.ready(index)
	if !ok {
		return mo.None[player.State]()
	}

	var state player.State
	if !a.call(h, "state", func() (err error) {
		state, err = h.instance.State()
		return err
	}) {
		return mo.Some(h.state)
	}
	return mo.Some(state)
}

// Stats returns the counters.
func (a *Adapter) Stats() Stats {
	return a.stats
}

func (a *Adapter) indices() []int {
	indices := lo.Keys(a.handles)
	slices.Sort(indices)
	return indices
}

func (h *handle) info() HandleInfo {
	return HandleInfo{
		Index:     h.index,
		Readiness: h.readiness,
		State:     h.state,
		TargetID:  h.node.ID,
	}
}

// call runs a player command. Errors and panics are logged and swallowed.
func (a *Adapter) call(h *handle, op string, fn func() error) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			log.WithFields(log.Fields{"index": h.index, "op": op, "panic": r}).Errorf("player call panicked\n%s", debug.Stack())
			ok = false
		}
	}()

	if err := fn(); err != nil {
		log.WithFields(log.Fields{"index": h.index, "op": op}).Warnf("player call failed: %v", err)
		return false
	}
	return true
}
