package reel

import (
	"github.com/reelfeed/reelfeed/adapter"
	"github.com/reelfeed/reelfeed/dom"
)

// Snapshot is a copy of session state safe to hand to another goroutine.
type Snapshot struct {
	Current  int
	Intent   int
	Filter   string
	Items    int
	Rendered int
	Embeds   int
	Offset   float64
	Nearest  int

	APIReady  bool
	Rendering bool
	Mounts    int

	Handles    []adapter.HandleInfo
	Stats      adapter.Stats
	Bound      int
	Corrective int
}

// Snapshot captures the current state.
func (s *Session) Snapshot() Snapshot {
	return Snapshot{
		Current:  s.observer.Current(),
		Intent:   s.players.Intent(),
		Filter:   s.filter.Collection,
		Items:    s.store.Len(),
		Rendered: s.doc.Len(),
		Embeds:   s.doc.Count(dom.KindEmbed),
		Offset:   s.layout.Offset() / s.layout.ItemHeight(),
		Nearest:  s.layout.Nearest(),

		APIReady:  s.apiReady,
		Rendering: !s.renderer.Done(),
		Mounts:    s.mounts,

		Handles:    s.players.Snapshot(),
		Stats:      s.players.Stats(),
		Bound:      s.manager.Bound(),
		Corrective: s.net.Fired(),
	}
}

// Live returns the indices that have a player.
func (snap Snapshot) Live() []int {
	out := make([]int, len(snap.Handles))
	for i, h := range snap.Handles {
		out[i] = h.Index
	}
	return out
}

// Playing reports the handle info of the index holding the play intent.
func (snap Snapshot) Playing() (adapter.HandleInfo, bool) {
	for _, h := range snap.Handles {
		if h.Index == snap.Intent {
			return h, true
		}
	}
	return adapter.HandleInfo{}, false
}
