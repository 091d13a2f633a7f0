package viewport

import (
	"github.com/reelfeed/reelfeed/log"
	"github.com/reelfeed/reelfeed/loop"
)

// NoCurrent is reported by Current before any item has been resolved.
const NoCurrent = -1

// Observer resolves the current item from intersection batches. At most one
// Intersector is live at a time.
type Observer struct {
	sched      loop.Scheduler
	layout     *Layout
	thresholds []float64

	in      *Intersector
	current int
	ratios  map[int]float64

	onPause   func(int)
	onCurrent func(int)
}

// NewObserver creates a disconnected observer.
func NewObserver(sched loop.Scheduler, layout *Layout, thresholds []float64) *Observer {
	return &Observer{
		sched:      sched,
		layout:     layout,
		thresholds: thresholds,
		current:    NoCurrent,
		ratios:     make(map[int]float64),
	}
}

// OnPause sets the callback for items that stop intersecting.
func (o *Observer) OnPause(fn func(index int)) {
	o.onPause = fn
}

// OnCurrent sets the callback for a change of the current item.
func (o *Observer) OnCurrent(fn func(index int)) {
	o.onCurrent = fn
}

// Connect replaces the intersector with a fresh one observing indices.
func (o *Observer) Connect(indices []int) {
	o.Disconnect()
	o.in = NewIntersector(o.sched, o.layout, o.thresholds, o.handle)
	o.in.Observe(indices...)
}

// Observe adds newly rendered items, connecting first if needed.
func (o *Observer) Observe(indices ...int) {
	if o.in == nil {
		o.Connect(indices)
		return
	}
	o.in.Observe(indices...)
}

// Disconnect drops the intersector and every recorded ratio.
func (o *Observer) Disconnect() {
	if o.in != nil {
		o.in.Disconnect()
		o.in = nil
	}
	o.ratios = make(map[int]float64)
	o.current = NoCurrent
}

// Connected reports whether an intersector is live.
func (o *Observer) Connected() bool {
	return o.in != nil
}

// Current returns the current index or NoCurrent.
func (o *Observer) Current() int {
	return o.current
}

// Ratio returns the last delivered ratio of an intersecting item.
func (o *Observer) Ratio(index int) (float64, bool) {
	r, ok := o.ratios[index]
	return r, ok
}

func (o *Observer) handle(entries []Entry) {
	for _, e := range entries {
		if e.Intersecting {
			o.ratios[e.Index] = e.Ratio
			continue
		}
		delete(o.ratios, e.Index)
		if o.onPause != nil {
			o.onPause(e.Index)
		}
	}

	winner, ok := o.resolve()
	if !ok || winner == o.current {
		return
	}

	log.WithFields(log.Fields{"from": o.current, "to": winner}).Debug("current item changed")
	o.current = winner
	if o.onCurrent != nil {
		o.onCurrent(winner)
	}
}

// resolve picks the highest ratio. A tie keeps the current item when it is
// among the best, otherwise the lowest index wins.
func (o *Observer) resolve() (int, bool) {
	if len(o.ratios) == 0 {
		return NoCurrent, false
	}

	best := -1.0
	winner := NoCurrent
	for i, r := range o.ratios {
		switch {
		case r > best+epsilon:
			best, winner = r, i
		case r >= best-epsilon && i < winner:
			winner = i
		}
	}

	if r, ok := o.ratios[o.current]; ok && r >= best-epsilon {
		return o.current, true
	}
	return winner, true
}
