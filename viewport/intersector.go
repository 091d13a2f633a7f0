package viewport

import (
	"github.com/reelfeed/reelfeed/loop"
	"github.com/samber/lo"
	"golang.org/x/exp/slices"
)

// epsilon absorbs float error when a ratio sits exactly on a threshold.
const epsilon = 1e-9

// unseen marks a target that has not been delivered yet.
const unseen = -1

// Entry reports one target's visibility.
type Entry struct {
	Index        int
	Ratio        float64
	Intersecting bool
}

// Intersector reports threshold crossings of observed items. Any number of
// geometry changes between two loop turns are coalesced into one delivery,
// and a delivery only carries targets whose threshold bucket changed.
type Intersector struct {
	sched      loop.Scheduler
	layout     *Layout
	thresholds []float64
	callback   func([]Entry)

	buckets map[int]int
	queued  bool
	closed  bool
	detach  func()
}

// NewIntersector starts watching layout. thresholds must be sorted ascending
// and non-empty.
func NewIntersector(sched loop.Scheduler, layout *Layout, thresholds []float64, callback func([]Entry)) *Intersector {
	in := &Intersector{
		sched:      sched,
		layout:     layout,
		thresholds: thresholds,
		callback:   callback,
		buckets:    make(map[int]int),
	}
	in.detach = layout.OnChange(in.Check)
	return in
}

// Observe adds targets. Each new target is delivered once, whatever its ratio.
func (in *Intersector) Observe(indices ...int) {
	if in.closed {
		return
	}
	for _, i := range indices {
		if _, ok := in.buckets[i]; !ok {
			in.buckets[i] = unseen
		}
	}
	in.Check()
}

// Unobserve removes a target.
func (in *Intersector) Unobserve(index int) {
	delete(in.buckets, index)
}

// Disconnect drops every target and stops watching the layout. A delivery
// already queued is discarded.
func (in *Intersector) Disconnect() {
	if in.closed {
		return
	}
	in.closed = true
	in.buckets = make(map[int]int)
	if in.detach != nil {
		in.detach()
	}
}

// Observed returns the observed indices in ascending order.
func (in *Intersector) Observed() []int {
	indices := lo.Keys(in.buckets)
	slices.Sort(indices)
	return indices
}

// Check schedules a delivery for the next loop turn.
func (in *Intersector) Check() {
	if in.queued || in.closed {
		return
	}
	in.queued = true
	in.sched.Post(in.deliver)
}

func (in *Intersector) deliver() {
	in.queued = false
	if in.closed {
		return
	}

	var entries []Entry
	for _, i := range in.Observed() {
		ratio := in.layout.Ratio(i)
		bucket := in.bucket(ratio)
		if bucket == in.buckets[i] {
			continue
		}
		in.buckets[i] = bucket
		entries = append(entries, Entry{Index: i, Ratio: ratio, Intersecting: bucket > 0})
	}

	if len(entries) > 0 && in.callback != nil {
		in.callback(entries)
	}
}

// bucket is the number of thresholds reached by ratio.
func (in *Intersector) bucket(ratio float64) int {
	return lo.CountBy(in.thresholds, func(t float64) bool {
		return ratio+epsilon >= t
	})
}
