package lifecycle

import "github.com/samber/lo"

// Gate tracks whether the player API is loaded. It moves from not ready to
// ready once and never back. Indices requested before that are queued in
// order, without duplicates.
type Gate struct {
	ready   bool
	pending []int
}

// Ready reports whether players can be created.
func (g *Gate) Ready() bool {
	return g.ready
}

// Enqueue queues index for creation once the gate opens. It reports whether
// the index was queued, which is never the case after the gate opened.
func (g *Gate) Enqueue(index int) bool {
	if g.ready || lo.Contains(g.pending, index) {
		return false
	}
	g.pending = append(g.pending, index)
	return true
}

// Drop removes index from the queue.
func (g *Gate) Drop(index int) {
	g.pending = lo.Without(g.pending, index)
}

// Pending returns a copy of the queue.
func (g *Gate) Pending() []int {
	return append([]int(nil), g.pending...)
}

// Open marks the gate ready and hands out the queue. Only the first call
// returns anything.
func (g *Gate) Open() []int {
	if g.ready {
		return nil
	}
	g.ready = true
	queued := g.pending
	g.pending = nil
	return queued
}

// Reset forgets queued indices. Readiness is kept.
func (g *Gate) Reset() {
	g.pending = nil
}
