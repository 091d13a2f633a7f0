// Package render materializes feed items into document nodes, a small first
// batch synchronously and the rest in idle-time batches.
package render

import (
	"github.com/reelfeed/reelfeed/dom"
	"github.com/reelfeed/reelfeed/feed"
	"github.com/reelfeed/reelfeed/log"
	"github.com/reelfeed/reelfeed/loop"
)

// Options size the batches.
type Options struct {
	// Initial items are rendered synchronously by Render.
	Initial int
	// Batch items are rendered per idle callback.
	Batch int
}

// run is the token a scheduled batch carries. Cancel clears the renderer's
// reference, which turns every continuation of the run into a no-op.
type run struct {
	items   []feed.Item
	next    int
	onBatch func([]int)
	cancel  loop.CancelFunc
}

// Renderer appends nodes for a list of items.
type Renderer struct {
	sched loop.Scheduler
	doc   *dom.Document
	opts  Options

	active   *run
	rendered int
	total    int
}

// New creates a renderer writing into doc.
func New(sched loop.Scheduler, doc *dom.Document, opts Options) *Renderer {
	if opts.Initial < 0 {
		opts.Initial = 0
	}
	if opts.Batch < 1 {
		opts.Batch = 1
	}
	return &Renderer{sched: sched, doc: doc, opts: opts}
}

// Render cancels any previous run, renders the initial batch now and
// schedules the remainder. onBatch receives the indices of every batch as it
// lands in the document.
func (r *Renderer) Render(items []feed.Item, onBatch func([]int)) {
	r.Cancel()

	current := &run{items: items, onBatch: onBatch}
	r.active = current
	r.rendered = 0
	r.total = len(items)

	r.emit(current, r.opts.Initial)
	r.schedule(current)
}

// Cancel stops any scheduled batch. It is safe to call at any time.
func (r *Renderer) Cancel() {
	if r.active == nil {
		return
	}
	if r.active.cancel != nil {
		r.active.cancel()
	}
	r.active = nil
}

// Done reports whether no batch is scheduled.
func (r *Renderer) Done() bool {
	return r.active == nil
}

// Rendered returns the number of nodes appended by the latest run, and the
// number of items it was asked to render.
func (r *Renderer) Rendered() (rendered, total int) {
	return r.rendered, r.total
}

func (r *Renderer) schedule(current *run) {
	if r.active != current {
		return
	}
	if current.next >= len(current.items) {
		r.active = nil
		return
	}

	current.cancel = r.sched.Idle(func(bool) {
		if r.active != current {
			return
		}
		r.emit(current, r.opts.Batch)
		r.schedule(current)
	})
}

func (r *Renderer) emit(current *run, n int) {
	end := min(current.next+n, len(current.items))
	if end <= current.next {
		return
	}

	indices := make([]int, 0, end-current.next)
	for _, item := range current.items[current.next:end] {
		kind := dom.KindPlaceholder
		if !item.Managed() {
			kind = dom.KindEmbed
		}

		if _, err := r.doc.Append(item.Index, kind, item.MediaRef); err != nil {
			log.WithIndex(item.Index).Warnf("render: %v", err)
			continue
		}
		indices = append(indices, item.Index)
	}

	current.next = end
	r.rendered += len(indices)

	log.WithFields(log.Fields{"count": len(indices), "rendered": r.rendered, "total": r.total}).Debug("batch rendered")

	if current.onBatch != nil && len(indices) > 0 {
		current.onBatch(indices)
	}
}
