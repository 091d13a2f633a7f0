// Package viewport tracks which feed item the user is looking at.
//
// Layout is the scroll geometry, Intersector is the visibility primitive
// reporting threshold crossings, and Observer turns crossings into pause and
// current-item notifications.
package viewport

import (
	"github.com/reelfeed/reelfeed/util"
	"github.com/samber/lo"
)

// Rect is the vertical extent of an item in feed coordinates.
type Rect struct {
	Top, Bottom float64
}

// Height of the rect.
func (r Rect) Height() float64 {
	return r.Bottom - r.Top
}

// Layout is a vertical stack of equal-height items seen through a viewport.
type Layout struct {
	itemHeight float64
	viewHeight float64
	minRatio   float64

	offset float64
	count  int

	listeners map[int]func()
	nextID    int
}

// NewLayout creates a layout whose items fill the viewport. minRatio is the
// visible ratio from which an item counts as visible.
func NewLayout(viewHeight, minRatio float64) *Layout {
	return &Layout{
		itemHeight: viewHeight,
		viewHeight: viewHeight,
		minRatio:   minRatio,
		listeners:  make(map[int]func()),
	}
}

// SetItemHeight changes the item height and notifies listeners.
func (l *Layout) SetItemHeight(h float64) {
	if h <= 0 {
		return
	}
	l.itemHeight = h
	l.clamp()
	l.notify()
}

// SetCount records how many items are rendered.
func (l *Layout) SetCount(n int) {
	l.count = util.Max(n, 0)
	l.clamp()
	l.notify()
}

// Count returns the number of rendered items.
func (l *Layout) Count() int {
	return l.count
}

// Offset returns the scroll offset.
func (l *Layout) Offset() float64 {
	return l.offset
}

// ItemHeight returns the height of one item.
func (l *Layout) ItemHeight() float64 {
	return l.itemHeight
}

// Rect returns the extent of item i.
func (l *Layout) Rect(i int) Rect {
	top := float64(i) * l.itemHeight
	return Rect{Top: top, Bottom: top + l.itemHeight}
}

// Ratio is the fraction of item i inside the viewport.
func (l *Layout) Ratio(i int) float64 {
	if i < 0 || i >= l.count || l.itemHeight <= 0 {
		return 0
	}

	r := l.Rect(i)
	top := util.Max(r.Top, l.offset)
	bottom := util.Min(r.Bottom, l.offset+l.viewHeight)
	if bottom <= top {
		return 0
	}
	return util.Clamp((bottom-top)/r.Height(), 0, 1)
}

// Visible reports whether item i is visible enough to be playing.
func (l *Layout) Visible(i int) bool {
	return l.Ratio(i)+epsilon >= l.minRatio
}

// ScrollTo sets the offset, clamped to the rendered extent.
func (l *Layout) ScrollTo(offset float64) {
	l.offset = offset
	l.clamp()
	l.notify()
}

// ScrollBy moves the offset by delta.
func (l *Layout) ScrollBy(delta float64) {
	l.ScrollTo(l.offset + delta)
}

// ScrollToIndex aligns the top of item i with the top of the viewport.
func (l *Layout) ScrollToIndex(i int) {
	l.ScrollTo(l.Rect(i).Top)
}

// Nearest returns the item whose top is closest to the viewport top.
func (l *Layout) Nearest() int {
	if l.count == 0 || l.itemHeight <= 0 {
		return -1
	}
	i := int(l.offset/l.itemHeight + 0.5)
	return util.Clamp(i, 0, l.count-1)
}

// OnChange registers fn to run after every geometry change. The returned
// function unregisters it.
func (l *Layout) OnChange(fn func()) (remove func()) {
	id := l.nextID
	l.nextID++
	l.listeners[id] = fn
	return func() { delete(l.listeners, id) }
}

func (l *Layout) clamp() {
	maxOffset := util.Max(float64(l.count)*l.itemHeight-l.viewHeight, 0)
	l.offset = util.Clamp(l.offset, 0, maxOffset)
}

func (l *Layout) notify() {
	for _, id := range lo.Keys(l.listeners) {
		if fn, ok := l.listeners[id]; ok {
			fn()
		}
	}
}
