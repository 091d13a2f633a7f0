// Package lifecycle keeps players alive only around the current item: a load
// window in which players are created and a wider unload window outside of
// which they are destroyed.
package lifecycle

import (
	"errors"
	"fmt"

	"github.com/reelfeed/reelfeed/dom"
	"github.com/reelfeed/reelfeed/feed"
	"github.com/reelfeed/reelfeed/log"
	"github.com/reelfeed/reelfeed/util"
)

// ErrInvalidWindow is returned when the unload distance does not exceed the
// load distance.
var ErrInvalidWindow = errors.New("invalid window")

// Window holds the two distances, counted in items from the current one.
type Window struct {
	Load   int
	Unload int
}

// NewWindow validates the distances.
func NewWindow(load, unload int) (Window, error) {
	if load < 0 {
		return Window{}, fmt.Errorf("%w: load distance %d is negative", ErrInvalidWindow, load)
	}
	if unload <= load {
		return Window{}, fmt.Errorf("%w: unload distance %d must exceed load distance %d", ErrInvalidWindow, unload, load)
	}
	return Window{Load: load, Unload: unload}, nil
}

// Players is what the manager drives.
type Players interface {
	Create(index int, mediaRef string)
	Destroy(index int)
	Play(index int)
	Live() int
}

// Manager applies the window to the rendered items.
type Manager struct {
	window  Window
	gate    *Gate
	players Players
	doc     *dom.Document
	items   *feed.Store
	current func() int
}

// NewManager creates a manager. current reports the current index or a
// negative value when there is none.
func NewManager(window Window, players Players, doc *dom.Document, current func() int) *Manager {
	return &Manager{
		window:  window,
		gate:    &Gate{},
		players: players,
		doc:     doc,
		items:   feed.NewStore(nil, nil),
		current: current,
	}
}

// SetItems replaces the store the rendered indices refer to.
func (m *Manager) SetItems(items *feed.Store) {
	m.items = items
}

// Gate exposes the readiness gate.
func (m *Manager) Gate() *Gate {
	return m.gate
}

// Window returns the configured window.
func (m *Manager) Window() Window {
	return m.window
}

// Bound is the largest number of live players the window allows.
func (m *Manager) Bound() int {
	return 2*m.window.Unload + 1
}

// Recompute creates players within the load distance of the current index
// and destroys players beyond the unload distance. Players in between are
// left alone. Calling it again without a change in state does nothing.
func (m *Manager) Recompute() {
	current := m.current()
	if current < 0 {
		return
	}

	for _, index := range m.doc.Indices() {
		item, ok := m.items.At(index).Get()
		if !ok || !item.Managed() {
			continue
		}

		switch d := util.Abs(index - current); {
		case d <= m.window.Load:
			m.ensure(item)
		case d > m.window.Unload:
			m.gate.Drop(index)
			m.players.Destroy(index)
		}
	}

	if live := m.players.Live(); live > m.Bound() {
		log.WithFields(log.Fields{"live": live, "bound": m.Bound(), "current": current}).Warn("live players exceed window bound")
	}
}

func (m *Manager) ensure(item feed.Item) {
	if !m.gate.Ready() {
		if m.gate.Enqueue(item.Index) {
			log.WithIndex(item.Index).Debug("player creation queued until API ready")
		}
		return
	}
	m.players.Create(item.Index, item.MediaRef)
}

// APIReady opens the gate, creates the queued players, starts the current
// one if it can and recomputes the window.
func (m *Manager) APIReady() {
	queued := m.gate.Open()
	log.WithFields(log.Fields{"queued": len(queued)}).Info("player API ready")

	for _, index := range queued {
		item, ok := m.items.At(index).Get()
		if !ok || !item.Managed() || !m.doc.Has(index) {
			continue
		}
		m.players.Create(index, item.MediaRef)
	}

	if current := m.current(); current >= 0 {
		m.players.Play(current)
	}

	m.Recompute()
}

// Reset drops queued creations, for teardown.
func (m *Manager) Reset() {
	m.gate.Reset()
}
