// Package reel wires the feed, renderer, viewport observer, lifecycle manager,
// player adapter and safety net into one playback session.
package reel

import (
	"time"

	"github.com/reelfeed/reelfeed/adapter"
	"github.com/reelfeed/reelfeed/config"
	"github.com/reelfeed/reelfeed/dom"
	"github.com/reelfeed/reelfeed/feed"
	"github.com/reelfeed/reelfeed/lifecycle"
	"github.com/reelfeed/reelfeed/log"
	"github.com/reelfeed/reelfeed/loop"
	"github.com/reelfeed/reelfeed/player"
	"github.com/reelfeed/reelfeed/render"
	"github.com/reelfeed/reelfeed/safetynet"
	"github.com/reelfeed/reelfeed/viewport"
)

// DefaultViewHeight is the viewport height in layout units. Items are as tall
// as the viewport.
const DefaultViewHeight = 100

// Options configure a Session.
type Options struct {
	Window     lifecycle.Window
	Render     render.Options
	Thresholds []float64
	Grace      time.Duration
	ViewHeight float64
	// Filter is applied by the first Mount.
	Filter feed.Filter
}

// OptionsFrom converts loaded settings.
func OptionsFrom(s config.Settings) (Options, error) {
	window, err := lifecycle.NewWindow(s.LoadDistance, s.UnloadDistance)
	if err != nil {
		return Options{}, err
	}

	return Options{
		Window:     window,
		Render:     render.Options{Initial: s.InitialBatch, Batch: s.BatchSize},
		Thresholds: s.Thresholds,
		Grace:      s.Grace,
		ViewHeight: DefaultViewHeight,
	}, nil
}

// SimOptionsFrom converts the simulated provider settings.
func SimOptionsFrom(s config.Settings) player.SimOptions {
	return player.SimOptions{
		BootstrapDelay:   s.Sim.BootstrapDelay,
		ReadyDelay:       s.Sim.ReadyDelay,
		CueInsteadOfPlay: s.Sim.CueInsteadOfPlay,
		SwallowPlays:     s.Sim.SwallowPlays,
		ClipLength:       s.Sim.ClipLength,
	}
}

// Session is one mounted feed. Every method must run on the event loop.
type Session struct {
	sched    loop.Scheduler
	provider player.Provider
	opts     Options

	source *feed.Store
	store  *feed.Store
	filter feed.Filter

	doc      *dom.Document
	layout   *viewport.Layout
	observer *viewport.Observer
	renderer *render.Renderer
	players  *adapter.Adapter
	manager  *lifecycle.Manager
	net      *safetynet.Net

	started  bool
	mounted  bool
	apiReady bool
	resume   int
	mounts   int
}

// New assembles a session over source. Nothing happens until Start.
func New(sched loop.Scheduler, provider player.Provider, source *feed.Store, opts Options) *Session {
	if opts.ViewHeight <= 0 {
		opts.ViewHeight = DefaultViewHeight
	}
	if len(opts.Thresholds) == 0 {
		opts.Thresholds = []float64{0.5, 0.75, 1}
	}

	s := &Session{
		sched:    sched,
		provider: provider,
		opts:     opts,
		source:   source,
		store:    source,
		filter:   opts.Filter,
		doc:      dom.New(),
		resume:   -1,
	}

	s.layout = viewport.NewLayout(opts.ViewHeight, opts.Thresholds[0])
	s.observer = viewport.NewObserver(sched, s.layout, opts.Thresholds)
	s.renderer = render.New(sched, s.doc, opts.Render)
	s.players = adapter.New(sched, provider, s.doc, s.observer.Current)
	s.manager = lifecycle.NewManager(opts.Window, s.players, s.doc, s.observer.Current)
	s.net = safetynet.New(sched, opts.Grace, s.players, s.layout, s.observer.Current)

	s.observer.OnPause(s.onPause)
	s.observer.OnCurrent(s.onCurrent)
	s.players.OnReady = s.onPlayerReady

	return s
}

// Start loads the player API and mounts the feed.
func (s *Session) Start() {
	if s.started {
		return
	}
	s.started = true

	s.provider.Bootstrap(func() {
		s.sched.Post(s.onAPIReady)
	})
	s.Mount()
}

// Mount renders the filtered feed from the top.
func (s *Session) Mount() {
	if s.mounted {
		s.Teardown()
	}
	s.mounted = true
	s.mounts++

	s.store = s.source.Filter(s.filter)
	s.manager.SetItems(s.store)

	s.layout.SetCount(0)
	s.layout.ScrollTo(0)
	s.observer.Connect(nil)

	log.WithFields(log.Fields{"items": s.store.Len(), "filter": s.filter.Collection}).Info("mounting feed")
	s.renderer.Render(s.store.All(), s.onBatch)
	s.net.Arm()
}

// Teardown releases every player and clears the feed. It leaves the
// session ready for a new Mount.
func (s *Session) Teardown() {
	if !s.mounted {
		return
	}
	s.mounted = false

	s.renderer.Cancel()
	s.net.Cancel()
	s.observer.Disconnect()
	s.players.DestroyAll()
	s.manager.Reset()
	s.doc.Clear()
	s.layout.SetCount(0)
	s.resume = -1

	log.Info("feed torn down")
}

// Rebuild applies a new filter: teardown, then mount from the top.
func (s *Session) Rebuild(filter feed.Filter) {
	s.filter = filter
	s.Mount()
}

// Filter returns the active filter.
func (s *Session) Filter() feed.Filter {
	return s.filter
}

// Store returns the items currently mounted.
func (s *Session) Store() *feed.Store {
	return s.store
}

// Source returns the unfiltered items.
func (s *Session) Source() *feed.Store {
	return s.source
}

// ScrollBy scrolls by a fraction of an item.
func (s *Session) ScrollBy(items float64) {
	s.layout.ScrollBy(items * s.layout.ItemHeight())
}

// ScrollToIndex snaps to the top of an item.
func (s *Session) ScrollToIndex(index int) {
	s.layout.ScrollToIndex(index)
}

// Next snaps to the item after the nearest one.
func (s *Session) Next() {
	s.layout.ScrollToIndex(s.layout.Nearest() + 1)
}

// Prev snaps to the item before the nearest one.
func (s *Session) Prev() {
	s.layout.ScrollToIndex(s.layout.Nearest() - 1)
}

// ResumeAt scrolls to index as soon as it is rendered.
func (s *Session) ResumeAt(index int) {
	if index <= 0 || index >= s.store.Len() {
		return
	}
	if s.doc.Has(index) {
		s.layout.ScrollToIndex(index)
		return
	}
	s.resume = index
}

// Current returns the current index or viewport.NoCurrent.
func (s *Session) Current() int {
	return s.observer.Current()
}

func (s *Session) onBatch(indices []int) {
	s.layout.SetCount(s.doc.Len())
	s.observer.Observe(indices...)
	s.manager.Recompute()

	if s.resume >= 0 && s.doc.Has(s.resume) {
		s.layout.ScrollToIndex(s.resume)
		s.resume = -1
	}
}

func (s *Session) onPause(index int) {
	s.players.Pause(index)
}

func (s *Session) onCurrent(index int) {
	log.WithIndex(index).Debug("now current")
	s.players.PauseAllExcept(index)
	s.manager.Recompute()
	s.players.Play(index)
	s.net.Arm()
}

// onPlayerReady gives a player that became ready after the last check its
// own grace period.
func (s *Session) onPlayerReady(index int) {
	if index == s.observer.Current() {
		s.net.Arm()
	}
}

func (s *Session) onAPIReady() {
	if s.apiReady {
		return
	}
	s.apiReady = true
	s.manager.APIReady()
	s.net.Arm()
}
