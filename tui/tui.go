// Package tui hosts a playback session in a terminal interface.
package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/reelfeed/reelfeed/config"
	"github.com/reelfeed/reelfeed/feed"
	"github.com/reelfeed/reelfeed/history"
	"github.com/reelfeed/reelfeed/log"
	"github.com/reelfeed/reelfeed/loop"
	"github.com/reelfeed/reelfeed/player"
	"github.com/reelfeed/reelfeed/reel"
)

// refreshInterval is how often the view pulls a snapshot from the loop.
const refreshInterval = 200 * time.Millisecond

// Options configure the terminal interface.
type Options struct {
	// Manifest is the path the feed was loaded from, used to key history.
	Manifest string
	Source   *feed.Store
	Settings config.Settings
	Filter   feed.Filter
	// Resume is the index to open at. Zero starts from the top.
	Resume int
}

// Run mounts the feed and blocks until the user quits.
func Run(options *Options) error {
	sessionOptions, err := reel.OptionsFrom(options.Settings)
	if err != nil {
		return err
	}
	sessionOptions.Filter = options.Filter

	l := loop.New(loop.Options{
		Idle:        options.Settings.Idle,
		IdleTimeout: options.Settings.IdleTimeout,
	})

	provider, err := player.New(options.Settings.Provider, l, reel.SimOptionsFrom(options.Settings))
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		if err := l.Run(ctx); err != nil && ctx.Err() == nil {
			log.Error(err)
		}
	}()

	session := reel.New(l, provider, options.Source, sessionOptions)
	l.Post(func() {
		session.Start()
		session.ResumeAt(options.Resume)
	})

	bubble := newBubble(l, session, options.Source.Collections(), refreshInterval)
	_, runErr := tea.NewProgram(bubble, tea.WithAltScreen()).Run()

	shutdown(l, session, options.Manifest)
	return runErr
}

// shutdown records where the user stopped and releases every player.
func shutdown(h host, session *reel.Session, manifest string) {
	ctx, cancel := context.WithTimeout(context.Background(), callTimeout)
	defer cancel()

	var pos history.Position
	err := h.Call(ctx, func() {
		pos = position(session, manifest)
		session.Teardown()
	})
	if err != nil {
		log.Warnf("could not tear the feed down: %s", err)
		return
	}

	if pos.Index < 0 {
		return
	}
	if err := history.Save(pos); err != nil {
		log.Warnf("could not save position: %s", err)
	}
}

// position describes the current item of session. Index is negative when
// nothing is current.
func position(session *reel.Session, manifest string) history.Position {
	index := session.Current()
	pos := history.Position{
		Manifest: manifest,
		Filter:   session.Filter().Collection,
		Index:    index,
	}

	if item, ok := session.Store().At(index).Get(); ok {
		pos.ItemID = item.ID
	}
	return pos
}

func (b *statefulBubble) Init() tea.Cmd {
	return tea.Batch(b.spinnerC.Tick, b.sync(), b.tick())
}
