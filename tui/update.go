package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/reelfeed/reelfeed/feed"
	"github.com/reelfeed/reelfeed/internal/ui"
	"github.com/reelfeed/reelfeed/reel"
)

type tickMsg time.Time

type snapshotMsg struct {
	snapshot reel.Snapshot
	store    *feed.Store
	note     string
}

func (b *statefulBubble) tick() tea.Cmd {
	return tea.Tick(b.refresh, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// do runs fn on the loop and answers with a fresh snapshot. fn may return a
// notification.
func (b *statefulBubble) do(fn func(s *reel.Session) string) tea.Cmd {
	return func() tea.Msg {
		var msg snapshotMsg

		ctx, cancel := context.WithTimeout(context.Background(), callTimeout)
		defer cancel()

		err := b.host.Call(ctx, func() {
			if fn != nil {
				msg.note = fn(b.session)
			}
			msg.snapshot = b.session.Snapshot()
			msg.store = b.session.Store()
		})
		if err != nil {
			return fmt.Errorf("event loop unresponsive: %w", err)
		}
		return msg
	}
}

func (b *statefulBubble) sync() tea.Cmd {
	return b.do(nil)
}

func (b *statefulBubble) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	if cmd := b.notifier.Update(msg); cmd != nil {
		cmds = append(cmds, cmd)
	}

	switch msg := msg.(type) {
	case error:
		b.raiseError(msg)
		return b, tea.Batch(cmds...)
	case tea.WindowSizeMsg:
		b.resize(msg.Width, msg.Height)
	case tickMsg:
		cmds = append(cmds, b.sync(), b.tick())
	case spinner.TickMsg:
		var cmd tea.Cmd
		b.spinnerC, cmd = b.spinnerC.Update(msg)
		cmds = append(cmds, cmd)
	case snapshotMsg:
		b.snapshot = msg.snapshot
		b.store = msg.store
		b.synced = true
		if b.state == loadingState {
			b.setState(feedState)
		}
		if msg.note != "" {
			cmds = append(cmds, ui.Notify(msg.note))
		}
	case tea.KeyMsg:
		if key.Matches(msg, b.keymap.forceQuit) {
			return b, tea.Quit
		}

		var cmd tea.Cmd
		switch b.state {
		case feedState:
			cmd = b.updateFeed(msg)
		case filterState:
			cmd = b.updateFilter(msg)
		case errorState:
			cmd = b.updateError(msg)
		}
		cmds = append(cmds, cmd)
	}

	return b, tea.Batch(cmds...)
}

func (b *statefulBubble) updateFeed(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, b.keymap.quit):
		return tea.Quit
	case key.Matches(msg, b.keymap.next):
		return b.do(func(s *reel.Session) string { s.Next(); return "" })
	case key.Matches(msg, b.keymap.prev):
		return b.do(func(s *reel.Session) string { s.Prev(); return "" })
	case key.Matches(msg, b.keymap.halfDown):
		return b.do(func(s *reel.Session) string { s.ScrollBy(0.5); return "" })
	case key.Matches(msg, b.keymap.halfUp):
		return b.do(func(s *reel.Session) string { s.ScrollBy(-0.5); return "" })
	case key.Matches(msg, b.keymap.top):
		return b.do(func(s *reel.Session) string { s.ScrollToIndex(0); return "" })
	case key.Matches(msg, b.keymap.bottom):
		return b.do(func(s *reel.Session) string { s.ScrollToIndex(s.Store().Len() - 1); return "" })
	case key.Matches(msg, b.keymap.filter):
		b.setState(filterState)
		b.inputC.SetValue("")
		b.inputC.Focus()
		return textinput.Blink
	case key.Matches(msg, b.keymap.clearFilter):
		if b.snapshot.Filter == "" {
			return nil
		}
		return b.do(func(s *reel.Session) string {
			s.Rebuild(feed.Filter{})
			return "showing every reel"
		})
	case key.Matches(msg, b.keymap.openURL):
		return b.openCurrent()
	case key.Matches(msg, b.keymap.showHelp):
		b.helpC.ShowAll = !b.helpC.ShowAll
	}

	return nil
}

// openCurrent hands the current reel to the system browser.
func (b *statefulBubble) openCurrent() tea.Cmd {
	if b.store == nil {
		return nil
	}

	item, ok := b.store.At(b.snapshot.Current).Get()
	if !ok {
		return nil
	}

	target := item.WatchURL()
	return func() tea.Msg {
		if err := b.opener(target); err != nil {
			return ui.NotificationMsg(fmt.Sprintf("could not open %s: %s", item.ID, err))
		}
		return ui.NotificationMsg("opened " + item.ID)
	}
}

func (b *statefulBubble) updateFilter(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, b.keymap.back):
		b.inputC.Blur()
		b.setState(feedState)
		return nil
	case key.Matches(msg, b.keymap.confirm):
		query := strings.TrimSpace(b.inputC.Value())
		b.inputC.Blur()
		b.setState(feedState)
		if query == "" {
			return nil
		}
		return b.do(func(s *reel.Session) string {
			return applyCollection(s, query)
		})
	}

	var cmd tea.Cmd
	b.inputC, cmd = b.inputC.Update(msg)
	return cmd
}

func (b *statefulBubble) updateError(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, b.keymap.quit):
		return tea.Quit
	case key.Matches(msg, b.keymap.back):
		b.lastError = nil
		b.setState(feedState)
		return b.sync()
	}
	return nil
}

// applyCollection rebuilds the session filtered to the collection matching
// query. It runs on the loop.
func applyCollection(s *reel.Session, query string) string {
	collection, ok := s.Source().MatchCollection(query).Get()
	if !ok {
		return fmt.Sprintf("no collection matches %q", query)
	}

	filter := feed.Filter{Collection: collection.ID}
	count := s.Source().Count(filter)
	if count == 0 {
		return fmt.Sprintf("%s has no reels", collection.NameEN)
	}

	s.Rebuild(filter)
	return fmt.Sprintf("showing %s", collection.NameEN)
}
