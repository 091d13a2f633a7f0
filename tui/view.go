package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wrap"
	"github.com/reelfeed/reelfeed/adapter"
	"github.com/reelfeed/reelfeed/color"
	"github.com/reelfeed/reelfeed/feed"
	"github.com/reelfeed/reelfeed/icon"
	"github.com/reelfeed/reelfeed/player"
	"github.com/reelfeed/reelfeed/style"
	"github.com/reelfeed/reelfeed/util"
)

var paddingStyle = lipgloss.NewStyle().Padding(1, 2)

// chrome is the number of lines around the reel list: title, blank line,
// blank line, status, help.
const chrome = 5

func (b *statefulBubble) View() string {
	var output string

	switch b.state {
	case loadingState:
		output = b.viewLoading()
	case feedState:
		output = b.viewFeed()
	case filterState:
		output = b.viewFilter()
	case errorState:
		output = b.viewError()
	default:
		output = "Unknown state"
	}

	return b.notifier.View(output)
}

func (b *statefulBubble) viewLoading() string {
	return b.renderLines(true, []string{
		style.Title("Reelfeed"),
		"",
		b.spinnerC.View() + " mounting feed",
	})
}

func (b *statefulBubble) viewFeed() string {
	lines := []string{b.title(), ""}
	lines = append(lines, b.rows(b.visibleRows())...)
	lines = append(lines, "", b.status())

	return b.renderLines(true, lines)
}

func (b *statefulBubble) viewFilter() string {
	lines := []string{
		style.Title("Collection"),
		"",
		b.inputC.View(),
		"",
	}

	for _, c := range b.collections {
		lines = append(lines, style.Faint(strings.TrimSpace(fmt.Sprintf("%s %s  %s", c.Icon, c.NameEN, c.ID))))
	}

	return b.renderLines(true, lines)
}

func (b *statefulBubble) viewError() string {
	errorMsg := wrap.String(style.Fg(color.Red)(b.lastError.Error()), b.width)
	return b.renderLines(true, []string{
		style.ErrorTitle("Error"),
		"",
		icon.Get(icon.Fail) + " Something went wrong",
		"",
		errorMsg,
	})
}

func (b *statefulBubble) title() string {
	t := style.Title("Reelfeed")
	if b.snapshot.Filter != "" {
		t += " " + style.Tag(style.Text, style.Surface)(b.snapshot.Filter)
	}
	return t + " " + style.Faint(util.Quantify(b.snapshot.Items, "reel", "reels"))
}

func (b *statefulBubble) status() string {
	snap := b.snapshot

	var head string
	if snap.APIReady {
		head = icon.Get(icon.Success) + " player api ready"
	} else {
		head = b.spinnerC.View() + " loading player api"
	}

	if snap.Rendering {
		head += style.Faint(fmt.Sprintf(" · rendered %d/%d", snap.Rendered, snap.Items))
	}

	counters := style.Faint(fmt.Sprintf(
		"players %d/%d · plays %d · pauses %d · failed %d · corrective %d",
		len(snap.Handles), snap.Bound,
		snap.Stats.Plays, snap.Stats.Pauses, snap.Stats.Failed,
		snap.Corrective,
	))

	return head + "  " + counters
}

// visibleRows returns the indices to list, centered on the current item.
func (b *statefulBubble) visibleRows() []int {
	rendered := b.snapshot.Rendered
	if rendered == 0 {
		return nil
	}

	room := util.Max(b.height-chrome, 1)
	center := b.snapshot.Current
	if center < 0 {
		center = b.snapshot.Nearest
	}

	first := util.Clamp(center-room/2, 0, util.Max(rendered-room, 0))
	last := util.Min(first+room, rendered)

	indices := make([]int, 0, last-first)
	for i := first; i < last; i++ {
		indices = append(indices, i)
	}
	return indices
}

func (b *statefulBubble) rows(indices []int) []string {
	handles := make(map[int]adapter.HandleInfo, len(b.snapshot.Handles))
	for _, h := range b.snapshot.Handles {
		handles[h.Index] = h
	}

	lines := make([]string, len(indices))
	for n, index := range indices {
		var item feed.Item
		if b.store != nil {
			item = b.store.At(index).OrEmpty()
		}

		h, live := handles[index]
		lines[n] = b.row(index, item, rowIcon(item, h, live))
	}
	return lines
}

func (b *statefulBubble) row(index int, item feed.Item, symbol string) string {
	cursor := "  "
	render := func(s string) string { return s }
	if index == b.snapshot.Current {
		cursor = style.Fg(style.AccentColor)("▌ ")
		render = style.Fg(style.AccentColor)
	}

	tags := strings.Join(item.Collections, ",")
	line := fmt.Sprintf("%3d %s %s", index, symbol, render(item.MediaRef))
	if tags != "" {
		line += "  " + style.Faint(tags)
	}

	return cursor + style.Truncate(b.width-2)(line)
}

// rowIcon picks the symbol describing an item's player.
func rowIcon(item feed.Item, h adapter.HandleInfo, live bool) string {
	switch {
	case !item.Managed():
		return icon.Get(icon.Embed)
	case !live:
		return icon.Get(icon.Placeholder)
	case h.Readiness != adapter.Ready:
		return icon.Get(icon.Loading)
	case h.State == player.StatePlaying:
		return icon.Get(icon.Playing)
	case h.State == player.StateBuffering:
		return icon.Get(icon.Progress)
	default:
		return icon.Get(icon.Paused)
	}
}

func (b *statefulBubble) renderLines(addHelp bool, lines []string) string {
	if addHelp {
		lines = append(lines, b.helpC.View(b.keymap))
	}
	return paddingStyle.Render(strings.Join(lines, "\n"))
}
