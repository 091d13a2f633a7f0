package cmd

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/reelfeed/reelfeed/config"
	"github.com/reelfeed/reelfeed/feed"
	"github.com/reelfeed/reelfeed/loop"
	"github.com/reelfeed/reelfeed/player"
	"github.com/reelfeed/reelfeed/reel"
	"github.com/reelfeed/reelfeed/style"
	"github.com/reelfeed/reelfeed/util"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

const defaultScript = "j j J J @8 k G g"

func init() {
	rootCmd.AddCommand(simulateCmd)

	simulateCmd.Flags().StringP("script", "s", defaultScript, "Steps to run: j k J K g G w @N f=COLLECTION")
	simulateCmd.Flags().DurationP("dwell", "d", time.Second, "Virtual time to let pass after every step")
	simulateCmd.Flags().IntP("items", "n", 20, "Number of synthetic reels when no manifest is given")
	simulateCmd.Flags().StringP("collection", "C", "", "Start filtered to this collection")
}

var simulateCmd = &cobra.Command{
	Use:   "simulate [manifest]",
	Short: "Scroll a feed headlessly on a virtual clock and print what played",
	Long: `Scroll a feed headlessly on a virtual clock and print what played.

The simulated provider is always used, tuned by the sim.* settings, so
unreliable players can be reproduced without a terminal or a network.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		settings, err := config.Load()
		handleErr(err)

		options, err := reel.OptionsFrom(settings)
		handleErr(err)

		var store *feed.Store
		if len(args) == 1 {
			store = loadStore(args[0])
		} else {
			store = syntheticStore(lo.Must(cmd.Flags().GetInt("items")))
		}

		if input := lo.Must(cmd.Flags().GetString("collection")); input != "" {
			collection, err := resolveCollection(store, input)
			handleErr(err)
			options.Filter = feed.Filter{Collection: collection.ID}
		}

		steps, err := reel.ParseScript(lo.Must(cmd.Flags().GetString("script")))
		handleErr(err)

		m := loop.NewManual(time.Time{})
		provider := player.NewSim(m, reel.SimOptionsFrom(settings))
		session := reel.New(m, provider, store, options)

		frames := reel.Play(m, session, steps, lo.Must(cmd.Flags().GetDuration("dwell")))
		cmd.Println(framesTable(frames, util.TerminalWidth(100)))
	},
}

// syntheticStore builds n native reels, every other one in collection "even".
func syntheticStore(n int) *feed.Store {
	items := make([]feed.Item, util.Max(n, 1))
	for i := range items {
		items[i] = feed.Item{
			ID:       fmt.Sprintf("reel-%d", i),
			Kind:     feed.NativeEmbeddable,
			MediaRef: fmt.Sprintf("clip%03d", i),
		}
		if i%2 == 0 {
			items[i].Collections = []string{"even"}
		}
	}

	return feed.NewStore(items, []feed.Collection{
		{ID: "even", NameEN: "Even", Active: true},
	})
}

func framesTable(frames []reel.Frame, width int) string {
	header := []string{"t", "step", "current", "playing", "players", "rendered", "corrective"}

	rows := lo.Map(frames, func(f reel.Frame, _ int) []string {
		snap := f.Snapshot

		playing := "-"
		if h, ok := snap.Playing(); ok {
			playing = fmt.Sprintf("%d %s", h.Index, h.State)
		}

		live := lo.Map(snap.Live(), func(i int, _ int) string { return strconv.Itoa(i) })

		return []string{
			f.At.String(),
			f.Step,
			strconv.Itoa(snap.Current),
			playing,
			fmt.Sprintf("%d/%d [%s]", len(live), snap.Bound, strings.Join(live, " ")),
			fmt.Sprintf("%d/%d", snap.Rendered, snap.Items),
			strconv.Itoa(snap.Corrective),
		}
	})

	headerStyle := style.New().Bold(true).Foreground(style.AccentColor).Padding(0, 1)
	cellStyle := style.New().Padding(0, 1)

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(style.New().Foreground(style.FaintColor)).
		Width(width).
		Headers(header...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		}).
		String()
}
