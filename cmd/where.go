package cmd

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/reelfeed/reelfeed/color"
	"github.com/reelfeed/reelfeed/style"
	"github.com/reelfeed/reelfeed/where"
	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/spf13/cobra"
)

// location is a directory or file reelfeed writes to.
type location struct {
	name   string
	path   func() string
	flag   string
	short  mo.Option[string]
	hidden bool

	// clearable locations can be removed with `clear`.
	clearable bool
}

var locations = []location{
	{name: "config", path: where.Config, flag: "config", short: mo.Some("c")},
	{name: "logs", path: where.Logs, flag: "logs", short: mo.Some("l")},
	{name: "positions", path: where.History, flag: "history", short: mo.Some("s"), clearable: true},
	{name: "cache", path: where.Cache, flag: "cache", short: mo.None[string](), hidden: true, clearable: true},
	{name: "mpv sockets", path: where.Sockets, flag: "sockets", short: mo.None[string](), hidden: true, clearable: true},
}

func init() {
	rootCmd.AddCommand(whereCmd)

	for _, l := range locations {
		short, _ := l.short.Get()
		whereCmd.Flags().BoolP(l.flag, short, false, "print only the "+l.name+" path")
		if l.hidden {
			lo.Must0(whereCmd.Flags().MarkHidden(l.flag))
		}
	}

	whereCmd.MarkFlagsMutuallyExclusive(lo.Map(locations, func(l location, _ int) string {
		return l.flag
	})...)

	whereCmd.SetOut(os.Stdout)
}

var whereCmd = &cobra.Command{
	Use:   "where",
	Short: "Show where configuration, logs and saved positions are kept",
	Run: func(cmd *cobra.Command, args []string) {
		for _, l := range locations {
			if lo.Must(cmd.Flags().GetBool(l.flag)) {
				cmd.Println(l.path())
				return
			}
		}

		cmd.Println(locationsTable(lo.Reject(locations, func(l location, _ int) bool {
			return l.hidden
		})))
	},
}

func locationsTable(shown []location) string {
	rows := lo.Map(shown, func(l location, _ int) []string {
		return []string{l.name, "--" + l.flag, l.path()}
	})

	return table.New().
		Border(lipgloss.HiddenBorder()).
		Rows(rows...).
		StyleFunc(func(_, col int) lipgloss.Style {
			switch col {
			case 0:
				return style.New().Bold(true).Foreground(color.HiPurple).PaddingRight(1)
			case 1:
				return style.New().Foreground(color.Yellow).PaddingRight(1)
			default:
				return style.New()
			}
		}).
		String()
}
