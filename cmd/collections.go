package cmd

import (
	"os"

	"github.com/reelfeed/reelfeed/color"
	"github.com/reelfeed/reelfeed/feed"
	"github.com/reelfeed/reelfeed/style"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(collectionsCmd)
	collectionsCmd.Flags().BoolP("raw", "r", false, "Print only collection ids")
	collectionsCmd.SetOut(os.Stdout)
}

var collectionsCmd = &cobra.Command{
	Use:   "collections <manifest>",
	Short: "List the active collections of a manifest in display order",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		store := loadStore(args[0])
		raw := lo.Must(cmd.Flags().GetBool("raw"))

		for _, c := range store.Collections() {
			if raw {
				cmd.Println(c.ID)
				continue
			}

			count := store.Count(feed.Filter{Collection: c.ID})
			cmd.Printf("%s %s\n", collectionLabel(c, count), style.Fg(color.Yellow)(c.ID))
			if c.NameJA != "" {
				cmd.Println(style.Faint("  " + c.NameJA))
			}
		}
	},
}
