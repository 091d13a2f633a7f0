package cmd

import (
	"fmt"

	"github.com/reelfeed/reelfeed/filesystem"
	"github.com/reelfeed/reelfeed/icon"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(clearCmd)

	for _, l := range lo.Filter(locations, func(l location, _ int) bool { return l.clearable }) {
		short, _ := l.short.Get()
		clearCmd.Flags().BoolP(l.flag, short, false, "clear "+l.name)
	}
}

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove saved positions and cached files",
	Run: func(cmd *cobra.Command, args []string) {
		var cleared int

		for _, l := range locations {
			if !l.clearable || !lo.Must(cmd.Flags().GetBool(l.flag)) {
				continue
			}

			handleErr(filesystem.API().RemoveAll(l.path()))
			fmt.Printf("%s %s cleared\n", icon.Get(icon.Success), l.name)
			cleared++
		}

		if cleared == 0 {
			handleErr(cmd.Help())
		}
	},
}
