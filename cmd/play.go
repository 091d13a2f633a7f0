package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/AlecAivazis/survey/v2"
	levenshtein "github.com/ka-weihe/fast-levenshtein"
	"github.com/reelfeed/reelfeed/color"
	"github.com/reelfeed/reelfeed/config"
	"github.com/reelfeed/reelfeed/feed"
	"github.com/reelfeed/reelfeed/history"
	"github.com/reelfeed/reelfeed/icon"
	"github.com/reelfeed/reelfeed/player"
	"github.com/reelfeed/reelfeed/style"
	"github.com/reelfeed/reelfeed/tui"
	"github.com/reelfeed/reelfeed/util"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

func addPlayFlags(c *cobra.Command) {
	c.Flags().StringP("collection", "C", "", "Only show reels of this collection (id or name)")
	c.Flags().BoolP("pick", "p", false, "Choose the collection interactively")
	c.Flags().BoolP("continue", "c", false, "Open the feed at the item viewed last time")
	c.Flags().StringP("provider", "P", "", "Player provider to use instead of the configured one")
	c.MarkFlagsMutuallyExclusive("collection", "pick")

	lo.Must0(c.RegisterFlagCompletionFunc("provider", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return player.Available(), cobra.ShellCompDirectiveNoFileComp
	}))
}

func init() {
	rootCmd.AddCommand(playCmd)
	addPlayFlags(playCmd)
}

var playCmd = &cobra.Command{
	Use:   "play <manifest>",
	Short: "Open a manifest in the terminal feed",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		runPlay(cmd, args[0])
	},
}

func runPlay(cmd *cobra.Command, path string) {
	store := loadStore(path)

	settings, err := config.Load()
	handleErr(err)

	if provider := lo.Must(cmd.Flags().GetString("provider")); provider != "" {
		settings.Provider = provider
	}
	checkDependencies(settings.Provider)

	var (
		filter feed.Filter
		chosen = cmd.Flags().Changed("collection") || lo.Must(cmd.Flags().GetBool("pick"))
	)

	switch {
	case cmd.Flags().Changed("collection"):
		collection, err := resolveCollection(store, lo.Must(cmd.Flags().GetString("collection")))
		handleErr(err)
		filter.Collection = collection.ID
	case lo.Must(cmd.Flags().GetBool("pick")):
		filter, err = pickCollection(store)
		handleErr(err)
	}

	var resume int
	if lo.Must(cmd.Flags().GetBool("continue")) {
		if pos, ok := history.Lookup(path).Get(); ok {
			if !chosen {
				filter.Collection = pos.Filter
			}
			if filter.Collection == pos.Filter {
				resume = resumeIndex(store.Filter(filter), pos)
			}
		}
	}

	handleErr(tui.Run(&tui.Options{
		Manifest: path,
		Source:   store,
		Settings: settings,
		Filter:   filter,
		Resume:   resume,
	}))
}

// loadStore reads a manifest and reports the videos it had to skip.
func loadStore(path string) *feed.Store {
	manifest, err := feed.Load(path)
	handleErr(err)

	store, rejected, err := manifest.Store()
	handleErr(err)

	if len(rejected) > 0 {
		_, _ = fmt.Fprintf(os.Stderr, "%s skipped %s, run %s for details\n",
			style.Fg(color.Yellow)(icon.Get(icon.Fail)),
			util.Quantify(len(rejected), "invalid video", "invalid videos"),
			style.Fg(color.Purple)("manifest check"),
		)
	}

	return store
}

func errUnknownCollection(input string, collections []feed.Collection) error {
	if len(collections) == 0 {
		return fmt.Errorf("unknown collection %s, the manifest defines none", style.Fg(color.Red)(input))
	}

	closest := lo.MinBy(collections, func(a, b feed.Collection) bool {
		return levenshtein.Distance(input, a.ID) < levenshtein.Distance(input, b.ID)
	})
	return errors.New(fmt.Sprintf(
		"unknown collection %s, did you mean %s?",
		style.Fg(color.Red)(input),
		style.Fg(color.Yellow)(closest.ID),
	))
}

func resolveCollection(store *feed.Store, input string) (feed.Collection, error) {
	if collection, ok := store.MatchCollection(input).Get(); ok {
		return collection, nil
	}
	return feed.Collection{}, errUnknownCollection(input, store.Collections())
}

func pickCollection(store *feed.Store) (feed.Filter, error) {
	collections := store.Collections()
	if len(collections) == 0 {
		return feed.Filter{}, nil
	}

	options := []string{fmt.Sprintf("All reels (%d)", store.Len())}
	for _, c := range collections {
		options = append(options, collectionLabel(c, store.Count(feed.Filter{Collection: c.ID})))
	}

	prompt := survey.Select{
		Message: "Collection",
		Options: options,
	}

	var choice int
	if err := survey.AskOne(&prompt, &choice); err != nil {
		return feed.Filter{}, err
	}

	if choice == 0 {
		return feed.Filter{}, nil
	}
	return feed.Filter{Collection: collections[choice-1].ID}, nil
}

func collectionLabel(c feed.Collection, count int) string {
	label := c.NameEN
	if label == "" {
		label = c.ID
	}
	if c.Icon != "" {
		label = c.Icon + " " + label
	}
	return fmt.Sprintf("%s (%d)", label, count)
}

// resumeIndex finds the saved item in store, falling back to the saved index
// when the item no longer exists.
func resumeIndex(store *feed.Store, pos history.Position) int {
	if pos.ItemID != "" {
		if _, index, ok := lo.FindIndexOf(store.All(), func(item feed.Item) bool {
			return item.ID == pos.ItemID
		}); ok {
			return index
		}
	}

	if pos.Index > 0 && pos.Index < store.Len() {
		return pos.Index
	}
	return 0
}
