package cmd

import (
	"encoding/json"
	"os"
	"reflect"

	"github.com/invopop/jsonschema"
	"github.com/reelfeed/reelfeed/color"
	"github.com/reelfeed/reelfeed/feed"
	"github.com/reelfeed/reelfeed/icon"
	"github.com/reelfeed/reelfeed/style"
	"github.com/reelfeed/reelfeed/util"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(manifestCmd)
	manifestCmd.AddCommand(manifestCheckCmd)
	manifestCmd.AddCommand(manifestSchemaCmd)

	manifestCheckCmd.SetOut(os.Stdout)
}

var manifestCmd = &cobra.Command{
	Use:   "manifest",
	Short: "Validate feed manifests and describe their format",
}

var manifestCheckCmd = &cobra.Command{
	Use:   "check <manifest>",
	Short: "Report which videos of a manifest can be shown",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		manifest, err := feed.Load(args[0])
		handleErr(err)

		store, rejected, err := manifest.Store()

		for _, r := range rejected {
			cmd.Printf("%s %s\n", style.Fg(color.Red)(icon.Get(icon.Fail)), r.Error())
		}
		handleErr(err)

		native := lo.CountBy(store.All(), feed.Item.Managed)
		cmd.Printf("%s %s: %d native, %d embedded, %d skipped\n",
			style.Fg(color.Green)(icon.Get(icon.Success)),
			util.Quantify(store.Len(), "video", "videos"),
			native,
			store.Len()-native,
			len(rejected),
		)
		cmd.Printf("%s\n", util.Quantify(len(store.Collections()), "active collection", "active collections"))
	},
}

var manifestSchemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the JSON schema of a manifest",
	Run: func(cmd *cobra.Command, args []string) {
		reflector := new(jsonschema.Reflector)
		reflector.Anonymous = true
		reflector.Namer = func(t reflect.Type) string {
			return "feed." + t.Name()
		}

		handleErr(json.NewEncoder(os.Stdout).Encode(reflector.Reflect(&feed.Manifest{})))
	},
}
