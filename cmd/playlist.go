package cmd

import (
	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/spf13/cobra"
	"github.com/tasvirchi/tasvir/inline"
	"github.com/tasvirchi/tasvir/provider"
)

const itemsHelp = `
Items selectors:
  first - first item
  last - last item
  all - every item
  [number] - item by index (starting from 0)
  [from]-[to] - items by range
  @[substring]@ - items whose name contains the substring`

func itemsFlag(cmd *cobra.Command) {
	cmd.Flags().StringP("items", "i", "", "Items to keep, see the selectors below")
}

func withItems(cmd *cobra.Command, options *inline.Options) *inline.Options {
	if items := lo.Must(cmd.Flags().GetString("items")); items != "" {
		filter, err := inline.ParseItemsFilter(items)
		handleErr(err)
		options.Filter = mo.Some(filter)
	}
	return options
}

func init() {
	rootCmd.AddCommand(playlistCmd)
	outputFlags(playlistCmd)
	itemsFlag(playlistCmd)
}

var playlistCmd = &cobra.Command{
	Use:     "playlist [playlist id]",
	Short:   "Fetch the config of a playlist",
	Long:    "Fetch the config of a playlist and every entry in it.\n" + itemsHelp,
	Args:    cobra.ExactArgs(1),
	Example: "  tasvir playlist -P 2452771 0_wckoqjnn --items 0-4 --select hls",
	Run: func(cmd *cobra.Command, args []string) {
		f := newFetcher(cmd)

		config, err := f.Playlist(cmd.Context(), provider.PlaylistInfo{PlaylistID: args[0]})
		handleErr(err)

		handleErr(inline.WritePlaylist(config, withItems(cmd, outputOptions(cmd, f.Family.ID))))
	},
}

func init() {
	rootCmd.AddCommand(entriesCmd)
	outputFlags(entriesCmd)
	itemsFlag(entriesCmd)
}

var entriesCmd = &cobra.Command{
	Use:   "entries [entry id...]",
	Short: "Fetch an ad-hoc playlist of entries in one request",
	Long: `Fetch several entries in a single multirequest and print them as a playlist.

Entries that fail to load are left out.
` + itemsHelp,
	Args:    cobra.MinimumNArgs(1),
	Example: "  tasvir entries -P 2452771 1_abc 1_def 1_ghi --json",
	Run: func(cmd *cobra.Command, args []string) {
		f := newFetcher(cmd)

		config, err := f.EntryList(cmd.Context(), provider.EntryListInfo{
			Entries: lo.Map(args, func(id string, _ int) provider.MediaInfo {
				return provider.MediaInfo{EntryID: id}
			}),
		})
		handleErr(err)

		handleErr(inline.WritePlaylist(config, withItems(cmd, outputOptions(cmd, f.Family.ID))))
	},
}
