package cmd

import (
	"errors"
	"io"
	"os"

	"github.com/AlecAivazis/survey/v2"
	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/spf13/cobra"
	"github.com/tasvirchi/tasvir/filesystem"
	"github.com/tasvirchi/tasvir/icon"
	"github.com/tasvirchi/tasvir/inline"
	"github.com/tasvirchi/tasvir/provider"
	"github.com/tasvirchi/tasvir/util"
)

// outputFlags are shared by the commands that print configs.
func outputFlags(cmd *cobra.Command) {
	cmd.Flags().BoolP("json", "j", false, "Print JSON instead of source URLs")
	cmd.Flags().StringP("select", "s", "all", "Sources to print: hls, dash, progressive, all or best")
	cmd.Flags().StringP("output", "o", "", "Write to a file instead of stdout")
	lo.Must0(cmd.RegisterFlagCompletionFunc("select", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return []string{"hls", "dash", "progressive", "all", "best"}, cobra.ShellCompDirectiveNoFileComp
	}))
}

func outputOptions(cmd *cobra.Command, family string) *inline.Options {
	picker, err := inline.ParseSourcePicker(lo.Must(cmd.Flags().GetString("select")))
	handleErr(err)

	var out io.Writer = os.Stdout
	if path := lo.Must(cmd.Flags().GetString("output")); path != "" {
		file, err := filesystem.API().Create(path)
		handleErr(err)
		out = file
	}

	return &inline.Options{
		Out:      out,
		Json:     lo.Must(cmd.Flags().GetBool("json")),
		Provider: family,
		Picker:   mo.Some(picker),
	}
}

func init() {
	rootCmd.AddCommand(mediaCmd)

	outputFlags(mediaCmd)
	mediaCmd.Flags().StringSliceP("reference", "r", nil, "Load entries by reference id")
	mediaCmd.Flags().Bool("redirect", false, "Follow the redirect entry of live entries")

	mediaCmd.Flags().String("media-type", "", "OTT asset type: media, epg or recording")
	mediaCmd.Flags().String("context-type", "", "OTT playback context: PLAYBACK, CATCHUP or START_OVER")
	mediaCmd.Flags().String("asset-reference-type", "", "OTT asset reference type")
	mediaCmd.Flags().String("protocol", "", "OTT URL protocol")
	mediaCmd.Flags().String("url-type", "", "OTT URL type")
	mediaCmd.Flags().String("streamer-type", "", "OTT streamer type")
	mediaCmd.Flags().String("file-ids", "", "OTT file ids, comma separated")
	mediaCmd.Flags().StringSlice("formats", nil, "Keep only these OTT file formats")
}

var mediaCmd = &cobra.Command{
	Use:   "media [entry id...]",
	Short: "Fetch the media config of one or more entries",
	Long: `Fetch the media config of one or more entries.

Every entry is loaded on its own. A failed entry is reported and the others are still printed.`,
	Example: "  tasvir media -P 2452771 1_abc 1_def --select best\n  tasvir media -p ott -P 3009 --media-type epg --context-type CATCHUP 421",
	Run: func(cmd *cobra.Command, args []string) {
		references := lo.Must(cmd.Flags().GetStringSlice("reference"))

		if len(args) == 0 && len(references) == 0 {
			if !util.IsTerminal() {
				handleErr(errors.New("no entry given"))
			}

			var id string
			handleErr(survey.AskOne(&survey.Input{Message: "Entry id"}, &id, survey.WithValidator(survey.Required)))
			args = []string{id}
		}

		base := provider.MediaInfo{
			RedirectFromEntryID: lo.Must(cmd.Flags().GetBool("redirect")),
			MediaType:           lo.Must(cmd.Flags().GetString("media-type")),
			ContextType:         lo.Must(cmd.Flags().GetString("context-type")),
			AssetReferenceType:  lo.Must(cmd.Flags().GetString("asset-reference-type")),
			Protocol:            lo.Must(cmd.Flags().GetString("protocol")),
			URLType:             lo.Must(cmd.Flags().GetString("url-type")),
			StreamerType:        lo.Must(cmd.Flags().GetString("streamer-type")),
			FileIDs:             lo.Must(cmd.Flags().GetString("file-ids")),
			Formats:             lo.Must(cmd.Flags().GetStringSlice("formats")),
		}

		infos := lo.Map(args, func(id string, _ int) provider.MediaInfo {
			info := base
			info.EntryID = id
			return info
		})
		infos = append(infos, lo.Map(references, func(ref string, _ int) provider.MediaInfo {
			info := base
			info.ReferenceID = ref
			return info
		})...)

		f := newFetcher(cmd)
		options := outputOptions(cmd, f.Family.ID)

		erase := func() {}
		if !options.Json && options.Out != os.Stdout {
			erase = util.PrintErasable(icon.Get(icon.Progress) + " Fetching " + util.Quantify(len(infos), "entry", "entries") + "...")
		}
		results := f.Many(cmd.Context(), infos)
		erase()

		handleErr(inline.WriteMedia(results, options))

		failed := lo.Filter(results, func(r inline.Result, _ int) bool {
			return r.Err != nil
		})
		if len(failed) == len(results) {
			handleErr(failed[0].Err)
		}
	},
}
