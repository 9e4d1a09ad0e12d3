// Package cmd implements the tasvir command line.
package cmd

import (
	"fmt"
	"os"
	"strings"

	cc "github.com/ivanpirog/coloredcobra"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/tasvirchi/tasvir/auth"
	"github.com/tasvirchi/tasvir/cache"
	"github.com/tasvirchi/tasvir/color"
	"github.com/tasvirchi/tasvir/config"
	"github.com/tasvirchi/tasvir/constant"
	"github.com/tasvirchi/tasvir/fetch"
	"github.com/tasvirchi/tasvir/icon"
	"github.com/tasvirchi/tasvir/key"
	"github.com/tasvirchi/tasvir/log"
	"github.com/tasvirchi/tasvir/provider"
	"github.com/tasvirchi/tasvir/style"
	"github.com/tasvirchi/tasvir/util"
	"github.com/tasvirchi/tasvir/version"
	"github.com/tasvirchi/tasvir/where"
)

func init() {
	rootCmd.Flags().BoolP("version", "v", false, "Print the application version")

	rootCmd.PersistentFlags().StringP("icons", "I", "", "Icons variant")
	lo.Must0(rootCmd.RegisterFlagCompletionFunc("icons", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return icon.AvailableVariants(), cobra.ShellCompDirectiveDefault
	}))
	lo.Must0(viper.BindPFlag(key.IconsVariant, rootCmd.PersistentFlags().Lookup("icons")))

	rootCmd.PersistentFlags().StringP("provider", "p", "", "Backend family to query")
	lo.Must0(rootCmd.RegisterFlagCompletionFunc("provider", completionProviders))
	lo.Must0(viper.BindPFlag(key.ProviderDefault, rootCmd.PersistentFlags().Lookup("provider")))

	rootCmd.PersistentFlags().IntP("partner", "P", 0, "Partner id")
	lo.Must0(viper.BindPFlag(key.SessionPartnerID, rootCmd.PersistentFlags().Lookup("partner")))

	rootCmd.PersistentFlags().Int("ui-conf", 0, "Player configuration id")
	lo.Must0(viper.BindPFlag(key.SessionUIConfID, rootCmd.PersistentFlags().Lookup("ui-conf")))

	rootCmd.PersistentFlags().String("ts", "", "Session ts to use instead of an anonymous session")

	helpFunc := rootCmd.HelpFunc()
	rootCmd.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		helpFunc(cmd, args)
		version.Notify()
	})

	go func() {
		_ = util.Delete(where.Temp())
	}()
}

var rootCmd = &cobra.Command{
	Use:   constant.App,
	Short: "Fetch player-ready media configs from Tasvirchi backends",
	Long: constant.AsciiArtLogo + "\n" +
		style.New().Italic(true).Foreground(color.HiRed).Render("    - Fetch player-ready media configs from Tasvirchi backends"),
	Run: func(cmd *cobra.Command, args []string) {
		if cmd.Flags().Changed("version") {
			versionCmd.Run(versionCmd, args)
			return
		}

		handleErr(cmd.Help())
	},
}

// Execute runs the root command.
func Execute() {
	if viper.GetBool(key.CliColored) {
		cc.Init(&cc.Config{
			RootCmd:       rootCmd,
			Headings:      cc.HiCyan + cc.Bold + cc.Underline,
			Commands:      cc.HiYellow + cc.Bold,
			Example:       cc.Italic,
			ExecName:      cc.Bold,
			Flags:         cc.Bold,
			FlagsDataType: cc.Italic + cc.HiBlue,
		})
	}

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func handleErr(err error) {
	if err != nil {
		log.Error(err)
		_, _ = fmt.Fprintf(os.Stderr, "%s %s\n", icon.Get(icon.Fail), strings.Trim(err.Error(), " \n"))
		os.Exit(1)
	}
}

func completionProviders(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
	return lo.Map(provider.Builtins(), func(f *provider.Family, _ int) string {
		return f.ID
	}), cobra.ShellCompDirectiveNoFileComp
}

// sessionTS returns the --ts flag, or the token stored by login.
func sessionTS(cmd *cobra.Command) string {
	if ts := lo.Must(cmd.Flags().GetString("ts")); ts != "" {
		return ts
	}

	if !viper.GetBool(key.SessionKeyring) {
		return ""
	}

	token, err := auth.Token(viper.GetInt(key.SessionPartnerID))
	if err != nil {
		log.Warnf("reading keyring: %s", err)
		return ""
	}
	return token.OrEmpty()
}

// newFetcher builds a fetcher for the configured family and session.
func newFetcher(cmd *cobra.Command) *fetch.Fetcher {
	name := viper.GetString(key.ProviderDefault)
	family, ok := provider.Get(name)
	if !ok {
		handleErr(fmt.Errorf("unknown provider %q, see %s", name, style.Fg(color.Yellow)(constant.App+" providers")))
	}

	partnerID := viper.GetInt(key.SessionPartnerID)
	if partnerID == 0 {
		handleErr(fmt.Errorf("partner id is not set, pass --partner or run %s", style.Fg(color.Yellow)(constant.App+" config set "+key.SessionPartnerID+" <id>")))
	}

	f := &fetch.Fetcher{
		Family:  family,
		Envs:    config.Envs(),
		Options: config.Options(sessionTS(cmd)),
	}

	if viper.GetBool(key.CacheEnable) {
		f.Cache = cache.New(where.MediaConfigs(), viper.GetDuration(key.CacheTTL))
	}

	return f
}
