package cmd

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/tasvirchi/tasvir/color"
	"github.com/tasvirchi/tasvir/config"
	"github.com/tasvirchi/tasvir/key"
	"github.com/tasvirchi/tasvir/provider"
	"github.com/tasvirchi/tasvir/style"
	"github.com/tasvirchi/tasvir/util"
)

func init() {
	rootCmd.AddCommand(providersCmd)

	providersCmd.Flags().BoolP("raw", "r", false, "Print only the ids")
	providersCmd.SetOut(os.Stdout)
}

var providersCmd = &cobra.Command{
	Use:   "providers",
	Short: "List the backend families",
	Run: func(cmd *cobra.Command, args []string) {
		families := provider.Builtins()

		if lo.Must(cmd.Flags().GetBool("raw")) {
			for _, f := range families {
				cmd.Println(f.ID)
			}
			return
		}

		envs := config.Envs()
		endpoints := map[string]string{"ovp": envs.OVP.ServiceURL, "ott": envs.OTT.ServiceURL}
		current := viper.GetString(key.ProviderDefault)

		box := lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(style.BorderColor).
			Padding(0, 1)

		for _, f := range families {
			title := style.New().Bold(true).Foreground(style.AccentColor).Render(f.Name)
			if f.ID == current {
				title += " " + style.Fg(color.Green)("(default)")
			}

			cmd.Println(box.Render(lipgloss.JoinVertical(lipgloss.Left,
				title,
				util.Wrap(f.Description, 60),
				style.New().Foreground(style.FaintColor).Render(endpoints[f.ID]),
			)))
		}
	},
}
