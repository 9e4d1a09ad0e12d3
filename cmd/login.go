package cmd

import (
	"errors"
	"fmt"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/tasvirchi/tasvir/auth"
	"github.com/tasvirchi/tasvir/color"
	"github.com/tasvirchi/tasvir/icon"
	"github.com/tasvirchi/tasvir/key"
	"github.com/tasvirchi/tasvir/style"
	"github.com/tasvirchi/tasvir/util"
)

func partnerID() int {
	id := viper.GetInt(key.SessionPartnerID)
	if id == 0 {
		handleErr(errors.New("partner id is not set, pass --partner"))
	}
	return id
}

func init() {
	rootCmd.AddCommand(loginCmd)
}

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Store a session ts in the system keyring",
	Long: `Store a session ts in the system keyring.

The stored ts is used for the partner whenever --ts is not given.
Pass it with --ts or type it when prompted.`,
	Run: func(cmd *cobra.Command, args []string) {
		id := partnerID()

		ts, _ := cmd.Flags().GetString("ts")
		if ts == "" {
			if !util.IsTerminal() {
				handleErr(errors.New("no ts given"))
			}
			handleErr(survey.AskOne(&survey.Password{
				Message: fmt.Sprintf("Session ts for partner %d", id),
			}, &ts, survey.WithValidator(survey.Required)))
		}

		handleErr(auth.SetToken(id, ts))
		fmt.Printf("%s stored the ts of partner %s\n",
			style.Fg(color.Green)(icon.Get(icon.Lock)),
			style.Fg(color.Purple)(fmt.Sprint(id)),
		)
	},
}

func init() {
	rootCmd.AddCommand(logoutCmd)
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Remove the stored session ts of a partner",
	Run: func(cmd *cobra.Command, args []string) {
		id := partnerID()

		confirm := true
		if util.IsTerminal() {
			handleErr(survey.AskOne(&survey.Confirm{
				Message: fmt.Sprintf("Remove the ts of partner %d?", id),
				Default: true,
			}, &confirm))
		}
		if !confirm {
			return
		}

		handleErr(auth.DeleteToken(id))
		fmt.Printf("%s removed the ts of partner %s\n",
			style.Fg(color.Green)(icon.Get(icon.Success)),
			style.Fg(color.Purple)(fmt.Sprint(id)),
		)
	},
}
