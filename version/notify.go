package version

import (
	"fmt"

	"github.com/spf13/viper"
	"github.com/tasvirchi/tasvir/color"
	"github.com/tasvirchi/tasvir/constant"
	"github.com/tasvirchi/tasvir/icon"
	"github.com/tasvirchi/tasvir/key"
	"github.com/tasvirchi/tasvir/style"
	"github.com/tasvirchi/tasvir/util"
)

// Notify prints a notice when a newer release exists.
func Notify() {
	if !viper.GetBool(key.CliVersionCheck) {
		return
	}

	erase := util.PrintErasable(fmt.Sprintf("%s Checking if new version is available...", icon.Get(icon.Progress)))
	version, err := Latest()
	erase()
	if err != nil {
		return
	}

	if comp, err := Compare(version, constant.Version); err != nil || comp <= 0 {
		return
	}

	fmt.Printf(`
%s New version is available %s %s
%s

`,
		style.Fg(color.Green)("▇▇▇"),
		style.Bold(version),
		style.Faint(fmt.Sprintf("(You're on %s)", constant.Version)),
		style.Faint(constant.Repository+"/releases/tag/v"+version),
	)
}
