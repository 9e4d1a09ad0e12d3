package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/tasvirchi/tasvir/inline"
)

func init() {
	rootCmd.AddCommand(schemaCmd)
}

var schemaCmd = &cobra.Command{
	Use:       "schema [" + strings.Join(inline.SchemaTargets, "|") + "]",
	Short:     "Print the JSON schema of the --json output",
	Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
	ValidArgs: inline.SchemaTargets,
	Run: func(cmd *cobra.Command, args []string) {
		target := "output"
		if len(args) == 1 {
			target = args[0]
		}

		schema, err := inline.Schema(target)
		handleErr(err)

		data, err := json.MarshalIndent(schema, "", "  ")
		handleErr(err)

		fmt.Println(string(data))
	},
}
