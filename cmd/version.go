package cmd

import (
	"github.com/eggbot/eggbot/internal/ui"
	"github.com/spf13/cobra"
)

var version = "0.3.0"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of eggbot",
	Long:  `All software has versions. This is eggbot's`,
	Run: func(cmd *cobra.Command, args []string) {
		ui.Printfln("%s", version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
