package cmd

import (
	"fmt"
	"os"

	"github.com/eggbot/eggbot/cmd/config"
	"github.com/eggbot/eggbot/cmd/global"
	"github.com/eggbot/eggbot/cmd/pid"
	"github.com/eggbot/eggbot/cmd/sensor"
	"github.com/eggbot/eggbot/cmd/simulate"
	"github.com/eggbot/eggbot/internal"
	"github.com/eggbot/eggbot/internal/configuration"
	"github.com/eggbot/eggbot/internal/ui"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "eggbot",
	Short: "A daemon to control the temperature of a kamado style cooker.",
	Long: `eggbot reads the temperature of a cooker through an NTC thermistor
and drives the damper of its blower using a PID controller.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		setupUi()
	},
	// this is the default command to run when no subcommand is specified
	Run: func(cmd *cobra.Command, args []string) {
		printHeader()

		configPath := configuration.DetectAndReadConfigFile()
		ui.Info("Using configuration file at: %s", configPath)
		configuration.LoadConfig()
		err := configuration.Validate()
		if err != nil {
			ui.ErrorAndNotify("Config Validation Error", "%v", err)
			os.Exit(1)
		}

		internal.RunDaemon()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&global.CfgFile, "config", "c", "", "config file (default is $HOME/eggbot.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&global.NoColor, "no-color", "", false, "Disable all terminal output coloration")
	rootCmd.PersistentFlags().BoolVarP(&global.NoStyle, "no-style", "", false, "Disable all terminal output styling")
	rootCmd.PersistentFlags().BoolVarP(&global.Verbose, "verbose", "v", false, "More verbose output")

	rootCmd.AddCommand(config.Command)
	rootCmd.AddCommand(sensor.Command)
	rootCmd.AddCommand(pid.Command)
	rootCmd.AddCommand(simulate.Command)
}

func setupUi() {
	ui.SetDebugEnabled(global.Verbose)

	if global.NoColor {
		pterm.DisableColor()
	}
	if global.NoStyle {
		pterm.DisableStyling()
	}
}

// Print a large text with the LetterStyle from the standard theme.
func printHeader() {
	err := pterm.DefaultBigText.WithLetters(
		pterm.NewLettersFromStringWithStyle("egg", pterm.NewStyle(pterm.FgLightGreen)),
		pterm.NewLettersFromStringWithStyle("bot", pterm.NewStyle(pterm.FgWhite)),
	).Render()
	if err != nil {
		fmt.Println("eggbot")
	}
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	cobra.OnInitialize(func() {
		configuration.InitConfig(global.CfgFile)
	})

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
