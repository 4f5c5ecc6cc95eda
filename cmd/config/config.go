package config

import (
	"github.com/eggbot/eggbot/internal/configuration"
	"github.com/eggbot/eggbot/internal/ui"
	"github.com/spf13/cobra"
)

var Command = &cobra.Command{
	Use:              "config",
	Short:            "Configuration related commands",
	Long:             ``,
	TraverseChildren: true,
}

func loadConfig() {
	// note: config file path parameter comes from the root command (-c)
	configPath := configuration.DetectAndReadConfigFile()
	ui.Info("Using configuration file at: %s", configPath)
	configuration.LoadConfig()
}
