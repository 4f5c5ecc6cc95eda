package config

import (
	"github.com/eggbot/eggbot/internal/configuration"
	"github.com/eggbot/eggbot/internal/ui"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var printCmd = &cobra.Command{
	Use:   "print",
	Short: "Prints the effective configuration, including defaults",
	Long:  ``,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		loadConfig()

		out, err := marshalConfig(configuration.CurrentConfig)
		if err != nil {
			return err
		}
		ui.Printf("%s", out)
		return nil
	},
}

func marshalConfig(config configuration.Configuration) (string, error) {
	out, err := yaml.Marshal(config)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

func init() {
	Command.AddCommand(printCmd)
}
