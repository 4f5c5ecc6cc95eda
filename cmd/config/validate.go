package config

import (
	"fmt"

	"github.com/eggbot/eggbot/internal/configuration"
	"github.com/eggbot/eggbot/internal/ui"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validates the current configuration",
	Long:  ``,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		loadConfig()

		if err := configuration.Validate(); err != nil {
			return fmt.Errorf("validation failed: %w", err)
		}

		ui.Success("Config looks good! :)")
		return nil
	},
}

func init() {
	Command.AddCommand(validateCmd)
}
