package sensor

import (
	"fmt"

	"github.com/eggbot/eggbot/internal/configuration"
	"github.com/eggbot/eggbot/internal/sensors"
	"github.com/eggbot/eggbot/internal/thermistor"
	"github.com/eggbot/eggbot/internal/ui"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var sensorId string
var fahrenheit bool

var Command = &cobra.Command{
	Use:              "sensor",
	Short:            "Sensor related commands",
	Long:             `Reads the sensor with the given id once and prints its temperature`,
	TraverseChildren: true,
	Args:             cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(sensorId) <= 0 {
			return cmd.Help()
		}
		pterm.DisableOutput()

		loadConfig()
		sensor, err := getSensor(sensorId)
		if err != nil {
			return err
		}

		value, err := sensor.GetValue()
		if err != nil {
			return err
		}
		fmt.Println(formatValue(value, fahrenheit))
		return nil
	},
}

func formatValue(celsius float64, fahrenheit bool) string {
	if fahrenheit {
		celsius = thermistor.CelsiusToFahrenheit(celsius)
	}
	return fmt.Sprintf("%.2f", celsius)
}

func init() {
	Command.PersistentFlags().StringVarP(
		&sensorId,
		"id", "i",
		"",
		"Sensor ID as specified in the config",
	)
	Command.Flags().BoolVarP(&fahrenheit, "fahrenheit", "f", false, "Print the temperature in °F")
}

func loadConfig() {
	configPath := configuration.DetectAndReadConfigFile()
	ui.Info("Using configuration file at: %s", configPath)
	configuration.LoadConfig()
	err := configuration.Validate()
	if err != nil {
		ui.FatalWithoutStacktrace("%v", err)
	}
}

func getSensor(id string) (sensors.Sensor, error) {
	availableSensorIds := []string{}
	for _, config := range configuration.CurrentConfig.Sensors {
		availableSensorIds = append(availableSensorIds, config.ID)
		if config.ID == id {
			return sensors.NewSensor(config, configuration.CurrentConfig.SensorRollingWindowSize)
		}
	}

	return nil, fmt.Errorf("no sensor with id found: %s, options: %s", id, availableSensorIds)
}
