package sensor

import (
	"bytes"
	"fmt"
	"math"

	"github.com/eggbot/eggbot/cmd/global"
	"github.com/eggbot/eggbot/internal/configuration"
	"github.com/eggbot/eggbot/internal/sensors"
	"github.com/eggbot/eggbot/internal/thermistor"
	"github.com/eggbot/eggbot/internal/ui"
	"github.com/mgutz/ansi"
	"github.com/spf13/cobra"
	"github.com/tomlazar/table"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Read all configured sensors once and print the result as a table",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		loadConfig()

		var rows [][]string
		for _, config := range configuration.CurrentConfig.Sensors {
			sensor, err := sensors.NewSensor(config, 1)
			if err != nil {
				return err
			}
			rows = append(rows, sensorRow(config, sensor))
		}

		return printTable([]string{"ID", "Channel", "Source", "Model", "Raw", "Temperature", "Status"}, rows)
	},
}

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "Print the known thermistor models and their Steinhart-Hart coefficients",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		var rows [][]string
		for _, name := range modelNames() {
			c := thermistor.Models[name]
			r25, _ := c.ResistanceFromCelsius(25)
			rows = append(rows, []string{
				name,
				fmt.Sprintf("%.9g", c.A),
				fmt.Sprintf("%.9g", c.B),
				fmt.Sprintf("%.9g", c.C),
				fmt.Sprintf("%.0fΩ", r25),
			})
		}
		return printTable([]string{"Model", "A", "B", "C", "R @ 25°C"}, rows)
	},
}

func sensorRow(config configuration.SensorConfig, sensor sensors.Sensor) []string {
	raw := "-"
	if s, ok := sensor.(*sensors.ThermistorSensor); ok {
		raw = fmt.Sprintf("%d", s.ReadRaw())
	}

	value, err := sensor.GetValue()
	temperature := "-"
	status := "ok"
	if err != nil {
		status = err.Error()
	}
	if !math.IsNaN(value) {
		temperature = fmt.Sprintf("%.2f°C", value)
	}

	model := config.Thermistor.Model
	if config.Thermistor.Coefficients != nil {
		model = "custom"
	} else if len(model) <= 0 {
		model = thermistor.Model10k3950
	}

	return []string{config.ID, fmt.Sprintf("%d", config.Channel), sourceType(config.Source), model, raw, temperature, status}
}

func sourceType(source configuration.SourceConfig) string {
	switch {
	case source.File != nil:
		return "file"
	case source.Cmd != nil:
		return "cmd"
	case source.Simulated != nil:
		return "simulated"
	default:
		return "unknown"
	}
}

func printTable(headers []string, rows [][]string) error {
	tab := table.Table{
		Headers: headers,
		Rows:    rows,
	}
	var buf bytes.Buffer
	err := tab.WriteTable(&buf, &table.Config{
		ShowIndex:       false,
		Color:           !global.NoColor,
		AlternateColors: true,
		TitleColorCode:  ansi.ColorCode("white+buf"),
		AltColorCodes: []string{
			ansi.ColorCode("white"),
			ansi.ColorCode("white:236"),
		},
	})
	if err != nil {
		return err
	}
	ui.Printfln("%s", buf.String())
	return nil
}

func init() {
	Command.AddCommand(listCmd)
	Command.AddCommand(modelsCmd)
}
