// Package analog provides the sources raw ADC samples are read from.
package analog

import (
	"fmt"

	"github.com/eggbot/eggbot/internal/configuration"
	"github.com/eggbot/eggbot/internal/simulation"
	"github.com/eggbot/eggbot/internal/thermistor"
)

// NewSource creates the analog source described by the given sensor configuration.
// Simulated sources register their plant in simulation.PlantMap.
func NewSource(config configuration.SensorConfig) (thermistor.AnalogSource, error) {
	source := config.Source

	if source.File != nil {
		return &FileSource{
			Path: source.File.Path,
		}, nil
	}

	if source.Cmd != nil {
		return &CmdSource{
			Exec: source.Cmd.Exec,
			Args: source.Cmd.Args,
		}, nil
	}

	if source.Simulated != nil {
		params, err := config.Thermistor.Params()
		if err != nil {
			return nil, fmt.Errorf("sensor %s: %w", config.ID, err)
		}
		plant := simulation.NewPlant(plantParams(*source.Simulated))
		simulation.PlantMap.Set(config.ID, plant)
		return NewSimulatedSource(plant, params, source.Simulated.Noise), nil
	}

	return nil, fmt.Errorf("no matching source type for sensor: %s", config.ID)
}

func plantParams(config configuration.SimulatedSourceConfig) simulation.PlantParams {
	params := simulation.DefaultPlantParams()
	if config.Ambient != 0 {
		params.Ambient = config.Ambient
		params.Initial = config.Ambient
	}
	if config.Initial != 0 {
		params.Initial = config.Initial
	}
	if config.HeatGain != 0 {
		params.HeatGain = config.HeatGain
	}
	if config.LossCoefficient != 0 {
		params.LossCoefficient = config.LossCoefficient
	}
	return params
}
