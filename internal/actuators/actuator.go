// Package actuators drives the damper of a cooker.
package actuators

import (
	"fmt"

	"github.com/eggbot/eggbot/internal/configuration"
	"github.com/eggbot/eggbot/internal/simulation"
	cmap "github.com/orcaman/concurrent-map/v2"
)

var (
	ActuatorMap = cmap.New[Actuator]()
)

type Actuator interface {
	GetId() string

	// SetOutput moves the damper to the given opening in percent
	SetOutput(percent float64) error
	// GetOutput returns the last opening that was applied successfully
	GetOutput() float64
}

// NewActuator creates the actuator of the given controller. A virtual
// actuator of a controller whose sensor is simulated drives that plant.
func NewActuator(config configuration.ControllerConfig) (Actuator, error) {
	actuator := config.Actuator

	if actuator.File != nil {
		return &FileActuator{
			ID:   config.ID,
			Path: actuator.File.Path,
		}, nil
	}

	if actuator.Cmd != nil {
		return &CmdActuator{
			ID:   config.ID,
			Exec: actuator.Cmd.Exec,
			Args: actuator.Cmd.Args,
		}, nil
	}

	if actuator.Virtual != nil {
		plant, _ := simulation.PlantMap.Get(config.Sensor)
		return NewVirtualActuator(config.ID, plant), nil
	}

	return nil, fmt.Errorf("no matching actuator type for controller: %s", config.ID)
}
