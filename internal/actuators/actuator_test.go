package actuators

import (
	"path/filepath"
	"testing"

	"github.com/eggbot/eggbot/internal/configuration"
	"github.com/eggbot/eggbot/internal/simulation"
	"github.com/eggbot/eggbot/internal/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileActuator_SetOutput(t *testing.T) {
	// GIVEN
	filePath := filepath.Join(t.TempDir(), "damper")
	actuator := &FileActuator{ID: "damper", Path: filePath}

	// WHEN
	err := actuator.SetOutput(42.6)

	// THEN
	assert.NoError(t, err)
	assert.Equal(t, 42.6, actuator.GetOutput())
	value, err := util.ReadIntFromFile(filePath)
	assert.NoError(t, err)
	assert.Equal(t, 43, value)
}

func TestFileActuator_SetOutputFails(t *testing.T) {
	// GIVEN
	actuator := &FileActuator{ID: "damper", Path: filepath.Join(t.TempDir(), "missing", "damper")}

	// WHEN
	err := actuator.SetOutput(10)

	// THEN
	assert.Error(t, err)
	assert.Equal(t, 0.0, actuator.GetOutput())
}

func TestCmdActuator_RejectsUnsafeExecutable(t *testing.T) {
	// GIVEN
	actuator := &CmdActuator{ID: "damper", Exec: filepath.Join(t.TempDir(), "servo"), Args: []string{"%d"}}

	// WHEN
	err := actuator.SetOutput(10)

	// THEN
	assert.Error(t, err)
	assert.Equal(t, 0.0, actuator.GetOutput())
}

func TestVirtualActuator_DrivesPlant(t *testing.T) {
	// GIVEN
	plant := simulation.NewPlant(simulation.DefaultPlantParams())
	actuator := NewVirtualActuator("damper", plant)

	// WHEN
	err := actuator.SetOutput(65)

	// THEN
	assert.NoError(t, err)
	assert.Equal(t, 65.0, actuator.GetOutput())
	assert.Equal(t, 65.0, plant.Damper())
}

func TestNewActuator(t *testing.T) {
	// GIVEN
	plant := simulation.NewPlant(simulation.DefaultPlantParams())
	simulation.PlantMap.Set("sim-pit", plant)
	config := configuration.ControllerConfig{
		ID:     "damper",
		Sensor: "sim-pit",
		Actuator: configuration.ActuatorConfig{
			Virtual: &configuration.VirtualActuatorConfig{},
		},
	}

	// WHEN
	actuator, err := NewActuator(config)

	// THEN
	require.NoError(t, err)
	assert.Equal(t, "damper", actuator.GetId())
	require.NoError(t, actuator.SetOutput(30))
	assert.Equal(t, 30.0, plant.Damper())

	// WHEN
	_, err = NewActuator(configuration.ControllerConfig{ID: "none"})

	// THEN
	assert.EqualError(t, err, "no matching actuator type for controller: none")
}
