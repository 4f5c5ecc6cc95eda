package internal

import (
	"testing"
	"time"

	"github.com/eggbot/eggbot/internal/configuration"
	"github.com/eggbot/eggbot/internal/simulation"
	"github.com/eggbot/eggbot/internal/thermistor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createSimulatedConfig() configuration.Configuration {
	return configuration.Configuration{
		SensorPollingRate:       time.Second,
		SensorRollingWindowSize: 5,
		ControllerTickRate:      250 * time.Millisecond,
		Sensors: []configuration.SensorConfig{
			{
				ID: "sim-pit",
				Source: configuration.SourceConfig{
					Simulated: &configuration.SimulatedSourceConfig{Ambient: 25},
				},
				Thermistor: configuration.ThermistorConfig{Model: thermistor.Model10k3950},
			},
			{
				ID:      "sim-meat",
				Channel: 1,
				Source: configuration.SourceConfig{
					Simulated: &configuration.SimulatedSourceConfig{Ambient: 25},
				},
			},
		},
		Controllers: []configuration.ControllerConfig{
			{
				ID:       "sim-damper",
				Sensor:   "sim-pit",
				Setpoint: 110,
				Actuator: configuration.ActuatorConfig{
					Virtual: &configuration.VirtualActuatorConfig{},
				},
			},
		},
	}
}

func TestInitializeObjects(t *testing.T) {
	// GIVEN
	config := createSimulatedConfig()

	// WHEN
	sensorList, controllerList, err := initializeObjects(&config)

	// THEN
	require.NoError(t, err)
	assert.Len(t, sensorList, 2)
	assert.Len(t, controllerList, 1)
	assert.True(t, isSensorControlled("sim-pit", controllerList))
	assert.False(t, isSensorControlled("sim-meat", controllerList))
	assert.InDelta(t, 25.0, sensorList[0].GetLast().Celsius, 0.5)

	// WHEN
	err = controllerList[0].Cycle(time.Now().Add(time.Second))

	// THEN
	// far below the setpoint, the damper opens fully
	assert.NoError(t, err)
	plant, ok := simulation.PlantMap.Get("sim-pit")
	require.True(t, ok)
	assert.Equal(t, 100.0, plant.Damper())
}

func TestInitializeObjects_UnknownSensor(t *testing.T) {
	// GIVEN
	config := createSimulatedConfig()
	config.Controllers[0].Sensor = "missing"

	// WHEN
	_, _, err := initializeObjects(&config)

	// THEN
	assert.EqualError(t, err, "controller sim-damper: no sensor with id 'missing' found")
}
