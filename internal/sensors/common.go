package sensors

import (
	"fmt"
	"time"

	"github.com/eggbot/eggbot/internal/analog"
	"github.com/eggbot/eggbot/internal/configuration"
	"github.com/eggbot/eggbot/internal/thermistor"
	cmap "github.com/orcaman/concurrent-map/v2"
)

var (
	SensorMap = cmap.New[Sensor]()
)

type Sensor interface {
	GetId() string

	GetConfig() configuration.SensorConfig

	// GetValue reads the current temperature of this sensor in °C
	GetValue() (float64, error)

	// GetLast returns the result of the last read
	GetLast() Reading

	// GetMovingAvg returns the moving average of the successful reads of this sensor
	GetMovingAvg() float64
}

// Reading is the outcome of a single read of a sensor
type Reading struct {
	Celsius float64   `json:"celsius"`
	Err     error     `json:"-"`
	Time    time.Time `json:"time"`
}

func NewSensor(config configuration.SensorConfig, windowSize int) (Sensor, error) {
	source, err := analog.NewSource(config)
	if err != nil {
		return nil, err
	}

	params, err := config.Thermistor.Params()
	if err != nil {
		return nil, fmt.Errorf("sensor %s: %w", config.ID, err)
	}

	t, err := thermistor.NewSensor(source, config.Channel, params)
	if err != nil {
		return nil, fmt.Errorf("sensor %s: %w", config.ID, err)
	}

	return NewThermistorSensor(config, t, windowSize), nil
}
