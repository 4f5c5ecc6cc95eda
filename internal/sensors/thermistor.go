package sensors

import (
	"math"
	"sync"
	"time"

	"github.com/asecurityteam/rolling"
	"github.com/eggbot/eggbot/internal/configuration"
	"github.com/eggbot/eggbot/internal/thermistor"
	"github.com/eggbot/eggbot/internal/util"
)

// ThermistorSensor serializes access to a thermistor and keeps a moving
// window of its successful reads.
type ThermistorSensor struct {
	Config configuration.SensorConfig

	mu         sync.Mutex
	thermistor *thermistor.Sensor
	window     *rolling.PointPolicy
	windowSize int
	samples    int
	last       Reading
	faults     int
	now        func() time.Time
}

func NewThermistorSensor(config configuration.SensorConfig, t *thermistor.Sensor, windowSize int) *ThermistorSensor {
	if windowSize <= 0 {
		windowSize = 1
	}
	return &ThermistorSensor{
		Config:     config,
		thermistor: t,
		window:     util.CreateRollingWindow(windowSize),
		windowSize: windowSize,
		last:       Reading{Celsius: math.NaN(), Err: thermistor.ErrNoReading},
		now:        time.Now,
	}
}

func (sensor *ThermistorSensor) GetId() string {
	return sensor.Config.ID
}

func (sensor *ThermistorSensor) GetConfig() configuration.SensorConfig {
	return sensor.Config
}

func (sensor *ThermistorSensor) GetValue() (float64, error) {
	sensor.mu.Lock()
	defer sensor.mu.Unlock()

	celsius, err := sensor.thermistor.ReadTemperature()
	sensor.last = Reading{Celsius: celsius, Err: err, Time: sensor.now()}
	if err != nil {
		sensor.faults++
		return celsius, err
	}
	sensor.faults = 0
	if sensor.samples == 0 {
		// seed the whole window with the first value
		for i := 1; i < sensor.windowSize; i++ {
			sensor.window.Append(celsius)
		}
	}
	sensor.window.Append(celsius)
	sensor.samples++
	return celsius, nil
}

func (sensor *ThermistorSensor) GetLast() Reading {
	sensor.mu.Lock()
	defer sensor.mu.Unlock()
	return sensor.last
}

func (sensor *ThermistorSensor) GetMovingAvg() float64 {
	sensor.mu.Lock()
	defer sensor.mu.Unlock()
	if sensor.samples == 0 {
		return math.NaN()
	}
	return util.GetWindowAvg(sensor.window)
}

// ConsecutiveFaults returns the number of failed reads since the last successful one
func (sensor *ThermistorSensor) ConsecutiveFaults() int {
	sensor.mu.Lock()
	defer sensor.mu.Unlock()
	return sensor.faults
}

// ReadRaw returns the averaged raw ADC code, or thermistor.NoReading
func (sensor *ThermistorSensor) ReadRaw() int {
	sensor.mu.Lock()
	defer sensor.mu.Unlock()
	return sensor.thermistor.ReadRaw()
}

func (sensor *ThermistorSensor) SetCalibration(a, b, c float64) bool {
	sensor.mu.Lock()
	defer sensor.mu.Unlock()
	return sensor.thermistor.SetCalibration(a, b, c)
}

func (sensor *ThermistorSensor) Calibration() thermistor.Coefficients {
	sensor.mu.Lock()
	defer sensor.mu.Unlock()
	return sensor.thermistor.Calibration()
}
