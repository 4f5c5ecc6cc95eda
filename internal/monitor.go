package internal

import (
	"context"
	"time"

	"github.com/eggbot/eggbot/internal/sensors"
	"github.com/eggbot/eggbot/internal/ui"
)

// SensorMonitor periodically reads a sensor which is not read by any controller
type SensorMonitor interface {
	Run(ctx context.Context) error
	GetLast() sensors.Reading
}

type sensorMonitor struct {
	sensor      sensors.Sensor
	pollingRate time.Duration
	failing     bool
}

func NewSensorMonitor(sensor sensors.Sensor, pollingRate time.Duration) SensorMonitor {
	return &sensorMonitor{
		sensor:      sensor,
		pollingRate: pollingRate,
	}
}

func (s *sensorMonitor) Run(ctx context.Context) error {
	tick := time.NewTicker(s.pollingRate)
	defer tick.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-tick.C:
			s.updateSensor()
		}
	}
}

// read the current value of the sensor, warnings are only logged when the state changes
func (s *sensorMonitor) updateSensor() {
	value, err := s.sensor.GetValue()
	if err != nil {
		if !s.failing {
			ui.Warning("Unable to read sensor %s: %v", s.sensor.GetId(), err)
		}
		s.failing = true
		return
	}
	if s.failing {
		ui.Info("Sensor %s recovered: %.1f°C", s.sensor.GetId(), value)
	}
	s.failing = false
	ui.Debug("Sensor %s: %.2f°C (avg %.2f°C)", s.sensor.GetId(), value, s.sensor.GetMovingAvg())
}

func (s *sensorMonitor) GetLast() sensors.Reading {
	return s.sensor.GetLast()
}
