package statistics

import (
	"github.com/eggbot/eggbot/internal/sensors"
	"github.com/prometheus/client_golang/prometheus"
)

const subsystemSensor = "sensor"

type SensorCollector struct {
	sensors   []sensors.Sensor
	value     *prometheus.Desc
	movingAvg *prometheus.Desc
	fault     *prometheus.Desc
}

func NewSensorCollector(sensors []sensors.Sensor) *SensorCollector {
	return &SensorCollector{
		sensors: sensors,
		value: prometheus.NewDesc(prometheus.BuildFQName(namespace, subsystemSensor, "celsius"),
			"Last temperature read from the sensor",
			[]string{"id"}, nil,
		),
		movingAvg: prometheus.NewDesc(prometheus.BuildFQName(namespace, subsystemSensor, "celsius_avg"),
			"Moving average of the temperature read from the sensor",
			[]string{"id"}, nil,
		),
		fault: prometheus.NewDesc(prometheus.BuildFQName(namespace, subsystemSensor, "fault"),
			"1 if the last read of the sensor failed, 0 otherwise",
			[]string{"id"}, nil,
		),
	}
}

func (collector *SensorCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- collector.value
	ch <- collector.movingAvg
	ch <- collector.fault
}

// Collect implements required collect function for all prometheus collectors
func (collector *SensorCollector) Collect(ch chan<- prometheus.Metric) {
	for _, sensor := range collector.sensors {
		sensorId := sensor.GetId()
		last := sensor.GetLast()
		fault := 0.0
		if last.Err != nil {
			fault = 1
		}
		ch <- prometheus.MustNewConstMetric(collector.value, prometheus.GaugeValue, last.Celsius, sensorId)
		ch <- prometheus.MustNewConstMetric(collector.movingAvg, prometheus.GaugeValue, sensor.GetMovingAvg(), sensorId)
		ch <- prometheus.MustNewConstMetric(collector.fault, prometheus.GaugeValue, fault, sensorId)
	}
}
