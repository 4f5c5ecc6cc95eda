package statistics

import (
	"github.com/eggbot/eggbot/internal/controller"
	"github.com/prometheus/client_golang/prometheus"
)

const controllerSubsystem = "controller"

type ControllerCollector struct {
	controllers []controller.DamperController

	setpoint         *prometheus.Desc
	output           *prometheus.Desc
	integral         *prometheus.Desc
	lastError        *prometheus.Desc
	sensorFaultCount *prometheus.Desc
	forcedClose      *prometheus.Desc
}

func NewControllerCollector(controllers []controller.DamperController) *ControllerCollector {
	return &ControllerCollector{
		controllers: controllers,
		setpoint: prometheus.NewDesc(prometheus.BuildFQName(namespace, controllerSubsystem, "setpoint_celsius"),
			"Target temperature of the controller",
			[]string{"id"}, nil,
		),
		output: prometheus.NewDesc(prometheus.BuildFQName(namespace, controllerSubsystem, "damper_percent"),
			"Damper opening last applied by the controller",
			[]string{"id"}, nil,
		),
		integral: prometheus.NewDesc(prometheus.BuildFQName(namespace, controllerSubsystem, "integral"),
			"Accumulated integral term of the PID",
			[]string{"id"}, nil,
		),
		lastError: prometheus.NewDesc(prometheus.BuildFQName(namespace, controllerSubsystem, "error_celsius"),
			"Difference between setpoint and temperature at the last PID computation",
			[]string{"id"}, nil,
		),
		sensorFaultCount: prometheus.NewDesc(prometheus.BuildFQName(namespace, controllerSubsystem, "sensor_fault_count"),
			"Counter for failed sensor reads of this controller",
			[]string{"id"}, nil,
		),
		forcedClose: prometheus.NewDesc(prometheus.BuildFQName(namespace, controllerSubsystem, "forced_close"),
			"1 if the damper is closed because of consecutive sensor faults",
			[]string{"id"}, nil,
		),
	}
}

func (collector *ControllerCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- collector.setpoint
	ch <- collector.output
	ch <- collector.integral
	ch <- collector.lastError
	ch <- collector.sensorFaultCount
	ch <- collector.forcedClose
}

// Collect implements required collect function for all prometheus collectors
func (collector *ControllerCollector) Collect(ch chan<- prometheus.Metric) {
	for _, contr := range collector.controllers {
		id := contr.GetId()
		stats := contr.GetStatistics()
		forcedClose := 0.0
		if stats.ForcedClose {
			forcedClose = 1
		}
		ch <- prometheus.MustNewConstMetric(collector.setpoint, prometheus.GaugeValue, stats.Setpoint, id)
		ch <- prometheus.MustNewConstMetric(collector.output, prometheus.GaugeValue, stats.Output, id)
		ch <- prometheus.MustNewConstMetric(collector.integral, prometheus.GaugeValue, stats.Pid.Integral, id)
		ch <- prometheus.MustNewConstMetric(collector.lastError, prometheus.GaugeValue, stats.Pid.LastError, id)
		ch <- prometheus.MustNewConstMetric(collector.sensorFaultCount, prometheus.CounterValue, float64(stats.SensorFaultCount), id)
		ch <- prometheus.MustNewConstMetric(collector.forcedClose, prometheus.GaugeValue, forcedClose, id)
	}
}
