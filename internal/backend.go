package internal

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/eggbot/eggbot/internal/actuators"
	"github.com/eggbot/eggbot/internal/api"
	"github.com/eggbot/eggbot/internal/configuration"
	"github.com/eggbot/eggbot/internal/controller"
	"github.com/eggbot/eggbot/internal/sensors"
	"github.com/eggbot/eggbot/internal/statistics"
	"github.com/eggbot/eggbot/internal/ui"
	"github.com/oklog/run"
)

func RunDaemon() {
	sensorList, controllerList, err := InitializeObjects()
	if err != nil {
		ui.FatalWithoutStacktrace("%v", err)
	}
	if len(controllerList) == 0 {
		ui.Warning("No controller configured, only monitoring sensors")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var g run.Group
	{
		statisticsConfig := configuration.CurrentConfig.Statistics
		if statisticsConfig.Enabled {
			// === Prometheus Exporter
			server := api.CreateStatisticsService()
			g.Add(func() error {
				port := statisticsConfig.Port
				if port <= 0 || port >= 65535 {
					port = 9000
				}
				addr := fmt.Sprintf(":%d", port)
				ui.Info("Starting statistics server on %s...", addr)
				if err := server.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
					return fmt.Errorf("cannot start prometheus metrics endpoint: %w", err)
				}
				return nil
			}, func(err error) {
				ui.Info("Stopping statistics server...")
				timeoutCtx, timeoutCancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer timeoutCancel()
				if err := server.Shutdown(timeoutCtx); err != nil {
					ui.Warning("Error stopping statistics server: %v", err)
				}
			})
		}
	}
	{
		// === sensor monitoring, for sensors without a controller
		pollingRate := configuration.CurrentConfig.SensorPollingRate
		for _, sensor := range sensorList {
			s := sensor
			if isSensorControlled(s.GetId(), controllerList) {
				continue
			}
			mon := NewSensorMonitor(s, pollingRate)

			g.Add(func() error {
				err := mon.Run(ctx)
				ui.Info("Sensor Monitor for sensor %s stopped.", s.GetId())
				return err
			}, func(err error) {
				cancel()
			})
		}
	}
	{
		// === damper controllers
		for _, c := range controllerList {
			damperController := c
			g.Add(func() error {
				err := damperController.Run(ctx)
				ui.Info("Controller %s stopped.", damperController.GetId())
				return err
			}, func(err error) {
				if err != nil {
					ui.Warning("Something went wrong: %v", err)
				}
				cancel()
			})
		}
	}
	{
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM)

		g.Add(func() error {
			select {
			case <-sig:
				ui.Info("Received SIGTERM signal, exiting...")
			case <-ctx.Done():
			}
			return nil
		}, func(err error) {
			signal.Stop(sig)
			cancel()
		})
	}

	if err := g.Run(); err != nil {
		ui.Error("%v", err)
		os.Exit(1)
	} else {
		ui.Info("Done.")
		os.Exit(0)
	}
}

// InitializeObjects creates all configured sensors, actuators and controllers
// and registers their statistics collectors
func InitializeObjects() ([]sensors.Sensor, []controller.DamperController, error) {
	sensorList, controllerList, err := initializeObjects(&configuration.CurrentConfig)
	if err != nil {
		return nil, nil, err
	}

	statistics.Register(statistics.NewSensorCollector(sensorList))
	statistics.Register(statistics.NewControllerCollector(controllerList))

	return sensorList, controllerList, nil
}

func initializeObjects(config *configuration.Configuration) ([]sensors.Sensor, []controller.DamperController, error) {
	var sensorList []sensors.Sensor
	for _, sensorConfig := range config.Sensors {
		sensor, err := sensors.NewSensor(sensorConfig, config.SensorRollingWindowSize)
		if err != nil {
			return nil, nil, fmt.Errorf("unable to process sensor configuration %s: %w", sensorConfig.ID, err)
		}

		currentValue, err := sensor.GetValue()
		if err != nil {
			ui.Warning("Error reading sensor %s: %v", sensorConfig.ID, err)
		} else {
			ui.Info("Sensor %s: %.1f°C", sensorConfig.ID, currentValue)
		}

		sensors.SensorMap.Set(sensorConfig.ID, sensor)
		sensorList = append(sensorList, sensor)
	}

	var controllerList []controller.DamperController
	for _, controllerConfig := range config.Controllers {
		sensor, ok := sensors.SensorMap.Get(controllerConfig.Sensor)
		if !ok {
			return nil, nil, fmt.Errorf("controller %s: no sensor with id '%s' found", controllerConfig.ID, controllerConfig.Sensor)
		}

		actuator, err := actuators.NewActuator(controllerConfig)
		if err != nil {
			return nil, nil, err
		}
		actuators.ActuatorMap.Set(controllerConfig.ID, actuator)

		damperController, err := controller.NewDamperController(controllerConfig, sensor, actuator, config.ControllerTickRate)
		if err != nil {
			return nil, nil, fmt.Errorf("unable to process controller configuration %s: %w", controllerConfig.ID, err)
		}
		controller.ControllerMap.Set(controllerConfig.ID, damperController)
		controllerList = append(controllerList, damperController)
	}

	return sensorList, controllerList, nil
}

func isSensorControlled(sensorId string, controllers []controller.DamperController) bool {
	for _, c := range controllers {
		if c.GetConfig().Sensor == sensorId {
			return true
		}
	}
	return false
}
