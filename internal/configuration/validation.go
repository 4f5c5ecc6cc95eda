package configuration

import (
	"errors"
	"fmt"
	"strings"

	"github.com/eggbot/eggbot/internal/pid"
	"github.com/eggbot/eggbot/internal/ui"
	"github.com/eggbot/eggbot/internal/util"
	"golang.org/x/exp/slices"
)

func Validate() error {
	return validateConfig(&CurrentConfig)
}

func validateConfig(config *Configuration) error {
	if config.SensorRollingWindowSize <= 0 {
		return errors.New("sensorRollingWindowSize must be >= 1")
	}
	if config.SensorPollingRate <= 0 {
		return errors.New("sensorPollingRate must be > 0")
	}
	if config.ControllerTickRate <= 0 {
		return errors.New("controllerTickRate must be > 0")
	}

	err := validateSensors(config)
	if err != nil {
		return err
	}
	return validateControllers(config)
}

func validateSensors(config *Configuration) error {
	var ids []string
	for _, sensorConfig := range config.Sensors {
		if len(sensorConfig.ID) <= 0 {
			return errors.New("sensor id must not be empty")
		}
		if slices.Contains(ids, sensorConfig.ID) {
			return fmt.Errorf("duplicate sensor id detected: %s", sensorConfig.ID)
		}
		ids = append(ids, sensorConfig.ID)

		if sensorConfig.Channel < 0 {
			return fmt.Errorf("Sensor %s: invalid channel, must be >= 0", sensorConfig.ID)
		}

		source := sensorConfig.Source
		subConfigs := 0
		if source.File != nil {
			subConfigs++
		}
		if source.Cmd != nil {
			subConfigs++
		}
		if source.Simulated != nil {
			subConfigs++
		}
		if subConfigs > 1 {
			return fmt.Errorf("Sensor %s: only one source type can be used per sensor definition block", sensorConfig.ID)
		}
		if subConfigs <= 0 {
			return fmt.Errorf("Sensor %s: source configuration is missing, use one of: file | cmd | simulated", sensorConfig.ID)
		}

		if source.File != nil && len(source.File.Path) <= 0 {
			return fmt.Errorf("Sensor %s: no file path provided", sensorConfig.ID)
		}
		if source.Cmd != nil && len(source.Cmd.Exec) <= 0 {
			return fmt.Errorf("Sensor %s: executable is missing", sensorConfig.ID)
		}
		if source.Simulated != nil && source.Simulated.Noise < 0 {
			return fmt.Errorf("Sensor %s: simulated noise must be >= 0", sensorConfig.ID)
		}

		if _, err := sensorConfig.Thermistor.Params(); err != nil {
			return fmt.Errorf("Sensor %s: %w", sensorConfig.ID, err)
		}

		if !isSensorConfigInUse(sensorConfig, config.Controllers) {
			ui.Warning("Sensor %s is not used by any controller, it will only be monitored", sensorConfig.ID)
		}
	}

	return nil
}

func isSensorConfigInUse(config SensorConfig, controllers []ControllerConfig) bool {
	for _, controllerConfig := range controllers {
		if controllerConfig.Sensor == config.ID {
			return true
		}
	}
	return false
}

func validateControllers(config *Configuration) error {
	var ids []string
	for _, controllerConfig := range config.Controllers {
		if len(controllerConfig.ID) <= 0 {
			return errors.New("controller id must not be empty")
		}
		if slices.Contains(ids, controllerConfig.ID) {
			return fmt.Errorf("duplicate controller id detected: %s", controllerConfig.ID)
		}
		ids = append(ids, controllerConfig.ID)

		if len(controllerConfig.Sensor) <= 0 {
			return fmt.Errorf("Controller %s: missing sensor id", controllerConfig.ID)
		}
		sensorConfig, ok := findSensorConfig(controllerConfig.Sensor, config)
		if !ok {
			return fmt.Errorf("Controller %s: no sensor definition with id '%s' found", controllerConfig.ID, controllerConfig.Sensor)
		}

		if len(controllerConfig.Preset) > 0 {
			presetNames := util.SortedKeys(pid.Presets)
			if !slices.Contains(presetNames, controllerConfig.Preset) {
				return fmt.Errorf("Controller %s: unsupported preset '%s', use one of: %s", controllerConfig.ID, controllerConfig.Preset, strings.Join(presetNames, " | "))
			}
		}

		preset, err := controllerConfig.ResolvePreset()
		if err != nil {
			return fmt.Errorf("Controller %s: %w", controllerConfig.ID, err)
		}
		gains := preset.Gains
		if gains.Kp == 0 && gains.Ki == 0 && gains.Kd == 0 {
			return fmt.Errorf("Controller %s: all PID constants are zero", controllerConfig.ID)
		}
		if preset.Limits.Min >= preset.Limits.Max {
			return fmt.Errorf("Controller %s: outputMin must be smaller than outputMax", controllerConfig.ID)
		}
		if preset.SampleTimeMs <= 0 {
			return fmt.Errorf("Controller %s: sampleTime must be > 0", controllerConfig.ID)
		}
		if controllerConfig.MaxDamperRate < 0 {
			return fmt.Errorf("Controller %s: maxDamperRate must be >= 0", controllerConfig.ID)
		}

		supportedPolicies := []string{FaultPolicyHold, FaultPolicyClose}
		if !slices.Contains(supportedPolicies, controllerConfig.GetFaultPolicy()) {
			return fmt.Errorf("Controller %s: unsupported fault policy '%s', use one of: %s", controllerConfig.ID, controllerConfig.FaultPolicy, strings.Join(supportedPolicies, " | "))
		}

		params, err := sensorConfig.Thermistor.Params()
		if err == nil && (controllerConfig.Setpoint < params.MinTemperature || controllerConfig.Setpoint > params.MaxTemperature) {
			return fmt.Errorf("Controller %s: setpoint %.1f is outside the plausible range of sensor %s", controllerConfig.ID, controllerConfig.Setpoint, sensorConfig.ID)
		}

		err = validateActuator(controllerConfig)
		if err != nil {
			return err
		}
	}

	return nil
}

func validateActuator(config ControllerConfig) error {
	actuator := config.Actuator
	subConfigs := 0
	if actuator.File != nil {
		subConfigs++
	}
	if actuator.Cmd != nil {
		subConfigs++
	}
	if actuator.Virtual != nil {
		subConfigs++
	}
	if subConfigs > 1 {
		return fmt.Errorf("Controller %s: only one actuator type can be used per controller definition block", config.ID)
	}
	if subConfigs <= 0 {
		return fmt.Errorf("Controller %s: actuator configuration is missing, use one of: file | cmd | virtual", config.ID)
	}

	if actuator.File != nil && len(actuator.File.Path) <= 0 {
		return fmt.Errorf("Controller %s: no actuator file path provided", config.ID)
	}
	if actuator.Cmd != nil && len(actuator.Cmd.Exec) <= 0 {
		return fmt.Errorf("Controller %s: actuator executable is missing", config.ID)
	}
	return nil
}

func findSensorConfig(id string, config *Configuration) (SensorConfig, bool) {
	for _, sensor := range config.Sensors {
		if sensor.ID == id {
			return sensor, true
		}
	}
	return SensorConfig{}, false
}
