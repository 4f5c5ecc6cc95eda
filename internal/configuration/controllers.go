package configuration

import (
	"fmt"

	"github.com/eggbot/eggbot/internal/pid"
)

const (
	// FaultPolicyHold keeps the last damper position while the sensor is unavailable
	FaultPolicyHold = "hold"
	// FaultPolicyClose closes the damper while the sensor is unavailable
	FaultPolicyClose = "close"
)

type ControllerConfig struct {
	ID       string  `json:"id" yaml:"id"`
	Sensor   string  `json:"sensor" yaml:"sensor"`
	Setpoint float64 `json:"setpoint" yaml:"setpoint"`

	// Preset is the name of a tuning preset, used as base for the values below
	Preset string     `json:"preset,omitempty" yaml:"preset,omitempty"`
	Pid    *PidConfig `json:"pid,omitempty" yaml:"pid,omitempty"`

	OutputMin *float64 `json:"outputMin,omitempty" yaml:"outputMin,omitempty"`
	OutputMax *float64 `json:"outputMax,omitempty" yaml:"outputMax,omitempty"`
	// SampleTime is the minimum interval between two PID computations in ms
	SampleTime int64 `json:"sampleTime,omitempty" yaml:"sampleTime,omitempty"`
	// MaxDamperRate limits the damper movement in percent per second, 0 means unlimited
	MaxDamperRate float64 `json:"maxDamperRate,omitempty" yaml:"maxDamperRate,omitempty"`

	FaultPolicy          string `json:"faultPolicy" yaml:"faultPolicy"`
	MaxConsecutiveFaults int    `json:"maxConsecutiveFaults" yaml:"maxConsecutiveFaults"`

	Actuator ActuatorConfig `json:"actuator" yaml:"actuator"`
}

type PidConfig struct {
	P float64 `json:"p" yaml:"p"`
	I float64 `json:"i" yaml:"i"`
	D float64 `json:"d" yaml:"d"`
}

type ActuatorConfig struct {
	File    *FileActuatorConfig    `json:"file,omitempty" yaml:"file,omitempty"`
	Cmd     *CmdActuatorConfig     `json:"cmd,omitempty" yaml:"cmd,omitempty"`
	Virtual *VirtualActuatorConfig `json:"virtual,omitempty" yaml:"virtual,omitempty"`
}

type FileActuatorConfig struct {
	Path string `json:"path" yaml:"path"`
}

// CmdActuatorConfig executes a command to move the damper. A "%d" in any
// argument is replaced with the damper percentage.
type CmdActuatorConfig struct {
	Exec string   `json:"exec" yaml:"exec"`
	Args []string `json:"args" yaml:"args"`
}

// VirtualActuatorConfig keeps the damper position in memory. If the
// controlled sensor is simulated, it drives the simulated cooker.
type VirtualActuatorConfig struct{}

// ResolvePreset resolves the tuning of this controller: the named preset (or
// the conservative default) overridden by explicit values.
func (c ControllerConfig) ResolvePreset() (pid.Preset, error) {
	name := c.Preset
	if len(name) <= 0 {
		name = pid.PresetConservative
	}
	preset, ok := pid.Presets[name]
	if !ok {
		return preset, fmt.Errorf("unknown pid preset '%s'", name)
	}
	if c.Pid != nil {
		if len(c.Preset) <= 0 {
			preset.Name = "custom"
		}
		preset.Gains = pid.Gains{Kp: c.Pid.P, Ki: c.Pid.I, Kd: c.Pid.D}
	}
	if c.OutputMin != nil {
		preset.Limits.Min = *c.OutputMin
	}
	if c.OutputMax != nil {
		preset.Limits.Max = *c.OutputMax
	}
	if c.SampleTime != 0 {
		preset.SampleTimeMs = c.SampleTime
	}

	return preset, nil
}

// GetFaultPolicy returns the configured fault policy, defaulting to hold.
func (c ControllerConfig) GetFaultPolicy() string {
	if len(c.FaultPolicy) <= 0 {
		return FaultPolicyHold
	}
	return c.FaultPolicy
}

// GetMaxConsecutiveFaults returns the number of sensor faults in a row
// after which the damper is closed regardless of the fault policy.
func (c ControllerConfig) GetMaxConsecutiveFaults() int {
	if c.MaxConsecutiveFaults <= 0 {
		return 5
	}
	return c.MaxConsecutiveFaults
}
