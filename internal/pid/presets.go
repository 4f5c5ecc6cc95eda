package pid

const (
	PresetConservative = "conservative"
	PresetAggressive   = "aggressive"
	PresetPrecise      = "precise"
	PresetSlowCook     = "slow_cook"
	PresetHighTemp     = "high_temp"
)

// Preset is a named tuning for a typical cooking scenario.
type Preset struct {
	Name         string `json:"name"`
	Gains        Gains  `json:"gains"`
	Limits       Limits `json:"limits"`
	SampleTimeMs int64  `json:"sampleTimeMs"`
}

var Presets = map[string]Preset{
	PresetConservative: {
		Name:         PresetConservative,
		Gains:        Gains{Kp: 2.0, Ki: 0.1, Kd: 1.0},
		Limits:       Limits{Min: 0, Max: 100},
		SampleTimeMs: 2000,
	},
	PresetAggressive: {
		Name:         PresetAggressive,
		Gains:        Gains{Kp: 4.0, Ki: 0.3, Kd: 2.0},
		Limits:       Limits{Min: 0, Max: 100},
		SampleTimeMs: 1000,
	},
	PresetPrecise: {
		Name:         PresetPrecise,
		Gains:        Gains{Kp: 3.0, Ki: 0.2, Kd: 1.5},
		Limits:       Limits{Min: 0, Max: 100},
		SampleTimeMs: 1000,
	},
	// limited damper range for low and slow
	PresetSlowCook: {
		Name:         PresetSlowCook,
		Gains:        Gains{Kp: 1.5, Ki: 0.05, Kd: 0.8},
		Limits:       Limits{Min: 0, Max: 80},
		SampleTimeMs: 3000,
	},
	PresetHighTemp: {
		Name:         PresetHighTemp,
		Gains:        Gains{Kp: 5.0, Ki: 0.4, Kd: 2.5},
		Limits:       Limits{Min: 0, Max: 100},
		SampleTimeMs: 500,
	},
}

// NewControllerFromPreset creates an uninitialized controller configured
// with the given preset.
func NewControllerFromPreset(preset Preset) *Controller {
	c := NewController(preset.Gains.Kp, preset.Gains.Ki, preset.Gains.Kd, preset.Limits.Min, preset.Limits.Max)
	c.SetSampleTime(preset.SampleTimeMs)
	return c
}

// ApplyPreset retunes a controller. Like SetGains it keeps the controller
// history. Returns false if any part of the preset was rejected.
func (c *Controller) ApplyPreset(preset Preset) bool {
	ok := c.SetGains(preset.Gains.Kp, preset.Gains.Ki, preset.Gains.Kd)
	ok = c.SetOutputLimits(preset.Limits.Min, preset.Limits.Max) && ok
	ok = c.SetSampleTime(preset.SampleTimeMs) && ok
	return ok
}
