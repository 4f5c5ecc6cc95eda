package configuration

import (
	"fmt"
	"time"

	"github.com/eggbot/eggbot/internal/thermistor"
)

type SensorConfig struct {
	ID string `json:"id" yaml:"id"`
	// Channel is the ADC channel the thermistor is wired to
	Channel    int              `json:"channel" yaml:"channel"`
	Source     SourceConfig     `json:"source" yaml:"source"`
	Thermistor ThermistorConfig `json:"thermistor" yaml:"thermistor"`
}

type SourceConfig struct {
	File      *FileSourceConfig      `json:"file,omitempty" yaml:"file,omitempty"`
	Cmd       *CmdSourceConfig       `json:"cmd,omitempty" yaml:"cmd,omitempty"`
	Simulated *SimulatedSourceConfig `json:"simulated,omitempty" yaml:"simulated,omitempty"`
}

// FileSourceConfig reads raw samples from a file. A "%d" in Path is
// replaced with the channel number.
type FileSourceConfig struct {
	Path string `json:"path" yaml:"path"`
}

// CmdSourceConfig executes a command which prints a raw sample. A "%d"
// in any argument is replaced with the channel number.
type CmdSourceConfig struct {
	Exec string   `json:"exec" yaml:"exec"`
	Args []string `json:"args" yaml:"args"`
}

// SimulatedSourceConfig derives raw samples from a simulated cooker.
type SimulatedSourceConfig struct {
	Ambient         float64 `json:"ambient" yaml:"ambient"`
	Initial         float64 `json:"initial" yaml:"initial"`
	HeatGain        float64 `json:"heatGain" yaml:"heatGain"`
	LossCoefficient float64 `json:"lossCoefficient" yaml:"lossCoefficient"`
	Noise           int     `json:"noise" yaml:"noise"`
}

type ThermistorConfig struct {
	// Model is the name of a known thermistor, used when Coefficients is not set
	Model        string                   `json:"model,omitempty" yaml:"model,omitempty"`
	Coefficients *thermistor.Coefficients `json:"coefficients,omitempty" yaml:"coefficients,omitempty"`

	ReferenceResistor float64        `json:"referenceResistor,omitempty" yaml:"referenceResistor,omitempty"`
	Samples           int            `json:"samples,omitempty" yaml:"samples,omitempty"`
	AdcBits           int            `json:"adcBits,omitempty" yaml:"adcBits,omitempty"`
	SettleDelay       *time.Duration `json:"settleDelay,omitempty" yaml:"settleDelay,omitempty"`

	MinResistance  *float64 `json:"minResistance,omitempty" yaml:"minResistance,omitempty"`
	MaxResistance  *float64 `json:"maxResistance,omitempty" yaml:"maxResistance,omitempty"`
	MinTemperature *float64 `json:"minTemperature,omitempty" yaml:"minTemperature,omitempty"`
	MaxTemperature *float64 `json:"maxTemperature,omitempty" yaml:"maxTemperature,omitempty"`

	Offset float64 `json:"offset,omitempty" yaml:"offset,omitempty"`
}

// Params resolves the configuration into thermistor parameters, applying
// the defaults of thermistor.DefaultParams for everything not set.
func (c ThermistorConfig) Params() (thermistor.Params, error) {
	params := thermistor.DefaultParams()

	if c.Coefficients != nil {
		params.Coefficients = *c.Coefficients
	} else if len(c.Model) > 0 {
		coefficients, ok := thermistor.Models[c.Model]
		if !ok {
			return params, fmt.Errorf("unknown thermistor model '%s'", c.Model)
		}
		params.Coefficients = coefficients
	}

	if c.ReferenceResistor != 0 {
		params.ReferenceResistor = c.ReferenceResistor
	}
	if c.Samples != 0 {
		params.SampleCount = c.Samples
	}
	if c.AdcBits != 0 {
		params.AdcBits = c.AdcBits
	}
	if c.SettleDelay != nil {
		params.SettleDelay = *c.SettleDelay
	}
	if c.MinResistance != nil {
		params.MinResistance = *c.MinResistance
	}
	if c.MaxResistance != nil {
		params.MaxResistance = *c.MaxResistance
	}
	if c.MinTemperature != nil {
		params.MinTemperature = *c.MinTemperature
	}
	if c.MaxTemperature != nil {
		params.MaxTemperature = *c.MaxTemperature
	}
	params.Offset = c.Offset

	return params, params.Validate()
}
