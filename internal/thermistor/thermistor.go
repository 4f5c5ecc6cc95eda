// Package thermistor turns raw ADC samples of an NTC thermistor voltage
// divider into a calibrated temperature.
//
// Every stage validates its input before transforming it. A fault at any
// stage (no valid sample, saturated ADC, implausible resistance or
// temperature) is reported as math.NaN() by TemperatureCelsius and
// TemperatureFahrenheit, or as one of the sentinel errors by ReadTemperature.
//
// A Sensor is not safe for concurrent use.
package thermistor

import (
	"fmt"
	"math"
	"time"
)

// NoReading is returned by ReadRaw when none of the samples was valid.
const NoReading = -1

const (
	DefaultReferenceResistor = 10000.0
	DefaultSampleCount       = 10
	DefaultAdcBits           = 10
	DefaultSettleDelay       = 5 * time.Millisecond
	DefaultMinResistance     = 10.0
	DefaultMaxResistance     = 300000.0
	DefaultMinTemperature    = -20.0
	DefaultMaxTemperature    = 400.0
)

// AnalogSource reads one raw sample from an ADC channel.
type AnalogSource interface {
	ReadRaw(channel int) (int, error)
}

// Params is the static configuration of a thermistor channel.
type Params struct {
	Coefficients Coefficients
	// ReferenceResistor is the fixed divider resistor in ohms
	ReferenceResistor float64
	// SampleCount is the number of ADC samples averaged per reading
	SampleCount int
	// AdcBits is the resolution of the converter
	AdcBits int
	// SettleDelay is the pause between two successive samples
	SettleDelay time.Duration

	MinResistance  float64
	MaxResistance  float64
	MinTemperature float64
	MaxTemperature float64

	// Offset is added to every computed Celsius value
	Offset float64
}

// DefaultParams returns the parameters of a 10kΩ NTC behind a 10kΩ reference
// resistor on a 10 bit converter, screened for cooking temperatures.
func DefaultParams() Params {
	return Params{
		Coefficients:      DefaultCoefficients,
		ReferenceResistor: DefaultReferenceResistor,
		SampleCount:       DefaultSampleCount,
		AdcBits:           DefaultAdcBits,
		SettleDelay:       DefaultSettleDelay,
		MinResistance:     DefaultMinResistance,
		MaxResistance:     DefaultMaxResistance,
		MinTemperature:    DefaultMinTemperature,
		MaxTemperature:    DefaultMaxTemperature,
	}
}

// AdcMax is the largest code the converter can produce.
func (p Params) AdcMax() int {
	return 1<<p.AdcBits - 1
}

func (p Params) Validate() error {
	if !p.Coefficients.Valid() {
		return ErrInvalidCoefficients
	}
	if !isFinite(p.ReferenceResistor) || p.ReferenceResistor <= 0 {
		return fmt.Errorf("reference resistor must be > 0: %w", ErrInvalidParams)
	}
	if p.SampleCount <= 0 {
		return fmt.Errorf("sample count must be >= 1: %w", ErrInvalidParams)
	}
	if p.AdcBits < 2 || p.AdcBits > 24 {
		return fmt.Errorf("adc resolution must be between 2 and 24 bits: %w", ErrInvalidParams)
	}
	if p.SettleDelay < 0 {
		return fmt.Errorf("settle delay must not be negative: %w", ErrInvalidParams)
	}
	if !isFinite(p.MinResistance) || !isFinite(p.MaxResistance) {
		return fmt.Errorf("resistance range [%v, %v] must be finite: %w", p.MinResistance, p.MaxResistance, ErrInvalidParams)
	}
	if p.MinResistance < 0 || p.MinResistance >= p.MaxResistance {
		return fmt.Errorf("resistance range [%v, %v] is empty: %w", p.MinResistance, p.MaxResistance, ErrInvalidParams)
	}
	if !isFinite(p.MinTemperature) || !isFinite(p.MaxTemperature) {
		return fmt.Errorf("temperature range [%v, %v] must be finite: %w", p.MinTemperature, p.MaxTemperature, ErrInvalidParams)
	}
	if p.MinTemperature >= p.MaxTemperature {
		return fmt.Errorf("temperature range [%v, %v] is empty: %w", p.MinTemperature, p.MaxTemperature, ErrInvalidParams)
	}
	return nil
}

// Sensor is a single thermistor on a single ADC channel.
type Sensor struct {
	source  AnalogSource
	channel int
	params  Params
	sleep   func(time.Duration)
}

func NewSensor(source AnalogSource, channel int, params Params) (*Sensor, error) {
	if source == nil {
		return nil, fmt.Errorf("channel %d: missing analog source: %w", channel, ErrInvalidParams)
	}
	if err := params.Validate(); err != nil {
		return nil, err
	}
	return &Sensor{
		source:  source,
		channel: channel,
		params:  params,
		sleep:   time.Sleep,
	}, nil
}

func (s *Sensor) Channel() int {
	return s.channel
}

func (s *Sensor) Params() Params {
	return s.params
}

// ReadRaw averages SampleCount samples, ignoring samples outside the
// converter range. Returns NoReading if no sample was valid.
func (s *Sensor) ReadRaw() int {
	adcMax := s.params.AdcMax()
	sum := 0
	valid := 0

	for i := 0; i < s.params.SampleCount; i++ {
		reading, err := s.source.ReadRaw(s.channel)
		if err == nil && reading >= 0 && reading <= adcMax {
			sum += reading
			valid++
		}
		if i < s.params.SampleCount-1 && s.params.SettleDelay > 0 {
			s.sleep(s.params.SettleDelay)
		}
	}

	if valid == 0 {
		return NoReading
	}
	return sum / valid
}

// ResistanceFromADC converts an averaged ADC code into the thermistor
// resistance using R2 = R1 * (max / adc - 1).
func (s *Sensor) ResistanceFromADC(adc int) (float64, error) {
	adcMax := s.params.AdcMax()
	if adc <= 0 || adc >= adcMax {
		return 0, fmt.Errorf("adc %d (max %d): %w", adc, adcMax, ErrAdcSaturated)
	}

	resistance := s.params.ReferenceResistor * (float64(adcMax)/float64(adc) - 1.0)
	if resistance < s.params.MinResistance || resistance > s.params.MaxResistance {
		return 0, fmt.Errorf("%.1fΩ not in [%.1f, %.1f]: %w", resistance, s.params.MinResistance, s.params.MaxResistance, ErrResistanceOutOfRange)
	}
	return resistance, nil
}

// ADCFromResistance is the inverse of ResistanceFromADC, rounded to the
// nearest code.
func (s *Sensor) ADCFromResistance(resistance float64) int {
	return ADCFromResistance(resistance, s.params.ReferenceResistor, s.params.AdcMax())
}

// ADCFromResistance returns the code a divider with the given reference
// resistor produces for the given thermistor resistance.
func ADCFromResistance(resistance float64, referenceResistor float64, adcMax int) int {
	if resistance < 0 {
		return adcMax
	}
	return int(math.Round(float64(adcMax) * referenceResistor / (referenceResistor + resistance)))
}

// CelsiusFromResistance applies the Steinhart-Hart equation and the
// calibration offset, and screens the result.
func (s *Sensor) CelsiusFromResistance(resistance float64) (float64, error) {
	if resistance <= 0 || math.IsNaN(resistance) || math.IsInf(resistance, 0) {
		return math.NaN(), fmt.Errorf("%v: %w", resistance, ErrResistanceOutOfRange)
	}

	invKelvin := s.params.Coefficients.InverseKelvin(resistance)
	if invKelvin <= 0 || math.IsNaN(invKelvin) {
		return math.NaN(), fmt.Errorf("1/T=%v: %w", invKelvin, ErrTemperatureOutOfRange)
	}

	celsius := 1.0/invKelvin - KelvinOffset + s.params.Offset
	if math.IsNaN(celsius) || celsius < s.params.MinTemperature || celsius > s.params.MaxTemperature {
		return math.NaN(), fmt.Errorf("%.1f°C not in [%.1f, %.1f]: %w", celsius, s.params.MinTemperature, s.params.MaxTemperature, ErrTemperatureOutOfRange)
	}
	return celsius, nil
}

// ReadTemperature takes a fresh reading and returns it in Celsius. The
// returned error wraps one of the package sentinel errors.
func (s *Sensor) ReadTemperature() (float64, error) {
	adc := s.ReadRaw()
	if adc == NoReading {
		return math.NaN(), fmt.Errorf("channel %d: %w", s.channel, ErrNoReading)
	}

	resistance, err := s.ResistanceFromADC(adc)
	if err != nil {
		return math.NaN(), fmt.Errorf("channel %d: %w", s.channel, err)
	}

	celsius, err := s.CelsiusFromResistance(resistance)
	if err != nil {
		return math.NaN(), fmt.Errorf("channel %d: %w", s.channel, err)
	}
	return celsius, nil
}

// TemperatureCelsius returns the current temperature, or NaN if the sensor
// is unavailable this cycle.
func (s *Sensor) TemperatureCelsius() float64 {
	celsius, err := s.ReadTemperature()
	if err != nil {
		return math.NaN()
	}
	return celsius
}

// TemperatureFahrenheit returns the current temperature, or NaN if the
// sensor is unavailable this cycle.
func (s *Sensor) TemperatureFahrenheit() float64 {
	return CelsiusToFahrenheit(s.TemperatureCelsius())
}

func CelsiusToFahrenheit(celsius float64) float64 {
	if math.IsNaN(celsius) {
		return celsius
	}
	return celsius*9.0/5.0 + 32.0
}

// SetCalibration replaces the Steinhart-Hart coefficients used by
// subsequent reads. Invalid coefficients are ignored and false is returned.
func (s *Sensor) SetCalibration(a, b, c float64) bool {
	coefficients := Coefficients{A: a, B: b, C: c}
	if !coefficients.Valid() {
		return false
	}
	s.params.Coefficients = coefficients
	return true
}

func (s *Sensor) Calibration() Coefficients {
	return s.params.Coefficients
}

// SetOffset sets the constant correction added to every Celsius value.
func (s *Sensor) SetOffset(celsius float64) bool {
	if math.IsNaN(celsius) || math.IsInf(celsius, 0) {
		return false
	}
	s.params.Offset = celsius
	return true
}

func (s *Sensor) Offset() float64 {
	return s.params.Offset
}

// CalibrateOffset adjusts the offset so that a reading of measured
// becomes actual. Both values are in Celsius, measured including the
// offset currently in effect.
func (s *Sensor) CalibrateOffset(measured float64, actual float64) bool {
	return s.SetOffset(s.params.Offset + actual - measured)
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
