package thermistor

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSource struct {
	values []int
	err    error
	calls  int
}

func (f *fakeSource) ReadRaw(channel int) (int, error) {
	if f.err != nil {
		f.calls++
		return 0, f.err
	}
	value := f.values[f.calls%len(f.values)]
	f.calls++
	return value, nil
}

func createSensor(t *testing.T, values ...int) (*Sensor, *fakeSource) {
	source := &fakeSource{values: values}
	params := DefaultParams()
	params.SettleDelay = 0
	sensor, err := NewSensor(source, 0, params)
	require.NoError(t, err)
	return sensor, source
}

func TestNewSensor_InvalidParams(t *testing.T) {
	tests := []struct {
		name   string
		modify func(p *Params)
	}{
		{name: "no samples", modify: func(p *Params) { p.SampleCount = 0 }},
		{name: "zero reference resistor", modify: func(p *Params) { p.ReferenceResistor = 0 }},
		{name: "nan reference resistor", modify: func(p *Params) { p.ReferenceResistor = math.NaN() }},
		{name: "inf reference resistor", modify: func(p *Params) { p.ReferenceResistor = math.Inf(1) }},
		{name: "nan min resistance", modify: func(p *Params) { p.MinResistance = math.NaN() }},
		{name: "inf max resistance", modify: func(p *Params) { p.MaxResistance = math.Inf(1) }},
		{name: "nan min temperature", modify: func(p *Params) { p.MinTemperature = math.NaN() }},
		{name: "nan max temperature", modify: func(p *Params) { p.MaxTemperature = math.NaN() }},
		{name: "inverted temperature range", modify: func(p *Params) { p.MinTemperature, p.MaxTemperature = 400, -20 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// GIVEN
			source := &fakeSource{values: []int{512}}
			params := DefaultParams()
			tt.modify(&params)

			// WHEN
			sensor, err := NewSensor(source, 0, params)

			// THEN
			assert.Nil(t, sensor)
			assert.ErrorIs(t, err, ErrInvalidParams)
		})
	}
}

func TestNewSensor_MissingSource(t *testing.T) {
	// WHEN
	sensor, err := NewSensor(nil, 0, DefaultParams())

	// THEN
	assert.Nil(t, sensor)
	assert.ErrorIs(t, err, ErrInvalidParams)
}

func TestParams_AdcMax(t *testing.T) {
	params := DefaultParams()
	assert.Equal(t, 1023, params.AdcMax())

	params.AdcBits = 16
	assert.Equal(t, 65535, params.AdcMax())
}

func TestReadRaw_Average(t *testing.T) {
	// GIVEN
	sensor, source := createSensor(t, 500, 502, 504, 506, 508, 510, 512, 514, 516, 518)

	// WHEN
	result := sensor.ReadRaw()

	// THEN
	assert.Equal(t, 509, result)
	assert.Equal(t, DefaultSampleCount, source.calls)
}

func TestReadRaw_DiscardsOutOfRangeSamples(t *testing.T) {
	// GIVEN
	sensor, _ := createSensor(t, -5, 2000, 510, 1024, 514)

	// WHEN
	result := sensor.ReadRaw()

	// THEN
	assert.Equal(t, 512, result)
}

func TestReadRaw_NoValidSamples(t *testing.T) {
	// GIVEN
	sensor, _ := createSensor(t, -1, 5000)

	// WHEN
	result := sensor.ReadRaw()

	// THEN
	assert.Equal(t, NoReading, result)
}

func TestReadRaw_SourceError(t *testing.T) {
	// GIVEN
	sensor, source := createSensor(t, 512)
	source.err = errors.New("i2c timeout")

	// WHEN
	result := sensor.ReadRaw()

	// THEN
	assert.Equal(t, NoReading, result)
	assert.True(t, math.IsNaN(sensor.TemperatureCelsius()))
}

func TestReadRaw_SettlesBetweenSamples(t *testing.T) {
	// GIVEN
	source := &fakeSource{values: []int{512}}
	sensor, err := NewSensor(source, 0, DefaultParams())
	require.NoError(t, err)
	var sleeps []time.Duration
	sensor.sleep = func(d time.Duration) {
		sleeps = append(sleeps, d)
	}

	// WHEN
	sensor.ReadRaw()

	// THEN
	assert.Len(t, sleeps, DefaultSampleCount-1)
	for _, d := range sleeps {
		assert.Equal(t, DefaultSettleDelay, d)
	}
}

func TestResistanceFromADC_SaturationBoundaries(t *testing.T) {
	sensor, _ := createSensor(t, 512)

	for _, adc := range []int{0, 1023, -1, 4096} {
		// WHEN
		_, err := sensor.ResistanceFromADC(adc)

		// THEN
		assert.ErrorIs(t, err, ErrAdcSaturated, "adc %d", adc)
	}
}

func TestResistanceFromADC_Midscale(t *testing.T) {
	// GIVEN
	sensor, _ := createSensor(t, 512)

	// WHEN
	result, err := sensor.ResistanceFromADC(512)

	// THEN
	assert.NoError(t, err)
	assert.InDelta(t, 9980.47, result, 0.01)
}

func TestResistanceFromADC_OutsidePlausibleBand(t *testing.T) {
	sensor, _ := createSensor(t, 512)

	// 1 -> ~10.2MΩ (open), 1022 -> ~9.8Ω (short)
	for _, adc := range []int{1, 1022} {
		// WHEN
		_, err := sensor.ResistanceFromADC(adc)

		// THEN
		assert.ErrorIs(t, err, ErrResistanceOutOfRange, "adc %d", adc)
	}
}

func TestTemperatureCelsius_NaNForImplausibleResistance(t *testing.T) {
	for _, adc := range []int{1, 1022} {
		// GIVEN
		sensor, _ := createSensor(t, adc)

		// WHEN
		result := sensor.TemperatureCelsius()

		// THEN
		assert.True(t, math.IsNaN(result), "adc %d", adc)
		assert.True(t, math.IsNaN(sensor.TemperatureFahrenheit()), "adc %d", adc)
	}
}

func TestTemperatureCelsius_NominalRoundTrip(t *testing.T) {
	// GIVEN
	sensor, _ := createSensor(t, 0)
	adc := sensor.ADCFromResistance(DefaultReferenceResistor)
	sensor, _ = createSensor(t, adc)

	// WHEN
	result := sensor.TemperatureCelsius()

	// THEN
	assert.Equal(t, 512, adc)
	assert.InDelta(t, 25.0, result, 0.5)
}

func TestCelsiusFromResistance_Nominal(t *testing.T) {
	// GIVEN
	sensor, _ := createSensor(t, 512)

	// WHEN
	result, err := sensor.CelsiusFromResistance(10000)

	// THEN
	assert.NoError(t, err)
	assert.InDelta(t, 25.0, result, 0.05)
}

func TestReadTemperature_OutOfRange(t *testing.T) {
	// GIVEN
	source := &fakeSource{values: []int{512}}
	params := DefaultParams()
	params.SettleDelay = 0
	params.MaxTemperature = 20
	sensor, err := NewSensor(source, 3, params)
	require.NoError(t, err)

	// WHEN
	result, err := sensor.ReadTemperature()

	// THEN
	assert.True(t, math.IsNaN(result))
	assert.ErrorIs(t, err, ErrTemperatureOutOfRange)
	assert.True(t, math.IsNaN(sensor.TemperatureCelsius()))
}

func TestReadTemperature_ReportsFailingStage(t *testing.T) {
	tests := []struct {
		name     string
		values   []int
		expected error
	}{
		{name: "no reading", values: []int{-1}, expected: ErrNoReading},
		{name: "shorted", values: []int{1023}, expected: ErrAdcSaturated},
		{name: "open", values: []int{0}, expected: ErrAdcSaturated},
		{name: "implausible", values: []int{1}, expected: ErrResistanceOutOfRange},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sensor, _ := createSensor(t, tt.values...)

			_, err := sensor.ReadTemperature()

			assert.ErrorIs(t, err, tt.expected)
		})
	}
}

func TestTemperatureFahrenheit(t *testing.T) {
	// GIVEN
	sensor, _ := createSensor(t, 512)
	celsius := sensor.TemperatureCelsius()

	// WHEN
	result := sensor.TemperatureFahrenheit()

	// THEN
	assert.InDelta(t, celsius*9/5+32, result, 0.0001)
	assert.InDelta(t, 77.0, result, 1.0)
	assert.True(t, math.IsNaN(CelsiusToFahrenheit(math.NaN())))
}

func TestSetCalibration(t *testing.T) {
	// GIVEN
	sensor, _ := createSensor(t, 512)
	before := sensor.TemperatureCelsius()
	epcos := Models[ModelEpcosB57164K]

	// WHEN
	ok := sensor.SetCalibration(epcos.A, epcos.B, epcos.C)

	// THEN
	assert.True(t, ok)
	assert.Equal(t, epcos, sensor.Calibration())
	assert.NotEqual(t, before, sensor.TemperatureCelsius())

	// WHEN
	ok = sensor.SetCalibration(math.NaN(), 0, 0)

	// THEN
	assert.False(t, ok)
	assert.Equal(t, epcos, sensor.Calibration())
}

func TestCalibrateOffset(t *testing.T) {
	// GIVEN
	sensor, _ := createSensor(t, 512)
	measured := sensor.TemperatureCelsius()

	// WHEN
	ok := sensor.CalibrateOffset(measured, 30.0)

	// THEN
	assert.True(t, ok)
	assert.InDelta(t, 30.0, sensor.TemperatureCelsius(), 0.0001)
	assert.InDelta(t, 30.0-measured, sensor.Offset(), 0.0001)
}

func TestResistanceFromCelsius_RoundTrip(t *testing.T) {
	sensor, _ := createSensor(t, 512)

	for _, celsius := range []float64{-10, 0, 25, 80, 110, 225, 350} {
		// WHEN
		resistance, err := DefaultCoefficients.ResistanceFromCelsius(celsius)
		require.NoError(t, err)
		result, err := sensor.CelsiusFromResistance(resistance)

		// THEN
		assert.NoError(t, err)
		assert.InDelta(t, celsius, result, 0.001)
	}
}

func TestCoefficientsFromBeta(t *testing.T) {
	// GIVEN
	coefficients, err := CoefficientsFromBeta(10000, 25, 3950)
	require.NoError(t, err)

	// WHEN
	invKelvin := coefficients.InverseKelvin(10000)

	// THEN
	assert.Equal(t, 0.0, coefficients.C)
	assert.InDelta(t, 25.0, 1/invKelvin-KelvinOffset, 0.0001)

	// WHEN
	_, err = CoefficientsFromBeta(0, 25, 3950)

	// THEN
	assert.ErrorIs(t, err, ErrInvalidCoefficients)
}

func TestCoefficientsFromPoints(t *testing.T) {
	// GIVEN
	r1, _ := DefaultCoefficients.ResistanceFromCelsius(25)
	r2, _ := DefaultCoefficients.ResistanceFromCelsius(100)
	r3, _ := DefaultCoefficients.ResistanceFromCelsius(200)

	// WHEN
	coefficients, err := CoefficientsFromPoints(25, r1, 100, r2, 200, r3)

	// THEN
	require.NoError(t, err)
	assert.InDelta(t, DefaultCoefficients.A, coefficients.A, 1e-6)
	assert.InDelta(t, DefaultCoefficients.B, coefficients.B, 1e-7)
	assert.InDelta(t, DefaultCoefficients.C, coefficients.C, 1e-9)

	r, _ := DefaultCoefficients.ResistanceFromCelsius(150)
	assert.InDelta(t, 150.0, 1/coefficients.InverseKelvin(r)-KelvinOffset, 0.01)
}
