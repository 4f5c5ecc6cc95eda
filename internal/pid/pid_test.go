package pid

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewController(t *testing.T) {
	// GIVEN
	p, i, d := 1.0, 2.0, 3.0

	// WHEN
	controller := NewController(p, i, d, 10, 90)

	// THEN
	assert.Equal(t, Gains{Kp: p, Ki: i, Kd: d}, controller.Gains())
	assert.Equal(t, Limits{Min: 10, Max: 90}, controller.OutputLimits())
	assert.Equal(t, int64(DefaultSampleTimeMs), controller.SampleTime())
	assert.False(t, controller.IsRunning())
	assert.Equal(t, 10.0, controller.Integral())
	assert.Equal(t, 10.0, controller.LastOutput())
}

func TestNewController_InvalidLimits(t *testing.T) {
	// WHEN
	controller := NewController(1, 0, 0, 100, 0)

	// THEN
	assert.Equal(t, Limits{Min: DefaultOutputMin, Max: DefaultOutputMax}, controller.OutputLimits())
}

func TestCompute_FirstCall(t *testing.T) {
	// GIVEN
	controller := NewController(1.0, 0.1, 0.05, 0, 100)

	// WHEN
	output := controller.Compute(225, 200, 1000)

	// THEN
	assert.InDelta(t, 27.5, output, 1e-9)
	assert.InDelta(t, 2.5, controller.Integral(), 1e-9)
	assert.Equal(t, 25.0, controller.LastError())
	assert.True(t, controller.IsRunning())
}

func TestCompute_Derivative(t *testing.T) {
	// GIVEN
	controller := NewController(1.0, 0.1, 0.05, 0, 100)
	controller.Compute(225, 200, 1000)

	// WHEN
	output := controller.Compute(225, 210, 2000)

	// THEN
	// P = 15, I = 2.5 + 1.5, D = 0.05 * (15 - 25) / 1
	assert.InDelta(t, 18.5, output, 1e-9)
	assert.InDelta(t, 4.0, controller.Integral(), 1e-9)
}

func TestCompute_RateLimited(t *testing.T) {
	// GIVEN
	controller := NewController(1.0, 0.1, 0.05, 0, 100)
	first := controller.Compute(225, 200, 1000)
	state := controller.State()

	// WHEN
	second := controller.Compute(225, 150, 1999)

	// THEN
	assert.Equal(t, first, second)
	assert.Equal(t, state, controller.State())

	// WHEN
	third := controller.Compute(225, 150, 2000)

	// THEN
	assert.NotEqual(t, first, third)
	assert.Equal(t, int64(2000), controller.State().LastTimeMs)
}

func TestCompute_NonMonotonicTimestamp(t *testing.T) {
	// GIVEN
	controller := NewController(1.0, 0.1, 0.05, 0, 100)
	first := controller.Compute(225, 200, 5000)
	state := controller.State()

	// WHEN
	second := controller.Compute(225, 100, 1000)

	// THEN
	assert.Equal(t, first, second)
	assert.Equal(t, state, controller.State())
}

func TestCompute_NaNMeasurement(t *testing.T) {
	// GIVEN
	controller := NewController(1.0, 0.1, 0.05, 0, 100)
	first := controller.Compute(225, 200, 1000)
	state := controller.State()

	// WHEN
	second := controller.Compute(225, math.NaN(), 3000)

	// THEN
	assert.Equal(t, first, second)
	assert.Equal(t, state, controller.State())
}

func TestCompute_AntiWindup(t *testing.T) {
	// GIVEN
	controller := NewController(1.0, 1.0, 0.0, 0, 100)

	// WHEN
	// a constant large error for ten simulated minutes
	var output float64
	for now := int64(1000); now <= 600_000; now += 1000 {
		output = controller.Compute(250, 200, now)

		// THEN
		assert.LessOrEqual(t, controller.Integral(), 100.0)
		assert.GreaterOrEqual(t, controller.Integral(), 0.0)
	}
	assert.Equal(t, 100.0, output)
	assert.InDelta(t, 50.0, controller.Integral(), 1e-9)

	// WHEN
	output = controller.Compute(250, 260, 601_000)

	// THEN
	// P = -10, I = 50 - 10
	assert.InDelta(t, 30.0, output, 1e-9)
	assert.Less(t, output, 100.0)
}

func TestCompute_AntiWindup_SaturatedByProportional(t *testing.T) {
	// GIVEN
	controller := NewController(10.0, 1.0, 0.0, 0, 100)

	// WHEN
	for now := int64(1000); now <= 300_000; now += 1000 {
		controller.Compute(300, 100, now)
	}

	// THEN
	assert.Equal(t, 0.0, controller.Integral())
	assert.Equal(t, 100.0, controller.LastOutput())

	// WHEN
	output := controller.Compute(300, 305, 301_000)

	// THEN
	assert.Equal(t, 0.0, output)
}

func TestCompute_AlwaysWithinBounds(t *testing.T) {
	random := rand.New(rand.NewSource(42))

	for run := 0; run < 200; run++ {
		// GIVEN
		min := random.Float64()*200 - 100
		max := min + random.Float64()*200 + 0.001
		controller := NewController(
			random.NormFloat64()*50,
			random.NormFloat64()*10,
			random.NormFloat64()*50,
			min, max,
		)

		now := int64(0)
		for step := 0; step < 50; step++ {
			now += random.Int63n(3000)
			setpoint := random.Float64()*1000 - 500
			measurement := random.Float64()*1000 - 500

			// WHEN
			output := controller.Compute(setpoint, measurement, now)

			// THEN
			assert.GreaterOrEqual(t, output, min)
			assert.LessOrEqual(t, output, max)
			assert.GreaterOrEqual(t, controller.Integral(), min)
			assert.LessOrEqual(t, controller.Integral(), max)
		}
	}
}

func TestReset(t *testing.T) {
	// GIVEN
	fresh := NewController(1.0, 0.1, 0.05, 0, 100)
	used := NewController(1.0, 0.1, 0.05, 0, 100)
	for now := int64(1000); now <= 20_000; now += 1000 {
		used.Compute(225, 150, now)
	}

	// WHEN
	used.Reset()

	// THEN
	assert.False(t, used.IsRunning())
	assert.Equal(t, fresh.State(), used.State())

	// WHEN
	expected := fresh.Compute(225, 200, 50_000)
	result := used.Compute(225, 200, 50_000)

	// THEN
	assert.Equal(t, expected, result)
	assert.Equal(t, fresh.State(), used.State())
}

func TestReset_PositiveMinimum(t *testing.T) {
	// GIVEN
	controller := NewController(1.0, 0.1, 0, 20, 80)
	controller.Compute(225, 150, 1000)

	// WHEN
	controller.Reset()

	// THEN
	assert.Equal(t, 20.0, controller.Integral())
	assert.Equal(t, 20.0, controller.LastOutput())
}

func TestSetGains_KeepsHistory(t *testing.T) {
	// GIVEN
	controller := NewController(1.0, 0.1, 0.05, 0, 100)
	controller.Compute(225, 200, 1000)
	state := controller.State()

	// WHEN
	ok := controller.SetGains(2.0, 0.2, 0.1)

	// THEN
	assert.True(t, ok)
	assert.Equal(t, Gains{Kp: 2.0, Ki: 0.2, Kd: 0.1}, controller.Gains())
	assert.Equal(t, state, controller.State())

	// WHEN
	ok = controller.SetGains(math.Inf(1), 0, 0)

	// THEN
	assert.False(t, ok)
	assert.Equal(t, Gains{Kp: 2.0, Ki: 0.2, Kd: 0.1}, controller.Gains())
}

func TestSetOutputLimits(t *testing.T) {
	// GIVEN
	controller := NewController(1.0, 1.0, 0, 0, 100)
	controller.Compute(250, 200, 1000)
	assert.Equal(t, 50.0, controller.Integral())

	// WHEN
	ok := controller.SetOutputLimits(0, 30)

	// THEN
	assert.True(t, ok)
	assert.Equal(t, Limits{Min: 0, Max: 30}, controller.OutputLimits())
	assert.Equal(t, 30.0, controller.Integral())
	assert.Equal(t, 30.0, controller.LastOutput())

	// WHEN
	ok = controller.SetOutputLimits(50, 50)

	// THEN
	assert.False(t, ok)
	assert.Equal(t, Limits{Min: 0, Max: 30}, controller.OutputLimits())
}

func TestSetSampleTime(t *testing.T) {
	// GIVEN
	controller := NewController(1.0, 0.1, 0.05, 0, 100)

	// WHEN
	assert.False(t, controller.SetSampleTime(0))
	assert.False(t, controller.SetSampleTime(-5))

	// THEN
	assert.Equal(t, int64(DefaultSampleTimeMs), controller.SampleTime())

	// WHEN
	assert.True(t, controller.SetSampleTime(250))
	controller.Compute(225, 200, 1000)
	state := controller.State()
	controller.Compute(225, 100, 1200)

	// THEN
	assert.Equal(t, state, controller.State())
	controller.Compute(225, 100, 1250)
	assert.Equal(t, int64(1250), controller.State().LastTimeMs)
}

func TestPresets(t *testing.T) {
	for name, preset := range Presets {
		// WHEN
		controller := NewControllerFromPreset(preset)

		// THEN
		assert.Equal(t, name, preset.Name)
		assert.Equal(t, preset.Gains, controller.Gains())
		assert.Equal(t, preset.Limits, controller.OutputLimits())
		assert.Equal(t, preset.SampleTimeMs, controller.SampleTime())
	}
}

func TestApplyPreset_KeepsHistory(t *testing.T) {
	// GIVEN
	controller := NewController(1.0, 1.0, 0, 0, 100)
	controller.Compute(250, 200, 1000)

	// WHEN
	ok := controller.ApplyPreset(Presets[PresetSlowCook])

	// THEN
	assert.True(t, ok)
	assert.True(t, controller.IsRunning())
	assert.Equal(t, 50.0, controller.Integral())
	assert.Equal(t, Limits{Min: 0, Max: 80}, controller.OutputLimits())
	assert.Equal(t, int64(3000), controller.SampleTime())
}
