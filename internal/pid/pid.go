// Package pid implements a sampled PID controller with conditional
// integration anti-windup.
//
// A Controller is not safe for concurrent use.
package pid

import (
	"math"

	"github.com/eggbot/eggbot/internal/util"
)

const (
	DefaultSampleTimeMs = 1000
	DefaultOutputMin    = 0.0
	DefaultOutputMax    = 100.0
)

type Gains struct {
	Kp float64 `json:"kp"`
	Ki float64 `json:"ki"`
	Kd float64 `json:"kd"`
}

type Limits struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

func (l Limits) valid() bool {
	return isFinite(l.Min) && isFinite(l.Max) && l.Min < l.Max
}

// State is a snapshot of the runtime state of a Controller.
type State struct {
	Running    bool    `json:"running"`
	LastError  float64 `json:"lastError"`
	Integral   float64 `json:"integral"`
	LastOutput float64 `json:"lastOutput"`
	LastTimeMs int64   `json:"lastTimeMs"`
}

type Controller struct {
	gains        Gains
	limits       Limits
	sampleTimeMs int64

	// error of the last accepted computation
	lastError float64
	// accumulated integral term, in output units
	integral float64
	// output of the last accepted computation
	lastOutput float64
	// timestamp of the last accepted computation
	lastTimeMs int64
	running    bool
}

// NewController creates a controller in the uninitialized state. If min
// and max do not form a valid range, the default 0..100 range is used.
func NewController(kp, ki, kd, min, max float64) *Controller {
	limits := Limits{Min: min, Max: max}
	if !limits.valid() {
		limits = Limits{Min: DefaultOutputMin, Max: DefaultOutputMax}
	}
	c := &Controller{
		limits:       limits,
		sampleTimeMs: DefaultSampleTimeMs,
	}
	if !c.SetGains(kp, ki, kd) {
		c.gains = Gains{}
	}
	c.Reset()
	return c
}

// Compute advances the controller. nowMs is a monotonic timestamp in
// milliseconds supplied by the caller.
//
// Once running, calls arriving less than the sample time after the last
// accepted call return the last output without touching any state.
func (c *Controller) Compute(setpoint float64, measurement float64, nowMs int64) float64 {
	if !isFinite(setpoint) || !isFinite(measurement) {
		return c.lastOutput
	}

	var dt float64
	if c.running {
		elapsed := nowMs - c.lastTimeMs
		if elapsed < c.sampleTimeMs {
			return c.lastOutput
		}
		dt = float64(elapsed) / 1000.0
	} else {
		// no previous timestamp, assume one nominal period has passed
		dt = float64(c.sampleTimeMs) / 1000.0
	}

	err := setpoint - measurement

	// --- P Term ---
	proportionalTerm := c.gains.Kp * err

	// --- I Term ---
	if dt > 0 {
		candidate := c.integral + c.gains.Ki*err*dt
		// only integrate while the result would not saturate the output
		if p := proportionalTerm + candidate; p >= c.limits.Min && p <= c.limits.Max {
			c.integral = candidate
		}
		c.integral = util.Coerce(c.integral, c.limits.Min, c.limits.Max)
	}

	// --- D Term ---
	derivativeTerm := 0.0
	if c.running && dt > 0 {
		derivativeTerm = c.gains.Kd * (err - c.lastError) / dt
	}

	output := proportionalTerm + c.integral + derivativeTerm
	if math.IsNaN(output) {
		output = c.lastOutput
	}
	output = util.Coerce(output, c.limits.Min, c.limits.Max)

	c.lastError = err
	c.lastTimeMs = nowMs
	c.lastOutput = output
	c.running = true

	return output
}

// SetGains replaces the gains without discarding the integral or history.
// Non-finite gains are ignored.
func (c *Controller) SetGains(kp, ki, kd float64) bool {
	if !isFinite(kp) || !isFinite(ki) || !isFinite(kd) {
		return false
	}
	c.gains = Gains{Kp: kp, Ki: ki, Kd: kd}
	return true
}

func (c *Controller) Gains() Gains {
	return c.gains
}

// SetOutputLimits replaces the output range and re-clamps the integral
// and the last output into it. An empty range is ignored.
func (c *Controller) SetOutputLimits(min, max float64) bool {
	limits := Limits{Min: min, Max: max}
	if !limits.valid() {
		return false
	}
	c.limits = limits
	c.integral = util.Coerce(c.integral, min, max)
	c.lastOutput = util.Coerce(c.lastOutput, min, max)
	return true
}

func (c *Controller) OutputLimits() Limits {
	return c.limits
}

// SetSampleTime sets the minimum interval between two accepted
// computations. Values <= 0 are ignored.
func (c *Controller) SetSampleTime(ms int64) bool {
	if ms <= 0 {
		return false
	}
	c.sampleTimeMs = ms
	return true
}

func (c *Controller) SampleTime() int64 {
	return c.sampleTimeMs
}

// Reset returns the controller to the uninitialized state, keeping its
// configuration. The integral and last output restart at 0 clamped into the
// output range, so a range with a positive minimum starts them at that minimum.
func (c *Controller) Reset() {
	c.integral = util.Coerce(0, c.limits.Min, c.limits.Max)
	c.lastError = 0
	c.lastOutput = util.Coerce(0, c.limits.Min, c.limits.Max)
	c.lastTimeMs = 0
	c.running = false
}

func (c *Controller) LastOutput() float64 {
	return c.lastOutput
}

func (c *Controller) LastError() float64 {
	return c.lastError
}

func (c *Controller) Integral() float64 {
	return c.integral
}

// IsRunning reports whether at least one computation was accepted since
// construction or the last Reset.
func (c *Controller) IsRunning() bool {
	return c.running
}

func (c *Controller) State() State {
	return State{
		Running:    c.running,
		LastError:  c.lastError,
		Integral:   c.integral,
		LastOutput: c.lastOutput,
		LastTimeMs: c.lastTimeMs,
	}
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
