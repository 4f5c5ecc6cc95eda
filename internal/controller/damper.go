package controller

import (
	"context"
	"math"
	"sync"
	"time"

	"github.com/eggbot/eggbot/internal/actuators"
	"github.com/eggbot/eggbot/internal/configuration"
	"github.com/eggbot/eggbot/internal/pid"
	"github.com/eggbot/eggbot/internal/sensors"
	"github.com/eggbot/eggbot/internal/ui"
	"github.com/eggbot/eggbot/internal/util"
	cmap "github.com/orcaman/concurrent-map/v2"
)

var (
	ControllerMap = cmap.New[DamperController]()
)

type DamperController interface {
	GetId() string
	GetConfig() configuration.ControllerConfig

	// Run drives the damper until ctx is done, then closes it
	Run(ctx context.Context) error
	// Cycle executes a single read, compute and actuate step
	Cycle(now time.Time) error

	GetSetpoint() float64
	SetSetpoint(celsius float64) bool

	GetStatistics() Statistics
}

// Statistics is a snapshot of the state of a DamperController
type Statistics struct {
	Setpoint          float64   `json:"setpoint"`
	Temperature       float64   `json:"temperature"`
	Output            float64   `json:"output"`
	Pid               pid.State `json:"pid"`
	SensorFaultCount  int       `json:"sensorFaultCount"`
	ConsecutiveFaults int       `json:"consecutiveFaults"`
	ForcedClose       bool      `json:"forcedClose"`
}

type damperController struct {
	config   configuration.ControllerConfig
	sensor   sensors.Sensor
	actuator actuators.Actuator
	pid      *pid.Controller
	slew     *util.LinearLoop
	tickRate time.Duration

	start     time.Time
	now       func() time.Time
	lastCycle time.Time

	setpoint          float64
	output            float64
	outputWritten     bool
	consecutiveFaults int
	forcedClose       bool

	mu    sync.Mutex
	stats Statistics
}

func NewDamperController(
	config configuration.ControllerConfig,
	sensor sensors.Sensor,
	actuator actuators.Actuator,
	tickRate time.Duration,
) (DamperController, error) {
	preset, err := config.ResolvePreset()
	if err != nil {
		return nil, err
	}

	c := &damperController{
		config:   config,
		sensor:   sensor,
		actuator: actuator,
		pid:      pid.NewControllerFromPreset(preset),
		slew:     util.NewLinearLoop(config.MaxDamperRate),
		tickRate: tickRate,
		now:      time.Now,
		setpoint: config.Setpoint,
	}
	c.start = c.now()
	c.output = c.pid.OutputLimits().Min
	c.stats = Statistics{
		Setpoint:    c.setpoint,
		Temperature: math.NaN(),
		Output:      c.output,
		Pid:         c.pid.State(),
	}
	return c, nil
}

func (c *damperController) GetId() string {
	return c.config.ID
}

func (c *damperController) GetConfig() configuration.ControllerConfig {
	return c.config
}

func (c *damperController) Run(ctx context.Context) error {
	ui.Info("Starting controller loop for '%s' (sensor: %s, setpoint: %.1f°C)", c.GetId(), c.sensor.GetId(), c.GetSetpoint())

	tick := time.NewTicker(c.tickRate)
	defer tick.Stop()
	for {
		select {
		case <-ctx.Done():
			ui.Info("Closing damper of controller '%s'...", c.GetId())
			err := c.actuator.SetOutput(c.pid.OutputLimits().Min)
			if err != nil {
				ui.Warning("Unable to close damper of controller '%s', make sure the fire is safe: %v", c.GetId(), err)
			}
			return nil
		case <-tick.C:
			err := c.Cycle(c.now())
			if err != nil {
				ui.Error("Error in controller %s: %v", c.GetId(), err)
			}
		}
	}
}

func (c *damperController) Cycle(now time.Time) error {
	nowMs := now.Sub(c.start).Milliseconds()
	limits := c.pid.OutputLimits()

	target := c.output
	celsius, err := c.sensor.GetValue()
	if err != nil {
		c.consecutiveFaults++
		c.mu.Lock()
		c.stats.SensorFaultCount++
		c.mu.Unlock()
		ui.Debug("Controller %s: sensor %s unavailable (%d in a row): %v", c.GetId(), c.sensor.GetId(), c.consecutiveFaults, err)

		maxFaults := c.config.GetMaxConsecutiveFaults()
		if maxFaults > 0 && c.consecutiveFaults >= maxFaults {
			if !c.forcedClose {
				ui.WarningAndNotify("Sensor fault",
					"Sensor %s of controller %s failed %d times in a row, closing damper",
					c.sensor.GetId(), c.GetId(), c.consecutiveFaults)
				c.forcedClose = true
			}
			target = limits.Min
		} else if c.config.GetFaultPolicy() == configuration.FaultPolicyClose {
			target = limits.Min
		}
	} else {
		if c.forcedClose {
			ui.InfoAndNotify("Sensor recovered", "Sensor %s of controller %s recovered, resuming control", c.sensor.GetId(), c.GetId())
			c.forcedClose = false
			c.pid.Reset()
		}
		c.consecutiveFaults = 0

		target = c.pid.Compute(c.setpoint, celsius, nowMs)
		if !c.lastCycle.IsZero() && now.After(c.lastCycle) {
			target = c.slew.Loop(target, c.output, now.Sub(c.lastCycle))
		}
	}
	c.lastCycle = now

	if target != c.output || !c.outputWritten {
		err = c.actuator.SetOutput(target)
		if err != nil {
			c.publish(celsius)
			return err
		}
		c.output = target
		c.outputWritten = true
	}

	c.publish(celsius)
	return nil
}

func (c *damperController) publish(celsius float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stats.Setpoint = c.setpoint
	c.stats.Temperature = celsius
	c.stats.Output = c.output
	c.stats.Pid = c.pid.State()
	c.stats.ConsecutiveFaults = c.consecutiveFaults
	c.stats.ForcedClose = c.forcedClose
}

func (c *damperController) GetSetpoint() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stats.Setpoint
}

// SetSetpoint changes the target temperature, keeping the controller history.
// Must be called from the goroutine running the controller.
func (c *damperController) SetSetpoint(celsius float64) bool {
	if math.IsNaN(celsius) || math.IsInf(celsius, 0) {
		return false
	}
	c.setpoint = celsius
	c.mu.Lock()
	c.stats.Setpoint = celsius
	c.mu.Unlock()
	return true
}

func (c *damperController) GetStatistics() Statistics {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stats
}
