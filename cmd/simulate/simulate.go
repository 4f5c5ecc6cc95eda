package simulate

import (
	"fmt"
	"time"

	"github.com/eggbot/eggbot/internal/actuators"
	"github.com/eggbot/eggbot/internal/analog"
	"github.com/eggbot/eggbot/internal/configuration"
	"github.com/eggbot/eggbot/internal/controller"
	"github.com/eggbot/eggbot/internal/pid"
	"github.com/eggbot/eggbot/internal/sensors"
	"github.com/eggbot/eggbot/internal/simulation"
	"github.com/eggbot/eggbot/internal/thermistor"
	"github.com/eggbot/eggbot/internal/ui"
	"github.com/eggbot/eggbot/internal/util"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"
)

type options struct {
	Setpoint      float64
	Preset        string
	Duration      time.Duration
	Step          time.Duration
	MaxDamperRate float64
	Plant         simulation.PlantParams
	Height        int
	Width         int
}

var opts = options{
	Plant: simulation.DefaultPlantParams(),
}

var Command = &cobra.Command{
	Use:   "simulate",
	Short: "Run a PID controller against a simulated cooker",
	Long: `Runs the damper controller against a first order thermal model of a cooker,
using a simulated clock, and plots the resulting temperature curve.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, ok := pid.Presets[opts.Preset]; !ok {
			return fmt.Errorf("unknown preset '%s'", opts.Preset)
		}
		if opts.Step <= 0 || opts.Duration < opts.Step {
			return fmt.Errorf("duration must be at least one step")
		}

		trace, err := run(opts)
		if err != nil {
			return err
		}

		graph := asciigraph.PlotMany(
			[][]float64{trace.Temperature, trace.Setpoint, trace.Damper},
			asciigraph.Height(opts.Height),
			asciigraph.Width(opts.Width),
			asciigraph.SeriesColors(asciigraph.Red, asciigraph.Green, asciigraph.Blue),
			asciigraph.Caption(fmt.Sprintf("°C (red), setpoint (green), damper %% (blue) over %s", opts.Duration)),
		)
		ui.Printfln("%s", graph)

		summary := trace.Summarize(opts.Setpoint, 2.0)
		ui.Info("Final temperature: %.1f°C, damper: %.1f%% (mean %.1f%%)", summary.Final, summary.FinalDamper, summary.MeanDamper)
		ui.Info("Peak temperature: %.1f°C (overshoot %.1f°C)", summary.Peak, summary.Overshoot)
		if summary.Reached {
			ui.Info("Reached setpoint ±2°C after %s", summary.TimeToSetpoint)
		} else {
			ui.Warning("Setpoint was not reached within %s", opts.Duration)
		}
		return nil
	},
}

// Trace holds one sample per simulated step
type Trace struct {
	Step        time.Duration
	Temperature []float64
	Setpoint    []float64
	Damper      []float64
}

type Summary struct {
	Final          float64
	FinalDamper    float64
	// MeanDamper is the average damper opening over the last tenth of the trace
	MeanDamper     float64
	Peak           float64
	Overshoot      float64
	Reached        bool
	TimeToSetpoint time.Duration
}

func run(o options) (Trace, error) {
	plant := simulation.NewPlant(o.Plant)

	params := thermistor.DefaultParams()
	params.SettleDelay = 0
	source := analog.NewSteppedSimulatedSource(plant, params)
	t, err := thermistor.NewSensor(source, 0, params)
	if err != nil {
		return Trace{}, err
	}

	config := configuration.ControllerConfig{
		ID:            "simulation",
		Sensor:        "simulation",
		Setpoint:      o.Setpoint,
		Preset:        o.Preset,
		MaxDamperRate: o.MaxDamperRate,
		Actuator: configuration.ActuatorConfig{
			Virtual: &configuration.VirtualActuatorConfig{},
		},
	}
	sensor := sensors.NewThermistorSensor(configuration.SensorConfig{ID: "simulation"}, t, 1)
	actuator := actuators.NewVirtualActuator(config.ID, plant)
	damperController, err := controller.NewDamperController(config, sensor, actuator, o.Step)
	if err != nil {
		return Trace{}, err
	}

	trace := Trace{Step: o.Step}
	now := time.Now()
	for elapsed := time.Duration(0); elapsed < o.Duration; elapsed += o.Step {
		err = damperController.Cycle(now.Add(elapsed))
		if err != nil {
			return trace, err
		}
		plant.Step(o.Step)

		trace.Temperature = append(trace.Temperature, plant.Temperature())
		trace.Setpoint = append(trace.Setpoint, o.Setpoint)
		trace.Damper = append(trace.Damper, actuator.GetOutput())
	}
	return trace, nil
}

// Summarize evaluates the trace against the setpoint, tolerance is the band
// around the setpoint that counts as reached
func (t Trace) Summarize(setpoint float64, tolerance float64) Summary {
	var s Summary
	if len(t.Temperature) == 0 {
		return s
	}
	s.Peak = util.Max(t.Temperature)
	for i, temperature := range t.Temperature {
		if !s.Reached && temperature >= setpoint-tolerance {
			s.Reached = true
			s.TimeToSetpoint = time.Duration(i+1) * t.Step
		}
	}
	s.Final = t.Temperature[len(t.Temperature)-1]
	s.FinalDamper = t.Damper[len(t.Damper)-1]
	tail := len(t.Damper) / 10
	if tail < 1 {
		tail = 1
	}
	s.MeanDamper = util.Avg(t.Damper[len(t.Damper)-tail:])
	if s.Peak > setpoint {
		s.Overshoot = s.Peak - setpoint
	}
	return s
}

func init() {
	Command.Flags().Float64VarP(&opts.Setpoint, "setpoint", "s", 110, "Target temperature in °C")
	Command.Flags().StringVarP(&opts.Preset, "preset", "p", pid.PresetConservative, "PID tuning preset")
	Command.Flags().DurationVarP(&opts.Duration, "duration", "d", 2*time.Hour, "Simulated time span")
	Command.Flags().DurationVar(&opts.Step, "step", time.Second, "Simulated time per controller cycle")
	Command.Flags().Float64Var(&opts.MaxDamperRate, "max-damper-rate", 0, "Max damper movement in %/s, 0 is unlimited")
	Command.Flags().Float64Var(&opts.Plant.Ambient, "ambient", opts.Plant.Ambient, "Ambient temperature in °C")
	Command.Flags().Float64Var(&opts.Plant.Initial, "initial", opts.Plant.Initial, "Initial cooker temperature in °C")
	Command.Flags().Float64Var(&opts.Plant.HeatGain, "heat-gain", opts.Plant.HeatGain, "Temperature rise in °C/s at a fully open damper")
	Command.Flags().Float64Var(&opts.Plant.LossCoefficient, "loss", opts.Plant.LossCoefficient, "Fraction of the difference to ambient lost per second")
	Command.Flags().IntVar(&opts.Height, "height", 15, "Graph height")
	Command.Flags().IntVar(&opts.Width, "width", 100, "Graph width")
}
