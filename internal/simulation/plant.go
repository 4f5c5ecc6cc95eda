// Package simulation models a cooker as a first-order thermal plant whose
// heat input is proportional to the damper opening.
package simulation

import (
	"sync"
	"time"

	"github.com/eggbot/eggbot/internal/util"
	cmap "github.com/orcaman/concurrent-map/v2"
)

var (
	// PlantMap holds the plants of all simulated sensors, keyed by sensor id
	PlantMap = cmap.New[*Plant]()
)

// maxStep bounds the integration step, longer intervals are split up
const maxStep = 100 * time.Millisecond

type PlantParams struct {
	// Ambient temperature in °C
	Ambient float64
	// Initial temperature in °C
	Initial float64
	// HeatGain is the temperature rise in °C/s at a fully open damper
	HeatGain float64
	// LossCoefficient is the fraction of the temperature difference to ambient lost per second
	LossCoefficient float64
}

func DefaultPlantParams() PlantParams {
	return PlantParams{
		Ambient:         20,
		Initial:         20,
		HeatGain:        1.5,
		LossCoefficient: 0.005,
	}
}

type Plant struct {
	mu sync.Mutex

	params      PlantParams
	temperature float64
	damper      float64
	lastUpdate  time.Time
}

func NewPlant(params PlantParams) *Plant {
	return &Plant{
		params:      params,
		temperature: params.Initial,
	}
}

func (p *Plant) Params() PlantParams {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.params
}

// SetDamper sets the damper opening in percent, clamped to 0..100
func (p *Plant) SetDamper(percent float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.damper = util.Coerce(percent, 0, 100)
}

func (p *Plant) Damper() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.damper
}

func (p *Plant) Temperature() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.temperature
}

// Step advances the plant by dt and returns the new temperature
func (p *Plant) Step(dt time.Duration) float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.step(dt)
	return p.temperature
}

// Update advances the plant by the wall time passed since the last update.
// The first call only records the timestamp.
func (p *Plant) Update(now time.Time) float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.lastUpdate.IsZero() && now.After(p.lastUpdate) {
		p.step(now.Sub(p.lastUpdate))
	}
	if p.lastUpdate.IsZero() || now.After(p.lastUpdate) {
		p.lastUpdate = now
	}
	return p.temperature
}

func (p *Plant) step(dt time.Duration) {
	for dt > 0 {
		h := dt
		if h > maxStep {
			h = maxStep
		}
		seconds := h.Seconds()
		heat := p.params.HeatGain * p.damper / 100
		loss := p.params.LossCoefficient * (p.temperature - p.params.Ambient)
		p.temperature += (heat - loss) * seconds
		dt -= h
	}
}
