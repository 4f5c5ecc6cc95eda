package analog

import (
	"math/rand"
	"sync"
	"time"

	"github.com/eggbot/eggbot/internal/simulation"
	"github.com/eggbot/eggbot/internal/thermistor"
	"github.com/eggbot/eggbot/internal/util"
)

// SimulatedSource produces the ADC codes a thermistor inside the given
// plant would produce.
type SimulatedSource struct {
	plant  *simulation.Plant
	params thermistor.Params
	noise  int

	mu     sync.Mutex
	random *rand.Rand
	now    func() time.Time
}

func NewSimulatedSource(plant *simulation.Plant, params thermistor.Params, noise int) *SimulatedSource {
	return &SimulatedSource{
		plant:  plant,
		params: params,
		noise:  noise,
		random: rand.New(rand.NewSource(time.Now().UnixNano())),
		now:    time.Now,
	}
}

// NewSteppedSimulatedSource creates a source which never advances the plant,
// the caller is expected to do so using Plant.Step.
func NewSteppedSimulatedSource(plant *simulation.Plant, params thermistor.Params) *SimulatedSource {
	source := NewSimulatedSource(plant, params, 0)
	source.now = nil
	return source
}

func (source *SimulatedSource) Plant() *simulation.Plant {
	return source.plant
}

func (source *SimulatedSource) ReadRaw(channel int) (int, error) {
	temperature := source.plant.Temperature()
	if source.now != nil {
		// advance the plant with wall time
		temperature = source.plant.Update(source.now())
	}

	resistance, err := source.params.Coefficients.ResistanceFromCelsius(temperature)
	if err != nil {
		return 0, err
	}

	adcMax := source.params.AdcMax()
	adc := thermistor.ADCFromResistance(resistance, source.params.ReferenceResistor, adcMax)
	if source.noise > 0 {
		source.mu.Lock()
		adc += source.random.Intn(2*source.noise+1) - source.noise
		source.mu.Unlock()
	}
	return util.Coerce(adc, 0, adcMax), nil
}
