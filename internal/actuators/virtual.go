package actuators

import (
	"sync"

	"github.com/eggbot/eggbot/internal/simulation"
)

type VirtualActuator struct {
	ID string `json:"id"`

	mu     sync.Mutex
	output float64
	plant  *simulation.Plant
}

// NewVirtualActuator creates an in-memory actuator, plant may be nil
func NewVirtualActuator(id string, plant *simulation.Plant) *VirtualActuator {
	return &VirtualActuator{
		ID:    id,
		plant: plant,
	}
}

func (actuator *VirtualActuator) GetId() string {
	return actuator.ID
}

func (actuator *VirtualActuator) SetOutput(percent float64) error {
	actuator.mu.Lock()
	actuator.output = percent
	actuator.mu.Unlock()

	if actuator.plant != nil {
		actuator.plant.SetDamper(percent)
	}
	return nil
}

func (actuator *VirtualActuator) GetOutput() float64 {
	actuator.mu.Lock()
	defer actuator.mu.Unlock()
	return actuator.output
}
