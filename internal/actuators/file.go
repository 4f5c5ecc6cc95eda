package actuators

import (
	"fmt"
	"math"
	"sync"

	"github.com/eggbot/eggbot/internal/util"
)

// FileActuator writes the damper opening as an integer percentage to a file
type FileActuator struct {
	ID   string `json:"id"`
	Path string `json:"path"`

	mu     sync.Mutex
	output float64
}

func (actuator *FileActuator) GetId() string {
	return actuator.ID
}

func (actuator *FileActuator) SetOutput(percent float64) error {
	filePath, err := util.ResolveHomePath(actuator.Path)
	if err != nil {
		return err
	}

	value := int(math.Round(percent))
	err = util.WriteIntToFileAtomic(value, filePath)
	if err != nil {
		return fmt.Errorf("actuator %s: unable to write to %s: %w", actuator.ID, filePath, err)
	}

	actuator.mu.Lock()
	actuator.output = percent
	actuator.mu.Unlock()
	return nil
}

func (actuator *FileActuator) GetOutput() float64 {
	actuator.mu.Lock()
	defer actuator.mu.Unlock()
	return actuator.output
}
