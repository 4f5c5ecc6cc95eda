package actuators

import (
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/eggbot/eggbot/internal/util"
)

const cmdTimeout = 2 * time.Second

// CmdActuator executes a command to move the damper. A "%d" in Args is
// replaced with the opening in percent.
type CmdActuator struct {
	ID   string   `json:"id"`
	Exec string   `json:"exec"`
	Args []string `json:"args"`

	mu     sync.Mutex
	output float64
}

func (actuator *CmdActuator) GetId() string {
	return actuator.ID
}

func (actuator *CmdActuator) SetOutput(percent float64) error {
	args := util.ReplacePlaceholder(actuator.Args, int(math.Round(percent)))
	_, err := util.SafeCmdExecution(actuator.Exec, args, cmdTimeout)
	if err != nil {
		return fmt.Errorf("actuator %s: %w", actuator.ID, err)
	}

	actuator.mu.Lock()
	actuator.output = percent
	actuator.mu.Unlock()
	return nil
}

func (actuator *CmdActuator) GetOutput() float64 {
	actuator.mu.Lock()
	defer actuator.mu.Unlock()
	return actuator.output
}
