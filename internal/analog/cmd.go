package analog

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/eggbot/eggbot/internal/util"
)

const cmdTimeout = 2 * time.Second

// CmdSource executes a command which prints a single raw sample.
// A "%d" in Args is replaced with the channel.
type CmdSource struct {
	Exec string   `json:"exec"`
	Args []string `json:"args"`
}

func (source *CmdSource) ReadRaw(channel int) (int, error) {
	args := util.ReplacePlaceholder(source.Args, channel)
	result, err := util.SafeCmdExecution(source.Exec, args, cmdTimeout)
	if err != nil {
		return 0, err
	}

	value, err := strconv.Atoi(strings.TrimSpace(result))
	if err != nil {
		return 0, fmt.Errorf("unable to parse raw value from output of %s: %w", source.Exec, err)
	}
	return value, nil
}
