package util

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/eggbot/eggbot/internal/ui"
)

func SafeCmdExecution(executable string, args []string, timeout time.Duration) (string, error) {
	if _, err := CheckFilePermissionsForExecution(executable); err != nil {
		return "", fmt.Errorf("cannot execute %s: %w", executable, err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, executable, args...)
	out, err := cmd.Output()

	if ctx.Err() == context.DeadlineExceeded {
		ui.Warning("Command timed out: %s", executable)
		return "", ctx.Err()
	}

	if err != nil {
		ui.Warning("Command failed to execute: %s", executable)
		return "", err
	}

	strout := string(out)
	strout = strings.Trim(strout, "\n")

	return strout, nil
}

// ReplacePlaceholder returns a copy of args in which every "%d" is replaced
// with the given value
func ReplacePlaceholder(args []string, value int) []string {
	result := make([]string, 0, len(args))
	for _, arg := range args {
		result = append(result, strings.ReplaceAll(arg, "%d", fmt.Sprintf("%d", value)))
	}
	return result
}
