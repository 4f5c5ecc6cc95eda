package util

import (
	"errors"
	"fmt"
	"os"
	"os/user"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"

	"github.com/natefinch/atomic"
)

// CheckFilePermissionsForExecution checks whether the given filePath owner, group and permissions
// are safe to use this file for execution by eggbot.
func CheckFilePermissionsForExecution(filePath string) (bool, error) {
	var file = filePath

	file, err := filepath.EvalSymlinks(file)
	if err != nil {
		return false, err
	}

	info, err := os.Stat(file)
	if os.IsNotExist(err) {
		return false, errors.New("file not found")
	}

	stat := info.Sys().(*syscall.Stat_t)
	if stat.Uid != 0 {
		return false, errors.New("owner is not root")
	}

	if stat.Gid != 0 {
		mode := info.Mode()
		groupWrite := mode & (os.FileMode(0o020))
		if groupWrite != 0 {
			return false, errors.New("group is not root but has write permission")
		}
	}

	otherWrite := info.Mode() & (os.FileMode(0o002))
	if otherWrite != 0 {
		return false, errors.New("others have write permission")
	}

	return true, nil
}

// ResolveHomePath expands a leading "~" to the home directory of the current user
func ResolveHomePath(path string) (string, error) {
	if !strings.HasPrefix(path, "~") {
		return path, nil
	}
	currentUser, err := user.Current()
	if err != nil {
		return path, err
	}
	return filepath.Join(currentUser.HomeDir, path[1:]), nil
}

func ReadIntFromFile(path string) (value int, err error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return -1, err
	}
	text := string(data)
	if len(text) <= 0 {
		return -1, fmt.Errorf("file is empty: %s", path)
	}
	text = strings.TrimSpace(text)
	value, err = strconv.Atoi(text)
	return value, err
}

func resolvePath(path string) (string, error) {
	return filepath.EvalSymlinks(path)
}

// WriteIntToFileAtomic writes a single integer to the given path, replacing
// the file content atomically
func WriteIntToFileAtomic(value int, path string) error {
	evaluatedPath, err := resolvePath(path)
	if len(evaluatedPath) > 0 && err == nil {
		path = evaluatedPath
	}
	valueAsString := fmt.Sprintf("%d", value)
	valueReader := strings.NewReader(valueAsString)
	return atomic.WriteFile(path, valueReader)
}
