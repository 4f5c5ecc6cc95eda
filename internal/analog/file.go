package analog

import (
	"fmt"
	"strings"

	"github.com/eggbot/eggbot/internal/util"
)

// FileSource reads a raw sample from a file, e.g. an IIO "in_voltageX_raw" attribute.
// A "%d" in Path is replaced with the channel.
type FileSource struct {
	Path string `json:"path"`
}

func (source *FileSource) ReadRaw(channel int) (int, error) {
	filePath := strings.ReplaceAll(source.Path, "%d", fmt.Sprintf("%d", channel))
	filePath, err := util.ResolveHomePath(filePath)
	if err != nil {
		return 0, err
	}

	value, err := util.ReadIntFromFile(filePath)
	if err != nil {
		return 0, fmt.Errorf("unable to read raw value from %s: %w", filePath, err)
	}
	return value, nil
}
