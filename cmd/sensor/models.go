package sensor

import (
	"github.com/eggbot/eggbot/internal/thermistor"
	"github.com/eggbot/eggbot/internal/util"
)

func modelNames() []string {
	return util.SortedKeys(thermistor.Models)
}
