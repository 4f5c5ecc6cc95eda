package configuration

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/eggbot/eggbot/internal/thermistor"
	"github.com/mitchellh/mapstructure"
)

// coefficientsHookFunc returns a mapstructure decode hook that allows
// Steinhart-Hart coefficients to be given as the name of a known
// thermistor model instead of the three values:
//
//	coefficients: 10k_3950
//	coefficients: { a: 0.001129148, b: 0.000234125, c: 0.0000000876741 }
func coefficientsHookFunc() mapstructure.DecodeHookFuncType {
	coefficientsType := reflect.TypeOf(thermistor.Coefficients{})

	return func(
		f reflect.Type,
		t reflect.Type,
		data interface{},
	) (interface{}, error) {
		if t != coefficientsType || f.Kind() != reflect.String {
			return data, nil
		}

		name := strings.ToLower(strings.TrimSpace(data.(string)))
		coefficients, ok := thermistor.Models[name]
		if !ok {
			return nil, fmt.Errorf("unknown thermistor model '%s'", name)
		}
		return coefficients, nil
	}
}
