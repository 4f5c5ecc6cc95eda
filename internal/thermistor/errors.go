package thermistor

import "errors"

var (
	ErrNoReading             = errors.New("no valid adc reading")
	ErrAdcSaturated          = errors.New("adc value at saturation boundary, open or shorted circuit")
	ErrResistanceOutOfRange  = errors.New("resistance outside plausible range")
	ErrTemperatureOutOfRange = errors.New("temperature outside plausible range")
	ErrInvalidCoefficients   = errors.New("invalid Steinhart-Hart coefficients")
	ErrInvalidParams         = errors.New("invalid thermistor parameters")
)
