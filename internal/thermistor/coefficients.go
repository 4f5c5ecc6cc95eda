package thermistor

import (
	"fmt"
	"math"
)

const (
	// KelvinOffset is the offset between Celsius and Kelvin
	KelvinOffset = 273.15
)

const (
	Model10k3950      = "10k_3950"
	Model10k3435      = "10k_3435"
	ModelEpcosB57164K = "epcos_b57164k"
)

// Coefficients are the three Steinhart-Hart coefficients of an NTC thermistor.
type Coefficients struct {
	A float64 `json:"a" yaml:"a"`
	B float64 `json:"b" yaml:"b"`
	C float64 `json:"c" yaml:"c"`
}

var (
	// DefaultCoefficients describe a generic 10kΩ NTC with a beta of 3950,
	// which reads 25°C at 10kΩ.
	DefaultCoefficients = Coefficients{
		A: 0.001129148,
		B: 0.000234125,
		C: 0.0000000876741,
	}

	// Models maps well known thermistor part names to their coefficients.
	Models = map[string]Coefficients{
		Model10k3950: DefaultCoefficients,
		Model10k3435: {
			A: 0.001125308852122,
			B: 0.000234711863267,
			C: 0.000000085663516,
		},
		ModelEpcosB57164K: {
			A: 0.0007343140544,
			B: 0.0002157437229,
			C: 0.0000000951568577,
		},
	}
)

// Valid reports whether all coefficients are finite and not all zero.
func (c Coefficients) Valid() bool {
	for _, v := range []float64{c.A, c.B, c.C} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return c.A != 0 || c.B != 0 || c.C != 0
}

// InverseKelvin evaluates 1/T = A + B·ln(R) + C·ln(R)^3 for the given resistance.
func (c Coefficients) InverseKelvin(resistance float64) float64 {
	logR := math.Log(resistance)
	return c.A + c.B*logR + c.C*logR*logR*logR
}

// CoefficientsFromBeta derives coefficients from the simpler beta model,
// given the resistance r0 at temperature t0 (Celsius).
func CoefficientsFromBeta(r0 float64, t0 float64, beta float64) (Coefficients, error) {
	if r0 <= 0 || beta <= 0 || t0 <= -KelvinOffset {
		return Coefficients{}, fmt.Errorf("beta model r0=%v t0=%v beta=%v: %w", r0, t0, beta, ErrInvalidCoefficients)
	}
	b := 1.0 / beta
	return Coefficients{
		A: 1.0/(t0+KelvinOffset) - b*math.Log(r0),
		B: b,
		C: 0,
	}, nil
}

// CoefficientsFromPoints fits the Steinhart-Hart coefficients through three
// temperature (Celsius) / resistance (ohms) pairs. If the fitted C is not
// positive the points are better described by the beta model, which is
// derived from the first and last point instead.
func CoefficientsFromPoints(t1, r1, t2, r2, t3, r3 float64) (Coefficients, error) {
	if r1 <= 0 || r2 <= 0 || r3 <= 0 {
		return Coefficients{}, fmt.Errorf("non-positive resistance: %w", ErrInvalidCoefficients)
	}

	invT1 := 1.0 / (t1 + KelvinOffset)
	invT2 := 1.0 / (t2 + KelvinOffset)
	invT3 := 1.0 / (t3 + KelvinOffset)

	lnR1 := math.Log(r1)
	lnR2 := math.Log(r2)
	lnR3 := math.Log(r3)

	ln3R1 := lnR1 * lnR1 * lnR1
	ln3R2 := lnR2 * lnR2 * lnR2
	ln3R3 := lnR3 * lnR3 * lnR3

	invT12 := invT1 - invT2
	invT13 := invT1 - invT3
	lnR12 := lnR1 - lnR2
	lnR13 := lnR1 - lnR3
	ln3R12 := ln3R1 - ln3R2
	ln3R13 := ln3R1 - ln3R3

	var result Coefficients
	result.C = (invT12 - invT13*lnR12/lnR13) / (ln3R12 - ln3R13*lnR12/lnR13)
	if math.IsNaN(result.C) || math.IsInf(result.C, 0) || result.C <= 0 {
		beta := lnR13 / invT13
		return CoefficientsFromBeta(r1, t1, beta)
	}
	result.B = (invT12 - result.C*ln3R12) / lnR12
	result.A = invT1 - result.B*lnR1 - result.C*ln3R1

	if !result.Valid() {
		return Coefficients{}, ErrInvalidCoefficients
	}
	return result, nil
}

// ResistanceFromCelsius inverts the Steinhart-Hart equation, returning the
// resistance the thermistor has at the given temperature.
func (c Coefficients) ResistanceFromCelsius(celsius float64) (float64, error) {
	if celsius <= -KelvinOffset {
		return 0, fmt.Errorf("%v°C: %w", celsius, ErrTemperatureOutOfRange)
	}
	invT := 1.0 / (celsius + KelvinOffset)

	var lnR float64
	if c.C == 0 {
		if c.B == 0 {
			return 0, ErrInvalidCoefficients
		}
		lnR = (invT - c.A) / c.B
	} else {
		// solve C·x³ + B·x + (A - 1/T) = 0 for x = ln(R)
		y := (c.A - invT) / (2 * c.C)
		x := math.Sqrt(math.Pow(c.B/(3*c.C), 3) + y*y)
		lnR = math.Cbrt(x-y) - math.Cbrt(x+y)
	}

	r := math.Exp(lnR)
	if math.IsNaN(r) || math.IsInf(r, 0) {
		return 0, ErrInvalidCoefficients
	}
	return r, nil
}
