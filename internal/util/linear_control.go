package util

import "time"

// LinearLoop limits how fast a value may follow its target, by changing it
// at most by a fixed amount per second.
type LinearLoop struct {
	changePerSecond float64
}

// NewLinearLoop creates a LinearLoop. A changePerSecond <= 0 disables the limit.
func NewLinearLoop(changePerSecond float64) *LinearLoop {
	return &LinearLoop{
		changePerSecond: changePerSecond,
	}
}

// Loop returns the value that approaches target from current after dt.
func (l *LinearLoop) Loop(target float64, current float64, dt time.Duration) float64 {
	if l.changePerSecond <= 0 {
		return target
	}
	maxChangeThisStep := l.changePerSecond * dt.Seconds()
	return current + Coerce(target-current, -maxChangeThisStep, maxChangeThisStep)
}
