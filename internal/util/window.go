package util

import "github.com/asecurityteam/rolling"

func CreateRollingWindow(size int) *rolling.PointPolicy {
	return rolling.NewPointPolicy(rolling.NewWindow(size))
}

// GetWindowAvg returns the average of all values in the window. Slots that
// have never been written count as 0.
func GetWindowAvg(window *rolling.PointPolicy) float64 {
	return window.Reduce(rolling.Avg)
}
