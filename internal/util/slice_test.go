package util

import (
	"github.com/stretchr/testify/assert"
	"testing"
)

func TestMax(t *testing.T) {
	// GIVEN
	values := []float64{3, -1, 7, 2}

	// THEN
	assert.Equal(t, 7.0, Max(values))
	assert.Equal(t, 0.0, Max(nil))
}

func TestSortedKeys(t *testing.T) {
	// GIVEN
	input := map[string]int{
		"slow_cook": 1,
		"aggressive": 2,
		"precise":    3,
	}

	// WHEN
	result := SortedKeys(input)

	// THEN
	assert.Equal(t, []string{"aggressive", "precise", "slow_cook"}, result)
}

func TestReplacePlaceholder(t *testing.T) {
	// GIVEN
	args := []string{"--channel", "%d", "raw%d"}

	// WHEN
	result := ReplacePlaceholder(args, 3)

	// THEN
	assert.Equal(t, []string{"--channel", "3", "raw3"}, result)
	assert.Equal(t, "%d", args[1])
}
