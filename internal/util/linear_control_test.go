package util

import (
	"github.com/stretchr/testify/assert"
	"testing"
	"time"
)

func TestLinearLoop_LimitsChange(t *testing.T) {
	// GIVEN
	loop := NewLinearLoop(10)

	// WHEN
	up := loop.Loop(100, 20, 500*time.Millisecond)
	down := loop.Loop(0, 20, 1*time.Second)
	reached := loop.Loop(22, 20, 1*time.Second)

	// THEN
	assert.Equal(t, 25.0, up)
	assert.Equal(t, 10.0, down)
	assert.Equal(t, 22.0, reached)
}

func TestLinearLoop_Unlimited(t *testing.T) {
	// GIVEN
	loop := NewLinearLoop(0)

	// WHEN
	result := loop.Loop(100, 20, time.Millisecond)

	// THEN
	assert.Equal(t, 100.0, result)
}
