package client

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWindowCoversViewportPlusOverscan(t *testing.T) {
	v := Virtualizer{ItemSize: 50, Viewport: 500, Overscan: 3}

	// At the top only trailing overscan applies
	start, end := v.Window(0, 1000)
	assert.Equal(t, 0, start)
	assert.Equal(t, 13, end)

	// Mid-list the window extends both ways
	start, end = v.Window(1000, 1000)
	assert.Equal(t, 17, start)
	assert.Equal(t, 33, end)
}

func TestWindowClampsToItemCount(t *testing.T) {
	v := Virtualizer{ItemSize: 50, Viewport: 500, Overscan: 3}

	start, end := v.Window(10_000_000, 40)
	assert.Equal(t, 40, start)
	assert.Equal(t, 40, end)

	start, end = v.Window(0, 5)
	assert.Equal(t, 0, start)
	assert.Equal(t, 5, end)

	start, end = v.Window(0, 0)
	assert.Equal(t, 0, start)
	assert.Equal(t, 0, end)

	start, end = v.Window(-100, 10)
	assert.Equal(t, 0, start)
}

func TestLoadTriggerFiresOncePerCount(t *testing.T) {
	trigger := &LoadTrigger{Threshold: 3}

	assert.False(t, trigger.ShouldLoad(10, 30, false), "far from the end")
	assert.True(t, trigger.ShouldLoad(26, 30, false), "crossed the threshold")
	assert.False(t, trigger.ShouldLoad(27, 30, false), "already fired for this count")
	assert.False(t, trigger.ShouldLoad(29, 30, false))

	// More items arrived: the marker re-arms
	assert.True(t, trigger.ShouldLoad(37, 40, false))
	assert.False(t, trigger.ShouldLoad(39, 40, false))
}

func TestLoadTriggerSuppressedWhileFetchInFlight(t *testing.T) {
	trigger := &LoadTrigger{Threshold: 3}

	assert.False(t, trigger.ShouldLoad(28, 30, true))
	// Once the fetch lands the same crossing may fire
	assert.True(t, trigger.ShouldLoad(28, 30, false))
}

func TestLoadTriggerIgnoresEmptyList(t *testing.T) {
	trigger := &LoadTrigger{Threshold: 3}
	assert.False(t, trigger.ShouldLoad(0, 0, false))
}
