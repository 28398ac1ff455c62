package ggk

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestOptionsOverrideDefaults(t *testing.T) {
	cfg := defaultConfig()
	for _, opt := range []Option{
		ControllerIndex(1),
		CommandTimeout(5 * time.Second),
		MaxAsyncInitMs(2000),
		TickInterval(50 * time.Millisecond),
		Bondable(true),
		AdvertisingMode(2),
		BatteryTickAtZero(false),
	} {
		opt(&cfg)
	}

	assert.Equal(t, uint16(1), cfg.controllerIndex)
	assert.Equal(t, 5*time.Second, cfg.commandTimeout)
	assert.Equal(t, 2000, cfg.maxAsyncInitMs)
	assert.Equal(t, 50*time.Millisecond, cfg.tickInterval)
	assert.True(t, cfg.bondable)
	assert.Equal(t, byte(2), cfg.advertisingMode)
	assert.False(t, cfg.batteryTickAtZero)
}

func TestDefaultConfigMatchesSpecDefaults(t *testing.T) {
	cfg := defaultConfig()
	assert.Equal(t, 30*time.Second, cfg.commandTimeout)
	assert.Equal(t, 1000, cfg.maxAsyncInitMs)
	assert.Equal(t, 100*time.Millisecond, cfg.tickInterval)
	assert.True(t, cfg.batteryTickAtZero)
}
