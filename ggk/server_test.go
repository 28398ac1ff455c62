package ggk

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/code-in-the-cup/gobbledegook/gatt"
)

// resetSingleton clears package-level server state between tests, since
// the singleton is process-wide by design.
func resetSingleton(t *testing.T) {
	t.Helper()
	singletonMu.Lock()
	singleton = nil
	singletonMu.Unlock()
}

func TestStartFailsInitWhenConfigureErrors(t *testing.T) {
	resetSingleton(t)
	ok := Start("com.example.test", "eg", "example", func(b *gatt.Builder, bridge *gatt.Bridge) error {
		return errors.New("boom")
	}, nil)

	require.False(t, ok)
	assert.Equal(t, Stopped, GetRunState())
	assert.Equal(t, FailedInit, GetHealth())
	assert.True(t, Wait() == false)
}

func TestStartFailsInitWhenBuilderUnbalanced(t *testing.T) {
	resetSingleton(t)
	ok := Start("com.example.test", "eg", "example", func(b *gatt.Builder, bridge *gatt.Bridge) error {
		b.ServiceBegin("svc", "180A", true)
		return nil
	}, nil)

	require.False(t, ok)
	assert.Equal(t, FailedInit, GetHealth())
}

func TestGetRunStateUninitializedWithNoSingleton(t *testing.T) {
	resetSingleton(t)
	assert.Equal(t, Uninitialized, GetRunState())
	assert.Equal(t, Ok, GetHealth())
}

func TestTriggerShutdownNoopWithNoSingleton(t *testing.T) {
	resetSingleton(t)
	assert.NotPanics(t, func() { TriggerShutdown() })
}

func TestNotifyUpdatedCharacteristicNoopWithNoSingleton(t *testing.T) {
	resetSingleton(t)
	assert.NotPanics(t, func() { NotifyUpdatedCharacteristic("/does/not/matter") })
}
