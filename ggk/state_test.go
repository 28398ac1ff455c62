package ggk

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHealthExitCode(t *testing.T) {
	assert.Equal(t, 0, Ok.ExitCode())
	assert.Equal(t, 1, FailedInit.ExitCode())
	assert.Equal(t, 1, FailedRun.ExitCode())
}

func TestStateStrings(t *testing.T) {
	assert.Equal(t, "Uninitialized", Uninitialized.String())
	assert.Equal(t, "Running", Running.String())
	assert.Equal(t, "Stopped", Stopped.String())
}
