package transport

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/code-in-the-cup/gobbledegook/gatt"
)

func TestNameStateString(t *testing.T) {
	assert.Equal(t, "Idle", NameIdle.String())
	assert.Equal(t, "Requesting", NameRequesting.String())
	assert.Equal(t, "Owned", NameOwned.String())
	assert.Equal(t, "Lost", NameLost.String())
}

func TestToDBusErrorMapsInvalidOffset(t *testing.T) {
	derr := toDBusError(gatt.AttErrInvalidOffset)
	assert.Equal(t, "org.bluez.Error.InvalidOffset", derr.Name)
}

func TestToDBusErrorDefaultsToFailed(t *testing.T) {
	derr := toDBusError(assertErr("boom"))
	assert.Equal(t, "org.bluez.Error.Failed", derr.Name)
}

func TestToDBusErrorNilIsNil(t *testing.T) {
	assert.Nil(t, toDBusError(nil))
}

type assertErr string

func (e assertErr) Error() string { return string(e) }
