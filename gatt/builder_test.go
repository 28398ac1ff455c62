package gatt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildDeviceInfoTree(t *testing.T) *Tree {
	t.Helper()
	b := NewBuilder("/com/gobbledegook")
	tree, err := b.
		ServiceBegin("device-info", "180A", true).
		CharacteristicBegin("manufacturer", "2A29", FlagRead).
		OnReadValue(func(ctx *Context, self *Handle) (Variant, error) {
			return VariantBytes([]byte("Acme Inc.")), nil
		}).
		CharacteristicEnd().
		ServiceEnd().
		Build()
	require.NoError(t, err)
	return tree
}

// TestScenarioS1DeviceInfoRead: a device-info service's manufacturer
// characteristic reads back its declared string value as raw bytes.
func TestScenarioS1DeviceInfoRead(t *testing.T) {
	tree := buildDeviceInfoTree(t)
	h, ok := tree.Lookup("/com/gobbledegook/device-info/manufacturer")
	require.True(t, ok)

	v, err := h.n().onRead(&Context{}, h)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x41, 0x63, 0x6d, 0x65, 0x20, 0x49, 0x6e, 0x63, 0x2e}, v.Bytes)
}

func TestBuilderUnbalancedEndFails(t *testing.T) {
	b := NewBuilder("/com/gobbledegook")
	_, err := b.ServiceBegin("svc", "180A", true).
		CharacteristicBegin("ch", "2A19", FlagRead).
		ServiceEnd(). // wrong: should be CharacteristicEnd first
		Build()
	assert.Error(t, err)
}

func TestBuilderUnclosedBeginFails(t *testing.T) {
	b := NewBuilder("/com/gobbledegook")
	_, err := b.ServiceBegin("svc", "180A", true).Build()
	assert.Error(t, err)
}

func TestBuilderDuplicatePathFails(t *testing.T) {
	b := NewBuilder("/com/gobbledegook")
	_, err := b.
		ServiceBegin("svc", "180A", true).
		CharacteristicBegin("ch", "2A19", FlagRead).CharacteristicEnd().
		CharacteristicBegin("ch", "2A1A", FlagRead).CharacteristicEnd().
		ServiceEnd().
		Build()
	assert.Error(t, err)
}

func TestBuilderNotifyWithoutUpdatedHandlerFails(t *testing.T) {
	b := NewBuilder("/com/gobbledegook")
	_, err := b.
		ServiceBegin("battery", "180F", true).
		CharacteristicBegin("level", "2A19", FlagRead|FlagNotify).
		CharacteristicEnd().
		ServiceEnd().
		Build()
	assert.Error(t, err)
}

func TestBuilderNestedServiceRejected(t *testing.T) {
	b := NewBuilder("/com/gobbledegook")
	_, err := b.
		ServiceBegin("outer", "180A", true).
		ServiceBegin("inner", "180F", true).
		Build()
	assert.Error(t, err)
}

func TestBuilderDescriptorMustNestUnderCharacteristic(t *testing.T) {
	b := NewBuilder("/com/gobbledegook")
	_, err := b.
		ServiceBegin("svc", "180A", true).
		DescriptorBegin("desc", "2902", FlagRead).
		Build()
	assert.Error(t, err)
}

func TestTreeManagedObjects(t *testing.T) {
	tree := buildDeviceInfoTree(t)
	mo := tree.ManagedObjects()
	svc, ok := mo["/com/gobbledegook/device-info"]
	require.True(t, ok)
	props, ok := svc["org.bluez.GattService1"]
	require.True(t, ok)
	assert.Equal(t, true, props["Primary"].Value())

	char, ok := mo["/com/gobbledegook/device-info/manufacturer"]
	require.True(t, ok)
	cprops, ok := char["org.bluez.GattCharacteristic1"]
	require.True(t, ok)
	assert.Equal(t, []byte("Acme Inc."), cprops["Value"].Value())
}
