package hci

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDevicesConnectDisconnectObservers(t *testing.T) {
	d := newDevices()
	var connected, disconnected []ConnectedDevice
	d.observeConnected(func(dev ConnectedDevice) { connected = append(connected, dev) })
	d.observeDisconnected(func(dev ConnectedDevice) { disconnected = append(disconnected, dev) })

	dev := ConnectedDevice{Address: [6]byte{1, 2, 3, 4, 5, 6}, AddressType: 1}
	d.connect(dev)
	assert.Len(t, d.Connected(), 1)
	assert.Equal(t, []ConnectedDevice{dev}, connected)

	d.disconnect(dev)
	assert.Len(t, d.Connected(), 0)
	assert.Equal(t, []ConnectedDevice{dev}, disconnected)
}
