package hci

import "sync"

// ConnectedDevice identifies one central currently connected to this
// peripheral's controller.
type ConnectedDevice struct {
	Address     [6]byte
	AddressType byte
}

// ConnectionObserver is notified of centrals connecting and disconnecting,
// for logging -- see the "DeviceConnected / DeviceDisconnected -> emit to
// observers" event-loop routing rule.
type ConnectionObserver func(dev ConnectedDevice)

// devices tracks the set of currently connected centrals and fans
// connect/disconnect events out to registered observers.
type devices struct {
	mu        sync.Mutex
	connected map[[6]byte]ConnectedDevice

	onConnected    []ConnectionObserver
	onDisconnected []ConnectionObserver
}

func newDevices() *devices {
	return &devices{connected: make(map[[6]byte]ConnectedDevice)}
}

func (d *devices) observeConnected(fn ConnectionObserver) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.onConnected = append(d.onConnected, fn)
}

func (d *devices) observeDisconnected(fn ConnectionObserver) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.onDisconnected = append(d.onDisconnected, fn)
}

func (d *devices) connect(dev ConnectedDevice) {
	d.mu.Lock()
	d.connected[dev.Address] = dev
	observers := append([]ConnectionObserver(nil), d.onConnected...)
	d.mu.Unlock()
	for _, fn := range observers {
		fn(dev)
	}
}

func (d *devices) disconnect(dev ConnectedDevice) {
	d.mu.Lock()
	delete(d.connected, dev.Address)
	observers := append([]ConnectionObserver(nil), d.onDisconnected...)
	d.mu.Unlock()
	for _, fn := range observers {
		fn(dev)
	}
}

// Connected returns a snapshot of every currently connected central.
func (d *devices) Connected() []ConnectedDevice {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]ConnectedDevice, 0, len(d.connected))
	for _, dev := range d.connected {
		out = append(out, dev)
	}
	return out
}
