package transport

import (
	"github.com/godbus/dbus/v5"
	"github.com/pkg/errors"
)

// RegisterApplication calls org.bluez.GattManager1.RegisterApplication on
// the adapter object at adapterPath (typically /org/bluez/hci0),
// publishing t.tree.Root() as the application root. A failure here is a
// TransportError: registration is part of standing up the D-Bus side of
// the server, fatal at init the same way losing the bus connection is.
func (t *Transport) RegisterApplication(adapterPath dbus.ObjectPath) error {
	obj := t.conn.Object("org.bluez", adapterPath)
	call := obj.Call("org.bluez.GattManager1.RegisterApplication", 0,
		t.tree.Root(), map[string]dbus.Variant{})
	if call.Err != nil {
		return wrapErr(errors.Wrapf(call.Err, "RegisterApplication on %s", adapterPath))
	}
	return nil
}

// UnregisterApplication calls org.bluez.GattManager1.UnregisterApplication
// on adapterPath, undoing a prior RegisterApplication.
func (t *Transport) UnregisterApplication(adapterPath dbus.ObjectPath) error {
	obj := t.conn.Object("org.bluez", adapterPath)
	call := obj.Call("org.bluez.GattManager1.UnregisterApplication", 0, t.tree.Root())
	if call.Err != nil {
		return wrapErr(errors.Wrapf(call.Err, "UnregisterApplication on %s", adapterPath))
	}
	return nil
}
