package transport

import (
	"github.com/godbus/dbus/v5"

	"github.com/code-in-the-cup/gobbledegook/gatt"
)

// Unknown object/interface/method replies are never constructed by hand
// here: conn.Export's reflection dispatch already returns
// org.freedesktop.DBus.Error.UnknownObject/UnknownInterface/UnknownMethod
// for anything not registered on the bus, which is the behavior wanted
// for those three cases.
var (
	dbusErrorNotPermitted    = dbus.NewError("org.bluez.Error.NotPermitted", nil)
	dbusErrorNotSupported    = dbus.NewError("org.bluez.Error.NotSupported", nil)
	dbusErrorUnknownProperty = dbus.NewError("org.freedesktop.DBus.Error.UnknownProperty", nil)
	dbusErrorFailed          = dbus.NewError("org.bluez.Error.Failed", nil)
	dbusErrorInvalidOffset   = dbus.NewError("org.bluez.Error.InvalidOffset", nil)
)

// toDBusError maps an error returned by a ReadHandler/WriteHandler into a
// BlueZ-flavored D-Bus error reply. gatt.AttError codes map to specific
// named errors where BlueZ defines one; everything else becomes the
// generic Failed, carrying the original message for diagnosability.
func toDBusError(err error) *dbus.Error {
	if err == nil {
		return nil
	}
	if ae, ok := err.(gatt.AttError); ok {
		switch ae {
		case gatt.AttErrInvalidOffset:
			return dbusErrorInvalidOffset
		default:
			return dbus.NewError("org.bluez.Error.Failed", []interface{}{err.Error()})
		}
	}
	if _, ok := err.(*gatt.ConfigError); ok {
		return dbusErrorFailed
	}
	return dbus.NewError("org.bluez.Error.Failed", []interface{}{err.Error()})
}
