package transport

import (
	"github.com/godbus/dbus/v5"

	"github.com/code-in-the-cup/gobbledegook/gatt"
)

// EmitChanged reads h's current value, compares it against the value last
// reported in a PropertiesChanged signal, and -- if they differ -- emits
// PropertiesChanged and updates the cached last-emitted value. The caller
// (the server's notify-queue drain) is responsible for deciding which
// handles need checking on a given tick; EmitChanged itself is idempotent
// when called with no actual change.
func (t *Transport) EmitChanged(h *gatt.Handle) error {
	t.mu.RLock()
	conn := t.conn
	t.mu.RUnlock()
	if conn == nil {
		return nil
	}

	current, err := h.ReadValue("")
	if err != nil {
		return err
	}
	if current.Equal(h.LastEmitted()) {
		return nil
	}
	h.SetLastEmitted(current)

	iface := ifaceName(h)
	changed := map[string]dbus.Variant{"Value": dbus.MakeVariant(current.AsBytes())}
	return conn.Emit(h.Path(), "org.freedesktop.DBus.Properties.PropertiesChanged", iface, changed, []string{})
}

func ifaceName(h *gatt.Handle) string {
	switch h.Kind() {
	case "characteristic":
		return "org.bluez.GattCharacteristic1"
	case "descriptor":
		return "org.bluez.GattDescriptor1"
	default:
		return "org.bluez.GattService1"
	}
}
