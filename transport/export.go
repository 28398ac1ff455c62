package transport

import (
	"github.com/godbus/dbus/v5"
	"github.com/godbus/dbus/v5/introspect"
	"github.com/pkg/errors"

	"github.com/code-in-the-cup/gobbledegook/gatt"
)

// export publishes every node in t.tree onto the bus: one
// org.freedesktop.DBus.Properties object per node, plus
// org.bluez.GattCharacteristic1/GattDescriptor1 method tables where the
// kind calls for it, plus a single root-level ObjectManager.
func (t *Transport) export() error {
	for _, h := range t.tree.All() {
		if err := t.exportNode(h); err != nil {
			return errors.Wrapf(err, "export %s", h.Path())
		}
	}
	om := &objectManager{t: t}
	if err := t.conn.Export(om, t.tree.Root(), "org.freedesktop.DBus.ObjectManager"); err != nil {
		return errors.Wrap(err, "export ObjectManager")
	}
	node := introspect.Node{Name: string(t.tree.Root())}
	t.conn.Export(introspect.NewIntrospectable(&node), t.tree.Root(), "org.freedesktop.DBus.Introspectable")
	return nil
}

func (t *Transport) exportNode(h *gatt.Handle) error {
	props := &propsObject{t: t, h: h}
	if err := t.conn.Export(props, h.Path(), "org.freedesktop.DBus.Properties"); err != nil {
		return err
	}
	switch h.Kind() {
	case "characteristic":
		obj := &charObject{t: t, h: h}
		return t.conn.Export(obj, h.Path(), "org.bluez.GattCharacteristic1")
	case "descriptor":
		obj := &descObject{t: t, h: h}
		return t.conn.Export(obj, h.Path(), "org.bluez.GattDescriptor1")
	default:
		return nil
	}
}

// charObject backs org.bluez.GattCharacteristic1 for one characteristic
// node. Method receivers of type dbus.Sender are populated by godbus from
// the call's sender field without appearing in the D-Bus signature.
type charObject struct {
	t *Transport
	h *gatt.Handle
}

func (c *charObject) ReadValue(options map[string]dbus.Variant, sender dbus.Sender) ([]byte, *dbus.Error) {
	if !c.h.Flags().Has(gatt.FlagRead) {
		return nil, dbusErrorNotPermitted
	}
	v, err := c.h.ReadValue(string(sender))
	if err != nil {
		return nil, toDBusError(err)
	}
	return v.AsBytes(), nil
}

func (c *charObject) WriteValue(value []byte, options map[string]dbus.Variant, sender dbus.Sender) *dbus.Error {
	if !c.h.Flags().WriteCapable() {
		return dbusErrorNotPermitted
	}
	if err := c.h.WriteValue(string(sender), value); err != nil {
		return toDBusError(err)
	}
	return nil
}

func (c *charObject) StartNotify(sender dbus.Sender) *dbus.Error {
	if !c.h.Flags().NotifyCapable() {
		return dbusErrorNotSupported
	}
	c.h.SetNotifying(true)
	return nil
}

func (c *charObject) StopNotify(sender dbus.Sender) *dbus.Error {
	c.h.SetNotifying(false)
	return nil
}

func (c *charObject) Confirm(sender dbus.Sender) *dbus.Error { return nil }

// descObject backs org.bluez.GattDescriptor1 for one descriptor node.
type descObject struct {
	t *Transport
	h *gatt.Handle
}

func (d *descObject) ReadValue(options map[string]dbus.Variant, sender dbus.Sender) ([]byte, *dbus.Error) {
	if !d.h.Flags().Has(gatt.FlagRead) {
		return nil, dbusErrorNotPermitted
	}
	v, err := d.h.ReadValue(string(sender))
	if err != nil {
		return nil, toDBusError(err)
	}
	return v.AsBytes(), nil
}

func (d *descObject) WriteValue(value []byte, options map[string]dbus.Variant, sender dbus.Sender) *dbus.Error {
	if !d.h.Flags().WriteCapable() {
		return dbusErrorNotPermitted
	}
	if err := d.h.WriteValue(string(sender), value); err != nil {
		return toDBusError(err)
	}
	return nil
}

// propsObject backs org.freedesktop.DBus.Properties for one node, of
// whatever kind.
type propsObject struct {
	t *Transport
	h *gatt.Handle
}

func (p *propsObject) Get(iface, name string) (dbus.Variant, *dbus.Error) {
	all, err := p.all()
	if err != nil {
		return dbus.Variant{}, toDBusError(err)
	}
	v, ok := all[name]
	if !ok {
		return dbus.Variant{}, dbusErrorUnknownProperty
	}
	return v, nil
}

func (p *propsObject) GetAll(iface string) (map[string]dbus.Variant, *dbus.Error) {
	all, err := p.all()
	if err != nil {
		return nil, toDBusError(err)
	}
	return all, nil
}

func (p *propsObject) Set(iface, name string, value dbus.Variant) *dbus.Error {
	return dbusErrorNotPermitted
}

func (p *propsObject) all() (map[string]dbus.Variant, error) {
	mo := p.t.tree.ManagedObjects()
	obj, ok := mo[p.h.Path()]
	if !ok {
		return nil, errors.New("node vanished from tree")
	}
	for _, props := range obj {
		return props, nil
	}
	return map[string]dbus.Variant{}, nil
}

// objectManager backs org.freedesktop.DBus.ObjectManager at the
// application's root path.
type objectManager struct {
	t *Transport
}

func (o *objectManager) GetManagedObjects() (map[dbus.ObjectPath]map[string]map[string]dbus.Variant, *dbus.Error) {
	return o.t.tree.ManagedObjects(), nil
}
