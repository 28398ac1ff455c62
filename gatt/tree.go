package gatt

import "github.com/godbus/dbus/v5"

// Tree is the fully built, read-only GATT object tree. It is produced
// once by Builder.Build and never mutated afterward: built once during
// initialization, then left alone for the rest of the process's life.
type Tree struct {
	root  dbus.ObjectPath
	nodes []node
	byPath map[dbus.ObjectPath]int
}

// Root returns the tree's root object path.
func (t *Tree) Root() dbus.ObjectPath { return t.root }

// Handle returns a Handle for the node at idx.
func (t *Tree) Handle(idx int) *Handle { return &Handle{tree: t, idx: idx} }

// Lookup returns a Handle for the node at path, or false if none exists.
func (t *Tree) Lookup(path dbus.ObjectPath) (*Handle, bool) { return t.lookup(path) }

func (t *Tree) lookup(path dbus.ObjectPath) (*Handle, bool) {
	idx, ok := t.byPath[path]
	if !ok {
		return nil, false
	}
	return t.Handle(idx), true
}

// All returns a Handle for every node in the tree, in declaration order.
func (t *Tree) All() []*Handle {
	out := make([]*Handle, len(t.nodes))
	for i := range t.nodes {
		out[i] = t.Handle(i)
	}
	return out
}

// Services returns a Handle for every top-level service in the tree.
func (t *Tree) Services() []*Handle {
	var out []*Handle
	for i := range t.nodes {
		if t.nodes[i].kind == kindService {
			out = append(out, t.Handle(i))
		}
	}
	return out
}

// Characteristics returns a Handle for every characteristic belonging to
// the service svc.
func (t *Tree) Characteristics(svc *Handle) []*Handle {
	var out []*Handle
	for i := range t.nodes {
		if t.nodes[i].kind == kindCharacteristic && t.nodes[i].svc == svc.idx {
			out = append(out, t.Handle(i))
		}
	}
	return out
}

// Descriptors returns a Handle for every descriptor belonging to the
// characteristic ch.
func (t *Tree) Descriptors(ch *Handle) []*Handle {
	var out []*Handle
	for i := range t.nodes {
		if t.nodes[i].kind == kindDescriptor && t.nodes[i].ch == ch.idx {
			out = append(out, t.Handle(i))
		}
	}
	return out
}

// EventBindings returns every (node, binding) pair with a periodic
// OnEvent handler attached, for the loop's tick dispatch.
func (t *Tree) EventBindings() []EventBinding {
	var out []EventBinding
	for i := range t.nodes {
		for _, eb := range t.nodes[i].events {
			out = append(out, EventBinding{Handle: t.Handle(i), binding: eb})
		}
	}
	return out
}

// EventBinding pairs a node with one of its periodic tick handlers.
type EventBinding struct {
	Handle  *Handle
	binding *eventBinding
}

// Due reports whether this binding's period has elapsed since the last
// fire, and advances its internal counter. Called once per loop tick.
func (b EventBinding) Due() bool {
	b.binding.ticks++
	if b.binding.ticks < b.binding.period {
		return false
	}
	b.binding.ticks = 0
	return true
}

// Fire invokes the bound handler.
func (b EventBinding) Fire() { b.binding.handler(b.Handle, b.binding.userData) }

// ManagedObjects implements the read side of
// org.freedesktop.DBus.ObjectManager.GetManagedObjects: a depth-first walk
// producing, for every node with at least one interface, a map from
// interface name to property name to value. Each property is captured by
// invoking its ReadHandler with a synthetic Context, rather than by
// reaching into node state directly -- so a characteristic whose value is
// computed on read reports the same bytes to GetManagedObjects as
// ReadValue would.
func (t *Tree) ManagedObjects() map[dbus.ObjectPath]map[string]map[string]dbus.Variant {
	out := make(map[dbus.ObjectPath]map[string]map[string]dbus.Variant, len(t.nodes))
	for i := range t.nodes {
		h := t.Handle(i)
		iface := t.interfaceFor(h)
		props := t.properties(h)
		out[h.Path()] = map[string]map[string]dbus.Variant{iface: props}
	}
	return out
}

func (t *Tree) interfaceFor(h *Handle) string {
	switch h.n().kind {
	case kindService:
		return "org.bluez.GattService1"
	case kindCharacteristic:
		return "org.bluez.GattCharacteristic1"
	default:
		return "org.bluez.GattDescriptor1"
	}
}

func (t *Tree) properties(h *Handle) map[string]dbus.Variant {
	n := h.n()
	switch n.kind {
	case kindService:
		return toVariantMap(serviceProps{
			UUID:     n.uuid.String(),
			Primary:  n.primary,
			Includes: n.includes,
		})
	case kindCharacteristic:
		return toVariantMap(characteristicProps{
			UUID:      n.uuid.String(),
			Service:   t.nodes[n.svc].path,
			Flags:     n.flags.Strings(),
			Notifying: n.notifying,
			Value:     t.captureValue(h).AsBytes(),
		})
	default:
		return toVariantMap(descriptorProps{
			UUID:           n.uuid.String(),
			Characteristic: t.nodes[n.ch].path,
			Flags:          n.flags.Strings(),
			Value:          t.captureValue(h).AsBytes(),
		})
	}
}

// captureValue invokes the node's ReadHandler with a synthetic context if
// one is attached, falling back to the cached value.
func (t *Tree) captureValue(h *Handle) Variant {
	n := h.n()
	if n.onRead == nil {
		return n.value
	}
	v, err := n.onRead(&Context{}, h)
	if err != nil {
		return n.value
	}
	return v
}
