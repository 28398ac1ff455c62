package gatt

import "github.com/godbus/dbus/v5"

type nodeKind int

const (
	kindService nodeKind = iota
	kindCharacteristic
	kindDescriptor
)

// ReadHandler serves a read of a characteristic's or descriptor's Value.
// It MUST NOT block on I/O -- see spec §4.1 and §5.
type ReadHandler func(ctx *Context, self *Handle) (Variant, error)

// WriteHandler commits a write to a characteristic's or descriptor's
// Value. It MUST commit the value itself (via self.SetValue) before
// returning; the transport decides, based on Flags, whether the write
// expects a reply.
type WriteHandler func(ctx *Context, self *Handle, value []byte) error

// UpdatedHandler is invoked whenever application code signals (through
// the notify queue) that a named value changed. Returning true authorizes
// emission of PropertiesChanged{Value}.
type UpdatedHandler func(conn string, self *Handle) bool

// EventHandler is a periodic tick callback attached with OnEvent.
type EventHandler func(self *Handle, userData interface{})

type eventBinding struct {
	period   int
	ticks    int
	userData interface{}
	handler  EventHandler
}

// node is one element of the GATT tree: a service, characteristic, or
// descriptor. Application code never holds a *node directly -- handlers
// are given a Handle, a stable arena index, per the design note in spec
// §9 ("never as raw pointers").
type node struct {
	kind   nodeKind
	name   string
	uuid   UUID
	path   dbus.ObjectPath
	parent int // index into Tree.nodes, -1 for the root
	idx    int // this node's own index

	// service-only
	primary  bool
	includes []dbus.ObjectPath

	// characteristic/descriptor-only
	flags       Flags
	value       Variant
	lastEmitted Variant
	notifying   bool
	svc         int // owning service index, characteristic-only
	ch          int // owning characteristic index, descriptor-only

	onRead    ReadHandler
	onWrite   WriteHandler
	onUpdated UpdatedHandler
	events    []*eventBinding
}

// Handle is a non-owning, stable reference to a node by arena index. It
// is the only way application handlers touch the tree, so handlers
// cannot outlive the tree's backing array (enforced by construction: a
// Handle without a live *Tree is simply never produced).
type Handle struct {
	tree *Tree
	idx  int
}

func (h *Handle) n() *node { return &h.tree.nodes[h.idx] }

// Path returns the node's D-Bus object path.
func (h *Handle) Path() dbus.ObjectPath { return h.n().path }

// UUID returns the node's attribute UUID.
func (h *Handle) UUID() UUID { return h.n().uuid }

// Value returns the node's current cached value.
func (h *Handle) Value() Variant { return h.n().value }

// SetValue commits a new value. It does not by itself trigger a
// PropertiesChanged emission -- that happens when the node is next drained
// from the notify queue (for characteristics/descriptors with Notify) or
// read (for everything else).
func (h *Handle) SetValue(v Variant) { h.n().value = v }

// Notifying reports whether a central has subscribed to this
// characteristic via StartNotify.
func (h *Handle) Notifying() bool { return h.n().notifying }

// SetNotifying records whether a central is currently subscribed, per
// StartNotify/StopNotify.
func (h *Handle) SetNotifying(v bool) { h.n().notifying = v }

// LastEmitted returns the cached value last reported in a
// PropertiesChanged signal, for the transport's change-detection
// comparison described in spec §4.2.
func (h *Handle) LastEmitted() Variant { return h.n().lastEmitted }

// SetLastEmitted updates the cached last-emitted value.
func (h *Handle) SetLastEmitted(v Variant) { h.n().lastEmitted = v }

// Kind reports whether the node is a service, characteristic, or
// descriptor, for transport code deciding which D-Bus interface to
// export.
func (h *Handle) Kind() string {
	switch h.n().kind {
	case kindService:
		return "service"
	case kindCharacteristic:
		return "characteristic"
	default:
		return "descriptor"
	}
}

// Flags returns the node's access-mode flags.
func (h *Handle) Flags() Flags { return h.n().flags }

// Name returns the node's declared name (the path slug source).
func (h *Handle) Name() string { return h.n().name }

// ReadValue invokes the node's ReadHandler (if any) with a live D-Bus
// Context, falling back to the cached value if no handler is attached.
func (h *Handle) ReadValue(sender string) (Variant, error) {
	n := h.n()
	if n.onRead == nil {
		return n.value, nil
	}
	return n.onRead(&Context{Sender: sender}, h)
}

// WriteValue invokes the node's WriteHandler, if any. ConfigError is
// returned if the node has no write handler despite being write-capable;
// callers should have already checked Flags().WriteCapable() before
// calling WriteValue.
func (h *Handle) WriteValue(sender string, value []byte) error {
	n := h.n()
	if n.onWrite == nil {
		return configErrorf("characteristic %q has no write handler", n.path)
	}
	return n.onWrite(&Context{Sender: sender}, h, value)
}

// TriggerUpdated invokes the node's UpdatedHandler, if any, as though the
// data bridge had just reported a change, and reports whether emission is
// authorized. Lets a WriteHandler "call its sibling update handler," per
// the design note in spec §9.
func (h *Handle) TriggerUpdated(conn string) bool {
	n := h.n()
	if n.onUpdated == nil {
		return false
	}
	return n.onUpdated(conn, h)
}

// Sibling returns a Handle to another node in the same tree, identified
// by object path, or false if no such node exists.
func (h *Handle) Sibling(path dbus.ObjectPath) (*Handle, bool) {
	return h.tree.lookup(path)
}

// Context is the invocation context a ReadHandler/WriteHandler receives.
// During a live D-Bus call it carries the caller's unique bus name; during
// the synthetic reads GetManagedObjects performs it is the zero value.
type Context struct {
	Sender string
}
