package gatt

import (
	"strings"

	"github.com/godbus/dbus/v5"
)

// Builder is a stack-threaded declarative construction API:
// ServiceBegin(name, uuid) ... ServiceEnd(), with nested
// CharacteristicBegin/End and DescriptorBegin/End. Each Begin pushes a
// node onto the current parent's children and onto the construction
// stack; each End pops back to the parent. This generalizes the
// teacher's characteristic.go HandleRead/HandleWrite/HandleNotify
// fluent-attachment style (which applies to a single flat
// Service.AddCharacteristic level) to a fully nested service ->
// characteristic -> descriptor hierarchy.
type Builder struct {
	root  dbus.ObjectPath
	nodes []node
	stack []int
	err   error
}

// NewBuilder starts a Builder rooted at the given installation-provided
// path prefix, e.g. "/com/gobbledegook".
func NewBuilder(root dbus.ObjectPath) *Builder {
	return &Builder{root: root}
}

func (b *Builder) top() *node {
	if len(b.stack) == 0 {
		return nil
	}
	return &b.nodes[b.stack[len(b.stack)-1]]
}

func (b *Builder) fail(err error) *Builder {
	if b.err == nil {
		b.err = err
	}
	return b
}

func slug(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	s = strings.ReplaceAll(s, " ", "-")
	return s
}

func (b *Builder) push(n node) *Builder {
	if b.err != nil {
		return b
	}
	parentIdx := -1
	parentPath := b.root
	if top := b.top(); top != nil {
		parentIdx = b.stack[len(b.stack)-1]
		parentPath = top.path
	}
	n.parent = parentIdx
	n.path = dbus.ObjectPath(string(parentPath) + "/" + slug(n.name))
	n.idx = len(b.nodes)
	switch n.kind {
	case kindCharacteristic:
		n.svc = parentIdx
	case kindDescriptor:
		n.ch = parentIdx
	}
	b.nodes = append(b.nodes, n)
	b.stack = append(b.stack, n.idx)
	return b
}

func (b *Builder) pop(expect nodeKind) *Builder {
	if b.err != nil {
		return b
	}
	if len(b.stack) == 0 {
		return b.fail(configErrorf("unbalanced end(): empty stack"))
	}
	top := b.top()
	if top.kind != expect {
		return b.fail(configErrorf("unbalanced end(): expected to close %v, found %v", expect, top.kind))
	}
	b.stack = b.stack[:len(b.stack)-1]
	return b
}

// ServiceBegin declares a new service and pushes it onto the stack.
func (b *Builder) ServiceBegin(name, uuidStr string, primary bool) *Builder {
	if len(b.stack) != 0 {
		return b.fail(configErrorf("ServiceBegin(%q): services cannot be nested", name))
	}
	u, err := ParseUUID(uuidStr)
	if err != nil {
		return b.fail(err)
	}
	return b.push(node{kind: kindService, name: name, uuid: u, primary: primary})
}

// ServiceEnd pops the current service back to the tree root.
func (b *Builder) ServiceEnd() *Builder { return b.pop(kindService) }

// CharacteristicBegin declares a characteristic under the current
// service and pushes it onto the stack.
func (b *Builder) CharacteristicBegin(name, uuidStr string, flags Flags) *Builder {
	if top := b.top(); top == nil || top.kind != kindService {
		return b.fail(configErrorf("CharacteristicBegin(%q): must be nested directly under a service", name))
	}
	u, err := ParseUUID(uuidStr)
	if err != nil {
		return b.fail(err)
	}
	return b.push(node{kind: kindCharacteristic, name: name, uuid: u, flags: flags})
}

// CharacteristicEnd pops the current characteristic back to its service.
func (b *Builder) CharacteristicEnd() *Builder { return b.pop(kindCharacteristic) }

// DescriptorBegin declares a descriptor under the current characteristic
// and pushes it onto the stack.
func (b *Builder) DescriptorBegin(name, uuidStr string, flags Flags) *Builder {
	if top := b.top(); top == nil || top.kind != kindCharacteristic {
		return b.fail(configErrorf("DescriptorBegin(%q): must be nested directly under a characteristic", name))
	}
	u, err := ParseUUID(uuidStr)
	if err != nil {
		return b.fail(err)
	}
	return b.push(node{kind: kindDescriptor, name: name, uuid: u, flags: flags})
}

// DescriptorEnd pops the current descriptor back to its characteristic.
func (b *Builder) DescriptorEnd() *Builder { return b.pop(kindDescriptor) }

// OnReadValue attaches a read handler to the stack top.
func (b *Builder) OnReadValue(h ReadHandler) *Builder {
	if b.err != nil {
		return b
	}
	if top := b.top(); top != nil {
		top.onRead = h
	}
	return b
}

// OnWriteValue attaches a write handler to the stack top.
func (b *Builder) OnWriteValue(h WriteHandler) *Builder {
	if b.err != nil {
		return b
	}
	if top := b.top(); top != nil {
		top.onWrite = h
	}
	return b
}

// OnUpdatedValue attaches an update-notification handler to the stack
// top.
func (b *Builder) OnUpdatedValue(h UpdatedHandler) *Builder {
	if b.err != nil {
		return b
	}
	if top := b.top(); top != nil {
		top.onUpdated = h
	}
	return b
}

// OnEvent attaches a periodic tick handler to the stack top, firing every
// periodTicks iterations of the loop's global tick.
func (b *Builder) OnEvent(periodTicks int, userData interface{}, h EventHandler) *Builder {
	if b.err != nil {
		return b
	}
	if periodTicks < 1 {
		return b.fail(configErrorf("OnEvent: period must be >= 1, got %d", periodTicks))
	}
	if top := b.top(); top != nil {
		top.events = append(top.events, &eventBinding{period: periodTicks, userData: userData, handler: h})
	}
	return b
}

// InitialValue sets the stack top's starting cached value. Convenience for
// characteristics/descriptors whose value never changes (e.g. a static
// device-information string) and so need no ReadHandler at all.
func (b *Builder) InitialValue(v Variant) *Builder {
	if b.err != nil {
		return b
	}
	if top := b.top(); top != nil {
		top.value = v
	}
	return b
}

// Build finalizes the tree: checks for unbalanced Begin/End, validates
// each node's flag/handler invariants, assigns the final path table, and
// returns an immutable Tree. Build may only be called once per Builder.
func (b *Builder) Build() (*Tree, error) {
	if b.err != nil {
		return nil, b.err
	}
	if len(b.stack) != 0 {
		return nil, configErrorf("Build: %d unclosed Begin() call(s)", len(b.stack))
	}
	byPath := make(map[dbus.ObjectPath]int, len(b.nodes)+1)
	for i := range b.nodes {
		n := &b.nodes[i]
		if _, dup := byPath[n.path]; dup {
			return nil, configErrorf("duplicate object path %q", n.path)
		}
		byPath[n.path] = i
		if n.kind == kindCharacteristic && n.flags.NotifyCapable() && n.onUpdated == nil {
			return nil, configErrorf("characteristic %q declares notify/indicate but has no OnUpdatedValue handler", n.path)
		}
	}
	t := &Tree{root: b.root, nodes: b.nodes, byPath: byPath}
	for i := range t.nodes {
		t.nodes[i].idx = i
	}
	return t, nil
}
