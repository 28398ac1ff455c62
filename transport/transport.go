// Package transport owns the D-Bus system-bus connection: claiming the
// application's well-known bus name, publishing the GATT object tree
// under BlueZ's ObjectManager/GattService1/GattCharacteristic1/
// GattDescriptor1 contract, routing incoming method calls, and emitting
// PropertiesChanged. See spec §4.2.
package transport

import (
	"sync"

	"github.com/godbus/dbus/v5"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/code-in-the-cup/gobbledegook/gatt"
)

// NameState is the well-known-name ownership state machine from spec
// §4.2: Idle -> Requesting -> Owned | Lost.
type NameState int

const (
	NameIdle NameState = iota
	NameRequesting
	NameOwned
	NameLost
)

func (s NameState) String() string {
	switch s {
	case NameIdle:
		return "Idle"
	case NameRequesting:
		return "Requesting"
	case NameOwned:
		return "Owned"
	case NameLost:
		return "Lost"
	default:
		return "Unknown"
	}
}

// TransportError wraps a D-Bus connection or name-acquisition failure.
// Fatal at init; at runtime it is the trigger for the server transitioning
// to Stopping with health FailedRun, per spec §7.
type TransportError struct{ cause error }

func (e *TransportError) Error() string { return "transport: " + e.cause.Error() }
func (e *TransportError) Unwrap() error { return e.cause }

func wrapErr(err error) error {
	if err == nil {
		return nil
	}
	return &TransportError{cause: err}
}

// Transport owns the system-bus connection and the exported GATT object
// tree. The zero value is not usable; construct with New.
type Transport struct {
	Log *logrus.Logger

	mu      sync.RWMutex
	conn    *dbus.Conn
	tree    *gatt.Tree
	busName string
	state   NameState

	lostCh chan struct{}
}

// New constructs an unopened Transport. If log is nil, a fresh
// logrus.New() logger (stderr, Info level) is used.
func New(log *logrus.Logger) *Transport {
	if log == nil {
		log = logrus.New()
	}
	return &Transport{Log: log, lostCh: make(chan struct{})}
}

// Open acquires the system bus, exports every node in tree, and requests
// busName. It implements the Idle -> Requesting -> Owned|Lost machine:
// Open itself only ever returns at Owned or with an error (Lost is a
// runtime transition observed later via Lost()).
func (t *Transport) Open(busName string, tree *gatt.Tree) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	conn, err := dbus.ConnectSystemBus()
	if err != nil {
		return wrapErr(errors.Wrap(err, "connect to system bus"))
	}

	t.conn = conn
	t.tree = tree
	t.busName = busName
	t.state = NameRequesting

	if err := t.export(); err != nil {
		conn.Close()
		return wrapErr(err)
	}

	reply, err := conn.RequestName(busName, dbus.NameFlagDoNotQueue)
	if err != nil {
		conn.Close()
		return wrapErr(errors.Wrapf(err, "request name %q", busName))
	}
	if reply != dbus.RequestNameReplyPrimaryOwner {
		conn.Close()
		return wrapErr(errors.Errorf("request name %q: not granted primary ownership (reply %d)", busName, reply))
	}

	t.state = NameOwned
	go t.watchNameOwner()
	return nil
}

// watchNameOwner subscribes to NameOwnerChanged and transitions to Lost
// if this process's busName is reassigned away from it -- the runtime
// Owned -> Lost edge in spec §4.2's state machine.
func (t *Transport) watchNameOwner() {
	sigc := make(chan *dbus.Signal, 8)
	t.conn.Signal(sigc)
	match := []dbus.MatchOption{
		dbus.WithMatchInterface("org.freedesktop.DBus"),
		dbus.WithMatchMember("NameOwnerChanged"),
	}
	if err := t.conn.AddMatchSignal(match...); err != nil {
		t.Log.WithError(err).Warn("transport: failed to watch NameOwnerChanged")
		return
	}
	for sig := range sigc {
		if sig.Name != "org.freedesktop.DBus.NameOwnerChanged" || len(sig.Body) != 3 {
			continue
		}
		name, _ := sig.Body[0].(string)
		newOwner, _ := sig.Body[2].(string)
		if name != t.busName {
			continue
		}
		if newOwner == "" || newOwner != t.conn.Names()[0] {
			t.mu.Lock()
			if t.state == NameOwned {
				t.state = NameLost
				close(t.lostCh)
			}
			t.mu.Unlock()
			return
		}
	}
}

// Lost returns a channel closed when the transport observes its bus name
// has been lost at runtime.
func (t *Transport) Lost() <-chan struct{} { return t.lostCh }

// State returns the current name-ownership state.
func (t *Transport) State() NameState {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.state
}

// Conn returns the underlying connection, for RegisterApplication calls.
func (t *Transport) Conn() *dbus.Conn { return t.conn }

// Close unexports every node, releases the bus name, and closes the
// connection. Close is idempotent.
func (t *Transport) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.conn == nil {
		return nil
	}
	for _, h := range t.tree.All() {
		t.conn.Export(nil, h.Path(), "org.freedesktop.DBus.Properties")
		switch h.Kind() {
		case "characteristic":
			t.conn.Export(nil, h.Path(), "org.bluez.GattCharacteristic1")
		case "descriptor":
			t.conn.Export(nil, h.Path(), "org.bluez.GattDescriptor1")
		}
	}
	t.conn.Export(nil, t.tree.Root(), "org.freedesktop.DBus.ObjectManager")
	_, _ = t.conn.ReleaseName(t.busName)
	err := t.conn.Close()
	t.conn = nil
	t.state = NameIdle
	return err
}
