package gatt

// Getter returns the application-owned value stored under name, or nil if
// no such value exists. Storage is borrowed: the handler must not retain
// the returned value past the call.
type Getter func(name string) interface{}

// Setter writes back the application-owned value under name and reports
// whether the write was accepted.
type Setter func(name string, value interface{}) bool

// Bridge bundles the two data-bridge capabilities application code
// supplies to Server.Start. Handlers attached by the Builder read and
// write through a Bridge using string keys disjoint from D-Bus paths
// (e.g. "battery/level"), never touching the object tree's paths
// directly.
type Bridge struct {
	Get Getter
	Set Setter
}

// NewBridge wraps a Getter/Setter pair. Either may be nil if the
// application's handlers never call the corresponding side.
func NewBridge(get Getter, set Setter) Bridge {
	return Bridge{Get: get, Set: set}
}
