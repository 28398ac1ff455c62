package ggk

import (
	"sync"

	"github.com/godbus/dbus/v5"
)

// notifyQueue is the MPSC channel described in the concurrency model:
// any application thread may enqueue a path via NotifyUpdatedCharacteristic/
// NotifyUpdatedDescriptor, and only the loop thread drains it. Coalescing
// is permitted, so the queue is backed by a deduplicating set rather than
// a plain channel -- multiple notifies for the same path between two
// ticks collapse to one drain entry.
type notifyQueue struct {
	mu      sync.Mutex
	pending map[dbus.ObjectPath]struct{}
	order   []dbus.ObjectPath
}

func newNotifyQueue() *notifyQueue {
	return &notifyQueue{pending: make(map[dbus.ObjectPath]struct{})}
}

// push enqueues path for emission on the next drain. Safe to call from
// any thread.
func (q *notifyQueue) push(path dbus.ObjectPath) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if _, exists := q.pending[path]; exists {
		return
	}
	q.pending[path] = struct{}{}
	q.order = append(q.order, path)
}

// drain returns every pending path, in first-enqueued order, and empties
// the queue. Only the loop thread calls this.
func (q *notifyQueue) drain() []dbus.ObjectPath {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.order) == 0 {
		return nil
	}
	out := q.order
	q.order = nil
	q.pending = make(map[dbus.ObjectPath]struct{})
	return out
}
