package mgmt

import (
	"sync"
	"time"

	"github.com/pkg/errors"
)

// Command opcodes, a subset of the management protocol's controller
// configuration commands.
const (
	OpReadControllerIndexList uint16 = 0x0003
	OpReadControllerInfo      uint16 = 0x0004
	OpSetPowered              uint16 = 0x0005
	OpSetDiscoverable         uint16 = 0x0006
	OpSetConnectable          uint16 = 0x0007
	OpSetBondable             uint16 = 0x0009
	OpSetLE                   uint16 = 0x000d
	OpSetLocalName            uint16 = 0x000f
	OpSetAdvertising          uint16 = 0x0029
	OpSetBREDR                uint16 = 0x002a
)

// CmdParam is a command's parameter block: it knows its own opcode and
// how to render its payload.
type CmdParam interface {
	Opcode() uint16
	Marshal() []byte
}

// TimeoutError reports that a command received no Command Complete or
// Command Status reply within its allotted timeout.
type TimeoutError struct {
	Opcode uint16
	Index  uint16
}

func (e *TimeoutError) Error() string {
	return "mgmt: command 0x" + hex16(e.Opcode) + " on index " + hex16(e.Index) + " timed out"
}

func hex16(v uint16) string {
	const hex = "0123456789abcdef"
	return string([]byte{hex[v>>12&0xf], hex[v>>8&0xf], hex[v>>4&0xf], hex[v&0xf]})
}

// Reply is a decoded Command Complete payload: a status byte plus
// whatever return parameters followed it.
type Reply struct {
	Status byte
	Params []byte
}

type pendingCmd struct {
	opcode uint16
	index  uint16
	replyc chan Reply
}

// Conn is the minimal surface Dispatcher needs from a transport: *Socket
// in production, an in-memory pipe in tests.
type Conn interface {
	Read([]byte) (int, error)
	Write([]byte) (int, error)
	Close() error
}

// Dispatcher reads frames off a Conn, correlates Command
// Complete/Command Status replies with outstanding Send calls, and fans
// unsolicited events out to registered handlers.
type Dispatcher struct {
	sock Conn

	mu      sync.Mutex
	pending []*pendingCmd
	events  map[uint16]EventHandler

	closed chan struct{}
}

// NewDispatcher wraps sock, immediately starting its read loop in a
// background goroutine.
func NewDispatcher(sock Conn) *Dispatcher {
	d := &Dispatcher{
		sock:   sock,
		events: make(map[uint16]EventHandler),
		closed: make(chan struct{}),
	}
	go d.readLoop()
	return d
}

// OnEvent registers handler for every frame carrying event opcode evt.
// Registering twice for the same opcode replaces the earlier handler.
func (d *Dispatcher) OnEvent(evt uint16, handler EventHandler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.events[evt] = handler
}

// Send writes cp framed for controller index, then blocks for a matching
// Command Complete or Command Status reply, up to timeout.
func (d *Dispatcher) Send(index uint16, cp CmdParam, timeout time.Duration) (Reply, error) {
	p := &pendingCmd{opcode: cp.Opcode(), index: index, replyc: make(chan Reply, 1)}
	d.mu.Lock()
	d.pending = append(d.pending, p)
	d.mu.Unlock()

	frame := Frame{Opcode: cp.Opcode(), Index: index, Payload: cp.Marshal()}
	raw := frame.Marshal()
	if _, err := d.sock.Write(raw); err != nil {
		d.removePending(p)
		return Reply{}, errors.Wrap(err, "mgmt: write command")
	}

	select {
	case r := <-p.replyc:
		if r.Status != StatusSuccess {
			return r, errors.Errorf("mgmt: command 0x%04x failed with status 0x%02x", cp.Opcode(), r.Status)
		}
		return r, nil
	case <-time.After(timeout):
		d.removePending(p)
		return Reply{}, &TimeoutError{Opcode: cp.Opcode(), Index: index}
	case <-d.closed:
		return Reply{}, errors.New("mgmt: dispatcher closed")
	}
}

func (d *Dispatcher) removePending(target *pendingCmd) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for i, p := range d.pending {
		if p == target {
			d.pending = append(d.pending[:i], d.pending[i+1:]...)
			return
		}
	}
}

func (d *Dispatcher) takePending(opcode, index uint16) *pendingCmd {
	d.mu.Lock()
	defer d.mu.Unlock()
	for i, p := range d.pending {
		if p.opcode == opcode && p.index == index {
			d.pending = append(d.pending[:i], d.pending[i+1:]...)
			return p
		}
	}
	return nil
}

func (d *Dispatcher) readLoop() {
	buf := make([]byte, 4096)
	for {
		n, err := d.sock.Read(buf)
		if err != nil {
			close(d.closed)
			return
		}
		frame, err := ParseFrame(buf[:n])
		if err != nil {
			continue
		}
		d.dispatch(frame)
	}
}

func (d *Dispatcher) dispatch(frame Frame) {
	switch frame.Opcode {
	case EvtCommandComplete:
		if len(frame.Payload) < 3 {
			return
		}
		opcode := uint16(frame.Payload[0]) | uint16(frame.Payload[1])<<8
		status := frame.Payload[2]
		if p := d.takePending(opcode, frame.Index); p != nil {
			p.replyc <- Reply{Status: status, Params: frame.Payload[3:]}
		}
	case EvtCommandStatus:
		if len(frame.Payload) < 3 {
			return
		}
		opcode := uint16(frame.Payload[0]) | uint16(frame.Payload[1])<<8
		status := frame.Payload[2]
		if p := d.takePending(opcode, frame.Index); p != nil {
			p.replyc <- Reply{Status: status}
		}
	default:
		d.mu.Lock()
		h := d.events[frame.Opcode]
		d.mu.Unlock()
		if h != nil {
			h(frame.Index, frame.Payload)
		}
	}
}

// Close closes the underlying socket, terminating the read loop.
func (d *Dispatcher) Close() error {
	return d.sock.Close()
}
