// Package mgmt implements just enough of the Linux Bluetooth Management
// socket (BTPROTO_HCI bound to HCI_CHANNEL_CONTROL) to drive controller
// configuration: the framed command/response/event protocol described in
// the kernel's mgmt-api.txt. It intentionally does not touch the ATT or
// L2CAP transports -- those belong to BlueZ once the application is
// registered as a GATT server.
package mgmt

import (
	"sync"
	"unsafe"

	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
)

// Bluetooth-specific socket constants absent from golang.org/x/sys/unix,
// mirroring <bluetooth/bluetooth.h> and <bluetooth/hci.h>.
const (
	afBluetooth         = 31
	btProtoHCI          = 1
	hciChannelControl   = 3
	hciDevNone          = 0xffff
)

type rawSockaddrHCI struct {
	Family  uint16
	Dev     uint16
	Channel uint16
}

// Socket is a bound, unconnected HCI_CHANNEL_CONTROL socket: the kernel's
// single management endpoint, shared across every controller index on
// the system.
type Socket struct {
	fd  int
	rmu sync.Mutex
	wmu sync.Mutex
}

// Open binds a fresh management-channel socket.
func Open() (*Socket, error) {
	fd, err := unix.Socket(afBluetooth, unix.SOCK_RAW, btProtoHCI)
	if err != nil {
		return nil, errors.Wrap(err, "open hci socket")
	}
	sa := rawSockaddrHCI{Family: afBluetooth, Dev: hciDevNone, Channel: hciChannelControl}
	_, _, errno := unix.Syscall(unix.SYS_BIND, uintptr(fd), uintptr(unsafe.Pointer(&sa)), unsafe.Sizeof(sa))
	if errno != 0 {
		unix.Close(fd)
		return nil, errors.Wrap(errno, "bind hci control channel")
	}
	return &Socket{fd: fd}, nil
}

// Read reads one raw management frame's worth of bytes into b.
func (s *Socket) Read(b []byte) (int, error) {
	s.rmu.Lock()
	defer s.rmu.Unlock()
	return unix.Read(s.fd, b)
}

// Write writes a raw, already-framed management message.
func (s *Socket) Write(b []byte) (int, error) {
	s.wmu.Lock()
	defer s.wmu.Unlock()
	return unix.Write(s.fd, b)
}

// Close releases the socket. It is not idempotent: it closes the fd number
// unconditionally, so call it exactly once, from shutdown.
func (s *Socket) Close() error {
	return unix.Close(s.fd)
}
