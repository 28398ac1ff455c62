package mgmt

import (
	"encoding/binary"

	"github.com/pkg/errors"
)

const headerLen = 6

// Frame is one little-endian management-protocol message: a 6-byte
// header (opcode, controller index, payload length) followed by the
// payload itself. Frame is used uniformly for outgoing commands and
// incoming command-complete/command-status/event messages.
type Frame struct {
	Opcode  uint16
	Index   uint16
	Payload []byte
}

// Marshal renders f as wire bytes.
func (f Frame) Marshal() []byte {
	b := make([]byte, headerLen+len(f.Payload))
	binary.LittleEndian.PutUint16(b[0:2], f.Opcode)
	binary.LittleEndian.PutUint16(b[2:4], f.Index)
	binary.LittleEndian.PutUint16(b[4:6], uint16(len(f.Payload)))
	copy(b[headerLen:], f.Payload)
	return b
}

// ParseFrame decodes one frame from raw bytes read off the socket.
func ParseFrame(raw []byte) (Frame, error) {
	if len(raw) < headerLen {
		return Frame{}, errors.Errorf("mgmt: short frame (%d bytes)", len(raw))
	}
	length := binary.LittleEndian.Uint16(raw[4:6])
	if int(length) > len(raw)-headerLen {
		return Frame{}, errors.Errorf("mgmt: frame declares %d byte payload, have %d", length, len(raw)-headerLen)
	}
	return Frame{
		Opcode:  binary.LittleEndian.Uint16(raw[0:2]),
		Index:   binary.LittleEndian.Uint16(raw[2:4]),
		Payload: raw[headerLen : headerLen+int(length)],
	}, nil
}
