package hci

import "github.com/code-in-the-cup/gobbledegook/hci/internal/mgmt"

type cmdReadControllerInfo struct{}

func (cmdReadControllerInfo) Opcode() uint16  { return mgmt.OpReadControllerInfo }
func (cmdReadControllerInfo) Marshal() []byte { return nil }

type cmdBool struct {
	op uint16
	on bool
}

func (c cmdBool) Opcode() uint16 { return c.op }
func (c cmdBool) Marshal() []byte {
	if c.on {
		return []byte{1}
	}
	return []byte{0}
}

type cmdDiscoverable struct {
	mode    byte
	timeout uint16
}

func (cmdDiscoverable) Opcode() uint16 { return mgmt.OpSetDiscoverable }
func (c cmdDiscoverable) Marshal() []byte {
	return []byte{c.mode, byte(c.timeout), byte(c.timeout >> 8)}
}

type cmdAdvertising struct{ mode byte }

func (cmdAdvertising) Opcode() uint16    { return mgmt.OpSetAdvertising }
func (c cmdAdvertising) Marshal() []byte { return []byte{c.mode} }

type cmdLocalName struct {
	short string
	long  string
}

func (cmdLocalName) Opcode() uint16 { return mgmt.OpSetLocalName }
func (c cmdLocalName) Marshal() []byte {
	b := make([]byte, 249+11)
	copy(b[0:249], c.long)
	copy(b[249:260], c.short)
	return b
}
