package mgmt

// Event opcodes. The management socket multiplexes command replies and
// unsolicited events on the same channel, disambiguated by these two
// reserved low opcodes plus a block of event-only codes above them.
const (
	EvtCommandComplete     uint16 = 0x0001
	EvtCommandStatus       uint16 = 0x0002
	EvtControllerError     uint16 = 0x0003
	EvtIndexAdded          uint16 = 0x0004
	EvtIndexRemoved        uint16 = 0x0005
	EvtNewSettings         uint16 = 0x0006
	EvtClassOfDeviceChanged uint16 = 0x0007
	EvtLocalNameChanged    uint16 = 0x0008
	EvtDeviceConnected     uint16 = 0x000b
	EvtDeviceDisconnected  uint16 = 0x000c
	EvtConnectFailed       uint16 = 0x000d
	EvtDiscovering         uint16 = 0x0013
)

// Status codes returned in the Command Complete / Command Status payload.
const (
	StatusSuccess     byte = 0x00
	StatusUnknownCmd  byte = 0x01
	StatusNotConnected byte = 0x02
	StatusFailed      byte = 0x03
	StatusInvalidParams byte = 0x0d
	StatusBusy        byte = 0x0a
	StatusRejected    byte = 0x0b
	StatusTimeout     byte = 0x08
)

// EventHandler processes one unsolicited management event for a given
// controller index.
type EventHandler func(index uint16, payload []byte)

// DeviceConnected and DeviceDisconnected payloads: {Address [6]byte,
// AddressType byte, ...}. Only the address and its type are surfaced.
type DeviceAddress struct {
	Addr [6]byte
	Type byte
}

func parseDeviceAddress(payload []byte) (DeviceAddress, bool) {
	if len(payload) < 7 {
		return DeviceAddress{}, false
	}
	var a DeviceAddress
	copy(a.Addr[:], payload[0:6])
	a.Type = payload[6]
	return a, true
}

// ParseDeviceConnected extracts the peer address from an
// EvtDeviceConnected payload.
func ParseDeviceConnected(payload []byte) (DeviceAddress, bool) { return parseDeviceAddress(payload) }

// ParseDeviceDisconnected extracts the peer address from an
// EvtDeviceDisconnected payload.
func ParseDeviceDisconnected(payload []byte) (DeviceAddress, bool) { return parseDeviceAddress(payload) }
