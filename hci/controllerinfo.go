package hci

import "github.com/pkg/errors"

// ControllerInfo mirrors the mgmt protocol's Read Controller Info reply.
type ControllerInfo struct {
	Address           [6]byte
	BluetoothVersion  byte
	Manufacturer      uint16
	SupportedSettings Settings
	CurrentSettings   Settings
	ClassOfDevice     [3]byte
	Name              string
	ShortName         string
}

// AddressString renders Address as the conventional colon-separated,
// most-significant-octet-first form.
func (c ControllerInfo) AddressString() string {
	const hex = "0123456789ABCDEF"
	b := make([]byte, 0, 17)
	for i := 5; i >= 0; i-- {
		oct := c.Address[i]
		b = append(b, hex[oct>>4], hex[oct&0xf])
		if i != 0 {
			b = append(b, ':')
		}
	}
	return string(b)
}

func parseControllerInfo(payload []byte) (ControllerInfo, error) {
	if len(payload) < 6+1+2+4+4+3+249+11 {
		return ControllerInfo{}, errors.Errorf("hci: controller info payload too short (%d bytes)", len(payload))
	}
	var c ControllerInfo
	copy(c.Address[:], payload[0:6])
	c.BluetoothVersion = payload[6]
	c.Manufacturer = le16(payload[7:9])
	c.SupportedSettings = Settings(le32(payload[9:13]))
	c.CurrentSettings = Settings(le32(payload[13:17]))
	copy(c.ClassOfDevice[:], payload[17:20])
	c.Name = cString(payload[20:269])
	c.ShortName = cString(payload[269:280])
	return c, nil
}

func le16(b []byte) uint16 {
	return uint16(b[0]) | uint16(b[1])<<8
}

func le32(b []byte) uint32 {
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
}

func cString(b []byte) string {
	for i, c := range b {
		if c == 0 {
			return string(b[:i])
		}
	}
	return string(b)
}
