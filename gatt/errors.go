package gatt

import "github.com/pkg/errors"

// ConfigError reports a malformed tree declaration: a bad UUID, a
// duplicate object path, or a flag/property mismatch such as notify
// without a working update path. ConfigErrors from ParseUUID and
// Builder.Build are fatal at initialization -- see spec §7.
// Handle.WriteValue also returns one at runtime when a node has no write
// handler.
type ConfigError struct {
	msg string
}

func (e *ConfigError) Error() string { return "gatt: config error: " + e.msg }

func configErrorf(format string, args ...interface{}) error {
	return &ConfigError{msg: errors.Errorf(format, args...).Error()}
}

// AttError is an ATT-domain error code a ReadHandler/WriteHandler may
// return instead of a plain error. The transport replies to
// AttErrInvalidOffset with org.bluez.Error.InvalidOffset; every other code
// is replied to as the generic "Failed", with the code in its message.
type AttError byte

func (e AttError) Error() string { return "gatt: att error 0x" + hexByte(byte(e)) }

// ATT error codes a handler may return, mirroring the subset spec §3 and
// §8 name explicitly.
const (
	AttErrInvalidOffset AttError = 0x07
	AttErrUnlikely       AttError = 0x0e
)

func hexByte(b byte) string {
	const hex = "0123456789abcdef"
	return string([]byte{hex[b>>4], hex[b&0xf]})
}
