// Package gatt implements the in-memory GATT object tree -- services,
// characteristics and descriptors -- and the declarative builder
// application code uses to construct it. The tree is built once during
// server initialization and never mutated afterward; see Tree.
package gatt

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// baseUUID is the Bluetooth Base UUID. Short-form 16-/32-bit UUIDs are
// expanded into a full 128-bit UUID by overlaying their bits onto this
// value, per the Bluetooth Core Spec.
var baseUUID = UUID{
	0x00, 0x00, 0x00, 0x00,
	0x00, 0x00, 0x10, 0x00,
	0x80, 0x00, 0x00, 0x80, 0x5f, 0x9b, 0x34, 0xfb,
}

// UUID is a canonical 128-bit Bluetooth UUID, stored big-endian the way
// it is printed (xxxxxxxx-xxxx-xxxx-xxxx-xxxxxxxxxxxx). It is distinct
// from google/uuid.UUID: Bluetooth's short-form expansion is a bitwise
// overlay onto the Base UUID, not an RFC 4122 construction, so this type
// carries its own comparison and string rendering. google/uuid is used
// only to validate and parse the dashed string form the builder accepts.
type UUID [16]byte

// UUID16 expands a 16-bit assigned number into its 128-bit form.
func UUID16(v uint16) UUID {
	u := baseUUID
	u[2] = byte(v >> 8)
	u[3] = byte(v)
	return u
}

// UUID32 expands a 32-bit assigned number into its 128-bit form.
func UUID32(v uint32) UUID {
	u := baseUUID
	u[0] = byte(v >> 24)
	u[1] = byte(v >> 16)
	u[2] = byte(v >> 8)
	u[3] = byte(v)
	return u
}

// MustParse parses a UUID given in any of the forms the builder accepts:
// a bare 4-hex-digit short form ("180A"), a bare 8-hex-digit short form
// ("0000180A"), or a canonical dashed 128-bit form. It panics on a
// malformed literal, since UUIDs passed to the builder are compile-time
// constants in application code, not user input.
func MustParse(s string) UUID {
	u, err := ParseUUID(s)
	if err != nil {
		panic(err)
	}
	return u
}

// ParseUUID parses a UUID given in any of the forms MustParse accepts.
// A malformed literal is a ConfigError: it can only come from a mistake
// in the application's service declaration.
func ParseUUID(s string) (UUID, error) {
	clean := strings.TrimSpace(s)
	switch len(clean) {
	case 4:
		var v uint16
		if _, err := fmt.Sscanf(clean, "%04x", &v); err != nil {
			return UUID{}, configErrorf("malformed 16-bit uuid %q: %v", s, err)
		}
		return UUID16(v), nil
	case 8:
		var v uint32
		if _, err := fmt.Sscanf(clean, "%08x", &v); err != nil {
			return UUID{}, configErrorf("malformed 32-bit uuid %q: %v", s, err)
		}
		return UUID32(v), nil
	default:
		parsed, err := uuid.Parse(clean)
		if err != nil {
			return UUID{}, configErrorf("malformed uuid %q: %v", s, err)
		}
		var u UUID
		copy(u[:], parsed[:])
		return u, nil
	}
}

// String renders the canonical lowercase dashed form.
func (u UUID) String() string {
	return fmt.Sprintf("%08x-%04x-%04x-%04x-%012x",
		u[0:4], u[4:6], u[6:8], u[8:10], u[10:16])
}

// Equal reports whether two UUIDs denote the same attribute type.
func (u UUID) Equal(o UUID) bool { return u == o }

// Short returns the 16-bit assigned number and true if u is a Base-UUID
// expansion of one, or (0, false) if u does not derive from the Base UUID.
func (u UUID) Short() (uint16, bool) {
	candidate := baseUUID
	candidate[2], candidate[3] = u[2], u[3]
	if candidate != u {
		return 0, false
	}
	return uint16(u[2])<<8 | uint16(u[3]), true
}
