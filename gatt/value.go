package gatt

import "github.com/godbus/dbus/v5"

// Kind tags the active field of a Variant.
type Kind int

// A tagged union over {bool, uint8, int16, uint16, uint32, string, bytes,
// object-path, array<T>}. Characteristic and descriptor values flow
// through this type; ToDBus converts a Variant into the value godbus/dbus
// marshals.
const (
	KindBytes Kind = iota
	KindBool
	KindUint8
	KindInt16
	KindUint16
	KindUint32
	KindString
	KindObjectPath
	KindArray
)

// Variant is a typed property value. The zero Variant is KindBytes with a
// nil slice, which is the natural "empty characteristic value."
type Variant struct {
	Kind  Kind
	Bool  bool
	U8    byte
	I16   int16
	U16   uint16
	U32   uint32
	Str   string
	Bytes []byte
	Path  dbus.ObjectPath
	Array []Variant
}

// VariantBytes wraps a byte slice, the common case for a characteristic
// or descriptor Value.
func VariantBytes(b []byte) Variant { return Variant{Kind: KindBytes, Bytes: b} }

// VariantString wraps a string.
func VariantString(s string) Variant { return Variant{Kind: KindString, Str: s} }

// VariantBool wraps a bool.
func VariantBool(b bool) Variant { return Variant{Kind: KindBool, Bool: b} }

// VariantPath wraps an object path.
func VariantPath(p dbus.ObjectPath) Variant { return Variant{Kind: KindObjectPath, Path: p} }

// VariantArray wraps an array of variants, e.g. a list of included-service
// object paths.
func VariantArray(vs []Variant) Variant { return Variant{Kind: KindArray, Array: vs} }

// AsBytes renders v as a characteristic/descriptor Value byte array,
// regardless of the kind a handler happened to construct it with. A
// characteristic's wire-visible Value is always a byte array (spec §3);
// this is the one place that contract is enforced rather than assumed.
func (v Variant) AsBytes() []byte {
	switch v.Kind {
	case KindString:
		return []byte(v.Str)
	case KindBytes:
		if v.Bytes == nil {
			return []byte{}
		}
		return v.Bytes
	default:
		b := v.ToDBus()
		if bs, ok := b.([]byte); ok {
			return bs
		}
		return []byte{}
	}
}

// ToDBus converts v into the concrete Go value godbus/dbus will marshal.
func (v Variant) ToDBus() interface{} {
	switch v.Kind {
	case KindBool:
		return v.Bool
	case KindUint8:
		return v.U8
	case KindInt16:
		return v.I16
	case KindUint16:
		return v.U16
	case KindUint32:
		return v.U32
	case KindString:
		return v.Str
	case KindObjectPath:
		return v.Path
	case KindArray:
		out := make([]interface{}, len(v.Array))
		for i, e := range v.Array {
			out[i] = e.ToDBus()
		}
		return out
	case KindBytes:
		fallthrough
	default:
		if v.Bytes == nil {
			return []byte{}
		}
		return v.Bytes
	}
}

// Equal reports whether two variants carry the same value. Used for the
// cached-last-emitted-value comparison that gates PropertiesChanged.
func (v Variant) Equal(o Variant) bool {
	if v.Kind != o.Kind {
		return false
	}
	switch v.Kind {
	case KindBool:
		return v.Bool == o.Bool
	case KindUint8:
		return v.U8 == o.U8
	case KindInt16:
		return v.I16 == o.I16
	case KindUint16:
		return v.U16 == o.U16
	case KindUint32:
		return v.U32 == o.U32
	case KindString:
		return v.Str == o.Str
	case KindObjectPath:
		return v.Path == o.Path
	case KindArray:
		if len(v.Array) != len(o.Array) {
			return false
		}
		for i := range v.Array {
			if !v.Array[i].Equal(o.Array[i]) {
				return false
			}
		}
		return true
	case KindBytes:
		fallthrough
	default:
		if len(v.Bytes) != len(o.Bytes) {
			return false
		}
		for i := range v.Bytes {
			if v.Bytes[i] != o.Bytes[i] {
				return false
			}
		}
		return true
	}
}
