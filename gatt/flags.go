package gatt

import "strings"

// Flags is the set of access-mode bits a characteristic or descriptor may
// declare. The bit positions are arbitrary (this is not a wire format --
// BlueZ receives flag names as a string array over D-Bus) but are kept
// stable within a process so Flags can be compared and combined with the
// usual bitwise operators, the way the teacher's characteristic.go used a
// small uint bitset for its narrower read/write/notify property set.
type Flags uint16

// Characteristic and descriptor access-mode flags. Not all flags are
// meaningful on a descriptor (e.g. Notify/Indicate are characteristic-only)
// but the type is shared since BlueZ exposes both as a "Flags" string array.
const (
	FlagBroadcast Flags = 1 << iota
	FlagRead
	FlagWriteWithoutResponse
	FlagWrite
	FlagNotify
	FlagIndicate
	FlagAuthenticatedSignedWrites
	FlagReliableWrite
	FlagWritableAuxiliaries
	FlagEncryptRead
	FlagEncryptWrite
	FlagEncryptAuthenticatedRead
	FlagEncryptAuthenticatedWrite
	FlagSecureRead
	FlagSecureWrite
)

var flagNames = []struct {
	bit  Flags
	name string
}{
	{FlagBroadcast, "broadcast"},
	{FlagRead, "read"},
	{FlagWriteWithoutResponse, "write-without-response"},
	{FlagWrite, "write"},
	{FlagNotify, "notify"},
	{FlagIndicate, "indicate"},
	{FlagAuthenticatedSignedWrites, "authenticated-signed-writes"},
	{FlagReliableWrite, "reliable-write"},
	{FlagWritableAuxiliaries, "writable-auxiliaries"},
	{FlagEncryptRead, "encrypt-read"},
	{FlagEncryptWrite, "encrypt-write"},
	{FlagEncryptAuthenticatedRead, "encrypt-authenticated-read"},
	{FlagEncryptAuthenticatedWrite, "encrypt-authenticated-write"},
	{FlagSecureRead, "secure-read"},
	{FlagSecureWrite, "secure-write"},
}

// Has reports whether f contains every bit in mask.
func (f Flags) Has(mask Flags) bool { return f&mask == mask }

// Strings renders f as the BlueZ "Flags" property: an array of the
// lowercase, dash-separated flag names, in declaration order.
func (f Flags) Strings() []string {
	var out []string
	for _, fn := range flagNames {
		if f.Has(fn.bit) {
			out = append(out, fn.name)
		}
	}
	return out
}

func (f Flags) String() string { return strings.Join(f.Strings(), ",") }

// NotifyCapable reports whether a characteristic declaring f must expose
// a working update path: any characteristic whose flags contain notify
// or indicate needs one.
func (f Flags) NotifyCapable() bool { return f.Has(FlagNotify) || f.Has(FlagIndicate) }

// WriteCapable reports whether f permits any form of write.
func (f Flags) WriteCapable() bool {
	return f.Has(FlagWrite) || f.Has(FlagWriteWithoutResponse)
}

// RequiresReply reports whether a write under f must produce a D-Bus
// method reply: a write-capable characteristic without
// write-without-response always returns one.
func (f Flags) RequiresReply() bool {
	return f.Has(FlagWrite) && !f.Has(FlagWriteWithoutResponse)
}
