package gatt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUUID16Expansion(t *testing.T) {
	got := UUID16(0x1800)
	assert.Equal(t, "00001800-0000-1000-8000-00805f9b34fb", got.String())
}

func TestUUID32Expansion(t *testing.T) {
	got := UUID32(0x12345678)
	assert.Equal(t, "12345678-0000-1000-8000-00805f9b34fb", got.String())
}

func TestParseUUIDShortForms(t *testing.T) {
	u16, err := ParseUUID("2A19")
	require.NoError(t, err)
	assert.Equal(t, UUID16(0x2A19), u16)

	u32, err := ParseUUID("00002A19")
	require.NoError(t, err)
	assert.Equal(t, UUID16(0x2A19), u32)
}

func TestParseUUIDFullForm(t *testing.T) {
	u, err := ParseUUID("0000180a-0000-1000-8000-00805f9b34fb")
	require.NoError(t, err)
	assert.Equal(t, UUID16(0x180A), u)
}

func TestParseUUIDMalformed(t *testing.T) {
	_, err := ParseUUID("not-a-uuid")
	assert.Error(t, err)
}

// TestNormalizationIdempotent checks that norm(norm(x)) == norm(x), and
// that a short form round-trips via the Base UUID.
func TestNormalizationIdempotent(t *testing.T) {
	u := UUID16(0x2A19)
	reparsed := MustParse(u.String())
	assert.Equal(t, u, reparsed)

	short, ok := u.Short()
	require.True(t, ok)
	assert.Equal(t, uint16(0x2A19), short)

	full := UUID32(0xDEADBEEF)
	_, ok = full.Short()
	assert.False(t, ok, "a 32-bit-derived uuid has no 16-bit short form")
}

func TestMustParsePanicsOnGarbage(t *testing.T) {
	assert.Panics(t, func() { MustParse("garbage") })
}
