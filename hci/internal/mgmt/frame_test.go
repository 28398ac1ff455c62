package mgmt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFrameRoundTrip(t *testing.T) {
	f := Frame{Opcode: OpSetPowered, Index: 2, Payload: []byte{0x01}}
	raw := f.Marshal()
	assert.Equal(t, []byte{0x05, 0x00, 0x02, 0x00, 0x01, 0x00, 0x01}, raw)

	parsed, err := ParseFrame(raw)
	require.NoError(t, err)
	assert.Equal(t, f, parsed)
}

func TestParseFrameRejectsShortHeader(t *testing.T) {
	_, err := ParseFrame([]byte{0x01, 0x02})
	assert.Error(t, err)
}

func TestParseFrameRejectsTruncatedPayload(t *testing.T) {
	raw := Frame{Opcode: 1, Index: 0, Payload: []byte{1, 2, 3}}.Marshal()
	_, err := ParseFrame(raw[:headerLen+1])
	assert.Error(t, err)
}
