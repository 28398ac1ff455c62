package hci

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildControllerInfoPayload(t *testing.T, name, short string) []byte {
	t.Helper()
	b := make([]byte, 6+1+2+4+4+3+249+11)
	copy(b[0:6], []byte{0xaa, 0xbb, 0xcc, 0xdd, 0xee, 0xff})
	b[6] = 0x08
	b[7], b[8] = 0x0f, 0x00
	b[9], b[10], b[11], b[12] = 0xff, 0x01, 0x00, 0x00
	b[13], b[14], b[15], b[16] = 0x03, 0x02, 0x00, 0x00
	copy(b[20:269], name)
	copy(b[269:280], short)
	return b
}

func TestParseControllerInfo(t *testing.T) {
	payload := buildControllerInfoPayload(t, "gobbledegook", "ggk")
	info, err := parseControllerInfo(payload)
	require.NoError(t, err)
	assert.Equal(t, "FF:EE:DD:CC:BB:AA", info.AddressString())
	assert.Equal(t, "gobbledegook", info.Name)
	assert.Equal(t, "ggk", info.ShortName)
	assert.True(t, info.CurrentSettings.Has(SettingPowered))
	assert.True(t, info.CurrentSettings.Has(SettingLE))
}

func TestParseControllerInfoRejectsShortPayload(t *testing.T) {
	_, err := parseControllerInfo([]byte{1, 2, 3})
	assert.Error(t, err)
}
