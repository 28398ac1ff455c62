package hci

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/code-in-the-cup/gobbledegook/hci/internal/mgmt"
)

func TestCmdBoolMarshal(t *testing.T) {
	assert.Equal(t, []byte{1}, cmdBool{op: mgmt.OpSetPowered, on: true}.Marshal())
	assert.Equal(t, []byte{0}, cmdBool{op: mgmt.OpSetPowered, on: false}.Marshal())
}

func TestCmdDiscoverableMarshal(t *testing.T) {
	got := cmdDiscoverable{mode: 1, timeout: 0x0102}.Marshal()
	assert.Equal(t, []byte{1, 0x02, 0x01}, got)
}

func TestCmdLocalNameMarshal(t *testing.T) {
	got := cmdLocalName{short: "ggk", long: "gobbledegook"}.Marshal()
	assert.Len(t, got, 260)
	assert.Equal(t, "gobbledegook", cString(got[0:249]))
	assert.Equal(t, "ggk", cString(got[249:260]))
}
