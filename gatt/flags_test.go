package gatt

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFlagsStrings(t *testing.T) {
	f := FlagRead | FlagNotify
	assert.ElementsMatch(t, []string{"read", "notify"}, f.Strings())
}

func TestFlagsRequiresReply(t *testing.T) {
	assert.True(t, (FlagRead | FlagWrite).RequiresReply())
	assert.False(t, (FlagRead | FlagWrite | FlagWriteWithoutResponse).RequiresReply())
	assert.False(t, FlagRead.RequiresReply())
}

func TestFlagsNotifyCapable(t *testing.T) {
	assert.True(t, FlagNotify.NotifyCapable())
	assert.True(t, FlagIndicate.NotifyCapable())
	assert.False(t, FlagRead.NotifyCapable())
}
