package hci

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSettingsHas(t *testing.T) {
	s := SettingPowered | SettingLE | SettingAdvertising
	assert.True(t, s.Has(SettingPowered))
	assert.True(t, s.Has(SettingLE|SettingAdvertising))
	assert.False(t, s.Has(SettingBREDR))
}

func TestSettingsStrings(t *testing.T) {
	s := SettingPowered | SettingLE
	assert.ElementsMatch(t, []string{"powered", "le"}, s.Strings())
}
