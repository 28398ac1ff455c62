package hci

// Settings is the mgmt protocol's 32-bit "current settings"/"supported
// settings" bitfield.
type Settings uint32

const (
	SettingPowered         Settings = 1 << 0
	SettingConnectable     Settings = 1 << 1
	SettingFastConnectable Settings = 1 << 2
	SettingDiscoverable    Settings = 1 << 3
	SettingBondable        Settings = 1 << 4
	SettingLinkSecurity    Settings = 1 << 5
	SettingSSP             Settings = 1 << 6
	SettingBREDR           Settings = 1 << 7
	SettingHS              Settings = 1 << 8
	SettingLE              Settings = 1 << 9
	SettingAdvertising     Settings = 1 << 10
	SettingSecureConn      Settings = 1 << 11
	SettingDebugKeys       Settings = 1 << 12
	SettingPrivacy         Settings = 1 << 13
	SettingConfiguration   Settings = 1 << 14
	SettingStaticAddress   Settings = 1 << 15
)

// Has reports whether every bit in want is set in s.
func (s Settings) Has(want Settings) bool { return s&want == want }

var settingNames = []struct {
	bit  Settings
	name string
}{
	{SettingPowered, "powered"},
	{SettingConnectable, "connectable"},
	{SettingFastConnectable, "fast-connectable"},
	{SettingDiscoverable, "discoverable"},
	{SettingBondable, "bondable"},
	{SettingLinkSecurity, "link-security"},
	{SettingSSP, "ssp"},
	{SettingBREDR, "bredr"},
	{SettingHS, "hs"},
	{SettingLE, "le"},
	{SettingAdvertising, "advertising"},
	{SettingSecureConn, "secure-conn"},
	{SettingDebugKeys, "debug-keys"},
	{SettingPrivacy, "privacy"},
	{SettingConfiguration, "configuration"},
	{SettingStaticAddress, "static-address"},
}

// Strings renders the set bits as their mgmt-protocol names, in bit order.
func (s Settings) Strings() []string {
	var out []string
	for _, sn := range settingNames {
		if s.Has(sn.bit) {
			out = append(out, sn.name)
		}
	}
	return out
}
