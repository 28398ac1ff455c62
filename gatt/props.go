package gatt

import (
	"github.com/fatih/structs"
	"github.com/godbus/dbus/v5"
)

// serviceProps, characteristicProps and descriptorProps are the BlueZ
// property sets from spec §3/§6, as plain tagged structs. Flattening a
// typed struct into the map[string]dbus.Variant ObjectManager and
// Properties.GetAll both hand back is github.com/fatih/structs' job
// (woongchantonylee-go-bluetooth leans on the same package to flatten
// its own D-Bus property structs), rather than a hand-rolled map
// literal per node kind.
type serviceProps struct {
	UUID     string            `structs:"UUID"`
	Primary  bool              `structs:"Primary"`
	Includes []dbus.ObjectPath `structs:"Includes,omitempty"`
}

type characteristicProps struct {
	UUID      string          `structs:"UUID"`
	Service   dbus.ObjectPath `structs:"Service"`
	Flags     []string        `structs:"Flags"`
	Notifying bool            `structs:"Notifying"`
	Value     []byte          `structs:"Value"`
}

type descriptorProps struct {
	UUID           string          `structs:"UUID"`
	Characteristic dbus.ObjectPath `structs:"Characteristic"`
	Flags          []string        `structs:"Flags"`
	Value          []byte          `structs:"Value"`
}

// toVariantMap flattens a tagged props struct (via its `structs` tags)
// into the map[string]dbus.Variant shape BlueZ expects for one
// interface's property set.
func toVariantMap(v interface{}) map[string]dbus.Variant {
	raw := structs.Map(v)
	out := make(map[string]dbus.Variant, len(raw))
	for k, val := range raw {
		out[k] = dbus.MakeVariant(val)
	}
	return out
}
