package ggk

import "time"

// config collects every knob Start's callers may tune, applied via
// functional Options -- generalizing the teacher's LnxDeviceID/
// LnxMaxConnections style (func(Device)) into one Option func(*config)
// covering the controller index, command timeouts, tick quantum, and the
// battery-ticker-at-zero knob from the battery-ticker Open Question.
type config struct {
	controllerIndex uint16
	commandTimeout  time.Duration
	maxAsyncInitMs  int
	tickInterval    time.Duration
	bondable        bool
	advertisingMode byte

	batteryTickAtZero bool

	onCentralConnected    func(addr string)
	onCentralDisconnected func(addr string)
}

func defaultConfig() config {
	return config{
		controllerIndex:   0,
		commandTimeout:     30 * time.Second,
		maxAsyncInitMs:     1000,
		tickInterval:       100 * time.Millisecond,
		bondable:           false,
		advertisingMode:    1,
		batteryTickAtZero:  true,
	}
}

// Option configures a Start call.
type Option func(*config)

// ControllerIndex selects which HCI controller index (default 0) to
// configure and register against BlueZ.
func ControllerIndex(n uint16) Option {
	return func(c *config) { c.controllerIndex = n }
}

// CommandTimeout overrides the per-mgmt-command timeout (default 30s).
func CommandTimeout(d time.Duration) Option {
	return func(c *config) { c.commandTimeout = d }
}

// MaxAsyncInitMs bounds how long init may take overall before Start
// returns false (default 1000ms, per the init-timeout scenario).
func MaxAsyncInitMs(ms int) Option {
	return func(c *config) { c.maxAsyncInitMs = ms }
}

// TickInterval overrides the loop's tick quantum (default 100ms).
func TickInterval(d time.Duration) Option {
	return func(c *config) { c.tickInterval = d }
}

// Bondable controls whether the controller is brought up bondable.
func Bondable(on bool) Option {
	return func(c *config) { c.bondable = on }
}

// AdvertisingMode sets the mgmt Set Advertising mode byte (0 disabled, 1
// connectable, 2 non-connectable). Default 1.
func AdvertisingMode(mode byte) Option {
	return func(c *config) { c.advertisingMode = mode }
}

// BatteryTickAtZero records the battery-ticker Open Question choice: true
// (the default) means a battery-level ticker that has reached zero keeps
// emitting notifications at zero rather than going silent. The value is
// stored in the server configuration only; no code in this module reads
// it, since the module declares no battery service of its own.
func BatteryTickAtZero(continueAtZero bool) Option {
	return func(c *config) { c.batteryTickAtZero = continueAtZero }
}

// OnCentralConnected, if set, is invoked whenever the HCI adapter reports
// a new central connection. It runs on the HCI adapter's reader goroutine,
// not on the loop goroutine. Connections are logged whether or not it is
// set.
func OnCentralConnected(fn func(addr string)) Option {
	return func(c *config) { c.onCentralConnected = fn }
}

// OnCentralDisconnected mirrors OnCentralConnected for disconnections.
func OnCentralDisconnected(fn func(addr string)) Option {
	return func(c *config) { c.onCentralDisconnected = fn }
}
