// Package hci drives Linux controller configuration over the kernel's
// Bluetooth Management socket: bringing an adapter into an advertising,
// connectable, non-bondable-or-bondable BLE peripheral state and back
// down again, and routing the kernel's own connect/disconnect/settings
// events to observers. It never touches ATT or L2CAP -- BlueZ owns those
// once RegisterApplication succeeds.
package hci

import (
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/code-in-the-cup/gobbledegook/hci/internal/mgmt"
)

// Config controls one Adapter's bring-up.
type Config struct {
	Index           uint16        // controller index, default 0
	CommandTimeout  time.Duration // per-command timeout, default 30s
	Bondable        bool
	ShortName       string
	LongName        string
	AdvertisingMode byte // 0 disabled, 1 connectable, 2 non-connectable
}

// DefaultCommandTimeout is used when Config.CommandTimeout is zero.
const DefaultCommandTimeout = 30 * time.Second

// Adapter is a management-protocol client bound to one controller index.
// It owns the reader goroutine, the cached Settings bitfield, and
// connected-device tracking.
type Adapter struct {
	cfg  Config
	log  *logrus.Logger
	disp *mgmt.Dispatcher

	devices *devices

	info     ControllerInfo
	settings Settings

	priorName      string
	priorShortName string
}

// NewAdapter opens the management socket and constructs an Adapter bound
// to cfg.Index, applying DefaultCommandTimeout/index-0 defaults to zero
// values in cfg.
func NewAdapter(cfg Config, log *logrus.Logger) (*Adapter, error) {
	if cfg.CommandTimeout == 0 {
		cfg.CommandTimeout = DefaultCommandTimeout
	}
	if log == nil {
		log = logrus.New()
	}
	sock, err := mgmt.Open()
	if err != nil {
		return nil, errors.Wrap(err, "hci: open management socket")
	}
	a := &Adapter{
		cfg:     cfg,
		log:     log,
		disp:    mgmt.NewDispatcher(sock),
		devices: newDevices(),
	}
	a.disp.OnEvent(mgmt.EvtNewSettings, a.onNewSettings)
	a.disp.OnEvent(mgmt.EvtDeviceConnected, a.onDeviceConnected)
	a.disp.OnEvent(mgmt.EvtDeviceDisconnected, a.onDeviceDisconnected)
	return a, nil
}

// ObserveConnected registers fn to be called whenever a central connects.
func (a *Adapter) ObserveConnected(fn ConnectionObserver) { a.devices.observeConnected(fn) }

// ObserveDisconnected registers fn to be called whenever a central
// disconnects.
func (a *Adapter) ObserveDisconnected(fn ConnectionObserver) { a.devices.observeDisconnected(fn) }

// Settings returns the most recently observed Settings bitfield.
func (a *Adapter) Settings() Settings { return a.settings }

// Info returns the controller info captured at BringUp.
func (a *Adapter) Info() ControllerInfo { return a.info }

// BringUp runs the fixed command sequence BlueZ requires to configure a
// clean BLE-peripheral-capable controller: read controller info; power
// off (so the rest can be changed); set BR/EDR off, LE on, bondable
// per-config, connectable on, discoverable on with timeout 0, local name,
// advertising on; then power on. Every step must succeed; the first
// failure aborts and returns its error.
func (a *Adapter) BringUp() error {
	info, err := a.readControllerInfo()
	if err != nil {
		return err
	}
	a.info = info
	a.settings = info.CurrentSettings
	a.priorName, a.priorShortName = info.Name, info.ShortName

	steps := []func() error{
		func() error { return a.setPowered(false) },
		func() error { return a.setBREDR(false) },
		func() error { return a.setLE(true) },
		func() error { return a.setBondable(a.cfg.Bondable) },
		func() error { return a.setConnectable(true) },
		func() error { return a.setDiscoverable(1, 0) },
		func() error { return a.setLocalName(a.cfg.ShortName, a.cfg.LongName) },
		func() error { return a.setAdvertising(a.cfg.AdvertisingMode) },
		func() error { return a.setPowered(true) },
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return err
		}
	}
	return nil
}

// TearDown reverses only what BringUp set: advertising is switched off
// and the local name restoration is attempted best-effort. Powering the
// controller off is deliberately skipped -- other processes may depend
// on it staying up.
func (a *Adapter) TearDown() {
	if err := a.setAdvertising(0); err != nil {
		a.log.WithError(err).Warn("hci: failed to disable advertising on shutdown")
	}
	if err := a.setLocalName(a.priorShortName, a.priorName); err != nil {
		a.log.WithError(err).Debug("hci: best-effort local name restore failed")
	}
}

// Close stops the reader goroutine and closes the management socket.
func (a *Adapter) Close() error {
	return a.disp.Close()
}

func (a *Adapter) send(cp mgmt.CmdParam) (mgmt.Reply, error) {
	return a.disp.Send(a.cfg.Index, cp, a.cfg.CommandTimeout)
}

func (a *Adapter) readControllerInfo() (ControllerInfo, error) {
	r, err := a.send(cmdReadControllerInfo{})
	if err != nil {
		return ControllerInfo{}, wrapCmd("ReadControllerInfo", err)
	}
	return parseControllerInfo(r.Params)
}

func (a *Adapter) setPowered(on bool) error {
	_, err := a.send(cmdBool{op: mgmt.OpSetPowered, on: on})
	return wrapCmd("SetPowered", err)
}

func (a *Adapter) setBREDR(on bool) error {
	_, err := a.send(cmdBool{op: mgmt.OpSetBREDR, on: on})
	return wrapCmd("SetBREDR", err)
}

func (a *Adapter) setLE(on bool) error {
	_, err := a.send(cmdBool{op: mgmt.OpSetLE, on: on})
	return wrapCmd("SetLE", err)
}

func (a *Adapter) setConnectable(on bool) error {
	_, err := a.send(cmdBool{op: mgmt.OpSetConnectable, on: on})
	return wrapCmd("SetConnectable", err)
}

func (a *Adapter) setBondable(on bool) error {
	_, err := a.send(cmdBool{op: mgmt.OpSetBondable, on: on})
	return wrapCmd("SetBondable", err)
}

func (a *Adapter) setDiscoverable(mode byte, timeout uint16) error {
	_, err := a.send(cmdDiscoverable{mode: mode, timeout: timeout})
	return wrapCmd("SetDiscoverable", err)
}

func (a *Adapter) setLocalName(short, long string) error {
	_, err := a.send(cmdLocalName{short: short, long: long})
	return wrapCmd("SetLocalName", err)
}

func (a *Adapter) setAdvertising(mode byte) error {
	_, err := a.send(cmdAdvertising{mode: mode})
	return wrapCmd("SetAdvertising", err)
}

func (a *Adapter) onNewSettings(index uint16, payload []byte) {
	if len(payload) < 4 {
		return
	}
	a.settings = Settings(le32(payload))
	a.log.WithField("settings", a.settings.Strings()).Debug("hci: settings changed")
}

func (a *Adapter) onDeviceConnected(index uint16, payload []byte) {
	addr, ok := mgmt.ParseDeviceConnected(payload)
	if !ok {
		return
	}
	a.devices.connect(ConnectedDevice{Address: addr.Addr, AddressType: addr.Type})
}

func (a *Adapter) onDeviceDisconnected(index uint16, payload []byte) {
	addr, ok := mgmt.ParseDeviceDisconnected(payload)
	if !ok {
		return
	}
	a.devices.disconnect(ConnectedDevice{Address: addr.Addr, AddressType: addr.Type})
}
