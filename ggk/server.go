// Package ggk is the public façade: a process-wide BLE peripheral server
// that owns the GATT object tree, the D-Bus transport, and the HCI
// adapter, and drives them from one dedicated loop goroutine.
package ggk

import (
	"sync"
	"time"

	"github.com/godbus/dbus/v5"

	"github.com/code-in-the-cup/gobbledegook/gatt"
	"github.com/code-in-the-cup/gobbledegook/hci"
	"github.com/code-in-the-cup/gobbledegook/transport"
)

// ConfigureFunc builds the GATT object tree, wiring handlers against
// bridge's Getter/Setter. It is invoked synchronously during
// Initializing, before any transport or controller work begins.
type ConfigureFunc func(b *gatt.Builder, bridge *gatt.Bridge) error

// Server is the process-wide façade. Application threads must only ever
// reach it through the package-level Start/TriggerShutdown/Wait/
// GetRunState/GetHealth/NotifyUpdatedCharacteristic/NotifyUpdatedDescriptor
// functions, never by constructing one directly -- see singleton below.
type Server struct {
	mu     sync.Mutex
	state  State
	health Health

	cfg  config
	log  *Logger
	root dbus.ObjectPath

	tree      *gatt.Tree
	adapter   *hci.Adapter
	transport *transport.Transport
	notify    *notifyQueue

	// abandoned marks that Start gave up on this attempt (init timeout)
	// after bringUpAll was already dispatched. Guarded by mu alongside
	// adapter/transport so the timeout path and the background bring-up
	// goroutine agree on exactly one owner for teardown.
	abandoned bool

	stopCh chan struct{}
	doneCh chan struct{}
}

var (
	singletonMu sync.Mutex
	singleton   *Server
)

// Start brings the server from Uninitialized (or a prior Stopped) up
// through Initializing to Running: build the tree via configure, bring up
// the HCI adapter, open the D-Bus transport under busName, publish the
// tree, and register the application with BlueZ. Reentrant calls while
// the singleton is anywhere but Stopped/never-started return false
// immediately with ErrAlreadyRunning logged.
func Start(busName, advShortName, advLongName string, configure ConfigureFunc, bridge *gatt.Bridge, opts ...Option) bool {
	singletonMu.Lock()
	if singleton != nil && singleton.RunState() != Stopped {
		singletonMu.Unlock()
		defaultLogger.WithError(ErrAlreadyRunning).Warn("ggk: Start rejected")
		return false
	}

	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	s := &Server{
		cfg:    cfg,
		log:    defaultLogger,
		root:   dbus.ObjectPath("/" + sanitizeBusName(busName)),
		notify: newNotifyQueue(),
		stopCh: make(chan struct{}),
		doneCh: make(chan struct{}),
	}
	singleton = s
	singletonMu.Unlock()

	s.setState(Initializing)

	if ok := s.initialize(busName, advShortName, advLongName, configure, bridge); !ok {
		s.setState(Stopping)
		s.teardown()
		s.setState(Stopped)
		close(s.doneCh)
		return false
	}

	s.setState(Running)
	go s.run()
	return true
}

func sanitizeBusName(busName string) string {
	out := make([]byte, len(busName))
	for i := 0; i < len(busName); i++ {
		if busName[i] == '.' {
			out[i] = '/'
		} else {
			out[i] = busName[i]
		}
	}
	return string(out)
}

func (s *Server) initialize(busName, shortName, longName string, configure ConfigureFunc, bridge *gatt.Bridge) bool {
	b := gatt.NewBuilder(s.root)
	if err := configure(b, bridge); err != nil {
		s.fail(FailedInit, wrapApp(err))
		return false
	}
	tree, err := b.Build()
	if err != nil {
		s.fail(FailedInit, err)
		return false
	}
	s.tree = tree

	done := make(chan bool, 1)
	go func() {
		done <- s.bringUpAll(busName, shortName, longName)
	}()

	select {
	case ok := <-done:
		return ok
	case <-time.After(time.Duration(s.cfg.maxAsyncInitMs) * time.Millisecond):
		s.mu.Lock()
		s.abandoned = true
		s.mu.Unlock()
		s.fail(FailedInit, &ControllerInitTimeoutError{})
		return false
	}
}

// bringUpAll powers the controller, opens the D-Bus transport, and
// registers the application with BlueZ. Start may give up on this
// attempt (maxAsyncInitMs elapsed) while this runs in the background;
// the abandoned check under s.mu is the single point where ownership of
// the adapter/transport is decided, so whichever side loses the race
// tears the resources down exactly once.
func (s *Server) bringUpAll(busName, shortName, longName string) bool {
	adapter, err := hci.NewAdapter(hci.Config{
		Index:           s.cfg.controllerIndex,
		CommandTimeout:  s.cfg.commandTimeout,
		Bondable:        s.cfg.bondable,
		ShortName:       shortName,
		LongName:        longName,
		AdvertisingMode: s.cfg.advertisingMode,
	}, s.log.Raw())
	if err != nil {
		s.fail(FailedInit, err)
		return false
	}
	if err := adapter.BringUp(); err != nil {
		s.fail(FailedInit, err)
		adapter.Close()
		return false
	}

	tp := transport.New(s.log.Raw())
	if err := tp.Open(busName, s.tree); err != nil {
		s.fail(FailedInit, err)
		adapter.TearDown()
		adapter.Close()
		return false
	}

	adapterPath := dbus.ObjectPath("/org/bluez/hci" + itoa(int(s.cfg.controllerIndex)))
	if err := tp.RegisterApplication(adapterPath); err != nil {
		s.fail(FailedInit, err)
		teardownAdapterAndTransport(s.log, adapterPath, adapter, tp)
		return false
	}

	s.mu.Lock()
	if s.abandoned {
		s.mu.Unlock()
		teardownAdapterAndTransport(s.log, adapterPath, adapter, tp)
		return false
	}
	s.adapter = adapter
	s.transport = tp
	s.mu.Unlock()

	s.wireConnectionObservers()
	return true
}

func (s *Server) wireConnectionObservers() {
	s.adapter.ObserveConnected(func(dev hci.ConnectedDevice) {
		addr := formatAddr(dev.Address)
		s.log.WithField("addr", addr).Info("ggk: central connected")
		if s.cfg.onCentralConnected != nil {
			s.cfg.onCentralConnected(addr)
		}
	})
	s.adapter.ObserveDisconnected(func(dev hci.ConnectedDevice) {
		addr := formatAddr(dev.Address)
		s.log.WithField("addr", addr).Info("ggk: central disconnected")
		if s.cfg.onCentralDisconnected != nil {
			s.cfg.onCentralDisconnected(addr)
		}
	})
}

func formatAddr(addr [6]byte) string {
	const hex = "0123456789ABCDEF"
	b := make([]byte, 0, 17)
	for i := 5; i >= 0; i-- {
		b = append(b, hex[addr[i]>>4], hex[addr[i]&0xf])
		if i != 0 {
			b = append(b, ':')
		}
	}
	return string(b)
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	var b []byte
	for n > 0 {
		b = append([]byte{byte('0' + n%10)}, b...)
		n /= 10
	}
	return string(b)
}

func (s *Server) fail(h Health, err error) {
	s.setHealth(h)
	s.log.WithError(err).Error("ggk: init failed")
}

func (s *Server) setState(st State) {
	s.mu.Lock()
	s.state = st
	s.mu.Unlock()
}

func (s *Server) setHealth(h Health) {
	s.mu.Lock()
	s.health = h
	s.mu.Unlock()
}

// RunState reports the server's current lifecycle state.
func (s *Server) RunState() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// HealthState reports why the server stopped, or Ok if it hasn't.
func (s *Server) HealthState() Health {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.health
}

func (s *Server) teardown() {
	s.mu.Lock()
	adapter, tp := s.adapter, s.transport
	s.mu.Unlock()
	adapterPath := dbus.ObjectPath("/org/bluez/hci" + itoa(int(s.cfg.controllerIndex)))
	teardownAdapterAndTransport(s.log, adapterPath, adapter, tp)
}

// teardownAdapterAndTransport unregisters and closes whichever of the two
// resources are non-nil. Shared by the normal Stopping path and by
// bringUpAll's own cleanup when it discovers its attempt was abandoned.
func teardownAdapterAndTransport(log *Logger, adapterPath dbus.ObjectPath, adapter *hci.Adapter, tp *transport.Transport) {
	if tp != nil {
		if err := tp.UnregisterApplication(adapterPath); err != nil {
			log.WithError(err).Warn("ggk: UnregisterApplication failed")
		}
		if err := tp.Close(); err != nil {
			log.WithError(err).Warn("ggk: transport close failed")
		}
	}
	if adapter != nil {
		adapter.TearDown()
		if err := adapter.Close(); err != nil {
			log.WithError(err).Warn("ggk: hci close failed")
		}
	}
}

// ControllerInitTimeoutError reports that init did not reach Running
// within maxAsyncInitMs.
type ControllerInitTimeoutError struct{}

func (e *ControllerInitTimeoutError) Error() string { return "ggk: init timed out" }

// TriggerShutdown asks the running server to stop. Idempotent and
// non-blocking; safe to call from any thread, any number of times.
func TriggerShutdown() {
	singletonMu.Lock()
	s := singleton
	singletonMu.Unlock()
	if s == nil {
		return
	}
	s.mu.Lock()
	already := s.state == Stopping || s.state == Stopped
	s.mu.Unlock()
	if already {
		return
	}
	select {
	case <-s.stopCh:
	default:
		close(s.stopCh)
	}
}

// Wait blocks until the server reaches Stopped, returning true iff health
// was Ok.
func Wait() bool {
	singletonMu.Lock()
	s := singleton
	singletonMu.Unlock()
	if s == nil {
		return false
	}
	<-s.doneCh
	return s.HealthState() == Ok
}

// GetRunState returns the singleton server's current lifecycle state, or
// Uninitialized if Start has never been called.
func GetRunState() State {
	singletonMu.Lock()
	s := singleton
	singletonMu.Unlock()
	if s == nil {
		return Uninitialized
	}
	return s.RunState()
}

// GetHealth returns the singleton server's current health.
func GetHealth() Health {
	singletonMu.Lock()
	s := singleton
	singletonMu.Unlock()
	if s == nil {
		return Ok
	}
	return s.HealthState()
}

// NotifyUpdatedCharacteristic enqueues path for a PropertiesChanged
// emission on the next tick. Safe to call from any thread.
func NotifyUpdatedCharacteristic(path dbus.ObjectPath) {
	singletonMu.Lock()
	s := singleton
	singletonMu.Unlock()
	if s == nil {
		return
	}
	s.notify.push(path)
}

// NotifyUpdatedDescriptor is NotifyUpdatedCharacteristic's equivalent for
// descriptor paths; both feed the same queue.
func NotifyUpdatedDescriptor(path dbus.ObjectPath) {
	NotifyUpdatedCharacteristic(path)
}
