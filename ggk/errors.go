package ggk

import "errors"

// ApplicationError wraps a failure returned by the application's
// ConfigureFunc, as opposed to a framework-level
// ConfigError/TransportError/ControllerError/DispatchError. Start logs it
// at Error and fails init. Errors from GATT read/write handlers are not
// wrapped in it and are not logged: the transport turns them straight
// into D-Bus error replies (org.bluez.Error.Failed unless a more specific
// name applies).
type ApplicationError struct {
	cause error
}

func (e *ApplicationError) Error() string { return "application: " + e.cause.Error() }
func (e *ApplicationError) Unwrap() error { return e.cause }

func wrapApp(err error) error {
	if err == nil {
		return nil
	}
	return &ApplicationError{cause: err}
}

// ErrShutdown is the sentinel for an expected stop, not a failure. No
// function in this package returns it; Wait reports a clean stop by
// returning true.
var ErrShutdown = errors.New("ggk: shutdown")

// ErrAlreadyRunning is returned by Start when called while the singleton
// server is anywhere but Stopped.
var ErrAlreadyRunning = errors.New("ggk: server already running")
