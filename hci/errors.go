package hci

// ControllerError reports an mgmt command that failed with a non-success
// status, or that timed out waiting for a reply. Always fatal during
// BringUp; TearDown logs it instead of propagating it.
type ControllerError struct {
	Op    string
	cause error
}

func (e *ControllerError) Error() string { return "hci: " + e.Op + ": " + e.cause.Error() }
func (e *ControllerError) Unwrap() error { return e.cause }

func wrapCmd(op string, err error) error {
	if err == nil {
		return nil
	}
	return &ControllerError{Op: op, cause: err}
}
