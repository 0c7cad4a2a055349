package ws

import "errors"

// Error codes for connect failures.
const (
	ErrCodeTimeout   = "timeout"
	ErrCodeTransport = "transport"
)

var (
	ErrTimeout          = errors.New("connection timeout")
	ErrTransport        = errors.New("transport error")
	ErrAlreadyConnected = errors.New("manager already used for a session")
)

// ConnectError is returned by Manager.Connect when the transport does not open.
type ConnectError struct {
	Code string
	Err  error
}

func (e *ConnectError) Error() string {
	if e.Err == nil {
		return e.sentinel().Error()
	}
	return e.sentinel().Error() + ": " + e.Err.Error()
}

// Unwrap exposes both the sentinel for the code and the underlying cause.
func (e *ConnectError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.sentinel()}
	}
	return []error{e.sentinel(), e.Err}
}

func (e *ConnectError) sentinel() error {
	if e.Code == ErrCodeTimeout {
		return ErrTimeout
	}
	return ErrTransport
}

func connectError(code string, err error) *ConnectError {
	return &ConnectError{Code: code, Err: err}
}
