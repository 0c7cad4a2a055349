package session

// Status is the connection lifecycle of a session.
type Status int32

const (
	// StatusIdle means the session exists but no transport has been opened.
	StatusIdle Status = iota
	// StatusConnecting means the transport is being opened.
	StatusConnecting
	// StatusOnline means the transport is open and sends are delivered.
	StatusOnline
	// StatusClosed is terminal: the transport failed or closed.
	StatusClosed
)

// String returns the string representation of a Status.
func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusConnecting:
		return "connecting"
	case StatusOnline:
		return "online"
	case StatusClosed:
		return "closed"
	default:
		return "unknown"
	}
}

func canTransition(from, to Status) bool {
	switch from {
	case StatusIdle:
		return to == StatusConnecting
	case StatusConnecting:
		return to == StatusOnline || to == StatusClosed
	case StatusOnline:
		return to == StatusClosed
	default:
		return false
	}
}
