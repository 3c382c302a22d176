package types

// SessionState is the lifecycle position of a session client.
type SessionState int

const (
	StateDisconnected SessionState = iota
	StateConnecting
	StateConnectedUnregistered
	StateRegistered
	// StateFailed is reached when the retry budget is exhausted. Only an explicit Connect leaves it.
	StateFailed
	// StateClosed is terminal.
	StateClosed
)

func (s SessionState) String() string {
	switch s {
	case StateDisconnected:
		return "DISCONNECTED"
	case StateConnecting:
		return "CONNECTING"
	case StateConnectedUnregistered:
		return "CONNECTED_UNREGISTERED"
	case StateRegistered:
		return "REGISTERED"
	case StateFailed:
		return "FAILED"
	case StateClosed:
		return "CLOSED"
	default:
		return "UNKNOWN"
	}
}

// Connected reports whether a connection handle is open in this state.
func (s SessionState) Connected() bool {
	return s == StateConnectedUnregistered || s == StateRegistered
}

func (s SessionState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}
