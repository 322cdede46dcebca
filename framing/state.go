package framing

// ConnState is the per-connection state machine driven by the handshake
// and receive loop (spec.md §4.6):
//
//	NEW --accept--> HANDSHAKING --valid-name--> ACTIVE --peer-close--> CLOSED
//	                     |                         |
//	                     +--ascii-invalid----------+--write-error--> CLOSED
type ConnState uint8

const (
	StateNew ConnState = iota
	StateHandshaking
	StateActive
	StateClosed
)

func (s ConnState) String() string {
	switch s {
	case StateNew:
		return "NEW"
	case StateHandshaking:
		return "HANDSHAKING"
	case StateActive:
		return "ACTIVE"
	case StateClosed:
		return "CLOSED"
	default:
		return "UNKNOWN"
	}
}
