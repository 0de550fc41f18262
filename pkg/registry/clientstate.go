package registry

import "sync/atomic"

// ClientState tracks the handshake progress of a dialed link. It is
// written only by the coordinator state machine; readers see atomic
// snapshots (spec.md §5).
type ClientState int32

const (
	// Unconfirmed is the initial state of a freshly dialed link.
	Unconfirmed ClientState = iota
	// Confirmed means the server replied Confirm(true); the client still
	// owes the server an ack and its own clients a Switch.
	Confirmed
	// Failed means the server replied Confirm(false); the link will be
	// disconnected on the next discover() tick.
	Failed
	// Connected means confirmation finalization has completed.
	Connected
)

// String renders the state for logs and diagnostics.
func (s ClientState) String() string {
	switch s {
	case Unconfirmed:
		return "Unconfirmed"
	case Confirmed:
		return "Confirmed"
	case Failed:
		return "Failed"
	case Connected:
		return "Connected"
	default:
		return "Unknown"
	}
}

// AtomicClientState is a ClientState guarded by atomic loads/stores so it
// can be written from the driver thread or the unique dialer's on-data
// handler and read from anywhere without a lock.
type AtomicClientState struct {
	v atomic.Int32
}

// NewAtomicClientState returns a state initialized to Unconfirmed.
func NewAtomicClientState() *AtomicClientState {
	s := &AtomicClientState{}
	s.Store(Unconfirmed)
	return s
}

// Store atomically sets the state.
func (s *AtomicClientState) Store(v ClientState) {
	s.v.Store(int32(v))
}

// Load atomically reads the state.
func (s *AtomicClientState) Load() ClientState {
	return ClientState(s.v.Load())
}
