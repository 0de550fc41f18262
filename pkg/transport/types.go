// Package transport implements the WebSocket listener/dialer pair that
// carries framed coordinator-control and payload traffic (spec.md §4.4).
package transport

import "github.com/google/uuid"

// ConnectionID opaquely identifies one inbound link accepted by a
// Listener. It is stable for the lifetime of the connection.
type ConnectionID string

func newConnectionID() ConnectionID {
	return ConnectionID(uuid.NewString())
}
