package registry

// Source describes how a Peer entry was learned.
type Source uint8

const (
	// Unresolved: name observed via discovery but no resolved host yet.
	Unresolved Source = iota
	// Discovered: resolved via discovery.
	Discovered
	// Client: learned because it pinged us as our client.
	Client
	// Server: the peer we are currently a client of.
	Server
	// Remote: learned via gossip (the Peers control message).
	Remote
)

// String renders the source for logs and diagnostics.
func (s Source) String() string {
	switch s {
	case Unresolved:
		return "Unresolved"
	case Discovered:
		return "Discovered"
	case Client:
		return "Client"
	case Server:
		return "Server"
	case Remote:
		return "Remote"
	default:
		return "Unknown"
	}
}
