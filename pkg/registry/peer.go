package registry

// Peer is a single entry in a PeerRegistry: a host, how it was learned, and
// the time since it was last refreshed.
type Peer struct {
	Host   Host
	Source Source
	AgeMs  uint32
}

// IsClient reports whether this peer is a confirmed client of ours.
func (p Peer) IsClient() bool { return p.Source == Client }

// IsUnresolved reports whether this peer has no resolved host yet.
func (p Peer) IsUnresolved() bool { return p.Source == Unresolved }
