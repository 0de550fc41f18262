package registry

import (
	"sort"
	"sync"
)

// PeerRegistry is a name-ordered (ascending, byte comparison), TTL-pruned
// set of known peers. A single instance is shared by ingress handlers
// (multiple writers) and the discovery step (one reader, occasional
// writer); the mutex below serializes all of that.
type PeerRegistry struct {
	mu    sync.Mutex
	peers []Peer
}

// New returns an empty registry.
func New() *PeerRegistry {
	return &PeerRegistry{}
}

// Add inserts p, or, if a peer with the same name already exists, updates
// its port, source, and age (age becomes the minimum of the existing and
// incoming age — a refresh from a stale gossip message cannot age a peer,
// only rejuvenate it). Insertion preserves ascending name order.
func (r *PeerRegistry) Add(p Peer) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := sort.Search(len(r.peers), func(i int) bool {
		return r.peers[i].Host.Name() >= p.Host.Name()
	})

	if i < len(r.peers) && r.peers[i].Host.Name() == p.Host.Name() {
		existing := r.peers[i]
		age := p.AgeMs
		if existing.AgeMs < age {
			age = existing.AgeMs
		}
		r.peers[i] = Peer{
			Host:   existing.Host.UpdatePort(p.Host.Port()),
			Source: p.Source,
			AgeMs:  age,
		}
		return
	}

	r.peers = append(r.peers, Peer{})
	copy(r.peers[i+1:], r.peers[i:])
	r.peers[i] = p
}

// Advance increments every peer's age by dtMs.
func (r *PeerRegistry) Advance(dtMs uint32) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.peers {
		r.peers[i].AgeMs += dtMs
	}
}

// Prune removes every peer whose age has reached or exceeded maxAgeMs.
func (r *PeerRegistry) Prune(maxAgeMs uint32) {
	r.mu.Lock()
	defer r.mu.Unlock()

	kept := r.peers[:0]
	for _, p := range r.peers {
		if p.AgeMs < maxAgeMs {
			kept = append(kept, p)
		}
	}
	r.peers = kept
}

// Snapshot returns an independent copy of the registry's current contents,
// in ascending name order.
func (r *PeerRegistry) Snapshot() []Peer {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]Peer, len(r.peers))
	copy(out, r.peers)
	return out
}

// Len returns the number of peers currently registered.
func (r *PeerRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.peers)
}
